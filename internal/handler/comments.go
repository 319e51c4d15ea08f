package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/yamdb/internal/middleware"
	"github.com/user/yamdb/internal/model"
	"github.com/user/yamdb/internal/utils"
)

type commentView struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

func newCommentView(cm *model.Comment) commentView {
	return commentView{
		ID:      cm.ID,
		Text:    cm.Text,
		Author:  cm.Author.Username,
		PubDate: cm.PubDate,
	}
}

type commentRequest struct {
	Text string `json:"text"`
}

type commentPatchRequest struct {
	Text *string `json:"text"`
}

func (h *Handler) commentParam(c *gin.Context) (*model.Comment, error) {
	r, err := h.reviewParam(c)
	if err != nil {
		return nil, err
	}
	id, err := paramID(c, "comment_id", "comment")
	if err != nil {
		return nil, err
	}
	return h.Repos.Comment.FindByID(c.Request.Context(), r.ID, id)
}

// ListComments 评论下的回复列表
func (h *Handler) ListComments(c *gin.Context) {
	r, err := h.reviewParam(c)
	if err != nil {
		fail(c, err)
		return
	}

	p := h.pageParams(c)
	comments, count, err := h.Repos.Comment.ListByReview(c.Request.Context(), r.ID, p.limit(), p.offset())
	if err != nil {
		fail(c, err)
		return
	}

	views := make([]commentView, 0, len(comments))
	for _, cm := range comments {
		views = append(views, newCommentView(cm))
	}
	utils.Success(c, paginate(c, p, count, views))
}

// GetComment 回复详情
func (h *Handler) GetComment(c *gin.Context) {
	cm, err := h.commentParam(c)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, newCommentView(cm))
}

// CreateComment 发表回复
func (h *Handler) CreateComment(c *gin.Context) {
	r, err := h.reviewParam(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	cm, err := h.Reviews.CreateComment(c.Request.Context(), middleware.GetActor(c), r.ID, req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	if u := middleware.GetUser(c); u != nil {
		cm.Author = *u
	}
	utils.Created(c, newCommentView(cm))
}

// UpdateComment 修改回复
func (h *Handler) UpdateComment(c *gin.Context) {
	cm, err := h.commentParam(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req commentPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	updated, err := h.Reviews.UpdateComment(c.Request.Context(), middleware.GetActor(c), cm, req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, newCommentView(updated))
}

// DeleteComment 删除回复
func (h *Handler) DeleteComment(c *gin.Context) {
	cm, err := h.commentParam(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.Reviews.DeleteComment(c.Request.Context(), middleware.GetActor(c), cm); err != nil {
		fail(c, err)
		return
	}
	utils.NoContent(c)
}
