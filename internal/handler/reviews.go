package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/yamdb/internal/apperr"
	"github.com/user/yamdb/internal/middleware"
	"github.com/user/yamdb/internal/model"
	"github.com/user/yamdb/internal/service"
	"github.com/user/yamdb/internal/utils"
)

type reviewView struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

func newReviewView(r *model.Review) reviewView {
	return reviewView{
		ID:      r.ID,
		Text:    r.Text,
		Author:  r.Author.Username,
		Score:   r.Score,
		PubDate: r.PubDate,
	}
}

type reviewRequest struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

type reviewPatchRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

// titleParam 解析 title_id 并确认作品存在
func (h *Handler) titleParam(c *gin.Context) (uint, error) {
	id, err := paramID(c, "title_id", "title")
	if err != nil {
		return 0, err
	}
	ok, err := h.Catalog.TitleExists(c.Request.Context(), id)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, apperr.NotFound("title", c.Param("title_id"))
	}
	return id, nil
}

// reviewParam 读取作品下的评论，不属于该作品视为不存在
func (h *Handler) reviewParam(c *gin.Context) (*model.Review, error) {
	titleID, err := h.titleParam(c)
	if err != nil {
		return nil, err
	}
	id, err := paramID(c, "review_id", "review")
	if err != nil {
		return nil, err
	}
	return h.Repos.Review.FindByID(c.Request.Context(), titleID, id)
}

// ListReviews 作品下的评论列表
func (h *Handler) ListReviews(c *gin.Context) {
	titleID, err := h.titleParam(c)
	if err != nil {
		fail(c, err)
		return
	}

	p := h.pageParams(c)
	reviews, count, err := h.Repos.Review.ListByTitle(c.Request.Context(), titleID, p.limit(), p.offset())
	if err != nil {
		fail(c, err)
		return
	}

	views := make([]reviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, newReviewView(r))
	}
	utils.Success(c, paginate(c, p, count, views))
}

// GetReview 评论详情
func (h *Handler) GetReview(c *gin.Context) {
	r, err := h.reviewParam(c)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, newReviewView(r))
}

// CreateReview 发表评论，每个作者对每部作品只能评价一次
func (h *Handler) CreateReview(c *gin.Context) {
	titleID, err := h.titleParam(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	r, err := h.Reviews.CreateReview(c.Request.Context(), middleware.GetActor(c), titleID, req.Text, req.Score)
	if err != nil {
		fail(c, err)
		return
	}
	h.Catalog.InvalidateTitle(titleID)

	if u := middleware.GetUser(c); u != nil {
		r.Author = *u
	}
	utils.Created(c, newReviewView(r))
}

// UpdateReview 修改评论
func (h *Handler) UpdateReview(c *gin.Context) {
	r, err := h.reviewParam(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req reviewPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	updated, err := h.Reviews.UpdateReview(c.Request.Context(), middleware.GetActor(c), r, service.ReviewPatch{
		Text:  req.Text,
		Score: req.Score,
	})
	if err != nil {
		fail(c, err)
		return
	}
	h.Catalog.InvalidateTitle(r.TitleID)
	utils.Success(c, newReviewView(updated))
}

// DeleteReview 删除评论
func (h *Handler) DeleteReview(c *gin.Context) {
	r, err := h.reviewParam(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.Reviews.DeleteReview(c.Request.Context(), middleware.GetActor(c), r); err != nil {
		fail(c, err)
		return
	}
	h.Catalog.InvalidateTitle(r.TitleID)
	utils.NoContent(c)
}
