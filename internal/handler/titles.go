package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/yamdb/internal/model"
	"github.com/user/yamdb/internal/repository"
	"github.com/user/yamdb/internal/service"
	"github.com/user/yamdb/internal/utils"
)

// titleView 作品输出结构，rating 为平均分的整数部分
type titleView struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Year        int             `json:"year"`
	Rating      *int            `json:"rating"`
	Description string          `json:"description"`
	Genre       []model.Genre   `json:"genre"`
	Category    *model.Category `json:"category"`
}

func newTitleView(t *model.Title) titleView {
	genres := t.Genres
	if genres == nil {
		genres = []model.Genre{}
	}
	return titleView{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.RatingValue(),
		Description: t.Description,
		Genre:       genres,
		Category:    t.Category,
	}
}

type titleListQuery struct {
	Genre    string `form:"genre" binding:"omitempty,slug"`
	Category string `form:"category" binding:"omitempty,slug"`
	Year     *int   `form:"year"`
	Name     string `form:"name" binding:"omitempty,max=256"`
}

type titleRequest struct {
	Name        string   `json:"name"`
	Year        *int     `json:"year"`
	Description string   `json:"description"`
	Genre       []string `json:"genre" binding:"dive,slug"`
	Category    string   `json:"category"`
}

type titlePatchRequest struct {
	Name        *string  `json:"name"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre" binding:"omitempty,dive,slug"`
	Category    *string  `json:"category"`
}

// ListTitles 作品列表，支持 genre/category/year/name 过滤
func (h *Handler) ListTitles(c *gin.Context) {
	var q titleListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badJSON(c, err)
		return
	}

	p := h.pageParams(c)
	page, err := h.Catalog.ListTitles(c.Request.Context(), repository.TitleFilter{
		Genre:    q.Genre,
		Category: q.Category,
		Year:     q.Year,
		Name:     q.Name,
	}, p.limit(), p.offset())
	if err != nil {
		fail(c, err)
		return
	}

	views := make([]titleView, 0, len(page.Items))
	for _, t := range page.Items {
		views = append(views, newTitleView(t))
	}
	utils.Success(c, paginate(c, p, page.Count, views))
}

// GetTitle 作品详情
func (h *Handler) GetTitle(c *gin.Context) {
	id, err := paramID(c, "title_id", "title")
	if err != nil {
		fail(c, err)
		return
	}

	t, err := h.Catalog.GetTitle(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, newTitleView(t))
}

// CreateTitle 创建作品
func (h *Handler) CreateTitle(c *gin.Context) {
	var req titleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	t, err := h.Catalog.CreateTitle(c.Request.Context(), service.TitleInput{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Genre:       req.Genre,
		Category:    req.Category,
	})
	if err != nil {
		fail(c, err)
		return
	}
	utils.Created(c, newTitleView(t))
}

// UpdateTitle 部分更新作品
func (h *Handler) UpdateTitle(c *gin.Context) {
	id, err := paramID(c, "title_id", "title")
	if err != nil {
		fail(c, err)
		return
	}

	var req titlePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	t, err := h.Catalog.UpdateTitle(c.Request.Context(), id, service.TitlePatch{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Genre:       req.Genre,
		Category:    req.Category,
	})
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, newTitleView(t))
}

// DeleteTitle 删除作品，评论和回复级联删除
func (h *Handler) DeleteTitle(c *gin.Context) {
	id, err := paramID(c, "title_id", "title")
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.Catalog.DeleteTitle(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	utils.NoContent(c)
}
