package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/yamdb/internal/utils"
)

type slugRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type slugListQuery struct {
	Search string `form:"search" binding:"omitempty,max=256"`
}

// ==================== 类型 ====================

// ListGenres 类型列表
func (h *Handler) ListGenres(c *gin.Context) {
	var q slugListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badJSON(c, err)
		return
	}

	p := h.pageParams(c)
	page, err := h.Catalog.ListGenres(c.Request.Context(), q.Search, p.limit(), p.offset())
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, paginate(c, p, page.Count, page.Items))
}

// CreateGenre 创建类型
func (h *Handler) CreateGenre(c *gin.Context) {
	var req slugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	g, err := h.Catalog.CreateGenre(c.Request.Context(), req.Name, req.Slug)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Created(c, g)
}

// DeleteGenre 删除类型
func (h *Handler) DeleteGenre(c *gin.Context) {
	if err := h.Catalog.DeleteGenre(c.Request.Context(), c.Param("slug")); err != nil {
		fail(c, err)
		return
	}
	utils.NoContent(c)
}

// ==================== 分类 ====================

// ListCategories 分类列表
func (h *Handler) ListCategories(c *gin.Context) {
	var q slugListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badJSON(c, err)
		return
	}

	p := h.pageParams(c)
	page, err := h.Catalog.ListCategories(c.Request.Context(), q.Search, p.limit(), p.offset())
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, paginate(c, p, page.Count, page.Items))
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req slugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	cat, err := h.Catalog.CreateCategory(c.Request.Context(), req.Name, req.Slug)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Created(c, cat)
}

// DeleteCategory 删除分类
func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.Catalog.DeleteCategory(c.Request.Context(), c.Param("slug")); err != nil {
		fail(c, err)
		return
	}
	utils.NoContent(c)
}
