package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/yamdb/internal/apperr"
	"github.com/user/yamdb/internal/config"
	"github.com/user/yamdb/internal/repository"
	"github.com/user/yamdb/internal/service"
)

// Handler HTTP 处理器
type Handler struct {
	Repos    *repository.Repositories
	Config   *config.Config
	Accounts *service.AccountService
	Reviews  *service.ReviewService
	Catalog  *service.CatalogService
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config, accounts *service.AccountService, reviews *service.ReviewService, catalog *service.CatalogService) *Handler {
	return &Handler{
		Repos:    repos,
		Config:   cfg,
		Accounts: accounts,
		Reviews:  reviews,
		Catalog:  catalog,
	}
}

// paramID 解析路径中的数字 ID，格式错误按资源不存在处理
func paramID(c *gin.Context, name, resource string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.NotFound(resource, raw)
	}
	return uint(id), nil
}
