package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/yamdb/internal/handler"
	"github.com/user/yamdb/internal/middleware"
	"github.com/user/yamdb/internal/permission"
	"github.com/user/yamdb/internal/utils"
)

// RegisterRoutes 注册所有路由。authenticate 解析令牌并写入操作者身份
func RegisterRoutes(r *gin.Engine, h *handler.Handler, authenticate gin.HandlerFunc) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.HandleMethodNotAllowed = true
	r.NoRoute(func(c *gin.Context) {
		utils.NotFound(c, "")
	})
	r.NoMethod(func(c *gin.Context) {
		utils.Error(c, http.StatusMethodNotAllowed, "不支持的请求方法")
	})

	api := r.Group("/api/v1")
	api.Use(authenticate)

	// ==================== 注册与令牌 ====================
	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/token", h.Token)
	}

	// ==================== 个人资料 ====================
	me := api.Group("/users/me")
	me.Use(middleware.RequireAuth())
	{
		me.GET("", h.Me)
		me.PATCH("", h.UpdateMe)
	}

	// ==================== 账号管理（管理员）====================
	users := api.Group("/users")
	{
		users.GET("", middleware.Permit(permission.Account, permission.List), h.ListUsers)
		users.POST("", middleware.Permit(permission.Account, permission.Create), h.CreateUser)
		users.GET("/:username", middleware.Permit(permission.Account, permission.Retrieve), h.GetUser)
		users.PATCH("/:username", middleware.Permit(permission.Account, permission.Update), h.UpdateUser)
		users.DELETE("/:username", middleware.Permit(permission.Account, permission.Delete), h.DeleteUser)
	}

	// ==================== 类型 / 分类 ====================
	genres := api.Group("/genres")
	{
		genres.GET("", h.ListGenres)
		genres.POST("", middleware.Permit(permission.Genre, permission.Create), h.CreateGenre)
		genres.DELETE("/:slug", middleware.Permit(permission.Genre, permission.Delete), h.DeleteGenre)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.POST("", middleware.Permit(permission.Category, permission.Create), h.CreateCategory)
		categories.DELETE("/:slug", middleware.Permit(permission.Category, permission.Delete), h.DeleteCategory)
	}

	// ==================== 作品 ====================
	titles := api.Group("/titles")
	{
		titles.GET("", h.ListTitles)
		titles.POST("", middleware.Permit(permission.Title, permission.Create), h.CreateTitle)
		titles.GET("/:title_id", h.GetTitle)
		titles.PATCH("/:title_id", middleware.Permit(permission.Title, permission.Update), h.UpdateTitle)
		titles.DELETE("/:title_id", middleware.Permit(permission.Title, permission.Delete), h.DeleteTitle)
	}

	// ==================== 评论 / 回复（作者权限在服务层判定）====================
	// 写操作先拒绝匿名请求，再查父资源和解析请求体
	authed := middleware.RequireAuth()

	reviews := titles.Group("/:title_id/reviews")
	{
		reviews.GET("", h.ListReviews)
		reviews.POST("", authed, h.CreateReview)
		reviews.GET("/:review_id", h.GetReview)
		reviews.PATCH("/:review_id", authed, h.UpdateReview)
		reviews.DELETE("/:review_id", authed, h.DeleteReview)
	}

	comments := reviews.Group("/:review_id/comments")
	{
		comments.GET("", h.ListComments)
		comments.POST("", authed, h.CreateComment)
		comments.GET("/:comment_id", h.GetComment)
		comments.PATCH("/:comment_id", authed, h.UpdateComment)
		comments.DELETE("/:comment_id", authed, h.DeleteComment)
	}
}
