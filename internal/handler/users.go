package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/yamdb/internal/apperr"
	"github.com/user/yamdb/internal/middleware"
	"github.com/user/yamdb/internal/model"
	"github.com/user/yamdb/internal/permission"
	"github.com/user/yamdb/internal/service"
	"github.com/user/yamdb/internal/utils"
)

type userRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

type userPatchRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

func (r userPatchRequest) patch() service.AccountPatch {
	return service.AccountPatch{
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Bio:       r.Bio,
		Role:      r.Role,
	}
}

type userListQuery struct {
	Search string `form:"search" binding:"omitempty,max=150"`
}

// ListUsers 账号列表（管理员）
func (h *Handler) ListUsers(c *gin.Context) {
	var q userListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badJSON(c, err)
		return
	}

	p := h.pageParams(c)
	users, count, err := h.Repos.User.List(c.Request.Context(), q.Search, p.limit(), p.offset())
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, paginate(c, p, count, users))
}

// CreateUser 管理员创建账号
func (h *Handler) CreateUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	u, err := h.Accounts.CreateAccount(c.Request.Context(), service.AccountInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      req.Role,
	})
	if err != nil {
		fail(c, err)
		return
	}
	utils.Created(c, u)
}

// GetUser 按用户名查看账号
func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.userByParam(c)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, u)
}

// UpdateUser 管理员修改账号，可修改角色
func (h *Handler) UpdateUser(c *gin.Context) {
	u, err := h.userByParam(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req userPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	updated, err := h.Accounts.UpdateAccount(c.Request.Context(), u, req.patch(), true)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, updated)
}

// DeleteUser 管理员删除账号
func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.Accounts.DeleteAccount(c.Request.Context(), c.Param("username")); err != nil {
		fail(c, err)
		return
	}
	// 账号的评论随之级联删除，作品评分需重新计算
	h.Catalog.InvalidateAllTitles()
	utils.NoContent(c)
}

// Me 查看个人资料
func (h *Handler) Me(c *gin.Context) {
	u, err := currentUser(c)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, u)
}

// UpdateMe 修改个人资料，角色只读
func (h *Handler) UpdateMe(c *gin.Context) {
	u, err := currentUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req userPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	updated, err := h.Accounts.UpdateAccount(c.Request.Context(), u, req.patch(), false)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, updated)
}

func (h *Handler) userByParam(c *gin.Context) (*model.User, error) {
	username := c.Param("username")
	u, err := h.Repos.User.FindByUsername(c.Request.Context(), username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user", username)
	}
	return u, nil
}

func currentUser(c *gin.Context) (*model.User, error) {
	actor := middleware.GetActor(c)
	u := middleware.GetUser(c)
	if !permission.AuthorizeSelf(actor) || u == nil {
		return nil, &apperr.AuthorizationError{Action: "retrieve", Kind: string(permission.Account), Anonymous: true}
	}
	return u, nil
}
