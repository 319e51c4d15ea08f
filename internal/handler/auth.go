package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/yamdb/internal/utils"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

// Signup 注册：生成确认码并通过通知渠道发送
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	res, err := h.Accounts.Signup(c.Request.Context(), req.Username, req.Email)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, res)
}

// Token 用确认码换取访问令牌
func (h *Handler) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	token, err := h.Accounts.Token(c.Request.Context(), req.Username, req.ConfirmationCode)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, gin.H{"token": token})
}
