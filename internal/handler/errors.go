package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/user/yamdb/internal/apperr"
	"github.com/user/yamdb/internal/logging"
	"github.com/user/yamdb/internal/utils"
)

// fail 将业务错误映射为 HTTP 响应
func fail(c *gin.Context, err error) {
	var (
		ve   *apperr.ValidationError
		ce   *apperr.ConflictError
		ne   *apperr.NotFoundError
		ae   *apperr.AuthorizationError
		verr validator.ValidationErrors
	)

	switch {
	case errors.As(err, &ve):
		utils.ErrorWithData(c, http.StatusBadRequest, ve.Message, gin.H{"field": ve.Field, "code": ve.Code})
	case errors.As(err, &ce):
		utils.ErrorWithData(c, http.StatusBadRequest, ce.Message, gin.H{"code": ce.Code})
	case errors.As(err, &ne):
		utils.NotFound(c, "")
	case errors.As(err, &ae):
		if ae.Anonymous {
			utils.Unauthorized(c, "")
		} else {
			utils.Forbidden(c, "")
		}
	case errors.As(err, &verr):
		fe := verr[0]
		utils.ErrorWithData(c, http.StatusBadRequest, "参数格式错误", gin.H{
			"field": strings.ToLower(fe.Field()),
			"code":  apperr.Invalid,
		})
	default:
		logging.FromContext(c.Request.Context()).Error("请求处理失败",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		utils.InternalServerError(c, "")
	}
}

// badJSON 请求体无法解析
func badJSON(c *gin.Context, err error) {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		fail(c, err)
		return
	}
	utils.BadRequest(c, "请求格式错误")
}
