package handler

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/user/yamdb/internal/validation"
)

// RegisterValidators 注册 gin 绑定使用的自定义校验标签 slug。
// 用户名不走绑定标签，由账号服务返回具体错误码（reserved_name 等）
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return validation.IsSlug(fl.Field().String())
	})
}
