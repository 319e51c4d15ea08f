// Package validation 实现账号字段、评分、年份等纯校验规则。
//
// 所有函数无 I/O、结果确定，由各业务流程显式调用。
package validation

import (
	"regexp"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/user/yamdb/internal/apperr"
)

// ReservedUsername 保留给个人资料路径的用户名
const ReservedUsername = "me"

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	validate        = validator.New(validator.WithRequiredStructEnabled())
)

// Limits 字段最大长度
type Limits struct {
	Username         int
	Email            int
	ConfirmationCode int
	Name             int
}

// DefaultLimits 默认长度限制
func DefaultLimits() Limits {
	return Limits{
		Username:         150,
		Email:            254,
		ConfirmationCode: 16,
		Name:             150,
	}
}

// ValidateAccountFields 校验注册/修改资料时提交的用户名和邮箱
func ValidateAccountFields(username, email string, limits Limits) error {
	if err := ValidateUsername(username, limits); err != nil {
		return err
	}
	return ValidateEmail(email, limits)
}

// ValidateUsername 校验用户名
func ValidateUsername(username string, limits Limits) error {
	if username == "" {
		return apperr.Validation(apperr.Required, "username", "用户名不能为空")
	}
	if username == ReservedUsername {
		return apperr.Validation(apperr.ReservedName, "username", "不允许使用该用户名")
	}
	if !usernamePattern.MatchString(username) {
		return apperr.Validation(apperr.InvalidCharacters, "username", "用户名包含非法字符")
	}
	if limits.Username > 0 && utf8.RuneCountInString(username) > limits.Username {
		return apperr.Validation(apperr.TooLong, "username", "用户名过长")
	}
	return nil
}

// ValidateEmail 校验邮箱
func ValidateEmail(email string, limits Limits) error {
	if email == "" {
		return apperr.Validation(apperr.Required, "email", "邮箱不能为空")
	}
	if limits.Email > 0 && utf8.RuneCountInString(email) > limits.Email {
		return apperr.Validation(apperr.TooLong, "email", "邮箱过长")
	}
	if err := validate.Var(email, "email"); err != nil {
		return apperr.Validation(apperr.InvalidEmail, "email", "请输入有效的邮箱地址")
	}
	return nil
}

// ValidateConfirmationCode 校验换取 Token 时提交的确认码格式
func ValidateConfirmationCode(code string, limits Limits) error {
	if code == "" {
		return apperr.Validation(apperr.Required, "confirmation_code", "确认码不能为空")
	}
	if limits.ConfirmationCode > 0 && utf8.RuneCountInString(code) > limits.ConfirmationCode {
		return apperr.Validation(apperr.TooLong, "confirmation_code", "确认码过长")
	}
	return nil
}

// ValidatePersonName 校验 first_name / last_name
func ValidatePersonName(field, value string, limits Limits) error {
	if limits.Name > 0 && utf8.RuneCountInString(value) > limits.Name {
		return apperr.Validation(apperr.TooLong, field, "字段过长")
	}
	return nil
}
