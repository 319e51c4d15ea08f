// Package apperr 定义业务层统一使用的错误类型。
//
// 错误都在本地检测，核心层不做任何重试，由调用方（HTTP 层）决定如何呈现。
package apperr

import (
	"errors"
	"fmt"
)

// ValidationCode 校验失败的具体原因
type ValidationCode string

const (
	ReservedName      ValidationCode = "reserved_name"
	InvalidCharacters ValidationCode = "invalid_characters"
	TooLong           ValidationCode = "too_long"
	Required          ValidationCode = "required"
	InvalidEmail      ValidationCode = "invalid_email"
	BadCode           ValidationCode = "bad_code"
	CodeExpired       ValidationCode = "code_expired"
	YearOutOfRange    ValidationCode = "year_out_of_range"
	ScoreOutOfRange   ValidationCode = "score_out_of_range"
	DuplicateReview   ValidationCode = "duplicate_review"
	InvalidSlug       ValidationCode = "invalid_slug"
	InvalidRole       ValidationCode = "invalid_role"
	Invalid           ValidationCode = "invalid"
)

// ValidationError 输入格式或内容不合法
type ValidationError struct {
	Code    ValidationCode
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed (%s): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("validation failed on %s (%s): %s", e.Field, e.Code, e.Message)
}

// Validation 创建校验错误
func Validation(code ValidationCode, field, message string) *ValidationError {
	return &ValidationError{Code: code, Field: field, Message: message}
}

// ConflictCode 冲突类型
type ConflictCode string

const (
	UsernameTaken ConflictCode = "username_taken"
	EmailTaken    ConflictCode = "email_taken"
	SlugTaken     ConflictCode = "slug_taken"
	AccountExists ConflictCode = "account_exists"
	Duplicate     ConflictCode = "duplicate"
)

// ConflictError 用户名/邮箱等唯一字段冲突
type ConflictError struct {
	Code    ConflictCode
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict (%s): %s", e.Code, e.Message)
}

// Conflict 创建冲突错误
func Conflict(code ConflictCode, message string) *ConflictError {
	return &ConflictError{Code: code, Message: message}
}

// NotFoundError 资源不存在
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// NotFound 创建资源不存在错误
func NotFound(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

// AuthorizationError 权限校验拒绝
type AuthorizationError struct {
	Action    string
	Kind      string
	Anonymous bool
}

func (e *AuthorizationError) Error() string {
	if e.Anonymous {
		return fmt.Sprintf("%s on %s requires authentication", e.Action, e.Kind)
	}
	return fmt.Sprintf("%s on %s is not permitted", e.Action, e.Kind)
}

// IsValidation 判断是否为校验错误，可选匹配具体原因
func IsValidation(err error, codes ...ValidationCode) bool {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	if len(codes) == 0 {
		return true
	}
	for _, c := range codes {
		if ve.Code == c {
			return true
		}
	}
	return false
}

// IsConflict 判断是否为冲突错误，可选匹配具体原因
func IsConflict(err error, codes ...ConflictCode) bool {
	var ce *ConflictError
	if !errors.As(err, &ce) {
		return false
	}
	if len(codes) == 0 {
		return true
	}
	for _, c := range codes {
		if ce.Code == c {
			return true
		}
	}
	return false
}

// IsNotFound 判断是否为资源不存在
func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}

// IsAuthorization 判断是否为权限拒绝
func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}
