package validation

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/user/yamdb/internal/apperr"
)

const (
	MaxNameLength = 256
	MaxSlugLength = 50
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// ValidateYear 年份不能为负数，也不能晚于当前年份
func ValidateYear(year int, now time.Time) error {
	current := now.Year()
	if year < 0 || year > current {
		return apperr.Validation(apperr.YearOutOfRange, "year",
			fmt.Sprintf("年份必须在 0 到 %d 之间", current))
	}
	return nil
}

// ValidateName 校验作品/分类/类型名称
func ValidateName(name string) error {
	if name == "" {
		return apperr.Validation(apperr.Required, "name", "名称不能为空")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return apperr.Validation(apperr.TooLong, "name", "名称不能超过 256 个字符")
	}
	return nil
}

// ValidateSlug 校验 slug
func ValidateSlug(slug string) error {
	if slug == "" {
		return apperr.Validation(apperr.Required, "slug", "slug 不能为空")
	}
	if len(slug) > MaxSlugLength {
		return apperr.Validation(apperr.TooLong, "slug", "slug 不能超过 50 个字符")
	}
	if !slugPattern.MatchString(slug) {
		return apperr.Validation(apperr.InvalidSlug, "slug", "slug 只能包含字母、数字、下划线和连字符")
	}
	return nil
}

// IsSlug 供 gin binding 使用
func IsSlug(s string) bool {
	return s != "" && len(s) <= MaxSlugLength && slugPattern.MatchString(s)
}
