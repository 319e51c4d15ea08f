package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/user/yamdb/internal/apperr"
	"gorm.io/gorm"
)

// SlugRepository 类型/分类这类以 slug 标识的字典表
type SlugRepository[T any] struct {
	db       *gorm.DB
	resource string
}

func NewSlugRepository[T any](db *gorm.DB, resource string) *SlugRepository[T] {
	return &SlugRepository[T]{db: db, resource: resource}
}

// List 列表，search 按名称模糊匹配
func (r *SlugRepository[T]) List(ctx context.Context, search string, limit, offset int) ([]T, int64, error) {
	q := r.db.WithContext(ctx).Model(new(T))
	if search = strings.TrimSpace(search); search != "" {
		q = q.Where("name ILIKE ?", "%"+escapeLike(search)+"%")
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	items := make([]T, 0)
	err := q.Order("id ASC").Limit(limit).Offset(offset).Find(&items).Error
	return items, count, err
}

// FindBySlug 根据 slug 查找，不存在返回 NotFoundError
func (r *SlugRepository[T]) FindBySlug(ctx context.Context, slug string) (*T, error) {
	var item T
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(r.resource, slug)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindBySlugs 批量查找，任一 slug 不存在都返回校验错误
func (r *SlugRepository[T]) FindBySlugs(ctx context.Context, field string, slugs []string) ([]T, error) {
	uniq := make([]string, 0, len(slugs))
	seen := make(map[string]bool, len(slugs))
	for _, s := range slugs {
		if !seen[s] {
			seen[s] = true
			uniq = append(uniq, s)
		}
	}

	items := make([]T, 0, len(uniq))
	if err := r.db.WithContext(ctx).Where("slug IN ?", uniq).Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) != len(uniq) {
		return nil, apperr.Validation(apperr.InvalidSlug, field, "包含不存在的 slug")
	}
	return items, nil
}

// Create 创建
func (r *SlugRepository[T]) Create(ctx context.Context, item *T) error {
	return translate(r.db.WithContext(ctx).Create(item).Error)
}

// DeleteBySlug 删除，不存在返回 NotFoundError
func (r *SlugRepository[T]) DeleteBySlug(ctx context.Context, slug string) error {
	res := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(r.resource, slug)
	}
	return nil
}
