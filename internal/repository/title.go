package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/user/yamdb/internal/apperr"
	"github.com/user/yamdb/internal/model"
	"gorm.io/gorm"
)

// TitleFilter 作品列表过滤条件
type TitleFilter struct {
	Genre    string
	Category string
	Year     *int
	Name     string
}

type TitleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) *TitleRepository {
	return &TitleRepository{db: db}
}

// withRating 带上评分（评论平均分）
func (r *TitleRepository) withRating(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Title{}).
		Select("titles.*, AVG(reviews.score)::float8 AS rating").
		Joins("LEFT JOIN reviews ON reviews.title_id = titles.id").
		Group("titles.id")
}

func (r *TitleRepository) applyFilter(q *gorm.DB, f TitleFilter) *gorm.DB {
	if f.Genre != "" {
		q = q.Where("titles.id IN (?)", r.db.Table("genre_titles").
			Select("genre_titles.title_id").
			Joins("JOIN genres ON genres.id = genre_titles.genre_id").
			Where("genres.slug = ?", f.Genre))
	}
	if f.Category != "" {
		q = q.Where("titles.category_id IN (?)", r.db.Table("categories").
			Select("id").
			Where("slug = ?", f.Category))
	}
	if f.Year != nil {
		q = q.Where("titles.year = ?", *f.Year)
	}
	if f.Name != "" {
		q = q.Where("titles.name = ?", f.Name)
	}
	return q
}

// List 作品列表
func (r *TitleRepository) List(ctx context.Context, f TitleFilter, limit, offset int) ([]*model.Title, int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&model.Title{}), f).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var titles []*model.Title
	err := r.applyFilter(r.withRating(ctx), f).
		Preload("Genres").
		Preload("Category").
		Order("titles.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&titles).Error
	return titles, count, err
}

// FindByID 作品详情，不存在返回 NotFoundError
func (r *TitleRepository) FindByID(ctx context.Context, id uint) (*model.Title, error) {
	var title model.Title
	err := r.withRating(ctx).
		Preload("Genres").
		Preload("Category").
		Where("titles.id = ?", id).
		Take(&title).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("title", strconv.FormatUint(uint64(id), 10))
	}
	if err != nil {
		return nil, err
	}
	return &title, nil
}

// Exists 作品是否存在
func (r *TitleRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Title{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Create 创建作品及类型关联
func (r *TitleRepository) Create(ctx context.Context, t *model.Title) error {
	return r.db.WithContext(ctx).Omit("Genres.*", "Category").Create(t).Error
}

// Update 更新作品字段；genres 非 nil 时替换类型关联
func (r *TitleRepository) Update(ctx context.Context, t *model.Title, genres []model.Genre) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Title{ID: t.ID}).
			Select("name", "year", "description", "category_id").
			Updates(t).Error
		if err != nil {
			return err
		}
		if genres != nil {
			return tx.Model(&model.Title{ID: t.ID}).Omit("Genres.*").Association("Genres").Replace(genres)
		}
		return nil
	})
}

// Delete 删除作品，评论和回复级联删除
func (r *TitleRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Title{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("title", strconv.FormatUint(uint64(id), 10))
	}
	return nil
}
