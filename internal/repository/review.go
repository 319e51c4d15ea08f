package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/user/yamdb/internal/apperr"
	"github.com/user/yamdb/internal/model"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// ListByTitle 作品下的评论，按发布时间倒序
func (r *ReviewRepository) ListByTitle(ctx context.Context, titleID uint, limit, offset int) ([]*model.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Review{}).Where("title_id = ?", titleID)

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var reviews []*model.Review
	err := q.Preload("Author").
		Order("pub_date DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	return reviews, count, err
}

// FindByID 查找作品下的某条评论，不属于该作品视为不存在
func (r *ReviewRepository) FindByID(ctx context.Context, titleID, id uint) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).Preload("Author").
		Where("id = ? AND title_id = ?", id, titleID).
		First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("review", strconv.FormatUint(uint64(id), 10))
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ExistsReview 同一作者是否已评价过该作品
func (r *ReviewRepository) ExistsReview(ctx context.Context, authorID, titleID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Where("author_id = ? AND title_id = ?", authorID, titleID).
		Count(&count).Error
	return count > 0, err
}

// CreateReview 创建评论
func (r *ReviewRepository) CreateReview(ctx context.Context, review *model.Review) error {
	return translate(r.db.WithContext(ctx).Omit("Author", "Title").Create(review).Error)
}

// SaveReview 更新文本和评分
func (r *ReviewRepository) SaveReview(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Model(&model.Review{ID: review.ID}).
		Updates(map[string]interface{}{
			"text":  review.Text,
			"score": review.Score,
		}).Error
}

// DeleteReview 删除评论
func (r *ReviewRepository) DeleteReview(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Review{}, id).Error
}
