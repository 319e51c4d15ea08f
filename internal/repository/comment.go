package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/user/yamdb/internal/apperr"
	"github.com/user/yamdb/internal/model"
	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// ListByReview 评论下的回复，按发布时间倒序
func (r *CommentRepository) ListByReview(ctx context.Context, reviewID uint, limit, offset int) ([]*model.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Comment{}).Where("review_id = ?", reviewID)

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var comments []*model.Comment
	err := q.Preload("Author").
		Order("pub_date DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	return comments, count, err
}

// FindByID 查找评论下的某条回复
func (r *CommentRepository) FindByID(ctx context.Context, reviewID, id uint) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).Preload("Author").
		Where("id = ? AND review_id = ?", id, reviewID).
		First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("comment", strconv.FormatUint(uint64(id), 10))
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// CreateComment 创建回复
func (r *CommentRepository) CreateComment(ctx context.Context, c *model.Comment) error {
	return r.db.WithContext(ctx).Omit("Author", "Review").Create(c).Error
}

// SaveComment 更新回复文本
func (r *CommentRepository) SaveComment(ctx context.Context, c *model.Comment) error {
	return r.db.WithContext(ctx).Model(&model.Comment{ID: c.ID}).Update("text", c.Text).Error
}

// DeleteComment 删除回复
func (r *CommentRepository) DeleteComment(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Comment{}, id).Error
}
