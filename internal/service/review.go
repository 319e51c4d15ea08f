package service

import (
	"context"
	"strings"
	"time"

	"github.com/user/yamdb/internal/apperr"
	"github.com/user/yamdb/internal/model"
	"github.com/user/yamdb/internal/permission"
	"github.com/user/yamdb/internal/validation"
)

// ReviewStore 评论存储
type ReviewStore interface {
	validation.ReviewLookup
	CreateReview(ctx context.Context, r *model.Review) error
	SaveReview(ctx context.Context, r *model.Review) error
	DeleteReview(ctx context.Context, id uint) error
}

// CommentStore 回复存储
type CommentStore interface {
	CreateComment(ctx context.Context, c *model.Comment) error
	SaveComment(ctx context.Context, c *model.Comment) error
	DeleteComment(ctx context.Context, id uint) error
}

// ReviewService 评论与回复的写操作，先鉴权再校验
type ReviewService struct {
	reviews  ReviewStore
	comments CommentStore
	now      func() time.Time
}

// NewReviewService 创建评论服务
func NewReviewService(reviews ReviewStore, comments CommentStore) *ReviewService {
	return &ReviewService{reviews: reviews, comments: comments, now: time.Now}
}

// ReviewPatch 部分更新
type ReviewPatch struct {
	Text  *string
	Score *int
}

// CreateReview 发表评论
func (s *ReviewService) CreateReview(ctx context.Context, actor permission.Actor, titleID uint, text string, score int) (*model.Review, error) {
	if err := permission.Check(permission.Operation{Actor: actor, Action: permission.Create, Kind: permission.Review}); err != nil {
		return nil, err
	}
	if err := requireText(text); err != nil {
		return nil, err
	}
	if err := validation.ValidateScore(score); err != nil {
		return nil, err
	}

	ok, err := validation.CanCreateReview(ctx, s.reviews, actor.AccountID, titleID, false)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, duplicateReview()
	}

	r := &model.Review{
		Text:     text,
		AuthorID: actor.AccountID,
		TitleID:  titleID,
		Score:    score,
		PubDate:  s.now(),
	}
	if err := s.reviews.CreateReview(ctx, r); err != nil {
		// 并发创建时由唯一索引兜底
		if apperr.IsConflict(err) {
			return nil, duplicateReview()
		}
		return nil, err
	}
	return r, nil
}

// UpdateReview 修改评论：作者本人、版主或管理员
func (s *ReviewService) UpdateReview(ctx context.Context, actor permission.Actor, r *model.Review, patch ReviewPatch) (*model.Review, error) {
	if err := permission.Check(permission.Operation{Actor: actor, Action: permission.Update, Kind: permission.Review, OwnerID: &r.AuthorID}); err != nil {
		return nil, err
	}

	updated := *r
	if patch.Text != nil {
		if err := requireText(*patch.Text); err != nil {
			return nil, err
		}
		updated.Text = *patch.Text
	}
	if patch.Score != nil {
		if err := validation.ValidateScore(*patch.Score); err != nil {
			return nil, err
		}
		updated.Score = *patch.Score
	}

	if err := s.reviews.SaveReview(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteReview 删除评论，回复级联删除
func (s *ReviewService) DeleteReview(ctx context.Context, actor permission.Actor, r *model.Review) error {
	if err := permission.Check(permission.Operation{Actor: actor, Action: permission.Delete, Kind: permission.Review, OwnerID: &r.AuthorID}); err != nil {
		return err
	}
	return s.reviews.DeleteReview(ctx, r.ID)
}

// CreateComment 发表回复
func (s *ReviewService) CreateComment(ctx context.Context, actor permission.Actor, reviewID uint, text string) (*model.Comment, error) {
	if err := permission.Check(permission.Operation{Actor: actor, Action: permission.Create, Kind: permission.Comment}); err != nil {
		return nil, err
	}
	if err := requireText(text); err != nil {
		return nil, err
	}

	c := &model.Comment{
		Text:     text,
		AuthorID: actor.AccountID,
		ReviewID: reviewID,
		PubDate:  s.now(),
	}
	if err := s.comments.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateComment 修改回复
func (s *ReviewService) UpdateComment(ctx context.Context, actor permission.Actor, c *model.Comment, text *string) (*model.Comment, error) {
	if err := permission.Check(permission.Operation{Actor: actor, Action: permission.Update, Kind: permission.Comment, OwnerID: &c.AuthorID}); err != nil {
		return nil, err
	}

	updated := *c
	if text != nil {
		if err := requireText(*text); err != nil {
			return nil, err
		}
		updated.Text = *text
	}
	if err := s.comments.SaveComment(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteComment 删除回复
func (s *ReviewService) DeleteComment(ctx context.Context, actor permission.Actor, c *model.Comment) error {
	if err := permission.Check(permission.Operation{Actor: actor, Action: permission.Delete, Kind: permission.Comment, OwnerID: &c.AuthorID}); err != nil {
		return err
	}
	return s.comments.DeleteComment(ctx, c.ID)
}

func requireText(text string) error {
	if strings.TrimSpace(text) == "" {
		return apperr.Validation(apperr.Required, "text", "内容不能为空")
	}
	return nil
}

func duplicateReview() error {
	return apperr.Validation(apperr.DuplicateReview, "title", "您已经评价过这部作品")
}
