package validation

import (
	"context"

	"github.com/user/yamdb/internal/apperr"
)

const (
	MinScore = 1
	MaxScore = 10
)

// ReviewLookup 查询 (author, title) 是否已有评论
type ReviewLookup interface {
	ExistsReview(ctx context.Context, authorID, titleID uint) (bool, error)
}

// ValidateScore 评分必须在 [1, 10] 之间，创建与更新都要检查
func ValidateScore(score int) error {
	if score < MinScore || score > MaxScore {
		return apperr.Validation(apperr.ScoreOutOfRange, "score", "评分必须在 1 到 10 之间")
	}
	return nil
}

// CanCreateReview 同一作者对同一作品只能有一条评论，仅在创建时检查
func CanCreateReview(ctx context.Context, lookup ReviewLookup, authorID, titleID uint, isUpdate bool) (bool, error) {
	if isUpdate {
		return true, nil
	}
	exists, err := lookup.ExistsReview(ctx, authorID, titleID)
	if err != nil {
		return false, err
	}
	return !exists, nil
}
