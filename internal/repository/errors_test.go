package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/user/yamdb/internal/apperr"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}
	wrapped := fmt.Errorf("insert: %w", dup)

	assert.True(t, isUniqueViolation(dup))
	assert.True(t, isUniqueViolation(wrapped))
	assert.Equal(t, "idx_users_email", constraintName(wrapped))

	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("plain")))
	assert.Empty(t, constraintName(errors.New("plain")))
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		constraint string
		want       apperr.ConflictCode
	}{
		{"idx_users_email", apperr.EmailTaken},
		{"idx_users_username", apperr.UsernameTaken},
		{"idx_genres_slug", apperr.SlugTaken},
		{"idx_review_author_title", apperr.Duplicate},
	}
	for _, tt := range tests {
		err := translate(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})
		assert.True(t, apperr.IsConflict(err, tt.want), "%s: %v", tt.constraint, err)
	}

	other := errors.New("connection reset")
	assert.Same(t, other, translate(other))
	assert.NoError(t, translate(nil))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
}
