package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/user/yamdb/internal/apperr"
)

func TestValidateYear(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		year int
		ok   bool
	}{
		{0, true},
		{1895, true},
		{2026, true},
		{2027, false},
		{-1, false},
	}
	for _, tt := range tests {
		err := ValidateYear(tt.year, now)
		if tt.ok {
			assert.NoError(t, err, "year %d", tt.year)
		} else {
			assert.True(t, apperr.IsValidation(err, apperr.YearOutOfRange), "year %d", tt.year)
		}
	}
}

func TestValidateSlug(t *testing.T) {
	assert.NoError(t, ValidateSlug("sci-fi_2"))
	assert.True(t, apperr.IsValidation(ValidateSlug(""), apperr.Required))
	assert.True(t, apperr.IsValidation(ValidateSlug("has space"), apperr.InvalidSlug))
	assert.True(t, apperr.IsValidation(ValidateSlug(strings.Repeat("s", 51)), apperr.TooLong))

	assert.True(t, IsSlug("drama"))
	assert.False(t, IsSlug("dra/ma"))
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Фильм"))
	assert.True(t, apperr.IsValidation(ValidateName(""), apperr.Required))
	assert.True(t, apperr.IsValidation(ValidateName(strings.Repeat("я", 257)), apperr.TooLong))
}
