package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/yamdb/internal/apperr"
)

func TestValidateAccountFields(t *testing.T) {
	limits := DefaultLimits()

	t.Run("valid", func(t *testing.T) {
		for _, name := range []string{"alice", "a.b", "user@host", "plus+minus-", "under_score", "me2", "Me"} {
			assert.NoError(t, ValidateAccountFields(name, "a@x.com", limits), name)
		}
	})

	t.Run("reserved name wins over any email", func(t *testing.T) {
		for _, email := range []string{"a@x.com", "", "not-an-email"} {
			err := ValidateAccountFields("me", email, limits)
			assert.True(t, apperr.IsValidation(err, apperr.ReservedName), "email %q: %v", email, err)
		}
	})

	t.Run("invalid characters", func(t *testing.T) {
		for _, name := range []string{"al ice", "bob!", "semi;colon", "ünicode", "tab\tname", "slash/", "a#b", "line\n"} {
			err := ValidateAccountFields(name, "a@x.com", limits)
			assert.True(t, apperr.IsValidation(err, apperr.InvalidCharacters), "%q: %v", name, err)
		}
	})

	t.Run("invalid characters reported before length", func(t *testing.T) {
		name := strings.Repeat("a", limits.Username+10) + "!"
		err := ValidateUsername(name, limits)
		assert.True(t, apperr.IsValidation(err, apperr.InvalidCharacters))
	})

	t.Run("too long", func(t *testing.T) {
		err := ValidateAccountFields(strings.Repeat("a", limits.Username+1), "a@x.com", limits)
		assert.True(t, apperr.IsValidation(err, apperr.TooLong))

		email := strings.Repeat("e", limits.Email) + "@x.com"
		err = ValidateAccountFields("alice", email, limits)
		assert.True(t, apperr.IsValidation(err, apperr.TooLong))
	})

	t.Run("custom limits", func(t *testing.T) {
		err := ValidateUsername("abcdef", Limits{Username: 5})
		assert.True(t, apperr.IsValidation(err, apperr.TooLong))
		assert.NoError(t, ValidateUsername("abcde", Limits{Username: 5}))
	})

	t.Run("required", func(t *testing.T) {
		assert.True(t, apperr.IsValidation(ValidateAccountFields("", "a@x.com", limits), apperr.Required))
		assert.True(t, apperr.IsValidation(ValidateAccountFields("alice", "", limits), apperr.Required))
	})

	t.Run("bad email", func(t *testing.T) {
		err := ValidateAccountFields("alice", "nope", limits)
		require.Error(t, err)
		var ve *apperr.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, apperr.InvalidEmail, ve.Code)
		assert.Equal(t, "email", ve.Field)
	})
}

func TestValidateConfirmationCode(t *testing.T) {
	limits := DefaultLimits()
	assert.NoError(t, ValidateConfirmationCode("abcDEF123456", limits))
	assert.True(t, apperr.IsValidation(ValidateConfirmationCode("", limits), apperr.Required))
	assert.True(t, apperr.IsValidation(
		ValidateConfirmationCode(strings.Repeat("x", limits.ConfirmationCode+1), limits), apperr.TooLong))
}
