package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("valid user", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("Ada", "Ada@Example.COM", "s3curepass", 36)
		require.NoError(t, err)

		assert.NotEqual(t, "", user.ID.String())
		assert.Equal(t, "Ada", user.Name)
		assert.Equal(t, "ada@example.com", user.Email, "email must be normalized")
		assert.Equal(t, 36, user.Age)
		assert.False(t, user.CreatedAt.IsZero())
		assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	})

	t.Run("trims whitespace", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("  Ada  ", "  ada@example.com  ", "  s3curepass  ", 0)
		require.NoError(t, err)
		assert.Equal(t, "Ada", user.Name)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.Equal(t, "s3curepass", user.Password)
	})

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		age      int
		wantErr  error
	}{
		{"empty name", "", "a@b.co", "s3curepass", 0, ErrEmptyName},
		{"empty email", "Ada", "", "s3curepass", 0, ErrEmptyEmail},
		{"email without at", "Ada", "not-an-email", "s3curepass", 0, ErrInvalidEmail},
		{"email without domain dot", "Ada", "a@localhost", "s3curepass", 0, ErrInvalidEmail},
		{"email with two ats", "Ada", "a@@b.co", "s3curepass", 0, ErrInvalidEmail},
		{"negative age", "Ada", "a@b.co", "s3curepass", -1, ErrNegativeAge},
		{"short password", "Ada", "a@b.co", "short", 0, ErrPasswordTooShort},
		{"password contains password", "Ada", "a@b.co", "myPassword1", 0, ErrPasswordForbidden},
		{"empty password", "Ada", "a@b.co", "", 0, ErrPasswordTooShort},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser(tc.userName, tc.email, tc.password, tc.age)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestValidationSentinelsWrapErrValidation(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrEmptyUserID,
		ErrEmptyName,
		ErrInvalidEmail,
		ErrEmptyEmail,
		ErrPasswordTooShort,
		ErrPasswordTooLong,
		ErrPasswordForbidden,
		ErrEmptyPassword,
		ErrNegativeAge,
		ErrEmptyHashedPassword,
		ErrEmptyTaskID,
		ErrEmptyDescription,
		ErrEmptyOwnerID,
	}
	for _, sentinel := range sentinels {
		assert.ErrorIs(t, sentinel, ErrValidation, sentinel.Error())
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidatePassword("1234567"))
	assert.ErrorIs(t, ValidatePassword("123456"), ErrPasswordTooShort)
	assert.ErrorIs(t, ValidatePassword(strings.Repeat("x", 73)), ErrPasswordTooLong)
	assert.NoError(t, ValidatePassword(strings.Repeat("x", 72)))
	assert.ErrorIs(t, ValidatePassword("PASSWORD123"), ErrPasswordForbidden)
	assert.ErrorIs(t, ValidatePassword("xxPaSsWoRdxx"), ErrPasswordForbidden)
}

func TestUserPasswordDirty(t *testing.T) {
	t.Parallel()

	user, err := NewUser("Ada", "ada@example.com", "s3curepass", 0)
	require.NoError(t, err)
	assert.True(t, user.PasswordDirty())

	// Simulate the service hashing and clearing the plaintext.
	user.HashedPassword = "$2a$10$fakehash"
	user.Password = ""
	assert.False(t, user.PasswordDirty())

	user.SetPassword("news3cret")
	assert.True(t, user.PasswordDirty())
	assert.Equal(t, "news3cret", user.Password)
}

func TestUserValidateStoredUser(t *testing.T) {
	t.Parallel()

	// A user loaded from the store has a hash but no plaintext.
	user, err := NewUser("Ada", "ada@example.com", "s3curepass", 0)
	require.NoError(t, err)
	user.HashedPassword = "$2a$10$fakehash"
	user.Password = ""

	assert.NoError(t, user.Validate())

	user.HashedPassword = ""
	assert.ErrorIs(t, user.Validate(), ErrEmptyPassword)
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ada@example.com", NormalizeEmail(" ADA@Example.Com "))
	assert.Equal(t, "", NormalizeEmail("   "))
}
