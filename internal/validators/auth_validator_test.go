package validators

import (
	"testing"

	"realtimeChat/internal/models"

	"github.com/stretchr/testify/require"
)

func TestValidateUser(t *testing.T) {
	req := require.New(t)

	valid := func() *models.User {
		return &models.User{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "Sup3rSecret!",
		}
	}

	t.Run("valid user", func(t *testing.T) {
		req.Empty(ValidateUser(valid()))
	})

	t.Run("nil user", func(t *testing.T) {
		req.NotEmpty(ValidateUser(nil))
	})

	t.Run("bad email", func(t *testing.T) {
		user := valid()
		user.Email = "not-an-email"
		req.NotEmpty(ValidateUser(user))
	})

	t.Run("short password", func(t *testing.T) {
		user := valid()
		user.Password = "short"
		req.NotEmpty(ValidateUser(user))
	})

	t.Run("short username", func(t *testing.T) {
		user := valid()
		user.Username = "ab"
		req.NotEmpty(ValidateUser(user))
	})
}

func TestValidateEmail(t *testing.T) {
	req := require.New(t)
	req.True(ValidateEmail("user@example.com"))
	req.True(ValidateEmail("user.name+tag@sub.example.org"))
	req.False(ValidateEmail(""))
	req.False(ValidateEmail("user@"))
	req.False(ValidateEmail("@example.com"))
}
