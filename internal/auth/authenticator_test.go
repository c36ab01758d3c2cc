package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/movie-catalog/internal/model"
)

func TestAuthenticate(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	digest, err := h.Hash("correct horse")
	require.NoError(t, err)

	store := newFakeStore(&model.User{
		ID:           1,
		Username:     "johndoe",
		Email:        "johndoe@example.com",
		PasswordHash: digest,
		Role:         model.RoleBasic,
	})
	a := NewAuthenticator(store, h)
	ctx := context.Background()

	t.Run("by username", func(t *testing.T) {
		u, err := a.Authenticate(ctx, "johndoe", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), u.ID)
	})

	t.Run("by email", func(t *testing.T) {
		u, err := a.Authenticate(ctx, "johndoe@example.com", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, "johndoe", u.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "johndoe", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "nobody", "correct horse")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("store failure is not invalid credentials", func(t *testing.T) {
		broken := newFakeStore()
		broken.err = errors.New("connection refused")
		_, err := NewAuthenticator(broken, h).Authenticate(ctx, "johndoe", "correct horse")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}
