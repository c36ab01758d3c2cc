package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/model"
)

var testSecret = []byte("unit-test-signing-secret")

func testUser() *model.User {
	return &model.User{ID: 7, Username: "johndoe", Email: "johndoe@example.com", Role: model.RoleBasic}
}

func TestScopesForRole(t *testing.T) {
	assert.Equal(t, []string{"basic"}, ScopesForRole(model.RoleBasic))
	assert.Equal(t, []string{"basic", "premium"}, ScopesForRole(model.RolePremium))
}

func TestIssueAndVerify(t *testing.T) {
	store := newFakeStore(testUser())
	issuer := NewTokenIssuer(testSecret, time.Minute)
	verifier := NewTokenVerifier(testSecret, store)
	ctx := context.Background()

	t.Run("round trip resolves the account", func(t *testing.T) {
		raw, err := issuer.Issue("johndoe", []string{"basic"})
		require.NoError(t, err)

		u, err := verifier.Verify(ctx, raw, []string{"basic"})
		require.NoError(t, err)
		assert.Equal(t, uint64(7), u.ID)
		assert.Equal(t, []string{"basic"}, u.Scopes)
	})

	t.Run("no required scopes always passes the scope check", func(t *testing.T) {
		raw, err := issuer.Issue("johndoe", []string{"basic"})
		require.NoError(t, err)

		_, err = verifier.Verify(ctx, raw, nil)
		require.NoError(t, err)
	})

	t.Run("missing scope is denied", func(t *testing.T) {
		raw, err := issuer.Issue("johndoe", []string{"basic"})
		require.NoError(t, err)

		_, err = verifier.Verify(ctx, raw, []string{"premium"})
		assert.ErrorIs(t, err, ErrScopeDenied)
	})

	t.Run("superset of required scopes passes", func(t *testing.T) {
		raw, err := issuer.Issue("johndoe", []string{"basic", "premium"})
		require.NoError(t, err)

		_, err = verifier.Verify(ctx, raw, []string{"premium"})
		require.NoError(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		// NewTokenIssuer treats a non-positive TTL as unset, so build
		// the issuer directly to sign an already-expired token.
		shortLived := &TokenIssuer{Secret: testSecret, TTL: -time.Minute}
		raw, err := shortLived.Issue("johndoe", []string{"basic"})
		require.NoError(t, err)

		_, err = verifier.Verify(ctx, raw, []string{"basic"})
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("tampered signature", func(t *testing.T) {
		other := NewTokenIssuer([]byte("a different secret"), time.Minute)
		raw, err := other.Issue("johndoe", []string{"basic"})
		require.NoError(t, err)

		_, err = verifier.Verify(ctx, raw, []string{"basic"})
		assert.ErrorIs(t, err, ErrTokenMalformed)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := verifier.Verify(ctx, "not.a.token", []string{"basic"})
		assert.ErrorIs(t, err, ErrTokenMalformed)
	})

	t.Run("subject deleted after issuance", func(t *testing.T) {
		raw, err := issuer.Issue("ghost", []string{"basic"})
		require.NoError(t, err)

		_, err = verifier.Verify(ctx, raw, []string{"basic"})
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestNewTokenIssuerDefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultAccessTTL, NewTokenIssuer(testSecret, 0).TTL)
	assert.Equal(t, time.Hour, NewTokenIssuer(testSecret, time.Hour).TTL)
}
