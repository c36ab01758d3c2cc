package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/auth"
	"github.com/iliyamo/movie-catalog/internal/model"
)

type staticStore struct {
	user *model.User
}

func (s *staticStore) FindByUsernameOrEmail(context.Context, string) (*model.User, error) {
	if s.user == nil {
		return nil, nil
	}
	cp := *s.user
	return &cp, nil
}

func (s *staticStore) UpdateTOTPSecret(context.Context, uint64, string) error { return nil }

func TestBearerToken(t *testing.T) {
	e := echo.New()
	mk := func(header string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		return e.NewContext(req, httptest.NewRecorder())
	}

	raw, ok := bearerToken(mk("Bearer abc.def.ghi"))
	require.True(t, ok)
	assert.Equal(t, "abc.def.ghi", raw)

	for _, header := range []string{"", "Bearer ", "Bearer", "Basic abc", "bearer abc"} {
		_, ok := bearerToken(mk(header))
		assert.False(t, ok, "header %q", header)
	}
}

func TestRequireScopes(t *testing.T) {
	secret := []byte("middleware-test-secret")
	store := &staticStore{user: &model.User{ID: 1, Username: "johndoe", Role: model.RoleBasic}}
	issuer := auth.NewTokenIssuer(secret, time.Minute)
	verifier := auth.NewTokenVerifier(secret, store)

	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		u, _ := c.Get(UserContextKey).(*model.User)
		require.NotNil(t, u)
		return c.String(http.StatusOK, u.Username)
	}, RequireScopes(verifier, "basic"))

	do := func(authz string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if authz != "" {
			req.Header.Set(echo.HeaderAuthorization, authz)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	t.Run("valid token passes and exposes the user", func(t *testing.T) {
		raw, err := issuer.Issue("johndoe", []string{"basic"})
		require.NoError(t, err)
		rec := do("Bearer " + raw)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "johndoe", rec.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		rec := do("")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "user not authorized")
	})

	t.Run("scope missing from token", func(t *testing.T) {
		raw, err := issuer.Issue("johndoe", []string{"something-else"})
		require.NoError(t, err)
		rec := do("Bearer " + raw)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("subject no longer exists", func(t *testing.T) {
		raw, err := issuer.Issue("johndoe", []string{"basic"})
		require.NoError(t, err)
		store.user = nil
		defer func() { store.user = &model.User{ID: 1, Username: "johndoe", Role: model.RoleBasic} }()
		rec := do("Bearer " + raw)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
