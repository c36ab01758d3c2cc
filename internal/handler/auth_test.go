package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/movie-catalog/internal/auth"
	"github.com/iliyamo/movie-catalog/internal/middleware"
)

// testEnv wires a full auth stack over an in-memory store the way
// main wires it over MySQL.
type testEnv struct {
	e        *echo.Echo
	store    *memStore
	hasher   auth.PasswordHasher
	issuer   *auth.TokenIssuer
	verifier *auth.TokenVerifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	secret := []byte("handler-test-secret")
	issuer := auth.NewTokenIssuer(secret, time.Minute)
	verifier := auth.NewTokenVerifier(secret, store)

	e := echo.New()
	users := NewUserHandler(store, hasher, nil)
	a := NewAuthHandler(auth.NewAuthenticator(store, hasher), issuer)
	e.POST("/v1/users/register", users.Register)
	e.POST("/v1/security/token", a.Token)
	e.GET("/v1/security/users/me", a.Me, middleware.RequireScopes(verifier, "basic"))
	e.GET("/v1/security/users/premium", a.Premium, middleware.RequireScopes(verifier, "premium"))

	return &testEnv{e: e, store: store, hasher: hasher, issuer: issuer, verifier: verifier}
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func jsonReq(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func formReq(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func (env *testEnv) register(t *testing.T, username, email, password, role string) {
	t.Helper()
	body, err := json.Marshal(map[string]string{
		"username": username, "email": email, "password": password, "role": role,
	})
	require.NoError(t, err)
	rec := env.do(jsonReq(http.MethodPost, "/v1/users/register", string(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (env *testEnv) login(t *testing.T, identifier, password string) string {
	t.Helper()
	rec := env.do(formReq("/v1/security/token", url.Values{
		"username": {identifier}, "password": {password},
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "bearer", resp.TokenType)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func authedGet(path, token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	return req
}

func TestRegisterLoginAndScopes(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "johndoe", "johndoe@example.com", "s3cret", "basic")

	token := env.login(t, "johndoe", "s3cret")

	t.Run("me with basic scope", func(t *testing.T) {
		rec := env.do(authedGet("/v1/security/users/me", token))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "johndoe authorized")
	})

	t.Run("premium denied for basic token", func(t *testing.T) {
		rec := env.do(authedGet("/v1/security/users/premium", token))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "user not authorized")
	})

	t.Run("login by email works too", func(t *testing.T) {
		env.login(t, "johndoe@example.com", "s3cret")
	})
}

func TestPremiumRoleReachesPremiumEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "janedoe", "janedoe@example.com", "s3cret", "premium")

	token := env.login(t, "janedoe", "s3cret")

	rec := env.do(authedGet("/v1/security/users/premium", token))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "janedoe authorized")

	// Premium tokens carry the basic scope as well.
	rec = env.do(authedGet("/v1/security/users/me", token))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTokenEndpointRejections(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "johndoe", "johndoe@example.com", "s3cret", "basic")

	t.Run("wrong password", func(t *testing.T) {
		rec := env.do(formReq("/v1/security/token", url.Values{
			"username": {"johndoe"}, "password": {"wrong"},
		}))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "incorrect username or password")
	})

	t.Run("unknown account reads the same", func(t *testing.T) {
		rec := env.do(formReq("/v1/security/token", url.Values{
			"username": {"nobody"}, "password": {"s3cret"},
		}))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "incorrect username or password")
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := env.do(formReq("/v1/security/token", url.Values{"username": {"johndoe"}}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProtectedEndpointRejections(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "johndoe", "johndoe@example.com", "s3cret", "basic")

	t.Run("no header", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/v1/security/users/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := env.do(authedGet("/v1/security/users/me", "not.a.token"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := &auth.TokenIssuer{Secret: env.issuer.Secret, TTL: -time.Minute}
		raw, err := expired.Issue("johndoe", []string{"basic"})
		require.NoError(t, err)
		rec := env.do(authedGet("/v1/security/users/me", raw))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token for a deleted account", func(t *testing.T) {
		raw, err := env.issuer.Issue("ghost", []string{"basic"})
		require.NoError(t, err)
		rec := env.do(authedGet("/v1/security/users/me", raw))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	t.Run("duplicate username", func(t *testing.T) {
		env.register(t, "johndoe", "johndoe@example.com", "s3cret", "basic")
		body := `{"username":"johndoe","email":"other@example.com","password":"x"}`
		rec := env.do(jsonReq(http.MethodPost, "/v1/users/register", body))
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "already exists")
	})

	t.Run("invalid email", func(t *testing.T) {
		body := `{"username":"newuser","email":"not-an-email","password":"x"}`
		rec := env.do(jsonReq(http.MethodPost, "/v1/users/register", body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown role falls back to basic", func(t *testing.T) {
		env.register(t, "weirdrole", "weirdrole@example.com", "s3cret", "superadmin")
		token := env.login(t, "weirdrole", "s3cret")
		rec := env.do(authedGet("/v1/security/users/premium", token))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("response never echoes the password", func(t *testing.T) {
		body := `{"username":"leakcheck","email":"leakcheck@example.com","password":"hunter2"}`
		rec := env.do(jsonReq(http.MethodPost, "/v1/users/register", body))
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.NotContains(t, rec.Body.String(), "hunter2")
		assert.NotContains(t, rec.Body.String(), "password")
	})
}
