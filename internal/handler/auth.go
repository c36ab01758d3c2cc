// Package handler exposes the HTTP endpoints of the service. Every
// auth, token or scope failure raised by the core is recovered here
// and mapped to a client status; handlers never let one escape as an
// unhandled fault.
package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/auth"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/model"
)

// AuthHandler bundles the authenticator and token issuer behind the
// security endpoints.
type AuthHandler struct {
	Auth   *auth.Authenticator
	Issuer *auth.TokenIssuer
}

func NewAuthHandler(a *auth.Authenticator, i *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{Auth: a, Issuer: i}
}

// tokenResp is the token endpoint response, shaped like an OAuth2
// token exchange: the opaque token plus its type.
type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Token verifies a username/email + password pair and issues an access
// token whose scopes derive from the account role. Credentials arrive
// as form fields (username, password) the way an OAuth2 password
// grant sends them. Bad pairs are answered 401 without revealing
// whether the account exists.
func (h *AuthHandler) Token(c echo.Context) error {
	identifier := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	if identifier == "" || password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Auth.Authenticate(ctx, identifier, password)
	if err != nil {
		if err == auth.ErrInvalidCredentials {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "incorrect username or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "authentication failed"})
	}

	token, err := h.Issuer.Issue(u.Username, auth.ScopesForRole(u.Role))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, tokenResp{AccessToken: token, TokenType: auth.TokenType})
}

// Me answers for any token carrying the basic scope. The route is
// registered behind RequireScopes("basic"), so reaching the handler
// means the token already passed verification.
func (h *AuthHandler) Me(c echo.Context) error {
	return authorizedDescription(c)
}

// Premium answers only for tokens carrying the premium scope. Route
// registration declares the scope set; the handler body is identical.
func (h *AuthHandler) Premium(c echo.Context) error {
	return authorizedDescription(c)
}

func authorizedDescription(c echo.Context) error {
	u := currentUser(c)
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user not authorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{"description": u.Username + " authorized"})
}

// currentUser pulls the account stored by the scope middleware.
func currentUser(c echo.Context) *model.User {
	u, _ := c.Get(middleware.UserContextKey).(*model.User)
	return u
}
