package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/auth"
)

// UserContextKey is the context key under which RequireScopes stores
// the verified *model.User for downstream handlers.
const UserContextKey = "user"

// RequireScopes returns an Echo middleware that extracts the bearer
// token from the Authorization header, verifies it against the given
// verifier with the declared scope set, and stores the resolved
// account in the request context. Every verification failure collapses
// into a single 401 for the client; the verifier logs the distinct
// kind internally.
func RequireScopes(verifier *auth.TokenVerifier, scopes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user not authorized"})
			}
			u, err := verifier.Verify(c.Request().Context(), raw, scopes)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user not authorized"})
			}
			c.Set(UserContextKey, u)
			return next(c)
		}
	}
}

// bearerToken pulls the raw token out of "Authorization: Bearer <t>".
func bearerToken(c echo.Context) (string, bool) {
	h := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return raw, raw != ""
}
