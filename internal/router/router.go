// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-catalog/internal/auth"
	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check that load
// balancers or monitoring systems can probe.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers account registration, token issuance and the
// scope-protected identity endpoints. Token issuance and registration sit
// behind the Redis rate limiter; identity endpoints require a verified
// bearer token carrying the named scope.
func RegisterAuth(e *echo.Echo, users *handler.UserHandler, a *handler.AuthHandler,
	verifier *auth.TokenVerifier, rl config.RateLimitConfig, rdb *redis.Client) {
	limited := middleware.RateLimit(rl, rdb)

	e.POST("/v1/users/register", users.Register, limited)

	sec := e.Group("/v1/security")
	sec.POST("/token", a.Token, limited)
	// Scope checks are per route, not per group: "me" needs only the
	// basic scope while "premium" requires the premium scope on top.
	sec.GET("/users/me", a.Me, middleware.RequireScopes(verifier, "basic"))
	sec.GET("/users/premium", a.Premium, middleware.RequireScopes(verifier, "premium"))
}

// RegisterMFA registers the TOTP enrollment and verification endpoints.
// Enrollment extracts its own bearer token from the request; verification is
// deliberately unauthenticated since it is the second factor of a login.
func RegisterMFA(e *echo.Echo, m *handler.MFAHandler) {
	e.POST("/v1/user/enable-mfa", m.EnableMFA)
	e.POST("/v1/verify-totp", m.VerifyTOTP)
}

// RegisterMovies registers the movie catalog CRUD endpoints. All of them
// require the basic scope. Reads go through the Redis response cache; writes
// invalidate it from inside the handlers.
func RegisterMovies(e *echo.Echo, m *handler.MovieHandler,
	verifier *auth.TokenVerifier, cache config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/v1/movies", middleware.RequireScopes(verifier, "basic"))
	cached := middleware.ResponseCache(cache, rdb)

	g.POST("", m.Create)
	g.GET("", m.List, cached)
	g.GET("/:id", m.Get, cached)
	g.PUT("/:id", m.Update)
	g.DELETE("/:id", m.Delete)
}

// RegisterCards registers the credit card vault endpoints. Card data is
// premium-only; every field is encrypted before it reaches the repository.
func RegisterCards(e *echo.Echo, h *handler.CardHandler, verifier *auth.TokenVerifier) {
	g := e.Group("/v1/cards", middleware.RequireScopes(verifier, "premium"))

	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// RegisterChat registers the websocket chat endpoint. The username comes
// from the path so guests can join without a token.
func RegisterChat(e *echo.Echo, h *handler.ChatHandler) {
	e.GET("/chat/room/:username", h.Room)
}
