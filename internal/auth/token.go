package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// TokenType is the token_type value returned by the token endpoint and
// expected in the Authorization header.
const TokenType = "bearer"

// DefaultAccessTTL applies when no TTL is configured.
const DefaultAccessTTL = 30 * time.Minute

// accessClaims is the claim set carried by an access token: subject,
// scope list, issued-at and expiry. Tokens are self-contained; nothing
// about them is stored server side.
type accessClaims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// ScopesForRole is the fixed role-to-scope mapping applied at issuance
// time. A premium account carries the basic scope explicitly because
// the verifier performs exact membership checks, never hierarchy.
func ScopesForRole(role model.Role) []string {
	if role == model.RolePremium {
		return []string{string(model.RoleBasic), string(model.RolePremium)}
	}
	return []string{string(model.RoleBasic)}
}

// TokenIssuer signs access tokens with a process-wide symmetric
// secret. There is no rotation mechanism: changing the secret
// invalidates every outstanding token at once.
type TokenIssuer struct {
	Secret []byte
	TTL    time.Duration
}

func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	return &TokenIssuer{Secret: secret, TTL: ttl}
}

// Issue builds and signs an HS256 token for the subject with the given
// scope list. The expiry is issued-at plus the configured TTL.
func (i *TokenIssuer) Issue(subject string, scopes []string) (string, error) {
	now := time.Now().UTC()
	claims := accessClaims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.TTL)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// TokenVerifier decodes and validates access tokens and re-resolves
// the subject against the credential store so that role or existence
// changes after issuance are observed on every request.
type TokenVerifier struct {
	Secret []byte
	Store  CredentialStore
}

func NewTokenVerifier(secret []byte, store CredentialStore) *TokenVerifier {
	return &TokenVerifier{Secret: secret, Store: store}
}

// Verify checks signature and expiry, enforces that every required
// scope is present in the token's scope claims, and loads the current
// account for the subject. The returned user carries the token's
// scopes. Callers are expected to collapse every returned error into a
// single unauthorized outcome; the distinct kinds exist for internal
// logging and tests.
func (v *TokenVerifier) Verify(ctx context.Context, token string, requiredScopes []string) (*model.User, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Printf("auth: token rejected: expired")
			return nil, ErrTokenExpired
		}
		log.Printf("auth: token rejected: %v", err)
		return nil, ErrTokenMalformed
	}
	if claims.Subject == "" {
		log.Printf("auth: token rejected: empty subject")
		return nil, ErrTokenMalformed
	}
	if !scopesContain(claims.Scopes, requiredScopes) {
		log.Printf("auth: token rejected: missing required scope (sub=%s)", claims.Subject)
		return nil, ErrScopeDenied
	}
	u, err := v.Store.FindByUsernameOrEmail(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("verify token: lookup failed: %w", err)
	}
	if u == nil {
		log.Printf("auth: token rejected: subject %q no longer exists", claims.Subject)
		return nil, ErrAccountNotFound
	}
	u.Scopes = claims.Scopes
	return u, nil
}

// scopesContain reports whether every required scope appears in the
// granted list. Extra granted scopes are allowed.
func scopesContain(granted, required []string) bool {
	if len(required) == 0 {
		return true
	}
	set := make(map[string]bool, len(granted))
	for _, s := range granted {
		set[s] = true
	}
	for _, s := range required {
		if !set[s] {
			return false
		}
	}
	return true
}
