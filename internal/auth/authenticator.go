package auth

import (
	"context"
	"fmt"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// Authenticator verifies primary credentials against the credential
// store. It owns no state beyond its collaborators and is safe for
// concurrent use.
type Authenticator struct {
	Store  CredentialStore
	Hasher PasswordHasher
}

func NewAuthenticator(store CredentialStore, hasher PasswordHasher) *Authenticator {
	return &Authenticator{Store: store, Hasher: hasher}
}

// Authenticate resolves the identifier (username or email, decided by
// format) and checks the password against the stored hash. A missing
// account and a wrong password both yield ErrInvalidCredentials; the
// dummy comparison on the miss path keeps the two timings comparable.
// Only store failures surface as a distinct error.
func (a *Authenticator) Authenticate(ctx context.Context, identifier, password string) (*model.User, error) {
	u, err := a.Store.FindByUsernameOrEmail(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("authenticate: lookup failed: %w", err)
	}
	if u == nil {
		a.Hasher.Verify(password, dummyDigest)
		return nil, ErrInvalidCredentials
	}
	if !a.Hasher.Verify(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
