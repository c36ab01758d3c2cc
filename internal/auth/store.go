package auth

import (
	"context"
	"net/mail"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// CredentialStore is the narrow persistence surface the core depends
// on. The repository layer owns the implementation; the core only
// reads accounts and rewrites a TOTP secret on enrollment.
type CredentialStore interface {
	// FindByUsernameOrEmail resolves an identifier to an account.
	// A missing account is reported as (nil, nil); a non-nil error
	// means the store itself failed.
	FindByUsernameOrEmail(ctx context.Context, identifier string) (*model.User, error)

	// UpdateTOTPSecret overwrites the account's shared secret.
	// Concurrent enrollment for the same account is last write wins.
	UpdateTOTPSecret(ctx context.Context, userID uint64, secret string) error
}

// IdentifierKind classifies a login identifier by format before any
// store lookup happens.
type IdentifierKind int

const (
	IdentifierUsername IdentifierKind = iota
	IdentifierEmail
)

// ClassifyIdentifier decides whether an identifier is an email address
// or a username. The decision is purely format based: the value must
// contain an "@" and parse as an address to count as email. Existence
// in the store plays no part.
func ClassifyIdentifier(identifier string) IdentifierKind {
	if !strings.Contains(identifier, "@") {
		return IdentifierUsername
	}
	if _, err := mail.ParseAddress(identifier); err != nil {
		return IdentifierUsername
	}
	return IdentifierEmail
}
