// Package auth implements the authentication and authorization core:
// password hashing and verification, signed access token issuance and
// verification with scope enforcement, and TOTP based multi-factor
// checks. Handlers recover every error defined here at the API
// boundary and map it to a client status; none of them escapes as a
// server fault.
package auth

import "errors"

// ErrInvalidCredentials is returned for a bad identifier/password
// pair. An unknown identifier and a wrong password are deliberately
// indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrTokenMalformed is returned when a token cannot be decoded or its
// signature does not verify.
var ErrTokenMalformed = errors.New("token malformed")

// ErrTokenExpired is returned for a structurally valid token whose
// expiry has passed. Expiry is the only invalidation mechanism; there
// is no revocation list.
var ErrTokenExpired = errors.New("token expired")

// ErrScopeDenied is returned when a token's scope claims do not cover
// every required scope.
var ErrScopeDenied = errors.New("scope denied")

// ErrAccountNotFound is returned when a verified token's subject no
// longer resolves to a stored account.
var ErrAccountNotFound = errors.New("account not found")

// ErrMFANotEnabled is returned when a TOTP check is attempted against
// an account that never enrolled.
var ErrMFANotEnabled = errors.New("mfa not enabled")

// ErrMFAInvalidCode is returned when a submitted TOTP code does not
// match any code in the accepted time window.
var ErrMFAInvalidCode = errors.New("invalid totp code")
