package model

import "time"

// Role enumerates the account roles understood by the application.
// The role is an attribute of the account row; the scopes embedded in
// an access token are derived from it at issuance time and must not
// be confused with it.
type Role string

const (
	RoleBasic   Role = "basic"
	RolePremium Role = "premium"
)

// ParseRole normalizes a client-supplied role string. Unknown or empty
// values fall back to RoleBasic so that registration never fails on the
// role field alone.
func ParseRole(s string) Role {
	if Role(s) == RolePremium {
		return RolePremium
	}
	return RoleBasic
}

// User represents an application account as stored in the `users`
// table. Username and email are each unique; the password is held only
// as a bcrypt hash. TOTPSecret is empty until the account enrolls in
// MFA and is never serialized into any API response.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – account role (basic or premium).
//  TOTPSecret   – base32 shared secret, empty when MFA is not enrolled.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	TOTPSecret   string    // users.totp_secret (empty when not enrolled)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at

	// Scopes is not a column. The token verifier populates it with the
	// scope claims of the token that identified this user.
	Scopes []string
}
