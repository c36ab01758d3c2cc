package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/auth"
	"github.com/iliyamo/movie-catalog/internal/model"
)

// UserRepo persists accounts in the 'users' table. It implements
// auth.CredentialStore for the authentication core.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,username,email,password_hash,role,COALESCE(totp_secret,''),created_at,updated_at"

// Create inserts an account and returns its ID. The password must
// already be hashed. MySQL error 1062 (duplicate key) on either unique
// column maps to ErrDuplicateAccount.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string, role model.Role) (uint64, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role) VALUES (?,?,?,?)",
		username, email, passwordHash, string(role))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrDuplicateAccount
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// FindByUsernameOrEmail classifies the identifier by format and
// queries the matching unique column. A miss is (nil, nil), per the
// auth.CredentialStore contract.
func (r *UserRepo) FindByUsernameOrEmail(ctx context.Context, identifier string) (*model.User, error) {
	identifier = strings.TrimSpace(identifier)
	column := "username"
	if auth.ClassifyIdentifier(identifier) == auth.IdentifierEmail {
		column = "email"
		identifier = strings.ToLower(identifier)
	}
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+column+"=? LIMIT 1",
		identifier).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.TOTPSecret, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateTOTPSecret overwrites the account's TOTP secret. Missing rows
// surface as ErrNotFound.
func (r *UserRepo) UpdateTOTPSecret(ctx context.Context, userID uint64, secret string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET totp_secret=? WHERE id=?", secret, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// RowsAffected is also 0 when the secret is rewritten with the
		// same value; check existence before reporting a miss.
		var exists bool
		if qerr := r.DB.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM users WHERE id=?)", userID).Scan(&exists); qerr == nil && !exists {
			return ErrNotFound
		}
	}
	return nil
}
