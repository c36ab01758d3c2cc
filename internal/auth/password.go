package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost is used when no cost is configured. Cost 12 keeps
// a single verification in the tens of milliseconds on current
// hardware.
const DefaultBcryptCost = 12

// dummyDigest is a syntactically valid bcrypt digest (cost 12) that no
// password produces in practice. Authenticate runs a comparison
// against it when the account lookup misses, so the miss path and the
// wrong-password path take comparable time.
const dummyDigest = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// PasswordHasher wraps adaptive one-way hashing of passwords. Each
// Hash call salts independently, so two digests of the same password
// differ and only Verify is authoritative for comparison.
type PasswordHasher struct {
	Cost int
}

// NewPasswordHasher clamps the cost into bcrypt's supported range.
func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return PasswordHasher{Cost: cost}
}

// Hash returns a salted bcrypt digest of the password.
func (h PasswordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether the password matches the digest. bcrypt's
// comparison is constant time in the password bytes.
func (h PasswordHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
