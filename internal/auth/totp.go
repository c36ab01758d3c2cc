package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/iliyamo/movie-catalog/internal/model"
)

const (
	totpPeriod = 30 // seconds per time step
	totpSkew   = 1  // accepted steps before/after the current one
	totpDigits = otp.DigitsSix
)

// Enrollment is the result of enrolling an account in TOTP: the shared
// secret, the otpauth:// provisioning URI for authenticator apps, and
// the code valid right now. The current code lets a client confirm its
// clock agrees with the server before relying on MFA.
type Enrollment struct {
	Secret          string
	ProvisioningURI string
	CurrentCode     string
}

// TOTPManager generates and checks time-based one-time codes against
// the per-account shared secret held in the credential store.
type TOTPManager struct {
	Issuer string
	Store  CredentialStore
}

func NewTOTPManager(issuer string, store CredentialStore) *TOTPManager {
	return &TOTPManager{Issuer: issuer, Store: store}
}

// Enroll generates a fresh random secret for the account and persists
// it, replacing any previous one. Re-enrollment therefore invalidates
// authenticator apps provisioned with the old secret; the last write
// wins.
func (m *TOTPManager) Enroll(ctx context.Context, u *model.User) (*Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      m.Issuer,
		AccountName: u.Email,
		Period:      totpPeriod,
		Digits:      totpDigits,
	})
	if err != nil {
		return nil, fmt.Errorf("generate totp secret: %w", err)
	}
	secret := key.Secret()
	if err := m.Store.UpdateTOTPSecret(ctx, u.ID, secret); err != nil {
		return nil, fmt.Errorf("persist totp secret: %w", err)
	}
	code, err := totp.GenerateCode(secret, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("generate current code: %w", err)
	}
	return &Enrollment{
		Secret:          secret,
		ProvisioningURI: key.URL(),
		CurrentCode:     code,
	}, nil
}

// VerifyCode checks a submitted code against the account's secret,
// accepting the current 30s window plus one step on either side.
// Accounts without a stored secret fail with ErrMFANotEnabled.
func (m *TOTPManager) VerifyCode(u *model.User, code string) error {
	return m.VerifyCodeAt(u, code, time.Now().UTC())
}

// VerifyCodeAt is VerifyCode with an explicit reference time.
func (m *TOTPManager) VerifyCodeAt(u *model.User, code string, at time.Time) error {
	if u.TOTPSecret == "" {
		return ErrMFANotEnabled
	}
	ok, err := totp.ValidateCustom(code, u.TOTPSecret, at, totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      totpSkew,
		Digits:    totpDigits,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return ErrMFAInvalidCode
	}
	if !ok {
		return ErrMFAInvalidCode
	}
	return nil
}
