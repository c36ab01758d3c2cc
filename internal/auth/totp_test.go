package auth

import (
	"context"
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codeAt(t *testing.T, secret string, at time.Time) string {
	t.Helper()
	code, err := totp.GenerateCodeCustom(secret, at, totp.ValidateOpts{
		Period:    totpPeriod,
		Digits:    totpDigits,
		Algorithm: otp.AlgorithmSHA1,
	})
	require.NoError(t, err)
	return code
}

func TestTOTPEnrollAndVerify(t *testing.T) {
	u := testUser()
	store := newFakeStore(u)
	mgr := NewTOTPManager("movie-catalog", store)
	ctx := context.Background()

	enr, err := mgr.Enroll(ctx, u)
	require.NoError(t, err)
	require.NotEmpty(t, enr.Secret)
	assert.Contains(t, enr.ProvisioningURI, "otpauth://totp/")
	assert.Contains(t, enr.ProvisioningURI, "movie-catalog")
	assert.Len(t, enr.CurrentCode, 6)

	// The store holds the secret now; the handler reloads the account
	// before verifying, so do the same here.
	stored, err := store.FindByUsernameOrEmail(ctx, u.Username)
	require.NoError(t, err)
	require.Equal(t, enr.Secret, stored.TOTPSecret)

	now := time.Now().UTC()

	t.Run("current code verifies", func(t *testing.T) {
		assert.NoError(t, mgr.VerifyCodeAt(stored, codeAt(t, enr.Secret, now), now))
	})

	t.Run("adjacent windows verify", func(t *testing.T) {
		assert.NoError(t, mgr.VerifyCodeAt(stored, codeAt(t, enr.Secret, now.Add(-totpPeriod*time.Second)), now))
		assert.NoError(t, mgr.VerifyCodeAt(stored, codeAt(t, enr.Secret, now.Add(totpPeriod*time.Second)), now))
	})

	t.Run("code outside the skew fails", func(t *testing.T) {
		stale := codeAt(t, enr.Secret, now.Add(-3*totpPeriod*time.Second))
		assert.ErrorIs(t, mgr.VerifyCodeAt(stored, stale, now), ErrMFAInvalidCode)
	})

	t.Run("wrong code fails", func(t *testing.T) {
		assert.ErrorIs(t, mgr.VerifyCodeAt(stored, "000000", now), ErrMFAInvalidCode)
	})

	t.Run("re-enrollment replaces the secret", func(t *testing.T) {
		again, err := mgr.Enroll(ctx, u)
		require.NoError(t, err)
		assert.NotEqual(t, enr.Secret, again.Secret)

		reloaded, err := store.FindByUsernameOrEmail(ctx, u.Username)
		require.NoError(t, err)
		assert.Equal(t, again.Secret, reloaded.TOTPSecret)
	})
}

func TestVerifyCodeWithoutEnrollment(t *testing.T) {
	mgr := NewTOTPManager("movie-catalog", newFakeStore())
	u := testUser() // no TOTPSecret set
	assert.ErrorIs(t, mgr.VerifyCode(u, "123456"), ErrMFANotEnabled)
}
