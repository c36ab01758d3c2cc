package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/auth"
)

// MFAHandler serves TOTP enrollment and verification. Enrollment
// identifies the caller through a bearer token; verification is a
// separate gate that never issues tokens by itself.
type MFAHandler struct {
	Verifier *auth.TokenVerifier
	TOTP     *auth.TOTPManager
	Store    auth.CredentialStore
}

func NewMFAHandler(v *auth.TokenVerifier, t *auth.TOTPManager, s auth.CredentialStore) *MFAHandler {
	return &MFAHandler{Verifier: v, TOTP: t, Store: s}
}

type enrollResp struct {
	TOTPURI       string `json:"totp_uri"`
	SecretNumbers string `json:"secret_numbers"`
}

type verifyTOTPReq struct {
	Code     string `json:"code"`
	Username string `json:"username"`
}

// EnableMFA generates a fresh TOTP secret for the bearer's account,
// persists it (overwriting any prior secret) and returns the
// provisioning URI for QR enrollment together with the currently
// valid code. The token only identifies the caller here, so it is
// verified without a scope requirement. The secret itself stays out of
// the response body except through the URI required for enrollment.
func (h *MFAHandler) EnableMFA(c echo.Context) error {
	raw, ok := bearerFromHeader(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user not authorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Verifier.Verify(ctx, raw, nil)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user not authorized"})
	}

	enr, err := h.TOTP.Enroll(ctx, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "mfa enrollment failed"})
	}
	return c.JSON(http.StatusOK, enrollResp{
		TOTPURI:       enr.ProvisioningURI,
		SecretNumbers: enr.CurrentCode,
	})
}

// VerifyTOTP checks a submitted code for the named account. An account
// without a stored secret is a 400; a wrong code is a 401. Success
// grants nothing by itself; it is a secondary check endpoints may
// demand on top of token auth.
func (h *MFAHandler) VerifyTOTP(c echo.Context) error {
	var req verifyTOTPReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Code = strings.TrimSpace(req.Code)
	if req.Username == "" || req.Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code/username required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Store.FindByUsernameOrEmail(ctx, req.Username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	if u == nil {
		// Unknown accounts read the same as un-enrolled ones.
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "mfa not activated"})
	}

	if err := h.TOTP.VerifyCode(u, req.Code); err != nil {
		if errors.Is(err, auth.ErrMFANotEnabled) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "mfa not activated"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid totp code"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "totp code verified successfully"})
}

// bearerFromHeader mirrors the scope middleware's header parsing for
// the one endpoint that verifies without a scope set.
func bearerFromHeader(c echo.Context) (string, bool) {
	h := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return raw, raw != ""
}
