package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/homereach/estate-api/internal/config"
	"github.com/homereach/estate-api/internal/middleware"
	"github.com/homereach/estate-api/internal/repository"
	"github.com/homereach/estate-api/internal/utils"
)

// AccountHandler serves the authenticated account surface: profile,
// email verification, password change and two-factor management.
type AccountHandler struct {
	Cfg           config.Config
	Users         *repository.UserRepo
	Tokens        *repository.TokenRepo
	Verifications *repository.VerificationRepo
}

func NewAccountHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo, v *repository.VerificationRepo) *AccountHandler {
	return &AccountHandler{Cfg: cfg, Users: u, Tokens: t, Verifications: v}
}

type profileResp struct {
	ID               uint64 `json:"id"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	Phone            string `json:"phone,omitempty"`
	Bio              string `json:"bio,omitempty"`
	EmailVerified    bool   `json:"email_verified"`
	TwoFactorEnabled bool   `json:"two_factor_enabled"`
	CreatedAt        string `json:"created_at"`
}

// Me returns the authenticated user's profile.
func (h *AccountHandler) Me(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, profileResp{
		ID:               u.ID,
		Email:            u.Email,
		Role:             u.Role,
		Phone:            u.Phone,
		Bio:              u.Bio,
		EmailVerified:    u.EmailVerified,
		TwoFactorEnabled: u.TwoFactorEnabled,
		CreatedAt:        u.CreatedAt.Format(time.RFC3339),
	})
}

type settingsReq struct {
	Phone string `json:"phone"`
	Bio   string `json:"bio"`
}

// UpdateSettings updates the editable profile fields.
func (h *AccountHandler) UpdateSettings(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	var req settingsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, uid, strings.TrimSpace(req.Phone), strings.TrimSpace(req.Bio)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return h.Me(c)
}

// VerifyEmail consumes a verification token.  The endpoint is reachable by
// link click, so the token travels in the query string.
func (h *AccountHandler) VerifyEmail(c echo.Context) error {
	token := strings.TrimSpace(c.QueryParam("token"))
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Verifications.Consume(ctx, token)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verification failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"verified": true, "user_id": uid})
}

type changePasswordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword sets a new password after re-checking the current one,
// resets the password age clock and revokes every refresh token so other
// sessions must log in again.
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.NewPassword == "" || len(req.NewPassword) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new password must be at least 8 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.CurrentPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "current password incorrect"})
	}

	if err := h.Users.UpdatePassword(ctx, uid, req.NewPassword, h.Cfg.BcryptCost); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	_ = h.Tokens.RevokeAllForUser(ctx, uid)

	return c.JSON(http.StatusOK, echo.Map{"changed": true})
}

// SetupTwoFactor generates a fresh TOTP secret for the account and returns
// the provisioning URL.  Two-factor stays disabled until the first code is
// verified, so an abandoned setup never locks anyone out.
func (h *AccountHandler) SetupTwoFactor(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u.TwoFactorEnabled {
		return c.JSON(http.StatusConflict, echo.Map{"error": "two-factor already enabled"})
	}

	secret, url, err := utils.NewTOTPSecret(u.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate secret failed"})
	}
	if err := h.Users.SetTwoFactorSecret(ctx, uid, secret); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save secret failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"secret": secret, "otpauth_url": url})
}

type totpReq struct {
	Code string `json:"code"`
}

// VerifyTwoFactor checks a TOTP code.  On the first success it flips
// two-factor on; on every success it issues an access token carrying the
// two-factor marker, which is the only way such a token is ever minted.
func (h *AccountHandler) VerifyTwoFactor(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	var req totpReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Code) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyTOTP(u.TwoFactorSecret, strings.TrimSpace(req.Code)) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid code"})
	}

	if !u.TwoFactorEnabled {
		if err := h.Users.EnableTwoFactor(ctx, uid); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "enable failed"})
		}
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, true, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// DisableTwoFactor turns two-factor off after a final valid code.
func (h *AccountHandler) DisableTwoFactor(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	var req totpReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Code) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !u.TwoFactorEnabled {
		return c.JSON(http.StatusConflict, echo.Map{"error": "two-factor not enabled"})
	}
	if !utils.VerifyTOTP(u.TwoFactorSecret, strings.TrimSpace(req.Code)) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid code"})
	}
	if err := h.Users.DisableTwoFactor(ctx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "disable failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"disabled": true})
}
