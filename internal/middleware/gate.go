package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/homereach/estate-api/internal/config"
	"github.com/homereach/estate-api/internal/repository"
	"github.com/homereach/estate-api/internal/security"
	"github.com/homereach/estate-api/prometheus"
)

// redirectTargets maps the gate's stable target codes to the API paths a
// client should send the user to.
var redirectTargets = map[string]string{
	security.TargetVerifyEmail:    "/v1/account/verify-email",
	security.TargetChangePassword: "/v1/account/password",
	security.Target2FAChallenge:   "/v1/auth/2fa/verify",
}

// SecurityGate returns a middleware that runs the account security checks
// on every authenticated request.  It loads a fresh account snapshot, lets
// the gate decide, and maps the decision to HTTP: a denial becomes 423
// Locked, a redirect becomes 403 with a "redirect" field pointing at the
// remedial endpoint.  On proceed it also stamps the user's last activity.
// Must run after JWTAuth.
func SecurityGate(users *repository.UserRepo, cfg config.SecurityConfig) echo.MiddlewareFunc {
	gate := security.Gate{PasswordMaxAge: cfg.PasswordMaxAge}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := UserID(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := users.GetByID(ctx, id)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown account"})
			}

			acct := security.AccountState{
				LockedUntil:       u.LockedUntil,
				EmailVerified:     u.EmailVerified,
				TwoFactorEnabled:  u.TwoFactorEnabled,
				PasswordChangedAt: u.PasswordChangedAt,
			}
			sess := security.SessionState{TwoFAVerified: TwoFAVerified(c)}

			d := gate.Evaluate(acct, sess, c.Request().URL.Path, time.Now().UTC())
			switch d.Outcome {
			case security.Deny:
				prometheus.RecordGateDecision("deny")
				return c.JSON(http.StatusLocked, echo.Map{"error": d.Reason})
			case security.Redirect:
				prometheus.RecordGateDecision("redirect")
				return c.JSON(http.StatusForbidden, echo.Map{
					"error":    d.Target,
					"redirect": redirectTargets[d.Target],
				})
			}
			prometheus.RecordGateDecision("proceed")

			// Best effort; activity stamping must never fail a request.
			_ = users.StampActivity(ctx, id, c.RealIP())
			return next(c)
		}
	}
}
