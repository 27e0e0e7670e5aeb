package router

import (
	"github.com/labstack/echo/v4"

	"github.com/homereach/estate-api/internal/handler"
	"github.com/homereach/estate-api/internal/middleware"
)

// RegisterAuth registers the session lifecycle routes.  None of them sit
// behind the security gate: login and logout are the gate's exempt entry
// and exit points, and the 2FA challenge must stay reachable for sessions
// the gate would otherwise bounce to it.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, acct *handler.AccountHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	// TOTP challenge endpoints need a valid access token but no gate.
	tfa := e.Group("/v1/auth/2fa")
	tfa.Use(middleware.JWTAuth(jwtSecret))
	tfa.POST("/setup", acct.SetupTwoFactor)
	tfa.POST("/verify", acct.VerifyTwoFactor)
	tfa.POST("/disable", acct.DisableTwoFactor)
}
