package middleware // reusable HTTP middleware for the API routes

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys written by JWTAuth and read by downstream middleware and
// handlers.
const (
	ctxUserID = "user_id"
	ctxRole   = "role"
	ctxTFA    = "tfa"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the subject, role and two-factor claims into the request
// context.  The provided secret must match the one used when issuing
// tokens.  Protected routes should be wrapped with this middleware so that
// handlers can read the authenticated identity via UserID(c) and Role(c).
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			// Numeric claims decode as float64 from JSON; normalize once
			// here so handlers never deal with claim types.
			sub, ok := claims["sub"].(float64)
			if !ok || sub <= 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			c.Set(ctxUserID, uint64(sub))
			if role, ok := claims["role"].(string); ok {
				c.Set(ctxRole, role)
			}
			if tfa, ok := claims["tfa"].(bool); ok {
				c.Set(ctxTFA, tfa)
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated user's ID from the request context.
// The boolean is false on unauthenticated requests.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ctxUserID).(uint64)
	return id, ok
}

// Role returns the authenticated user's role, or "" when absent.
func Role(c echo.Context) string {
	role, _ := c.Get(ctxRole).(string)
	return role
}

// TwoFAVerified reports whether the session's access token carries a
// two-factor verification marker.
func TwoFAVerified(c echo.Context) bool {
	tfa, _ := c.Get(ctxTFA).(bool)
	return tfa
}
