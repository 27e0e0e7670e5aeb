package middleware

// identity.go holds small helpers shared by the rate limiter and cache
// for identifying the requesting user in cache/limiter keys.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// rateIdentity returns a stable identifier for the requesting user, or
// "anon" when the request carries no authenticated identity.
func rateIdentity(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
