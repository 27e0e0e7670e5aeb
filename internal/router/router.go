// Package router wires HTTP routes to handlers and middleware.  Public
// browse routes carry the response cache, auth routes carry the rate
// limiter, and every authenticated group runs the account security gate
// right after token validation.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/homereach/estate-api/internal/handler"
)

// RegisterRoutes registers the unauthenticated infrastructure endpoints:
// the health probe and the Prometheus scrape target.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
