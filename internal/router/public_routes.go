package router

import (
	"github.com/labstack/echo/v4"

	"github.com/homereach/estate-api/internal/handler"
)

// RegisterPublic registers the guest browsing surface.  The optional cache
// middleware serves repeated searches and catalog reads from Redis.
func RegisterPublic(e *echo.Echo, p *handler.PublicListingHandler, r *handler.ReviewHandler, ag *handler.AgentHandler, acct *handler.AccountHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}

	g.GET("/listings", p.Search)
	g.GET("/listings/featured", p.Featured)
	g.GET("/listings/map", p.MapPoints)
	g.GET("/listings/:id", p.Detail)
	g.GET("/listings/:id/reviews", r.List)
	g.GET("/features", p.Features)
	g.GET("/amenities", p.Amenities)
	g.GET("/agents", ag.Directory)
	g.GET("/agents/:id", ag.Detail)

	// Verification links are clicked from mail, so no bearer token.
	e.GET("/v1/account/verify-email", acct.VerifyEmail)
}
