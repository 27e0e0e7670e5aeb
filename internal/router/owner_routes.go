package router

import (
	"github.com/labstack/echo/v4"

	"github.com/homereach/estate-api/internal/handler"
	"github.com/homereach/estate-api/internal/middleware"
	"github.com/homereach/estate-api/internal/model"
)

// RegisterOwner registers listing management under /v1/my/listings and the
// agent profile routes.  The prefix is one of the gate's sensitive paths:
// accounts with two-factor enabled need a verified session here.  Creation
// is limited to sellers and agents at the routing layer; ownership checks
// on individual listings live in the handlers.
func RegisterOwner(e *echo.Echo, o *handler.OwnerListingHandler, ag *handler.AgentHandler, gated ...echo.MiddlewareFunc) {
	my := e.Group("/v1/my", gated...)

	owning := middleware.RequireRole(model.RoleSeller, model.RoleAgent)

	my.GET("/listings", o.Mine, owning)
	my.POST("/listings", o.Create, owning)
	my.PUT("/listings/:id", o.Update, owning)
	my.DELETE("/listings/:id", o.Delete, owning)
	my.PUT("/listings/:id/status", o.SetStatus, owning)
	my.POST("/listings/:id/images", o.AddImage, owning)
	my.DELETE("/listings/:id/images/:imageID", o.DeleteImage, owning)

	agentOnly := middleware.RequireRole(model.RoleAgent)
	my.GET("/agent-profile", ag.MyProfile, agentOnly)
	my.PUT("/agent-profile", ag.UpsertProfile, agentOnly)
}
