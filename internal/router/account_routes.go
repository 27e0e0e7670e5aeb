package router

import (
	"github.com/labstack/echo/v4"

	"github.com/homereach/estate-api/internal/handler"
)

// RegisterAccount registers the authenticated, gated routes that are not
// listing management: the account surface, listing interactions
// (favorites, reviews, inquiries), the message box and saved searches.
// gated must contain JWTAuth followed by the security gate.
func RegisterAccount(
	e *echo.Echo,
	a *handler.AuthHandler,
	acct *handler.AccountHandler,
	rev *handler.ReviewHandler,
	fav *handler.FavoriteHandler,
	inq *handler.InquiryHandler,
	msg *handler.MessageHandler,
	saved *handler.SavedSearchHandler,
	gated ...echo.MiddlewareFunc,
) {
	account := e.Group("/v1/account", gated...)
	account.GET("/me", acct.Me)
	account.PUT("/settings", acct.UpdateSettings)
	account.PUT("/password", acct.ChangePassword)
	account.POST("/verify-email/resend", a.ResendVerification)

	// Interactions against a listing.
	listings := e.Group("/v1/listings", gated...)
	listings.POST("/:id/reviews", rev.Create)
	listings.POST("/:id/favorite", fav.Toggle)
	listings.POST("/:id/inquiries", inq.Create)
	e.Group("/v1/reviews", gated...).DELETE("/:reviewID", rev.Delete)

	my := e.Group("/v1/my", gated...)
	my.GET("/favorites", fav.List)
	my.GET("/inquiries", inq.Received)
	my.GET("/listings/:id/inquiries", inq.ForListing)
	my.PUT("/inquiries/:inquiryID/status", inq.SetStatus)
	my.POST("/inquiries/:inquiryID/read", inq.MarkRead)

	my.POST("/messages", msg.Send)
	my.GET("/messages", msg.Inbox)
	my.GET("/messages/sent", msg.Sent)
	my.POST("/messages/:id/read", msg.MarkRead)
	my.POST("/messages/:id/archive", msg.Archive)

	my.POST("/searches", saved.Create)
	my.GET("/searches", saved.List)
	my.GET("/searches/:id/results", saved.Run)
	my.DELETE("/searches/:id", saved.Delete)
}
