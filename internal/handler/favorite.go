package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/homereach/estate-api/internal/middleware"
	"github.com/homereach/estate-api/internal/repository"
)

// FavoriteHandler serves the per-user favorites list.
type FavoriteHandler struct {
	Favorites *repository.FavoriteRepo
	Listings  *repository.ListingRepo
}

// Toggle flips the favorite state of a listing for the caller and reports
// the new state.
func (h *FavoriteHandler) Toggle(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Listings.GetByID(ctx, listingID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	favorited, err := h.Favorites.Toggle(ctx, uid, listingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "toggle failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"listing_id": listingID, "favorited": favorited})
}

// List returns the caller's favorited listings as summaries.
func (h *FavoriteHandler) List(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ids, err := h.Favorites.ListingIDsForUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	items := make([]repository.ListingSummary, 0, len(ids))
	for _, id := range ids {
		l, err := h.Listings.GetByID(ctx, id)
		if err != nil {
			continue // listing deleted since it was favorited
		}
		items = append(items, summarizeOne(l))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
