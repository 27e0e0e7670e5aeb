package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/homereach/estate-api/internal/middleware"
	"github.com/homereach/estate-api/internal/repository"
)

// ReviewHandler serves listing reviews.
type ReviewHandler struct {
	Reviews  *repository.ReviewRepo
	Listings *repository.ListingRepo
}

type reviewReq struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Create adds a review for a listing.  One review per user per listing;
// the unique pair is enforced by the store and surfaces as 409 here.
func (h *ReviewHandler) Create(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be 1-5"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Listings.GetByID(ctx, listingID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	id, err := h.Reviews.Create(ctx, listingID, uid, req.Rating, strings.TrimSpace(req.Comment))
	if err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "already reviewed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// List returns reviews and the rating aggregate for a listing.
func (h *ReviewHandler) List(c echo.Context) error {
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Reviews.ListForListing(ctx, listingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	count, avg, err := h.Reviews.Aggregate(ctx, listingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":          items,
		"count":          count,
		"average_rating": avg,
	})
}

// Delete removes the caller's own review.
func (h *ReviewHandler) Delete(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	id, err := strconv.ParseUint(c.Param("reviewID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reviews.Delete(ctx, id, uid); err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
