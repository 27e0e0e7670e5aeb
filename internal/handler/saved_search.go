package handler

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/homereach/estate-api/internal/middleware"
	"github.com/homereach/estate-api/internal/model"
	"github.com/homereach/estate-api/internal/repository"
	"github.com/homereach/estate-api/internal/search"
)

// SavedSearchHandler persists named criteria sets and replays them through
// the same composer as live searches.
type SavedSearchHandler struct {
	Searches *repository.SavedSearchRepo
	Listings *repository.ListingRepo
}

type savedSearchReq struct {
	Name         string   `json:"name"`
	PropertyType string   `json:"property_type"`
	MinPrice     *float64 `json:"min_price"`
	MaxPrice     *float64 `json:"max_price"`
	MinBedrooms  *int     `json:"min_bedrooms"`
	MinBathrooms *float64 `json:"min_bathrooms"`
	MinArea      *float64 `json:"min_area"`
	MaxArea      *float64 `json:"max_area"`
	Location     string   `json:"location"`
}

// Create stores a named search for the caller.
func (h *SavedSearchHandler) Create(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	var req savedSearchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if req.PropertyType != "" && !model.ValidPropertyType(req.PropertyType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown property_type"})
	}

	s := model.SavedSearch{
		UserID:       uid,
		Name:         req.Name,
		PropertyType: req.PropertyType,
		Location:     strings.TrimSpace(req.Location),
	}
	s.MinPriceCents = scale100(req.MinPrice)
	s.MaxPriceCents = scale100(req.MaxPrice)
	s.MinBedrooms = req.MinBedrooms
	if req.MinBathrooms != nil {
		v := int(math.Round(*req.MinBathrooms * 10))
		s.MinBathroomsX10 = &v
	}
	s.MinAreaX100 = scale100(req.MinArea)
	s.MaxAreaX100 = scale100(req.MaxArea)

	// Reject inverted area bounds up front; the composer would refuse them
	// on every replay, which would leave the saved row permanently broken.
	if s.MinAreaX100 != nil && s.MaxAreaX100 != nil && *s.MinAreaX100 > *s.MaxAreaX100 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "validation",
			"fields": []string{"min_area", "max_area"},
			"reason": "minimum area cannot be greater than maximum area",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Searches.Create(ctx, s)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// List returns the caller's saved searches.
func (h *SavedSearchHandler) List(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Searches.ListForUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Run replays a saved search through the composer and returns the current
// matches.
func (h *SavedSearchHandler) Run(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	page, pageSize := paginationParams(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Searches.Get(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if s.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	crit := search.Criteria{
		PropertyType:    s.PropertyType,
		MinPriceCents:   s.MinPriceCents,
		MaxPriceCents:   s.MaxPriceCents,
		MinBedrooms:     s.MinBedrooms,
		MinBathroomsX10: s.MinBathroomsX10,
		MinAreaX100:     s.MinAreaX100,
		MaxAreaX100:     s.MaxAreaX100,
		Location:        s.Location,
	}
	items, total, err := h.Listings.Search(ctx, crit, page, pageSize)
	if err != nil {
		var ve *search.ValidationError
		if errors.As(err, &ve) {
			// Rows saved before bounds were validated at create time.
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":  "validation",
				"fields": ve.Fields,
				"reason": ve.Reason,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":     items,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// Delete removes one of the caller's saved searches.
func (h *SavedSearchHandler) Delete(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Searches.Delete(ctx, id, uid); err != nil {
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

func scale100(v *float64) *int64 {
	if v == nil {
		return nil
	}
	n := int64(math.Round(*v * 100))
	return &n
}
