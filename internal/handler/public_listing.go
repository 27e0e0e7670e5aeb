// This file defines the unauthenticated browsing surface: listing search,
// detail pages, the featured strip, map points and the tag catalogs.
// Responses expose display values only; scaled integer columns never leave
// the repository layer.

package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/homereach/estate-api/internal/config"
	"github.com/homereach/estate-api/internal/model"
	"github.com/homereach/estate-api/internal/repository"
	"github.com/homereach/estate-api/internal/search"
	"github.com/homereach/estate-api/prometheus"
)

// PublicListingHandler aggregates the repositories needed for
// unauthenticated browsing.
type PublicListingHandler struct {
	Cfg       config.Config
	Listings  *repository.ListingRepo
	Images    *repository.ImageRepo
	Tags      *repository.TagRepo
	Reviews   *repository.ReviewRepo
	Favorites *repository.FavoriteRepo
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Search runs the composed listing search.  Criteria parsing is tolerant,
// so the only 400 this endpoint produces is the cross-field area bound
// check; everything else malformed is simply ignored.  Guests always see
// available listings only; an authenticated agent may pass status=all or a
// concrete status to look across the full lifecycle.
func (h *PublicListingHandler) Search(c echo.Context) error {
	crit := search.ParseCriteria(c.QueryParams())
	if _, role, ok := h.optionalIdentity(c); ok {
		if status, all := privilegedStatus(role, c.QueryParam("status")); all {
			crit.Status = status
			crit.IncludeAllStatuses = true
		}
	}
	page, pageSize := paginationParams(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	start := time.Now()
	items, total, err := h.Listings.Search(ctx, crit, page, pageSize)
	if err != nil {
		var ve *search.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":  "validation",
				"fields": ve.Fields,
				"reason": ve.Reason,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	prometheus.RecordSearch(crit.Sort)
	prometheus.SearchDuration.Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, echo.Map{
		"items":     items,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// listingDetail is the full public shape of one listing.
type listingDetail struct {
	ID             uint64                   `json:"id"`
	Title          string                   `json:"title"`
	Slug           string                   `json:"slug"`
	Description    string                   `json:"description"`
	PropertyType   string                   `json:"property_type"`
	ListingType    string                   `json:"listing_type"`
	Status         string                   `json:"status"`
	Price          float64                  `json:"price"`
	Area           float64                  `json:"area"`
	Bedrooms       int                      `json:"bedrooms"`
	Bathrooms      float64                  `json:"bathrooms"`
	Garage         int                      `json:"garage"`
	YearBuilt      *int                     `json:"year_built,omitempty"`
	Address        string                   `json:"address"`
	City           string                   `json:"city"`
	State          string                   `json:"state"`
	ZipCode        string                   `json:"zip_code"`
	Country        string                   `json:"country"`
	Latitude       *float64                 `json:"latitude,omitempty"`
	Longitude      *float64                 `json:"longitude,omitempty"`
	MainImageURL   string                   `json:"main_image_url"`
	VideoURL       string                   `json:"video_url,omitempty"`
	VirtualTourURL string                   `json:"virtual_tour_url,omitempty"`
	AgentID        *uint64                  `json:"agent_id,omitempty"`
	IsFeatured     bool                     `json:"is_featured"`
	ViewsCount     uint64                   `json:"views_count"`
	CreatedAt      string                   `json:"created_at"`
	Images         []imagePart              `json:"images"`
	Features       []model.Feature          `json:"features"`
	Amenities      []model.Amenity          `json:"amenities"`
	Reviews        []repository.ReviewRow   `json:"reviews"`
	ReviewCount    int64                    `json:"review_count"`
	AverageRating  float64                  `json:"average_rating"`
	IsFavorited    bool                     `json:"is_favorited"`
	Similar        []repository.ListingSummary `json:"similar"`
}

type imagePart struct {
	ID        uint64 `json:"id"`
	ImageURL  string `json:"image_url"`
	Caption   string `json:"caption,omitempty"`
	IsPrimary bool   `json:"is_primary"`
}

// Detail serves one listing, bumping the view counter.  The path segment
// is a slug, with a numeric id fallback for older clients.  Listings that
// are not available stay reachable here so closed deals keep their detail
// page.
func (h *PublicListingHandler) Detail(c echo.Context) error {
	ref := strings.TrimSpace(c.Param("id"))
	if ref == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "listing reference required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Listings.GetBySlug(ctx, ref)
	if err == sql.ErrNoRows {
		if id, perr := strconv.ParseUint(ref, 10, 64); perr == nil {
			l, err = h.Listings.GetByID(ctx, id)
		}
	}
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	// View counting is best effort and never blocks the response.
	_ = h.Listings.IncrementViews(ctx, l.ID)
	prometheus.ListingViewsCounter.WithLabelValues(strconv.FormatUint(l.ID, 10)).Inc()

	detail := listingDetail{
		ID:             l.ID,
		Title:          l.Title,
		Slug:           l.Slug,
		Description:    l.Description,
		PropertyType:   l.PropertyType,
		ListingType:    l.ListingType,
		Status:         l.Status,
		Price:          l.Price(),
		Area:           l.Area(),
		Bedrooms:       l.Bedrooms,
		Bathrooms:      l.Bathrooms(),
		Garage:         l.Garage,
		YearBuilt:      l.YearBuilt,
		Address:        l.Address,
		City:           l.City,
		State:          l.State,
		ZipCode:        l.ZipCode,
		Country:        l.Country,
		Latitude:       l.Latitude,
		Longitude:      l.Longitude,
		MainImageURL:   l.MainImageURL,
		VideoURL:       l.VideoURL,
		VirtualTourURL: l.VirtualTourURL,
		AgentID:        l.AgentID,
		IsFeatured:     l.IsFeatured,
		ViewsCount:     l.ViewsCount + 1,
		CreatedAt:      l.CreatedAt.Format(time.RFC3339),
		Images:         []imagePart{},
		Features:       []model.Feature{},
		Amenities:      []model.Amenity{},
		Reviews:        []repository.ReviewRow{},
		Similar:        []repository.ListingSummary{},
	}

	if imgs, err := h.Images.ListForListing(ctx, l.ID); err == nil {
		for _, img := range imgs {
			detail.Images = append(detail.Images, imagePart{
				ID: img.ID, ImageURL: img.ImageURL, Caption: img.Caption, IsPrimary: img.IsPrimary,
			})
		}
	}
	if feats, err := h.Tags.ListingFeatures(ctx, l.ID); err == nil {
		detail.Features = feats
	}
	if ams, err := h.Tags.ListingAmenities(ctx, l.ID); err == nil {
		detail.Amenities = ams
	}
	if revs, err := h.Reviews.ListForListing(ctx, l.ID); err == nil {
		detail.Reviews = revs
	}
	if count, avg, err := h.Reviews.Aggregate(ctx, l.ID); err == nil {
		detail.ReviewCount = count
		detail.AverageRating = avg
	}
	if sim, err := h.Listings.Similar(ctx, l.PropertyType, l.ID, 3); err == nil {
		detail.Similar = summarize(sim)
	}
	if uid, _, ok := h.optionalIdentity(c); ok {
		if fav, err := h.Favorites.IsFavorited(ctx, uid, l.ID); err == nil {
			detail.IsFavorited = fav
		}
	}

	return c.JSON(http.StatusOK, detail)
}

// Featured returns the home page strip: featured listings first, padded
// with the newest available ones.
func (h *PublicListingHandler) Featured(c echo.Context) error {
	limit := 6
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 24 {
		limit = v
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Listings.Featured(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": summarize(items)})
}

// MapPoints returns coordinates of geocoded available listings for map
// rendering.
func (h *PublicListingHandler) MapPoints(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	points, err := h.Listings.Geocoded(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": points})
}

// Features serves the feature tag catalog.
func (h *PublicListingHandler) Features(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Tags.Features(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Amenities serves the amenity tag catalog.
func (h *PublicListingHandler) Amenities(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Tags.Amenities(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// optionalIdentity extracts the subject and role from a bearer token when
// present.  Public routes are not behind JWTAuth, but a logged-in client
// still sends its token so the favorite flag and the privileged status
// filter can be personalized.
func (h *PublicListingHandler) optionalIdentity(c echo.Context) (uint64, string, bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return 0, "", false
	}
	tok, err := jwt.Parse(strings.TrimPrefix(auth, "Bearer "), func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(h.Cfg.JWTSecret), nil
	})
	if err != nil || !tok.Valid {
		return 0, "", false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", false
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, "", false
	}
	role, _ := claims["role"].(string)
	return uint64(sub), role, true
}

// privilegedStatus interprets the status query parameter for an
// authenticated caller.  Only agents may look past the implicit
// available-only restriction: "all" lifts it entirely, a concrete status
// narrows to that lifecycle state.  Anything else keeps the guest view.
func privilegedStatus(role, param string) (status string, includeAll bool) {
	if role != model.RoleAgent {
		return "", false
	}
	param = strings.TrimSpace(strings.ToLower(param))
	switch {
	case param == "all":
		return "", true
	case model.ValidStatus(param):
		return param, true
	}
	return "", false
}

// paginationParams reads page/page_size with the same tolerance as the
// criteria parser: malformed values fall back to defaults.
func paginationParams(c echo.Context) (page, pageSize int) {
	page = 1
	pageSize = defaultPageSize
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && v > 0 {
		pageSize = v
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}
	return page, pageSize
}

// summarize converts full listing rows to the summary shape shared with
// search results.
func summarize(ls []model.Listing) []repository.ListingSummary {
	out := make([]repository.ListingSummary, 0, len(ls))
	for _, l := range ls {
		out = append(out, summarizeOne(l))
	}
	return out
}

func summarizeOne(l model.Listing) repository.ListingSummary {
	return repository.ListingSummary{
		ID:           l.ID,
		Title:        l.Title,
		Slug:         l.Slug,
		PropertyType: l.PropertyType,
		ListingType:  l.ListingType,
		Status:       l.Status,
		Price:        l.Price(),
		Area:         l.Area(),
		Bedrooms:     l.Bedrooms,
		Bathrooms:    l.Bathrooms(),
		City:         l.City,
		State:        l.State,
		MainImageURL: l.MainImageURL,
		IsFeatured:   l.IsFeatured,
		CreatedAt:    l.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
