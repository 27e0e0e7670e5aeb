// This file defines the authenticated listing management surface under
// /v1/my/listings.  Create is restricted to sellers and agents; editing is
// allowed for the owner and the managing agent; deletion stays owner-only.

package handler

import (
	"context"
	"database/sql"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/homereach/estate-api/internal/middleware"
	"github.com/homereach/estate-api/internal/model"
	"github.com/homereach/estate-api/internal/repository"
	"github.com/homereach/estate-api/prometheus"
)

// OwnerListingHandler bundles the repositories behind listing management.
type OwnerListingHandler struct {
	Users    *repository.UserRepo
	Listings *repository.ListingRepo
	Images   *repository.ImageRepo
	Tags     *repository.TagRepo
}

// listingReq is the request shape shared by create and update.  Decimal
// fields arrive as display values and are scaled on the way in.
type listingReq struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	PropertyType   string   `json:"property_type"`
	ListingType    string   `json:"listing_type"`
	Price          float64  `json:"price"`
	Area           float64  `json:"area"`
	Bedrooms       int      `json:"bedrooms"`
	Bathrooms      float64  `json:"bathrooms"`
	Garage         int      `json:"garage"`
	YearBuilt      *int     `json:"year_built"`
	Address        string   `json:"address"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	ZipCode        string   `json:"zip_code"`
	Country        string   `json:"country"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	MainImageURL   string   `json:"main_image_url"`
	VideoURL       string   `json:"video_url"`
	VirtualTourURL string   `json:"virtual_tour_url"`
	AgentID        *uint64  `json:"agent_id"`
	FeatureIDs     []int64  `json:"feature_ids"`
	AmenityIDs     []int64  `json:"amenity_ids"`
}

func (req *listingReq) validate() (string, bool) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return "title required", false
	}
	if !model.ValidPropertyType(req.PropertyType) {
		return "unknown property_type", false
	}
	if !model.ValidListingType(req.ListingType) {
		return "unknown listing_type", false
	}
	if req.Price < 0 || req.Area < 0 || req.Bedrooms < 0 || req.Bathrooms < 0 || req.Garage < 0 {
		return "numeric fields must be non-negative", false
	}
	return "", true
}

func (req *listingReq) apply(l *model.Listing) {
	l.Title = req.Title
	l.Description = req.Description
	l.PropertyType = req.PropertyType
	l.ListingType = req.ListingType
	l.PriceCents = int64(math.Round(req.Price * 100))
	l.AreaX100 = int64(math.Round(req.Area * 100))
	l.Bedrooms = req.Bedrooms
	l.BathroomsX10 = int(math.Round(req.Bathrooms * 10))
	l.Garage = req.Garage
	l.YearBuilt = req.YearBuilt
	l.Address = strings.TrimSpace(req.Address)
	l.City = strings.TrimSpace(req.City)
	l.State = strings.TrimSpace(req.State)
	l.ZipCode = strings.TrimSpace(req.ZipCode)
	l.Country = strings.TrimSpace(req.Country)
	l.Latitude = req.Latitude
	l.Longitude = req.Longitude
	l.MainImageURL = strings.TrimSpace(req.MainImageURL)
	l.VideoURL = strings.TrimSpace(req.VideoURL)
	l.VirtualTourURL = strings.TrimSpace(req.VirtualTourURL)
	l.AgentID = req.AgentID
}

// Create inserts a new listing for the authenticated seller or agent.  An
// agent creating a listing becomes its managing agent unless another agent
// was named explicitly.
func (h *OwnerListingHandler) Create(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	var req listingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg, ok := req.validate(); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !u.CanOwnListing() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only sellers and agents can create listings"})
	}

	l := model.Listing{Status: model.StatusAvailable, OwnerID: uid}
	req.apply(&l)
	if l.AgentID == nil && u.CanManageListing() {
		l.AgentID = &uid
	}

	if err := h.Listings.Create(ctx, &l); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	if len(req.FeatureIDs) > 0 || len(req.AmenityIDs) > 0 {
		if err := h.Tags.SetListingTags(ctx, l.ID, req.FeatureIDs, req.AmenityIDs); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save tags failed"})
		}
	}
	prometheus.RecordListingOperation("create")

	return c.JSON(http.StatusCreated, echo.Map{"id": l.ID, "slug": l.Slug})
}

// Update edits a listing the caller owns or manages.  The slug is derived
// once at creation and never changes, so saved links survive title edits.
func (h *OwnerListingHandler) Update(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req listingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg, ok := req.validate(); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, status, errMsg := h.loadEditable(ctx, id, uid, false)
	if errMsg != "" {
		return c.JSON(status, echo.Map{"error": errMsg})
	}

	req.apply(&l)
	if err := h.Listings.Update(ctx, l); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if req.FeatureIDs != nil || req.AmenityIDs != nil {
		if err := h.Tags.SetListingTags(ctx, l.ID, req.FeatureIDs, req.AmenityIDs); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save tags failed"})
		}
	}
	prometheus.RecordListingOperation("update")

	return c.JSON(http.StatusOK, echo.Map{"id": l.ID, "slug": l.Slug})
}

// SetStatus transitions a listing's lifecycle state (sold, rented,
// pending, off_market, back to available).
func (h *OwnerListingHandler) SetStatus(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || !model.ValidStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, status, errMsg := h.loadEditable(ctx, id, uid, false)
	if errMsg != "" {
		return c.JSON(status, echo.Map{"error": errMsg})
	}

	if err := h.Listings.SetStatus(ctx, l.ID, req.Status); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	prometheus.RecordListingOperation("status_" + req.Status)

	return c.JSON(http.StatusOK, echo.Map{"id": l.ID, "status": req.Status})
}

// Delete removes a listing.  Only the owner may delete; the managing
// agent can close a deal but never erase the record.
func (h *OwnerListingHandler) Delete(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, status, errMsg := h.loadEditable(ctx, id, uid, true)
	if errMsg != "" {
		return c.JSON(status, echo.Map{"error": errMsg})
	}

	if err := h.Listings.Delete(ctx, l.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	prometheus.RecordListingOperation("delete")

	return c.NoContent(http.StatusNoContent)
}

// Mine lists the caller's owned listings plus, for agents, the listings
// they manage for other owners.
func (h *OwnerListingHandler) Mine(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	owned, err := h.Listings.ListByOwner(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	resp := echo.Map{"owned": summarize(owned)}

	if middleware.Role(c) == model.RoleAgent {
		managed, err := h.Listings.ListManagedBy(ctx, uid)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		resp["managed"] = summarize(managed)
	}
	return c.JSON(http.StatusOK, resp)
}

type imageReq struct {
	ImageURL  string `json:"image_url"`
	Caption   string `json:"caption"`
	IsPrimary bool   `json:"is_primary"`
}

// maxGalleryImages caps the gallery per listing.
const maxGalleryImages = 20

// AddImage appends a gallery image to a listing, up to the gallery cap.
func (h *OwnerListingHandler) AddImage(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req imageReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.ImageURL) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image_url required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, status, errMsg := h.loadEditable(ctx, id, uid, false)
	if errMsg != "" {
		return c.JSON(status, echo.Map{"error": errMsg})
	}

	if n, err := h.Images.CountForListing(ctx, l.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	} else if n >= maxGalleryImages {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "gallery full"})
	}

	imgID, err := h.Images.Add(ctx, model.ListingImage{
		ListingID: l.ID,
		ImageURL:  strings.TrimSpace(req.ImageURL),
		Caption:   strings.TrimSpace(req.Caption),
		IsPrimary: req.IsPrimary,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save image failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": imgID})
}

// DeleteImage removes a gallery image from a listing the caller can edit.
func (h *OwnerListingHandler) DeleteImage(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	imgID, err := strconv.ParseUint(c.Param("imageID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid image id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, status, errMsg := h.loadEditable(ctx, id, uid, false)
	if errMsg != "" {
		return c.JSON(status, echo.Map{"error": errMsg})
	}

	img, err := h.Images.Get(ctx, imgID)
	if err != nil || img.ListingID != l.ID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	if err := h.Images.Delete(ctx, imgID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// loadEditable fetches a listing and checks edit rights.  Listings the
// caller cannot see at all yield 404; listings the caller can see but not
// touch yield 403.  ownerOnly restricts the action to the owner, cutting
// the managing agent out.
func (h *OwnerListingHandler) loadEditable(ctx context.Context, id, uid uint64, ownerOnly bool) (model.Listing, int, string) {
	l, err := h.Listings.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Listing{}, http.StatusNotFound, "not found"
		}
		return model.Listing{}, http.StatusInternalServerError, "query failed"
	}
	if l.OwnerID == uid {
		return l, 0, ""
	}
	if !ownerOnly && l.AgentID != nil && *l.AgentID == uid {
		return l, 0, ""
	}
	return model.Listing{}, http.StatusForbidden, "forbidden"
}
