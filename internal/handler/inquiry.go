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
	"github.com/homereach/estate-api/internal/model"
	"github.com/homereach/estate-api/internal/queue"
	"github.com/homereach/estate-api/internal/repository"
	"github.com/homereach/estate-api/internal/service/notify"
)

// InquiryHandler serves buyer inquiries and their owner-side workflow.
type InquiryHandler struct {
	Users     *repository.UserRepo
	Listings  *repository.ListingRepo
	Inquiries *repository.InquiryRepo
}

type inquiryReq struct {
	Message          string `json:"message"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	PreferredContact string `json:"preferred_contact"`
}

// Create raises an inquiry against a listing and queues the notification
// for the owner and managing agent.  The response carries the reference
// UUID the requester quotes later.
func (h *InquiryHandler) Create(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req inquiryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message required"})
	}
	contact := strings.ToLower(strings.TrimSpace(req.PreferredContact))
	if contact == "" {
		contact = model.ContactEmail
	}
	if !model.ValidContactMethod(contact) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown preferred_contact"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Listings.GetByID(ctx, listingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = u.Email
	}

	inq, err := h.Inquiries.Create(ctx, model.Inquiry{
		ListingID:        listingID,
		UserID:           uid,
		Message:          req.Message,
		Phone:            strings.TrimSpace(req.Phone),
		Email:            email,
		PreferredContact: contact,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}

	ev := queue.InquiryCreatedEvent{
		InquiryID:        inq.ID,
		Reference:        inq.Reference,
		ListingID:        l.ID,
		ListingTitle:     l.Title,
		OwnerID:          l.OwnerID,
		FromUserID:       uid,
		FromEmail:        email,
		PreferredContact: contact,
		CreatedAt:        time.Now().UTC().Format(time.RFC3339),
	}
	if l.AgentID != nil {
		ev.AgentID = *l.AgentID
	}
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		_ = notify.PublishInquiryCreated(pubCtx, ev)
	}()

	return c.JSON(http.StatusCreated, echo.Map{"id": inq.ID, "reference": inq.Reference})
}

// Received lists inquiries addressed to the caller as owner or managing
// agent, newest first.
func (h *InquiryHandler) Received(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Inquiries.ListForRecipient(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ForListing lists the inquiries of one listing for its owner or managing
// agent, newest first.
func (h *InquiryHandler) ForListing(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Listings.GetByID(ctx, listingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if l.OwnerID != uid && (l.AgentID == nil || *l.AgentID != uid) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	items, err := h.Inquiries.ListForListing(ctx, l.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// SetStatus moves an inquiry through its workflow.  Only the listing's
// owner or managing agent may transition it.
func (h *InquiryHandler) SetStatus(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	id, err := strconv.ParseUint(c.Param("inquiryID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || !model.ValidInquiryStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	inq, status, errMsg := h.loadForRecipient(ctx, id, uid)
	if errMsg != "" {
		return c.JSON(status, echo.Map{"error": errMsg})
	}

	if err := h.Inquiries.SetStatus(ctx, inq.ID, req.Status); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": inq.ID, "status": req.Status})
}

// MarkRead flags an inquiry as read by its recipient.
func (h *InquiryHandler) MarkRead(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	id, err := strconv.ParseUint(c.Param("inquiryID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	inq, status, errMsg := h.loadForRecipient(ctx, id, uid)
	if errMsg != "" {
		return c.JSON(status, echo.Map{"error": errMsg})
	}

	if err := h.Inquiries.MarkRead(ctx, inq.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// loadForRecipient fetches an inquiry and verifies the caller owns or
// manages the listing it targets.
func (h *InquiryHandler) loadForRecipient(ctx context.Context, id, uid uint64) (model.Inquiry, int, string) {
	inq, err := h.Inquiries.Get(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Inquiry{}, http.StatusNotFound, "not found"
		}
		return model.Inquiry{}, http.StatusInternalServerError, "query failed"
	}
	l, err := h.Listings.GetByID(ctx, inq.ListingID)
	if err != nil {
		return model.Inquiry{}, http.StatusInternalServerError, "query failed"
	}
	if l.OwnerID != uid && (l.AgentID == nil || *l.AgentID != uid) {
		return model.Inquiry{}, http.StatusForbidden, "forbidden"
	}
	return inq, 0, ""
}
