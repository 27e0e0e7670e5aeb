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
	"github.com/homereach/estate-api/internal/repository"
)

// MessageHandler serves the user-to-user message box.
type MessageHandler struct {
	Users    *repository.UserRepo
	Messages *repository.MessageRepo
}

type messageReq struct {
	RecipientID uint64 `json:"recipient_id"`
	Subject     string `json:"subject"`
	Content     string `json:"content"`
}

// Send delivers a message to another user.
func (h *MessageHandler) Send(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	var req messageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.RecipientID == 0 || req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "recipient_id and content required"})
	}
	if req.RecipientID == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot message yourself"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, req.RecipientID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "recipient not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	id, err := h.Messages.Create(ctx, model.Message{
		SenderID:    uid,
		RecipientID: req.RecipientID,
		Subject:     strings.TrimSpace(req.Subject),
		Content:     req.Content,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Inbox lists received, unarchived messages plus the unread count.
func (h *MessageHandler) Inbox(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Messages.Inbox(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	unread, err := h.Messages.UnreadCount(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "unread": unread})
}

// Sent lists messages the caller has sent.
func (h *MessageHandler) Sent(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Messages.Sent(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// MarkRead flags a received message as read.
func (h *MessageHandler) MarkRead(c echo.Context) error {
	return h.flag(c, h.Messages.MarkRead)
}

// Archive hides a received message from the inbox.
func (h *MessageHandler) Archive(c echo.Context) error {
	return h.flag(c, h.Messages.Archive)
}

func (h *MessageHandler) flag(c echo.Context, op func(context.Context, uint64, uint64) error) error {
	uid, _ := middleware.UserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := op(ctx, id, uid); err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
