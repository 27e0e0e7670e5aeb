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

// AgentHandler serves the public agent directory and the agent's own
// professional profile.
type AgentHandler struct {
	Agents   *repository.AgentRepo
	Listings *repository.ListingRepo
}

type agentProfileReq struct {
	LicenseNumber   string `json:"license_number"`
	CompanyName     string `json:"company_name"`
	ExperienceYears int    `json:"experience_years"`
	Specializations string `json:"specializations"`
	ServiceAreas    string `json:"service_areas"`
	Languages       string `json:"languages"`
	OfficePhone     string `json:"office_phone"`
	OfficeAddress   string `json:"office_address"`
}

// UpsertProfile creates or updates the caller's agent profile.  Route is
// behind RequireRole(agent).
func (h *AgentHandler) UpsertProfile(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	var req agentProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.LicenseNumber) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "license_number required"})
	}
	if req.ExperienceYears < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "experience_years must be non-negative"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err := h.Agents.Upsert(ctx, model.AgentProfile{
		UserID:          uid,
		LicenseNumber:   strings.TrimSpace(req.LicenseNumber),
		CompanyName:     strings.TrimSpace(req.CompanyName),
		ExperienceYears: req.ExperienceYears,
		Specializations: strings.TrimSpace(req.Specializations),
		ServiceAreas:    strings.TrimSpace(req.ServiceAreas),
		Languages:       strings.TrimSpace(req.Languages),
		OfficePhone:     strings.TrimSpace(req.OfficePhone),
		OfficeAddress:   strings.TrimSpace(req.OfficeAddress),
	})
	if err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "license number already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"saved": true})
}

// MyProfile returns the caller's agent profile.
func (h *AgentHandler) MyProfile(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Agents.GetByUserID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no agent profile"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Detail is the public agent page: the profile plus the agent's available
// listings, owned or managed.
func (h *AgentHandler) Detail(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid agent id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Agents.GetByUserID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "agent not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	listings, err := h.Listings.AvailableByAgent(ctx, id, 50)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"profile":  p,
		"listings": summarize(listings),
	})
}

// Directory is the public agent listing, ordered by active listing count.
func (h *AgentHandler) Directory(c echo.Context) error {
	limit := 50
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Agents.Directory(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rows})
}
