package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/LeFrancilien/LeadFlow/internal/dto"
	"github.com/LeFrancilien/LeadFlow/internal/service"
)

// LeadsHandler exposes the lead CRUD endpoints.
type LeadsHandler struct {
	service *service.LeadsService
}

// NewLeadsHandler creates a new handler instance.
func NewLeadsHandler(service *service.LeadsService) *LeadsHandler {
	return &LeadsHandler{service: service}
}

// leadListResponse pairs the page of leads with the unpaginated total.
type leadListResponse struct {
	Leads any `json:"leads"`
	Total int `json:"total"`
}

// List handles GET /leads requests.
func (h *LeadsHandler) List(c echo.Context) error {
	filter := dto.LeadFilter{
		Search:  strings.TrimSpace(c.QueryParam("search")),
		Status:  strings.TrimSpace(c.QueryParam("status")),
		Source:  strings.TrimSpace(c.QueryParam("source")),
		Type:    strings.TrimSpace(c.QueryParam("type")),
		Page:    parseIntDefault(c.QueryParam("page"), 1),
		PerPage: parseIntDefault(c.QueryParam("per_page"), 25),
	}

	leads, total, err := h.service.ListLeads(c.Request().Context(), filter)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list leads")
	}
	return Success(c, http.StatusOK, "leads retrieved", leadListResponse{Leads: leads, Total: total})
}

// Get handles GET /leads/:id requests.
func (h *LeadsHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid lead id")
	}

	lead, err := h.service.GetLead(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			return Error(c, http.StatusNotFound, "lead not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to load lead")
	}
	return Success(c, http.StatusOK, "lead retrieved", lead)
}

// Create handles POST /leads requests.
func (h *LeadsHandler) Create(c echo.Context) error {
	var req dto.CreateLeadRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	lead, err := h.service.CreateLead(c.Request().Context(), req)
	if err != nil {
		return respondServiceError(c, err, http.StatusInternalServerError, "failed to create lead")
	}
	return Success(c, http.StatusCreated, "lead created", lead)
}

// Update handles PATCH /leads/:id requests.
func (h *LeadsHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid lead id")
	}

	var req dto.UpdateLeadRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	lead, err := h.service.UpdateLead(c.Request().Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLeadNotFound):
			return Error(c, http.StatusNotFound, "lead not found")
		case errors.Is(err, service.ErrEmptyUpdate):
			return Error(c, http.StatusBadRequest, "no fields to update")
		default:
			return respondServiceError(c, err, http.StatusInternalServerError, "failed to update lead")
		}
	}
	return Success(c, http.StatusOK, "lead updated", lead)
}

// Delete handles DELETE /leads/:id requests.
func (h *LeadsHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid lead id")
	}

	if err := h.service.DeleteLead(c.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			return Error(c, http.StatusNotFound, "lead not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to delete lead")
	}
	return Success(c, http.StatusOK, "lead deleted", nil)
}

// BulkDelete handles POST /leads/bulk-delete requests.
func (h *LeadsHandler) BulkDelete(c echo.Context) error {
	var req dto.BulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	count, err := h.service.BulkDeleteLeads(c.Request().Context(), req)
	if err != nil {
		return respondServiceError(c, err, http.StatusInternalServerError, "failed to delete leads")
	}
	return Success(c, http.StatusOK, "leads deleted", map[string]int{"deleted": count})
}

func parseIntDefault(input string, fallback int) int {
	if input == "" {
		return fallback
	}
	if value, err := strconv.Atoi(input); err == nil {
		return value
	}
	return fallback
}
