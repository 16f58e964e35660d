package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/LeFrancilien/LeadFlow/internal/dto"
	"github.com/LeFrancilien/LeadFlow/internal/enrichment"
	"github.com/LeFrancilien/LeadFlow/internal/entity"
)

// LeadEnricher runs the enrichment pipeline for single leads and batches.
type LeadEnricher interface {
	EnrichLead(ctx context.Context, leadID uuid.UUID) (*dto.EnrichResult, error)
	EnrichBatch(ctx context.Context, leadIDs []uuid.UUID) []dto.BatchEnrichEntry
}

// EnrichmentLogLister reads the enrichment audit trail.
type EnrichmentLogLister interface {
	List(ctx context.Context, leadID *uuid.UUID) ([]entity.EnrichmentLog, error)
}

const maxBatchSize = 50

// EnrichHandler exposes the enrichment endpoints.
type EnrichHandler struct {
	enricher LeadEnricher
	logs     EnrichmentLogLister
}

// NewEnrichHandler creates a new handler instance.
func NewEnrichHandler(enricher LeadEnricher, logs EnrichmentLogLister) *EnrichHandler {
	return &EnrichHandler{enricher: enricher, logs: logs}
}

// EnrichLead handles POST /leads/:id/enrich requests.
func (h *EnrichHandler) EnrichLead(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid lead id")
	}

	result, err := h.enricher.EnrichLead(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, enrichment.ErrLeadNotFound) {
			return Error(c, http.StatusNotFound, "lead not found")
		}
		return Error(c, http.StatusInternalServerError, "enrichment failed")
	}
	return Success(c, http.StatusOK, "lead enriched", result)
}

// EnrichBatch handles POST /enrich/batch requests.
func (h *EnrichHandler) EnrichBatch(c echo.Context) error {
	var req dto.BatchEnrichRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if len(req.LeadIDs) == 0 {
		return Error(c, http.StatusBadRequest, "lead_ids is required")
	}
	if len(req.LeadIDs) > maxBatchSize {
		return Error(c, http.StatusBadRequest, "too many leads in one batch")
	}

	ids := make([]uuid.UUID, 0, len(req.LeadIDs))
	for _, raw := range req.LeadIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return Error(c, http.StatusBadRequest, "invalid lead id in lead_ids")
		}
		ids = append(ids, id)
	}

	entries := h.enricher.EnrichBatch(c.Request().Context(), ids)
	return Success(c, http.StatusOK, "batch enrichment finished", entries)
}

// ListLogs handles GET /enrichment-logs requests, optionally filtered by lead.
func (h *EnrichHandler) ListLogs(c echo.Context) error {
	var leadID *uuid.UUID
	if raw := strings.TrimSpace(c.QueryParam("lead_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return Error(c, http.StatusBadRequest, "invalid lead_id")
		}
		leadID = &id
	}

	logs, err := h.logs.List(c.Request().Context(), leadID)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list enrichment logs")
	}
	return Success(c, http.StatusOK, "enrichment logs retrieved", logs)
}
