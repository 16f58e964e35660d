package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/LeFrancilien/LeadFlow/internal/dto"
	"github.com/LeFrancilien/LeadFlow/internal/service"
)

// ImportHandler exposes the CSV import and scrape-promotion endpoints.
type ImportHandler struct {
	service *service.ImportService
}

// NewImportHandler creates a new handler instance.
func NewImportHandler(service *service.ImportService) *ImportHandler {
	return &ImportHandler{service: service}
}

// ImportCSV handles POST /import/csv requests. The request is multipart:
// a "file" part with the CSV and a "mapping" part with a JSON object that
// assigns each CSV header to a lead field.
func (h *ImportHandler) ImportCSV(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return Error(c, http.StatusBadRequest, "file is required")
	}

	mappingRaw := c.FormValue("mapping")
	if mappingRaw == "" {
		return Error(c, http.StatusBadRequest, "mapping is required")
	}
	var mapping map[string]string
	if err := json.Unmarshal([]byte(mappingRaw), &mapping); err != nil {
		return Error(c, http.StatusBadRequest, "mapping must be a JSON object of column to field")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return Error(c, http.StatusBadRequest, "could not read uploaded file")
	}
	defer file.Close()

	summary, err := h.service.ImportCSV(c.Request().Context(), file, mapping, fileHeader.Filename)
	if err != nil {
		var csvErr service.CSVValidationError
		if errors.As(err, &csvErr) {
			return Error(c, http.StatusBadRequest, csvErr.Message)
		}
		return Error(c, http.StatusInternalServerError, "import failed")
	}
	return Success(c, http.StatusOK, "import finished", summary)
}

// ListRuns handles GET /imports requests.
func (h *ImportHandler) ListRuns(c echo.Context) error {
	runs, err := h.service.ListRuns(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list imports")
	}
	return Success(c, http.StatusOK, "imports retrieved", runs)
}

// ImportScrapeResults handles POST /scraping-jobs/:id/import requests.
func (h *ImportHandler) ImportScrapeResults(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid job id")
	}

	var req dto.ImportScrapeRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	summary, err := h.service.ImportScrapeResults(c.Request().Context(), id, req.Indices)
	if err != nil {
		var csvErr service.CSVValidationError
		switch {
		case errors.Is(err, service.ErrScrapingJobNotFound):
			return Error(c, http.StatusNotFound, "scraping job not found")
		case errors.As(err, &csvErr):
			return Error(c, http.StatusBadRequest, csvErr.Message)
		default:
			return Error(c, http.StatusInternalServerError, "import failed")
		}
	}
	return Success(c, http.StatusOK, "scrape results imported", summary)
}
