package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/LeFrancilien/LeadFlow/internal/dto"
	middleware "github.com/LeFrancilien/LeadFlow/internal/middleware"
	"github.com/LeFrancilien/LeadFlow/internal/service"
)

// ScrapingHandler exposes the scrape job endpoints, including the status
// callback posted by the worker.
type ScrapingHandler struct {
	service *service.ScrapingService
}

// NewScrapingHandler creates a new handler instance.
func NewScrapingHandler(service *service.ScrapingService) *ScrapingHandler {
	return &ScrapingHandler{service: service}
}

// Create handles POST /scraping-jobs requests.
func (h *ScrapingHandler) Create(c echo.Context) error {
	var req dto.CreateScrapingJobRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	job, err := h.service.CreateJob(c.Request().Context(), req, middleware.RequestIDFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrWorkerUnavailable) {
			return Error(c, http.StatusBadGateway, err.Error())
		}
		return respondServiceError(c, err, http.StatusInternalServerError, "failed to create scraping job")
	}
	return Success(c, http.StatusCreated, "scraping job created", job)
}

// List handles GET /scraping-jobs requests.
func (h *ScrapingHandler) List(c echo.Context) error {
	jobs, err := h.service.ListJobs(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list scraping jobs")
	}
	return Success(c, http.StatusOK, "scraping jobs retrieved", jobs)
}

// Get handles GET /scraping-jobs/:id requests.
func (h *ScrapingHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid job id")
	}

	job, err := h.service.GetJob(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrScrapingJobNotFound) {
			return Error(c, http.StatusNotFound, "scraping job not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to load scraping job")
	}
	return Success(c, http.StatusOK, "scraping job retrieved", job)
}

// UpdateStatus handles POST /scraping-jobs/:id/status callbacks from the worker.
func (h *ScrapingHandler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid job id")
	}

	var req dto.ScrapingStatusRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	job, err := h.service.UpdateStatus(c.Request().Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrScrapingJobNotFound) {
			return Error(c, http.StatusNotFound, "scraping job not found")
		}
		return respondServiceError(c, err, http.StatusInternalServerError, "failed to update scraping job")
	}
	return Success(c, http.StatusOK, "scraping job updated", job)
}

// Delete handles DELETE /scraping-jobs/:id requests.
func (h *ScrapingHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid job id")
	}

	if err := h.service.DeleteJob(c.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrScrapingJobNotFound) {
			return Error(c, http.StatusNotFound, "scraping job not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to delete scraping job")
	}
	return Success(c, http.StatusOK, "scraping job deleted", nil)
}
