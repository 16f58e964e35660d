package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/LeFrancilien/LeadFlow/internal/service"
)

// DashboardHandler exposes the aggregate metrics endpoint.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new handler instance.
func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats handles GET /dashboard/stats requests.
func (h *DashboardHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to compute dashboard stats")
	}
	return Success(c, http.StatusOK, "dashboard stats retrieved", stats)
}
