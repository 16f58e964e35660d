package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/LeFrancilien/LeadFlow/internal/service"
)

// APIResponse describes the standard envelope returned by the API.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	payload := APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}
	return c.JSON(status, payload)
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	payload := APIResponse{
		Status:  "error",
		Message: message,
	}
	return c.JSON(status, payload)
}

// ValidationFailed sends a 422 carrying the per-field messages.
func ValidationFailed(c echo.Context, verr service.ValidationError) error {
	payload := APIResponse{
		Status:  "error",
		Message: "validation failed",
		Errors:  verr.Fields,
	}
	return c.JSON(http.StatusUnprocessableEntity, payload)
}

// respondServiceError maps the shared service errors onto HTTP statuses;
// unknown errors fall back to the provided status and message.
func respondServiceError(c echo.Context, err error, fallbackStatus int, fallbackMessage string) error {
	var verr service.ValidationError
	if errors.As(err, &verr) {
		return ValidationFailed(c, verr)
	}
	return Error(c, fallbackStatus, fallbackMessage)
}
