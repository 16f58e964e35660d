package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole gates a route group on the role stored by the JWT middleware.
// Admin-only surfaces (user management) hang off this check.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			value, ok := c.Get(ContextKeyUserRole).(string)
			if !ok || value == "" {
				return c.JSON(http.StatusForbidden, map[string]string{
					"status": "error", "message": "missing role",
				})
			}
			if value != role {
				return c.JSON(http.StatusForbidden, map[string]string{
					"status": "error", "message": "insufficient permissions",
				})
			}
			return next(c)
		}
	}
}
