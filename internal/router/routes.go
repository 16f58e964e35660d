package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/LeFrancilien/LeadFlow/internal/auth"
	"github.com/LeFrancilien/LeadFlow/internal/config"
	"github.com/LeFrancilien/LeadFlow/internal/handler"
	middlewarepkg "github.com/LeFrancilien/LeadFlow/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth      *handler.AuthHandler
	Users     *handler.UserAdminHandler
	Leads     *handler.LeadsHandler
	Enrich    *handler.EnrichHandler
	Import    *handler.ImportHandler
	Scraping  *handler.ScrapingHandler
	Dashboard *handler.DashboardHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/auth/register", handlers.Auth.Register)
	e.POST("/auth/login", handlers.Auth.Login)

	// Worker callback; the worker authenticates at the network layer, not with
	// a user token.
	e.POST("/scraping-jobs/:id/status", handlers.Scraping.UpdateStatus)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	secured.GET("/leads", handlers.Leads.List)
	secured.POST("/leads", handlers.Leads.Create)
	secured.GET("/leads/:id", handlers.Leads.Get)
	secured.PATCH("/leads/:id", handlers.Leads.Update)
	secured.DELETE("/leads/:id", handlers.Leads.Delete)
	secured.POST("/leads/bulk-delete", handlers.Leads.BulkDelete)

	enrichLimiter := middlewarepkg.EnrichRateLimiter(cfg.RateLimitEnrich)
	secured.POST("/leads/:id/enrich", handlers.Enrich.EnrichLead, enrichLimiter)
	secured.POST("/enrich/batch", handlers.Enrich.EnrichBatch, enrichLimiter)
	secured.GET("/enrichment-logs", handlers.Enrich.ListLogs)

	secured.POST("/import/csv", handlers.Import.ImportCSV)
	secured.GET("/imports", handlers.Import.ListRuns)

	secured.GET("/scraping-jobs", handlers.Scraping.List)
	secured.POST("/scraping-jobs", handlers.Scraping.Create)
	secured.GET("/scraping-jobs/:id", handlers.Scraping.Get)
	secured.DELETE("/scraping-jobs/:id", handlers.Scraping.Delete)
	secured.POST("/scraping-jobs/:id/import", handlers.Import.ImportScrapeResults)

	secured.GET("/dashboard/stats", handlers.Dashboard.Stats)

	admin := secured.Group("/admin", middlewarepkg.RequireRole("admin"))
	admin.GET("/users", handlers.Users.List)
	admin.POST("/users", handlers.Users.Create)
	admin.PATCH("/users/:id", handlers.Users.Update)
	admin.DELETE("/users/:id", handlers.Users.Delete)
}
