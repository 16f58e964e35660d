package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/LeFrancilien/LeadFlow/internal/config"
)

// EnrichRateLimiter applies a shared token bucket to the enrichment endpoints.
// Enrichment fans out to paid provider APIs, so the bucket covers both the
// single-lead and batch routes.
func EnrichRateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	return PathRateLimiter(cfg, func(path string) bool {
		return strings.HasSuffix(path, "/enrich") || path == "/enrich/batch"
	})
}

// PathRateLimiter builds a token bucket limiter applied to routes selected by
// the match function. A zero config disables limiting entirely.
func PathRateLimiter(cfg config.RateLimitConfig, match func(path string) bool) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return next(c)
			}
		}
	}

	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}

	limiter := rate.NewLimiter(rate.Every(perRequest), cfg.Requests)
	var mu sync.Mutex

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !match(c.Path()) {
				return next(c)
			}

			mu.Lock()
			allowed := limiter.Allow()
			mu.Unlock()

			if !allowed {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "enrichment rate limit exceeded"})
			}

			return next(c)
		}
	}
}
