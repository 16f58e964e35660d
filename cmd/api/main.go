package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/LeFrancilien/LeadFlow/internal/auth"
	"github.com/LeFrancilien/LeadFlow/internal/config"
	"github.com/LeFrancilien/LeadFlow/internal/database"
	"github.com/LeFrancilien/LeadFlow/internal/enrichment"
	"github.com/LeFrancilien/LeadFlow/internal/handler"
	middlewarepkg "github.com/LeFrancilien/LeadFlow/internal/middleware"
	"github.com/LeFrancilien/LeadFlow/internal/repository"
	"github.com/LeFrancilien/LeadFlow/internal/router"
	"github.com/LeFrancilien/LeadFlow/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := buildLogger(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	defer pool.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	usersRepo := repository.NewPGXUsersRepository(pool)
	leadsRepo := repository.NewPGXLeadsRepository(pool)
	logsRepo := repository.NewPGXEnrichmentLogsRepository(pool)
	jobsRepo := repository.NewPGXScrapingJobsRepository(pool)
	importsRepo := repository.NewPGXImportRunsRepository(pool)
	statsRepo := repository.NewPGXStatsRepository(pool)

	providerClient := &http.Client{Timeout: cfg.ProviderTimeout}
	enricher := enrichment.NewEnricher(
		leadsRepo,
		logsRepo,
		enrichment.NewPappersClient(providerClient, cfg.PappersAPIKey),
		enrichment.NewHunterClient(providerClient, cfg.HunterAPIKey),
		enrichment.NewNeverBounceClient(providerClient, cfg.NeverBounceKey),
	)

	validator := service.NewValidator()
	authService := service.NewAuthService(usersRepo, jwtManager)
	userService := service.NewUserService(usersRepo)
	leadsService := service.NewLeadsService(leadsRepo, validator)
	importService := service.NewImportService(leadsRepo, importsRepo, jobsRepo)
	scrapingService := service.NewScrapingService(jobsRepo, handler.NewWorkerClient(nil, cfg.WorkerBaseURL))
	dashboardService := service.NewDashboardService(statsRepo)

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Users:     handler.NewUserAdminHandler(userService),
		Leads:     handler.NewLeadsHandler(leadsService),
		Enrich:    handler.NewEnrichHandler(enricher, logsRepo),
		Import:    handler.NewImportHandler(importService),
		Scraping:  handler.NewScrapingHandler(scrapingService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, handlers)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()
	logger.Info("server started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func buildLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
