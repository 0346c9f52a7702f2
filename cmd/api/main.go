package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/traveltip/internal/adapters/backend"
	"github.com/samirrijal/traveltip/internal/adapters/http"
	"github.com/samirrijal/traveltip/internal/core/usecases"
	"github.com/samirrijal/traveltip/internal/pkg/config"
	"github.com/samirrijal/traveltip/internal/pkg/logging"
	"github.com/samirrijal/traveltip/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("traveltip-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLogger := logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Storage
	store, err := backend.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer store.Close()

	// Use cases
	locationSvc := usecases.NewLocationService(store.Repo, usecases.WithLogger(appLogger))
	if err := locationSvc.Load(ctx); err != nil {
		// Not fatal: the store retries on first use and /v1/ready reports it.
		slog.Error("initial load failed", "backend", cfg.Storage.Backend, "error", err)
	}
	querySvc := usecases.NewQueryService(locationSvc, nil)

	deps := &http.Dependencies{
		Locations:      locationSvc,
		Query:          querySvc,
		Stats:          usecases.NewStatsService(locationSvc, nil),
		Dashboard:      usecases.NewDashboardService(locationSvc, querySvc, nil),
		Checks:         store.Checks,
		DefaultUnit:    cfg.Unit(),
		RequestTimeout: time.Duration(cfg.Server.RequestTimeout) * time.Second,
		RateLimit:      cfg.Server.RateLimit,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "TravelTip API",
	})
	app.Use(recover.New())
	if cfg.Log.Format == "text" {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, If-None-Match",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "backend", cfg.Storage.Backend)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
