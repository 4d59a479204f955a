package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/i474232898/weatherstack-dashboard/internal/api/http"
	"github.com/i474232898/weatherstack-dashboard/internal/config"
	"github.com/i474232898/weatherstack-dashboard/internal/geocode"
	"github.com/i474232898/weatherstack-dashboard/internal/observability"
	"github.com/i474232898/weatherstack-dashboard/internal/scheduler"
	"github.com/i474232898/weatherstack-dashboard/internal/store"
	"github.com/i474232898/weatherstack-dashboard/internal/weather"
	"github.com/i474232898/weatherstack-dashboard/internal/weatherstack"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		observability.NewLogger("info", "json").Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Shared HTTP client for outbound weatherstack calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Gateway with resilience (optional backoff + circuit breaker).
	gateway := weatherstack.NewClient(httpClient, weatherstack.Settings{
		AccessKey: cfg.AccessKey,
		BaseURL:   cfg.BaseURL,
		Backoff: weatherstack.BackoffConfig{
			MaxRetries:      cfg.MaxRetries,
			InitialInterval: cfg.BackoffInitial,
			MaxInterval:     cfg.BackoffMax,
		},
		BreakerTimeout: cfg.BreakerCooldown,
	}, metrics, log)

	// Marine place names need geocoding; without a key only "lat,lon" is accepted.
	var geocoder weather.Geocoder
	if cfg.GeocoderAPIKey != "" {
		geocoder = geocode.NewGoogle(cfg.GeocoderAPIKey)
	}

	service := weather.NewService(gateway, geocoder, cfg.Defaults(), metrics, log)
	sessions := store.NewRegistry(cfg.HistoryLimit, cfg.InitialFilters(), nil, metrics)

	// Idle session sweeper.
	sched := scheduler.New(sessions, cfg.SessionIdleTimeout, cfg.SweepInterval, log)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weatherstack-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.HTTPTimeout + 5*time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "weatherstack-dashboard",
			"sessions": sessions.Len(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpapi.RegisterRoutes(app, service, sessions, log)

	go func() {
		log.Info("server listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
}
