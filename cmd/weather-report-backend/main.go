package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/kelvins/geocoder"

	httpapi "github.com/i474232898/weather-report-backend/internal/api/http"
	"github.com/i474232898/weather-report-backend/internal/config"
	"github.com/i474232898/weather-report-backend/internal/scheduler"
	"github.com/i474232898/weather-report-backend/internal/store"
	"github.com/i474232898/weather-report-backend/internal/weather"
	"github.com/i474232898/weather-report-backend/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Optional reverse geocoding for PDF report metadata.
	geocoder.ApiKey = cfg.GeocoderAPIKey

	// File-backed sqlite store; the database file is created on first start.
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database %s: %v", cfg.DBPath, err)
	}
	obsStore, err := store.New(db)
	if err != nil {
		log.Fatalf("failed to initialize store: %v", err)
	}

	// Shared HTTP client bounding every outbound upstream call.
	httpClient := &http.Client{
		Timeout: cfg.UpstreamTimeout,
	}
	provider := providers.NewOpenMeteoProvider(httpClient, cfg.UpstreamMaxRetries)

	service := weather.NewService(obsStore, provider)

	// Optional background refresh of the default coordinate.
	sched := scheduler.New(cfg.DefaultLat, cfg.DefaultLon, cfg.PastDays, cfg.FetchInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-report-backend",
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response: every failure is a JSON body
			// with an error field, never a crashed request.
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   "weather-report-backend",
		})
	})

	httpapi.RegisterRoutes(app, service, httpapi.Options{
		DefaultLat:         cfg.DefaultLat,
		DefaultLon:         cfg.DefaultLon,
		PastDays:           cfg.PastDays,
		DefaultWindowHours: cfg.DefaultWindowHours,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
