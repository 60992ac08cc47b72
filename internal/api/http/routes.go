package httpapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-report-backend/internal/common"
	"github.com/i474232898/weather-report-backend/internal/export"
	"github.com/i474232898/weather-report-backend/internal/weather"
	"github.com/i474232898/weather-report-backend/internal/weather/providers"
)

var validate = validator.New()

// Options carries the request defaults handlers fall back to.
type Options struct {
	DefaultLat         float64
	DefaultLon         float64
	PastDays           int
	DefaultWindowHours int
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, opts Options) {
	app.Get("/", indexHandler)
	app.Get("/weather-report", reportHandler(service, opts))
	app.Get("/export/excel", excelHandler(service, opts))
	app.Get("/export/pdf", pdfHandler(service, opts))
	app.Get("/debug/data", debugHandler(service))
}

// coordQuery holds the ingest coordinate query parameters.
type coordQuery struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

// windowQuery holds the trailing-window query parameter for exports.
type windowQuery struct {
	Hours int `validate:"gte=1,lte=8784"`
}

func indexHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "Weather Report Backend API",
		"endpoints": fiber.Map{
			"GET /weather-report?lat={lat}&lon={lon}": "Fetch and store weather data",
			"GET /export/excel?hours={hours}":         "Export weather data as Excel file",
			"GET /export/pdf?hours={hours}":           "Generate PDF report with chart",
			"GET /debug/data":                         "Inspect stored data (maintenance only)",
			"GET /health":                             "Health check",
			"GET /":                                   "API documentation",
		},
	})
}

func reportHandler(service *weather.Service, opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := coordQuery{
			Lat: c.QueryFloat("lat", opts.DefaultLat),
			Lon: c.QueryFloat("lon", opts.DefaultLon),
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		n, err := service.FetchAndStore(c.Context(), q.Lat, q.Lon, opts.PastDays)
		if err != nil {
			switch {
			case errors.Is(err, providers.ErrUpstreamUnavailable):
				return fiber.NewError(fiber.StatusBadGateway, fmt.Sprintf("weather API request failed: %v", err))
			case errors.Is(err, providers.ErrBadUpstreamData):
				return fiber.NewError(fiber.StatusBadGateway, fmt.Sprintf("weather API returned malformed data: %v", err))
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to store weather data")
		}

		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Weather data fetched and stored successfully",
			"location": fiber.Map{
				"latitude":  q.Lat,
				"longitude": q.Lon,
			},
			"data_points": n,
		})
	}
}

// windowedObservations resolves the ?hours parameter and loads the window.
// An empty window maps to 404 so exports never produce empty artifacts.
func windowedObservations(c *fiber.Ctx, service *weather.Service, opts Options) ([]weather.Observation, int, error) {
	q := windowQuery{Hours: c.QueryInt("hours", opts.DefaultWindowHours)}
	if err := validate.Struct(q); err != nil {
		return nil, 0, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	obs, err := service.Windowed(c.Context(), q.Hours)
	if err != nil {
		if errors.Is(err, weather.ErrNoData) {
			return nil, 0, fiber.NewError(fiber.StatusNotFound, "no data available for export")
		}
		return nil, 0, fiber.NewError(fiber.StatusInternalServerError, "failed to query stored observations")
	}
	return obs, q.Hours, nil
}

func excelHandler(service *weather.Service, opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		obs, _, err := windowedObservations(c, service, opts)
		if err != nil {
			return err
		}

		payload, err := export.Excel(obs)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("excel export failed: %v", err))
		}

		filename := common.TimestampedFilename("weather_data", "xlsx", time.Now().UTC())
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		return c.Send(payload)
	}
}

func pdfHandler(service *weather.Service, opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		obs, hours, err := windowedObservations(c, service, opts)
		if err != nil {
			return err
		}

		payload, err := export.PDF(export.BuildReport(obs, hours))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("pdf export failed: %v", err))
		}

		filename := common.TimestampedFilename("weather_report", "pdf", time.Now().UTC())
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
		c.Set(fiber.HeaderContentType, "application/pdf")
		return c.Send(payload)
	}
}

func debugHandler(service *weather.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := service.Stats(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read store statistics")
		}

		all, err := service.All(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read stored observations")
		}

		sample := all
		if len(sample) > 10 {
			sample = sample[:10]
		}

		return c.JSON(fiber.Map{
			"database_info":          stats,
			"sample_data":            sample,
			"total_records_returned": len(all),
		})
	}
}
