package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port string

	// DBPath is the sqlite database file; created on first start.
	DBPath string

	// DefaultLat/DefaultLon are used when /weather-report gets no coordinate.
	DefaultLat float64
	DefaultLon float64

	// PastDays is the trailing ingest window requested from the upstream.
	PastDays int

	// DefaultWindowHours is the export window when ?hours is absent.
	DefaultWindowHours int

	// UpstreamTimeout bounds every outbound call to the weather API.
	UpstreamTimeout time.Duration

	// UpstreamMaxRetries is the ingest retry budget. 0 means a single
	// attempt; any failure surfaces immediately to the caller.
	UpstreamMaxRetries int

	// FetchInterval drives the background refresh scheduler. 0 disables it.
	FetchInterval time.Duration

	// GeocoderAPIKey enables reverse-geocoded place names in PDF reports.
	GeocoderAPIKey string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Port:           getenvDefault("PORT", "8080"),
		DBPath:         getenvDefault("DB_PATH", "weather_data.db"),
		GeocoderAPIKey: os.Getenv("GEOCODER_API_KEY"),
	}

	var err error
	if cfg.DefaultLat, err = getenvFloat("DEFAULT_LAT", 47.37); err != nil {
		return nil, err
	}
	if cfg.DefaultLon, err = getenvFloat("DEFAULT_LON", 8.55); err != nil {
		return nil, err
	}

	cfg.PastDays = getenvInt("PAST_DAYS", 2)
	cfg.DefaultWindowHours = getenvInt("DEFAULT_WINDOW_HOURS", 48)
	cfg.UpstreamMaxRetries = getenvInt("UPSTREAM_MAX_RETRIES", 0)

	timeoutStr := getenvDefault("UPSTREAM_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT: %w", err)
	}
	cfg.UpstreamTimeout = timeout

	intervalStr := getenvDefault("FETCH_INTERVAL", "0")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
