package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weatherstack-dashboard/internal/weather"
)

type AppConfig struct {
	// Upstream weather service.
	AccessKey   string
	BaseURL     string
	HTTPTimeout time.Duration

	// Transport retries; zero keeps failures surfacing immediately.
	MaxRetries      int
	BackoffInitial  time.Duration
	BackoffMax      time.Duration
	BreakerCooldown time.Duration

	// Filter defaults applied when a submission leaves them empty.
	DefaultUnit     weather.Unit
	DefaultLanguage string
	ForecastDays    int
	SearchLimit     int

	// Dashboard sessions.
	HistoryLimit       int           // recent searches kept per session
	SessionIdleTimeout time.Duration // 0 = never evict
	SweepInterval      time.Duration

	// Optional Google geocoding for marine place names.
	GeocoderAPIKey string

	Port      string
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	cfg := &AppConfig{}

	cfg.AccessKey = os.Getenv("WEATHERSTACK_ACCESS_KEY")
	if cfg.AccessKey == "" {
		return nil, errors.New("WEATHERSTACK_ACCESS_KEY is required")
	}
	cfg.BaseURL = getenvDefault("WEATHERSTACK_BASE_URL", "https://api.weatherstack.com")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.BackoffInitial, err = getenvDuration("GATEWAY_BACKOFF_INITIAL", "500ms"); err != nil {
		return nil, err
	}
	if cfg.BackoffMax, err = getenvDuration("GATEWAY_BACKOFF_MAX", "5s"); err != nil {
		return nil, err
	}
	if cfg.BreakerCooldown, err = getenvDuration("GATEWAY_BREAKER_COOLDOWN", "2m"); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTimeout, err = getenvDuration("SESSION_IDLE_TIMEOUT", "30m"); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getenvDuration("SESSION_SWEEP_INTERVAL", "5m"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout <= 0 {
		return nil, errors.New("HTTP_TIMEOUT must be positive")
	}

	if cfg.MaxRetries, err = getenvInt("GATEWAY_MAX_RETRIES", 0); err != nil {
		return nil, err
	}
	if cfg.MaxRetries < 0 {
		return nil, errors.New("GATEWAY_MAX_RETRIES must not be negative")
	}
	if cfg.ForecastDays, err = getenvInt("FORECAST_DAYS", 7); err != nil {
		return nil, err
	}
	if cfg.ForecastDays < 1 || cfg.ForecastDays > 14 {
		return nil, fmt.Errorf("FORECAST_DAYS must be between 1 and 14, got %d", cfg.ForecastDays)
	}
	if cfg.SearchLimit, err = getenvInt("LOCATION_SEARCH_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.SearchLimit < 1 {
		return nil, fmt.Errorf("LOCATION_SEARCH_LIMIT must be positive, got %d", cfg.SearchLimit)
	}
	if cfg.HistoryLimit, err = getenvInt("HISTORY_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.HistoryLimit < 1 {
		return nil, fmt.Errorf("HISTORY_LIMIT must be positive, got %d", cfg.HistoryLimit)
	}

	unit, err := weather.ParseUnit(getenvDefault("DEFAULT_UNIT", "metric"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_UNIT: %w", err)
	}
	cfg.DefaultUnit = unit

	lang, err := weather.NormalizeLanguage(getenvDefault("DEFAULT_LANGUAGE", "en"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_LANGUAGE: %w", err)
	}
	cfg.DefaultLanguage = lang

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", "info"))
	cfg.LogFormat = strings.ToLower(getenvDefault("LOG_FORMAT", "json"))

	return cfg, nil
}

// Defaults returns the orchestrator's filter defaults.
func (c *AppConfig) Defaults() weather.Defaults {
	return weather.Defaults{
		Unit:         c.DefaultUnit,
		Language:     c.DefaultLanguage,
		ForecastDays: c.ForecastDays,
		SearchLimit:  c.SearchLimit,
	}
}

// InitialFilters are the filters a brand-new session starts with.
func (c *AppConfig) InitialFilters() weather.SearchFilters {
	return weather.SearchFilters{
		Unit:     c.DefaultUnit,
		Language: c.DefaultLanguage,
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
