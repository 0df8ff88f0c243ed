// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers defaults, an optional YAML file and environment variables.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"omitempty,oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr" validate:"required"`

	// UdemySource and CourseraSource point at the catalog CSVs (path or http(s) URL).
	// An empty value skips the source.
	UdemySource    string `koanf:"udemy_source"`
	CourseraSource string `koanf:"coursera_source"`

	// GeminiAPIKey enables AI enrichment when set. GEMINI_API_KEY is honored as a fallback.
	GeminiAPIKey string `koanf:"gemini_api_key"`
	GeminiModel  string `koanf:"gemini_model" validate:"required"`

	// EnrichmentTimeoutMS bounds the time a request waits for enrichment.
	EnrichmentTimeoutMS int `koanf:"enrichment_timeout_ms" validate:"gt=0"`

	// EnrichmentWorkers and EnrichmentQueueSize size the enrichment worker pool.
	EnrichmentWorkers   int `koanf:"enrichment_workers" validate:"gt=0"`
	EnrichmentQueueSize int `koanf:"enrichment_queue_size" validate:"gt=0"`

	// EnrichmentRatePerSec and EnrichmentBurst throttle provider calls.
	EnrichmentRatePerSec float64 `koanf:"enrichment_rate_per_sec" validate:"gt=0"`
	EnrichmentBurst      int     `koanf:"enrichment_burst" validate:"gt=0"`

	// CORSAllowedOrigins lists origins allowed to call the API.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// RateLimitRequests per RateLimitWindowSec per client IP. Zero disables limiting.
	RateLimitRequests  int `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindowSec int `koanf:"rate_limit_window_sec" validate:"gt=0"`

	// MaxFeatures caps the text index vocabulary.
	MaxFeatures int `koanf:"max_features" validate:"gt=0"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":8000",
		UdemySource:          "data/udemy_courses.csv",
		CourseraSource:       "data/coursera_courses.csv",
		GeminiModel:          "gemini-1.5-flash",
		EnrichmentTimeoutMS:  8000,
		EnrichmentWorkers:    workers,
		EnrichmentQueueSize:  256,
		EnrichmentRatePerSec: 1,
		EnrichmentBurst:      3,
		CORSAllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		RateLimitRequests:    120,
		RateLimitWindowSec:   60,
		MaxFeatures:          1000,
	}
}
