// Package config defines service configuration and its loading hooks.
//
// Values are layered: defaults from New, then an optional YAML file named by
// HELLO_CONFIG, then HELLO_* environment variables.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// HTTP server timeouts.
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`

	// OverflowPolicy decides what /add does when the sum leaves int64:
	// reject, wrap or saturate.
	OverflowPolicy string `koanf:"overflow_policy"`

	// CORSAllowedOrigins lists origins allowed by the CORS middleware.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// MetricsEnabled exposes GET /metrics.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// DocsEnabled exposes GET /openapi.yaml and GET /api-docs.
	DocsEnabled bool `koanf:"docs_enabled"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":8080",
		ReadTimeout:        10 * time.Second,
		ReadHeaderTimeout:  5 * time.Second,
		WriteTimeout:       10 * time.Second,
		IdleTimeout:        60 * time.Second,
		ShutdownTimeout:    30 * time.Second,
		OverflowPolicy:     "reject",
		CORSAllowedOrigins: []string{"*"},
		MetricsEnabled:     true,
		DocsEnabled:        true,
	}
}
