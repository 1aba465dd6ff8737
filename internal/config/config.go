// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Provide New(...) to build a Config with defaults, Load(...) to layer
//     file and environment sources on top.
//   - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// AppName is reported by GET /api/status.
	AppName string `koanf:"app_name"`

	// CacheTTLSeconds bounds how long a fetched forecast is reused.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// CacheCapacity bounds the number of cached forecast entries.
	CacheCapacity int `koanf:"cache_capacity"`

	// UpstreamTimeoutSeconds applies to forecast and geocoding calls.
	UpstreamTimeoutSeconds int `koanf:"upstream_timeout_seconds"`

	// ForecastBaseURL and GeocodeBaseURL point at the Open-Meteo APIs.
	ForecastBaseURL string `koanf:"forecast_base_url"`
	GeocodeBaseURL  string `koanf:"geocode_base_url"`

	// ForecastDays controls how many days of hourly data are requested.
	ForecastDays int `koanf:"forecast_days"`

	// UpstreamRPS and UpstreamBurst bound outbound request rate.
	UpstreamRPS   float64 `koanf:"upstream_rps"`
	UpstreamBurst int     `koanf:"upstream_burst"`

	// HourlyResponseCap limits how many hourly entries a forecast
	// response carries.
	HourlyResponseCap int `koanf:"hourly_response_cap"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":8080",
		AppName:                "Umbrella.ai",
		CacheTTLSeconds:        600,
		CacheCapacity:          256,
		UpstreamTimeoutSeconds: 12,
		ForecastBaseURL:        "https://api.open-meteo.com/v1/forecast",
		GeocodeBaseURL:         "https://geocoding-api.open-meteo.com/v1/search",
		ForecastDays:           3,
		UpstreamRPS:            5,
		UpstreamBurst:          10,
		HourlyResponseCap:      48,
	}
}
