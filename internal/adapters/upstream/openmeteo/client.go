// Package openmeteo implements the forecast provider client against the
// Open-Meteo forecast API.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/KenTen-21/WeatherApp/internal/domain/forecast"
	"github.com/KenTen-21/WeatherApp/pkg/metrics"
)

// Default client configuration.
const (
	defaultBaseURL      = "https://api.open-meteo.com/v1/forecast"
	defaultTimeout      = 12 * time.Second
	defaultForecastDays = 3
	defaultRPS          = 5
	defaultBurst        = 10

	serviceName = "openmeteo"
)

// Field lists requested from the provider. They drive which parallel
// arrays the raw payload carries.
const (
	hourlyFields = "temperature_2m,precipitation_probability,precipitation,cloudcover,relative_humidity_2m,pressure_msl,wind_speed_10m,wind_gusts_10m"
	dailyFields  = "temperature_2m_max,temperature_2m_min,precipitation_probability_max,precipitation_sum,wind_speed_10m_max,wind_gusts_10m_max"
)

// Client fetches raw forecast payloads for a coordinate pair. Calls are
// rate limited and guarded by a circuit breaker; there is no retry policy,
// so an upstream failure surfaces directly to the caller.
type Client struct {
	baseURL      string
	forecastDays int
	httpClient   *http.Client
	limiter      *rate.Limiter
	circuit      *gobreaker.CircuitBreaker
}

// NewClient creates an Open-Meteo client with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:      defaultBaseURL,
		forecastDays: defaultForecastDays,
		httpClient:   &http.Client{Timeout: defaultTimeout},
		limiter:      rate.NewLimiter(rate.Limit(defaultRPS), defaultBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.circuit = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        serviceName,
		MaxRequests: 5,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
	})
	return c
}

// Forecast fetches the hourly and daily forecast for lat/lon. Timestamps
// are requested in UTC so downstream window math has a single zone.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) (forecast.RawPayload, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return forecast.RawPayload{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("hourly", hourlyFields)
	values.Set("daily", dailyFields)
	values.Set("forecast_days", strconv.Itoa(c.forecastDays))
	values.Set("timezone", "UTC")

	start := time.Now()
	result, err := c.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
		}

		var payload forecast.RawPayload
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
		}
		return payload, nil
	})
	metrics.RecordUpstreamLatency(serviceName, float64(time.Since(start).Milliseconds()))

	if err != nil {
		metrics.RecordUpstreamRequest(serviceName, "error")
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return forecast.RawPayload{}, fmt.Errorf("%w: circuit open", ErrUpstream)
		}
		return forecast.RawPayload{}, err
	}

	metrics.RecordUpstreamRequest(serviceName, "ok")
	payload, ok := result.(forecast.RawPayload)
	if !ok {
		return forecast.RawPayload{}, fmt.Errorf("%w: unexpected result type", ErrUpstream)
	}
	return payload, nil
}
