// Package geocode resolves city names to coordinates via the Open-Meteo
// geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/KenTen-21/WeatherApp/pkg/metrics"
)

// Default client configuration.
const (
	defaultBaseURL = "https://geocoding-api.open-meteo.com/v1/search"
	defaultTimeout = 10 * time.Second
	defaultRPS     = 5
	defaultBurst   = 10

	serviceName = "geocode"
)

// Location is one geocoding result.
type Location struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"latitude"`
	Lon     float64 `json:"longitude"`
}

// Client resolves city names. Same resilience posture as the forecast
// client: rate limited, circuit broken, no retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	circuit    *gobreaker.CircuitBreaker
}

// NewClient creates a geocoding client with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(defaultRPS), defaultBurst),
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

// Resolve returns the best match for city. An empty result set is a
// not-found condition, distinct from upstream failure.
func (c *Client) Resolve(ctx context.Context, city string) (Location, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Location{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	values := url.Values{}
	values.Set("name", city)
	values.Set("count", "1")
	values.Set("language", "en")
	values.Set("format", "json")

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

		var payload struct {
			Results []Location `json:"results"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
		}
		return payload.Results, nil
	})
	metrics.RecordUpstreamLatency(serviceName, float64(time.Since(start).Milliseconds()))

	if err != nil {
		metrics.RecordUpstreamRequest(serviceName, "error")
		metrics.RecordGeocodeResolution("error")
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return Location{}, fmt.Errorf("%w: circuit open", ErrUpstream)
		}
		return Location{}, err
	}
	metrics.RecordUpstreamRequest(serviceName, "ok")

	results, ok := result.([]Location)
	if !ok || len(results) == 0 {
		metrics.RecordGeocodeResolution("not_found")
		return Location{}, fmt.Errorf("%w: %q", ErrNotFound, city)
	}
	metrics.RecordGeocodeResolution("found")
	return results[0], nil
}
