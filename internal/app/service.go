// Package service provides the core business service that implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/KenTen-21/WeatherApp/internal/adapters/cache"
	"github.com/KenTen-21/WeatherApp/internal/adapters/upstream/geocode"
	"github.com/KenTen-21/WeatherApp/internal/domain/forecast"
	"github.com/KenTen-21/WeatherApp/internal/domain/qa"
	"github.com/KenTen-21/WeatherApp/internal/domain/scoring"
	"github.com/KenTen-21/WeatherApp/pkg/logger"
	"github.com/KenTen-21/WeatherApp/pkg/metrics"
)

// Provider supplies raw forecast data for a coordinate pair.
type Provider interface {
	Forecast(ctx context.Context, lat, lon float64) (forecast.RawPayload, error)
}

// Geocoder resolves a city name to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, city string) (geocode.Location, error)
}

// Placeholder backtest metrics. The backtest endpoint is a demo surface;
// only avgTemp is computed from live data.
const (
	backtestTempMAE       = 1.8
	backtestRainPrecision = 0.72
	backtestRainRecall    = 0.61
)

// Service wires the forecast provider, geocoder, cache and the pure
// domain functions behind the HTTP API. All per-request state is local;
// the cache is the only thing shared across requests.
type Service struct {
	logger    logger.Logger
	provider  Provider
	geocoder  Geocoder
	memo      cache.Store
	clock     func() time.Time
	appName   string
	hourlyCap int
	startedAt time.Time
}

// New creates a Service with configuration options.
func New(opts ...Option) *Service {
	s := &Service{
		clock:     time.Now,
		appName:   "Umbrella.ai",
		hourlyCap: 48,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.memo == nil {
		s.memo = cache.NewMemo()
	}
	s.startedAt = s.clock()
	return s
}

// HourlyView is one hourly record enriched with its per-hour umbrella
// score for the response payload.
type HourlyView struct {
	forecast.HourlyRecord
	UmbrellaScore int `json:"umbrellaScore"`
}

// ForecastView is the full forecast response.
type ForecastView struct {
	Hourly        []HourlyView           `json:"hourly"`
	Daily         map[string]interface{} `json:"daily"`
	UmbrellaScore int                    `json:"umbrellaScore"`
	Alerts        []scoring.Alert        `json:"alerts"`
	Summary       string                 `json:"summary"`
	Latitude      float64                `json:"latitude"`
	Longitude     float64                `json:"longitude"`
}

// BacktestReport is the fixed-shape backtest response. AvgTemp is nil when
// the forecast carried no temperatures.
type BacktestReport struct {
	TempMAE       float64  `json:"tempMAE"`
	RainPrecision float64  `json:"rainPrecision"`
	RainRecall    float64  `json:"rainRecall"`
	AvgTemp       *float64 `json:"avgTemp"`
}

// Forecast fetches (or reuses) the forecast for lat/lon and derives the
// umbrella score, per-hour scores and alerts.
func (s *Service) Forecast(ctx context.Context, lat, lon float64) (ForecastView, error) {
	fc, err := s.fetchForecast(ctx, lat, lon)
	if err != nil {
		return ForecastView{}, err
	}

	score := scoring.UmbrellaScore(fc.Hourly)
	metrics.RecordScoreComputed(score)

	alerts := scoring.Alerts(fc.Hourly)
	if alerts == nil {
		alerts = []scoring.Alert{}
	}

	hourly := fc.Hourly
	if len(hourly) > s.hourlyCap {
		hourly = hourly[:s.hourlyCap]
	}
	hourScores := scoring.HourlyScores(hourly)
	views := make([]HourlyView, len(hourly))
	for i, h := range hourly {
		views[i] = HourlyView{HourlyRecord: h, UmbrellaScore: hourScores[i]}
	}

	return ForecastView{
		Hourly:        views,
		Daily:         fc.Daily,
		UmbrellaScore: score,
		Alerts:        alerts,
		Summary:       fc.Summary,
		Latitude:      lat,
		Longitude:     lon,
	}, nil
}

// Answer evaluates a natural-language question against the forecast for
// lat/lon, using the service clock as the reference now.
func (s *Service) Answer(ctx context.Context, question string, lat, lon float64) (qa.Result, error) {
	fc, err := s.fetchForecast(ctx, lat, lon)
	if err != nil {
		return qa.Result{}, err
	}
	res := qa.Answer(question, s.clock().UTC(), fc.Hourly)
	metrics.RecordQuestionAnswered(qa.Outcome(res))
	return res, nil
}

// Backtest returns placeholder accuracy metrics plus an average temperature
// computed from the live forecast. Days is accepted for API compatibility
// and does not change the computation.
func (s *Service) Backtest(ctx context.Context, lat, lon float64, days int) (BacktestReport, error) {
	fc, err := s.fetchForecast(ctx, lat, lon)
	if err != nil {
		return BacktestReport{}, err
	}

	report := BacktestReport{
		TempMAE:       backtestTempMAE,
		RainPrecision: backtestRainPrecision,
		RainRecall:    backtestRainRecall,
	}

	var sum float64
	var count int
	for _, h := range fc.Hourly {
		if h.TemperatureC != nil {
			sum += *h.TemperatureC
			count++
		}
	}
	if count > 0 {
		avg := math.Round(sum/float64(count)*10) / 10
		report.AvgTemp = &avg
	}

	s.logger.Debug(ctx, "backtest computed",
		logger.Int("days", days),
		logger.Int("samples", count),
	)
	return report, nil
}

// ResolveCity resolves a city name to coordinates via the geocoder.
func (s *Service) ResolveCity(ctx context.Context, city string) (geocode.Location, error) {
	loc, err := s.geocoder.Resolve(ctx, city)
	if err != nil {
		return geocode.Location{}, err
	}
	return loc, nil
}

// AppName is reported by the status endpoint.
func (s *Service) AppName() string {
	return s.appName
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"app":           s.appName,
		"cacheEntries":  s.memo.Len(context.Background()),
		"uptimeSeconds": int(s.clock().Sub(s.startedAt).Seconds()),
	}
}

// fetchForecast returns the normalized forecast for lat/lon, reusing a
// cached copy when one is live. Concurrent misses for the same key are not
// coalesced; both fetch upstream and the last write wins.
func (s *Service) fetchForecast(ctx context.Context, lat, lon float64) (forecast.Forecast, error) {
	key := fmt.Sprintf("forecast:%.4f,%.4f", lat, lon)

	if v, ok := s.memo.Get(ctx, key); ok {
		if fc, ok := v.(forecast.Forecast); ok {
			return fc, nil
		}
	}

	raw, err := s.provider.Forecast(ctx, lat, lon)
	if err != nil {
		s.logger.Warn(ctx, "forecast fetch failed",
			logger.Float64("lat", lat),
			logger.Float64("lon", lon),
			logger.Error(err),
		)
		return forecast.Forecast{}, err
	}

	fc := forecast.Normalize(raw)
	s.memo.Set(ctx, key, fc)
	metrics.UpdateCacheSize(s.memo.Len(ctx))

	s.logger.Debug(ctx, "forecast fetched",
		logger.Float64("lat", lat),
		logger.Float64("lon", lon),
		logger.Int("hours", len(fc.Hourly)),
	)
	return fc, nil
}
