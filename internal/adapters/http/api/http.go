// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/KenTen-21/WeatherApp/internal/adapters/upstream/geocode"
	"github.com/KenTen-21/WeatherApp/internal/adapters/upstream/openmeteo"
	service "github.com/KenTen-21/WeatherApp/internal/app"
	"github.com/KenTen-21/WeatherApp/internal/domain/qa"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Forecast(ctx context.Context, lat, lon float64) (service.ForecastView, error)
	Answer(ctx context.Context, question string, lat, lon float64) (qa.Result, error)
	Backtest(ctx context.Context, lat, lon float64, days int) (service.BacktestReport, error)
	ResolveCity(ctx context.Context, city string) (geocode.Location, error)
	AppName() string
}

// Server wires HTTP routes for the business API.
type Server struct {
	forecastHandler *ForecastHandler
	qaHandler       *QAHandler
	backtestHandler *BacktestHandler
	statusHandler   *StatusHandler
	healthHandler   *HealthHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		forecastHandler: NewForecastHandler(deps),
		qaHandler:       NewQAHandler(deps),
		backtestHandler: NewBacktestHandler(deps),
		statusHandler:   NewStatusHandler(deps),
		healthHandler:   NewHealthHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/api/forecast", MetricsMiddleware(s.forecastHandler.HandleGetForecast, "forecast"))
	mux.HandleFunc("/api/qa", MetricsMiddleware(s.qaHandler.HandlePostQA, "qa"))
	mux.HandleFunc("/api/backtest", MetricsMiddleware(s.backtestHandler.HandleGetBacktest, "backtest"))
	mux.HandleFunc("/api/status", MetricsMiddleware(s.statusHandler.HandleStatus, "status"))
	mux.HandleFunc("/healthz", s.healthHandler.HandleHealth)
}

type errorResponse struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeUpstreamError translates upstream failures to a gateway status.
// Timeouts become 504, anything else 502. The upstream cause is kept
// machine-readable but not expanded into internals.
func writeUpstreamError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	writeError(w, status, "upstream_error", ErrUpstreamUnavailable)
}

// isUpstream reports whether err came from an upstream collaborator.
func isUpstream(err error) bool {
	return errors.Is(err, openmeteo.ErrUpstream) || errors.Is(err, geocode.ErrUpstream)
}
