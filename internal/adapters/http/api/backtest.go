package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	service "github.com/KenTen-21/WeatherApp/internal/app"
)

// Default and bound for the backtest days parameter.
const (
	defaultBacktestDays = 7
	maxBacktestDays     = 30
)

// BacktestDependencies defines the interface for backtest operations.
type BacktestDependencies interface {
	Backtest(ctx context.Context, lat, lon float64, days int) (service.BacktestReport, error)
}

// BacktestHandler handles backtest requests.
type BacktestHandler struct {
	deps BacktestDependencies
}

// NewBacktestHandler creates a new backtest handler.
func NewBacktestHandler(deps BacktestDependencies) *BacktestHandler {
	return &BacktestHandler{deps: deps}
}

// HandleGetBacktest handles GET /api/backtest?lat=..&lon=..&days=N requests.
func (h *BacktestHandler) HandleGetBacktest(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_backtest"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	days := defaultBacktestDays
	if s := q.Get("days"); s != "" {
		days, err = strconv.Atoi(s)
		if err != nil || days < 1 || days > maxBacktestDays {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
	}

	report, err := h.deps.Backtest(r.Context(), lat, lon, days)
	if err != nil {
		if isUpstream(err) || errors.Is(err, context.DeadlineExceeded) {
			writeUpstreamError(w, err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}
