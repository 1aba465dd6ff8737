package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/KenTen-21/WeatherApp/internal/adapters/upstream/geocode"
	service "github.com/KenTen-21/WeatherApp/internal/app"
)

// ForecastDependencies defines the interface for forecast operations.
type ForecastDependencies interface {
	Forecast(ctx context.Context, lat, lon float64) (service.ForecastView, error)
	ResolveCity(ctx context.Context, city string) (geocode.Location, error)
}

// ForecastHandler handles forecast requests.
type ForecastHandler struct {
	deps ForecastDependencies
}

// NewForecastHandler creates a new forecast handler.
func NewForecastHandler(deps ForecastDependencies) *ForecastHandler {
	return &ForecastHandler{deps: deps}
}

// HandleGetForecast handles GET /api/forecast?lat=..&lon=.. or ?city=..
// requests. Exactly one of city or the lat/lon pair must be supplied.
func (h *ForecastHandler) HandleGetForecast(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_forecast"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	cityParam := q.Get("city")
	hasCity := q.Has("city")
	latStr := q.Get("lat")
	lonStr := q.Get("lon")

	var lat, lon float64
	switch {
	case hasCity:
		if strings.TrimSpace(cityParam) == "" {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrEmptyCity))
			return
		}
		loc, err := h.deps.ResolveCity(r.Context(), cityParam)
		if err != nil {
			if errors.Is(err, geocode.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{
					Code:       "city_not_found",
					Message:    fmt.Sprintf("no match for city %q", cityParam),
					Suggestion: fmt.Sprintf("try a geocoder query like %q", strings.TrimSpace(cityParam)),
				})
				return
			}
			writeUpstreamError(w, err)
			return
		}
		lat, lon = loc.Lat, loc.Lon
	case latStr != "" && lonStr != "":
		var err error
		lat, err = strconv.ParseFloat(latStr, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		lon, err = strconv.ParseFloat(lonStr, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
	default:
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrMissingLocation))
		return
	}

	view, err := h.deps.Forecast(r.Context(), lat, lon)
	if err != nil {
		if isUpstream(err) || errors.Is(err, context.DeadlineExceeded) {
			writeUpstreamError(w, err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
