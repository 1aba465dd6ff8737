// Package forecast contains the normalized forecast model and the
// normalizer that builds it from a raw provider payload.
package forecast

import "time"

// HourlyRecord is one normalized forecast sample. JSON field names follow
// the public API contract consumed by the embedded site.
type HourlyRecord struct {
	Time                 time.Time `json:"time"`
	TemperatureC         *float64  `json:"temp_c"`
	PrecipProbabilityPct float64   `json:"precip_prob"`
	PrecipAmountMm       float64   `json:"precip_mm"`
	CloudCoverPct        float64   `json:"cloud"`
	HumidityPct          float64   `json:"humidity"`
	PressureHpa          float64   `json:"pressure"`
	WindSpeedKph         float64   `json:"wind_kph"`
	WindGustKph          float64   `json:"gust_kph"`
}

// Forecast is a normalized provider response: hourly samples sorted
// ascending by time plus the provider's daily aggregate, passed through
// untouched.
type Forecast struct {
	Hourly  []HourlyRecord         `json:"hourly"`
	Daily   map[string]interface{} `json:"daily"`
	Summary string                 `json:"summary"`
}
