// Package scoring computes umbrella scores and rain alerts from normalized
// hourly forecast records. All functions are pure: no I/O, no state.
package scoring

import (
	"math"
	"time"

	"github.com/KenTen-21/WeatherApp/internal/domain/forecast"
)

// Scoring constants. The aggregate score looks at the first windowHours
// records; the duration term's denominator stays fixed at windowHours even
// for shorter sequences, which under-reports persistence for short
// forecasts.
const (
	windowHours             = 12
	intensitySaturationMm   = 5.0
	windSaturationKph       = 40.0
	persistenceThresholdPct = 50.0
	alertThresholdPct       = 60.0

	weightProbability = 0.55
	weightIntensity   = 0.25
	weightDuration    = 0.15
	weightWind        = 0.05
)

// AlertTypeRainLikely is the only alert type currently emitted.
const AlertTypeRainLikely = "Rain Likely"

// Alert flags a specific forecast hour. JSON field names follow the public
// API contract.
type Alert struct {
	Time                 time.Time `json:"time"`
	Type                 string    `json:"type"`
	PrecipProbabilityPct float64   `json:"prob"`
}

// UmbrellaScore computes the aggregate 0-100 umbrella score over the first
// twelve records. An empty sequence scores 0. Peak values dominate: a
// single high-probability hour drives the score more than the average.
func UmbrellaScore(hourly []forecast.HourlyRecord) int {
	window := hourly
	if len(window) > windowHours {
		window = window[:windowHours]
	}
	if len(window) == 0 {
		return 0
	}

	var maxProb, maxMm, maxWind float64
	var persistent int
	for _, h := range window {
		maxProb = math.Max(maxProb, h.PrecipProbabilityPct)
		maxMm = math.Max(maxMm, h.PrecipAmountMm)
		maxWind = math.Max(maxWind, h.WindSpeedKph)
		if h.PrecipProbabilityPct >= persistenceThresholdPct {
			persistent++
		}
	}

	p := maxProb / 100.0
	i := normIntensity(maxMm)
	w := clamp01(maxWind / windSaturationKph)
	d := float64(persistent) / windowHours

	return roundScore(p, i, d, w)
}

// Alerts scans the first twelve records in order and returns at most one
// alert: the earliest hour whose precipitation probability crosses the
// alert threshold.
func Alerts(hourly []forecast.HourlyRecord) []Alert {
	window := hourly
	if len(window) > windowHours {
		window = window[:windowHours]
	}
	for _, h := range window {
		if h.PrecipProbabilityPct >= alertThresholdPct {
			return []Alert{{
				Time:                 h.Time,
				Type:                 AlertTypeRainLikely,
				PrecipProbabilityPct: h.PrecipProbabilityPct,
			}}
		}
	}
	return nil
}

// HourlyScores returns one score per record, same length as the input.
// Each hour is scored with the aggregate weight formula collapsed to that
// hour's values; the duration term becomes a binary flag instead of a
// fraction of hours, so this is a distinct path from UmbrellaScore rather
// than a window of one.
func HourlyScores(hourly []forecast.HourlyRecord) []int {
	scores := make([]int, len(hourly))
	for idx, h := range hourly {
		p := h.PrecipProbabilityPct / 100.0
		i := normIntensity(h.PrecipAmountMm)
		w := clamp01(h.WindSpeedKph / windSaturationKph)
		d := 0.0
		if h.PrecipProbabilityPct >= persistenceThresholdPct {
			d = 1.0
		}
		scores[idx] = roundScore(p, i, d, w)
	}
	return scores
}

func roundScore(p, i, d, w float64) int {
	score := 100 * (weightProbability*p + weightIntensity*i + weightDuration*d + weightWind*w)
	return int(math.Round(score))
}

func normIntensity(mm float64) float64 {
	return clamp01(mm / intensitySaturationMm)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
