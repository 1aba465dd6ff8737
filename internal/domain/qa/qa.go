// Package qa answers natural-language precipitation questions from a
// normalized hourly forecast.
package qa

import (
	"fmt"
	"time"

	"github.com/KenTen-21/WeatherApp/internal/domain/forecast"
	"github.com/KenTen-21/WeatherApp/internal/domain/timewindow"
)

// Answer thresholds on the peak rain probability inside the window.
const (
	likelyThresholdPct  = 60.0
	lowRiskThresholdPct = 30.0

	fallbackHours = 6
)

// Result is the answer to one question. JSON field names follow the public
// API contract.
type Result struct {
	Answer      string  `json:"answer"`
	MaxRainProb float64 `json:"maxRainProb"`
}

// Outcome labels used for metrics; derived from the produced answer.
const (
	OutcomeRainLikely  = "rain_likely"
	OutcomeLowRisk     = "low_risk"
	OutcomePossible    = "possible_showers"
	OutcomeUnsupported = "unsupported"
)

// Answer resolves the question's time window against now, filters hourly
// records into it, and produces a yes/no-style rain answer with the peak
// probability over the selection. Records outside the window fall back to
// the first six records of the full sequence.
//
// A question with no recognizable condition is still answered as a rain
// question; that matches the historical behavior of the service.
func Answer(question string, now time.Time, hourly []forecast.HourlyRecord) Result {
	w := timewindow.Resolve(question, now)

	selected := make([]forecast.HourlyRecord, 0, len(hourly))
	for _, h := range hourly {
		if w.Contains(h.Time) {
			selected = append(selected, h)
		}
	}
	if len(selected) == 0 {
		if len(hourly) > fallbackHours {
			selected = hourly[:fallbackHours]
		} else {
			selected = hourly
		}
	}

	if w.Condition != "" && w.Condition != timewindow.ConditionRain {
		// Not reachable today: the resolver only infers rain. Kept so a
		// future condition does not silently get a rain answer.
		return Result{Answer: "I can check rain, wind, or temperature."}
	}

	var maxProb float64
	for _, h := range selected {
		if h.PrecipProbabilityPct > maxProb {
			maxProb = h.PrecipProbabilityPct
		}
	}

	return Result{Answer: phrase(maxProb), MaxRainProb: maxProb}
}

// Outcome classifies a result for metrics.
func Outcome(r Result) string {
	switch {
	case r.Answer == "I can check rain, wind, or temperature.":
		return OutcomeUnsupported
	case r.MaxRainProb >= likelyThresholdPct:
		return OutcomeRainLikely
	case r.MaxRainProb < lowRiskThresholdPct:
		return OutcomeLowRisk
	default:
		return OutcomePossible
	}
}

func phrase(maxProb float64) string {
	switch {
	case maxProb >= likelyThresholdPct:
		return fmt.Sprintf("Rain likely (%g%%)", maxProb)
	case maxProb < lowRiskThresholdPct:
		return fmt.Sprintf("Low rain risk (%g%%)", maxProb)
	default:
		return fmt.Sprintf("Possible showers (%g%%)", maxProb)
	}
}
