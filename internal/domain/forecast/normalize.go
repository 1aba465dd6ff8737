package forecast

import "time"

// Open-Meteo returns local timestamps without an offset, e.g.
// "2024-05-01T13:00". The client requests timezone=UTC so these parse
// directly into UTC instants. RFC3339 is accepted as a fallback.
const openMeteoTimeLayout = "2006-01-02T15:04"

// Normalize converts a raw provider payload into a Forecast with one
// HourlyRecord per entry in the raw time array, in input order. Missing
// arrays or short arrays never fail the normalization; the affected field
// degrades to its default (0, or nil for temperature).
func Normalize(raw RawPayload) Forecast {
	hourly := make([]HourlyRecord, 0, len(raw.Hourly.Time))
	for i, ts := range raw.Hourly.Time {
		hourly = append(hourly, HourlyRecord{
			Time:                 parseTime(ts),
			TemperatureC:         ptrAt(raw.Hourly.Temperature2M, i),
			PrecipProbabilityPct: at(raw.Hourly.PrecipitationProbability, i),
			PrecipAmountMm:       at(raw.Hourly.Precipitation, i),
			CloudCoverPct:        at(raw.Hourly.CloudCover, i),
			HumidityPct:          at(raw.Hourly.RelativeHumidity2M, i),
			PressureHpa:          at(raw.Hourly.PressureMSL, i),
			WindSpeedKph:         at(raw.Hourly.WindSpeed10M, i),
			WindGustKph:          at(raw.Hourly.WindGusts10M, i),
		})
	}
	daily := raw.Daily
	if daily == nil {
		daily = map[string]interface{}{}
	}
	return Forecast{Hourly: hourly, Daily: daily, Summary: ""}
}

func parseTime(s string) time.Time {
	if t, err := time.ParseInLocation(openMeteoTimeLayout, s, time.UTC); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

func at(vals []float64, i int) float64 {
	if i < 0 || i >= len(vals) {
		return 0
	}
	return vals[i]
}

func ptrAt(vals []*float64, i int) *float64 {
	if i < 0 || i >= len(vals) {
		return nil
	}
	return vals[i]
}
