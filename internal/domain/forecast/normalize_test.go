package forecast_test

import (
	"testing"
	"time"

	"github.com/KenTen-21/WeatherApp/internal/domain/forecast"
	. "github.com/smartystreets/goconvey/convey"
)

func f64(v float64) *float64 { return &v }

func TestNormalize(t *testing.T) {
	Convey("Given a raw payload with three timestamps", t, func() {
		raw := forecast.RawPayload{
			Hourly: forecast.RawHourly{
				Time:                     []string{"2024-05-01T10:00", "2024-05-01T11:00", "2024-05-01T12:00"},
				Temperature2M:            []*float64{f64(14.2), f64(15.1), f64(16.0)},
				PrecipitationProbability: []float64{10, 55, 80},
				Precipitation:            []float64{0, 0.4, 2.1},
				CloudCover:               []float64{20, 60, 95},
				RelativeHumidity2M:       []float64{70, 75, 82},
				PressureMSL:              []float64{1013, 1012, 1010},
				WindSpeed10M:             []float64{8, 12, 22},
				WindGusts10M:             []float64{15, 20, 38},
			},
			Daily: map[string]interface{}{"temperature_2m_max": []interface{}{18.0}},
		}

		Convey("When normalized", func() {
			out := forecast.Normalize(raw)

			Convey("Then one record per timestamp, in input order", func() {
				So(out.Hourly, ShouldHaveLength, 3)
				So(out.Hourly[0].Time.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)), ShouldBeTrue)
				So(out.Hourly[2].Time.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)), ShouldBeTrue)
			})

			Convey("And field values line up by index", func() {
				So(*out.Hourly[1].TemperatureC, ShouldEqual, 15.1)
				So(out.Hourly[1].PrecipProbabilityPct, ShouldEqual, 55)
				So(out.Hourly[2].PrecipAmountMm, ShouldEqual, 2.1)
				So(out.Hourly[2].WindGustKph, ShouldEqual, 38)
			})

			Convey("And the daily aggregate passes through", func() {
				So(out.Daily, ShouldContainKey, "temperature_2m_max")
			})
		})
	})

	Convey("Given a payload with missing and short arrays", t, func() {
		raw := forecast.RawPayload{
			Hourly: forecast.RawHourly{
				Time:                     []string{"2024-05-01T10:00", "2024-05-01T11:00"},
				PrecipitationProbability: []float64{40}, // shorter than time
				// all other arrays absent
			},
		}

		Convey("When normalized", func() {
			out := forecast.Normalize(raw)

			Convey("Then output length still matches the time array", func() {
				So(out.Hourly, ShouldHaveLength, 2)
			})

			Convey("And missing indexes degrade to defaults", func() {
				So(out.Hourly[0].PrecipProbabilityPct, ShouldEqual, 40)
				So(out.Hourly[1].PrecipProbabilityPct, ShouldEqual, 0)
				So(out.Hourly[0].TemperatureC, ShouldBeNil)
				So(out.Hourly[1].WindSpeedKph, ShouldEqual, 0)
			})

			Convey("And the daily aggregate is never nil", func() {
				So(out.Daily, ShouldNotBeNil)
			})
		})
	})

	Convey("Given an empty payload", t, func() {
		out := forecast.Normalize(forecast.RawPayload{})
		So(out.Hourly, ShouldHaveLength, 0)
	})

	Convey("Given RFC3339 timestamps", t, func() {
		raw := forecast.RawPayload{
			Hourly: forecast.RawHourly{Time: []string{"2024-05-01T10:00:00+02:00"}},
		}
		out := forecast.Normalize(raw)
		So(out.Hourly[0].Time.Equal(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)), ShouldBeTrue)
	})
}
