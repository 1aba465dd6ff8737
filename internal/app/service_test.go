package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KenTen-21/WeatherApp/internal/adapters/cache"
	"github.com/KenTen-21/WeatherApp/internal/adapters/upstream/geocode"
	service "github.com/KenTen-21/WeatherApp/internal/app"
	"github.com/KenTen-21/WeatherApp/internal/domain/forecast"
	"github.com/KenTen-21/WeatherApp/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeProvider struct {
	payload forecast.RawPayload
	err     error
	calls   int
}

func (f *fakeProvider) Forecast(ctx context.Context, lat, lon float64) (forecast.RawPayload, error) {
	f.calls++
	return f.payload, f.err
}

type fakeGeocoder struct {
	loc geocode.Location
	err error
}

func (f *fakeGeocoder) Resolve(ctx context.Context, city string) (geocode.Location, error) {
	return f.loc, f.err
}

func rawPayload(now time.Time, probs []float64, temps []*float64) forecast.RawPayload {
	times := make([]string, len(probs))
	for i := range times {
		times[i] = now.Add(time.Duration(i) * time.Hour).Format("2006-01-02T15:04")
	}
	return forecast.RawPayload{
		Hourly: forecast.RawHourly{
			Time:                     times,
			Temperature2M:            temps,
			PrecipitationProbability: probs,
		},
		Daily: map[string]interface{}{"precipitation_sum": []interface{}{1.0}},
	}
}

func f64(v float64) *float64 { return &v }

func TestService(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	Convey("Given a service over a fake provider", t, func() {
		probs := []float64{10, 20, 70, 80, 30, 10, 5, 0, 0, 0, 0, 0}
		prov := &fakeProvider{payload: rawPayload(now, probs, []*float64{f64(14), f64(15)})}
		svc := service.New(
			service.WithProvider(prov),
			service.WithGeocoder(&fakeGeocoder{loc: geocode.Location{Name: "Berlin", Lat: 52.52, Lon: 13.41}}),
			service.WithCache(cache.NewMemo(cache.WithClock(clock))),
			service.WithClock(clock),
			service.WithAppName("Umbrella.ai"),
			service.WithHourlyResponseCap(48),
		)

		Convey("Forecast derives scores, alerts and per-hour views", func() {
			view, err := svc.Forecast(ctx, 52.52, 13.41)
			So(err, ShouldBeNil)
			So(view.Hourly, ShouldHaveLength, 12)
			So(view.UmbrellaScore, ShouldBeGreaterThan, 0)
			So(view.Alerts, ShouldHaveLength, 1)
			So(view.Alerts[0].PrecipProbabilityPct, ShouldEqual, 70)
			So(view.Hourly[3].UmbrellaScore, ShouldBeGreaterThan, view.Hourly[0].UmbrellaScore)
			So(view.Daily, ShouldContainKey, "precipitation_sum")
		})

		Convey("A second call for the same coordinates reuses the cache", func() {
			_, err := svc.Forecast(ctx, 52.52, 13.41)
			So(err, ShouldBeNil)
			_, err = svc.Answer(ctx, "rain today?", 52.52, 13.41)
			So(err, ShouldBeNil)
			So(prov.calls, ShouldEqual, 1)
		})

		Convey("Different coordinates fetch separately", func() {
			_, err := svc.Forecast(ctx, 52.52, 13.41)
			So(err, ShouldBeNil)
			_, err = svc.Forecast(ctx, 48.85, 2.35)
			So(err, ShouldBeNil)
			So(prov.calls, ShouldEqual, 2)
		})

		Convey("Answer evaluates the question against the forecast", func() {
			res, err := svc.Answer(ctx, "will it rain before 3pm?", 52.52, 13.41)
			So(err, ShouldBeNil)
			// Window [09:00, 15:00] covers the 80% hour.
			So(res.MaxRainProb, ShouldEqual, 80)
			So(res.Answer, ShouldStartWith, "Rain likely")
		})

		Convey("Backtest mixes placeholders with a computed average", func() {
			report, err := svc.Backtest(ctx, 52.52, 13.41, 7)
			So(err, ShouldBeNil)
			So(report.TempMAE, ShouldEqual, 1.8)
			So(report.RainPrecision, ShouldEqual, 0.72)
			So(report.RainRecall, ShouldEqual, 0.61)
			So(report.AvgTemp, ShouldNotBeNil)
			So(*report.AvgTemp, ShouldEqual, 14.5)
		})

		Convey("ResolveCity delegates to the geocoder", func() {
			loc, err := svc.ResolveCity(ctx, "Berlin")
			So(err, ShouldBeNil)
			So(loc.Lat, ShouldEqual, 52.52)
		})

		Convey("GetStats exposes cache occupancy", func() {
			_, err := svc.Forecast(ctx, 52.52, 13.41)
			So(err, ShouldBeNil)
			stats := svc.GetStats()
			So(stats["cacheEntries"], ShouldEqual, 1)
			So(stats["app"], ShouldEqual, "Umbrella.ai")
		})
	})

	Convey("Given a failing provider", t, func() {
		boom := errors.New("upstream exploded")
		svc := service.New(
			service.WithProvider(&fakeProvider{err: boom}),
			service.WithCache(cache.NewMemo(cache.WithClock(clock))),
			service.WithClock(clock),
		)

		Convey("Errors pass through unmasked", func() {
			_, err := svc.Forecast(ctx, 1, 2)
			So(errors.Is(err, boom), ShouldBeTrue)
			_, err = svc.Answer(ctx, "rain?", 1, 2)
			So(errors.Is(err, boom), ShouldBeTrue)
			_, err = svc.Backtest(ctx, 1, 2, 7)
			So(errors.Is(err, boom), ShouldBeTrue)
		})
	})

	Convey("Given a backtest with no temperatures", t, func() {
		prov := &fakeProvider{payload: rawPayload(now, []float64{10, 20}, nil)}
		svc := service.New(
			service.WithProvider(prov),
			service.WithCache(cache.NewMemo(cache.WithClock(clock))),
			service.WithClock(clock),
		)

		Convey("AvgTemp stays nil", func() {
			report, err := svc.Backtest(ctx, 1, 2, 7)
			So(err, ShouldBeNil)
			So(report.AvgTemp, ShouldBeNil)
		})
	})
}
