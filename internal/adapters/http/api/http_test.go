package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/KenTen-21/WeatherApp/internal/adapters/http/api"
	"github.com/KenTen-21/WeatherApp/internal/adapters/upstream/geocode"
	"github.com/KenTen-21/WeatherApp/internal/adapters/upstream/openmeteo"
	service "github.com/KenTen-21/WeatherApp/internal/app"
	"github.com/KenTen-21/WeatherApp/internal/domain/forecast"
	"github.com/KenTen-21/WeatherApp/internal/domain/qa"
	"github.com/KenTen-21/WeatherApp/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementation of api.Dependencies for handler tests.
type mockDeps struct {
	view        service.ForecastView
	forecastErr error
	answer      qa.Result
	answerErr   error
	report      service.BacktestReport
	backtestErr error
	loc         geocode.Location
	resolveErr  error

	lastLat, lastLon float64
	lastQuestion     string
	lastCity         string
	lastDays         int
}

func (m *mockDeps) Forecast(ctx context.Context, lat, lon float64) (service.ForecastView, error) {
	m.lastLat, m.lastLon = lat, lon
	return m.view, m.forecastErr
}

func (m *mockDeps) Answer(ctx context.Context, question string, lat, lon float64) (qa.Result, error) {
	m.lastQuestion = question
	return m.answer, m.answerErr
}

func (m *mockDeps) Backtest(ctx context.Context, lat, lon float64, days int) (service.BacktestReport, error) {
	m.lastDays = days
	return m.report, m.backtestErr
}

func (m *mockDeps) ResolveCity(ctx context.Context, city string) (geocode.Location, error) {
	m.lastCity = city
	return m.loc, m.resolveErr
}

func (m *mockDeps) AppName() string { return "Umbrella.ai" }

func newTestServer(deps *mockDeps) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(deps).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func sampleView() service.ForecastView {
	h := forecast.HourlyRecord{
		Time:                 time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		PrecipProbabilityPct: 70,
	}
	return service.ForecastView{
		Hourly:        []service.HourlyView{{HourlyRecord: h, UmbrellaScore: 54}},
		Daily:         map[string]interface{}{"precipitation_sum": []interface{}{2.0}},
		UmbrellaScore: 65,
		Alerts:        []scoring.Alert{{Time: h.Time, Type: scoring.AlertTypeRainLikely, PrecipProbabilityPct: 70}},
	}
}

func TestForecastEndpoint(t *testing.T) {
	Convey("Given the API over mock dependencies", t, func() {
		deps := &mockDeps{view: sampleView(), loc: geocode.Location{Name: "Berlin", Lat: 52.52, Lon: 13.41}}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("lat/lon requests return the forecast view", func() {
			resp, err := http.Get(srv.URL + "/api/forecast?lat=52.52&lon=13.41")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(resp.Header.Get("X-Request-Id"), ShouldNotBeEmpty)

			var body map[string]interface{}
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
			So(body["umbrellaScore"], ShouldEqual, 65)
			So(body["alerts"], ShouldHaveLength, 1)
			hourly := body["hourly"].([]interface{})
			first := hourly[0].(map[string]interface{})
			So(first["umbrellaScore"], ShouldEqual, 54)
			So(first["precip_prob"], ShouldEqual, 70)
		})

		Convey("city requests geocode first", func() {
			resp, err := http.Get(srv.URL + "/api/forecast?city=Berlin")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(deps.lastCity, ShouldEqual, "Berlin")
			So(deps.lastLat, ShouldEqual, 52.52)
		})

		Convey("an unknown city gets a 404 with a suggestion", func() {
			deps.resolveErr = geocode.ErrNotFound
			resp, err := http.Get(srv.URL + "/api/forecast?city=Atlantis")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)

			var body map[string]interface{}
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
			So(body["code"], ShouldEqual, "city_not_found")
			So(body["suggestion"], ShouldContainSubstring, "Atlantis")
		})

		Convey("a whitespace-only city is a client error", func() {
			resp, err := http.Get(srv.URL + "/api/forecast?city=%20%20")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("neither city nor coordinates is a client error", func() {
			resp, err := http.Get(srv.URL + "/api/forecast")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("unparsable coordinates are a client error", func() {
			resp, err := http.Get(srv.URL + "/api/forecast?lat=abc&lon=13.41")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("an upstream failure maps to 502", func() {
			deps.forecastErr = openmeteo.ErrUpstream
			resp, err := http.Get(srv.URL + "/api/forecast?lat=1&lon=2")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadGateway)
		})

		Convey("an upstream timeout maps to 504", func() {
			deps.forecastErr = context.DeadlineExceeded
			resp, err := http.Get(srv.URL + "/api/forecast?lat=1&lon=2")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusGatewayTimeout)
		})
	})
}

func TestQAEndpoint(t *testing.T) {
	Convey("Given the API over mock dependencies", t, func() {
		deps := &mockDeps{answer: qa.Result{Answer: "Rain likely (70%)", MaxRainProb: 70}}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("a valid question is answered", func() {
			body := strings.NewReader(`{"question":"rain before 6pm?","lat":52.52,"lon":13.41}`)
			resp, err := http.Post(srv.URL+"/api/qa", "application/json", body)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var res qa.Result
			So(json.NewDecoder(resp.Body).Decode(&res), ShouldBeNil)
			So(res.MaxRainProb, ShouldEqual, 70)
			So(res.Answer, ShouldStartWith, "Rain likely")
			So(deps.lastQuestion, ShouldEqual, "rain before 6pm?")
		})

		Convey("a missing question is a client error", func() {
			body := strings.NewReader(`{"question":"  ","lat":1,"lon":2}`)
			resp, err := http.Post(srv.URL+"/api/qa", "application/json", body)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("a malformed body is a client error", func() {
			resp, err := http.Post(srv.URL+"/api/qa", "application/json", strings.NewReader("{"))
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("GET is not routed", func() {
			resp, err := http.Get(srv.URL + "/api/qa")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestBacktestEndpoint(t *testing.T) {
	Convey("Given the API over mock dependencies", t, func() {
		avg := 14.5
		deps := &mockDeps{report: service.BacktestReport{TempMAE: 1.8, RainPrecision: 0.72, RainRecall: 0.61, AvgTemp: &avg}}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("days defaults to seven", func() {
			resp, err := http.Get(srv.URL + "/api/backtest?lat=1&lon=2")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(deps.lastDays, ShouldEqual, 7)

			var body map[string]interface{}
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
			So(body["tempMAE"], ShouldEqual, 1.8)
			So(body["avgTemp"], ShouldEqual, 14.5)
		})

		Convey("an explicit days value is passed through", func() {
			resp, err := http.Get(srv.URL + "/api/backtest?lat=1&lon=2&days=14")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(deps.lastDays, ShouldEqual, 14)
		})

		Convey("out-of-range days is a client error", func() {
			resp, err := http.Get(srv.URL + "/api/backtest?lat=1&lon=2&days=99")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("missing coordinates is a client error", func() {
			resp, err := http.Get(srv.URL + "/api/backtest")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestStatusEndpoint(t *testing.T) {
	Convey("Given the API over mock dependencies", t, func() {
		srv := newTestServer(&mockDeps{})
		defer srv.Close()

		Convey("status reports ok and the app name", func() {
			resp, err := http.Get(srv.URL + "/api/status")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var body map[string]string
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
			So(body["status"], ShouldEqual, "ok")
			So(body["app"], ShouldEqual, "Umbrella.ai")
		})
	})
}
