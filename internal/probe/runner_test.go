package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/KenTen-21/WeatherApp/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func newFakeService(t *testing.T, score int, alertProb float64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","app":"Umbrella.ai"}`))
	})
	mux.HandleFunc("/api/forecast", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		body := `{"hourly":[{"time":"2024-05-01T10:00:00Z","precip_prob":70,"umbrellaScore":` +
			strconv.Itoa(score) + `}],"umbrellaScore":` + strconv.Itoa(score) +
			`,"alerts":[{"time":"2024-05-01T10:00:00Z","type":"Rain Likely","prob":` +
			strconv.FormatFloat(alertProb, 'f', -1, 64) + `}]}`
		_, _ = w.Write([]byte(body))
	})
	mux.HandleFunc("/api/qa", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer":"Rain likely (70%)","maxRainProb":70}`))
	})
	return httptest.NewServer(mux)
}

func testConfig(url string) *Config {
	return &Config{
		BaseURL:   url,
		Requests:  6,
		Workers:   2,
		Timeout:   5 * time.Second,
		Questions: []string{"Will it rain before 6pm?"},
	}
}

func TestProbeRun(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}

	Convey("Given a healthy service", t, func() {
		srv := newFakeService(t, 65, 70)
		defer srv.Close()

		Convey("the probe passes", func() {
			err := Run(context.Background(), testConfig(srv.URL))
			So(err, ShouldBeNil)
		})
	})

	Convey("Given a service with an out-of-range score", t, func() {
		srv := newFakeService(t, 140, 70)
		defer srv.Close()

		Convey("the probe reports violations", func() {
			err := Run(context.Background(), testConfig(srv.URL))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "violations")
		})
	})

	Convey("Given a service alerting below the rain threshold", t, func() {
		srv := newFakeService(t, 65, 40)
		defer srv.Close()

		Convey("the probe reports violations", func() {
			err := Run(context.Background(), testConfig(srv.URL))
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given an unreachable service", t, func() {
		Convey("the probe fails the status check", func() {
			cfg := testConfig("http://127.0.0.1:1")
			cfg.Timeout = 500 * time.Millisecond
			err := Run(context.Background(), cfg)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "status check")
		})
	})
}
