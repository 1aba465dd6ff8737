package probe

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KenTen-21/WeatherApp/pkg/logger"
)

// Score bounds the probe verifies on every response.
const (
	minScore          = 0
	maxScore          = 100
	alertThresholdPct = 60
)

// defaultTargets are well-known coordinates cycled through by the probe.
var defaultTargets = []Target{
	{Name: "Berlin", Lat: 52.52, Lon: 13.405},
	{Name: "London", Lat: 51.5074, Lon: -0.1278},
	{Name: "Tokyo", Lat: 35.6762, Lon: 139.6503},
	{Name: "Seattle", Lat: 47.6062, Lon: -122.3321},
	{Name: "Mumbai", Lat: 19.076, Lon: 72.8777},
	{Name: "Sydney", Lat: -33.8688, Lon: 151.2093},
}

// Run executes the complete smoke probe.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting umbrella advisory probe",
		logger.String("baseURL", config.BaseURL),
		logger.Int("requests", config.Requests),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service status
	if err := checkServiceStatus(ctx, client, config); err != nil {
		return fmt.Errorf("service status check failed: %w", err)
	}

	// Step 2: Fire forecast requests concurrently
	if err := probeForecasts(ctx, client, config, stats); err != nil {
		return fmt.Errorf("forecast probe failed: %w", err)
	}

	// Step 3: Ask questions
	if err := probeQuestions(ctx, client, config, stats); err != nil {
		return fmt.Errorf("qa probe failed: %w", err)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if stats.ScoreViolations > 0 || stats.AlertViolations > 0 {
		return fmt.Errorf("probe found %d score and %d alert violations",
			stats.ScoreViolations, stats.AlertViolations)
	}
	if stats.ForecastsFailed > 0 {
		return fmt.Errorf("%d of %d forecast requests failed",
			stats.ForecastsFailed, stats.ForecastsRequested)
	}
	return nil
}

// checkServiceStatus verifies the service is up before probing.
func checkServiceStatus(ctx context.Context, client *HTTPClient, config *Config) error {
	var status statusResponse
	if err := client.GetJSON(ctx, config.BaseURL+"/api/status", &status); err != nil {
		return err
	}
	if status.Status != "ok" {
		return fmt.Errorf("service reported status %q", status.Status)
	}
	logger.Get().Info(ctx, "service is up", logger.String("app", status.App))
	return nil
}

// probeForecasts fires config.Requests forecast requests across the worker
// pool and verifies score bounds and alert thresholds on every response.
func probeForecasts(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) error {
	var successful, failed, scoreViolations, alertViolations int64

	jobs := make(chan Target, config.Workers)
	var wg sync.WaitGroup
	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for target := range jobs {
				var fc forecastResponse
				url := fmt.Sprintf("%s/api/forecast?lat=%g&lon=%g", config.BaseURL, target.Lat, target.Lon)
				if err := client.GetJSON(ctx, url, &fc); err != nil {
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						logger.Get().Warn(ctx, "forecast request failed",
							logger.String("target", target.Name), logger.Error(err))
					}
					continue
				}
				atomic.AddInt64(&successful, 1)
				atomic.AddInt64(&scoreViolations, int64(countScoreViolations(fc)))
				atomic.AddInt64(&alertViolations, int64(countAlertViolations(fc)))
			}
		}()
	}

	for i := 0; i < config.Requests; i++ {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- defaultTargets[i%len(defaultTargets)]:
		}
	}
	close(jobs)
	wg.Wait()

	stats.ForecastsRequested = config.Requests
	stats.ForecastsSuccessful = int(successful)
	stats.ForecastsFailed = int(failed)
	stats.ScoreViolations = int(scoreViolations)
	stats.AlertViolations = int(alertViolations)
	return nil
}

// countScoreViolations checks the aggregate and per-hour scores stay in range.
func countScoreViolations(fc forecastResponse) int {
	violations := 0
	if fc.UmbrellaScore < minScore || fc.UmbrellaScore > maxScore {
		violations++
	}
	for _, h := range fc.Hourly {
		if h.UmbrellaScore < minScore || h.UmbrellaScore > maxScore {
			violations++
		}
	}
	return violations
}

// countAlertViolations checks every alert sits at or above the rain threshold.
func countAlertViolations(fc forecastResponse) int {
	violations := 0
	for _, a := range fc.Alerts {
		if a.Prob < alertThresholdPct {
			violations++
		}
	}
	return violations
}

// probeQuestions asks each configured question against a random target.
func probeQuestions(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) error {
	for _, q := range config.Questions {
		target := defaultTargets[rand.Intn(len(defaultTargets))]
		stats.QuestionsAsked++

		var res qaResponse
		body := map[string]interface{}{"question": q, "lat": target.Lat, "lon": target.Lon}
		if err := client.PostJSON(ctx, config.BaseURL+"/api/qa", body, &res); err != nil {
			logger.Get().Warn(ctx, "qa request failed", logger.String("question", q), logger.Error(err))
			continue
		}
		if res.Answer == "" {
			logger.Get().Warn(ctx, "empty answer", logger.String("question", q))
			continue
		}
		stats.QuestionsAnswered++
		if config.Verbose {
			logger.Get().Info(ctx, "question answered",
				logger.String("question", q),
				logger.String("answer", res.Answer),
				logger.Float64("maxRainProb", res.MaxRainProb))
		}
	}
	return nil
}

// displayFinalStats logs the probe summary.
func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "probe finished",
		logger.Int("forecastsRequested", stats.ForecastsRequested),
		logger.Int("forecastsSuccessful", stats.ForecastsSuccessful),
		logger.Int("forecastsFailed", stats.ForecastsFailed),
		logger.Int("scoreViolations", stats.ScoreViolations),
		logger.Int("alertViolations", stats.AlertViolations),
		logger.Int("questionsAsked", stats.QuestionsAsked),
		logger.Int("questionsAnswered", stats.QuestionsAnswered),
		logger.String("duration", stats.Duration.String()))
}
