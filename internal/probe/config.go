package probe

import "time"

// Config holds configuration for the smoke probe
type Config struct {
	BaseURL   string        // Base URL of the service
	Requests  int           // Number of forecast requests to fire
	Workers   int           // Number of concurrent workers
	Timeout   time.Duration // HTTP request timeout
	Questions []string      // Questions to ask against /api/qa
	LogFile   string        // Log file for probe output
	Verbose   bool          // Enable verbose logging
}

// Target is one probed location.
type Target struct {
	Name string
	Lat  float64
	Lon  float64
}

// forecastResponse is the subset of the forecast payload the probe checks.
type forecastResponse struct {
	Hourly []struct {
		Time          string  `json:"time"`
		PrecipProb    float64 `json:"precip_prob"`
		UmbrellaScore int     `json:"umbrellaScore"`
	} `json:"hourly"`
	UmbrellaScore int `json:"umbrellaScore"`
	Alerts        []struct {
		Time string  `json:"time"`
		Type string  `json:"type"`
		Prob float64 `json:"prob"`
	} `json:"alerts"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// qaResponse is the /api/qa payload shape.
type qaResponse struct {
	Answer      string  `json:"answer"`
	MaxRainProb float64 `json:"maxRainProb"`
}

// statusResponse is the /api/status payload shape.
type statusResponse struct {
	Status string `json:"status"`
	App    string `json:"app"`
}

// Stats holds probe statistics
type Stats struct {
	ForecastsRequested  int
	ForecastsSuccessful int
	ForecastsFailed     int
	ScoreViolations     int
	AlertViolations     int
	QuestionsAsked      int
	QuestionsAnswered   int
	StartTime           time.Time
	EndTime             time.Time
	Duration            time.Duration
}
