package service

import (
	"time"

	"github.com/KenTen-21/WeatherApp/internal/adapters/cache"
	"github.com/KenTen-21/WeatherApp/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithProvider sets the forecast provider.
func WithProvider(p Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.provider = p
		}
	}
}

// WithGeocoder sets the city geocoder.
func WithGeocoder(g Geocoder) Option {
	return func(s *Service) {
		if g != nil {
			s.geocoder = g
		}
	}
}

// WithCache sets the forecast memo store.
func WithCache(c cache.Store) Option {
	return func(s *Service) {
		if c != nil {
			s.memo = c
		}
	}
}

// WithClock injects the time source used as the QA reference now.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithAppName sets the name reported by the status endpoint.
func WithAppName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.appName = name
		}
	}
}

// WithHourlyResponseCap bounds hourly entries in forecast responses.
func WithHourlyResponseCap(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.hourlyCap = n
		}
	}
}
