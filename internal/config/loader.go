package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. .env in the working directory, if present (loaded into the process env)
//  3. file (YAML) if UMBRELLA_CONFIG is set
//  4. env (prefix UMBRELLA_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	// A missing .env is not an error; only care that an existing one loads.
	_ = godotenv.Load()

	k := koanf.New(".")

	if path := os.Getenv("UMBRELLA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: UMBRELLA_ADDR, UMBRELLA_CACHE_TTL_SECONDS, ...
	// Map env keys like UMBRELLA_CACHE_TTL_SECONDS -> cache_ttl_seconds, keeping
	// underscores to match the koanf tags on the struct.
	envProvider := env.Provider("UMBRELLA_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "umbrella_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.CacheTTLSeconds <= 0:
		return fmt.Errorf("%w: cache_ttl_seconds must be positive", ErrInvalidConfig)
	case c.CacheCapacity <= 0:
		return fmt.Errorf("%w: cache_capacity must be positive", ErrInvalidConfig)
	case c.UpstreamTimeoutSeconds <= 0:
		return fmt.Errorf("%w: upstream_timeout_seconds must be positive", ErrInvalidConfig)
	case c.ForecastDays < 1 || c.ForecastDays > 16:
		return fmt.Errorf("%w: forecast_days must be in [1,16]", ErrInvalidConfig)
	case c.HourlyResponseCap < 1:
		return fmt.Errorf("%w: hourly_response_cap must be positive", ErrInvalidConfig)
	}
	return nil
}
