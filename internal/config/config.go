package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultDatabaseURL  = "railway.db"
	defaultHTTPAddr     = ":8080"
	defaultMaxConfirmed = "63"
	defaultMaxRAC       = "9"
	defaultMaxWaiting   = "10"
)

// Config is the runtime configuration of the reservation service. The tier
// maximums are admission limits, not catalog sizes: the seeded seat map may
// hold more or fewer physical berths than the engine is willing to confirm.
type Config struct {
	DatabaseURL  string
	HTTPAddr     string
	MaxConfirmed int64
	MaxRAC       int64
	MaxWaiting   int64
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL)),
		HTTPAddr:    strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr)),
	}

	var err error
	if cfg.MaxConfirmed, err = parseIntEnv("MAX_CONFIRMED", defaultMaxConfirmed); err != nil {
		return nil, err
	}
	if cfg.MaxRAC, err = parseIntEnv("MAX_RAC", defaultMaxRAC); err != nil {
		return nil, err
	}
	if cfg.MaxWaiting, err = parseIntEnv("MAX_WAITING", defaultMaxWaiting); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseIntEnv(key, fallback string) (int64, error) {
	raw := strings.TrimSpace(getEnv(key, fallback))
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, raw, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s: must not be negative, got %d", key, v)
	}
	return v, nil
}
