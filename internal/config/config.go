// Package config provides engine configuration loaded from environment
// variables with defaults and validation: cache location, remote store
// endpoint and credentials, logging, and observability.
package config

import (
	"errors"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// RemoteConfig describes the hosted trip store.
type RemoteConfig struct {
	BaseURL   string        // TRIP_REMOTE_URL
	Token     string        // TRIP_REMOTE_TOKEN (session access token)
	Timeout   time.Duration // TRIP_REMOTE_TIMEOUT
	RateRPS   float64       // TRIP_REMOTE_RATE_RPS (<= 0 disables throttling)
	RateBurst int           // TRIP_REMOTE_RATE_BURST
}

// OTELConfig defines OpenTelemetry tracing settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the engine.
type Config struct {
	CachePath    string // TRIP_CACHE_PATH (SQLite file)
	LogLevel     string // LOG_LEVEL: debug|info|warn|error|fatal|panic
	LogPretty    bool   // LOG_PRETTY
	FlushOnStart bool   // TRIP_FLUSH_ON_START: eager flush when already online

	Remote RemoteConfig
	OTEL   OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables, applies defaults,
// and validates the result.
func Load() (Config, error) {
	cfg := Config{
		CachePath:    getenv("TRIP_CACHE_PATH", "trip-cache.db"),
		LogLevel:     strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:    getbool("LOG_PRETTY", false),
		FlushOnStart: getbool("TRIP_FLUSH_ON_START", true),

		Remote: RemoteConfig{
			BaseURL:   getenv("TRIP_REMOTE_URL", ""),
			Token:     getenv("TRIP_REMOTE_TOKEN", ""),
			Timeout:   getdur("TRIP_REMOTE_TIMEOUT", 30*time.Second),
			RateRPS:   getfloat("TRIP_REMOTE_RATE_RPS", 10.0),
			RateBurst: getint("TRIP_REMOTE_RATE_BURST", 20),
		},

		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "trip-sync"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.CachePath) == "" {
		return errors.New("config: cache path must not be empty")
	}
	if c.Remote.BaseURL != "" {
		u, err := url.Parse(c.Remote.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.New("config: remote url must be an absolute URL")
		}
	}
	if c.Remote.Timeout <= 0 {
		return errors.New("config: remote timeout must be positive")
	}
	if c.Remote.RateBurst < 1 {
		return errors.New("config: remote rate burst must be >= 1")
	}
	if c.OTEL.SampleRatio < 0 || c.OTEL.SampleRatio > 1 {
		return errors.New("config: sample ratio must be in [0,1]")
	}
	return nil
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getint(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func getfloat(key string, def float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return def
}
