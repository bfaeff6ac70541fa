package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds process settings loaded from environment variables. Persisted
// user state (credentials, cached bot list) lives in State.
type Config struct {
	Log       LogConfig
	Telegram  TelegramConfig
	StatePath string
	// FlowTimeout bounds a whole command run; zero means no limit.
	FlowTimeout time.Duration
}

// LogConfig holds zerolog settings.
type LogConfig struct {
	Level  zerolog.Level
	Format string // "text" or "json"
}

// TelegramConfig holds MTProto session settings.
type TelegramConfig struct {
	SessionPath string
	Peer        string
	Phone       string
	RateLimit   float64 // outgoing requests per second
	RateBurst   int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	level, err := getEnvLevel("FATHERCLI_LOG_LEVEL", zerolog.WarnLevel)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	flowTimeout, err := getEnvDuration("FATHERCLI_FLOW_TIMEOUT", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateLimit, err := getEnvFloat("FATHERCLI_RATE_LIMIT", 1)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateBurst, err := getEnvInt("FATHERCLI_RATE_BURST", 3)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	cfg := &Config{
		Log: LogConfig{
			Level:  level,
			Format: getEnv("FATHERCLI_LOG_FORMAT", "text"),
		},
		Telegram: TelegramConfig{
			SessionPath: getEnv("FATHERCLI_SESSION_PATH", "fathercli.session"),
			Peer:        getEnv("FATHERCLI_PEER", "BotFather"),
			Phone:       getEnv("FATHERCLI_PHONE", ""),
			RateLimit:   rateLimit,
			RateBurst:   rateBurst,
		},
		StatePath:   getEnv("FATHERCLI_STATE_PATH", "fathercli.json"),
		FlowTimeout: flowTimeout,
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("FATHERCLI_LOG_FORMAT must be text or json, got %q", c.Log.Format)
	}
	if strings.TrimSpace(c.Telegram.Peer) == "" {
		return errors.New("FATHERCLI_PEER must not be empty")
	}
	if c.StatePath == "" {
		return errors.New("FATHERCLI_STATE_PATH must not be empty")
	}
	if c.Telegram.SessionPath == "" {
		return errors.New("FATHERCLI_SESSION_PATH must not be empty")
	}
	if c.FlowTimeout < 0 {
		return fmt.Errorf("FATHERCLI_FLOW_TIMEOUT must not be negative, got %s", c.FlowTimeout)
	}
	if c.Telegram.RateLimit <= 0 {
		return fmt.Errorf("FATHERCLI_RATE_LIMIT must be positive, got %g", c.Telegram.RateLimit)
	}
	if c.Telegram.RateBurst < 1 {
		return fmt.Errorf("FATHERCLI_RATE_BURST must be >= 1, got %d", c.Telegram.RateBurst)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvLevel(key string, fallback zerolog.Level) (zerolog.Level, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(v))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("parsing %s=%q as log level: %w", key, v, err)
	}
	return level, nil
}
