package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries every tunable of the analytics service. Values come from the
// environment; only DATABASE_URL is required.
type Config struct {
	DatabaseURL string

	ConnectTimeout    time.Duration
	KeepaliveIdle     time.Duration
	KeepaliveInterval time.Duration
	KeepaliveCount    int

	RetryAttempts int
	RetryBackoff  time.Duration

	QueryTimeout time.Duration
	MaxRows      int

	SessionTTL time.Duration

	ListenAddr         string
	CORSOrigin         string
	ReadHeaderTimeout  time.Duration
	IdleTimeout        time.Duration
	ShutdownTimeout    time.Duration
	RateLimitPerMinute float64

	LogLevel slog.Level
}

// Load reads configuration from environment variables, applying defaults for
// everything except DATABASE_URL.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		ConnectTimeout:     30 * time.Second,
		KeepaliveIdle:      30 * time.Second,
		KeepaliveInterval:  10 * time.Second,
		KeepaliveCount:     5,
		RetryAttempts:      3,
		RetryBackoff:       2 * time.Second,
		QueryTimeout:       30 * time.Second,
		MaxRows:            500,
		SessionTTL:         8 * time.Hour,
		ListenAddr:         getEnv("LOGICMART_LISTEN_ADDR", ":8080"),
		CORSOrigin:         os.Getenv("LOGICMART_CORS_ORIGIN"),
		ReadHeaderTimeout:  5 * time.Second,
		IdleTimeout:        60 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		RateLimitPerMinute: 120,
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if err := envDuration("LOGICMART_CONNECT_TIMEOUT", &cfg.ConnectTimeout); err != nil {
		return nil, err
	}
	if err := envDuration("LOGICMART_KEEPALIVE_IDLE", &cfg.KeepaliveIdle); err != nil {
		return nil, err
	}
	if err := envDuration("LOGICMART_KEEPALIVE_INTERVAL", &cfg.KeepaliveInterval); err != nil {
		return nil, err
	}
	if err := envInt("LOGICMART_KEEPALIVE_COUNT", &cfg.KeepaliveCount); err != nil {
		return nil, err
	}
	if err := envInt("LOGICMART_RETRY_ATTEMPTS", &cfg.RetryAttempts); err != nil {
		return nil, err
	}
	if err := envDuration("LOGICMART_RETRY_BACKOFF", &cfg.RetryBackoff); err != nil {
		return nil, err
	}
	if err := envDuration("LOGICMART_QUERY_TIMEOUT", &cfg.QueryTimeout); err != nil {
		return nil, err
	}
	if err := envInt("LOGICMART_MAX_ROWS", &cfg.MaxRows); err != nil {
		return nil, err
	}
	if err := envDuration("LOGICMART_SESSION_TTL", &cfg.SessionTTL); err != nil {
		return nil, err
	}
	if err := envDuration("LOGICMART_READ_HEADER_TIMEOUT", &cfg.ReadHeaderTimeout); err != nil {
		return nil, err
	}
	if err := envDuration("LOGICMART_IDLE_TIMEOUT", &cfg.IdleTimeout); err != nil {
		return nil, err
	}
	if err := envDuration("LOGICMART_SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout); err != nil {
		return nil, err
	}
	if err := envFloat("LOGICMART_RATE_LIMIT_PER_MINUTE", &cfg.RateLimitPerMinute); err != nil {
		return nil, err
	}

	if v := os.Getenv("LOGICMART_LOG_LEVEL"); v != "" {
		level, err := parseLogLevel(v)
		if err != nil {
			return nil, err
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	*dst = d
	return nil
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid %s value %q: must be a positive integer", key, v)
	}
	*dst = n
	return nil
}

// envFloat accepts zero so rate limiting can be switched off outright.
func envFloat(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return fmt.Errorf("invalid %s value %q: must be a non-negative number", key, v)
	}
	*dst = f
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOGICMART_LOG_LEVEL value %q: must be debug, info, warn, or error", s)
	}
}
