package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/logicmart")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/logicmart", cfg.DatabaseURL)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 30*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 5, cfg.KeepaliveCount)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, 2*time.Second, cfg.RetryBackoff)
	assert.Equal(t, 30*time.Second, cfg.QueryTimeout)
	assert.Equal(t, 500, cfg.MaxRows)
	assert.Equal(t, 8*time.Hour, cfg.SessionTTL)
	assert.Equal(t, float64(120), cfg.RateLimitPerMinute)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/logicmart")
	t.Setenv("LOGICMART_LISTEN_ADDR", ":9191")
	t.Setenv("LOGICMART_RETRY_ATTEMPTS", "5")
	t.Setenv("LOGICMART_RETRY_BACKOFF", "500ms")
	t.Setenv("LOGICMART_SESSION_TTL", "1h")
	t.Setenv("LOGICMART_MAX_ROWS", "100")
	t.Setenv("LOGICMART_RATE_LIMIT_PER_MINUTE", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9191", cfg.ListenAddr)
	assert.Equal(t, 5, cfg.RetryAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryBackoff)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 100, cfg.MaxRows)
	assert.Equal(t, float64(0), cfg.RateLimitPerMinute)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/logicmart")
	t.Setenv("LOGICMART_QUERY_TIMEOUT", "fast")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOGICMART_QUERY_TIMEOUT")
}

func TestLoad_InvalidMaxRows(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/logicmart")
	t.Setenv("LOGICMART_MAX_ROWS", "-5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positive integer")
}

func TestLoad_LogLevel(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/logicmart")
	t.Setenv("LOGICMART_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/logicmart")
	t.Setenv("LOGICMART_LOG_LEVEL", "loud")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOGICMART_LOG_LEVEL")
}

func TestLoad_NegativeRateLimit(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/logicmart")
	t.Setenv("LOGICMART_RATE_LIMIT_PER_MINUTE", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-negative")
}
