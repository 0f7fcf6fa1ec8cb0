package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.RunTTL)
	assert.Zero(t, cfg.RunSeed)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("STORAGE_BACKEND", " SQLite ")
	t.Setenv("RUN_SEED", "42")
	t.Setenv("RUN_TTL", "90m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, BackendSQLite, cfg.StorageBackend)
	assert.Equal(t, uint64(42), cfg.RunSeed)
	assert.Equal(t, 90*time.Minute, cfg.RunTTL)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "postgres")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("bad seed", func(t *testing.T) {
		t.Setenv("RUN_SEED", "not-a-number")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"chatty":  slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLogLevel(in), in)
	}
}
