package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

type Config struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	Environment    string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelName   string        `env:"LOG_LEVEL" envDefault:"info"`
	StorageBackend string        `env:"STORAGE_BACKEND" envDefault:"memory"`
	RedisURL       string        `env:"REDIS_URL" envDefault:"localhost:6379"`
	SQLitePath     string        `env:"SQLITE_PATH" envDefault:"./data/ether.db"`
	ContentDir     string        `env:"CONTENT_DIR"`
	RunSeed        uint64        `env:"RUN_SEED"`
	RunTTL         time.Duration `env:"RUN_TTL" envDefault:"24h"`

	LogLevel slog.Level `env:"-"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)
	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))

	switch cfg.StorageBackend {
	case BackendMemory, BackendRedis, BackendSQLite:
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
	return &cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
