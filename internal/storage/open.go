package storage

import (
	"fmt"
	"log/slog"

	"github.com/jwebster45206/ether-engine/internal/config"
	"github.com/jwebster45206/ether-engine/pkg/storage"
)

// Open builds the backend selected by cfg.StorageBackend.
func Open(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		r, err := NewRedisStorage(cfg.RedisURL, logger)
		if err != nil {
			return nil, err
		}
		return r.WithTTL(cfg.RunTTL), nil
	case config.BackendSQLite:
		return NewSQLiteStorage(cfg.SQLitePath, logger)
	case config.BackendMemory, "":
		return storage.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}
