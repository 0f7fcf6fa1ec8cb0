package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/ether-engine/pkg/state"
	"github.com/jwebster45206/ether-engine/pkg/storage"
	"github.com/redis/go-redis/v9"
)

// DefaultRunTTL is how long an idle run survives in Redis.
const DefaultRunTTL = 24 * time.Hour

// RedisStorage implements the Storage interface using Redis. Runs expire
// after the configured TTL; blobs are kept until overwritten.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// Ensure RedisStorage implements Storage interface
var _ storage.Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance. redisURL may be a
// redis:// URL or a bare host:port.
func NewRedisStorage(redisURL string, logger *slog.Logger) (*RedisStorage, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		opts = &redis.Options{Addr: redisURL}
	}
	return NewRedisStorageFromClient(redis.NewClient(opts), logger), nil
}

// NewRedisStorageFromClient wraps an existing client.
func NewRedisStorageFromClient(client *redis.Client, logger *slog.Logger) *RedisStorage {
	return &RedisStorage{
		client: client,
		logger: logger,
		ttl:    DefaultRunTTL,
	}
}

// WithTTL overrides how long saved runs live.
func (r *RedisStorage) WithTTL(ttl time.Duration) *RedisStorage {
	if ttl > 0 {
		r.ttl = ttl
	}
	return r
}

// Client exposes the underlying connection so telemetry can share it.
func (r *RedisStorage) Client() *redis.Client {
	return r.client
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func runKey(id uuid.UUID) string {
	return "run:" + id.String()
}

func blobKey(key string) string {
	return "blob:" + key
}

// Run operations

func (r *RedisStorage) SaveRun(ctx context.Context, id uuid.UUID, gs *state.GameState) error {
	if gs == nil {
		return errors.New("run state cannot be nil")
	}
	data, err := json.Marshal(gs)
	if err != nil {
		r.logger.Error("Failed to marshal run", "run_id", id, "error", err)
		return fmt.Errorf("failed to marshal run: %w", err)
	}
	if err := r.client.Set(ctx, runKey(id), data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save run", "run_id", id, "error", err)
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadRun(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	data, err := r.client.Get(ctx, runKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Run not found", "run_id", id)
			return nil, nil
		}
		r.logger.Error("Failed to load run", "run_id", id, "error", err)
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	var gs state.GameState
	if err := json.Unmarshal(data, &gs); err != nil {
		r.logger.Error("Failed to unmarshal run", "run_id", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &gs, nil
}

func (r *RedisStorage) DeleteRun(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, runKey(id)).Err(); err != nil {
		r.logger.Error("Failed to delete run", "run_id", id, "error", err)
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}

// Blob operations

func (r *RedisStorage) SaveBlob(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, blobKey(key), data, 0).Err(); err != nil {
		r.logger.Error("Failed to save blob", "key", key, "error", err)
		return fmt.Errorf("failed to save blob %s: %w", key, err)
	}
	return nil
}

func (r *RedisStorage) LoadBlob(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, blobKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		r.logger.Error("Failed to load blob", "key", key, "error", err)
		return nil, fmt.Errorf("failed to load blob %s: %w", key, err)
	}
	return data, nil
}
