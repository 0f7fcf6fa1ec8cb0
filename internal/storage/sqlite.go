package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/ether-engine/pkg/state"
	"github.com/jwebster45206/ether-engine/pkg/storage"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS blobs (
	key        TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	updated_at INTEGER NOT NULL
);`

// SQLiteStorage implements the Storage interface on a single SQLite file.
// Runs do not expire.
type SQLiteStorage struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure SQLiteStorage implements Storage interface
var _ storage.Storage = (*SQLiteStorage)(nil)

// NewSQLiteStorage opens (creating if needed) the database at path and
// applies the schema.
func NewSQLiteStorage(path string, logger *slog.Logger) (*SQLiteStorage, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, errors.New("storage path is required")
	}
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// a single writer avoids SQLITE_BUSY under concurrent requests
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	logger.Info("SQLite storage opened", "path", cleanPath)
	return &SQLiteStorage{db: db, logger: logger}, nil
}

func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping failed: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close SQLite database", "error", err)
		return err
	}
	return nil
}

func (s *SQLiteStorage) SaveRun(ctx context.Context, id uuid.UUID, gs *state.GameState) error {
	if gs == nil {
		return errors.New("run state cannot be nil")
	}
	data, err := json.Marshal(gs)
	if err != nil {
		s.logger.Error("Failed to marshal run", "run_id", id, "error", err)
		return fmt.Errorf("failed to marshal run: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		id.String(), string(data), time.Now().Unix())
	if err != nil {
		s.logger.Error("Failed to save run", "run_id", id, "error", err)
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) LoadRun(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM runs WHERE id = ?`, id.String()).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("Failed to load run", "run_id", id, "error", err)
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	var gs state.GameState
	if err := json.Unmarshal([]byte(data), &gs); err != nil {
		s.logger.Error("Failed to unmarshal run", "run_id", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &gs, nil
}

func (s *SQLiteStorage) DeleteRun(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id.String()); err != nil {
		s.logger.Error("Failed to delete run", "run_id", id, "error", err)
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) SaveBlob(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blobs (key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, data, time.Now().Unix())
	if err != nil {
		s.logger.Error("Failed to save blob", "key", key, "error", err)
		return fmt.Errorf("failed to save blob %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStorage) LoadBlob(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM blobs WHERE key = ?`, key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("Failed to load blob", "key", key, "error", err)
		return nil, fmt.Errorf("failed to load blob %s: %w", key, err)
	}
	return data, nil
}
