package storage

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/ether-engine/pkg/state"
)

// MemoryStorage keeps everything in process. It backs the console, the
// "memory" storage backend and tests.
type MemoryStorage struct {
	mu        sync.RWMutex
	runs      map[uuid.UUID]*state.GameState
	blobs     map[string][]byte
	pingError error
}

// Ensure MemoryStorage implements Storage interface
var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		runs:  make(map[uuid.UUID]*state.GameState),
		blobs: make(map[string][]byte),
	}
}

// SetPingError configures Ping to fail with err. Pass nil to recover.
func (m *MemoryStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MemoryStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MemoryStorage) Close() error {
	return nil
}

// SaveRun stores a deep copy so later changes by the caller are not visible.
func (m *MemoryStorage) SaveRun(ctx context.Context, id uuid.UUID, gs *state.GameState) error {
	if gs == nil {
		return errors.New("run state cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[id] = gs.Clone()
	return nil
}

func (m *MemoryStorage) LoadRun(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	gs, ok := m.runs[id]
	if !ok {
		return nil, nil
	}
	return gs.Clone(), nil
}

func (m *MemoryStorage) DeleteRun(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.runs, id)
	return nil
}

func (m *MemoryStorage) SaveBlob(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = slices.Clone(data)
	return nil
}

func (m *MemoryStorage) LoadBlob(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(b), nil
}
