package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jwebster45206/ether-engine/pkg/state"
)

// BlobStore persists opaque named blobs such as the meta-progress record.
// LoadBlob returns nil, nil when the key does not exist.
type BlobStore interface {
	SaveBlob(ctx context.Context, key string, data []byte) error
	LoadBlob(ctx context.Context, key string) ([]byte, error)
}

// Storage defines a unified interface for run persistence.
type Storage interface {
	BlobStore

	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Run operations. LoadRun returns nil, nil when the run does not exist.
	SaveRun(ctx context.Context, id uuid.UUID, gs *state.GameState) error
	LoadRun(ctx context.Context, id uuid.UUID) (*state.GameState, error)
	DeleteRun(ctx context.Context, id uuid.UUID) error
}
