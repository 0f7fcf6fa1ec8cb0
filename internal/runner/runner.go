// Package runner applies actions to stored runs. The HTTP handlers and the
// queue worker share it so both paths load, reduce, save and record meta
// progress the same way.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/ether-engine/internal/runlock"
	"github.com/jwebster45206/ether-engine/pkg/meta"
	"github.com/jwebster45206/ether-engine/pkg/state"
	"github.com/jwebster45206/ether-engine/pkg/storage"
)

// ErrNotFound is returned when the run does not exist in storage.
var ErrNotFound = errors.New("run not found")

// EngineFactory builds the engine that applies one action to a run. step is
// the run's accepted-action count, zero when starting a run.
type EngineFactory func(runID uuid.UUID, step int) *state.Engine

// Result is the outcome of one applied action.
type Result struct {
	State   *state.GameState
	Changed bool
	// Ended is true only for the action that finished the run.
	Ended bool
}

type Runner struct {
	storage   storage.Storage
	newEngine EngineFactory
	locker    runlock.Locker
	logger    *slog.Logger

	metaMu sync.Mutex
}

// New returns a Runner that serialises writers with an in-process lock.
func New(storage storage.Storage, newEngine EngineFactory, logger *slog.Logger) *Runner {
	return &Runner{
		storage:   storage,
		newEngine: newEngine,
		locker:    runlock.NewLocal(),
		logger:    logger,
	}
}

// WithLocker swaps the per-run lock, e.g. for one shared through Redis.
func (r *Runner) WithLocker(l runlock.Locker) *Runner {
	r.locker = l
	return r
}

func (r *Runner) Storage() storage.Storage {
	return r.storage
}

// Create starts and persists a new run.
func (r *Runner) Create(ctx context.Context) (uuid.UUID, *state.GameState, error) {
	id := uuid.New()
	gs := r.newEngine(id, 0).NewRun()
	if err := r.storage.SaveRun(ctx, id, gs); err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to save new run: %w", err)
	}
	r.UpdateMeta(ctx, func(p meta.Progress) meta.Progress { return p.RunStarted() })
	r.logger.Info("Run started", "run_id", id)
	return id, gs, nil
}

// Load reads a run, returning ErrNotFound when it is missing.
func (r *Runner) Load(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	gs, err := r.storage.LoadRun(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	if gs == nil {
		return nil, ErrNotFound
	}
	return gs, nil
}

func (r *Runner) Delete(ctx context.Context, id uuid.UUID) error {
	release, err := r.locker.Lock(ctx, id)
	if err != nil {
		return err
	}
	defer release()
	if err := r.storage.DeleteRun(ctx, id); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}

// Apply waits for the run's lock and then applies action.
func (r *Runner) Apply(ctx context.Context, id uuid.UUID, action state.Action) (Result, error) {
	release, err := r.locker.Lock(ctx, id)
	if err != nil {
		return Result{}, err
	}
	defer release()
	return r.apply(ctx, id, action)
}

// TryApply applies action only if the run's lock is free right now. ok is
// false when another writer holds it.
func (r *Runner) TryApply(ctx context.Context, id uuid.UUID, action state.Action) (res Result, ok bool, err error) {
	release, ok, err := r.locker.TryLock(ctx, id)
	if err != nil || !ok {
		return Result{}, ok, err
	}
	defer release()
	res, err = r.apply(ctx, id, action)
	return res, true, err
}

func (r *Runner) apply(ctx context.Context, id uuid.UUID, action state.Action) (Result, error) {
	gs, err := r.Load(ctx, id)
	if err != nil {
		return Result{}, err
	}

	next, changed := r.newEngine(id, gs.Step).Reduce(gs, action)
	res := Result{State: next, Changed: changed}
	if !changed {
		return res, nil
	}
	if err := r.storage.SaveRun(ctx, id, next); err != nil {
		return Result{}, fmt.Errorf("failed to save run: %w", err)
	}
	if !gs.RunOver && next.RunOver {
		res.Ended = true
		r.logger.Info("Run ended", "run_id", id, "battles_won", next.Stats.BattlesWon, "nodes_visited", next.Stats.NodesVisited)
		r.UpdateMeta(ctx, func(p meta.Progress) meta.Progress { return p.RecordRun(next) })
	}
	return res, nil
}

// UpdateMeta applies fn to the stored meta record. Failures are logged and
// never surface to the caller.
func (r *Runner) UpdateMeta(ctx context.Context, fn func(meta.Progress) meta.Progress) {
	r.metaMu.Lock()
	defer r.metaMu.Unlock()
	p := fn(meta.Load(ctx, r.storage, r.logger))
	if err := meta.Save(ctx, r.storage, p); err != nil {
		r.logger.Warn("Failed to save meta progress", "error", err)
	}
}
