// Package worker applies queued actions to runs. Any number of workers may
// share one queue; the per-run lock keeps each run's actions serial.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/ether-engine/internal/queue"
	"github.com/jwebster45206/ether-engine/internal/runner"
	queuePkg "github.com/jwebster45206/ether-engine/pkg/queue"
	"github.com/jwebster45206/ether-engine/pkg/state"
	"github.com/jwebster45206/ether-engine/pkg/telemetry"
	"github.com/redis/go-redis/v9"
)

const (
	workerTimeout = 5 * time.Second

	// MaxAttempts bounds how often a request is put back after a
	// storage failure or lock contention.
	MaxAttempts = 20
)

// Worker processes requests from the action queue
type Worker struct {
	id          string
	queue       *queue.ActionQueue
	runner      *runner.Runner
	redisClient *redis.Client
	log         *slog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a new worker instance
func New(q *queue.ActionQueue, r *runner.Runner, redisClient *redis.Client, log *slog.Logger, workerID string) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	if workerID == "" {
		workerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}

	return &Worker{
		id:          workerID,
		queue:       q,
		runner:      r,
		redisClient: redisClient,
		log:         log.With("worker_id", workerID),
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (w *Worker) ID() string {
	return w.id
}

// Start processes requests until Stop is called.
func (w *Worker) Start() error {
	w.log.Info("Worker starting")

	for {
		select {
		case <-w.ctx.Done():
			w.log.Info("Worker shutting down")
			return nil
		default:
			if err := w.processNextRequest(); err != nil {
				if w.ctx.Err() != nil {
					continue
				}
				w.log.Error("Error processing request", "error", err)
				// back off, then keep going
				select {
				case <-w.ctx.Done():
				case <-time.After(time.Second):
				}
			}
		}
	}
}

// Stop gracefully shuts down the worker
func (w *Worker) Stop() {
	w.log.Info("Worker stop requested")
	w.cancel()
}

// processNextRequest waits for one request and applies it. A nil error with
// nothing done means the wait timed out.
func (w *Worker) processNextRequest() error {
	req, err := w.queue.BlockingDequeue(w.ctx, workerTimeout)
	if err != nil {
		return fmt.Errorf("failed to dequeue request: %w", err)
	}
	if req == nil {
		return nil
	}
	return w.processRequest(req)
}

func (w *Worker) processRequest(req *queuePkg.Request) error {
	log := w.log.With("request_id", req.RequestID, "run_id", req.RunID.String(), "action", req.Action.Type)
	log.Info("Received request from queue", "attempts", req.Attempts)

	action, err := req.Action.Action()
	if err != nil {
		log.Warn("Dropping undecodable request", "error", err)
		w.notifier(req.RunID).RequestFailed(req.RequestID, err.Error())
		return nil
	}

	start := time.Now()
	res, locked, err := w.runner.TryApply(w.ctx, req.RunID, action)
	switch {
	case errors.Is(err, runner.ErrNotFound):
		log.Warn("Dropping request for missing run")
		w.notifier(req.RunID).RequestFailed(req.RequestID, err.Error())
		return nil
	case err != nil:
		w.retry(log, req, err.Error())
		return fmt.Errorf("failed to apply action: %w", err)
	case !locked:
		// another writer holds the run; put it at the back and move on
		log.Info("Run already locked, re-queueing request")
		w.retry(log, req, "run locked")
		return nil
	}

	log.Info("Request processed successfully",
		"changed", res.Changed,
		"phase", state.Phase(res.State),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	w.notifier(req.RunID).RequestCompleted(req.RequestID, string(req.Action.Type), res.Changed, state.Phase(res.State))
	return nil
}

func (w *Worker) retry(log *slog.Logger, req *queuePkg.Request, reason string) {
	req.Attempts++
	if req.Attempts >= MaxAttempts {
		log.Error("Giving up on request", "attempts", req.Attempts, "reason", reason)
		w.notifier(req.RunID).RequestFailed(req.RequestID, reason)
		return
	}
	// the worker may be stopping, so use a fresh context
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := w.queue.Enqueue(ctx, req); err != nil {
		log.Error("Failed to re-queue request", "error", err)
	}
}

func (w *Worker) notifier(runID uuid.UUID) *telemetry.RedisRecorder {
	return telemetry.NewRedisRecorder(w.redisClient, runID.String(), w.log)
}
