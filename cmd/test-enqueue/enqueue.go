package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/ether-engine/internal/queue"
	"github.com/jwebster45206/ether-engine/internal/runner"
	internalstorage "github.com/jwebster45206/ether-engine/internal/storage"
	"github.com/jwebster45206/ether-engine/pkg/content"
	queuePkg "github.com/jwebster45206/ether-engine/pkg/queue"
	"github.com/jwebster45206/ether-engine/pkg/state"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const defaultRedisURL = "redis://localhost:6379"

func newRootCmd() *cobra.Command {
	var (
		redisURL string
		runID    string
	)
	cmd := &cobra.Command{
		Use:   "test-enqueue [action-json...]",
		Short: "Queue action envelopes for the worker",
		Long: `Pushes each action envelope onto the shared action queue. Without --run a
new run is created first. With no actions a single map risk change is queued.

Example:
  test-enqueue --run <id> '{"type":"selectNode","payload":{"nodeId":"battle-1"}}'`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := redis.ParseURL(redisURL)
			if err != nil {
				return fmt.Errorf("failed to parse Redis URL: %w", err)
			}
			client := redis.NewClient(opts)
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			if err := client.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("failed to connect to Redis: %w", err)
			}
			return enqueue(ctx, cmd.OutOrStdout(), client, runID, args)
		},
	}
	cmd.Flags().StringVar(&redisURL, "redis-url", defaultRedisURL, "Redis connection URL")
	cmd.Flags().StringVar(&runID, "run", "", "run id to target (default: create a new run)")
	return cmd
}

func enqueue(ctx context.Context, out io.Writer, client *redis.Client, runIDStr string, envelopes []string) error {
	var runID uuid.UUID
	if runIDStr == "" {
		id, err := createRun(ctx, client)
		if err != nil {
			return err
		}
		runID = id
		fmt.Fprintf(out, "Created run %s\n", runID)
	} else {
		id, err := uuid.Parse(runIDStr)
		if err != nil {
			return fmt.Errorf("invalid run id %q: %w", runIDStr, err)
		}
		runID = id
	}

	actions := make([]state.Action, 0, len(envelopes))
	for _, raw := range envelopes {
		a, err := state.DecodeAction([]byte(raw))
		if err != nil {
			return err
		}
		actions = append(actions, a)
	}
	if len(actions) == 0 {
		actions = append(actions, state.SetMapRisk{Value: 50})
	}

	q := queue.NewActionQueue(client)
	for _, a := range actions {
		req, err := queuePkg.NewRequest(runID, a)
		if err != nil {
			return err
		}
		if err := q.Enqueue(ctx, req); err != nil {
			return err
		}
		fmt.Fprintf(out, "Enqueued %s request %s\n", a.Type(), req.RequestID)
	}

	depth, err := q.Depth(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Queue depth: %d requests\n", depth)
	return nil
}

// createRun stores a fresh run the worker can act on.
func createRun(ctx context.Context, client *redis.Client) (uuid.UUID, error) {
	lib, err := content.Default()
	if err != nil {
		return uuid.Nil, err
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := internalstorage.NewRedisStorageFromClient(client, log)
	id, _, err := runner.New(store, runner.NewEngineFactory(lib, 0, nil, log), log).Create(ctx)
	return id, err
}
