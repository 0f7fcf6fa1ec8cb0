// Package queue is the Redis-backed list of actions waiting for a worker.
package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jwebster45206/ether-engine/pkg/queue"
	"github.com/redis/go-redis/v9"
)

// DefaultKey is the Redis list every API and worker process shares.
const DefaultKey = "action-queue"

// ActionQueue is a FIFO of queued actions across all runs.
type ActionQueue struct {
	rdb *redis.Client
	key string
}

func NewActionQueue(rdb *redis.Client) *ActionQueue {
	return &ActionQueue{rdb: rdb, key: DefaultKey}
}

// WithKey places the queue under a different list key.
func (q *ActionQueue) WithKey(key string) *ActionQueue {
	q.key = key
	return q
}

// Enqueue adds req to the back of the queue.
func (q *ActionQueue) Enqueue(ctx context.Context, req *queue.Request) error {
	data, err := req.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize request: %w", err)
	}
	if err := q.rdb.RPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue request: %w", err)
	}
	return nil
}

// Dequeue removes and returns the next request.
// Returns nil if queue is empty
func (q *ActionQueue) Dequeue(ctx context.Context) (*queue.Request, error) {
	result, err := q.rdb.LPop(ctx, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue request: %w", err)
	}
	req, err := queue.FromJSON([]byte(result))
	if err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return req, nil
}

// BlockingDequeue waits up to timeout for a request. It returns nil, nil when
// the wait times out.
func (q *ActionQueue) BlockingDequeue(ctx context.Context, timeout time.Duration) (*queue.Request, error) {
	result, err := q.rdb.BLPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue request: %w", err)
	}

	// BLPop returns [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BLPop result: %v", result)
	}
	req, err := queue.FromJSON([]byte(result[1]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return req, nil
}

// Depth returns the number of queued requests.
func (q *ActionQueue) Depth(ctx context.Context) (int, error) {
	count, err := q.rdb.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get request queue depth: %w", err)
	}
	return int(count), nil
}
