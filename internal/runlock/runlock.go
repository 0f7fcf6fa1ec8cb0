// Package runlock serialises writers of a single run, either within one
// process or across every API and worker process sharing a Redis.
package runlock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker hands out per-run locks. release must be called exactly once.
type Locker interface {
	// Lock blocks until the run is held or ctx is done.
	Lock(ctx context.Context, id uuid.UUID) (release func(), err error)
	// TryLock returns ok=false without waiting when another holder has the run.
	TryLock(ctx context.Context, id uuid.UUID) (release func(), ok bool, err error)
}

// Local is an in-process Locker.
type Local struct {
	locks sync.Map
}

var _ Locker = (*Local)(nil)

func NewLocal() *Local {
	return &Local{}
}

func (l *Local) mutex(id uuid.UUID) *sync.Mutex {
	v, _ := l.locks.LoadOrStore(id, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (l *Local) Lock(ctx context.Context, id uuid.UUID) (func(), error) {
	mu := l.mutex(id)
	mu.Lock()
	return mu.Unlock, nil
}

func (l *Local) TryLock(ctx context.Context, id uuid.UUID) (func(), bool, error) {
	mu := l.mutex(id)
	if !mu.TryLock() {
		return nil, false, nil
	}
	return mu.Unlock, true, nil
}

// DefaultTTL bounds how long a crashed holder can keep a run locked.
const DefaultTTL = 30 * time.Second

// retryDelay is how often Lock polls a contended Redis lock.
const retryDelay = 25 * time.Millisecond

// releaseScript only deletes the key if we still own it.
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// Redis is a Locker shared by every process on the same Redis.
type Redis struct {
	client *redis.Client
	owner  string
	ttl    time.Duration
}

var _ Locker = (*Redis)(nil)

// NewRedis creates a locker whose holds are tagged with owner.
func NewRedis(client *redis.Client, owner string) *Redis {
	if owner == "" {
		owner = "holder-" + uuid.NewString()[:8]
	}
	return &Redis{client: client, owner: owner, ttl: DefaultTTL}
}

func lockKey(id uuid.UUID) string {
	return "run-lock:" + id.String()
}

func (r *Redis) TryLock(ctx context.Context, id uuid.UUID) (func(), bool, error) {
	// each hold gets its own token so a late release never frees a newer hold
	token := r.owner + ":" + uuid.NewString()
	ok, err := r.client.SetNX(ctx, lockKey(id), token, r.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, r.client, []string{lockKey(id)}, token).Err()
	}, true, nil
}

func (r *Redis) Lock(ctx context.Context, id uuid.UUID) (func(), error) {
	for {
		release, ok, err := r.TryLock(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			return release, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled while waiting for run lock: %w", ctx.Err())
		case <-time.After(retryDelay):
		}
	}
}
