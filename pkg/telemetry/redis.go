package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const publishTimeout = 2 * time.Second

// Channel returns the pub/sub channel a run's events are published on.
func Channel(runID string) string {
	return fmt.Sprintf("run-events:%s", runID)
}

// RedisRecorder publishes events to Redis pub/sub. Failures are logged and
// never surface to the engine.
type RedisRecorder struct {
	client *redis.Client
	logger *slog.Logger
	runID  string
}

// NewRedisRecorder creates a recorder publishing on the run's channel.
func NewRedisRecorder(client *redis.Client, runID string, logger *slog.Logger) *RedisRecorder {
	return &RedisRecorder{
		client: client,
		logger: logger,
		runID:  runID,
	}
}

func (r *RedisRecorder) EventStarted(eventID string) {
	r.publish(eventStarted(r.runID, eventID))
}

func (r *RedisRecorder) EventResolved(eventID, choiceID, outcome string) {
	r.publish(eventResolved(r.runID, eventID, choiceID, outcome))
}

func (r *RedisRecorder) DungeonCompleted(nodeID string, timeElapsed int) {
	r.publish(dungeonCompleted(r.runID, nodeID, timeElapsed))
}

// RequestCompleted reports a queued action that a worker applied.
func (r *RedisRecorder) RequestCompleted(requestID, actionType string, changed bool, phase string) {
	r.publish(requestCompleted(r.runID, requestID, actionType, changed, phase))
}

// RequestFailed reports a queued action a worker could not apply.
func (r *RedisRecorder) RequestFailed(requestID, reason string) {
	r.publish(requestFailed(r.runID, requestID, reason))
}

func (r *RedisRecorder) publish(event Event) {
	channel := Channel(r.runID)

	data, err := json.Marshal(event)
	if err != nil {
		r.logger.Error("Failed to marshal telemetry event", "error", err, "event_type", event.Type)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := r.client.Publish(ctx, channel, data).Err(); err != nil {
		r.logger.Error("Failed to publish telemetry event", "error", err, "channel", channel)
		return
	}

	r.logger.Debug("Telemetry event published",
		"channel", channel,
		"event_type", event.Type,
	)
}
