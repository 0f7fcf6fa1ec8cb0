// Package telemetry receives fire-and-forget notifications from the run
// engine. Recorders are pure observers: the engine never inspects what they
// do with an event.
package telemetry

import "time"

// EventType names a recorded occurrence.
type EventType string

const (
	EventTypeEventStarted     EventType = "event.started"
	EventTypeEventResolved    EventType = "event.resolved"
	EventTypeDungeonCompleted EventType = "dungeon.completed"

	// Outcomes of actions applied by the queue worker.
	EventTypeRequestCompleted EventType = "request.completed"
	EventTypeRequestFailed    EventType = "request.failed"
)

// Event is the serialised form shared by every recorder.
type Event struct {
	Type      EventType      `json:"type"`
	RunID     string         `json:"run_id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// Recorder is notified at event start, event resolution and dungeon
// completion.
type Recorder interface {
	EventStarted(eventID string)
	EventResolved(eventID, choiceID, outcome string)
	DungeonCompleted(nodeID string, timeElapsed int)
}

// Nop discards everything.
type Nop struct{}

func (Nop) EventStarted(string)                  {}
func (Nop) EventResolved(string, string, string) {}
func (Nop) DungeonCompleted(string, int)         {}

func eventStarted(runID, eventID string) Event {
	return Event{
		Type:      EventTypeEventStarted,
		RunID:     runID,
		Timestamp: time.Now().UTC(),
		Data:      map[string]any{"event_id": eventID},
	}
}

func eventResolved(runID, eventID, choiceID, outcome string) Event {
	return Event{
		Type:      EventTypeEventResolved,
		RunID:     runID,
		Timestamp: time.Now().UTC(),
		Data: map[string]any{
			"event_id":  eventID,
			"choice_id": choiceID,
			"outcome":   outcome,
		},
	}
}

func dungeonCompleted(runID, nodeID string, timeElapsed int) Event {
	return Event{
		Type:      EventTypeDungeonCompleted,
		RunID:     runID,
		Timestamp: time.Now().UTC(),
		Data: map[string]any{
			"node_id":      nodeID,
			"time_elapsed": timeElapsed,
		},
	}
}

func requestCompleted(runID, requestID, actionType string, changed bool, phase string) Event {
	return Event{
		Type:      EventTypeRequestCompleted,
		RunID:     runID,
		Timestamp: time.Now().UTC(),
		Data: map[string]any{
			"request_id": requestID,
			"action":     actionType,
			"changed":    changed,
			"phase":      phase,
		},
	}
}

func requestFailed(runID, requestID, reason string) Event {
	return Event{
		Type:      EventTypeRequestFailed,
		RunID:     runID,
		Timestamp: time.Now().UTC(),
		Data: map[string]any{
			"request_id": requestID,
			"error":      reason,
		},
	}
}
