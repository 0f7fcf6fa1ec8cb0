// Package queue holds the wire model for actions queued for asynchronous
// application to a run.
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/ether-engine/pkg/state"
)

// Request is one action waiting for a worker.
type Request struct {
	RequestID  string         `json:"request_id"`
	RunID      uuid.UUID      `json:"run_id"`
	Action     state.Envelope `json:"action"`
	Attempts   int            `json:"attempts,omitempty"`
	EnqueuedAt time.Time      `json:"enqueued_at"`
}

// NewRequest wraps action for run id.
func NewRequest(runID uuid.UUID, action state.Action) (*Request, error) {
	data, err := state.EncodeAction(action)
	if err != nil {
		return nil, err
	}
	var env state.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse encoded action: %w", err)
	}
	return &Request{
		RequestID:  uuid.NewString(),
		RunID:      runID,
		Action:     env,
		EnqueuedAt: time.Now().UTC(),
	}, nil
}

// ToJSON converts the request to JSON bytes for Redis
func (r *Request) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// FromJSON parses a request from JSON bytes
func FromJSON(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	if req.RunID == uuid.Nil {
		return nil, fmt.Errorf("request %q has no run id", req.RequestID)
	}
	return &req, nil
}
