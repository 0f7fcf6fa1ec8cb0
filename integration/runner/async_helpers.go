package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/ether-engine/internal/handlers"
	"github.com/jwebster45206/ether-engine/pkg/state"
)

const (
	// PollInterval is how often to check a run for updates
	PollInterval = 250 * time.Millisecond
	// ActionTimeout is max time to wait for a worker to apply a queued action
	ActionTimeout = 30 * time.Second
)

// CreateRun starts a run via POST /v1/runs.
func CreateRun(ctx context.Context, client *http.Client, baseURL string) (handlers.RunResponse, error) {
	var created handlers.RunResponse
	err := doJSON(ctx, client, http.MethodPost, baseURL+"/v1/runs", nil, http.StatusCreated, &created)
	return created, err
}

// PostAction dispatches an action envelope and returns the run after it.
func PostAction(ctx context.Context, client *http.Client, baseURL string, runID uuid.UUID, action json.RawMessage) (handlers.RunResponse, error) {
	var resp handlers.RunResponse
	url := fmt.Sprintf("%s/v1/runs/%s/actions", baseURL, runID)
	err := doJSON(ctx, client, http.MethodPost, url, action, http.StatusOK, &resp)
	return resp, err
}

// PostActionAsync queues an action envelope and returns its request id.
func PostActionAsync(ctx context.Context, client *http.Client, baseURL string, runID uuid.UUID, action json.RawMessage) (string, error) {
	var resp handlers.QueuedResponse
	url := fmt.Sprintf("%s/v1/runs/%s/actions?async=true", baseURL, runID)
	if err := doJSON(ctx, client, http.MethodPost, url, action, http.StatusAccepted, &resp); err != nil {
		return "", err
	}
	return resp.RequestID, nil
}

// GetRun retrieves the current run
func GetRun(ctx context.Context, client *http.Client, baseURL string, runID uuid.UUID) (*state.GameState, error) {
	var resp handlers.RunResponse
	url := fmt.Sprintf("%s/v1/runs/%s", baseURL, runID)
	if err := doJSON(ctx, client, http.MethodGet, url, nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return resp.State, nil
}

// PollForChange polls the run until it differs from before.
func PollForChange(ctx context.Context, client *http.Client, baseURL string, runID uuid.UUID, before *state.GameState, timeout time.Duration) (*state.GameState, error) {
	deadline := time.After(timeout)
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline:
			return nil, fmt.Errorf("timeout waiting for run update (waited %v)", timeout)
		case <-ticker.C:
			gs, err := GetRun(ctx, client, baseURL, runID)
			if err != nil {
				// keep polling through transient errors
				continue
			}
			if !reflect.DeepEqual(gs, before) {
				return gs, nil
			}
		}
	}
}

func doJSON(ctx context.Context, client *http.Client, method, url string, body []byte, wantStatus int, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send %s %s: %w", method, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s returned %d (expected %d): %s", method, url, resp.StatusCode, wantStatus, string(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
