package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/ether-engine/internal/logger"
	"github.com/jwebster45206/ether-engine/internal/runner"
	"github.com/jwebster45206/ether-engine/pkg/mapgraph"
	"github.com/jwebster45206/ether-engine/pkg/meta"
	"github.com/jwebster45206/ether-engine/pkg/queue"
	"github.com/jwebster45206/ether-engine/pkg/state"
	"github.com/jwebster45206/ether-engine/pkg/storage"
)

// maxActionBytes caps an action request body.
const maxActionBytes = 64 << 10

// RunResponse is returned by every run endpoint.
type RunResponse struct {
	ID      uuid.UUID        `json:"id"`
	Phase   string           `json:"phase"`
	Changed bool             `json:"changed"`
	State   *state.GameState `json:"state"`
}

// QueuedResponse is returned when an action is accepted for a worker.
type QueuedResponse struct {
	ID        uuid.UUID `json:"id"`
	RequestID string    `json:"requestId"`
}

// Enqueuer accepts actions for asynchronous application.
type Enqueuer interface {
	Enqueue(ctx context.Context, req *queue.Request) error
}

type RunHandler struct {
	runner *runner.Runner
	queue  Enqueuer
	logger *slog.Logger
}

func NewRunHandler(r *runner.Runner, logger *slog.Logger) *RunHandler {
	return &RunHandler{
		runner: r,
		logger: logger,
	}
}

// WithQueue enables ?async=true on the actions endpoint.
func (h *RunHandler) WithQueue(q Enqueuer) *RunHandler {
	h.queue = q
	return h
}

// ServeHTTP handles HTTP requests for runs
// Routes:
// POST   /v1/runs               - Start a new run
// GET    /v1/runs/{id}          - Read a run
// DELETE /v1/runs/{id}          - Abandon a run
// POST   /v1/runs/{id}/actions  - Dispatch one action envelope (?async=true queues it)
// GET    /v1/runs/{id}/map.pdf  - Printable map of the run
func (h *RunHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/runs"), "/")
	if path == "" {
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
			return
		}
		h.handleCreate(w, r)
		return
	}

	idStr, sub, _ := strings.Cut(path, "/")
	runID, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.Warn("Invalid run ID", "id", idStr, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid run ID format")
		return
	}
	log := logger.WithRunID(h.logger, runID.String())

	switch {
	case sub == "" && r.Method == http.MethodGet:
		h.handleRead(w, r, runID, log)
	case sub == "" && r.Method == http.MethodDelete:
		h.handleDelete(w, r, runID, log)
	case sub == "actions" && r.Method == http.MethodPost:
		h.handleAction(w, r, runID, log)
	case sub == "map.pdf" && r.Method == http.MethodGet:
		h.handleMapPDF(w, r, runID, log)
	case sub == "" || sub == "actions" || sub == "map.pdf":
		log.Warn("Method not allowed for run endpoint", "method", r.Method, "sub", sub)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed")
	default:
		writeError(w, h.logger, http.StatusNotFound, "Unknown run endpoint")
	}
}

func (h *RunHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	id, gs, err := h.runner.Create(r.Context())
	if err != nil {
		h.logger.Error("Failed to create run", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save run")
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, RunResponse{ID: id, Phase: state.Phase(gs), Changed: true, State: gs})
}

// writeRunError maps a runner error onto a response.
func (h *RunHandler) writeRunError(w http.ResponseWriter, log *slog.Logger, err error, msg string) {
	if errors.Is(err, runner.ErrNotFound) {
		writeError(w, h.logger, http.StatusNotFound, "Run not found")
		return
	}
	log.Error(msg, "error", err)
	writeError(w, h.logger, http.StatusInternalServerError, msg)
}

func (h *RunHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID, log *slog.Logger) {
	gs, err := h.runner.Load(r.Context(), id)
	if err != nil {
		h.writeRunError(w, log, err, "Failed to load run")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, RunResponse{ID: id, Phase: state.Phase(gs), State: gs})
}

func (h *RunHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID, log *slog.Logger) {
	if err := h.runner.Delete(r.Context(), id); err != nil {
		h.writeRunError(w, log, err, "Failed to delete run")
		return
	}
	log.Info("Run deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (h *RunHandler) handleAction(w http.ResponseWriter, r *http.Request, id uuid.UUID, log *slog.Logger) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxActionBytes))
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Failed to read request body")
		return
	}
	action, err := state.DecodeAction(body)
	if err != nil {
		log.Warn("Invalid action", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	if async, _ := strconv.ParseBool(r.URL.Query().Get("async")); async {
		h.enqueueAction(w, r, id, action, log)
		return
	}

	res, err := h.runner.Apply(r.Context(), id, action)
	if err != nil {
		h.writeRunError(w, log, err, "Failed to apply action")
		return
	}
	log.Debug("Action dispatched", "action", action.Type(), "changed", res.Changed)
	writeJSON(w, h.logger, http.StatusOK, RunResponse{ID: id, Phase: state.Phase(res.State), Changed: res.Changed, State: res.State})
}

func (h *RunHandler) enqueueAction(w http.ResponseWriter, r *http.Request, id uuid.UUID, action state.Action, log *slog.Logger) {
	if h.queue == nil {
		writeError(w, h.logger, http.StatusNotImplemented, "Asynchronous actions require the redis backend")
		return
	}
	if _, err := h.runner.Load(r.Context(), id); err != nil {
		h.writeRunError(w, log, err, "Failed to load run")
		return
	}
	req, err := queue.NewRequest(id, action)
	if err != nil {
		log.Error("Failed to build queue request", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to queue action")
		return
	}
	if err := h.queue.Enqueue(r.Context(), req); err != nil {
		log.Error("Failed to enqueue action", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to queue action")
		return
	}
	log.Info("Action queued", "action", action.Type(), "request_id", req.RequestID)
	writeJSON(w, h.logger, http.StatusAccepted, QueuedResponse{ID: id, RequestID: req.RequestID})
}

func (h *RunHandler) handleMapPDF(w http.ResponseWriter, r *http.Request, id uuid.UUID, log *slog.Logger) {
	gs, err := h.runner.Load(r.Context(), id)
	if err != nil {
		h.writeRunError(w, log, err, "Failed to load run")
		return
	}
	pdf, err := mapgraph.RenderPDF(gs.Map, gs.CurrentNodeID, "Run "+id.String()[:8])
	if err != nil {
		log.Error("Failed to render map", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to render map")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="map-`+id.String()+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Error("Failed to write map", "error", err)
	}
}

// MetaHandler serves the persisted meta-progress record.
type MetaHandler struct {
	storage storage.BlobStore
	logger  *slog.Logger
}

func NewMetaHandler(storage storage.BlobStore, logger *slog.Logger) *MetaHandler {
	return &MetaHandler{storage: storage, logger: logger}
}

func (h *MetaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, meta.Load(r.Context(), h.storage, h.logger))
}
