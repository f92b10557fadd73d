package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jonwraymond/sentinel/monitor"
	"github.com/jonwraymond/sentinel/registry"
	"github.com/jonwraymond/sentinel/stats"
	"github.com/jonwraymond/sentinel/telemetry"
)

// History reads persisted check results. Nil when the service runs without
// a persistence backend.
type History interface {
	RecentResults(ctx context.Context, monitorName string, limit int) ([]monitor.Result, error)
}

// Handlers holds dependencies for the API handlers.
type Handlers struct {
	registry   *registry.Registry
	aggregator *stats.Aggregator
	history    History
	ready      func() bool
	logger     telemetry.Logger
}

// NewHandlers creates the handler set. ready reports whether the check
// engine is driving cycles; nil means always ready.
func NewHandlers(reg *registry.Registry, agg *stats.Aggregator, history History, ready func() bool, logger telemetry.Logger) *Handlers {
	if ready == nil {
		ready = func() bool { return true }
	}
	if logger == nil {
		logger = telemetry.NewNopLogger()
	}
	return &Handlers{
		registry:   reg,
		aggregator: agg,
		history:    history,
		ready:      ready,
		logger:     logger,
	}
}

// Healthz reports process liveness.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports whether the check engine is running.
func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	if !h.ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// ListMonitors returns all registered monitors.
func (h *Handlers) ListMonitors(w http.ResponseWriter, r *http.Request) {
	targets, err := h.registry.List(r.Context())
	if err != nil {
		h.internalError(w, r, "list monitors", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"monitors": targets, "count": len(targets)})
}

// CreateMonitor registers a new monitor.
func (h *Handlers) CreateMonitor(w http.ResponseWriter, r *http.Request) {
	var target monitor.Target
	if err := json.NewDecoder(r.Body).Decode(&target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.registry.Create(r.Context(), target)
	if err != nil {
		if errors.Is(err, registry.ErrAlreadyExists) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetMonitor returns one monitor by name.
func (h *Handlers) GetMonitor(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	target, err := h.registry.Get(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, target)
}

// UpdateMonitor replaces one monitor by name.
func (h *Handlers) UpdateMonitor(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var target monitor.Target
	if err := json.NewDecoder(r.Body).Decode(&target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.registry.Update(r.Context(), name, target)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteMonitor removes one monitor and its in-memory stats.
func (h *Handlers) DeleteMonitor(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.registry.Delete(r.Context(), name); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if h.aggregator != nil {
		h.aggregator.Reset(name)
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListResults returns the persisted check history for one monitor, newest
// first. The limit query parameter caps the page (default 100, max 1000).
func (h *Handlers) ListResults(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusNotImplemented, "persistence is disabled")
		return
	}

	name := chi.URLParam(r, "name")
	if _, err := h.registry.Get(r.Context(), name); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and 1000")
			return
		}
		limit = n
	}

	results, err := h.history.RecentResults(r.Context(), name, limit)
	if err != nil {
		h.internalError(w, r, "list results", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results, "count": len(results)})
}

// ListStatus returns current stats for every tracked monitor.
func (h *Handlers) ListStatus(w http.ResponseWriter, r *http.Request) {
	all := h.aggregator.All()
	writeJSON(w, http.StatusOK, map[string]any{"monitors": all, "count": len(all)})
}

// GetStatus returns current stats for one monitor. A registered monitor
// with no checks yet reports an empty stats snapshot.
func (h *Handlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if snapshot, ok := h.aggregator.Stats(name); ok {
		writeJSON(w, http.StatusOK, snapshot)
		return
	}
	if _, err := h.registry.Get(r.Context(), name); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, monitor.Stats{MonitorName: name})
}

func (h *Handlers) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Error(r.Context(), "request failed",
		telemetry.Field{Key: "op", Value: op},
		telemetry.Field{Key: "error", Value: err.Error()},
	)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
