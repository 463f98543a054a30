package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/statuskit/lspstatus/internal/diagnostics"
	"github.com/statuskit/lspstatus/internal/metrics"
	"github.com/statuskit/lspstatus/internal/progress"
	"github.com/statuskit/lspstatus/internal/store"
)

const (
	defaultEventsLimit = 50
	maxEventsLimit     = 500
	archiveTimeout     = 3 * time.Second
)

type registerWorkerRequest struct {
	Name string `json:"name"`
	View string `json:"view"`
}

type eventRequest struct {
	Token      string `json:"token"`
	Kind       string `json:"kind"`
	Percentage *int   `json:"percentage,omitempty"`
}

type diagnosticsRequest struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
	Hints    int `json:"hints"`
}

func (s *Server) registerWorker(w http.ResponseWriter, r *http.Request) {
	var req registerWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Name == "" || req.View == "" {
		s.writeError(w, http.StatusBadRequest, "name and view are required")
		return
	}
	worker := s.registry.Register(req.Name, req.View, s.clock.Now())
	metrics.IncActiveWorkers()
	s.logger.Info("worker registered",
		zap.String("worker", worker.ID),
		zap.String("name", worker.Name),
		zap.String("view", worker.View),
	)
	s.writeJSON(w, http.StatusCreated, map[string]string{
		"worker_id": worker.ID,
		"name":      worker.Name,
		"view":      worker.View,
	})
}

func (s *Server) detachWorker(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "worker_id")
	worker, ok := s.registry.Detach(workerID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "worker not found")
		return
	}
	s.tracker.DetachWorker(workerID)
	metrics.DecActiveWorkers()
	s.logger.Info("worker detached",
		zap.String("worker", worker.ID),
		zap.String("name", worker.Name),
	)
	s.writeJSON(w, http.StatusOK, map[string]string{"worker_id": worker.ID})
}

func (s *Server) ingestEvent(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "worker_id")
	if _, ok := s.registry.Get(workerID); !ok {
		s.writeError(w, http.StatusNotFound, "worker not found")
		return
	}
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	evt := progress.Event{
		Worker:     workerID,
		Token:      req.Token,
		Kind:       progress.ParseKind(req.Kind),
		Percentage: req.Percentage,
		TS:         s.clock.Now(),
	}
	if err := evt.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.tracker.Apply(evt)
	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) getWorkerState(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "worker_id")
	if _, ok := s.registry.Get(workerID); !ok {
		s.writeError(w, http.StatusNotFound, "worker not found")
		return
	}
	state := s.tracker.WorkerState(workerID)
	payload := map[string]any{"worker_id": workerID, "busy": state.Busy}
	if state.Percentage != nil {
		payload["percentage"] = *state.Percentage
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) listWorkerEvents(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.writeError(w, http.StatusServiceUnavailable, "event archive unavailable")
		return
	}
	workerID := chi.URLParam(r, "worker_id")
	limit, offset, err := parseLimitOffset(r, defaultEventsLimit, maxEventsLimit)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), archiveTimeout)
	defer cancel()

	records, err := s.archive.ListWorkerEvents(ctx, workerID, limit, offset)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "worker not found")
			return
		}
		s.logger.Error("list worker events failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"events": toEventDTOs(records)})
}

func (s *Server) setDiagnostics(w http.ResponseWriter, r *http.Request) {
	viewID := chi.URLParam(r, "view_id")
	var req diagnosticsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Errors < 0 || req.Warnings < 0 || req.Info < 0 || req.Hints < 0 {
		s.writeError(w, http.StatusBadRequest, "counts must be non-negative")
		return
	}
	s.diagSrc.SetCounts(viewID, [diagnostics.SeverityCount]int{
		req.Errors, req.Warnings, req.Info, req.Hints,
	})
	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) getViewProgress(w http.ResponseWriter, r *http.Request) {
	viewID := chi.URLParam(r, "view_id")
	s.writeJSON(w, http.StatusOK, map[string]string{
		"view": viewID,
		"text": s.tracker.QueryProgress(viewID, s.theme),
	})
}

func (s *Server) getViewState(w http.ResponseWriter, r *http.Request) {
	viewID := chi.URLParam(r, "view_id")
	s.writeJSON(w, http.StatusOK, map[string]string{
		"view": viewID,
		"text": s.tracker.QueryState(viewID, s.theme),
	})
}

func (s *Server) getViewDiagnostics(w http.ResponseWriter, r *http.Request) {
	viewID := chi.URLParam(r, "view_id")
	s.writeJSON(w, http.StatusOK, map[string]string{
		"view": viewID,
		"text": s.tracker.QueryDiagnostics(viewID),
	})
}

// streamUpdates serves GET /v1/updates as a server-sent event stream. One
// "update" event is written per debounced notification; clients re-query the
// statusline endpoints when it arrives.
func (s *Server) streamUpdates(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	ch, cancel := s.broker.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ch:
			if _, err := fmt.Fprint(w, "event: update\ndata: {}\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func parseLimitOffset(r *http.Request, def, maxLimit int) (int, int, error) {
	q := r.URL.Query()
	limit := def
	if limStr := q.Get("limit"); limStr != "" {
		val, err := strconv.Atoi(limStr)
		if err != nil || val <= 0 {
			return 0, 0, errors.New("invalid limit")
		}
		if val > maxLimit {
			val = maxLimit
		}
		limit = val
	}
	offset := 0
	if offStr := q.Get("offset"); offStr != "" {
		val, err := strconv.Atoi(offStr)
		if err != nil || val < 0 {
			return 0, 0, errors.New("invalid offset")
		}
		offset = val
	}
	return limit, offset, nil
}

func toEventDTOs(in []store.EventRecord) []eventDTO {
	out := make([]eventDTO, 0, len(in))
	for _, rec := range in {
		out = append(out, eventDTO{
			ID:         rec.ID.String(),
			WorkerID:   rec.WorkerID,
			WorkerName: rec.WorkerName,
			Token:      rec.Token,
			Kind:       rec.Kind,
			Percentage: rec.Percentage,
			ObservedAt: rec.ObservedAt,
		})
	}
	return out
}

type eventDTO struct {
	ID         string    `json:"id"`
	WorkerID   string    `json:"worker_id"`
	WorkerName string    `json:"worker_name"`
	Token      string    `json:"token"`
	Kind       string    `json:"kind"`
	Percentage *int      `json:"percentage,omitempty"`
	ObservedAt time.Time `json:"observed_at"`
}
