// Package registry tracks the workers attached to each view. It backs the
// active-workers capability the statusline queries aggregate over.
package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/statuskit/lspstatus/internal/tracker"
)

// Worker is one registered language server.
type Worker struct {
	// ID is the server-assigned identifier handed back at registration.
	ID string
	// Name is the caller-visible display name (e.g. "gopls").
	Name string
	// View is the consumer-side grouping the worker is attached to.
	View string
	// AttachedAt records registration time.
	AttachedAt time.Time
}

// Registry is an in-memory worker directory safe for concurrent use.
// Listings preserve attachment order per view.
type Registry struct {
	mu      sync.RWMutex
	workers map[string]Worker
	byView  map[string][]string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		workers: make(map[string]Worker),
		byView:  make(map[string][]string),
	}
}

// Register attaches a named worker to a view and returns its assigned record.
// A worker that reconnects registers again and receives a fresh ID; the old
// ID's tokens are expected to be cleared via Detach.
func (r *Registry) Register(name, view string, now time.Time) Worker {
	w := Worker{
		ID:         uuid.NewString(),
		Name:       name,
		View:       view,
		AttachedAt: now,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workers[w.ID] = w
	r.byView[view] = append(r.byView[view], w.ID)
	return w
}

// Detach removes the worker and reports the removed record, if any.
func (r *Registry) Detach(id string) (Worker, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workers[id]
	if !ok {
		return Worker{}, false
	}
	delete(r.workers, id)
	ids := r.byView[w.View]
	for i, candidate := range ids {
		if candidate == id {
			r.byView[w.View] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(r.byView[w.View]) == 0 {
		delete(r.byView, w.View)
	}
	return w, true
}

// Get looks up one worker by ID.
func (r *Registry) Get(id string) (Worker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.workers[id]
	return w, ok
}

// WorkerName returns the display name for a worker ID, or "" when unknown.
func (r *Registry) WorkerName(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.workers[id].Name
}

// ActiveWorkers lists the workers attached to a view in attachment order.
// It implements tracker.Directory.
func (r *Registry) ActiveWorkers(viewID string) []tracker.WorkerInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byView[viewID]
	out := make([]tracker.WorkerInfo, 0, len(ids))
	for _, id := range ids {
		w := r.workers[id]
		out = append(out, tracker.WorkerInfo{ID: w.ID, Name: w.Name})
	}
	return out
}
