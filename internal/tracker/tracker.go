// Package tracker is the service facade over the progress core: it folds
// events into the store, drives the debounced update notifier, fans events to
// the observability hub, and serves the statusline queries.
package tracker

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/statuskit/lspstatus/internal/notify"
	"github.com/statuskit/lspstatus/internal/progress"
	"github.com/statuskit/lspstatus/internal/statusline"
)

// WorkerInfo identifies one attached worker for view aggregation.
type WorkerInfo struct {
	ID   string
	Name string
}

// Directory lists the workers attached to a view in insertion order. The
// worker registry implements this.
type Directory interface {
	ActiveWorkers(viewID string) []WorkerInfo
}

// DiagnosticsProvider returns the cached diagnostics summary for a view.
type DiagnosticsProvider interface {
	Get(viewID string) string
}

// SetupConfig carries the reconfigurable tracker settings. Setup may be
// invoked repeatedly; each call replaces the previous callback and interval.
type SetupConfig struct {
	// OnUpdate is invoked, rate-limited, after progress mutations. Nil
	// disables update notifications entirely.
	OnUpdate func()
	// Interval is the minimum spacing between OnUpdate invocations.
	// Non-positive values fall back to notify.DefaultInterval.
	Interval time.Duration
	// DebugLog logs every accepted event at debug level when set.
	DebugLog bool
}

// Tracker owns the progress store and the debounced update notifier, and
// serves the statusline queries. All mutations flow through Apply.
type Tracker struct {
	store    *progress.Store
	notifier *notify.Debouncer
	emitter  progress.Emitter
	dir      Directory
	diag     DiagnosticsProvider
	logger   *zap.Logger
	debug    atomic.Bool
}

// New wires the tracker. emitter, dir, and diag may each be nil: events are
// then simply not fanned out, views aggregate to empty, and diagnostics
// queries return "".
func New(
	store *progress.Store,
	notifier *notify.Debouncer,
	emitter progress.Emitter,
	dir Directory,
	diag DiagnosticsProvider,
	logger *zap.Logger,
) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		store:    store,
		notifier: notifier,
		emitter:  emitter,
		dir:      dir,
		diag:     diag,
		logger:   logger,
	}
}

// Setup installs the update callback and interval, cancelling any pending
// scheduled fire from the previous configuration.
func (t *Tracker) Setup(cfg SetupConfig) {
	t.notifier.Configure(cfg.OnUpdate, cfg.Interval)
	t.debug.Store(cfg.DebugLog)
}

// Apply folds one progress event into the store, signals the notifier once,
// and emits the event for observability. Invalid events are discarded after
// a debug log; nothing here returns an error to the transport.
func (t *Tracker) Apply(evt progress.Event) {
	if !t.store.Apply(evt) {
		t.logger.Debug("discarding invalid progress event",
			zap.String("worker", evt.Worker),
			zap.String("token", evt.Token),
			zap.String("kind", string(evt.Kind)),
		)
		return
	}
	if t.debug.Load() {
		t.logger.Debug("applied progress event",
			zap.String("worker", evt.Worker),
			zap.String("token", evt.Token),
			zap.String("kind", string(evt.Kind)),
			zap.Intp("percentage", evt.Percentage),
		)
	}
	t.notifier.Signal()
	if t.emitter != nil {
		t.emitter.Emit(evt)
	}
}

// DetachWorker clears every token tracked for the worker, signalling an
// update when anything was removed. Called when a worker disconnects so its
// streams cannot show as permanently busy.
func (t *Tracker) DetachWorker(workerID string) {
	if t.store.ClearWorker(workerID) {
		t.notifier.Signal()
	}
}

// WorkerState returns the representative state for a single worker.
func (t *Tracker) WorkerState(workerID string) progress.AggregateState {
	return progress.Representative(t.store.Tokens(workerID))
}

// QueryState renders one theme icon per worker attached to the view.
func (t *Tracker) QueryState(viewID string, theme statusline.Theme) string {
	return statusline.RenderState(t.viewStatuses(viewID), theme)
}

// QueryProgress renders per-worker segments with optional name prefixes and
// percentages for the view.
func (t *Tracker) QueryProgress(viewID string, theme statusline.Theme) string {
	return statusline.RenderProgress(t.viewStatuses(viewID), theme)
}

// QueryDiagnostics returns the cached diagnostics summary for the view.
func (t *Tracker) QueryDiagnostics(viewID string) string {
	if t.diag == nil {
		return ""
	}
	return t.diag.Get(viewID)
}

func (t *Tracker) viewStatuses(viewID string) []statusline.WorkerStatus {
	if t.dir == nil {
		return nil
	}
	workers := t.dir.ActiveWorkers(viewID)
	statuses := make([]statusline.WorkerStatus, 0, len(workers))
	for _, w := range workers {
		statuses = append(statuses, statusline.WorkerStatus{
			Name:  w.Name,
			State: t.WorkerState(w.ID),
		})
	}
	return statuses
}
