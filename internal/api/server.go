package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/statuskit/lspstatus/internal/clock"
	"github.com/statuskit/lspstatus/internal/config"
	"github.com/statuskit/lspstatus/internal/diagnostics"
	"github.com/statuskit/lspstatus/internal/metrics"
	"github.com/statuskit/lspstatus/internal/registry"
	"github.com/statuskit/lspstatus/internal/statusline"
	"github.com/statuskit/lspstatus/internal/store"
	"github.com/statuskit/lspstatus/internal/tracker"
)

// Server wires HTTP handlers to the tracker, registry, and archive.
type Server struct {
	router   chi.Router
	tracker  *tracker.Tracker
	registry *registry.Registry
	diagSrc  *diagnostics.MemorySource
	archive  store.EventArchive
	broker   *Broker
	clock    clock.Clock
	theme    statusline.Theme
	logger   *zap.Logger
}

// NewServer constructs a Server with middleware and routes. archive may be
// nil when no DSN is configured; the archive read endpoint then returns 503.
func NewServer(
	trk *tracker.Tracker,
	reg *registry.Registry,
	diagSrc *diagnostics.MemorySource,
	archive store.EventArchive,
	broker *Broker,
	clk clock.Clock,
	cfg config.Config,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		tracker:  trk,
		registry: reg,
		diagSrc:  diagSrc,
		archive:  archive,
		broker:   broker,
		clock:    clk,
		theme: statusline.Theme{
			ShowName: cfg.Theme.ShowName,
			BusyIcon: cfg.Theme.BusyIcon,
			IdleIcon: cfg.Theme.IdleIcon,
			Ramp:     cfg.Theme.Ramp,
		},
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(metrics.Middleware)
	if cfg.Auth.Enabled {
		r.Use(apiKeyMiddleware(cfg.Auth.APIKey))
	}

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/workers", func(r chi.Router) {
			r.Post("/", s.registerWorker)
			r.Route("/{worker_id}", func(r chi.Router) {
				r.Delete("/", s.detachWorker)
				r.Post("/events", s.ingestEvent)
				r.Get("/events", s.listWorkerEvents)
				r.Get("/state", s.getWorkerState)
			})
		})
		r.Route("/views/{view_id}", func(r chi.Router) {
			r.Post("/diagnostics", s.setDiagnostics)
			r.Get("/progress", s.getViewProgress)
			r.Get("/state", s.getViewState)
			r.Get("/diagnostics", s.getViewDiagnostics)
		})
		r.Get("/updates", s.streamUpdates)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	// In-memory dependencies are always ready; the archive is write-behind
	// and never gates readiness.
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", uuid.NewString())
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("error", rec))
				s.writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func apiKeyMiddleware(expected string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				key = r.URL.Query().Get("api_key")
			}
			if key != expected {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Flush() {
	if f, ok := sw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write JSON failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
