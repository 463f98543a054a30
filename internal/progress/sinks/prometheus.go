package sinks

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/statuskit/lspstatus/internal/progress"
)

// PrometheusSink exports progress metrics. It owns the collectors for event
// throughput, currently-busy streams, and reported percentages.
type PrometheusSink struct {
	eventsTotal   *prometheus.CounterVec
	streamsActive prometheus.Gauge
	workersBusy   prometheus.Gauge
	percentage    prometheus.Histogram

	tracker *streamTracker
}

// NewPrometheusSink registers the collectors against the provided registry.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lspstatus_progress_events_total",
			Help: "Progress events consumed, partitioned by kind.",
		}, []string{"kind"}),
		streamsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lspstatus_progress_streams_active",
			Help: "Progress streams currently between begin and end.",
		}),
		workersBusy: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lspstatus_workers_busy",
			Help: "Workers with at least one active progress stream.",
		}),
		percentage: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lspstatus_progress_percentage",
			Help:    "Reported completion percentages.",
			Buckets: []float64{10, 25, 50, 75, 90, 100},
		}),
		tracker: newStreamTracker(),
	}
	for _, collector := range []prometheus.Collector{
		s.eventsTotal,
		s.streamsActive,
		s.workersBusy,
		s.percentage,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Consume updates the collectors from the batch. It is safe for concurrent
// use by multiple goroutines.
func (s *PrometheusSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		s.consumeEvent(evt)
	}
	return nil
}

func (s *PrometheusSink) consumeEvent(evt progress.Event) {
	s.eventsTotal.WithLabelValues(string(evt.Kind)).Inc()
	if evt.Percentage != nil {
		s.percentage.Observe(float64(*evt.Percentage))
	}

	switch evt.Kind {
	case progress.KindBegin, progress.KindReport:
		streamDelta, workerDelta := s.tracker.open(evt.Worker, evt.Token)
		s.streamsActive.Add(float64(streamDelta))
		s.workersBusy.Add(float64(workerDelta))
	case progress.KindEnd, progress.KindOther:
		streamDelta, workerDelta := s.tracker.close(evt.Worker, evt.Token)
		s.streamsActive.Add(float64(streamDelta))
		s.workersBusy.Add(float64(workerDelta))
	}
}

// Close implements the Sink interface; it performs no action.
func (s *PrometheusSink) Close(context.Context) error {
	return nil
}

// streamTracker mirrors open streams so the gauges survive re-begin and
// duplicate end events without drifting.
type streamTracker struct {
	mu      sync.Mutex
	streams map[string]map[string]struct{}
}

func newStreamTracker() *streamTracker {
	return &streamTracker{streams: make(map[string]map[string]struct{})}
}

func (t *streamTracker) open(worker, token string) (streams, workers int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tokens := t.streams[worker]
	if tokens == nil {
		tokens = make(map[string]struct{})
		t.streams[worker] = tokens
		workers = 1
	}
	if _, ok := tokens[token]; !ok {
		tokens[token] = struct{}{}
		streams = 1
	}
	return streams, workers
}

func (t *streamTracker) close(worker, token string) (streams, workers int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tokens := t.streams[worker]
	if tokens == nil {
		return 0, 0
	}
	if _, ok := tokens[token]; ok {
		delete(tokens, token)
		streams = -1
	}
	if len(tokens) == 0 {
		delete(t.streams, worker)
		workers = -1
	}
	return streams, workers
}
