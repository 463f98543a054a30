// Package metrics exposes Prometheus collectors for the status service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	notificationsTotal         prometheus.Counter
	activeWorkers              prometheus.Gauge
	sseSubscribers             prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"method", "route"},
		)

		notificationsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "statusline_notifications_total",
				Help: "Total number of debounced update notifications fired.",
			},
		)

		activeWorkers = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "statusline_active_workers",
				Help: "Number of workers currently registered.",
			},
		)

		sseSubscribers = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "statusline_update_subscribers",
				Help: "Number of connected update-stream subscribers.",
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveNotification increments the fired-notification counter.
func ObserveNotification() {
	notificationsTotal.Inc()
}

// IncActiveWorkers increments the registered workers gauge.
func IncActiveWorkers() {
	activeWorkers.Inc()
}

// DecActiveWorkers decrements the registered workers gauge.
func DecActiveWorkers() {
	activeWorkers.Dec()
}

// IncSubscribers increments the update-stream subscriber gauge.
func IncSubscribers() {
	sseSubscribers.Inc()
}

// DecSubscribers decrements the update-stream subscriber gauge.
func DecSubscribers() {
	sseSubscribers.Dec()
}
