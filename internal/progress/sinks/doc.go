// Package sinks implements concrete progress consumers: the append-only
// debug log, Prometheus collectors, and the Postgres event archive. Each sink
// satisfies the progress.Sink interface and is safe for repeated
// Consume/Close cycles.
package sinks
