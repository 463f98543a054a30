// Package progress implements the aggregation core: the event primitives,
// the worker to token progress store, and the representative-state fold. A
// non-blocking hub fans applied events out to pluggable observability sinks
// such as Prometheus metrics, the debug log, or the Postgres archive.
package progress
