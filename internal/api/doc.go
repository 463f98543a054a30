// Package api exposes the HTTP interface for the status service: worker
// registration, progress and diagnostics ingest, statusline queries, and the
// debounced update stream.
package api
