// Command lspstatusd runs the LSP status aggregation service: it accepts
// worker registrations, progress and diagnostics reports over HTTP, and
// serves debounced statusline queries and an update stream.
package main
