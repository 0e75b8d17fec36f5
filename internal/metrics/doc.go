// Package metrics provides Prometheus instrumentation for the file lister.
//
// All metrics are registered with the default registry through promauto and
// are prefixed with "file_lister_". In interactive mode they are served on
// /metrics alongside the Go runtime and process collectors that
// client_golang registers by default.
//
// # Metric Categories
//
//   - HTTP: request counts, durations and in-flight requests of the local API
//   - Scans: outcomes, duration, size of the last snapshot, scan-in-progress
//   - View: visible row count and recompute duration
//   - Previews: request decisions, extraction outcomes and latency, cache size
//   - Capabilities: readiness of the video and PDF backends, background installs
//   - File operations: rename, move, delete and reveal outcomes, CSV exports,
//     document previews
//   - Filesystem: operation durations, errors and ESTALE retry behavior, fed by
//     the observer returned from [NewFilesystemObserver]
//
// Call [InitializeMetrics] once at startup so every label combination is
// present from the first scrape.
package metrics
