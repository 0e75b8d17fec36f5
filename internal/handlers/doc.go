// Package handlers provides the HTTP API of the interactive mode.
//
// Every handler reaches the listing through the session loop, so requests
// are serialized with scan collection and preview polling. Routes cover:
//   - Scanning, rescanning and the session summary
//   - The filtered, sorted listing and its view options
//   - Selection, rename, move, delete, reveal and CSV export
//   - Thumbnail previews (PNG, polled) and document previews
//   - Health, version and Prometheus metrics
package handlers
