// Package main provides the entry point for File Lister.
//
// File Lister scans a folder, optionally recursively, and lists every regular
// file with its name, extension, size, relative path and modification time.
// The listing can be exported to CSV, filtered, sorted, narrowed to
// duplicate names or to files modified today, and previewed.
//
// # Modes
//
// Export mode runs when --folder is given:
//
//	file-lister --folder ~/Downloads --output downloads.csv --recursive
//
// It prints "Scanning folder", "Found N files" and "Exported to" lines and
// exits with status 1 if the scan or the export fails.
//
// Interactive mode runs otherwise and serves a JSON API on --listen
// (default 127.0.0.1:8787):
//
//  1. Configuration: flags, FILE_LISTER_* environment and file-lister.yaml
//  2. Logging: console output with optional rotated log file
//  3. Preview backends: ffmpeg for video frames, libvips for PDF pages,
//     in-process decoders for images
//  4. Session loop: one goroutine owns the listing and polls background
//     scans and previews
//  5. HTTP server with request logging, metrics and gzip compression
//  6. Graceful shutdown on SIGINT/SIGTERM
package main

import "file-lister/internal/cli"

func main() {
	cli.Execute()
}
