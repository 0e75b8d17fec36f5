// Package memory sets the Go runtime's soft memory limit.
//
// Decoded thumbnails stay in memory until the next scan, and ffmpeg and
// libvips run alongside the Go heap. Configure reserves a share of a
// container or user supplied limit for the heap so the garbage collector
// works harder before the process is killed. A GOMEMLIMIT environment
// variable always wins.
package memory
