/*
Package filesystem provides resilient filesystem operations with automatic retry logic
for NFS stale file handle errors.

# Purpose

Folders handed to the file lister are frequently network mounts. This package wraps
os.Stat, os.ReadDir, os.Open and os.ReadFile with retry logic for transient ESTALE
(stale file handle) failures so that a directory walk is not aborted by a handle that
the server recycled mid-scan.

# Retry Behavior

The retry logic implements exponential backoff with the following defaults:
  - MaxRetries: 3 attempts
  - InitialBackoff: 50ms
  - MaxBackoff: 500ms

Only ESTALE triggers retries. All other errors fail immediately.

# Metrics

Operation durations, errors and retry outcomes are reported through an [Observer]
registered with [SetObserver]. The metrics package provides the Prometheus-backed
implementation; without one, recording is skipped.
*/
package filesystem
