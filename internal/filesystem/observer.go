package filesystem

import "sync/atomic"

// Observer records filesystem operation metrics. Implementations are provided
// by the metrics package to break the import cycle between filesystem and metrics.
type Observer interface {
	// ObserveOperation records duration and error status for a filesystem operation.
	// operation is one of "stat", "readdir", "open", "read".
	ObserveOperation(operation string, durationSeconds float64, err error)

	ObserveRetryAttempt(operation string)
	ObserveRetrySuccess(operation string)
	ObserveRetryFailure(operation string)
	ObserveStaleError(operation string)
}

type observerHolder struct {
	o Observer
}

// defaultObserver is the package-level observer set at startup.
// If unset, metric recording is silently skipped (safe for tests).
var defaultObserver atomic.Pointer[observerHolder]

// SetObserver sets the package-level metrics observer.
// Call this once at startup after creating the observer implementation.
func SetObserver(o Observer) {
	defaultObserver.Store(&observerHolder{o: o})
}

// observe returns the package-level observer or nil.
func observe() Observer {
	h := defaultObserver.Load()
	if h == nil {
		return nil
	}
	return h.o
}
