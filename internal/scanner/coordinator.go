package scanner

import (
	"time"

	"file-lister/internal/logging"
	"file-lister/internal/metrics"
)

// ScanFunc performs one complete scan.
type ScanFunc func(root string, recursive bool) (Snapshot, error)

// Result is the outcome of one background scan.
type Result struct {
	Root      string
	Recursive bool
	Snapshot  Snapshot
	Err       error
	Duration  time.Duration
}

// Coordinator runs scans in the background and hands their results to a
// single consumer that polls [Coordinator.TryCollect]. It is not safe for
// concurrent use; only the consumer calls its methods.
//
// Each scan owns a channel with room for one result, so a scan goroutine
// never blocks on send even after the consumer has moved on to a newer scan.
type Coordinator struct {
	scan    ScanFunc
	pending chan Result
	root    string
	started time.Time
}

// NewCoordinator creates a coordinator that runs scan, or [Scan] when nil.
func NewCoordinator(scan ScanFunc) *Coordinator {
	if scan == nil {
		scan = Scan
	}
	return &Coordinator{scan: scan}
}

// Start begins a scan of root. A scan still pending is abandoned: it runs
// to completion but its result is never delivered.
func (c *Coordinator) Start(root string, recursive bool) {
	if c.pending != nil {
		logging.Debug("Abandoning pending scan of %s", c.root)
		metrics.ScansTotal.WithLabelValues("abandoned").Inc()
	}

	ch := make(chan Result, 1)
	c.pending = ch
	c.root = root
	c.started = time.Now()
	metrics.ScanInProgress.Set(1)

	scan := c.scan
	go func() {
		start := time.Now()
		snapshot, err := scan(root, recursive)
		ch <- Result{
			Root:      root,
			Recursive: recursive,
			Snapshot:  snapshot,
			Err:       err,
			Duration:  time.Since(start),
		}
	}()

	logging.Info("Scan started: %s (recursive=%v)", root, recursive)
}

// TryCollect returns the result of the current scan if it has finished.
// It never blocks. Each result is returned exactly once; afterwards the
// coordinator is idle until the next Start.
func (c *Coordinator) TryCollect() (Result, bool) {
	if c.pending == nil {
		return Result{}, false
	}

	select {
	case result := <-c.pending:
		c.pending = nil
		metrics.ScanInProgress.Set(0)
		metrics.ScanDuration.Observe(result.Duration.Seconds())

		switch {
		case result.Err == nil:
			metrics.ScansTotal.WithLabelValues("success").Inc()
			metrics.ScanFilesFound.Set(float64(len(result.Snapshot)))
			logging.Info("Scan of %s complete: %d files in %v", result.Root, len(result.Snapshot), result.Duration)
		case IsKind(result.Err, ErrNotADirectory):
			metrics.ScansTotal.WithLabelValues("not_a_directory").Inc()
			logging.Warn("Scan of %s failed: %v", result.Root, result.Err)
		default:
			metrics.ScansTotal.WithLabelValues("io_error").Inc()
			logging.Warn("Scan of %s failed: %v", result.Root, result.Err)
		}
		return result, true
	default:
		return Result{}, false
	}
}

// Scanning reports whether a scan result is still awaited.
func (c *Coordinator) Scanning() bool {
	return c.pending != nil
}

// Root returns the root of the most recently started scan.
func (c *Coordinator) Root() string {
	return c.root
}

// Elapsed returns how long the current scan has been running, or zero.
func (c *Coordinator) Elapsed() time.Duration {
	if c.pending == nil {
		return 0
	}
	return time.Since(c.started)
}
