package view

import (
	"time"

	"file-lister/internal/metrics"
	"file-lister/internal/scanner"
)

// Engine holds a snapshot and the view options and keeps the derived
// [State] current. Every recomputation bumps [Engine.Generation]; callers
// holding row indices (a selection) must discard them when it changes.
// Engine is not safe for concurrent use.
type Engine struct {
	snapshot   scanner.Snapshot
	opts       Options
	state      State
	generation uint64
	now        func() time.Time
}

// NewEngine creates an engine with default options and an empty snapshot.
func NewEngine() *Engine {
	e := &Engine{opts: DefaultOptions(), now: time.Now}
	e.recompute()
	return e
}

// SetClock replaces the time source used for the today-only filter.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
	e.recompute()
}

func (e *Engine) recompute() {
	start := time.Now()
	e.state = Apply(e.snapshot, e.opts, e.now())
	e.generation++
	metrics.ViewRowsVisible.Set(float64(len(e.state.Rows)))
	metrics.ViewRecomputeDuration.Observe(time.Since(start).Seconds())
}

// SetSnapshot replaces the snapshot wholesale.
func (e *Engine) SetSnapshot(snapshot scanner.Snapshot) {
	e.snapshot = snapshot
	e.recompute()
}

// Snapshot returns the current snapshot.
func (e *Engine) Snapshot() scanner.Snapshot {
	return e.snapshot
}

// SetFilter sets the case-insensitive text filter.
func (e *Engine) SetFilter(filter string) {
	e.opts.Filter = filter
	e.recompute()
}

// SetDuplicatesOnly toggles hiding files whose name is unique.
func (e *Engine) SetDuplicatesOnly(on bool) {
	e.opts.DuplicatesOnly = on
	e.recompute()
}

// SetTodayOnly toggles hiding files not modified today.
func (e *Engine) SetTodayOnly(on bool) {
	e.opts.TodayOnly = on
	e.recompute()
}

// ToggleSort flips the direction when key is already active, otherwise
// sorts by key ascending.
func (e *Engine) ToggleSort(key SortKey) {
	if e.opts.SortKey == key {
		if e.opts.SortDirection == Ascending {
			e.opts.SortDirection = Descending
		} else {
			e.opts.SortDirection = Ascending
		}
	} else {
		e.opts.SortKey = key
		e.opts.SortDirection = Ascending
	}
	e.recompute()
}

// SetOptions replaces all options at once.
func (e *Engine) SetOptions(opts Options) {
	if opts.SortKey == "" {
		opts.SortKey = SortByName
	}
	if opts.SortDirection != Descending {
		opts.SortDirection = Ascending
	}
	e.opts = opts
	e.recompute()
}

// Refresh recomputes the rows, for example after midnight passes with the
// today-only filter active.
func (e *Engine) Refresh() {
	e.recompute()
}

// Options returns the current options.
func (e *Engine) Options() Options {
	return e.opts
}

// State returns the derived view.
func (e *Engine) State() State {
	return e.state
}

// Rows returns the visible rows.
func (e *Engine) Rows() []scanner.FileRecord {
	return e.state.Rows
}

// Row returns the visible row at index.
func (e *Engine) Row(index int) (scanner.FileRecord, bool) {
	if index < 0 || index >= len(e.state.Rows) {
		return scanner.FileRecord{}, false
	}
	return e.state.Rows[index], true
}

// Generation identifies the current set of visible rows.
func (e *Engine) Generation() uint64 {
	return e.generation
}
