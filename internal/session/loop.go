package session

import (
	"context"
	"errors"
	"time"

	"file-lister/internal/logging"
)

// DefaultTickInterval is how often a Loop polls for finished background work.
const DefaultTickInterval = 50 * time.Millisecond

// ErrStopped is returned by Do after the loop has exited.
var ErrStopped = errors.New("session loop stopped")

// Loop confines a Session to one goroutine. It ticks the session on an
// interval and runs submitted closures between ticks.
type Loop struct {
	session  *Session
	interval time.Duration
	requests chan func(*Session)
	done     chan struct{}
}

// NewLoop creates a loop for s. Call Run to start it.
func NewLoop(s *Session, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Loop{
		session:  s,
		interval: interval,
		requests: make(chan func(*Session)),
		done:     make(chan struct{}),
	}
}

// Run drives the session until ctx is canceled.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	logging.Debug("Session loop started (tick %v)", l.interval)
	for {
		select {
		case <-ctx.Done():
			logging.Debug("Session loop stopped")
			return
		case <-ticker.C:
			l.session.Tick()
		case fn := <-l.requests:
			fn(l.session)
		}
	}
}

// Do runs fn on the loop goroutine and returns its error. It returns early
// if ctx ends before fn is accepted or the loop has stopped.
func (l *Loop) Do(ctx context.Context, fn func(*Session) error) error {
	errc := make(chan error, 1)
	wrapped := func(s *Session) {
		errc <- fn(s)
	}

	select {
	case l.requests <- wrapped:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
