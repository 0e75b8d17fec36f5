package preview

import (
	"context"
	"errors"
	"time"

	"file-lister/internal/filetypes"
	"file-lister/internal/logging"
	"file-lister/internal/metrics"
)

// Default limits for preview extraction.
const (
	DefaultTimeout      = 10 * time.Second
	DefaultMaxDimension = 400
)

// ErrTimeout is recorded for a path whose extraction outlived the timeout.
var ErrTimeout = errors.New("preview extraction timed out")

// Decision describes what Request did.
type Decision int

const (
	// Started means a new extraction was dispatched.
	Started Decision = iota
	// Cached means the path already has a thumbnail.
	Cached
	// InFlight means the path is already loading.
	InFlight
	// NotReady means the backend for the kind is unavailable.
	NotReady
	// Unsupported means the kind has no thumbnail.
	Unsupported
)

func (d Decision) String() string {
	switch d {
	case Started:
		return "started"
	case Cached:
		return "cached"
	case InFlight:
		return "in_flight"
	case NotReady:
		return "not_ready"
	default:
		return "unsupported"
	}
}

// State is the lifecycle of one path as seen by the pipeline.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Status reports the state of a path.
type Status struct {
	State   State         `json:"state"`
	Elapsed time.Duration `json:"elapsed,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// Config holds pipeline limits.
type Config struct {
	Timeout      time.Duration
	MaxDimension int
}

// DefaultConfig returns the default limits.
func DefaultConfig() Config {
	return Config{
		Timeout:      DefaultTimeout,
		MaxDimension: DefaultMaxDimension,
	}
}

type outcome struct {
	token uint64
	thumb *Thumbnail
	err   error
}

// slot is the single in-flight extraction.
type slot struct {
	path    string
	kind    filetypes.Kind
	started time.Time
	token   uint64
	ch      chan outcome
}

// Pipeline runs at most one thumbnail extraction at a time and caches the
// results by path. It is owned by a single goroutine: Request, Poll and the
// accessors must not be called concurrently. Extraction goroutines only send
// on their own buffered channel and never touch the cache.
type Pipeline struct {
	config   Config
	backends map[filetypes.Kind]Backend
	now      func() time.Time

	cache    map[string]*Thumbnail
	bytes    int
	failures map[string]error
	current  *slot
	token    uint64
}

// NewPipeline creates a pipeline dispatching to backends by kind. Kinds
// without a backend are unsupported.
func NewPipeline(config Config, backends map[filetypes.Kind]Backend) *Pipeline {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.MaxDimension <= 0 {
		config.MaxDimension = DefaultMaxDimension
	}
	return &Pipeline{
		config:   config,
		backends: backends,
		now:      time.Now,
		cache:    make(map[string]*Thumbnail),
		failures: make(map[string]error),
	}
}

// SetClock replaces the time source.
func (p *Pipeline) SetClock(now func() time.Time) {
	p.now = now
}

// Config returns the pipeline limits.
func (p *Pipeline) Config() Config {
	return p.config
}

// Request asks for a thumbnail of path. It never blocks.
func (p *Pipeline) Request(path string, kind filetypes.Kind) Decision {
	d := p.request(path, kind)
	metrics.PreviewRequestsTotal.WithLabelValues(labelKind(kind), d.String()).Inc()
	return d
}

func (p *Pipeline) request(path string, kind filetypes.Kind) Decision {
	backend, ok := p.backends[kind]
	if !ok || !kind.IsThumbnail() {
		return Unsupported
	}
	if _, ok := p.cache[path]; ok {
		return Cached
	}
	if p.current != nil && p.current.path == path {
		return InFlight
	}
	if !backend.Ready() {
		return NotReady
	}

	if p.current != nil {
		logging.Debug("Abandoning preview of %s for %s", p.current.path, path)
	}

	p.token++
	s := &slot{
		path:    path,
		kind:    kind,
		started: p.now(),
		token:   p.token,
		ch:      make(chan outcome, 1),
	}
	p.current = s
	delete(p.failures, path)

	go p.extract(backend, s)
	return Started
}

// extract runs on its own goroutine. The send never blocks because the
// channel has room for the single result, so an abandoned task exits
// cleanly.
func (p *Pipeline) extract(backend Backend, s *slot) {
	ctx, cancel := context.WithTimeout(context.Background(), p.config.Timeout)
	defer cancel()

	result := outcome{token: s.token}
	defer func() {
		if r := recover(); r != nil {
			result.thumb = nil
			result.err = errors.New("preview extraction panicked")
			logging.Error("Preview extraction for %s panicked: %v", s.path, r)
		}
		s.ch <- result
	}()

	data, err := backend.Extract(ctx, s.path)
	if err != nil {
		result.err = err
		return
	}
	result.thumb, result.err = process(s.path, data, p.config.MaxDimension)
}

// Poll collects a finished extraction without blocking. It returns the new
// thumbnail when one was inserted into the cache.
func (p *Pipeline) Poll() (*Thumbnail, bool) {
	s := p.current
	if s == nil {
		return nil, false
	}

	elapsed := p.now().Sub(s.started)
	if elapsed > p.config.Timeout {
		logging.Warn("Preview of %s timed out after %v", s.path, elapsed)
		metrics.PreviewExtractionsTotal.WithLabelValues(labelKind(s.kind), "timeout").Inc()
		p.failures[s.path] = ErrTimeout
		p.current = nil
		return nil, false
	}

	var res outcome
	select {
	case res = <-s.ch:
	default:
		return nil, false
	}

	p.current = nil
	if res.token != s.token {
		return nil, false
	}

	kind := labelKind(s.kind)
	metrics.PreviewExtractionDuration.WithLabelValues(kind).Observe(elapsed.Seconds())

	if res.err != nil {
		logging.Debug("Preview of %s failed: %v", s.path, res.err)
		metrics.PreviewExtractionsTotal.WithLabelValues(kind, "error").Inc()
		p.failures[s.path] = res.err
		return nil, false
	}

	metrics.PreviewExtractionsTotal.WithLabelValues(kind, "success").Inc()
	p.cache[s.path] = res.thumb
	p.bytes += res.thumb.Size()
	p.updateCacheMetrics()
	return res.thumb, true
}

// Get returns the cached thumbnail for path.
func (p *Pipeline) Get(path string) (*Thumbnail, bool) {
	t, ok := p.cache[path]
	return t, ok
}

// Loading returns the path being extracted and how long it has run.
func (p *Pipeline) Loading() (string, time.Duration, bool) {
	if p.current == nil {
		return "", 0, false
	}
	return p.current.path, p.now().Sub(p.current.started), true
}

// Status reports the state of path.
func (p *Pipeline) Status(path string) Status {
	if _, ok := p.cache[path]; ok {
		return Status{State: StateReady}
	}
	if p.current != nil && p.current.path == path {
		return Status{State: StateLoading, Elapsed: p.now().Sub(p.current.started)}
	}
	if err, ok := p.failures[path]; ok {
		return Status{State: StateFailed, Error: err.Error()}
	}
	return Status{State: StateIdle}
}

// Len returns the number of cached thumbnails.
func (p *Pipeline) Len() int {
	return len(p.cache)
}

// Clear drops every cached thumbnail and failure and abandons any in-flight
// extraction.
func (p *Pipeline) Clear() {
	if p.current != nil {
		logging.Debug("Abandoning preview of %s", p.current.path)
	}
	p.current = nil
	p.cache = make(map[string]*Thumbnail)
	p.failures = make(map[string]error)
	p.bytes = 0
	p.updateCacheMetrics()
}

func (p *Pipeline) updateCacheMetrics() {
	metrics.PreviewCacheEntries.Set(float64(len(p.cache)))
	metrics.PreviewCacheBytes.Set(float64(p.bytes))
}

func labelKind(kind filetypes.Kind) string {
	if kind.IsThumbnail() {
		return string(kind)
	}
	return "other"
}
