package capability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"file-lister/internal/logging"
	"file-lister/internal/metrics"
)

// ProbeFunc reports whether a backend is usable right now.
type ProbeFunc func(ctx context.Context) bool

// InstallFunc makes a backend usable, for example by downloading a tool.
type InstallFunc func(ctx context.Context) error

// Capability is a write-once readiness flag for an external backend.
// The probe runs at most once per process unless an installer later
// succeeds, after which the backend is ready without restarting.
type Capability struct {
	name         string
	probe        ProbeFunc
	install      InstallFunc
	probeTimeout time.Duration

	once       sync.Once
	ready      atomic.Bool
	installing atomic.Bool
	done       chan struct{}
}

// Option configures a Capability.
type Option func(*Capability)

// WithInstaller runs install once in the background when the first probe
// fails, then probes again.
func WithInstaller(install InstallFunc) Option {
	return func(c *Capability) {
		c.install = install
	}
}

// WithProbeTimeout bounds each probe run.
func WithProbeTimeout(d time.Duration) Option {
	return func(c *Capability) {
		c.probeTimeout = d
	}
}

// New creates a capability that has not been probed yet.
func New(name string, probe ProbeFunc, opts ...Option) *Capability {
	c := &Capability{
		name:         name,
		probe:        probe,
		probeTimeout: 10 * time.Second,
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the capability name.
func (c *Capability) Name() string {
	return c.name
}

// Probe runs the probe the first time it is called and returns readiness.
// Later calls return the memoized value. If the probe fails and an
// installer is configured, the install starts in the background and
// Probe returns false immediately.
func (c *Capability) Probe() bool {
	c.once.Do(func() {
		ok := c.runProbe()
		c.setReady(ok)
		if ok {
			logging.Info("  [OK] %s backend ready", c.name)
			close(c.done)
			return
		}

		if c.install == nil {
			logging.Warn("  %s backend unavailable", c.name)
			close(c.done)
			return
		}

		logging.Info("  %s backend unavailable, installing in background", c.name)
		c.installing.Store(true)
		go c.runInstall()
	})
	return c.ready.Load()
}

func (c *Capability) runProbe() bool {
	ctx, cancel := context.WithTimeout(context.Background(), c.probeTimeout)
	defer cancel()
	return c.probe(ctx)
}

func (c *Capability) runInstall() {
	defer close(c.done)
	defer c.installing.Store(false)

	start := time.Now()
	if err := c.install(context.Background()); err != nil {
		metrics.CapabilityInstallsTotal.WithLabelValues(c.name, "error").Inc()
		logging.Error("Failed to install %s backend: %v", c.name, err)
		return
	}

	if !c.runProbe() {
		metrics.CapabilityInstallsTotal.WithLabelValues(c.name, "error").Inc()
		logging.Error("%s backend still unavailable after install", c.name)
		return
	}

	metrics.CapabilityInstallsTotal.WithLabelValues(c.name, "success").Inc()
	c.setReady(true)
	logging.Info("%s backend installed in %v", c.name, time.Since(start))
}

func (c *Capability) setReady(ok bool) {
	c.ready.Store(ok)
	value := 0.0
	if ok {
		value = 1
	}
	metrics.CapabilityReady.WithLabelValues(c.name).Set(value)
}

// Ready reports readiness without probing.
func (c *Capability) Ready() bool {
	return c.ready.Load()
}

// Installing reports whether a background install is running.
func (c *Capability) Installing() bool {
	return c.installing.Load()
}

// Wait blocks until the probe and any install have finished or ctx ends,
// and returns readiness. It does not start the probe.
func (c *Capability) Wait(ctx context.Context) bool {
	select {
	case <-c.done:
	case <-ctx.Done():
	}
	return c.ready.Load()
}
