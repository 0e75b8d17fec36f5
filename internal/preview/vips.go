package preview

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"file-lister/internal/logging"

	"github.com/davidbyttow/govips/v2/vips"
)

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex

	// Renders hold vipsRenderMu for reading; ShutdownVips takes it for
	// writing before libvips is released.
	vipsRenderMu sync.RWMutex
	vipsStopped  bool
)

// vipsShutdownWait bounds how long ShutdownVips waits for a render that is
// still running, such as one abandoned by the preview pipeline.
const vipsShutdownWait = 5 * time.Second

var errVipsStopped = errors.New("libvips has been shut down")

// vipsLogSettings maps the application log level onto libvips' log level
// and a handler forwarding its messages.
func vipsLogSettings() (vips.LogLevel, func(string, vips.LogLevel, string)) {
	forward := func(domain string, level vips.LogLevel, msg string) {
		switch level {
		case vips.LogLevelError, vips.LogLevelCritical:
			logging.Error("[%s] %s", domain, msg)
		case vips.LogLevelWarning:
			logging.Warn("[%s] %s", domain, msg)
		default:
			logging.Debug("[%s] %s", domain, msg)
		}
	}

	switch logging.GetLevel() {
	case logging.LevelDebug:
		return vips.LogLevelInfo, forward
	case logging.LevelInfo:
		return vips.LogLevelWarning, forward
	case logging.LevelWarn:
		return vips.LogLevelError, forward
	default:
		return vips.LogLevelCritical, forward
	}
}

// InitVips starts libvips once per process. Later calls are no-ops.
func InitVips() error {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return nil
	}

	level, handler := vipsLogSettings()
	vips.LoggingSettings(handler, level)

	// One page is rendered at a time, so keep libvips' own pools small.
	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
		ReportLeaks:      false,
		CacheTrace:       false,
		CollectStats:     false,
	})

	vipsInitialized = true
	logging.Info("libvips initialized successfully (version: %s)", vips.Version)
	return nil
}

// ShutdownVips releases libvips. It cannot be restarted in the same process.
func ShutdownVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if !vipsInitialized {
		return
	}

	if !lockWithin(&vipsRenderMu, vipsShutdownWait) {
		logging.Warn("PDF render still running after %v, leaving libvips to process exit", vipsShutdownWait)
		return
	}
	vipsStopped = true
	vipsRenderMu.Unlock()

	vips.Shutdown()
	vipsInitialized = false
	logging.Info("libvips shutdown complete")
}

// lockWithin tries to write-lock mu until timeout passes.
func lockWithin(mu *sync.RWMutex, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for !mu.TryLock() {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(10 * time.Millisecond)
	}
	return true
}

// vipsSupportsPDF reports whether the linked libvips has a PDF loader.
func vipsSupportsPDF() bool {
	if err := InitVips(); err != nil {
		return false
	}
	return vips.IsTypeSupported(vips.ImageTypePDF)
}

// renderPDFPage rasterizes the first page of a PDF and returns it as PNG.
// The page is shrunk to fit maxDimension during rendering so large pages
// are never held at full resolution.
func renderPDFPage(path string, maxDimension int) ([]byte, error) {
	vipsRenderMu.RLock()
	defer vipsRenderMu.RUnlock()
	if vipsStopped {
		return nil, errVipsStopped
	}

	params := vips.NewImportParams()
	params.Page.Set(0)
	params.NumPages.Set(1)

	ref, err := vips.LoadImageFromFile(path, params)
	if err != nil {
		return nil, fmt.Errorf("vips failed to load PDF: %w", err)
	}
	defer ref.Close()

	logging.Debug("Vips loaded PDF page 0 of %s: %dx%d", path, ref.Width(), ref.Height())

	if ref.Width() > maxDimension || ref.Height() > maxDimension {
		if err := ref.Thumbnail(maxDimension, maxDimension, vips.InterestingNone); err != nil {
			return nil, fmt.Errorf("vips resize failed: %w", err)
		}
	}

	data, _, err := ref.ExportPng(vips.NewPngExportParams())
	if err != nil {
		return nil, fmt.Errorf("vips export failed: %w", err)
	}

	return data, nil
}
