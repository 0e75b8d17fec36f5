package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"file-lister/internal/capability"
	"file-lister/internal/filesystem"
	"file-lister/internal/filetypes"
	"file-lister/internal/handlers"
	"file-lister/internal/logging"
	"file-lister/internal/metrics"
	"file-lister/internal/middleware"
	"file-lister/internal/preview"
	"file-lister/internal/session"
	"file-lister/internal/startup"
)

const shutdownTimeout = 30 * time.Second

// runInteractive serves the HTTP API until SIGINT, SIGTERM or ctx ends.
func runInteractive(ctx context.Context, config *startup.Config) error {
	startTime := time.Now()

	startup.LogStartup()
	startup.LogConfig(config)

	metrics.InitializeMetrics()
	filesystem.SetObserver(metrics.NewFilesystemObserver())

	if err := preview.InitVips(); err != nil {
		logging.Warn("libvips unavailable, PDF previews disabled: %v", err)
	}
	// Deferred first so it runs last, after the server and loop are down.
	// It waits for a PDF render the pipeline may have abandoned.
	defer preview.ShutdownVips()

	videoCap := preview.NewVideoCapability(config.FFmpegPath)
	pdfCap := preview.NewPDFCapability()
	caps := []*capability.Capability{videoCap, pdfCap}
	startup.LogCapabilities(caps...)

	s := session.New(session.Config{
		Preview: preview.Config{
			Timeout:      config.PreviewTimeout,
			MaxDimension: config.PreviewMaxDimension,
		},
		Backends:     newBackends(config, videoCap, pdfCap),
		Capabilities: caps,
	})

	loopCtx, stopLoop := context.WithCancel(ctx)
	defer stopLoop()
	loop := session.NewLoop(s, config.TickInterval)
	loopDone := make(chan struct{})
	go func() {
		loop.Run(loopCtx)
		close(loopDone)
	}()

	h := handlers.New(loop, config.Output)
	router := handlers.NewRouter(h, config.MetricsEnabled)
	if config.MetricsEnabled {
		router.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))
	}
	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler := middleware.Logger(loggingConfig)(router)
	handler = middleware.Compression(middleware.DefaultCompressionConfig())(handler)

	ln, err := net.Listen("tcp", config.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", config.Listen, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		handleShutdown(ctx, srv, stopLoop, loopDone)
		close(shutdownDone)
	}()

	startup.LogServerStarted(startup.ServerConfig{
		Listen:          ln.Addr().String(),
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})

	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	<-shutdownDone
	return nil
}

// newBackends wires a preview backend to each thumbnail kind. Images fall
// back to ffmpeg for formats the Go decoders lack.
func newBackends(config *startup.Config, videoCap, pdfCap *capability.Capability) map[filetypes.Kind]preview.Backend {
	video := preview.NewVideoBackend(config.FFmpegPath, videoCap)
	return map[filetypes.Kind]preview.Backend{
		filetypes.KindImage: preview.NewImageBackend(video),
		filetypes.KindVideo: video,
		filetypes.KindPDF:   preview.NewPDFBackend(pdfCap, config.PreviewMaxDimension),
	}
}

func handleShutdown(ctx context.Context, srv *http.Server, stopLoop context.CancelFunc, loopDone <-chan struct{}) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	reason := "context canceled"
	select {
	case sig := <-sigChan:
		reason = sig.String()
	case <-ctx.Done():
	}

	startup.LogShutdownInitiated(reason)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownStep("Stopping session loop")
	stopLoop()
	<-loopDone
	startup.LogShutdownStepComplete("Session loop stopped")

	startup.LogShutdownComplete()
}
