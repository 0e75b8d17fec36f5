package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_lister_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "file_lister_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "file_lister_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Scan metrics
var (
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_lister_scans_total",
			Help: "Total number of directory scans by outcome",
		},
		[]string{"status"}, // "success", "not_a_directory", "io_error", "abandoned"
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "file_lister_scan_duration_seconds",
			Help:    "Directory scan duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	ScanFilesFound = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "file_lister_scan_files_found",
			Help: "Number of files in the most recent successful scan",
		},
	)

	ScanInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "file_lister_scan_in_progress",
			Help: "Whether a scan result is currently awaited (1 = scanning, 0 = idle)",
		},
	)
)

// View metrics
var (
	ViewRowsVisible = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "file_lister_view_rows_visible",
			Help: "Number of rows visible after filtering",
		},
	)

	ViewRecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "file_lister_view_recompute_duration_seconds",
			Help:    "Time spent recomputing the visible rows",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)
)

// Preview metrics
var (
	PreviewRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_lister_preview_requests_total",
			Help: "Total number of preview requests by kind and decision",
		},
		[]string{"kind", "decision"}, // decision: "started", "cached", "in_flight", "not_ready", "unsupported"
	)

	PreviewExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_lister_preview_extractions_total",
			Help: "Total number of preview extractions by kind and outcome",
		},
		[]string{"kind", "status"}, // status: "success", "error", "timeout"
	)

	PreviewExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "file_lister_preview_extraction_duration_seconds",
			Help:    "Time from dispatch until the preview result was collected",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"kind"},
	)

	PreviewCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "file_lister_preview_cache_entries",
			Help: "Number of decoded previews held in the cache",
		},
	)

	PreviewCacheBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "file_lister_preview_cache_bytes",
			Help: "Total RGBA bytes held in the preview cache",
		},
	)
)

// Capability metrics
var (
	CapabilityReady = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "file_lister_capability_ready",
			Help: "Whether a preview backend capability is ready (1 = ready, 0 = not ready)",
		},
		[]string{"capability"},
	)

	CapabilityInstallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_lister_capability_installs_total",
			Help: "Total number of background capability installs by outcome",
		},
		[]string{"capability", "status"},
	)
)

// File operation metrics
var (
	FileOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_lister_file_operations_total",
			Help: "Total number of file operations by type and outcome",
		},
		[]string{"operation", "status"}, // operation: "rename", "move", "delete", "reveal"
	)

	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_lister_exports_total",
			Help: "Total number of CSV exports by outcome",
		},
		[]string{"status"},
	)

	ExportRowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "file_lister_export_rows_total",
			Help: "Total number of rows written to CSV exports",
		},
	)

	DocumentPreviewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_lister_document_previews_total",
			Help: "Total number of document previews by kind and outcome",
		},
		[]string{"kind", "status"},
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "file_lister_filesystem_operation_duration_seconds",
			Help:    "Duration of filesystem operations including retries",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"operation"},
	)

	FilesystemOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_lister_filesystem_operation_errors_total",
			Help: "Total number of failed filesystem operations",
		},
		[]string{"operation"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_lister_filesystem_retry_attempts_total",
			Help: "Total number of filesystem operation retries",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_lister_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retrying",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_lister_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_lister_filesystem_stale_errors_total",
			Help: "Total number of ESTALE errors encountered",
		},
		[]string{"operation"},
	)
)
