package metrics

// Label values shared between InitializeMetrics and the packages that record
// into these collectors.
var (
	PreviewKinds     = []string{"image", "video", "pdf"}
	PreviewDecisions = []string{"started", "cached", "in_flight", "not_ready", "unsupported"}
	Capabilities     = []string{"video", "pdf"}
	FileOperations   = []string{"rename", "move", "delete", "reveal"}
	DocumentKinds    = []string{"text", "code", "table", "document"}
)

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, status := range []string{"success", "not_a_directory", "io_error", "abandoned"} {
		ScansTotal.WithLabelValues(status)
	}

	for _, kind := range PreviewKinds {
		for _, decision := range PreviewDecisions {
			PreviewRequestsTotal.WithLabelValues(kind, decision)
		}
		for _, status := range []string{"success", "error", "timeout"} {
			PreviewExtractionsTotal.WithLabelValues(kind, status)
		}
		PreviewExtractionDuration.WithLabelValues(kind)
	}

	for _, c := range Capabilities {
		CapabilityReady.WithLabelValues(c)
		CapabilityInstallsTotal.WithLabelValues(c, "success")
		CapabilityInstallsTotal.WithLabelValues(c, "error")
	}

	for _, op := range FileOperations {
		FileOperationsTotal.WithLabelValues(op, "success")
		FileOperationsTotal.WithLabelValues(op, "error")
	}
	FileOperationsTotal.WithLabelValues("move", "partial")

	ExportsTotal.WithLabelValues("success")
	ExportsTotal.WithLabelValues("error")

	for _, kind := range DocumentKinds {
		DocumentPreviewsTotal.WithLabelValues(kind, "success")
		DocumentPreviewsTotal.WithLabelValues(kind, "error")
	}

	for _, op := range []string{"stat", "readdir", "open", "read"} {
		FilesystemOperationDuration.WithLabelValues(op)
		FilesystemOperationErrors.WithLabelValues(op)
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
	}
}
