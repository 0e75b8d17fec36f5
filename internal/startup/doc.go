// Package startup handles configuration loading and startup/shutdown logging.
//
// # Configuration
//
// [LoadConfig] layers, from lowest to highest priority: built-in defaults, an
// optional YAML file (file-lister.yaml in the working directory or
// $HOME/.config/file-lister, or the file given with --config), environment
// variables and command-line flags bound to the viper instance.
//
// Environment variables carry the FILE_LISTER_ prefix, with dots in keys
// replaced by underscores:
//
//   - FILE_LISTER_LISTEN: interactive API address (default: 127.0.0.1:8787)
//   - FILE_LISTER_OUTPUT: CSV path in CLI mode (default: files.csv)
//   - FILE_LISTER_LOG_LEVEL: debug, info, warn or error (default: from LOG_LEVEL)
//   - FILE_LISTER_LOG_FILE: rotated JSON log file (default: none)
//   - FILE_LISTER_LOG_HEALTH_CHECKS: log /health requests (default: false)
//   - FILE_LISTER_METRICS_ENABLED: serve /metrics (default: true)
//   - FILE_LISTER_PREVIEW_TIMEOUT: preview extraction timeout (default: 10s)
//   - FILE_LISTER_PREVIEW_MAX_DIMENSION: thumbnail bound in pixels (default: 400)
//   - FILE_LISTER_PREVIEW_FFMPEG: ffmpeg binary (default: ffmpeg)
//   - FILE_LISTER_SESSION_TICK_INTERVAL: session poll interval (default: 50ms)
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
//
// # Lifecycle Logging
//
//   - [LogStartup]: banner and system information
//   - [LogConfig]: effective configuration
//   - [LogCapabilities]: preview backend availability
//   - [LogHTTPRoutes]: registered HTTP routes (debug level)
//   - [LogServerStarted]: endpoints and startup duration
//   - [LogShutdownInitiated], [LogShutdownComplete]: graceful shutdown
package startup
