// Package logging provides a simple leveled logging interface for the
// file lister.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL (or DEBUG) environment
// variable and may be overridden at startup through [Configure]. Messages are
// rendered by zerolog's console writer on stderr; when a log file is
// configured every message is also written to it as JSON, with rotation
// handled by lumberjack.
package logging
