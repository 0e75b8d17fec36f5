package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents the severity of a log message
type LogLevel int32

const (
	// LevelDebug is the debug log level
	LevelDebug LogLevel = iota
	// LevelInfo is the info log level
	LevelInfo
	// LevelWarn is the warning log level
	LevelWarn
	// LevelError is the error log level
	LevelError
)

var (
	currentLevel atomic.Int32
	levelOnce    sync.Once

	logger atomic.Pointer[zerolog.Logger]

	fileMu sync.Mutex
	file   *lumberjack.Logger
)

// Options configures the log output. Level overrides the environment when
// set; File enables a rotated JSON log file in addition to the console.
type Options struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

func init() {
	l := newConsoleLogger(os.Stderr, nil)
	logger.Store(&l)
}

func newConsoleLogger(out io.Writer, extra io.Writer) zerolog.Logger {
	console := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "2006/01/02 15:04:05",
	}

	var w io.Writer = console
	if extra != nil {
		w = zerolog.MultiLevelWriter(console, extra)
	}

	return zerolog.New(w).Level(zerolog.TraceLevel).With().Timestamp().Logger()
}

// initLevel initializes the log level from environment variables
func initLevel() {
	levelOnce.Do(func() {
		// DEBUG wins over LOG_LEVEL
		if debug := os.Getenv("DEBUG"); debug != "" {
			switch strings.ToLower(debug) {
			case "1", "true", "yes", "on":
				currentLevel.Store(int32(LevelDebug))
				return
			}
		}

		level, ok := ParseLevel(os.Getenv("LOG_LEVEL"))
		if !ok {
			level = LevelInfo
		}
		currentLevel.Store(int32(level))
	})
}

// ParseLevel converts a level name to a LogLevel. The second return value is
// false when the name is not recognized.
func ParseLevel(s string) (LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

// Configure applies output options. It is safe to call more than once; a
// previously opened log file is closed.
func Configure(opts Options) error {
	if opts.Level != "" {
		level, ok := ParseLevel(opts.Level)
		if !ok {
			return fmt.Errorf("unknown log level %q", opts.Level)
		}
		SetLevel(level)
	}

	fileMu.Lock()
	defer fileMu.Unlock()

	if file != nil {
		_ = file.Close()
		file = nil
	}

	var extra io.Writer
	if opts.File != "" {
		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		maxBackups := opts.MaxBackups
		if maxBackups <= 0 {
			maxBackups = 3
		}
		file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     30,
			Compress:   false,
		}
		extra = file
	}

	l := newConsoleLogger(os.Stderr, extra)
	logger.Store(&l)
	return nil
}

// Close flushes and closes the log file, if any.
func Close() error {
	fileMu.Lock()
	defer fileMu.Unlock()

	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil

	l := newConsoleLogger(os.Stderr, nil)
	logger.Store(&l)
	return err
}

// SetLevel overrides the level derived from the environment
func SetLevel(level LogLevel) {
	initLevel()
	currentLevel.Store(int32(level))
}

// GetLevel returns the current log level
func GetLevel() LogLevel {
	initLevel()
	return LogLevel(currentLevel.Load())
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	return GetLevel() <= LevelDebug
}

// Debug logs a debug message (only if DEBUG=true or LOG_LEVEL=debug)
func Debug(format string, args ...interface{}) {
	if GetLevel() <= LevelDebug {
		logger.Load().Debug().Msgf(format, args...)
	}
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	if GetLevel() <= LevelInfo {
		logger.Load().Info().Msgf(format, args...)
	}
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	if GetLevel() <= LevelWarn {
		logger.Load().Warn().Msgf(format, args...)
	}
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	if GetLevel() <= LevelError {
		logger.Load().Error().Msgf(format, args...)
	}
}

// Fatal logs an error message and exits
func Fatal(format string, args ...interface{}) {
	logger.Load().Fatal().Msgf(format, args...)
}

// String returns the string representation of a log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}
