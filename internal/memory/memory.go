package memory

import (
	"fmt"
	"math"
	"os"
	"runtime/debug"
	"strings"

	"file-lister/internal/logging"

	"github.com/dustin/go-humanize"
)

// DefaultRatio is the share of the memory limit given to the Go heap. The
// rest is left for ffmpeg, libvips and goroutine stacks.
const DefaultRatio = 0.85

// Result describes how the Go memory limit was configured.
type Result struct {
	// Source is "GOMEMLIMIT", "config" or "none".
	Source string
	// Limit is the configured total memory limit in bytes.
	Limit uint64
	// GoMemLimit is the soft limit handed to the runtime, 0 when unset.
	GoMemLimit int64
	// Ratio is the share of Limit used for GoMemLimit.
	Ratio float64
}

// Configure sets the runtime soft memory limit to ratio of limit, where
// limit is a size such as "512MiB" or "2GB". An explicit GOMEMLIMIT
// environment variable takes precedence; an empty limit leaves the runtime
// untouched.
func Configure(limit string, ratio float64) (Result, error) {
	if env := os.Getenv("GOMEMLIMIT"); env != "" {
		result := Result{Source: "GOMEMLIMIT"}
		if current := debug.SetMemoryLimit(-1); current > 0 && current < math.MaxInt64 {
			result.GoMemLimit = current
		}
		logging.Info("GOMEMLIMIT set via environment: %s", env)
		return result, nil
	}

	limit = strings.TrimSpace(limit)
	if limit == "" {
		logging.Debug("No memory limit configured")
		return Result{Source: "none"}, nil
	}

	if ratio <= 0 || ratio > 1 {
		return Result{}, fmt.Errorf("memory ratio %v out of range (0, 1]", ratio)
	}

	bytes, err := humanize.ParseBytes(limit)
	if err != nil {
		return Result{}, fmt.Errorf("invalid memory limit %q: %w", limit, err)
	}
	if bytes == 0 || bytes > math.MaxInt64 {
		return Result{}, fmt.Errorf("memory limit %q out of range", limit)
	}

	goMemLimit := int64(float64(bytes) * ratio)
	debug.SetMemoryLimit(goMemLimit)

	logging.Info("Configured GOMEMLIMIT: %s (%.1f%% of %s)",
		humanize.IBytes(uint64(goMemLimit)), ratio*100, humanize.IBytes(bytes))

	return Result{
		Source:     "config",
		Limit:      bytes,
		GoMemLimit: goMemLimit,
		Ratio:      ratio,
	}, nil
}
