package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"file-lister/internal/logging"
)

// ErrNoFrame is returned when ffmpeg succeeds but writes no image data.
var ErrNoFrame = errors.New("ffmpeg produced no output")

// CheckFFmpeg verifies that tool is on PATH and runs, returning the first
// line of its version output.
func CheckFFmpeg(ctx context.Context, tool string) (string, error) {
	path, err := exec.LookPath(tool)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH", tool)
	}
	logging.Debug("  FFmpeg path: %s", path)

	cmd := exec.CommandContext(ctx, tool, "-version")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get %s version: %w", tool, err)
	}

	version := strings.TrimSpace(strings.SplitN(string(output), "\n", 2)[0])
	logging.Debug("  FFmpeg version: %s", version)
	return version, nil
}

// grabFrame asks ffmpeg for one PNG frame of path at the given seek offset
// (HH:MM:SS) and returns the encoded bytes. An empty seek decodes the first
// frame, which is how still images ffmpeg understands are converted.
func grabFrame(ctx context.Context, tool, path, seek string) ([]byte, error) {
	args := []string{"-hide_banner", "-loglevel", "error"}
	if seek != "" {
		args = append(args, "-ss", seek)
	}
	args = append(args,
		"-i", path,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)
	cmd := exec.CommandContext(ctx, tool, args...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %w, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, ErrNoFrame
	}

	logging.Debug("FFmpeg output size for %s at %s: %d bytes", path, seek, stdout.Len())
	return stdout.Bytes(), nil
}
