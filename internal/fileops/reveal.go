package fileops

import (
	"os/exec"
	"path/filepath"
	"runtime"

	"file-lister/internal/logging"
)

// revealCommand returns the file manager invocation for goos.
func revealCommand(goos, path string) (string, []string) {
	switch goos {
	case "windows":
		return "explorer", []string{"/select,", path}
	case "darwin":
		return "open", []string{"-R", path}
	default:
		return "xdg-open", []string{filepath.Dir(path)}
	}
}

// Reveal opens the platform file manager at path. It does not wait for the
// file manager to exit.
func Reveal(path string) error {
	name, args := revealCommand(runtime.GOOS, path)
	cmd := exec.Command(name, args...)
	err := cmd.Start()
	record("reveal", err)
	if err != nil {
		logging.Warn("Failed to open file manager for %s: %v", path, err)
		return err
	}

	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
