package fileops

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"file-lister/internal/logging"
	"file-lister/internal/metrics"

	"github.com/otiai10/copy"
)

var (
	// ErrInvalidName is returned for an empty rename target or one
	// containing a path separator.
	ErrInvalidName = errors.New("invalid file name")
	// ErrExists is returned when the destination of a rename or move exists.
	ErrExists = errors.New("destination already exists")
)

// PartialMoveError reports a move that copied the file but could not remove
// the source. Both copies exist afterwards.
type PartialMoveError struct {
	Source      string
	Destination string
	Err         error
}

func (e *PartialMoveError) Error() string {
	return fmt.Sprintf("copied but failed to delete source: %v", e.Err)
}

func (e *PartialMoveError) Unwrap() error {
	return e.Err
}

// Rename gives the file at path a new name in the same directory and returns
// the new path.
func Rename(path, newName string) (string, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" || newName == "." || newName == ".." || strings.ContainsAny(newName, `/\`) {
		record("rename", ErrInvalidName)
		return "", fmt.Errorf("%w: %q", ErrInvalidName, newName)
	}

	target := filepath.Join(filepath.Dir(path), newName)
	if target == path {
		return path, nil
	}
	if err := ensureAbsent(target); err != nil {
		record("rename", err)
		return "", err
	}

	err := os.Rename(path, target)
	record("rename", err)
	if err != nil {
		return "", err
	}

	logging.Info("Renamed %s to %s", path, newName)
	return target, nil
}

// Move moves the file at path into destDir, keeping its name, and returns
// the new path. When a plain rename fails, for example across devices, the
// file is copied and the source removed.
func Move(path, destDir string) (string, error) {
	target := filepath.Join(destDir, filepath.Base(path))
	if err := ensureAbsent(target); err != nil {
		record("move", err)
		return "", err
	}

	renameErr := os.Rename(path, target)
	if renameErr == nil {
		record("move", nil)
		logging.Info("Moved %s to %s", path, destDir)
		return target, nil
	}

	logging.Debug("Rename %s -> %s failed (%v), copying instead", path, target, renameErr)

	if err := copy.Copy(path, target, copy.Options{PreserveTimes: true, Sync: true}); err != nil {
		record("move", err)
		return "", err
	}

	if err := os.Remove(path); err != nil {
		partial := &PartialMoveError{Source: path, Destination: target, Err: err}
		metrics.FileOperationsTotal.WithLabelValues("move", "partial").Inc()
		logging.Warn("Move of %s partial: %v", path, err)
		return target, partial
	}

	record("move", nil)
	logging.Info("Moved %s to %s (copied)", path, destDir)
	return target, nil
}

// Delete removes the file at path.
func Delete(path string) error {
	err := os.Remove(path)
	record("delete", err)
	if err == nil {
		logging.Info("Deleted %s", path)
	}
	return err
}

func ensureAbsent(path string) error {
	_, err := os.Lstat(path)
	if err == nil {
		return fmt.Errorf("%w: %s", ErrExists, path)
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func record(op string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.FileOperationsTotal.WithLabelValues(op, status).Inc()
}
