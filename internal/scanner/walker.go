package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"file-lister/internal/filesystem"
	"file-lister/internal/logging"
)

// ErrorKind classifies scan failures.
type ErrorKind int

const (
	// ErrNotADirectory means the scan root is missing or not a directory.
	ErrNotADirectory ErrorKind = iota + 1
	// ErrIO means a directory could not be read during the walk.
	ErrIO
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNotADirectory:
		return "not a directory"
	case ErrIO:
		return "io error"
	default:
		return "unknown"
	}
}

// ScanError is returned when a scan fails. A failed scan yields no records.
type ScanError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	switch e.Kind {
	case ErrNotADirectory:
		return "not a directory: " + e.Path
	default:
		if e.Err != nil {
			return "failed to read directory " + e.Path + ": " + e.Err.Error()
		}
		return "failed to read directory " + e.Path
	}
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a ScanError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var scanErr *ScanError
	return errors.As(err, &scanErr) && scanErr.Kind == kind
}

// Scan validates root, walks it and returns the snapshot ordered by
// case-insensitive relative path.
func Scan(root string, recursive bool) (Snapshot, error) {
	info, err := filesystem.StatWithRetry(root, filesystem.DefaultRetryConfig())
	if err != nil || !info.IsDir() {
		return nil, &ScanError{Kind: ErrNotADirectory, Path: root, Err: err}
	}

	records, err := Walk(root, recursive)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].SortKey() < records[j].SortKey()
	})

	return Snapshot(records), nil
}

// Walk lists the regular files under root. Without recursive only direct
// children are listed. Directories reached through symbolic links are
// followed as the OS resolves them; link cycles are not detected.
//
// Failing to read any directory aborts the walk. Failing to read a single
// entry's metadata does not: the file is kept with zero size and time.
// Entries that resolve to neither a file nor a directory, such as broken
// links, are skipped.
func Walk(root string, recursive bool) ([]FileRecord, error) {
	start := time.Now()
	w := &walker{
		root:      root,
		recursive: recursive,
		retry:     filesystem.DefaultRetryConfig(),
	}

	if err := w.walkDir(root); err != nil {
		logging.Warn("Walk of %s aborted: %v", root, err)
		return nil, err
	}

	logging.Debug("Walked %s in %v: %d files (recursive=%v)", root, time.Since(start), len(w.records), recursive)
	return w.records, nil
}

type walker struct {
	root      string
	recursive bool
	retry     filesystem.RetryConfig
	records   []FileRecord
}

func (w *walker) walkDir(dir string) error {
	entries, err := filesystem.ReadDirWithRetry(dir, w.retry)
	if err != nil {
		return &ScanError{Kind: ErrIO, Path: dir, Err: err}
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		info, err := filesystem.StatWithRetry(path, w.retry)
		if err != nil {
			if entry.Type().IsRegular() {
				logging.Debug("Metadata unavailable for %s: %v", path, err)
				w.records = append(w.records, newFileRecord(w.root, path, nil))
			} else {
				logging.Debug("Skipping unresolvable entry %s: %v", path, err)
			}
			continue
		}

		switch {
		case info.IsDir():
			if !w.recursive {
				continue
			}
			if err := w.walkDir(path); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			w.records = append(w.records, newFileRecord(w.root, path, info))
		}
	}

	return nil
}
