package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"file-lister/internal/filetypes"
)

// FileRecord describes one regular file found by a scan. Records are
// immutable once produced.
type FileRecord struct {
	// Name is the file name without its final extension.
	Name string `json:"name"`
	// Extension is the text after the last dot, without the dot, as found on disk.
	Extension string `json:"extension"`
	// FullName is the complete file name.
	FullName string `json:"fullName"`
	// RelativePath is the path relative to the scan root, using OS separators.
	RelativePath string `json:"relativePath"`
	// AbsolutePath is the canonical path with symbolic links resolved when
	// possible. It identifies the file for previews and file operations.
	AbsolutePath string `json:"absolutePath"`
	// Size is the file size in bytes, 0 when metadata was unavailable.
	Size uint64 `json:"size"`
	// ModTime is the last modification time in Unix seconds, 0 when unavailable.
	ModTime int64 `json:"modTime"`
}

// Snapshot is the complete, ordered result of one successful scan.
type Snapshot []FileRecord

// SplitName splits a file name into stem and extension at the last dot.
// A leading dot does not start an extension, so ".bashrc" has no extension
// while "archive." has an empty one.
func SplitName(fullName string) (stem, ext string) {
	idx := strings.LastIndexByte(fullName, '.')
	if idx <= 0 {
		return fullName, ""
	}
	return fullName[:idx], fullName[idx+1:]
}

// newFileRecord builds a record for path under root. info may be nil when
// metadata could not be read, in which case size and time are zero.
func newFileRecord(root, path string, info os.FileInfo) FileRecord {
	fullName := filepath.Base(path)
	stem, ext := SplitName(fullName)

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	record := FileRecord{
		Name:         stem,
		Extension:    ext,
		FullName:     fullName,
		RelativePath: rel,
		AbsolutePath: canonicalPath(path),
	}

	if info != nil {
		if size := info.Size(); size > 0 {
			record.Size = uint64(size)
		}
		if mod := info.ModTime(); !mod.IsZero() {
			record.ModTime = mod.Unix()
		}
	}

	return record
}

// canonicalPath resolves path to an absolute path with symbolic links
// evaluated, falling back to the plain absolute path and then to path itself.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// Kind returns the preview kind derived from the record's extension.
func (r FileRecord) Kind() filetypes.Kind {
	return filetypes.KindOf(r.Extension)
}

// Modified returns the modification time, or the zero time when unknown.
func (r FileRecord) Modified() time.Time {
	if r.ModTime == 0 {
		return time.Time{}
	}
	return time.Unix(r.ModTime, 0)
}

// SortKey returns the case-insensitive, separator-independent form of the
// relative path used to order snapshots.
func (r FileRecord) SortKey() string {
	return strings.ToLower(filepath.ToSlash(r.RelativePath))
}
