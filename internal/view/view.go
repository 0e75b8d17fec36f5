package view

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"file-lister/internal/scanner"
)

// SortKey specifies which column rows are ordered by.
type SortKey string

// SortDirection specifies the direction of sorting.
type SortDirection string

const (
	// SortByName orders by file stem, case-insensitively.
	SortByName SortKey = "name"
	// SortByExtension orders by extension, case-insensitively.
	SortByExtension SortKey = "extension"
	// SortBySize orders by size in bytes.
	SortBySize SortKey = "size"
	// SortByPath orders by relative path, case-insensitively.
	SortByPath SortKey = "path"
	// SortByModified orders by modification time.
	SortByModified SortKey = "modified"

	// Ascending sorts smallest first.
	Ascending SortDirection = "asc"
	// Descending sorts largest first.
	Descending SortDirection = "desc"
)

// ParseSortKey validates a column name.
func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(strings.ToLower(s)); key {
	case SortByName, SortByExtension, SortBySize, SortByPath, SortByModified:
		return key, nil
	case "date":
		return SortByModified, nil
	default:
		return "", fmt.Errorf("unknown sort column %q", s)
	}
}

// Options are the user-controlled view parameters.
type Options struct {
	SortKey        SortKey       `json:"sortKey"`
	SortDirection  SortDirection `json:"sortDirection"`
	Filter         string        `json:"filter"`
	DuplicatesOnly bool          `json:"duplicatesOnly"`
	TodayOnly      bool          `json:"todayOnly"`
}

// DefaultOptions sorts by name ascending with no filters.
func DefaultOptions() Options {
	return Options{SortKey: SortByName, SortDirection: Ascending}
}

// State is the derived view of a snapshot.
type State struct {
	// DuplicateCounts maps each full file name to the number of records in
	// the whole snapshot carrying it. Names are compared case-sensitively.
	DuplicateCounts map[string]int
	// Rows are the visible records in display order.
	Rows []scanner.FileRecord
}

// DuplicateCount returns how many snapshot records share fullName.
func (s State) DuplicateCount(fullName string) int {
	return s.DuplicateCounts[fullName]
}

// CountDuplicates counts full names over the whole snapshot.
func CountDuplicates(snapshot scanner.Snapshot) map[string]int {
	counts := make(map[string]int, len(snapshot))
	for _, r := range snapshot {
		counts[r.FullName]++
	}
	return counts
}

// TodayWindow returns the [start, end) Unix-second window of the local
// calendar day containing now.
func TodayWindow(now time.Time) (start, end int64) {
	y, m, d := now.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, now.Location()).Unix()
	return start, start + 86400
}

// Apply derives the visible rows from snapshot. Stages run in order: text
// filter, duplicates-only, today-only, then a stable sort. Records with
// equal sort keys keep their snapshot order. Duplicate counts always cover
// the whole snapshot, regardless of filters.
func Apply(snapshot scanner.Snapshot, opts Options, now time.Time) State {
	counts := CountDuplicates(snapshot)

	query := strings.ToLower(opts.Filter)
	todayStart, todayEnd := TodayWindow(now)

	rows := make([]scanner.FileRecord, 0, len(snapshot))
	for _, r := range snapshot {
		if query != "" && !matches(r, query) {
			continue
		}
		if opts.DuplicatesOnly && counts[r.FullName] <= 1 {
			continue
		}
		if opts.TodayOnly && (r.ModTime < todayStart || r.ModTime >= todayEnd) {
			continue
		}
		rows = append(rows, r)
	}

	sortRows(rows, opts.SortKey, opts.SortDirection)

	return State{DuplicateCounts: counts, Rows: rows}
}

func matches(r scanner.FileRecord, query string) bool {
	return strings.Contains(strings.ToLower(r.Name), query) ||
		strings.Contains(strings.ToLower(r.Extension), query) ||
		strings.Contains(strings.ToLower(r.RelativePath), query) ||
		strings.Contains(strings.ToLower(r.FullName), query)
}

func compare(a, b scanner.FileRecord, key SortKey) int {
	switch key {
	case SortByExtension:
		return strings.Compare(strings.ToLower(a.Extension), strings.ToLower(b.Extension))
	case SortBySize:
		switch {
		case a.Size < b.Size:
			return -1
		case a.Size > b.Size:
			return 1
		}
		return 0
	case SortByPath:
		return strings.Compare(a.SortKey(), b.SortKey())
	case SortByModified:
		switch {
		case a.ModTime < b.ModTime:
			return -1
		case a.ModTime > b.ModTime:
			return 1
		}
		return 0
	default:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}
}

func sortRows(rows []scanner.FileRecord, key SortKey, dir SortDirection) {
	sort.SliceStable(rows, func(i, j int) bool {
		c := compare(rows[i], rows[j], key)
		if dir == Descending {
			return c > 0
		}
		return c < 0
	})
}
