package view

import (
	"reflect"
	"testing"
	"time"

	"file-lister/internal/scanner"
)

func record(rel string, size uint64, mod int64) scanner.FileRecord {
	fullName := rel
	for i := len(rel) - 1; i >= 0; i-- {
		if rel[i] == '/' {
			fullName = rel[i+1:]
			break
		}
	}
	stem, ext := scanner.SplitName(fullName)
	return scanner.FileRecord{
		Name:         stem,
		Extension:    ext,
		FullName:     fullName,
		RelativePath: rel,
		AbsolutePath: "/root/" + rel,
		Size:         size,
		ModTime:      mod,
	}
}

func paths(rows []scanner.FileRecord) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.RelativePath
	}
	return out
}

var fixedNow = time.Date(2024, 5, 10, 15, 30, 0, 0, time.Local)

func sampleSnapshot() scanner.Snapshot {
	today := fixedNow.Add(-2 * time.Hour).Unix()
	yesterday := fixedNow.Add(-24 * time.Hour).Unix()
	return scanner.Snapshot{
		record("a.txt", 30, yesterday),
		record("b.TXT", 10, today),
		record("photos/a.txt", 20, today),
		record("photos/c.jpg", 10, yesterday),
	}
}

func TestDuplicateCountsAreCaseSensitive(t *testing.T) {
	state := Apply(sampleSnapshot(), DefaultOptions(), fixedNow)

	want := map[string]int{"a.txt": 2, "b.TXT": 1, "c.jpg": 1}
	if !reflect.DeepEqual(state.DuplicateCounts, want) {
		t.Errorf("DuplicateCounts = %v, want %v", state.DuplicateCounts, want)
	}
	if got := state.DuplicateCount("A.TXT"); got != 0 {
		t.Errorf("DuplicateCount(A.TXT) = %d, want 0", got)
	}
}

func TestDuplicateCountsIgnoreFilters(t *testing.T) {
	snapshot := sampleSnapshot()
	base := Apply(snapshot, DefaultOptions(), fixedNow)

	variants := []Options{
		{Filter: "photos"},
		{DuplicatesOnly: true},
		{TodayOnly: true},
		{Filter: "zzz", DuplicatesOnly: true, TodayOnly: true},
		{SortKey: SortBySize, SortDirection: Descending},
	}

	for _, opts := range variants {
		state := Apply(snapshot, opts, fixedNow)
		if !reflect.DeepEqual(state.DuplicateCounts, base.DuplicateCounts) {
			t.Errorf("options %+v changed duplicate counts: %v", opts, state.DuplicateCounts)
		}
	}
}

func TestApplyFilters(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "no filters keeps snapshot order under name sort",
			opts: DefaultOptions(),
			want: []string{"a.txt", "photos/a.txt", "b.TXT", "photos/c.jpg"},
		},
		{
			name: "text filter is case-insensitive on extension",
			opts: Options{Filter: "TXT"},
			want: []string{"a.txt", "photos/a.txt", "b.TXT"},
		},
		{
			name: "text filter matches relative path",
			opts: Options{Filter: "PHOTOS"},
			want: []string{"photos/a.txt", "photos/c.jpg"},
		},
		{
			name: "duplicates only",
			opts: Options{DuplicatesOnly: true},
			want: []string{"a.txt", "photos/a.txt"},
		},
		{
			name: "text and duplicates",
			opts: Options{Filter: "a", DuplicatesOnly: true},
			want: []string{"a.txt", "photos/a.txt"},
		},
		{
			name: "today only",
			opts: Options{TodayOnly: true},
			want: []string{"photos/a.txt", "b.TXT"},
		},
		{
			name: "all filters",
			opts: Options{Filter: "txt", DuplicatesOnly: true, TodayOnly: true},
			want: []string{"photos/a.txt"},
		},
		{
			name: "filter with no match",
			opts: Options{Filter: "nothing"},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paths(Apply(sampleSnapshot(), tt.opts, fixedNow).Rows)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("rows = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTextAndDuplicatesScenario(t *testing.T) {
	snapshot := scanner.Snapshot{
		record("x/report.pdf", 1, 0),
		record("y/report.pdf", 1, 0),
		record("z/notes.pdf", 1, 0),
	}

	state := Apply(snapshot, Options{Filter: "REPORT", DuplicatesOnly: true}, fixedNow)

	if got, want := paths(state.Rows), []string{"x/report.pdf", "y/report.pdf"}; !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
	if state.DuplicateCount("report.pdf") != 2 {
		t.Errorf("report.pdf count = %d, want 2", state.DuplicateCount("report.pdf"))
	}
}

func TestSortIsStable(t *testing.T) {
	snapshot := scanner.Snapshot{
		record("a/one.txt", 10, 0),
		record("b/two.txt", 5, 0),
		record("c/three.txt", 10, 0),
		record("d/four.txt", 5, 0),
	}

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "size ascending keeps snapshot order for ties",
			opts: Options{SortKey: SortBySize, SortDirection: Ascending},
			want: []string{"b/two.txt", "d/four.txt", "a/one.txt", "c/three.txt"},
		},
		{
			name: "size descending keeps snapshot order for ties",
			opts: Options{SortKey: SortBySize, SortDirection: Descending},
			want: []string{"a/one.txt", "c/three.txt", "b/two.txt", "d/four.txt"},
		},
		{
			name: "extension sort is all ties",
			opts: Options{SortKey: SortByExtension, SortDirection: Descending},
			want: []string{"a/one.txt", "b/two.txt", "c/three.txt", "d/four.txt"},
		},
		{
			name: "path descending",
			opts: Options{SortKey: SortByPath, SortDirection: Descending},
			want: []string{"d/four.txt", "c/three.txt", "b/two.txt", "a/one.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paths(Apply(snapshot, tt.opts, fixedNow).Rows)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("rows = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortByNameIgnoresCase(t *testing.T) {
	snapshot := scanner.Snapshot{
		record("Banana.txt", 1, 0),
		record("apple.txt", 1, 0),
		record("cherry.txt", 1, 0),
	}

	got := paths(Apply(snapshot, Options{SortKey: SortByName}, fixedNow).Rows)
	if want := []string{"apple.txt", "Banana.txt", "cherry.txt"}; !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
}

func TestSortByModified(t *testing.T) {
	snapshot := scanner.Snapshot{
		record("new.txt", 1, 300),
		record("unknown.txt", 1, 0),
		record("old.txt", 1, 100),
	}

	got := paths(Apply(snapshot, Options{SortKey: SortByModified}, fixedNow).Rows)
	if want := []string{"unknown.txt", "old.txt", "new.txt"}; !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
}

func TestTodayWindow(t *testing.T) {
	start, end := TodayWindow(fixedNow)

	midnight := time.Date(2024, 5, 10, 0, 0, 0, 0, time.Local).Unix()
	if start != midnight {
		t.Errorf("start = %d, want %d", start, midnight)
	}
	if end-start != 86400 {
		t.Errorf("window length = %d, want 86400", end-start)
	}

	snapshot := scanner.Snapshot{
		record("at-midnight.txt", 1, start),
		record("last-second.txt", 1, end-1),
		record("next-day.txt", 1, end),
		record("before.txt", 1, start-1),
	}
	got := paths(Apply(snapshot, Options{TodayOnly: true}, fixedNow).Rows)
	if want := []string{"at-midnight.txt", "last-second.txt"}; !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		input   string
		want    SortKey
		wantErr bool
	}{
		{"name", SortByName, false},
		{"Extension", SortByExtension, false},
		{"size", SortBySize, false},
		{"path", SortByPath, false},
		{"modified", SortByModified, false},
		{"date", SortByModified, false},
		{"color", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSortKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSortKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSortKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
