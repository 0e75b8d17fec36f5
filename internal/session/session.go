package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"file-lister/internal/capability"
	"file-lister/internal/export"
	"file-lister/internal/fileops"
	"file-lister/internal/filetypes"
	"file-lister/internal/logging"
	"file-lister/internal/preview"
	"file-lister/internal/scanner"
	"file-lister/internal/view"

	"github.com/dustin/go-humanize"
)

var (
	// ErrNoFolder is returned when a scan is requested without a folder.
	ErrNoFolder = errors.New("no folder selected")
	// ErrIndexOutOfRange is returned for a row index that is not visible.
	ErrIndexOutOfRange = errors.New("row index out of range")
	// ErrNoSelection is returned by bulk operations with nothing selected.
	ErrNoSelection = errors.New("no files selected")
)

// Config wires a Session to its collaborators.
type Config struct {
	// Scan replaces the directory walk, mainly for tests.
	Scan scanner.ScanFunc
	// Preview bounds thumbnail extraction.
	Preview preview.Config
	// Backends extract thumbnails by kind.
	Backends map[filetypes.Kind]preview.Backend
	// Capabilities are reported in State.
	Capabilities []*capability.Capability
}

// Session is the single owner of the scan, view, selection and preview
// state. It is not safe for concurrent use; run it inside a [Loop] when
// more than one goroutine needs it.
type Session struct {
	coord   *scanner.Coordinator
	engine  *view.Engine
	preview *preview.Pipeline
	caps    []*capability.Capability

	root      string
	recursive bool

	selection    map[int]struct{}
	selectionGen uint64

	status  string
	message string
	lastErr string
}

// New creates an idle session with an empty listing.
func New(cfg Config) *Session {
	if cfg.Preview == (preview.Config{}) {
		cfg.Preview = preview.DefaultConfig()
	}
	s := &Session{
		coord:     scanner.NewCoordinator(cfg.Scan),
		engine:    view.NewEngine(),
		preview:   preview.NewPipeline(cfg.Preview, cfg.Backends),
		caps:      cfg.Capabilities,
		selection: make(map[int]struct{}),
		status:    "Select a folder to scan",
	}
	s.selectionGen = s.engine.Generation()
	return s
}

// SetClock replaces the time source for the view and the preview timeout.
func (s *Session) SetClock(now func() time.Time) {
	s.engine.SetClock(now)
	s.preview.SetClock(now)
	s.syncSelection()
}

// StartScan scans root in the background. Selection and cached previews
// are dropped immediately since they refer to the previous listing.
func (s *Session) StartScan(root string, recursive bool) error {
	root = strings.TrimSpace(root)
	if root == "" {
		return ErrNoFolder
	}

	s.root = root
	s.recursive = recursive
	s.message = ""
	s.lastErr = ""
	s.startScan()
	return nil
}

// Rescan repeats the last scan, keeping the outcome of the last file
// operation visible. It does nothing before the first scan.
func (s *Session) Rescan() {
	if s.root == "" {
		return
	}
	s.startScan()
}

func (s *Session) startScan() {
	s.coord.Start(s.root, s.recursive)
	s.preview.Clear()
	s.clearSelection()
	s.status = "Scanning..."
}

// Tick collects finished background work. It never blocks.
func (s *Session) Tick() {
	if res, ok := s.coord.TryCollect(); ok {
		// Previews requested while the scan ran belong to the old listing.
		s.preview.Clear()
		if res.Err != nil {
			s.engine.SetSnapshot(nil)
			s.status = ""
			s.lastErr = fmt.Sprintf("Error scanning folder: %v", res.Err)
		} else {
			s.engine.SetSnapshot(res.Snapshot)
			s.status = fmt.Sprintf("Scanned: %d files found", len(res.Snapshot))
		}
	}

	if thumb, ok := s.preview.Poll(); ok {
		logging.Debug("Preview ready for %s (%dx%d)", thumb.Path, thumb.Width, thumb.Height)
	}

	s.syncSelection()
}

// SetFilter sets the text filter.
func (s *Session) SetFilter(filter string) {
	s.engine.SetFilter(filter)
	s.syncSelection()
}

// SetDuplicatesOnly toggles the duplicates-only filter.
func (s *Session) SetDuplicatesOnly(on bool) {
	s.engine.SetDuplicatesOnly(on)
	s.syncSelection()
}

// SetTodayOnly toggles the modified-today filter.
func (s *Session) SetTodayOnly(on bool) {
	s.engine.SetTodayOnly(on)
	s.syncSelection()
}

// SetOptions replaces all view options.
func (s *Session) SetOptions(opts view.Options) {
	s.engine.SetOptions(opts)
	s.syncSelection()
}

// ToggleSort sorts by key, flipping the direction if it is already active.
func (s *Session) ToggleSort(key view.SortKey) {
	s.engine.ToggleSort(key)
	s.syncSelection()
}

// syncSelection drops the selection when the visible rows changed, since
// it holds row indices.
func (s *Session) syncSelection() {
	if gen := s.engine.Generation(); gen != s.selectionGen {
		s.clearSelection()
		s.selectionGen = gen
	}
}

func (s *Session) clearSelection() {
	if len(s.selection) > 0 {
		s.selection = make(map[int]struct{})
	}
}

func (s *Session) row(index int) (scanner.FileRecord, error) {
	r, ok := s.engine.Row(index)
	if !ok {
		return scanner.FileRecord{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return r, nil
}

// ToggleSelection selects or deselects a row and returns whether it is now
// selected.
func (s *Session) ToggleSelection(index int) (bool, error) {
	if _, err := s.row(index); err != nil {
		return false, err
	}
	if _, ok := s.selection[index]; ok {
		delete(s.selection, index)
		return false, nil
	}
	s.selection[index] = struct{}{}
	return true, nil
}

// SelectAll selects every visible row.
func (s *Session) SelectAll() {
	for i := range s.engine.Rows() {
		s.selection[i] = struct{}{}
	}
}

// ClearSelection deselects every row.
func (s *Session) ClearSelection() {
	s.clearSelection()
}

// Selected returns the selected row indices in ascending order.
func (s *Session) Selected() []int {
	out := make([]int, 0, len(s.selection))
	for i := range s.selection {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func (s *Session) selectedTargets() []fileops.Target {
	var targets []fileops.Target
	for _, i := range s.Selected() {
		if r, ok := s.engine.Row(i); ok {
			targets = append(targets, fileops.Target{Path: r.AbsolutePath, Name: r.FullName})
		}
	}
	return targets
}

func (s *Session) succeed(message string) {
	s.message = message
	s.lastErr = ""
}

func (s *Session) fail(format string, err error) {
	s.message = ""
	s.lastErr = fmt.Sprintf(format, err)
}

// Rename renames the file in row index. An empty or unchanged name is
// ignored.
func (s *Session) Rename(index int, newName string) error {
	r, err := s.row(index)
	if err != nil {
		return err
	}
	newName = strings.TrimSpace(newName)
	if newName == "" || newName == r.FullName {
		return nil
	}

	defer s.Rescan()
	if _, err := fileops.Rename(r.AbsolutePath, newName); err != nil {
		s.fail("Rename failed: %v", err)
		return err
	}
	s.succeed(fmt.Sprintf("Renamed to: %s", newName))
	return nil
}

// Delete deletes the file in row index.
func (s *Session) Delete(index int) error {
	r, err := s.row(index)
	if err != nil {
		return err
	}

	defer s.Rescan()
	if err := fileops.Delete(r.AbsolutePath); err != nil {
		s.fail("Delete failed: %v", err)
		return err
	}
	s.succeed(fmt.Sprintf("Deleted: %s", r.FullName))
	return nil
}

// Move moves the file in row index into destDir.
func (s *Session) Move(index int, destDir string) error {
	r, err := s.row(index)
	if err != nil {
		return err
	}

	defer s.Rescan()
	_, err = fileops.Move(r.AbsolutePath, destDir)
	var partial *fileops.PartialMoveError
	switch {
	case errors.As(err, &partial):
		s.fail("Move partial: %v", err)
		return err
	case err != nil:
		s.fail("Move failed: %v", err)
		return err
	}
	s.succeed(fmt.Sprintf("Moved: %s → %s", r.FullName, filepath.Clean(destDir)))
	return nil
}

// DeleteSelected deletes every selected file.
func (s *Session) DeleteSelected() (fileops.Report, error) {
	targets := s.selectedTargets()
	if len(targets) == 0 {
		return fileops.Report{}, ErrNoSelection
	}

	report := fileops.DeleteAll(targets)
	s.applyReport(report)
	return report, nil
}

// MoveSelected moves every selected file into destDir.
func (s *Session) MoveSelected(destDir string) (fileops.Report, error) {
	targets := s.selectedTargets()
	if len(targets) == 0 {
		return fileops.Report{}, ErrNoSelection
	}

	report := fileops.MoveAll(targets, filepath.Clean(destDir))
	s.applyReport(report)
	return report, nil
}

func (s *Session) applyReport(report fileops.Report) {
	s.message = report.Summary()
	s.lastErr = report.Details()
	s.clearSelection()
	s.Rescan()
}

// Export writes the visible rows to path as CSV.
func (s *Session) Export(path string) error {
	rows := s.engine.Rows()
	if err := export.ToFile(path, rows); err != nil {
		s.fail("Export failed: %v", err)
		return err
	}
	s.succeed(fmt.Sprintf("Exported %d files to: %s", len(rows), path))
	return nil
}

// Reveal opens the file manager at the file in row index.
func (s *Session) Reveal(index int) error {
	r, err := s.row(index)
	if err != nil {
		return err
	}
	return fileops.Reveal(r.AbsolutePath)
}

// HoverPreview requests a thumbnail for row index.
func (s *Session) HoverPreview(index int) (preview.Decision, error) {
	r, err := s.row(index)
	if err != nil {
		return preview.Unsupported, err
	}
	return s.preview.Request(r.AbsolutePath, r.Kind()), nil
}

// Preview returns the cached thumbnail for row index, if any, and the
// preview status of its file.
func (s *Session) Preview(index int) (*preview.Thumbnail, preview.Status, error) {
	r, err := s.row(index)
	if err != nil {
		return nil, preview.Status{}, err
	}
	thumb, _ := s.preview.Get(r.AbsolutePath)
	return thumb, s.preview.Status(r.AbsolutePath), nil
}

// File returns the record in row index. Callers that read the file, such
// as document previews, should do so off the loop goroutine.
func (s *Session) File(index int) (scanner.FileRecord, error) {
	return s.row(index)
}

// Row is a visible file as presented to clients.
type Row struct {
	scanner.FileRecord
	Index      int            `json:"index"`
	Kind       filetypes.Kind `json:"kind"`
	SizeText   string         `json:"sizeText"`
	Modified   string         `json:"modified"`
	Duplicates int            `json:"duplicates"`
	Selected   bool           `json:"selected"`
}

// Rows returns the visible rows.
func (s *Session) Rows() []Row {
	state := s.engine.State()
	rows := make([]Row, len(state.Rows))
	for i, r := range state.Rows {
		_, selected := s.selection[i]
		rows[i] = Row{
			FileRecord: r,
			Index:      i,
			Kind:       r.Kind(),
			SizeText:   humanize.IBytes(r.Size),
			Modified:   formatModified(r.ModTime),
			Duplicates: state.DuplicateCount(r.FullName),
			Selected:   selected,
		}
	}
	return rows
}

func formatModified(unix int64) string {
	if unix == 0 {
		return ""
	}
	return time.Unix(unix, 0).Format("2006-01-02 15:04")
}

// CapabilityState reports a backend's readiness.
type CapabilityState struct {
	Ready      bool `json:"ready"`
	Installing bool `json:"installing"`
}

// PreviewState reports the in-flight extraction.
type PreviewState struct {
	Path    string        `json:"path"`
	Elapsed time.Duration `json:"elapsed"`
}

// State summarizes the session for clients.
type State struct {
	Root         string                     `json:"root"`
	Recursive    bool                       `json:"recursive"`
	Scanning     bool                       `json:"scanning"`
	ScanElapsed  time.Duration              `json:"scanElapsed,omitempty"`
	Status       string                     `json:"status"`
	Message      string                     `json:"message,omitempty"`
	Error        string                     `json:"error,omitempty"`
	Options      view.Options               `json:"options"`
	Total        int                        `json:"total"`
	Visible      int                        `json:"visible"`
	Selected     []int                      `json:"selected"`
	Generation   uint64                     `json:"generation"`
	Loading      *PreviewState              `json:"loading,omitempty"`
	Cached       int                        `json:"cachedPreviews"`
	Capabilities map[string]CapabilityState `json:"capabilities"`
}

// State returns a summary of the session.
func (s *Session) State() State {
	st := State{
		Root:         s.root,
		Recursive:    s.recursive,
		Scanning:     s.coord.Scanning(),
		ScanElapsed:  s.coord.Elapsed(),
		Status:       s.status,
		Message:      s.message,
		Error:        s.lastErr,
		Options:      s.engine.Options(),
		Total:        len(s.engine.Snapshot()),
		Visible:      len(s.engine.Rows()),
		Selected:     s.Selected(),
		Generation:   s.engine.Generation(),
		Cached:       s.preview.Len(),
		Capabilities: make(map[string]CapabilityState, len(s.caps)),
	}
	if path, elapsed, ok := s.preview.Loading(); ok {
		st.Loading = &PreviewState{Path: path, Elapsed: elapsed}
	}
	for _, c := range s.caps {
		st.Capabilities[c.Name()] = CapabilityState{Ready: c.Ready(), Installing: c.Installing()}
	}
	return st
}
