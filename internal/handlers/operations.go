package handlers

import (
	"net/http"
	"strings"

	"file-lister/internal/fileops"
	"file-lister/internal/session"
)

// RenameRequest names the new file name.
type RenameRequest struct {
	Name string `json:"name"`
}

// MoveRequest names the destination directory.
type MoveRequest struct {
	Destination string `json:"destination"`
}

// ExportRequest names the CSV file. Empty uses the configured output.
type ExportRequest struct {
	Path string `json:"path"`
}

// BulkResponse reports a bulk delete or move.
type BulkResponse struct {
	Summary   string        `json:"summary"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Errors    []string      `json:"errors,omitempty"`
	State     session.State `json:"state"`
}

// singleOp runs fn against row {index} and answers with the session state.
// The session records the outcome in its message either way.
func (h *Handlers) singleOp(w http.ResponseWriter, r *http.Request, fn func(s *session.Session, index int) error) {
	index, ok := indexVar(r)
	if !ok {
		writeJSONError(w, "Invalid index", http.StatusBadRequest)
		return
	}
	h.writeState(w, r, http.StatusOK, func(s *session.Session) error {
		return fn(s, index)
	})
}

// RenameFile renames the file in row {index}.
func (h *Handlers) RenameFile(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	h.singleOp(w, r, func(s *session.Session, index int) error {
		return s.Rename(index, req.Name)
	})
}

// DeleteFile deletes the file in row {index}.
func (h *Handlers) DeleteFile(w http.ResponseWriter, r *http.Request) {
	h.singleOp(w, r, func(s *session.Session, index int) error {
		return s.Delete(index)
	})
}

// MoveFile moves the file in row {index}.
func (h *Handlers) MoveFile(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Destination) == "" {
		writeJSONError(w, "Destination is required", http.StatusBadRequest)
		return
	}
	h.singleOp(w, r, func(s *session.Session, index int) error {
		return s.Move(index, req.Destination)
	})
}

// RevealFile opens the platform file manager at the file in row {index}.
func (h *Handlers) RevealFile(w http.ResponseWriter, r *http.Request) {
	h.singleOp(w, r, func(s *session.Session, index int) error {
		return s.Reveal(index)
	})
}

func (h *Handlers) bulkOp(w http.ResponseWriter, r *http.Request, fn func(*session.Session) (fileops.Report, error)) {
	var resp BulkResponse
	err := h.do(r, func(s *session.Session) error {
		report, err := fn(s)
		if err != nil {
			return err
		}
		resp.Summary = report.Summary()
		resp.Succeeded = report.Succeeded
		resp.Failed = report.Failed
		resp.Errors = report.Errors
		resp.State = s.State()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, resp)
}

// DeleteSelected deletes every selected file.
func (h *Handlers) DeleteSelected(w http.ResponseWriter, r *http.Request) {
	h.bulkOp(w, r, func(s *session.Session) (fileops.Report, error) {
		return s.DeleteSelected()
	})
}

// MoveSelected moves every selected file.
func (h *Handlers) MoveSelected(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Destination) == "" {
		writeJSONError(w, "Destination is required", http.StatusBadRequest)
		return
	}
	h.bulkOp(w, r, func(s *session.Session) (fileops.Report, error) {
		return s.MoveSelected(req.Destination)
	})
}

// Export writes the visible rows to a CSV file.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	path := strings.TrimSpace(req.Path)
	if path == "" {
		path = h.exportPath
	}
	h.writeState(w, r, http.StatusOK, func(s *session.Session) error {
		return s.Export(path)
	})
}
