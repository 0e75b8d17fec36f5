package handlers

import (
	"fmt"
	"net/http"

	"file-lister/internal/session"
	"file-lister/internal/view"

	"github.com/gorilla/mux"
)

// ScanRequest starts a scan of Folder.
type ScanRequest struct {
	Folder    string `json:"folder"`
	Recursive bool   `json:"recursive"`
}

// ViewRequest changes view options. Nil fields are left as they are.
type ViewRequest struct {
	Filter         *string `json:"filter"`
	DuplicatesOnly *bool   `json:"duplicatesOnly"`
	TodayOnly      *bool   `json:"todayOnly"`
	SortKey        *string `json:"sortKey"`
	SortDirection  *string `json:"sortDirection"`
}

func (req ViewRequest) apply(opts view.Options) (view.Options, error) {
	if req.Filter != nil {
		opts.Filter = *req.Filter
	}
	if req.DuplicatesOnly != nil {
		opts.DuplicatesOnly = *req.DuplicatesOnly
	}
	if req.TodayOnly != nil {
		opts.TodayOnly = *req.TodayOnly
	}
	if req.SortKey != nil {
		key, err := view.ParseSortKey(*req.SortKey)
		if err != nil {
			return opts, err
		}
		opts.SortKey = key
	}
	if req.SortDirection != nil {
		switch dir := view.SortDirection(*req.SortDirection); dir {
		case view.Ascending, view.Descending:
			opts.SortDirection = dir
		default:
			return opts, fmt.Errorf("unknown sort direction %q", *req.SortDirection)
		}
	}
	return opts, nil
}

// FilesResponse is the visible listing.
type FilesResponse struct {
	Generation uint64        `json:"generation"`
	Total      int           `json:"total"`
	Rows       []session.Row `json:"rows"`
}

// writeState answers with the session state after fn ran.
func (h *Handlers) writeState(w http.ResponseWriter, r *http.Request, status int, fn func(*session.Session) error) {
	var state session.State
	err := h.do(r, func(s *session.Session) error {
		if err := fn(s); err != nil {
			return err
		}
		state = s.State()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatus(w, status, state)
}

// GetState returns the session summary.
func (h *Handlers) GetState(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r, http.StatusOK, func(*session.Session) error { return nil })
}

// StartScan scans a new folder in the background.
func (h *Handlers) StartScan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	h.writeState(w, r, http.StatusAccepted, func(s *session.Session) error {
		return s.StartScan(req.Folder, req.Recursive)
	})
}

// Rescan repeats the last scan.
func (h *Handlers) Rescan(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r, http.StatusAccepted, func(s *session.Session) error {
		if s.State().Root == "" {
			return session.ErrNoFolder
		}
		s.Rescan()
		return nil
	})
}

// ListFiles returns the visible rows.
func (h *Handlers) ListFiles(w http.ResponseWriter, r *http.Request) {
	var resp FilesResponse
	err := h.do(r, func(s *session.Session) error {
		state := s.State()
		resp.Generation = state.Generation
		resp.Total = state.Total
		resp.Rows = s.Rows()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, resp)
}

// SetView updates the filter and sort options.
func (h *Handlers) SetView(w http.ResponseWriter, r *http.Request) {
	var req ViewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h.writeState(w, r, http.StatusOK, func(s *session.Session) error {
		opts, err := req.apply(s.State().Options)
		if err != nil {
			return fmt.Errorf("%w: %v", errInvalidRequest, err)
		}
		s.SetOptions(opts)
		return nil
	})
}

// ToggleSort sorts by {key}, reversing direction when it is already the
// sort column.
func (h *Handlers) ToggleSort(w http.ResponseWriter, r *http.Request) {
	key, err := view.ParseSortKey(mux.Vars(r)["key"])
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.writeState(w, r, http.StatusOK, func(s *session.Session) error {
		s.ToggleSort(key)
		return nil
	})
}

// ToggleSelection flips the selection of row {index}.
func (h *Handlers) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	index, ok := indexVar(r)
	if !ok {
		writeJSONError(w, "Invalid index", http.StatusBadRequest)
		return
	}
	h.writeState(w, r, http.StatusOK, func(s *session.Session) error {
		_, err := s.ToggleSelection(index)
		return err
	})
}

// SelectAll selects every visible row.
func (h *Handlers) SelectAll(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r, http.StatusOK, func(s *session.Session) error {
		s.SelectAll()
		return nil
	})
}

// ClearSelection deselects every row.
func (h *Handlers) ClearSelection(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r, http.StatusOK, func(s *session.Session) error {
		s.ClearSelection()
		return nil
	})
}
