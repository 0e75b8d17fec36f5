package handlers

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image/png"
	"net/http"

	"file-lister/internal/document"
	"file-lister/internal/logging"
	"file-lister/internal/preview"
	"file-lister/internal/scanner"
	"file-lister/internal/session"

	"github.com/cespare/xxhash/v2"
)

// PreviewResponse reports a preview request or a preview that has no image
// yet.
type PreviewResponse struct {
	Decision string         `json:"decision,omitempty"`
	Status   preview.Status `json:"status"`
}

// RequestPreview asks for a thumbnail of row {index}. It never waits for
// the extraction; poll GetPreview for the image.
func (h *Handlers) RequestPreview(w http.ResponseWriter, r *http.Request) {
	index, ok := indexVar(r)
	if !ok {
		writeJSONError(w, "Invalid index", http.StatusBadRequest)
		return
	}

	var resp PreviewResponse
	err := h.do(r, func(s *session.Session) error {
		decision, err := s.HoverPreview(index)
		if err != nil {
			return err
		}
		_, status, err := s.Preview(index)
		resp = PreviewResponse{Decision: decision.String(), Status: status}
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}

	code := http.StatusOK
	if resp.Status.State == preview.StateLoading {
		code = http.StatusAccepted
	}
	writeJSONStatus(w, code, resp)
}

// GetPreview returns the thumbnail of row {index} as PNG, 202 while it is
// loading, or 404 when there is none.
func (h *Handlers) GetPreview(w http.ResponseWriter, r *http.Request) {
	index, ok := indexVar(r)
	if !ok {
		writeJSONError(w, "Invalid index", http.StatusBadRequest)
		return
	}

	var thumb *preview.Thumbnail
	var status preview.Status
	err := h.do(r, func(s *session.Session) error {
		var err error
		thumb, status, err = s.Preview(index)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}

	switch {
	case thumb != nil:
		writeThumbnail(w, r, thumb)
	case status.State == preview.StateLoading:
		writeJSONStatus(w, http.StatusAccepted, PreviewResponse{Status: status})
	default:
		writeJSONStatus(w, http.StatusNotFound, PreviewResponse{Status: status})
	}
}

// thumbnailETag hashes the decoded pixels and dimensions.
func thumbnailETag(t *preview.Thumbnail) string {
	d := xxhash.New()
	var dims [8]byte
	binary.LittleEndian.PutUint32(dims[:4], uint32(t.Width))
	binary.LittleEndian.PutUint32(dims[4:], uint32(t.Height))
	_, _ = d.Write(dims[:])
	_, _ = d.Write(t.Pixels)
	return fmt.Sprintf(`"%016x"`, d.Sum64())
}

func writeThumbnail(w http.ResponseWriter, r *http.Request, t *preview.Thumbnail) {
	etag := thumbnailETag(t)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, t.Image()); err != nil {
		logging.Error("Failed to encode preview of %s: %v", t.Path, err)
		writeJSONError(w, "Failed to encode preview", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.Debug("Failed to write preview of %s: %v", t.Path, err)
	}
}

// GetDocument returns a text or table preview of row {index}. The file is
// read outside the session loop.
func (h *Handlers) GetDocument(w http.ResponseWriter, r *http.Request) {
	index, ok := indexVar(r)
	if !ok {
		writeJSONError(w, "Invalid index", http.StatusBadRequest)
		return
	}

	var record scanner.FileRecord
	err := h.do(r, func(s *session.Session) error {
		var err error
		record, err = s.File(index)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}

	doc, err := document.Load(record.AbsolutePath, record.Kind())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusOK, doc)
}
