package handlers

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"file-lister/internal/document"
	"file-lister/internal/fileops"
	"file-lister/internal/session"

	"github.com/gorilla/mux"
)

// requestTimeout bounds how long a request waits for the session loop.
const requestTimeout = 5 * time.Second

var errInvalidRequest = errors.New("invalid request")

// Handlers serves the interactive API. Every request runs on the session
// loop goroutine, so handlers never touch session state directly.
type Handlers struct {
	loop       *session.Loop
	exportPath string
	started    time.Time
}

// New creates handlers backed by loop. exportPath is used when an export
// request does not name a file.
func New(loop *session.Loop, exportPath string) *Handlers {
	return &Handlers{
		loop:       loop,
		exportPath: exportPath,
		started:    time.Now(),
	}
}

// do runs fn on the session loop with a bounded wait.
func (h *Handlers) do(r *http.Request, fn func(*session.Session) error) error {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	return h.loop.Do(ctx, fn)
}

// errorStatus maps session and file operation errors to HTTP status codes.
func errorStatus(err error) int {
	var partial *fileops.PartialMoveError
	switch {
	case errors.Is(err, session.ErrIndexOutOfRange), errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, session.ErrNoFolder),
		errors.Is(err, session.ErrNoSelection),
		errors.Is(err, fileops.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, fileops.ErrExists), errors.As(err, &partial):
		return http.StatusConflict
	case errors.Is(err, document.ErrUnsupported):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, session.ErrStopped),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// indexVar parses the {index} route variable.
func indexVar(r *http.Request) (int, bool) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}
