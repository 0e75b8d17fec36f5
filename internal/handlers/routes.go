package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers every API route. /metrics is only served when
// metricsEnabled is set.
func NewRouter(h *Handlers, metricsEnabled bool) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet)
	if metricsEnabled {
		r.Handle("/metrics", h.MetricsHandler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", h.GetState).Methods(http.MethodGet)
	api.HandleFunc("/scan", h.StartScan).Methods(http.MethodPost)
	api.HandleFunc("/rescan", h.Rescan).Methods(http.MethodPost)
	api.HandleFunc("/export", h.Export).Methods(http.MethodPost)

	// Listing and view
	api.HandleFunc("/files", h.ListFiles).Methods(http.MethodGet)
	api.HandleFunc("/view", h.SetView).Methods(http.MethodPut)
	api.HandleFunc("/sort/{key}", h.ToggleSort).Methods(http.MethodPost)

	// Single-file operations
	api.HandleFunc("/files/{index:[0-9]+}", h.DeleteFile).Methods(http.MethodDelete)
	api.HandleFunc("/files/{index:[0-9]+}/rename", h.RenameFile).Methods(http.MethodPost)
	api.HandleFunc("/files/{index:[0-9]+}/move", h.MoveFile).Methods(http.MethodPost)
	api.HandleFunc("/files/{index:[0-9]+}/reveal", h.RevealFile).Methods(http.MethodPost)

	// Selection and bulk operations
	api.HandleFunc("/selection/all", h.SelectAll).Methods(http.MethodPost)
	api.HandleFunc("/selection", h.ClearSelection).Methods(http.MethodDelete)
	api.HandleFunc("/selection/{index:[0-9]+}", h.ToggleSelection).Methods(http.MethodPost)
	api.HandleFunc("/selection/delete", h.DeleteSelected).Methods(http.MethodPost)
	api.HandleFunc("/selection/move", h.MoveSelected).Methods(http.MethodPost)

	// Previews
	api.HandleFunc("/preview/{index:[0-9]+}", h.RequestPreview).Methods(http.MethodPost)
	api.HandleFunc("/preview/{index:[0-9]+}", h.GetPreview).Methods(http.MethodGet)
	api.HandleFunc("/document/{index:[0-9]+}", h.GetDocument).Methods(http.MethodGet)

	return r
}
