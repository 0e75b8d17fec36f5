package handlers

import (
	"net/http"
	"runtime"
	"time"

	"file-lister/internal/session"
	"file-lister/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
	statusStopped  = "stopped"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime"`
	Scanning bool   `json:"scanning"`
	Files    int    `json:"files"`

	// Capabilities maps each preview backend to whether it is usable.
	Capabilities map[string]session.CapabilityState `json:"capabilities"`

	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck reports whether the session loop is responsive. A missing
// preview backend degrades the status but does not fail the check.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Version:      startup.Version,
		Uptime:       time.Since(h.started).Round(time.Second).String(),
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	var state session.State
	err := h.do(r, func(s *session.Session) error {
		state = s.State()
		return nil
	})
	if err != nil {
		response.Status = statusStopped
		writeJSONStatus(w, http.StatusServiceUnavailable, response)
		return
	}

	response.Status = statusHealthy
	response.Scanning = state.Scanning
	response.Files = state.Total
	response.Capabilities = state.Capabilities
	for _, c := range state.Capabilities {
		if !c.Ready {
			response.Status = statusDegraded
		}
	}

	writeJSONStatus(w, http.StatusOK, response)
}
