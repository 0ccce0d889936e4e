package handler

import (
	"net/http"
	"time"

	"traderhub-api/pkg/response"
)

// HealthHandler serves the status and health endpoints.
type HealthHandler struct {
	appName string
	version string
	started time.Time
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(appName, version string) *HealthHandler {
	return &HealthHandler{appName: appName, version: version, started: time.Now()}
}

// Status reports the service identity.
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]interface{}{
		"service": h.appName,
		"version": h.version,
		"status":  "ok",
	})
}

// Health reports liveness and uptime.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]interface{}{
		"status": "healthy",
		"uptime": time.Since(h.started).String(),
	})
}
