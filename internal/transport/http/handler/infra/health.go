package infra

import (
	"net/http"
	"time"

	"github.com/mandalnilabja/chatrelay/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/chatrelay/internal/version"
)

// RootStatus returns JSON status and version information at /.
func (h *Handlers) RootStatus(w http.ResponseWriter, r *http.Request) {
	configured := h.Configured != nil && h.Configured()
	shared.WriteJSON(w, map[string]any{
		"name":           version.AppName,
		"version":        version.Version,
		"status":         "running",
		"configured":     configured,
		"chat":           "/api/chat",
		"uptime_seconds": int64(time.Since(h.StartTime).Seconds()),
	}, http.StatusOK)
}

// HealthCheck handler returns the application health status.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, map[string]string{
		"status": "active",
		"app":    version.AppName,
	}, http.StatusOK)
}
