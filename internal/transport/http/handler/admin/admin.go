// Package admin serves the read-mostly usage ledger API.
package admin

import (
	"net/http"
	"time"

	"github.com/mandalnilabja/chatrelay/internal/storage"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/handler/shared"
)

// Handlers holds the dependencies for admin HTTP handlers.
type Handlers struct {
	Storage   storage.Storage // nil when the usage log is disabled
	StartTime time.Time
}

// New creates a new instance of admin handlers.
func New(store storage.Storage, startTime time.Time) *Handlers {
	return &Handlers{
		Storage:   store,
		StartTime: startTime,
	}
}

// Status handles GET /api/admin/status.
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, map[string]any{
		"uptime_seconds": int64(time.Since(h.StartTime).Seconds()),
		"usage_log":      h.Storage != nil,
	}, http.StatusOK)
}

// requireStorage rejects the request when the usage log is disabled.
func (h *Handlers) requireStorage(w http.ResponseWriter) bool {
	if h.Storage == nil {
		shared.WriteJSONError(w, "usage log is disabled", http.StatusServiceUnavailable)
		return false
	}
	return true
}
