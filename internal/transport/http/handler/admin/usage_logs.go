package admin

import (
	"net/http"
	"strconv"

	"github.com/mandalnilabja/chatrelay/internal/storage"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/handler/shared"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 1000
)

// GetRequestLogs handles GET /api/admin/logs.
func (h *Handlers) GetRequestLogs(w http.ResponseWriter, r *http.Request) {
	if !h.requireStorage(w) {
		return
	}
	filter := parseLogFilter(r)

	logs, err := h.Storage.GetRequestLogs(filter)
	if err != nil {
		shared.WriteJSONError(w, "Failed to get request logs: "+err.Error(), http.StatusInternalServerError)
		return
	}

	shared.WriteJSON(w, map[string]any{
		"logs":   logs,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	}, http.StatusOK)
}

// DeleteRequestLogs handles DELETE /api/admin/logs?older_than=YYYY-MM-DD.
func (h *Handlers) DeleteRequestLogs(w http.ResponseWriter, r *http.Request) {
	if !h.requireStorage(w) {
		return
	}
	olderThan := r.URL.Query().Get("older_than")
	if olderThan == "" {
		shared.WriteJSONError(w, "older_than query parameter is required (format: YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	if _, ok := shared.ParseDate(olderThan); !ok {
		shared.WriteJSONError(w, "Invalid date format. Use YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	deleted, err := h.Storage.DeleteRequestLogs(olderThan)
	if err != nil {
		shared.WriteJSONError(w, "Failed to delete logs: "+err.Error(), http.StatusInternalServerError)
		return
	}

	shared.WriteJSON(w, map[string]any{"deleted": deleted}, http.StatusOK)
}

// parseLogFilter creates a LogFilter from query parameters.
func parseLogFilter(r *http.Request) storage.LogFilter {
	q := r.URL.Query()
	filter := storage.LogFilter{
		Model: q.Get("model"),
		Limit: defaultLogLimit,
	}

	if v := q.Get("status"); v != "" {
		if code, err := strconv.Atoi(v); err == nil {
			filter.StatusCode = &code
		}
	}
	if v := q.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			filter.Limit = min(limit, maxLogLimit)
		}
	}
	if v := q.Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}
	if t, ok := shared.ParseDate(q.Get("start_date")); ok {
		filter.StartDate = &t
	}
	if t, ok := shared.ParseDate(q.Get("end_date")); ok {
		filter.EndDate = &t
	}

	return filter
}
