package admin

import (
	"net/http"
	"time"

	"github.com/mandalnilabja/chatrelay/internal/storage"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/handler/shared"
)

// defaultUsageWindow is used when /usage/daily is called without dates.
const defaultUsageWindow = 30 // days

// GetUsageStats handles GET /api/admin/usage.
func (h *Handlers) GetUsageStats(w http.ResponseWriter, r *http.Request) {
	if !h.requireStorage(w) {
		return
	}
	filter := parseStatsFilter(r)

	stats, err := h.Storage.GetUsageStats(filter)
	if err != nil {
		shared.WriteJSONError(w, "Failed to get usage stats: "+err.Error(), http.StatusInternalServerError)
		return
	}

	shared.WriteJSON(w, stats, http.StatusOK)
}

// GetDailyUsage handles GET /api/admin/usage/daily.
func (h *Handlers) GetDailyUsage(w http.ResponseWriter, r *http.Request) {
	if !h.requireStorage(w) {
		return
	}
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")

	now := time.Now().UTC()
	if startDate == "" {
		startDate = now.AddDate(0, 0, -defaultUsageWindow).Format(storage.DateFormat)
	}
	if endDate == "" {
		endDate = now.Format(storage.DateFormat)
	}
	if _, ok := shared.ParseDate(startDate); !ok {
		shared.WriteJSONError(w, "Invalid start_date. Use YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if _, ok := shared.ParseDate(endDate); !ok {
		shared.WriteJSONError(w, "Invalid end_date. Use YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	usage, err := h.Storage.GetDailyUsage(startDate, endDate)
	if err != nil {
		shared.WriteJSONError(w, "Failed to get daily usage: "+err.Error(), http.StatusInternalServerError)
		return
	}

	shared.WriteJSON(w, map[string]any{
		"daily_usage": usage,
		"start_date":  startDate,
		"end_date":    endDate,
	}, http.StatusOK)
}

// parseStatsFilter creates a StatsFilter from query parameters.
func parseStatsFilter(r *http.Request) storage.StatsFilter {
	q := r.URL.Query()
	filter := storage.StatsFilter{Model: q.Get("model")}

	if t, ok := shared.ParseDate(q.Get("start_date")); ok {
		filter.StartDate = &t
	}
	if t, ok := shared.ParseDate(q.Get("end_date")); ok {
		filter.EndDate = &t
	}

	return filter
}
