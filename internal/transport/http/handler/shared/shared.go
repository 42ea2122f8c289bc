// Package shared holds response helpers used by several handler packages.
package shared

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mandalnilabja/chatrelay/internal/storage"
	"github.com/mandalnilabja/chatrelay/internal/types"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteJSONError writes {"error": message}, the same shape the chat
// endpoint uses.
func WriteJSONError(w http.ResponseWriter, message string, status int) {
	types.WriteError(w, status, message)
}

// ParseDate parses a YYYY-MM-DD query value. ok is false for empty or
// malformed input.
func ParseDate(v string) (t time.Time, ok bool) {
	if v == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(storage.DateFormat, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
