package types

import (
	"encoding/json"
	"net/http"
)

// Caller-facing error messages.
const (
	MsgRateLimited     = "Rate limit exceeded. Please try again in a moment."
	MsgPaymentRequired = "Service temporarily unavailable. Please try again later."
	MsgUpstreamFailed  = "Failed to get AI response"
	MsgUnknown         = "Unknown error occurred"
)

// ErrorResponse is the JSON body of every error returned by the chat endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteError writes {"error": message} with the given status code.
// An empty message is replaced with MsgUnknown.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	if message == "" {
		message = MsgUnknown
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
