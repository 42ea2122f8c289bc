// Package models holds the records persisted by the usage ledger.
package models

import "time"

// DateFormat is the layout of day keys in the usage tables.
const DateFormat = "2006-01-02"

// RequestLog represents one proxied chat request.
type RequestLog struct {
	ID               string    `json:"id"`
	RequestID        string    `json:"request_id"`
	Model            string    `json:"model"`
	MessageCount     int       `json:"message_count"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	StatusCode       int       `json:"status_code"`
	FinishReason     string    `json:"finish_reason,omitempty"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	BytesRelayed     int64     `json:"bytes_relayed"`
	DurationMs       int64     `json:"duration_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// IsError reports whether the request ended in an error response.
func (l *RequestLog) IsError() bool {
	return l.StatusCode >= 400
}

// LogFilter contains parameters for filtering request logs
type LogFilter struct {
	Model      string
	StatusCode *int
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}
