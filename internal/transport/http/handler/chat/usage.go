package chat

import (
	"fmt"
	"time"

	"github.com/mandalnilabja/chatrelay/internal/relay"
	"github.com/mandalnilabja/chatrelay/internal/storage"
	"github.com/mandalnilabja/chatrelay/internal/types"
)

// record collects what is known about one request for the usage ledger.
type record struct {
	requestID      string
	model          string
	start          time.Time
	messages       []types.Message // composed, including the system prompt
	callerMessages int
	status         int
	upstreamStatus int
	errMsg         string
	bytes          int64
	stream         *relay.StreamProcessor
}

// record persists rec in the background. It never affects the response.
func (h *Handlers) record(rec *record) {
	if h.storage == nil {
		return
	}
	duration := time.Since(rec.start)

	h.pending.Add(1)
	go func() {
		defer h.pending.Done()
		h.persist(rec, duration)
	}()
}

func (h *Handlers) persist(rec *record, duration time.Duration) {
	entry := &storage.RequestLog{
		RequestID:    rec.requestID,
		Model:        rec.model,
		MessageCount: rec.callerMessages,
		StatusCode:   rec.status,
		ErrorMessage: rec.errMsg,
		BytesRelayed: rec.bytes,
		DurationMs:   duration.Milliseconds(),
		CreatedAt:    time.Now().UTC(),
	}
	if rec.upstreamStatus != 0 {
		entry.ErrorMessage = fmt.Sprintf("%s (upstream status %d)", rec.errMsg, rec.upstreamStatus)
	}

	if s := rec.stream; s != nil {
		entry.FinishReason = s.GetFinishReason()
		if m := s.GetModel(); m != "" {
			entry.Model = m
		}
		if u := s.GetUsage(); u != nil {
			entry.PromptTokens = u.PromptTokens
			entry.CompletionTokens = u.CompletionTokens
			entry.TotalTokens = u.Total()
		}
	}
	h.estimateTokens(entry, rec)

	if err := h.storage.LogRequest(entry); err != nil {
		h.logger.Warn("failed to store request log", "request_id", rec.requestID, "error", err)
	}

	errorCount := 0
	if entry.IsError() {
		errorCount = 1
	}
	err := h.storage.UpdateDailyUsage(&storage.DailyUsage{
		Date:             entry.CreatedAt.Format(storage.DateFormat),
		Model:            entry.Model,
		RequestCount:     1,
		PromptTokens:     entry.PromptTokens,
		CompletionTokens: entry.CompletionTokens,
		TotalTokens:      entry.TotalTokens,
		ErrorCount:       errorCount,
	})
	if err != nil {
		h.logger.Warn("failed to update daily usage", "request_id", rec.requestID, "error", err)
	}
}

// estimateTokens fills token counts the upstream did not report.
func (h *Handlers) estimateTokens(entry *storage.RequestLog, rec *record) {
	if h.tokenizer == nil {
		return
	}

	if entry.PromptTokens == 0 && len(rec.messages) > 0 {
		if n, err := h.tokenizer.CountMessages(rec.messages, entry.Model); err == nil {
			entry.PromptTokens = n
		}
	}
	if entry.CompletionTokens == 0 && rec.stream != nil {
		if n, err := h.tokenizer.CountTokens(rec.stream.GetContent(), entry.Model); err == nil {
			entry.CompletionTokens = n
		}
	}
	if entry.TotalTokens == 0 {
		entry.TotalTokens = entry.PromptTokens + entry.CompletionTokens
	}
}
