// Package chat serves the browser-facing chat endpoint: it prepends the
// assistant persona to the caller's conversation and streams the upstream
// completion back unmodified.
package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mandalnilabja/chatrelay/internal/config"
	"github.com/mandalnilabja/chatrelay/internal/prompt"
	"github.com/mandalnilabja/chatrelay/internal/provider"
	"github.com/mandalnilabja/chatrelay/internal/relay"
	"github.com/mandalnilabja/chatrelay/internal/storage"
	"github.com/mandalnilabja/chatrelay/internal/tokenizer"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/middleware"
	"github.com/mandalnilabja/chatrelay/internal/types"
)

// maxErrorBody caps how much of an upstream error body is read for logging.
const maxErrorBody = 64 * 1024

// Options configures the chat handlers.
type Options struct {
	Config       *config.Config
	SystemPrompt string
	Provider     provider.Provider

	// Storage is optional; nil disables the usage ledger
	Storage storage.Storage

	// Tokenizer is optional; nil skips local token estimates
	Tokenizer tokenizer.Tokenizer

	Logger *slog.Logger
}

// Handlers holds the dependencies for the chat endpoint.
type Handlers struct {
	provider     provider.Provider
	storage      storage.Storage
	tokenizer    tokenizer.Tokenizer
	logger       *slog.Logger
	model        string
	apiKey       string
	systemPrompt string

	// configErr is computed once; a non-nil value fails every request
	configErr error

	pending sync.WaitGroup
}

// New creates the chat handlers. Configuration is validated here and the
// result kept for the lifetime of the handler.
func New(opts Options) *Handlers {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	systemPrompt := opts.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = prompt.SystemPrompt
	}

	h := &Handlers{
		provider:     opts.Provider,
		storage:      opts.Storage,
		tokenizer:    opts.Tokenizer,
		logger:       logger,
		systemPrompt: systemPrompt,
	}
	if opts.Config == nil {
		h.configErr = &config.MissingFieldError{Field: config.APIKeyEnv}
		return h
	}
	h.model = opts.Config.Model
	h.apiKey = opts.Config.APIKey
	h.configErr = opts.Config.Validate()
	return h
}

// Configured reports whether the upstream credential is present.
func (h *Handlers) Configured() bool {
	return h.configErr == nil
}

// Wait blocks until all pending usage records are written.
func (h *Handlers) Wait() {
	h.pending.Wait()
}

// Chat handles POST /api/chat.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if requestID == "" {
		requestID = uuid.NewString()
	}
	logger := h.logger.With("request_id", requestID)
	rec := &record{requestID: requestID, model: h.model, start: time.Now()}

	if h.configErr != nil {
		logger.Error("chat proxy is not configured", "error", h.configErr)
		h.fail(w, rec, http.StatusInternalServerError, h.configErr.Error())
		return
	}

	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("invalid chat request", "error", err)
		h.fail(w, rec, http.StatusInternalServerError, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	logger.Info("chat request", "messages", len(req.Messages))
	for i, m := range req.Messages {
		if !types.IsKnownRole(m.Role) {
			logger.Warn("forwarding message with unknown role", "index", i, "role", m.Role)
		}
	}

	rec.messages = prompt.Compose(h.systemPrompt, req.Messages)
	rec.callerMessages = len(req.Messages)

	resp, err := h.provider.Stream(r.Context(), h.apiKey, prompt.Payload(h.model, rec.messages))
	if err != nil {
		logger.Error("upstream request failed", "error", err)
		h.fail(w, rec, http.StatusInternalServerError, err.Error())
		return
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		logger.Warn("upstream rate limit exceeded")
		h.fail(w, rec, http.StatusTooManyRequests, types.MsgRateLimited)
		return
	case resp.StatusCode == http.StatusPaymentRequired:
		logger.Warn("upstream payment required")
		h.fail(w, rec, http.StatusPaymentRequired, types.MsgPaymentRequired)
		return
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logger.Error("upstream error", "status", resp.StatusCode, "body", string(body))
		rec.upstreamStatus = resp.StatusCode
		h.fail(w, rec, http.StatusInternalServerError, types.MsgUpstreamFailed)
		return
	}

	hdr := w.Header()
	hdr.Set("Content-Type", types.ContentTypeEventStream)
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	processor := relay.NewStreamProcessor()
	n, err := relay.Relay(w, resp.Body, processor)
	processor.Finish()

	rec.status = http.StatusOK
	rec.bytes = n
	rec.stream = processor
	if err != nil {
		if errors.Is(err, relay.ErrClientGone) || r.Context().Err() != nil {
			logger.Info("client disconnected during stream", "bytes", n)
			rec.errMsg = "client disconnected"
		} else {
			logger.Error("stream relay interrupted", "error", err, "bytes", n)
			rec.errMsg = err.Error()
		}
	}

	h.record(rec)
}

// fail writes a JSON error and records the outcome.
func (h *Handlers) fail(w http.ResponseWriter, rec *record, status int, message string) {
	types.WriteError(w, status, message)
	rec.status = status
	rec.errMsg = message
	h.record(rec)
}
