// Package provider defines how the chat proxy talks to an upstream
// completion service.
package provider

import (
	"context"
	"errors"
	"net/http"

	"github.com/mandalnilabja/chatrelay/internal/types"
)

// ErrNoAPIKey is returned when a request is attempted without a credential.
var ErrNoAPIKey = errors.New("no API key configured")

// Provider opens a streaming completion against an upstream service.
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// Stream sends payload and returns the raw upstream response.
	// The response body is not read; the caller must close it.
	// Cancelling ctx aborts the request and the body stream.
	Stream(ctx context.Context, apiKey string, payload types.CompletionRequest) (*http.Response, error)
}
