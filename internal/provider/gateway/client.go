// Package gateway implements provider.Provider for OpenAI-compatible
// chat-completion gateways.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mandalnilabja/chatrelay/internal/provider"
	"github.com/mandalnilabja/chatrelay/internal/types"
)

// Client posts completion requests to a single gateway URL.
type Client struct {
	url  string
	http *http.Client
}

// New creates a gateway client for the given chat-completions URL.
func New(url string) *Client {
	return &Client{
		url: url,
		// DisableCompression keeps SSE bytes as sent; a gzip body
		// relayed verbatim would break event-stream parsing in the browser.
		http: &http.Client{
			Transport: &http.Transport{
				Proxy:              http.ProxyFromEnvironment,
				DisableCompression: true,
			},
		},
	}
}

// NewWithHTTPClient creates a gateway client using hc for transport.
func NewWithHTTPClient(url string, hc *http.Client) *Client {
	return &Client{url: url, http: hc}
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return "gateway"
}

// URL returns the upstream endpoint.
func (c *Client) URL() string {
	return c.url
}

// Stream issues the completion request. Non-2xx responses are returned
// as-is; only transport failures produce an error.
func (c *Client) Stream(ctx context.Context, apiKey string, payload types.CompletionRequest) (*http.Response, error) {
	if apiKey == "" {
		return nil, provider.ErrNoAPIKey
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create upstream request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", types.ContentTypeEventStream)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	return resp, nil
}
