package types

// ChatRequest is the body a browser posts to the chat endpoint.
// Only the conversation is consumed; any other field is ignored.
type ChatRequest struct {
	Messages []Message `json:"messages"`
}

// CompletionRequest is the body sent to the upstream completion gateway.
type CompletionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}
