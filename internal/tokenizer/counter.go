package tokenizer

import (
	"strings"

	"github.com/mandalnilabja/chatrelay/internal/types"
)

// Message framing overhead, per OpenAI's cookbook.
const (
	messageOverheadGPT4  = 3 // <|start|>role<|end|>
	messageOverheadGPT35 = 4

	// Reply priming tokens (assistant response start)
	replyPrimingTokens = 3
)

// CountMessages counts prompt tokens for a slice of messages.
func (t *TiktokenTokenizer) CountMessages(messages []types.Message, model string) (int, error) {
	total := 0
	overhead := messageOverhead(model)

	for _, msg := range messages {
		roleTokens, err := t.CountTokens(msg.Role, model)
		if err != nil {
			return 0, err
		}
		contentTokens, err := t.CountTokens(msg.Content, model)
		if err != nil {
			return 0, err
		}
		total += roleTokens + contentTokens + overhead
	}

	return total + replyPrimingTokens, nil
}

// messageOverhead returns the per-message token overhead for a model.
func messageOverhead(model string) int {
	name := strings.ToLower(model)
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if strings.HasPrefix(name, "gpt-3.5") {
		return messageOverheadGPT35
	}
	return messageOverheadGPT4
}
