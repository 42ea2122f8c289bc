package relay

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/mandalnilabja/chatrelay/internal/types"
)

// StreamProcessor parses SSE events out of relayed chunks and extracts
// metadata. Lines may be split across chunks; partial lines are held
// until their newline arrives.
type StreamProcessor struct {
	pending       []byte
	contentBuffer strings.Builder
	usage         *types.Usage
	finishReason  string
	model         string
	events        int
	done          bool
}

// NewStreamProcessor creates a new SSE stream processor.
func NewStreamProcessor() *StreamProcessor {
	return &StreamProcessor{}
}

// Observe implements Observer.
func (p *StreamProcessor) Observe(chunk []byte) {
	p.pending = append(p.pending, chunk...)
	for {
		i := bytes.IndexByte(p.pending, '\n')
		if i < 0 {
			break
		}
		p.processLine(p.pending[:i])
		p.pending = p.pending[i+1:]
	}
	// Drop consumed prefix so pending does not grow with the stream
	if len(p.pending) == 0 {
		p.pending = nil
	}
}

// Finish processes a trailing line that had no newline.
func (p *StreamProcessor) Finish() {
	if len(p.pending) > 0 {
		p.processLine(p.pending)
		p.pending = nil
	}
}

// processLine parses a single SSE line.
func (p *StreamProcessor) processLine(line []byte) {
	line = bytes.TrimSuffix(line, []byte("\r"))

	// Skip empty lines, comments and non-data fields
	if !bytes.HasPrefix(line, []byte("data:")) {
		return
	}
	data := bytes.TrimSpace(bytes.TrimPrefix(line, []byte("data:")))

	if bytes.Equal(data, []byte(types.SSEDone)) {
		p.done = true
		return
	}

	var chunk types.ChatCompletionChunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return // Skip malformed chunks
	}
	p.events++

	if p.model == "" && chunk.Model != "" {
		p.model = chunk.Model
	}
	if chunk.Usage != nil {
		p.usage = chunk.Usage
	}

	for _, choice := range chunk.Choices {
		if choice.Delta.Content != "" {
			p.contentBuffer.WriteString(choice.Delta.Content)
		}
		if fr := choice.GetFinishReason(); fr != "" {
			p.finishReason = fr
		}
	}
}

// GetContent returns the accumulated assistant text.
func (p *StreamProcessor) GetContent() string {
	return p.contentBuffer.String()
}

// GetUsage returns the usage info if provided by upstream.
func (p *StreamProcessor) GetUsage() *types.Usage {
	return p.usage
}

// GetFinishReason returns the finish reason from the stream.
func (p *StreamProcessor) GetFinishReason() string {
	return p.finishReason
}

// GetModel returns the model reported by the stream.
func (p *StreamProcessor) GetModel() string {
	return p.model
}

// Events returns the number of parsed completion chunks.
func (p *StreamProcessor) Events() int {
	return p.events
}

// Done reports whether the [DONE] marker was seen.
func (p *StreamProcessor) Done() bool {
	return p.done
}
