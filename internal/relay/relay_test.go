package relay

import (
	"bytes"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/iotest"
)

const sampleStream = "data: {\"id\":\"c1\",\"model\":\"google/gemini-2.5-flash\",\"choices\":[{\"index\":0,\"delta\":{\"role\":\"assistant\",\"content\":\"Hello\"},\"finish_reason\":null}]}\n\n" +
	": keep-alive\n\n" +
	"data: {\"id\":\"c1\",\"model\":\"google/gemini-2.5-flash\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\", world\"},\"finish_reason\":\"stop\"}],\"usage\":{\"prompt_tokens\":12,\"completion_tokens\":3,\"total_tokens\":15}}\r\n\r\n" +
	"data: [DONE]\n\n"

func TestRelay_ByteIdentical(t *testing.T) {
	tests := []struct {
		name string
		src  io.Reader
	}{
		{name: "whole stream", src: strings.NewReader(sampleStream)},
		{name: "one byte at a time", src: iotest.OneByteReader(strings.NewReader(sampleStream))},
		{name: "half reads", src: iotest.HalfReader(strings.NewReader(sampleStream))},
		{name: "data with EOF", src: iotest.DataErrReader(strings.NewReader(sampleStream))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			n, err := Relay(rec, tt.src, nil)
			if err != nil {
				t.Fatalf("Relay() error: %v", err)
			}
			if n != int64(len(sampleStream)) {
				t.Errorf("written = %d, want %d", n, len(sampleStream))
			}
			if rec.Body.String() != sampleStream {
				t.Errorf("body differs from upstream:\n%q", rec.Body.String())
			}
			if !rec.Flushed {
				t.Error("expected response to be flushed")
			}
		})
	}
}

func TestRelay_LargeBody(t *testing.T) {
	payload := bytes.Repeat([]byte("data: x\n\n"), 20000) // spans several chunks
	var dst bytes.Buffer

	n, err := Relay(&dst, bytes.NewReader(payload), nil)
	if err != nil {
		t.Fatalf("Relay() error: %v", err)
	}
	if n != int64(len(payload)) || !bytes.Equal(dst.Bytes(), payload) {
		t.Errorf("large body not relayed intact (%d bytes)", n)
	}
}

type failingWriter struct{ writes int }

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errors.New("broken pipe")
}

func TestRelay_StopsWhenClientGone(t *testing.T) {
	w := &failingWriter{}
	src := iotest.OneByteReader(strings.NewReader(sampleStream))

	_, err := Relay(w, src, nil)
	if !errors.Is(err, ErrClientGone) {
		t.Fatalf("expected ErrClientGone, got %v", err)
	}
	if w.writes != 1 {
		t.Errorf("expected relay to stop after first failed write, got %d writes", w.writes)
	}
}

func TestRelay_UpstreamReadError(t *testing.T) {
	src := io.MultiReader(strings.NewReader("data: partial"), iotest.ErrReader(errors.New("connection reset")))
	var dst bytes.Buffer

	_, err := Relay(&dst, src, nil)
	if err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("expected read error, got %v", err)
	}
	if errors.Is(err, ErrClientGone) {
		t.Error("read error must not be reported as client gone")
	}
	if dst.String() != "data: partial" {
		t.Errorf("expected bytes before the error to be relayed, got %q", dst.String())
	}
}

func TestStreamProcessor_ParsesAcrossChunks(t *testing.T) {
	for _, r := range []io.Reader{
		strings.NewReader(sampleStream),
		iotest.OneByteReader(strings.NewReader(sampleStream)),
	} {
		p := NewStreamProcessor()
		if _, err := Relay(io.Discard, r, p); err != nil {
			t.Fatalf("Relay() error: %v", err)
		}
		p.Finish()

		if got := p.GetContent(); got != "Hello, world" {
			t.Errorf("content = %q", got)
		}
		if p.GetModel() != "google/gemini-2.5-flash" {
			t.Errorf("model = %q", p.GetModel())
		}
		if p.GetFinishReason() != "stop" {
			t.Errorf("finish reason = %q", p.GetFinishReason())
		}
		if u := p.GetUsage(); u == nil || u.Total() != 15 {
			t.Errorf("usage = %+v", u)
		}
		if p.Events() != 2 {
			t.Errorf("events = %d, want 2", p.Events())
		}
		if !p.Done() {
			t.Error("expected [DONE] to be seen")
		}
	}
}

func TestStreamProcessor_TrailingLineWithoutNewline(t *testing.T) {
	p := NewStreamProcessor()
	p.Observe([]byte(`data: {"model":"m","choices":[{"delta":{"content":"tail"}}]}`))

	if p.GetContent() != "" {
		t.Error("partial line must not be parsed before Finish")
	}
	p.Finish()
	if p.GetContent() != "tail" {
		t.Errorf("content = %q", p.GetContent())
	}
}

func TestStreamProcessor_IgnoresMalformed(t *testing.T) {
	p := NewStreamProcessor()
	p.Observe([]byte("data: {not json}\nevent: ping\ndata: \n"))
	p.Finish()

	if p.Events() != 0 || p.GetContent() != "" {
		t.Errorf("expected nothing parsed, got events=%d content=%q", p.Events(), p.GetContent())
	}
}
