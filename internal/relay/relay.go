// Package relay pipes an upstream byte stream to the client without
// buffering the whole completion.
package relay

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// chunkSize is the read buffer for one relay step.
const chunkSize = 32 * 1024

// ErrClientGone wraps write failures towards the caller.
var ErrClientGone = errors.New("client connection closed")

// Observer sees every chunk before it is written to the client.
// It must not retain or modify the slice.
type Observer interface {
	Observe(chunk []byte)
}

// Relay copies src to dst chunk by chunk, flushing after every write when
// dst implements http.Flusher. It returns the number of bytes written.
// A nil error means src reached EOF.
func Relay(dst io.Writer, src io.Reader, obs Observer) (int64, error) {
	flusher, _ := dst.(http.Flusher)
	buf := make([]byte, chunkSize)

	var written int64
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if obs != nil {
				obs.Observe(buf[:n])
			}
			m, wErr := dst.Write(buf[:n])
			written += int64(m)
			if wErr != nil {
				return written, fmt.Errorf("%w: %v", ErrClientGone, wErr)
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, fmt.Errorf("read upstream: %w", err)
		}
	}
}
