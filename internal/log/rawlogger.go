package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// DumpLimit is the number of bytes hex-dumped per chunk; image payloads are
// truncated to it.
const DumpLimit = 64

// RawLogger hex-dumps API traffic.
type RawLogger interface {
	// Log records one chunk. in=true means client->server.
	Log(in bool, data []byte)
}

// rawLogger implements RawLogger with thread-safe log.
type rawLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewRaw creates a new RawLogger writing lines to w. If w is nil, returns a
// no-op logger.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w}
}

func (r *rawLogger) Log(in bool, data []byte) {
	if len(data) == 0 || r.w == nil {
		return
	}
	line := fmt.Sprintf("%s %s chunk: %d bytes, hex: %s\n",
		time.Now().Format("2006/01/02 15:04:05"),
		direction(in),
		len(data),
		hexDump(data, DumpLimit))

	r.mu.Lock()
	_, _ = r.w.Write([]byte(line))
	r.mu.Unlock()
}

type traceLogger struct{ logger *slog.Logger }

// NewTrace returns a RawLogger that emits each chunk through logger at
// LevelTrace. Nothing is formatted unless the level is enabled.
func NewTrace(logger *slog.Logger) RawLogger {
	if logger == nil {
		return NewRaw(nil)
	}
	return traceLogger{logger: logger}
}

func (t traceLogger) Log(in bool, data []byte) {
	if len(data) == 0 || !t.logger.Enabled(context.Background(), LevelTrace) {
		return
	}
	t.logger.Log(context.Background(), LevelTrace, "api raw",
		"dir", direction(in), "bytes", len(data), "hex", hexDump(data, DumpLimit))
}

func direction(in bool) string {
	if in {
		return "C->S"
	}
	return "S->C"
}

func hexDump(data []byte, limit int) string {
	var hexbuf bytes.Buffer
	const hexdigits = "0123456789abcdef"
	for i, b := range data {
		if i == limit {
			fmt.Fprintf(&hexbuf, " ...(+%d)", len(data)-limit)
			break
		}
		if i > 0 {
			hexbuf.WriteByte(' ')
		}
		hexbuf.WriteByte(hexdigits[b>>4])
		hexbuf.WriteByte(hexdigits[b&0x0f])
	}
	return hexbuf.String()
}
