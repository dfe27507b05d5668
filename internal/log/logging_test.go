package log

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace":   LevelTrace,
		"DEBUG":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestSetupLoggerSplitsStreams(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger, closers, err := setupLogger(Config{Level: "trace"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Empty(t, closers)

	logger.Log(context.Background(), LevelTrace, "deep")
	logger.Info("hello")
	logger.Error("broken")

	assert.Contains(t, stdout.String(), "level=TRACE msg=deep")
	assert.Contains(t, stdout.String(), "msg=hello")
	assert.NotContains(t, stdout.String(), "broken")
	assert.Contains(t, stderr.String(), "msg=broken")
	assert.NotContains(t, stderr.String(), "hello")
}

func TestSetupLoggerFileJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	path := filepath.Join(t.TempDir(), "vmbx.log")
	logger, closers, err := setupLogger(Config{Level: "info", Format: "json", File: path}, &stdout, &stderr)
	require.NoError(t, err)
	require.Len(t, closers, 1)
	defer closers[0].Close()

	logger.Debug("hidden")
	logger.Warn("shown", "n", 1)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), `"msg":"shown"`)
	assert.NotContains(t, stderr.String(), "hidden")
}

func TestRawLoggerTruncates(t *testing.T) {
	var buf bytes.Buffer
	raw := NewRaw(&buf)
	raw.Log(true, []byte{0x00, 0xab})
	raw.Log(false, bytes.Repeat([]byte{0xff}, DumpLimit+10))
	raw.Log(true, nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "C->S chunk: 2 bytes, hex: 00 ab")
	assert.Contains(t, lines[1], "S->C chunk: 74 bytes")
	assert.True(t, strings.HasSuffix(lines[1], "...(+10)"))

	NewRaw(nil).Log(true, []byte{1})
}

func TestTraceLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	info := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	NewTrace(info).Log(true, []byte("ping"))
	assert.Empty(t, buf.String())

	trace := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: LevelTrace}))
	NewTrace(trace).Log(true, []byte("ping"))
	assert.Contains(t, buf.String(), "hex=\"70 69 6e 67\"")
	assert.Contains(t, buf.String(), "dir=C->S")
}
