package cmd

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmbx/vmbx/vmb"
)

func TestSymbolsList(t *testing.T) {
	var buf bytes.Buffer
	s := &Symbols{out: &buf}
	require.NoError(t, s.Run(slog.Default()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, vmb.Symbols, lines)
	assert.Equal(t, "VmbVersionQuery", lines[0])
}

func TestSymbolsProbeMissingLibrary(t *testing.T) {
	s := &Symbols{Probe: filepath.Join(t.TempDir(), "libVmbC.so"), out: &bytes.Buffer{}}
	assert.ErrorContains(t, s.Run(slog.Default()), "probe")
}
