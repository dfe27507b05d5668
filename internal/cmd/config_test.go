package cmd

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	toml "github.com/pelletier/go-toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"
)

func TestConfigInit(t *testing.T) {
	decoders := map[string]func([]byte, any) error{
		"json": json.Unmarshal,
		"yaml": yaml.Unmarshal,
		"toml": toml.Unmarshal,
	}
	for format, decode := range decoders {
		format, decode := format, decode
		t.Run(format, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "nested", "server."+format)
			c := &ConfigInit{Command: "server", Format: format, Output: dest}
			require.NoError(t, c.Run(slog.Default()))

			data, err := os.ReadFile(dest)
			require.NoError(t, err)
			var got map[string]any
			require.NoError(t, decode(data, &got))

			assert.Equal(t, ":9242", got["metricsAddr"])
			apiCfg, ok := got["api"].(map[string]any)
			require.True(t, ok, "api section missing: %v", got)
			assert.Equal(t, ":3242", apiCfg["addr"])
			assert.Equal(t, "10s", apiCfg["connectionTimeout"])
			nodeCfg, ok := got["node"].(map[string]any)
			require.True(t, ok, "node section missing: %v", got)
			assert.Equal(t, true, nodeCfg["autostart"])
			simCfg, ok := got["sim"].(map[string]any)
			require.True(t, ok, "sim section missing: %v", got)
			assert.Equal(t, []any{"color"}, simCfg["cameras"])

			assert.Error(t, c.Run(slog.Default()), "existing file without --force")
			c.Force = true
			assert.NoError(t, c.Run(slog.Default()))
		})
	}
}

func TestConfigInit_Errors(t *testing.T) {
	dir := t.TempDir()
	assert.ErrorContains(t, (&ConfigInit{Command: "server", Format: "ini", Output: filepath.Join(dir, "a")}).Run(slog.Default()), "unsupported format")
	assert.ErrorContains(t, (&ConfigInit{Command: "proxy", Format: "json", Output: filepath.Join(dir, "b")}).Run(slog.Default()), "unknown command")
}

func TestConfigInit_UserDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("AppData", home)

	c := &ConfigInit{Command: "server", Format: "yml", User: true}
	require.NoError(t, c.Run(slog.Default()))

	data, err := os.ReadFile(filepath.Join(home, "vmbx", "server.yaml"))
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, ":9242", got["metricsAddr"])
}
