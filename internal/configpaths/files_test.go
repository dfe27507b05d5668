package configpaths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCandidatePaths_UserPathFirst(t *testing.T) {
	tests := []struct {
		path   string
		format Format
	}{
		{"/tmp/a.json", JSON},
		{"/tmp/a.yml", YAML},
		{"/tmp/a.yaml", YAML},
		{"/tmp/a.toml", TOML},
		{"/tmp/a.conf", JSON},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			got := ConfigCandidatePaths(tt.path)[tt.format]
			require.NotEmpty(t, got)
			assert.Equal(t, tt.path, got[0])
		})
	}
}

func TestConfigCandidatePaths_SearchOrder(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses XDG_CONFIG_HOME")
	}
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	wd, err := os.Getwd()
	require.NoError(t, err)

	c := ConfigCandidatePaths("")
	assert.Equal(t, filepath.Join(wd, "vmbx.json"), c[JSON][0])
	assert.Equal(t, []string{filepath.Join(wd, "vmbx.yaml"), filepath.Join(wd, "vmbx.yml")}, c[YAML][:2])
	assert.Contains(t, c[TOML], filepath.Join(home, "vmbx", "server.toml"))
	assert.Equal(t, "/etc/vmbx/server.toml", c[TOML][len(c[TOML])-1])
	assert.NotContains(t, c[JSON], filepath.Join(home, "vmbx", "vmbx.json"))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": JSON, "YAML": YAML, "yml": YAML, "toml": TOML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("ini")
	assert.EqualError(t, err, "unsupported format: ini")
}

func TestUserPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses XDG_CONFIG_HOME")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	p, err := UserPath("server", YAML)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "vmbx", "server.yaml"), p)

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", dir)
	p, err = UserPath("server", TOML)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".config", "vmbx", "server.toml"), p)
}
