// Package configpaths locates vmbx configuration files.
package configpaths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Format is a configuration file syntax.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// Formats lists the supported formats in loader priority order.
var Formats = []Format{JSON, YAML, TOML}

// ParseFormat accepts a format name or its common alias ("yml").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

// FormatOf picks the format of a file by extension. Unknown extensions are
// read as JSON.
func FormatOf(path string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return JSON
	}
	return f
}

// Ext is the canonical file extension of f, without the dot.
func (f Format) Ext() string { return string(f) }

func (f Format) extensions() []string {
	if f == YAML {
		return []string{".yaml", ".yml"}
	}
	return []string{"." + string(f)}
}

// UserDir is the per-user configuration directory.
func UserDir() (string, error) {
	if runtime.GOOS == "windows" {
		if appdata := os.Getenv("AppData"); appdata != "" {
			return filepath.Join(appdata, "vmbx"), nil
		}
		return "", errors.New("AppData not set")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vmbx"), nil
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", "vmbx"), nil
	}
	return "", errors.New("HOME not set")
}

// UserPath is the location of the named config file in UserDir.
func UserPath(name string, f Format) (string, error) {
	dir, err := UserDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name+"."+f.Ext()), nil
}

// EnsureDir creates the parent directory of filePath.
func EnsureDir(filePath string) error {
	return os.MkdirAll(filepath.Dir(filePath), 0o755)
}

type searchDir struct {
	path  string
	bases []string
}

// searchDirs are scanned in order: working directory, user directory, then
// /etc/vmbx on unix.
func searchDirs() []searchDir {
	var dirs []searchDir
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, searchDir{wd, []string{"vmbx", "config", "server"}})
	}
	if dir, err := UserDir(); err == nil {
		dirs = append(dirs, searchDir{dir, []string{"config", "server"}})
	}
	if runtime.GOOS != "windows" {
		dirs = append(dirs, searchDir{"/etc/vmbx", []string{"config", "server"}})
	}
	return dirs
}

// Candidates maps each format to the files its loader should try, highest
// priority first.
type Candidates map[Format][]string

// ConfigCandidatePaths returns the config files to try. A non-empty userPath
// goes first, to the loader matching its extension.
func ConfigCandidatePaths(userPath string) Candidates {
	c := Candidates{}
	if userPath != "" {
		f := FormatOf(userPath)
		c[f] = append(c[f], userPath)
	}
	for _, d := range searchDirs() {
		for _, base := range d.bases {
			for _, f := range Formats {
				for _, ext := range f.extensions() {
					c[f] = append(c[f], filepath.Join(d.path, base+ext))
				}
			}
		}
	}
	return c
}
