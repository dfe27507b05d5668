package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/vmbx/vmbx/internal/configpaths"
)

// ConfigCommand groups config-related subcommands.
type ConfigCommand struct {
	Init ConfigInit `cmd:"" help:"Generate a configuration template"`
}

// ConfigInit writes a template holding every option of a command with its
// default value.
type ConfigInit struct {
	Command string `arg:"" name:"command" help:"Command to generate config for" enum:"server"`
	Format  string `help:"Output format" enum:"json,yaml,yml,toml" default:"json"`
	Output  string `help:"Destination file path (defaults to <command>.<format> in the current directory)" xor:"dest"`
	User    bool   `help:"Write to the per-user config directory instead of the current directory" xor:"dest"`
	Force   bool   `help:"Overwrite if the file already exists"`
}

var templateCommands = map[string]reflect.Type{
	"server": reflect.TypeOf(Server{}),
}

var encoders = map[configpaths.Format]func(any) ([]byte, error){
	configpaths.JSON: func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") },
	configpaths.YAML: yaml.Marshal,
	configpaths.TOML: toml.Marshal,
}

// Run is called by Kong when config init is executed.
func (c *ConfigInit) Run(logger *slog.Logger) error {
	format, err := configpaths.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	typ, ok := templateCommands[c.Command]
	if !ok {
		return fmt.Errorf("unknown command %q; expected 'server'", c.Command)
	}

	dest, err := c.destination(format)
	if err != nil {
		return err
	}
	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}
	if err := configpaths.EnsureDir(dest); err != nil {
		return err
	}

	data, err := encoders[format](templateOf(typ))
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return err
	}
	logger.Info("Wrote config template", "command", c.Command, "path", dest)
	return nil
}

func (c *ConfigInit) destination(format configpaths.Format) (string, error) {
	switch {
	case c.Output != "":
		return c.Output, nil
	case c.User:
		return configpaths.UserPath(c.Command, format)
	default:
		return c.Command + "." + format.Ext(), nil
	}
}

// templateOf maps the kong flags of a command struct to their config keys.
// Embedded groups become nested sections named after their prefix.
func templateOf(t reflect.Type) map[string]any {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	out := map[string]any{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("kong") == "-" {
			continue
		}
		if _, ok := f.Tag.Lookup("embed"); ok {
			sub := templateOf(f.Type)
			if name := strings.TrimSuffix(f.Tag.Get("prefix"), "."); name != "" {
				out[name] = sub
				continue
			}
			for k, v := range sub {
				out[k] = v
			}
			continue
		}
		if v := defaultOf(f.Type, f.Tag.Get("default")); v != nil {
			out[configKey(f.Name)] = v
		}
	}
	return out
}

func configKey(field string) string {
	r := []rune(field)
	if len(r) == 0 {
		return field
	}
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// defaultOf converts a kong default tag to a typed template value. Invalid
// defaults fall back to the zero value.
func defaultOf(t reflect.Type, def string) any {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == reflect.TypeOf(time.Duration(0)) {
		if def == "" {
			return "0s"
		}
		return def
	}
	switch t.Kind() {
	case reflect.String:
		return def
	case reflect.Bool:
		b, _ := strconv.ParseBool(def)
		return b
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, _ := strconv.ParseInt(def, 10, 64)
		return n
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, _ := strconv.ParseUint(def, 10, 64)
		return n
	case reflect.Float32, reflect.Float64:
		f, _ := strconv.ParseFloat(def, 64)
		return f
	case reflect.Slice:
		out := []any{}
		if def == "" {
			return out
		}
		for _, part := range strings.Split(def, ",") {
			out = append(out, defaultOf(t.Elem(), strings.TrimSpace(part)))
		}
		return out
	case reflect.Struct:
		return templateOf(t)
	default:
		return nil
	}
}
