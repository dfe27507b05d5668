package main

import (
	"github.com/vmbx/vmbx/internal/cmd"
	"github.com/vmbx/vmbx/internal/log"
)

// CLI is the root command tree.
type CLI struct {
	ConfigFile string     `name:"config" help:"Config file (json, yaml or toml); flags and env override its values" type:"path" env:"VMBX_CONFIG"`
	Log        log.Config `embed:"" prefix:"log."`

	Server  cmd.Server        `cmd:"" help:"Run an emulated camera node with its API server"`
	Symbols cmd.Symbols       `cmd:"" help:"List the VmbC functions the SDK surface covers"`
	Config  cmd.ConfigCommand `cmd:"" help:"Configuration helpers"`
}
