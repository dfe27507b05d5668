package api

import "time"

// ServerConfig represents the API options of the server subcommand.
type ServerConfig struct {
	Addr              string        `help:"API server listen address" default:":3242" env:"VMBX_API_ADDR"`
	ConnectionTimeout time.Duration `help:"Time a client has to send its request after connecting" default:"10s" env:"VMBX_API_CONNECTION_TIMEOUT"`
	CommandTimeout    time.Duration `help:"Default wait for command features to report done" default:"2s" env:"VMBX_API_COMMAND_TIMEOUT"`
}
