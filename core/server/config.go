package server

import (
	"fmt"
	"strconv"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables the check.
	ApiKey string `mapstructure:"api_key" default:""`
	// Metrics exposes the prometheus endpoint at /metrics.
	Metrics bool `mapstructure:"metrics" default:"true"`
}

// Validate checks that the port is a usable TCP port.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port %q", c.Port)
	}
	return nil
}

// Address returns the listen address.
func (c Config) Address() string {
	return ":" + c.Port
}
