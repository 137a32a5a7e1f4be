package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
const CurrentConfigVersion = 1

// DefaultTimeout bounds a single gateway call.
const DefaultTimeout = 30 * time.Second

// Config represents the complete .evmon.yaml configuration file.
type Config struct {
	Version int           `yaml:"version" mapstructure:"version"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Console ConsoleConfig `yaml:"console" mapstructure:"console"`
}

// ServerConfig describes how to reach the monitoring server's API.
type ServerConfig struct {
	// URL is the API base, e.g. https://monitor.example.com:8889.
	URL string `yaml:"url" mapstructure:"url"`

	// Token is sent as a bearer token when set.
	Token string `yaml:"token,omitempty" mapstructure:"token"`

	// Timeout bounds each API call.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// InsecureSkipVerify disables TLS certificate checks (self-signed lab servers).
	InsecureSkipVerify bool `yaml:"insecure_skip_verify,omitempty" mapstructure:"insecure_skip_verify"`
}

// ConsoleConfig holds defaults for the interactive console.
type ConsoleConfig struct {
	// DefaultTarget is the client id opened when none is given. Empty means the server.
	DefaultTarget string `yaml:"default_target,omitempty" mapstructure:"default_target"`

	// DefaultMode is one of raw, logs or report.
	DefaultMode string `yaml:"default_mode" mapstructure:"default_mode"`

	// DebugLog is where the console writes debug output when EVMON_DEBUG is set.
	// Supports ~ and ${HOME}/${USER} expansion.
	DebugLog string `yaml:"debug_log" mapstructure:"debug_log"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Server: ServerConfig{
			Timeout: DefaultTimeout,
		},
		Console: ConsoleConfig{
			DefaultMode: "raw",
			DebugLog:    "evmon-debug.log",
		},
	}
}
