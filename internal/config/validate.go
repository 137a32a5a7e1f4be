package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rileyhilliard/evmon/internal/errors"
	"github.com/rileyhilliard/evmon/internal/events"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but evmon only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade evmon to read this config.")
	}

	if err := validateServer(cfg.Server); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'server' section in your .evmon.yaml.")
	}

	if err := validateConsole(cfg.Console); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'console' section in your .evmon.yaml.")
	}

	return nil
}

func validateServer(s ServerConfig) error {
	if s.URL == "" {
		return fmt.Errorf("server.url is required (or set EVMON_SERVER_URL)")
	}

	u, err := url.Parse(s.URL)
	if err != nil {
		return fmt.Errorf("server.url '%s' is not a valid URL: %v", s.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.url '%s' must start with http:// or https://", s.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("server.url '%s' has no host", s.URL)
	}

	if s.Timeout < 0 {
		return fmt.Errorf("server.timeout can't be negative (got %s)", s.Timeout)
	}
	return nil
}

func validateConsole(c ConsoleConfig) error {
	if c.DefaultMode != "" {
		if _, err := events.ParseMode(c.DefaultMode); err != nil {
			return fmt.Errorf("console.default_mode '%s' must be one of raw, logs or report", c.DefaultMode)
		}
	}
	if strings.Contains(c.DefaultTarget, "/") {
		return fmt.Errorf("console.default_target '%s' should be a client id, not a path", c.DefaultTarget)
	}
	return nil
}
