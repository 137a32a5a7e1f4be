package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/evmon/internal/config"
	"github.com/rileyhilliard/evmon/internal/errors"
	"github.com/rileyhilliard/evmon/internal/events"
	"github.com/spf13/cobra"
)

// ServerFlags holds per-command overrides for the server connection.
type ServerFlags struct {
	Timeout string
}

// AddServerFlags registers --timeout on a command.
func AddServerFlags(cmd *cobra.Command, flags *ServerFlags) {
	cmd.Flags().StringVar(&flags.Timeout, "timeout", "", "per-request timeout (e.g., 10s, 1m)")
}

// ParseTimeout parses a timeout flag into a duration.
// Returns zero duration if the flag is empty.
func ParseTimeout(flag string) (time.Duration, error) {
	if flag == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(flag)
	if err != nil || d < 0 {
		if err == nil {
			err = fmt.Errorf("negative duration")
		}
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid timeout", flag),
			"Try something like 5s, 2m, or 500ms.")
	}
	return d, nil
}

// resolveTarget picks the target from the optional positional argument,
// falling back to console.default_target and then the server.
func resolveTarget(args []string, cfg *config.Config) events.Target {
	if len(args) > 0 {
		return events.ParseTarget(args[0])
	}
	if cfg != nil {
		return events.ParseTarget(cfg.Console.DefaultTarget)
	}
	return events.ServerTarget()
}

// resolveMode parses --mode, falling back to console.default_mode.
func resolveMode(flag string, cfg *config.Config) (events.DisplayMode, error) {
	s := flag
	if s == "" && cfg != nil {
		s = cfg.Console.DefaultMode
	}
	if s == "" {
		return events.ModeRawData, nil
	}

	return events.ParseMode(s)
}

// validateFormat checks a --format value.
func validateFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	switch f {
	case "", events.FormatJSON:
		return events.FormatJSON, nil
	case events.FormatYAML, "yml":
		return events.FormatYAML, nil
	}
	return "", errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown output format '%s'", format),
		"Use --format json or --format yaml.")
}
