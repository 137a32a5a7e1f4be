package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/evmon/internal/config"
	"github.com/rileyhilliard/evmon/internal/errors"
	"github.com/rileyhilliard/evmon/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// InitOptions holds options for the config init command.
type InitOptions struct {
	Path           string // Where to write; defaults to ./.evmon.yaml
	URL            string // Pre-specified server URL
	Token          string // Pre-specified bearer token
	Global         bool   // Write ~/.config/evmon/config.yaml instead
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts
}

var initOpts InitOptions

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage evmon configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .evmon.yaml configuration",
	Long: `Create a config file pointing evmon at a monitoring server.

Without --url, prompts for the server details.

Examples:
  evmon config init
  evmon config init --url https://monitor.example.com:8889
  evmon config init --global --url https://monitor.example.com:8889 --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := initOpts
		if opts.URL != "" || !term.IsTerminal(int(os.Stdin.Fd())) {
			opts.NonInteractive = true
		}
		return Init(cmd.OutOrStdout(), opts)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the config file",
	Long: `Set a single dotted key in the config file, keeping its comments.

Examples:
  evmon config set server.url https://monitor.example.com:8889
  evmon config set console.default_mode logs`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Find(Config())
		if err != nil {
			return err
		}
		if path == "" {
			return errors.New(errors.ErrConfig,
				"Config file not found",
				"Run 'evmon config init' first.")
		}
		return configSetCommand(cmd.OutOrStdout(), path, args[0], args[1])
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  `Print the configuration after defaults and EVMON_* overrides. The token is masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := config.LoadOrDefault(Config())
		if err != nil {
			return err
		}
		return configShowCommand(cmd.OutOrStdout(), cfg, path)
	},
}

// settableKeys are the keys config set accepts.
var settableKeys = map[string]bool{
	"server.url":                  true,
	"server.token":                true,
	"server.timeout":              true,
	"server.insecure_skip_verify": true,
	"console.default_target":      true,
	"console.default_mode":        true,
	"console.debug_log":           true,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configSetCmd, configShowCmd)

	configInitCmd.Flags().StringVar(&initOpts.URL, "url", "", "monitoring server API URL")
	configInitCmd.Flags().StringVar(&initOpts.Token, "token", "", "bearer token")
	configInitCmd.Flags().BoolVar(&initOpts.Global, "global", false, "write ~/.config/evmon/config.yaml")
	configInitCmd.Flags().BoolVar(&initOpts.Overwrite, "force", false, "overwrite an existing config")
}

// Init creates a new config file.
func Init(w io.Writer, opts InitOptions) error {
	path := opts.Path
	if path == "" {
		path = filepath.Join(".", config.ConfigFileName)
		if opts.Global {
			path = config.GlobalPath()
		}
	}
	if path == "" {
		return errors.New(errors.ErrConfig,
			"Cannot determine home directory for --global",
			"Write a local .evmon.yaml instead.")
	}

	if _, err := os.Stat(path); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", path),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", path)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	cfg.Server.URL = opts.URL
	cfg.Server.Token = opts.Token

	if !opts.NonInteractive {
		if err := promptServer(cfg); err != nil {
			return err
		}
	}

	cfg.Server.URL = strings.TrimRight(strings.TrimSpace(cfg.Server.URL), "/")
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if err := config.Save(path, cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config file",
			"Check directory permissions")
	}

	fmt.Fprintf(w, "%s Wrote %s\n", ui.SymbolSuccess, path)
	fmt.Fprintln(w, "  Try: evmon doctor")
	return nil
}

// promptServer asks for the connection settings with huh.
func promptServer(cfg *config.Config) error {
	timeout := cfg.Server.Timeout.String()
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Monitoring server API URL").
				Placeholder("https://monitor.example.com:8889").
				Value(&cfg.Server.URL).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Bearer token (optional)").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.Server.Token),
			huh.NewInput().
				Title("Request timeout").
				Value(&timeout).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
			huh.NewConfirm().
				Title("Skip TLS certificate verification?").
				Description("Only for lab servers with self-signed certificates.").
				Value(&cfg.Server.InsecureSkipVerify),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default display mode").
				Options(
					huh.NewOption("Raw Data", "raw"),
					huh.NewOption("Logs", "logs"),
					huh.NewOption("Report", "report"),
				).
				Value(&cfg.Console.DefaultMode),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Pass --url to skip the prompts")
	}

	d, err := time.ParseDuration(timeout)
	if err == nil {
		cfg.Server.Timeout = d
	}
	return nil
}

// configSetCommand updates one key and re-validates the file.
func configSetCommand(w io.Writer, path, key, value string) error {
	if !settableKeys[key] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown config key '%s'", key),
			"Settable keys: server.url, server.token, server.timeout, server.insecure_skip_verify, console.default_target, console.default_mode, console.debug_log")
	}

	if err := validateSetting(key, value); err != nil {
		return err
	}

	if err := config.SetValue(path, key, value); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to update config file",
			"Check the file is valid YAML")
	}

	if _, err := config.Load(path); err != nil {
		return err
	}

	fmt.Fprintf(w, "%s Set %s in %s\n", ui.SymbolSuccess, key, path)
	return nil
}

// validateSetting checks a single value before it is written.
func validateSetting(key, value string) error {
	cfg := config.DefaultConfig()
	cfg.Server.URL = "http://placeholder"

	switch key {
	case "server.url":
		cfg.Server.URL = value
	case "server.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("'%s' doesn't look like a valid timeout", value),
				"Try something like 5s, 2m, or 500ms.")
		}
		cfg.Server.Timeout = d
	case "server.insecure_skip_verify":
		if value != "true" && value != "false" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("'%s' is not true or false", value), "")
		}
	case "console.default_mode":
		cfg.Console.DefaultMode = value
	case "console.default_target":
		cfg.Console.DefaultTarget = value
	}
	return config.Validate(cfg)
}

// configShowCommand prints cfg as YAML with the token masked.
func configShowCommand(w io.Writer, cfg *config.Config, path string) error {
	shown := *cfg
	if shown.Server.Token != "" {
		shown.Server.Token = "********"
	}

	source := path
	if source == "" {
		source = "defaults + environment"
	}
	fmt.Fprintf(w, "# source: %s\n", source)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&shown); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode config", "")
	}
	return enc.Close()
}
