package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/rileyhilliard/evmon/internal/ui"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile string
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "evmon",
	Short: "Browse and edit event monitoring on a monitoring server",
	Long: `evmon inspects the event monitoring configuration of a monitoring server
and its endpoints, and browses the results the monitored artifacts produce.

Run 'evmon console' for the interactive console, or use 'results' and
'table show' for scripted output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.DisableColors()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./.evmon.yaml, then ~/.config/evmon/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Config returns the --config flag value.
func Config() string {
	return cfgFile
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if isUnknownCommandError(err) {
			fmt.Fprintln(os.Stderr, err.Error())
			if name := extractUnknownCommand(err); name != "" {
				if suggestions := rootCmd.SuggestionsFor(name); len(suggestions) > 0 {
					fmt.Fprintf(os.Stderr, "\nDid you mean %s?\n", strings.Join(suggestions, " or "))
				}
			}
			fmt.Fprintln(os.Stderr, "\nRun 'evmon --help' for usage.")
			os.Exit(1)
		}
		fmt.Fprint(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// isUnknownCommandError reports whether cobra rejected the command line itself.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag")
}

// extractUnknownCommand pulls the quoted command name out of cobra's error.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
