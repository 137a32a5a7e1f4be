package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rileyhilliard/evmon/internal/errors"
	"github.com/rileyhilliard/evmon/internal/events"
	"github.com/rileyhilliard/evmon/internal/gateway"
	"github.com/rileyhilliard/evmon/internal/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	tableFormat    string
	tableFile      string
	tableShowFlags ServerFlags
	tableSetFlags  ServerFlags
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Show or replace monitoring tables",
	Long: `A monitoring table lists the event artifacts the server or its endpoints
collect. The server has its own table; endpoints share a client table with
optional per-label sections.`,
}

var tableShowCmd = &cobra.Command{
	Use:   "show [target]",
	Short: "Print the monitoring table for a target",
	Long: `Print the server or client monitoring table.

Internal compiled collector arguments are removed from the output.

Examples:
  evmon table show
  evmon table show C.1234abcd --format yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := validateFormat(tableFormat)
		if err != nil {
			return err
		}
		s, err := openSession(tableShowFlags, nil)
		if err != nil {
			return err
		}
		return tableShowCommand(cmd.Context(), cmd.OutOrStdout(), s.gw, resolveTarget(args, s.cfg), format)
	},
}

var tableApplyCmd = &cobra.Command{
	Use:   "apply [target] -f FILE",
	Short: "Replace the monitoring table from a YAML or JSON file",
	Long: `Replace the server or client monitoring table with the contents of a file,
typically one written by 'evmon table show' and then edited.

Compiled collector arguments in a JSON file are dropped; the server
compiles the table itself.

Examples:
  evmon table show --format yaml > server.yaml
  evmon table apply -f server.yaml
  evmon table apply C.1234abcd -f clients.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if tableFile == "" {
			return errors.New(errors.ErrConfig, "No table file given", "Pass the file with -f.")
		}
		data, err := os.ReadFile(tableFile)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrTable,
				"Cannot read table file "+tableFile,
				"Check the path and permissions.")
		}
		s, err := openSession(tableSetFlags, nil)
		if err != nil {
			return err
		}
		return tableApplyCommand(cmd.Context(), cmd.OutOrStdout(), s.gw, resolveTarget(args, s.cfg), data)
	},
}

func init() {
	rootCmd.AddCommand(tableCmd)
	tableCmd.AddCommand(tableShowCmd, tableApplyCmd)

	tableShowCmd.Flags().StringVar(&tableFormat, "format", events.FormatJSON, "output format: json or yaml")
	AddServerFlags(tableShowCmd, &tableShowFlags)

	tableApplyCmd.Flags().StringVarP(&tableFile, "file", "f", "", "table file (YAML or JSON)")
	AddServerFlags(tableApplyCmd, &tableSetFlags)
}

// tableShowCommand fetches, redacts and prints the table for target.
func tableShowCommand(ctx context.Context, w io.Writer, gw gateway.Gateway, target events.Target, format string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var v interface{}
	if target.IsServer() {
		t, err := gw.GetServerMonitoringState(ctx)
		if err != nil {
			return err
		}
		if v, err = events.RedactServerTable(t); err != nil {
			return err
		}
	} else {
		t, err := gw.GetClientMonitoringState(ctx)
		if err != nil {
			return err
		}
		if v, err = events.RedactClientTable(t); err != nil {
			return err
		}
	}

	text, err := events.FormatTable(v, format)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, text)
	return nil
}

// decodeTable reads a JSON document with encoding/json, which keeps
// compiled_collector_args raw, and anything else as YAML, which skips it.
func decodeTable(data []byte, v interface{}) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return json.Unmarshal(trimmed, v)
	}
	return yaml.Unmarshal(data, v)
}

// tableApplyCommand parses data as the table for target and posts it.
func tableApplyCommand(ctx context.Context, w io.Writer, gw gateway.Gateway, target events.Target, data []byte) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if target.IsServer() {
		var t events.ArtifactCollectorArgs
		if err := decodeTable(data, &t); err != nil {
			return errors.WrapWithCode(err, errors.ErrTable,
				"Table file is not a valid server monitoring table",
				"Start from 'evmon table show --format yaml'.")
		}
		clean, err := events.RedactServerTable(&t)
		if err != nil {
			return err
		}
		if _, err := gw.SetServerMonitoringState(ctx, clean); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s Server monitoring table updated (%d artifacts)\n", ui.SymbolSuccess, len(clean.Artifacts))
		return nil
	}

	var t events.ClientMonitoringState
	if err := decodeTable(data, &t); err != nil {
		return errors.WrapWithCode(err, errors.ErrTable,
			"Table file is not a valid client monitoring table",
			"Start from 'evmon table show <client-id> --format yaml'.")
	}
	clean, err := events.RedactClientTable(&t)
	if err != nil {
		return err
	}
	if _, err := gw.SetClientMonitoringState(ctx, clean); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s Client monitoring table updated (%d label sections)\n", ui.SymbolSuccess, len(clean.LabelEvents))
	return nil
}
