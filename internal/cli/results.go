package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rileyhilliard/evmon/internal/events"
	"github.com/rileyhilliard/evmon/internal/gateway"
	"github.com/rileyhilliard/evmon/internal/ui"
	"github.com/spf13/cobra"
)

var (
	resultsJSON  bool
	resultsFlags ServerFlags
)

var resultsCmd = &cobra.Command{
	Use:   "results [target]",
	Short: "List artifacts with collected event results",
	Long: `List the monitored artifacts that have collected results for a target.

The target is an endpoint client id. Omit it, or pass "server", for the
server's own event artifacts.

Examples:
  evmon results
  evmon results C.1234abcd
  evmon results C.1234abcd --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(resultsFlags, nil)
		if err != nil {
			if resultsJSON {
				_ = WriteJSONFromError(cmd.OutOrStdout(), err)
			}
			return err
		}
		return resultsCommand(cmd.Context(), cmd.OutOrStdout(), s.gw, resolveTarget(args, s.cfg), resultsJSON)
	},
}

func init() {
	rootCmd.AddCommand(resultsCmd)
	resultsCmd.Flags().BoolVar(&resultsJSON, "json", false, "output in JSON format")
	AddServerFlags(resultsCmd, &resultsFlags)
}

// resultsCommand prints the result index for target.
func resultsCommand(ctx context.Context, w io.Writer, gw gateway.Gateway, target events.Target, jsonOut bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := gw.ListAvailableEventResults(ctx, events.ListEventResultsRequest{ClientID: target.ClientID()})
	if err != nil {
		if jsonOut {
			_ = WriteJSONFromError(w, err)
		}
		return err
	}

	var idx events.ResultIndex
	if resp != nil {
		idx = resp.Logs
	}

	if jsonOut {
		if idx == nil {
			idx = events.ResultIndex{}
		}
		return WriteJSONSuccess(w, idx)
	}

	if len(idx) == 0 {
		fmt.Fprintf(w, "%s No event results for %s\n", ui.SymbolPending, target)
		return nil
	}

	titles := []string{"#", "ARTIFACT", "COLUMNS"}
	rows := make([][]string, len(idx))
	for i, d := range idx {
		rows[i] = []string{fmt.Sprintf("%d", i+1), d.Artifact, columnSummary(d.ColumnTypes())}
	}

	fmt.Fprintf(w, "Event results for %s\n\n", target)
	fmt.Fprintln(w, ui.RenderTable(titles, rows))
	return nil
}

// columnSummary lists column names, eliding after a few.
func columnSummary(cols []events.ColumnType) string {
	const maxCols = 4
	if len(cols) == 0 {
		return "-"
	}

	names := make([]string, 0, maxCols)
	for i, c := range cols {
		if i == maxCols {
			names = append(names, fmt.Sprintf("+%d more", len(cols)-maxCols))
			break
		}
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}
