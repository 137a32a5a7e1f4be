package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/evmon/internal/config"
	"github.com/rileyhilliard/evmon/internal/doctor"
	"github.com/rileyhilliard/evmon/internal/gateway"
	"github.com/rileyhilliard/evmon/internal/logger"
	"github.com/rileyhilliard/evmon/internal/ui"
	"github.com/spf13/cobra"
)

var doctorJSON bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration and server access",
	Long: `Check that evmon can find a valid config, reach the monitoring server,
and read its monitoring tables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
}

// DoctorOutput is the --json shape of a doctor run.
type DoctorOutput struct {
	Categories []doctor.Group `json:"categories"`
	Summary    SummaryOutput  `json:"summary"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	AllClear bool `json:"all_clear"`
}

var doctorCategoryOrder = []string{"CONFIG", "SERVER"}

func doctorCommand(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, _, loadErr := config.LoadOrDefault(Config())
	report := doctor.Run(ctx, collectChecks(Config(), cfg, loadErr))

	if doctorJSON {
		return outputDoctorJSON(w, report)
	}
	outputDoctorText(w, report)
	return nil
}

// collectChecks builds the check list. Server checks only run when the
// config is usable.
func collectChecks(cfgPath string, cfg *config.Config, loadErr error) []doctor.Check {
	checks := []doctor.Check{
		&doctor.ConfigFileCheck{ConfigPath: cfgPath},
		&doctor.ConfigSchemaCheck{Config: cfg, LoadErr: loadErr},
	}

	var gw gateway.Gateway
	url := ""
	if loadErr == nil && config.Validate(cfg) == nil {
		url = cfg.Server.URL
		if g, err := newGateway(cfg, logger.Noop()); err == nil {
			gw = g
		}
	}

	checks = append(checks,
		&doctor.ServerReachableCheck{Gateway: gw, URL: url},
		&doctor.MonitoringTableCheck{Gateway: gw, Server: true},
		&doctor.MonitoringTableCheck{Gateway: gw},
	)
	return checks
}

func outputDoctorJSON(w io.Writer, report doctor.Report) error {
	counts := report.Counts()
	out := DoctorOutput{
		Categories: report.Groups(doctorCategoryOrder),
		Summary: SummaryOutput{
			Pass:     counts[doctor.StatusPass],
			Warn:     counts[doctor.StatusWarn],
			Fail:     counts[doctor.StatusFail],
			AllClear: !report.HasIssues(),
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func outputDoctorText(w io.Writer, report doctor.Report) {
	successStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ui.ColorError)
	warnStyle := lipgloss.NewStyle().Foreground(ui.ColorWarning)
	mutedStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	headerStyle := lipgloss.NewStyle().Bold(true)

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("evmon Diagnostic Report"))
	fmt.Fprintln(w)

	for _, group := range report.Groups(doctorCategoryOrder) {
		fmt.Fprintln(w, headerStyle.Render(group.Name))
		for _, result := range group.Results {
			symbol, style := ui.SymbolComplete, successStyle
			switch result.Status {
			case doctor.StatusWarn:
				style = warnStyle
			case doctor.StatusFail:
				symbol, style = ui.SymbolFail, errorStyle
			}

			fmt.Fprintf(w, "  %s %s\n", style.Render(symbol), result.Message)
			if result.Suggestion != "" && result.Status != doctor.StatusPass {
				for _, line := range strings.Split(strings.TrimSpace(result.Suggestion), "\n") {
					fmt.Fprintf(w, "    %s\n", mutedStyle.Render(line))
				}
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("━", 60))
	fmt.Fprintln(w)

	if report.HasIssues() {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render(ui.SymbolFail), report.Summary())
	} else {
		fmt.Fprintf(w, "%s %s\n", successStyle.Render(ui.SymbolSuccess), report.Summary())
	}
	fmt.Fprintln(w)
}
