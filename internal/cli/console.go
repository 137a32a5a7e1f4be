package cli

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/evmon/internal/console"
	"github.com/rileyhilliard/evmon/internal/errors"
	"github.com/rileyhilliard/evmon/internal/events"
	"github.com/rileyhilliard/evmon/internal/logger"
	"github.com/rileyhilliard/evmon/internal/route"
	"github.com/rileyhilliard/evmon/internal/viewer"
	"github.com/rileyhilliard/evmon/internal/wizard"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ConsoleOptions holds the console command's flags.
type ConsoleOptions struct {
	Route  string
	Mode   string
	Server ServerFlags
}

var consoleOpts ConsoleOptions

var consoleCmd = &cobra.Command{
	Use:   "console [target]",
	Short: "Open the interactive event monitoring console",
	Long: `Open the interactive console for a target's event monitoring.

The console lists the artifacts with collected results, shows them as raw
data, logs or a report, and edits the server or client monitoring table.

Examples:
  evmon console
  evmon console C.1234abcd --mode logs
  evmon console --route /events/C.1234abcd/Windows.System.Users`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return consoleCommand(cmd.Context(), args, consoleOpts)
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleCmd.Flags().StringVar(&consoleOpts.Route, "route", "", "open at a route like /events/<client_id>/<artifact>")
	consoleCmd.Flags().StringVar(&consoleOpts.Mode, "mode", "", "display mode: raw, logs or report")
	AddServerFlags(consoleCmd, &consoleOpts.Server)
}

// consoleStart is where the console opens.
type consoleStart struct {
	target   events.Target
	artifact string
	mode     events.DisplayMode
}

// resolveConsoleStart combines --route, the positional target and config
// defaults. --route wins over the positional target.
func resolveConsoleStart(args []string, opts ConsoleOptions, s *session) (consoleStart, error) {
	var start consoleStart

	if opts.Route != "" {
		if len(args) > 0 {
			return start, errors.New(errors.ErrRoute,
				"Pass either a target or --route, not both",
				"The route already names the target: /events/<client_id>/<artifact>.")
		}
		t, artifact, err := route.Parse(opts.Route)
		if err != nil {
			return start, err
		}
		start.target, start.artifact = t, artifact
	} else {
		start.target = resolveTarget(args, s.cfg)
	}

	mode, err := resolveMode(opts.Mode, s.cfg)
	if err != nil {
		return start, err
	}
	start.mode = mode
	return start, nil
}

func consoleCommand(ctx context.Context, args []string, opts ConsoleOptions) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrConfig,
			"evmon console needs an interactive terminal",
			"Use 'evmon results' or 'evmon table show' for scripted output.")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	// Anything written to stderr would corrupt the alt screen, so logs go
	// to a file or nowhere.
	log := logger.Noop()
	s, err := openSession(opts.Server, log)
	if err != nil {
		return err
	}

	if logger.DebugEnabled() {
		f, err := tea.LogToFile(s.cfg.Console.DebugLog, "evmon")
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot open debug log "+s.cfg.Console.DebugLog,
				"Set console.debug_log to a writable path.")
		}
		defer f.Close()
		log = logger.NewEnvLogger("[console]")
		s.gw, err = newGateway(s.cfg, logger.NewEnvLogger("[gateway]"))
		if err != nil {
			return err
		}
	}

	start, err := resolveConsoleStart(args, opts, s)
	if err != nil {
		return err
	}

	history := route.NewHistory(route.Path(start.target, start.artifact))
	model := console.NewModel(console.Options{
		Gateway:   s.gw,
		Navigator: history,
		Timeline:  viewer.Summary{},
		Report:    viewer.Summary{},
		Wizards:   wizard.Factory{Gateway: s.gw},
		Logger:    log,
		Target:    start.target,
		Artifact:  start.artifact,
		Mode:      start.mode,
		Context:   ctx,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	log.Debug("route history: %v", history.Entries())
	return err
}
