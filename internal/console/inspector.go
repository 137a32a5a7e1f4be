package console

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/evmon/internal/events"
	"github.com/rileyhilliard/evmon/internal/fetch"
	"github.com/rileyhilliard/evmon/internal/gateway"
	"github.com/rileyhilliard/evmon/internal/logger"
	"github.com/rileyhilliard/evmon/internal/ui"
)

// InspectorState is the inspector's load state. There is no error state:
// a failed fetch leaves the inspector loading until it is reopened.
type InspectorState int

const (
	InspectorLoading InspectorState = iota
	InspectorLoaded
)

// String returns a human-readable state name.
func (s InspectorState) String() string {
	switch s {
	case InspectorLoading:
		return "loading"
	case InspectorLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// inspectorLoadedMsg carries the redacted, formatted table.
type inspectorLoadedMsg struct {
	token fetch.Token
	text  string
	err   error
}

// Inspector shows the full monitoring table for a target as JSON.
type Inspector struct {
	gw    gateway.Gateway
	log   logger.Logger
	arena *fetch.Arena

	target events.Target
	state  InspectorState
	text   string
	loader ui.Loader

	viewport viewport.Model
	width    int
	height   int
}

// NewInspector creates a closed inspector. Its fetches derive from ctx, so
// cancelling ctx cancels any in-flight table fetch.
func NewInspector(ctx context.Context, gw gateway.Gateway, log logger.Logger) Inspector {
	if log == nil {
		log = logger.Noop()
	}
	return Inspector{
		gw:       gw,
		log:      log,
		arena:    fetch.NewArena(ctx),
		viewport: viewport.New(80, 20),
		loader:   ui.NewLoader("Loading monitoring table"),
	}
}

// Open starts a fresh fetch for target. Any fetch from a previous open is
// cancelled and its result will be ignored.
func (in Inspector) Open(target events.Target) (Inspector, tea.Cmd) {
	in.target = target
	in.state = InspectorLoading
	in.text = ""
	in.viewport.SetContent("")
	in.viewport.GotoTop()

	tok := in.arena.Issue(fetch.SiteInspector)
	in.log.Debug("inspector fetch %d for %s", tok.Seq(), target.ClientID())

	in.loader = ui.NewLoader("Loading monitoring table")
	spin := in.loader.Start()

	return in, tea.Batch(fetchTableCmd(in.gw, tok, target), spin)
}

// Close cancels any in-flight fetch and drops the displayed table.
func (in Inspector) Close() Inspector {
	in.arena.CancelAll()
	in.state = InspectorLoading
	in.text = ""
	in.viewport.SetContent("")
	return in
}

// State returns the current load state.
func (in Inspector) State() InspectorState {
	return in.state
}

// Text returns the displayed JSON.
func (in Inspector) Text() string {
	return in.text
}

// Title returns the dialog title for the open target.
func (in Inspector) Title() string {
	if in.target.IsServer() {
		return "Raw Server Monitoring Table JSON"
	}
	return "Raw Client Monitoring Table JSON"
}

// SetSize resizes the scrollable area.
func (in Inspector) SetSize(width, height int) Inspector {
	in.width = width
	in.height = height

	// title + border + footer
	h := height - 6
	if h < 3 {
		h = 3
	}
	w := width - 4
	if w < 20 {
		w = 20
	}
	in.viewport.Width = w
	in.viewport.Height = h
	return in
}

// Update applies fetch results and scrolls.
func (in Inspector) Update(msg tea.Msg) (Inspector, tea.Cmd) {
	switch msg := msg.(type) {
	case inspectorLoadedMsg:
		if !in.arena.Accept(msg.token) {
			in.log.Debug("inspector discarded stale response %d", msg.token.Seq())
			return in, nil
		}
		if msg.err != nil {
			in.log.Debug("inspector fetch failed: %v", msg.err)
			in.loader.Stop()
			return in, nil
		}
		in.state = InspectorLoaded
		in.text = msg.text
		in.loader.Finish()
		in.viewport.SetContent(msg.text)
		in.viewport.GotoTop()
		return in, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd

	in.loader, cmd = in.loader.Update(msg)
	cmds = append(cmds, cmd)

	if in.state == InspectorLoaded {
		in.viewport, cmd = in.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return in, tea.Batch(cmds...)
}

var (
	inspectorBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ui.ColorInfo).
				Padding(0, 1)

	inspectorTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ui.ColorInfo)

	inspectorFooterStyle = lipgloss.NewStyle().
				Foreground(ui.ColorMuted)
)

// View renders the inspector dialog.
func (in Inspector) View() string {
	var b strings.Builder
	b.WriteString(inspectorTitleStyle.Render(in.Title()))
	b.WriteString("\n\n")

	if in.state == InspectorLoading {
		b.WriteString(in.loader.View())
	} else {
		b.WriteString(in.viewport.View())
	}

	b.WriteString("\n\n")
	b.WriteString(inspectorFooterStyle.Render("↑↓ scroll | esc close"))
	return inspectorBoxStyle.Render(b.String())
}

// fetchTableCmd fetches the full table for target and redacts it before it
// leaves the command.
func fetchTableCmd(gw gateway.Gateway, tok fetch.Token, target events.Target) tea.Cmd {
	return func() tea.Msg {
		ctx := tok.Context()

		var (
			v   interface{}
			err error
		)
		if target.IsServer() {
			var t *events.ArtifactCollectorArgs
			if t, err = gw.GetServerMonitoringState(ctx); err == nil {
				v, err = events.RedactServerTable(t)
			}
		} else {
			var t *events.ClientMonitoringState
			if t, err = gw.GetClientMonitoringState(ctx); err == nil {
				v, err = events.RedactClientTable(t)
			}
		}
		if err != nil {
			return inspectorLoadedMsg{token: tok, err: err}
		}

		text, err := events.FormatTable(v, events.FormatJSON)
		return inspectorLoadedMsg{token: tok, text: text, err: err}
	}
}
