package console

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/evmon/internal/events"
	"github.com/rileyhilliard/evmon/internal/fetch"
	"github.com/rileyhilliard/evmon/internal/gateway"
	"github.com/rileyhilliard/evmon/internal/logger"
	"github.com/rileyhilliard/evmon/internal/route"
	"github.com/rileyhilliard/evmon/internal/viewer"
	"github.com/rileyhilliard/evmon/internal/wizard"
)

// PlaceholderText is shown in report mode when no artifact is selected.
const PlaceholderText = "Please select an artifact to view above."

// TimelineViewer renders raw data and log rows for an artifact.
type TimelineViewer interface {
	RenderTimeline(req viewer.TimelineRequest, width int) string
}

// ReportViewer renders the structured report for an artifact.
type ReportViewer interface {
	RenderReport(req viewer.ReportRequest, width int) string
}

// WizardFactory builds the edit dialogs. The returned models emit
// wizard.SubmitClientMsg, wizard.SubmitServerMsg or wizard.CancelMsg.
type WizardFactory interface {
	NewClientWizard(target events.Target) tea.Model
	NewServerWizard() tea.Model
}

// Options configures a console. Only Gateway is required.
type Options struct {
	Gateway   gateway.Gateway
	Navigator route.Navigator
	Timeline  TimelineViewer
	Report    ReportViewer
	Wizards   WizardFactory
	Logger    logger.Logger

	// Target and Artifact come from the route the console was opened on.
	Target   events.Target
	Artifact string
	Mode     events.DisplayMode

	// Context bounds every fetch; defaults to context.Background().
	Context context.Context
}

// ChangeTargetMsg asks the console to switch to another target.
type ChangeTargetMsg struct {
	Target events.Target
}

// indexMsg carries a ListAvailableEventResults response.
type indexMsg struct {
	token fetch.Token
	logs  events.ResultIndex
	err   error
}

// appliedMsg carries a Set{Client,Server}MonitoringState response.
type appliedMsg struct {
	token  fetch.Token
	server bool
	err    error
}

// Model is the Bubble Tea model for the event monitoring console.
type Model struct {
	gw        gateway.Gateway
	nav       route.Navigator
	timeline  TimelineViewer
	report    ReportViewer
	wizards   WizardFactory
	log       logger.Logger
	arena     *fetch.Arena
	renderers map[string]viewer.CellRenderer

	target        events.Target
	routeArtifact string
	artifact      *events.ArtifactDescriptor
	mode          events.DisplayMode
	index         events.ResultIndex

	editWizardOpen       bool
	serverEditWizardOpen bool
	wizard               tea.Model

	inspectorOpen bool
	inspector     Inspector

	prompting bool
	prompt    textinput.Model

	width    int
	height   int
	showHelp bool
	quitting bool
}

// NewModel creates a console for opts.Target. Nothing is fetched until Init.
func NewModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}
	if opts.Navigator == nil {
		opts.Navigator = route.NewHistory(route.Path(opts.Target, opts.Artifact))
	}
	if opts.Timeline == nil {
		opts.Timeline = viewer.Summary{}
	}
	if opts.Report == nil {
		opts.Report = viewer.Summary{}
	}
	if opts.Wizards == nil {
		opts.Wizards = wizard.Factory{Gateway: opts.Gateway}
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	prompt := textinput.New()
	prompt.Prompt = "target> "
	prompt.Placeholder = "client id, or server"
	prompt.CharLimit = 128

	return Model{
		gw:            opts.Gateway,
		nav:           opts.Navigator,
		timeline:      opts.Timeline,
		report:        opts.Report,
		wizards:       opts.Wizards,
		log:           opts.Logger,
		arena:         fetch.NewArena(opts.Context),
		renderers:     viewer.DefaultRenderers(),
		target:        opts.Target,
		routeArtifact: opts.Artifact,
		mode:          opts.Mode,
		inspector:     NewInspector(opts.Context, opts.Gateway, opts.Logger),
		prompt:        prompt,
	}
}

// Init fetches the result index for the initial target.
func (m Model) Init() tea.Cmd {
	return m.Initialize()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.inspector = m.inspector.SetSize(msg.Width, msg.Height)
		m.prompt.Width = msg.Width - len(m.prompt.Prompt) - 4
		if m.wizard != nil {
			var cmd tea.Cmd
			m.wizard, cmd = m.wizard.Update(msg)
			return m, cmd
		}
		return m, nil

	case ChangeTargetMsg:
		return m, m.ChangeTarget(msg.Target)

	case indexMsg:
		m.applyIndex(msg)
		return m, nil

	case appliedMsg:
		m.applyResult(msg)
		return m, nil

	case wizard.SubmitClientMsg:
		if !m.editWizardOpen {
			return m, nil
		}
		return m, m.ApplyEditedTable(msg.Table)

	case wizard.SubmitServerMsg:
		if !m.serverEditWizardOpen {
			return m, nil
		}
		return m, m.ApplyEditedServerTable(msg.Table)

	case wizard.CancelMsg:
		m.CloseWizard()
		return m, nil

	case inspectorLoadedMsg:
		var cmd tea.Cmd
		m.inspector, cmd = m.inspector.Update(msg)
		return m, cmd
	}

	return m, m.delegate(msg)
}

// delegate forwards any other message (spinner ticks, form internals, cursor
// blinks) to the open sub-components.
func (m *Model) delegate(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.wizard != nil {
		m.wizard, cmd = m.wizard.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.inspectorOpen {
		m.inspector, cmd = m.inspector.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.prompting {
		m.prompt, cmd = m.prompt.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Initialize issues a result index fetch for the current target, cancelling
// any earlier one.
func (m *Model) Initialize() tea.Cmd {
	tok := m.arena.Issue(fetch.SiteResultIndex)
	m.log.Debug("result index fetch %d for %s", tok.Seq(), m.target.ClientID())
	return listResultsCmd(m.gw, tok, m.target)
}

// ChangeTarget switches to t and refetches the index. The selected artifact,
// mode and open dialogs are kept. Changing to the current target is a no-op.
func (m *Model) ChangeTarget(t events.Target) tea.Cmd {
	if t == m.target {
		return nil
	}
	m.target = t
	return m.Initialize()
}

// SelectArtifact selects d and records the new route. It never fetches.
func (m *Model) SelectArtifact(d events.ArtifactDescriptor) {
	sel := d
	m.artifact = &sel
	m.routeArtifact = d.Artifact
	m.nav.Push(route.Path(m.target, d.Artifact))
}

// SetMode switches the display mode.
func (m *Model) SetMode(mode events.DisplayMode) {
	m.mode = mode
}

// OpenEditWizard opens the client table editor for the current target.
func (m *Model) OpenEditWizard() tea.Cmd {
	m.serverEditWizardOpen = false
	m.editWizardOpen = true
	m.wizard = m.wizards.NewClientWizard(m.target)
	return m.startWizard()
}

// OpenServerEditWizard opens the server table editor.
func (m *Model) OpenServerEditWizard() tea.Cmd {
	m.editWizardOpen = false
	m.serverEditWizardOpen = true
	m.wizard = m.wizards.NewServerWizard()
	return m.startWizard()
}

func (m *Model) startWizard() tea.Cmd {
	if m.width > 0 {
		m.wizard, _ = m.wizard.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	}
	return m.wizard.Init()
}

// CloseWizard dismisses whichever editor is open.
func (m *Model) CloseWizard() {
	m.editWizardOpen = false
	m.serverEditWizardOpen = false
	m.wizard = nil
}

// ApplyEditedTable posts an edited client table. The editor closes when the
// post succeeds; the result index is not refetched.
func (m *Model) ApplyEditedTable(table *events.ClientMonitoringState) tea.Cmd {
	tok := m.arena.Issue(fetch.SiteApplyTable)
	gw := m.gw
	return func() tea.Msg {
		_, err := gw.SetClientMonitoringState(tok.Context(), table)
		return appliedMsg{token: tok, err: err}
	}
}

// ApplyEditedServerTable posts an edited server table.
func (m *Model) ApplyEditedServerTable(table *events.ArtifactCollectorArgs) tea.Cmd {
	tok := m.arena.Issue(fetch.SiteApplyTable)
	gw := m.gw
	return func() tea.Msg {
		_, err := gw.SetServerMonitoringState(tok.Context(), table)
		return appliedMsg{token: tok, server: true, err: err}
	}
}

// OpenRawInspector shows the raw table for the current target. Opening it
// again refetches.
func (m *Model) OpenRawInspector() tea.Cmd {
	m.inspectorOpen = true
	var cmd tea.Cmd
	m.inspector, cmd = m.inspector.Open(m.target)
	return cmd
}

// CloseRawInspector hides the inspector and cancels its fetch.
func (m *Model) CloseRawInspector() {
	m.inspectorOpen = false
	m.inspector = m.inspector.Close()
}

// Unmount cancels every outstanding fetch and quits.
func (m *Model) Unmount() tea.Cmd {
	m.arena.CancelAll()
	m.inspector = m.inspector.Close()
	m.inspectorOpen = false
	m.quitting = true
	return tea.Quit
}

func (m *Model) applyIndex(msg indexMsg) {
	if !m.arena.Accept(msg.token) {
		m.log.Debug("discarded stale result index %d", msg.token.Seq())
		return
	}
	if msg.err != nil {
		m.log.Debug("result index fetch failed: %v", msg.err)
		return
	}

	m.index = msg.logs
	if m.routeArtifact == "" {
		return
	}
	if d, ok := m.index.Find(m.routeArtifact); ok {
		m.artifact = &d
	}
}

func (m *Model) applyResult(msg appliedMsg) {
	if !m.arena.Accept(msg.token) {
		m.log.Debug("discarded stale table update %d", msg.token.Seq())
		return
	}
	if msg.err != nil {
		m.log.Debug("table update failed: %v", msg.err)
		return
	}
	if msg.server {
		m.serverEditWizardOpen = false
	} else {
		m.editWizardOpen = false
	}
	if !m.editWizardOpen && !m.serverEditWizardOpen {
		m.wizard = nil
	}
}

func (m *Model) openPrompt() tea.Cmd {
	m.prompting = true
	m.prompt.SetValue("")
	return m.prompt.Focus()
}

func (m *Model) closePrompt() {
	m.prompting = false
	m.prompt.Blur()
}

func listResultsCmd(gw gateway.Gateway, tok fetch.Token, target events.Target) tea.Cmd {
	return func() tea.Msg {
		resp, err := gw.ListAvailableEventResults(tok.Context(), events.ListEventResultsRequest{
			ClientID: target.ClientID(),
		})
		if err != nil {
			return indexMsg{token: tok, err: err}
		}
		if resp == nil {
			return indexMsg{token: tok}
		}
		return indexMsg{token: tok, logs: resp.Logs}
	}
}

// Target returns the target in view.
func (m Model) Target() events.Target { return m.target }

// Mode returns the display mode.
func (m Model) Mode() events.DisplayMode { return m.mode }

// Index returns the loaded result index.
func (m Model) Index() events.ResultIndex { return m.index }

// SelectedArtifact returns the selected artifact, if any.
func (m Model) SelectedArtifact() (events.ArtifactDescriptor, bool) {
	if m.artifact == nil {
		return events.ArtifactDescriptor{}, false
	}
	return *m.artifact, true
}

// EditWizardOpen reports whether the client table editor is open.
func (m Model) EditWizardOpen() bool { return m.editWizardOpen }

// ServerEditWizardOpen reports whether the server table editor is open.
func (m Model) ServerEditWizardOpen() bool { return m.serverEditWizardOpen }

// InspectorOpen reports whether the raw table inspector is open.
func (m Model) InspectorOpen() bool { return m.inspectorOpen }

// Inspector returns the inspector sub-model.
func (m Model) Inspector() Inspector { return m.inspector }

// Branch returns which body the view renders.
func (m Model) Branch() Branch {
	return SelectBranch(m.mode, m.artifact != nil)
}
