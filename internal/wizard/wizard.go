// Package wizard implements the edit dialogs that collect a complete
// monitoring table for a client or for the server. A wizard loads the
// current table through the gateway, walks the operator through Huh forms,
// and reports the result with SubmitClientMsg, SubmitServerMsg or CancelMsg.
// It never posts the table itself.
package wizard

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/evmon/internal/events"
	"github.com/rileyhilliard/evmon/internal/gateway"
	"github.com/rileyhilliard/evmon/internal/ui"
)

// loadTimeout bounds the initial table fetch.
const loadTimeout = 30 * time.Second

// Swapped in tests.
var (
	redactServer = events.RedactServerTable
	redactClient = events.RedactClientTable
)

// SubmitClientMsg carries an edited client table.
type SubmitClientMsg struct {
	Target events.Target
	Table  *events.ClientMonitoringState
}

// SubmitServerMsg carries an edited server table.
type SubmitServerMsg struct {
	Table *events.ArtifactCollectorArgs
}

// CancelMsg reports that the operator abandoned the wizard.
type CancelMsg struct{}

type step int

const (
	stepLoading step = iota
	stepLabel
	stepArtifacts
	stepDone
)

// loadedMsg is tagged with the wizard id so a reply for a wizard that was
// closed and reopened is ignored.
type loadedMsg struct {
	id     uint64
	client *events.ClientMonitoringState
	server *events.ArtifactCollectorArgs
	err    error
}

// values is shared by pointer so huh field bindings survive model copies.
type values struct {
	label     string
	newLabel  string
	artifacts string
}

var nextID uint64

// Model is a Bubble Tea model for one wizard session.
type Model struct {
	id     uint64
	gw     gateway.Gateway
	target events.Target
	server bool

	step    step
	form    *huh.Form
	vals    *values
	label   string
	client  *events.ClientMonitoringState
	table   *events.ArtifactCollectorArgs
	loadErr  error
	buildErr error
	width    int
}

// NewClient creates a wizard for the client monitoring table, seeded with
// the target whose view opened it.
func NewClient(gw gateway.Gateway, target events.Target) Model {
	return Model{
		id:     atomic.AddUint64(&nextID, 1),
		gw:     gw,
		target: target,
		vals:   &values{},
	}
}

// NewServer creates a wizard for the server monitoring table.
func NewServer(gw gateway.Gateway) Model {
	return Model{
		id:     atomic.AddUint64(&nextID, 1),
		gw:     gw,
		target: events.ServerTarget(),
		server: true,
		vals:   &values{},
	}
}

// Factory builds wizards against one gateway.
type Factory struct {
	Gateway gateway.Gateway
}

// NewClientWizard implements the console's wizard factory.
func (f Factory) NewClientWizard(target events.Target) tea.Model {
	return NewClient(f.Gateway, target)
}

// NewServerWizard implements the console's wizard factory.
func (f Factory) NewServerWizard() tea.Model {
	return NewServer(f.Gateway)
}

// IsServer reports whether this wizard edits the server table.
func (m Model) IsServer() bool {
	return m.server
}

// Init loads the current table.
func (m Model) Init() tea.Cmd {
	id, gw, server := m.id, m.gw, m.server
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		if server {
			t, err := gw.GetServerMonitoringState(ctx)
			return loadedMsg{id: id, server: t, err: err}
		}
		t, err := gw.GetClientMonitoringState(ctx)
		return loadedMsg{id: id, client: t, err: err}
	}
}

// Update drives the loading step and delegates everything else to the
// active form.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.form != nil {
			m.form = m.form.WithWidth(formWidth(m.width))
		}
		return m, nil

	case loadedMsg:
		if msg.id != m.id || m.step != stepLoading {
			return m, nil
		}
		return m.loaded(msg)
	}

	if m.form == nil || m.step == stepDone {
		return m, nil
	}

	f, cmd := m.form.Update(msg)
	if form, ok := f.(*huh.Form); ok {
		m.form = form
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m.advance()
	case huh.StateAborted:
		m.step = stepDone
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

func (m Model) loaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	m.loadErr = msg.err

	// Drop compiled args from the starting point; the server recompiles them.
	if m.server {
		table, err := redactServer(msg.server)
		if err != nil {
			table = &events.ArtifactCollectorArgs{}
			m.loadErr = err
		}
		m.table = table
		m.vals.artifacts = strings.Join(m.table.Artifacts, "\n")
		m.step = stepArtifacts
		m.form = m.artifactsForm()
		return m, m.form.Init()
	}

	client, err := redactClient(msg.client)
	if err != nil {
		client = &events.ClientMonitoringState{}
		m.loadErr = err
	}
	m.client = client
	m.step = stepLabel
	m.form = m.labelForm()
	return m, m.form.Init()
}

func (m Model) advance() (tea.Model, tea.Cmd) {
	switch m.step {
	case stepLabel:
		m.label = strings.TrimSpace(m.vals.newLabel)
		if m.label == "" {
			m.label = m.vals.label
		}
		current := m.client.Artifacts
		if m.label != "" {
			current = m.client.ForLabel(m.label)
		}
		if current != nil {
			m.vals.artifacts = strings.Join(current.Artifacts, "\n")
		}
		m.step = stepArtifacts
		m.form = m.artifactsForm()
		return m, m.form.Init()

	case stepArtifacts:
		m.step = stepDone
		arts := ParseArtifactList(m.vals.artifacts)
		if m.server {
			table := BuildServerTable(m.table, arts)
			return m, func() tea.Msg { return SubmitServerMsg{Table: table} }
		}
		table, err := BuildClientTable(m.client, m.label, arts)
		if err != nil {
			m.buildErr = err
			m.step = stepArtifacts
			m.form = m.artifactsForm()
			return m, m.form.Init()
		}
		m.buildErr = nil
		target := m.target
		return m, func() tea.Msg { return SubmitClientMsg{Target: target, Table: table} }
	}
	return m, nil
}

func (m Model) labelForm() *huh.Form {
	options := []huh.Option[string]{huh.NewOption("All clients (default table)", "")}
	for _, le := range m.client.LabelEvents {
		options = append(options, huh.NewOption("Label: "+le.Label, le.Label))
	}

	return m.newForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Which table do you want to edit?").
			Options(options...).
			Value(&m.vals.label),
		huh.NewInput().
			Title("Or add a new label").
			Description("Clients carrying this label run the artifacts you pick next").
			Value(&m.vals.newLabel),
	))
}

func (m Model) artifactsForm() *huh.Form {
	title := "Artifacts to run on the server"
	if !m.server {
		title = "Artifacts to run on all clients"
		if m.label != "" {
			title = "Artifacts to run on clients labeled " + m.label
		}
	}

	return m.newForm(huh.NewGroup(
		huh.NewText().
			Title(title).
			Description("One artifact name per line").
			Lines(10).
			Value(&m.vals.artifacts),
	))
}

func (m Model) newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).
		WithShowHelp(true).
		WithWidth(formWidth(m.width))
	form.SubmitCmd = nil
	form.CancelCmd = nil
	return form
}

func formWidth(w int) int {
	if w <= 0 || w > 80 {
		return 80
	}
	return w - 4
}

var (
	wizardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorInfo).MarginBottom(1)
	wizardNoteStyle  = lipgloss.NewStyle().Foreground(ui.ColorWarning)
	wizardMutedStyle = lipgloss.NewStyle().Foreground(ui.ColorMuted)
)

// Title returns the dialog title.
func (m Model) Title() string {
	if m.server {
		return "Update server monitoring table"
	}
	return "Update client monitoring table (" + m.target.ClientID() + ")"
}

// View renders the current step.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(wizardTitleStyle.Render(m.Title()))
	b.WriteString("\n")

	switch m.step {
	case stepLoading:
		b.WriteString(wizardMutedStyle.Render("Loading current table..."))
	case stepDone:
		b.WriteString(wizardMutedStyle.Render("Saving... (esc to close)"))
	default:
		if m.loadErr != nil {
			b.WriteString(wizardNoteStyle.Render(ui.SymbolFail + " Could not load the current table; starting empty"))
			b.WriteString("\n")
		}
		if m.buildErr != nil {
			b.WriteString(wizardNoteStyle.Render(ui.SymbolFail + " Could not build the table: " + m.buildErr.Error()))
			b.WriteString("\n")
		}
		b.WriteString(m.form.View())
	}
	return b.String()
}

// ParseArtifactList splits newline or comma separated names, dropping
// blanks and duplicates while keeping order.
func ParseArtifactList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == ',' || r == '\r'
	})

	seen := make(map[string]bool, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// BuildServerTable returns a server table running artifacts, keeping any
// parameter specs of artifacts that remain selected.
func BuildServerTable(current *events.ArtifactCollectorArgs, artifacts []string) *events.ArtifactCollectorArgs {
	return buildBlock(current, artifacts)
}

// BuildClientTable returns a full client table in which the block for label
// (the default block when label is empty) runs artifacts. Every other block
// is carried over unchanged apart from compiled args, which are dropped.
// It fails rather than return a table missing the other blocks.
func BuildClientTable(current *events.ClientMonitoringState, label string, artifacts []string) (*events.ClientMonitoringState, error) {
	table, err := redactClient(current)
	if err != nil {
		return nil, err
	}

	if label == "" {
		table.Artifacts = buildBlock(table.Artifacts, artifacts)
		return table, nil
	}

	table.SetLabel(label, buildBlock(table.ForLabel(label), artifacts))
	return table, nil
}

func buildBlock(current *events.ArtifactCollectorArgs, artifacts []string) *events.ArtifactCollectorArgs {
	block := &events.ArtifactCollectorArgs{Artifacts: artifacts}
	if current == nil {
		return block
	}

	keep := make(map[string]bool, len(artifacts))
	for _, a := range artifacts {
		keep[a] = true
	}
	for _, spec := range current.Specs {
		if keep[spec.Artifact] {
			block.Specs = append(block.Specs, spec)
		}
	}
	return block
}
