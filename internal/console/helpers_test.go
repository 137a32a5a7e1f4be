package console

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/evmon/internal/events"
	gwtest "github.com/rileyhilliard/evmon/internal/gateway/testing"
	"github.com/rileyhilliard/evmon/internal/route"
	"github.com/rileyhilliard/evmon/internal/viewer"
)

// drain runs cmd synchronously and flattens batches into their messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// first returns the first message of type T produced by cmd.
func first[T any](cmd tea.Cmd) (T, bool) {
	for _, msg := range drain(cmd) {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

type stubWizard struct {
	server bool
	target events.Target
}

func (w stubWizard) Init() tea.Cmd                       { return nil }
func (w stubWizard) Update(tea.Msg) (tea.Model, tea.Cmd) { return w, nil }
func (w stubWizard) View() string                        { return "stub wizard" }

type stubWizards struct {
	opened []stubWizard
}

func (f *stubWizards) NewClientWizard(target events.Target) tea.Model {
	w := stubWizard{target: target}
	f.opened = append(f.opened, w)
	return w
}

func (f *stubWizards) NewServerWizard() tea.Model {
	w := stubWizard{server: true}
	f.opened = append(f.opened, w)
	return w
}

type recordingViewer struct {
	timeline []viewer.TimelineRequest
	reports  []viewer.ReportRequest
}

func (v *recordingViewer) RenderTimeline(req viewer.TimelineRequest, _ int) string {
	v.timeline = append(v.timeline, req)
	return "TIMELINE " + req.Artifact
}

func (v *recordingViewer) RenderReport(req viewer.ReportRequest, _ int) string {
	v.reports = append(v.reports, req)
	return "REPORT " + req.Artifact
}

var (
	usersArtifact = events.ArtifactDescriptor{
		Artifact: "Windows.System.Users",
		Definition: &events.ArtifactDefinition{ColumnTypes: []events.ColumnType{
			{Name: "_ts", Type: "timestamp"},
			{Name: "Name", Type: "string"},
		}},
	}
	statsArtifact = events.ArtifactDescriptor{Artifact: "Generic.Client.Stats"}
	auditArtifact = events.ArtifactDescriptor{Artifact: "Server.Audit.Logs"}
)

type fixture struct {
	gw      *gwtest.FakeGateway
	nav     *route.History
	viewer  *recordingViewer
	wizards *stubWizards
}

func newFixture() *fixture {
	gw := gwtest.NewFakeGateway().
		WithResults("client-123", usersArtifact, statsArtifact).
		WithResults("client-456", statsArtifact).
		WithResults(events.ServerClientID, auditArtifact)
	return &fixture{
		gw:      gw,
		nav:     route.NewHistory(""),
		viewer:  &recordingViewer{},
		wizards: &stubWizards{},
	}
}

func (f *fixture) model(target events.Target, artifact string) Model {
	return NewModel(Options{
		Gateway:   f.gw,
		Navigator: f.nav,
		Timeline:  f.viewer,
		Report:    f.viewer,
		Wizards:   f.wizards,
		Target:    target,
		Artifact:  artifact,
	})
}

// loaded returns a model whose initial index fetch has completed.
func (f *fixture) loaded(target events.Target, artifact string) Model {
	m := f.model(target, artifact)
	msg, _ := first[indexMsg](m.Init())
	m, _ = update(m, msg)
	return m
}
