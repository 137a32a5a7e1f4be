package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/evmon/internal/viewer"
)

// View renders the console.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderArtifactTabs())
	b.WriteString("\n\n")

	switch {
	case m.wizard != nil:
		b.WriteString(DialogStyle.Render(m.wizard.View()))
	case m.inspectorOpen:
		b.WriteString(m.inspector.View())
	default:
		if body := m.renderBody(); body != "" {
			b.WriteString(body)
		}
	}

	b.WriteString("\n")
	if m.prompting {
		b.WriteString(PromptStyle.Render(m.prompt.View()))
		b.WriteString("\n")
	}
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the title bar with the target and mode.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("evmon events")

	sep := LabelStyle.Render(" | ")
	stats := sep + LabelStyle.Render("target ") + targetLabel(m.target) +
		sep + LabelStyle.Render("mode ") + ModeStyle.Render(m.mode.String()) +
		sep + LabelStyle.Render(fmt.Sprintf("%d artifacts", len(m.index)))

	return HeaderStyle.Render(title + stats)
}

// renderArtifactTabs renders the selectable artifact names.
func (m Model) renderArtifactTabs() string {
	if len(m.index) == 0 {
		return LabelStyle.Render("No event results for this target")
	}

	var tabs []string
	for i, d := range m.index {
		label := d.Artifact
		if i < 9 {
			label = fmt.Sprintf("%d %s", i+1, d.Artifact)
		}
		if m.artifact != nil && m.artifact.Artifact == d.Artifact {
			tabs = append(tabs, TabSelectedStyle.Render(label))
		} else {
			tabs = append(tabs, TabStyle.Render(label))
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if m.width > 0 && lipgloss.Width(row) > m.width {
		return lipgloss.NewStyle().Width(m.width).Render(strings.Join(tabs, ""))
	}
	return row
}

// renderBody dispatches to the viewer for the current branch.
func (m Model) renderBody() string {
	switch m.Branch() {
	case BranchTimeline:
		return m.timeline.RenderTimeline(viewer.TimelineRequest{
			Target:      m.target,
			Artifact:    m.artifact.Artifact,
			Mode:        m.mode,
			ColumnTypes: m.artifact.ColumnTypes(),
			Renderers:   m.renderers,
		}, m.width)
	case BranchReport:
		return m.report.RenderReport(viewer.ReportRequest{
			Artifact: m.artifact.Artifact,
			Target:   m.target,
		}, m.width)
	case BranchPlaceholder:
		return PlaceholderStyle.Render(PlaceholderText)
	default:
		return ""
	}
}

// renderFooter renders the shortcut hints for the active context.
func (m Model) renderFooter() string {
	var hints string
	switch {
	case m.wizard != nil:
		hints = "esc close"
	case m.prompting:
		hints = "enter switch target | esc cancel"
	case m.inspectorOpen:
		hints = "↑↓ scroll | esc close"
	default:
		edit := "e edit client"
		if m.target.IsServer() {
			edit = "e edit server"
		}
		hints = "[ ] artifact | m mode | t target | " + edit + " | i inspect | r refresh | ? help | q quit"
	}
	return FooterStyle.Render(hints)
}
