package console

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/evmon/internal/events"
)

// Console palette
const (
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent    = lipgloss.Color("#FF2E97")
	ColorAccentDim = lipgloss.Color("#BF40FF")
	ColorServer    = lipgloss.Color("#00FFFF")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	// Artifact tabs
	TabStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Padding(0, 1)

	TabSelectedStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true).
				Underline(true).
				Padding(0, 1)

	ModeStyle = lipgloss.NewStyle().
			Foreground(ColorAccentDim).
			Bold(true)

	TargetStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	ServerTargetStyle = lipgloss.NewStyle().
				Foreground(ColorServer).
				Bold(true)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Italic(true).
				Padding(1, 2)

	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(1, 2)

	PromptStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(ColorBorder).
			Padding(0, 1)
)

// targetLabel renders the target name, highlighting the server.
func targetLabel(t events.Target) string {
	if t.IsServer() {
		return ServerTargetStyle.Render(t.String())
	}
	return TargetStyle.Render(t.String())
}
