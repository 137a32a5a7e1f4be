package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LoaderFrames is the braille animation shown while remote data loads.
var LoaderFrames = spinner.Spinner{
	Frames: []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"},
	FPS:    time.Second / 16,
}

// LoaderState is the lifecycle of a Loader.
type LoaderState int

const (
	LoaderIdle LoaderState = iota
	LoaderActive
	LoaderDone
	// LoaderStopped means the load was abandoned. The label stays visible
	// without the animation and no error is shown.
	LoaderStopped
)

// Loader is a labelled spinner embedded in a larger Bubble Tea model.
type Loader struct {
	spinner spinner.Model
	label   string
	state   LoaderState
	started time.Time
}

// NewLoader returns an idle loader.
func NewLoader(label string) Loader {
	sp := spinner.New()
	sp.Spinner = LoaderFrames
	sp.Style = lipgloss.NewStyle().Foreground(ColorSecondary)
	return Loader{spinner: sp, label: label}
}

// Label returns the text shown next to the animation.
func (l Loader) Label() string { return l.label }

// State returns the current lifecycle state.
func (l Loader) State() LoaderState { return l.state }

// Start begins animating and returns the first tick.
func (l *Loader) Start() tea.Cmd {
	l.state = LoaderActive
	l.started = time.Now()
	return l.spinner.Tick
}

// Finish marks the load as complete.
func (l *Loader) Finish() { l.state = LoaderDone }

// Stop halts the animation without marking success.
func (l *Loader) Stop() { l.state = LoaderStopped }

// Update advances the animation. Once the loader leaves LoaderActive, ticks
// are dropped so the tick loop ends.
func (l Loader) Update(msg tea.Msg) (Loader, tea.Cmd) {
	tick, ok := msg.(spinner.TickMsg)
	if !ok || l.state != LoaderActive {
		return l, nil
	}
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(tick)
	return l, cmd
}

// View renders the loader for its state.
func (l Loader) View() string {
	muted := lipgloss.NewStyle().Foreground(ColorMuted)
	switch l.state {
	case LoaderActive:
		return l.spinner.View() + " " + l.label + "..."
	case LoaderDone:
		done := lipgloss.NewStyle().Foreground(ColorSuccess)
		return done.Render(SymbolSuccess) + " " + l.label + " " + muted.Render(formatElapsed(l.Elapsed()))
	default:
		return muted.Render(SymbolPending) + " " + l.label
	}
}

// Elapsed returns the time since Start, or zero before Start.
func (l Loader) Elapsed() time.Duration {
	if l.started.IsZero() {
		return 0
	}
	return time.Since(l.started)
}

func formatElapsed(d time.Duration) string {
	if d < 100*time.Millisecond {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
