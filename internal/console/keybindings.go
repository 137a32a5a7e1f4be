package console

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/evmon/internal/events"
)

// Key bindings as constants for consistency.
const (
	KeyQuit       = "q"
	KeyQuitAlt    = "ctrl+c"
	KeyRefresh    = "r"
	KeyCycleMode  = "m"
	KeyPrevItem   = "["
	KeyPrevAlt    = "left"
	KeyNextItem   = "]"
	KeyNextAlt    = "right"
	KeyTarget     = "t"
	KeyEdit       = "e"
	KeyInspect    = "i"
	KeyClose      = "esc"
	KeyConfirm    = "enter"
	KeyToggleHelp = "?"
)

// HandleKeyMsg processes keyboard input. Returns true if the key was
// handled, false otherwise. While a dialog is open it receives every key
// except the ones that close it.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	if key == KeyQuitAlt {
		return true, m.Unmount()
	}

	if m.wizard != nil {
		if key == KeyClose {
			m.CloseWizard()
			return true, nil
		}
		var cmd tea.Cmd
		m.wizard, cmd = m.wizard.Update(msg)
		return true, cmd
	}

	if m.prompting {
		return true, m.handlePromptKey(msg)
	}

	if m.inspectorOpen {
		switch key {
		case KeyClose, KeyInspect, KeyQuit:
			m.CloseRawInspector()
			return true, nil
		}
		var cmd tea.Cmd
		m.inspector, cmd = m.inspector.Update(msg)
		return true, cmd
	}

	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}
	if m.showHelp && key == KeyClose {
		m.showHelp = false
		return true, nil
	}

	switch key {
	case KeyQuit:
		return true, m.Unmount()

	case KeyRefresh:
		return true, m.Initialize()

	case KeyCycleMode:
		m.SetMode(m.mode.Next())
		return true, nil

	case KeyPrevItem, KeyPrevAlt:
		m.selectRelative(-1)
		return true, nil

	case KeyNextItem, KeyNextAlt:
		m.selectRelative(1)
		return true, nil

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		i := int(key[0] - '1')
		if i < len(m.index) {
			m.SelectArtifact(m.index[i])
		}
		return true, nil

	case KeyTarget:
		return true, m.openPrompt()

	case KeyEdit:
		if m.target.IsServer() {
			return true, m.OpenServerEditWizard()
		}
		return true, m.OpenEditWizard()

	case KeyInspect:
		return true, m.OpenRawInspector()
	}

	return false, nil
}

// handlePromptKey drives the target prompt.
func (m *Model) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case KeyClose:
		m.closePrompt()
		return nil
	case KeyConfirm:
		t := events.ParseTarget(m.prompt.Value())
		m.closePrompt()
		return m.ChangeTarget(t)
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return cmd
}

// selectRelative moves the selection by delta within the index, wrapping.
// With nothing selected, moving forward picks the first entry and moving
// back picks the last.
func (m *Model) selectRelative(delta int) {
	n := len(m.index)
	if n == 0 {
		return
	}

	cur := -1
	if m.artifact != nil {
		for i, d := range m.index {
			if d.Artifact == m.artifact.Artifact {
				cur = i
				break
			}
		}
	}

	var next int
	switch {
	case cur < 0 && delta < 0:
		next = n - 1
	case cur < 0:
		next = 0
	default:
		next = ((cur+delta)%n + n) % n
	}
	m.SelectArtifact(m.index[next])
}
