package ui

import (
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/stretchr/testify/assert"
)

func TestNewLoader(t *testing.T) {
	l := NewLoader("Loading table")

	assert.Equal(t, "Loading table", l.Label())
	assert.Equal(t, LoaderIdle, l.State())
	assert.Zero(t, l.Elapsed())
	assert.Contains(t, l.View(), SymbolPending)
}

func TestLoaderStart(t *testing.T) {
	l := NewLoader("Loading table")

	cmd := l.Start()

	assert.Equal(t, LoaderActive, l.State())
	assert.NotNil(t, cmd)
	assert.Contains(t, l.View(), "Loading table...")
}

func TestLoaderFinishAndStop(t *testing.T) {
	l := NewLoader("Loading")
	l.Start()

	l.Finish()
	assert.Equal(t, LoaderDone, l.State())
	assert.Contains(t, l.View(), SymbolSuccess)

	l.Stop()
	assert.Equal(t, LoaderStopped, l.State())
	assert.NotContains(t, l.View(), SymbolFail)
	assert.Contains(t, l.View(), "Loading")
}

func TestLoaderUpdate_DropsTicksWhenInactive(t *testing.T) {
	l := NewLoader("Loading")

	_, cmd := l.Update(spinner.TickMsg{})
	assert.Nil(t, cmd)

	l.Start()
	l.Stop()
	_, cmd = l.Update(spinner.TickMsg{})
	assert.Nil(t, cmd)
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "0.05s", formatElapsed(50*time.Millisecond))
	assert.Equal(t, "1.5s", formatElapsed(1500*time.Millisecond))
}
