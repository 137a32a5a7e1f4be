package console

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/evmon/internal/events"
	"github.com/rileyhilliard/evmon/internal/gateway"
	"github.com/rileyhilliard/evmon/internal/logger"
	"github.com/rileyhilliard/evmon/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectBranch(t *testing.T) {
	tests := []struct {
		mode        events.DisplayMode
		hasArtifact bool
		expect      Branch
	}{
		{events.ModeRawData, true, BranchTimeline},
		{events.ModeLogs, true, BranchTimeline},
		{events.ModeReport, true, BranchReport},
		{events.ModeReport, false, BranchPlaceholder},
		{events.ModeRawData, false, BranchNone},
		{events.ModeLogs, false, BranchNone},
		{events.DisplayMode(42), true, BranchNone},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String()+"/"+tt.expect.String(), func(t *testing.T) {
			assert.Equal(t, tt.expect, SelectBranch(tt.mode, tt.hasArtifact))
		})
	}
}

func TestBranch_String(t *testing.T) {
	assert.Equal(t, "timeline", BranchTimeline.String())
	assert.Equal(t, "placeholder", BranchPlaceholder.String())
	assert.Equal(t, "unknown", Branch(9).String())
}

func TestNewModel_Defaults(t *testing.T) {
	m := NewModel(Options{Gateway: newFixture().gw})

	assert.True(t, m.Target().IsServer())
	assert.Equal(t, events.ModeRawData, m.Mode())
	assert.Empty(t, m.Index())
	_, ok := m.SelectedArtifact()
	assert.False(t, ok)
	assert.False(t, m.EditWizardOpen())
	assert.False(t, m.ServerEditWizardOpen())
	assert.False(t, m.InspectorOpen())
}

func TestModel_InitSelectsRouteArtifact(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.EndpointTarget("client-123"), "Windows.System.Users")

	assert.Equal(t, []string{"client-123"}, f.gw.ListClientIDs)
	assert.Equal(t, []string{"Windows.System.Users", "Generic.Client.Stats"}, m.Index().Names())

	sel, ok := m.SelectedArtifact()
	require.True(t, ok)
	assert.Equal(t, "Windows.System.Users", sel.Artifact)
	assert.Len(t, sel.ColumnTypes(), 2)
	assert.Equal(t, events.ModeRawData, m.Mode())
	assert.Equal(t, BranchTimeline, m.Branch())
}

func TestModel_InitRouteArtifactNotInIndex(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.EndpointTarget("client-123"), "Missing.Artifact")

	assert.Len(t, m.Index(), 2)
	_, ok := m.SelectedArtifact()
	assert.False(t, ok)
	assert.Equal(t, BranchNone, m.Branch())
}

func TestModel_ServerTargetQueriesServerClientID(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.ServerTarget(), "")

	assert.Equal(t, []string{"server"}, f.gw.ListClientIDs)
	assert.Equal(t, []string{"Server.Audit.Logs"}, m.Index().Names())
}

func TestModel_InitFailureLeavesIndexUnchanged(t *testing.T) {
	f := newFixture()
	f.gw.FailCall(gateway.CallListAvailableEventResults, errors.New("boom"))
	log := logger.NewBufferLogger()

	m := NewModel(Options{Gateway: f.gw, Navigator: f.nav, Logger: log, Target: events.EndpointTarget("client-123")})
	msg, ok := first[indexMsg](m.Init())
	require.True(t, ok)
	m, cmd := update(m, msg)

	assert.Nil(t, cmd)
	assert.Empty(t, m.Index())
	assert.True(t, log.HasLevel("debug"))
	assert.Contains(t, m.View(), "No event results")
}

func TestModel_StaleIndexDiscarded(t *testing.T) {
	f := newFixture()
	m := f.model(events.EndpointTarget("client-123"), "")

	initCmd := m.Init()
	m, changeCmd := update(m, ChangeTargetMsg{Target: events.EndpointTarget("client-456")})
	require.NotNil(t, changeCmd)

	// The newer response lands first, then the superseded one.
	fresh, ok := first[indexMsg](changeCmd)
	require.True(t, ok)
	stale, ok := first[indexMsg](initCmd)
	require.True(t, ok)

	m, _ = update(m, fresh)
	m, _ = update(m, stale)

	assert.Equal(t, []string{"Generic.Client.Stats"}, m.Index().Names())
	assert.Equal(t, "client-456", m.Target().ClientID())
}

func TestModel_StaleIndexDiscardedInOrder(t *testing.T) {
	f := newFixture()
	m := f.model(events.EndpointTarget("client-123"), "")

	initCmd := m.Init()
	m, changeCmd := update(m, ChangeTargetMsg{Target: events.ServerTarget()})

	stale, _ := first[indexMsg](initCmd)
	fresh, _ := first[indexMsg](changeCmd)

	m, _ = update(m, stale)
	assert.Empty(t, m.Index())

	m, _ = update(m, fresh)
	assert.Equal(t, []string{"Server.Audit.Logs"}, m.Index().Names())
}

func TestModel_ChangeTargetSameTargetIsNoop(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.EndpointTarget("client-123"), "")

	m, cmd := update(m, ChangeTargetMsg{Target: events.EndpointTarget("client-123")})

	assert.Nil(t, cmd)
	assert.Equal(t, 1, f.gw.CallCount(gateway.CallListAvailableEventResults))
	assert.Len(t, m.Index(), 2)
}

func TestModel_ChangeTargetKeepsSelectionModeAndDialogs(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.EndpointTarget("client-123"), "Windows.System.Users")
	m.SetMode(events.ModeReport)
	_ = m.OpenRawInspector()

	m, cmd := update(m, ChangeTargetMsg{Target: events.EndpointTarget("client-456")})
	msg, ok := first[indexMsg](cmd)
	require.True(t, ok)
	m, _ = update(m, msg)

	assert.Equal(t, 2, f.gw.CallCount(gateway.CallListAvailableEventResults))
	assert.Equal(t, []string{"client-123", "client-456"}, f.gw.ListClientIDs)

	sel, ok := m.SelectedArtifact()
	require.True(t, ok)
	assert.Equal(t, "Windows.System.Users", sel.Artifact)
	assert.Equal(t, events.ModeReport, m.Mode())
	assert.True(t, m.InspectorOpen())
	assert.Equal(t, []string{"Generic.Client.Stats"}, m.Index().Names())
}

func TestModel_SelectArtifactPushesRouteWithoutFetch(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.EndpointTarget("client-123"), "")

	m.SelectArtifact(statsArtifact)

	assert.Equal(t, "/events/client-123/Generic.Client.Stats", f.nav.Current())
	assert.Equal(t, 1, f.gw.CallCount(gateway.CallListAvailableEventResults))
	sel, ok := m.SelectedArtifact()
	require.True(t, ok)
	assert.Equal(t, "Generic.Client.Stats", sel.Artifact)
}

func TestModel_SelectedArtifactIsACopy(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.EndpointTarget("client-123"), "")

	d := statsArtifact
	m.SelectArtifact(d)
	d.Artifact = "changed"

	sel, _ := m.SelectedArtifact()
	assert.Equal(t, "Generic.Client.Stats", sel.Artifact)
}

func TestModel_ArtifactKeys(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.EndpointTarget("client-123"), "")

	m, _ = update(m, keyMsg("]"))
	sel, _ := m.SelectedArtifact()
	assert.Equal(t, "Windows.System.Users", sel.Artifact)

	m, _ = update(m, keyMsg("right"))
	sel, _ = m.SelectedArtifact()
	assert.Equal(t, "Generic.Client.Stats", sel.Artifact)

	// wraps
	m, _ = update(m, keyMsg("]"))
	sel, _ = m.SelectedArtifact()
	assert.Equal(t, "Windows.System.Users", sel.Artifact)

	m, _ = update(m, keyMsg("2"))
	sel, _ = m.SelectedArtifact()
	assert.Equal(t, "Generic.Client.Stats", sel.Artifact)

	// out of range is ignored
	m, _ = update(m, keyMsg("9"))
	sel, _ = m.SelectedArtifact()
	assert.Equal(t, "Generic.Client.Stats", sel.Artifact)

	assert.Equal(t, "/events/client-123/Generic.Client.Stats", f.nav.Current())
	assert.Equal(t, 1, f.gw.CallCount(gateway.CallListAvailableEventResults))
}

func TestModel_PrevKeyWithoutSelectionPicksLast(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.EndpointTarget("client-123"), "")

	m, _ = update(m, keyMsg("["))
	sel, ok := m.SelectedArtifact()
	require.True(t, ok)
	assert.Equal(t, "Generic.Client.Stats", sel.Artifact)
}

func TestModel_CycleMode(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.EndpointTarget("client-123"), "")

	m, _ = update(m, keyMsg("m"))
	assert.Equal(t, events.ModeLogs, m.Mode())
	m, _ = update(m, keyMsg("m"))
	assert.Equal(t, events.ModeReport, m.Mode())
	m, _ = update(m, keyMsg("m"))
	assert.Equal(t, events.ModeRawData, m.Mode())
	assert.Equal(t, 1, f.gw.CallCount(gateway.CallListAvailableEventResults))
}

func TestModel_RefreshKeyRefetches(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.EndpointTarget("client-123"), "")

	f.gw.WithResults("client-123", statsArtifact)
	m, cmd := update(m, keyMsg("r"))
	msg, ok := first[indexMsg](cmd)
	require.True(t, ok)
	m, _ = update(m, msg)

	assert.Equal(t, []string{"Generic.Client.Stats"}, m.Index().Names())
}

func TestModel_TargetPrompt(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.EndpointTarget("client-123"), "")

	m, _ = update(m, keyMsg("t"))
	assert.True(t, m.prompting)

	m, _ = update(m, keyMsg("client-456"))
	// keys go to the prompt, not the console
	assert.Equal(t, events.ModeRawData, m.Mode())

	m, cmd := update(m, keyMsg("enter"))
	assert.False(t, m.prompting)
	assert.Equal(t, "client-456", m.Target().ClientID())

	msg, ok := first[indexMsg](cmd)
	require.True(t, ok)
	m, _ = update(m, msg)
	assert.Equal(t, []string{"Generic.Client.Stats"}, m.Index().Names())
}

func TestModel_TargetPromptEmptyMeansServer(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.EndpointTarget("client-123"), "")

	m, _ = update(m, keyMsg("t"))
	m, _ = update(m, keyMsg("enter"))
	assert.True(t, m.Target().IsServer())
}

func TestModel_TargetPromptEscCancels(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.EndpointTarget("client-123"), "")

	m, _ = update(m, keyMsg("t"))
	m, _ = update(m, keyMsg("x"))
	m, cmd := update(m, keyMsg("esc"))

	assert.Nil(t, cmd)
	assert.False(t, m.prompting)
	assert.Equal(t, "client-123", m.Target().ClientID())
}

func TestModel_EditKeyPicksWizardByTarget(t *testing.T) {
	f := newFixture()

	m := f.loaded(events.EndpointTarget("client-123"), "")
	m, _ = update(m, keyMsg("e"))
	assert.True(t, m.EditWizardOpen())
	assert.False(t, m.ServerEditWizardOpen())
	require.Len(t, f.wizards.opened, 1)
	assert.Equal(t, "client-123", f.wizards.opened[0].target.ClientID())

	s := f.loaded(events.ServerTarget(), "")
	s, _ = update(s, keyMsg("e"))
	assert.False(t, s.EditWizardOpen())
	assert.True(t, s.ServerEditWizardOpen())
	require.Len(t, f.wizards.opened, 2)
	assert.True(t, f.wizards.opened[1].server)
}

func TestModel_WizardEscCloses(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.EndpointTarget("client-123"), "")

	m, _ = update(m, keyMsg("e"))
	assert.Contains(t, m.View(), "stub wizard")

	// console keys are swallowed by the wizard
	m, _ = update(m, keyMsg("m"))
	assert.Equal(t, events.ModeRawData, m.Mode())

	m, _ = update(m, keyMsg("esc"))
	assert.False(t, m.EditWizardOpen())
	assert.NotContains(t, m.View(), "stub wizard")
}

func TestModel_WizardCancelMsgCloses(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.EndpointTarget("client-123"), "")
	m, _ = update(m, keyMsg("e"))

	m, _ = update(m, wizard.CancelMsg{})
	assert.False(t, m.EditWizardOpen())
}

func TestModel_ApplyEditedTableClosesWizardWithoutRefresh(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.EndpointTarget("client-123"), "Windows.System.Users")
	m, _ = update(m, keyMsg("e"))
	before := m.Index()

	table := &events.ClientMonitoringState{
		Artifacts: &events.ArtifactCollectorArgs{Artifacts: []string{"Windows.Events.ProcessCreation"}},
	}
	m, cmd := update(m, wizard.SubmitClientMsg{Target: m.Target(), Table: table})
	msg, ok := first[appliedMsg](cmd)
	require.True(t, ok)
	m, _ = update(m, msg)

	assert.False(t, m.EditWizardOpen())
	require.Len(t, f.gw.SetClientCalls, 1)
	assert.Equal(t, table, f.gw.SetClientCalls[0])
	assert.Equal(t, before, m.Index())
	assert.Equal(t, 1, f.gw.CallCount(gateway.CallListAvailableEventResults))
}

func TestModel_ApplyEditedServerTableClosesWizard(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.ServerTarget(), "")
	m, _ = update(m, keyMsg("e"))
	require.True(t, m.ServerEditWizardOpen())

	table := &events.ArtifactCollectorArgs{Artifacts: []string{"Server.Monitor.Health"}}
	m, cmd := update(m, wizard.SubmitServerMsg{Table: table})
	msg, ok := first[appliedMsg](cmd)
	require.True(t, ok)
	m, _ = update(m, msg)

	assert.False(t, m.ServerEditWizardOpen())
	require.Len(t, f.gw.SetServerCalls, 1)
	assert.Equal(t, []string{"Server.Monitor.Health"}, f.gw.SetServerCalls[0].Artifacts)
}

func TestModel_ApplyFailureKeepsWizardOpen(t *testing.T) {
	f := newFixture()
	f.gw.FailCall(gateway.CallSetClientMonitoringState, errors.New("denied"))
	m := f.loaded(events.EndpointTarget("client-123"), "")
	m, _ = update(m, keyMsg("e"))

	m, cmd := update(m, wizard.SubmitClientMsg{Table: &events.ClientMonitoringState{}})
	msg, _ := first[appliedMsg](cmd)
	m, _ = update(m, msg)

	assert.True(t, m.EditWizardOpen())
}

func TestModel_SubmitIgnoredWhenWizardClosed(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.EndpointTarget("client-123"), "")

	_, cmd := update(m, wizard.SubmitClientMsg{Table: &events.ClientMonitoringState{}})
	assert.Nil(t, cmd)
	assert.Empty(t, f.gw.SetClientCalls)
}

func TestModel_InspectorKeys(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.EndpointTarget("client-123"), "")

	m, cmd := update(m, keyMsg("i"))
	assert.True(t, m.InspectorOpen())
	msg, ok := first[inspectorLoadedMsg](cmd)
	require.True(t, ok)
	m, _ = update(m, msg)
	assert.Equal(t, InspectorLoaded, m.Inspector().State())
	assert.Contains(t, m.View(), "Raw Client Monitoring Table JSON")

	// q closes the inspector rather than quitting
	m, cmd = update(m, keyMsg("q"))
	assert.Nil(t, cmd)
	assert.False(t, m.InspectorOpen())
	assert.Empty(t, m.Inspector().Text())
}

func TestModel_UnmountDiscardsInFlight(t *testing.T) {
	f := newFixture()
	m := f.model(events.EndpointTarget("client-123"), "")
	initCmd := m.Init()

	m, cmd := update(m, keyMsg("q"))
	_, isQuit := first[tea.QuitMsg](cmd)
	assert.True(t, isQuit)

	msg, _ := first[indexMsg](initCmd)
	assert.True(t, msg.token.Cancelled())
	m, _ = update(m, msg)
	assert.Empty(t, m.Index())
	assert.Equal(t, "", m.View())
}

func TestModel_CtrlCQuitsFromDialogs(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.EndpointTarget("client-123"), "")
	m, _ = update(m, keyMsg("e"))

	_, cmd := update(m, keyMsg("ctrl+c"))
	_, isQuit := first[tea.QuitMsg](cmd)
	assert.True(t, isQuit)
}

func TestModel_ViewRoutesToViewers(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.EndpointTarget("client-123"), "Windows.System.Users")

	assert.Contains(t, m.View(), "TIMELINE Windows.System.Users")
	require.NotEmpty(t, f.viewer.timeline)
	req := f.viewer.timeline[len(f.viewer.timeline)-1]
	assert.Equal(t, events.ModeRawData, req.Mode)
	assert.Equal(t, "client-123", req.Target.ClientID())
	assert.Len(t, req.ColumnTypes, 2)
	for _, col := range []string{"_ts", "Timestamp", "client_time"} {
		assert.Contains(t, req.Renderers, col)
	}

	m.SetMode(events.ModeLogs)
	m.View()
	assert.Equal(t, events.ModeLogs, f.viewer.timeline[len(f.viewer.timeline)-1].Mode)

	m.SetMode(events.ModeReport)
	assert.Contains(t, m.View(), "REPORT Windows.System.Users")
	require.Len(t, f.viewer.reports, 1)
	assert.Equal(t, "client-123", f.viewer.reports[0].Target.ClientID())
}

func TestModel_ViewPlaceholderAndNone(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.EndpointTarget("client-123"), "")

	view := m.View()
	assert.NotContains(t, view, PlaceholderText)
	assert.NotContains(t, view, "TIMELINE")

	m.SetMode(events.ModeReport)
	assert.Contains(t, m.View(), PlaceholderText)
	assert.Empty(t, f.viewer.reports)
}

func TestModel_HelpToggle(t *testing.T) {
	f := newFixture()
	m := f.loaded(events.EndpointTarget("client-123"), "")

	m, _ = update(m, keyMsg("?"))
	assert.Contains(t, m.View(), "Keyboard Shortcuts")
	m, _ = update(m, keyMsg("esc"))
	assert.NotContains(t, m.View(), "Keyboard Shortcuts")
}

func TestModel_InspectorFollowsModelContext(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	m := NewModel(Options{
		Context:   ctx,
		Gateway:   f.gw,
		Navigator: f.nav,
		Timeline:  f.viewer,
		Report:    f.viewer,
		Wizards:   f.wizards,
		Target:    events.ServerTarget(),
	})
	cancel()

	msg, ok := first[inspectorLoadedMsg](m.OpenRawInspector())
	require.True(t, ok)
	assert.True(t, msg.token.Cancelled())
}
