package cli

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/rileyhilliard/evmon/internal/config"
	"github.com/rileyhilliard/evmon/internal/doctor"
	"github.com/rileyhilliard/evmon/internal/events"
	"github.com/rileyhilliard/evmon/internal/gateway"
	gwtest "github.com/rileyhilliard/evmon/internal/gateway/testing"
	"github.com/rileyhilliard/evmon/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useFakeGateway swaps newGateway for the duration of the test.
func useFakeGateway(t *testing.T, gw gateway.Gateway) {
	t.Helper()
	orig := newGateway
	newGateway = func(*config.Config, logger.Logger) (gateway.Gateway, error) { return gw, nil }
	t.Cleanup(func() { newGateway = orig })
}

func healthyGateway() *gwtest.FakeGateway {
	return gwtest.NewFakeGateway().
		WithResults("server", events.ArtifactDescriptor{Artifact: "Server.Audit.Logs"}).
		WithServerTable(&events.ArtifactCollectorArgs{Artifacts: []string{"Server.Audit.Logs"}}).
		WithClientTable(&events.ClientMonitoringState{
			Artifacts: &events.ArtifactCollectorArgs{Artifacts: []string{"Generic.Client.Stats"}},
		})
}

func validConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Server.URL = "https://monitor.example.com"
	return cfg
}

func TestCollectChecks_ValidConfig(t *testing.T) {
	useFakeGateway(t, healthyGateway())
	path := initConfig(t)

	report := doctor.Run(context.Background(), collectChecks(path, validConfig(), nil))

	require.Len(t, report.Results, 5)
	for _, r := range report.Results {
		assert.Equal(t, doctor.StatusPass, r.Status, "%s: %s", r.Name, r.Message)
	}
}

func TestCollectChecks_InvalidConfigSkipsGateway(t *testing.T) {
	called := false
	orig := newGateway
	newGateway = func(*config.Config, logger.Logger) (gateway.Gateway, error) {
		called = true
		return gwtest.NewFakeGateway(), nil
	}
	t.Cleanup(func() { newGateway = orig })

	report := doctor.Run(context.Background(), collectChecks("", config.DefaultConfig(), nil))

	assert.False(t, called)
	assert.True(t, report.Failed())
	assert.Equal(t, "No server configured", report.Results[2].Message)
}

func TestCollectChecks_LoadError(t *testing.T) {
	useFakeGateway(t, healthyGateway())

	report := doctor.Run(context.Background(), collectChecks("", nil, stderrors.New("yaml: line 3")))

	assert.Equal(t, doctor.StatusFail, report.Results[1].Status)
	assert.Equal(t, "Failed to load config", report.Results[1].Message)
}

func TestOutputDoctorJSON(t *testing.T) {
	useFakeGateway(t, healthyGateway())
	path := initConfig(t)

	report := doctor.Run(context.Background(), collectChecks(path, validConfig(), nil))

	var buf bytes.Buffer
	require.NoError(t, outputDoctorJSON(&buf, report))

	var out DoctorOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out.Categories, 2)
	assert.Equal(t, "CONFIG", out.Categories[0].Name)
	assert.Equal(t, "SERVER", out.Categories[1].Name)
	assert.Len(t, out.Categories[1].Results, 3)
	assert.Equal(t, 5, out.Summary.Pass)
	assert.True(t, out.Summary.AllClear)
	assert.Contains(t, buf.String(), `"status": "pass"`)
}

func TestOutputDoctorText(t *testing.T) {
	useFakeGateway(t, gwtest.NewFakeGateway().
		FailCall(gateway.CallGetClientMonitoringState, stderrors.New("permission denied")))
	path := initConfig(t)

	report := doctor.Run(context.Background(), collectChecks(path, validConfig(), nil))

	var buf bytes.Buffer
	outputDoctorText(&buf, report)

	out := buf.String()
	assert.Contains(t, out, "evmon Diagnostic Report")
	assert.Contains(t, out, "CONFIG")
	assert.Contains(t, out, "SERVER")
	assert.Contains(t, out, "Client monitoring table unreadable")
	assert.Contains(t, out, "permission denied")
}
