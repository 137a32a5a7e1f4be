package events

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/rileyhilliard/evmon/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compiled() []json.RawMessage {
	return []json.RawMessage{json.RawMessage(`{"query":[{"VQL":"SELECT * FROM info()"}]}`)}
}

func TestRedactServerTable(t *testing.T) {
	table := &ArtifactCollectorArgs{
		Artifacts:             []string{"Server.Monitor.Health"},
		CompiledCollectorArgs: compiled(),
	}

	out, err := RedactServerTable(table)
	require.NoError(t, err)

	assert.Nil(t, out.CompiledCollectorArgs)
	assert.Equal(t, []string{"Server.Monitor.Health"}, out.Artifacts)

	// Input is not mutated
	assert.Len(t, table.CompiledCollectorArgs, 1)

	text, err := FormatTable(out, FormatJSON)
	require.NoError(t, err)
	assert.NotContains(t, text, "compiled_collector_args")
}

func TestRedactClientTable(t *testing.T) {
	table := &ClientMonitoringState{
		Artifacts: &ArtifactCollectorArgs{
			Artifacts:             []string{"Generic.Client.Stats"},
			CompiledCollectorArgs: compiled(),
		},
		LabelEvents: []LabelEvents{
			{Label: "windows", Artifacts: &ArtifactCollectorArgs{
				Artifacts:             []string{"Windows.Events.ProcessCreation"},
				CompiledCollectorArgs: compiled(),
			}},
			{Label: "empty"},
			{Label: "linux", Artifacts: &ArtifactCollectorArgs{
				Artifacts:             []string{"Linux.Events.SSHLogin"},
				CompiledCollectorArgs: compiled(),
			}},
		},
	}

	out, err := RedactClientTable(table)
	require.NoError(t, err)

	assert.Nil(t, out.Artifacts.CompiledCollectorArgs)
	for _, le := range out.LabelEvents {
		if le.Artifacts != nil {
			assert.Nil(t, le.Artifacts.CompiledCollectorArgs, le.Label)
		}
	}

	assert.Len(t, table.Artifacts.CompiledCollectorArgs, 1)
	assert.Len(t, table.LabelEvents[0].Artifacts.CompiledCollectorArgs, 1)

	for _, format := range []string{FormatJSON, FormatYAML} {
		text, err := FormatTable(out, format)
		require.NoError(t, err)
		assert.NotContains(t, text, "compiled_collector_args", format)
		assert.Contains(t, text, "Windows.Events.ProcessCreation", format)
	}
}

func TestRedact_NilTables(t *testing.T) {
	s, err := RedactServerTable(nil)
	require.NoError(t, err)
	assert.NotNil(t, s)

	c, err := RedactClientTable(nil)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestFormatTable_JSONIsIndented(t *testing.T) {
	text, err := FormatTable(&ArtifactCollectorArgs{Artifacts: []string{"A"}}, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "{\n  \"artifacts\""))
}

func TestFormatTable_UnknownFormat(t *testing.T) {
	_, err := FormatTable(&ArtifactCollectorArgs{}, "xml")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTable))
}
