package events

import "encoding/json"

// ColumnType declares how a result column should be rendered.
type ColumnType struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// ArtifactDefinition is the subset of an artifact definition the console uses.
type ArtifactDefinition struct {
	ColumnTypes []ColumnType `json:"column_types,omitempty" yaml:"column_types,omitempty"`
}

// ArtifactDescriptor describes one monitored artifact that has results.
type ArtifactDescriptor struct {
	Artifact   string              `json:"artifact" yaml:"artifact"`
	Definition *ArtifactDefinition `json:"definition,omitempty" yaml:"definition,omitempty"`
}

// ColumnTypes returns the declared column types, or nil without a definition.
func (d ArtifactDescriptor) ColumnTypes() []ColumnType {
	if d.Definition == nil {
		return nil
	}
	return d.Definition.ColumnTypes
}

// ResultIndex lists the artifacts with collected results for a target, in
// server order.
type ResultIndex []ArtifactDescriptor

// Find returns the entry with the given artifact name.
func (idx ResultIndex) Find(name string) (ArtifactDescriptor, bool) {
	if name == "" {
		return ArtifactDescriptor{}, false
	}
	for _, d := range idx {
		if d.Artifact == name {
			return d, true
		}
	}
	return ArtifactDescriptor{}, false
}

// Names returns the artifact names in order.
func (idx ResultIndex) Names() []string {
	names := make([]string, len(idx))
	for i, d := range idx {
		names[i] = d.Artifact
	}
	return names
}

// ListEventResultsRequest is the ListAvailableEventResults request.
type ListEventResultsRequest struct {
	ClientID string `json:"client_id"`
}

// ListEventResultsResponse is the ListAvailableEventResults response.
type ListEventResultsResponse struct {
	Logs []ArtifactDescriptor `json:"logs"`
}

// EnvPair is one artifact parameter.
type EnvPair struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// ArtifactParameters holds parameters for one artifact in a table.
type ArtifactParameters struct {
	Env []EnvPair `json:"env,omitempty" yaml:"env,omitempty"`
}

// ArtifactSpec binds parameters to a named artifact.
type ArtifactSpec struct {
	Artifact   string              `json:"artifact" yaml:"artifact"`
	Parameters *ArtifactParameters `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// ArtifactCollectorArgs is a monitoring table: the server's whole table, or
// one block of a client table.
type ArtifactCollectorArgs struct {
	Artifacts []string       `json:"artifacts,omitempty" yaml:"artifacts,omitempty"`
	Specs     []ArtifactSpec `json:"specs,omitempty" yaml:"specs,omitempty"`

	// CompiledCollectorArgs is produced by the server. It is internal and
	// must be removed before a table reaches the display layer. YAML never
	// carries it: a raw message has no YAML form.
	CompiledCollectorArgs []json.RawMessage `json:"compiled_collector_args,omitempty" yaml:"-"`
}

// LabelEvents is the per-label override block of a client table.
type LabelEvents struct {
	Label     string                 `json:"label" yaml:"label"`
	Artifacts *ArtifactCollectorArgs `json:"artifacts,omitempty" yaml:"artifacts,omitempty"`
}

// ClientMonitoringState is the full client monitoring table.
type ClientMonitoringState struct {
	Artifacts   *ArtifactCollectorArgs `json:"artifacts,omitempty" yaml:"artifacts,omitempty"`
	LabelEvents []LabelEvents          `json:"label_events,omitempty" yaml:"label_events,omitempty"`
	Version     uint64                 `json:"version,omitempty" yaml:"version,omitempty"`
}

// ForLabel returns the block for label, or nil.
func (s *ClientMonitoringState) ForLabel(label string) *ArtifactCollectorArgs {
	if s == nil {
		return nil
	}
	for _, le := range s.LabelEvents {
		if le.Label == label {
			return le.Artifacts
		}
	}
	return nil
}

// SetLabel replaces the block for label, appending a new entry if needed.
func (s *ClientMonitoringState) SetLabel(label string, args *ArtifactCollectorArgs) {
	for i, le := range s.LabelEvents {
		if le.Label == label {
			s.LabelEvents[i].Artifacts = args
			return
		}
	}
	s.LabelEvents = append(s.LabelEvents, LabelEvents{Label: label, Artifacts: args})
}

// Ack is the empty acknowledgement returned by table updates.
type Ack struct{}
