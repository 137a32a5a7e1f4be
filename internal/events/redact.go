package events

import (
	"encoding/json"
	"strings"

	"github.com/mitchellh/copystructure"
	"github.com/rileyhilliard/evmon/internal/errors"
	"gopkg.in/yaml.v3"
)

// RedactServerTable returns a copy of t without compiled collector args.
// t is left untouched.
func RedactServerTable(t *ArtifactCollectorArgs) (*ArtifactCollectorArgs, error) {
	if t == nil {
		return &ArtifactCollectorArgs{}, nil
	}
	c, err := copystructure.Copy(t)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTable,
			"Failed to copy server monitoring table", "")
	}
	out := c.(*ArtifactCollectorArgs)
	out.CompiledCollectorArgs = nil
	return out, nil
}

// RedactClientTable returns a copy of t with compiled collector args removed
// from the top-level block and from every label_events block.
func RedactClientTable(t *ClientMonitoringState) (*ClientMonitoringState, error) {
	if t == nil {
		return &ClientMonitoringState{}, nil
	}
	c, err := copystructure.Copy(t)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTable,
			"Failed to copy client monitoring table", "")
	}
	out := c.(*ClientMonitoringState)
	if out.Artifacts != nil {
		out.Artifacts.CompiledCollectorArgs = nil
	}
	for i := range out.LabelEvents {
		if out.LabelEvents[i].Artifacts != nil {
			out.LabelEvents[i].Artifacts.CompiledCollectorArgs = nil
		}
	}
	return out, nil
}

// Output formats accepted by FormatTable.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatTable renders an already redacted table for display.
func FormatTable(v interface{}, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", errors.WrapWithCode(err, errors.ErrTable, "Failed to encode table as JSON", "")
		}
		return string(b), nil
	case FormatYAML, "yml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return "", errors.WrapWithCode(err, errors.ErrTable, "Failed to encode table as YAML", "")
		}
		return string(b), nil
	}
	return "", errors.New(errors.ErrTable,
		"Unknown output format: "+format,
		"Use --format json or --format yaml")
}
