package console

import "github.com/rileyhilliard/evmon/internal/events"

// Branch is the body the console renders below its toolbar.
type Branch int

const (
	BranchNone Branch = iota
	BranchTimeline
	BranchReport
	BranchPlaceholder
)

// String returns the branch name.
func (b Branch) String() string {
	switch b {
	case BranchNone:
		return "none"
	case BranchTimeline:
		return "timeline"
	case BranchReport:
		return "report"
	case BranchPlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// SelectBranch maps the display mode and whether an artifact is selected to
// the body to render.
func SelectBranch(mode events.DisplayMode, hasArtifact bool) Branch {
	switch mode {
	case events.ModeRawData, events.ModeLogs:
		if hasArtifact {
			return BranchTimeline
		}
		return BranchNone
	case events.ModeReport:
		if hasArtifact {
			return BranchReport
		}
		return BranchPlaceholder
	default:
		return BranchNone
	}
}
