package events

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/evmon/internal/errors"
)

// DisplayMode selects how results for the selected artifact are shown.
// It never affects what is fetched.
type DisplayMode int

const (
	ModeRawData DisplayMode = iota
	ModeLogs
	ModeReport
)

// modeCount is the number of display modes, used for cycling.
const modeCount = 3

// String returns the label shown in the mode selector.
func (m DisplayMode) String() string {
	switch m {
	case ModeRawData:
		return "Raw Data"
	case ModeLogs:
		return "Logs"
	case ModeReport:
		return "Report"
	default:
		return "unknown"
	}
}

// Next cycles to the next display mode.
func (m DisplayMode) Next() DisplayMode {
	return DisplayMode((int(m) + 1) % modeCount)
}

// Modes returns all display modes in selector order.
func Modes() []DisplayMode {
	return []DisplayMode{ModeRawData, ModeLogs, ModeReport}
}

// ParseMode accepts the selector label or a short flag form
// (raw, raw_data, logs, report), case-insensitively.
func ParseMode(s string) (DisplayMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "raw", "raw data", "raw_data", "raw-data", "rawdata":
		return ModeRawData, nil
	case "logs", "log":
		return ModeLogs, nil
	case "report":
		return ModeReport, nil
	}
	return ModeRawData, errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown display mode '%s'", s),
		"Use one of: raw, logs, report.")
}
