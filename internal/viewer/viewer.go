// Package viewer holds the request shapes handed to result viewers and
// minimal default viewers. The defaults summarize what would be rendered;
// full timeline and report renderers plug in through the same requests.
package viewer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/evmon/internal/events"
	"github.com/rileyhilliard/evmon/internal/ui"
)

// CellRenderer formats one cell of a result column.
type CellRenderer func(value interface{}) string

// TimestampColumns are the columns rendered as timestamps regardless of
// declared type.
var TimestampColumns = []string{"_ts", "Timestamp", "client_time"}

// DefaultRenderers returns the column renderers used for event results.
func DefaultRenderers() map[string]CellRenderer {
	r := make(map[string]CellRenderer, len(TimestampColumns))
	for _, c := range TimestampColumns {
		r[c] = RenderTimestamp
	}
	return r
}

// TimelineRequest is what a timeline/log viewer needs to show results.
type TimelineRequest struct {
	Target      events.Target
	Artifact    string
	Mode        events.DisplayMode
	ColumnTypes []events.ColumnType
	Renderers   map[string]CellRenderer
}

// ReportRequest is what a structured-report viewer needs.
type ReportRequest struct {
	Artifact string
	Target   events.Target
}

// FormatTimestamp renders microseconds since the epoch as RFC3339 UTC.
func FormatTimestamp(usec int64) string {
	if usec <= 0 {
		return ""
	}
	return time.UnixMicro(usec).UTC().Format(time.RFC3339)
}

// RenderTimestamp accepts the numeric forms found in result rows. Values
// that are not numbers are shown unchanged.
func RenderTimestamp(v interface{}) string {
	switch n := v.(type) {
	case nil:
		return ""
	case int64:
		return FormatTimestamp(n)
	case int:
		return FormatTimestamp(int64(n))
	case float64:
		return FormatTimestamp(int64(n))
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return FormatTimestamp(i)
		}
		return n
	default:
		return fmt.Sprint(v)
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorInfo)
	labelStyle = lipgloss.NewStyle().Foreground(ui.ColorMuted)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.ColorMuted).
			Padding(0, 1)
)

// Summary is the default TimelineViewer and ReportViewer.
type Summary struct{}

// RenderTimeline describes the timeline request.
func (Summary) RenderTimeline(req TimelineRequest, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(req.Artifact))
	b.WriteString(labelStyle.Render(fmt.Sprintf("  %s on %s", req.Mode, req.Target.ClientID())))
	b.WriteString("\n\n")

	if len(req.ColumnTypes) == 0 {
		b.WriteString(labelStyle.Render("No column types declared"))
	} else {
		rows := make([][]string, 0, len(req.ColumnTypes))
		for _, c := range req.ColumnTypes {
			render := "raw"
			if _, ok := req.Renderers[c.Name]; ok {
				render = "timestamp"
			}
			rows = append(rows, []string{c.Name, c.Type, render})
		}
		b.WriteString(ui.RenderTable([]string{"Column", "Type", "Render"}, rows))
	}

	return frame(b.String(), width)
}

// RenderReport describes the report request.
func (Summary) RenderReport(req ReportRequest, width int) string {
	body := titleStyle.Render("Report: "+req.Artifact) + "\n" +
		labelStyle.Render("Target: "+req.Target.ClientID())
	return frame(body, width)
}

func frame(body string, width int) string {
	if width > 4 {
		return boxStyle.Width(width - 2).Render(body)
	}
	return boxStyle.Render(body)
}
