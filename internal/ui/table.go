package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// tableStyles are the bubbles table styles used for command output: a
// bold underlined header and no selection highlight.
func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.Foreground(ColorPrimary)
	s.Selected = lipgloss.NewStyle()
	return s
}

// RenderTable renders rows under titles as a static table, sizing each
// column to its widest cell. It returns "" when there are no rows.
func RenderTable(titles []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	widths := make([]int, len(titles))
	for i, title := range titles {
		widths[i] = lipgloss.Width(title)
	}
	tableRows := make([]table.Row, len(rows))
	for r, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
		tableRows[r] = table.Row(row)
	}

	cols := make([]table.Column, len(titles))
	for i, title := range titles {
		cols[i] = table.Column{Title: title, Width: widths[i]}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(tableRows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1),
		table.WithStyles(tableStyles()),
	)
	return t.View()
}
