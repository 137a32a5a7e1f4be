// Package ui holds the terminal styling shared by evmon's commands and the
// console: the ANSI palette, status symbols, a Loader shown while remote
// data is fetched, and static tables for command output.
//
// DisableColors switches every lipgloss style to monochrome for --no-color
// and NO_COLOR.
package ui
