// Package tui implements unitmanctl's interactive dashboard: a single
// scrollable table of units polled from the daemon over its control
// plane, styled after a k9s-like terminal UI.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors (k9s-inspired)
	primaryColor = lipgloss.Color("#7D56F4") // Purple
	successColor = lipgloss.Color("#00FF00") // Green
	errorColor   = lipgloss.Color("#FF0000") // Red
	warnColor    = lipgloss.Color("#FFA500") // Orange
	dimColor     = lipgloss.Color("#666666") // Gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	warnStyle = lipgloss.NewStyle().
			Foreground(warnColor)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			MarginTop(1)
)

// formatState styles a unit.State.String() value for display.
func formatState(state string) string {
	switch {
	case strings.HasPrefix(state, "running (degraded)"):
		return warnStyle.Render(state)
	case strings.HasPrefix(state, "running"):
		return successStyle.Render(state)
	case state == "stopped":
		return dimStyle.Render(state)
	case state == "starting", state == "stopping":
		return warnStyle.Render(state)
	default:
		return state
	}
}

// formatLiveness styles a unit.ProbeState.String() value for display.
func formatLiveness(state string) string {
	switch state {
	case "alive":
		return successStyle.Render(state)
	case "dead":
		return errorStyle.Render(state)
	default:
		return dimStyle.Render(state)
	}
}

func formatEnabled(enabled bool) string {
	if enabled {
		return successStyle.Render("yes")
	}
	return dimStyle.Render("no")
}
