package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var columnTitles = []string{"NAME", "IS ENABLED", "RESTART POLICY", "STATE", "LIVENESS", "UPTIME", "COMMAND"}
var columnWidths = []int{16, 10, 14, 20, 10, 10, 30}

func newUnitTable() table.Model {
	cols := make([]table.Column, len(columnTitles))
	for i, title := range columnTitles {
		cols[i] = table.Column{Title: title, Width: columnWidths[i]}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(primaryColor).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(primaryColor).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m *Model) refreshTable() {
	rows := make([]table.Row, 0, len(m.units))
	for _, u := range m.units {
		rows = append(rows, table.Row{
			u.Name,
			formatEnabled(u.Enabled),
			u.RestartPolicy,
			formatState(u.State),
			formatLiveness(u.LivenessProbeState),
			formatUptime(u.UptimeSeconds),
			formatCommand(u.Executable, u.Arguments),
		})
	}
	m.table.SetRows(rows)
	if cursor := m.table.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func formatUptime(seconds int64) string {
	if seconds <= 0 {
		return "-"
	}
	h := seconds / 3600
	mins := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return strconv.FormatInt(h, 10) + "h" + strconv.FormatInt(mins, 10) + "m"
	}
	if mins > 0 {
		return strconv.FormatInt(mins, 10) + "m" + strconv.FormatInt(s, 10) + "s"
	}
	return strconv.FormatInt(s, 10) + "s"
}

func formatCommand(executable string, args []string) string {
	if len(args) == 0 {
		return executable
	}
	return executable + " " + strings.Join(args, " ")
}
