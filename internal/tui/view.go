package tui

import (
	"fmt"
	"strings"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("unitman"))
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", m.err)))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(dimStyle.Render(m.status))
		b.WriteString("\n")
	}

	if !m.refresh.IsZero() {
		b.WriteString(statusBarStyle.Render(fmt.Sprintf("last refreshed %s  |  s start  x stop  r refresh  q quit", m.refresh.Format("15:04:05"))))
	} else {
		b.WriteString(statusBarStyle.Render("s start  x stop  r refresh  q quit"))
	}

	return b.String()
}
