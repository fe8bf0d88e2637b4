package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		height := msg.Height - 6
		if height < 3 {
			height = 3
		}
		m.table.SetHeight(height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case unitsMsg:
		m.units = msg
		m.err = nil
		m.refresh = time.Now()
		m.refreshTable()
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetchUnitsCmd(m.client), tickCmd())

	case actionDoneMsg:
		if msg.err != nil {
			m.setStatus("%s %s failed: %v", msg.verb, msg.unit, msg.err)
		} else {
			m.setStatus("%s %s ok", msg.verb, msg.unit)
		}
		return m, fetchUnitsCmd(m.client)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "r":
		return m, fetchUnitsCmd(m.client)

	case "s":
		if u, ok := m.selectedUnit(); ok {
			m.setStatus("starting %s...", u.Name)
			return m, startUnitCmd(m.client, u.Name)
		}
		return m, nil

	case "x":
		if u, ok := m.selectedUnit(); ok {
			m.setStatus("stopping %s...", u.Name)
			return m, stopUnitCmd(m.client, u.Name)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}
