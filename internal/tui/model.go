package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gwutama/unitman/internal/rpc"
)

const refreshInterval = 2 * time.Second

// Model is the Bubbletea model backing unitmanctl's dashboard. It holds
// no direct reference to a running manager: every view of the fleet
// comes from polling the daemon over its control plane, the same way
// unitmanctl's flag-driven commands do.
type Model struct {
	client *rpc.Client
	table  table.Model

	units   []rpc.UnitInfo
	err     error
	status  string
	width   int
	height  int
	refresh time.Time
}

// NewModel builds a dashboard model bound to the given control-plane
// client. Call Run to start the program.
func NewModel(client *rpc.Client) Model {
	return Model{
		client: client,
		table:  newUnitTable(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(fetchUnitsCmd(m.client), tickCmd())
}

type unitsMsg []rpc.UnitInfo
type errMsg struct{ err error }
type tickMsg time.Time
type actionDoneMsg struct {
	verb string
	unit string
	err  error
}

func fetchUnitsCmd(client *rpc.Client) tea.Cmd {
	return func() tea.Msg {
		units, err := client.ListUnits()
		if err != nil {
			return errMsg{err}
		}
		return unitsMsg(units)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func startUnitCmd(client *rpc.Client, name string) tea.Cmd {
	return func() tea.Msg {
		err := client.StartUnit(name)
		return actionDoneMsg{verb: "start", unit: name, err: err}
	}
}

func stopUnitCmd(client *rpc.Client, name string) tea.Cmd {
	return func() tea.Msg {
		err := client.StopUnit(name)
		return actionDoneMsg{verb: "stop", unit: name, err: err}
	}
}

func (m *Model) selectedUnit() (rpc.UnitInfo, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.units) {
		return rpc.UnitInfo{}, false
	}
	return m.units[cursor], true
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
}
