package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gwutama/unitman/internal/rpc"
)

// Run launches the full-screen dashboard against the control plane at
// addr, blocking until the user quits.
func Run(addr string) error {
	client := rpc.NewClient(addr)
	model := NewModel(client)

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
