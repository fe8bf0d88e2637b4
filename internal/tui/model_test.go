package tui

import (
	"testing"

	"github.com/gwutama/unitman/internal/rpc"
)

func TestModel_SelectedUnit(t *testing.T) {
	m := NewModel(nil)
	m.units = []rpc.UnitInfo{
		{Name: "web"},
		{Name: "worker"},
	}
	m.refreshTable()
	m.table.SetCursor(1)

	u, ok := m.selectedUnit()
	if !ok {
		t.Fatal("expected a selection")
	}
	if u.Name != "worker" {
		t.Errorf("selectedUnit() = %q, want %q", u.Name, "worker")
	}
}

func TestModel_SelectedUnit_Empty(t *testing.T) {
	m := NewModel(nil)
	if _, ok := m.selectedUnit(); ok {
		t.Error("expected no selection on empty unit list")
	}
}

func TestModel_RefreshTable_RowCount(t *testing.T) {
	m := NewModel(nil)
	m.units = []rpc.UnitInfo{
		{Name: "a", State: "stopped"},
		{Name: "b", State: "running (healthy)"},
	}
	m.refreshTable()
	if got := len(m.table.Rows()); got != 2 {
		t.Errorf("row count = %d, want 2", got)
	}
}
