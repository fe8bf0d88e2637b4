// Package manager implements the supervisor loop: the component that owns
// every unit, drives initial bring-up in dependency order, polls for
// liveness once per tick, restarts units whose policy demands it, and
// tears everything down on shutdown.
package manager

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gwutama/unitman/internal/unit"
)

// tickInterval is how often the supervisor loop re-evaluates every unit.
const tickInterval = 1 * time.Second

// UnitManager owns the ordered unit set and drives the supervisor loop.
// Construction order is the configuration's declaration order, which the
// config loader accepts only when every dependency is declared before its
// dependents; the single-pass bring-up in run also relies on Unit.Start
// being transitively dependency-aware.
type UnitManager struct {
	mu     sync.RWMutex
	units  []*unit.Unit
	byName map[string]*unit.Unit

	stopRequested atomic.Bool
	shuttingDown  atomic.Bool

	log  *slog.Logger
	done chan struct{}
}

func NewUnitManager(log *slog.Logger) *UnitManager {
	return &UnitManager{
		byName: make(map[string]*unit.Unit),
		log:    log,
		done:   make(chan struct{}),
	}
}

// AddUnit appends a unit to the ordered sequence.
func (m *UnitManager) AddUnit(u *unit.Unit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.units = append(m.units, u)
	m.byName[u.Name()] = u
}

// Units returns a snapshot of the managed units in declaration order.
func (m *UnitManager) Units() []*unit.Unit {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*unit.Unit(nil), m.units...)
}

// ResetRestartPolicies restores every unit's restart policy to its
// configured value, clearing any runtime RestartDisabledTemporarily
// demotion. Called when the configuration file is reloaded.
func (m *UnitManager) ResetRestartPolicies() {
	for _, u := range m.Units() {
		u.ResetRestartPolicy()
	}
}

func (m *UnitManager) find(name string) (*unit.Unit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byName[name]
	if !ok {
		return nil, fmt.Errorf("unit %q not found", name)
	}
	return u, nil
}

// StartUnit brings a single unit up on external request. No-op success if
// already running. On success, automatic restart is suppressed until the
// next configuration reload. Rejects the request while the manager is in
// the middle of graceful shutdown.
func (m *UnitManager) StartUnit(name string) error {
	if m.shuttingDown.Load() {
		return fmt.Errorf("unit manager is shutting down")
	}

	u, err := m.find(name)
	if err != nil {
		return err
	}
	if u.IsRunning() {
		return nil
	}
	if err := u.Start(); err != nil {
		return err
	}
	u.SetRestartPolicy(unit.RestartDisabledTemporarily)
	u.StartProbes()
	return nil
}

// StopUnit stops a single unit on external request. No-op success if
// already stopped. If restart is false, automatic restart is suppressed
// until the next configuration reload.
func (m *UnitManager) StopUnit(name string, restart bool) error {
	u, err := m.find(name)
	if err != nil {
		return err
	}
	if u.State() == unit.StateStopped {
		return nil
	}
	if err := u.Stop(); err != nil {
		return err
	}
	if !restart {
		u.SetRestartPolicy(unit.RestartDisabledTemporarily)
	}
	return nil
}

// Run spawns the supervisor loop and returns immediately. Wait blocks
// until the loop has fully exited.
func (m *UnitManager) Run() {
	go m.runLoop()
}

// Wait blocks until the supervisor loop has finished tearing every unit
// down after a RequestStop.
func (m *UnitManager) Wait() {
	<-m.done
}

// RequestStop sets the shared shutdown flag consulted by the loop at the
// top of every tick.
func (m *UnitManager) RequestStop() {
	m.stopRequested.Store(true)
}

func (m *UnitManager) runLoop() {
	defer close(m.done)

	m.startUnits()
	m.startAllProbes()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		if m.stopRequested.Load() {
			break
		}
		m.monitor()
		<-ticker.C
	}

	m.shuttingDown.Store(true)
	m.stopUnits()
	m.stopRequested.Store(false)
	m.shuttingDown.Store(false)
}

// startUnits iterates once, invoking Start on every unit in order. Because
// Start is transitively dependency-aware, a single pass is sufficient
// regardless of whether declaration order happens to be topological.
func (m *UnitManager) startUnits() {
	for _, u := range m.Units() {
		if !u.Enabled() {
			continue
		}
		if err := u.Start(); err != nil {
			m.log.Warn("unit failed to start during bring-up", "unit", u.Name(), "error", err)
		}
	}
}

// startAllProbes enables probes for every unit that is running after
// bring-up completes.
func (m *UnitManager) startAllProbes() {
	for _, u := range m.Units() {
		if u.IsRunning() {
			u.StartProbes()
		}
	}
}

// stopUnits iterates once, invoking Stop on every unit. Ordering during
// shutdown is intentionally unconstrained: each unit tears down its own
// probes and child, and dependents observe a dependency's death through
// their own probes rather than through explicit ordering here.
func (m *UnitManager) stopUnits() {
	for _, u := range m.Units() {
		if err := u.Stop(); err != nil {
			m.log.Warn("unit failed to stop during shutdown", "unit", u.Name(), "error", err)
		}
	}
}

// monitor evaluates every unit once per tick: a unit observed not running
// is reclaimed via Stop (idempotent), then restarted if its policy is
// Always.
func (m *UnitManager) monitor() {
	for _, u := range m.Units() {
		if u.IsRunning() {
			continue
		}

		if err := u.Stop(); err != nil {
			m.log.Warn("failed to reclaim stopped unit", "unit", u.Name(), "error", err)
		}

		if u.IsRunning() || u.RestartPolicy() != unit.RestartAlways {
			continue
		}

		m.log.Info("restarting unit", "unit", u.Name())
		if err := u.Restart(); err != nil {
			m.log.Warn("unit restart failed", "unit", u.Name(), "error", err)
			continue
		}
		u.StartProbes()
	}
}
