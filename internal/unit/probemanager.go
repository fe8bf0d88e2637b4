package unit

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ProcessProbeConfig describes the process-existence probe for a unit.
type ProcessProbeConfig struct {
	Enabled  bool
	Interval time.Duration
}

// LivenessProbeConfig describes the command-based liveness probe for a unit.
type LivenessProbeConfig struct {
	Enabled    bool
	Executable string
	Arguments  []string
	Timeout    time.Duration
	Interval   time.Duration
}

// ProbeManager owns the lifecycle of a unit's two independent probes and
// gates everything it reports behind a single running flag: once stopped,
// both probes always read Undefined regardless of what they last observed.
// This is stricter than either probe's own internal state machine and
// exists so a caller can never observe a stale Alive/Dead reading from a
// probe that has already been torn down.
type ProbeManager struct {
	mu       sync.Mutex
	running  atomic.Bool
	process  *ProcessProbe
	liveness *LivenessProbe
	log      *slog.Logger
}

func NewProbeManager(log *slog.Logger) *ProbeManager {
	return &ProbeManager{log: log}
}

// Prepare constructs whichever probes are enabled, bound to pid, without
// starting their background loops. A unit calls this right after a
// successful spawn; the manager launches them later, once startup has
// fully completed (see Launch).
func (m *ProbeManager) Prepare(name string, pid int, pcfg ProcessProbeConfig, lcfg LivenessProbeConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.process = nil
	m.liveness = nil
	if pcfg.Enabled {
		m.process = NewProcessProbe(name, pid, pcfg.Interval, m.log)
	}
	if lcfg.Enabled {
		m.liveness = NewLivenessProbe(name, lcfg.Executable, lcfg.Arguments, lcfg.Timeout, lcfg.Interval, m.log)
	}
}

// Launch starts the background loop for every probe previously built by
// Prepare and marks the manager running. If nothing was prepared, no loop
// is started but the manager is still marked running.
func (m *ProbeManager) Launch() {
	m.mu.Lock()
	process, liveness := m.process, m.liveness
	m.mu.Unlock()

	if process != nil {
		process.Run()
	}
	if liveness != nil {
		liveness.Run()
	}
	m.running.Store(true)
}

// Stop requests both probes to stop and waits for them to finish. Safe to
// call more than once and safe to call when no probes were started.
func (m *ProbeManager) Stop() {
	m.mu.Lock()
	process, liveness := m.process, m.liveness
	m.mu.Unlock()

	if !m.running.CompareAndSwap(true, false) {
		return
	}

	if process != nil {
		process.RequestStop()
		process.Wait()
	}
	if liveness != nil {
		liveness.RequestStop()
		liveness.Wait()
	}
}

// ProcessState returns ProbeUndefined when the manager is not running or no
// process probe was configured.
func (m *ProbeManager) ProcessState() ProbeState {
	if !m.running.Load() {
		return ProbeUndefined
	}
	m.mu.Lock()
	p := m.process
	m.mu.Unlock()
	if p == nil {
		return ProbeUndefined
	}
	return p.GetState()
}

// LivenessState returns ProbeUndefined when the manager is not running or no
// liveness probe was configured.
func (m *ProbeManager) LivenessState() ProbeState {
	if !m.running.Load() {
		return ProbeUndefined
	}
	m.mu.Lock()
	l := m.liveness
	m.mu.Unlock()
	if l == nil {
		return ProbeUndefined
	}
	return l.GetState()
}

// IsRunning reports whether the manager currently owns active probes.
func (m *ProbeManager) IsRunning() bool {
	return m.running.Load()
}
