package unit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gwutama/unitman/internal/metrics"
	"github.com/gwutama/unitman/internal/tracing"
)

// Unit is the state machine described by the dependency graph: it owns a
// Process, a ProbeManager, a restart policy, and references to the
// dependency units that must be running before it starts.
type Unit struct {
	mu sync.Mutex

	name         string
	enabled      bool
	dependencies []*Unit

	restartPolicy RestartPolicy
	// configuredRestartPolicy is the policy from the configuration file,
	// kept alongside restartPolicy so a configuration reload can restore it
	// even though restartPolicy itself may have been runtime-demoted to
	// RestartDisabledTemporarily by an explicit start/stop request.
	configuredRestartPolicy RestartPolicy
	state                   State

	process *Process
	probes  *ProbeManager

	processProbeCfg  ProcessProbeConfig
	livenessProbeCfg LivenessProbeConfig

	log *slog.Logger
}

// NewUnit builds a unit in the Stopped state. dependencies must already be
// present in the manager (construction order follows a topological order
// of the dependency graph).
func NewUnit(
	name, executable string,
	arguments []string,
	uid, gid uint32,
	restartPolicy RestartPolicy,
	enabled bool,
	dependencies []*Unit,
	processProbeCfg ProcessProbeConfig,
	livenessProbeCfg LivenessProbeConfig,
	log *slog.Logger,
) *Unit {
	return &Unit{
		name:                    name,
		enabled:                 enabled,
		dependencies:            dependencies,
		restartPolicy:           restartPolicy,
		configuredRestartPolicy: restartPolicy,
		state:                   StateStopped,
		process:                 NewProcess(executable, arguments, uid, gid),
		probes:                  NewProbeManager(log),
		processProbeCfg:         processProbeCfg,
		livenessProbeCfg:        livenessProbeCfg,
		log:                     log.With("unit", name),
	}
}

func (u *Unit) Name() string { return u.name }

func (u *Unit) Enabled() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.enabled
}

func (u *Unit) Dependencies() []*Unit {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]*Unit(nil), u.dependencies...)
}

func (u *Unit) RestartPolicy() RestartPolicy {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.restartPolicy
}

func (u *Unit) SetRestartPolicy(p RestartPolicy) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.restartPolicy = p
}

// ResetRestartPolicy restores the policy to the value configured in the
// configuration file, clearing any runtime RestartDisabledTemporarily
// demotion from an explicit start or stop request. Called on a
// configuration reload, per the "until the next configuration reload"
// restart-policy semantics.
func (u *Unit) ResetRestartPolicy() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.restartPolicy = u.configuredRestartPolicy
}

func (u *Unit) GetExecutable() string  { return u.process.GetExecutable() }
func (u *Unit) GetArguments() []string { return u.process.GetArguments() }
func (u *Unit) GetUID() uint32         { return u.process.GetUID() }
func (u *Unit) GetGID() uint32         { return u.process.GetGID() }
func (u *Unit) GetPid() int            { return u.process.GetPid() }

func (u *Unit) GetUptimeSeconds() int64 {
	return int64(u.process.GetUptime().Seconds())
}

// IsRunning is true iff the Process reports running or the ProcessProbe
// most recently reported Alive. The disjunction covers the window between
// spawn and the first probe cycle, and a window where a brief probe outage
// would otherwise read as a spurious stop.
func (u *Unit) IsRunning() bool {
	return u.process.IsRunning() || u.probes.ProcessState() == ProbeAlive
}

// State returns the externally observed lifecycle phase: the stored phase
// with Running expanded into its derived healthy/degraded view.
func (u *Unit) State() State {
	u.mu.Lock()
	stored := u.state
	u.mu.Unlock()

	if stored != StateRunning {
		return stored
	}
	if u.probes.ProcessState() == ProbeAlive {
		return StateRunningAndHealthy
	}
	return StateRunningButDegraded
}

func (u *Unit) ProcessProbeState() ProbeState  { return u.probes.ProcessState() }
func (u *Unit) LivenessProbeState() ProbeState { return u.probes.LivenessState() }

// Start brings the unit and every dependency it transitively needs up.
// No-op success if already running. Reverts to Stopped and returns the
// originating error on any failure after the Starting transition.
func (u *Unit) Start() error {
	_, span := tracing.StartUnitSpan(context.Background(), u.name, "start")
	defer span.End()

	u.mu.Lock()
	if u.IsRunning() {
		u.mu.Unlock()
		tracing.RecordSuccess(span)
		return nil
	}
	if !u.enabled {
		u.mu.Unlock()
		err := fmt.Errorf("unit %q is disabled", u.name)
		tracing.RecordError(span, err, "unit disabled")
		return err
	}
	u.state = StateStarting
	deps := append([]*Unit(nil), u.dependencies...)
	u.mu.Unlock()
	metrics.RecordUnitState(u.name, u.State().String())

	for _, dep := range deps {
		if dep.IsRunning() {
			continue
		}
		if err := dep.Start(); err != nil {
			u.mu.Lock()
			u.state = StateStopped
			u.mu.Unlock()
			metrics.RecordUnitState(u.name, u.State().String())
			err = fmt.Errorf("unit %q: dependency %q failed to start: %w", u.name, dep.Name(), err)
			tracing.RecordError(span, err, "dependency failed to start")
			return err
		}
	}

	if err := u.process.Start(); err != nil {
		u.mu.Lock()
		u.state = StateStopped
		u.mu.Unlock()
		u.log.Warn("unit failed to start", "error", err)
		metrics.RecordUnitState(u.name, u.State().String())
		tracing.RecordError(span, err, "process failed to start")
		return err
	}

	u.mu.Lock()
	u.probes.Prepare(u.name, u.process.GetPid(), u.processProbeCfg, u.livenessProbeCfg)
	u.state = StateRunning
	u.mu.Unlock()

	u.log.Info("unit started", "pid", u.process.GetPid())
	metrics.RecordUnitState(u.name, u.State().String())
	tracing.RecordSuccess(span)
	return nil
}

// StartProbes launches the probes this unit prepared on its last
// successful start. If nothing was prepared, no probe loop is started.
func (u *Unit) StartProbes() {
	u.probes.Launch()
}

// Stop tears the unit down: probes are stopped before the child is
// killed, to avoid a restart race with the supervisor observing a probe
// transition mid-teardown. On failure, probes are relaunched and the
// unit reverts to its prior state.
func (u *Unit) Stop() error {
	_, span := tracing.StartUnitSpan(context.Background(), u.name, "stop")
	defer span.End()

	u.mu.Lock()
	if u.state == StateStopped {
		u.mu.Unlock()
		tracing.RecordSuccess(span)
		return nil
	}
	prior := u.state
	u.state = StateStopping
	u.mu.Unlock()
	metrics.RecordUnitState(u.name, u.State().String())

	u.probes.Stop()

	if err := u.process.Stop(); err != nil {
		u.mu.Lock()
		u.state = prior
		u.mu.Unlock()
		u.probes.Launch()
		u.log.Warn("unit failed to stop", "error", err)
		metrics.RecordUnitState(u.name, u.State().String())
		tracing.RecordError(span, err, "process failed to stop")
		return err
	}

	u.mu.Lock()
	u.state = StateStopped
	u.mu.Unlock()
	u.log.Info("unit stopped")
	metrics.RecordUnitState(u.name, u.State().String())
	tracing.RecordSuccess(span)
	return nil
}

// Restart stops (if running) then starts. Not a single atomic transition.
func (u *Unit) Restart() error {
	_, span := tracing.StartUnitSpan(context.Background(), u.name, "restart")
	defer span.End()

	if u.IsRunning() {
		if err := u.Stop(); err != nil {
			tracing.RecordError(span, err, "restart: stop phase failed")
			return err
		}
	}
	err := u.Start()
	if err != nil {
		tracing.RecordError(span, err, "restart: start phase failed")
		return err
	}
	metrics.RecordRestart(u.name)
	metrics.RecordUptime(u.name, u.GetUptimeSeconds())
	tracing.RecordSuccess(span)
	return nil
}
