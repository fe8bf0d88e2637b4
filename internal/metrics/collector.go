package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UnitState reports a 1 for whichever state string a unit currently
	// occupies, 0 for every other state it is not in. "state" is one of
	// the Unit.State() strings (stopped, starting, running, running
	// (healthy), running (degraded), stopping).
	UnitState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "unitman_unit_state",
			Help: "1 if the unit is currently in this state, 0 otherwise",
		},
		[]string{"unit", "state"},
	)

	UnitRestartsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unitman_unit_restarts_total",
			Help: "Total number of times a unit has been restarted by policy",
		},
		[]string{"unit"},
	)

	UnitUptimeSeconds = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "unitman_unit_uptime_seconds",
			Help: "Seconds since the unit's current process started, 0 when not running",
		},
		[]string{"unit"},
	)

	ProbeOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unitman_probe_outcomes_total",
			Help: "Total probe evaluations by outcome",
		},
		[]string{"unit", "probe", "outcome"}, // probe: process|liveness; outcome: alive|dead|undefined
	)

	ManagerUnitCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "unitman_manager_unit_count",
			Help: "Total number of units under management",
		},
	)

	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "unitman_build_info",
			Help: "Build information for the running daemon",
		},
		[]string{"version", "go_version"},
	)
)

// unitStates enumerates every value Unit.State().String() can return, so
// RecordUnitState can zero out the states a unit is no longer in.
var unitStates = []string{
	"stopped", "starting", "running", "running (healthy)", "running (degraded)", "stopping",
}

// RecordUnitState sets the gauge for a unit's current state to 1 and every
// other known state to 0, so a Prometheus query for state=="x" is a plain
// equality check rather than a label-existence check.
func RecordUnitState(unit, state string) {
	for _, s := range unitStates {
		value := 0.0
		if s == state {
			value = 1.0
		}
		UnitState.WithLabelValues(unit, s).Set(value)
	}
}

// RecordRestart increments the restart counter for a unit.
func RecordRestart(unit string) {
	UnitRestartsTotal.WithLabelValues(unit).Inc()
}

// RecordUptime sets the uptime gauge for a unit.
func RecordUptime(unit string, seconds int64) {
	UnitUptimeSeconds.WithLabelValues(unit).Set(float64(seconds))
}

// RecordProbeOutcome increments the probe outcome counter.
func RecordProbeOutcome(unit, probe, outcome string) {
	ProbeOutcomesTotal.WithLabelValues(unit, probe, outcome).Inc()
}

// SetManagerUnitCount records the total number of managed units.
func SetManagerUnitCount(count int) {
	ManagerUnitCount.Set(float64(count))
}

// SetBuildInfo records build information.
func SetBuildInfo(version, goVersion string) {
	BuildInfo.WithLabelValues(version, goVersion).Set(1)
}
