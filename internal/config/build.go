package config

import (
	"fmt"
	"log/slog"

	"github.com/gwutama/unitman/internal/manager"
	"github.com/gwutama/unitman/internal/unit"
)

// BuildManager constructs a UnitManager with every configured unit added
// in configuration declaration order. The configuration's [[units]] order
// is itself treated as a valid topological order of the dependency graph
// (Config.Validate only rejects unknown references and cycles; it does
// not reorder anything), so building unit-by-unit in declaration order is
// sufficient for every dependency to already be built by the time a unit
// that needs it is constructed.
func (c *Config) BuildManager(log *slog.Logger) (*manager.UnitManager, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	built := make(map[string]*unit.Unit, len(c.Units))
	m := manager.NewUnitManager(log)

	for _, uc := range c.Units {
		name := uc.Name

		var unitDeps []*unit.Unit
		for _, depName := range uc.Dependencies {
			dep, ok := built[depName]
			if !ok {
				return nil, fmt.Errorf("unit %q depends on %q, which has not been constructed yet", name, depName)
			}
			unitDeps = append(unitDeps, dep)
		}

		restartPolicy, err := unit.ParseRestartPolicy(uc.RestartPolicy)
		if err != nil {
			return nil, fmt.Errorf("unit %q: %w", name, err)
		}

		uid, gid := unit.ResolveCredentials(uc.User, uc.Group)

		processProbeCfg := unit.ProcessProbeConfig{
			Enabled:  true,
			Interval: timeoutDuration(5),
		}

		var livenessCfg unit.LivenessProbeConfig
		if uc.LivenessProbe.Executable != "" {
			livenessCfg = unit.LivenessProbeConfig{
				Enabled:    true,
				Executable: uc.LivenessProbe.Executable,
				Arguments:  uc.LivenessProbe.Arguments,
				Timeout:    timeoutDuration(uc.LivenessProbe.Timeout()),
				Interval:   timeoutDuration(uc.LivenessProbe.Interval()),
			}
		}

		built[name] = unit.NewUnit(
			name,
			uc.Executable,
			uc.Arguments,
			uid, gid,
			restartPolicy,
			uc.IsEnabled(),
			unitDeps,
			processProbeCfg,
			livenessCfg,
			log,
		)
		m.AddUnit(built[name])
	}

	return m, nil
}
