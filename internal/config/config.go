package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/gwutama/unitman/internal/deps"
)

// Load reads and parses the TOML file at path, applies documented
// defaults, and validates the result. A missing or unparsable file is a
// Config error (fatal; the daemon exits 10).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks field-level constraints and rejects a cyclic dependency
// graph. Cycle rejection happens here, at load time, because the manager
// assumes its construction order is already a valid topological order.
func (c *Config) Validate() error {
	switch c.Application.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %q", c.Application.LogLevel)
	}

	seen := make(map[string]bool, len(c.Units))
	for _, u := range c.Units {
		if u.Name == "" {
			return fmt.Errorf("unit has empty name")
		}
		if seen[u.Name] {
			return fmt.Errorf("duplicate unit name: %q", u.Name)
		}
		seen[u.Name] = true

		if u.Executable == "" {
			return fmt.Errorf("unit %q has no executable", u.Name)
		}
		switch u.RestartPolicy {
		case "always", "never":
		default:
			return fmt.Errorf("unit %q has invalid restart_policy: %q", u.Name, u.RestartPolicy)
		}
	}

	graph := deps.NewGraph()
	for _, u := range c.Units {
		graph.AddNode(u.Name, u.Dependencies)
	}
	if err := graph.Validate(); err != nil {
		return err
	}
	if hasCycle, cycle := graph.HasCycle(); hasCycle {
		return fmt.Errorf("circular dependency detected: %v", cycle)
	}

	return nil
}

// ConstructionOrder returns unit names in an order where every unit
// appears after everything it depends on. Config.Validate must have
// already been called (and succeeded) on this config.
func (c *Config) ConstructionOrder() ([]string, error) {
	graph := deps.NewGraph()
	for _, u := range c.Units {
		graph.AddNode(u.Name, u.Dependencies)
	}
	return graph.TopologicalSort()
}

func timeoutDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
