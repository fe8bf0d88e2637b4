package config

// Config is the parsed form of the TOML configuration file: an
// [application] table, an [rpc_server] table, and an ordered list of
// [[units]] blocks.
type Config struct {
	Application   ApplicationConfig   `toml:"application"`
	RPCServer     RPCServerConfig     `toml:"rpc_server"`
	Observability ObservabilityConfig `toml:"observability"`
	Units         []UnitConfig        `toml:"units"`
}

// ApplicationConfig holds process-wide settings.
type ApplicationConfig struct {
	LogLevel string `toml:"log_level"` // debug | info | warn | error
}

// RPCServerConfig configures the control-plane endpoint.
//
// Enabled is a pointer: it defaults to true, and a pointer lets an
// explicit `enabled = false` be distinguished from the field being
// entirely absent from the file.
type RPCServerConfig struct {
	Enabled     *bool  `toml:"enabled"`
	BindAddress string `toml:"bind_address"` // typically a unix:// or ipc:// path
}

// IsEnabled resolves the configured flag, defaulting to true when absent.
func (r RPCServerConfig) IsEnabled() bool {
	if r.Enabled == nil {
		return true
	}
	return *r.Enabled
}

// ObservabilityConfig is an additive extension beyond the original
// configuration surface: it wires the Prometheus metrics endpoint and the
// OpenTelemetry tracing exporter without touching unit semantics.
type ObservabilityConfig struct {
	MetricsEnabled  bool   `toml:"metrics_enabled"`
	MetricsAddress  string `toml:"metrics_address"` // host:port for the /metrics endpoint
	TracingEnabled  bool   `toml:"tracing_enabled"`
	TracingExporter string `toml:"tracing_exporter"` // "stdout" | "otlp-grpc"
	OTLPEndpoint    string `toml:"otlp_endpoint"`
}

// UnitConfig is a single [[units]] block. Enabled defaults to true; see
// RPCServerConfig.Enabled for why it is a pointer.
type UnitConfig struct {
	Name          string              `toml:"name"`
	Executable    string              `toml:"executable"`
	Arguments     []string            `toml:"arguments"`
	Dependencies  []string            `toml:"dependencies"`
	RestartPolicy string              `toml:"restart_policy"` // always | never
	User          string              `toml:"user"`
	Group         string              `toml:"group"`
	Enabled       *bool               `toml:"enabled"`
	LivenessProbe LivenessProbeConfig `toml:"liveness_probe"`
}

// IsEnabled resolves the configured flag, defaulting to true when absent.
func (u UnitConfig) IsEnabled() bool {
	if u.Enabled == nil {
		return true
	}
	return *u.Enabled
}

// LivenessProbeConfig is the optional liveness_probe.* sub-table of a
// unit. An empty Executable means the unit has no liveness probe.
//
// TimeoutS/IntervalS are pointers so an explicit 0 (a meaningful boundary
// value: "effectively unbounded" / "run once") can be told apart from the
// field being absent from the file, which should fall back to the
// documented default instead.
type LivenessProbeConfig struct {
	Executable string   `toml:"executable"`
	Arguments  []string `toml:"arguments"`
	TimeoutS   *int     `toml:"timeout_s"`  // default 10; 0 => effectively unbounded
	IntervalS  *int     `toml:"interval_s"` // default 60; 0 => run once
}

// Timeout resolves the configured timeout, defaulting to 10 when absent.
func (l LivenessProbeConfig) Timeout() int {
	if l.TimeoutS == nil {
		return 10
	}
	return *l.TimeoutS
}

// Interval resolves the configured interval, defaulting to 60 when absent.
func (l LivenessProbeConfig) Interval() int {
	if l.IntervalS == nil {
		return 60
	}
	return *l.IntervalS
}

// applyDefaults fills in zero-valued optional fields per unit. Required
// fields (name, executable) are left for Validate to reject if missing.
func (c *Config) applyDefaults() {
	if c.Application.LogLevel == "" {
		c.Application.LogLevel = "info"
	}
	if c.RPCServer.BindAddress == "" {
		c.RPCServer.BindAddress = "ipc:///tmp/tsm-unitman.sock"
	}
	if c.Observability.MetricsAddress == "" {
		c.Observability.MetricsAddress = "127.0.0.1:9090"
	}
	if c.Observability.TracingExporter == "" {
		c.Observability.TracingExporter = "stdout"
	}

	for i := range c.Units {
		u := &c.Units[i]
		if u.RestartPolicy == "" {
			u.RestartPolicy = "always"
		}
	}
}
