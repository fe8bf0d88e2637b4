package unit

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func currentCredentials() (uint32, uint32) {
	return ResolveCredentials("", "")
}

func newTestUnit(t *testing.T, name, executable string, args []string, deps []*Unit) *Unit {
	t.Helper()
	uid, gid := currentCredentials()
	return NewUnit(name, executable, args, uid, gid, RestartAlways, true, deps,
		ProcessProbeConfig{}, LivenessProbeConfig{}, testLogger())
}

func TestUnit_StartStop(t *testing.T) {
	u := newTestUnit(t, "sleeper", "sleep", []string{"30"}, nil)

	if u.State() != StateStopped {
		t.Fatalf("expected initial state Stopped, got %v", u.State())
	}

	if err := u.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if u.State() != StateRunning && u.State() != StateRunningButDegraded {
		t.Fatalf("expected Running-family state, got %v", u.State())
	}
	if !u.IsRunning() {
		t.Fatal("expected unit to report running after start")
	}
	if u.GetPid() <= 0 {
		t.Fatalf("expected positive pid, got %d", u.GetPid())
	}

	if err := u.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if u.State() != StateStopped {
		t.Fatalf("expected Stopped after stop, got %v", u.State())
	}
	if u.IsRunning() {
		t.Fatal("expected unit to report not running after stop")
	}
}

func TestUnit_StartIsNoopWhenRunning(t *testing.T) {
	u := newTestUnit(t, "sleeper", "sleep", []string{"30"}, nil)
	defer u.Stop()

	if err := u.Start(); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	pid := u.GetPid()

	if err := u.Start(); err != nil {
		t.Fatalf("second start should be a no-op success, got: %v", err)
	}
	if u.GetPid() != pid {
		t.Fatalf("expected same pid across no-op start, got %d then %d", pid, u.GetPid())
	}
}

func TestUnit_StopIsNoopWhenStopped(t *testing.T) {
	u := newTestUnit(t, "idle", "true", nil, nil)

	if err := u.Stop(); err != nil {
		t.Fatalf("stop on never-started unit should be a no-op success, got: %v", err)
	}
}

func TestUnit_StartFailsOnDisabled(t *testing.T) {
	uid, gid := currentCredentials()
	u := NewUnit("disabled", "sleep", []string{"5"}, uid, gid, RestartAlways, false, nil,
		ProcessProbeConfig{}, LivenessProbeConfig{}, testLogger())

	if err := u.Start(); err == nil {
		t.Fatal("expected error starting a disabled unit")
	}
	if u.State() != StateStopped {
		t.Fatalf("expected unit to remain Stopped, got %v", u.State())
	}
}

func TestUnit_DependencyIsStartedFirst(t *testing.T) {
	dep := newTestUnit(t, "dep", "sleep", []string{"30"}, nil)
	defer dep.Stop()
	u := newTestUnit(t, "dependent", "sleep", []string{"30"}, []*Unit{dep})
	defer u.Stop()

	if err := u.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if !dep.IsRunning() {
		t.Fatal("expected dependency to have been started transitively")
	}
}

func TestUnit_SpawnFailureRevertsToStopped(t *testing.T) {
	uid, gid := currentCredentials()
	u := NewUnit("bogus", "/nonexistent/executable/path", nil, uid, gid, RestartAlways, true, nil,
		ProcessProbeConfig{}, LivenessProbeConfig{}, testLogger())

	if err := u.Start(); err == nil {
		t.Fatal("expected spawn error")
	}
	if u.State() != StateStopped {
		t.Fatalf("expected state to revert to Stopped, got %v", u.State())
	}
}

func TestUnit_RunningAndHealthyDerivedView(t *testing.T) {
	u := newTestUnit(t, "healthy", "sleep", []string{"5"}, nil)
	defer u.Stop()

	if err := u.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	u.probes.Prepare(u.name, u.GetPid(), ProcessProbeConfig{Enabled: true, Interval: time.Second}, LivenessProbeConfig{})
	u.StartProbes()
	time.Sleep(100 * time.Millisecond)

	if got := u.State(); got != StateRunningAndHealthy {
		t.Fatalf("expected RunningAndHealthy once the process probe reports Alive, got %v", got)
	}
}

func TestUnit_ResetRestartPolicyRestoresConfiguredValue(t *testing.T) {
	uid, gid := currentCredentials()
	u := NewUnit("demoted", "sleep", []string{"5"}, uid, gid, RestartAlways, true, nil,
		ProcessProbeConfig{}, LivenessProbeConfig{}, testLogger())

	u.SetRestartPolicy(RestartDisabledTemporarily)
	if u.RestartPolicy() != RestartDisabledTemporarily {
		t.Fatalf("expected policy demoted to DisabledTemporarily, got %v", u.RestartPolicy())
	}

	u.ResetRestartPolicy()
	if u.RestartPolicy() != RestartAlways {
		t.Fatalf("expected reset to restore configured policy Always, got %v", u.RestartPolicy())
	}
}

func TestUnit_ResetRestartPolicyPreservesConfiguredNever(t *testing.T) {
	uid, gid := currentCredentials()
	u := NewUnit("never-demoted", "sleep", []string{"5"}, uid, gid, RestartNever, true, nil,
		ProcessProbeConfig{}, LivenessProbeConfig{}, testLogger())

	u.SetRestartPolicy(RestartDisabledTemporarily)
	u.ResetRestartPolicy()
	if u.RestartPolicy() != RestartNever {
		t.Fatalf("expected reset to restore configured policy Never, got %v", u.RestartPolicy())
	}
}

func TestUnit_Restart(t *testing.T) {
	u := newTestUnit(t, "restartable", "sleep", []string{"30"}, nil)
	defer u.Stop()

	if err := u.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	firstPid := u.GetPid()

	if err := u.Restart(); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	if u.GetPid() == firstPid {
		t.Fatal("expected a new pid after restart")
	}
}
