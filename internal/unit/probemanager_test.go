package unit

import (
	"os"
	"testing"
	"time"
)

func TestProbeManager_UndefinedBeforePrepare(t *testing.T) {
	m := NewProbeManager(testLogger())

	if m.ProcessState() != ProbeUndefined {
		t.Fatalf("expected Undefined before any probe is prepared, got %v", m.ProcessState())
	}
	if m.LivenessState() != ProbeUndefined {
		t.Fatalf("expected Undefined before any probe is prepared, got %v", m.LivenessState())
	}
}

func TestProbeManager_GatesStateBehindRunningFlag(t *testing.T) {
	m := NewProbeManager(testLogger())
	m.Prepare("t", os.Getpid(), ProcessProbeConfig{Enabled: true, Interval: 100 * time.Millisecond}, LivenessProbeConfig{})

	if m.ProcessState() != ProbeUndefined {
		t.Fatalf("expected Undefined while prepared but not launched, got %v", m.ProcessState())
	}

	m.Launch()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && m.ProcessState() != ProbeAlive {
		time.Sleep(20 * time.Millisecond)
	}
	if m.ProcessState() != ProbeAlive {
		t.Fatalf("expected Alive once launched, got %v", m.ProcessState())
	}

	m.Stop()
	if m.ProcessState() != ProbeUndefined {
		t.Fatalf("expected Undefined once stopped regardless of last observed state, got %v", m.ProcessState())
	}
}

func TestProbeManager_StopWithoutPrepareIsNoop(t *testing.T) {
	m := NewProbeManager(testLogger())
	m.Stop()
	if m.IsRunning() {
		t.Fatal("expected manager to report not running")
	}
}

func TestProbeManager_LaunchWithoutPrepareIsNoop(t *testing.T) {
	m := NewProbeManager(testLogger())
	m.Launch()
	if m.ProcessState() != ProbeUndefined {
		t.Fatalf("expected Undefined when nothing was prepared, got %v", m.ProcessState())
	}
	m.Stop()
}
