package unit

import (
	"os"
	"os/exec"
	"testing"
	"time"
)

func TestProcessProbe_OnceMeansSingleCycle(t *testing.T) {
	cmd := exec.Command("sleep", "5")
	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to spawn helper: %v", err)
	}
	defer cmd.Process.Kill()

	p := NewProcessProbe("t", cmd.Process.Pid, 0, testLogger())
	p.Run()
	p.Wait()

	if got := p.GetState(); got != ProbeDead {
		t.Fatalf("expected Dead after a single cycle exits, got %v", got)
	}
}

func TestProcessProbe_AliveWhilePidExists(t *testing.T) {
	cmd := exec.Command("sleep", "5")
	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to spawn helper: %v", err)
	}
	defer cmd.Process.Kill()

	p := NewProcessProbe("t", cmd.Process.Pid, 100*time.Millisecond, testLogger())
	p.Run()
	defer func() {
		p.RequestStop()
		p.Wait()
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && p.GetState() != ProbeAlive {
		time.Sleep(20 * time.Millisecond)
	}
	if p.GetState() != ProbeAlive {
		t.Fatalf("expected Alive, got %v", p.GetState())
	}
}

func TestProcessProbe_DeadWhenPidGone(t *testing.T) {
	p := NewProcessProbe("t", os.Getpid()+1_000_000, 50*time.Millisecond, testLogger())
	p.Run()
	defer func() {
		p.RequestStop()
		p.Wait()
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && p.GetState() != ProbeDead {
		time.Sleep(20 * time.Millisecond)
	}
	if p.GetState() != ProbeDead {
		t.Fatalf("expected Dead for a nonexistent pid, got %v", p.GetState())
	}
}

func TestProcessProbe_RequestStopTerminatesLoop(t *testing.T) {
	p := NewProcessProbe("t", os.Getpid(), time.Second, testLogger())
	p.Run()

	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()

	p.RequestStop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected loop to exit promptly after RequestStop")
	}
	if p.GetState() != ProbeDead {
		t.Fatalf("expected terminal state Dead, got %v", p.GetState())
	}
}
