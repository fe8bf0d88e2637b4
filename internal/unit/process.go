package unit

import (
	"fmt"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// Process owns at most one live child handle and its start timestamp.
// child == nil iff startTimestamp.IsZero(): both are cleared together by
// stop and by an implicit reap inside IsRunning/ExitCode.
type Process struct {
	mu         sync.Mutex
	executable string
	arguments  []string
	uid        uint32
	gid        uint32

	cmd       *exec.Cmd
	startedAt time.Time
}

// NewProcess builds a Process for the given launch descriptor. uid/gid are
// resolved ahead of time by the caller (see ResolveCredentials).
func NewProcess(executable string, arguments []string, uid, gid uint32) *Process {
	return &Process{
		executable: executable,
		arguments:  arguments,
		uid:        uid,
		gid:        gid,
	}
}

func (p *Process) GetExecutable() string   { return p.executable }
func (p *Process) GetArguments() []string  { return append([]string(nil), p.arguments...) }
func (p *Process) GetUID() uint32          { return p.uid }
func (p *Process) GetGID() uint32          { return p.gid }

// GetPid returns the current child pid, or -1 if no child is held.
func (p *Process) GetPid() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd == nil || p.cmd.Process == nil {
		return -1
	}
	return p.cmd.Process.Pid
}

// GetUptime returns the time elapsed since start, or zero if not running.
func (p *Process) GetUptime() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd == nil {
		return 0
	}
	return time.Since(p.startedAt)
}

// IsRunning composes a held-handle check with a non-blocking reap.
func (p *Process) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isRunningLocked()
}

func (p *Process) isRunningLocked() bool {
	if p.cmd == nil {
		return false
	}
	if exited, _ := p.tryReapLocked(); exited {
		return false
	}
	return true
}

// tryReapLocked performs a non-blocking wait. It reports whether the
// process has exited and, if so, clears the held handle.
func (p *Process) tryReapLocked() (exited bool, err error) {
	if p.cmd == nil || p.cmd.Process == nil {
		return true, nil
	}

	var status syscall.WaitStatus
	pid, werr := syscall.Wait4(p.cmd.Process.Pid, &status, syscall.WNOHANG, nil)
	if werr != nil {
		// ECHILD means something else already reaped it; treat as exited.
		p.cmd = nil
		p.startedAt = time.Time{}
		return true, werr
	}
	if pid == 0 {
		// Still running.
		return false, nil
	}

	p.cmd = nil
	p.startedAt = time.Time{}
	return true, nil
}

// ExitCode performs a non-blocking reap and returns the exit status once;
// subsequent calls after the process is gone return -1, false.
func (p *Process) ExitCode() (code int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd == nil || p.cmd.Process == nil {
		return -1, false
	}

	var status syscall.WaitStatus
	pid, err := syscall.Wait4(p.cmd.Process.Pid, &status, syscall.WNOHANG, nil)
	if err != nil || pid == 0 {
		return -1, false
	}

	p.cmd = nil
	p.startedAt = time.Time{}
	return status.ExitStatus(), true
}

// Start spawns the child with stdout/stderr redirected to the null sink
// and uid/gid applied before exec. Fails with a spawn error if the
// executable cannot be launched. Idempotent: a no-op success if already
// running.
func (p *Process) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunningLocked() {
		return nil
	}

	cmd := exec.Command(p.executable, p.arguments...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{}
	applyCredential(cmd.SysProcAttr, p.uid, p.gid)

	if err := cmd.Start(); err != nil {
		p.cmd = nil
		p.startedAt = time.Time{}
		return fmt.Errorf("spawn %s: %w", p.executable, err)
	}

	p.cmd = cmd
	p.startedAt = time.Now()
	return nil
}

// Stop sends SIGTERM, waits for the child to reap, and clears the handle.
// Idempotent when already stopped. "Already exited" OS errors are
// translated to success.
func (p *Process) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isRunningLocked() {
		return nil
	}

	pid := p.cmd.Process.Pid
	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
		if err == syscall.ESRCH {
			p.cmd = nil
			p.startedAt = time.Time{}
			return nil
		}
		return fmt.Errorf("kill %s (pid %d): %w", p.executable, pid, err)
	}

	var status syscall.WaitStatus
	if _, err := syscall.Wait4(pid, &status, 0, nil); err != nil && err != syscall.ECHILD {
		return fmt.Errorf("reap %s (pid %d): %w", p.executable, pid, err)
	}

	p.cmd = nil
	p.startedAt = time.Time{}
	return nil
}
