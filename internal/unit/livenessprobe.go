package unit

import (
	"context"
	"log/slog"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gwutama/unitman/internal/metrics"
	"github.com/gwutama/unitman/internal/tracing"
)

// LivenessProbe periodically executes a user-supplied command and
// publishes Alive (exit 0 within timeout), Dead (non-zero exit or timeout
// forced kill) or Undefined (spawn failure / unexpected OS error).
//
// A fired timeout is treated as a failure (Dead). The source this system
// is modeled on contains two inconsistent branches for this case; this is
// the deliberate, prescribed interpretation (see spec.md §4.3/§9).
type LivenessProbe struct {
	name       string
	executable string
	arguments  []string
	timeout    time.Duration // 0 means effectively unbounded
	interval   time.Duration // 0 means run once

	state   atomic.Int32
	stopCh  chan struct{}
	stopped atomic.Bool
	log     *slog.Logger

	wg sync.WaitGroup
}

func NewLivenessProbe(name, executable string, arguments []string, timeout, interval time.Duration, log *slog.Logger) *LivenessProbe {
	p := &LivenessProbe{
		name:       name,
		executable: executable,
		arguments:  arguments,
		timeout:    timeout,
		interval:   interval,
		stopCh:     make(chan struct{}),
		log:        log,
	}
	p.state.Store(int32(ProbeUndefined))
	return p
}

func (p *LivenessProbe) GetState() ProbeState {
	return ProbeState(p.state.Load())
}

func (p *LivenessProbe) RequestStop() {
	if p.stopped.CompareAndSwap(false, true) {
		close(p.stopCh)
	}
}

func (p *LivenessProbe) Run() {
	p.wg.Add(1)
	go p.loop()
}

func (p *LivenessProbe) Wait() {
	p.wg.Wait()
}

func (p *LivenessProbe) loop() {
	defer p.wg.Done()
	p.log.Debug("liveness probe starting", "unit", p.name)

	ticker := time.NewTicker(pollGranularity)
	defer ticker.Stop()

	p.probeOnce()
	if p.interval == 0 {
		p.state.Store(int32(ProbeDead))
		p.log.Debug("liveness probe stopped", "unit", p.name)
		return
	}

	lastProbe := time.Now()
	for {
		select {
		case <-p.stopCh:
			p.state.Store(int32(ProbeDead))
			p.log.Debug("liveness probe stopped", "unit", p.name)
			return
		case now := <-ticker.C:
			if now.Sub(lastProbe) >= p.interval {
				p.probeOnce()
				lastProbe = now
			}
		}
	}
}

func (p *LivenessProbe) probeOnce() {
	spanCtx, span := tracing.StartProbeSpan(context.Background(), p.name, "liveness")
	defer span.End()

	ctx := spanCtx
	var cancel context.CancelFunc
	if p.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, p.executable, p.arguments...)
	cmd.Stdout = nil
	cmd.Stderr = nil

	err := cmd.Run()
	switch {
	case err == nil:
		p.log.Debug("liveness probe succeeded", "unit", p.name)
		p.state.Store(int32(ProbeAlive))
		metrics.RecordProbeOutcome(p.name, "liveness", "alive")
		tracing.RecordSuccess(span)
	case ctx.Err() == context.DeadlineExceeded:
		p.log.Warn("liveness probe timed out", "unit", p.name, "timeout", p.timeout)
		p.state.Store(int32(ProbeDead))
		metrics.RecordProbeOutcome(p.name, "liveness", "dead")
		tracing.RecordError(span, err, "liveness probe timed out")
	case isExitError(err):
		p.log.Warn("liveness probe failed", "unit", p.name, "error", err)
		p.state.Store(int32(ProbeDead))
		metrics.RecordProbeOutcome(p.name, "liveness", "dead")
		tracing.RecordError(span, err, "liveness probe command exited non-zero")
	default:
		p.log.Warn("liveness probe could not execute command", "unit", p.name, "executable", p.executable, "error", err)
		p.state.Store(int32(ProbeUndefined))
		metrics.RecordProbeOutcome(p.name, "liveness", "undefined")
		tracing.RecordError(span, err, "liveness probe could not execute command")
	}
}

func isExitError(err error) bool {
	_, ok := err.(*exec.ExitError)
	return ok
}
