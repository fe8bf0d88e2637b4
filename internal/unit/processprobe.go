package unit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	gopsutilprocess "github.com/shirou/gopsutil/v4/process"

	"github.com/gwutama/unitman/internal/metrics"
	"github.com/gwutama/unitman/internal/tracing"
)

// pollGranularity bounds how quickly a probe notices stop_requested and
// how quickly it can notice its own interval has elapsed.
const pollGranularity = 500 * time.Millisecond

// ProcessProbe periodically checks whether a known pid still exists in the
// OS process table. Interval 0 means "probe once, then exit".
type ProcessProbe struct {
	name     string
	pid      int
	interval time.Duration

	state   atomic.Int32 // ProbeState
	stopCh  chan struct{}
	stopped atomic.Bool
	log     *slog.Logger

	wg sync.WaitGroup
}

// NewProcessProbe builds a probe bound to pid, reporting ProbeUndefined
// until its first cycle runs.
func NewProcessProbe(name string, pid int, interval time.Duration, log *slog.Logger) *ProcessProbe {
	p := &ProcessProbe{
		name:     name,
		pid:      pid,
		interval: interval,
		stopCh:   make(chan struct{}),
		log:      log,
	}
	p.state.Store(int32(ProbeUndefined))
	return p
}

// GetState returns the most recently published state.
func (p *ProcessProbe) GetState() ProbeState {
	return ProbeState(p.state.Load())
}

// RequestStop is the sole cancellation mechanism. It is safe to call more
// than once.
func (p *ProcessProbe) RequestStop() {
	if p.stopped.CompareAndSwap(false, true) {
		close(p.stopCh)
	}
}

// Run starts the background loop. At most one active loop per instance.
func (p *ProcessProbe) Run() {
	p.wg.Add(1)
	go p.loop()
}

// Wait blocks until the loop has published its terminal Dead state.
func (p *ProcessProbe) Wait() {
	p.wg.Wait()
}

func (p *ProcessProbe) loop() {
	defer p.wg.Done()
	p.log.Debug("process probe starting", "unit", p.name, "pid", p.pid)

	ticker := time.NewTicker(pollGranularity)
	defer ticker.Stop()

	p.probeOnce()
	if p.interval == 0 {
		p.state.Store(int32(ProbeDead))
		p.log.Debug("process probe stopped", "unit", p.name)
		return
	}

	lastProbe := time.Now()
	for {
		select {
		case <-p.stopCh:
			p.state.Store(int32(ProbeDead))
			p.log.Debug("process probe stopped", "unit", p.name)
			return
		case now := <-ticker.C:
			if now.Sub(lastProbe) >= p.interval {
				p.probeOnce()
				lastProbe = now
			}
		}
	}
}

func (p *ProcessProbe) probeOnce() {
	_, span := tracing.StartProbeSpan(context.Background(), p.name, "process")
	defer span.End()

	alive, err := gopsutilprocess.PidExists(int32(p.pid))
	if err != nil {
		p.log.Warn("process probe failed to query pid table", "unit", p.name, "pid", p.pid, "error", err)
		p.state.Store(int32(ProbeDead))
		metrics.RecordProbeOutcome(p.name, "process", "dead")
		tracing.RecordError(span, err, "process probe failed to query pid table")
		return
	}
	if alive {
		p.log.Debug("process probe succeeded", "unit", p.name, "pid", p.pid)
		p.state.Store(int32(ProbeAlive))
		metrics.RecordProbeOutcome(p.name, "process", "alive")
		tracing.RecordSuccess(span)
	} else {
		p.log.Warn("process probe found pid missing", "unit", p.name, "pid", p.pid)
		p.state.Store(int32(ProbeDead))
		metrics.RecordProbeOutcome(p.name, "process", "dead")
		tracing.AddEvent(span, "pid missing")
	}
}
