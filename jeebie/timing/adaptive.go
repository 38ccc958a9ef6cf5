package timing

import (
	"log/slog"
	"time"
)

// spinThreshold is the point below which sleeping is less reliable than
// busy-waiting; the OS scheduler's own wakeup jitter can exceed it.
const spinThreshold = 2 * time.Millisecond

// driftCheckInterval controls how often AdaptivePacer compares its
// schedule against the wall clock and nudges it back on track.
const driftCheckInterval = 60

// driftTolerance is the accumulated error AdaptivePacer will absorb before
// correcting; below this, per-frame jitter isn't worth chasing.
const driftTolerance = 10 * time.Millisecond

// AdaptivePacer blocks until each frame's deadline using a sleep-then-spin
// strategy: sleep for the bulk of the wait to avoid burning CPU, then
// busy-wait the last sliver for precision, and periodically correct for
// drift accumulated across many frames.
type AdaptivePacer struct {
	frameBudget time.Duration
	deadline    time.Time
	frameCount  int64
}

func NewAdaptivePacer() *AdaptivePacer {
	return &AdaptivePacer{
		frameBudget: FrameDuration(),
		deadline:    time.Now(),
	}
}

func (p *AdaptivePacer) Wait() {
	remaining := time.Until(p.deadline)

	switch {
	case remaining > spinThreshold:
		time.Sleep(remaining - time.Millisecond)
		spinUntil(p.deadline)
	case remaining > 0:
		spinUntil(p.deadline)
	case remaining < -5*time.Millisecond:
		// Badly behind schedule (a stall, a debugger breakpoint): resync
		// to now instead of trying to catch up frame by frame.
		p.deadline = time.Now()
	}

	p.deadline = p.deadline.Add(p.frameBudget)
	p.frameCount++

	if p.frameCount%driftCheckInterval == 0 {
		p.correctDrift()
	}
}

func (p *AdaptivePacer) correctDrift() {
	drift := time.Since(p.deadline)
	if drift.Abs() <= driftTolerance {
		return
	}

	p.deadline = p.deadline.Add(drift / driftCheckInterval)
	slog.Debug("frame pacing drift correction", "drift_ms", drift.Milliseconds(), "frame", p.frameCount)
}

func (p *AdaptivePacer) Reset() {
	p.deadline = time.Now()
	p.frameCount = 0
}

func spinUntil(deadline time.Time) {
	for time.Now().Before(deadline) {
	}
}
