// Package phaser implements a small reusable two-stage arrival barrier,
// the same role java.util.concurrent.Phaser plays in the Java original
// this package's caller (WorkerPool) is ported from. There is no barrier
// type in the standard library with dynamic party deregistration and
// cancellation-aware waiting, so this one is hand-rolled on top of
// sync.Mutex/sync.Cond, the same primitive family the rest of this module
// uses for its queues.
package phaser

import (
	"context"
	"sync"

	"github.com/shoushitsu/go-asyncservice/asyncservice/internal/condwait"
)

// Phaser coordinates a set of parties through a sequence of numbered
// phases. Parties arrive at the current phase; once every registered
// party has arrived, the phase advances and waiters are released. A
// party may deregister on its final arrival, reducing the number of
// arrivals required for future phases.
type Phaser struct {
	mu         sync.Mutex
	cond       *sync.Cond
	phase      int
	parties    int
	arrived    int
	terminated bool
}

// New creates a Phaser with the given number of initially registered
// parties, starting at phase 0.
func New(parties int) *Phaser {
	p := &Phaser{parties: parties}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Arrive records an arrival at the current phase without waiting for the
// phase to advance. It returns the phase the caller arrived at, or -1 if
// the phaser has been force-terminated.
func (p *Phaser) Arrive() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.arriveLocked()
}

// ArriveAndDeregister records an arrival at the current phase and reduces
// the number of registered parties by one, so this caller is not required
// to arrive for the phase to advance in the future.
func (p *Phaser) ArriveAndDeregister() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.parties--
	return p.arriveLocked()
}

func (p *Phaser) arriveLocked() int {
	if p.terminated {
		return -1
	}
	phase := p.phase
	p.arrived++
	if p.arrived >= p.parties {
		p.phase++
		p.arrived = 0
		p.cond.Broadcast()
	}
	return phase
}

// ArriveAndAwaitAdvance arrives at the current phase, then blocks until
// the phase advances, the phaser is force-terminated, or ctx is done.
// It returns the new phase, or an error if ctx was canceled before the
// phase advanced (the arrival itself is not undone: the caller still
// counts towards the advance).
func (p *Phaser) ArriveAndAwaitAdvance(ctx context.Context) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	phase := p.arriveLocked()
	if phase < 0 {
		return -1, nil
	}
	return p.awaitAdvanceLocked(ctx, phase)
}

// ArriveAndDeregisterAwaitAdvance is ArriveAndDeregister immediately
// followed by AwaitAdvance on the phase just arrived at.
func (p *Phaser) ArriveAndDeregisterAwaitAdvance(ctx context.Context) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.parties--
	phase := p.arriveLocked()
	if phase < 0 {
		return -1, nil
	}
	return p.awaitAdvanceLocked(ctx, phase)
}

// AwaitAdvance blocks until the phase moves past the given phase, the
// phaser is force-terminated, or ctx is done.
func (p *Phaser) AwaitAdvance(ctx context.Context, phase int) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.awaitAdvanceLocked(ctx, phase)
}

func (p *Phaser) awaitAdvanceLocked(ctx context.Context, phase int) (int, error) {
	err := condwait.Until(ctx, &p.mu, p.cond, func() bool {
		return p.terminated || p.phase != phase
	})
	if err != nil {
		return p.phase, err
	}
	if p.terminated {
		return -1, nil
	}
	return p.phase, nil
}

// Phase returns the current phase.
func (p *Phaser) Phase() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// ForceTermination puts the phaser into a terminated state, releasing all
// current and future waiters with a phase of -1. Idempotent.
func (p *Phaser) ForceTermination() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.terminated = true
	p.cond.Broadcast()
}
