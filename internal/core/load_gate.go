package core

// load_gate.go keeps dataset loads from overlapping.
//
// The gate is a one-slot semaphore. A second load attempt while one is
// running fails fast with ErrLoadInProgress instead of queueing, so a burst
// of reload signals collapses into the load already in flight.

import (
	"context"
	"sync"
	"time"
)

// LoadGate admits one load attempt at a time.
type LoadGate struct {
	semaphore chan struct{}

	mu     sync.RWMutex
	active int
	total  int
}

// NewLoadGate returns an open gate.
func NewLoadGate() *LoadGate {
	return &LoadGate{semaphore: make(chan struct{}, 1)}
}

// TryAcquire takes the slot without blocking.
// Returns false when a load is already running.
func (g *LoadGate) TryAcquire() bool {
	select {
	case g.semaphore <- struct{}{}:
		g.mu.Lock()
		g.active++
		g.total++
		g.mu.Unlock()
		return true
	default:
		return false
	}
}

// Release frees the slot. Must be called exactly once per successful
// TryAcquire.
func (g *LoadGate) Release() {
	g.mu.Lock()
	g.active--
	g.mu.Unlock()

	<-g.semaphore
}

// Running reports whether a load holds the slot.
func (g *LoadGate) Running() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.active > 0
}

// Attempts returns how many loads have been admitted.
func (g *LoadGate) Attempts() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.total
}

// WaitForDrain blocks until no load is running or ctx is done.
func (g *LoadGate) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if !g.Running() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
