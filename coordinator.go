// coordinator.go: the termination coordinator (§4.9, §5).
//
// Grounded on the teacher's iris.go Close()/`<-l.done` join pattern,
// generalized to the spec's detach/drain/join-many protocol: workers are
// "non-blocking for shutdown" by construction (nothing in ignite ever
// calls runtime.Goexit or blocks process exit on a worker), and a
// process-wide sentinel is acquired by Start and released by Stop so a
// host program can install it near its entry point (§4.9 "a sentinel
// placed in whichever module is initialized first and finalized last").
//
// Copyright (c) 2025 Ignite Authors
// SPDX-License-Identifier: MPL-2.0

package ignite

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Coordinator tracks every async sink created under it and drains them
// together on Shutdown (§4.9).
type Coordinator struct {
	mu    sync.Mutex
	sinks []*AsyncSink
	drain time.Duration
}

// NewCoordinator returns a Coordinator using drain as the default
// per-sink shutdown deadline.
func NewCoordinator(drain time.Duration) *Coordinator {
	if drain <= 0 {
		drain = DefaultShutdownDrain
	}
	return &Coordinator{drain: drain}
}

// Register adds an async sink to be drained on Shutdown. Sync sinks need
// no registration: they have no worker to join.
func (c *Coordinator) Register(s *AsyncSink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sinks = append(c.sinks, s)
}

// Shutdown signals every registered worker to drain, waits for each (in
// parallel) up to its deadline or ctx's, joins them, and closes each
// sink. Frames still queued when a worker's deadline passes are dropped
// and reported as lost. A sink write already in progress at that point is
// not interrupted: Shutdown returns only after every worker goroutine has
// exited, so a write that never returns blocks Shutdown.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	sinks := make([]*AsyncSink, len(c.sinks))
	copy(sinks, c.sinks)
	c.mu.Unlock()

	drain := c.drain
	if dl, ok := ctx.Deadline(); ok {
		if remaining := time.Until(dl); remaining < drain {
			drain = remaining
		}
	}

	var wg sync.WaitGroup
	var firstErr atomic.Pointer[error]
	for _, s := range sinks {
		s := s
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Close(drain); err != nil {
				firstErr.CompareAndSwap(nil, &err)
			}
		}()
	}
	wg.Wait()

	if p := firstErr.Load(); p != nil {
		return *p
	}
	return nil
}

var (
	coordinatorOnce sync.Once
	globalCoord     atomic.Pointer[Coordinator]
)

// Start acquires (lazily creating if necessary) the process-wide sentinel
// coordinator and returns it. Host programs call this as near the process
// entry point as possible (§4.9).
func Start() *Coordinator {
	coordinatorOnce.Do(func() {
		globalCoord.Store(NewCoordinator(DefaultShutdownDrain))
	})
	return globalCoord.Load()
}

// Stop releases the sentinel coordinator acquired by Start, draining
// every sink registered under it. It is a no-op if Start was never
// called.
func Stop(ctx context.Context) error {
	c := globalCoord.Load()
	if c == nil {
		return nil
	}
	return c.Shutdown(ctx)
}
