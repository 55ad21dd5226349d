// worker.go: the per-async-sink consumer (§4.6).
//
// Grounded on the teacher's iris.go consumer-loop shape (a single
// goroutine pulling off the ring, processing, and returning buffers to
// the pool) generalized to the spec's three-branch dequeue result
// (Dequeued/TimedOut/Shutdown) and drain-with-deadline shutdown.
//
// Copyright (c) 2025 Ignite Authors
// SPDX-License-Identifier: MPL-2.0

package ignite

import (
	"sync/atomic"
	"time"

	"github.com/ignitelog/ignite/internal/ring"
)

// Worker runs the dequeue/decorate/filter/write loop for one AsyncSink
// (§4.6). Exactly one Worker goroutine exists per async sink.
type Worker struct {
	sink *AsyncSink
	wake time.Duration

	shutdownRequested atomic.Bool
	deadline           atomic.Int64 // unix nanos, set once shutdown begins
	done               chan struct{}
}

func newWorker(s *AsyncSink, wake time.Duration) *Worker {
	return &Worker{sink: s, wake: wake, done: make(chan struct{})}
}

func (w *Worker) start() { go w.run() }

// run is the worker's main loop (§4.6 steps 1-4).
func (w *Worker) run() {
	defer close(w.done)
	for {
		frame, result := w.sink.ring.DequeueBlocking(w.wake)
		switch result {
		case ring.Dequeued:
			w.process(frame)
		case ring.TimedOut:
			if w.shutdownRequested.Load() && w.sink.ring.Len() == 0 {
				return
			}
		case ring.Shutdown:
			w.drainWithDeadline()
			return
		}
		if w.shutdownRequested.Load() && time.Now().UnixNano() > w.deadline.Load() && w.deadline.Load() != 0 {
			w.reportLostAtShutdown()
			return
		}
	}
}

// drainWithDeadline consumes whatever remains in the ring after it has
// reported Shutdown once, up to the configured drain deadline (§4.6 step
// 4: "a hard deadline ... after which any remaining frames are reported
// as lost at shutdown and dropped").
func (w *Worker) drainWithDeadline() {
	deadlineNanos := w.deadline.Load()
	for {
		if w.sink.ring.Len() == 0 {
			return
		}
		if deadlineNanos != 0 && time.Now().UnixNano() > deadlineNanos {
			w.reportLostAtShutdown()
			return
		}
		frame, result := w.sink.ring.DequeueBlocking(10 * time.Millisecond)
		if result == ring.Dequeued {
			w.process(frame)
		}
	}
}

func (w *Worker) reportLostAtShutdown() {
	lost := w.sink.ring.Len()
	if lost > 0 {
		report(ErrCodeShutdownDeadline, "ignite: frames lost at shutdown", "sink", w.sink.Name(), "count", lost)
	}
}

// process implements §4.6 step 2: decode, decorate, filter, write,
// release.
func (w *Worker) process(frame *Frame) {
	if frame == nil {
		return
	}
	defer Release(frame)

	view, err := Decode(frame.Bytes())
	if err != nil {
		report(ErrCodeSinkWrite, "ignite: failed to decode frame", "sink", w.sink.Name(), "error", err.Error())
		return
	}

	var logger *Logger
	if w.sink.registry != nil {
		logger = w.sink.registry.byID(view.LoggerID())
	}

	ctx := DecoratorContext{View: &view, Logger: logger, PID: pid}
	extra := writeTimeFields(ctx, w.sink.tmpl)
	composed := Composed{View: view, Extra: extra}

	if w.sink.filter != nil && !w.sink.filter(composed) {
		return
	}

	if err := w.sink.writeComposed(composed); err != nil {
		report(ErrCodeSinkWrite, "ignite: sink write failed", "sink", w.sink.Name(), "error", err.Error())
	}
}

// requestShutdown latches the shutdown signal and the hard deadline by
// which the worker must have drained (§4.9).
func (w *Worker) requestShutdown(drain time.Duration) {
	w.deadline.Store(time.Now().Add(drain).UnixNano())
	w.shutdownRequested.Store(true)
}

// join blocks until the worker goroutine has exited.
func (w *Worker) join() { <-w.done }
