// sink_async.go: the async sink wrapper binding an inner Sink to its own
// MPSC queue and Worker (§4.3, §4.5, §4.6, §9).
//
// Grounded on the teacher's iris.go New()/Close() pairing of a ring plus a
// consumer goroutine per Logger, generalized here to a bindable per-sink
// wrapper so multiple sinks (with independent overflow policy, filter,
// and decorator template) can share one logger tree.
//
// Copyright (c) 2025 Ignite Authors
// SPDX-License-Identifier: MPL-2.0

package ignite

import (
	"time"

	"github.com/ignitelog/ignite/internal/ring"
)

// AsyncSink enqueues every accepted record onto a bounded MPSC queue and
// lets a dedicated Worker goroutine decode, decorate, filter and write it
// (§4.3 "Sink fan-out", §4.6 "Worker").
type AsyncSink struct {
	name     string
	inner    AsyncWriter
	registry *Registry
	tmpl     *CompiledTemplate
	filter   FilterFunc
	maxFrame int

	ring   *ring.Ring[*Frame]
	worker *Worker
}

// NewAsyncSink builds an async sink wrapping inner. cfg supplies the
// queue capacity, overflow policy and max frame size (§A.3); reg is used
// by the worker to resolve a frame's logger_id back to a *Logger for the
// `logger` decorator.
func NewAsyncSink(name string, inner AsyncWriter, reg *Registry, cfg Config, tmpl *CompiledTemplate, filter FilterFunc) (*AsyncSink, error) {
	cfg = cfg.normalize()
	rg, err := ring.New[*Frame](cfg.QueueCapacity, cfg.OverflowPolicy)
	if err != nil {
		return nil, WrapIgniteError(err, ErrCodeRingInvalidCap, "ignite: failed to create async sink queue")
	}
	s := &AsyncSink{
		name:     name,
		inner:    inner,
		registry: reg,
		tmpl:     tmpl,
		filter:   filter,
		maxFrame: cfg.MaxFrameSize,
		ring:     rg,
	}
	s.worker = newWorker(s, cfg.WorkerWake)
	s.worker.start()
	return s, nil
}

func (s *AsyncSink) Name() string { return s.name }

// Accept runs this sink's emission-time decorators against r, encodes it
// into a Frame, and enqueues it (§4.3, §4.8). It never blocks the caller
// except under the BlockProducer overflow policy.
func (s *AsyncSink) Accept(r Record) {
	if r.IsEmpty() {
		return
	}

	if s.tmpl != nil {
		ctx := DecoratorContext{Record: &r, Logger: r.Logger(), PID: pid}
		for _, d := range s.tmpl.EmissionDecorators() {
			r = Extend(r, d.Emit(ctx))
		}
	}

	var loggerID uint64
	if l := r.Logger(); l != nil {
		loggerID = l.ID()
	}

	frame, err := Encode(r, loggerID, time.Now().UnixNano(), s.maxFrame)
	if err != nil {
		report(ErrCodeEncodeOverflow, "ignite: failed to encode record", "sink", s.name, "error", err.Error())
		return
	}

	if !s.ring.TryEnqueue(frame) {
		Release(frame)
		report(ErrCodeRingClosed, "ignite: record dropped", "sink", s.name, "policy", s.ring.Stats())
	}
}

// writeComposed invokes the inner sink's async write operation with the
// full Composed the worker built (view plus resolved decorator output),
// not just the bare frame view, so {logger}/{severity}/etc. render from
// the worker's resolved context rather than being recomputed blind (§4.6).
func (s *AsyncSink) writeComposed(c Composed) error {
	return s.inner.WriteAsync(c)
}

// Flush passes through to the inner sink when it supports flushing.
func (s *AsyncSink) Flush() error {
	if f, ok := s.inner.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

// Close requests the worker drain and stop, joins it, then closes the
// inner sink if it supports closing (§4.9 termination protocol).
func (s *AsyncSink) Close(drain time.Duration) error {
	s.worker.requestShutdown(drain)
	s.ring.Close()
	s.worker.join()
	if c, ok := s.inner.(Closer); ok {
		return c.Close()
	}
	return nil
}

// Stats exposes the underlying queue's depth/processed/dropped counters
// for metrics.go.
func (s *AsyncSink) Stats() ring.Stats { return s.ring.Stats() }
