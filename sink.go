// sink.go: the Sink capability interface (§3, §9 "polymorphic capability
// interface").
//
// Grounded on the teacher's WriteSyncer interface (sink.go: Write + Sync)
// generalized to the spec's fuller capability set: a sink always accepts
// a live Record (the sync path, §4.4); it may additionally accept a
// decoded FrameView (the async path, driven by a worker), flush, and
// close. Concrete capabilities are expressed as small optional
// interfaces an implementation can satisfy, checked via type assertion —
// the same "maybe accepts" pattern the teacher uses for WriteSyncer vs.
// plain io.Writer (sink.go WrapWriter).
//
// Copyright (c) 2025 Ignite Authors
// SPDX-License-Identifier: MPL-2.0

package ignite

// Sink is the minimal capability every sink must provide: accepting a
// freshly built Record on the emitting goroutine (§4.3 "Sink fan-out").
// A synchronous sink writes immediately; an asynchronous sink encodes the
// record into a Frame and enqueues it for its worker.
type Sink interface {
	// Name identifies the sink for diagnostics and the {logger}/format
	// pipeline; it need not be unique.
	Name() string
	// Accept is called on the emitting goroutine for every record that
	// clears this sink's logger's threshold. It must not block
	// indefinitely; async sinks return as soon as the frame is enqueued
	// (or dropped per policy).
	Accept(r Record)
}

// SyncWriter is implemented by sinks that write a composed record
// directly, with no queue in between.
type SyncWriter interface {
	WriteSync(r Record) error
}

// AsyncWriter is implemented by sinks whose worker writes the Composed
// record it has already decoded, decorated and filtered: the decoded
// frame view plus the worker-resolved write-time decorator output
// (§4.4 "sinks expose two write operations", §4.6).
type AsyncWriter interface {
	WriteAsync(c Composed) error
}

// Flusher is implemented by sinks that buffer and can be asked to flush.
type Flusher interface {
	Flush() error
}

// Closer is implemented by sinks that own a resource needing release at
// shutdown (a file handle, a gzip writer).
type Closer interface {
	Close() error
}

// Filterable is implemented by sinks carrying a per-sink filter predicate
// (§6) evaluated against the composed record/view before write.
type Filterable interface {
	Accepts(c Composed) bool
}

// Decorated is implemented by sinks carrying a compiled format template
// whose decorators must run against the composed record/view (§4.8).
type Decorated interface {
	Template() *CompiledTemplate
}

// Composed is the record a worker (or a sync sink's inline path) presents
// to a per-sink filter and format template: the decoded frame view plus
// any decorator-synthesized fields (§4.6 "applies decorators ... applies
// the sink's per-sink filter").
type Composed struct {
	View  FrameView
	Extra []Field
}

// Get returns the first component or decorator-synthesized field matching
// key, searching decorator output before frame components.
func (c Composed) Get(key string) (Field, bool) {
	for _, f := range c.Extra {
		if f.Key == key {
			return f, true
		}
	}
	var found Field
	var ok bool
	_ = c.View.ForEach(func(f Field) bool {
		if f.Key == key {
			found, ok = f, true
			return false
		}
		return true
	})
	return found, ok
}
