// sink_dispatcher.go: fan-out to N sub-sinks (§4.3), grounded on the
// teacher's multiwriter.go MultiWriter/multiWS "duplicate writes, keep
// first error" idiom.
//
// Copyright (c) 2025 Ignite Authors
// SPDX-License-Identifier: MPL-2.0

package ignite

// Dispatcher fans a single Accept out to every sub-sink, collecting but
// not short-circuiting on sub-sink errors (mirrors teacher multiWS.Write's
// "duplicate writes, preserve the first error" semantics).
type Dispatcher struct {
	name  string
	sinks []Sink
}

// NewDispatcher returns a Dispatcher that forwards every accepted record
// to each of sinks in order.
func NewDispatcher(name string, sinks ...Sink) *Dispatcher {
	cp := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			cp = append(cp, s)
		}
	}
	return &Dispatcher{name: name, sinks: cp}
}

func (d *Dispatcher) Name() string { return d.name }

func (d *Dispatcher) Accept(r Record) {
	for _, s := range d.sinks {
		s.Accept(r)
	}
}

// Flush flushes every sub-sink that supports it, returning the first
// error encountered.
func (d *Dispatcher) Flush() error {
	var firstErr error
	for _, s := range d.sinks {
		if f, ok := s.(Flusher); ok {
			if err := f.Flush(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Close closes every sub-sink that supports it, returning the first
// error encountered.
func (d *Dispatcher) Close() error {
	var firstErr error
	for _, s := range d.sinks {
		if c, ok := s.(Closer); ok {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
