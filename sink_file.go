// sink_file.go: a synchronous file sink (§4.3 sync path, §9 "external
// collaborator with a defined contract only").
//
// Grounded on the teacher's sink.go WriteSyncer/WrapWriter/fileSyncer
// idiom, generalized to render a Composed record (view + decorator
// output) through a CompiledTemplate before writing raw bytes.
//
// Copyright (c) 2025 Ignite Authors
// SPDX-License-Identifier: MPL-2.0

package ignite

import (
	"io"
	"os"
)

// WriteSyncer is an io.Writer that can additionally be asked to flush
// buffered bytes to stable storage (mirrors the teacher's sink.go
// WriteSyncer).
type WriteSyncer interface {
	io.Writer
	Sync() error
}

type fileSyncer struct{ *os.File }

func (f fileSyncer) Sync() error { return f.File.Sync() }

type nopSyncer struct{ io.Writer }

func (nopSyncer) Sync() error { return nil }

// WrapWriter converts an io.Writer into a WriteSyncer, using the file's
// own Sync() for *os.File and a no-op otherwise (teacher sink.go
// WrapWriter).
func WrapWriter(w io.Writer) WriteSyncer {
	switch t := w.(type) {
	case *os.File:
		return fileSyncer{t}
	case WriteSyncer:
		return t
	default:
		return nopSyncer{w}
	}
}

// FileSink synchronously renders a record through a format template and
// writes it to a WriteSyncer (§4.3). It implements both Sink (for the
// sync fan-out path) and AsyncWriter (so it can also be wrapped by an
// AsyncSink).
type FileSink struct {
	name   string
	out    WriteSyncer
	reg    *DecoratorRegistry
	tmpl   *CompiledTemplate
	filter FilterFunc
}

// NewFileSink opens path for appending and returns a FileSink rendering
// tmpl (or a default "{date_time} {severity} {logger}: {msg}\n" when
// tmpl is nil).
func NewFileSink(name, path string, reg *DecoratorRegistry, tmpl *CompiledTemplate, filter FilterFunc) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, WrapIgniteError(err, ErrCodeSinkWrite, "ignite: failed to open file sink")
	}
	return NewFileSinkWriter(name, WrapWriter(f), reg, tmpl, filter), nil
}

// NewFileSinkWriter builds a FileSink over an already-open WriteSyncer
// (e.g. os.Stdout, a gzip writer, or a test buffer).
func NewFileSinkWriter(name string, out WriteSyncer, reg *DecoratorRegistry, tmpl *CompiledTemplate, filter FilterFunc) *FileSink {
	if tmpl == nil {
		if reg == nil {
			reg = NewDecoratorRegistry()
		}
		tmpl, _ = CompileTemplate("{date_time} {severity} {logger}: {msg}\n", reg)
	}
	return &FileSink{name: name, out: out, reg: reg, tmpl: tmpl, filter: filter}
}

func (s *FileSink) Name() string { return s.name }

func (s *FileSink) Template() *CompiledTemplate { return s.tmpl }

func (s *FileSink) Accepts(c Composed) bool {
	if s.filter == nil {
		return true
	}
	return s.filter(c)
}

// Accept implements the Sink sync path (§4.3): render and write inline on
// the emitting goroutine.
func (s *FileSink) Accept(r Record) {
	if err := s.WriteSync(r); err != nil {
		report(ErrCodeSinkWrite, "ignite: file sink write failed", "sink", s.name, "error", err.Error())
	}
}

// WriteSync renders r directly (no frame round-trip) for the sync path.
func (s *FileSink) WriteSync(r Record) error {
	ctx := DecoratorContext{Record: &r, Logger: r.Logger(), PID: pid}
	composed := composedFromRecord(r, s.tmpl, ctx)
	if !s.Accepts(composed) {
		return nil
	}
	line := s.tmpl.Render(ctx)
	_, err := s.out.Write([]byte(line))
	return err
}

// WriteAsync renders the worker-composed record (decoded frame view plus
// the worker's resolved write-time decorator output, including the
// `logger` it looked up from the frame's logger_id) for the async path
// (§4.4 "sinks expose two write operations", §4.6).
func (s *FileSink) WriteAsync(c Composed) error {
	line := s.tmpl.RenderComposed(c)
	_, err := s.out.Write([]byte(line))
	return err
}

func (s *FileSink) Flush() error { return s.out.Sync() }

func (s *FileSink) Close() error {
	if c, ok := s.out.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// composedFromRecord builds a Composed-shaped filter input for the sync
// path, where there is no FrameView yet. The standard write-time
// attribute set (severity, logger, pid, source_location, msg) is always
// present regardless of which tokens this sink's own render template
// happens to reference (§6): filter evaluation must not depend on a
// sink's unrelated output format string. Any emission-time decorator the
// template does reference is included too, so a filter can still test it.
func composedFromRecord(r Record, tmpl *CompiledTemplate, ctx DecoratorContext) Composed {
	extra := writeTimeFields(ctx, tmpl)
	if tmpl != nil {
		for _, d := range tmpl.decorators {
			if d.EmissionTime() {
				extra = append(extra, d.Emit(ctx))
			}
		}
	}
	for i := 0; i < r.Len(); i++ {
		extra = append(extra, r.Component(i))
	}
	return Composed{Extra: extra}
}
