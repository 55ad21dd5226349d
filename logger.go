// logger.go: the emission API (§4.2, §4.3).
//
// Grounded on the teacher's methods.go `log()` hot path (level+closed
// check combined into one branch, pre-bound With() fields merged at log
// time) generalized to the spec's stricter split: a tiny inlineable
// null-check wrapper per severity, and an out-of-line accept body that
// builds a Record via record.go's Extend and dispatches it to every sink
// registered on the logger (§4.3 "Sink fan-out").
//
// Copyright (c) 2025 Ignite Authors
// SPDX-License-Identifier: MPL-2.0

package ignite

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Logger is one node of the registry tree (§3 "Logger").
type Logger struct {
	id       uint64
	registry *Registry
	name     string
	parent   *Logger

	explicit    *AtomicSeverity
	hasExplicit bool
	effective   atomic.Int32

	mu    sync.RWMutex
	sinks []Sink

	preFields []Field

	// scopeDepth/ScopeStart support the scope_indent/scope_elapsed
	// decorators (§4.8, §9 supplement): set once when With is used to
	// create a nested scope.
	scopeDepth int
	ScopeStart time.Time
}

// shallowClone copies l's logical state into a fresh Logger, without
// copying l's sync.RWMutex or atomic.Int32 by value (copying those is a
// go vet violation even when, as here, the source is never locked
// concurrently with the copy). Used by the registry's copy-on-write
// SetThreshold to rebuild a snapshot.
func (l *Logger) shallowClone() *Logger {
	l.mu.RLock()
	sinks := make([]Sink, len(l.sinks))
	copy(sinks, l.sinks)
	preFields := make([]Field, len(l.preFields))
	copy(preFields, l.preFields)
	l.mu.RUnlock()

	c := &Logger{
		id:          l.id,
		registry:    l.registry,
		name:        l.name,
		parent:      l.parent,
		explicit:    l.explicit,
		hasExplicit: l.hasExplicit,
		sinks:       sinks,
		preFields:   preFields,
		scopeDepth:  l.scopeDepth,
		ScopeStart:  l.ScopeStart,
	}
	c.effective.Store(int32(l.EffectiveThreshold()))
	return c
}

// Name returns the logger's registered name ("" for the root).
func (l *Logger) Name() string { return l.name }

// ID returns the logger's stable numeric identifier, used as a frame's
// logger_id (§3 "Frame").
func (l *Logger) ID() uint64 { return l.id }

// EffectiveThreshold returns the severity this logger currently gates
// emission at: its own explicit threshold, or its nearest ancestor's
// effective threshold (§3 "Threshold resolution").
func (l *Logger) EffectiveThreshold() Severity {
	return Severity(l.effective.Load())
}

// AddSink registers a sink to receive every record this logger (and, for
// sinks added before any child is created, its descendants) emits.
func (l *Logger) AddSink(s Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks = append(l.sinks, s)
}

// Sinks returns a snapshot of this logger's own sink list. It does not
// include ancestor sinks; dispatch walks the parent chain explicitly.
func (l *Logger) Sinks() []Sink {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Sink, len(l.sinks))
	copy(out, l.sinks)
	return out
}

// With returns an ephemeral scope logger carrying fields merged with
// every future emission, mirroring the teacher's With() field-merging
// idiom (methods.go). Unlike GetLogger, With does not register a new name
// in the tree: the returned logger dispatches through l (and l's
// ancestors), so it always reflects l's current sinks. Its threshold is
// l's effective threshold at the time With is called; later threshold
// changes are not seen by the returned logger. Its ScopeStart is set to
// now, making it the reference point for the scope_elapsed decorator (§9
// supplement).
func (l *Logger) With(fields ...Field) *Logger {
	merged := make([]Field, 0, len(l.preFields)+len(fields))
	merged = append(merged, l.preFields...)
	merged = append(merged, fields...)

	child := &Logger{
		id:          l.id,
		registry:    l.registry,
		name:        l.name,
		parent:      l,
		explicit:    l.explicit,
		hasExplicit: l.hasExplicit,
		preFields:   merged,
		scopeDepth:  l.scopeDepth + 1,
		ScopeStart:  time.Now(),
	}
	child.effective.Store(int32(l.EffectiveThreshold()))
	return child
}

func callerInfo(skip int) (file string, line int, fn string) {
	pc, f, ln, ok := runtime.Caller(skip)
	if !ok {
		return "", 0, ""
	}
	name := ""
	if rf := runtime.FuncForPC(pc); rf != nil {
		name = rf.Name()
	}
	return f, ln, name
}

// emit is the out-of-line accept-path body (§4.2): build a Record,
// Extend it with pre-bound then call-site fields, and dispatch.
func (l *Logger) emit(sev Severity, msg string, fields []Field) {
	file, line, fn := callerInfo(3)
	r := newRecord(l, sev, msg, file, line, fn)
	for _, f := range l.preFields {
		r = Extend(r, f)
	}
	for _, f := range fields {
		r = Extend(r, f)
	}
	l.dispatch(r)
}

// dispatch fans a built record out to this logger's sinks and every
// ancestor's sinks, root last inheriting nothing further (§4.3).
func (l *Logger) dispatch(r Record) {
	for n := l; n != nil; n = n.parent {
		for _, s := range n.Sinks() {
			s.Accept(r)
		}
	}
}

// Trace, Debug, Info, Notice, Warn, Error and Critical are the inlineable
// emission wrappers (§4.2): each performs only the null/threshold check
// so the Go compiler can inline them at call sites, leaving the
// out-of-line emit body to run only on the accept path.

func (l *Logger) Trace(msg string, fields ...Field) {
	if l == nil || !Trace.Enabled(l.EffectiveThreshold()) {
		return
	}
	l.emit(Trace, msg, fields)
}

func (l *Logger) Debug(msg string, fields ...Field) {
	if l == nil || !Debug.Enabled(l.EffectiveThreshold()) {
		return
	}
	l.emit(Debug, msg, fields)
}

func (l *Logger) Info(msg string, fields ...Field) {
	if l == nil || !Info.Enabled(l.EffectiveThreshold()) {
		return
	}
	l.emit(Info, msg, fields)
}

func (l *Logger) Notice(msg string, fields ...Field) {
	if l == nil || !Notice.Enabled(l.EffectiveThreshold()) {
		return
	}
	l.emit(Notice, msg, fields)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	if l == nil || !Warning.Enabled(l.EffectiveThreshold()) {
		return
	}
	l.emit(Warning, msg, fields)
}

func (l *Logger) Error(msg string, fields ...Field) {
	if l == nil || !Error.Enabled(l.EffectiveThreshold()) {
		return
	}
	l.emit(Error, msg, fields)
}

func (l *Logger) Critical(msg string, fields ...Field) {
	if l == nil || !Critical.Enabled(l.EffectiveThreshold()) {
		return
	}
	l.emit(Critical, msg, fields)
}
