// decorator.go: the decorator pipeline (§4.8).
//
// A decorator produces one synthesized Field for a sink's configured
// format. Grounded on the teacher's Hook (options.go) "runs in consumer
// thread" idiom and the vendored timecache.go pattern for allocation-free
// clock reads, wired here to the real github.com/agilira/go-timecache
// dependency instead of the teacher's own hand-rolled cache.
//
// Per §4.8, decorators split into two phases:
//   - emission-time: captured before encode and carried as additional
//     components in the frame (date_time, time, task_id, scope_indent,
//     scope_elapsed) so "now" reflects the emission moment, not the write
//     moment;
//   - write-time: resolved by the worker from context available at write
//     (pid, logger, severity, source_location, msg).
//
// Copyright (c) 2025 Ignite Authors
// SPDX-License-Identifier: MPL-2.0

package ignite

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/agilira/go-errors"
	"github.com/agilira/go-timecache"
)

// DecoratorContext is the data a decorator's Emit needs, whichever phase
// it runs in. Emission-time decorators only see the fields populated
// before encode; write-time decorators additionally see the decoded view.
type DecoratorContext struct {
	Record *Record
	View    *FrameView
	Logger  *Logger
	PID     int
}

// Decorator is a named producer of a synthetic component (§4.8).
type Decorator interface {
	// Name is the {name} token this decorator satisfies in a format
	// template.
	Name() string
	// EmissionTime reports whether this decorator must run before encode
	// (true) or may be resolved at write time by the worker (false).
	EmissionTime() bool
	// Emit produces the synthesized field for ctx.
	Emit(ctx DecoratorContext) Field
}

var pid = os.Getpid()

type funcDecorator struct {
	name     string
	atEmit   bool
	emitFunc func(DecoratorContext) Field
}

func (d funcDecorator) Name() string            { return d.name }
func (d funcDecorator) EmissionTime() bool       { return d.atEmit }
func (d funcDecorator) Emit(ctx DecoratorContext) Field { return d.emitFunc(ctx) }

// Standard decorators (§4.8).
var (
	decoratorDateTime = funcDecorator{
		name: "date_time", atEmit: true,
		emitFunc: func(ctx DecoratorContext) Field {
			return Str("date_time", time.Unix(0, timecache.CachedTimeNano()).UTC().Format(time.RFC3339Nano))
		},
	}
	decoratorTime = funcDecorator{
		name: "time", atEmit: true,
		emitFunc: func(ctx DecoratorContext) Field {
			return Instant("time", time.Unix(0, timecache.CachedTimeNano()))
		},
	}
	decoratorLogger = funcDecorator{
		name: "logger", atEmit: false,
		emitFunc: func(ctx DecoratorContext) Field {
			name := ""
			if ctx.Logger != nil {
				name = ctx.Logger.Name()
			}
			return Str("logger", name)
		},
	}
	decoratorSeverity = funcDecorator{
		name: "severity", atEmit: false,
		emitFunc: func(ctx DecoratorContext) Field {
			sev := Info
			if ctx.View != nil {
				sev = ctx.View.Severity()
			} else if ctx.Record != nil {
				sev = ctx.Record.Severity
			}
			return Str("severity", sev.String())
		},
	}
	decoratorTaskID = funcDecorator{
		name: "task_id", atEmit: true,
		emitFunc: func(ctx DecoratorContext) Field {
			return Int64("task_id", int64(goroutineSeq()))
		},
	}
	decoratorPID = funcDecorator{
		name: "pid", atEmit: false,
		emitFunc: func(ctx DecoratorContext) Field {
			return Int("pid", pid)
		},
	}
	decoratorSourceLocation = funcDecorator{
		name: "source_location", atEmit: false,
		emitFunc: func(ctx DecoratorContext) Field {
			if ctx.View != nil {
				return Str("source_location", fmt.Sprintf("%s:%s", ctx.View.File(), ctx.View.Func()))
			}
			if ctx.Record != nil {
				return Str("source_location", fmt.Sprintf("%s:%d:%s", ctx.Record.File, ctx.Record.Line, ctx.Record.Func))
			}
			return Str("source_location", "")
		},
	}
	decoratorScopeIndent = funcDecorator{
		name: "scope_indent", atEmit: true,
		emitFunc: func(ctx DecoratorContext) Field {
			depth := 0
			if ctx.Logger != nil {
				depth = ctx.Logger.scopeDepth
			}
			return Int("scope_indent", depth)
		},
	}
	decoratorScopeElapsed = funcDecorator{
		name: "scope_elapsed", atEmit: true,
		emitFunc: func(ctx DecoratorContext) Field {
			// Resolved per the D. supplement: elapsed since the owning
			// *Logger's With-created scope began; 0 when the logger is not
			// itself a scope.
			if ctx.Logger == nil || ctx.Logger.ScopeStart.IsZero() {
				return Duration("scope_elapsed", 0)
			}
			return Duration("scope_elapsed", time.Since(ctx.Logger.ScopeStart))
		},
	}
	decoratorMsg = funcDecorator{
		name: "msg", atEmit: false,
		emitFunc: func(ctx DecoratorContext) Field {
			if ctx.View != nil && ctx.View.Count() > 0 {
				f, err := ctx.View.Component(0)
				if err == nil {
					return Str("msg", f.StringValue())
				}
			}
			if ctx.Record != nil && ctx.Record.Len() > 0 {
				return Str("msg", ctx.Record.Component(0).StringValue())
			}
			return Str("msg", "")
		},
	}
)

// standardWriteTimeDecorators are the write-time decorators every
// composed record carries regardless of a sink's own render format
// (§6): a filter expression must be able to test severity/logger/etc. on
// a sink whose template never mentions them.
var standardWriteTimeDecorators = []Decorator{
	decoratorLogger, decoratorSeverity, decoratorPID, decoratorSourceLocation, decoratorMsg,
}

// writeTimeFields composes the fixed standard write-time decorator set
// plus any additional write-time decorator the sink's own template
// references (e.g. a custom decorator like trace_id) that isn't already
// part of the standard set. Filter evaluation must not depend on which
// tokens happen to appear in a sink's unrelated output format string
// (§6); tmpl only ever contributes extras here, never removes a standard
// field.
func writeTimeFields(ctx DecoratorContext, tmpl *CompiledTemplate) []Field {
	fields := make([]Field, 0, len(standardWriteTimeDecorators))
	seen := make(map[string]bool, len(standardWriteTimeDecorators))
	for _, d := range standardWriteTimeDecorators {
		fields = append(fields, d.Emit(ctx))
		seen[d.Name()] = true
	}
	if tmpl != nil {
		for _, d := range tmpl.decorators {
			if d.EmissionTime() || seen[d.Name()] {
				continue
			}
			fields = append(fields, d.Emit(ctx))
			seen[d.Name()] = true
		}
	}
	return fields
}

var goroutineCounter int64

// goroutineSeq is a cheap per-process monotonic counter standing in for
// an OS task/thread id (§4.8 "task_id"); Go has no stable, allocation-free
// way to read the scheduler's goroutine id from user code.
func goroutineSeq() int64 { return atomic.AddInt64(&goroutineCounter, 1) }

// DecoratorRegistry resolves {name} tokens to Decorators and compiles
// format templates (§6 "unknown names fail configuration validation").
type DecoratorRegistry struct {
	byName map[string]Decorator
}

// NewDecoratorRegistry returns a registry pre-populated with the standard
// decorator set.
func NewDecoratorRegistry() *DecoratorRegistry {
	r := &DecoratorRegistry{byName: make(map[string]Decorator)}
	for _, d := range []Decorator{
		decoratorDateTime, decoratorTime, decoratorLogger, decoratorSeverity,
		decoratorTaskID, decoratorPID, decoratorSourceLocation,
		decoratorScopeIndent, decoratorScopeElapsed, decoratorMsg,
	} {
		r.byName[d.Name()] = d
	}
	return r
}

// Register adds a custom decorator, overwriting any standard decorator of
// the same name.
func (r *DecoratorRegistry) Register(d Decorator) { r.byName[d.Name()] = d }

// Lookup returns the decorator named name, or nil if unregistered.
func (r *DecoratorRegistry) Lookup(name string) Decorator { return r.byName[name] }

var templateToken = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// CompiledTemplate is a format string resolved against a DecoratorRegistry
// at configuration time.
type CompiledTemplate struct {
	literal    []string
	decorators []Decorator
}

// CompileTemplate validates every {name} token in tmpl against reg and
// returns a CompiledTemplate, or an error naming the first unknown token
// (§6).
func CompileTemplate(tmpl string, reg *DecoratorRegistry) (*CompiledTemplate, error) {
	ct := &CompiledTemplate{}
	last := 0
	for _, loc := range templateToken.FindAllStringSubmatchIndex(tmpl, -1) {
		ct.literal = append(ct.literal, tmpl[last:loc[0]])
		name := tmpl[loc[2]:loc[3]]
		d := reg.Lookup(name)
		if d == nil {
			return nil, errors.New(ErrCodeUnknownDecorator, fmt.Sprintf("ignite: unknown decorator %q in template", name))
		}
		ct.decorators = append(ct.decorators, d)
		last = loc[1]
	}
	ct.literal = append(ct.literal, tmpl[last:])
	return ct, nil
}

// EmissionDecorators returns the subset of decorators in the template that
// must run before encode.
func (t *CompiledTemplate) EmissionDecorators() []Decorator {
	var out []Decorator
	for _, d := range t.decorators {
		if d.EmissionTime() {
			out = append(out, d)
		}
	}
	return out
}

// Render composes the final string for ctx by interleaving literal
// segments with resolved decorator values.
func (t *CompiledTemplate) Render(ctx DecoratorContext) string {
	var b strings.Builder
	for i, d := range t.decorators {
		b.WriteString(t.literal[i])
		f := d.Emit(ctx)
		b.WriteString(fieldToString(f))
	}
	b.WriteString(t.literal[len(t.literal)-1])
	return b.String()
}

// RenderComposed composes the final string for c by resolving each
// template token from c instead of re-invoking the decorator: c already
// carries the worker's write-time decorator output (logger, severity,
// pid, source_location, msg) and any emission-time value embedded in the
// frame view, so this is the only render path the async worker needs
// (§4.6 "invoke the sink's write operation on the composed view"). A
// token with no match in c falls back to Emit against a view-only
// context, which only matters for a decorator neither standard nor
// referenced anywhere else.
func (t *CompiledTemplate) RenderComposed(c Composed) string {
	var b strings.Builder
	for i, d := range t.decorators {
		b.WriteString(t.literal[i])
		f, ok := c.Get(d.Name())
		if !ok {
			f = d.Emit(DecoratorContext{View: &c.View})
		}
		b.WriteString(fieldToString(f))
	}
	b.WriteString(t.literal[len(t.literal)-1])
	return b.String()
}

func fieldToString(f Field) string {
	switch f.Kind() {
	case kindString:
		return f.StringValue()
	case kindI64:
		return fmt.Sprintf("%d", f.IntValue())
	case kindF64:
		return fmt.Sprintf("%g", f.FloatValue())
	case kindBool:
		return fmt.Sprintf("%t", f.BoolValue())
	case kindInstant:
		return f.TimeValue().Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", f.BytesValue())
	}
}
