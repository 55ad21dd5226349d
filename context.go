// context.go: context.Context integration (§C.21).
//
// Grounded on the teacher's context.go ContextExtractor/ContextLogger
// pattern: field extraction from a context.Context is configured once and
// cached on a wrapper logger, never repeated per call on the hot path.
//
// Copyright (c) 2025 Ignite Authors
// SPDX-License-Identifier: MPL-2.0

package ignite

import "context"

// ContextKey is a context.Context key type for values ignite knows how to
// extract into fields.
type ContextKey string

// Common context keys for request-scoped correlation data.
const (
	RequestIDKey ContextKey = "request_id"
	TraceIDKey   ContextKey = "trace_id"
	SpanIDKey    ContextKey = "span_id"
)

// ContextExtractor configures which context keys become which field
// names, avoiding a scan of every context value on the hot path.
type ContextExtractor struct {
	Keys map[ContextKey]string
}

// DefaultContextExtractor extracts the common correlation keys.
var DefaultContextExtractor = &ContextExtractor{
	Keys: map[ContextKey]string{
		RequestIDKey: "request_id",
		TraceIDKey:   "trace_id",
		SpanIDKey:    "span_id",
	},
}

// ContextLogger wraps a *Logger with fields pre-extracted from a
// context.Context, so emission calls never touch ctx.Value again.
type ContextLogger struct {
	logger *Logger
	fields []Field
}

// WithContext extracts extractor's configured keys from ctx (once) and
// returns a ContextLogger carrying them as pre-bound fields.
func WithContext(logger *Logger, ctx context.Context, extractor *ContextExtractor) *ContextLogger {
	if extractor == nil {
		extractor = DefaultContextExtractor
	}
	var fields []Field
	for key, name := range extractor.Keys {
		if v := ctx.Value(key); v != nil {
			if s, ok := v.(string); ok {
				fields = append(fields, Str(name, s))
			}
		}
	}
	return &ContextLogger{logger: logger, fields: fields}
}

func (c *ContextLogger) with(fields []Field) []Field {
	if len(c.fields) == 0 {
		return fields
	}
	merged := make([]Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return merged
}

func (c *ContextLogger) Trace(msg string, fields ...Field)    { c.logger.Trace(msg, c.with(fields)...) }
func (c *ContextLogger) Debug(msg string, fields ...Field)    { c.logger.Debug(msg, c.with(fields)...) }
func (c *ContextLogger) Info(msg string, fields ...Field)     { c.logger.Info(msg, c.with(fields)...) }
func (c *ContextLogger) Notice(msg string, fields ...Field)   { c.logger.Notice(msg, c.with(fields)...) }
func (c *ContextLogger) Warn(msg string, fields ...Field)     { c.logger.Warn(msg, c.with(fields)...) }
func (c *ContextLogger) Error(msg string, fields ...Field)    { c.logger.Error(msg, c.with(fields)...) }
func (c *ContextLogger) Critical(msg string, fields ...Field) { c.logger.Critical(msg, c.with(fields)...) }
