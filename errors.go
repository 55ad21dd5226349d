// errors.go: structured error taxonomy for ignite (§7, §A.2).
//
// Grounded on the teacher's errors.go ErrCode* constants + NewLoggerError/
// WrapLoggerError helpers. Per spec §7, only configuration-time and
// termination-coordinator errors are returned to callers; emission-time
// and sink-write failures are absorbed and reported through the
// diagnostic handler below (DiagnosticFunc, SetDiagnosticHandler).
//
// Copyright (c) 2025 Ignite Authors
// SPDX-License-Identifier: MPL-2.0

package ignite

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/agilira/go-errors"
)

// Error codes for every failure class in the spec §7 taxonomy.
const (
	ErrCodeInvalidConfig     errors.ErrorCode = "IGNITE_INVALID_CONFIG"
	ErrCodeRingInvalidCap    errors.ErrorCode = "IGNITE_RING_INVALID_CAPACITY"
	ErrCodeRingClosed        errors.ErrorCode = "IGNITE_RING_CLOSED"
	ErrCodeEncodeOverflow    errors.ErrorCode = "IGNITE_ENCODE_OVERFLOW"
	ErrCodeShutdownDeadline  errors.ErrorCode = "IGNITE_SHUTDOWN_DEADLINE"
	ErrCodeFilterCompile     errors.ErrorCode = "IGNITE_FILTER_COMPILE"
	ErrCodeTypeRegistered    errors.ErrorCode = "IGNITE_TYPE_ALREADY_REGISTERED"
	ErrCodeUnknownDecorator  errors.ErrorCode = "IGNITE_UNKNOWN_DECORATOR"
	ErrCodeSinkWrite         errors.ErrorCode = "IGNITE_SINK_WRITE"
	ErrCodeSinkClosed        errors.ErrorCode = "IGNITE_SINK_CLOSED"
	ErrCodeLoggerNotFound    errors.ErrorCode = "IGNITE_LOGGER_NOT_FOUND"
	ErrCodeConfigReloadParse errors.ErrorCode = "IGNITE_CONFIG_RELOAD_PARSE"
)

// NewIgniteError mirrors the teacher's NewLoggerError: a structured error
// with standard context (component name, timestamp, caller) attached.
func NewIgniteError(code errors.ErrorCode, message string) *errors.Error {
	err := errors.New(code, message).
		WithSeverity("error").
		WithContext("component", "ignite").
		WithContext("timestamp", time.Now().UTC())

	if pc, file, line, ok := runtime.Caller(1); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			_ = err.WithContext("caller_func", fn.Name())
		}
		_ = err.WithContext("caller_file", file)
		_ = err.WithContext("caller_line", line)
	}
	return err
}

// WrapIgniteError wraps an existing error with ignite-specific context.
func WrapIgniteError(cause error, code errors.ErrorCode, message string) *errors.Error {
	return errors.Wrap(cause, code, message).
		WithSeverity("error").
		WithContext("component", "ignite").
		WithContext("timestamp", time.Now().UTC())
}

// DiagnosticFunc receives self-diagnostic reports ignite cannot propagate
// as a Go error to any specific caller (sink write failures, dropped
// records, shutdown deadline overruns). The default writes to stderr (§A.1).
type DiagnosticFunc func(code errors.ErrorCode, message string, context map[string]interface{})

// defaultDiagnostic writes to stderr, matching the teacher's
// defaultErrorHandler (fmt.Fprintf(os.Stderr, ...)) — ignite never logs
// its own diagnostics through a logging library (§A.1).
func defaultDiagnostic(code errors.ErrorCode, message string, context map[string]interface{}) {
	fmt.Fprintf(os.Stderr, "[IGNITE] %s: %s\n", code, message)
	for k, v := range context {
		fmt.Fprintf(os.Stderr, "[IGNITE]   %s=%v\n", k, v)
	}
}

var diagnostic DiagnosticFunc = defaultDiagnostic

// SetDiagnosticHandler overrides where self-diagnostics are reported.
// Passing nil restores the stderr default.
func SetDiagnosticHandler(fn DiagnosticFunc) {
	if fn == nil {
		fn = defaultDiagnostic
	}
	diagnostic = fn
}

func report(code errors.ErrorCode, message string, kv ...interface{}) {
	var ctx map[string]interface{}
	if len(kv) > 0 {
		ctx = make(map[string]interface{}, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			if k, ok := kv[i].(string); ok {
				ctx[k] = kv[i+1]
			}
		}
	}
	diagnostic(code, message, ctx)
}
