// field.go: the Component tagged union (§3, §4.1).
//
// Grounded on the teacher's field.go Field{K,T,I64,U64,F64,Str,B,Obj} shape,
// generalized to the spec's component kinds: address (opaque pointer bits,
// never dereferenced) and instant (emission-time timestamp) are new; user
// carries a registered type_id plus an opaque borrowed payload instead of
// an interface{} so the capture path stays allocation-free.
//
// Copyright (c) 2025 Ignite Authors
// SPDX-License-Identifier: MPL-2.0

package ignite

import (
	"time"
	"unsafe"
)

type kind uint8

const (
	kindEmpty kind = iota
	kindI64
	kindF64
	kindBool
	kindString
	kindBytes
	kindAddr
	kindInstant
	kindUser
)

// Field is one Component: a key (empty for the positional message
// component) plus a discriminated, inline-stored value. No Field
// constructor allocates; string/byte components are borrowed views
// (pointer, length) into caller-owned storage until Encode copies them
// into an owned Frame (§3 invariant).
type Field struct {
	Key  string
	kind kind

	i64 int64
	f64 float64
	str string
	b   []byte

	typeID uint16
}

// Str creates a borrowed-string component.
func Str(key, value string) Field { return Field{Key: key, kind: kindString, str: value} }

// Int64 creates a signed integer component.
func Int64(key string, value int64) Field { return Field{Key: key, kind: kindI64, i64: value} }

// Int creates a signed integer component from a platform int.
func Int(key string, value int) Field { return Int64(key, int64(value)) }

// Float64 creates a floating point component.
func Float64(key string, value float64) Field { return Field{Key: key, kind: kindF64, f64: value} }

// Bool creates a boolean component.
func Bool(key string, value bool) Field {
	var i int64
	if value {
		i = 1
	}
	return Field{Key: key, kind: kindBool, i64: i}
}

// Bytes creates a borrowed byte-slice component.
func Bytes(key string, value []byte) Field { return Field{Key: key, kind: kindBytes, b: value} }

// Addr creates an opaque address component. The bits are copied verbatim
// on encode and are never dereferenced by ignite itself (§3 "Frame").
func Addr(key string, value unsafe.Pointer) Field {
	return Field{Key: key, kind: kindAddr, i64: int64(uintptr(value))}
}

// Duration creates a duration component, stored as int64 nanoseconds.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, kind: kindI64, i64: int64(value)}
}

// Instant creates a timestamp component captured at emission time,
// stored as Unix nanoseconds (§4.8 emission-time decorators).
func Instant(key string, value time.Time) Field {
	return Field{Key: key, kind: kindInstant, i64: value.UnixNano()}
}

// User creates a component carrying a registered user type. data is a
// borrowed view; it must remain valid until Encode runs (sync path) or is
// copied eagerly by the caller before an async enqueue.
func User(key string, typeID uint16, data []byte) Field {
	return Field{Key: key, kind: kindUser, typeID: typeID, b: data}
}

// Err creates a string component from an error's message, or an empty
// string for a nil error (matches the teacher's Err/NamedErr helpers).
func Err(err error) Field {
	if err == nil {
		return Str("error", "")
	}
	return Str("error", err.Error())
}

// Secret creates a string component whose value is replaced with a fixed
// redaction marker when the component is constructed. The original value
// is never stored, so redaction cannot be bypassed downstream.
func Secret(key, value string) Field {
	_ = value
	return Field{Key: key, kind: kindString, str: "[REDACTED]"}
}

func (f Field) Kind() kind           { return f.kind }
func (f Field) IsEmpty() bool        { return f.kind == kindEmpty }
func (f Field) StringValue() string  { return f.str }
func (f Field) IntValue() int64      { return f.i64 }
func (f Field) FloatValue() float64  { return f.f64 }
func (f Field) BoolValue() bool      { return f.i64 != 0 }
func (f Field) BytesValue() []byte   { return f.b }
func (f Field) TimeValue() time.Time { return time.Unix(0, f.i64) }
func (f Field) TypeID() uint16       { return f.typeID }
