// frame.go: the owned binary wire format a Record is encoded into when it
// must cross the MPSC queue boundary (§3 "Frame", §4.4).
//
// Layout (little-endian, no padding), extending spec §3's layout with a
// key length/bytes pair per component so structured key=value fields
// (the teacher's zap-style Field.K) survive the boundary alongside the
// spec's positional message components (empty key):
//
//	u32 total_len
//	u16 component_count
//	u8  severity
//	u8  flags
//	u64 logger_id
//	u64 timestamp_ns
//	u16 loc_file_len   | loc_file bytes
//	u16 loc_entity_len | loc_entity bytes
//	per component:
//	  u8  tag
//	  u16 key_len | key bytes
//	  payload (per tag, see encoder.go)
//
// Copyright (c) 2025 Ignite Authors
// SPDX-License-Identifier: MPL-2.0

package ignite

// Frame flag bits.
const (
	FlagTruncated uint8 = 1 << iota
)

// Frame is a self-contained, owned byte buffer: once Encode returns, no
// component of the frame references the emitting caller's storage (§3
// invariant). Frame.buf is obtained from internal/framepool and must be
// released with Release once the worker is done writing it.
type Frame struct {
	buf []byte
}

// Bytes returns the frame's wire bytes.
func (f *Frame) Bytes() []byte { return f.buf }

// Len returns the number of bytes in the frame.
func (f *Frame) Len() int { return len(f.buf) }
