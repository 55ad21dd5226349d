// encoder.go: Record <-> Frame conversion (§4.4).
//
// Encode walks a Record's components in order and writes the §3 layout
// into a pooled buffer (internal/framepool), copying every borrowed
// string/bytes component so the resulting Frame is independent of the
// emitting caller's stack. Decode produces a read-only FrameView over the
// frame's bytes without copying.
//
// Copyright (c) 2025 Ignite Authors
// SPDX-License-Identifier: MPL-2.0

package ignite

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/agilira/go-errors"

	"github.com/ignitelog/ignite/internal/framepool"
)

// DefaultMaxFrameSize is the default per-sink maximum encoded frame size
// (§4.3: "default 64 KiB").
const DefaultMaxFrameSize = 64 * 1024

// DebugAssertions gates the user-component overflow contract (§9 Open
// Question, resolved in SPEC_FULL.md §D), implemented by EncodeUserValue
// in typeregistry.go: when true, a user encode callback that reports
// writing more than the declared length aborts via panic; when false (the
// default), the payload is truncated to the declared length and
// EncodeUserValue reports truncated=true.
var DebugAssertions = false

var errShortFrame = errors.New(errors.ErrorCode("IGNITE_SHORT_FRAME"), "ignite: frame too short to decode")

// Encode converts rec into an owned Frame. loggerID identifies the owning
// logger for decode-time lookup; timestampNS is the emission-time instant
// (cached, not re-read on the worker side — §4.8). If the encoded frame
// would exceed maxFrameSize, encoding stops early, flags FlagTruncated, and
// appends an ellipsis marker in place of the remaining components (§7
// "Oversize record").
func Encode(rec Record, loggerID uint64, timestampNS int64, maxFrameSize int) (*Frame, error) {
	if rec.IsEmpty() {
		return nil, errors.New(errors.ErrorCode("IGNITE_EMPTY_RECORD"), "ignite: cannot encode an empty record")
	}
	if maxFrameSize <= 0 {
		maxFrameSize = DefaultMaxFrameSize
	}

	buf := framepool.Get()
	// Reserve the fixed header; total_len is patched in at the end.
	buf = append(buf, make([]byte, 4+2+1+1+8+8)...)

	var flags uint8

	buf = appendString16(buf, rec.File)
	buf = appendString16(buf, rec.Func)

	n := rec.n
	encoded := 0
	truncated := false
	for i := 0; i < n; i++ {
		before := len(buf)
		buf = encodeComponent(buf, rec.components[i])
		if len(buf) > maxFrameSize {
			buf = buf[:before]
			truncated = true
			break
		}
		encoded++
	}
	if truncated {
		flags |= FlagTruncated
		buf = encodeComponent(buf, Str("", ellipsisMarker))
		encoded++
	}

	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(buf)))
	binary.LittleEndian.PutUint16(buf[4:6], uint16(encoded))
	buf[6] = byte(rec.Severity)
	buf[7] = flags
	binary.LittleEndian.PutUint64(buf[8:16], loggerID)
	binary.LittleEndian.PutUint64(buf[16:24], uint64(timestampNS))

	return &Frame{buf: buf}, nil
}

// Release returns a frame's backing storage to the pool. Callers must not
// use f after calling Release.
func Release(f *Frame) {
	if f == nil {
		return
	}
	framepool.Put(f.buf)
}

func appendString16(buf []byte, s string) []byte {
	buf = append(buf, 0, 0)
	binary.LittleEndian.PutUint16(buf[len(buf)-2:], uint16(len(s)))
	return append(buf, s...)
}

func encodeComponent(buf []byte, c Field) []byte {
	buf = append(buf, byte(c.kind))
	buf = appendString16(buf, c.Key)

	switch c.kind {
	case kindI64, kindAddr, kindInstant:
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], uint64(c.i64))
		buf = append(buf, tmp[:]...)
	case kindF64:
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(c.f64))
		buf = append(buf, tmp[:]...)
	case kindBool:
		if c.i64 != 0 {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	case kindString:
		buf = appendLenBytes(buf, []byte(c.str))
	case kindBytes:
		buf = appendLenBytes(buf, c.b)
	case kindUser:
		var tmp [2]byte
		binary.LittleEndian.PutUint16(tmp[:], c.typeID)
		buf = append(buf, tmp[:]...)
		buf = appendLenBytes(buf, c.b)
	default:
		// unreachable for well-formed Records; encode as an empty string
		// rather than corrupt the frame.
		buf = appendLenBytes(buf, nil)
	}
	return buf
}

func appendLenBytes(buf []byte, b []byte) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(len(b)))
	buf = append(buf, tmp[:]...)
	return append(buf, b...)
}

// FrameView is a zero-copy read-only view into a decoded Frame. Per §4.4,
// a decoded view is semantically distinct from a live Record: sinks that
// accept frame views must not assume borrowed storage outlives the frame
// (it doesn't need to — the frame owns everything).
type FrameView struct {
	data       []byte
	count      int
	severity   Severity
	flags      uint8
	loggerID   uint64
	timestamp  int64
	file, fn   string
	compOffset int
}

func (v FrameView) Count() int         { return v.count }
func (v FrameView) Severity() Severity { return v.severity }
func (v FrameView) Truncated() bool    { return v.flags&FlagTruncated != 0 }
func (v FrameView) LoggerID() uint64   { return v.loggerID }
func (v FrameView) TimestampNS() int64 { return v.timestamp }
func (v FrameView) File() string       { return v.file }
func (v FrameView) Func() string       { return v.fn }

// Component decodes and returns the i-th component view. Decoding walks
// from the start of the component list each call; callers that need every
// component should use ForEach instead.
func (v FrameView) Component(i int) (Field, error) {
	var out Field
	idx := 0
	err := v.ForEach(func(f Field) bool {
		if idx == i {
			out = f
			return false
		}
		idx++
		return true
	})
	return out, err
}

// ForEach decodes components in order, calling visit for each. visit
// returns false to stop early.
func (v FrameView) ForEach(visit func(Field) bool) error {
	buf := v.data[v.compOffset:]
	for i := 0; i < v.count; i++ {
		if len(buf) < 1+2 {
			return errShortFrame
		}
		tag := kind(buf[0])
		buf = buf[1:]
		keyLen := int(binary.LittleEndian.Uint16(buf[:2]))
		buf = buf[2:]
		if len(buf) < keyLen {
			return errShortFrame
		}
		key := string(buf[:keyLen])
		buf = buf[keyLen:]

		var f Field
		f.Key = key
		f.kind = tag

		switch tag {
		case kindI64, kindAddr, kindInstant:
			if len(buf) < 8 {
				return errShortFrame
			}
			f.i64 = int64(binary.LittleEndian.Uint64(buf[:8]))
			buf = buf[8:]
		case kindF64:
			if len(buf) < 8 {
				return errShortFrame
			}
			f.f64 = math.Float64frombits(binary.LittleEndian.Uint64(buf[:8]))
			buf = buf[8:]
		case kindBool:
			if len(buf) < 1 {
				return errShortFrame
			}
			if buf[0] != 0 {
				f.i64 = 1
			}
			buf = buf[1:]
		case kindString:
			s, rest, err := readLenBytes(buf)
			if err != nil {
				return err
			}
			f.str = string(s)
			buf = rest
		case kindBytes:
			b, rest, err := readLenBytes(buf)
			if err != nil {
				return err
			}
			f.b = b
			buf = rest
		case kindUser:
			if len(buf) < 2 {
				return errShortFrame
			}
			f.typeID = binary.LittleEndian.Uint16(buf[:2])
			buf = buf[2:]
			b, rest, err := readLenBytes(buf)
			if err != nil {
				return err
			}
			f.b = b
			buf = rest
		default:
			return fmt.Errorf("ignite: unknown component tag %d", tag)
		}

		if !visit(f) {
			return nil
		}
	}
	return nil
}

func readLenBytes(buf []byte) ([]byte, []byte, error) {
	if len(buf) < 4 {
		return nil, nil, errShortFrame
	}
	n := int(binary.LittleEndian.Uint32(buf[:4]))
	buf = buf[4:]
	if len(buf) < n {
		return nil, nil, errShortFrame
	}
	return buf[:n], buf[n:], nil
}

// Decode produces a zero-copy FrameView over data (§4.4 Decoder contract).
func Decode(data []byte) (FrameView, error) {
	if len(data) < 24 {
		return FrameView{}, errShortFrame
	}
	count := int(binary.LittleEndian.Uint16(data[4:6]))
	sev := Severity(data[6])
	flags := data[7]
	loggerID := binary.LittleEndian.Uint64(data[8:16])
	ts := int64(binary.LittleEndian.Uint64(data[16:24]))

	off := 24
	if len(data) < off+2 {
		return FrameView{}, errShortFrame
	}
	fileLen := int(binary.LittleEndian.Uint16(data[off : off+2]))
	off += 2
	if len(data) < off+fileLen+2 {
		return FrameView{}, errShortFrame
	}
	file := string(data[off : off+fileLen])
	off += fileLen

	fnLen := int(binary.LittleEndian.Uint16(data[off : off+2]))
	off += 2
	if len(data) < off+fnLen {
		return FrameView{}, errShortFrame
	}
	fn := string(data[off : off+fnLen])
	off += fnLen

	return FrameView{
		data:       data,
		count:      count,
		severity:   sev,
		flags:      flags,
		loggerID:   loggerID,
		timestamp:  ts,
		file:       file,
		fn:         fn,
		compOffset: off,
	}, nil
}
