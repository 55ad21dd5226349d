// typeregistry.go: the process-wide user-defined component type registry
// (§4.7).
//
// Grounded on the teacher's binary_caller.go/encoder-binary.go pattern of a
// small append-only global table guarded by a mutex, generalized here to
// the spec's {encode, decode, classify} triple keyed by a u16 type_id.
// type_id 0 is reserved for "invalid" (§4.7).
//
// Copyright (c) 2025 Ignite Authors
// SPDX-License-Identifier: MPL-2.0

package ignite

import (
	"sync"

	"github.com/agilira/go-errors"
)

// EncodeFunc writes value's wire representation into out and returns the
// number of bytes written. Implementations must not write more bytes than
// they report; see DebugAssertions for the overflow contract.
type EncodeFunc func(value interface{}, out []byte) int

// DecodeFunc renders a decoded payload as a human-printable string.
type DecodeFunc func(payload []byte) string

// ClassifyFunc extracts structured attributes from a decoded payload, for
// sinks that want to inspect a user component without fully decoding it.
type ClassifyFunc func(payload []byte) map[string]string

// TypeDescriptor is a registered user component type's full behavior.
type TypeDescriptor struct {
	Name     string
	Encode   EncodeFunc
	Decode   DecodeFunc
	Classify ClassifyFunc
}

var (
	typeRegistryMu sync.RWMutex
	// index 0 is reserved and always nil (§4.7: "type_id 0 is reserved for
	// invalid").
	typeRegistry = []*TypeDescriptor{nil}
)

var errDuplicateTypeID = errors.New(errors.ErrorCode("IGNITE_DUPLICATE_TYPE_ID"), "ignite: type_id already registered")

// RegisterType appends a new user component type and returns its assigned
// id. Registration is append-only and safe to call concurrently; it is
// intended to happen at init time or before first use, never on the hot
// path (§4.7).
func RegisterType(desc TypeDescriptor) uint16 {
	typeRegistryMu.Lock()
	defer typeRegistryMu.Unlock()
	id := uint16(len(typeRegistry))
	d := desc
	typeRegistry = append(typeRegistry, &d)
	return id
}

// LookupType returns the descriptor for typeID, or nil if it is unregistered
// or the reserved id 0.
func LookupType(typeID uint16) *TypeDescriptor {
	typeRegistryMu.RLock()
	defer typeRegistryMu.RUnlock()
	if int(typeID) >= len(typeRegistry) {
		return nil
	}
	return typeRegistry[typeID]
}

// RegisterTypeAt registers desc at a caller-chosen id, failing if that id
// is already occupied. Most callers should prefer RegisterType; this
// exists for code that must keep stable ids across restarts (e.g. a
// schema file checked into source control).
func RegisterTypeAt(typeID uint16, desc TypeDescriptor) error {
	if typeID == 0 {
		return errors.New(errors.ErrorCode("IGNITE_RESERVED_TYPE_ID"), "ignite: type_id 0 is reserved")
	}
	typeRegistryMu.Lock()
	defer typeRegistryMu.Unlock()
	for int(typeID) >= len(typeRegistry) {
		typeRegistry = append(typeRegistry, nil)
	}
	if typeRegistry[typeID] != nil {
		return errDuplicateTypeID
	}
	d := desc
	typeRegistry[typeID] = &d
	return nil
}

// EncodeUserValue is a helper for user type capture functions: it runs the
// registered encode callback for typeID against value into a scratch
// buffer sized to maxLen, and returns the resulting payload ready to pass
// to User(). It implements the §9 overflow contract: in debug mode a
// callback that reports writing more than maxLen panics; in release mode
// the payload is truncated to maxLen and truncated is reported true so the
// caller can decide whether to still emit the component.
func EncodeUserValue(typeID uint16, value interface{}, maxLen int) (payload []byte, truncated bool) {
	desc := LookupType(typeID)
	if desc == nil || desc.Encode == nil {
		return nil, false
	}
	scratch := make([]byte, maxLen)
	n := desc.Encode(value, scratch)
	if n > maxLen {
		if DebugAssertions {
			panic("ignite: user type encode callback wrote past declared length")
		}
		return scratch[:maxLen], true
	}
	return scratch[:n], false
}
