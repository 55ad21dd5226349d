package ignite

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLookupType(t *testing.T) {
	id := RegisterType(TypeDescriptor{
		Name: "coordinates_test",
		Encode: func(value interface{}, out []byte) int {
			v := value.(int32)
			binary.LittleEndian.PutUint32(out, uint32(v))
			return 4
		},
		Decode: func(payload []byte) string {
			return "coord"
		},
	})
	assert.NotZero(t, id)

	desc := LookupType(id)
	require.NotNil(t, desc)
	assert.Equal(t, "coordinates_test", desc.Name)

	assert.Nil(t, LookupType(0))
	assert.Nil(t, LookupType(65535))
}

func TestRegisterTypeAtRejectsReservedAndDuplicate(t *testing.T) {
	err := RegisterTypeAt(0, TypeDescriptor{Name: "x"})
	assert.Error(t, err)

	const fixedID = 9001
	require.NoError(t, RegisterTypeAt(fixedID, TypeDescriptor{Name: "fixed_one"}))
	err = RegisterTypeAt(fixedID, TypeDescriptor{Name: "fixed_two"})
	assert.ErrorIs(t, err, errDuplicateTypeID)
}

func TestEncodeUserValueTruncatesInReleaseMode(t *testing.T) {
	id := RegisterType(TypeDescriptor{
		Name: "overflowing_test",
		Encode: func(value interface{}, out []byte) int {
			s := value.(string)
			n := copy(out, s)
			if len(s) > len(out) {
				return len(s)
			}
			return n
		},
	})

	prev := DebugAssertions
	DebugAssertions = false
	defer func() { DebugAssertions = prev }()

	payload, truncated := EncodeUserValue(id, "this is definitely too long", 4)
	assert.True(t, truncated)
	assert.Len(t, payload, 4)
}

func TestEncodeUserValuePanicsInDebugMode(t *testing.T) {
	id := RegisterType(TypeDescriptor{
		Name: "overflowing_debug_test",
		Encode: func(value interface{}, out []byte) int {
			return len(out) + 1
		},
	})

	prev := DebugAssertions
	DebugAssertions = true
	defer func() { DebugAssertions = prev }()

	assert.Panics(t, func() {
		EncodeUserValue(id, "x", 4)
	})
}

func TestEncodeUserValueUnknownTypeReturnsNil(t *testing.T) {
	payload, truncated := EncodeUserValue(65534, "x", 10)
	assert.Nil(t, payload)
	assert.False(t, truncated)
}
