package ignite

import (
	"errors"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestFieldConstructors(t *testing.T) {
	assert.Equal(t, "v", Str("k", "v").StringValue())
	assert.Equal(t, int64(42), Int64("k", 42).IntValue())
	assert.Equal(t, int64(7), Int("k", 7).IntValue())
	assert.Equal(t, 3.5, Float64("k", 3.5).FloatValue())
	assert.True(t, Bool("k", true).BoolValue())
	assert.False(t, Bool("k", false).BoolValue())
	assert.Equal(t, []byte("data"), Bytes("k", []byte("data")).BytesValue())

	var x int
	f := Addr("p", unsafe.Pointer(&x))
	assert.Equal(t, kindAddr, f.Kind())

	d := Duration("d", 2*time.Second)
	assert.Equal(t, int64(2*time.Second), d.IntValue())

	now := time.Now()
	inst := Instant("t", now)
	assert.Equal(t, now.UnixNano(), inst.TimeValue().UnixNano())
}

func TestFieldEmpty(t *testing.T) {
	var f Field
	assert.True(t, f.IsEmpty())
	assert.False(t, Str("k", "v").IsEmpty())
}

func TestErrField(t *testing.T) {
	assert.Equal(t, "", Err(nil).StringValue())
	assert.Equal(t, "boom", Err(errors.New("boom")).StringValue())
}

func TestSecretFieldRedacts(t *testing.T) {
	f := Secret("password", "hunter2")
	assert.Equal(t, "[REDACTED]", f.StringValue())
}

func TestUserField(t *testing.T) {
	f := User("u", 5, []byte{1, 2, 3})
	assert.Equal(t, uint16(5), f.TypeID())
	assert.Equal(t, []byte{1, 2, 3}, f.BytesValue())
	assert.Equal(t, kindUser, f.Kind())
}
