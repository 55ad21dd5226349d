package ignite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	reg := NewRegistry(Info)
	l := reg.GetLogger("app.worker")
	r := newRecord(l, Warning, "disk low", "main.go", 42, "main.run")
	r = Extend(r, Str("path", "/var/log"))
	r = Extend(r, Int64("free_bytes", 1024))
	r = Extend(r, Bool("critical", false))

	f, err := Encode(r, l.ID(), 1000, 0)
	require.NoError(t, err)
	defer Release(f)

	view, err := Decode(f.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 4, view.Count())
	assert.Equal(t, Warning, view.Severity())
	assert.False(t, view.Truncated())
	assert.Equal(t, l.ID(), view.LoggerID())
	assert.Equal(t, int64(1000), view.TimestampNS())
	assert.Equal(t, "main.go", view.File())
	assert.Equal(t, "main.run", view.Func())

	msg, err := view.Component(0)
	require.NoError(t, err)
	assert.Equal(t, "disk low", msg.StringValue())

	var keys []string
	require.NoError(t, view.ForEach(func(f Field) bool {
		keys = append(keys, f.Key)
		return true
	}))
	assert.Equal(t, []string{"", "path", "free_bytes", "critical"}, keys)
}

func TestEncodeEmptyRecordFails(t *testing.T) {
	var r Record
	_, err := Encode(r, 1, 0, 0)
	assert.Error(t, err)
}

func TestEncodeTruncatesOversizeRecord(t *testing.T) {
	reg := NewRegistry(Info)
	l := reg.Root()
	r := newRecord(l, Info, "start", "f.go", 1, "fn")
	for i := 0; i < MaxComponents-2; i++ {
		r = Extend(r, Str("field", "some reasonably long payload to force overflow quickly"))
	}

	f, err := Encode(r, l.ID(), 0, 64)
	require.NoError(t, err)
	defer Release(f)

	view, err := Decode(f.Bytes())
	require.NoError(t, err)
	assert.True(t, view.Truncated())
	assert.LessOrEqual(t, f.Len(), 64+256)
}

func TestDecodeShortFrameErrors(t *testing.T) {
	_, err := Decode([]byte{1, 2, 3})
	assert.Error(t, err)
}
