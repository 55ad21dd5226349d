package ignite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileTemplateUnknownDecoratorErrors(t *testing.T) {
	reg := NewDecoratorRegistry()
	_, err := CompileTemplate("{nope}", reg)
	assert.Error(t, err)
}

func TestCompileTemplateAndRender(t *testing.T) {
	reg := NewDecoratorRegistry()
	logReg := NewRegistry(Info)
	l := logReg.GetLogger("svc")

	tmpl, err := CompileTemplate("[{severity}] {logger}: {msg}\n", reg)
	require.NoError(t, err)

	rec := newRecord(l, Warning, "disk low", "f.go", 1, "fn")
	view, err := Decode(mustEncode(t, rec, l.ID()))
	require.NoError(t, err)

	out := tmpl.Render(DecoratorContext{View: &view, Logger: l, PID: 1})
	assert.Equal(t, "[warning] svc: disk low\n", out)
}

func TestEmissionDecoratorsSplit(t *testing.T) {
	reg := NewDecoratorRegistry()
	tmpl, err := CompileTemplate("{date_time} {pid} {msg}", reg)
	require.NoError(t, err)

	emission := tmpl.EmissionDecorators()
	require.Len(t, emission, 1)
	assert.Equal(t, "date_time", emission[0].Name())
}

func TestScopeElapsedDecoratorZeroWhenNotAScope(t *testing.T) {
	logReg := NewRegistry(Info)
	root := logReg.Root()
	f := decoratorScopeElapsed.Emit(DecoratorContext{Logger: root})
	assert.Equal(t, int64(0), f.IntValue())
}

func TestScopeElapsedDecoratorPositiveOnScope(t *testing.T) {
	logReg := NewRegistry(Info)
	scoped := logReg.Root().With(Str("req", "1"))
	f := decoratorScopeElapsed.Emit(DecoratorContext{Logger: scoped})
	assert.Greater(t, f.IntValue(), int64(0))
}

func TestDecoratorRegistryRegisterOverrides(t *testing.T) {
	reg := NewDecoratorRegistry()
	custom := funcDecorator{name: "pid", atEmit: false, emitFunc: func(DecoratorContext) Field {
		return Int("pid", -1)
	}}
	reg.Register(custom)
	assert.Equal(t, int64(-1), reg.Lookup("pid").Emit(DecoratorContext{}).IntValue())
}

func mustEncode(t *testing.T, r Record, loggerID uint64) []byte {
	t.Helper()
	f, err := Encode(r, loggerID, 0, 0)
	require.NoError(t, err)
	return append([]byte(nil), f.Bytes()...)
}

func TestFieldToStringCoversKinds(t *testing.T) {
	assert.Equal(t, "x", fieldToString(Str("k", "x")))
	assert.True(t, strings.HasPrefix(fieldToString(Int("k", 5)), "5"))
	assert.Equal(t, "true", fieldToString(Bool("k", true)))
}
