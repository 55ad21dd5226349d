package ignite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	name     string
	accepted []Record
}

func (s *recordingSink) Name() string { return s.name }
func (s *recordingSink) Accept(r Record) {
	s.accepted = append(s.accepted, r)
}

func TestThresholdDiscardEmitsNothing(t *testing.T) {
	r := NewRegistry(Info)
	l := r.Root()
	sink := &recordingSink{name: "test"}
	l.AddSink(sink)

	l.Debug("x=", Int("n", 1))

	assert.Empty(t, sink.accepted)
}

func TestAcceptedEmissionReachesSink(t *testing.T) {
	r := NewRegistry(Info)
	l := r.Root()
	sink := &recordingSink{name: "test"}
	l.AddSink(sink)

	l.Warn("hello ", Int("n", 42))

	require.Len(t, sink.accepted, 1)
	rec := sink.accepted[0]
	assert.Equal(t, Warning, rec.Severity)
	assert.Equal(t, "hello ", rec.Component(0).StringValue())
	assert.Equal(t, int64(42), rec.Component(1).IntValue())
}

func TestDispatchFansOutToAncestorSinks(t *testing.T) {
	r := NewRegistry(Info)
	root := r.Root()
	rootSink := &recordingSink{name: "root"}
	root.AddSink(rootSink)

	child := r.GetLogger("svc")
	childSink := &recordingSink{name: "svc"}
	child.AddSink(childSink)

	child.Info("booted")

	assert.Len(t, childSink.accepted, 1)
	assert.Len(t, rootSink.accepted, 1)
}

func TestWithMergesPreBoundFields(t *testing.T) {
	r := NewRegistry(Info)
	l := r.Root()
	sink := &recordingSink{name: "test"}
	l.AddSink(sink)

	scoped := l.With(Str("request_id", "abc"))
	scoped.Info("handled")

	require.Len(t, sink.accepted, 1)
	rec := sink.accepted[0]
	assert.Equal(t, "request_id", rec.Component(1).Key)
	assert.Equal(t, "abc", rec.Component(1).StringValue())
}

func TestWithScopeStartIsSetAndIndependentPerScope(t *testing.T) {
	r := NewRegistry(Info)
	l := r.Root()
	assert.True(t, l.ScopeStart.IsZero())

	scoped := l.With()
	assert.False(t, scoped.ScopeStart.IsZero())
	assert.Equal(t, 1, scoped.scopeDepth)
}

func TestNilLoggerEmitIsSafeNoOp(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Info("never emitted")
		l.Error("also never")
	})
}

func TestSetThresholdTakesEffectImmediately(t *testing.T) {
	r := NewRegistry(Info)
	l := r.GetLogger("svc")
	sink := &recordingSink{name: "svc"}
	l.AddSink(sink)

	l.Debug("should be discarded")
	assert.Empty(t, sink.accepted)

	r.SetThreshold("svc", Debug)
	r.GetLogger("svc").Debug("should now pass")
	assert.Len(t, sink.accepted, 1)
}
