package ignite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConfigSource struct {
	thresholds map[string]Severity
	err        error
}

func (s *fakeConfigSource) Parse(text []byte) (map[string]Severity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.thresholds, nil
}

func TestReloadWatcherAppliesThresholdsOnFileWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.txt")
	require.NoError(t, os.WriteFile(path, []byte("initial"), 0o644))

	reg := NewRegistry(Info)
	src := &fakeConfigSource{thresholds: map[string]Severity{"svc": Debug}}

	rw, err := NewReloadWatcher(path, src, reg, 20*time.Millisecond, os.ReadFile)
	require.NoError(t, err)
	defer rw.Close()

	require.NoError(t, os.WriteFile(path, []byte("updated"), 0o644))

	assert.Eventually(t, func() bool {
		return reg.GetLogger("svc").EffectiveThreshold() == Debug
	}, 2*time.Second, 10*time.Millisecond)
}

func TestReloadWatcherParseErrorLeavesRegistryUnchanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.txt")
	require.NoError(t, os.WriteFile(path, []byte("initial"), 0o644))

	reg := NewRegistry(Info)
	reg.SetThreshold("svc", Warning)
	src := &fakeConfigSource{err: errors.New("bad config")}

	rw, err := NewReloadWatcher(path, src, reg, 20*time.Millisecond, os.ReadFile)
	require.NoError(t, err)
	defer rw.Close()

	require.NoError(t, os.WriteFile(path, []byte("still broken"), 0o644))
	time.Sleep(200 * time.Millisecond)

	assert.Equal(t, Warning, reg.GetLogger("svc").EffectiveThreshold())
}

func TestNewReloadWatcherErrorsOnMissingFile(t *testing.T) {
	reg := NewRegistry(Info)
	_, err := NewReloadWatcher(filepath.Join(t.TempDir(), "missing.txt"), &fakeConfigSource{}, reg, 0, os.ReadFile)
	assert.Error(t, err)
}

func TestReloadWatcherCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	reg := NewRegistry(Info)
	rw, err := NewReloadWatcher(path, &fakeConfigSource{thresholds: map[string]Severity{}}, reg, 0, os.ReadFile)
	require.NoError(t, err)

	assert.NoError(t, rw.Close())
	assert.NoError(t, rw.Close())
}
