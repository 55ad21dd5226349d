package ignite

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGzipFileSinkWritesDecompressableContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log.gz")

	decReg := NewDecoratorRegistry()
	tmpl, err := CompileTemplate("{msg}\n", decReg)
	require.NoError(t, err)

	sink, err := NewGzipFileSink("gz", path, decReg, tmpl, nil)
	require.NoError(t, err)

	reg := NewRegistry(Info)
	sink.Accept(newRecord(reg.Root(), Info, "compressed line", "f.go", 1, "fn"))
	require.NoError(t, sink.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	gr, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gr.Close()

	out, err := io.ReadAll(gr)
	require.NoError(t, err)
	assert.Equal(t, "compressed line\n", string(out))
}

func TestNewGzipFileSinkErrorsOnUnwritableDirectory(t *testing.T) {
	_, err := NewGzipFileSink("gz", filepath.Join(t.TempDir(), "missing-dir", "out.log.gz"), nil, nil, nil)
	assert.Error(t, err)
}
