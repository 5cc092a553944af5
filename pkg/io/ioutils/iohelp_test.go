package ioutils

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = io.WriteString(zw, "a,b\n1,2\n")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	r, err := OpenMaybeCompressed(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(b))
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "data.csv")
	require.NoError(t, WriteAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "x\n")
		return err
	}))
	r, err := OpenMaybeCompressed(path)
	require.NoError(t, err)
	b, _ := io.ReadAll(r)
	_ = r.Close()
	assert.Equal(t, "x\n", string(b))

	failed := filepath.Join(dir, "failed.csv")
	err = WriteAtomic(failed, func(w io.Writer) error { return assert.AnError })
	assert.ErrorIs(t, err, assert.AnError)
	_, statErr := os.Stat(failed)
	assert.True(t, os.IsNotExist(statErr))
	entries, _ := os.ReadDir(dir)
	assert.Len(t, entries, 1, "temporary file removed")
}

func TestTrimExt(t *testing.T) {
	assert.Equal(t, "sales", TrimExt("/data/sales.csv"))
	assert.Equal(t, "sales", TrimExt("sales.csv.gz"))
	assert.Equal(t, "sales.2024", TrimExt("sales.2024.parquet"))
	assert.Equal(t, "noext", TrimExt("noext"))
}
