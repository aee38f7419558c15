package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Both implementations must satisfy the same contract.
func filesystems(t *testing.T) map[string]struct {
	fs   FileSystem
	root string
} {
	return map[string]struct {
		fs   FileSystem
		root string
	}{
		"os":     {OSFileSystem{}, t.TempDir()},
		"memory": {NewMemoryFileSystem(), "/mem"},
	}
}

func TestFileSystem_CreateIn(t *testing.T) {
	for name, tc := range filesystems(t) {
		t.Run(name, func(t *testing.T) {
			dir := filepath.Join(tc.root, "AA-1234abcd")
			w, path, err := CreateIn(tc.fs, dir, "summary_AA.csv")
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, "summary_AA.csv"), path)

			_, err = io.WriteString(w, "knob_type,particle_count\n")
			require.NoError(t, err)
			require.NoError(t, w.Close())

			assert.True(t, tc.fs.Exists(dir))
			assert.True(t, tc.fs.Exists(path))

			data, err := tc.fs.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "knob_type,particle_count\n", string(data))

			info, err := tc.fs.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, int64(len(data)), info.Size())
			assert.False(t, info.IsDir())

			info, err = tc.fs.Stat(dir)
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		})
	}
}

func TestFileSystem_WriteFileOverwrites(t *testing.T) {
	for name, tc := range filesystems(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, tc.fs.MkdirAll(tc.root, 0o755))
			path := filepath.Join(tc.root, "coords.txt")
			require.NoError(t, tc.fs.WriteFile(path, []byte("first"), 0o644))
			require.NoError(t, tc.fs.WriteFile(path, []byte("2nd"), 0o644))

			data, err := tc.fs.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "2nd", string(data))
		})
	}
}

func TestFileSystem_Missing(t *testing.T) {
	for name, tc := range filesystems(t) {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(tc.root, "nope.txt")
			assert.False(t, tc.fs.Exists(path))

			_, err := tc.fs.ReadFile(path)
			assert.True(t, errors.Is(err, fs.ErrNotExist), "ReadFile: %v", err)

			_, err = tc.fs.Stat(path)
			assert.True(t, errors.Is(err, fs.ErrNotExist), "Stat: %v", err)
		})
	}
}

func TestMemoryFileSystem_VisibleOnClose(t *testing.T) {
	m := NewMemoryFileSystem()
	w, err := m.Create("/out/a.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)

	// Created but not yet flushed.
	data, err := m.ReadFile("/out/a.txt")
	require.NoError(t, err)
	assert.Empty(t, data)

	require.NoError(t, w.Close())
	data, err = m.ReadFile("/out/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = w.Write([]byte("more"))
	assert.ErrorIs(t, err, fs.ErrClosed)
	assert.ErrorIs(t, w.Close(), fs.ErrClosed)
}

func TestMemoryFileSystem_DataIsolation(t *testing.T) {
	m := NewMemoryFileSystem()
	original := []byte("original")
	require.NoError(t, m.WriteFile("/f", original, 0o644))
	original[0] = 'X'

	data, err := m.ReadFile("/f")
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))

	data[0] = 'Y'
	again, _ := m.ReadFile("/f")
	assert.Equal(t, "original", string(again))
}

func TestMemoryFileSystem_MkdirAllParents(t *testing.T) {
	m := NewMemoryFileSystem()
	require.NoError(t, m.MkdirAll("/a/b/c", 0o755))
	for _, dir := range []string{"/a", "/a/b", "/a/b/c"} {
		assert.True(t, m.Exists(dir), dir)
	}
	info, err := m.Stat("/a/b")
	require.NoError(t, err)
	assert.True(t, info.Mode().IsDir())
}

func TestMemoryFileSystem_Files(t *testing.T) {
	m := NewMemoryFileSystem()
	for _, name := range []string{"/out/run/b.csv", "/out/run/a.txt", "/out/other/c.png", "/outside.txt"} {
		require.NoError(t, m.WriteFile(name, nil, 0o644))
	}

	assert.Equal(t, []string{"/out/run/a.txt", "/out/run/b.csv"}, m.Files("/out/run"))
	assert.Equal(t, []string{"/out/other/c.png", "/out/run/a.txt", "/out/run/b.csv"}, m.Files("/out/"))
	assert.Empty(t, m.Files("/missing"))
	assert.Len(t, m.Files("/"), 4)
}

func TestMemoryFileSystem_PathCleaning(t *testing.T) {
	m := NewMemoryFileSystem()
	require.NoError(t, m.WriteFile("/out//run/../run/x.txt", []byte("x"), 0o644))
	assert.True(t, m.Exists("/out/run/x.txt"))
}

func TestOSFileSystem_Permissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, OSFileSystem{}.WriteFile(path, []byte("x"), 0o600))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
