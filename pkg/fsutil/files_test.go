package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/goup/pkg/errors"
)

func TestMove_File_SameFilesystem(t *testing.T) {
	tempDir := t.TempDir()

	srcFile := filepath.Join(tempDir, "source.txt")
	dstFile := filepath.Join(tempDir, "nested", "destination.txt")

	require.NoError(t, os.WriteFile(srcFile, []byte("Hello, World!"), FileModeDefault))

	require.NoError(t, Move(srcFile, dstFile))

	moved, err := os.ReadFile(dstFile)
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", string(moved))

	_, err = os.Stat(srcFile)
	assert.True(t, os.IsNotExist(err))
}

func TestMove_EmptyPaths(t *testing.T) {
	assert.ErrorIs(t, Move("", "dst"), errors.ErrIO)
	assert.ErrorIs(t, Move("src", ""), errors.ErrIO)
}

func TestMove_MissingSource(t *testing.T) {
	tempDir := t.TempDir()
	err := Move(filepath.Join(tempDir, "missing"), filepath.Join(tempDir, "dst"))
	assert.ErrorIs(t, err, errors.ErrIO)
	assert.Contains(t, err.Error(), "rename")
}

func TestCopy_PreservesPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not preserved on windows")
	}
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "tool")
	dst := filepath.Join(tempDir, "tool-copy")
	require.NoError(t, os.WriteFile(src, []byte("#!/bin/sh\n"), FileModeExec))

	require.NoError(t, Copy(src, dst))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(FileModeExec), info.Mode().Perm())
}

func TestTouch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", ".marker")
	require.NoError(t, Touch(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())
	assert.True(t, Exists(path))
}

func TestListFilesAndDirSize(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.tar.gz"), []byte("12345"), FileModeDefault))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.tar.gz.sha256"), []byte("abc"), FileModeDefault))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), DirModeDefault))

	names, err := ListFiles(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.tar.gz", "a.tar.gz.sha256"}, names)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "go"), []byte("12"), FileModeExec))
	size, err := DirSize(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(10), size)

	_, err = DirSize(filepath.Join(dir, "missing"))
	assert.Error(t, err)

	names, err = ListFiles(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
