package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"c19money/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	assert.True(t, fileutils.FileExists(path))
	assert.False(t, fileutils.FileExists(filepath.Join(dir, "missing.txt")))
	assert.False(t, fileutils.FileExists(dir), "a directory is not a file")
}

func TestEnsureDirectoryExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, fileutils.EnsureDirectoryExists(dir))
	assert.True(t, fileutils.DirectoryExists(dir))

	// Idempotent on an existing directory.
	assert.NoError(t, fileutils.EnsureDirectoryExists(dir))
}

func TestCreateFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "result.json")
	f, err := fileutils.CreateFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.True(t, fileutils.FileExists(path))
}

func TestListFilesWithExtension(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xml", "a.xml", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	files, err := fileutils.ListFilesWithExtension(dir, ".xml")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "a.xml"), files[0])
	assert.Equal(t, filepath.Join(dir, "b.xml"), files[1])
}
