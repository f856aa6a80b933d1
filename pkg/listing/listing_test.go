package listing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.Chmod(filepath.Join(dir, "file.txt"), 0o644))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "script.sh"), []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, os.Chmod(filepath.Join(dir, "script.sh"), 0o755))

	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".secret"), []byte("x"), 0o644))

	require.NoError(t, os.Symlink("file.txt", filepath.Join(dir, "link")))
	require.NoError(t, os.Symlink("missing.txt", filepath.Join(dir, "dangling")))

	return dir
}

func readByName(t *testing.T, dir string) map[string]Entry {
	t.Helper()

	entries, err := Read(dir)
	require.NoError(t, err)

	byName := make(map[string]Entry, len(entries))
	for _, entry := range entries {
		byName[entry.Name] = entry
	}
	return byName
}

func TestReadClassifiesEntries(t *testing.T) {
	dir := setupDir(t)
	byName := readByName(t, dir)

	require.Len(t, byName, 6)

	assert.Equal(t, KindFile, byName["file.txt"].Kind)
	assert.Equal(t, KindExec, byName["script.sh"].Kind)
	assert.Equal(t, KindDir, byName["subdir"].Kind)
	assert.Equal(t, KindSymlink, byName["link"].Kind)
	assert.Equal(t, KindBrokenSymlink, byName["dangling"].Kind)

	assert.Equal(t, "file.txt", byName["link"].LinkTarget)
	assert.Equal(t, int64(5), byName["file.txt"].Size)
}

func TestReadModeStrings(t *testing.T) {
	dir := setupDir(t)
	byName := readByName(t, dir)

	assert.Equal(t, "-rw-r--r--", byName["file.txt"].Mode)
	assert.Equal(t, "-rwxr-xr-x", byName["script.sh"].Mode)
	assert.Equal(t, "drwxr-xr-x", byName["subdir"].Mode)
	assert.Equal(t, byte('l'), byName["link"].Mode[0])
}

func TestReadOwnerAndGroup(t *testing.T) {
	dir := setupDir(t)
	byName := readByName(t, dir)

	// names or numeric fallbacks, but never empty on unix
	assert.NotEmpty(t, byName["file.txt"].Owner)
	assert.NotEmpty(t, byName["file.txt"].Group)
}

func TestReadMissingDir(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestFilterHidden(t *testing.T) {
	dir := setupDir(t)

	entries, err := Read(dir)
	require.NoError(t, err)

	filtered := FilterHidden(entries, false)
	for _, entry := range filtered {
		assert.False(t, entry.Hidden(), "entry %s should have been filtered", entry.Name)
	}
	assert.Len(t, filtered, 5)

	entries, err = Read(dir)
	require.NoError(t, err)
	assert.Len(t, FilterHidden(entries, true), 6)
}

func TestSortByName(t *testing.T) {
	entries := []Entry{
		{Name: "zeta", Size: 1},
		{Name: "alpha", Size: 3},
		{Name: "mid", Size: 2},
	}

	SortByName(entries)
	assert.Equal(t, "alpha", entries[0].Name)
	assert.Equal(t, "mid", entries[1].Name)
	assert.Equal(t, "zeta", entries[2].Name)
}

func TestSortBySize(t *testing.T) {
	entries := []Entry{
		{Name: "big", Size: 300},
		{Name: "small", Size: 1},
		{Name: "medium", Size: 20},
	}

	SortBySize(entries)
	assert.Equal(t, "small", entries[0].Name)
	assert.Equal(t, "medium", entries[1].Name)
	assert.Equal(t, "big", entries[2].Name)
}

func TestModeStringSpecialBits(t *testing.T) {
	cases := []struct {
		mode     os.FileMode
		expected string
	}{
		{0o644, "-rw-r--r--"},
		{0o755 | os.ModeDir, "drwxr-xr-x"},
		{0o755 | os.ModeSetuid, "-rwsr-xr-x"},
		{0o644 | os.ModeSetuid, "-rwSr--r--"},
		{0o755 | os.ModeSetgid, "-rwxr-sr-x"},
		{0o745 | os.ModeSetgid, "-rwxr-Sr-x"},
		{0o777 | os.ModeDir | os.ModeSticky, "drwxrwxrwt"},
		{0o776 | os.ModeDir | os.ModeSticky, "drwxrwxrwT"},
		{0o644 | os.ModeSymlink, "lrw-r--r--"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, modeString(tc.mode), "mode %v", tc.mode)
	}
}
