package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nobel-von-it/lss/pkg/config"
)

func setupDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "beta.txt"), []byte("12345"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.txt"), []byte("1"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	// WriteFile and Mkdir are both subject to the umask
	require.NoError(t, os.Chmod(filepath.Join(dir, "alpha.txt"), 0644))
	require.NoError(t, os.Chmod(filepath.Join(dir, "beta.txt"), 0644))
	require.NoError(t, os.Chmod(filepath.Join(dir, "sub"), 0755))
	return dir
}

func TestListShortFormat(t *testing.T) {
	dir := setupDir(t)

	var buf bytes.Buffer
	err := list(&buf, dir, options{Width: 80})
	require.NoError(t, err)

	assert.Equal(t, "alpha.txt  beta.txt  sub/\n", buf.String())
}

func TestListShowsHidden(t *testing.T) {
	dir := setupDir(t)

	var buf bytes.Buffer
	err := list(&buf, dir, options{All: true, Width: 80})
	require.NoError(t, err)

	assert.Equal(t, ".hidden  alpha.txt  beta.txt  sub/\n", buf.String())
}

func TestListSizeSort(t *testing.T) {
	dir := setupDir(t)

	var buf bytes.Buffer
	err := list(&buf, dir, options{SizeSort: true, Long: true, Width: 80})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "alpha.txt")
	assert.Contains(t, lines[1], "beta.txt")
	assert.Contains(t, lines[2], "sub")
}

func TestListLongFormat(t *testing.T) {
	dir := setupDir(t)

	var buf bytes.Buffer
	err := list(&buf, dir, options{Long: true, Width: 80})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "-rw-r--r--"))
	assert.Contains(t, lines[0], "alpha.txt")
	assert.True(t, strings.HasPrefix(lines[2], "drwxr-xr-x"))
}

func TestListEmptyDir(t *testing.T) {
	var buf bytes.Buffer
	err := list(&buf, t.TempDir(), options{Width: 80})
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestListMissingDir(t *testing.T) {
	var buf bytes.Buffer
	err := list(&buf, filepath.Join(t.TempDir(), "nope"), options{Width: 80})
	require.Error(t, err)
}

func TestRootCmdFlagsOverrideConfig(t *testing.T) {
	dir := setupDir(t)

	cfg := &config.Config{Color: "never"}
	cmd := newRootCmd(cfg)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"-a", dir})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), ".hidden")
}
