package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAndEnsureDBPathCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "nested", "study", "rpager.db")

	got, err := ResolveAndEnsureDBPath(want)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	info, err := os.Stat(filepath.Dir(want))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestResolveAndEnsureDBPathMakesAbsolute(t *testing.T) {
	t.Chdir(t.TempDir())

	got, err := ResolveAndEnsureDBPath("rpager.db")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "rpager.db", filepath.Base(got))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome("~/notes/rpager.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes", "rpager.db"), got)

	got, err = ExpandHome("/tmp/x.db")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", got)
}

func TestDefaultPathHonoursXDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG applies to unix-like systems only")
	}
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "rpager", "rpager.db"), GetDefaultDBPathOnly())

	t.Setenv("XDG_DATA_HOME", "relative/path")
	assert.NotContains(t, GetDefaultDBPathOnly(), "relative/path")
}
