package bundle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanFiltersBySuffix(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Safari.app"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Mail.app"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "NotABundle"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644))

	got := Scan([]string{dir}, ".app")

	assert.Len(t, got, 2)
	assert.Contains(t, got, filepath.Join(dir, "Safari.app"))
	assert.Contains(t, got, filepath.Join(dir, "Mail.app"))
}

func TestScanSkipsMissingDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Notes.app"), 0o755))

	got := Scan([]string{"/does/not/exist", dir, "/also/missing"}, ".app")

	assert.Equal(t, []string{filepath.Join(dir, "Notes.app")}, got)
}

func TestScanEmptyDirs(t *testing.T) {
	// All locations empty or absent: zero results, no error.
	got := Scan([]string{t.TempDir(), "/nope"}, ".app")
	assert.Empty(t, got)
}
