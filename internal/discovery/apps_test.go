package discovery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchdeck/backend/internal/bundle"
	"github.com/launchdeck/backend/internal/icon"
	"github.com/launchdeck/backend/internal/infrastructure/logging"
	"github.com/launchdeck/backend/internal/shared/types"
)

// toolFunc adapts a function to the tool runner interface.
type toolFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func (f toolFunc) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f(ctx, name, args...)
}

// noTools fails every external tool invocation; icons and manifests
// degrade to empty.
var noTools = toolFunc(func(ctx context.Context, name string, args ...string) ([]byte, error) {
	return nil, errors.New("tool unavailable")
})

func newTestExtractor(runner toolFunc) *icon.Extractor {
	return icon.NewExtractor(runner, bundle.NewReader(runner), nil)
}

func makeApp(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, name), 0o755))
}

func findEntry(entries []types.CommandEntry, title string) (types.CommandEntry, bool) {
	for _, e := range entries {
		if e.Title == title {
			return e, true
		}
	}
	return types.CommandEntry{}, false
}

func TestAppsDiscover(t *testing.T) {
	dir := t.TempDir()
	makeApp(t, dir, "Safari.app")
	makeApp(t, dir, "Mail.app")

	apps := NewApps(newTestExtractor(noTools), logging.NewNop()).WithDirs([]string{dir})
	entries := apps.Discover(context.Background())

	require.Len(t, entries, 2)
	entry, ok := findEntry(entries, "Safari")
	require.True(t, ok)
	assert.Equal(t, types.CategoryApplication, entry.Category)
	assert.Equal(t, filepath.Join(dir, "Safari.app"), entry.Target)
	assert.Equal(t, types.EntryID(types.CategoryApplication, "Safari"), entry.ID)
	assert.Contains(t, entry.Keywords, "safari")
}

func TestAppsDiscoverDedupsAcrossDirs(t *testing.T) {
	system := t.TempDir()
	local := t.TempDir()
	makeApp(t, system, "Notes.app")
	makeApp(t, local, "Notes.app")

	apps := NewApps(newTestExtractor(noTools), logging.NewNop()).WithDirs([]string{system, local})
	entries := apps.Discover(context.Background())

	assert.Len(t, entries, 1, "one entry per distinct name, first seen wins")
}

func TestAppsDiscoverDegradesWithoutIcons(t *testing.T) {
	dir := t.TempDir()
	makeApp(t, dir, "Terminal.app")

	// No converter tools available: the entry still appears, iconless.
	apps := NewApps(newTestExtractor(noTools), logging.NewNop()).WithDirs([]string{dir})
	entries := apps.Discover(context.Background())

	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Icon)
}

func TestAppsDiscoverEmptyDirs(t *testing.T) {
	apps := NewApps(newTestExtractor(noTools), logging.NewNop()).
		WithDirs([]string{t.TempDir(), "/missing"})
	assert.Empty(t, apps.Discover(context.Background()))
}

func TestKeywords(t *testing.T) {
	assert.Equal(t, []string{"mission", "control", "settings"}, keywords("Mission Control", "settings"))
	assert.True(t, allLower(keywords("Activity Monitor")))
}

func allLower(words []string) bool {
	for _, w := range words {
		if w != strings.ToLower(w) {
			return false
		}
	}
	return true
}
