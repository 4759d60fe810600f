package discovery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchdeck/backend/internal/bundle"
	"github.com/launchdeck/backend/internal/infrastructure/logging"
	"github.com/launchdeck/backend/internal/shared/types"
)

func makeExtension(t *testing.T, dir, name string) {
	t.Helper()
	bundlePath := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Join(bundlePath, "Contents"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bundlePath, "Contents", "Info.plist"), []byte("plist"), 0o644))
}

func makePane(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, name), 0o755))
}

// manifestRunner serves canned plutil JSON keyed by bundle directory name
// and fails every other tool.
func manifestRunner(manifests map[string]string) toolFunc {
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if name != "plutil" {
			return nil, errors.New("tool unavailable")
		}
		path := args[len(args)-1]
		for base, doc := range manifests {
			if strings.Contains(path, base) {
				return []byte(doc), nil
			}
		}
		return nil, errors.New("no such manifest")
	}
}

func extensionManifest(displayName, identifier string) string {
	return fmt.Sprintf(`{"CFBundleDisplayName":%q,"CFBundleIdentifier":%q}`, displayName, identifier)
}

func newTestSettings(runner toolFunc, extDirs, paneDirs []string) *Settings {
	ext := newTestExtractor(runner)
	return NewSettings(bundle.NewReader(runner), ext, logging.NewNop()).
		WithDirs(extDirs, paneDirs).
		WithSettingsApps(nil)
}

func TestSettingsDiscoverExtensions(t *testing.T) {
	extDir := t.TempDir()
	makeExtension(t, extDir, "DisplaysSettings.appex")

	runner := manifestRunner(map[string]string{
		"DisplaysSettings.appex": extensionManifest("Displays", "com.apple.Displays-Settings.extension"),
	})
	s := newTestSettings(runner, []string{extDir}, nil)
	entries := s.Discover(context.Background())

	require.Len(t, entries, 1)
	assert.Equal(t, "Displays", entries[0].Title)
	assert.Equal(t, types.CategorySettings, entries[0].Category)
	assert.Equal(t, "com.apple.Displays-Settings.extension", entries[0].Target)
	assert.Contains(t, entries[0].Keywords, "settings")
	assert.Contains(t, entries[0].Keywords, "preferences")
}

func TestSettingsExtensionBeatsLegacyPane(t *testing.T) {
	extDir := t.TempDir()
	paneDir := t.TempDir()
	makeExtension(t, extDir, "DisplaysSettings.appex")
	makePane(t, paneDir, "Displays.prefPane")

	runner := manifestRunner(map[string]string{
		"DisplaysSettings.appex": extensionManifest("Displays", "com.apple.Displays-Settings.extension"),
	})
	s := newTestSettings(runner, []string{extDir}, []string{paneDir})
	entries := s.Discover(context.Background())

	// Shared title: the extension entry wins and keeps its identifier target.
	require.Len(t, entries, 1)
	assert.Equal(t, "com.apple.Displays-Settings.extension", entries[0].Target)
}

func TestSettingsDiscoverPrefPanes(t *testing.T) {
	paneDir := t.TempDir()
	makePane(t, paneDir, "DesktopScreenEffectsPref.prefPane")
	makePane(t, paneDir, "Network.prefPane")

	s := newTestSettings(noTools, nil, []string{paneDir})
	entries := s.Discover(context.Background())

	require.Len(t, entries, 2)
	entry, ok := findEntry(entries, "Desktop & Screen Saver")
	require.True(t, ok, "pane names pass through normalization")
	assert.Equal(t, "DesktopScreenEffectsPref", entry.Target)
}

func TestSettingsSkipsHelperExtensions(t *testing.T) {
	extDir := t.TempDir()
	makeExtension(t, extDir, "SoundSettings.appex")
	makeExtension(t, extDir, "SoundSettingsWidget.appex")
	makeExtension(t, extDir, "FocusSettingsIntentHandler.appex")

	runner := manifestRunner(map[string]string{
		"SoundSettings.appex":              extensionManifest("Sound", "com.apple.Sound-Settings.extension"),
		"SoundSettingsWidget.appex":        extensionManifest("Sound Widget", "com.apple.SoundWidget"),
		"FocusSettingsIntentHandler.appex": extensionManifest("Focus Intents", "com.apple.FocusIntents"),
	})
	s := newTestSettings(runner, []string{extDir}, nil)
	entries := s.Discover(context.Background())

	require.Len(t, entries, 1)
	assert.Equal(t, "Sound", entries[0].Title)
}

func TestSettingsSkipsNonSettingsExtensions(t *testing.T) {
	extDir := t.TempDir()
	makeExtension(t, extDir, "ShareSheet.appex")

	runner := manifestRunner(map[string]string{
		"ShareSheet.appex": extensionManifest("Share Sheet", "com.apple.ShareSheet"),
	})
	s := newTestSettings(runner, []string{extDir}, nil)

	assert.Empty(t, s.Discover(context.Background()))
}

func TestSettingsAllowListedExtension(t *testing.T) {
	extDir := t.TempDir()
	makeExtension(t, extDir, "FollowUpSettings.appex")

	runner := manifestRunner(map[string]string{
		"FollowUpSettings.appex": extensionManifest("Follow Up", "com.apple.FollowUp"),
	})
	s := newTestSettings(runner, []string{extDir}, nil)
	entries := s.Discover(context.Background())

	require.Len(t, entries, 1)
	assert.Equal(t, "Follow Up", entries[0].Title)
}

func TestSettingsSkipsExtensionWithoutDisplayName(t *testing.T) {
	extDir := t.TempDir()
	makeExtension(t, extDir, "MysterySettings.appex")

	// Manifest unreadable: no display name, nothing to list.
	s := newTestSettings(noTools, []string{extDir}, nil)

	assert.Empty(t, s.Discover(context.Background()))
}

func TestSettingsNormalizesExtensionTitles(t *testing.T) {
	extDir := t.TempDir()
	makeExtension(t, extDir, "DateTime.appex")

	runner := manifestRunner(map[string]string{
		"DateTime.appex": extensionManifest("DateAndTimeSettings", "com.apple.DateTime-Settings.extension"),
	})
	s := newTestSettings(runner, []string{extDir}, nil)
	entries := s.Discover(context.Background())

	require.Len(t, entries, 1)
	assert.Equal(t, "Date & Time", entries[0].Title)
}
