package discovery

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/launchdeck/backend/internal/bundle"
	"github.com/launchdeck/backend/internal/icon"
	"github.com/launchdeck/backend/internal/infrastructure/logging"
	"github.com/launchdeck/backend/internal/normalize"
	"github.com/launchdeck/backend/internal/shared/paths"
	"github.com/launchdeck/backend/internal/shared/types"
)

// allowList names settings extensions that do not self-identify as such
// through their filename or display name.
var allowList = map[string]struct{}{
	"AppleIDSettings.appex":       {},
	"FamilySharingSettings.appex": {},
	"ClassKitSettings.appex":      {},
	"FollowUpSettings.appex":      {},
}

// helperTokens mark extensions that are background, intent, or widget
// helpers rather than user-facing panels.
var helperTokens = []string{"Intent", "Widget", "Background", "Helper", "Agent"}

// minTitleLen discards titles that collapse to nothing after suffix
// stripping.
const minTitleLen = 2

// Settings discovers configuration panels from two complementary sources:
// modern extension bundles and legacy preference panes. The extension
// source is processed first and wins on a shared key, so its richer
// metadata and per-panel icon take priority.
type Settings struct {
	extDirs      []string
	paneDirs     []string
	settingsApps []string
	reader       *bundle.Reader
	icons        *icon.Extractor
	log          *logging.Logger
}

// NewSettings creates the settings discovery flow over the standard
// extension and preference pane directories.
func NewSettings(reader *bundle.Reader, icons *icon.Extractor, log *logging.Logger) *Settings {
	return &Settings{
		extDirs:      []string{paths.SettingsExtensions},
		paneDirs:     paths.PrefPaneDirs(),
		settingsApps: paths.SettingsApps,
		reader:       reader,
		icons:        icons,
		log:          log,
	}
}

// WithDirs overrides the scan roots.
func (s *Settings) WithDirs(extDirs, paneDirs []string) *Settings {
	s.extDirs = extDirs
	s.paneDirs = paneDirs
	return s
}

// WithSettingsApps overrides the settings application bundles used for the
// shared fallback icon.
func (s *Settings) WithSettingsApps(apps []string) *Settings {
	s.settingsApps = apps
	return s
}

// Discover merges both sources. Source order is part of the contract: the
// dedup set is shared and first-seen wins, so extensions must be fully
// processed before legacy panes.
func (s *Settings) Discover(ctx context.Context) []types.CommandEntry {
	started := time.Now()
	dedup := NewDedup()
	fallbackIcon := s.fallbackIcon(ctx)

	entries := s.discoverExtensions(ctx, dedup, fallbackIcon)
	entries = append(entries, s.discoverPrefPanes(ctx, dedup, fallbackIcon)...)

	s.log.Debug("settings discovery complete",
		zap.Int("entries", len(entries)),
		zap.Duration("elapsed", time.Since(started)))
	return entries
}

// fallbackIcon extracts one shared icon from the first settings app bundle
// that exists. Panels whose own extraction fails reuse it.
func (s *Settings) fallbackIcon(ctx context.Context) string {
	for _, app := range s.settingsApps {
		if fileExists(app) {
			if ic := s.icons.Extract(ctx, app); ic != "" {
				return ic
			}
		}
	}
	return ""
}

func (s *Settings) discoverExtensions(ctx context.Context, dedup *Dedup, fallbackIcon string) []types.CommandEntry {
	bundles := bundle.Scan(s.extDirs, paths.ExtSuffix)

	var mu sync.Mutex
	var entries []types.CommandEntry

	eachBatch(ctx, bundles, func(ctx context.Context, path string) {
		base := filepath.Base(path)
		manifest := s.reader.Read(ctx, path)
		title := manifest.DisplayName()

		if !s.isSettingsRole(base, title) {
			return
		}
		// A panel without a display name has nothing to show in a list.
		if title == "" {
			return
		}
		identifier := manifest.String(bundle.KeyIdentifier)
		if isHelper(base) || isHelper(title) || isHelper(identifier) {
			return
		}
		if normalize.HasSuffixToken(title) {
			title = normalize.Title(title)
		}
		if len(title) < minTitleLen || !dedup.Claim(title) {
			return
		}

		entryIcon := s.icons.Extract(ctx, path)
		if entryIcon == "" {
			entryIcon = fallbackIcon
		}
		entry := types.CommandEntry{
			ID:       types.EntryID(types.CategorySettings, title),
			Title:    title,
			Keywords: keywords(title, "settings", "preferences"),
			Icon:     entryIcon,
			Category: types.CategorySettings,
			Target:   identifier,
		}
		mu.Lock()
		entries = append(entries, entry)
		mu.Unlock()
	})
	return entries
}

func (s *Settings) discoverPrefPanes(ctx context.Context, dedup *Dedup, fallbackIcon string) []types.CommandEntry {
	bundles := bundle.Scan(s.paneDirs, paths.PrefPaneSuffix)

	var mu sync.Mutex
	var entries []types.CommandEntry

	eachBatch(ctx, bundles, func(ctx context.Context, path string) {
		base := strings.TrimSuffix(filepath.Base(path), paths.PrefPaneSuffix)
		title := normalize.Title(base)
		if len(title) < minTitleLen || !dedup.Claim(title) {
			return
		}

		entryIcon := s.icons.Extract(ctx, path)
		if entryIcon == "" {
			entryIcon = fallbackIcon
		}
		entry := types.CommandEntry{
			ID:       types.EntryID(types.CategorySettings, title),
			Title:    title,
			Keywords: keywords(title, "settings", "preferences"),
			Icon:     entryIcon,
			Category: types.CategorySettings,
			Target:   base,
		}
		mu.Lock()
		entries = append(entries, entry)
		mu.Unlock()
	})
	return entries
}

// isSettingsRole reports whether the bundle filename or manifest display
// name indicates a settings panel, or the bundle is allow-listed.
func (s *Settings) isSettingsRole(base, displayName string) bool {
	if _, ok := allowList[base]; ok {
		return true
	}
	return indicatesSettings(base) || indicatesSettings(displayName)
}

func indicatesSettings(name string) bool {
	return strings.Contains(name, "Settings") || strings.Contains(name, "Preference")
}

func isHelper(name string) bool {
	for _, token := range helperTokens {
		if strings.Contains(name, token) {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
