// Package discovery enumerates installed applications and settings panels
// and turns them into catalog entries.
//
// Both flows tolerate partial failure anywhere in the pipeline: a missing
// directory is skipped, an unreadable manifest degrades the entry, a
// failed icon conversion yields an entry without an icon. A degraded entry
// is preferable to a missing one, and a missing one to aborting the scan.
package discovery

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/launchdeck/backend/internal/bundle"
	"github.com/launchdeck/backend/internal/icon"
	"github.com/launchdeck/backend/internal/infrastructure/logging"
	"github.com/launchdeck/backend/internal/shared/paths"
	"github.com/launchdeck/backend/internal/shared/types"
)

// Apps discovers installed application bundles.
type Apps struct {
	dirs  []string
	icons *icon.Extractor
	log   *logging.Logger
}

// NewApps creates the application discovery flow over the standard
// application directories.
func NewApps(icons *icon.Extractor, log *logging.Logger) *Apps {
	return &Apps{dirs: paths.ApplicationDirs(), icons: icons, log: log}
}

// WithDirs overrides the scan roots.
func (a *Apps) WithDirs(dirs []string) *Apps {
	a.dirs = dirs
	return a
}

// Discover scans the application directories and returns one entry per
// distinct display name, first-seen wins. Order is not significant here;
// the catalog sorts by title.
func (a *Apps) Discover(ctx context.Context) []types.CommandEntry {
	started := time.Now()
	bundles := bundle.Scan(a.dirs, paths.AppSuffix)

	dedup := NewDedup()
	var mu sync.Mutex
	var entries []types.CommandEntry

	eachBatch(ctx, bundles, func(ctx context.Context, path string) {
		title := strings.TrimSuffix(filepath.Base(path), paths.AppSuffix)
		if title == "" || !dedup.Claim(title) {
			return
		}
		entry := types.CommandEntry{
			ID:       types.EntryID(types.CategoryApplication, title),
			Title:    title,
			Keywords: keywords(title),
			Icon:     a.icons.Extract(ctx, path),
			Category: types.CategoryApplication,
			Target:   path,
		}
		mu.Lock()
		entries = append(entries, entry)
		mu.Unlock()
	})

	a.log.Debug("application discovery complete",
		zap.Int("bundles", len(bundles)),
		zap.Int("entries", len(entries)),
		zap.Duration("elapsed", time.Since(started)))
	return entries
}

// keywords splits titles into lowercase search terms.
func keywords(titles ...string) []string {
	var out []string
	for _, title := range titles {
		out = append(out, strings.Fields(strings.ToLower(title))...)
	}
	return out
}
