// Package catalog holds the merged command catalog behind a single-slot
// TTL cache.
//
// The slot has a documented lifecycle: created empty at process start,
// replaced wholesale on rebuild, cleared on explicit invalidation. It is
// never partially mutated, so concurrent readers always observe either the
// previous complete snapshot or the new one. Concurrent rebuild triggers
// coalesce onto one in-flight rebuild.
package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/launchdeck/backend/internal/infrastructure/logging"
	"github.com/launchdeck/backend/internal/infrastructure/monitoring"
	"github.com/launchdeck/backend/internal/shared/types"
)

// TTL is the maximum age of a cached catalog before a request rebuilds it.
const TTL = 120 * time.Second

// QuitID identifies the built-in quit command.
var QuitID = types.EntryID(types.CategorySystem, "Quit LaunchDeck")

// systemEntries are always appended after discovery results. System
// commands carry no target; they execute built-in actions.
var systemEntries = []types.CommandEntry{
	{
		ID:       QuitID,
		Title:    "Quit LaunchDeck",
		Keywords: []string{"quit", "exit", "close"},
		Category: types.CategorySystem,
	},
}

// Discoverer produces one source of catalog entries.
type Discoverer interface {
	Discover(ctx context.Context) []types.CommandEntry
}

// Catalog composes both discovery flows behind the cache slot.
type Catalog struct {
	apps     Discoverer
	settings Discoverer
	log      *logging.Logger
	metrics  *monitoring.Metrics

	ttl time.Duration
	now func() time.Time

	mu       sync.RWMutex
	snapshot []types.CommandEntry
	builtAt  time.Time

	group singleflight.Group
}

// New creates a catalog over the two discovery flows.
func New(apps, settings Discoverer, log *logging.Logger) *Catalog {
	return &Catalog{
		apps:     apps,
		settings: settings,
		log:      log,
		ttl:      TTL,
		now:      time.Now,
	}
}

// WithMetrics attaches a metrics collector.
func (c *Catalog) WithMetrics(m *monitoring.Metrics) *Catalog {
	c.metrics = m
	return c
}

// WithTTL overrides the cache TTL.
func (c *Catalog) WithTTL(ttl time.Duration) *Catalog {
	c.ttl = ttl
	return c
}

// WithClock overrides the time source.
func (c *Catalog) WithClock(now func() time.Time) *Catalog {
	c.now = now
	return c
}

// Commands returns the catalog snapshot, rebuilding when the slot is
// empty, expired, or invalidated. Idempotent within the TTL window.
func (c *Catalog) Commands(ctx context.Context) []types.CommandEntry {
	c.mu.RLock()
	if c.snapshot != nil && c.now().Sub(c.builtAt) < c.ttl {
		snapshot := c.snapshot
		c.mu.RUnlock()
		if c.metrics != nil {
			c.metrics.CacheHits.Inc()
		}
		return snapshot
	}
	c.mu.RUnlock()

	if c.metrics != nil {
		c.metrics.CacheMisses.Inc()
	}
	snapshot, _, _ := c.group.Do("rebuild", func() (interface{}, error) {
		return c.rebuild(ctx), nil
	})
	return snapshot.([]types.CommandEntry)
}

// Find resolves a command by id through the normal cached path.
func (c *Catalog) Find(ctx context.Context, id string) (types.CommandEntry, bool) {
	for _, entry := range c.Commands(ctx) {
		if entry.ID == id {
			return entry, true
		}
	}
	return types.CommandEntry{}, false
}

// Invalidate clears the slot and timestamp; the next Commands call
// rebuilds regardless of age.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.builtAt = time.Time{}
	c.mu.Unlock()
	c.log.Info("catalog invalidated")
}

// Stats summarizes the current snapshot without triggering a rebuild.
func (c *Catalog) Stats() types.CatalogStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := types.CatalogStats{
		Total:      len(c.snapshot),
		Categories: make(map[types.Category]int),
	}
	for _, entry := range c.snapshot {
		stats.Categories[entry.Category]++
	}
	if !c.builtAt.IsZero() {
		stats.CachedAt = c.builtAt.Unix()
	}
	return stats
}

// rebuild runs both discovery flows concurrently, sorts each result set by
// title, appends the fixed system entries, and swaps the slot.
func (c *Catalog) rebuild(ctx context.Context) []types.CommandEntry {
	started := c.now()

	var apps, settings []types.CommandEntry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		apps = c.apps.Discover(gctx)
		return nil
	})
	g.Go(func() error {
		settings = c.settings.Discover(gctx)
		return nil
	})
	// Discoverers degrade internally and never return errors.
	_ = g.Wait()

	sortByTitle(apps)
	sortByTitle(settings)

	entries := make([]types.CommandEntry, 0, len(apps)+len(settings)+len(systemEntries))
	entries = append(entries, apps...)
	entries = append(entries, settings...)
	entries = append(entries, systemEntries...)

	builtAt := c.now()
	c.mu.Lock()
	c.snapshot = entries
	c.builtAt = builtAt
	c.mu.Unlock()

	elapsed := builtAt.Sub(started)
	if c.metrics != nil {
		c.metrics.RecordRebuild(elapsed, len(apps), len(settings))
	}
	c.log.Info("catalog rebuilt",
		zap.Int("applications", len(apps)),
		zap.Int("settings", len(settings)),
		zap.Int("total", len(entries)),
		zap.Duration("elapsed", elapsed))
	return entries
}

func sortByTitle(entries []types.CommandEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Title < entries[j].Title
	})
}
