// Package executor dispatches catalog commands to the OS open mechanisms.
//
// Settings panels are opened through an ordered chain of strategies with
// graceful degradation: each failure is swallowed and the next strategy
// attempted, only total exhaustion is logged. Errors never escape the
// Execute boundary; callers get a plain success/failure answer.
package executor

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/launchdeck/backend/internal/catalog"
	"github.com/launchdeck/backend/internal/infrastructure/logging"
	"github.com/launchdeck/backend/internal/infrastructure/monitoring"
	"github.com/launchdeck/backend/internal/shared/types"
)

// URL scheme pieces for settings panel dispatch.
const (
	settingsScheme  = "x-apple.systempreferences:"
	extensionPrefix = "com.apple."
	extensionSuffix = "-Settings.extension"
	legacyPrefix    = "com.apple.preference."

	settingsAppName = "System Settings"
	legacyAppName   = "System Preferences"
)

// Opener launches a path, URL, or named application via the OS default
// open mechanism. Launches are fire-and-forget; failure is signaled by a
// non-nil error, output is ignored.
type Opener interface {
	Open(ctx context.Context, target string) error
	OpenApp(ctx context.Context, name string) error
}

// Resolver looks up commands by id through the catalog's cached path.
type Resolver interface {
	Find(ctx context.Context, id string) (types.CommandEntry, bool)
}

// Executor resolves command ids and dispatches them.
type Executor struct {
	resolver Resolver
	opener   Opener
	shutdown func()
	log      *logging.Logger
	metrics  *monitoring.Metrics
}

// New creates an executor over a command resolver and opener.
func New(resolver Resolver, opener Opener, log *logging.Logger) *Executor {
	return &Executor{resolver: resolver, opener: opener, log: log}
}

// WithShutdown installs the hook run by the built-in quit command.
func (e *Executor) WithShutdown(fn func()) *Executor {
	e.shutdown = fn
	return e
}

// WithMetrics attaches a metrics collector.
func (e *Executor) WithMetrics(m *monitoring.Metrics) *Executor {
	e.metrics = m
	return e
}

// Execute dispatches the command with the given id. Returns true on the
// first strategy that succeeds, false when the id is unknown or every
// fallback fails.
func (e *Executor) Execute(ctx context.Context, id string) bool {
	entry, found := e.resolver.Find(ctx, id)
	if !found {
		e.log.Warn("unknown command id", zap.String("id", id))
		e.record(types.Category("unknown"), false)
		return false
	}

	ok := e.dispatch(ctx, entry)
	e.record(entry.Category, ok)
	return ok
}

func (e *Executor) dispatch(ctx context.Context, entry types.CommandEntry) bool {
	switch entry.Category {
	case types.CategorySystem:
		return e.runSystem(entry)
	case types.CategoryApplication:
		if entry.Target == "" {
			return false
		}
		if err := e.opener.Open(ctx, entry.Target); err != nil {
			e.log.Warn("application launch failed",
				zap.String("id", entry.ID), zap.Error(err))
			return false
		}
		return true
	case types.CategorySettings:
		return e.openSettings(ctx, entry)
	default:
		return false
	}
}

func (e *Executor) runSystem(entry types.CommandEntry) bool {
	switch entry.ID {
	case catalog.QuitID:
		if e.shutdown != nil {
			e.shutdown()
			return true
		}
		return false
	default:
		return false
	}
}

// openSettings attempts the ordered open strategies for a settings panel.
// The target is tried as a reverse-DNS identifier, then under the modern
// extension scheme, then under the legacy pane scheme, before falling back
// to launching the settings application itself by either of its names.
func (e *Executor) openSettings(ctx context.Context, entry types.CommandEntry) bool {
	target := entry.Target
	strategies := []func(context.Context) error{
		func(ctx context.Context) error {
			if !isReverseDNS(target) {
				return errNotReverseDNS
			}
			return e.opener.Open(ctx, settingsScheme+target)
		},
		func(ctx context.Context) error {
			return e.opener.Open(ctx, settingsScheme+extensionPrefix+target+extensionSuffix)
		},
		func(ctx context.Context) error {
			return e.opener.Open(ctx, settingsScheme+legacyPrefix+strings.ToLower(target))
		},
		func(ctx context.Context) error {
			return e.opener.OpenApp(ctx, settingsAppName)
		},
		func(ctx context.Context) error {
			return e.opener.OpenApp(ctx, legacyAppName)
		},
	}

	for _, attempt := range strategies {
		if err := attempt(ctx); err == nil {
			return true
		}
	}
	e.log.Warn("settings dispatch exhausted",
		zap.String("id", entry.ID), zap.String("target", target))
	return false
}

func (e *Executor) record(cat types.Category, ok bool) {
	if e.metrics != nil {
		e.metrics.RecordExecute(string(cat), ok)
	}
}

// isReverseDNS reports whether target looks like a reverse-DNS bundle
// identifier rather than a bare pane name.
func isReverseDNS(target string) bool {
	return strings.Count(target, ".") >= 2 && !strings.Contains(target, "/")
}
