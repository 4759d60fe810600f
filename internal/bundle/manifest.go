// Package bundle reads bundle directories and their manifests.
//
// Manifests are binary or XML plists; they are converted to JSON through
// the external plutil tool and parsed from there. Metadata is always
// optional: any failure along the way degrades to "no metadata" rather
// than propagating an error, so an entry can still exist without it.
package bundle

import (
	"context"
	"os"

	"github.com/bytedance/sonic"

	"github.com/launchdeck/backend/internal/shared/paths"
	"github.com/launchdeck/backend/internal/toolrun"
)

// Manifest keys used by discovery.
const (
	KeyIdentifier  = "CFBundleIdentifier"
	KeyDisplayName = "CFBundleDisplayName"
	KeyName        = "CFBundleName"
	KeyIconFile    = "CFBundleIconFile"
	KeyIconName    = "CFBundleIconName"
)

// Manifest is the parsed key/value form of a bundle's Info.plist.
type Manifest map[string]interface{}

// String returns the string value for key, or "" when absent or not a
// string. Safe on a nil manifest.
func (m Manifest) String(key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// DisplayName returns the bundle's display name, falling back to its
// internal name.
func (m Manifest) DisplayName() string {
	if name := m.String(KeyDisplayName); name != "" {
		return name
	}
	return m.String(KeyName)
}

// Reader resolves bundle manifests through the external plist converter.
type Reader struct {
	runner toolrun.Runner
}

// NewReader creates a manifest reader.
func NewReader(runner toolrun.Runner) *Reader {
	return &Reader{runner: runner}
}

// Read returns the bundle's manifest, or nil when the bundle has none or
// the conversion fails for any reason (missing tool, malformed plist,
// parse error).
func (r *Reader) Read(ctx context.Context, bundlePath string) Manifest {
	manifest := paths.ManifestPath(bundlePath)
	if _, err := os.Stat(manifest); err != nil {
		return nil
	}
	out, err := r.runner.Run(ctx, "plutil", "-convert", "json", "-o", "-", manifest)
	if err != nil {
		return nil
	}
	var m Manifest
	if err := sonic.Unmarshal(out, &m); err != nil {
		return nil
	}
	return m
}
