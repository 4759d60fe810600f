// Package icon resolves best-effort bundle icons for list display.
//
// Resolution is a chain of strategies evaluated in order, first success
// wins: the manifest-referenced icon resource, conventional icon filenames
// inside the bundle's resources, then the OS generic file-icon resolver.
// Every strategy degrades to "no icon" on failure; callers render a
// category placeholder when extraction yields nothing.
package icon

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"

	"github.com/launchdeck/backend/internal/bundle"
	"github.com/launchdeck/backend/internal/shared/paths"
	"github.com/launchdeck/backend/internal/toolrun"
)

// Size is the raster edge length requested from the converter.
const Size = 64

// minBytes rejects near-empty converter output as a failed conversion.
const minBytes = 128

// iconExt is the conventional icon resource extension.
const iconExt = ".icns"

// conventionalNames are tried inside Resources before falling back to a
// glob for any icon resource.
var conventionalNames = []string{"AppIcon" + iconExt, "app" + iconExt, "icon" + iconExt}

// Resolver asks the OS for a generic file icon when a bundle carries no
// usable icon resource. An empty result means the OS had nothing either.
type Resolver interface {
	FileIcon(ctx context.Context, path string, size int) ([]byte, error)
}

// Extractor resolves an inline base64 PNG for a bundle.
type Extractor struct {
	runner   toolrun.Runner
	reader   *bundle.Reader
	resolver Resolver
}

// NewExtractor creates an icon extractor. resolver may be nil, which
// disables the final OS fallback.
func NewExtractor(runner toolrun.Runner, reader *bundle.Reader, resolver Resolver) *Extractor {
	return &Extractor{runner: runner, reader: reader, resolver: resolver}
}

// Extract returns the bundle's icon as base64 PNG, or "" when every
// strategy fails.
func (e *Extractor) Extract(ctx context.Context, bundlePath string) string {
	strategies := []func(context.Context, string) (string, bool){
		e.fromManifest,
		e.fromResources,
		e.fromResolver,
	}
	for _, strategy := range strategies {
		if icon, ok := strategy(ctx, bundlePath); ok {
			return icon
		}
	}
	return ""
}

// fromManifest resolves the manifest's icon-file reference inside the
// bundle's resource directory, with and without the conventional extension.
func (e *Extractor) fromManifest(ctx context.Context, bundlePath string) (string, bool) {
	manifest := e.reader.Read(ctx, bundlePath)
	name := manifest.String(bundle.KeyIconFile)
	if name == "" {
		name = manifest.String(bundle.KeyIconName)
	}
	if name == "" {
		return "", false
	}

	resources := paths.ResourcesDir(bundlePath)
	for _, candidate := range []string{
		filepath.Join(resources, name),
		filepath.Join(resources, name+iconExt),
	} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return e.convert(ctx, candidate)
		}
	}
	return "", false
}

// fromResources scans the resource directory for conventional icon names,
// then for any icon resource at the top level, then anywhere in the tree.
func (e *Extractor) fromResources(ctx context.Context, bundlePath string) (string, bool) {
	resources := paths.ResourcesDir(bundlePath)
	for _, name := range conventionalNames {
		candidate := filepath.Join(resources, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			if icon, ok := e.convert(ctx, candidate); ok {
				return icon, true
			}
		}
	}

	if matches, err := doublestar.FilepathGlob(filepath.Join(resources, "*"+iconExt)); err == nil && len(matches) > 0 {
		if icon, ok := e.convert(ctx, matches[0]); ok {
			return icon, true
		}
	}

	// Localized bundles sometimes keep icons below .lproj subdirectories.
	if nested := firstNestedIcon(resources); nested != "" {
		return e.convert(ctx, nested)
	}
	return "", false
}

func (e *Extractor) fromResolver(ctx context.Context, bundlePath string) (string, bool) {
	if e.resolver == nil {
		return "", false
	}
	data, err := e.resolver.FileIcon(ctx, bundlePath, Size)
	if err != nil || len(data) == 0 {
		return "", false
	}
	return encode(data)
}

// convert rasterizes an icon resource through the external sips tool into
// a temporary file, reads it back, and encodes it. The temporary file is
// removed on every exit path.
func (e *Extractor) convert(ctx context.Context, src string) (string, bool) {
	tmp, err := os.CreateTemp("", "launchdeck-icon-*.png")
	if err != nil {
		return "", false
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	size := strconv.Itoa(Size)
	if _, err := e.runner.Run(ctx, "sips",
		"-s", "format", "png",
		"-z", size, size,
		src, "--out", tmpPath); err != nil {
		return "", false
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", false
	}
	return encode(data)
}

// encode validates converted bytes and base64-encodes them. Truncated or
// non-image output counts as a failed conversion.
func encode(data []byte) (string, bool) {
	if len(data) < minBytes {
		return "", false
	}
	if !strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		return "", false
	}
	return base64.StdEncoding.EncodeToString(data), true
}

// errFoundIcon stops the walk early once a candidate is found.
var errFoundIcon = errors.New("icon found")

// firstNestedIcon walks the resource tree and returns the first icon
// resource found below the top level, or "".
func firstNestedIcon(resources string) string {
	// fastwalk runs the callback from multiple workers.
	var mu sync.Mutex
	var found string
	conf := fastwalk.Config{Follow: false}
	_ = fastwalk.Walk(&conf, resources, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), iconExt) {
			mu.Lock()
			if found == "" {
				found = path
			}
			mu.Unlock()
			return errFoundIcon
		}
		return nil
	})
	return found
}
