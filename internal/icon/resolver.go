package icon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/launchdeck/backend/internal/toolrun"
)

// QuickLookResolver renders a generic file icon through the external
// qlmanage tool. It is the last resort in the extraction chain for bundles
// that carry no usable icon resource of their own.
type QuickLookResolver struct {
	runner toolrun.Runner
}

// NewQuickLookResolver creates the default OS icon resolver.
func NewQuickLookResolver(runner toolrun.Runner) *QuickLookResolver {
	return &QuickLookResolver{runner: runner}
}

// FileIcon renders a thumbnail for path into a scratch directory and
// returns its bytes. The scratch directory is removed on every exit path.
func (q *QuickLookResolver) FileIcon(ctx context.Context, path string, size int) ([]byte, error) {
	dir, err := os.MkdirTemp("", "launchdeck-ql-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	if _, err := q.runner.Run(ctx, "qlmanage", "-t", "-s", strconv.Itoa(size), "-o", dir, path); err != nil {
		return nil, err
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(dir, "*.png"))
	if err != nil || len(matches) == 0 {
		return nil, errors.New("no thumbnail produced")
	}
	return os.ReadFile(matches[0])
}
