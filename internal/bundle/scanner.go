package bundle

import (
	"os"
	"path/filepath"
	"strings"
)

// Scan returns the immediate children of dirs whose name ends in suffix.
// Missing directories, permission errors, and unreadable entries are
// skipped; scanning never aborts because one location is absent. Output
// order follows dir-list order then readdir order; sorting happens later
// in the catalog.
func Scan(dirs []string, suffix string) []string {
	var out []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if strings.HasSuffix(entry.Name(), suffix) {
				out = append(out, filepath.Join(dir, entry.Name()))
			}
		}
	}
	return out
}
