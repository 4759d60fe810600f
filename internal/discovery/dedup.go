package discovery

import (
	"strings"
	"sync"
)

// Dedup is a set of normalized keys scoped to one discovery run. Each run
// gets its own instance and discards it afterwards; applications and
// settings panels may share a display name without colliding.
//
// First-seen wins. Batch workers claim keys concurrently, so the set is
// guarded by a mutex.
type Dedup struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewDedup creates an empty dedup set.
func NewDedup() *Dedup {
	return &Dedup{seen: make(map[string]struct{})}
}

// Claim records key and reports whether the caller saw it first. Keys are
// case-insensitive.
func (d *Dedup) Claim(key string) bool {
	k := strings.ToLower(key)
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, dup := d.seen[k]; dup {
		return false
	}
	d.seen[k] = struct{}{}
	return true
}
