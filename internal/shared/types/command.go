package types

import "strings"

// Category classifies a command entry by how it is dispatched.
type Category string

const (
	CategoryApplication Category = "application"
	CategorySettings    Category = "settings-panel"
	CategorySystem      Category = "system"
	CategoryExtension   Category = "extension"
)

// CommandEntry is one launchable item in the catalog.
//
// Entries are constructed fresh on every discovery run and never mutated
// in place. Icon is an inline base64-encoded PNG, empty when no icon could
// be resolved; callers render a category placeholder in that case. Target
// is a filesystem path for applications, a reverse-DNS bundle identifier
// for settings panels, and empty for system commands.
type CommandEntry struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Keywords []string `json:"keywords,omitempty"`
	Icon     string   `json:"icon,omitempty"`
	Category Category `json:"category"`
	Target   string   `json:"target,omitempty"`
}

// Key returns the lowercase title used as the dedup key within one
// discovery source tier.
func (e CommandEntry) Key() string {
	return strings.ToLower(e.Title)
}

// EntryID derives the stable command id from category and normalized key.
// The derivation is a pure function so ids are idempotent across rebuilds.
func EntryID(cat Category, key string) string {
	return string(cat) + ":" + strings.ToLower(key)
}
