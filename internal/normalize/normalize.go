// Package normalize turns machine-style bundle identifiers into human
// display titles.
//
// The transform is an ordered rule table: suffix stripping, word-boundary
// spacing, conjunction replacement, then an exact-match rename table. Rule
// order is part of the contract; the rename table in particular applies
// only to the fully transformed result.
package normalize

import (
	"regexp"
	"strings"
)

// Suffix tokens stripped from identifiers, most specific first. Order
// matters: "SettingsExtension" must be tried before "Settings" or
// "Extension" would each match half of it.
var suffixes = []string{
	"SettingsExtension",
	"PreferenceExtension",
	"SettingsIntents",
	"Preferences",
	"Settings",
	"Extension",
	"PrefPane",
	"Pref",
	"Pane",
}

var (
	// "HTMLParser" -> "HTML Parser": split an acronym run from a following
	// capitalized word before splitting lower->upper boundaries.
	acronymRun = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	lowerUpper = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	andWord    = regexp.MustCompile(`\bAnd\b`)
)

// renames maps fully transformed titles to the names users actually know.
// Exact match only; legacy pane bundles predate several UI renames.
var renames = map[string]string{
	"Expose":                 "Mission Control",
	"Desktop Screen Effects": "Desktop & Screen Saver",
	"Universal Access":       "Accessibility",
	"Print & Fax":            "Printers & Scanners",
	"Digi Hub Discs":         "CDs & DVDs",
	"Localization":           "Language & Region",
}

// Title maps a raw machine-style identifier to a display title.
// Deterministic: identical input always yields identical output, no
// external state is consulted.
func Title(raw string) string {
	name := StripSuffixes(raw)
	name = acronymRun.ReplaceAllString(name, "$1 $2")
	name = lowerUpper.ReplaceAllString(name, "$1 $2")
	name = andWord.ReplaceAllString(name, "&")
	name = strings.TrimSpace(name)
	if renamed, ok := renames[name]; ok {
		return renamed
	}
	return name
}

// StripSuffixes removes known suffix tokens until none remain. A token is
// only stripped when something is left over, so an identifier that is
// nothing but a suffix survives unchanged.
func StripSuffixes(s string) string {
	for {
		stripped := false
		for _, suffix := range suffixes {
			if strings.HasSuffix(s, suffix) && len(s) > len(suffix) {
				s = strings.TrimSuffix(s, suffix)
				stripped = true
				break
			}
		}
		if !stripped {
			return s
		}
	}
}

// HasSuffixToken reports whether s still carries a known suffix token.
func HasSuffixToken(s string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) && len(s) > len(suffix) {
			return true
		}
	}
	return false
}
