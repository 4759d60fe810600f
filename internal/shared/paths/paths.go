// Package paths provides the standardized filesystem locations scanned for
// bundles. Keeping them in one place makes the discovery surface auditable.
package paths

import (
	"os"
	"path/filepath"
)

// Bundle suffixes.
const (
	AppSuffix      = ".app"
	ExtSuffix      = ".appex"
	PrefPaneSuffix = ".prefPane"
)

// System-level locations.
const (
	SystemApps      = "/System/Applications"
	SystemUtilities = "/System/Applications/Utilities"
	LocalApps       = "/Applications"

	SettingsExtensions = "/System/Library/ExtensionKit/Extensions"

	SystemPrefPanes = "/System/Library/PreferencePanes"
	LocalPrefPanes  = "/Library/PreferencePanes"
)

// Settings application bundles, modern name first. The first that exists is
// used as the shared fallback icon source for settings panels.
var SettingsApps = []string{
	"/System/Applications/System Settings.app",
	"/Applications/System Preferences.app",
}

// ApplicationDirs returns the ordered application scan roots: system-wide,
// system utilities, local, then user-level.
func ApplicationDirs() []string {
	dirs := []string{SystemApps, SystemUtilities, LocalApps}
	if home := homeDir(); home != "" {
		dirs = append(dirs, filepath.Join(home, "Applications"))
	}
	return dirs
}

// PrefPaneDirs returns the ordered legacy preference pane roots.
func PrefPaneDirs() []string {
	dirs := []string{SystemPrefPanes, LocalPrefPanes}
	if home := homeDir(); home != "" {
		dirs = append(dirs, filepath.Join(home, "Library", "PreferencePanes"))
	}
	return dirs
}

// ManifestPath returns the manifest location inside a bundle. Application
// bundles keep it under Contents/, extension bundles may keep it at the root.
func ManifestPath(bundle string) string {
	p := filepath.Join(bundle, "Contents", "Info.plist")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return filepath.Join(bundle, "Info.plist")
}

// ResourcesDir returns the bundle's resource subdirectory.
func ResourcesDir(bundle string) string {
	return filepath.Join(bundle, "Contents", "Resources")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
