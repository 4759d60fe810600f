// Package types provides shared data structures for the LaunchDeck backend.
//
// This package defines the core types used across discovery, caching, and
// execution, ensuring consistent data structures between components.
//
// Core Types:
//   - CommandEntry: One launchable item in the catalog
//   - Category: Entry classification (application, settings-panel, system, extension)
//
// Request Types:
//   - ExecuteRequest, ExecuteResponse: Command dispatch
//   - CatalogStats: Snapshot statistics
//
// Example Usage:
//
//	entry := types.CommandEntry{
//	    ID:       types.EntryID(types.CategoryApplication, "Safari"),
//	    Title:    "Safari",
//	    Category: types.CategoryApplication,
//	    Target:   "/Applications/Safari.app",
//	}
package types
