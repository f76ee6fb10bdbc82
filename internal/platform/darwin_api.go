//go:build darwin

package platform

import "path/filepath"

// DarwinAPI implements PathAPI for macOS platform
type DarwinAPI struct{}

// NewDarwinAPI creates a new macOS API instance
func NewDarwinAPI() *DarwinAPI {
	return &DarwinAPI{}
}

// NewPathAPI creates a new PathAPI instance for macOS
func NewPathAPI() PathAPI {
	return NewDarwinAPI()
}

// SupportsOpenEvents reports that macOS delivers open-document Apple Events
// to the running process (Finder double-click, dock drop).
func (d *DarwinAPI) SupportsOpenEvents() bool {
	return true
}

// CaseInsensitiveExtensions reports case-insensitive matching; APFS and
// HFS+ volumes are case-insensitive by default.
func (d *DarwinAPI) CaseInsensitiveExtensions() bool {
	return true
}

// NormalizePath canonicalizes a Finder-provided path
func (d *DarwinAPI) NormalizePath(path string) string {
	if path == "" {
		return path
	}
	return filepath.Clean(path)
}
