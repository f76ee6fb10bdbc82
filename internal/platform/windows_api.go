//go:build windows

package platform

import (
	"path/filepath"

	"golang.org/x/sys/windows"
)

// WindowsAPI implements PathAPI for Windows platform
type WindowsAPI struct{}

// NewWindowsAPI creates a new Windows API instance
func NewWindowsAPI() *WindowsAPI {
	return &WindowsAPI{}
}

// NewPathAPI creates a new PathAPI instance for Windows
func NewPathAPI() PathAPI {
	return NewWindowsAPI()
}

// SupportsOpenEvents reports that Windows has no open-document event
// channel; Explorer starts a fresh process and the single-instance lock
// relays its arguments instead.
func (w *WindowsAPI) SupportsOpenEvents() bool {
	return false
}

// CaseInsensitiveExtensions reports case-insensitive matching; NTFS paths
// compare case-insensitively.
func (w *WindowsAPI) CaseInsensitiveExtensions() bool {
	return true
}

// NormalizePath canonicalizes an Explorer-provided path. Shell association
// launches can hand the process an 8.3 short name (REPORT~1.PDF); expand it
// so validation and display see the long spelling.
func (w *WindowsAPI) NormalizePath(path string) string {
	if path == "" {
		return path
	}
	if expanded, ok := expandLongPath(path); ok {
		return filepath.Clean(expanded)
	}
	return filepath.Clean(path)
}

// expandLongPath resolves 8.3 short names via GetLongPathNameW. It fails
// for paths that do not exist; callers fall back to the original spelling.
func expandLongPath(path string) (string, bool) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return "", false
	}

	buf := make([]uint16, windows.MAX_PATH)
	n, err := windows.GetLongPathName(p, &buf[0], uint32(len(buf)))
	if err != nil {
		return "", false
	}

	// A return larger than the buffer is the required size
	if n > uint32(len(buf)) {
		buf = make([]uint16, n)
		n, err = windows.GetLongPathName(p, &buf[0], uint32(len(buf)))
		if err != nil {
			return "", false
		}
	}

	if n == 0 {
		return "", false
	}
	return windows.UTF16ToString(buf[:n]), true
}
