//go:build linux

package platform

import "path/filepath"

// LinuxAPI implements PathAPI for Linux platform
type LinuxAPI struct{}

// NewLinuxAPI creates a new Linux API instance
func NewLinuxAPI() *LinuxAPI {
	return &LinuxAPI{}
}

// NewPathAPI creates a new PathAPI instance for Linux
func NewPathAPI() PathAPI {
	return NewLinuxAPI()
}

// SupportsOpenEvents reports that Linux desktops have no open-document
// event channel; association launches start a fresh process instead.
func (l *LinuxAPI) SupportsOpenEvents() bool {
	return false
}

// CaseInsensitiveExtensions reports case-sensitive matching; ext4 and
// friends treat Report.PDF and report.pdf as distinct files.
func (l *LinuxAPI) CaseInsensitiveExtensions() bool {
	return false
}

// NormalizePath canonicalizes a desktop-provided path
func (l *LinuxAPI) NormalizePath(path string) string {
	if path == "" {
		return path
	}
	return filepath.Clean(path)
}
