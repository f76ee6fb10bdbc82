package platform

// PathAPI defines the interface for platform-specific path handling and
// document-open capabilities
type PathAPI interface {
	// SupportsOpenEvents reports whether the OS can deliver a document-open
	// event to an already running process (Finder open, dock drop).
	SupportsOpenEvents() bool
	// CaseInsensitiveExtensions reports whether file extensions on this
	// platform compare case-insensitively.
	CaseInsensitiveExtensions() bool
	// NormalizePath canonicalizes an OS-provided path so that validation
	// and display always see the same spelling.
	NormalizePath(path string) string
}
