package intent

import (
	"os"
	"strings"

	"vellum/internal/platform"
)

// Validator screens candidate paths with the single rule shared by every
// input surface: the token must be non-empty, must not be a flag, and must
// either carry the supported document extension or name an existing file.
// Extension case sensitivity follows the host platform.
type Validator struct {
	ext      string
	caseFold bool
	api      platform.PathAPI
	stat     func(string) (os.FileInfo, error)
}

// NewValidator builds a validator for one document extension, ".pdf" in
// the shipped configuration. A missing leading dot is tolerated.
func NewValidator(api platform.PathAPI, ext string) *Validator {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &Validator{
		ext:      ext,
		caseFold: api.CaseInsensitiveExtensions(),
		api:      api,
		stat:     os.Stat,
	}
}

// Extension returns the configured document extension including the dot.
func (v *Validator) Extension() string {
	return v.ext
}

// HasDocumentExtension reports whether path ends with the supported
// extension under the platform's case rule.
func (v *Validator) HasDocumentExtension(path string) bool {
	if path == "" || v.ext == "" {
		return false
	}
	if v.caseFold {
		return strings.HasSuffix(strings.ToLower(path), strings.ToLower(v.ext))
	}
	return strings.HasSuffix(path, v.ext)
}

// Exists reports whether path names an existing filesystem entry.
func (v *Validator) Exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := v.stat(path)
	return err == nil
}

// Normalize canonicalizes a path using the platform rules.
func (v *Validator) Normalize(path string) string {
	return v.api.NormalizePath(path)
}

// Screen applies the shared acceptance rule and returns the normalized
// path. ok is false for empty tokens, flag tokens, and paths that neither
// match the extension nor exist.
func (v *Validator) Screen(path string) (string, bool) {
	if path == "" || IsFlagToken(path) {
		return "", false
	}
	normalized := v.api.NormalizePath(path)
	if v.HasDocumentExtension(normalized) || v.Exists(normalized) {
		return normalized, true
	}
	return "", false
}

// IsFlagToken reports whether a command-line token is a flag rather than
// a path.
func IsFlagToken(token string) bool {
	return strings.HasPrefix(token, "-")
}
