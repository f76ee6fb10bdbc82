package intent

import (
	"path/filepath"
	"strings"
)

// ScanArgs extracts at most one launch candidate from the process argument
// vector. args[0] is the program path and is skipped, as are leading flag
// tokens. Only the first remaining token is examined; if it fails the
// screen no later token is considered. Launching with no file argument is
// the ordinary case, so absence of a candidate is not an error.
func ScanArgs(args []string, v *Validator) (Candidate, bool) {
	if len(args) < 2 {
		return Candidate{}, false
	}
	for _, token := range args[1:] {
		if IsFlagToken(token) {
			continue
		}
		path, ok := v.Screen(token)
		if !ok {
			return Candidate{}, false
		}
		return NewCandidate(path, SourceLaunchArgument), true
	}
	return Candidate{}, false
}

// ScanRelaunchArgs extracts a candidate from the argument vector relayed
// by a second instance of the application. The relay may or may not
// include the executable path, so every token is considered and matching
// is extension-only: an existence fallback would happily accept the
// executable itself. Relative paths resolve against the second instance's
// working directory.
func ScanRelaunchArgs(args []string, workingDir string, v *Validator) (Candidate, bool) {
	for _, raw := range args {
		// Shell associations on Windows can relay quoted tokens.
		token := strings.TrimSpace(strings.Trim(raw, `"`))
		if token == "" || IsFlagToken(token) {
			continue
		}
		if !v.HasDocumentExtension(token) {
			continue
		}
		if workingDir != "" && !filepath.IsAbs(token) {
			token = filepath.Join(workingDir, token)
		}
		return NewCandidate(v.Normalize(token), SourceNativeBridge), true
	}
	return Candidate{}, false
}
