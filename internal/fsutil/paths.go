// Package fsutil provides file system utility functions.
package fsutil

import (
	"path/filepath"
)

// ResolveInclude resolves an includeConfig reference against the fragment
// that contains it. Relative references are interpreted relative to the
// including fragment's directory, matching the textual-inlining contract.
func ResolveInclude(includingFile string, ref string) string {
	if filepath.IsAbs(ref) {
		return filepath.Clean(ref)
	}
	return filepath.Join(filepath.Dir(includingFile), ref)
}

// Canonical returns the cleaned absolute form of path. It is used as the
// identity of a fragment for include-cycle detection, so two spellings of
// the same file compare equal.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	// The file may not exist yet at this point; fall back to the lexical form.
	return filepath.Clean(abs), nil
}
