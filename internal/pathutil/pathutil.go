// Package pathutil maps vault paths to document identities.
package pathutil

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// NoteExt is the extension of indexable notes.
const NoteExt = ".md"

// NormalizePath converts Windows-style separators to the current platform's separator
// and cleans the resulting path.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}

	replaced := strings.ReplaceAll(p, "\\", "/")
	return filepath.Clean(filepath.FromSlash(replaced))
}

// VaultRelative returns the path to target relative to the provided vault directory.
// The returned path always uses forward slashes.
func VaultRelative(vaultDir, target string) (string, error) {
	base := NormalizePath(vaultDir)
	cleanedTarget := NormalizePath(target)

	rel, err := filepath.Rel(base, cleanedTarget)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(rel), nil
}

// DocumentID returns the identity of the note at target: its vault-relative,
// forward-slash path. Paths outside the vault yield "".
func DocumentID(vaultDir, target string) string {
	if !filepath.IsAbs(NormalizePath(target)) {
		target = filepath.Join(NormalizePath(vaultDir), NormalizePath(target))
	}
	rel, err := VaultRelative(vaultDir, target)
	if err != nil || rel == "." || rel == "" || rel == ".." || strings.HasPrefix(rel, "../") {
		return ""
	}
	return rel
}

// DisplayName is the note name shown to users and used in links: the base
// name without the note extension.
func DisplayName(id string) string {
	base := path.Base(filepath.ToSlash(id))
	if strings.EqualFold(path.Ext(base), NoteExt) {
		base = base[:len(base)-len(NoteExt)]
	}
	return base
}

// IsNote reports whether p names a markdown note.
func IsNote(p string) bool {
	return strings.EqualFold(filepath.Ext(p), NoteExt)
}

// Ignored reports whether the vault-relative path rel lies under a hidden or
// ignored folder, or matches one of the doublestar patterns.
func Ignored(rel string, folders, patterns []string) bool {
	rel = strings.Trim(filepath.ToSlash(rel), "/")
	if rel == "" {
		return false
	}

	segments := strings.Split(rel, "/")
	for _, segment := range segments[:len(segments)-1] {
		if strings.HasPrefix(segment, ".") {
			return true
		}
		for _, ignored := range folders {
			if ignored != "" && strings.EqualFold(segment, ignored) {
				return true
			}
		}
	}

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
	}
	return false
}
