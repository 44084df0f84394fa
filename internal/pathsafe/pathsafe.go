package pathsafe

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MaxUIDLength is the DICOM limit on unique identifier length.
const MaxUIDLength = 64

// ValidUID reports whether s is a well-formed DICOM unique identifier for the
// purposes of this gateway: non-empty, at most 64 characters, digits and dots
// only. The character set excludes path separators, so a valid UID can never
// traverse outside a directory it is joined onto.
func ValidUID(s string) bool {
	if len(s) == 0 || len(s) > MaxUIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && c != '.' {
			return false
		}
	}
	return true
}

// ValidUIDs reports whether every given identifier passes ValidUID.
func ValidUIDs(ids ...string) bool {
	for _, id := range ids {
		if !ValidUID(id) {
			return false
		}
	}
	return true
}

// Resolve joins segments onto root and canonicalizes the result. It succeeds
// only when the canonical path is root itself or a descendant of root plus a
// separator. Identifier validation happens before any path is built; this is
// the second, independent check.
func Resolve(root string, segments ...string) (string, error) {
	cleanRoot, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return "", fmt.Errorf("canonicalize root %q: %w", root, err)
	}

	joined := filepath.Join(append([]string{cleanRoot}, segments...)...)
	resolved, err := filepath.Abs(filepath.Clean(joined))
	if err != nil {
		return "", fmt.Errorf("canonicalize path %q: %w", joined, err)
	}

	if resolved != cleanRoot && !strings.HasPrefix(resolved, cleanRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes storage root", resolved)
	}
	return resolved, nil
}
