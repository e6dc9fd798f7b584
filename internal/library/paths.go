package library

import (
	"path/filepath"
	"strings"
)

// DefaultCollections are the top-level folder names that hold releases, in
// priority order.
var DefaultCollections = []string{"Albums", "Singles"}

// ReleaseResolver maps audio files to release folders. A release is the
// first folder under a collection root, e.g.
//
//	Albums/Clams Casino - Moon Trip Radio - 2019/CD1/01.flac
//	→ Albums/Clams Casino - Moon Trip Radio - 2019
type ReleaseResolver struct {
	// Collections are matched case-insensitively against path segments. When
	// a path contains several, the earliest in this list wins.
	Collections []string
}

// Resolve returns the release folder owning path. Files outside every
// collection, or lying directly in a collection root, have none.
func (r ReleaseResolver) Resolve(path string) (string, bool) {
	collections := r.Collections
	if len(collections) == 0 {
		collections = DefaultCollections
	}

	parts := strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
	for _, c := range collections {
		c = strings.ToLower(c)
		for i, part := range parts {
			if strings.ToLower(part) != c {
				continue
			}
			// parts[i+1] must be a folder, not the file itself.
			if i+2 >= len(parts) {
				return "", false
			}
			return filepath.FromSlash(strings.Join(parts[:i+2], "/")), true
		}
	}
	return "", false
}
