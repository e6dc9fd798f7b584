package library

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultExts are the audio extensions scanned unless told otherwise.
var DefaultExts = []string{
	".aac", ".aif", ".aiff", ".alac", ".flac", ".m4a", ".mp3", ".ogg", ".opus", ".wav", ".wma",
}

// File is a discovered audio file.
type File struct {
	Path  string
	Size  int64
	MTime int64 // unix seconds
}

// ExtSet is a set of lower-case extensions with a leading dot.
type ExtSet map[string]struct{}

// NewExtSet normalises exts ("FLAC", "flac", ".flac" are the same) into a set.
func NewExtSet(exts ...string) ExtSet {
	s := make(ExtSet, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		s[e] = struct{}{}
	}
	return s
}

// MergeExts returns DefaultExts plus the user supplied extensions.
func MergeExts(user []string) ExtSet {
	return NewExtSet(append(slices.Clone(DefaultExts), user...)...)
}

// Has reports whether path has one of the extensions.
func (s ExtSet) Has(path string) bool {
	_, ok := s[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Sorted returns the extensions in lexicographic order.
func (s ExtSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}

// Discover walks roots and returns the audio files found, sorted by path.
// Missing roots and unreadable entries are skipped.
func Discover(roots []string, exts ExtSet) ([]File, error) {
	var files []File
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			continue
		}
		_ = filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
			// Skip any walk errors - intentionally continuing to scan other paths
			if walkErr != nil {
				return nil //nolint:nilerr // intentionally skipping errors
			}
			if !d.Type().IsRegular() || !exts.Has(path) {
				return nil
			}

			info, infoErr := d.Info()
			if infoErr != nil {
				return nil //nolint:nilerr // intentionally skipping errors
			}

			files = append(files, File{
				Path:  path,
				Size:  info.Size(),
				MTime: info.ModTime().Unix(),
			})
			return nil
		})
	}

	if len(files) == 0 {
		return nil, ErrNoAudioFiles
	}

	slices.SortFunc(files, func(a, b File) int { return strings.Compare(a.Path, b.Path) })
	files = slices.CompactFunc(files, func(a, b File) bool { return a.Path == b.Path })
	return files, nil
}

// underRoot reports whether path lies inside one of roots.
func underRoot(path string, roots []string) bool {
	for _, root := range roots {
		root = filepath.Clean(root)
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// absPath returns the absolute form of p, or p cleaned if that fails.
func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
