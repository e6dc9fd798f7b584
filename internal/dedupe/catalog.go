package dedupe

import (
	"slices"
)

// ReleaseResolver maps an audio file path to the release that owns it.
// ok is false for files outside every recognized collection root.
type ReleaseResolver interface {
	Resolve(path string) (release string, ok bool)
}

// ResolverFunc adapts a plain function to ReleaseResolver.
type ResolverFunc func(path string) (string, bool)

// Resolve calls f(path).
func (f ResolverFunc) Resolve(path string) (string, bool) {
	return f(path)
}

// Catalog maps every non-empty release to its set of track keys.
// It is built once and never modified.
type Catalog struct {
	ids  []string
	sets map[string]KeySet
}

// BuildCatalog groups rows by owning release in a single pass. Rows whose
// path does not resolve to a release are dropped.
func BuildCatalog(rows []Row, resolver ReleaseResolver) *Catalog {
	grouped := make(map[string][]TrackKey)
	for _, row := range rows {
		rel, ok := resolver.Resolve(row.Path)
		if !ok {
			continue
		}
		grouped[rel] = append(grouped[rel], row.Key())
	}
	return NewCatalog(grouped)
}

// NewCatalog builds a catalog from an explicit release → keys mapping.
// Releases without keys are left out.
func NewCatalog(releases map[string][]TrackKey) *Catalog {
	c := &Catalog{
		ids:  make([]string, 0, len(releases)),
		sets: make(map[string]KeySet, len(releases)),
	}
	for id, keys := range releases {
		set := NewKeySet(keys...)
		if set.Len() == 0 {
			continue
		}
		c.ids = append(c.ids, id)
		c.sets[id] = set
	}
	slices.Sort(c.ids)
	return c
}

// Releases returns release ids in lexicographic order.
func (c *Catalog) Releases() []string {
	return slices.Clone(c.ids)
}

// Len returns the number of releases.
func (c *Catalog) Len() int {
	return len(c.ids)
}

// Keys returns the key set of a release. Unknown releases yield an empty set.
func (c *Catalog) Keys(id string) KeySet {
	return c.sets[id]
}

// Tracks returns the total number of distinct (release, key) pairs.
func (c *Catalog) Tracks() int {
	n := 0
	for _, set := range c.sets {
		n += set.Len()
	}
	return n
}
