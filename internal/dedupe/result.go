package dedupe

import (
	"maps"
	"slices"
)

// Containment records that Subset's tracks are all present in Superset.
type Containment struct {
	Subset   string
	Superset string
}

// UnsafeRelease is a removal candidate vetoed because it holds tracks found
// nowhere else.
type UnsafeRelease struct {
	Release      string
	UniqueTracks int
	TotalTracks  int
}

// Result is the outcome of one resolution run. All accessors return copies.
type Result struct {
	releases      []string
	redundant     map[string]struct{}
	canonical     map[string]struct{}
	duplicateOf   map[string]string
	containedIn   map[string]string
	uniqueCount   map[string]int
	sizes         map[string]int
	unsafe        []UnsafeRelease
	postContained []Containment
}

// Releases returns every resolved release id in lexicographic order.
func (r *Result) Releases() []string {
	return slices.Clone(r.releases)
}

// Redundant returns the releases safe to remove, sorted.
func (r *Result) Redundant() []string {
	return slices.Sorted(maps.Keys(r.redundant))
}

// IsRedundant reports whether id is in the final redundant set.
func (r *Result) IsRedundant(id string) bool {
	_, ok := r.redundant[id]
	return ok
}

// IsCanonical reports whether id was kept as the canonical member of an
// exact duplicate group.
func (r *Result) IsCanonical(id string) bool {
	_, ok := r.canonical[id]
	return ok
}

// DuplicateOf returns the canonical release id is an exact copy of.
func (r *Result) DuplicateOf(id string) (string, bool) {
	c, ok := r.duplicateOf[id]
	return c, ok
}

// ContainedIn returns the superset chosen for id in the subset search.
func (r *Result) ContainedIn(id string) (string, bool) {
	c, ok := r.containedIn[id]
	return c, ok
}

// DuplicateMap returns a copy of the release → canonical mapping.
func (r *Result) DuplicateMap() map[string]string {
	return maps.Clone(r.duplicateOf)
}

// ContainmentMap returns a copy of the release → superset mapping.
func (r *Result) ContainmentMap() map[string]string {
	return maps.Clone(r.containedIn)
}

// UniqueCount returns how many of id's tracks exist in no other release.
func (r *Result) UniqueCount(id string) int {
	return r.uniqueCount[id]
}

// Size returns the number of distinct tracks in id.
func (r *Result) Size(id string) int {
	return r.sizes[id]
}

// Unsafe returns vetoed candidates sorted by release id.
func (r *Result) Unsafe() []UnsafeRelease {
	return slices.Clone(r.unsafe)
}

// PostContained returns subset relationships left among surviving releases.
func (r *Result) PostContained() []Containment {
	return slices.Clone(r.postContained)
}

// Duplicates returns redundant releases removed as exact duplicates, sorted.
func (r *Result) Duplicates() []string {
	var out []string
	for _, id := range r.Redundant() {
		if _, ok := r.duplicateOf[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Contained returns redundant releases removed as subsets, sorted.
func (r *Result) Contained() []string {
	var out []string
	for _, id := range r.Redundant() {
		if _, ok := r.duplicateOf[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
