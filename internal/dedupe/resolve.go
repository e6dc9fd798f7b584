package dedupe

import (
	"slices"
)

// Resolve decides which releases of c are redundant.
//
// Exact duplicates keep one canonical release per group. A remaining release
// whose tracks all appear in one other release is a subset candidate. Any
// candidate holding a track that exists nowhere else is vetoed. Subset
// resolution is a single pass: chains that the veto leaves unresolved are
// reported by the post-check, never fed back.
func Resolve(c *Catalog) *Result {
	ix := buildIndex(c)

	res := &Result{
		releases:    c.Releases(),
		canonical:   make(map[string]struct{}),
		duplicateOf: make(map[string]string),
		uniqueCount: make(map[string]int, c.Len()),
		sizes:       make(map[string]int, c.Len()),
	}
	for _, id := range c.ids {
		set := c.sets[id]
		res.sizes[id] = set.Len()
		res.uniqueCount[id] = ix.uniqueCount(set)
	}

	for _, group := range exactDuplicateGroups(c) {
		canon := slices.MinFunc(group, compareCanon)
		res.canonical[canon] = struct{}{}
		for _, id := range group {
			if id != canon {
				res.duplicateOf[id] = canon
			}
		}
	}

	res.containedIn = findContainment(c, ix, res)

	candidates := make(map[string]struct{}, len(res.duplicateOf)+len(res.containedIn))
	for id := range res.duplicateOf {
		candidates[id] = struct{}{}
	}
	for id := range res.containedIn {
		if !res.IsCanonical(id) {
			candidates[id] = struct{}{}
		}
	}

	res.redundant, res.unsafe = vetoUnsafe(c.ids, candidates, res.uniqueCount, res.sizes)

	res.postContained = postCheck(c, ix, res.redundant)
	return res
}

// exactDuplicateGroups partitions releases by structural equality of their
// key sets and returns the partitions with more than one member. Members
// are in id order.
func exactDuplicateGroups(c *Catalog) [][]string {
	bySignature := make(map[string][]string)
	var order []string
	for _, id := range c.ids {
		sig := c.sets[id].signature()
		if _, seen := bySignature[sig]; !seen {
			order = append(order, sig)
		}
		bySignature[sig] = append(bySignature[sig], id)
	}

	var groups [][]string
	for _, sig := range order {
		if members := bySignature[sig]; len(members) > 1 {
			groups = append(groups, members)
		}
	}
	return groups
}

// findContainment picks, for every release that is not an exact duplicate,
// the best single release containing all of its tracks. A canonical release
// may point at a member of its own duplicate group; it is still never
// removed.
func findContainment(c *Catalog, ix trackIndex, res *Result) map[string]string {
	containedIn := make(map[string]string)
	byContainer := compareContainer(res.sizes)
	for _, id := range c.ids {
		if _, dup := res.duplicateOf[id]; dup {
			continue
		}
		candidates := ix.supersets(c, id, c.sets[id])
		if len(candidates) == 0 {
			continue
		}
		containedIn[id] = slices.MinFunc(candidates, byContainer)
	}
	return containedIn
}

// postCheck lists every (subset, superset) pair of surviving releases where
// the subset is strictly contained in the superset.
func postCheck(c *Catalog, ix trackIndex, redundant map[string]struct{}) []Containment {
	var pairs []Containment
	for _, a := range c.ids {
		if _, gone := redundant[a]; gone {
			continue
		}
		set := c.sets[a]
		for _, b := range ix.supersets(c, a, set) {
			if _, gone := redundant[b]; gone {
				continue
			}
			if c.sets[b].Equal(set) {
				continue
			}
			pairs = append(pairs, Containment{Subset: a, Superset: b})
		}
	}
	return pairs
}
