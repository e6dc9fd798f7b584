package dedupe

// trackIndex maps each key to the releases holding it, in release id order.
type trackIndex map[TrackKey][]string

func buildIndex(c *Catalog) trackIndex {
	ix := make(trackIndex)
	for _, id := range c.ids {
		for _, k := range c.sets[id].keys {
			ix[k] = append(ix[k], id)
		}
	}
	return ix
}

// multiplicity is the number of releases holding k.
func (ix trackIndex) multiplicity(k TrackKey) int {
	return len(ix[k])
}

// uniqueCount counts the keys of set held by no other release.
func (ix trackIndex) uniqueCount(set KeySet) int {
	n := 0
	for _, k := range set.keys {
		if ix.multiplicity(k) == 1 {
			n++
		}
	}
	return n
}

// anchor returns the rarest key of a non-empty set. Ties go to the smallest
// key so the choice does not depend on map order.
func (ix trackIndex) anchor(set KeySet) TrackKey {
	best := set.keys[0]
	bestCount := ix.multiplicity(best)
	for _, k := range set.keys[1:] {
		if n := ix.multiplicity(k); n < bestCount {
			best, bestCount = k, n
		}
	}
	return best
}

// supersets returns every other release whose set contains all of set,
// restricted to the owners of the rarity anchor. A release that is missing
// the anchor cannot be a superset, so nothing is lost by the restriction.
func (ix trackIndex) supersets(c *Catalog, id string, set KeySet) []string {
	var out []string
	for _, other := range ix[ix.anchor(set)] {
		if other == id {
			continue
		}
		candidate := c.sets[other]
		if candidate.Len() < set.Len() {
			continue
		}
		if set.SubsetOf(candidate) {
			out = append(out, other)
		}
	}
	return out
}
