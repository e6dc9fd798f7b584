package dedupe

import (
	"slices"
	"strings"
)

// KeySet is an immutable, sorted set of track keys.
type KeySet struct {
	keys []TrackKey
}

// NewKeySet builds a set from keys. Repeated keys collapse to one entry.
func NewKeySet(keys ...TrackKey) KeySet {
	sorted := slices.Clone(keys)
	slices.SortFunc(sorted, TrackKey.compare)
	sorted = slices.CompactFunc(sorted, func(a, b TrackKey) bool { return a == b })
	return KeySet{keys: sorted}
}

// Len returns the number of distinct keys.
func (s KeySet) Len() int {
	return len(s.keys)
}

// Keys returns the keys in sorted order.
func (s KeySet) Keys() []TrackKey {
	return slices.Clone(s.keys)
}

// Contains reports whether k is in the set.
func (s KeySet) Contains(k TrackKey) bool {
	_, found := slices.BinarySearchFunc(s.keys, k, TrackKey.compare)
	return found
}

// Equal reports whether both sets hold exactly the same keys.
func (s KeySet) Equal(o KeySet) bool {
	return slices.Equal(s.keys, o.keys)
}

// SubsetOf reports whether every key of s is also in o.
func (s KeySet) SubsetOf(o KeySet) bool {
	if len(s.keys) > len(o.keys) {
		return false
	}
	j := 0
	for _, k := range s.keys {
		for j < len(o.keys) && o.keys[j].compare(k) < 0 {
			j++
		}
		if j == len(o.keys) || o.keys[j] != k {
			return false
		}
		j++
	}
	return true
}

// signature is a canonical encoding of the set, usable as a map key for
// grouping structurally equal sets.
func (s KeySet) signature() string {
	var b strings.Builder
	for _, k := range s.keys {
		b.WriteString(k.Duration)
		b.WriteByte(0x1f)
		b.WriteString(k.Fingerprint)
		b.WriteByte(0x1e)
	}
	return b.String()
}
