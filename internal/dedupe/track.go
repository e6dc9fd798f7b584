// Package dedupe decides which releases of a music collection are redundant
// copies of others, using only the acoustic identity of their tracks.
//
// Resolution is a pure batch computation: build a Catalog from fingerprint
// rows, then call Resolve. The returned Result is never modified afterwards.
package dedupe

import (
	"cmp"
	"slices"
	"strings"
)

// TrackKey is the content identity of a track. Two tracks are the same audio
// iff their keys are equal.
type TrackKey struct {
	Duration    string
	Fingerprint string
}

func (k TrackKey) compare(o TrackKey) int {
	if c := strings.Compare(k.Duration, o.Duration); c != 0 {
		return c
	}
	return strings.Compare(k.Fingerprint, o.Fingerprint)
}

// Row is one fingerprinted audio file.
type Row struct {
	Duration    string
	Fingerprint string
	Path        string
}

// Key returns the content identity of the row.
func (r Row) Key() TrackKey {
	return TrackKey{Duration: r.Duration, Fingerprint: r.Fingerprint}
}

// SortRows orders rows by path, then by key. Fingerprint results arrive in
// completion order, so callers sort before anything is written or resolved.
func SortRows(rows []Row) {
	slices.SortFunc(rows, func(a, b Row) int {
		return cmp.Or(
			strings.Compare(a.Path, b.Path),
			a.Key().compare(b.Key()),
		)
	})
}
