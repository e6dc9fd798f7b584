package dedupe

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	k1 = TrackKey{Duration: "180", Fingerprint: "fp1"}
	k2 = TrackKey{Duration: "200", Fingerprint: "fp2"}
	k3 = TrackKey{Duration: "210", Fingerprint: "fp3"}
	k4 = TrackKey{Duration: "240", Fingerprint: "fp4"}
	k9 = TrackKey{Duration: "220", Fingerprint: "fp9"}
)

func TestResolve_ExactDuplicatePrefersAlbumsDeluxe(t *testing.T) {
	a := "Singles/Sampler"
	b := "Albums/Artist - Record/Deluxe Edition"
	c := NewCatalog(map[string][]TrackKey{
		a: {k1, k2},
		b: {k1, k2},
	})

	res := Resolve(c)

	canon, ok := res.DuplicateOf(a)
	require.True(t, ok)
	assert.Equal(t, b, canon)
	assert.True(t, res.IsCanonical(b))
	assert.Equal(t, []string{a}, res.Redundant())
	assert.Equal(t, []string{a}, res.Duplicates())
	assert.Empty(t, res.Contained())
	assert.Empty(t, res.Unsafe())
}

func TestResolve_CanonTieBreak(t *testing.T) {
	tests := []struct {
		name    string
		members []string
		want    string
	}{
		{
			name:    "shorter id wins on equal score",
			members: []string{"Singles/Record (Remaster)", "Singles/Record"},
			want:    "Singles/Record",
		},
		{
			name:    "lexicographic on equal score and length",
			members: []string{"Singles/B", "Singles/A"},
			want:    "Singles/A",
		},
		{
			name:    "albums root beats longer deluxe single",
			members: []string{"Singles/Record Deluxe Edition", "Albums/Record"},
			want:    "Albums/Record",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			releases := map[string][]TrackKey{}
			for _, m := range tt.members {
				releases[m] = []TrackKey{k1, k2}
			}
			res := Resolve(NewCatalog(releases))

			assert.True(t, res.IsCanonical(tt.want))
			assert.False(t, res.IsRedundant(tt.want))
			for _, m := range tt.members {
				if m == tt.want {
					continue
				}
				canon, ok := res.DuplicateOf(m)
				require.True(t, ok, m)
				assert.Equal(t, tt.want, canon)
			}
		})
	}
}

func TestResolve_SubsetContained(t *testing.T) {
	c := NewCatalog(map[string][]TrackKey{
		"Singles/C": {k1, k2},
		"Albums/D":  {k1, k2, k3},
	})

	res := Resolve(c)

	sup, ok := res.ContainedIn("Singles/C")
	require.True(t, ok)
	assert.Equal(t, "Albums/D", sup)
	assert.Equal(t, []string{"Singles/C"}, res.Redundant())
	assert.Equal(t, []string{"Singles/C"}, res.Contained())
	assert.Equal(t, 1, res.UniqueCount("Albums/D"))
	assert.Equal(t, 0, res.UniqueCount("Singles/C"))
	assert.Equal(t, 3, res.Size("Albums/D"))
	assert.Empty(t, res.PostContained())
}

func TestResolve_SubsetPicksSmallestContainer(t *testing.T) {
	c := NewCatalog(map[string][]TrackKey{
		"Singles/S":     {k1},
		"Albums/Big":    {k1, k2, k3},
		"Singles/Small": {k1, k2},
	})

	res := Resolve(c)

	sup, ok := res.ContainedIn("Singles/S")
	require.True(t, ok)
	assert.Equal(t, "Singles/Small", sup)
}

func TestResolve_SubsetContainerTieBreakByScore(t *testing.T) {
	c := NewCatalog(map[string][]TrackKey{
		"Singles/S":        {k1},
		"Singles/Z":        {k1, k2},
		"Albums/Z":         {k1, k3},
		"Singles/Y Deluxe": {k1, k4},
	})

	res := Resolve(c)

	sup, ok := res.ContainedIn("Singles/S")
	require.True(t, ok)
	assert.Equal(t, "Albums/Z", sup)
}

func TestResolve_UniqueTrackIsNeverRedundant(t *testing.T) {
	c := NewCatalog(map[string][]TrackKey{
		"Singles/E": {k1, k9},
		"Albums/F":  {k1, k2},
	})

	res := Resolve(c)

	assert.False(t, res.IsRedundant("Singles/E"))
	assert.Equal(t, 1, res.UniqueCount("Singles/E"))
	_, ok := res.ContainedIn("Singles/E")
	assert.False(t, ok)
}

func TestVetoUnsafe(t *testing.T) {
	ids := []string{"Albums/F", "Singles/E", "Singles/G"}
	candidates := map[string]struct{}{
		"Singles/E": {},
		"Singles/G": {},
	}
	unique := map[string]int{"Singles/E": 1, "Singles/G": 0, "Albums/F": 3}
	sizes := map[string]int{"Singles/E": 2, "Singles/G": 1, "Albums/F": 5}

	redundant, unsafe := vetoUnsafe(ids, candidates, unique, sizes)

	assert.Equal(t, map[string]struct{}{"Singles/G": {}}, redundant)
	assert.Equal(t, []UnsafeRelease{{Release: "Singles/E", UniqueTracks: 1, TotalTracks: 2}}, unsafe)
}

func TestResolve_CanonIsNeverAVictim(t *testing.T) {
	// The canon of {k1,k2} is also strictly contained in Albums/Full, yet it
	// must survive because its duplicate is the one being removed.
	c := NewCatalog(map[string][]TrackKey{
		"Albums/Record":  {k1, k2},
		"Singles/Record": {k1, k2},
		"Albums/Full":    {k1, k2, k3},
	})

	res := Resolve(c)

	assert.True(t, res.IsCanonical("Albums/Record"))
	assert.False(t, res.IsRedundant("Albums/Record"))
	_, isDup := res.DuplicateOf("Albums/Record")
	assert.False(t, isDup)
	// The smallest container is its own duplicate.
	sup, ok := res.ContainedIn("Albums/Record")
	require.True(t, ok)
	assert.Equal(t, "Singles/Record", sup)
	assert.Equal(t, []string{"Singles/Record"}, res.Redundant())
}

func TestResolve_CanonRecordsItsDuplicateAsContainer(t *testing.T) {
	c := NewCatalog(map[string][]TrackKey{
		"Albums/Record":  {k1, k2},
		"Singles/Record": {k1, k2},
	})

	res := Resolve(c)

	sup, ok := res.ContainedIn("Albums/Record")
	require.True(t, ok)
	assert.Equal(t, "Singles/Record", sup)
	_, ok = res.ContainedIn("Singles/Record")
	assert.False(t, ok)

	assert.Equal(t, []string{"Singles/Record"}, res.Redundant())
	assert.False(t, res.IsRedundant("Albums/Record"))
	assert.Equal(t, []string{"Singles/Record"}, res.Duplicates())
	assert.Empty(t, res.Contained())
}

func TestResolve_PostCheckReportsSurvivingSubset(t *testing.T) {
	c := NewCatalog(map[string][]TrackKey{
		"Albums/Record":  {k1, k2},
		"Singles/Record": {k1, k2},
		"Albums/Full":    {k1, k2, k3},
	})

	res := Resolve(c)

	assert.Equal(t, []Containment{{Subset: "Albums/Record", Superset: "Albums/Full"}}, res.PostContained())
}

func TestPostCheck_AllPairs(t *testing.T) {
	c := NewCatalog(map[string][]TrackKey{
		"A": {k1},
		"B": {k1, k2},
		"C": {k1, k2, k3},
		"D": {k4},
	})
	ix := buildIndex(c)

	pairs := postCheck(c, ix, map[string]struct{}{})

	assert.Equal(t, []Containment{
		{Subset: "A", Superset: "B"},
		{Subset: "A", Superset: "C"},
		{Subset: "B", Superset: "C"},
	}, pairs)

	pairs = postCheck(c, ix, map[string]struct{}{"B": {}})
	assert.Equal(t, []Containment{{Subset: "A", Superset: "C"}}, pairs)
}

func TestResolve_SinglePassLeavesChains(t *testing.T) {
	// A ⊂ B ⊂ C: both A and B are removed in one pass, each pointing at its
	// smallest container, even though B is itself going away.
	c := NewCatalog(map[string][]TrackKey{
		"Singles/A": {k1},
		"Singles/B": {k1, k2},
		"Albums/C":  {k1, k2, k3},
	})

	res := Resolve(c)

	supA, _ := res.ContainedIn("Singles/A")
	supB, _ := res.ContainedIn("Singles/B")
	assert.Equal(t, "Singles/B", supA)
	assert.Equal(t, "Albums/C", supB)
	assert.Equal(t, []string{"Singles/A", "Singles/B"}, res.Redundant())
}

func TestResolve_EmptyReleasesAreIgnored(t *testing.T) {
	c := NewCatalog(map[string][]TrackKey{
		"Singles/Empty": nil,
		"Albums/X":      {k1},
	})

	res := Resolve(c)

	assert.Equal(t, []string{"Albums/X"}, res.Releases())
	assert.Empty(t, res.Redundant())
}

func TestResolve_Invariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	keys := []TrackKey{k1, k2, k3, k4, k9}
	for iter := range 200 {
		releases := map[string][]TrackKey{}
		for r := range 6 {
			var ks []TrackKey
			for _, k := range keys {
				if rng.IntN(2) == 0 {
					ks = append(ks, k)
				}
			}
			prefix := "Singles/"
			if r%2 == 0 {
				prefix = "Albums/"
			}
			releases[prefix+string(rune('A'+r))] = ks
		}
		res := Resolve(NewCatalog(releases))

		for _, id := range res.Releases() {
			if res.UniqueCount(id) > 0 {
				assert.False(t, res.IsRedundant(id), "iter %d: %s has unique tracks", iter, id)
			}
			if res.IsCanonical(id) {
				assert.False(t, res.IsRedundant(id), "iter %d: canon %s removed", iter, id)
				_, dup := res.DuplicateOf(id)
				assert.False(t, dup, "iter %d: canon %s marked duplicate", iter, id)
			}
		}
	}
}

func TestResolve_DeterministicAcrossRowOrder(t *testing.T) {
	rows := []Row{
		{Duration: "180", Fingerprint: "fp1", Path: "Albums/X/01.flac"},
		{Duration: "200", Fingerprint: "fp2", Path: "Albums/X/02.flac"},
		{Duration: "180", Fingerprint: "fp1", Path: "Singles/Y/01.flac"},
		{Duration: "200", Fingerprint: "fp2", Path: "Singles/Y/02.flac"},
		{Duration: "180", Fingerprint: "fp1", Path: "Singles/Z/01.mp3"},
		{Duration: "210", Fingerprint: "fp3", Path: "Albums/W/01.flac"},
		{Duration: "180", Fingerprint: "fp1", Path: "Albums/W/02.flac"},
		{Duration: "200", Fingerprint: "fp2", Path: "Albums/W/03.flac"},
	}
	resolver := ResolverFunc(firstTwoSegments)

	want := Resolve(BuildCatalog(rows, resolver))

	rng := rand.New(rand.NewPCG(7, 9))
	for range 20 {
		shuffled := append([]Row(nil), rows...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := Resolve(BuildCatalog(shuffled, resolver))

		assert.Equal(t, want.Redundant(), got.Redundant())
		assert.Equal(t, want.DuplicateMap(), got.DuplicateMap())
		assert.Equal(t, want.ContainmentMap(), got.ContainmentMap())
		assert.Equal(t, want.PostContained(), got.PostContained())
	}
}
