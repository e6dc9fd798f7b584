package dedupe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// firstTwoSegments treats "<root>/<release>/..." as the release id.
func firstTwoSegments(path string) (string, bool) {
	parts := strings.Split(path, "/")
	if len(parts) < 3 {
		return "", false
	}
	return parts[0] + "/" + parts[1], true
}

func TestBuildCatalog(t *testing.T) {
	rows := []Row{
		{Duration: "180", Fingerprint: "fp1", Path: "Albums/X/01.flac"},
		{Duration: "200", Fingerprint: "fp2", Path: "Albums/X/02.flac"},
		// Same audio twice in one release counts once.
		{Duration: "200", Fingerprint: "fp2", Path: "Albums/X/02 (copy).flac"},
		{Duration: "180", Fingerprint: "fp1", Path: "Singles/Y/01.mp3"},
		// Not under a release folder.
		{Duration: "300", Fingerprint: "fp7", Path: "loose.flac"},
	}

	c := BuildCatalog(rows, ResolverFunc(firstTwoSegments))

	assert.Equal(t, []string{"Albums/X", "Singles/Y"}, c.Releases())
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 2, c.Keys("Albums/X").Len())
	assert.Equal(t, 1, c.Keys("Singles/Y").Len())
	assert.Equal(t, 3, c.Tracks())
	assert.Contains(t, c.Releases(), "Albums/X")
	assert.NotContains(t, c.Releases(), "loose.flac")
	assert.Equal(t, 0, c.Keys("Unknown").Len())
}

func TestBuildCatalog_NoRows(t *testing.T) {
	c := BuildCatalog(nil, ResolverFunc(firstTwoSegments))

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, Resolve(c).Redundant())
}

func TestSortRows(t *testing.T) {
	rows := []Row{
		{Duration: "2", Fingerprint: "b", Path: "b.flac"},
		{Duration: "1", Fingerprint: "a", Path: "a.flac"},
		{Duration: "1", Fingerprint: "a", Path: "b.flac"},
	}

	SortRows(rows)

	assert.Equal(t, []Row{
		{Duration: "1", Fingerprint: "a", Path: "a.flac"},
		{Duration: "1", Fingerprint: "a", Path: "b.flac"},
		{Duration: "2", Fingerprint: "b", Path: "b.flac"},
	}, rows)
}
