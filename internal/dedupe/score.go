package dedupe

import (
	"cmp"
	"strings"
)

// primaryRoot is the collection root whose releases are preferred when
// content is identical.
const primaryRoot = "albums"

// Lexical bonuses applied to the lower-cased release id.
var nameBonuses = []struct {
	word  string
	bonus int
}{
	{"deluxe", 6},
	{"edition", 4},
	{"reimagined", 2},
	{"sampler", -3},
}

// Score is the "keep the best" heuristic for a release id. It is purely
// lexical: +100 under the albums root, then small bonuses for name words.
func Score(id string) int {
	lower := strings.ToLower(id)
	score := 0
	for _, part := range splitSegments(lower) {
		if part == primaryRoot {
			score += 100
			break
		}
	}
	for _, nb := range nameBonuses {
		if strings.Contains(lower, nb.word) {
			score += nb.bonus
		}
	}
	return score
}

func splitSegments(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' })
}

// compareCanon orders candidates for the canonical slot of an exact
// duplicate group: higher score, then shorter id, then lexicographic.
func compareCanon(a, b string) int {
	return cmp.Or(
		cmp.Compare(Score(b), Score(a)),
		cmp.Compare(len(a), len(b)),
		strings.Compare(a, b),
	)
}

// compareContainer orders superset candidates: smaller release, then higher
// score, then lexicographic.
func compareContainer(sizes map[string]int) func(a, b string) int {
	return func(a, b string) int {
		return cmp.Or(
			cmp.Compare(sizes[a], sizes[b]),
			cmp.Compare(Score(b), Score(a)),
			strings.Compare(a, b),
		)
	}
}
