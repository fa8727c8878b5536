package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases the input and collapses runs of whitespace into a
// single space.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return whitespaceRegex.ReplaceAllString(name, " ")
}

// Closest returns the index of the candidate most similar to `input` (by
// Jaro-Winkler over normalized names) and its similarity. It returns -1 when
// there are no candidates.
func Closest(input string, candidates []string) (int, float64) {
	input = NormalizeName(input)

	best := -1
	var bestSimilarity float64
	for i, c := range candidates {
		similarity := matchr.JaroWinkler(input, NormalizeName(c), false)
		if best < 0 || similarity > bestSimilarity {
			best = i
			bestSimilarity = similarity
		}
	}
	return best, bestSimilarity
}
