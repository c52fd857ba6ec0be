package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

var quoteReplacer = strings.NewReplacer(
	"«", `"`,
	"»", `"`,
	"“", `"`,
	"”", `"`,
	"\u00a0", " ",
)

// NormalizeName lowercases a label, unifies quote styles and drops all whitespace.
func NormalizeName(name string) string {
	name = quoteReplacer.Replace(name)
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// Nearest returns the candidate most similar to `target` by Jaro-Winkler distance
// over normalized names, with its similarity. It returns false when no candidate
// reaches `threshold`.
func Nearest(target string, candidates []string, threshold float64) (string, float64, bool) {
	normalizedTarget := NormalizeName(target)

	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		score := matchr.JaroWinkler(normalizedTarget, NormalizeName(c), false)
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	if best == "" || bestScore < threshold {
		return "", bestScore, false
	}
	return best, bestScore, true
}
