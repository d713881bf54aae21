package textutil

import (
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Similarity returns 1 - levenshtein(a, b) / max(len(a), len(b)) measured in
// runes. Either string empty yields 0; identical strings yield exactly 1.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	distance := edlib.LevenshteinDistance(a, b)
	score := 1.0 - float64(distance)/float64(maxLen)
	if score < 0 {
		return 0
	}
	return score
}

// Distance exposes the rune-level edit distance used by Similarity.
func Distance(a, b string) int {
	return edlib.LevenshteinDistance(a, b)
}
