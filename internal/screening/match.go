package screening

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// MatchConfidence scores the similarity between a submitted party name and a
// list entry name on a 0-100 scale. Exact matches (case-insensitive,
// whitespace-trimmed) score 100, containment scores 85, everything else falls
// back to normalized Levenshtein similarity.
//
// The function is pure and deterministic; cache idempotence and test
// reproducibility depend on that.
func MatchConfidence(input, candidate string) int {
	a := strings.ToLower(strings.TrimSpace(input))
	b := strings.ToLower(strings.TrimSpace(candidate))

	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 85
	}

	distance := levenshtein.ComputeDistance(a, b)
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}

	score := int(math.Round(float64(maxLen-distance) / float64(maxLen) * 100))
	if score < 0 {
		score = 0
	}
	return score
}
