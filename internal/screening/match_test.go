package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchConfidenceExact(t *testing.T) {
	assert.Equal(t, 100, MatchConfidence("Acme Corp", "Acme Corp"))
	assert.Equal(t, 100, MatchConfidence("ACME CORP", "acme corp"))
	assert.Equal(t, 100, MatchConfidence("  Acme Corp  ", "Acme Corp"))
}

func TestMatchConfidenceContainment(t *testing.T) {
	assert.Equal(t, 85, MatchConfidence("Acme Corp International", "Acme Corp"))
	assert.Equal(t, 85, MatchConfidence("Acme", "Acme Corporation"))
}

func TestMatchConfidenceLevenshtein(t *testing.T) {
	// distance 1 over max length 5
	assert.Equal(t, 80, MatchConfidence("Smith", "Smyth"))
	// nothing in common
	assert.Equal(t, 0, MatchConfidence("abc", "xyz"))
}

func TestMatchConfidenceEmpty(t *testing.T) {
	assert.Equal(t, 0, MatchConfidence("", "Acme Corp"))
	assert.Equal(t, 0, MatchConfidence("Acme Corp", ""))
	// two empties trim to equality
	assert.Equal(t, 100, MatchConfidence("", ""))
}

func TestMatchConfidenceBounds(t *testing.T) {
	pairs := [][2]string{
		{"a", "completely different name entirely"},
		{"Global Trading Co", "Global Trade Company"},
		{"Ñandú Logistics", "Nandu Logistics"},
		{"x", "y"},
	}
	for _, p := range pairs {
		score := MatchConfidence(p[0], p[1])
		assert.GreaterOrEqual(t, score, 0, "pair %v", p)
		assert.LessOrEqual(t, score, 100, "pair %v", p)
		assert.Equal(t, score, MatchConfidence(p[1], p[0]), "pair %v should be symmetric", p)
	}
}
