package patternmatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nonbdna/scanner/patternmatch"
)

func TestMatcherFindsAllOccurrencesIncludingOverlaps(t *testing.T) {
	m := patternmatch.NewStrings([]string{"GGG", "GGGG"})
	matches := m.FindAll([]byte("AGGGGT"))
	var got []string
	for _, mm := range matches {
		got = append(got, string([]byte("AGGGGT")[mm.Start:mm.End]))
	}
	assert.Contains(t, got, "GGG")
	assert.Contains(t, got, "GGGG")
}

func TestMatcherNoMatches(t *testing.T) {
	m := patternmatch.NewStrings([]string{"TTTT"})
	matches := m.FindAll([]byte("AAAAAAAA"))
	assert.Empty(t, matches)
}

func TestMatcherMultiplePatternsDistinctIndices(t *testing.T) {
	m := patternmatch.NewStrings([]string{"CAG", "CTG"})
	matches := m.FindAll([]byte("CAGCTGCAG"))
	assert.Len(t, matches, 3)
}
