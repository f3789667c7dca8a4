package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nonbdna/scanner/motif"
)

func TestDedupChunkBoundariesKeepsHigherScore(t *testing.T) {
	motifs := []motif.Motif{
		{Class: "G-Quadruplex", Subclass: "Canonical G4", Start: 100, End: 130, Score: 2.0},
		{Class: "G-Quadruplex", Subclass: "Canonical G4", Start: 101, End: 131, Score: 2.5}, // boundary duplicate, higher score
	}
	out := dedupChunkBoundaries(motifs, 2000)
	assert.Len(t, out, 1)
	assert.Equal(t, 2.5, out[0].Score)
}

func TestDedupChunkBoundariesKeepsDistinctClasses(t *testing.T) {
	motifs := []motif.Motif{
		{Class: "G-Quadruplex", Subclass: "Canonical G4", Start: 100, End: 130, Score: 2.0},
		{Class: "Z-DNA", Subclass: "Z-DNA", Start: 101, End: 131, Score: 2.5},
	}
	out := dedupChunkBoundaries(motifs, 2000)
	assert.Len(t, out, 2)
}

func TestDedupChunkBoundariesOutsideOverlapWindowKeepsBoth(t *testing.T) {
	motifs := []motif.Motif{
		{Class: "G-Quadruplex", Subclass: "Canonical G4", Start: 100, End: 130, Score: 2.0},
		{Class: "G-Quadruplex", Subclass: "Canonical G4", Start: 10000, End: 10030, Score: 2.5},
	}
	out := dedupChunkBoundaries(motifs, 2000)
	assert.Len(t, out, 2)
}
