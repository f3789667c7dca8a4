package propensity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nonbdna/scanner/internal/propensity"
)

func TestZDNAScoreAlternatingHigherThanHomopolymer(t *testing.T) {
	alt := propensity.ZDNAScore([]byte("CGCGCGCGCG"))
	homo := propensity.ZDNAScore([]byte("AAAAAAAAAA"))
	assert.Greater(t, alt, homo)
}

func TestZDNAScoreShortInputIsZero(t *testing.T) {
	assert.Equal(t, 0.0, propensity.ZDNAScore([]byte("A")))
	assert.Equal(t, 0.0, propensity.ZDNAScore(nil))
}

func TestAPhilicScoreATRichHigherThanGCAlternating(t *testing.T) {
	at := propensity.APhilicScore([]byte("AATTAATTAA"))
	gc := propensity.APhilicScore([]byte("CGCGCGCGCG"))
	assert.Greater(t, at, gc)
}

func TestStemDeltaGZeroLoopAddsHairpinPenalty(t *testing.T) {
	withNoLoop := propensity.StemDeltaG([]byte("GCGC"), 0)
	withTinyLoop := propensity.StemDeltaG([]byte("GCGC"), 1)
	// loop==0 uses the flat 4.0 hairpin-closing penalty, which is larger
	// than 1.75+0.6*ln(1)==1.75, so the zero-loop stem is less stable.
	assert.Greater(t, withNoLoop, withTinyLoop)
}

func TestStemDeltaGLoopPenaltyIncreasesWithLoopLength(t *testing.T) {
	short := propensity.StemDeltaG([]byte("GCGCGCGC"), 3)
	long := propensity.StemDeltaG([]byte("GCGCGCGC"), 30)
	assert.Greater(t, long, short)
}

func TestStemDeltaGStrongStemIsNegativeEnoughToPass(t *testing.T) {
	// a long GC-rich stem with a small loop should clear the < -5 kcal/mol
	// cruciform acceptance threshold used by the detector.
	g := propensity.StemDeltaG([]byte("GCGCGCGCGCGCGCGC"), 3)
	assert.Less(t, g, -5.0)
}
