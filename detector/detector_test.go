package detector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nonbdna/scanner/detector"
)

func TestNormalizeLinearFullLength(t *testing.T) {
	r := detector.Range{Min: 0, Max: 10, Method: detector.Linear}
	// raw at max, length >= cap -> top of scale
	got := detector.Normalize(10, 120, 120, r)
	assert.InDelta(t, 3.0, got, 1e-9)
}

func TestNormalizeLinearZeroRaw(t *testing.T) {
	r := detector.Range{Min: 0, Max: 10, Method: detector.Linear}
	got := detector.Normalize(0, 120, 120, r)
	assert.InDelta(t, 1.0, got, 1e-9)
}

func TestNormalizeLinearShortLength(t *testing.T) {
	r := detector.Range{Min: 0, Max: 10, Method: detector.Linear}
	// half the cap length, full raw score -> score midway between 1 and 3
	got := detector.Normalize(10, 60, 120, r)
	assert.InDelta(t, 2.0, got, 1e-9)
}

func TestNormalizeBoundsAlwaysInRange(t *testing.T) {
	r := detector.Range{Min: 0, Max: 10, Method: detector.Linear}
	for _, raw := range []float64{-100, -1, 0, 5, 10, 1000} {
		got := detector.Normalize(raw, 50, 100, r)
		assert.GreaterOrEqual(t, got, 1.0)
		assert.LessOrEqual(t, got, 3.0)
	}
}

func TestNormalizePrenormalizedClampsOnly(t *testing.T) {
	r := detector.Range{Method: detector.Prenormalized}
	assert.InDelta(t, 3.0, detector.Normalize(5.0, 10, 10, r), 1e-9)
	assert.InDelta(t, 1.0, detector.Normalize(-5.0, 10, 10, r), 1e-9)
	assert.InDelta(t, 2.34, detector.Normalize(2.3377, 10, 10, r), 1e-9)
}

func TestNormalizeNaNIsSafe(t *testing.T) {
	r := detector.Range{Min: 0, Max: 10, Method: detector.Linear}
	got := detector.Normalize(nanValue(), 10, 10, r)
	assert.GreaterOrEqual(t, got, 1.0)
	assert.LessOrEqual(t, got, 3.0)
}

func nanValue() float64 {
	var zero float64
	return zero / zero
}
