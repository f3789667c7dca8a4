package aphilic_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonbdna/scanner/detectors/aphilic"
	"github.com/nonbdna/scanner/taxonomy"
)

func TestDetectATRichRegion(t *testing.T) {
	d := aphilic.New()
	seq := []byte(strings.Repeat("AATT", 10))
	motifs, err := d.Detect(context.Background(), seq, "at1")
	require.NoError(t, err)
	require.NotEmpty(t, motifs)
	assert.Equal(t, taxonomy.APhilicDNA, motifs[0].Class)
	for _, m := range motifs {
		assert.GreaterOrEqual(t, m.Score, 1.0)
		assert.LessOrEqual(t, m.Score, 3.0)
	}
}

func TestDetectGCAlternatingHasNoAphilicRegion(t *testing.T) {
	d := aphilic.New()
	motifs, err := d.Detect(context.Background(), []byte(strings.Repeat("CG", 20)), "gc1")
	require.NoError(t, err)
	assert.Empty(t, motifs)
}

func TestDetectTooShort(t *testing.T) {
	d := aphilic.New()
	motifs, err := d.Detect(context.Background(), []byte("ACGT"), "short")
	require.NoError(t, err)
	assert.Empty(t, motifs)
}
