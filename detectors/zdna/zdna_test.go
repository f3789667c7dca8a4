package zdna_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonbdna/scanner/detectors/zdna"
	"github.com/nonbdna/scanner/taxonomy"
)

func TestDetectAlternatingCGRegion(t *testing.T) {
	d := zdna.New()
	seq := []byte(strings.Repeat("CG", 30))
	motifs, err := d.Detect(context.Background(), seq, "cg")
	require.NoError(t, err)
	require.NotEmpty(t, motifs)
	assert.Equal(t, taxonomy.ZDNA, motifs[0].Class)
	for _, m := range motifs {
		assert.GreaterOrEqual(t, m.Score, 1.0)
		assert.LessOrEqual(t, m.Score, 3.0)
	}
}

func TestDetectEGZRepeat(t *testing.T) {
	d := zdna.New()
	seq := []byte(strings.Repeat("CGG", 6))
	motifs, err := d.Detect(context.Background(), seq, "egz")
	require.NoError(t, err)
	var found bool
	for _, m := range motifs {
		if m.Subclass == "eGZ (Extruded-G) DNA" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDetectHomopolymerHasNoPropensityRegion(t *testing.T) {
	d := zdna.New()
	motifs, err := d.Detect(context.Background(), []byte(strings.Repeat("A", 40)), "homo")
	require.NoError(t, err)
	assert.Empty(t, motifs)
}
