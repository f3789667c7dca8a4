package curved_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonbdna/scanner/detectors/curved"
	"github.com/nonbdna/scanner/taxonomy"
)

func TestDetectLocalARun(t *testing.T) {
	d := curved.New()
	seq := []byte("GG" + strings.Repeat("A", 10) + "CC")
	motifs, err := d.Detect(context.Background(), seq, "local1")
	require.NoError(t, err)
	require.NotEmpty(t, motifs)
	assert.Equal(t, taxonomy.CurvedDNA, motifs[0].Class)
	assert.Equal(t, "Local Curvature", motifs[0].Subclass)
}

func TestDetectGlobalAPhasedRepeat(t *testing.T) {
	d := curved.New()
	// four A-tracts spaced ~10-11bp apart, the helical repeat period.
	tract := "AAAA"
	spacer := "GCGCGCG" // 7bp spacer -> tract centers ~11bp apart
	seq := []byte(tract + spacer + tract + spacer + tract + spacer + tract)
	motifs, err := d.Detect(context.Background(), seq, "global1")
	require.NoError(t, err)

	var found bool
	for _, m := range motifs {
		if m.Subclass == "Global Curvature (A-phased Repeat)" {
			found = true
			assert.GreaterOrEqual(t, m.Score, 1.0)
			assert.LessOrEqual(t, m.Score, 3.0)
		}
	}
	assert.True(t, found)
}

func TestDetectEmptySequence(t *testing.T) {
	d := curved.New()
	motifs, err := d.Detect(context.Background(), nil, "empty")
	require.NoError(t, err)
	assert.Empty(t, motifs)
}
