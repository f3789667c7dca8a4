package imotif_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonbdna/scanner/detectors/imotif"
	"github.com/nonbdna/scanner/motif"
	"github.com/nonbdna/scanner/taxonomy"
)

func TestDetectCanonicalForwardStrand(t *testing.T) {
	d := imotif.New()
	seq := []byte("CCCCTCCCCTCCCCTCCCC")
	motifs, err := d.Detect(context.Background(), seq, "fwd")
	require.NoError(t, err)
	require.NotEmpty(t, motifs)
	assert.Equal(t, taxonomy.IMotif, motifs[0].Class)
	assert.Equal(t, motif.Plus, motifs[0].Strand)
}

func TestDetectCanonicalOnReverseComplementStrand(t *testing.T) {
	d := imotif.New()
	// reverse complement of "CCCCTCCCCTCCCCTCCCC"
	seq := []byte("GGGGAGGGGAGGGGAGGGG")
	motifs, err := d.Detect(context.Background(), seq, "rev")
	require.NoError(t, err)
	require.NotEmpty(t, motifs)
	assert.Equal(t, "Canonical i-motif", motifs[0].Subclass)
	assert.Equal(t, motif.Minus, motifs[0].Strand)
	assert.Equal(t, 1, motifs[0].Start)
	assert.Equal(t, len(seq), motifs[0].End)
}

func TestDetectEmptySequence(t *testing.T) {
	d := imotif.New()
	motifs, err := d.Detect(context.Background(), nil, "empty")
	require.NoError(t, err)
	assert.Empty(t, motifs)
}
