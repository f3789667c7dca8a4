package rloop_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonbdna/scanner/detectors/rloop"
	"github.com/nonbdna/scanner/taxonomy"
)

func TestDetectModel2RIZWithGRichREZ(t *testing.T) {
	d := rloop.New()
	riz := "GGGGAGGGG"
	linker := strings.Repeat("A", 50)
	rez := strings.Repeat("GGGGGAAAAA", 20) // ~50% G over 200bp
	seq := []byte(riz + linker + rez)

	motifs, err := d.Detect(context.Background(), seq, "rloop1")
	require.NoError(t, err)
	require.NotEmpty(t, motifs)
	assert.Equal(t, taxonomy.RLoop, motifs[0].Class)
	for _, m := range motifs {
		assert.GreaterOrEqual(t, m.Score, 1.0)
		assert.LessOrEqual(t, m.Score, 3.0)
	}
}

func TestDetectNoRIZInATOnlySequence(t *testing.T) {
	d := rloop.New()
	motifs, err := d.Detect(context.Background(), []byte(strings.Repeat("AT", 40)), "noriz")
	require.NoError(t, err)
	assert.Empty(t, motifs)
}
