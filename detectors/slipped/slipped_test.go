package slipped_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonbdna/scanner/detectors/slipped"
	"github.com/nonbdna/scanner/taxonomy"
)

func TestDetectCAGSTRWithDiseaseBonus(t *testing.T) {
	d := slipped.New()
	cag := []byte(strings.Repeat("CAG", 10))
	motifs, err := d.Detect(context.Background(), cag, "cag")
	require.NoError(t, err)
	require.NotEmpty(t, motifs)

	m := motifs[0]
	assert.Equal(t, taxonomy.SlippedDNA, m.Class)
	assert.Equal(t, "STR", m.Subclass)
	assert.Equal(t, "CAG", m.Attributes["Repeat_Unit"])
	cn, _ := m.Attributes["Copy_Number"].(float64)
	assert.InDelta(t, 10, cn, 0.01)

	// control: a same-length, same-copy-number non-disease unit should
	// score lower thanks to the 1.15x disease-motif bonus.
	control, err := d.Detect(context.Background(), []byte(strings.Repeat("CAT", 10)), "control")
	require.NoError(t, err)
	require.NotEmpty(t, control)
	assert.Greater(t, m.Score, control[0].Score)
}

func TestDetectNoTractInNonRepetitiveSequence(t *testing.T) {
	d := slipped.New()
	motifs, err := d.Detect(context.Background(), []byte("ACGTACGGTTCAGTGACCTGATCGATAC"), "none")
	require.NoError(t, err)
	assert.Empty(t, motifs)
}
