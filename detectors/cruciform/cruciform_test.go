package cruciform_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonbdna/scanner/detectors/cruciform"
	"github.com/nonbdna/scanner/sequtil"
	"github.com/nonbdna/scanner/taxonomy"
)

func TestDetectInvertedRepeatWithLoop(t *testing.T) {
	arm := []byte("GCATGCATGCATGCATGC")
	loop := []byte("TTTTT")
	seq := append(append(append([]byte{}, arm...), loop...), sequtil.ReverseComplement(arm)...)

	d := cruciform.New()
	motifs, err := d.Detect(context.Background(), seq, "cruciform1")
	require.NoError(t, err)
	require.NotEmpty(t, motifs)

	m := motifs[0]
	assert.Equal(t, taxonomy.Cruciform, m.Class)
	armLen, _ := m.Attributes["Arm_Length"].(int)
	assert.GreaterOrEqual(t, armLen, 8)
	dg, _ := m.Attributes["Delta_G"].(float64)
	assert.Less(t, dg, -5.0)
}

func TestDetectNoInvertedRepeatInRandomSequence(t *testing.T) {
	d := cruciform.New()
	motifs, err := d.Detect(context.Background(), []byte("AAAACCCCTTTTGGGGAAAA"), "nohit")
	require.NoError(t, err)
	assert.Empty(t, motifs)
}

func TestDetectTooShortSequence(t *testing.T) {
	d := cruciform.New()
	motifs, err := d.Detect(context.Background(), []byte("ACGT"), "short")
	require.NoError(t, err)
	assert.Empty(t, motifs)
}
