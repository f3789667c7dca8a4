package nonb_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonbdna/scanner"
	"github.com/nonbdna/scanner/motif"
	"github.com/nonbdna/scanner/sequtil"
	"github.com/nonbdna/scanner/taxonomy"
)

func checkInvariants(t *testing.T, sequence []byte, motifs []motif.Motif) {
	t.Helper()
	for i, m := range motifs {
		require.GreaterOrEqual(t, m.Start, 1)
		require.LessOrEqual(t, m.Start, m.End)
		require.LessOrEqual(t, m.End, len(sequence))
		assert.Equal(t, m.End-m.Start+1, m.Length)
		assert.True(t, taxonomy.Valid(m.Class, m.Subclass))
		assert.GreaterOrEqual(t, m.Score, 1.0)
		assert.LessOrEqual(t, m.Score, 3.0)
		assert.Equal(t, string(sequence[m.Start-1:m.End]), m.Sequence)
		if i > 0 {
			assert.LessOrEqual(t, motifs[i-1].Start, m.Start)
		}
	}
}

func TestAnalyzeTelomericG4Scenario(t *testing.T) {
	seq := []byte("TTAGGGTTAGGGTTAGGGTTAGGG")
	motifs, err := nonb.Analyze(context.Background(), seq, "scenario1")
	require.NoError(t, err)
	require.NotEmpty(t, motifs)
	checkInvariants(t, seq, motifs)

	m := motifs[0]
	assert.Equal(t, taxonomy.GQuadruplex, m.Class)
	assert.Equal(t, "Telomeric G4", m.Subclass)
	assert.Equal(t, 1, m.Start)
	assert.Equal(t, 24, m.End)
}

func TestAnalyzeG4ReverseComplementAsIMotifScenario(t *testing.T) {
	seq := []byte("GGGGAGGGGAGGGGAGGGG") // reverse complement of CCCCTCCCCTCCCCTCCCC
	motifs, err := nonb.Analyze(context.Background(), seq, "scenario2", nonb.WithClasses(taxonomy.IMotif))
	require.NoError(t, err)
	require.Len(t, motifs, 1)
	checkInvariants(t, seq, motifs)

	m := motifs[0]
	assert.Equal(t, taxonomy.IMotif, m.Class)
	assert.Equal(t, "Canonical i-motif", m.Subclass)
	assert.Equal(t, motif.Minus, m.Strand)
}

func TestAnalyzeStickyDNAScenario(t *testing.T) {
	seq := []byte(strings.Repeat("GAA", 6))
	motifs, err := nonb.Analyze(context.Background(), seq, "scenario3", nonb.WithClasses(taxonomy.Triplex))
	require.NoError(t, err)
	require.NotEmpty(t, motifs)
	checkInvariants(t, seq, motifs)

	var sticky *motif.Motif
	for i := range motifs {
		if motifs[i].Subclass == "Sticky DNA" {
			sticky = &motifs[i]
			break
		}
	}
	require.NotNil(t, sticky)
	assert.Equal(t, taxonomy.Triplex, sticky.Class)
	assert.Equal(t, "6", sticky.Attr("Copy_Number"))
	assert.Equal(t, "false", sticky.Attr("Replication_Blockage_Range"))
	assert.GreaterOrEqual(t, sticky.Score, 1.0)
	assert.LessOrEqual(t, sticky.Score, 1.3)
}

func TestAnalyzeCAGSTRScenario(t *testing.T) {
	disease := []byte(strings.Repeat("CAG", 10))
	control := []byte(strings.Repeat("CAT", 10))

	dm, err := nonb.Analyze(context.Background(), disease, "scenario4", nonb.WithClasses(taxonomy.SlippedDNA))
	require.NoError(t, err)
	require.NotEmpty(t, dm)
	checkInvariants(t, disease, dm)

	cm, err := nonb.Analyze(context.Background(), control, "scenario4control", nonb.WithClasses(taxonomy.SlippedDNA))
	require.NoError(t, err)
	require.NotEmpty(t, cm)

	assert.Equal(t, taxonomy.SlippedDNA, dm[0].Class)
	assert.Equal(t, "STR", dm[0].Subclass)
	assert.Equal(t, "CAG", dm[0].Attr("Repeat_Unit"))
	assert.Greater(t, dm[0].Score, cm[0].Score)
}

func TestAnalyzeCruciformScenario(t *testing.T) {
	arm := "GCATGCATGCATGCATGC"
	seq := []byte(arm + "TTTTT" + string(sequtil.ReverseComplement([]byte(arm))))
	motifs, err := nonb.Analyze(context.Background(), seq, "scenario5", nonb.WithClasses(taxonomy.Cruciform))
	require.NoError(t, err)
	require.NotEmpty(t, motifs)
	checkInvariants(t, seq, motifs)

	m := motifs[0]
	assert.Equal(t, taxonomy.Cruciform, m.Class)
	armLen, ok := m.Attributes["Arm_Length"].(int)
	require.True(t, ok)
	assert.GreaterOrEqual(t, armLen, 18)
	assert.Equal(t, 5, m.Attributes["Loop_Length"])
	deltaG, ok := m.Attributes["Delta_G"].(float64)
	require.True(t, ok)
	assert.Less(t, deltaG, -5.0)
}

func TestAnalyzeLargeMixedSequenceNotEmpty(t *testing.T) {
	var b strings.Builder
	filler := strings.Repeat("ACGTACGTACGTACGTACGTACGTACGTACGTACGTACGT", 1100)
	g4 := "TTAGGGTTAGGGTTAGGGTTAGGG"
	for i := 0; i < 25; i++ {
		b.WriteString(filler)
		b.WriteString(g4)
	}
	seq := []byte(b.String())
	require.Greater(t, len(seq), 1_000_000)

	motifs, err := nonb.Analyze(context.Background(), seq, "scenario6", nonb.WithClasses(taxonomy.GQuadruplex))
	require.NoError(t, err)
	assert.NotEmpty(t, motifs)
}

func TestAnalyzeEmptySequenceReturnsEmpty(t *testing.T) {
	motifs, err := nonb.Analyze(context.Background(), nil, "empty")
	require.Error(t, err)
	assert.Empty(t, motifs)
}

func TestAnalyzeTooShortSequenceReturnsEmptyWithWarning(t *testing.T) {
	motifs, err := nonb.Analyze(context.Background(), []byte("ACGT"), "short")
	require.Error(t, err)
	assert.Empty(t, motifs)
}

func TestAnalyzeAllNSequenceReturnsEmptyWithWarning(t *testing.T) {
	motifs, err := nonb.Analyze(context.Background(), []byte(strings.Repeat("N", 20)), "allN")
	require.NoError(t, err)
	assert.Empty(t, motifs)
}

func TestAnalyzeIdempotent(t *testing.T) {
	seq := []byte("TTAGGGTTAGGGTTAGGGTTAGGG")
	first, err := nonb.Analyze(context.Background(), seq, "idem")
	require.NoError(t, err)
	second, err := nonb.Analyze(context.Background(), seq, "idem")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAnalyzeGCContentAgreesWithSequtil(t *testing.T) {
	seq := []byte("TTAGGGTTAGGGTTAGGGTTAGGG")
	motifs, err := nonb.Analyze(context.Background(), seq, "gc", nonb.WithClasses(taxonomy.GQuadruplex))
	require.NoError(t, err)
	require.NotEmpty(t, motifs)
	for _, m := range motifs {
		v, ok := m.Attributes["GC_Content"].(float64)
		require.True(t, ok)
		assert.InDelta(t, sequtil.GCContent(seq[m.Start-1:m.End]), v, 0.0001)
	}
}
