package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonbdna/scanner/motif"
)

func TestAdaptiveChunkerSpoolAndDrainOrdersByStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spool.kv")
	c, err := NewAdaptiveChunker(path)
	require.NoError(t, err)
	defer c.Close()

	batch := []motif.Motif{
		{ID: "b", SequenceName: "seq1", Class: "Z-DNA", Subclass: "Z-DNA", Start: 500, End: 520, Length: 20, Score: 2.0},
		{ID: "a", SequenceName: "seq1", Class: "G-Quadruplex", Subclass: "Canonical G4", Start: 10, End: 30, Length: 20, Score: 2.5},
	}
	require.NoError(t, c.Spool(0, batch))

	out, err := c.Drain()
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
	assert.Equal(t, 2.5, out[0].Score)
}

func TestAdaptiveChunkerDrainEmptyIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.kv")
	c, err := NewAdaptiveChunker(path)
	require.NoError(t, err)
	defer c.Close()

	out, err := c.Drain()
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestNewAdaptiveChunkerTruncatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reuse.kv")
	c1, err := NewAdaptiveChunker(path)
	require.NoError(t, err)
	require.NoError(t, c1.Spool(0, []motif.Motif{{ID: "x", Start: 1, End: 5}}))
	require.NoError(t, c1.Close())

	require.FileExists(t, path)

	c2, err := NewAdaptiveChunker(path)
	require.NoError(t, err)
	defer c2.Close()

	out, err := c2.Drain()
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMacroMesoMicroTiersCoverFullRange(t *testing.T) {
	tiers := MacroTiers(250_000_000)
	require.NotEmpty(t, tiers)
	assert.Equal(t, 0, tiers[0][0])
	assert.Equal(t, 250_000_000, tiers[len(tiers)-1][1])

	meso := MesoTiers(tiers[0][0], tiers[0][1])
	require.NotEmpty(t, meso)
	assert.Equal(t, tiers[0][0], meso[0][0])

	micro := MicroTiers(meso[0][0], meso[0][1])
	require.NotEmpty(t, micro)
	if len(micro) > 1 {
		assert.Greater(t, micro[0][1], micro[1][0])
	}
}
