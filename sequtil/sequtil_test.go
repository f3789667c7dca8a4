package sequtil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nonbdna/scanner/sequtil"
)

func TestReverseComplement(t *testing.T) {
	assert.Equal(t, "TAATCC", string(sequtil.ReverseComplement([]byte("GGATTA"))))
	assert.Equal(t, "N", string(sequtil.ReverseComplement([]byte("N"))))
}

func TestGCContentExcludesAmbiguous(t *testing.T) {
	// 2 G/C of 4 unambiguous bases; the two Ns are excluded entirely.
	gc := sequtil.GCContent([]byte("GCNNAT"))
	assert.InDelta(t, 0.5, gc, 1e-9)
}

func TestGCContentEmpty(t *testing.T) {
	assert.Equal(t, 0.0, sequtil.GCContent([]byte("NNNN")))
}

func TestIntervalSetConflicts(t *testing.T) {
	set := sequtil.NewIntervalSet()
	assert.True(t, set.TryAccept(10, 20))
	assert.False(t, set.TryAccept(15, 25))
	assert.True(t, set.TryAccept(21, 25))
	assert.True(t, set.TryAccept(1, 9))
	assert.Equal(t, 3, set.Len())
}

func TestOverlapFraction(t *testing.T) {
	assert.InDelta(t, 1.0, sequtil.OverlapFraction(10, 20, 10, 20), 1e-9)
	assert.InDelta(t, 0.0, sequtil.OverlapFraction(10, 20, 21, 30), 1e-9)
	// overlap [15,20] = 6 bases, shorter interval length = 11 (10..20)
	assert.InDelta(t, 6.0/11.0, sequtil.OverlapFraction(10, 20, 15, 30), 1e-9)
}
