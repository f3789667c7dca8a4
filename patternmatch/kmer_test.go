package patternmatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nonbdna/scanner/patternmatch"
)

func TestGPrefixSumRangeCount(t *testing.T) {
	seq := []byte("GATGGCGTG")
	prefix := patternmatch.GPrefixSum(seq)
	assert.Equal(t, 5, patternmatch.RangeCount(prefix, 0, len(seq)))
	assert.Equal(t, 0, patternmatch.RangeCount(prefix, 1, 2)) // "A"
}

func TestCPrefixSumRangeCount(t *testing.T) {
	seq := []byte("CCCAACCC")
	prefix := patternmatch.CPrefixSum(seq)
	assert.Equal(t, 6, patternmatch.RangeCount(prefix, 0, len(seq)))
}

func TestRollingHashesMatchesForIdenticalKmers(t *testing.T) {
	seq := []byte("ACGTACGTACGT")
	hashes := patternmatch.RollingHashes(seq, 4)
	// "ACGT" repeats at offsets 0,4,8 and must hash identically.
	assert.Equal(t, hashes[0], hashes[4])
	assert.Equal(t, hashes[4], hashes[8])
}

func TestRollingHashesDifferentKmersUsuallyDiffer(t *testing.T) {
	seq := []byte("ACGTTTTTGGGG")
	hashes := patternmatch.RollingHashes(seq, 4)
	assert.NotEqual(t, hashes[0], hashes[len(hashes)-1])
}

func TestRollingHashesInvalidK(t *testing.T) {
	assert.Nil(t, patternmatch.RollingHashes([]byte("ACGT"), 0))
	assert.Nil(t, patternmatch.RollingHashes([]byte("ACGT"), 10))
}
