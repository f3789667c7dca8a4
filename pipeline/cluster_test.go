package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nonbdna/scanner/motif"
)

var clusterTestSequence = []byte(strings.Repeat("ACGT", 50))

func TestSynthesizeClustersDenseMultiClassWindow(t *testing.T) {
	sorted := []motif.Motif{
		{Class: "G-Quadruplex", Start: 10, End: 20},
		{Class: "i-Motif", Start: 50, End: 60},
		{Class: "Z-DNA", Start: 100, End: 110},
		{Class: "Cruciform", Start: 150, End: 160},
	}
	out := synthesizeClusters(sorted, clusterTestSequence, "seq1")
	assert.NotEmpty(t, out)
	assert.Equal(t, "Non-B_DNA_Clusters", out[0].Class)
	assert.Equal(t, string(clusterTestSequence[out[0].Start-1:out[0].End]), out[0].Sequence)
}

func TestSynthesizeClustersTooFewMotifsOrClasses(t *testing.T) {
	sorted := []motif.Motif{
		{Class: "G-Quadruplex", Start: 10, End: 20},
		{Class: "G-Quadruplex", Start: 50, End: 60},
	}
	out := synthesizeClusters(sorted, clusterTestSequence, "seq1")
	assert.Empty(t, out)
}
