package taxonomy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nonbdna/scanner/taxonomy"
)

func TestNormalizeExactPair(t *testing.T) {
	class, sub, err := taxonomy.Normalize(taxonomy.GQuadruplex, "Telomeric G4", true, false)
	assert.NoError(t, err)
	assert.Equal(t, taxonomy.GQuadruplex, class)
	assert.Equal(t, "Telomeric G4", sub)
}

func TestNormalizeCaseFoldAndAlias(t *testing.T) {
	class, sub, err := taxonomy.Normalize("g4", "telomeric", false, false)
	assert.NoError(t, err)
	assert.Equal(t, taxonomy.GQuadruplex, class)
	assert.Equal(t, "Telomeric G4", sub)
}

func TestNormalizeInvalidPairingStrict(t *testing.T) {
	_, _, err := taxonomy.Normalize(taxonomy.ZDNA, "Telomeric G4", true, false)
	assert.Error(t, err)
	var taxErr *taxonomy.Error
	assert.ErrorAs(t, err, &taxErr)
	assert.Equal(t, "InvalidPairing", taxErr.Kind)
}

func TestNormalizeInvalidPairingAutoCorrect(t *testing.T) {
	class, sub, err := taxonomy.Normalize(taxonomy.ZDNA, "Telomeric G4", true, true)
	assert.NoError(t, err)
	assert.Equal(t, taxonomy.GQuadruplex, class)
	assert.Equal(t, "Telomeric G4", sub)
}

func TestNormalizeUnknownClassStrict(t *testing.T) {
	_, _, err := taxonomy.Normalize("Not-A-Class", "Telomeric G4", true, false)
	assert.Error(t, err)
}

func TestNormalizeUnknownClassLenient(t *testing.T) {
	class, sub, err := taxonomy.Normalize("Not-A-Class", "Telomeric G4", false, false)
	assert.NoError(t, err)
	assert.Equal(t, taxonomy.GQuadruplex, class)
	assert.Equal(t, "Telomeric G4", sub)
}

func TestValid(t *testing.T) {
	assert.True(t, taxonomy.Valid(taxonomy.Cruciform, "Cruciform"))
	assert.False(t, taxonomy.Valid(taxonomy.Cruciform, "Telomeric G4"))
}

func TestLengthCapSubclassSpecific(t *testing.T) {
	cap1, ok := taxonomy.LengthCap(taxonomy.CurvedDNA, "Local Curvature")
	assert.True(t, ok)
	assert.Equal(t, 50, cap1)

	cap2, ok := taxonomy.LengthCap(taxonomy.CurvedDNA, "Global Curvature (A-phased Repeat)")
	assert.True(t, ok)
	assert.Equal(t, 120, cap2)

	cap3, ok := taxonomy.LengthCap(taxonomy.SlippedDNA, "STR")
	assert.True(t, ok)
	assert.Equal(t, 1000, cap3)

	cap4, ok := taxonomy.LengthCap(taxonomy.SlippedDNA, "Direct Repeat")
	assert.True(t, ok)
	assert.Equal(t, 500, cap4)
}

func TestLengthCapUnknownClass(t *testing.T) {
	_, ok := taxonomy.LengthCap("nope", "")
	assert.False(t, ok)
}

func TestDiseaseLengthCap(t *testing.T) {
	v, ok := taxonomy.DiseaseLengthCap("cag")
	assert.True(t, ok)
	assert.Equal(t, 1000, v)

	_, ok = taxonomy.DiseaseLengthCap("AAAAAA")
	assert.False(t, ok)
}
