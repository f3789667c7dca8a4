// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package motif defines the universal output record produced by every
// detector and consumed by the pipeline's post-processing stages and by
// external export adapters.
package motif

import "fmt"

// Strand indicates the genomic strand a motif was found on.
type Strand byte

const (
	Plus  Strand = '+'
	Minus Strand = '-'
)

func (s Strand) String() string { return string(s) }

// Motif is the universal output unit described in spec.md §3. Required
// fields are plain struct members; class-specific extras live in
// Attributes so the struct need not grow a field per detector.
type Motif struct {
	ID           string
	SequenceName string
	Class        string
	Subclass     string
	Start        int // 1-based inclusive
	End          int // 1-based inclusive
	Length       int
	Sequence     string
	RawScore     float64
	Score        float64
	Strand       Strand
	Method       string
	PatternID    string

	// Attributes holds class-specific extras (ArmLength, LoopLength,
	// DeltaG, Purity, CopyNumber, RepeatUnit, RIZLength, REZLength,
	// NumTracts, GCContent, disease-relevance strings, ...). A missing
	// key is this package's analogue of the source tool's "N/A" sentinel.
	Attributes map[string]any
}

// NewID builds the canonical "<seq_name>_<pattern_id>_<start>" motif ID.
func NewID(seqName, patternID string, start int) string {
	return fmt.Sprintf("%s_%s_%d", seqName, patternID, start)
}

// Attr returns attribute key as a string, or "N/A" if absent, mirroring
// the source tool's convention for unknown/irrelevant class-specific
// slots.
func (m *Motif) Attr(key string) string {
	if m.Attributes == nil {
		return "N/A"
	}
	v, ok := m.Attributes[key]
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%v", v)
}

// SetAttr sets a class-specific attribute, allocating Attributes if
// necessary.
func (m *Motif) SetAttr(key string, value any) {
	if m.Attributes == nil {
		m.Attributes = make(map[string]any)
	}
	m.Attributes[key] = value
}

// By is a sort.Interface-compatible slice type ordering motifs by start,
// then end, then class — the deterministic total order required by
// spec.md §8.
type By []Motif

func (b By) Len() int      { return len(b) }
func (b By) Swap(i, j int) { b[i], b[j] = b[j], b[i] }
func (b By) Less(i, j int) bool {
	if b[i].Start != b[j].Start {
		return b[i].Start < b[j].Start
	}
	if b[i].End != b[j].End {
		return b[i].End < b[j].End
	}
	return b[i].Class < b[j].Class
}
