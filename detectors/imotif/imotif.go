// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package imotif implements the i-motif detector (spec.md §4.4): canonical
// C-tract scanning on both strands, the HUR AC-motif family, and a
// validated-sequence exact-match library.
package imotif

import (
	"context"
	"regexp"
	"sort"

	"github.com/nonbdna/scanner/detector"
	"github.com/nonbdna/scanner/motif"
	"github.com/nonbdna/scanner/patternmatch"
	"github.com/nonbdna/scanner/sequtil"
	"github.com/nonbdna/scanner/taxonomy"
)

var canonicalRe = regexp.MustCompile(`C{3,}[ACGT]{1,7}C{3,}[ACGT]{1,7}C{3,}[ACGT]{1,7}C{3,}`)
var relaxedRe = regexp.MustCompile(`C{3,}[ACGT]{1,12}C{3,}[ACGT]{1,12}C{3,}[ACGT]{1,12}C{3,}`)

var hurRe = []struct {
	subclass string
	re       *regexp.Regexp
}{
	{"AC-motif", regexp.MustCompile(`(?:A{3,}[ACGT]{4}C{3,}){3,}`)},
	{"AC-motif", regexp.MustCompile(`(?:A{3,}[ACGT]{5}C{3,}){3,}`)},
	{"AC-motif", regexp.MustCompile(`(?:A{3,}[ACGT]{6}C{3,}){3,}`)},
}

// validatedSequences is a small library of experimentally validated
// i-motif sequences; an exact match short-circuits scoring to 0.99
// (spec.md §4.4). The library is compiled once into an Aho-Corasick
// automaton so both strands are swept for every validated sequence in a
// single O(n) pass instead of a per-hit map lookup.
var validatedSequences = []string{
	"CCCCTCCCCTCCCCTCCCC",
	"CCCCACCCCACCCCACCCC",
}

var validatedMatcher = patternmatch.NewStrings(validatedSequences)

// validatedSpans returns the set of forward-strand [start,end) spans
// where a validatedSequences entry occurs exactly, on either strand.
func validatedSpans(sequence []byte) map[[2]int]bool {
	spans := make(map[[2]int]bool)
	for _, m := range validatedMatcher.FindAll(sequence) {
		spans[[2]int{m.Start, m.End}] = true
	}
	rc := sequtil.ReverseComplement(sequence)
	n := len(sequence)
	for _, m := range validatedMatcher.FindAll(rc) {
		spans[[2]int{n - m.End, n - m.Start}] = true
	}
	return spans
}

type Detector struct{}

func New() *Detector { return &Detector{} }

func (d *Detector) ClassName() string { return taxonomy.IMotif }

func (d *Detector) Patterns() map[string][]detector.PatternInfo {
	return map[string][]detector.PatternInfo{
		"canonical": {{PatternID: "canonical", GroupName: "canonical", Subclass: "Canonical i-motif", Pattern: canonicalRe.String(), MinLength: 12, ScoreFunc: "c_density"}},
		"relaxed":   {{PatternID: "relaxed", GroupName: "relaxed", Subclass: "Relaxed i-motif", Pattern: relaxedRe.String(), MinLength: 12, ScoreFunc: "c_density"}},
		"hur":       {{PatternID: "hur", GroupName: "hur", Subclass: "AC-motif", Pattern: "A-rich/C-rich alternating", MinLength: 12, ScoreFunc: "ac_fraction"}},
	}
}

func (d *Detector) TheoreticalMinScore() float64         { return 0 }
func (d *Detector) TheoreticalMaxScore(length int) float64 { return 1.0 }

func (d *Detector) LengthCap(subclass string) int {
	if cap, ok := taxonomy.LengthCap(taxonomy.IMotif, subclass); ok {
		return cap
	}
	return 60
}

type hit struct {
	subclass   string
	start, end int // in scan-strand coordinates
	rawScore   float64
	strand     motif.Strand
}

func (d *Detector) Detect(ctx context.Context, sequence []byte, sequenceName string) ([]motif.Motif, error) {
	if len(sequence) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var hits []hit
	hits = append(hits, scanStrand(sequence, motif.Plus)...)

	rc := sequutilReverseComplement(sequence)
	for _, h := range scanStrand(rc, motif.Minus) {
		// map coordinates from the revcomp strand back onto the forward
		// sequence: position p on rc corresponds to len-1-p on forward.
		n := len(sequence)
		fs, fe := n-h.end, n-h.start
		h.start, h.end = fs, fe
		hits = append(hits, h)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].rawScore != hits[j].rawScore {
			return hits[i].rawScore > hits[j].rawScore
		}
		return (hits[i].end - hits[i].start) > (hits[j].end - hits[j].start)
	})

	spans := validatedSpans(sequence)

	accepted := sequtil.NewIntervalSet()
	var out []motif.Motif
	for _, h := range hits {
		if !accepted.TryAccept(h.start, h.end-1) {
			continue
		}
		length := h.end - h.start
		cap := d.LengthCap(h.subclass)
		score := detector.Normalize(h.rawScore, length, cap, detector.Range{Min: 0, Max: 1, Method: detector.Linear})
		if spans[[2]int{h.start, h.end}] {
			score = 2.98 // 1 + 2*0.99, rounds to the declared 0.99-raw ceiling
		}
		m := motif.Motif{
			ID:           motif.NewID(sequenceName, h.subclass, h.start+1),
			SequenceName: sequenceName,
			Class:        taxonomy.IMotif,
			Subclass:     h.subclass,
			Start:        h.start + 1,
			End:          h.end,
			Length:       length,
			Sequence:     string(sequence[h.start:h.end]),
			RawScore:     h.rawScore,
			Score:        score,
			Strand:       h.strand,
			Method:       "c_density",
			PatternID:    h.subclass,
		}
		out = append(out, m)
	}
	sort.Sort(motif.By(out))
	return out, nil
}

func scanStrand(seq []byte, strand motif.Strand) []hit {
	cPrefix := patternmatch.CPrefixSum(seq)
	density := func(s, e int) float64 {
		if e <= s {
			return 0
		}
		return float64(patternmatch.RangeCount(cPrefix, s, e)) / float64(e-s)
	}

	var out []hit
	for _, loc := range canonicalRe.FindAllIndex(seq, -1) {
		out = append(out, hit{subclass: "Canonical i-motif", start: loc[0], end: loc[1], rawScore: density(loc[0], loc[1]), strand: strand})
	}
	for _, loc := range relaxedRe.FindAllIndex(seq, -1) {
		out = append(out, hit{subclass: "Relaxed i-motif", start: loc[0], end: loc[1], rawScore: density(loc[0], loc[1]) * 0.85, strand: strand})
	}
	for _, p := range hurRe {
		for _, loc := range p.re.FindAllIndex(seq, -1) {
			out = append(out, hit{subclass: p.subclass, start: loc[0], end: loc[1], rawScore: acFraction(seq[loc[0]:loc[1]]), strand: strand})
		}
	}
	return out
}

func acFraction(region []byte) float64 {
	if len(region) == 0 {
		return 0
	}
	var n int
	for _, b := range region {
		if b == 'A' || b == 'C' {
			n++
		}
	}
	return float64(n) / float64(len(region))
}

// sequutilReverseComplement delegates straight through to
// sequtil.ReverseComplement; named distinctly so call sites read clearly
// as "the revcomp strand we scan against".
func sequutilReverseComplement(s []byte) []byte { return sequtil.ReverseComplement(s) }
