// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package aphilic implements the A-philic DNA detector (spec.md §4.11): a
// 10-mer log2-odds propensity scan, analogous in structure to the Z-DNA
// detector but over a distinct table and a lower cumulative threshold.
package aphilic

import (
	"context"
	"sort"

	"github.com/nonbdna/scanner/detector"
	"github.com/nonbdna/scanner/internal/propensity"
	"github.com/nonbdna/scanner/motif"
	"github.com/nonbdna/scanner/sequtil"
	"github.com/nonbdna/scanner/taxonomy"
)

const (
	kmerLen          = 10
	minCumulativeLog2 = 0.5
)

type Detector struct{}

func New() *Detector { return &Detector{} }

func (d *Detector) ClassName() string { return taxonomy.APhilicDNA }

func (d *Detector) Patterns() map[string][]detector.PatternInfo {
	return map[string][]detector.PatternInfo{
		"propensity": {{PatternID: "aphilic_propensity", GroupName: "propensity", Subclass: "A-philic DNA", Pattern: "10-mer log2-odds scan", MinLength: kmerLen, ScoreFunc: "log2odds_sum"}},
	}
}

func (d *Detector) TheoreticalMinScore() float64 { return 0 }
func (d *Detector) TheoreticalMaxScore(length int) float64 {
	return float64(length) * 0.35
}

func (d *Detector) LengthCap(subclass string) int {
	if cap, ok := taxonomy.LengthCap(taxonomy.APhilicDNA, subclass); ok {
		return cap
	}
	return 300
}

func (d *Detector) Detect(ctx context.Context, sequence []byte, sequenceName string) ([]motif.Motif, error) {
	if len(sequence) < kmerLen {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := len(sequence)
	positive := make([]bool, n-kmerLen+1)
	for i := 0; i+kmerLen <= n; i++ {
		if propensity.APhilicScore(sequence[i:i+kmerLen]) > 0 {
			positive[i] = true
		}
	}

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
		regionEnd := j + kmerLen - 1
		raw := regionScore(sequence[i : regionEnd+1])
		if raw >= minCumulativeLog2 {
			length := regionEnd - i + 1
			cap := d.LengthCap("A-philic DNA")
			score := detector.Normalize(raw, length, cap, detector.Range{Min: minCumulativeLog2, Max: float64(length) * 0.35, Method: detector.Linear})
			m := motif.Motif{
				ID:           motif.NewID(sequenceName, "aphilic_propensity", i+1),
				SequenceName: sequenceName,
				Class:        taxonomy.APhilicDNA,
				Subclass:     "A-philic DNA",
				Start:        i + 1,
				End:          regionEnd + 1,
				Length:       length,
				Sequence:     string(sequence[i : regionEnd+1]),
				RawScore:     raw,
				Score:        score,
				Strand:       motif.Plus,
				Method:       "log2odds_sum",
				PatternID:    "aphilic_propensity",
			}
			m.SetAttr("GC_Content", sequtil.GCContent(sequence[i:regionEnd+1]))
			out = append(out, m)
		}
		i = j
	}
	sort.Sort(motif.By(out))
	return out, nil
}

func regionScore(region []byte) float64 {
	var sum float64
	for i := 0; i+kmerLen <= len(region); i++ {
		sum += propensity.APhilicScore(region[i:i+kmerLen]) / float64(kmerLen)
	}
	return sum
}
