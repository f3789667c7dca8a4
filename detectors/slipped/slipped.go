// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package slipped implements the slipped-DNA detector (spec.md §4.9):
// tandem-repeat tract discovery across unit sizes 1-100, purity gating,
// redundancy elimination, and a mechanistic slippage-energy score.
package slipped

import (
	"context"
	"math"
	"sort"

	"github.com/nonbdna/scanner/detector"
	"github.com/nonbdna/scanner/motif"
	"github.com/nonbdna/scanner/sequtil"
	"github.com/nonbdna/scanner/taxonomy"
)

const (
	maxUnit        = 100
	minTractLength = 20
	minPurity      = 0.90
)

var diseaseUnits = map[string]bool{
	"CAG": true, "CTG": true, "CGG": true, "CCG": true, "GAA": true, "TTC": true,
}

type Detector struct{}

func New() *Detector { return &Detector{} }

func (d *Detector) ClassName() string { return taxonomy.SlippedDNA }

func (d *Detector) Patterns() map[string][]detector.PatternInfo {
	return map[string][]detector.PatternInfo{
		"tandem": {{PatternID: "tandem", GroupName: "tandem", Subclass: "STR", Pattern: "(.{k})\\1{n,}", MinLength: minTractLength, ScoreFunc: "slippage_energy"}},
	}
}

func (d *Detector) TheoreticalMinScore() float64           { return 1.0 }
func (d *Detector) TheoreticalMaxScore(length int) float64 { return 3.0 }

func (d *Detector) LengthCap(subclass string) int {
	if cap, ok := taxonomy.LengthCap(taxonomy.SlippedDNA, subclass); ok {
		return cap
	}
	return 1000
}

type tract struct {
	unit       string
	start, end int // 0-based, end exclusive
	copies     float64
}

func (d *Detector) Detect(ctx context.Context, sequence []byte, sequenceName string) ([]motif.Motif, error) {
	if len(sequence) < minTractLength {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var tracts []tract
	n := len(sequence)
	maxK := maxUnit
	if maxK > n/2 {
		maxK = n / 2
	}
	for k := 1; k <= maxK; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tracts = append(tracts, findTandemRuns(sequence, k)...)
	}

	// eliminate redundancy: sort by (start asc, primitive-length desc),
	// accept first non-overlapping (spec.md §4.9 step 3).
	sort.Slice(tracts, func(i, j int) bool {
		if tracts[i].start != tracts[j].start {
			return tracts[i].start < tracts[j].start
		}
		return len(tracts[i].unit) > len(tracts[j].unit)
	})
	accepted := sequtil.NewIntervalSet()
	var chosen []tract
	for _, t := range tracts {
		if accepted.TryAccept(t.start, t.end-1) {
			chosen = append(chosen, t)
		}
	}

	var out []motif.Motif
	for _, t := range chosen {
		length := t.end - t.start
		sub := "STR"
		if len(t.unit) > 9 {
			sub = "Direct Repeat"
		}
		gc := sequtil.GCContent(sequence[t.start:t.end])
		raw := slippageEnergy(length, t.copies, len(t.unit), purity(sequence[t.start:t.end], t.unit), gc, t.unit)
		m := motif.Motif{
			ID:           motif.NewID(sequenceName, "tandem", t.start+1),
			SequenceName: sequenceName,
			Class:        taxonomy.SlippedDNA,
			Subclass:     sub,
			Start:        t.start + 1,
			End:          t.end,
			Length:       length,
			Sequence:     string(sequence[t.start:t.end]),
			RawScore:     raw,
			Score:        raw,
			Strand:       motif.Plus,
			Method:       "slippage_energy",
			PatternID:    "tandem",
		}
		m.SetAttr("Repeat_Unit", t.unit)
		m.SetAttr("Copy_Number", t.copies)
		m.SetAttr("Purity", purity(sequence[t.start:t.end], t.unit))
		m.SetAttr("GC_Content", gc)
		out = append(out, m)
	}
	sort.Sort(motif.By(out))
	return out, nil
}

// findTandemRuns finds every maximal run of >=2 consecutive copies of a
// length-k primitive unit, then applies the length/purity/copy gates of
// spec.md §4.9 step 2.
func findTandemRuns(sequence []byte, k int) []tract {
	n := len(sequence)
	var out []tract
	i := 0
	for i+2*k <= n {
		if string(sequence[i:i+k]) != string(sequence[i+k:i+2*k]) {
			i++
			continue
		}
		unit := string(sequence[i : i+k])
		j := i + k
		copies := 1
		for j+k <= n && string(sequence[j:j+k]) == unit {
			j += k
			copies++
		}
		minCopies := minCopiesFor(k)
		length := j - i
		if copies >= minCopies && length >= minTractLength {
			if isPrimitive(unit) && purity(sequence[i:j], unit) >= minPurity {
				out = append(out, tract{unit: unit, start: i, end: j, copies: float64(copies)})
			}
		}
		i = j
	}
	return out
}

// minCopiesFor returns the minimum repeat-copy count required for a given
// unit size: short units need more repetitions to be structurally
// meaningful (CORE mode thresholds from spec.md §4.9).
func minCopiesFor(k int) int {
	switch {
	case k == 1:
		return 8
	case k <= 3:
		return 5
	case k <= 6:
		return 4
	case k <= 9:
		return 3
	default:
		return 2
	}
}

// isPrimitive rejects units that are themselves a smaller tandem repeat
// (e.g. "ATAT" is not a primitive 4-mer unit, it is "AT" x2).
func isPrimitive(unit string) bool {
	n := len(unit)
	for d := 1; d < n; d++ {
		if n%d != 0 {
			continue
		}
		sub := unit[:d]
		isRepeat := true
		for i := d; i < n; i += d {
			if unit[i:i+d] != sub {
				isRepeat = false
				break
			}
		}
		if isRepeat {
			return false
		}
	}
	return true
}

func purity(region []byte, unit string) float64 {
	k := len(unit)
	if k == 0 || len(region) == 0 {
		return 0
	}
	var matches, total int
	for i := 0; i+k <= len(region); i += k {
		total++
		if string(region[i:i+k]) == unit {
			matches++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matches) / float64(total)
}

// slippageEnergy computes the mechanistic 1-3 score of spec.md §4.9 step 4:
// a linear combination of log(length), log(copies), a unit-size
// instability factor peaking at 2-4bp, purity squared, and GC factor, with
// a 1.15x disease-motif bonus.
func slippageEnergy(length int, copies float64, unitSize int, pur, gc float64, unit string) float64 {
	lenTerm := math.Min(1, math.Log(float64(length))/math.Log(200))
	copyTerm := math.Min(1, math.Log(copies+1)/math.Log(21))
	instability := unitInstability(unitSize)
	gcFactor := 0.5 + 0.5*math.Abs(gc-0.5)*2 // mild boost away from 50% GC

	raw := 0.30*lenTerm + 0.25*copyTerm + 0.25*instability + 0.20*pur*pur
	raw *= gcFactor / 0.75 // renormalize so raw stays near [0,1] for typical GC
	score := 1 + 2*clampTop(raw)
	if diseaseUnits[unit] {
		score *= 1.15
	}
	if score > 3.0 {
		score = 3.0
	}
	return round2(score)
}

func unitInstability(unitSize int) float64 {
	switch {
	case unitSize >= 2 && unitSize <= 4:
		return 1.0
	case unitSize == 1 || (unitSize >= 5 && unitSize <= 6):
		return 0.7
	case unitSize <= 9:
		return 0.5
	default:
		return 0.3
	}
}

func clampTop(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
