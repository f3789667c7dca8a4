// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package triplex implements the triplex detector (spec.md §4.7): H-DNA
// mirror repeats scored by a mechanistic Frank-Kamenetskii-style model,
// and Sticky DNA (GAA/TTC) scored piecewise by copy number.
package triplex

import (
	"context"
	"math"
	"regexp"
	"sort"

	"github.com/nonbdna/scanner/detector"
	"github.com/nonbdna/scanner/motif"
	"github.com/nonbdna/scanner/sequtil"
	"github.com/nonbdna/scanner/taxonomy"
)

const (
	mirrorMinArm = 10
	mirrorMaxArm = 100
	mirrorMaxLoop = 8
	mirrorMinPurity = 0.90
)

var stickyRe = regexp.MustCompile(`(?:GAA|TTC){4,}`)

type Detector struct{}

func New() *Detector { return &Detector{} }

func (d *Detector) ClassName() string { return taxonomy.Triplex }

func (d *Detector) Patterns() map[string][]detector.PatternInfo {
	return map[string][]detector.PatternInfo{
		"mirror": {{PatternID: "mirror", GroupName: "mirror", Subclass: "Mirror Repeat (H-DNA)", Pattern: "mirror-repeat seed+extend", MinLength: 2 * mirrorMinArm, ScoreFunc: "mechanistic"}},
		"sticky": {{PatternID: "sticky", GroupName: "sticky", Subclass: "Sticky DNA", Pattern: stickyRe.String(), MinLength: 12, ScoreFunc: "copy_number_band"}},
	}
}

func (d *Detector) TheoreticalMinScore() float64           { return 1.0 }
func (d *Detector) TheoreticalMaxScore(length int) float64 { return 3.0 }

func (d *Detector) LengthCap(subclass string) int {
	if cap, ok := taxonomy.LengthCap(taxonomy.Triplex, subclass); ok {
		return cap
	}
	return 100
}

func (d *Detector) Detect(ctx context.Context, sequence []byte, sequenceName string) ([]motif.Motif, error) {
	if len(sequence) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []motif.Motif
	out = append(out, scanMirror(sequence, sequenceName)...)
	out = append(out, scanSticky(sequence, sequenceName)...)

	// same-subclass overlaps are removed; mirror and sticky are allowed to
	// coexist (spec.md §4.7 overlap policy).
	sort.Sort(motif.By(out))
	return removeSameSubclassOverlaps(out), nil
}

func scanMirror(sequence []byte, sequenceName string) []motif.Motif {
	n := len(sequence)
	var out []motif.Motif
	for i := 0; i < n; i++ {
		maxArm := mirrorMaxArm
		if n-i < maxArm {
			maxArm = n - i
		}
		for loop := 0; loop <= mirrorMaxLoop; loop++ {
			arm := mirrorArmLength(sequence, i, loop, maxArm)
			if arm < mirrorMinArm {
				continue
			}
			left := sequence[i : i+arm]
			if !purityOK(left) {
				continue
			}
			start := i
			end := i + arm + loop + arm
			if end > n {
				continue
			}
			score := mechanisticScore(arm, loop, purity(left))
			m := motif.Motif{
				ID:           motif.NewID(sequenceName, "mirror", start+1),
				SequenceName: sequenceName,
				Class:        taxonomy.Triplex,
				Subclass:     "Mirror Repeat (H-DNA)",
				Start:        start + 1,
				End:          end,
				Length:       end - start,
				Sequence:     string(sequence[start:end]),
				RawScore:     score,
				Score:        score,
				Strand:       motif.Plus,
				Method:       "mechanistic",
				PatternID:    "mirror",
			}
			m.SetAttr("Arm_Length", arm)
			m.SetAttr("Loop_Length", loop)
			m.SetAttr("Purity", purity(left))
			out = append(out, m)
			break // first loop size with a valid arm at this i reported; move to next i
		}
	}
	return out
}

// mirrorArmLength scans arm lengths a from mirrorMinArm up to maxArm for
// which sequence[i:i+a] read forward equals sequence[i+a+loop : i+a+loop+a]
// read in reverse (a literal mirror repeat, not a reverse complement). It
// returns the last length of the first unbroken run of valid lengths, or 0
// if none is valid; lengths after the first failing one are not tried.
func mirrorArmLength(sequence []byte, i, loop, maxArm int) int {
	best := 0
	for a := mirrorMinArm; a <= maxArm; a++ {
		rStart := i + a + loop
		rEnd := rStart + a
		if rEnd > len(sequence) {
			break
		}
		if isMirror(sequence[i:i+a], sequence[rStart:rEnd]) {
			best = a
		} else if best > 0 {
			break
		}
	}
	return best
}

func isMirror(left, right []byte) bool {
	if len(left) != len(right) {
		return false
	}
	for k := 0; k < len(left); k++ {
		if left[k] != right[len(right)-1-k] {
			return false
		}
	}
	return true
}

func purityOK(s []byte) bool { return purity(s) >= mirrorMinPurity }

// purity returns the fraction of bases matching the majority homopurine
// (A/G) or homopyrimidine (C/T) composition, whichever is larger.
func purity(s []byte) float64 {
	if len(s) == 0 {
		return 0
	}
	var purine, pyrimidine int
	for _, b := range s {
		switch b {
		case 'A', 'G':
			purine++
		case 'C', 'T':
			pyrimidine++
		}
	}
	if purine > pyrimidine {
		return float64(purine) / float64(len(s))
	}
	return float64(pyrimidine) / float64(len(s))
}

// mechanisticScore combines normalized arm length, loop penalty and purity
// into a direct 1-3 score (Frank-Kamenetskii-style), per spec.md §4.7.
func mechanisticScore(arm, loop int, pur float64) float64 {
	armFactor := math.Min(1, float64(arm)/float64(mirrorMaxArm))
	loopFactor := 1.0
	if loop > 0 {
		loopFactor = 1.0 / (1.0 + float64(loop)/4.0)
	}
	raw := armFactor*0.5 + loopFactor*0.2 + pur*0.3
	return round2(1 + 2*clampTop(raw))
}

func scanSticky(sequence []byte, sequenceName string) []motif.Motif {
	var out []motif.Motif
	for _, loc := range stickyRe.FindAllIndex(sequence, -1) {
		s, e := loc[0], loc[1]
		length := e - s
		copies := length / 3
		score := stickyScoreBand(copies)
		m := motif.Motif{
			ID:           motif.NewID(sequenceName, "sticky", s+1),
			SequenceName: sequenceName,
			Class:        taxonomy.Triplex,
			Subclass:     "Sticky DNA",
			Start:        s + 1,
			End:          e,
			Length:       length,
			Sequence:     string(sequence[s:e]),
			RawScore:     float64(copies),
			Score:        score,
			Strand:       motif.Plus,
			Method:       "copy_number_band",
			PatternID:    "sticky",
		}
		m.SetAttr("Copy_Number", copies)
		m.SetAttr("Replication_Blockage_Range", copies >= 20 && copies <= 39)
		m.SetAttr("Sticky_Threshold_Range", copies >= 40 && copies <= 59)
		m.SetAttr("Pathogenic_Range", copies >= 60)
		m.SetAttr("GC_Content", sequtil.GCContent(sequence[s:e]))
		out = append(out, m)
	}
	return out
}

// stickyScoreBand implements the piecewise copy-number bands of
// spec.md §4.7: Replication-Blockage 20-39, Sticky-Threshold 40-59,
// Pathogenic >=60, clamped to 3.0; below 20 copies scores linearly from
// 1.0 toward the Replication-Blockage floor.
func stickyScoreBand(copies int) float64 {
	c := float64(copies)
	switch {
	case copies < 4:
		return 1.0
	case copies < 20:
		return round2(1 + 2*clampTop((c-4)/16*0.3))
	case copies < 40:
		return round2(1 + 2*clampTop(0.3+(c-20)/20*0.2))
	case copies < 60:
		return round2(1 + 2*clampTop(0.5+(c-40)/20*0.3))
	default:
		return 3.0
	}
}

func removeSameSubclassOverlaps(sorted []motif.Motif) []motif.Motif {
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
