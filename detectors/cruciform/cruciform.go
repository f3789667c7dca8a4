// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cruciform implements the cruciform (inverted repeat) detector
// (spec.md §4.6): k-mer seed discovery via rolling hashes, seed extension,
// and a nearest-neighbor thermodynamic stability filter.
package cruciform

import (
	"context"
	"math"
	"sort"

	"github.com/nonbdna/scanner/detector"
	"github.com/nonbdna/scanner/internal/propensity"
	"github.com/nonbdna/scanner/motif"
	"github.com/nonbdna/scanner/patternmatch"
	"github.com/nonbdna/scanner/sequtil"
	"github.com/nonbdna/scanner/taxonomy"
)

const (
	seedK       = 6
	maxLoop     = 100
	minArm      = 8
	maxArm      = 50
	maxMismatch = 0
	deltaGCut   = -5.0
)

type Detector struct{}

func New() *Detector { return &Detector{} }

func (d *Detector) ClassName() string { return taxonomy.Cruciform }

func (d *Detector) Patterns() map[string][]detector.PatternInfo {
	return map[string][]detector.PatternInfo{
		"cruciform": {{PatternID: "cruciform", GroupName: "cruciform", Subclass: "Cruciform", Pattern: "inverted-repeat seed+extend", MinLength: 2 * minArm, ScoreFunc: "delta_g"}},
	}
}

func (d *Detector) TheoreticalMinScore() float64           { return 0 }
func (d *Detector) TheoreticalMaxScore(length int) float64 { return 1.0 }

func (d *Detector) LengthCap(subclass string) int {
	if cap, ok := taxonomy.LengthCap(taxonomy.Cruciform, subclass); ok {
		return cap
	}
	return 200
}

func (d *Detector) Detect(ctx context.Context, sequence []byte, sequenceName string) ([]motif.Motif, error) {
	if len(sequence) < 2*minArm {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := len(sequence)
	fwdHashes := patternmatch.RollingHashes(sequence, seedK)
	rc := sequtil.ReverseComplement(sequence)
	rcHashes := patternmatch.RollingHashes(rc, seedK)
	if fwdHashes == nil || rcHashes == nil {
		return nil, nil
	}

	// index rc k-mer hash -> list of rc start offsets
	rcIndex := make(map[uint64][]int, len(rcHashes))
	for off, h := range rcHashes {
		rcIndex[h] = append(rcIndex[h], off)
	}

	var candidates []motif.Motif
	for i := 0; i+seedK <= n; i++ {
		h := fwdHashes[i]
		for _, rcOff := range rcIndex[h] {
			// rc k-mer at rcOff covers forward positions
			// [n-seedK-rcOff, n-rcOff); its partner j in forward
			// coordinates is the mirrored start.
			j := n - rcOff - seedK
			if j < i+seedK || j-i-seedK > maxLoop {
				continue
			}
			if !isPalindromicPair(sequence, i, j, seedK) {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if m, ok := extend(sequence, i, j, sequenceName); ok {
				candidates = append(candidates, m)
			}
		}
	}

	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].Score != candidates[b].Score {
			return candidates[a].Score > candidates[b].Score
		}
		return candidates[a].Length > candidates[b].Length
	})

	accepted := sequtil.NewIntervalSet()
	var out []motif.Motif
	for _, c := range candidates {
		if accepted.TryAccept(c.Start-1, c.End-1) {
			out = append(out, c)
		}
	}
	sort.Sort(motif.By(out))
	return out, nil
}

func isPalindromicPair(sequence []byte, i, j, k int) bool {
	rc := sequtil.ReverseComplement(sequence[i : i+k])
	return string(rc) == string(sequence[j:j+k])
}

// extend walks outward from a verified seed pair, growing both arms while
// complementarity holds (spec.md §4.6 step 2), then applies the
// thermodynamic filter (step 3).
func extend(sequence []byte, i, j int, sequenceName string) (motif.Motif, bool) {
	armStart, armEndLeft := i, i+seedK
	loopStart := armEndLeft
	rightArmStart := j
	rightArmEnd := j + seedK

	mismatches := 0
	for armStart > 0 && rightArmEnd < len(sequence) && armEndLeft-armStart < maxArm {
		// extend outward: next forward base (armStart-1) must pair with
		// the next trailing base (rightArmEnd).
		a := sequence[armStart-1]
		b := sequence[rightArmEnd]
		if complement(a) != b {
			mismatches++
			if mismatches > maxMismatch {
				break
			}
		}
		armStart--
		rightArmEnd++
	}

	armLen := armEndLeft - armStart
	if armLen < minArm {
		return motif.Motif{}, false
	}
	loopLen := rightArmStart - loopStart
	if loopLen < 0 {
		loopLen = 0
	}

	stem := sequence[armStart:armEndLeft]
	dg := propensity.StemDeltaG(stem, loopLen)
	if dg > deltaGCut {
		return motif.Motif{}, false
	}

	regionStart := armStart
	regionEnd := rightArmEnd // exclusive
	length := regionEnd - regionStart
	raw := -dg
	score := min1(raw / 20)

	m := motif.Motif{
		ID:           motif.NewID(sequenceName, "cruciform", regionStart+1),
		SequenceName: sequenceName,
		Class:        taxonomy.Cruciform,
		Subclass:     "Cruciform",
		Start:        regionStart + 1,
		End:          regionEnd,
		Length:       length,
		Sequence:     string(sequence[regionStart:regionEnd]),
		RawScore:     raw,
		Score:        round2(1 + 2*score),
		Strand:       motif.Plus,
		Method:       "delta_g",
		PatternID:    "cruciform",
	}
	m.SetAttr("Arm_Length", armLen)
	m.SetAttr("Loop_Length", loopLen)
	m.SetAttr("Delta_G", dg)
	return m, true
}

func complement(b byte) byte {
	switch b {
	case 'A':
		return 'T'
	case 'T':
		return 'A'
	case 'C':
		return 'G'
	case 'G':
		return 'C'
	default:
		return b
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
