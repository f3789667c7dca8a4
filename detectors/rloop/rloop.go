// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rloop implements the QmRLFS R-loop detector (spec.md §4.8): RIZ
// discovery via two G-tract models, a downstream REZ search accelerated by
// a per-call G prefix-sum table, and both-strand scanning.
package rloop

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

const (
	linker        = 50
	stepSize      = 100
	endStepSize   = 50
	maxREZSpan    = 2000
	minRIZPctG    = 0.50
	minREZPctG    = 0.40
)

var model1Re = regexp.MustCompile(`G{3,}[ACGT]{1,10}G{3,}[ACGT]{1,10}G{3,}`)
var model2Re = regexp.MustCompile(`G{4,}[ACGT]{1,10}G{4,}`)

type Detector struct{}

func New() *Detector { return &Detector{} }

func (d *Detector) ClassName() string { return taxonomy.RLoop }

func (d *Detector) Patterns() map[string][]detector.PatternInfo {
	return map[string][]detector.PatternInfo{
		"model1": {{PatternID: "model1", GroupName: "model1", Subclass: "QmRLFS-m1", Pattern: model1Re.String(), MinLength: 20, ScoreFunc: "riz_rez_pct_g"}},
		"model2": {{PatternID: "model2", GroupName: "model2", Subclass: "QmRLFS-m2", Pattern: model2Re.String(), MinLength: 12, ScoreFunc: "riz_rez_pct_g"}},
	}
}

func (d *Detector) TheoreticalMinScore() float64           { return 0 }
func (d *Detector) TheoreticalMaxScore(length int) float64 { return 1.0 }

func (d *Detector) LengthCap(subclass string) int {
	if cap, ok := taxonomy.LengthCap(taxonomy.RLoop, subclass); ok {
		return cap
	}
	return 2000
}

func (d *Detector) Detect(ctx context.Context, sequence []byte, sequenceName string) ([]motif.Motif, error) {
	if len(sequence) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []motif.Motif
	out = append(out, d.scanStrand(sequence, sequenceName, motif.Plus)...)

	rc := sequtil.ReverseComplement(sequence)
	n := len(sequence)
	for _, m := range d.scanStrand(rc, sequenceName, motif.Minus) {
		s, e := n-(m.End), n-(m.Start-1)
		m.Start, m.End = s+1, e
		m.Sequence = string(sequence[s:e])
		out = append(out, m)
	}

	sort.Sort(motif.By(out))
	return out, nil
}

type rizHit struct {
	subclass   string
	start, end int
}

func (d *Detector) scanStrand(sequence []byte, sequenceName string, strand motif.Strand) []motif.Motif {
	gPrefix := patternmatch.GPrefixSum(sequence)

	var rizHits []rizHit
	for _, loc := range model1Re.FindAllIndex(sequence, -1) {
		rizHits = append(rizHits, rizHit{"QmRLFS-m1", loc[0], loc[1]})
	}
	for _, loc := range model2Re.FindAllIndex(sequence, -1) {
		rizHits = append(rizHits, rizHit{"QmRLFS-m2", loc[0], loc[1]})
	}

	var out []motif.Motif
	for _, riz := range rizHits {
		pctG := float64(patternmatch.RangeCount(gPrefix, riz.start, riz.end)) / float64(riz.end-riz.start)
		if pctG < minRIZPctG {
			continue
		}
		rezStart, rezEnd, rezPctG, ok := findREZ(sequence, gPrefix, riz.end)
		if !ok {
			continue
		}
		regionStart, regionEnd := riz.start, rezEnd
		_ = rezStart
		raw := clampTop(pctG) + clampTop(rezPctG)
		if raw > 1 {
			raw = 1
		}
		length := regionEnd - regionStart
		cap := d.LengthCap(riz.subclass)
		score := detector.Normalize(raw, length, cap, detector.Range{Min: 0, Max: 1, Method: detector.Linear})
		m := motif.Motif{
			ID:           motif.NewID(sequenceName, riz.subclass, regionStart+1),
			SequenceName: sequenceName,
			Class:        taxonomy.RLoop,
			Subclass:     riz.subclass,
			Start:        regionStart + 1,
			End:          regionEnd,
			Length:       length,
			Sequence:     string(sequence[regionStart:regionEnd]),
			RawScore:     raw,
			Score:        score,
			Strand:       strand,
			Method:       "riz_rez_pct_g",
			PatternID:    riz.subclass,
		}
		m.SetAttr("RIZ_Length", riz.end-riz.start)
		m.SetAttr("REZ_Length", rezEnd-rezStart)
		out = append(out, m)
	}
	return out
}

// findREZ walks downstream from a RIZ's end, skipping a fixed linker, then
// slides a growing window up to maxREZSpan searching for the sub-window
// with >=40% G that maximizes pctG*length (spec.md §4.8).
func findREZ(sequence []byte, gPrefix []int, rizEnd int) (start, end int, pctG float64, ok bool) {
	start = rizEnd + linker
	if start >= len(sequence) {
		return 0, 0, 0, false
	}

	bestScore := -1.0
	bestEnd := -1
	for span := stepSize; span <= maxREZSpan; span += stepSize {
		end := start + span
		if end > len(sequence) {
			end = len(sequence)
		}
		if end <= start {
			break
		}
		g := patternmatch.RangeCount(gPrefix, start, end)
		pct := float64(g) / float64(end-start)
		if pct >= minREZPctG {
			score := pct * float64(end-start)
			if score > bestScore {
				bestScore = score
				bestEnd = end
			}
		}
		if end == len(sequence) {
			break
		}
	}
	if bestEnd < 0 {
		// no coarse step qualified: re-search spans from the same start in
		// finer endStepSize increments.
		for span := stepSize; span <= maxREZSpan; span += endStepSize {
			end := start + span
			if end > len(sequence) {
				end = len(sequence)
			}
			g := patternmatch.RangeCount(gPrefix, start, end)
			pct := float64(g) / float64(end-start)
			if pct >= minREZPctG {
				score := pct * float64(end-start)
				if score > bestScore {
					bestScore = score
					bestEnd = end
				}
			}
			if end == len(sequence) {
				break
			}
		}
	}
	if bestEnd < 0 {
		return 0, 0, 0, false
	}
	g := patternmatch.RangeCount(gPrefix, start, bestEnd)
	return start, bestEnd, float64(g) / float64(bestEnd-start), true
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
