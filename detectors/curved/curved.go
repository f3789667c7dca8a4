// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package curved implements the curved-DNA detector (spec.md §4.10): local
// A/T-run detection and global A-phased-repeat (APR) helical-periodicity
// grouping.
package curved

import (
	"context"
	"math"
	"regexp"
	"sort"

	"github.com/nonbdna/scanner/detector"
	"github.com/nonbdna/scanner/motif"
	"github.com/nonbdna/scanner/taxonomy"
)

const (
	minLocalRun  = 7
	minPhase     = 9.9
	maxPhase     = 11.1
	idealPhase   = 10.5
	minAPRTracts = 3
)

var aRunRe = regexp.MustCompile(`A{7,}`)
var tRunRe = regexp.MustCompile(`T{7,}`)

type Detector struct{}

func New() *Detector { return &Detector{} }

func (d *Detector) ClassName() string { return taxonomy.CurvedDNA }

func (d *Detector) Patterns() map[string][]detector.PatternInfo {
	return map[string][]detector.PatternInfo{
		"local":  {{PatternID: "local", GroupName: "local", Subclass: "Local Curvature", Pattern: "A{7,}|T{7,}", MinLength: minLocalRun, ScoreFunc: "run_length"}},
		"global": {{PatternID: "global", GroupName: "global", Subclass: "Global Curvature (A-phased Repeat)", Pattern: "helical-phased A/T tracts", MinLength: 50, ScoreFunc: "phasing_score"}},
	}
}

func (d *Detector) TheoreticalMinScore() float64           { return 0 }
func (d *Detector) TheoreticalMaxScore(length int) float64 { return 1.0 }

func (d *Detector) LengthCap(subclass string) int {
	if cap, ok := taxonomy.LengthCap(taxonomy.CurvedDNA, subclass); ok {
		return cap
	}
	return 120
}

func (d *Detector) Detect(ctx context.Context, sequence []byte, sequenceName string) ([]motif.Motif, error) {
	if len(sequence) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []motif.Motif
	out = append(out, d.scanLocal(sequence, sequenceName)...)
	out = append(out, d.scanGlobal(sequence, sequenceName)...)
	sort.Sort(motif.By(out))
	return out, nil
}

func (d *Detector) scanLocal(sequence []byte, sequenceName string) []motif.Motif {
	var out []motif.Motif
	for _, re := range []*regexp.Regexp{aRunRe, tRunRe} {
		for _, loc := range re.FindAllIndex(sequence, -1) {
			s, e := loc[0], loc[1]
			length := e - s
			raw := float64(length)
			cap := d.LengthCap("Local Curvature")
			score := detector.Normalize(raw, length, cap, detector.Range{Min: 7, Max: 30, Method: detector.Linear})
			m := motif.Motif{
				ID:           motif.NewID(sequenceName, "local", s+1),
				SequenceName: sequenceName,
				Class:        taxonomy.CurvedDNA,
				Subclass:     "Local Curvature",
				Start:        s + 1,
				End:          e,
				Length:       length,
				Sequence:     string(sequence[s:e]),
				RawScore:     raw,
				Score:        score,
				Strand:       motif.Plus,
				Method:       "run_length",
				PatternID:    "local",
			}
			out = append(out, m)
		}
	}
	return out
}

type tractCenter struct {
	center     float64
	start, end int
}

// scanGlobal finds A/T tracts (length >= 4) on the forward strand, then
// groups centers whose consecutive spacing falls within the helical-phasing
// window into an A-phased repeat (spec.md §4.10).
func (d *Detector) scanGlobal(sequence []byte, sequenceName string) []motif.Motif {
	tracts := findATTracts(sequence)
	if len(tracts) < minAPRTracts {
		return nil
	}

	var out []motif.Motif
	used := make([]bool, len(tracts))
	for i := 0; i < len(tracts); i++ {
		if used[i] {
			continue
		}
		group := []tractCenter{tracts[i]}
		for j := i + 1; j < len(tracts); j++ {
			if used[j] {
				continue
			}
			spacing := tracts[j].center - group[len(group)-1].center
			if spacing >= minPhase && spacing <= maxPhase {
				group = append(group, tracts[j])
				used[j] = true
			} else if spacing > maxPhase {
				break
			}
		}
		if len(group) >= minAPRTracts {
			used[i] = true
			start := group[0].start
			end := group[len(group)-1].end
			score := phasingScore(group)
			length := end - start
			m := motif.Motif{
				ID:           motif.NewID(sequenceName, "global", start+1),
				SequenceName: sequenceName,
				Class:        taxonomy.CurvedDNA,
				Subclass:     "Global Curvature (A-phased Repeat)",
				Start:        start + 1,
				End:          end,
				Length:       length,
				Sequence:     string(sequence[start:end]),
				RawScore:     score,
				Score:        1 + 2*clampTop(score),
				Strand:       motif.Plus,
				Method:       "phasing_score",
				PatternID:    "global",
			}
			m.SetAttr("Num_Tracts", len(group))
			out = append(out, m)
		}
	}
	return out
}

func findATTracts(sequence []byte) []tractCenter {
	re := regexp.MustCompile(`[AT]{4,}`)
	var out []tractCenter
	for _, loc := range re.FindAllIndex(sequence, -1) {
		s, e := loc[0], loc[1]
		out = append(out, tractCenter{center: float64(s+e) / 2, start: s, end: e})
	}
	return out
}

// phasingScore returns 1 - mean_deviation/max_allowed_deviation over the
// group's consecutive spacings (spec.md §4.10).
func phasingScore(group []tractCenter) float64 {
	if len(group) < 2 {
		return 0
	}
	var totalDev float64
	n := 0
	for i := 1; i < len(group); i++ {
		spacing := group[i].center - group[i-1].center
		totalDev += math.Abs(spacing - idealPhase)
		n++
	}
	meanDev := totalDev / float64(n)
	maxAllowed := (maxPhase - minPhase) / 2
	score := 1 - meanDev/maxAllowed
	return clampTop(score)
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
