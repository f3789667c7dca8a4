// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gquad implements the G-quadruplex detector (spec.md §4.3):
// seed-and-scan region discovery, eight pattern families, a G4Hunter-style
// sliding-window score, and priority-based overlap resolution.
package gquad

import (
	"context"
	"regexp"
	"sort"

	"github.com/nonbdna/scanner/detector"
	"github.com/nonbdna/scanner/motif"
	"github.com/nonbdna/scanner/sequtil"
	"github.com/nonbdna/scanner/taxonomy"
)

const (
	seedWindowBefore = 50
	seedWindowAfter  = 200
	hunterWindow     = 25
)

// priority is lowest-number-wins: telomeric > higher-order > stacked >
// canonical > bulged > extended-loop > g_triplex > weak_pqs (spec.md §4.3).
var priority = map[string]int{
	"telomeric":     0,
	"higher_order":  1,
	"stacked":       2,
	"canonical":     3,
	"bulged":        4,
	"extended_loop": 5,
	"g_triplex":     6,
	"weak_pqs":      7,
}

var subclassOf = map[string]string{
	"telomeric":     "Telomeric G4",
	"canonical":     "Canonical G4",
	"extended_loop": "Extended-loop G4",
	"stacked":       "Stacked G4",
	"higher_order":  "Higher-order G4",
	"bulged":        "Bulged G4",
	"g_triplex":     "G-Triplex",
	"weak_pqs":      "Weak PQS",
}

var patterns = map[string]*regexp.Regexp{
	"telomeric":     regexp.MustCompile(`(?:TTAGGG){4,}`),
	"canonical":     regexp.MustCompile(`G{3,}[ACGT]{1,7}G{3,}[ACGT]{1,7}G{3,}[ACGT]{1,7}G{3,}`),
	"extended_loop": regexp.MustCompile(`G{3,}[ACGT]{1,12}G{3,}[ACGT]{1,12}G{3,}[ACGT]{1,12}G{3,}`),
	"bulged":        regexp.MustCompile(`G{2,3}[ACGT]{0,2}G{1,2}[ACGT]{1,7}G{3,}[ACGT]{1,7}G{3,}[ACGT]{1,7}G{3,}`),
	"g_triplex":     regexp.MustCompile(`G{3,}[ACGT]{1,7}G{3,}[ACGT]{1,7}G{3,}`),
	"higher_order":  regexp.MustCompile(`(?:G{3,}[ACGT]{1,7}){6,}G{3,}`),
	"stacked":       regexp.MustCompile(`G{3,}[ACGT]{1,7}G{3,}[ACGT]{1,7}G{3,}[ACGT]{1,7}G{3,}[ACGT]{1,20}G{3,}[ACGT]{1,7}G{3,}[ACGT]{1,7}G{3,}`),
	"weak_pqs":      regexp.MustCompile(`G{2,}[ACGT]{1,7}G{2,}[ACGT]{1,7}G{2,}[ACGT]{1,7}G{2,}`),
}

var seedRe = regexp.MustCompile(`G{3,}`)

// Detector implements detector.Detector for the G-Quadruplex class.
type Detector struct{}

func New() *Detector { return &Detector{} }

func (d *Detector) ClassName() string { return taxonomy.GQuadruplex }

func (d *Detector) Patterns() map[string][]detector.PatternInfo {
	out := make(map[string][]detector.PatternInfo, len(patterns))
	for group, re := range patterns {
		out[group] = []detector.PatternInfo{{
			PatternID: group,
			GroupName: group,
			Subclass:  subclassOf[group],
			Pattern:   re.String(),
			MinLength: 8,
			ScoreFunc: "g4hunter",
		}}
	}
	return out
}

func (d *Detector) TheoreticalMinScore() float64 { return 0 }
func (d *Detector) TheoreticalMaxScore(length int) float64 {
	return 1.0
}

func (d *Detector) LengthCap(subclass string) int {
	if cap, ok := taxonomy.LengthCap(taxonomy.GQuadruplex, subclass); ok {
		return cap
	}
	return 120
}

type candidate struct {
	group      string
	start, end int // 0-based, end exclusive
	rawScore   float64
}

// Detect implements the seed-and-scan algorithm of spec.md §4.3.
func (d *Detector) Detect(ctx context.Context, sequence []byte, sequenceName string) ([]motif.Motif, error) {
	if len(sequence) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	regions := mergeRegions(seedRe.FindAllIndex(sequence, -1), len(sequence))

	var candidates []candidate
	for _, r := range regions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		window := sequence[r[0]:r[1]]
		for group, re := range patterns {
			for _, loc := range re.FindAllIndex(window, -1) {
				s, e := r[0]+loc[0], r[0]+loc[1]
				if e-s < 8 {
					continue
				}
				raw := g4HunterScore(sequence[s:e])
				candidates = append(candidates, candidate{group: group, start: s, end: e, rawScore: raw})
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		pi, pj := priority[candidates[i].group], priority[candidates[j].group]
		if pi != pj {
			return pi < pj
		}
		if candidates[i].rawScore != candidates[j].rawScore {
			return candidates[i].rawScore > candidates[j].rawScore
		}
		return (candidates[i].end - candidates[i].start) > (candidates[j].end - candidates[j].start)
	})

	accepted := sequtil.NewIntervalSet()
	var out []motif.Motif
	for _, c := range candidates {
		if !accepted.TryAccept(c.start, c.end-1) {
			continue
		}
		length := c.end - c.start
		sub := subclassOf[c.group]
		cap := d.LengthCap(sub)
		score := detector.Normalize(c.rawScore, length, cap, detector.Range{Min: 0, Max: 1, Method: detector.G4Hunter})
		m := motif.Motif{
			ID:           motif.NewID(sequenceName, c.group, c.start+1),
			SequenceName: sequenceName,
			Class:        taxonomy.GQuadruplex,
			Subclass:     sub,
			Start:        c.start + 1,
			End:          c.end,
			Length:       length,
			Sequence:     string(sequence[c.start:c.end]),
			RawScore:     c.rawScore,
			Score:        score,
			Strand:       motif.Plus,
			Method:       "g4hunter",
			PatternID:    c.group,
		}
		m.SetAttr("GC_Content", sequtil.GCContent(sequence[c.start:c.end]))
		m.SetAttr("Disease_Relevance", diseaseRelevance(c.group))
		out = append(out, m)
	}
	sort.Sort(motif.By(out))
	return out, nil
}

func mergeRegions(seeds [][]int, seqLen int) [][2]int {
	if len(seeds) == 0 {
		return nil
	}
	var windows [][2]int
	for _, s := range seeds {
		lo := s[0] - seedWindowBefore
		if lo < 0 {
			lo = 0
		}
		hi := s[1] + seedWindowAfter
		if hi > seqLen {
			hi = seqLen
		}
		windows = append(windows, [2]int{lo, hi})
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i][0] < windows[j][0] })
	merged := [][2]int{windows[0]}
	for _, w := range windows[1:] {
		last := &merged[len(merged)-1]
		if w[0] <= last[1] {
			if w[1] > last[1] {
				last[1] = w[1]
			}
			continue
		}
		merged = append(merged, w)
	}
	return merged
}

// g4HunterScore slides a fixed window of G-count over region and returns
// the maximum normalized density encountered, scaled by region length
// relative to the window (spec.md §4.3 step 4).
func g4HunterScore(region []byte) float64 {
	if len(region) == 0 {
		return 0
	}
	w := hunterWindow
	if w > len(region) {
		w = len(region)
	}
	var sum int
	for i := 0; i < w; i++ {
		if region[i] == 'G' {
			sum++
		}
	}
	best := sum
	for i := w; i < len(region); i++ {
		if region[i] == 'G' {
			sum++
		}
		if region[i-w] == 'G' {
			sum--
		}
		if sum > best {
			best = sum
		}
	}
	density := float64(best) / float64(w)
	return density * float64(len(region)) / float64(w)
}

func diseaseRelevance(group string) string {
	switch group {
	case "telomeric":
		return "Telomeric repeat (TTAGGG)"
	default:
		return "N/A"
	}
}
