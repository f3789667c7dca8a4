// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"sort"

	"github.com/nonbdna/scanner/motif"
	"github.com/nonbdna/scanner/taxonomy"
)

const (
	clusterWindow     = 300
	clusterMinMotifs  = 4
	clusterMinClasses = 3
)

// synthesizeClusters implements spec.md §4.14's cluster synthesis: slide a
// 300bp window; a window containing >=4 motifs spanning >=3 distinct
// classes emits a Non-B_DNA_Clusters motif covering the actual spanning
// extent of those motifs. motifs must be pre-sorted by start.
func synthesizeClusters(sorted []motif.Motif, sequence []byte, sequenceName string) []motif.Motif {
	if len(sorted) < clusterMinMotifs {
		return nil
	}
	starts := make([]int, len(sorted))
	for i, m := range sorted {
		starts[i] = m.Start
	}

	var out []motif.Motif
	emittedWindowStart := map[int]bool{}
	for i := range sorted {
		windowStart := sorted[i].Start
		if emittedWindowStart[windowStart] {
			continue
		}
		windowEnd := windowStart + clusterWindow
		// binary search for the first index whose Start exceeds windowEnd.
		j := sort.Search(len(starts), func(k int) bool { return starts[k] > windowEnd })

		classes := map[string]bool{}
		spanStart, spanEnd := sorted[i].Start, sorted[i].End
		count := 0
		for k := i; k < j; k++ {
			classes[sorted[k].Class] = true
			if sorted[k].Start < spanStart {
				spanStart = sorted[k].Start
			}
			if sorted[k].End > spanEnd {
				spanEnd = sorted[k].End
			}
			count++
		}
		if count >= clusterMinMotifs && len(classes) >= clusterMinClasses {
			emittedWindowStart[windowStart] = true
			m := motif.Motif{
				ID:           motif.NewID(sequenceName, "cluster", spanStart),
				SequenceName: sequenceName,
				Class:        taxonomy.NonBDNAClusters,
				Subclass:     "Non-B DNA Cluster Region",
				Start:        spanStart,
				End:          spanEnd,
				Length:       spanEnd - spanStart + 1,
				Sequence:     string(sequence[spanStart-1 : spanEnd]),
				RawScore:     float64(len(classes)),
				Score:        clusterScore(count, len(classes)),
				Strand:       motif.Plus,
				Method:       "density_window",
				PatternID:    "cluster",
			}
			m.SetAttr("Num_Motifs", count)
			m.SetAttr("Num_Classes", len(classes))
			out = append(out, m)
		}
	}
	return out
}

func clusterScore(count, numClasses int) float64 {
	raw := float64(count)/10 + float64(numClasses)/11
	if raw > 1 {
		raw = 1
	}
	return 1 + 2*raw
}
