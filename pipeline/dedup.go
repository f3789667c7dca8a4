// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"sort"

	"github.com/nonbdna/scanner/motif"
	"github.com/nonbdna/scanner/sequtil"
)

// dedupChunkBoundaries implements spec.md §4.15: when motifs from
// overlapping chunks are merged, boundary duplicates may appear. Sort by
// (start, end, class); for each motif scan back through recently accepted
// motifs, stopping once their start lies more than overlap before the
// current start (this bounds the comparison window — any true duplicate
// must lie within it, per the overlap contract between adjacent chunks).
// Two motifs are duplicates iff they share (class, subclass) and overlap
// >=50% of the shorter length; the higher-scoring one is kept.
func dedupChunkBoundaries(motifs []motif.Motif, overlap int) []motif.Motif {
	if len(motifs) == 0 {
		return motifs
	}
	sorted := append([]motif.Motif(nil), motifs...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		if sorted[i].End != sorted[j].End {
			return sorted[i].End < sorted[j].End
		}
		return sorted[i].Class < sorted[j].Class
	})

	var accepted []motif.Motif
	for _, m := range sorted {
		dupIdx := -1
		for k := len(accepted) - 1; k >= 0; k-- {
			if accepted[k].Start < m.Start-overlap {
				break
			}
			if accepted[k].Class != m.Class || accepted[k].Subclass != m.Subclass {
				continue
			}
			frac := sequtil.OverlapFraction(accepted[k].Start, accepted[k].End, m.Start, m.End)
			if frac >= 0.50 {
				dupIdx = k
				break
			}
		}
		if dupIdx < 0 {
			accepted = append(accepted, m)
			continue
		}
		if m.Score > accepted[dupIdx].Score {
			accepted[dupIdx] = m
		}
	}
	return accepted
}
