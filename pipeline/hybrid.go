// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"fmt"

	"github.com/nonbdna/scanner/motif"
	"github.com/nonbdna/scanner/sequtil"
	"github.com/nonbdna/scanner/taxonomy"
)

// synthesizeHybrids implements spec.md §4.14's hybrid synthesis: pairwise
// across classes, any two motifs whose mutual overlap fraction (relative
// to the shorter) falls in (0.50, 0.99) produce a synthetic Hybrid motif
// spanning their union. Motifs are assumed pre-sorted by start.
func synthesizeHybrids(sorted []motif.Motif, sequence []byte, sequenceName string) []motif.Motif {
	seen := map[string]bool{}
	var out []motif.Motif
	for i := 0; i < len(sorted); i++ {
		a := sorted[i]
		for j := i + 1; j < len(sorted); j++ {
			b := sorted[j]
			if b.Start > a.End {
				break // early-exit: sorted by start, nothing further can overlap a
			}
			if a.Class == b.Class {
				continue
			}
			frac := sequtil.OverlapFraction(a.Start, a.End, b.Start, b.End)
			if frac <= 0.50 || frac >= 0.99 {
				continue
			}
			classA, classB := a.Class, b.Class
			if classB < classA {
				classA, classB = classB, classA
			}
			start, end := a.Start, a.End
			if b.Start < start {
				start = b.Start
			}
			if b.End > end {
				end = b.End
			}
			key := dedupKey(start, end, classA, classB)
			if seen[key] {
				continue
			}
			seen[key] = true

			m := motif.Motif{
				ID:           motif.NewID(sequenceName, "hybrid", start),
				SequenceName: sequenceName,
				Class:        taxonomy.Hybrid,
				Subclass:     classA + "_" + classB + "_Overlap",
				Start:        start,
				End:          end,
				Length:       end - start + 1,
				Sequence:     string(sequence[start-1 : end]),
				RawScore:     (a.Score + b.Score) / 2,
				Score:        (a.Score + b.Score) / 2,
				Strand:       motif.Plus,
				Method:       "hybrid_overlap",
				PatternID:    "hybrid",
			}
			m.SetAttr("Overlap_Fraction", frac)
			out = append(out, m)
		}
	}
	return out
}

func dedupKey(start, end int, classA, classB string) string {
	return fmt.Sprintf("%d\x00%d\x00%s\x00%s", start, end, classA, classB)
}
