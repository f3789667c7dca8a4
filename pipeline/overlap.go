// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"sort"

	"github.com/biogo/store/interval"

	"github.com/nonbdna/scanner/motif"
)

// ivl adapts a motif index into an interval.Interval for overlap queries
// against a biogo/store/interval.Tree, generalizing the teacher's
// cullContained helper (cmd/ins/main.go) from culling BLAST hits contained
// within a higher-scoring hit to culling same-(class,subclass) motifs that
// intersect an already-accepted motif.
type ivl struct {
	id         uintptr
	start, end int
}

func (v *ivl) Overlap(b interval.IntRange) bool {
	return v.start < b.End && b.Start < v.end
}
func (v *ivl) ID() uintptr            { return v.id }
func (v *ivl) Range() interval.IntRange { return interval.IntRange{Start: v.start, End: v.end} }
func (v *ivl) String() string         { return "" }

// removeIntraClassOverlaps implements spec.md §4.13: within each
// (class, subclass) group, accept motifs in decreasing (score, length)
// order, rejecting any that intersect an already-accepted interval. A
// biogo/store/interval.Tree answers the "does this candidate overlap
// anything already accepted" query, the same role it plays for the
// teacher's own repeat-overlap culling.
func removeIntraClassOverlaps(motifs []motif.Motif) []motif.Motif {
	groups := map[string][]motif.Motif{}
	for _, m := range motifs {
		key := m.Class + "\x00" + m.Subclass
		groups[key] = append(groups[key], m)
	}

	var out []motif.Motif
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool {
			if group[i].Score != group[j].Score {
				return group[i].Score > group[j].Score
			}
			return group[i].Length > group[j].Length
		})

		tree := &interval.Tree{}
		var id uintptr
		for _, m := range group {
			q := &ivl{start: m.Start - 1, end: m.End}
			if len(tree.Get(q)) > 0 {
				continue
			}
			id++
			e := &ivl{id: id, start: m.Start - 1, end: m.End}
			if err := tree.Insert(e, false); err != nil {
				continue
			}
			out = append(out, m)
		}
	}
	sort.Sort(motif.By(out))
	return out
}
