// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// nonbcull is a tool to remove lower-scoring motif features from a GFF
// file produced by nonbscan. It discards features of the same class and
// Subclass attribute that are completely contained within a
// higher-scoring feature of that same (class, subclass) pair. Features
// that only partly overlap are kept; this is narrower than
// pipeline.removeIntraClassOverlaps, which rejects any intersection. This
// tool applies the containment rule to a GFF file assembled from multiple
// nonbscan runs (e.g. one per chromosome) after the fact.
//
// usage: nonbcull < infile.gff > outfile.gff
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/store/interval"
)

func main() {
	flag.Usage = func() {
		fmt.Println(`usage: nonbcull < infile.gff > outfile.gff`)
		os.Exit(0)
	}
	flag.Parse()

	r := gff.NewReader(os.Stdin)
	sc := featio.NewScanner(r)
	var feats []*gff.Feature
	for sc.Next() {
		feats = append(feats, sc.Feat().(*gff.Feature))
	}
	if err := sc.Error(); err != nil {
		log.Fatal(err)
	}

	w := gff.NewWriter(os.Stdout, 60, true)
	for _, f := range cullContained(feats) {
		if _, err := w.Write(f); err != nil {
			log.Fatal(err)
		}
	}
}

func subclassOf(f *gff.Feature) string {
	for _, a := range f.FeatAttributes {
		if a.Tag == "Subclass" {
			return a.Value
		}
	}
	return ""
}

// cullContained returns hits with every feature removed that is fully
// contained within a higher-scoring feature sharing its (Feature class,
// Subclass) pair; features of a differing class or subclass, or without
// a score, are always retained.
func cullContained(hits []*gff.Feature) []*gff.Feature {
	groups := map[string][]*gff.Feature{}
	for _, f := range hits {
		if f.FeatScore == nil {
			continue
		}
		key := f.Feature + "\x00" + subclassOf(f)
		groups[key] = append(groups[key], f)
	}

	culled := make(map[*gff.Feature]bool)
	for _, group := range groups {
		var tree interval.IntTree
		for i, f := range group {
			if err := tree.Insert(subjectInterval{uid: uintptr(i), Feature: f}, true); err != nil {
				log.Fatal(err)
			}
		}
		tree.AdjustRanges()
	outer:
		for _, f := range group {
			o := tree.Get(subjectInterval{Feature: f})
			for _, h := range o {
				other := h.(subjectInterval).Feature
				if other == f {
					continue
				}
				if *other.FeatScore > *f.FeatScore {
					culled[f] = true
					continue outer
				}
			}
		}
	}

	var out []*gff.Feature
	for _, f := range hits {
		if !culled[f] {
			out = append(out, f)
		}
	}
	return out
}

type subjectInterval struct {
	uid uintptr
	*gff.Feature
}

// Overlap returns whether the b interval completely contains i.
func (i subjectInterval) Overlap(b interval.IntRange) bool {
	return b.Start <= i.FeatStart && i.FeatEnd <= b.End
}
func (i subjectInterval) ID() uintptr { return i.uid }
func (i subjectInterval) Range() interval.IntRange {
	return interval.IntRange{Start: i.FeatStart, End: i.FeatEnd}
}
