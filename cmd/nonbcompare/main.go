// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The nonbcompare program compares the motifs in two nonbscan GFF outputs.
// It takes two GFF file inputs and compares overlapping regions. The
// output is the number of bases that agree between the inputs, the
// number of bases covered in one but not the other, and the number of
// bases where the annotated motif class or subclass differs. These
// analyses are done for both class and subclass, and are emitted on
// stdout as a JSON object.
//
// If a dot flag is provided, descriptions of the discordances between
// the two motif sets are written as a graph in DOT format, with edge
// weights representing counts of mismatched bases.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"sort"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/store/step"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

func main() {
	aFile := flag.String("a", "", "specify the input file a name (required)")
	bFile := flag.String("b", "", "specify the input file b name (required)")
	out := flag.String("dot", "", "specify prefix for DOT files describing disagreements")
	none := flag.String("none", "none", "specify label for 'no motif'")

	flag.Parse()
	if *aFile == "" || *bFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	chrs := make(map[string]bool)
	classes := make(map[string]*step.Vector)
	subclasses := make(map[string]*step.Vector)

	load := func(path string, pick func(p *pair, score float64, class, subclass string)) error {
		return steps(path, func(f *gff.Feature) error {
			chrs[f.SeqName] = true
			class, subclass := classSubclassOf(f)
			score := 0.0
			if f.FeatScore != nil {
				score = *f.FeatScore
			}

			cv, ok := classes[f.SeqName]
			if !ok {
				var err error
				cv, err = step.New(0, 1, pair{})
				if err != nil {
					return err
				}
				cv.Relaxed = true
				classes[f.SeqName] = cv
			}
			if err := cv.ApplyRange(f.FeatStart, f.FeatEnd, func(e step.Equaler) step.Equaler {
				p := e.(pair)
				pick(&p, score, class, "")
				return p
			}); err != nil {
				return err
			}

			sv, ok := subclasses[f.SeqName]
			if !ok {
				var err error
				sv, err = step.New(0, 1, pair{})
				if err != nil {
					return err
				}
				sv.Relaxed = true
				subclasses[f.SeqName] = sv
			}
			return sv.ApplyRange(f.FeatStart, f.FeatEnd, func(e step.Equaler) step.Equaler {
				p := e.(pair)
				pick(&p, score, subclass, "")
				return p
			})
		})
	}

	if err := load(*aFile, func(p *pair, score float64, v, _ string) {
		if score > p.aScore || p.a == "" {
			p.a = v
			p.aScore = score
		}
	}); err != nil {
		log.Fatal(err)
	}
	if err := load(*bFile, func(p *pair, score float64, v, _ string) {
		if score > p.bScore || p.b == "" {
			p.b = v
			p.bScore = score
		}
	}); err != nil {
		log.Fatal(err)
	}

	var chroms []string
	for c := range chrs {
		chroms = append(chroms, c)
	}
	sort.Strings(chroms)

	classReport, classMismatches := tally(chroms, classes)
	subclassReport, subclassMismatches := tally(chroms, subclasses)

	type report struct {
		Class    record `json:"class"`
		Subclass record `json:"subclass"`
	}
	m, err := json.Marshal(report{Class: classReport, Subclass: subclassReport})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s\n", m)

	if *out != "" {
		if err := dotOut(*out+".class.dot", *aFile, *bFile, classMismatches, *none); err != nil {
			log.Fatal(err)
		}
		if err := dotOut(*out+".subclass.dot", *aFile, *bFile, subclassMismatches, *none); err != nil {
			log.Fatal(err)
		}
	}
}

type record struct {
	Agree    int `json:"agree"`
	AMissing int `json:"a-missing"`
	BMissing int `json:"b-missing"`
	Mismatch int `json:"mismatch"`
}

func tally(chroms []string, vectors map[string]*step.Vector) (record, map[names]int) {
	var (
		agree, aMissing, bMissing, mismatch int
		mismatches                          = make(map[names]int)
	)
	for _, chr := range chroms {
		v, ok := vectors[chr]
		if !ok {
			continue
		}
		v.Do(func(start, end int, e step.Equaler) {
			p := e.(pair)
			if p.isZero() {
				return
			}
			length := end - start
			switch {
			case p.a == p.b:
				agree += length
			case p.a == "":
				aMissing += length
				mismatches[names{a: "", b: p.b}] += length
			case p.b == "":
				bMissing += length
				mismatches[names{a: p.a, b: ""}] += length
			default:
				mismatch += length
				mismatches[p.names] += length
			}
		})
	}
	return record{Agree: agree, AMissing: aMissing, BMissing: bMissing, Mismatch: mismatch}, mismatches
}

func steps(path string, fn func(*gff.Feature) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	r := gff.NewReader(f)
	sc := featio.NewScanner(r)
	for sc.Next() {
		gf := sc.Feat().(*gff.Feature)
		if err := fn(gf); err != nil {
			return err
		}
	}
	return sc.Error()
}

// classSubclassOf reads the motif class from the GFF Feature field (the
// value nonb.GFFWriter writes there) and the subclass from the
// "Subclass" attribute tag it writes alongside.
func classSubclassOf(f *gff.Feature) (class, subclass string) {
	return f.Feature, f.FeatAttributes.Get("Subclass")
}

// pair is a step vector element holding two string values (repeat class
// or subclass names) contributed by each of the two compared files.
type pair struct {
	names

	aScore float64
	bScore float64
}

type names struct {
	a, b string
}

func (p pair) isZero() bool {
	return p.names == names{}
}

func (p pair) Equal(e step.Equaler) bool {
	return p.names == e.(pair).names
}

func dotOut(path, aFile, bFile string, edges map[names]int, none string) error {
	g := newNameGraph(none)
	for p, w := range edges {
		e := edge{
			f: g.nodeFor(aFile, p.a),
			t: g.nodeFor(bFile, p.b),
			w: float64(w),
		}
		g.SetWeightedEdge(e)
	}
	b, err := dot.Marshal(g, "discord", "", "\t")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, b, 0o664)
}

type nameGraph struct {
	*simple.WeightedUndirectedGraph
	idFor map[string]int64
	none  string
}

func newNameGraph(none string) nameGraph {
	return nameGraph{
		WeightedUndirectedGraph: simple.NewWeightedUndirectedGraph(0, 0),
		idFor:                   make(map[string]int64),
		none:                    none,
	}
}

func (g nameGraph) nodeFor(file, s string) graph.Node {
	if s == "" {
		s = g.none
	}
	s = file + ":" + s
	id, ok := g.idFor[s]
	if ok {
		return g.Node(id)
	}
	id = g.WeightedUndirectedGraph.NewNode().ID()
	g.idFor[s] = id
	n := node{id: id, name: s}
	g.AddNode(n)
	return n
}

type node struct {
	id   int64
	name string
}

func (n node) ID() int64     { return n.id }
func (n node) DOTID() string { return n.name }

type edge struct {
	f, t graph.Node
	w    float64
}

func (e edge) From() graph.Node         { return e.f }
func (e edge) To() graph.Node           { return e.t }
func (e edge) ReversedEdge() graph.Edge { return edge{f: e.t, t: e.f, w: e.w} }
func (e edge) Weight() float64          { return e.w }
func (e edge) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "weight", Value: fmt.Sprint(e.w)}}
}
