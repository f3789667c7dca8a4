// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package patternmatch provides the multi-pattern exact matcher and the
// k-mer windowed-hash utilities shared by several detectors (i-motif's and
// Z-DNA's validated-sequence libraries, the R-loop REZ search, and
// cruciform seed discovery). It exists because scanning a sequence once
// for dozens of literal motifs with repeated regexp.FindAllIndex calls is
// quadratic in practice; Aho-Corasick finds all of them in a single pass.
package patternmatch

// Match is one occurrence of a registered pattern in the scanned text.
type Match struct {
	PatternIndex int
	Start        int // 0-based, inclusive
	End          int // 0-based, exclusive
}

type node struct {
	children map[byte]int
	fail     int
	output   []int // indices into the Matcher's patterns slice that end here
}

// Matcher is an Aho-Corasick automaton over a fixed set of literal byte
// patterns, built once and reused across every sequence scanned in a run.
type Matcher struct {
	patterns [][]byte
	nodes    []node
}

// New builds a Matcher over patterns. Empty patterns are ignored.
func New(patterns [][]byte) *Matcher {
	m := &Matcher{patterns: patterns}
	m.nodes = []node{{children: make(map[byte]int)}}
	for i, p := range patterns {
		if len(p) == 0 {
			continue
		}
		m.insert(p, i)
	}
	m.buildFailureLinks()
	return m
}

// NewStrings is a convenience constructor for string-literal pattern sets.
func NewStrings(patterns []string) *Matcher {
	b := make([][]byte, len(patterns))
	for i, p := range patterns {
		b[i] = []byte(p)
	}
	return New(b)
}

func (m *Matcher) insert(p []byte, idx int) {
	cur := 0
	for _, c := range p {
		next, ok := m.nodes[cur].children[c]
		if !ok {
			m.nodes = append(m.nodes, node{children: make(map[byte]int)})
			next = len(m.nodes) - 1
			m.nodes[cur].children[c] = next
		}
		cur = next
	}
	m.nodes[cur].output = append(m.nodes[cur].output, idx)
}

func (m *Matcher) buildFailureLinks() {
	var queue []int
	for c, child := range m.nodes[0].children {
		m.nodes[child].fail = 0
		queue = append(queue, child)
		_ = c
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for c, child := range m.nodes[cur].children {
			queue = append(queue, child)
			f := m.nodes[cur].fail
			for {
				if next, ok := m.nodes[f].children[c]; ok && next != child {
					m.nodes[child].fail = next
					break
				}
				if f == 0 {
					m.nodes[child].fail = 0
					break
				}
				f = m.nodes[f].fail
			}
			m.nodes[child].output = append(m.nodes[child].output, m.nodes[m.nodes[child].fail].output...)
		}
	}
}

// Scan walks text once and invokes fn for every occurrence of every
// registered pattern, in text order.
func (m *Matcher) Scan(text []byte, fn func(Match)) {
	cur := 0
	for i, c := range text {
		for {
			if next, ok := m.nodes[cur].children[c]; ok {
				cur = next
				break
			}
			if cur == 0 {
				break
			}
			cur = m.nodes[cur].fail
		}
		for _, pidx := range m.nodes[cur].output {
			plen := len(m.patterns[pidx])
			fn(Match{PatternIndex: pidx, Start: i - plen + 1, End: i + 1})
		}
	}
}

// FindAll collects every match Scan would report, in text order.
func (m *Matcher) FindAll(text []byte) []Match {
	var out []Match
	m.Scan(text, func(mm Match) { out = append(out, mm) })
	return out
}

// Patterns exposes the registered pattern set, e.g. for mapping a
// Match.PatternIndex back to the subclass/score metadata that produced it.
func (m *Matcher) Patterns() [][]byte { return m.patterns }
