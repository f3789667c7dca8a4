// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sequtil provides small sequence-level primitives shared by every
// detector and by the pipeline's overlap-resolution stages: GC/AT content
// excluding ambiguous bases, reverse complementation, and a sorted-interval
// acceptance structure used for O(log n) overlap checks.
package sequtil

import (
	"sort"
)

// complement maps each IUPAC byte (upper case) to its complement. Bytes not
// present here (lower case, or anything outside the IUPAC codes listed in
// init) are left unchanged by ReverseComplement: callers are expected to
// upper-case input first, which pipeline's Analyze does before dispatching
// to any detector.
var complement = [256]byte{}

func init() {
	for i := range complement {
		complement[i] = byte(i)
	}
	pairs := map[byte]byte{
		'A': 'T', 'T': 'A', 'G': 'C', 'C': 'G', 'N': 'N',
		'R': 'Y', 'Y': 'R', 'S': 'S', 'W': 'W', 'K': 'M', 'M': 'K',
		'B': 'V', 'V': 'B', 'D': 'H', 'H': 'D',
	}
	for a, b := range pairs {
		complement[a] = b
	}
}

// ReverseComplement returns the reverse complement of s. Input is assumed
// to be upper-case IUPAC nucleotide codes.
func ReverseComplement(s []byte) []byte {
	out := make([]byte, len(s))
	n := len(s)
	for i, b := range s {
		out[n-1-i] = complement[b]
	}
	return out
}

// ambiguous reports whether b is anything other than unambiguous A/C/G/T.
func ambiguous(b byte) bool {
	switch b {
	case 'A', 'C', 'G', 'T':
		return false
	default:
		return true
	}
}

// GCContent returns the fraction of G/C bases over the count of
// unambiguous bases only (IUPAC ambiguity codes, including N, are excluded
// from both numerator and denominator). Returns 0 for a sequence with no
// unambiguous bases.
func GCContent(s []byte) float64 {
	var gc, total int
	for _, b := range s {
		if ambiguous(b) {
			continue
		}
		total++
		if b == 'G' || b == 'C' {
			gc++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(gc) / float64(total)
}

// ATContent returns the fraction of A/T bases over unambiguous bases.
func ATContent(s []byte) float64 {
	return 1 - GCContent(s)
}

// IntervalSet maintains a set of accepted, mutually non-overlapping
// half-open-free [start,end] (inclusive at both ends, in whatever
// coordinate base the caller uses; the detectors pass 0-based) intervals in sorted
// order, supporting an O(log n) conflict check via binary search on the
// start coordinates, per spec.md §4.13: a new candidate [s,e] conflicts
// with an already accepted interval iff the interval immediately before
// the insertion point ends at or after s, or the interval at the
// insertion point starts at or before e.
type IntervalSet struct {
	starts []int
	ends   []int
}

// NewIntervalSet returns an empty IntervalSet.
func NewIntervalSet() *IntervalSet {
	return &IntervalSet{}
}

// Conflicts reports whether [s,e] overlaps any interval already accepted
// into the set.
func (a *IntervalSet) Conflicts(s, e int) bool {
	idx := sort.SearchInts(a.starts, s)
	if idx > 0 && a.ends[idx-1] >= s {
		return true
	}
	if idx < len(a.starts) && a.starts[idx] <= e {
		return true
	}
	return false
}

// Accept inserts [s,e] into the set unconditionally, keeping starts/ends
// sorted by start. Callers must have already checked Conflicts.
func (a *IntervalSet) Accept(s, e int) {
	idx := sort.SearchInts(a.starts, s)
	a.starts = append(a.starts, 0)
	copy(a.starts[idx+1:], a.starts[idx:])
	a.starts[idx] = s
	a.ends = append(a.ends, 0)
	copy(a.ends[idx+1:], a.ends[idx:])
	a.ends[idx] = e
}

// TryAccept accepts [s,e] if it does not conflict with the current set and
// reports whether it was accepted.
func (a *IntervalSet) TryAccept(s, e int) bool {
	if a.Conflicts(s, e) {
		return false
	}
	a.Accept(s, e)
	return true
}

// Len reports the number of intervals currently accepted.
func (a *IntervalSet) Len() int { return len(a.starts) }

// OverlapFraction returns the fraction of overlap between [s1,e1] and
// [s2,e2] relative to the shorter of the two interval lengths. Returns 0
// for non-overlapping intervals.
func OverlapFraction(s1, e1, s2, e2 int) float64 {
	lo := s1
	if s2 > lo {
		lo = s2
	}
	hi := e1
	if e2 < hi {
		hi = e2
	}
	if hi < lo {
		return 0
	}
	overlap := hi - lo + 1
	len1 := e1 - s1 + 1
	len2 := e2 - s2 + 1
	shorter := len1
	if len2 < shorter {
		shorter = len2
	}
	if shorter <= 0 {
		return 0
	}
	return float64(overlap) / float64(shorter)
}

// Overlaps reports whether [s1,e1] and [s2,e2] share at least one base.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 <= e2 && s2 <= e1
}

// ValidBase reports whether b (upper case) is a valid input character:
// the unambiguous alphabet plus the standard IUPAC ambiguity codes.
func ValidBase(b byte) bool {
	switch b {
	case 'A', 'C', 'G', 'T', 'N', 'R', 'Y', 'S', 'W', 'K', 'M', 'B', 'D', 'H', 'V', 'U':
		return true
	default:
		return false
	}
}
