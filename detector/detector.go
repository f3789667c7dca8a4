// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package detector defines the contract every motif detector implements
// (spec.md §4.2) and the universal length-aware score normalizer shared by
// all of them.
package detector

import (
	"context"
	"math"

	"github.com/nonbdna/scanner/motif"
)

// Method names the normalization strategy a detector declares for its raw
// scores, per spec.md §4.2.
type Method int

const (
	// Linear is the default: clamp to [rmin,rmax], scale by length/cap.
	Linear Method = iota
	// Log applies log10 interpolation over [max(1,rmin), rmax] before the
	// same length-factor scaling as Linear.
	Log
	// G4Hunter is the piecewise mapping on |raw| used by the G-quadruplex
	// detector's G4Hunter-style scores.
	G4Hunter
	// Prenormalized means the detector's score function already returns a
	// value on the 1-3 scale directly (slipped-DNA mechanistic, triplex
	// thermodynamic, sticky-DNA piecewise); Normalize only clamps.
	Prenormalized
)

// PatternInfo describes one regex-like candidate pattern a detector
// scans for.
type PatternInfo struct {
	PatternID    string
	GroupName    string
	Subclass     string
	Pattern      string // regex source, or a descriptive tag for non-regex algorithms
	MinLength    int
	ScoreFunc    string
	MinScore     float64
	References   []string
}

// Detector is the contract every one of the nine motif-specific detectors
// implements (spec.md §4.2). All nine share this exact signature; per the
// resolved Open Question in SPEC_FULL.md, sequenceName is always accepted
// even by detectors whose IDs do not need it, for uniformity.
type Detector interface {
	ClassName() string
	Patterns() map[string][]PatternInfo
	Detect(ctx context.Context, sequence []byte, sequenceName string) ([]motif.Motif, error)
	TheoreticalMinScore() float64
	TheoreticalMaxScore(length int) float64
	LengthCap(subclass string) int
}

// Range describes the raw-score bounds and normalization method a detector
// declares for a given (class, subclass) score family.
type Range struct {
	Min, Max float64
	Method   Method
}

// Normalize maps a raw score onto the universal 1-3 scale, given the
// observed motif length and the class's structural length cap, per the
// algorithm in spec.md §4.2:
//
//  1. clamp r to [min,max] (or log-interpolate for Method==Log)
//  2. f_len = min(1, length/cap)
//  3. score = 1 + 2*min(1, s_raw*f_len), rounded to two decimals
//
// For Method==Prenormalized, raw is assumed already on [1,3] and is only
// clamped and rounded. For Method==G4Hunter, raw is the piecewise
// G4Hunter score and is mapped via the same s_raw*f_len formula using
// |raw| against the declared range.
func Normalize(raw float64, length, cap int, r Range) float64 {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		raw = 0
	}
	if cap <= 0 {
		cap = 1
	}
	flen := float64(length) / float64(cap)
	if flen > 1 {
		flen = 1
	}

	switch r.Method {
	case Prenormalized:
		return round2(clamp(raw, 1, 3))
	case Log:
		lo := r.Min
		if lo < 1 {
			lo = 1
		}
		hi := r.Max
		if hi <= lo {
			return round2(1 + 2*flen)
		}
		v := clamp(raw, lo, hi)
		sraw := (math.Log10(v) - math.Log10(lo)) / (math.Log10(hi) - math.Log10(lo))
		return round2(1 + 2*clampTop(sraw*flen))
	case G4Hunter:
		v := math.Abs(raw)
		hi := math.Abs(r.Max)
		if hi == 0 {
			hi = 1
		}
		sraw := clampTop(v / hi)
		return round2(1 + 2*clampTop(sraw*flen))
	default: // Linear
		v := clamp(raw, r.Min, r.Max)
		var sraw float64
		if r.Max == r.Min {
			sraw = 1
		} else {
			sraw = (v - r.Min) / (r.Max - r.Min)
		}
		return round2(1 + 2*clampTop(sraw*flen))
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampTop clamps v to at most 1 (values are assumed already non-negative).
func clampTop(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
