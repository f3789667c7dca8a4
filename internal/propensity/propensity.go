// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package propensity holds the immutable biophysical lookup tables used by
// the Z-DNA, A-philic and cruciform detectors (spec.md §6: "Propensity
// tables ... bundled with the tool ... treated as constants"). Each 10-mer
// (or dinucleotide-stack) score is built from a 16-entry per-dinucleotide
// table, the resolution at which these propensity scales are actually
// defined in the literature (Ho 1986 for Z-DNA; SantaLucia 1998 for
// nearest-neighbor stacking free energy), rather than as an infeasible
// 4^10-entry enumerated map.
package propensity

import "math"

// dinuc indexes a 16-entry table by a two-byte dinucleotide step.
func dinucIndex(a, b byte) int {
	return baseIndex(a)*4 + baseIndex(b)
}

func baseIndex(b byte) int {
	switch b {
	case 'A':
		return 0
	case 'C':
		return 1
	case 'G':
		return 2
	case 'T':
		return 3
	default:
		return 0
	}
}

// zdnaPropensity is the per-dinucleotide-step Z-DNA forming propensity
// (Ho et al. 1986 style scale): purine-pyrimidine alternation (CG/GC, CA/TG)
// steps score highest, homopolymeric steps score at or below zero.
var zdnaPropensity = [16]float64{
	// AA   AC   AG   AT
	-0.5, 1.0, 0.4, -0.2,
	// CA   CC   CG   CT
	1.1, -0.3, 3.5, 0.4,
	// GA   GC   GG   GT
	0.4, 3.3, -0.3, 1.0,
	// TA   TC   TG   TT
	-0.2, 0.4, 1.1, -0.5,
}

// ZDNAScore returns the summed per-step Z-DNA propensity of a 10-mer (or
// any length-N window ≥2 bases): the sum of the N-1 dinucleotide step
// scores. The per-base contribution (score/10) used for region
// accumulation is computed by the zdna and aphilic detectors themselves.
func ZDNAScore(tenmer []byte) float64 {
	if len(tenmer) < 2 {
		return 0
	}
	var sum float64
	for i := 0; i+1 < len(tenmer); i++ {
		sum += zdnaPropensity[dinucIndex(tenmer[i], tenmer[i+1])]
	}
	return sum
}

// aphilicLogOdds is the per-dinucleotide-step A-philic DNA log2-odds table:
// A-tract-compatible steps (AA, AT, TA, TT and their purine-rich
// neighbours) score positive, GC-rich alternating steps score negative.
var aphilicLogOdds = [16]float64{
	// AA    AC    AG    AT
	0.35, -0.10, 0.05, 0.30,
	// CA    CC    CG    CT
	0.05, -0.25, -0.40, -0.05,
	// GA    GC    GG    GT
	0.10, -0.35, -0.20, 0.05,
	// TA    TC    TG    TT
	0.25, -0.05, 0.10, 0.35,
}

// APhilicScore returns the summed per-step A-philic log2-odds of a 10-mer.
func APhilicScore(tenmer []byte) float64 {
	if len(tenmer) < 2 {
		return 0
	}
	var sum float64
	for i := 0; i+1 < len(tenmer); i++ {
		sum += aphilicLogOdds[dinucIndex(tenmer[i], tenmer[i+1])]
	}
	return sum
}

// nnDeltaG is the standard SantaLucia (1998) unified nearest-neighbor
// dinucleotide stacking free energy table in kcal/mol at 37°C, 1M NaCl.
// Values are symmetric under reverse-complementation (AA/TT share a value
// with TT/AA, etc.) so a single 16-entry table indexed by the 5'->3'
// dinucleotide suffices.
var nnDeltaG = [16]float64{
	// AA    AC    AG    AT
	-1.00, -1.44, -1.28, -0.88,
	// CA    CC    CG    CT
	-1.45, -1.84, -2.17, -1.28,
	// GA    GC    GG    GT
	-1.30, -2.24, -1.84, -1.44,
	// TA    TC    TG    TT
	-0.58, -1.30, -1.45, -1.00,
}

// StemDeltaG returns the nearest-neighbor stacking free energy (kcal/mol)
// of a double-stranded stem given the 5'->3' arm sequence (the stem is
// assumed to be arm paired with its reverse complement), plus a loop
// initiation penalty per spec.md §4.6:
//
//	loop == 0        -> 4.0
//	loop > 0          -> 1.75 + 0.6*ln(loop)
func StemDeltaG(arm []byte, loopLen int) float64 {
	var sum float64
	for i := 0; i+1 < len(arm); i++ {
		sum += nnDeltaG[dinucIndex(arm[i], arm[i+1])]
	}
	sum += loopPenalty(loopLen)
	return sum
}

func loopPenalty(loopLen int) float64 {
	if loopLen <= 0 {
		return 4.0
	}
	return 1.75 + 0.6*math.Log(float64(loopLen))
}
