// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package patternmatch

// GPrefixSum builds a prefix-sum table over sequence where index i holds
// the count of 'G' bases in sequence[0:i]. It lets the R-loop REZ search
// (spec.md §4.7) answer "how many Gs in [s,e)" in O(1) instead of
// re-scanning the window on every candidate boundary.
func GPrefixSum(sequence []byte) []int {
	sums := make([]int, len(sequence)+1)
	for i, b := range sequence {
		sums[i+1] = sums[i]
		if b == 'G' {
			sums[i+1]++
		}
	}
	return sums
}

// RangeCount returns the count represented by a prefix-sum table (as built
// by GPrefixSum or CPrefixSum) over the half-open range [s,e).
func RangeCount(prefix []int, s, e int) int {
	if s < 0 {
		s = 0
	}
	if e > len(prefix)-1 {
		e = len(prefix) - 1
	}
	if e <= s {
		return 0
	}
	return prefix[e] - prefix[s]
}

// CPrefixSum builds a prefix-sum table counting 'C' bases, used by the
// i-motif detector's C-tract density scans.
func CPrefixSum(sequence []byte) []int {
	sums := make([]int, len(sequence)+1)
	for i, b := range sequence {
		sums[i+1] = sums[i]
		if b == 'C' {
			sums[i+1]++
		}
	}
	return sums
}

// rollingBase is the polynomial base used by the rolling hash below; chosen
// coprime with rollingMod and larger than the 4-letter alphabet so distinct
// short k-mers very rarely collide before the mod reduction.
const rollingBase = 131
const rollingMod = 1_000_000_007

// RollingHashes computes the Rabin-Karp rolling hash of every length-k
// window of sequence in O(n) total, used by the cruciform detector to find
// candidate inverted-repeat seeds by hashing a k-mer and its
// reverse-complement and comparing hash equality before a literal compare.
func RollingHashes(sequence []byte, k int) []uint64 {
	n := len(sequence)
	if k <= 0 || k > n {
		return nil
	}
	hashes := make([]uint64, n-k+1)
	var pow uint64 = 1
	for i := 0; i < k-1; i++ {
		pow = (pow * rollingBase) % rollingMod
	}
	var h uint64
	for i := 0; i < k; i++ {
		h = (h*rollingBase + uint64(sequence[i])) % rollingMod
	}
	hashes[0] = h
	for i := 1; i <= n-k; i++ {
		h = (h + rollingMod - (uint64(sequence[i-1])*pow)%rollingMod) % rollingMod
		h = (h*rollingBase + uint64(sequence[i+k-1])) % rollingMod
		hashes[i] = h
	}
	return hashes
}
