// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"modernc.org/kv"

	"github.com/nonbdna/scanner/motif"
)

// Tier sizes for the optional three-tier adaptive chunker (spec.md §4.16),
// used only above roughly 100MB of sequence; ordinary Analyze calls use
// the single-level chunking in pipeline.go.
const (
	macroTierSize = 100_000_000
	mesoTierSize  = 10_000_000
	microTierSize = 5_000_000
	microOverlap  = 2_000
)

// AdaptiveChunker spools per-tier motif batches through an embedded
// ordered key-value store (modernc.org/kv) rather than holding every
// tier's intermediate results in memory at once, adapting the teacher's
// own use of modernc.org/kv in cmd/ins/fragment.go's merge to spool
// BLAST-hit regions during a two-pass proximity merge. Here the same
// store holds length-prefixed, offset-ordered serialized motifs; Drain
// reads them all back into one slice in coordinate order.
type AdaptiveChunker struct {
	db   *kv.DB
	path string
}

// NewAdaptiveChunker creates (or truncates) a spool database at path.
func NewAdaptiveChunker(path string) (*AdaptiveChunker, error) {
	_ = os.Remove(path)
	db, err := kv.Create(path, &kv.Options{})
	if err != nil {
		return nil, fmt.Errorf("pipeline: creating chunk spool: %w", err)
	}
	return &AdaptiveChunker{db: db, path: path}, nil
}

// Close releases the underlying store.
func (c *AdaptiveChunker) Close() error { return c.db.Close() }

// OpenSpool opens an existing chunk spool database read-only, for
// out-of-process inspection tools such as cmd/nonbaudit; it does not
// truncate the file the way NewAdaptiveChunker does.
func OpenSpool(path string) (*AdaptiveChunker, error) {
	db, err := kv.Open(path, &kv.Options{})
	if err != nil {
		return nil, fmt.Errorf("pipeline: opening chunk spool: %w", err)
	}
	return &AdaptiveChunker{db: db, path: path}, nil
}

// MacroTiers splits a sequence length into macro-tier [start,end) spans.
func MacroTiers(seqLen int) [][2]int { return tiers(seqLen, macroTierSize, 0) }

// MesoTiers splits one macro tier into meso-tier spans.
func MesoTiers(start, end int) [][2]int { return tiersInRange(start, end, mesoTierSize, 0) }

// MicroTiers splits one meso tier into micro-tier spans with the
// 2kb overlap used for the final detector-facing chunk size.
func MicroTiers(start, end int) [][2]int { return tiersInRange(start, end, microTierSize, microOverlap) }

func tiers(seqLen, size, overlap int) [][2]int { return tiersInRange(0, seqLen, size, overlap) }

func tiersInRange(start, end, size, overlap int) [][2]int {
	var out [][2]int
	for s := start; s < end; s += size {
		e := s + size + overlap
		if e > end {
			e = end
		}
		out = append(out, [2]int{s, e})
		if e == end {
			break
		}
	}
	return out
}

// motifKey builds an ordered byte key so kv's lexicographic default
// Compare function yields ascending-start-then-end traversal order,
// adapting the big-endian fixed-width key encoding the teacher's
// internal/store package uses for BLAST record keys. tierIndex and seq
// (the motif's position within its tier's batch) break ties between
// distinct motifs that share a (start, end) span, which otherwise
// overlapping micro tiers can produce.
func motifKey(start, end, tierIndex, seq int) []byte {
	b := make([]byte, 24)
	binary.BigEndian.PutUint64(b[0:8], uint64(start))
	binary.BigEndian.PutUint64(b[8:16], uint64(end))
	binary.BigEndian.PutUint32(b[16:20], uint32(tierIndex))
	binary.BigEndian.PutUint32(b[20:24], uint32(seq))
	return b
}

// Spool serializes and stores one tier's motif batch, each motif keyed by
// its (start, end) span plus tierIndex and batch position. Stored motifs
// are read back only through Drain; duplicates across overlapping tiers
// are kept here and removed later by the pipeline's boundary dedup.
func (c *AdaptiveChunker) Spool(tierIndex int, motifs []motif.Motif) error {
	for i, m := range motifs {
		key := motifKey(m.Start, m.End, tierIndex, i)
		val := encodeMotif(m)
		if err := c.db.Set(key, val); err != nil {
			return fmt.Errorf("pipeline: spooling motif: %w", err)
		}
	}
	return nil
}

// Drain streams every spooled motif back out in key order (i.e. sorted by
// start then end), the order the chunk-boundary deduplicator needs.
func (c *AdaptiveChunker) Drain() ([]motif.Motif, error) {
	it, err := c.db.SeekFirst()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("pipeline: seeking chunk spool: %w", err)
	}
	var out []motif.Motif
	for {
		_, v, err := it.Next()
		if err != nil {
			break
		}
		m, derr := decodeMotif(v)
		if derr != nil {
			return nil, derr
		}
		out = append(out, m)
	}
	return out, nil
}

// encodeMotif and decodeMotif use a minimal length-prefixed field encoding
// rather than encoding/gob, since the field set is fixed. The same format
// is read back by Drain both in-process and, through OpenSpool, by
// cmd/nonbaudit. Attributes are not encoded, so drained motifs carry none.
func encodeMotif(m motif.Motif) []byte {
	fields := []string{m.ID, m.SequenceName, m.Class, m.Subclass, m.Sequence, m.Method, m.PatternID, string(m.Strand)}
	var buf []byte
	for _, f := range fields {
		lb := make([]byte, 2)
		binary.BigEndian.PutUint16(lb, uint16(len(f)))
		buf = append(buf, lb...)
		buf = append(buf, f...)
	}
	num := make([]byte, 40)
	binary.BigEndian.PutUint64(num[0:8], uint64(m.Start))
	binary.BigEndian.PutUint64(num[8:16], uint64(m.End))
	binary.BigEndian.PutUint64(num[16:24], uint64(m.Length))
	binary.BigEndian.PutUint64(num[24:32], math.Float64bits(m.RawScore))
	binary.BigEndian.PutUint64(num[32:40], math.Float64bits(m.Score))
	buf = append(buf, num...)
	return buf
}

func decodeMotif(b []byte) (motif.Motif, error) {
	var fields [8]string
	off := 0
	for i := range fields {
		if off+2 > len(b) {
			return motif.Motif{}, fmt.Errorf("pipeline: truncated motif record")
		}
		l := int(binary.BigEndian.Uint16(b[off : off+2]))
		off += 2
		if off+l > len(b) {
			return motif.Motif{}, fmt.Errorf("pipeline: truncated motif field")
		}
		fields[i] = string(b[off : off+l])
		off += l
	}
	if off+40 > len(b) {
		return motif.Motif{}, fmt.Errorf("pipeline: truncated motif numeric tail")
	}
	start := int(binary.BigEndian.Uint64(b[off : off+8]))
	end := int(binary.BigEndian.Uint64(b[off+8 : off+16]))
	length := int(binary.BigEndian.Uint64(b[off+16 : off+24]))
	raw := math.Float64frombits(binary.BigEndian.Uint64(b[off+24 : off+32]))
	score := math.Float64frombits(binary.BigEndian.Uint64(b[off+32 : off+40]))

	var strand motif.Strand
	if len(fields[7]) > 0 {
		strand = motif.Strand(fields[7][0])
	}

	return motif.Motif{
		ID:           fields[0],
		SequenceName: fields[1],
		Class:        fields[2],
		Subclass:     fields[3],
		Sequence:     fields[4],
		Method:       fields[5],
		PatternID:    fields[6],
		Strand:       strand,
		Start:        start,
		End:          end,
		Length:       length,
		RawScore:     raw,
		Score:        score,
	}, nil
}
