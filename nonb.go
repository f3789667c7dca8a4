// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nonb is the public facade over the non-B DNA structural motif
// scanner: a registry of the nine motif detectors wired into the
// pipeline orchestrator, plus thin FASTA/GFF adapters for the CLI.
package nonb

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq"
	"github.com/biogo/biogo/seq/linear"

	"github.com/nonbdna/scanner/detector"
	"github.com/nonbdna/scanner/detectors/aphilic"
	"github.com/nonbdna/scanner/detectors/cruciform"
	"github.com/nonbdna/scanner/detectors/curved"
	"github.com/nonbdna/scanner/detectors/gquad"
	"github.com/nonbdna/scanner/detectors/imotif"
	"github.com/nonbdna/scanner/detectors/rloop"
	"github.com/nonbdna/scanner/detectors/slipped"
	"github.com/nonbdna/scanner/detectors/triplex"
	"github.com/nonbdna/scanner/detectors/zdna"
	"github.com/nonbdna/scanner/motif"
	"github.com/nonbdna/scanner/pipeline"
	"github.com/nonbdna/scanner/taxonomy"
)

var (
	registryOnce sync.Once
	registry     map[string]detector.Detector
)

// detectors lazily builds the process-wide detector registry exactly
// once, the same init-lock-guarded singleton shape SPEC_FULL.md's
// concurrency mapping describes for the cached pattern/detector set.
func detectors() map[string]detector.Detector {
	registryOnce.Do(func() {
		registry = map[string]detector.Detector{
			taxonomy.GQuadruplex: gquad.New(),
			taxonomy.IMotif:      imotif.New(),
			taxonomy.ZDNA:        zdna.New(),
			taxonomy.Cruciform:   cruciform.New(),
			taxonomy.Triplex:     triplex.New(),
			taxonomy.RLoop:       rloop.New(),
			taxonomy.SlippedDNA:  slipped.New(),
			taxonomy.CurvedDNA:   curved.New(),
			taxonomy.APhilicDNA:  aphilic.New(),
		}
	})
	return registry
}

// Option configures an Analyze call by mutating the pipeline.Options it
// will be run with.
type Option func(*pipeline.Options)

// WithContext sets the cancellation context for the run.
func WithContext(ctx context.Context) Option {
	return func(o *pipeline.Options) { o.Context = ctx }
}

// WithClasses restricts detection to the named taxonomy classes (or
// recognized aliases). A nil or empty list means every registered
// detector runs.
func WithClasses(classes ...string) Option {
	return func(o *pipeline.Options) { o.EnabledClasses = classes }
}

// WithStrict turns unknown requested class names into a hard error
// instead of a logged-and-skipped warning.
func WithStrict(strict bool) Option {
	return func(o *pipeline.Options) { o.Strict = strict }
}

// WithChunking overrides the chunk size and inter-chunk overlap used
// once the sequence crosses pipeline.ChunkingThreshold.
func WithChunking(chunkSize, overlap int) Option {
	return func(o *pipeline.Options) {
		o.ChunkSize = chunkSize
		o.ChunkOverlap = overlap
	}
}

// WithParallelChunks enables concurrent chunk analysis in addition to
// the default concurrent per-chunk detector dispatch.
func WithParallelChunks(enabled bool) Option {
	return func(o *pipeline.Options) { o.UseParallelChunks = enabled }
}

// WithProgress installs a progress callback invoked after each detector
// completes within a chunk.
func WithProgress(fn pipeline.ProgressFunc) Option {
	return func(o *pipeline.Options) { o.Progress = fn }
}

// WithSpoolPath names the file the adaptive chunker's spool database is
// written to, and left behind, once a sequence crosses the three-tier
// macro/meso/micro chunking threshold (spec.md §4.16). Left unset, the
// scanner uses a temporary spool and removes it when the run completes;
// tools such as cmd/nonbaudit need an explicit path to inspect afterward.
func WithSpoolPath(path string) Option {
	return func(o *pipeline.Options) { o.SpoolPath = path }
}

// Analyze runs every applicable non-B DNA structural motif detector over
// sequence and returns the fully assembled, sorted, deduplicated motif
// list for it. It is the single public entry point described in
// SPEC_FULL.md §6.
func Analyze(ctx context.Context, sequence []byte, name string, opts ...Option) ([]motif.Motif, error) {
	o := pipeline.Options{Context: ctx}
	for _, opt := range opts {
		opt(&o)
	}
	orch := pipeline.New(detectors())
	return orch.Analyze(sequence, name, o)
}

// FastaReader adapts biogo's FASTA reader to this package's single-record
// read idiom, mirroring the teacher's own seqio.NewScanner-over-fasta.Reader
// construction in cmd/ins/fragment.go's split, but surfacing only the
// plain (name, sequence bytes) pair the scanner needs.
type FastaReader struct {
	scanner *seqio.Scanner
}

// NewFastaReader wraps r as a FastaReader over DNA sequences.
func NewFastaReader(r io.Reader) *FastaReader {
	return &FastaReader{
		scanner: seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNA))),
	}
}

// Next returns the next record's name and raw sequence bytes, or
// io.EOF once the reader is exhausted.
func (f *FastaReader) Next() (name string, sequence []byte, err error) {
	if !f.scanner.Next() {
		if err := f.scanner.Error(); err != nil {
			return "", nil, fmt.Errorf("nonb: reading fasta record: %w", err)
		}
		return "", nil, io.EOF
	}
	s := f.scanner.Seq().(*linear.Seq)
	return s.ID, []byte(s.Seq.String()), nil
}

// GFFWriter adapts biogo's GFF3 writer to emit one feature line per
// motif, grounded on the teacher's own gff.NewWriter/gff.Feature usage
// in cmd/ins/main.go.
type GFFWriter struct {
	enc *gff.Writer
}

// NewGFFWriter wraps w as a GFF3 writer.
func NewGFFWriter(w io.Writer) *GFFWriter {
	return &GFFWriter{enc: gff.NewWriter(w, 60, true)}
}

// Write emits one GFF3 feature line for m.
func (g *GFFWriter) Write(m motif.Motif) error {
	score := m.Score
	strand := seq.Strand(0)
	switch m.Strand {
	case motif.Plus:
		strand = seq.Plus
	case motif.Minus:
		strand = seq.Minus
	}
	_, err := g.enc.Write(&gff.Feature{
		SeqName:    m.SequenceName,
		Source:     "nonbscan",
		Feature:    m.Class,
		FeatStart:  m.Start,
		FeatEnd:    m.End,
		FeatScore:  &score,
		FeatStrand: strand,
		FeatFrame:  gff.NoFrame,
		FeatAttributes: gff.Attributes{{
			Tag:   "Subclass",
			Value: m.Subclass,
		}},
	})
	if err != nil {
		return fmt.Errorf("nonb: writing gff feature: %w", err)
	}
	return nil
}

// Exporter is named but deliberately left unimplemented beyond
// FastaReader/GFFWriter: CSV, BED, JSON, Excel export, multi-FASTA
// aggregation and visualization are thin-adapter concerns a caller can
// build over the []motif.Motif result without this package's help.
type Exporter interface {
	Write(m motif.Motif) error
}
