// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipeline implements the orchestrator (spec.md §4.12): input
// validation, chunking, parallel detector dispatch, overlap removal,
// hybrid/cluster synthesis and chunk-boundary deduplication.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/projectdiscovery/gologger"
	"golang.org/x/sync/errgroup"

	"github.com/nonbdna/scanner/detector"
	"github.com/nonbdna/scanner/internal/nonberr"
	"github.com/nonbdna/scanner/motif"
	"github.com/nonbdna/scanner/sequtil"
	"github.com/nonbdna/scanner/taxonomy"
)

// DetectorParallelThreshold is the sequence-length trigger (spec.md §9,
// §4.12) above which the nine detectors run as concurrent tasks rather
// than sequentially within a chunk.
const DetectorParallelThreshold = 50_000

// ChunkingThreshold is the sequence-length trigger above which the
// sequence is tiled into chunks rather than analyzed in one pass.
const ChunkingThreshold = 1_000_000

// ProgressFunc is the caller-supplied progress callback described in
// spec.md §6: detector name, completed/total detector count, elapsed
// seconds, and the running motif count.
type ProgressFunc func(detectorName string, completed, total int, elapsedSec float64, motifCount int)

// Options configures one Analyze call. Zero value is a usable default:
// chunking and detector parallelism auto-enable above their thresholds,
// every registered class runs, and taxonomy normalization is lenient.
type Options struct {
	Context context.Context

	EnabledClasses []string // nil or empty means "all registered detectors"
	Strict         bool     // unknown EnabledClasses names fail with nonberr.UnknownClass instead of being skipped

	ChunkSize    int // default 500_000
	ChunkOverlap int // default 2_000

	UseChunking          *bool // nil -> auto by ChunkingThreshold
	UseParallelDetectors *bool // nil -> auto by DetectorParallelThreshold
	UseParallelChunks    bool

	// SpoolPath, if set, names the file the adaptive chunker's spool
	// database is written to (and left behind) when a sequence crosses
	// macroTierSize and the three-tier macro/meso/micro hierarchy engages
	// (spec.md §4.16). Left empty, a temporary spool is used and removed
	// once the run completes.
	SpoolPath string

	Progress ProgressFunc
}

func (o Options) chunkSize() int {
	if o.ChunkSize > 0 {
		return o.ChunkSize
	}
	return 500_000
}

func (o Options) chunkOverlap() int {
	if o.ChunkOverlap > 0 {
		return o.ChunkOverlap
	}
	return 2_000
}

func (o Options) context() context.Context {
	if o.Context != nil {
		return o.Context
	}
	return context.Background()
}

// Orchestrator runs the registered detector set over a sequence according
// to an Options configuration. It owns no mutable shared state beyond the
// detector registry itself, which is immutable once built.
type Orchestrator struct {
	detectors map[string]detector.Detector
}

// New builds an Orchestrator over the given detector registry, keyed by
// canonical class name.
func New(detectors map[string]detector.Detector) *Orchestrator {
	return &Orchestrator{detectors: detectors}
}

// Analyze implements spec.md §4.12's top-level analyze operation.
func (o *Orchestrator) Analyze(sequence []byte, sequenceName string, opts Options) ([]motif.Motif, error) {
	ctx := opts.context()

	sequence = bytes.ToUpper(bytes.TrimSpace(sequence))
	if len(sequence) == 0 {
		gologger.Warning().Msgf("%s: empty sequence, returning no motifs", sequenceName)
		return nil, nonberr.EmptySequence
	}
	if len(sequence) < 10 {
		gologger.Warning().Msgf("%s: sequence shorter than minimum analyzable length (%d bp)", sequenceName, len(sequence))
		return nil, nonberr.TooShort
	}
	for _, b := range sequence {
		if !sequtil.ValidBase(b) {
			return nil, fmt.Errorf("%w: byte %q", nonberr.InvalidCharacter, b)
		}
	}
	allN := true
	for _, b := range sequence {
		if b != 'N' {
			allN = false
			break
		}
	}
	if allN {
		gologger.Warning().Msgf("%s: sequence contains only N bases, returning no motifs", sequenceName)
		return nil, nil
	}

	detectors, err := o.enabledDetectors(opts.EnabledClasses, opts.Strict)
	if err != nil {
		return nil, err
	}
	if len(detectors) == 0 {
		return nil, nil
	}

	useChunking := len(sequence) >= ChunkingThreshold
	if opts.UseChunking != nil {
		useChunking = *opts.UseChunking
	}

	var all []motif.Motif
	switch {
	case !useChunking:
		m, err := o.runChunk(ctx, sequence, sequenceName, 0, detectors, opts)
		if err != nil {
			return nil, err
		}
		all = m
	case len(sequence) >= macroTierSize:
		m, err := o.runAdaptiveChunked(ctx, sequence, sequenceName, detectors, opts)
		if err != nil {
			return nil, err
		}
		all = m
	default:
		m, err := o.runChunked(ctx, sequence, sequenceName, detectors, opts)
		if err != nil {
			return nil, err
		}
		all = m
	}

	sort.Sort(motif.By(all))
	all = removeIntraClassOverlaps(all)
	sort.Sort(motif.By(all))

	all = append(all, synthesizeHybrids(all, sequence, sequenceName)...)
	all = append(all, synthesizeClusters(all, sequence, sequenceName)...)
	sort.Sort(motif.By(all))

	all = dedupChunkBoundaries(all, opts.chunkOverlap())
	sort.Sort(motif.By(all))
	return all, nil
}

func (o *Orchestrator) runChunked(ctx context.Context, sequence []byte, sequenceName string, detectors map[string]detector.Detector, opts Options) ([]motif.Motif, error) {
	chunkSize := opts.chunkSize()
	overlap := opts.chunkOverlap()
	type chunkSpan struct{ start, end int }
	var spans []chunkSpan
	for s := 0; s < len(sequence); s += chunkSize {
		e := s + chunkSize + overlap
		if e > len(sequence) {
			e = len(sequence)
		}
		spans = append(spans, chunkSpan{s, e})
		if e == len(sequence) {
			break
		}
	}

	results := make([][]motif.Motif, len(spans))
	sequential := !opts.UseParallelChunks
	if opts.UseParallelChunks {
		g, gctx := errgroup.WithContext(ctx)
		for i, sp := range spans {
			i, sp := i, sp
			g.Go(func() error {
				m, err := o.runChunk(gctx, sequence[sp.start:sp.end], sequenceName, sp.start, detectors, opts)
				if err != nil {
					return err
				}
				results[i] = m
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			if err == nonberr.Cancelled {
				return nil, err
			}
			gologger.Warning().Msgf("%s: parallel chunk dispatch failed (%v), retrying sequentially", sequenceName, err)
			sequential = true
		}
	}
	if sequential {
		for i, sp := range spans {
			m, err := o.runChunk(ctx, sequence[sp.start:sp.end], sequenceName, sp.start, detectors, opts)
			if err != nil {
				return nil, err
			}
			results[i] = m
		}
	}

	var all []motif.Motif
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// runAdaptiveChunked implements spec.md §4.16's optional three-tier
// macro/meso/micro chunking hierarchy, engaged only once a sequence
// reaches macroTierSize: each micro tier (the same chunk granularity
// runChunked uses at smaller scale) is analyzed via runChunk and its
// motifs spooled through an AdaptiveChunker instead of being accumulated
// in memory while detection runs. Drain then returns the whole result as
// one slice in (start, end) order; Analyze still sorts and post-processes
// that slice in memory.
func (o *Orchestrator) runAdaptiveChunked(ctx context.Context, sequence []byte, sequenceName string, detectors map[string]detector.Detector, opts Options) ([]motif.Motif, error) {
	spoolPath := opts.SpoolPath
	cleanup := spoolPath == ""
	if cleanup {
		f, err := os.CreateTemp("", "nonbscan-spool-*.kv")
		if err != nil {
			return nil, fmt.Errorf("pipeline: creating chunk spool: %w", err)
		}
		spoolPath = f.Name()
		f.Close()
	}

	chunker, err := NewAdaptiveChunker(spoolPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		chunker.Close()
		if cleanup {
			os.Remove(spoolPath)
		}
	}()

	tier := 0
	for _, macro := range MacroTiers(len(sequence)) {
		for _, meso := range MesoTiers(macro[0], macro[1]) {
			for _, micro := range MicroTiers(meso[0], meso[1]) {
				if err := ctx.Err(); err != nil {
					return nil, nonberr.Cancelled
				}
				m, err := o.runChunk(ctx, sequence[micro[0]:micro[1]], sequenceName, micro[0], detectors, opts)
				if err != nil {
					return nil, err
				}
				if err := chunker.Spool(tier, m); err != nil {
					return nil, err
				}
				tier++
			}
		}
	}

	return chunker.Drain()
}

// runChunk dispatches every enabled detector over one chunk, shifting
// resulting coordinates by offset to map back to the full sequence, and
// either runs detectors in parallel (spec.md §5 axis 1) or sequentially
// depending on chunk length and Options.
func (o *Orchestrator) runChunk(ctx context.Context, chunk []byte, sequenceName string, offset int, detectors map[string]detector.Detector, opts Options) ([]motif.Motif, error) {
	parallel := len(chunk) >= DetectorParallelThreshold
	if opts.UseParallelDetectors != nil {
		parallel = *opts.UseParallelDetectors
	}

	names := make([]string, 0, len(detectors))
	for name := range detectors {
		names = append(names, name)
	}
	sort.Strings(names)

	var mu sync.Mutex
	var completed int
	var motifCount int
	total := len(names)
	started := time.Now()

	report := func(name string) {
		if opts.Progress == nil {
			return
		}
		mu.Lock()
		completed++
		c := completed
		mc := motifCount
		mu.Unlock()
		opts.Progress(name, c, total, time.Since(started).Seconds(), mc)
	}

	run := func(name string) ([]motif.Motif, error) {
		d := detectors[name]
		out, err := runDetectorSafely(ctx, d, chunk, sequenceName)
		mu.Lock()
		motifCount += len(out)
		mu.Unlock()
		report(name)
		return out, err
	}

	results := make([][]motif.Motif, len(names))
	if parallel && len(names) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(9)
		for i, name := range names {
			i, name := i, name
			g.Go(func() error {
				d := detectors[name]
				out, err := runDetectorSafely(gctx, d, chunk, sequenceName)
				mu.Lock()
				motifCount += len(out)
				mu.Unlock()
				report(name)
				if err != nil {
					return err
				}
				results[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			if err == context.Canceled || err == context.DeadlineExceeded {
				return nil, nonberr.Cancelled
			}
			return nil, err
		}
	} else {
		for i, name := range names {
			if err := ctx.Err(); err != nil {
				return nil, nonberr.Cancelled
			}
			out, err := run(name)
			if err != nil {
				return nil, err
			}
			results[i] = out
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, nonberr.Cancelled
	}

	var out []motif.Motif
	for _, r := range results {
		for _, m := range r {
			m.Start += offset
			m.End += offset
			out = append(out, m)
		}
	}
	return out, nil
}

// runDetectorSafely recovers a panicking detector and logs it with
// gologger.Error(); a detector that returns an error is logged with
// gologger.Warning(). In both cases that detector contributes no motifs
// and nil is returned as the error, per spec.md §7: an exception in one
// detector must never terminate the others.
func runDetectorSafely(ctx context.Context, d detector.Detector, sequence []byte, sequenceName string) (out []motif.Motif, err error) {
	defer func() {
		if r := recover(); r != nil {
			gologger.Error().Msgf("%s: detector %s panicked: %v", sequenceName, d.ClassName(), r)
			out, err = nil, nil
		}
	}()
	motifs, derr := d.Detect(ctx, sequence, sequenceName)
	if derr != nil {
		gologger.Warning().Msgf("%s: detector %s failed: %v", sequenceName, d.ClassName(), derr)
		return nil, nil
	}
	return motifs, nil
}

func (o *Orchestrator) enabledDetectors(classes []string, strict bool) (map[string]detector.Detector, error) {
	if len(classes) == 0 {
		return o.detectors, nil
	}
	out := make(map[string]detector.Detector, len(classes))
	for _, c := range classes {
		canon, _, _ := taxonomy.Normalize(c, "", false, false)
		d, ok := o.detectors[canon]
		if !ok {
			if strict {
				return nil, fmt.Errorf("%w: %q", nonberr.UnknownClass, c)
			}
			gologger.Warning().Msgf("unknown detector class %q requested, skipping", c)
			continue
		}
		out[canon] = d
	}
	return out, nil
}
