// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonbdna/scanner/detector"
	"github.com/nonbdna/scanner/detectors/gquad"
	"github.com/nonbdna/scanner/taxonomy"
)

// runAdaptiveChunked is exercised directly (rather than through Analyze)
// since triggering it via the macroTierSize length gate would need a
// 100Mbp test sequence; the three-tier walk itself has no dependency on
// that constant beyond the outer MacroTiers call.
func TestRunAdaptiveChunkedSpoolsAndDrainsInOrder(t *testing.T) {
	o := New(map[string]detector.Detector{taxonomy.GQuadruplex: gquad.New()})
	seq := []byte(strings.Repeat("ACGTACGTACGTACGTACGTACGTACGTACGTACGTACGT", 100) + "TTAGGGTTAGGGTTAGGGTTAGGG")

	path := filepath.Join(t.TempDir(), "spool.kv")
	motifs, err := o.runAdaptiveChunked(context.Background(), seq, "adaptive", o.detectors, Options{SpoolPath: path})
	require.NoError(t, err)
	require.NotEmpty(t, motifs)
	assert.Equal(t, taxonomy.GQuadruplex, motifs[0].Class)

	reopened, err := OpenSpool(path)
	require.NoError(t, err)
	defer reopened.Close()
	spooled, err := reopened.Drain()
	require.NoError(t, err)
	assert.Equal(t, len(motifs), len(spooled))
}

func TestRunAdaptiveChunkedUsesTempSpoolWhenPathEmpty(t *testing.T) {
	o := New(map[string]detector.Detector{taxonomy.GQuadruplex: gquad.New()})
	seq := []byte("TTAGGGTTAGGGTTAGGGTTAGGG")

	motifs, err := o.runAdaptiveChunked(context.Background(), seq, "adaptive", o.detectors, Options{})
	require.NoError(t, err)
	assert.NotEmpty(t, motifs)
}
