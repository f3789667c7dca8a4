// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// nonbscan is a non-B DNA structural motif detection tool. It scans a FASTA
// query sequence for G-quadruplexes, i-motifs, Z-DNA, cruciforms, triplexes,
// R-loops, slipped-strand DNA, curved DNA and A-philic DNA, and reports
// found motifs either in JSON format or GFF3.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/nonbdna/scanner"
)

func main() {
	in := flag.String("query", "", "specify query sequence file (required)")
	classes := flag.String("classes", "", "comma-separated list of motif classes to scan (default all)")
	jsonOut := flag.Bool("json", false, "specify json format for feature output")
	strict := flag.Bool("strict", false, "specify to fail on unknown requested classes instead of skipping them")
	verbose := flag.Bool("verbose", false, "specify verbose logging")
	spool := flag.String("spool", "", "preserve the adaptive chunker's spool db at this path for very large (>=100Mbp) queries, for later inspection with nonbaudit")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `Usage of %[1]s:
  $ %[1]s [options] -query <seq.fa> >out.gff 2>out.log

Options:
`, os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	f, err := os.Open(*in)
	if err != nil {
		log.Fatalf("failed to open query: %v", err)
	}
	defer f.Close()

	var opts []nonb.Option
	if *classes != "" {
		opts = append(opts, nonb.WithClasses(splitClasses(*classes)...))
	}
	opts = append(opts, nonb.WithStrict(*strict))
	if *spool != "" {
		opts = append(opts, nonb.WithSpoolPath(*spool))
	}
	if *verbose {
		opts = append(opts, nonb.WithProgress(func(name string, completed, total int, elapsed float64, count int) {
			log.Printf("%s: %d/%d detectors complete (%.1fs elapsed, %d motifs so far)", name, completed, total, elapsed, count)
		}))
	}

	reader := nonb.NewFastaReader(f)
	var enc *json.Encoder
	var writer *nonb.GFFWriter
	if *jsonOut {
		enc = json.NewEncoder(os.Stdout)
	} else {
		writer = nonb.NewGFFWriter(os.Stdout)
	}

	ctx := context.Background()
	for {
		name, sequence, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("failed to read query: %v", err)
		}

		motifs, err := nonb.Analyze(ctx, sequence, name, opts...)
		if err != nil {
			log.Fatalf("%s: analysis failed: %v", name, err)
		}

		if *jsonOut {
			for _, m := range motifs {
				if err := enc.Encode(m); err != nil {
					log.Fatalf("failed to write feature: %v", err)
				}
			}
		} else {
			for _, m := range motifs {
				if err := writer.Write(m); err != nil {
					log.Fatalf("failed to write feature: %v", err)
				}
			}
		}
	}
}

func splitClasses(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
