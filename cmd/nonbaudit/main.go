// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The nonbaudit command allows a pipeline.AdaptiveChunker spool database,
// left behind by a very large (>=100Mbp, multi-tier-chunked) nonbscan run
// invoked with -spool, to be inspected after the fact. Output is a JSON
// stream of motif records on stdout, one per spooled motif, in the same
// coordinate order Drain would return them in.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/nonbdna/scanner/pipeline"
)

func main() {
	path := flag.String("db", "", "specify chunk spool db file to audit (required)")
	flag.Usage = func() {
		log.Println("usage: nonbaudit -db <spool.kv> >out.jsonl")
		flag.PrintDefaults()
	}
	flag.Parse()
	if *path == "" {
		flag.Usage()
		os.Exit(2)
	}

	spool, err := pipeline.OpenSpool(*path)
	if err != nil {
		log.Fatal(err)
	}
	defer spool.Close()

	motifs, err := spool.Drain()
	if err != nil {
		log.Fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	for _, m := range motifs {
		if err := enc.Encode(m); err != nil {
			log.Fatal(err)
		}
	}
}
