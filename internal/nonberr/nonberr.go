// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nonberr defines the typed error variants surfaced by the core
// (spec.md §6-§7). Sentinel errors are compared with errors.Is; wrapped
// detector/taxonomy failures carry context via fmt.Errorf("...: %w", ...).
package nonberr

import "errors"

var (
	// EmptySequence is returned (as a warning, not a failure: callers get
	// an empty motif list alongside it) when the input sequence is empty.
	EmptySequence = errors.New("nonb: empty sequence")

	// TooShort is returned (as a warning) when the input sequence is
	// shorter than the minimum analyzable length (10 bp).
	TooShort = errors.New("nonb: sequence shorter than minimum analyzable length")

	// InvalidCharacter is a fatal input error: the sequence contains a
	// byte outside the accepted IUPAC alphabet.
	InvalidCharacter = errors.New("nonb: invalid character in sequence")

	// UnknownClass is returned (wrapped) by the pipeline orchestrator in
	// strict mode when a requested class name is not recognized. The
	// taxonomy package reports its own unknown classes as a *taxonomy.Error
	// with Kind "UnknownClass".
	UnknownClass = errors.New("nonb: unknown taxonomy class")

	// UnknownSubclass names the unknown-subclass error kind. The taxonomy
	// package reports it as a *taxonomy.Error with Kind "UnknownSubclass",
	// not as this sentinel.
	UnknownSubclass = errors.New("nonb: unknown taxonomy subclass")

	// InvalidPairing names the invalid-pairing error kind. The taxonomy
	// package reports it as a *taxonomy.Error with Kind "InvalidPairing",
	// not as this sentinel.
	InvalidPairing = errors.New("nonb: invalid class/subclass pairing")

	// InternalDetectorError names a panic or failure in a single detector.
	// The orchestrator logs such failures and does not return this error;
	// they never abort sibling detectors.
	InternalDetectorError = errors.New("nonb: internal detector error")

	// Cancelled is returned when the caller-provided context is done
	// before the orchestrator finishes; callers must discard any partial
	// result.
	Cancelled = errors.New("nonb: analysis cancelled")
)
