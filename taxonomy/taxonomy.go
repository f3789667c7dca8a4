// Copyright ©2024 The NonB-DNA Scanner Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package taxonomy holds the frozen (class, subclass) taxonomy table for
// non-B DNA structural motifs, alias resolution, and the per-class
// structural length caps used by the score normalizer.
package taxonomy

import (
	"fmt"
	"strings"
)

// Canonical class names.
const (
	GQuadruplex     = "G-Quadruplex"
	ZDNA            = "Z-DNA"
	CurvedDNA       = "Curved_DNA"
	RLoop           = "R-Loop"
	SlippedDNA      = "Slipped_DNA"
	Cruciform       = "Cruciform"
	Triplex         = "Triplex"
	IMotif          = "i-Motif"
	APhilicDNA      = "A-philic_DNA"
	Hybrid          = "Hybrid"
	NonBDNAClusters = "Non-B_DNA_Clusters"
)

// classSet is the frozen canonical class list.
var classSet = []string{
	GQuadruplex, ZDNA, CurvedDNA, RLoop, SlippedDNA,
	Cruciform, Triplex, IMotif, APhilicDNA, Hybrid, NonBDNAClusters,
}

// subclasses maps each canonical class to its closed set of permitted
// subclasses. Built once at package init and never mutated afterwards,
// standing in for the "process-wide cached singleton" of the source tool.
var subclasses = map[string]map[string]bool{
	GQuadruplex: set(
		"Telomeric G4", "Canonical G4", "Extended-loop G4", "Stacked G4",
		"Higher-order G4", "Bulged G4", "G-Triplex", "Weak PQS",
	),
	ZDNA: set("Z-DNA", "eGZ (Extruded-G) DNA"),
	CurvedDNA: set(
		"Local Curvature", "Global Curvature (A-phased Repeat)",
	),
	RLoop:      set("QmRLFS-m1", "QmRLFS-m2"),
	SlippedDNA: set("STR", "Direct Repeat"),
	Cruciform:  set("Cruciform"),
	Triplex:    set("Mirror Repeat (H-DNA)", "Sticky DNA"),
	IMotif:     set("Canonical i-motif", "Relaxed i-motif", "AC-motif"),
	APhilicDNA: set("A-philic DNA"),
	Hybrid:     set(), // open: subclass is "<A>_<B>_Overlap", synthesized
	NonBDNAClusters: set("Non-B DNA Cluster Region"),
}

func set(vals ...string) map[string]bool {
	m := make(map[string]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	return m
}

// reverse maps a lower-cased subclass name to its owning class, for fast
// lookups when the caller supplies a subclass without its class.
var reverse = func() map[string]string {
	m := make(map[string]string)
	for class, subs := range subclasses {
		for sub := range subs {
			m[strings.ToLower(sub)] = class
		}
	}
	return m
}()

// classAlias and subclassAlias hold case-insensitive alternative spellings
// seen in the wild (and in the original tool) for classes/subclasses.
var classAlias = map[string]string{
	"g4":          GQuadruplex,
	"gquadruplex": GQuadruplex,
	"g-quadruplex": GQuadruplex,
	"zdna":        ZDNA,
	"z-dna":       ZDNA,
	"curved":      CurvedDNA,
	"curved_dna":  CurvedDNA,
	"curved dna":  CurvedDNA,
	"rloop":       RLoop,
	"r-loop":      RLoop,
	"r_loop":      RLoop,
	"slipped":     SlippedDNA,
	"slipped_dna": SlippedDNA,
	"slipped dna": SlippedDNA,
	"cruciform":   Cruciform,
	"triplex":     Triplex,
	"imotif":      IMotif,
	"i-motif":     IMotif,
	"i_motif":     IMotif,
	"aphilic":     APhilicDNA,
	"a-philic":    APhilicDNA,
	"a-philic_dna": APhilicDNA,
	"a_philic_dna": APhilicDNA,
	"hybrid":      Hybrid,
	"cluster":     NonBDNAClusters,
	"clusters":    NonBDNAClusters,
	"non-b_dna_clusters": NonBDNAClusters,
}

var subclassAlias = map[string]string{
	"telomeric":        "Telomeric G4",
	"canonical":        "Canonical G4", // ambiguous; resolved contextually by caller
	"g-triplex":        "G-Triplex",
	"gtriplex":         "G-Triplex",
	"weak pqs":         "Weak PQS",
	"weak_pqs":         "Weak PQS",
	"egz":              "eGZ (Extruded-G) DNA",
	"extruded-g":       "eGZ (Extruded-G) DNA",
	"apr":              "Global Curvature (A-phased Repeat)",
	"a-phased repeat":  "Global Curvature (A-phased Repeat)",
	"local":            "Local Curvature",
	"str":              "STR",
	"direct repeat":    "Direct Repeat",
	"direct_repeat":    "Direct Repeat",
	"h-dna":            "Mirror Repeat (H-DNA)",
	"mirror repeat":    "Mirror Repeat (H-DNA)",
	"sticky dna":       "Sticky DNA",
	"sticky_dna":       "Sticky DNA",
	"ac-motif":         "AC-motif",
	"hur ac-motif":     "AC-motif",
	"relaxed":          "Relaxed i-motif",
}

// Error is a taxonomy validation error. The Kind field lets callers
// distinguish UnknownClass / UnknownSubclass / InvalidPairing without
// string matching.
type Error struct {
	Kind  string
	Class string
	Sub   string
}

func (e *Error) Error() string {
	switch e.Kind {
	case "UnknownClass":
		return fmt.Sprintf("taxonomy: unknown class %q", e.Class)
	case "UnknownSubclass":
		return fmt.Sprintf("taxonomy: unknown subclass %q", e.Sub)
	case "InvalidPairing":
		return fmt.Sprintf("taxonomy: subclass %q does not belong to class %q", e.Sub, e.Class)
	default:
		return fmt.Sprintf("taxonomy: invalid (class=%q, subclass=%q)", e.Class, e.Sub)
	}
}

// Classes returns the canonical class list.
func Classes() []string {
	out := make([]string, len(classSet))
	copy(out, classSet)
	return out
}

// Subclasses returns the permitted subclasses for class, or nil if class is
// not canonical.
func Subclasses(class string) []string {
	subs, ok := subclasses[class]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(subs))
	for s := range subs {
		out = append(out, s)
	}
	return out
}

// resolveClass case-folds and alias-resolves a class name.
func resolveClass(classIn string) (string, bool) {
	for _, c := range classSet {
		if strings.EqualFold(c, classIn) {
			return c, true
		}
	}
	if c, ok := classAlias[strings.ToLower(strings.TrimSpace(classIn))]; ok {
		return c, true
	}
	return "", false
}

// resolveSubclass case-folds and alias-resolves a subclass name, returning
// its canonical spelling and owning class if known.
func resolveSubclass(subIn string) (sub, class string, ok bool) {
	key := strings.ToLower(strings.TrimSpace(subIn))
	if owner, ok := reverse[key]; ok {
		// Recover canonical-cased spelling.
		for s := range subclasses[owner] {
			if strings.EqualFold(s, subIn) {
				return s, owner, true
			}
		}
	}
	if canon, ok := subclassAlias[key]; ok {
		if owner, ok := reverse[strings.ToLower(canon)]; ok {
			return canon, owner, true
		}
	}
	return "", "", false
}

// Normalize resolves classIn/subIn through case-folding and alias tables,
// then verifies the pair belongs together. If subIn names a subclass that
// belongs to a different class than classIn:
//   - when autoCorrect is true, the class is rewritten to the subclass's
//     owning class;
//   - otherwise an InvalidPairing *Error is returned.
//
// In non-strict mode (strict=false) recoverable errors (UnknownClass,
// UnknownSubclass, InvalidPairing) are resolved as best-effort instead of
// returned: an unknown class paired with a recognized subclass is replaced
// by that subclass's owning class, other unknown classes/subclasses fall
// back to the raw input strings, and invalid pairings are auto-corrected
// regardless of autoCorrect.
func Normalize(classIn, subIn string, strict, autoCorrect bool) (class, sub string, err error) {
	class, classOK := resolveClass(classIn)
	sub, owner, subOK := resolveSubclass(subIn)

	switch {
	case classOK && subOK:
		if class != owner {
			if autoCorrect || !strict {
				return owner, sub, nil
			}
			return classIn, subIn, &Error{Kind: "InvalidPairing", Class: classIn, Sub: subIn}
		}
		return class, sub, nil
	case classOK && !subOK:
		if strict {
			return classIn, subIn, &Error{Kind: "UnknownSubclass", Sub: subIn}
		}
		return class, subIn, nil
	case !classOK && subOK:
		if strict {
			return classIn, subIn, &Error{Kind: "UnknownClass", Class: classIn}
		}
		return owner, sub, nil
	default:
		if strict {
			return classIn, subIn, &Error{Kind: "UnknownClass", Class: classIn}
		}
		return classIn, subIn, nil
	}
}

// Valid reports whether (class, subclass) is a registered taxonomy pair.
// Hybrid's open subclass set accepts any "<A>_<B>_Overlap" name.
func Valid(class, sub string) bool {
	if class == Hybrid {
		return strings.HasSuffix(sub, "_Overlap")
	}
	subs, ok := subclasses[class]
	if !ok {
		return false
	}
	return subs[sub]
}

// lengthCaps holds the default per-(class,subclass) structural length cap
// in base pairs, used by the universal length-aware normalizer. A zero
// subclass key is the class-wide default.
var lengthCaps = map[string]map[string]int{
	GQuadruplex: {"": 120},
	ZDNA:        {"": 300},
	RLoop:       {"": 2000},
	SlippedDNA: {
		"":             1000,
		"STR":          1000,
		"Direct Repeat": 500,
	},
	Cruciform: {"": 200},
	Triplex:   {"": 100},
	IMotif:    {"": 60},
	CurvedDNA: {
		"":                                   120,
		"Local Curvature":                    50,
		"Global Curvature (A-phased Repeat)":  120,
	},
	APhilicDNA:      {"": 300},
	Hybrid:          {"": 500},
	NonBDNAClusters: {"": 2000},
}

// diseaseOverrides holds opt-in expanded caps for disease-associated repeat
// motifs (e.g. Huntington CAG), keyed by repeat unit.
var diseaseOverrides = map[string]int{
	"CAG": 1000,
	"CTG": 1000,
	"CGG": 1000,
	"CCG": 1000,
	"GAA": 1000,
	"TTC": 1000,
}

// LengthCap returns the structural length cap in bp for class (and,
// optionally, subclass). It returns (0, false) for an unrecognized class.
func LengthCap(class, subclass string) (int, bool) {
	subs, ok := lengthCaps[class]
	if !ok {
		return 0, false
	}
	if subclass != "" {
		if v, ok := subs[subclass]; ok {
			return v, true
		}
	}
	v, ok := subs[""]
	return v, ok
}

// DiseaseLengthCap returns the opt-in disease-expansion length cap for the
// given repeat unit (case-insensitive), or (0, false) if none is defined.
func DiseaseLengthCap(repeatUnit string) (int, bool) {
	v, ok := diseaseOverrides[strings.ToUpper(repeatUnit)]
	return v, ok
}
