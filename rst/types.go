// Package rst implements the Region-Segment Tree pipeline: graph
// traversal (Build), bottom-up classification (FillLeafToRoot),
// hierarchical wrapping (Wrap), and top-down coordinate assignment
// (FillRootToLeaf). See spec.md §3-§4 for the full contract.
package rst

import "sort"

// RegionType is the closed sum of region classifications (spec.md §9:
// "polymorphism over classification ... model as a tagged variant").
type RegionType string

const (
	TypeCon RegionType = "con"
	TypeVar RegionType = "var"
	TypeSNP RegionType = "snp"
	TypeAle RegionType = "ale"
	TypeInd RegionType = "ind"
	TypeSV  RegionType = "sv"
)

// IsVariant reports whether t is anything other than the consensus type.
func (t RegionType) IsVariant() bool { return t != TypeCon }

// Segment is one alternative at a locus: a single graph vertex, an
// allele path, or a synthetic wrapper over a set of sub-regions.
type Segment struct {
	ID    string
	Name  string
	Level [2]int // inclusive level_range
	Coord [2]int // [start, end) in parent frame

	Length uint64
	Rank   uint8
	// Frequency is stored as float32: spec.md §6 calls for 16/32-bit
	// float on the wire; float32 is the narrowest type with first-class
	// Go and encoding/gob support, and avoids a hand-rolled float16.
	Frequency float32
	Sources   map[string]struct{}

	DirectVariants uint32 // widened from spec's 8-bit suggestion, see SPEC_FULL.md §6
	TotalVariants  uint64

	IsWrapper  bool
	SubRegions []string // ordered child Region ids
}

// SourceList returns Sources as a sorted slice.
func (s *Segment) SourceList() []string { return sortedKeys(s.Sources) }

// Region is a locus container holding one or more alternative Segments.
type Region struct {
	ID         string
	SemanticID string // optional stable name, assigned by classification

	Level [2]int
	Coord [2]int

	Length    uint64
	MinLength uint64 // transient during building; meaningful post-classification

	ParentSegment string // empty for the root region
	Segments      []string

	Type      RegionType
	IsDefault bool
	Sources   map[string]struct{}

	TotalVariants uint64

	// Before/After are transient: flanking graph-vertex names recorded
	// during Build, used to detect whether a side path reuses an
	// existing region and to locate the corresponding main-path allele
	// interval. Both are dropped from the emitted table (see tsvio).
	Before string
	After  string
}

// IsVariant reports whether the region's type is anything but consensus.
func (r *Region) IsVariant() bool { return r.Type.IsVariant() }

// SourceList returns Sources as a sorted slice.
func (r *Region) SourceList() []string { return sortedKeys(r.Sources) }

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Meta holds build-level metadata: spec.md §3.3.
type Meta struct {
	Sources       []string
	Name          string
	MaxLevel      int
	TotalLength   uint64
	TotalVariants uint64
}

// Summary renders a one-line human-readable digest of Meta, recovering
// the build-report behavior of original_source/scripts/build_report.py
// without re-deriving any counts (see SPEC_FULL.md §7).
func (m Meta) Summary() string {
	return "pangenome=" + m.Name +
		" sources=" + itoa(len(m.Sources)) +
		" max_level=" + itoa(m.MaxLevel) +
		" total_length=" + uitoa(m.TotalLength) +
		" total_variants=" + uitoa(m.TotalVariants)
}
