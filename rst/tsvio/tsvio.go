// Package tsvio persists RegionTable, SegmentTable and Meta to the
// tab-delimited format spec.md §6 names: one file per table, header row,
// list-valued columns comma-separated, missing values rendered as "*".
// No pack example ships a TSV codec for this shape, so this package is
// built directly on encoding/csv — see DESIGN.md for why no third-party
// serialization library was a better fit.
package tsvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hapgraph/rstcore/rst"
)

const missing = "*"

var regionColumns = []string{
	"id", "semantic_id", "level_range", "coordinate", "is_default",
	"length", "is_variant", "type", "total_variants", "parent_segment",
	"segments", "sources",
}

var segmentColumns = []string{
	"id", "semantic_id", "level_range", "coordinate", "rank", "length",
	"frequency", "direct_variants", "total_variants", "is_wrapper",
	"sub_regions", "sources",
}

var metaColumns = []string{"sources", "name", "max_level", "total_length", "total_variants"}

// WriteRegionTable emits rt in insertion order, one row per region.
func WriteRegionTable(w io.Writer, rt *rst.RegionTable) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(regionColumns); err != nil {
		return err
	}
	for _, r := range rt.Rows() {
		row := []string{
			r.ID,
			orMissing(r.SemanticID),
			joinPair(r.Level),
			joinPair(r.Coord),
			strconv.FormatBool(r.IsDefault),
			strconv.FormatUint(r.Length, 10),
			strconv.FormatBool(r.IsVariant()),
			string(r.Type),
			strconv.FormatUint(r.TotalVariants, 10),
			orMissing(r.ParentSegment),
			joinList(r.Segments),
			joinList(r.SourceList()),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRegionTable parses a RegionTable previously written by WriteRegionTable.
func ReadRegionTable(r io.Reader) (*rst.RegionTable, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return rst.NewRegionTable(), nil
	}
	rt := rst.NewRegionTable()
	for _, row := range rows[1:] {
		if len(row) != len(regionColumns) {
			return nil, fmt.Errorf("tsvio: region row has %d fields, want %d", len(row), len(regionColumns))
		}
		length, err := strconv.ParseUint(row[5], 10, 64)
		if err != nil {
			return nil, err
		}
		totalVar, err := strconv.ParseUint(row[8], 10, 64)
		if err != nil {
			return nil, err
		}
		level, err := parsePair(row[2])
		if err != nil {
			return nil, err
		}
		coord, err := parsePair(row[3])
		if err != nil {
			return nil, err
		}
		isDefault, err := strconv.ParseBool(row[4])
		if err != nil {
			return nil, err
		}
		region := &rst.Region{
			ID:            row[0],
			SemanticID:    unMissing(row[1]),
			Level:         level,
			Coord:         coord,
			IsDefault:     isDefault,
			Length:        length,
			Type:          rst.RegionType(row[7]),
			TotalVariants: totalVar,
			ParentSegment: unMissing(row[9]),
			Segments:      splitList(row[10]),
			Sources:       setOf(splitList(row[11])),
		}
		rt.Add(region)
	}
	return rt, nil
}

// WriteSegmentTable emits st in insertion order, one row per segment.
func WriteSegmentTable(w io.Writer, st *rst.SegmentTable) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(segmentColumns); err != nil {
		return err
	}
	for _, s := range st.Rows() {
		row := []string{
			s.ID,
			orMissing(s.Name),
			joinPair(s.Level),
			joinPair(s.Coord),
			strconv.Itoa(int(s.Rank)),
			strconv.FormatUint(s.Length, 10),
			strconv.FormatFloat(float64(s.Frequency), 'g', -1, 32),
			strconv.Itoa(int(s.DirectVariants)),
			strconv.FormatUint(s.TotalVariants, 10),
			strconv.FormatBool(s.IsWrapper),
			joinList(s.SubRegions),
			joinList(s.SourceList()),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadSegmentTable parses a SegmentTable previously written by WriteSegmentTable.
func ReadSegmentTable(r io.Reader) (*rst.SegmentTable, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return rst.NewSegmentTable(), nil
	}
	st := rst.NewSegmentTable()
	for _, row := range rows[1:] {
		if len(row) != len(segmentColumns) {
			return nil, fmt.Errorf("tsvio: segment row has %d fields, want %d", len(row), len(segmentColumns))
		}
		level, err := parsePair(row[2])
		if err != nil {
			return nil, err
		}
		coord, err := parsePair(row[3])
		if err != nil {
			return nil, err
		}
		rank, err := strconv.Atoi(row[4])
		if err != nil {
			return nil, err
		}
		length, err := strconv.ParseUint(row[5], 10, 64)
		if err != nil {
			return nil, err
		}
		freq, err := strconv.ParseFloat(row[6], 32)
		if err != nil {
			return nil, err
		}
		dirVar, err := strconv.Atoi(row[7])
		if err != nil {
			return nil, err
		}
		totalVar, err := strconv.ParseUint(row[8], 10, 64)
		if err != nil {
			return nil, err
		}
		isWrapper, err := strconv.ParseBool(row[9])
		if err != nil {
			return nil, err
		}
		seg := &rst.Segment{
			ID:             row[0],
			Name:           unMissing(row[1]),
			Level:          level,
			Coord:          coord,
			Rank:           uint8(rank),
			Length:         length,
			Frequency:      float32(freq),
			DirectVariants: uint32(dirVar),
			TotalVariants:  totalVar,
			IsWrapper:      isWrapper,
			SubRegions:     splitList(row[10]),
			Sources:        setOf(splitList(row[11])),
		}
		st.Add(seg)
	}
	return st, nil
}

// WriteMeta emits a single-row key/value TSV for Meta.
func WriteMeta(w io.Writer, m *rst.Meta) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(metaColumns); err != nil {
		return err
	}
	row := []string{
		joinList(m.Sources),
		orMissing(m.Name),
		strconv.Itoa(m.MaxLevel),
		strconv.FormatUint(m.TotalLength, 10),
		strconv.FormatUint(m.TotalVariants, 10),
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// ReadMeta parses a Meta previously written by WriteMeta.
func ReadMeta(r io.Reader) (*rst.Meta, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("tsvio: meta file has no data row")
	}
	row := rows[1]
	if len(row) != len(metaColumns) {
		return nil, fmt.Errorf("tsvio: meta row has %d fields, want %d", len(row), len(metaColumns))
	}
	maxLevel, err := strconv.Atoi(row[2])
	if err != nil {
		return nil, err
	}
	totalLen, err := strconv.ParseUint(row[3], 10, 64)
	if err != nil {
		return nil, err
	}
	totalVar, err := strconv.ParseUint(row[4], 10, 64)
	if err != nil {
		return nil, err
	}
	return &rst.Meta{
		Sources:       splitList(row[0]),
		Name:          unMissing(row[1]),
		MaxLevel:      maxLevel,
		TotalLength:   totalLen,
		TotalVariants: totalVar,
	}, nil
}

func joinPair(p [2]int) string {
	return strconv.Itoa(p[0]) + "," + strconv.Itoa(p[1])
}

func parsePair(s string) ([2]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return [2]int{}, fmt.Errorf("tsvio: malformed range %q", s)
	}
	a, err := strconv.Atoi(parts[0])
	if err != nil {
		return [2]int{}, err
	}
	b, err := strconv.Atoi(parts[1])
	if err != nil {
		return [2]int{}, err
	}
	return [2]int{a, b}, nil
}

func joinList(items []string) string {
	if len(items) == 0 {
		return missing
	}
	return strings.Join(items, ",")
}

func splitList(s string) []string {
	if s == missing || s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func setOf(items []string) map[string]struct{} {
	if len(items) == 0 {
		return map[string]struct{}{}
	}
	out := make(map[string]struct{}, len(items))
	for _, it := range items {
		out[it] = struct{}{}
	}
	return out
}

func orMissing(s string) string {
	if s == "" {
		return missing
	}
	return s
}

func unMissing(s string) string {
	if s == missing {
		return ""
	}
	return s
}
