package rst

import (
	"fmt"
	"math"
	"sort"
)

// clearedLevel marks a region/segment whose level assignment was reset
// pending re-wrapping; Python represented this as an empty list, Go uses
// a negative sentinel pair instead.
var clearedLevel = [2]int{-1, -1}

func isCleared(lv [2]int) bool { return lv[0] < 0 }

// Wrap deepens the flat region-segment tree FillLeafToRoot produced into
// a multi-level hierarchy: regions/segments too small to resolve at a
// given pixel resolution are merged into synthetic wrapper con
// regions/segments one level up (spec.md §4.4).
func Wrap(rt *RegionTable, st *SegmentTable, meta *Meta, minRes float64, ids *IDGen) error {
	if minRes <= 0 {
		return ErrInvalidResolution
	}

	var root *Region
	for _, r := range rt.Rows() {
		if r.Level[0] == 0 && r.Level[1] == 0 {
			root = r
			break
		}
	}
	if root == nil {
		return fmt.Errorf("%w: no root region at level [0,0]", ErrInternalInvariant)
	}

	totalLen := root.Length
	maxLevel := int(math.Ceil(math.Log2(float64(totalLen) / 1000 / minRes)))
	meta.MaxLevel = maxLevel
	meta.TotalLength = totalLen
	meta.TotalVariants = root.TotalVariants
	minLenPx := 1 / minRes

	for _, r := range rt.Rows() {
		if r.Level[1] > 1 {
			r.Level = clearedLevel
		}
	}
	for _, seg := range st.Rows() {
		if seg.Level[1] > 1 {
			seg.Level = clearedLevel
		}
	}

	for i := 1; i < maxLevel; i++ {
		res := math.Pow(2, float64(maxLevel-i)) * minRes

		rmd := make(map[string]bool)
		for _, r := range rt.Rows() {
			if !isCleared(r.Level) && i >= r.Level[0] && i <= r.Level[1] {
				rmd[r.ID] = true
			}
		}

		var parentSegs []*Segment
		for _, seg := range st.Rows() {
			if len(seg.SubRegions) == 0 || isCleared(seg.Level) {
				continue
			}
			if i-1 >= seg.Level[0] && i-1 <= seg.Level[1] {
				parentSegs = append(parentSegs, seg)
			}
		}

		for _, parentSeg := range parentSegs {
			if err := wrapGroup(rt, st, meta, ids, parentSeg, rmd, i, res, minLenPx); err != nil {
				return err
			}
		}

		rmdIDs := make([]string, 0, len(rmd))
		for rid := range rmd {
			rmdIDs = append(rmdIDs, rid)
		}
		sort.Strings(rmdIDs)
		for _, rid := range rmdIDs {
			r := rt.Get(rid)
			r.Level[1] = i + 1
			for _, segID := range r.Segments {
				st.Get(segID).Level = r.Level
			}
		}
	}

	for _, r := range rt.Rows() {
		if isCleared(r.Level) {
			return ErrWrappingIncomplete
		}
	}
	return nil
}

type wrapRange struct{ b, a int }

// wrapGroup processes one parent segment's ordered list of child regions:
// regions below the pixel-resolution threshold are merged into synthetic
// wrapper regions; the rest either extend one level or, if they still
// have grandchildren, cede their slot to those grandchildren.
func wrapGroup(rt *RegionTable, st *SegmentTable, meta *Meta, ids *IDGen, parentSeg *Segment, rmd map[string]bool, i int, res, minLenPx float64) error {
	ridList := append([]string(nil), parentSeg.SubRegions...)
	for _, rid := range ridList {
		delete(rmd, rid)
	}

	var ranges []wrapRange
	for posi, rid := range ridList {
		region := rt.Get(rid)
		if region == nil {
			return fmt.Errorf("%w: dangling sub-region id %s", ErrInternalInvariant, rid)
		}
		if float64(region.MinLength) >= res*minLenPx {
			continue
		}
		b, a := posi, posi
		var total uint64
		for float64(total) < res*minLenPx && !(b < 0 && a > len(ridList)-1) {
			if b >= 1 {
				lefti := b
				b = -1
				for j := lefti - 1; j >= 0; j-- {
					if rt.Get(ridList[j]).Type != TypeCon {
						b = j
						break
					}
				}
			} else {
				b = -1
			}
			if a <= len(ridList)-2 {
				righti := a
				a = len(ridList)
				for j := righti + 1; j < len(ridList); j++ {
					if rt.Get(ridList[j]).Type != TypeCon {
						a = j
						break
					}
				}
			} else {
				a = len(ridList)
			}
			total = 0
			for _, rr := range ridList[b+1 : a] {
				total += rt.Get(rr).Length
			}
		}
		ranges = append(ranges, wrapRange{b + 1, a - 1})
	}

	var merged []wrapRange
	var last *wrapRange
	for _, cur := range ranges {
		if last == nil {
			c := cur
			last = &c
		} else if last.a >= cur.b {
			if cur.a > last.a {
				last.a = cur.a
			}
		} else {
			merged = append(merged, *last)
			c := cur
			last = &c
		}
	}
	if last != nil {
		merged = append(merged, *last)
	}

	normalRegions := make(map[string]bool, len(ridList))
	for _, rid := range ridList {
		normalRegions[rid] = true
	}

	if len(merged) == 1 && merged[0].b == 0 && merged[0].a == len(ridList)-1 {
		parentSeg.Level[1] = i
		for _, rid := range ridList {
			r := rt.Get(rid)
			r.Level = [2]int{i + 1, i + 1}
			for _, segID := range r.Segments {
				st.Get(segID).Level = r.Level
			}
		}
		normalRegions = map[string]bool{}
		merged = nil
	}

	newRidList := append([]string(nil), ridList...)
	for _, rg := range merged {
		wrapIDs := append([]string(nil), ridList[rg.b:rg.a+1]...)
		var total, totalVar uint64
		var dirVar uint32
		for _, rid := range wrapIDs {
			delete(normalRegions, rid)
			r := rt.Get(rid)
			total += r.Length
			totalVar += r.TotalVariants
			if r.Type != TypeCon {
				dirVar++
			}
		}

		wrapRegion := &Region{
			ID: ids.nextRegion(), Type: TypeCon, Level: [2]int{i, i},
			Sources: cloneSet(parentSeg.Sources), Length: total, MinLength: total,
			TotalVariants: totalVar + uint64(dirVar), ParentSegment: parentSeg.ID,
		}
		wrapSegment := &Segment{
			ID: ids.nextSegment(), Level: wrapRegion.Level, Length: total,
			Sources: wrapRegion.Sources, IsWrapper: true,
			DirectVariants: dirVar, TotalVariants: wrapRegion.TotalVariants,
			SubRegions: wrapIDs,
		}
		wrapSegment.Frequency = float32(len(wrapSegment.Sources)) / float32(len(meta.Sources))
		name := ids.nextCon()
		wrapRegion.SemanticID = name
		wrapSegment.Name = name
		wrapRegion.Segments = []string{wrapSegment.ID}

		st.Add(wrapSegment)
		rt.Add(wrapRegion)

		for idx := rg.b; idx <= rg.a; idx++ {
			newRidList[idx] = ""
		}
		newRidList[rg.b] = wrapRegion.ID

		for _, rid := range wrapIDs {
			r := rt.Get(rid)
			r.ParentSegment = wrapSegment.ID
			r.Level = [2]int{i + 1, i + 1}
			for _, segID := range r.Segments {
				st.Get(segID).Level = r.Level
			}
		}
	}

	if len(merged) > 0 {
		compact := make([]string, 0, len(newRidList))
		for _, rid := range newRidList {
			if rid != "" {
				compact = append(compact, rid)
			}
		}
		parentSeg.SubRegions = compact
	}

	for _, rid := range ridList {
		if !normalRegions[rid] {
			continue
		}
		region := rt.Get(rid)
		allLeaf := true
		for _, segID := range region.Segments {
			if len(st.Get(segID).SubRegions) > 0 {
				allLeaf = false
				break
			}
		}
		if allLeaf {
			region.Level = [2]int{i, i + 1}
			for _, segID := range region.Segments {
				st.Get(segID).Level = region.Level
			}
			continue
		}
		var subRegionIDs []string
		for _, segID := range region.Segments {
			subRegionIDs = append(subRegionIDs, st.Get(segID).SubRegions...)
		}
		for _, srid := range subRegionIDs {
			sr := rt.Get(srid)
			sr.Level = [2]int{i + 1, i + 1}
			for _, segID := range sr.Segments {
				st.Get(segID).Level = sr.Level
			}
		}
	}
	return nil
}
