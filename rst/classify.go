package rst

import (
	"math"
)

// FillLeafToRoot computes length, min_length and total_variants bottom-up
// over the flat tree Build produced, classifies each multi-segment region
// into a RegionType and assigns display names (spec.md §4.3). It must run
// before Wrap or FillRootToLeaf: both depend on regions already carrying
// a final Length.
func FillLeafToRoot(rt *RegionTable, st *SegmentTable, ids *IDGen) error {
	maxLevel := 0
	for _, r := range rt.Rows() {
		if r.Level[1] > maxLevel {
			maxLevel = r.Level[1]
		}
	}

	for i := maxLevel; i >= 0; i-- {
		for _, region := range rt.Rows() {
			if i < region.Level[0] || i > region.Level[1] {
				continue
			}
			if err := classifyRegion(region, st, ids); err != nil {
				return err
			}
		}

		if i < 1 {
			continue
		}
		for _, seg := range st.Rows() {
			if len(seg.SubRegions) == 0 {
				continue
			}
			if i-1 < seg.Level[0] || i-1 > seg.Level[1] {
				continue
			}
			rollupSegment(seg, rt)
		}
	}
	return nil
}

func classifyRegion(region *Region, st *SegmentTable, ids *IDGen) error {
	segs := make([]*Segment, len(region.Segments))
	for i, id := range region.Segments {
		seg := st.Get(id)
		if seg == nil {
			return ErrInternalInvariant
		}
		segs[i] = seg
	}

	maxLen, minLen, minPositive := segs[0].Length, segs[0].Length, uint64(0)
	var totalVar uint64
	for _, seg := range segs {
		if seg.Length > maxLen {
			maxLen = seg.Length
		}
		if seg.Length < minLen {
			minLen = seg.Length
		}
		if seg.Length > 0 && (minPositive == 0 || seg.Length < minPositive) {
			minPositive = seg.Length
		}
		totalVar += seg.TotalVariants
	}
	region.Length = maxLen
	region.MinLength = minPositive
	region.TotalVariants = totalVar

	if len(segs) == 1 {
		rn := ids.nextCon()
		region.Type = TypeCon
		region.SemanticID = rn
		segs[0].Name = rn
		return nil
	}

	d := maxLen - minLen
	std, mean := sampleStdMean(segs)

	switch {
	case mean > 0 && std/mean < 0.1:
		allSingleBP := true
		for _, seg := range segs {
			if seg.Length != 1 {
				allSingleBP = false
				break
			}
		}
		var rn string
		if allSingleBP {
			region.Type = TypeSNP
			rn = ids.nextSNP()
		} else {
			region.Type = TypeAle
			rn = ids.nextAllele()
		}
		region.SemanticID = rn
		for i, seg := range segs {
			seg.Name = rn + "-" + alleleLetter(i)
		}

	case minLen == 0 || (minLen < 10 && float64(d)/float64(minLen) > 5):
		secondMin := uint64(0)
		for _, seg := range segs {
			if seg.Length > minLen && (secondMin == 0 || seg.Length < secondMin) {
				secondMin = seg.Length
			}
		}
		region.MinLength = secondMin

		var rn string
		if d > 50 {
			region.Type = TypeSV
			rn = ids.nextSV()
		} else {
			region.Type = TypeInd
			rn = ids.nextIndel()
		}
		region.SemanticID = rn

		minIdx := 0
		for i, seg := range segs {
			if seg.Length < segs[minIdx].Length {
				minIdx = i
			}
		}
		segs[minIdx].Name = rn + "-d"

		rest := make([]*Segment, 0, len(segs)-1)
		for i, seg := range segs {
			if i != minIdx {
				rest = append(rest, seg)
			}
		}
		if len(rest) > 1 {
			for j, seg := range rest {
				seg.Name = rn + "-i" + alleleLetter(j)
			}
		} else if len(rest) == 1 {
			rest[0].Name = rn + "-i"
		}

	default:
		region.Type = TypeVar
		rn := ids.nextVar()
		region.SemanticID = rn
		for i, seg := range segs {
			seg.Name = rn + "-" + alleleLetter(i)
		}
	}
	return nil
}

func rollupSegment(seg *Segment, rt *RegionTable) {
	var totalLen, totalVar uint64
	var directVar uint32
	for _, rid := range seg.SubRegions {
		sub := rt.Get(rid)
		if sub == nil {
			continue
		}
		totalLen += sub.Length
		totalVar += sub.TotalVariants
		if sub.Type != TypeCon {
			directVar++
		}
	}
	seg.Length = totalLen
	seg.DirectVariants = directVar
	seg.TotalVariants = totalVar + uint64(directVar)
}

// sampleStdMean returns the sample standard deviation (ddof=1) and mean
// of segment lengths, matching pandas Series.std()/mean() semantics used
// by the original classifier.
func sampleStdMean(segs []*Segment) (std, mean float64) {
	n := float64(len(segs))
	var sum float64
	for _, seg := range segs {
		sum += float64(seg.Length)
	}
	mean = sum / n
	if len(segs) < 2 {
		return 0, mean
	}
	var sq float64
	for _, seg := range segs {
		diff := float64(seg.Length) - mean
		sq += diff * diff
	}
	std = math.Sqrt(sq / (n - 1))
	return std, mean
}

// alleleLetter returns the single-letter suffix used for the i-th allele
// (a, b, c, ...), falling back to a numeric suffix beyond the 26-letter
// range the original naming scheme never exceeded in practice.
func alleleLetter(i int) string {
	if i < 26 {
		return string(rune('a' + i))
	}
	return "a" + itoa(i)
}
