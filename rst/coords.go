package rst

import "fmt"

// FillRootToLeaf assigns display coordinates top-down: the root region
// spans [0, total_length), and each segment is centered within its
// owning region's window, with its sub-regions laid out contiguously
// inside the segment's window (spec.md §4.5). Wrap must have run first
// so every region/segment carries a final Length.
func FillRootToLeaf(rt *RegionTable, st *SegmentTable, meta *Meta) error {
	var root *Region
	for _, r := range rt.Rows() {
		if r.ParentSegment == "" {
			root = r
			break
		}
	}
	if root == nil {
		return fmt.Errorf("%w: no root region (empty parent_segment)", ErrInternalInvariant)
	}

	root.Coord = [2]int{0, int(meta.TotalLength)}
	root.IsDefault = true

	queue := []string{root.ID}
	for len(queue) > 0 {
		regID := queue[0]
		queue = queue[1:]
		region := rt.Get(regID)
		if region == nil {
			return fmt.Errorf("%w: dangling region id %s in coordinate queue", ErrInternalInvariant, regID)
		}

		for _, segID := range region.Segments {
			seg := st.Get(segID)
			if seg == nil {
				return fmt.Errorf("%w: dangling segment id %s", ErrInternalInvariant, segID)
			}

			window := region.Coord[1] - region.Coord[0]
			length := int(seg.Length)
			if length > window {
				return ErrLengthOverflow
			}
			var start int
			if length == window {
				start = region.Coord[0]
			} else {
				start = region.Coord[0] + (window-length)/2
			}
			seg.Coord = [2]int{start, start + length}

			isDefault := region.IsDefault && seg.Rank == 0
			cur := start
			for _, subID := range seg.SubRegions {
				sub := rt.Get(subID)
				if sub == nil {
					return fmt.Errorf("%w: dangling sub-region id %s", ErrInternalInvariant, subID)
				}
				sub.IsDefault = isDefault
				subLen := int(sub.Length)
				sub.Coord = [2]int{cur, cur + subLen}
				cur += subLen
				queue = append(queue, subID)
			}
		}
	}
	return nil
}
