package rst_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hapgraph/rstcore/rst"
)

// TestFillRootToLeafRejectsSegmentLongerThanWindow verifies a segment
// whose length exceeds its region's coordinate window is reported as
// ErrLengthOverflow rather than silently producing an invalid range.
func TestFillRootToLeafRejectsSegmentLongerThanWindow(t *testing.T) {
	rt := rst.NewRegionTable()
	st := rst.NewSegmentTable()

	root := &rst.Region{ID: "r-1", Segments: []string{"s-1"}}
	rt.Add(root)
	st.Add(&rst.Segment{ID: "s-1", Length: 100})

	meta := &rst.Meta{TotalLength: 10}
	err := rst.FillRootToLeaf(rt, st, meta)
	require.ErrorIs(t, err, rst.ErrLengthOverflow)
}

// TestFillRootToLeafRequiresARootRegion verifies a table with no
// empty-ParentSegment region is rejected as an internal invariant
// violation rather than panicking.
func TestFillRootToLeafRequiresARootRegion(t *testing.T) {
	rt := rst.NewRegionTable()
	rt.Add(&rst.Region{ID: "r-1", ParentSegment: "s-0"})
	st := rst.NewSegmentTable()
	meta := &rst.Meta{TotalLength: 10}

	err := rst.FillRootToLeaf(rt, st, meta)
	require.ErrorIs(t, err, rst.ErrInternalInvariant)
}

// TestFillRootToLeafCentersSegmentWithinWindow verifies a segment
// shorter than its region's window is centered, with any odd remainder
// falling on the trailing side.
func TestFillRootToLeafCentersSegmentWithinWindow(t *testing.T) {
	rt := rst.NewRegionTable()
	st := rst.NewSegmentTable()

	root := &rst.Region{ID: "r-1", Segments: []string{"s-1"}}
	rt.Add(root)
	st.Add(&rst.Segment{ID: "s-1", Length: 4})

	meta := &rst.Meta{TotalLength: 10}
	require.NoError(t, rst.FillRootToLeaf(rt, st, meta))

	seg := st.Get("s-1")
	require.Equal(t, [2]int{3, 7}, seg.Coord)
}
