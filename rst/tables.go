package rst

// RegionTable and SegmentTable are append-only, id-indexed stores
// (spec.md §9: "dual indices ... for O(1) navigation while preserving
// the id-based contract at I/O boundaries"). Mutation during building is
// confined to the row currently being processed; no locking is needed
// because a single Graph/RST build runs on one goroutine (spec.md §5).

// RegionTable stores Region rows in insertion order with an id index.
type RegionTable struct {
	rows  []*Region
	index map[string]int
}

// NewRegionTable returns an empty RegionTable.
func NewRegionTable() *RegionTable {
	return &RegionTable{index: make(map[string]int)}
}

// Add appends r and indexes it by ID.
func (t *RegionTable) Add(r *Region) {
	t.index[r.ID] = len(t.rows)
	t.rows = append(t.rows, r)
}

// Get returns the region with the given id, or nil.
func (t *RegionTable) Get(id string) *Region {
	if i, ok := t.index[id]; ok {
		return t.rows[i]
	}
	return nil
}

// Rows returns all rows in insertion order. Callers must not mutate the
// returned slice's length; row contents may be mutated in place.
func (t *RegionTable) Rows() []*Region { return t.rows }

// Len returns the number of rows.
func (t *RegionTable) Len() int { return len(t.rows) }

// SegmentTable stores Segment rows in insertion order with an id index.
type SegmentTable struct {
	rows  []*Segment
	index map[string]int
}

// NewSegmentTable returns an empty SegmentTable.
func NewSegmentTable() *SegmentTable {
	return &SegmentTable{index: make(map[string]int)}
}

// Add appends s and indexes it by ID.
func (t *SegmentTable) Add(s *Segment) {
	t.index[s.ID] = len(t.rows)
	t.rows = append(t.rows, s)
}

// Get returns the segment with the given id, or nil.
func (t *SegmentTable) Get(id string) *Segment {
	if i, ok := t.index[id]; ok {
		return t.rows[i]
	}
	return nil
}

// Rows returns all rows in insertion order.
func (t *SegmentTable) Rows() []*Segment { return t.rows }

// Len returns the number of rows.
func (t *SegmentTable) Len() int { return len(t.rows) }
