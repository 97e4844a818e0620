package rst

import (
	"fmt"
	"sort"

	"github.com/go-logr/logr"

	"github.com/hapgraph/rstcore/dag"
)

// buildState carries the mutable state of one graph_to_rst traversal
// (spec.md §4.2). It owns a private clone of the input graph: deletion-
// site repair and allele-deletion synthesis both rewrite edges and add
// zero-length carrier vertices, and the caller's graph must never be
// mutated (spec.md §9, "transient graph mutation").
type buildState struct {
	g   *dag.Graph
	ids *IDGen
	rt  *RegionTable
	st  *SegmentTable

	visited     map[string]bool
	pathStarts  []string // FIFO queue of path-start vertex names
	paths       [][]string
	parentSeg   map[string]string // vertex name -> owning segment id, while pending
	pathIdx     map[string]int    // vertex name -> index into paths, while pending
	beforeIndex map[string]string // flanking vertex name -> committed var-region id

	haplotypes   []string
	haplotypeSet map[string]struct{}

	log logr.Logger
}

// Build traverses g and produces a flat RegionTable/SegmentTable pair
// capturing consensus and variant structure, per spec.md §4.2. It does
// not classify variants or assign coordinates; call FillLeafToRoot, Wrap
// and FillRootToLeaf afterwards to complete the pipeline. The returned
// IDGen must be threaded into FillLeafToRoot and Wrap so that region and
// segment ids stay unique across the whole build (mirrors the single
// per-process counter the original traversal relied on).
func Build(g *dag.Graph, log logr.Logger) (*RegionTable, *SegmentTable, *Meta, *IDGen, error) {
	s := &buildState{
		g:            g.Clone(),
		ids:          NewIDGen(),
		rt:           NewRegionTable(),
		st:           NewSegmentTable(),
		visited:      make(map[string]bool),
		pathStarts:   []string{dag.Start},
		parentSeg:    make(map[string]string),
		pathIdx:      make(map[string]int),
		beforeIndex:  make(map[string]string),
		haplotypes:   append([]string(nil), g.Haplotypes()...),
		haplotypeSet: toSet(g.Haplotypes()),
		log:          log,
	}

	for len(s.pathStarts) > 0 {
		start := s.pathStarts[0]
		s.pathStarts = s.pathStarts[1:]
		if err := s.processPath(start); err != nil {
			return nil, nil, nil, nil, err
		}
	}

	if err := s.finalizeDangling(); err != nil {
		return nil, nil, nil, nil, err
	}

	s.fillSourceClosure()
	s.assignRanks()

	meta := &Meta{Sources: append([]string(nil), s.haplotypes...)}
	s.log.V(1).Info("rst built", "regions", s.rt.Len(), "segments", s.st.Len())
	return s.rt, s.st, meta, s.ids, nil
}

// processPath traverses one maximal unvisited path starting at `start`
// and records the region(s)/segment(s) it produces. See spec.md §4.2
// steps 2.a-2.h for the contract this mirrors.
func (s *buildState) processPath(start string) error {
	var region *Region
	var segment *Segment
	var level int
	var before string
	isSidePath := start != dag.Start
	isNewRegion := true

	if !isSidePath {
		region = &Region{ID: s.ids.nextRegion(), Type: TypeCon, Sources: cloneSet(s.haplotypeSet)}
		segment = &Segment{ID: s.ids.nextSegment(), IsWrapper: true, Sources: map[string]struct{}{}}
	} else {
		preds := s.g.Predecessors(start)
		if len(preds) == 0 {
			return fmt.Errorf("%w: side path start %s has no predecessor", ErrUnresolvedTopology, start)
		}
		before = preds[0] // first deterministic candidate, see SPEC_FULL.md §6

		if existingID, ok := s.beforeIndex[before]; ok {
			region = s.rt.Get(existingID)
			if region == nil {
				return fmt.Errorf("%w: before-index points at missing region %s", ErrInternalInvariant, existingID)
			}
			segment = &Segment{ID: s.ids.nextSegment(), Level: region.Level, Sources: map[string]struct{}{}}
			level = region.Level[0]
			isNewRegion = false
		} else {
			parentSegID, ok := s.parentSeg[before]
			if !ok {
				return fmt.Errorf("%w: no parent segment recorded for %s", ErrInternalInvariant, before)
			}
			parentSegRow := s.st.Get(parentSegID)
			if parentSegRow == nil {
				return fmt.Errorf("%w: missing parent segment row %s", ErrInternalInvariant, parentSegID)
			}
			level = parentSegRow.Level[0] + 1

			if before != dag.Start {
				beforeVertex := s.g.Vertex(before)
				preRegion := &Region{
					ID: s.ids.nextRegion(), Type: TypeCon,
					Level: [2]int{level, level}, ParentSegment: parentSegID,
					Sources: cloneSet(parentSegRow.Sources),
				}
				preSeg := &Segment{
					ID: before, Level: preRegion.Level,
					Sources: preRegion.Sources, Length: beforeVertex.Length,
				}
				preSeg.Frequency = float32(len(preSeg.Sources)) / float32(len(s.haplotypes))
				preRegion.Segments = append(preRegion.Segments, preSeg.ID)
				s.st.Add(preSeg)
				s.rt.Add(preRegion)
				parentSegRow.SubRegions = append(parentSegRow.SubRegions, preRegion.ID)
			}

			region = &Region{
				ID: s.ids.nextRegion(), Type: TypeVar,
				Level: [2]int{level, level}, ParentSegment: parentSegID,
				Sources: cloneSet(parentSegRow.Sources), Before: before,
			}
			segment = &Segment{ID: s.ids.nextSegment(), Level: region.Level, Sources: map[string]struct{}{}}
			delete(s.parentSeg, before) // "before can't be accessed anymore"
			parentSegRow.SubRegions = append(parentSegRow.SubRegions, region.ID)
		}
	}

	path, last, err := s.walk(start, segment)
	if err != nil {
		return err
	}

	if len(path) == 1 {
		node := path[0]
		v := s.g.Vertex(node)
		segment.ID = node
		segment.Length = v.Length
		delete(s.parentSeg, node)
		delete(s.pathIdx, node)
	} else {
		s.paths = append(s.paths, path)
		segment.IsWrapper = true
	}
	region.Segments = append(region.Segments, segment.ID)
	s.st.Add(segment)

	if isSidePath {
		if err := s.processAllele(region, before, last, level); err != nil {
			return err
		}
	}

	if isNewRegion {
		s.rt.Add(region)
		if region.Before != "" {
			s.beforeIndex[region.Before] = region.ID
		}
	}
	return nil
}

// walk traverses the maximal unvisited path starting at `start`,
// performing deletion-site repair in place when the main walk reaches a
// vertex that a previous branch already queued (spec.md §4.2 step 2.e).
// It returns the visited path and the last vertex reached.
func (s *buildState) walk(start string, segment *Segment) (path []string, last string, err error) {
	cur := start
	for cur != "" {
		node := cur
		s.visited[node] = true
		path = append(path, node)

		if idx := indexOf(s.pathStarts, node); idx >= 0 {
			p, ok := s.findDeletionPredecessor(node, last)
			if !ok {
				return nil, "", fmt.Errorf("%w: no unique predecessor for deletion site at %s", ErrUnresolvedTopology, node)
			}
			d := s.synthesizeZeroLengthVertex()
			if err = s.g.AddEdge(p, d); err != nil {
				return nil, "", err
			}
			if err = s.g.AddEdge(d, node); err != nil {
				return nil, "", err
			}
			if err = s.g.RemoveEdge(p, node); err != nil {
				return nil, "", err
			}
			s.pathStarts[idx] = d
		}

		s.parentSeg[node] = segment.ID
		s.pathIdx[node] = len(s.paths)
		if node != dag.Start && node != dag.End {
			v := s.g.Vertex(node)
			mergeInto(segment.Sources, v.Sources)
			if f := float32(v.Frequency); f > segment.Frequency {
				segment.Frequency = f
			}
		}
		last = node
		cur = s.unvisitedSuccessor(node)
	}
	return path, last, nil
}

// unvisitedSuccessor returns the first unvisited out-neighbor of current
// (sorted order, see SPEC_FULL.md §6 tie-break pinning) to continue the
// walk with, pushing any further unvisited successors onto pathStarts.
func (s *buildState) unvisitedSuccessor(current string) string {
	next := ""
	for _, sr := range s.g.Successors(current) {
		if !s.visited[sr] {
			if next != "" {
				s.pathStarts = append(s.pathStarts, sr)
			} else {
				next = sr
			}
		}
	}
	return next
}

// findDeletionPredecessor returns the first visited in-neighbor of node
// other than last (the direct predecessor in the current walk) — the
// "farther predecessor" that the bypass edge originates from.
func (s *buildState) findDeletionPredecessor(node, last string) (string, bool) {
	for _, pr := range s.g.Predecessors(node) {
		if s.visited[pr] && pr != last {
			return pr, true
		}
	}
	return "", false
}

// synthesizeZeroLengthVertex adds a fresh zero-length carrier vertex
// (used both for deletion-site repair and for representing a pure
// insertion's complementary deletion allele) and returns its name.
func (s *buildState) synthesizeZeroLengthVertex() string {
	name := s.ids.nextSegment()
	s.g.AddVertex(&dag.Vertex{Name: name})
	return name
}

// processAllele locates the sub-interval of the original main path
// corresponding to this side path's locus and builds the allele segment
// for it (spec.md §4.2 step 2.h).
func (s *buildState) processAllele(region *Region, before, last string, level int) error {
	pi, ok := s.pathIdx[before]
	if !ok {
		return fmt.Errorf("%w: no recorded path index for %s", ErrUnresolvedTopology, before)
	}
	orgPath := s.paths[pi]
	b := indexOf(orgPath, before)
	if b < 0 {
		return fmt.Errorf("%w: %s not found on its own recorded path", ErrInternalInvariant, before)
	}

	var after string
	found := false
	for _, af := range s.g.Successors(last) {
		if s.visited[af] {
			after = af
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: no visited successor found to close allele region at %s", ErrUnresolvedTopology, last)
	}
	region.After = after

	a := indexOf(orgPath, after)
	if a < 0 {
		return fmt.Errorf("%w: %s not found on original path", ErrInternalInvariant, after)
	}

	var aleVertices []string
	if b < a {
		aleVertices = append(aleVertices, orgPath[b+1:a]...)
	}

	if len(aleVertices) == 0 {
		d := s.synthesizeZeroLengthVertex()
		if err := s.g.AddEdge(before, d); err != nil {
			return err
		}
		if err := s.g.AddEdge(d, after); err != nil {
			return err
		}
		if err := s.g.RemoveEdge(before, after); err != nil {
			return fmt.Errorf("%w: expected direct edge %s->%s for deletion allele", ErrUnresolvedTopology, before, after)
		}
		s.visited[d] = true
		aleVertices = []string{d}
	}

	var aleSeg *Segment
	if len(aleVertices) == 1 {
		n := aleVertices[0]
		v := s.g.Vertex(n)
		aleSeg = &Segment{ID: n, Length: v.Length, Frequency: float32(v.Frequency), Sources: cloneSet(v.Sources)}
		delete(s.parentSeg, n)
	} else {
		aleSeg = &Segment{ID: s.ids.nextSegment(), IsWrapper: true, Sources: map[string]struct{}{}}
		for _, n := range aleVertices {
			s.parentSeg[n] = aleSeg.ID
			v := s.g.Vertex(n)
			mergeInto(aleSeg.Sources, v.Sources)
			if f := float32(v.Frequency); f > aleSeg.Frequency {
				aleSeg.Frequency = f
			}
		}
	}
	aleSeg.Level = [2]int{level, level}
	region.Segments = append(region.Segments, aleSeg.ID)
	s.st.Add(aleSeg)
	return nil
}

// finalizeDangling turns every vertex still carrying a parent-segment
// marker (i.e. every interior vertex of a multi-vertex path/allele that
// was never split off into its own region) into a singleton consensus
// region one level below its owning segment (spec.md §4.2 step 3).
func (s *buildState) finalizeDangling() error {
	names := make([]string, 0, len(s.parentSeg))
	for name := range s.parentSeg {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		segID := s.parentSeg[name]
		if name == dag.Start || name == dag.End {
			delete(s.parentSeg, name)
			continue
		}
		parentSegRow := s.st.Get(segID)
		if parentSegRow == nil {
			return fmt.Errorf("%w: dangling parent segment %s for %s", ErrInternalInvariant, segID, name)
		}
		level := parentSegRow.Level[0] + 1
		region := &Region{
			ID: s.ids.nextRegion(), Type: TypeCon,
			Level: [2]int{level, level}, ParentSegment: segID,
			Sources: cloneSet(parentSegRow.Sources),
		}
		v := s.g.Vertex(name)
		seg := &Segment{ID: name, Level: region.Level, Sources: region.Sources, Length: v.Length}
		seg.Frequency = float32(len(seg.Sources)) / float32(len(s.haplotypes))
		region.Segments = append(region.Segments, seg.ID)
		parentSegRow.SubRegions = append(parentSegRow.SubRegions, region.ID)
		s.st.Add(seg)
		s.rt.Add(region)
		delete(s.parentSeg, name)
	}
	return nil
}

// fillSourceClosure assigns Sources to any segment created with an empty
// source set — the deletion-allele carrier vertices synthesized during
// the walk — as the region's source set minus the union of its sibling
// segments' sources (spec.md §4.3, "source closure").
func (s *buildState) fillSourceClosure() {
	for _, region := range s.rt.Rows() {
		emptyIdx := -1
		union := make(map[string]struct{})
		for i, segID := range region.Segments {
			seg := s.st.Get(segID)
			if len(seg.Sources) == 0 {
				if emptyIdx == -1 {
					emptyIdx = i
				}
				continue
			}
			mergeInto(union, seg.Sources)
		}
		if emptyIdx < 0 {
			continue
		}
		seg := s.st.Get(region.Segments[emptyIdx])
		complement := make(map[string]struct{})
		for src := range region.Sources {
			if _, in := union[src]; !in {
				complement[src] = struct{}{}
			}
		}
		seg.Sources = complement
		seg.Frequency = float32(len(complement)) / float32(len(s.haplotypes))
	}
}

// assignRanks computes per-segment Rank within each region: descending
// frequency, ties broken stably by original insertion order, with an
// explicit preference for insertion (non-zero-length) segments over
// deletion (zero-length) ones at equal frequency (spec.md §4.3, §5).
func (s *buildState) assignRanks() {
	for _, region := range s.rt.Rows() {
		segs := make([]*Segment, len(region.Segments))
		for i, id := range region.Segments {
			segs[i] = s.st.Get(id)
		}
		sort.SliceStable(segs, func(i, j int) bool {
			if segs[i].Frequency != segs[j].Frequency {
				return segs[i].Frequency > segs[j].Frequency
			}
			iDel := segs[i].Length == 0
			jDel := segs[j].Length == 0
			if iDel != jDel {
				return !iDel
			}
			return false
		})
		for rank, seg := range segs {
			seg.Rank = uint8(rank)
		}
	}
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func mergeInto(dst, src map[string]struct{}) {
	for k := range src {
		dst[k] = struct{}{}
	}
}

func cloneSet(src map[string]struct{}) map[string]struct{} {
	dst := make(map[string]struct{}, len(src))
	mergeInto(dst, src)
	return dst
}

func toSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, it := range items {
		out[it] = struct{}{}
	}
	return out
}
