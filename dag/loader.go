package dag

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"
)

// ErrLengthMissing indicates a non-sentinel vertex had no length supplied.
var ErrLengthMissing = errors.New("dag: vertex length missing")

// InputNode is one vertex as produced by the (out-of-scope) GFA/subgraph
// collaborator: a name, bp length, haplotype-carrying frequency in
// [0,1], and the set of haplotypes that carry it.
type InputNode struct {
	Name      string
	Length    uint64
	HasLength bool // distinguishes "0" from "not supplied"
	Frequency float64
	Sources   []string
}

// InputEdge is a directed adjacency pair by vertex name.
type InputEdge struct {
	Source string
	Target string
}

// Load builds a Graph from parsed GFA nodes/edges and the graph-level
// haplotype list, prepending a "start" sentinel linked to every
// in-degree-0 node and appending an "end" sentinel linked from every
// out-degree-0 node (spec.md §4.1). It fails with ErrLengthMissing,
// ErrDuplicateVertex, ErrCycleDetected or ErrDisconnected before
// returning a usable graph; a caller-supplied log sink receives one
// diagnostic line per validation stage at V(1).
func Load(nodes []InputNode, edges []InputEdge, haplotypes []string, log logr.Logger) (*Graph, error) {
	g := newGraph(append([]string(nil), haplotypes...))

	for _, n := range nodes {
		if n.Name == "" {
			return nil, ErrEmptyVertexName
		}
		if n.Name == Start || n.Name == End {
			return nil, fmt.Errorf("dag: input vertex name collides with sentinel %q", n.Name)
		}
		if g.HasVertex(n.Name) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateVertex, n.Name)
		}
		if !n.HasLength {
			return nil, fmt.Errorf("%w: %s", ErrLengthMissing, n.Name)
		}
		v := &Vertex{Name: n.Name, Length: n.Length, Frequency: n.Frequency}
		if len(n.Sources) > 0 {
			v.Sources = make(map[string]struct{}, len(n.Sources))
			for _, s := range n.Sources {
				v.Sources[s] = struct{}{}
			}
		}
		g.AddVertex(v)
	}
	log.V(1).Info("loaded vertices", "count", len(nodes))

	for _, e := range edges {
		if err := g.AddEdge(e.Source, e.Target); err != nil {
			return nil, fmt.Errorf("dag: edge %s->%s: %w", e.Source, e.Target, err)
		}
	}
	log.V(1).Info("loaded edges", "count", len(edges))

	// Connectivity is judged on the input graph alone: once the sentinels
	// are attached, every component is joined through start and end.
	connected := isWeaklyConnected(g)

	// Insert sentinels: start -> every in-degree-0 node, every
	// out-degree-0 node -> end.
	g.AddVertex(&Vertex{Name: Start})
	g.AddVertex(&Vertex{Name: End})
	for _, name := range g.Vertices() {
		if name == Start || name == End {
			continue
		}
		if g.InDegree(name) == 0 {
			if err := g.AddEdge(Start, name); err != nil {
				return nil, err
			}
		}
		if g.OutDegree(name) == 0 {
			if err := g.AddEdge(name, End); err != nil {
				return nil, err
			}
		}
	}

	if _, err := topologicalSort(g); err != nil {
		return nil, err
	}
	log.V(1).Info("acyclicity verified")

	if !connected {
		return nil, ErrDisconnected
	}
	log.V(1).Info("connectivity verified", "vertices", len(g.vertices))

	return g, nil
}
