package genbench

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/hapgraph/rstcore/dag"
)

func node(name string, length uint64, sources []string) dag.InputNode {
	return dag.InputNode{Name: name, Length: length, HasLength: true, Frequency: 1.0, Sources: sources}
}

// LinearChain builds a graph of count consensus vertices in series, each
// nodeLength bp long and carried by every haplotype — spec.md S1
// generalized to an arbitrary chain length.
func LinearChain(count int, nodeLength uint64, haplotypes []string) (*dag.Graph, error) {
	if count < 1 {
		return nil, fmt.Errorf("genbench: count must be >= 1")
	}
	var nodes []dag.InputNode
	var edges []dag.InputEdge
	prev := ""
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("n%d", i+1)
		nodes = append(nodes, node(name, nodeLength, haplotypes))
		if prev != "" {
			edges = append(edges, dag.InputEdge{Source: prev, Target: name})
		}
		prev = name
	}
	return dag.Load(nodes, edges, haplotypes, logr.Discard())
}

// SNPBubble builds the two-haplotype single-base substitution graph from
// spec.md S2: n1 -> {a, b} -> n2, with a and b each carried by one
// haplotype.
func SNPBubble(haplotypes []string) (*dag.Graph, error) {
	if len(haplotypes) != 2 {
		return nil, fmt.Errorf("genbench: SNPBubble needs exactly 2 haplotypes")
	}
	nodes := []dag.InputNode{
		node("n1", 1, haplotypes),
		node("a", 1, haplotypes[:1]),
		node("b", 1, haplotypes[1:]),
		node("n2", 1, haplotypes),
	}
	edges := []dag.InputEdge{
		{Source: "n1", Target: "a"}, {Source: "n1", Target: "b"},
		{Source: "a", Target: "n2"}, {Source: "b", Target: "n2"},
	}
	return dag.Load(nodes, edges, haplotypes, logr.Discard())
}

// DeletionBubble builds a bypass-edge bubble: one haplotype carries an
// "alt" vertex of altLength bp between two flanking vertices, the other
// takes a direct edge around it. altLength == 5 reproduces spec.md S3
// (classified "ind"); altLength == 200 reproduces S4 ("sv").
func DeletionBubble(altLength, flankLength uint64, haplotypes []string) (*dag.Graph, error) {
	if len(haplotypes) != 2 {
		return nil, fmt.Errorf("genbench: DeletionBubble needs exactly 2 haplotypes")
	}
	nodes := []dag.InputNode{
		node("n1", flankLength, haplotypes),
		node("alt", altLength, haplotypes[:1]),
		node("n2", flankLength, haplotypes),
	}
	edges := []dag.InputEdge{
		{Source: "n1", Target: "alt"},
		{Source: "alt", Target: "n2"},
		{Source: "n1", Target: "n2"},
	}
	return dag.Load(nodes, edges, haplotypes, logr.Discard())
}

// WrappingStress builds a chain of count single-base-pair SNP bubbles in
// series — spec.md S5's 200-region wrapping stress graph, parameterized
// so tests can also exercise shorter/longer chains.
func WrappingStress(count int, haplotypes []string) (*dag.Graph, error) {
	if len(haplotypes) != 2 {
		return nil, fmt.Errorf("genbench: WrappingStress needs exactly 2 haplotypes")
	}
	if count < 1 {
		return nil, fmt.Errorf("genbench: count must be >= 1")
	}
	var nodes []dag.InputNode
	var edges []dag.InputEdge
	prev := ""
	link := func(name string) {
		if prev != "" {
			edges = append(edges, dag.InputEdge{Source: prev, Target: name})
		}
		prev = name
	}
	for i := 0; i < count; i++ {
		flank := fmt.Sprintf("f%d", i)
		a := fmt.Sprintf("a%d", i)
		b := fmt.Sprintf("b%d", i)
		nodes = append(nodes, node(flank, 1, haplotypes))
		link(flank)

		nodes = append(nodes, node(a, 1, haplotypes[:1]), node(b, 1, haplotypes[1:]))
		edges = append(edges,
			dag.InputEdge{Source: flank, Target: a},
			dag.InputEdge{Source: flank, Target: b},
		)
		joint := fmt.Sprintf("j%d", i)
		nodes = append(nodes, node(joint, 1, haplotypes))
		edges = append(edges,
			dag.InputEdge{Source: a, Target: joint},
			dag.InputEdge{Source: b, Target: joint},
		)
		prev = joint
	}
	return dag.Load(nodes, edges, haplotypes, logr.Discard())
}

// RandomChain builds a chain of count consensus vertices whose lengths
// are drawn uniformly from [minLen, maxLen], for fuzz-style benchmarking.
func RandomChain(count int, minLen, maxLen uint64, haplotypes []string, opts ...Option) (*dag.Graph, error) {
	if maxLen < minLen {
		return nil, fmt.Errorf("genbench: maxLen must be >= minLen")
	}
	cfg := newConfig(opts...)
	var nodes []dag.InputNode
	var edges []dag.InputEdge
	prev := ""
	span := maxLen - minLen + 1
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("n%d", i+1)
		length := minLen
		if span > 1 {
			length += uint64(cfg.rng.Int63n(int64(span)))
		}
		nodes = append(nodes, node(name, length, haplotypes))
		if prev != "" {
			edges = append(edges, dag.InputEdge{Source: prev, Target: name})
		}
		prev = name
	}
	return dag.Load(nodes, edges, haplotypes, logr.Discard())
}
