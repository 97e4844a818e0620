package dag_test

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/hapgraph/rstcore/dag"
)

// LoaderSuite exercises dag.Load's sentinel insertion, validation and
// deterministic adjacency ordering.
type LoaderSuite struct {
	suite.Suite
}

func node(name string, length uint64, sources ...string) dag.InputNode {
	return dag.InputNode{Name: name, Length: length, HasLength: true, Frequency: 1, Sources: sources}
}

// TestSentinelsWrapLinearChain verifies Load prepends start and appends
// end around a simple linear chain with no pre-existing sentinels.
func (s *LoaderSuite) TestSentinelsWrapLinearChain() {
	nodes := []dag.InputNode{node("n1", 10, "h1"), node("n2", 5, "h1")}
	edges := []dag.InputEdge{{Source: "n1", Target: "n2"}}

	g, err := dag.Load(nodes, edges, []string{"h1"}, logr.Discard())
	require.NoError(s.T(), err)

	require.Equal(s.T(), []string{"n1"}, g.Successors(dag.Start))
	require.Equal(s.T(), []string{"n2"}, g.Successors("n1"))
	require.Equal(s.T(), []string{dag.End}, g.Successors("n2"))
	require.Equal(s.T(), 0, g.InDegree(dag.Start))
	require.Equal(s.T(), 0, g.OutDegree(dag.End))
}

// TestMultipleRootsAndSinksAllAttachToSentinels covers a connected graph
// with two in-degree-0 nodes and two out-degree-0 nodes.
func (s *LoaderSuite) TestMultipleRootsAndSinksAllAttachToSentinels() {
	nodes := []dag.InputNode{node("a", 1, "h1"), node("b", 1, "h1"), node("c", 1, "h1"), node("d", 1, "h1")}
	edges := []dag.InputEdge{{Source: "a", Target: "c"}, {Source: "b", Target: "d"}, {Source: "a", Target: "d"}}

	g, err := dag.Load(nodes, edges, []string{"h1"}, logr.Discard())
	require.NoError(s.T(), err)

	require.ElementsMatch(s.T(), []string{"a", "b"}, g.Successors(dag.Start))
	require.ElementsMatch(s.T(), []string{"c", "d"}, g.Predecessors(dag.End))
}

// TestDuplicateVertexNameRejected ensures two input nodes sharing a name
// fail fast.
func (s *LoaderSuite) TestDuplicateVertexNameRejected() {
	nodes := []dag.InputNode{node("n1", 1, "h1"), node("n1", 2, "h1")}
	_, err := dag.Load(nodes, nil, []string{"h1"}, logr.Discard())
	require.ErrorIs(s.T(), err, dag.ErrDuplicateVertex)
}

// TestMissingLengthRejected ensures a non-sentinel node without an
// explicit length fails fast rather than silently defaulting to zero.
func (s *LoaderSuite) TestMissingLengthRejected() {
	nodes := []dag.InputNode{{Name: "n1", HasLength: false}}
	_, err := dag.Load(nodes, nil, []string{"h1"}, logr.Discard())
	require.ErrorIs(s.T(), err, dag.ErrLengthMissing)
}

// TestCycleRejected ensures a cyclic input graph is rejected before
// sentinels are trusted.
func (s *LoaderSuite) TestCycleRejected() {
	nodes := []dag.InputNode{node("a", 1, "h1"), node("b", 1, "h1")}
	edges := []dag.InputEdge{{Source: "a", Target: "b"}, {Source: "b", Target: "a"}}
	_, err := dag.Load(nodes, edges, []string{"h1"}, logr.Discard())
	require.ErrorIs(s.T(), err, dag.ErrCycleDetected)
}

// TestDisconnectedRejected ensures two components with no edge between
// them are rejected even though each is individually acyclic.
func (s *LoaderSuite) TestDisconnectedRejected() {
	nodes := []dag.InputNode{node("a", 1, "h1"), node("b", 1, "h1")}
	_, err := dag.Load(nodes, nil, []string{"h1"}, logr.Discard())
	require.ErrorIs(s.T(), err, dag.ErrDisconnected)
}

// TestSentinelNameCollisionRejected ensures an input vertex literally
// named "start" or "end" is rejected rather than silently colliding
// with the synthesized sentinel.
func (s *LoaderSuite) TestSentinelNameCollisionRejected() {
	nodes := []dag.InputNode{node(dag.Start, 1, "h1")}
	_, err := dag.Load(nodes, nil, []string{"h1"}, logr.Discard())
	require.Error(s.T(), err)
}

// TestCloneIsIndependent verifies Clone produces a graph whose mutation
// does not affect the original.
func (s *LoaderSuite) TestCloneIsIndependent() {
	nodes := []dag.InputNode{node("n1", 1, "h1"), node("n2", 1, "h1")}
	edges := []dag.InputEdge{{Source: "n1", Target: "n2"}}
	g, err := dag.Load(nodes, edges, []string{"h1"}, logr.Discard())
	require.NoError(s.T(), err)

	clone := g.Clone()
	require.NoError(s.T(), clone.AddEdge("n1", dag.End))
	require.NotContains(s.T(), g.Successors("n1"), dag.End)
	require.Contains(s.T(), clone.Successors("n1"), dag.End)
}

// TestAdjacencyIsSorted verifies AddEdge maintains a deterministic,
// sorted adjacency order regardless of insertion order.
func (s *LoaderSuite) TestAdjacencyIsSorted() {
	nodes := []dag.InputNode{node("n1", 1, "h1"), node("c", 1, "h1"), node("a", 1, "h1"), node("b", 1, "h1")}
	edges := []dag.InputEdge{
		{Source: "n1", Target: "c"}, {Source: "n1", Target: "a"}, {Source: "n1", Target: "b"},
		{Source: "c", Target: "b"}, {Source: "a", Target: "b"},
	}
	g, err := dag.Load(nodes, edges, []string{"h1"}, logr.Discard())
	require.NoError(s.T(), err)
	require.Equal(s.T(), []string{"a", "b", "c"}, g.Successors("n1"))
}

func TestLoaderSuite(t *testing.T) {
	suite.Run(t, new(LoaderSuite))
}
