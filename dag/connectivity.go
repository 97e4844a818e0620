package dag

import "errors"

// ErrDisconnected indicates the undirected projection of the graph is
// not connected, i.e. it has more than one weakly-connected component.
var ErrDisconnected = errors.New("dag: graph is disconnected")

// isWeaklyConnected runs a BFS over the undirected projection of g
// (following both out- and in-adjacency) from an arbitrary vertex and
// reports whether every vertex was reached. Adapted from the teacher's
// bfs package walker, simplified to a plain reachability scan since the
// loader needs only the boolean result, not distances or parents.
func isWeaklyConnected(g *Graph) bool {
	verts := g.Vertices()
	if len(verts) <= 1 {
		return true
	}

	visited := make(map[string]bool, len(verts))
	queue := []string{verts[0]}
	visited[verts[0]] = true

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range g.out[id] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
		for _, prev := range g.in[id] {
			if !visited[prev] {
				visited[prev] = true
				queue = append(queue, prev)
			}
		}
	}

	return len(visited) == len(verts)
}
