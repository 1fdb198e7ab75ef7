package assemble

import "fragsort/internal/model"

// Overlaps reports whether b may directly follow a: the last k characters
// of a equal the first k characters of b. Overlap is directional.
func Overlaps(a, b model.Fragment, k int) bool {
	if k <= 0 || len(a) < k || len(b) < k {
		return false
	}
	return a[len(a)-k:] == b[:k]
}

// Graph is the directed overlap relation over a fragment set.
// It is immutable once built.
type Graph struct {
	k     int
	nodes []model.Fragment                    // first-seen input order
	adj   map[model.Fragment][]model.Fragment // out-neighbours per input position, in input order
	edges int
}

// BuildGraph compares every ordered pair of input positions and adds an
// edge i -> j when fragment i overlaps fragment j. Duplicated fragments
// contribute one edge per position, so they raise the out-degree of
// whatever precedes them. Equal values never get an edge, so there are no
// self-loops.
// Every fragment becomes a node, including ones with no edges.
//
// This is O(n^2 * k). Inputs are expected to stay in the low hundreds.
func BuildGraph(fragments []model.Fragment, k int) *Graph {
	g := &Graph{
		k:   k,
		adj: make(map[model.Fragment][]model.Fragment, len(fragments)),
	}

	for _, f := range fragments {
		if _, ok := g.adj[f]; !ok {
			g.adj[f] = []model.Fragment{}
			g.nodes = append(g.nodes, f)
		}
	}

	for i, src := range fragments {
		for j, dst := range fragments {
			if i == j || src == dst || !Overlaps(src, dst, k) {
				continue
			}
			g.adj[src] = append(g.adj[src], dst)
			g.edges++
		}
	}
	return g
}

// Overlap returns the overlap length the graph was built with.
func (g *Graph) Overlap() int { return g.k }

// Nodes returns the fragments of the graph in first-seen input order.
func (g *Graph) Nodes() []model.Fragment {
	out := make([]model.Fragment, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Neighbors returns the out-neighbours of f. The result must not be modified.
func (g *Graph) Neighbors(f model.Fragment) []model.Fragment {
	return g.adj[f]
}

// OutDegree returns the number of edges leaving f, counting duplicates.
func (g *Graph) OutDegree(f model.Fragment) int {
	return len(g.adj[f])
}

// Has reports whether f is a node of the graph.
func (g *Graph) Has(f model.Fragment) bool {
	_, ok := g.adj[f]
	return ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Degrees maps every node to its out-degree, for reporting.
func (g *Graph) Degrees() map[string]int {
	out := make(map[string]int, len(g.nodes))
	for _, f := range g.nodes {
		out[string(f)] = len(g.adj[f])
	}
	return out
}
