package assemble

import (
	"cmp"
	"context"
	"slices"

	"fragsort/internal/model"
)

// Limits bounds the path search. Zero values mean unbounded.
type Limits struct {
	// MaxStates caps how many states are dequeued.
	MaxStates int
	// MaxFrontier caps the queue length; states beyond it are dropped.
	MaxFrontier int
}

// ctxCheckEvery is how many dequeued states pass between context checks.
const ctxCheckEvery = 256

// step is one search state. Paths share their prefixes through parent
// links, so extending a path never touches the one it came from.
type step struct {
	frag   model.Fragment
	parent *step
	depth  int
}

func (s *step) contains(f model.Fragment) bool {
	for p := s; p != nil; p = p.parent {
		if p.frag == f {
			return true
		}
	}
	return false
}

func (s *step) chain() model.Chain {
	if s == nil {
		return model.Chain{}
	}
	out := make(model.Chain, s.depth)
	for p, i := s, s.depth-1; p != nil; p, i = p.parent, i-1 {
		out[i] = p.frag
	}
	return out
}

// longer folds a state into the best one seen so far. Ties keep the
// earlier state, so the first path to reach a length wins.
func longer(best, s *step) *step {
	if best == nil || s.depth > best.depth {
		return s
	}
	return best
}

// expansionOrder sorts every node's out-neighbours by descending
// out-degree, breaking ties by ascending fragment value.
func expansionOrder(g *Graph) map[model.Fragment][]model.Fragment {
	order := make(map[model.Fragment][]model.Fragment, g.Len())
	for _, f := range g.nodes {
		ns := slices.Clone(g.Neighbors(f))
		slices.SortStableFunc(ns, func(a, b model.Fragment) int {
			if c := cmp.Compare(g.OutDegree(b), g.OutDegree(a)); c != 0 {
				return c
			}
			return cmp.Compare(a, b)
		})
		order[f] = ns
	}
	return order
}

// FindLongestPath explores the overlap graph breadth-first from start and
// returns the longest simple chain it sees.
//
// Every dequeued state is compared against the best path so far, and the
// search keeps going until the frontier is empty, so this is not a
// shortest-path BFS. A neighbour is enqueued only when it is not already on
// the current path and still overlaps the current fragment. The result is
// a heuristic; the longest simple path problem is NP-hard.
//
// Limits and ctx bound the work. When either stops the search early the
// best chain found so far is returned and stats.Truncated is set.
func FindLongestPath(ctx context.Context, g *Graph, start model.Fragment, lim Limits) (model.Chain, model.SearchStats) {
	var stats model.SearchStats
	if g == nil || g.Len() == 0 || !g.Has(start) {
		return model.Chain{}, stats
	}

	order := expansionOrder(g)
	k := g.Overlap()

	queue := []*step{{frag: start, depth: 1}}
	head := 0
	var best *step

	for head < len(queue) {
		if lim.MaxStates > 0 && stats.StatesExplored >= lim.MaxStates {
			stats.Truncated = true
			break
		}
		if stats.StatesExplored > 0 && stats.StatesExplored%ctxCheckEvery == 0 && ctx.Err() != nil {
			stats.Truncated = true
			stats.TimedOut = true
			break
		}

		cur := queue[head]
		queue[head] = nil
		head++
		stats.StatesExplored++
		best = longer(best, cur)

		for _, next := range order[cur.frag] {
			if cur.contains(next) || !Overlaps(cur.frag, next, k) {
				continue
			}
			if lim.MaxFrontier > 0 && len(queue)-head >= lim.MaxFrontier {
				stats.StatesDropped++
				stats.Truncated = true
				continue
			}
			queue = append(queue, &step{frag: next, parent: cur, depth: cur.depth + 1})
		}
		stats.MaxFrontier = max(stats.MaxFrontier, len(queue)-head)

		// Drop the consumed prefix once it dominates the backing array.
		if head > 1024 && head > len(queue)/2 {
			queue = append(queue[:0:0], queue[head:]...)
			head = 0
		}
	}

	return best.chain(), stats
}
