package assemble

import "fragsort/internal/model"

// SelectStart picks the fragment the path search begins from.
//
// The first fragment in input order with exactly one out-neighbour wins:
// such a piece has a single way forward and is unlikely to sit in the
// middle of the chain. Without one, the first input fragment is used.
// ok is false only for empty input.
func SelectStart(g *Graph, fragments []model.Fragment) (start model.Fragment, ok bool) {
	if len(fragments) == 0 {
		return "", false
	}
	for _, f := range fragments {
		if g.OutDegree(f) == 1 {
			return f, true
		}
	}
	return fragments[0], true
}
