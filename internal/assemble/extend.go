package assemble

import (
	"slices"

	"fragsort/internal/model"
)

// ExtendOptions controls SequenceExtender behaviour.
type ExtendOptions struct {
	// FixedPoint repeats the pass until a pass places nothing.
	// Off by default: the reconstruction is defined as a single pass.
	FixedPoint bool
}

// Remainder returns the input fragments not used by chain, in input order.
// Each chain entry consumes one matching input position, so duplicated
// inputs beyond the first stay in the remainder and counts are preserved.
func Remainder(fragments []model.Fragment, chain model.Chain) []model.Fragment {
	used := make(map[model.Fragment]int, len(chain))
	for _, f := range chain {
		used[f]++
	}
	var rest []model.Fragment
	for _, f := range fragments {
		if used[f] > 0 {
			used[f]--
			continue
		}
		rest = append(rest, f)
	}
	return rest
}

// Extend tries to attach leftover fragments to either end of chain.
//
// Candidates are visited once each, in sorted order. A candidate that the
// tail overlaps is appended; otherwise one that overlaps the head is
// prepended. A fragment that would only fit after a later attachment
// moves an end is left out of this pass. Values already in the chain are
// skipped so the chain stays simple.
//
// Extend returns a new chain and the fragments that were not placed.
func Extend(fragments []model.Fragment, chain model.Chain, k int, opts ExtendOptions) (model.Chain, []model.Fragment) {
	out := chain.Clone()
	rest := Remainder(fragments, chain)
	slices.Sort(rest)

	if len(out) == 0 {
		return out, rest
	}

	for {
		var placed int
		out, rest, placed = extendOnce(out, rest, k)
		if !opts.FixedPoint || placed == 0 || len(rest) == 0 {
			break
		}
	}
	return out, rest
}

func extendOnce(chain model.Chain, candidates []model.Fragment, k int) (model.Chain, []model.Fragment, int) {
	var left []model.Fragment
	placed := 0
	for _, f := range candidates {
		switch {
		case chain.Contains(f):
			left = append(left, f)
		case Overlaps(chain.Tail(), f, k):
			chain = append(chain, f)
			placed++
		case Overlaps(f, chain.Head(), k):
			chain = append(model.Chain{f}, chain...)
			placed++
		default:
			left = append(left, f)
		}
	}
	return chain, left, placed
}
