package assemble

import (
	"context"
	"time"

	"fragsort/internal/model"
)

// Stage names used in timings and metrics.
const (
	StageGraph    = "graph"
	StageStart    = "start"
	StageSearch   = "search"
	StageExtend   = "extend"
	StageValidate = "validate"
	StageMerge    = "merge"
)

// Options configures an Assembler.
type Options struct {
	Overlap int
	Limits  Limits
	Extend  ExtendOptions
}

// Assembler runs the full reconstruction: graph, start, search, extension,
// validation and merge.
type Assembler struct {
	opts Options
}

// NewAssembler returns an Assembler for the given options.
func NewAssembler(opts Options) *Assembler {
	return &Assembler{opts: opts}
}

// Assemble reconstructs the longest chain it can find from fragments.
//
// An invalid chain is a normal outcome and is reported through
// Assembly.Validation, not as an error. ctx only bounds the path search;
// a cancelled search still yields the best chain found so far.
func (a *Assembler) Assemble(ctx context.Context, fragments []model.Fragment) (model.Assembly, error) {
	k := a.opts.Overlap
	if k < 1 {
		return model.Assembly{}, ErrBadOverlap
	}

	res := model.Assembly{
		Input:    len(fragments),
		Overlap:  k,
		Chain:    model.Chain{},
		Excluded: []model.Fragment{},
	}
	timed := func(stage string, fn func()) {
		t0 := time.Now()
		fn()
		res.Timings = append(res.Timings, model.StageTiming{Stage: stage, Duration: time.Since(t0)})
	}

	var g *Graph
	timed(StageGraph, func() { g = BuildGraph(fragments, k) })
	res.GraphNodes = g.Len()
	res.GraphEdges = g.EdgeCount()
	res.OutDegree = g.Degrees()

	var start model.Fragment
	var ok bool
	timed(StageStart, func() { start, ok = SelectStart(g, fragments) })
	if !ok {
		res.Validation = Validate(res.Chain, k)
		return res, nil
	}
	res.Start = start

	var path model.Chain
	timed(StageSearch, func() { path, res.Search = FindLongestPath(ctx, g, start, a.opts.Limits) })

	var excluded []model.Fragment
	timed(StageExtend, func() { res.Chain, excluded = Extend(fragments, path, k, a.opts.Extend) })
	if excluded != nil {
		res.Excluded = excluded
	}

	timed(StageValidate, func() { res.Validation = Validate(res.Chain, k) })

	if res.Validation.Valid {
		var err error
		timed(StageMerge, func() { res.Merged, err = Merge(res.Chain, k) })
		if err != nil {
			return res, err
		}
	}
	return res, nil
}
