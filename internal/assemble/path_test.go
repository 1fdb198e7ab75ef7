package assemble

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fragsort/internal/model"
)

func TestExpansionOrder(t *testing.T) {
	// sx -> xa, xb, xc; xb has two successors, the others none.
	g := BuildGraph(frags("sx", "xc", "xa", "xb", "b1", "b2"), 1)
	order := expansionOrder(g)

	assert.Equal(t, frags("xb", "xa", "xc"), order["sx"])
	// The graph itself keeps input order.
	assert.Equal(t, frags("xc", "xa", "xb"), g.Neighbors("sx"))
}

func TestFindLongestPath_PrefersLongerBranch(t *testing.T) {
	// From S0 the branch through 0A stops at once; the one through 0B runs on.
	in := frags("S0", "0A", "0B", "BC", "CD")
	g := BuildGraph(in, 1)

	path, stats := FindLongestPath(context.Background(), g, "S0", Limits{})
	assert.Equal(t, chainOf("S0", "0B", "BC", "CD"), path)
	assert.False(t, stats.Truncated)
	assert.Equal(t, 5, stats.StatesExplored)
}

func TestFindLongestPath_FirstLongestWins(t *testing.T) {
	// Two branches of equal length and degree: value order decides.
	g := BuildGraph(frags("S0", "0B", "0A", "AX", "BY"), 1)

	path, _ := FindLongestPath(context.Background(), g, "S0", Limits{})
	assert.Equal(t, chainOf("S0", "0A", "AX"), path)
}

func TestFindLongestPath_EdgeCases(t *testing.T) {
	t.Run("start without edges", func(t *testing.T) {
		g := BuildGraph(frags("AB", "CD"), 1)
		path, stats := FindLongestPath(context.Background(), g, "AB", Limits{})
		assert.Equal(t, chainOf("AB"), path)
		assert.Equal(t, 1, stats.StatesExplored)
	})

	t.Run("empty graph", func(t *testing.T) {
		path, _ := FindLongestPath(context.Background(), BuildGraph(nil, 1), "AB", Limits{})
		assert.Empty(t, path)
		assert.NotNil(t, path)
	})

	t.Run("start not in graph", func(t *testing.T) {
		path, _ := FindLongestPath(context.Background(), BuildGraph(frags("AB"), 1), "ZZ", Limits{})
		assert.Empty(t, path)
	})
}

func TestFindLongestPath_Cycle(t *testing.T) {
	in := frags("AB", "BC", "CD", "DA")
	g := BuildGraph(in, 1)

	done := make(chan model.Chain, 1)
	go func() {
		path, _ := FindLongestPath(context.Background(), g, "BC", Limits{})
		done <- path
	}()

	select {
	case path := <-done:
		assert.Equal(t, chainOf("BC", "CD", "DA", "AB"), path)
		assertSimple(t, path)
	case <-time.After(5 * time.Second):
		t.Fatal("search did not terminate on a cyclic graph")
	}
}

func TestFindLongestPath_ChainsAreSimpleAndValid(t *testing.T) {
	in := denseFragments("abcd")
	g := BuildGraph(in, 1)

	for _, start := range g.Nodes() {
		path, _ := FindLongestPath(context.Background(), g, start, Limits{MaxStates: 2000})
		require.NotEmpty(t, path)
		assert.Equal(t, start, path[0])
		assertSimple(t, path)
		assert.True(t, Validate(path, 1).Valid, "path from %s: %v", start, path)
		assert.LessOrEqual(t, path.Len(), len(in))
	}
}

func TestFindLongestPath_Limits(t *testing.T) {
	g := BuildGraph(denseFragments("abcde"), 1)

	t.Run("max states", func(t *testing.T) {
		path, stats := FindLongestPath(context.Background(), g, "ab", Limits{MaxStates: 1})
		assert.Equal(t, chainOf("ab"), path)
		assert.True(t, stats.Truncated)
		assert.False(t, stats.TimedOut)
		assert.Equal(t, 1, stats.StatesExplored)
	})

	t.Run("max frontier", func(t *testing.T) {
		path, stats := FindLongestPath(context.Background(), g, "ab", Limits{MaxStates: 10000, MaxFrontier: 3})
		assert.True(t, stats.Truncated)
		assert.Positive(t, stats.StatesDropped)
		assert.LessOrEqual(t, stats.MaxFrontier, 3)
		assertSimple(t, path)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		path, stats := FindLongestPath(ctx, g, "ab", Limits{})
		assert.True(t, stats.Truncated)
		assert.True(t, stats.TimedOut)
		assert.Equal(t, ctxCheckEvery, stats.StatesExplored)
		assert.NotEmpty(t, path)
		assert.True(t, Validate(path, 1).Valid)
	})
}
