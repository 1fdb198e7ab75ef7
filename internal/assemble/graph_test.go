package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fragsort/internal/model"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		k    int
		want bool
	}{
		{"digits match", "123456", "563412", 2, true},
		{"digits differ", "123456", "345678", 2, false},
		{"directional", "563412", "123456", 2, true},
		{"reverse direction is not an edge", "345678", "123456", 2, false},
		{"single char", "AAAB", "BBCC", 1, true},
		{"k zero", "AB", "BA", 0, false},
		{"k longer than fragment", "AB", "AB", 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(model.Fragment(tt.a), model.Fragment(tt.b), tt.k))
		})
	}
}

func TestBuildGraph_Edges(t *testing.T) {
	g := BuildGraph(frags("AAAB", "BBCC", "CCDD", "BXYZ"), 1)

	assert.Equal(t, frags("BBCC", "BXYZ"), g.Neighbors("AAAB"))
	assert.Equal(t, frags("CCDD"), g.Neighbors("BBCC"))
	assert.Empty(t, g.Neighbors("CCDD"))
	assert.Equal(t, 3, g.EdgeCount())
	assert.Equal(t, 1, g.Overlap())
}

func TestBuildGraph_KeepsIsolatedFragments(t *testing.T) {
	g := BuildGraph(frags("123456", "999999", "561234"), 2)

	assert.Equal(t, 3, g.Len())
	assert.True(t, g.Has("999999"))
	assert.Equal(t, 0, g.OutDegree("999999"))
	assert.Equal(t, frags("123456", "999999", "561234"), g.Nodes())
}

func TestBuildGraph_NoSelfLoops(t *testing.T) {
	t.Run("own suffix equals own prefix", func(t *testing.T) {
		g := BuildGraph(frags("ABAB"), 2)
		assert.Empty(t, g.Neighbors("ABAB"))
		assert.Equal(t, 0, g.EdgeCount())
	})

	t.Run("duplicated value", func(t *testing.T) {
		g := BuildGraph(frags("ABAB", "ABAB"), 2)
		assert.Equal(t, 1, g.Len())
		assert.Empty(t, g.Neighbors("ABAB"))
	})
}

func TestBuildGraph_DuplicatesCountPerPosition(t *testing.T) {
	t.Run("duplicated target", func(t *testing.T) {
		g := BuildGraph(frags("AB", "BC", "BC"), 1)
		assert.Equal(t, frags("BC", "BC"), g.Neighbors("AB"))
		assert.Equal(t, 2, g.OutDegree("AB"))
		assert.Equal(t, 2, g.EdgeCount())
	})

	t.Run("duplicated source and target", func(t *testing.T) {
		g := BuildGraph(frags("AB", "BC", "BC", "AB"), 1)
		assert.Equal(t, frags("BC", "BC", "BC", "BC"), g.Neighbors("AB"))
		assert.Equal(t, 2, g.Len())
	})
}

func TestBuildGraph_Degrees(t *testing.T) {
	g := BuildGraph(frags("AB", "BC", "BD", "CA"), 1)

	assert.Equal(t, map[string]int{"AB": 2, "BC": 1, "BD": 0, "CA": 1}, g.Degrees())
}

func TestSelectStart(t *testing.T) {
	t.Run("first fragment with one out-neighbour", func(t *testing.T) {
		in := frags("AB", "BC", "BD", "CA")
		start, ok := SelectStart(BuildGraph(in, 1), in)
		assert.True(t, ok)
		assert.Equal(t, model.Fragment("BC"), start)
	})

	t.Run("input order, not value order", func(t *testing.T) {
		in := frags("ZA", "AB", "BZ")
		start, ok := SelectStart(BuildGraph(in, 1), in)
		assert.True(t, ok)
		assert.Equal(t, model.Fragment("ZA"), start)
	})

	t.Run("fallback to first input", func(t *testing.T) {
		in := frags("XY", "AB", "BC", "BD")
		start, ok := SelectStart(BuildGraph(in, 1), in)
		assert.True(t, ok)
		assert.Equal(t, model.Fragment("XY"), start)
	})

	t.Run("duplicated neighbour disqualifies", func(t *testing.T) {
		in := frags("XA", "AB", "AB", "YC", "CD")
		start, ok := SelectStart(BuildGraph(in, 1), in)
		assert.True(t, ok)
		assert.Equal(t, model.Fragment("YC"), start)
	})

	t.Run("empty input", func(t *testing.T) {
		_, ok := SelectStart(BuildGraph(nil, 1), nil)
		assert.False(t, ok)
	})
}
