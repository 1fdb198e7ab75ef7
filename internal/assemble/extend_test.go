package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fragsort/internal/model"
)

func TestRemainder(t *testing.T) {
	t.Run("set difference in input order", func(t *testing.T) {
		rest := Remainder(frags("CD", "AB", "XY", "BC"), chainOf("AB", "BC"))
		assert.Equal(t, frags("CD", "XY"), rest)
	})

	t.Run("duplicates keep their count", func(t *testing.T) {
		rest := Remainder(frags("AB", "BC", "AB", "AB"), chainOf("AB", "BC"))
		assert.Equal(t, frags("AB", "AB"), rest)
	})

	t.Run("nothing left", func(t *testing.T) {
		assert.Empty(t, Remainder(frags("AB"), chainOf("AB")))
	})
}

func TestExtend_AppendAndPrepend(t *testing.T) {
	in := frags("ab", "bc", "cd", "za")
	out, excluded := Extend(in, chainOf("bc"), 1, ExtendOptions{})

	// Sorted visiting order: ab (prepend), cd (append), za (prepend).
	assert.Equal(t, chainOf("za", "ab", "bc", "cd"), out)
	assert.Empty(t, excluded)
	assert.True(t, Validate(out, 1).Valid)
}

func TestExtend_TailTakesPrecedence(t *testing.T) {
	// "ca" overlaps both ends; the tail check comes first.
	out, _ := Extend(frags("ac", "ca"), chainOf("ac"), 1, ExtendOptions{})
	assert.Equal(t, chainOf("ac", "ca"), out)
}

func TestExtend_SinglePass(t *testing.T) {
	// "ab" only fits once "bm" has been prepended, but it is visited first.
	in := frags("mn", "bm", "ab")

	out, excluded := Extend(in, chainOf("mn"), 1, ExtendOptions{})
	assert.Equal(t, chainOf("bm", "mn"), out)
	assert.Equal(t, frags("ab"), excluded)

	out, excluded = Extend(in, chainOf("mn"), 1, ExtendOptions{FixedPoint: true})
	assert.Equal(t, chainOf("ab", "bm", "mn"), out)
	assert.Empty(t, excluded)
}

func TestExtend_DoesNotMutateInput(t *testing.T) {
	chain := make(model.Chain, 1, 4)
	chain[0] = "bc"
	out, _ := Extend(frags("bc", "cd"), chain, 1, ExtendOptions{})

	assert.Equal(t, chainOf("bc", "cd"), out)
	assert.Equal(t, chainOf("bc"), chain)
	assert.Equal(t, model.Fragment(""), chain[:2][1])
}

func TestExtend_SkipsValuesAlreadyInChain(t *testing.T) {
	in := frags("ab", "bc", "ca", "ab")
	out, excluded := Extend(in, chainOf("ab", "bc", "ca"), 1, ExtendOptions{})

	assert.Equal(t, chainOf("ab", "bc", "ca"), out)
	assert.Equal(t, frags("ab"), excluded)
	assertSimple(t, out)
}

func TestExtend_EmptyChain(t *testing.T) {
	out, excluded := Extend(frags("ab", "bc"), model.Chain{}, 1, ExtendOptions{})
	assert.Empty(t, out)
	assert.Equal(t, frags("ab", "bc"), excluded)
}

func TestExtend_IsolatedFragmentsStayExcluded(t *testing.T) {
	in := frags("101112", "121314", "909192", "929394")
	out, excluded := Extend(in, chainOf("101112", "121314"), 2, ExtendOptions{FixedPoint: true})

	require.Equal(t, chainOf("101112", "121314"), out)
	assert.Equal(t, frags("909192", "929394"), excluded)
}
