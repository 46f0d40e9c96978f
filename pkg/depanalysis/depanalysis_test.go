package depanalysis

import (
	"testing"

	"github.com/dagframe/dagframe/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNdependents_Chain(t *testing.T) {
	a := graph.Atom("a")
	b := graph.Atom("b")
	c := graph.Atom("c")

	g, err := graph.Build(graph.Fragment{
		a: graph.Literal{Value: 1},
		b: graph.Task{Fn: "f", Args: []graph.Arg{graph.Ref(a)}},
		c: graph.Task{Fn: "f", Args: []graph.Arg{graph.Ref(b)}},
	})
	require.NoError(t, err)

	nd := Ndependents(g)
	assert.Equal(t, 1, nd[c])
	assert.Equal(t, 2, nd[b])
	assert.Equal(t, 3, nd[a])
}

func TestNdependents_Diamond(t *testing.T) {
	a := graph.Atom("a")
	b := graph.Atom("b")
	c := graph.Atom("c")
	d := graph.Atom("d")

	g, err := graph.Build(graph.Fragment{
		a: graph.Literal{Value: 1},
		b: graph.Task{Fn: "f", Args: []graph.Arg{graph.Ref(a)}},
		c: graph.Task{Fn: "f", Args: []graph.Arg{graph.Ref(a)}},
		d: graph.Task{Fn: "g", Args: []graph.Arg{graph.Ref(b), graph.Ref(c)}},
	})
	require.NoError(t, err)

	nd := Ndependents(g)
	assert.Equal(t, 1, nd[d])
	assert.Equal(t, 2, nd[b])
	assert.Equal(t, 2, nd[c])
	assert.Equal(t, 5, nd[a])
}

func TestNdependents_Empty(t *testing.T) {
	g, err := graph.Build(graph.Fragment{})
	require.NoError(t, err)
	assert.Empty(t, Ndependents(g))
}

func TestChildMax_Chain(t *testing.T) {
	a := graph.Atom("a")
	b := graph.Atom("b")
	c := graph.Atom("c")

	g, err := graph.Build(graph.Fragment{
		a: graph.Literal{Value: 1},
		b: graph.Task{Fn: "f", Args: []graph.Arg{graph.Ref(a)}},
		c: graph.Task{Fn: "f", Args: []graph.Arg{graph.Ref(b)}},
	})
	require.NoError(t, err)

	scores := map[graph.Key]int{a: 1, b: 1, c: 1}
	cm := ChildMax(g, scores)
	assert.Equal(t, 1, cm[a])
	assert.Equal(t, 2, cm[b])
	assert.Equal(t, 3, cm[c])
}

func TestChildMax_PicksLargestBranch(t *testing.T) {
	a := graph.Atom("a") // leaf, score 10
	b := graph.Atom("b") // leaf, score 1
	c := graph.Atom("c") // depends on a, b

	g, err := graph.Build(graph.Fragment{
		a: graph.Literal{Value: 1},
		b: graph.Literal{Value: 2},
		c: graph.Task{Fn: "f", Args: []graph.Arg{graph.Ref(a), graph.Ref(b)}},
	})
	require.NoError(t, err)

	scores := map[graph.Key]int{a: 10, b: 1, c: 5}
	cm := ChildMax(g, scores)
	assert.Equal(t, 10, cm[a])
	assert.Equal(t, 1, cm[b])
	assert.Equal(t, 15, cm[c])
}

func TestChildMax_Empty(t *testing.T) {
	g, err := graph.Build(graph.Fragment{})
	require.NoError(t, err)
	assert.Empty(t, ChildMax(g, map[graph.Key]int{}))
}
