// Package order computes a deterministic execution priority for every node
// in a task graph (spec.md §4.3), the one input the executor needs beyond
// the graph itself to decide what to run next.
package order

import (
	"sort"

	"github.com/dagframe/dagframe/pkg/collections"
	"github.com/dagframe/dagframe/pkg/depanalysis"
	"github.com/dagframe/dagframe/pkg/graph"
)

// DfsOrder assigns every key in g a distinct integer in [0, g.Len()), lower
// meaning higher priority, via an iterative DFS from the graph's roots
// (Design Note: "Recursive graph traversals").
//
// Priority is derived in two passes (spec.md §4.1, §4.2): Ndependents
// counts how much of the graph transitively needs a key, and ChildMax rolls
// that count up through dependencies so a branch containing an
// important descendant is preferred over a shallow sibling. DFS then
// visits, at every branch point, the highest-priority child first — so the
// whole dependency chain leading to the most-needed result drains before
// any sibling work starts.
//
// Ties are broken by a stable sort over the canonical Key string form
// (Design Note: "Stable tie-breaking"), so the result is a deterministic
// function of the graph alone.
func DfsOrder(g *graph.Graph) map[graph.Key]int {
	result := make(map[graph.Key]int, g.Len())
	if g.Len() == 0 {
		return result
	}

	ndeps := depanalysis.Ndependents(g)
	priority := depanalysis.ChildMax(g, ndeps)

	seen := collections.NewBitset(g.Len())
	stack := ascendingByPriority(g.Roots(), priority)

	next := 0
	for len(stack) > 0 {
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		id, _ := g.ID(k)
		if seen.Test(id) {
			continue
		}
		seen.Set(id)
		result[k] = next
		next++
		stack = append(stack, ascendingByPriority(g.Dependencies(k), priority)...)
	}
	return result
}

// ascendingByPriority returns keys sorted ascending by priority, with a
// canonical Key comparator breaking ties so the order is reproducible
// regardless of the input slice's own order.
func ascendingByPriority(keys []graph.Key, priority map[graph.Key]int) []graph.Key {
	out := make([]graph.Key, len(keys))
	copy(out, keys)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	sort.SliceStable(out, func(i, j int) bool { return priority[out[i]] < priority[out[j]] })
	return out
}
