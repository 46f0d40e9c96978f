package graph

import (
	"sort"

	"github.com/dagframe/dagframe/pkg/collections"
	planerrors "github.com/dagframe/dagframe/pkg/errors"
)

// Task is a call (fn, arg...) where each arg is either a literal or a Key
// resolved to the result of that node before invocation (spec.md §3). Fn is
// opaque to the planner — it is never invoked here, only carried through to
// the executor and used as one of tokenize's domain separators.
type Task struct {
	Fn   string
	Args []Arg
}

// Literal is a graph node with no function: its value is used verbatim by
// anything that references its key.
type Literal struct {
	Value any
}

// NodeValue is either a Task or a Literal — the value a Key maps to in a
// graph's mapping (spec.md §3: "a graph is a mapping Key → Task | Literal").
type NodeValue interface {
	isNodeValue()
}

func (Task) isNodeValue()    {}
func (Literal) isNodeValue() {}

// Fragment is the external, map-based representation of a graph used for
// construction and for merging sub-fragments produced by different planner
// calls (spec.md §3: "Graph fragments are append-only during planning").
type Fragment map[Key]NodeValue

// Merge unions any number of fragments into one. Fragments produced by the
// planner never collide because every minted name is tokenized from its
// logical inputs (spec.md §4.10); Merge panics-free overwrites on collision
// since detecting it would require re-deriving tokenize inputs the caller
// already has.
func Merge(fragments ...Fragment) Fragment {
	out := make(Fragment)
	for _, f := range fragments {
		for k, v := range f {
			out[k] = v
		}
	}
	return out
}

// Graph is the compiled, validated representation of a Fragment: an arena of
// nodes keyed by a dense integer id (Design Note: "Graph storage"), with a
// side map from Key to id, and dependencies/dependents stored as vectors of
// id vectors for cache-friendly traversal.
type Graph struct {
	keys   []Key
	values []NodeValue
	index  map[Key]int

	deps  [][]int // dependencies[id] = ids this node's task references
	rdeps [][]int // dependents[id] = ids that reference this node
}

// Build validates and compiles a Fragment into a Graph.
//
// Validation, per spec.md §3/§7:
//   - every Key referenced as an arg must exist in the mapping (dangling key
//     → CodeInvariantViolation)
//   - the mapping must be acyclic (CodeInvariantViolation)
func Build(values Fragment) (*Graph, error) {
	keys := make([]Key, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	// Deterministic arena id assignment (Design Note: "Graph storage"),
	// independent of Go map iteration order.
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	g := &Graph{
		keys:   keys,
		values: make([]NodeValue, len(keys)),
		index:  make(map[Key]int, len(keys)),
		deps:   make([][]int, len(keys)),
		rdeps:  make([][]int, len(keys)),
	}
	for i, k := range keys {
		g.index[k] = i
		g.values[i] = values[k]
	}

	for id, k := range keys {
		task, ok := values[k].(Task)
		if !ok {
			continue
		}
		seen := make(map[int]bool)
		for _, arg := range task.Args {
			if !arg.IsRef() {
				continue
			}
			depID, ok := g.index[arg.Key()]
			if !ok {
				return nil, planerrors.InvariantViolation(
					"dangling key: task %s references unknown key %s", k, arg.Key())
			}
			if seen[depID] {
				continue
			}
			seen[depID] = true
			g.deps[id] = append(g.deps[id], depID)
			g.rdeps[depID] = append(g.rdeps[depID], id)
		}
	}

	if cyc, ok := g.findCycle(); ok {
		return nil, planerrors.InvariantViolation("cyclic graph detected at key %s", g.keys[cyc])
	}

	return g, nil
}

// findCycle performs an iterative, explicit-stack DFS over the dependency
// edges looking for a back-edge (Design Note: "Recursive graph traversals" —
// express traversals iteratively to avoid call-stack blowup on deep DAGs).
// Returns the arena id of a node on a cycle, if any.
func (g *Graph) findCycle() (int, bool) {
	// gray marks nodes on the current DFS path, black marks nodes fully
	// explored; a node absent from both is white. Two bitsets beat a
	// []uint8 color array at the node counts this graph targets.
	gray := collections.NewBitset(len(g.keys))
	black := collections.NewBitset(len(g.keys))

	type frame struct {
		id   int
		next int
	}

	for start := range g.keys {
		if black.Test(start) || gray.Test(start) {
			continue
		}
		stack := []frame{{id: start, next: 0}}
		gray.Set(start)
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			deps := g.deps[top.id]
			if top.next < len(deps) {
				child := deps[top.next]
				top.next++
				switch {
				case gray.Test(child):
					return child, true
				case !black.Test(child):
					gray.Set(child)
					stack = append(stack, frame{id: child, next: 0})
				}
			} else {
				gray.Clear(top.id)
				black.Set(top.id)
				stack = stack[:len(stack)-1]
			}
		}
	}
	return 0, false
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.keys)
}

// Keys returns all keys in the graph, in a stable deterministic order.
func (g *Graph) Keys() []Key {
	out := make([]Key, len(g.keys))
	copy(out, g.keys)
	return out
}

// Has reports whether k is a node in the graph.
func (g *Graph) Has(k Key) bool {
	_, ok := g.index[k]
	return ok
}

// ID returns k's dense arena id (Design Note: "Graph storage"), letting
// callers index per-node scratch structures (bitsets, slices) by int instead
// of hashing Key repeatedly.
func (g *Graph) ID(k Key) (int, bool) {
	id, ok := g.index[k]
	return id, ok
}

// Value returns the NodeValue for k.
func (g *Graph) Value(k Key) (NodeValue, bool) {
	id, ok := g.index[k]
	if !ok {
		return nil, false
	}
	return g.values[id], true
}

// Dependencies returns the keys k's task directly references.
func (g *Graph) Dependencies(k Key) []Key {
	id, ok := g.index[k]
	if !ok {
		return nil
	}
	return g.idsToKeys(g.deps[id])
}

// Dependents returns the keys that directly reference k.
func (g *Graph) Dependents(k Key) []Key {
	id, ok := g.index[k]
	if !ok {
		return nil
	}
	return g.idsToKeys(g.rdeps[id])
}

func (g *Graph) idsToKeys(ids []int) []Key {
	if len(ids) == 0 {
		return nil
	}
	out := make([]Key, len(ids))
	for i, id := range ids {
		out[i] = g.keys[id]
	}
	return out
}

// Roots returns keys with no dependents — nothing in the graph consumes
// them (spec.md §3).
func (g *Graph) Roots() []Key {
	var out []Key
	for id, k := range g.keys {
		if len(g.rdeps[id]) == 0 {
			out = append(out, k)
		}
	}
	return out
}

// Leaves returns keys with no dependencies — graph inputs.
func (g *Graph) Leaves() []Key {
	var out []Key
	for id, k := range g.keys {
		if len(g.deps[id]) == 0 {
			out = append(out, k)
		}
	}
	return out
}

// ToFragment returns the Fragment this Graph was built from.
func (g *Graph) ToFragment() Fragment {
	out := make(Fragment, len(g.keys))
	for i, k := range g.keys {
		out[k] = g.values[i]
	}
	return out
}
