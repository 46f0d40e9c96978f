// Package graph provides the common task-graph representation shared by the
// scheduler planner and the relational planner: nodes identified by opaque
// keys, each node either a literal value or a call (fn, arg...) where args
// are either literal or keys, plus derived dependencies/dependents maps.
package graph

import "strconv"

// Key identifies a node in the task graph. In practice keys are either bare
// atoms (Index < 0) or (name, index) pairs identifying a block within a
// named logical table — spec.md §3.
type Key struct {
	Name  string
	Index int
}

// Atom returns a bare, un-indexed key, e.g. for scalar/literal graph nodes.
func Atom(name string) Key {
	return Key{Name: name, Index: -1}
}

// Block returns the key of block i of the logical table named name.
func Block(name string, i int) Key {
	return Key{Name: name, Index: i}
}

// IsAtom reports whether k was minted by Atom (carries no block index).
func (k Key) IsAtom() bool {
	return k.Index < 0
}

// String returns the canonical textual form of k, used both for display and
// as the tie-break comparator for stable sorts (Design Note: "Stable
// tie-breaking").
func (k Key) String() string {
	if k.IsAtom() {
		return k.Name
	}
	return k.Name + "-" + strconv.Itoa(k.Index)
}

// Less provides the canonical total ordering over keys used to break ties
// between otherwise-equal priorities.
func (k Key) Less(other Key) bool {
	return k.String() < other.String()
}
