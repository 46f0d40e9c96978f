// Package relplan is the multi-dataframe join/concat planner: partition
// alignment, division-based join requirement masking, indexed and
// hash-shuffle joins, indexed concat, and the merge() dispatch that routes
// between the two join strategies (spec.md §4.4–§4.9).
package relplan

import (
	"github.com/dagframe/dagframe/pkg/graph"
	"github.com/dagframe/dagframe/pkg/kernel"
)

// Slot is an optional block reference: present(Key) or absent. Modeled as a
// sum type rather than a sentinel zero Key (Design Note: "Partial functions
// and nullability" — "null confusion would silently corrupt joins").
type Slot struct {
	key     graph.Key
	present bool
}

// PresentBlock builds a Slot holding k.
func PresentBlock(k graph.Key) Slot { return Slot{key: k, present: true} }

// AbsentBlock builds a Slot with no block.
func AbsentBlock() Slot { return Slot{} }

// IsPresent reports whether the slot holds a block.
func (s Slot) IsPresent() bool { return s.present }

// Key returns the held key. Only valid when IsPresent() is true.
func (s Slot) Key() graph.Key { return s.key }

// PartitionedTable is a logical ordered table split into contiguous blocks
// (spec.md §3). A table with Known == false carries no division
// information — "unknown divisions... signals unpartitioned and forces
// shuffle". A scalar is represented by Scalar == true with no blocks.
//
// A table may itself carry absent block slots (the output of IndexedJoin or
// IndexedConcat, where some division contributed no block): Blocks is a
// slice of Slot, not of graph.Key, for exactly this reason.
type PartitionedTable struct {
	Name      string
	Scalar    bool
	InMemory  bool // single in-memory block, no partitioning, divisions unknown
	Blocks    []Slot
	Known     bool  // whether Divisions carries real boundary values
	Divisions []any // len(Blocks)+1 when Known; ignored otherwise
	Columns   kernel.Schema
	Frag      graph.Fragment
}

// NPartitions returns the number of blocks in t.
func (t PartitionedTable) NPartitions() int {
	return len(t.Blocks)
}

// PresentBlocks returns the keys of every present block, in order,
// discarding gaps.
func (t PartitionedTable) PresentBlocks() []graph.Key {
	out := make([]graph.Key, 0, len(t.Blocks))
	for _, s := range t.Blocks {
		if s.present {
			out = append(out, s.key)
		}
	}
	return out
}

// Comparator orders two division boundary values; negative, zero, or
// positive as a < b, a == b, a > b. Divisions are opaque to the planner
// (spec.md §3) beyond being totally ordered, so callers supply the
// comparator for their index type.
type Comparator func(a, b any) int

// Shuffler is the shuffle contract the planner consumes (spec.md §6):
// redistributes a table's rows by hashing key, producing a table with
// exactly npartitions blocks, unknown divisions, where block i holds every
// row whose hash of key mod npartitions equals i.
type Shuffler interface {
	Shuffle(table PartitionedTable, key JoinKey, npartitions int) (PartitionedTable, error)
}

// Repartitioner is the repartition contract the planner consumes (spec.md
// §6, used by AlignPartitions): reslice table onto the sub-sequence of
// newDivisions that its own range covers, returning that sub-sequence and
// the blocks covering it. Returns a nil blocks/subDivisions pair if table's
// range does not intersect newDivisions at all.
type Repartitioner interface {
	Repartition(table PartitionedTable, newDivisions []any, cmp Comparator) (blocks []graph.Key, frag graph.Fragment, subDivisions []any, err error)
}

// JoinKey names a merge/hash-join key: either a column, or the table's row
// index (spec.md §4.7: "lkey/rkey name columns or designate the row index").
type JoinKey struct {
	Column  string
	IsIndex bool
}

// ColumnKey builds a JoinKey naming a column.
func ColumnKey(name string) JoinKey { return JoinKey{Column: name} }

// IndexKey builds a JoinKey designating the row index.
func IndexKey() JoinKey { return JoinKey{IsIndex: true} }
