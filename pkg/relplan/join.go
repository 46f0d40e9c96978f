package relplan

import (
	"github.com/dagframe/dagframe/pkg/graph"
	"github.com/dagframe/dagframe/pkg/kernel"
	"github.com/dagframe/dagframe/pkg/token"
)

// EmptyBlock is the literal value substituted for a missing operand when an
// indexed join or indexed concat needs to call the kernel with a
// schema-bearing but rowless block (spec.md §4.6 step 4, §4.8 step 3).
type EmptyBlock struct {
	Schema kernel.Schema
}

// IndexedJoin builds the task graph for an index-aligned join (spec.md
// §4.6). L and R must share an index domain; IndexedJoin aligns them onto
// merged divisions itself via AlignPartitions, so their divisions need not
// match exactly.
func IndexedJoin(rel kernel.Relational, cmp Comparator, repart Repartitioner, left, right PartitionedTable, how, lsuffix, rsuffix string) (PartitionedTable, error) {
	divisions, parts, err := AlignPartitions(cmp, repart, left, right)
	if err != nil {
		return PartitionedTable{}, err
	}
	divisions, parts = Require(divisions, parts, JoinKindMask(how))

	schema, err := rel.JoinSchema(left.Columns, right.Columns, how, lsuffix, rsuffix)
	if err != nil {
		return PartitionedTable{}, err
	}

	name := token.Tokenize("join", left.Name, right.Name, how, lsuffix, rsuffix)
	frag := graph.Merge(left.Frag, right.Frag)
	blocks := make([]Slot, len(parts))

	for i, row := range parts {
		a, b := row[0], row[1]
		outKey := graph.Block(name, i)

		switch {
		case a.IsPresent() && b.IsPresent():
			frag[outKey] = kernel.JoinTask(graph.Ref(a.Key()), graph.Ref(b.Key()), how, lsuffix, rsuffix)
			blocks[i] = PresentBlock(outKey)
		case a.IsPresent() && !b.IsPresent() && (how == "left" || how == "outer"):
			frag[outKey] = kernel.JoinTask(graph.Ref(a.Key()), graph.Lit(EmptyBlock{right.Columns}), how, lsuffix, rsuffix)
			blocks[i] = PresentBlock(outKey)
		case !a.IsPresent() && b.IsPresent() && (how == "right" || how == "outer"):
			frag[outKey] = kernel.JoinTask(graph.Lit(EmptyBlock{left.Columns}), graph.Ref(b.Key()), how, lsuffix, rsuffix)
			blocks[i] = PresentBlock(outKey)
		default:
			blocks[i] = AbsentBlock() // no output block for this division
		}
	}

	return PartitionedTable{
		Name:      name,
		Blocks:    blocks,
		Known:     true,
		Divisions: divisions,
		Columns:   schema,
		Frag:      frag,
	}, nil
}

// HashJoin builds the task graph for a shuffle-based join on arbitrary
// columns (spec.md §4.7). npartitions <= 0 means "use the default",
// max(left.NPartitions(), right.NPartitions()) — the original's
// hash_join(..., npartitions=None) signature, preserved verbatim
// (supplemented from original_source/dask/dataframe/multi.py).
func HashJoin(rel kernel.Relational, shuffle Shuffler, left, right PartitionedTable, lkey JoinKey, rkey JoinKey, how string, npartitions int, lsuffix, rsuffix string) (PartitionedTable, error) {
	if npartitions <= 0 {
		npartitions = left.NPartitions()
		if right.NPartitions() > npartitions {
			npartitions = right.NPartitions()
		}
	}

	leftShuffled, err := shuffle.Shuffle(left, lkey, npartitions)
	if err != nil {
		return PartitionedTable{}, err
	}
	rightShuffled, err := shuffle.Shuffle(right, rkey, npartitions)
	if err != nil {
		return PartitionedTable{}, err
	}

	spec := kernel.MergeSpec{
		How:        how,
		LeftIndex:  lkey.IsIndex,
		RightIndex: rkey.IsIndex,
		LSuffix:    lsuffix,
		RSuffix:    rsuffix,
	}
	if !lkey.IsIndex {
		spec.LeftOn = []string{lkey.Column}
	}
	if !rkey.IsIndex {
		spec.RightOn = []string{rkey.Column}
	}

	schema, err := rel.MergeSchema(left.Columns, right.Columns, spec)
	if err != nil {
		return PartitionedTable{}, err
	}

	name := token.Tokenize("hash_join", left.Name, right.Name, lkey, rkey, how, npartitions, lsuffix, rsuffix)
	frag := graph.Merge(leftShuffled.Frag, rightShuffled.Frag)
	blocks := make([]Slot, npartitions)

	for i := 0; i < npartitions; i++ {
		// The merge kernel substitutes an empty block carrying the source
		// table's schema when either input turns out empty at run time —
		// an executor-side concern (spec.md §4.7 step 5), not a planning one.
		outKey := graph.Block(name, i)
		frag[outKey] = kernel.MergeTask(graph.Ref(leftShuffled.Blocks[i].Key()), graph.Ref(rightShuffled.Blocks[i].Key()), spec)
		blocks[i] = PresentBlock(outKey)
	}

	return PartitionedTable{
		Name:    name,
		Blocks:  blocks,
		Known:   false, // key-hashed partitioning loses index ordering
		Columns: schema,
		Frag:    frag,
	}, nil
}
