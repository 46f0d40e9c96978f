package relplan

import (
	planerrors "github.com/dagframe/dagframe/pkg/errors"
	"github.com/dagframe/dagframe/pkg/graph"
	"github.com/dagframe/dagframe/pkg/kernel"
	"github.com/dagframe/dagframe/pkg/token"
)

// IndexedConcat builds the task graph for index-aligned concatenation with
// empty-block handling (spec.md §4.8). Every absent slot produced by
// AlignPartitions is replaced with a literal EmptyBlock carrying that
// table's own schema before the per-division concat node is emitted; the
// axis=1 padding/suppression rules in spec.md §4.8 step 4 are the concat
// kernel's own execution-time behavior — the planner's job ends at wiring
// every operand (real or empty) into one concat node per division, with
// axis and how passed through for the kernel to interpret.
func IndexedConcat(rel kernel.Relational, cmp Comparator, repart Repartitioner, axis int, how string, tables ...PartitionedTable) (PartitionedTable, error) {
	if how != "inner" && how != "outer" {
		return PartitionedTable{}, planerrors.InvalidArgument("concat_indexed: how must be inner or outer, got %q", how)
	}

	divisions, parts, err := AlignPartitions(cmp, repart, tables...)
	if err != nil {
		return PartitionedTable{}, err
	}

	schemas := make([]kernel.Schema, len(tables))
	names := make([]string, len(tables))
	for i, t := range tables {
		schemas[i] = t.Columns
		names[i] = t.Name
	}
	schema, err := rel.ConcatSchema(schemas, axis, how)
	if err != nil {
		return PartitionedTable{}, err
	}

	name := token.Tokenize("concat_indexed", names, axis, how)
	frag := make(graph.Fragment)
	for _, t := range tables {
		frag = graph.Merge(frag, t.Frag)
	}

	blocks := make([]Slot, len(parts))
	for i, row := range parts {
		args := make([]graph.Arg, len(row))
		for t, slot := range row {
			if slot.IsPresent() {
				args[t] = graph.Ref(slot.Key())
			} else {
				args[t] = graph.Lit(EmptyBlock{tables[t].Columns})
			}
		}
		outKey := graph.Block(name, i)
		frag[outKey] = kernel.ConcatTask(args, axis, how)
		blocks[i] = PresentBlock(outKey)
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
