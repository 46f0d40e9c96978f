package relplan

import (
	"github.com/dagframe/dagframe/pkg/graph"
	"github.com/dagframe/dagframe/pkg/kernel"
	"github.com/dagframe/dagframe/pkg/token"
)

// MergeOptions carries every user-facing merge argument (spec.md §4.9).
type MergeOptions struct {
	How                   string
	On                    string
	LeftOn, RightOn       []string
	LeftIndex, RightIndex bool
	LSuffix, RSuffix      string
	NPartitions           int // <= 0 means "use HashJoin's default"
}

// MergeDispatch is the high-level router: it resolves which columns (or the
// index) each side joins on, then chooses IndexedJoin or HashJoin (spec.md
// §4.9).
func MergeDispatch(rel kernel.Relational, shuffle Shuffler, repart Repartitioner, cmp Comparator, left, right PartitionedTable, opts MergeOptions) (PartitionedTable, error) {
	resolveKeys(&opts, left, right)

	// In-memory fast path (supplemented from original_source/dask's merge():
	// when neither operand is partitioned, skip all graph machinery and
	// merge the two single blocks directly.
	if left.InMemory && right.InMemory {
		return mergeInMemory(rel, left, right, opts)
	}

	left, right = reseatInMemoryIndex(left, right, &opts)

	if opts.LeftIndex && opts.RightIndex {
		return IndexedJoin(rel, cmp, repart, left, right, opts.How, opts.LSuffix, opts.RSuffix)
	}

	lkey := resolvedKey(opts.LeftIndex, opts.LeftOn)
	rkey := resolvedKey(opts.RightIndex, opts.RightOn)
	return HashJoin(rel, shuffle, left, right, lkey, rkey, opts.How, opts.NPartitions, opts.LSuffix, opts.RSuffix)
}

// resolveKeys applies the key-selection precedence of spec.md §4.9 steps 1–2.
func resolveKeys(opts *MergeOptions, left, right PartitionedTable) {
	noKeyGiven := opts.On == "" && len(opts.LeftOn) == 0 && len(opts.RightOn) == 0 &&
		!opts.LeftIndex && !opts.RightIndex
	if noKeyGiven {
		common := intersectColumns(left.Columns.Columns, right.Columns.Columns)
		if len(common) == 0 {
			opts.LeftIndex = true
			opts.RightIndex = true
		} else {
			opts.LeftOn = common
			opts.RightOn = common
		}
		return
	}
	if opts.On != "" {
		opts.LeftOn = []string{opts.On}
		opts.RightOn = []string{opts.On}
		opts.On = ""
	}
}

// reseatInMemoryIndex implements the "exactly one side index-joined, the
// other side in-memory" trigger (spec.md §9 Open Question, resolved in
// DESIGN.md): the in-memory side's single block is reseated onto the
// resolved key column and that side is then treated as index-joined too,
// letting the whole merge go through IndexedJoin.
func reseatInMemoryIndex(left, right PartitionedTable, opts *MergeOptions) (PartitionedTable, PartitionedTable) {
	switch {
	case opts.LeftIndex && !opts.RightIndex && right.InMemory && len(opts.RightOn) > 0:
		right = reseatIndex(right, opts.RightOn[0])
		opts.RightIndex = true
	case opts.RightIndex && !opts.LeftIndex && left.InMemory && len(opts.LeftOn) > 0:
		left = reseatIndex(left, opts.LeftOn[0])
		opts.LeftIndex = true
	}
	return left, right
}

func reseatIndex(t PartitionedTable, column string) PartitionedTable {
	block := t.Blocks[0]
	name := token.Tokenize("set_index", t.Name, column)
	outKey := graph.Block(name, 0)
	frag := graph.Merge(t.Frag, graph.Fragment{
		outKey: kernel.SetIndexTask(graph.Ref(block.Key()), column),
	})
	return PartitionedTable{
		Name:     name,
		InMemory: true,
		Blocks:   []Slot{PresentBlock(outKey)},
		Known:    false,
		Columns:  t.Columns,
		Frag:     frag,
	}
}

func resolvedKey(isIndex bool, on []string) JoinKey {
	if isIndex || len(on) == 0 {
		return IndexKey()
	}
	return ColumnKey(on[0])
}

func intersectColumns(left, right []string) []string {
	rightSet := make(map[string]bool, len(right))
	for _, c := range right {
		rightSet[c] = true
	}
	var out []string
	for _, c := range left {
		if rightSet[c] {
			out = append(out, c)
		}
	}
	return out
}

func mergeInMemory(rel kernel.Relational, left, right PartitionedTable, opts MergeOptions) (PartitionedTable, error) {
	spec := kernel.MergeSpec{
		How:        opts.How,
		LeftIndex:  opts.LeftIndex,
		RightIndex: opts.RightIndex,
		LSuffix:    opts.LSuffix,
		RSuffix:    opts.RSuffix,
	}
	if !opts.LeftIndex {
		spec.LeftOn = opts.LeftOn
	}
	if !opts.RightIndex {
		spec.RightOn = opts.RightOn
	}

	schema, err := rel.MergeSchema(left.Columns, right.Columns, spec)
	if err != nil {
		return PartitionedTable{}, err
	}

	name := token.Tokenize("merge_in_memory", left.Name, right.Name, opts)
	outKey := graph.Block(name, 0)
	frag := graph.Merge(left.Frag, right.Frag)
	frag[outKey] = kernel.MergeTask(graph.Ref(left.Blocks[0].Key()), graph.Ref(right.Blocks[0].Key()), spec)

	return PartitionedTable{
		Name:     name,
		InMemory: true,
		Blocks:   []Slot{PresentBlock(outKey)},
		Known:    false,
		Columns:  schema,
		Frag:     frag,
	}, nil
}
