// Package kernel models the relational-kernel contract the planner consumes
// but never executes (spec.md §6: "Relational kernel contract (consumed)").
// It owns the Schema type, the join/merge/concat schema arithmetic the
// planner runs once up front on empty blocks to compute an output table's
// columns, and the graph.Task builders that encode a planned operation as
// an opaque (fn, args…) call for the executor to run later.
package kernel

import (
	"sort"

	planerrors "github.com/dagframe/dagframe/pkg/errors"
	"github.com/dagframe/dagframe/pkg/graph"
)

// Opaque task function names minted into graph nodes. The planner never
// calls these; it only ever builds Task values carrying them.
const (
	FnJoin     = "join"
	FnMerge    = "merge"
	FnConcat   = "concat"
	FnSetIndex = "set_index"
)

// Schema is an ordered, unique column list (spec.md §3: "Each table carries
// its column list (ordered, unique)").
type Schema struct {
	Columns []string
}

// NewSchema builds a Schema, deduplicating while preserving first-seen order.
func NewSchema(cols ...string) Schema {
	seen := make(map[string]bool, len(cols))
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return Schema{Columns: out}
}

// Has reports whether c is a column of s.
func (s Schema) Has(c string) bool {
	for _, x := range s.Columns {
		if x == c {
			return true
		}
	}
	return false
}

// MergeSpec carries the resolved arguments to the in-memory merge/join
// kernel call (spec.md §6's `merge(left_block, right_block, how, left_on,
// right_on, left_index, right_index, suffixes)`).
type MergeSpec struct {
	How                 string
	LeftOn, RightOn     []string
	LeftIndex           bool
	RightIndex          bool
	LSuffix, RSuffix    string
}

// Relational is the in-memory relational kernel contract (spec.md §6,
// consumed). The planner invokes its schema-only methods exactly once per
// operation, on empty blocks carrying the source schemas, to compute an
// output table's columns before any task graph node references real data
// (spec.md §3: "the result schema is computed once by running the
// relational kernel on empty blocks").
type Relational interface {
	// JoinSchema returns the column list of join(left, right, how, lsuffix,
	// rsuffix) when left and right are index-aligned (spec.md §4.6).
	JoinSchema(left, right Schema, how, lsuffix, rsuffix string) (Schema, error)

	// MergeSchema returns the column list of merge(left, right, spec)
	// (spec.md §4.7, §4.9).
	MergeSchema(left, right Schema, spec MergeSpec) (Schema, error)

	// ConcatSchema returns the column list of concat(schemas, axis, how)
	// (spec.md §4.8).
	ConcatSchema(schemas []Schema, axis int, how string) (Schema, error)
}

// resolveSuffixes applies lsuffix/rsuffix to columns that collide between
// left and right, matching pandas' merge column-resolution rule that the
// data model (spec.md §3) defers to: a column present in both frames and
// not part of the join key is suffixed on both sides.
func resolveSuffixes(left, right Schema, joinCols map[string]bool, lsuffix, rsuffix string) ([]string, error) {
	rightSet := make(map[string]bool, len(right.Columns))
	for _, c := range right.Columns {
		rightSet[c] = true
	}

	collisions := map[string]bool{}
	for _, c := range left.Columns {
		if joinCols[c] {
			continue
		}
		if rightSet[c] {
			collisions[c] = true
		}
	}
	if len(collisions) > 0 && lsuffix == "" && rsuffix == "" {
		names := make([]string, 0, len(collisions))
		for c := range collisions {
			names = append(names, c)
		}
		sort.Strings(names)
		return nil, planerrors.InvalidArgument(
			"columns overlap but no suffix specified: %v", names)
	}

	out := make([]string, 0, len(left.Columns)+len(right.Columns))
	for _, c := range left.Columns {
		if collisions[c] {
			out = append(out, c+lsuffix)
			continue
		}
		out = append(out, c)
	}
	for _, c := range right.Columns {
		if joinCols[c] && !collisions[c] {
			continue // join key emitted once, from the left side
		}
		if collisions[c] {
			out = append(out, c+rsuffix)
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// simple is the default in-process Relational implementation: it performs
// only the schema arithmetic the planner needs and holds no row data, since
// the planner only ever calls it on empty blocks.
type simple struct{}

// NewSimpleRelational returns the default schema-only Relational kernel.
func NewSimpleRelational() Relational {
	return simple{}
}

func (simple) JoinSchema(left, right Schema, how, lsuffix, rsuffix string) (Schema, error) {
	switch how {
	case "left", "right", "inner", "outer":
	default:
		return Schema{}, planerrors.InvalidArgument("unsupported join how: %q", how)
	}
	cols, err := resolveSuffixes(left, right, map[string]bool{}, lsuffix, rsuffix)
	if err != nil {
		return Schema{}, err
	}
	return NewSchema(cols...), nil
}

func (simple) MergeSchema(left, right Schema, spec MergeSpec) (Schema, error) {
	switch spec.How {
	case "left", "right", "inner", "outer":
	default:
		return Schema{}, planerrors.InvalidArgument("unsupported merge how: %q", spec.How)
	}
	joinCols := map[string]bool{}
	if !spec.LeftIndex && !spec.RightIndex {
		for i := range spec.LeftOn {
			if i < len(spec.RightOn) && spec.LeftOn[i] == spec.RightOn[i] {
				joinCols[spec.LeftOn[i]] = true
			}
		}
	}
	cols, err := resolveSuffixes(left, right, joinCols, spec.LSuffix, spec.RSuffix)
	if err != nil {
		return Schema{}, err
	}
	return NewSchema(cols...), nil
}

func (simple) ConcatSchema(schemas []Schema, axis int, how string) (Schema, error) {
	if how != "inner" && how != "outer" {
		return Schema{}, planerrors.InvalidArgument("unsupported concat how: %q", how)
	}
	if len(schemas) == 0 {
		return Schema{}, nil
	}
	if axis == 0 {
		// Vertical concat: rows stack, schema is the union of all tables'
		// columns in first-seen order under outer, the common columns under
		// inner.
		if how == "outer" {
			var out []string
			seen := map[string]bool{}
			for _, s := range schemas {
				for _, c := range s.Columns {
					if !seen[c] {
						seen[c] = true
						out = append(out, c)
					}
				}
			}
			return NewSchema(out...), nil
		}
		common := append([]string(nil), schemas[0].Columns...)
		for _, s := range schemas[1:] {
			common = intersect(common, s.Columns)
		}
		return NewSchema(common...), nil
	}

	// Horizontal concat (axis=1): columns from every operand are joined
	// side by side (spec.md §4.8); "how" only governs row-alignment
	// semantics at the block level, handled by the planner, not the schema.
	var out []string
	for _, s := range schemas {
		out = append(out, s.Columns...)
	}
	return NewSchema(out...), nil
}

func intersect(a, b []string) []string {
	bSet := make(map[string]bool, len(b))
	for _, c := range b {
		bSet[c] = true
	}
	var out []string
	for _, c := range a {
		if bSet[c] {
			out = append(out, c)
		}
	}
	return out
}

// JoinTask builds the graph.Task for an index-aligned join node (spec.md
// §4.6 step 4).
func JoinTask(left, right graph.Arg, how, lsuffix, rsuffix string) graph.Task {
	return graph.Task{
		Fn: FnJoin,
		Args: []graph.Arg{
			left, right,
			graph.Lit(how), graph.Lit(lsuffix), graph.Lit(rsuffix),
		},
	}
}

// MergeTask builds the graph.Task for a hash-shuffle merge node (spec.md
// §4.7 step 4).
func MergeTask(left, right graph.Arg, spec MergeSpec) graph.Task {
	return graph.Task{
		Fn: FnMerge,
		Args: []graph.Arg{
			left, right,
			graph.Lit(spec.How),
			graph.Lit(spec.LeftOn), graph.Lit(spec.RightOn),
			graph.Lit(spec.LeftIndex), graph.Lit(spec.RightIndex),
			graph.Lit([2]string{spec.LSuffix, spec.RSuffix}),
		},
	}
}

// ConcatTask builds the graph.Task for one division's concat node (spec.md
// §4.8 step 6).
func ConcatTask(blocks []graph.Arg, axis int, how string) graph.Task {
	return graph.Task{
		Fn:   FnConcat,
		Args: append([]graph.Arg{graph.Lit(axis), graph.Lit(how)}, blocks...),
	}
}

// SetIndexTask builds the graph.Task that reseats a block's index onto
// column before it is treated as index-joined. Used by MergeDispatch's
// in-memory index-reseat path (spec.md §9 Open Question).
func SetIndexTask(block graph.Arg, column string) graph.Task {
	return graph.Task{
		Fn:   FnSetIndex,
		Args: []graph.Arg{block, graph.Lit(column)},
	}
}
