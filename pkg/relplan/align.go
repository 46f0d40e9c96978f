package relplan

import (
	"sort"

	planerrors "github.com/dagframe/dagframe/pkg/errors"
	"github.com/dagframe/dagframe/pkg/graph"
)

// AlignPartitions aligns a sequence of tables onto a merged division list
// (spec.md §4.4). Scalars (Scalar == true) receive an absent slot at every
// division. Every non-scalar table is repartitioned, via repart, onto
// whatever sub-range of the merged divisions its own range covers; outside
// that range its slot is absent.
//
// Called with no tables, AlignPartitions returns a CodeInvalidArgument
// error ("align_partitions: no tables given") rather than panicking.
func AlignPartitions(cmp Comparator, repart Repartitioner, tables ...PartitionedTable) (divisions []any, parts [][]Slot, err error) {
	if len(tables) == 0 {
		return nil, nil, planerrors.InvalidArgument("align_partitions: no tables given")
	}

	divisions = mergedDivisions(cmp, tables)
	ndiv := len(divisions)
	if ndiv == 0 {
		parts = make([][]Slot, 0)
		return divisions, parts, nil
	}

	parts = make([][]Slot, ndiv-1)
	for i := range parts {
		parts[i] = make([]Slot, len(tables))
	}

	for ti, t := range tables {
		if t.Scalar {
			continue // every slot stays absent for scalars
		}
		blocks, _, subDiv, err := repart.Repartition(t, divisions, cmp)
		if err != nil {
			return nil, nil, err
		}
		if len(blocks) == 0 {
			continue // t's range does not intersect the merged divisions
		}
		start := indexOfDivision(cmp, divisions, subDiv[0])
		for i, b := range blocks {
			parts[start+i][ti] = PresentBlock(b)
		}
	}
	return divisions, parts, nil
}

// mergedDivisions returns the sorted, de-duplicated union of every
// non-scalar table's divisions (spec.md §4.4 step 1).
func mergedDivisions(cmp Comparator, tables []PartitionedTable) []any {
	var all []any
	for _, t := range tables {
		if t.Scalar || !t.Known {
			continue
		}
		all = append(all, t.Divisions...)
	}
	sort.Slice(all, func(i, j int) bool { return cmp(all[i], all[j]) < 0 })

	out := all[:0:0]
	for i, v := range all {
		if i == 0 || cmp(v, all[i-1]) != 0 {
			out = append(out, v)
		}
	}
	return out
}

// indexOfDivision finds v's position in the sorted divisions slice.
func indexOfDivision(cmp Comparator, divisions []any, v any) int {
	return sort.Search(len(divisions), func(i int) bool { return cmp(divisions[i], v) >= 0 })
}

// JoinKindMask returns the set of table-slot indices (0 = left, 1 = right)
// that must be present at a division for it to contribute to the output of
// a join of the given kind (spec.md §6's "Join-kind mask table").
func JoinKindMask(how string) map[int]bool {
	switch how {
	case "left":
		return map[int]bool{0: true}
	case "right":
		return map[int]bool{1: true}
	case "inner":
		return map[int]bool{0: true, 1: true}
	default: // outer
		return map[int]bool{}
	}
}

// Require prunes division ranges based on join type (spec.md §4.5). For
// every slot index in mask, it finds the lowest and highest division with a
// present block at that index and restricts divisions/parts to their
// intersection (supplemented feature: ported field-for-field from
// original_source/dask/dataframe/multi.py's require(), since the boundary
// arithmetic is easy to get off by one on).
func Require(divisions []any, parts [][]Slot, mask map[int]bool) ([]any, [][]Slot) {
	if len(mask) == 0 {
		return divisions, parts
	}

	lo, hi := 0, len(parts)-1
	for idx := range mask {
		var present []int
		for j, row := range parts {
			if idx < len(row) && row[idx].IsPresent() {
				present = append(present, j)
			}
		}
		if len(present) == 0 {
			return nil, nil
		}
		if present[0] > lo {
			lo = present[0]
		}
		if present[len(present)-1] < hi {
			hi = present[len(present)-1]
		}
	}
	if lo > hi {
		return nil, nil
	}
	return divisions[lo : hi+2], parts[lo : hi+1]
}
