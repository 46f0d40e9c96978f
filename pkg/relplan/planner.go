package relplan

import (
	"github.com/dagframe/dagframe/pkg/kernel"
	"github.com/dagframe/dagframe/pkg/utils"
)

// Planner instruments the planning phases (align -> require -> emit) with a
// Timer, mirroring the teacher's ResultBuilder, which carries a *utils.Timer
// field injected at construction and times each analysis phase with
// TimeFunc (internal/parser/hprof/core_result_builder.go). A nil timer
// falls back to utils.NullTimer, so instrumentation is opt-in and free when
// unused.
type Planner struct {
	timer *utils.Timer
}

// NewPlanner builds a Planner that records phase durations on timer. Pass
// nil to get a Planner whose instrumentation is a no-op.
func NewPlanner(timer *utils.Timer) *Planner {
	if timer == nil {
		timer = utils.NullTimer
	}
	return &Planner{timer: timer}
}

// Timer returns the Planner's timer, so callers can inspect phase durations
// or print a summary once planning completes.
func (p *Planner) Timer() *utils.Timer {
	return p.timer
}

// AlignPartitions times the align phase (spec.md §4.4) around the package
// function of the same name.
func (p *Planner) AlignPartitions(cmp Comparator, repart Repartitioner, tables ...PartitionedTable) (divisions []any, parts [][]Slot, err error) {
	p.timer.TimeFunc("align", func() {
		divisions, parts, err = AlignPartitions(cmp, repart, tables...)
	})
	return
}

// Require times the require phase (spec.md §4.5) around the package
// function of the same name.
func (p *Planner) Require(divisions []any, parts [][]Slot, mask map[int]bool) (outDivisions []any, outParts [][]Slot) {
	p.timer.TimeFunc("require", func() {
		outDivisions, outParts = Require(divisions, parts, mask)
	})
	return
}

// IndexedJoin times the emit phase of an index-aligned join (spec.md §4.6).
func (p *Planner) IndexedJoin(rel kernel.Relational, cmp Comparator, repart Repartitioner, left, right PartitionedTable, how, lsuffix, rsuffix string) (out PartitionedTable, err error) {
	p.timer.TimeFunc("emit", func() {
		out, err = IndexedJoin(rel, cmp, repart, left, right, how, lsuffix, rsuffix)
	})
	return
}

// HashJoin times the emit phase of a shuffle-based join (spec.md §4.7).
func (p *Planner) HashJoin(rel kernel.Relational, shuffle Shuffler, left, right PartitionedTable, lkey, rkey JoinKey, how string, npartitions int, lsuffix, rsuffix string) (out PartitionedTable, err error) {
	p.timer.TimeFunc("emit", func() {
		out, err = HashJoin(rel, shuffle, left, right, lkey, rkey, how, npartitions, lsuffix, rsuffix)
	})
	return
}

// IndexedConcat times the emit phase of an index-aligned concat (spec.md §4.8).
func (p *Planner) IndexedConcat(rel kernel.Relational, cmp Comparator, repart Repartitioner, axis int, how string, tables ...PartitionedTable) (out PartitionedTable, err error) {
	p.timer.TimeFunc("emit", func() {
		out, err = IndexedConcat(rel, cmp, repart, axis, how, tables...)
	})
	return
}

// MergeDispatch times the whole align/require/emit pipeline as a single
// dispatch phase (spec.md §4.9): MergeDispatch itself decides between
// IndexedJoin and HashJoin, each of which folds align+require into their
// own emit, so the phases aren't separable from outside the call.
func (p *Planner) MergeDispatch(rel kernel.Relational, shuffle Shuffler, repart Repartitioner, cmp Comparator, left, right PartitionedTable, opts MergeOptions) (out PartitionedTable, err error) {
	p.timer.TimeFunc("dispatch", func() {
		out, err = MergeDispatch(rel, shuffle, repart, cmp, left, right, opts)
	})
	return
}
