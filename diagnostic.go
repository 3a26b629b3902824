package pegrat

import (
	"container/heap"
	"fmt"
)

// MatchFailure is the single failure type the engine produces. A
// failure carries the rule whose body rejected the input, the position
// it happened at, and optionally the sub-failure that caused it to
// propagate (spec.md §3, "Diagnostic"). Rule is empty for failures
// raised directly by primitives and by OrderedChoice/OneOrMore/
// Separated; the rule binder wraps those in a failure naming the rule.
type MatchFailure struct {
	Rule    string
	Pos     Location
	Message string
	Cause   *MatchFailure
}

func (f *MatchFailure) Error() string {
	if f.Rule == "" {
		return fmt.Sprintf("%s @ %s", f.Message, f.Pos)
	}
	return fmt.Sprintf("%s: %s @ %s", f.Rule, f.Message, f.Pos)
}

// Unwrap exposes the cause chain to errors.Is/errors.As.
func (f *MatchFailure) Unwrap() error {
	if f.Cause == nil {
		return nil
	}
	return f.Cause
}

// rank is the sort key used by the diagnostic heap: the failure that
// consumed the most input (deepest Pos) ranks smallest, and the heap
// pops smallest-first. A failure's rank is also bounded by the best
// rank anywhere in its cause chain, so a shallow wrapper around a deep
// cause still reports as deep.
func (f *MatchFailure) rank() int {
	r := -f.Pos.Offset
	if f.Cause != nil {
		if cr := f.Cause.rank(); cr < r {
			r = cr
		}
	}
	return r
}

// deepest walks the cause chain and returns the failure that reached
// furthest into the input, which is what a human wants to see first.
// This compares each node's own Pos directly rather than via rank(),
// since rank() is already bounded by its cause chain — every ancestor
// of the true deepest node shares its rank, so comparing bounded ranks
// would never single it out.
func (f *MatchFailure) deepest() *MatchFailure {
	best := f
	for cur := f.Cause; cur != nil; cur = cur.Cause {
		if cur.Pos.Offset > best.Pos.Offset {
			best = cur
		}
	}
	return best
}

// diagnosticHeap accumulates every MatchFailure raised during a parse
// attempt, even ones a combinator goes on to recover from by
// backtracking (spec.md §7: "every raised failure is also appended to
// the parser-level diagnostic heap at the moment of creation"). It is
// consulted only when the whole parse fails.
type diagnosticHeap struct {
	items []*MatchFailure
}

func (h *diagnosticHeap) Len() int { return len(h.items) }
func (h *diagnosticHeap) Less(i, j int) bool {
	return h.items[i].rank() < h.items[j].rank()
}
func (h *diagnosticHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *diagnosticHeap) Push(x any)    { h.items = append(h.items, x.(*MatchFailure)) }
func (h *diagnosticHeap) Pop() any {
	n := len(h.items)
	item := h.items[n-1]
	h.items = h.items[:n-1]
	return item
}

func newDiagnosticHeap() *diagnosticHeap {
	h := &diagnosticHeap{}
	heap.Init(h)
	return h
}

func (h *diagnosticHeap) record(f *MatchFailure) {
	heap.Push(h, f)
}

// best returns the highest-ranked (deepest) diagnostic recorded, or
// nil if nothing was ever recorded.
func (h *diagnosticHeap) best() *MatchFailure {
	if h.Len() == 0 {
		return nil
	}
	return h.items[0]
}
