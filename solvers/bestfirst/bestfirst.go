// Package bestfirst implements a max-priority-queue branch-and-bound
// solver. The priority function defaults to the solution's best_score
// (optimistic upper bound); MHD-aware solvers build on top of this package
// by supplying a priority function driven by a memory read instead.
package bestfirst

import (
	"container/heap"

	"github.com/janpfeifer/mhdsolve/optimizer"
)

// PriorityFunc assigns a max-heap key to a solution. Larger is popped first.
type PriorityFunc func(optimizer.Solution) float64

// Solver is a best-first optimizer.Solver backed by container/heap.
type Solver struct {
	h    solutionHeap
	best optimizer.Solution
}

// New returns a best-first solver keyed on BestScore, the plain
// (non-memory-guided) default named in the design. size is accepted for
// symmetry with the other solver constructors but unused.
func New(size int) *Solver {
	return NewWithPriority(size, func(s optimizer.Solution) float64 { return float64(s.BestScore()) })
}

// NewWithPriority returns a best-first solver keyed on a caller-supplied
// priority function, used by solvers/bfmhd to key on MHD memory reads
// instead of best_score.
func NewWithPriority(size int, priorityOf PriorityFunc) *Solver {
	return &Solver{h: solutionHeap{priorityOf: priorityOf}}
}

func (s *Solver) Name() string { return "BestFirst" }

func (s *Solver) Push(sol optimizer.Solution) {
	heap.Push(&s.h, sol)
}

func (s *Solver) Pop() (optimizer.Solution, bool) {
	if s.h.Len() == 0 {
		return nil, false
	}
	return heap.Pop(&s.h).(optimizer.Solution), true
}

func (s *Solver) Clear() {
	s.h.items = nil
	s.best = nil
}

func (s *Solver) NumberOfSolutions() int { return s.h.Len() }
func (s *Solver) IsEmpty() bool          { return s.h.Len() == 0 }
func (s *Solver) IsFinished() bool       { return s.IsEmpty() }

func (s *Solver) BestSolution() optimizer.Solution { return s.best }

func (s *Solver) StoreBestSolution(sol optimizer.Solution) { s.best = sol }

func (s *Solver) NewBestSolution(problem optimizer.Problem, sol optimizer.Solution) bool {
	if s.best == nil || problem.BetterThan(sol, s.best) {
		s.best = sol
		return true
	}
	return false
}

func (s *Solver) ChildrenOfSolution(parent optimizer.Solution, problem optimizer.Problem) []optimizer.Solution {
	return problem.ChildrenOfSolution(parent)
}

// solutionHeap is a container/heap.Interface over optimizer.Solution, keyed
// by priorityOf, max-first.
type solutionHeap struct {
	items      []optimizer.Solution
	priorityOf PriorityFunc
}

func (h solutionHeap) Len() int { return len(h.items) }
func (h solutionHeap) Less(i, j int) bool {
	return h.priorityOf(h.items[i]) > h.priorityOf(h.items[j])
}
func (h solutionHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *solutionHeap) Push(x any) {
	h.items = append(h.items, x.(optimizer.Solution))
}

func (h *solutionHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}
