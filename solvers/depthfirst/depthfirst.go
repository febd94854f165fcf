// Package depthfirst implements a LIFO-stack branch-and-bound solver: it
// learns nothing and trusts the problem's bounding entirely.
package depthfirst

import "github.com/janpfeifer/mhdsolve/optimizer"

// Solver is a plain depth-first optimizer.Solver: partial solutions are
// popped in last-in-first-out order.
type Solver struct {
	stack []optimizer.Solution
	best  optimizer.Solution
}

// New returns an empty depth-first solver. size is accepted for symmetry
// with the other solver constructors but unused: a slice stack needs no
// pre-sizing hint to behave correctly.
func New(size int) *Solver {
	return &Solver{}
}

func (s *Solver) Name() string { return "DepthFirst" }

func (s *Solver) Push(sol optimizer.Solution) {
	s.stack = append(s.stack, sol)
}

func (s *Solver) Pop() (optimizer.Solution, bool) {
	if len(s.stack) == 0 {
		return nil, false
	}
	last := len(s.stack) - 1
	sol := s.stack[last]
	s.stack = s.stack[:last]
	return sol, true
}

func (s *Solver) Clear() {
	s.stack = nil
	s.best = nil
}

func (s *Solver) NumberOfSolutions() int { return len(s.stack) }
func (s *Solver) IsEmpty() bool          { return len(s.stack) == 0 }
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
