// Package bfmhd implements the Best-First MHD solver: a hybrid of
// solvers/bestfirst and the MHD memory. Child generation intercepts to set
// each child's priority from a memory read instead of its raw best_score,
// and every completed solution is written back into the memory so later
// priority reads improve with experience.
package bfmhd

import (
	"github.com/janpfeifer/mhdsolve/mhd"
	"github.com/janpfeifer/mhdsolve/optimizer"
	"github.com/janpfeifer/mhdsolve/solvers/bestfirst"
)

// Solver wraps a bestfirst.Solver, keyed on Solution.Priority (which this
// package's ChildrenOfSolution populates from the memory), and owns the
// MhdMemory backing those reads.
type Solver struct {
	*bestfirst.Solver
	problem optimizer.Problem
	memory  *mhd.MhdMemory
}

// New returns a best-first-MHD solver over problem with an empty memory.
func New(problem optimizer.Problem) *Solver {
	size := problem.ProblemSize()
	return &Solver{
		Solver:  bestfirst.NewWithPriority(size, func(s optimizer.Solution) float64 { return s.Priority() }),
		problem: problem,
		memory:  mhd.NewMhdMemory(size),
	}
}

func (s *Solver) Name() string { return "BestFirstMHD" }

// ChildrenOfSolution generates children via the problem, then queries the
// memory once on the parent's pre-decision (mask, query) for the two
// priorities attached to the branching bit, and hands each to the matching
// child (true-branch gets pTrue, false-branch gets pFalse). A complete child
// instead gets written into the memory immediately so it informs subsequent
// reads.
func (s *Solver) ChildrenOfSolution(parent optimizer.Solution, problem optimizer.Problem) []optimizer.Solution {
	children := problem.ChildrenOfSolution(parent)
	openIndex, ok := problem.FirstOpenDecision(parent)
	var pFalse, pTrue float64
	if ok {
		pFalse, pTrue = s.memory.Read2Priorities(parent.Mask(), parent.Query(), openIndex)
	}
	for _, child := range children {
		if problem.SolutionIsComplete(child) {
			s.memory.Write(mhd.Sample{Bytes: child.Query().Clone(), Score: child.Score()})
			continue
		}
		if child.GetDecision(openIndex) == optimizer.True {
			child.SetPriority(pTrue)
		} else {
			child.SetPriority(pFalse)
		}
	}
	return children
}

// NewBestSolution additionally writes every improving complete solution
// into the memory (redundant with ChildrenOfSolution's write for children,
// but also covers complete solutions the driver pops directly). The initial
// random seed, stored through StoreBestSolution, is not written.
func (s *Solver) NewBestSolution(problem optimizer.Problem, sol optimizer.Solution) bool {
	improved := s.Solver.NewBestSolution(problem, sol)
	if improved {
		s.memory.Write(mhd.Sample{Bytes: sol.Query().Clone(), Score: sol.Score()})
	}
	return improved
}
