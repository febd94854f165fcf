// Package mhdmc implements the MHD Monte-Carlo solver: no tree, just an
// MhdMemory treated as an implicit search tree. Every Pop is a rollout that
// descends the memory's bit-decision guidance from the starting solution to
// a complete one, then writes that sample back so later rollouts benefit.
//
// Grounded on the reference mhd_mc_solver.rs, with two deliberate fixes
// documented in DESIGN.md: an improving complete solution goes through the
// ordinary NewBestSolution bookkeeping instead of panicking, and is_finished
// uses this project's conservative saturation bound rather than the
// reference's cruder threshold.
package mhdmc

import (
	"math/rand"

	"github.com/janpfeifer/mhdsolve/mhd"
	"github.com/janpfeifer/mhdsolve/optimizer"
)

// Solver is the MhdMemory-backed rollout solver.
type Solver struct {
	problem   optimizer.Problem
	memory    *mhd.MhdMemory
	best      optimizer.Solution
	fullMonte bool
	rng       *rand.Rand
}

// bootstrapFloor is the minimum number of random complete solutions seeded
// into the memory at construction, so the first rollout never queries an
// empty memory.
const bootstrapFloor = 8

// New returns an MHD Monte-Carlo solver over problem, bootstrapping its
// memory with max(problem.ProblemSize(), bootstrapFloor) random complete
// solutions.
func New(problem optimizer.Problem, fullMonte bool, rng *rand.Rand) *Solver {
	size := problem.ProblemSize()
	s := &Solver{
		problem:   problem,
		memory:    mhd.NewMhdMemory(size),
		fullMonte: fullMonte,
		rng:       rng,
	}
	floor := bootstrapFloor
	if size > floor {
		floor = size
	}
	for i := 0; i < floor; i++ {
		sol := problem.RandomSolution(rng)
		s.memory.Write(toSample(sol))
	}
	return s
}

func toSample(sol optimizer.Solution) mhd.Sample {
	return mhd.Sample{Bytes: sol.Query().Clone(), Score: sol.Score()}
}

func (s *Solver) Name() string { return "MHD-MonteCarlo" }

// Push is a no-op: rollouts always start from problem.StartingSolution(),
// the memory is the only frontier this solver has.
func (s *Solver) Push(optimizer.Solution) {}

// Pop performs one rollout: descend bit by bit via memory.ReadAndDecide,
// applying rules after each decision, until complete. If the resulting
// sample's bytes are already in the memory, backtrack one decision and try
// the opposite value; if both values at every backtrack point are
// exhausted, the rollout reports a dead end (false).
func (s *Solver) Pop() (optimizer.Solution, bool) {
	sol, ok := s.rollout(s.problem.StartingSolution())
	if !ok {
		return nil, false
	}
	s.memory.Write(toSample(sol))
	return sol, true
}

// rollout extends partial bit by bit until complete, then checks for a
// duplicate. If the completed sample is already in the memory, it
// backtracks to the decision just taken and retries with the opposite
// value — naturally, via returning false up the recursive call stack, so a
// run of consecutive duplicates unwinds as far as it needs to.
func (s *Solver) rollout(partial optimizer.Solution) (optimizer.Solution, bool) {
	if s.problem.SolutionIsComplete(partial) {
		if _, exists := s.memory.Search(partial.Query()); !exists {
			return partial, true
		}
		return nil, false
	}

	index, ok := s.problem.FirstOpenDecision(partial)
	if !ok {
		return partial, true
	}

	first := s.memory.ReadAndDecide(partial.Mask(), partial.Query(), index, s.fullMonte, s.rng)
	for _, v := range [2]bool{first, !first} {
		child := partial.Clone()
		child.MakeDecision(index, v)
		s.problem.ApplyRules(child)
		if result, ok := s.rollout(child); ok {
			return result, true
		}
	}
	return nil, false
}

// IsFinished fires once the memory has saturated a conservative bound:
// 2^width for widths <= 28, else 2^30 / ceil(width/8). This prevents
// unbounded memory growth on small problems while still allowing large
// ones to run for a useful number of rollouts.
func (s *Solver) IsFinished() bool {
	width := s.problem.ProblemSize()
	var bound int64
	if width <= 28 {
		bound = int64(1) << uint(width)
	} else {
		bound = (int64(1) << 30) / int64((width+7)/8)
	}
	return int64(s.memory.Len()) >= bound
}

func (s *Solver) Clear() {
	s.memory = mhd.NewMhdMemory(s.problem.ProblemSize())
	s.best = nil
}

func (s *Solver) NumberOfSolutions() int { return s.memory.Len() }
func (s *Solver) IsEmpty() bool          { return s.memory.Len() == 0 }

func (s *Solver) BestSolution() optimizer.Solution { return s.best }

func (s *Solver) StoreBestSolution(sol optimizer.Solution) { s.best = sol }

func (s *Solver) NewBestSolution(problem optimizer.Problem, sol optimizer.Solution) bool {
	if s.best == nil || problem.BetterThan(sol, s.best) {
		s.best = sol
		return true
	}
	return false
}

// ChildrenOfSolution is never exercised by the driver (Pop always returns a
// complete solution or none), implemented for interface completeness.
func (s *Solver) ChildrenOfSolution(parent optimizer.Solution, problem optimizer.Problem) []optimizer.Solution {
	return problem.ChildrenOfSolution(parent)
}
