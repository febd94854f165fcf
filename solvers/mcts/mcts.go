// Package mcts implements the Monte Carlo Tree Search solver: a lazy binary
// tree rooted at the starting partial solution, selecting between its true
// and false branches via UCB1 treated as a two-armed bandit.
//
// Node storage is an arena plus indices (cheap Clear, good cache locality)
// rather than boxed child pointers: nodes live in a flat slice and reference
// children by index, -1 meaning "not yet created".
package mcts

import (
	"math"
	"math/rand"

	"github.com/janpfeifer/mhdsolve/optimizer"
)

// DefaultExplorationConstant is C_p ~= 2*sqrt(2), the value named in the
// design for the UCT formula's exploration term.
const DefaultExplorationConstant = 2 * math.Sqrt2

const noChild = -1

// node is one arena slot: a binary-tree node over one decision bit.
type node struct {
	exhausted             bool
	visits                int
	maxScore              int64
	trueChild, falseChild int32
}

// Solver is the MCTS optimizer.Solver. It owns the problem reference
// directly (rather than receiving it per-call) because each descent needs
// to apply the problem's rules while extending the partial solution.
type Solver struct {
	problem   optimizer.Problem
	arena     []node
	root      int32
	best      optimizer.Solution
	cp        float64
	fullMonte bool
	rng       *rand.Rand
}

// New returns an MCTS solver over problem. cp <= 0 selects
// DefaultExplorationConstant. fullMonte switches the arm-selection rule from
// greedy-with-tie-break to Bernoulli sampling on the UCT ratio.
func New(problem optimizer.Problem, cp float64, fullMonte bool, rng *rand.Rand) *Solver {
	if cp <= 0 {
		cp = DefaultExplorationConstant
	}
	s := &Solver{problem: problem, cp: cp, fullMonte: fullMonte, rng: rng}
	s.root = s.newNode()
	return s
}

func (s *Solver) newNode() int32 {
	s.arena = append(s.arena, node{trueChild: noChild, falseChild: noChild})
	return int32(len(s.arena) - 1)
}

func (s *Solver) Name() string { return "MCTS" }

// Push is a no-op: MCTS keeps its own frontier inside the tree and always
// descends from the root, rather than consulting an external queue.
func (s *Solver) Push(optimizer.Solution) {}

// Pop performs one descent from the root, returning the complete solution
// it reaches, or false once the root is exhausted.
func (s *Solver) Pop() (optimizer.Solution, bool) {
	if s.arena[s.root].exhausted {
		return nil, false
	}
	result, _ := s.descend(s.root, s.problem.StartingSolution())
	return result, true
}

func (s *Solver) highScore() int64 {
	if s.best == nil || s.best.Score() <= 0 {
		return 1
	}
	return s.best.Score()
}

// uct is the UCT value of a child arm: max_score/high_score plus an
// exploration bonus, +Inf for an unvisited child, 0 for an exhausted one.
func (s *Solver) uct(n *node, parentVisits int) float64 {
	if n.exhausted {
		return 0
	}
	if n.visits == 0 {
		return math.Inf(1)
	}
	return float64(n.maxScore)/float64(s.highScore()) +
		math.Sqrt(math.Log(float64(parentVisits))/float64(n.visits))*s.cp
}

// descend recurses one bit at a time from idx/partial until partial is
// complete, lazily creating children and selecting between them by UCT (or
// full-monte Bernoulli sampling when both arms are live). It returns the
// complete solution reached and whether the descent succeeded (it always
// does, given the entry invariant that a non-exhausted node has at least
// one non-exhausted child).
func (s *Solver) descend(idx int32, partial optimizer.Solution) (optimizer.Solution, bool) {
	n := &s.arena[idx]
	n.visits++

	if s.problem.SolutionIsComplete(partial) {
		n.exhausted = true
		n.maxScore = partial.Score()
		return partial, true
	}

	index, ok := s.problem.FirstOpenDecision(partial)
	if !ok {
		n.exhausted = true
		return partial, false
	}

	if n.trueChild == noChild {
		n.trueChild = s.newNode()
	}
	if n.falseChild == noChild {
		n.falseChild = s.newNode()
	}
	// Re-fetch: newNode may have grown the arena and invalidated n's backing array.
	n = &s.arena[idx]
	trueIdx, falseIdx := n.trueChild, n.falseChild

	chosen := s.selectBranch(&s.arena[trueIdx], &s.arena[falseIdx], n.visits)

	child := partial.Clone()
	child.MakeDecision(index, chosen)
	s.problem.ApplyRules(child)

	childIdx := falseIdx
	if chosen {
		childIdx = trueIdx
	}
	result, ok := s.descend(childIdx, child)

	n = &s.arena[idx]
	if s.arena[n.trueChild].exhausted && s.arena[n.falseChild].exhausted {
		n.exhausted = true
	}
	if ok && result.Score() > n.maxScore {
		n.maxScore = result.Score()
	}
	return result, ok
}

// selectBranch picks true or false: the non-exhausted side wins outright if
// only one qualifies, otherwise UCT (or its full-monte Bernoulli variant)
// decides, with a fair-coin tie-break.
func (s *Solver) selectBranch(trueNode, falseNode *node, parentVisits int) bool {
	if trueNode.exhausted && !falseNode.exhausted {
		return false
	}
	if falseNode.exhausted && !trueNode.exhausted {
		return true
	}
	uctTrue := s.uct(trueNode, parentVisits)
	uctFalse := s.uct(falseNode, parentVisits)
	if s.fullMonte && !math.IsInf(uctTrue, 1) && !math.IsInf(uctFalse, 1) {
		denom := uctTrue + uctFalse
		if denom == 0 {
			return s.rng.Intn(2) == 1
		}
		return s.rng.Float64() < uctTrue/denom
	}
	if uctTrue == uctFalse {
		return s.rng.Intn(2) == 1
	}
	return uctTrue > uctFalse
}

func (s *Solver) Clear() {
	s.arena = nil
	s.best = nil
	s.root = s.newNode()
}

func (s *Solver) NumberOfSolutions() int { return s.arena[s.root].visits }
func (s *Solver) IsEmpty() bool          { return s.arena[s.root].exhausted }
func (s *Solver) IsFinished() bool       { return s.arena[s.root].exhausted }

func (s *Solver) BestSolution() optimizer.Solution { return s.best }

func (s *Solver) StoreBestSolution(sol optimizer.Solution) { s.best = sol }

func (s *Solver) NewBestSolution(problem optimizer.Problem, sol optimizer.Solution) bool {
	if s.best == nil || problem.BetterThan(sol, s.best) {
		s.best = sol
		return true
	}
	return false
}

// ChildrenOfSolution is never exercised by the driver in practice (Pop
// always returns a complete solution, so the driver's incomplete-child
// branch is never reached for this solver) but is implemented for
// interface completeness.
func (s *Solver) ChildrenOfSolution(parent optimizer.Solution, problem optimizer.Problem) []optimizer.Solution {
	return problem.ChildrenOfSolution(parent)
}
