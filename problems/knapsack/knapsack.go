// Package knapsack implements the 0/1 knapsack concrete problem: it extends
// subset-sum with a values vector — weight/legality tracking is delegated
// to an embedded subset-sum instance, while score is the sum of selected
// values rather than weights.
package knapsack

import (
	"math/rand"

	"github.com/janpfeifer/mhdsolve/optimizer"
	"github.com/janpfeifer/mhdsolve/problems/subsetsum"
)

// Solution is a knapsack partial/complete assignment. It reuses
// subset-sum's Solution verbatim: the decision bits (mask/query) are
// identical, only the scoring differs, and that lives on Problem.
type Solution struct {
	subsetsum.Solution
}

// NewSolution returns an all-open solution of the given size.
func NewSolution(size int) *Solution {
	return &Solution{Solution: *subsetsum.NewSolution(size)}
}

func (s *Solution) Clone() optimizer.Solution {
	return &Solution{Solution: *s.Solution.Clone().(*subsetsum.Solution)}
}

func (s *Solution) Name() string { return "knapsack solution" }

// Problem is a 0/1 knapsack instance: an underlying subset-sum instance
// (weights, capacity) plus a values vector of the same length.
type Problem struct {
	weights *subsetsum.Problem
	values  []int64
}

// New returns a knapsack instance over the given weights, values and
// capacity.
func New(weights, values []int64, capacity int64) *Problem {
	return &Problem{weights: subsetsum.New(weights, capacity), values: values}
}

// NewRandom generates a random instance: weights/capacity via
// subsetsum.NewRandom, each item's value drawn uniformly in [1, 2w+1] for
// that item's weight w, so that
// value and weight are correlated enough to make the capacity constraint
// bind, matching the reference generator's intent of non-trivial instances.
func NewRandom(size int, rng *rand.Rand) *Problem {
	sub := subsetsum.NewRandom(size, rng)
	values := make([]int64, size)
	for i, w := range sub.Weights() {
		spread := 2*w + 1
		values[i] = int64(rng.Int63n(spread)) + 1
	}
	return &Problem{weights: sub, values: values}
}

func (p *Problem) Name() string     { return "knapsack" }
func (p *Problem) ProblemSize() int { return p.weights.ProblemSize() }
func (p *Problem) Capacity() int64  { return p.weights.Capacity() }
func (p *Problem) Values() []int64  { return p.values }
func (p *Problem) Weights() []int64 { return p.weights.Weights() }

func (p *Problem) IsLegal() bool {
	if !p.weights.IsLegal() || len(p.values) != p.ProblemSize() {
		return false
	}
	for _, v := range p.values {
		if v < 0 {
			return false
		}
	}
	return true
}

func (p *Problem) solutionOf(s optimizer.Solution) *Solution {
	return s.(*Solution)
}

func (p *Problem) selectedValue(s *Solution) int64 {
	var total int64
	for i := 0; i < p.ProblemSize(); i++ {
		if s.GetDecision(i) == optimizer.True {
			total += p.values[i]
		}
	}
	return total
}

func (p *Problem) SolutionScore(sol optimizer.Solution) int64 {
	return p.selectedValue(p.solutionOf(sol))
}

// SolutionBestScore optimistically adds the value of every still-open bit
// whose weight fits within the capacity left by the selected items (no
// fractional-knapsack LP bound is attempted).
func (p *Problem) SolutionBestScore(sol optimizer.Solution) int64 {
	s := p.solutionOf(sol)
	score := p.selectedValue(s)
	remaining := p.Capacity() - p.weights.SolutionScore(&s.Solution)
	best := score
	weights := p.weights.Weights()
	for i := 0; i < p.ProblemSize(); i++ {
		if s.GetDecision(i) != optimizer.Open {
			continue
		}
		if weights[i] <= remaining {
			best += p.values[i]
		}
	}
	return best
}

func (p *Problem) SolutionIsLegal(sol optimizer.Solution) bool {
	return p.weights.SolutionIsLegal(&p.solutionOf(sol).Solution)
}

func (p *Problem) SolutionIsComplete(sol optimizer.Solution) bool {
	return sol.IsComplete()
}

func (p *Problem) FirstOpenDecision(sol optimizer.Solution) (int, bool) {
	return p.weights.FirstOpenDecision(&p.solutionOf(sol).Solution)
}

// ApplyRules closes as false every open bit whose weight no longer fits the
// capacity left by the selected items (delegating the weight bookkeeping to the
// embedded subset-sum instance), then stores value-based score/best_score.
func (p *Problem) ApplyRules(sol optimizer.Solution) {
	s := p.solutionOf(sol)
	p.weights.ApplyRules(&s.Solution)
	s.SetScore(p.selectedValue(s), p.SolutionBestScore(sol))
}

// RulesAuditPassed cannot delegate to the embedded subset-sum instance's own
// audit: that method compares its recomputed weight-sum against s.Score(),
// but s.Score() here holds the value-sum that ApplyRules stores for this
// layer. Weight-feasibility is instead re-derived independently from the
// weights vector, never from the shared score field.
func (p *Problem) RulesAuditPassed(sol optimizer.Solution) bool {
	s := p.solutionOf(sol)
	if p.SolutionScore(sol) != s.Score() {
		return false
	}
	if p.SolutionBestScore(sol) != s.BestScore() {
		return false
	}
	weightSum := p.weights.SolutionScore(&s.Solution)
	if weightSum > p.Capacity() {
		return false
	}
	remaining := p.Capacity() - weightSum
	weights := p.weights.Weights()
	for i := 0; i < p.ProblemSize(); i++ {
		if s.GetDecision(i) == optimizer.Open && weights[i] > remaining {
			return false
		}
	}
	return true
}

func (p *Problem) BetterThan(a, b optimizer.Solution) bool {
	return a.Score() > b.Score()
}

func (p *Problem) CanBeBetterThan(a, b optimizer.Solution) bool {
	return a.BestScore() > b.BestScore()
}

func (p *Problem) StartingSolution() optimizer.Solution {
	s := NewSolution(p.ProblemSize())
	p.ApplyRules(s)
	return s
}

// RandomSolution delegates bit selection to the embedded subset-sum
// instance (randomize, then greedily clear until within capacity) and
// rescoring to this problem's value function.
func (p *Problem) RandomSolution(rng *rand.Rand) optimizer.Solution {
	sub := p.weights.RandomSolution(rng).(*subsetsum.Solution)
	s := &Solution{Solution: *sub}
	p.ApplyRules(s)
	return s
}

func (p *Problem) ChildrenOfSolution(sol optimizer.Solution) []optimizer.Solution {
	index, ok := p.FirstOpenDecision(sol)
	if !ok {
		return nil
	}
	children := make([]optimizer.Solution, 0, 2)
	for _, v := range [2]bool{true, false} {
		child := sol.Clone()
		child.MakeDecision(index, v)
		p.ApplyRules(child)
		children = append(children, child)
	}
	return children
}
