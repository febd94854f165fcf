// Package subsetsum implements the subset-sum concrete problem: choose a
// subset of weighted items whose total weight is as large as possible
// without exceeding a capacity.
package subsetsum

import (
	"math/rand"

	"github.com/janpfeifer/mhdsolve/optimizer"
)

// Solution is a subset-sum partial/complete assignment: the common
// mask/query/score bookkeeping, with no instance-specific fields of its
// own (per DESIGN.md, the same Base shape is reused by knapsack with an
// added values vector on the Problem side rather than the Solution side).
type Solution struct {
	optimizer.Base
}

// NewSolution returns an all-open solution of the given size.
func NewSolution(size int) *Solution {
	return &Solution{Base: optimizer.NewBase(size)}
}

// Clone returns an independent copy.
func (s *Solution) Clone() optimizer.Solution {
	return &Solution{Base: s.CloneBase()}
}

func (s *Solution) Name() string { return "subset-sum solution" }

// Problem is a subset-sum instance: weights plus a capacity.
type Problem struct {
	weights  []int64
	capacity int64
}

// New returns a subset-sum instance over the given weights and capacity.
func New(weights []int64, capacity int64) *Problem {
	return &Problem{weights: weights, capacity: capacity}
}

// NewRandom generates a random instance of the given size: weights drawn
// from an exponential distribution (mean 16/3, matching the skew used by
// the reference generator) and sorted descending, capacity set by summing a
// Bernoulli(0.5)-selected subset of weights, repeated until the instance is
// legal (capacity > 0).
func NewRandom(size int, rng *rand.Rand) *Problem {
	weights := make([]int64, size)
	for i := range weights {
		weights[i] = int64(rng.ExpFloat64()/(3.0/16.0)) + 1
	}
	sortDescending(weights)

	var capacity int64
	for capacity <= 0 {
		capacity = 0
		for _, w := range weights {
			if rng.Float64() < 0.5 {
				capacity += w
			}
		}
	}
	return &Problem{weights: weights, capacity: capacity}
}

func sortDescending(weights []int64) {
	for i := 1; i < len(weights); i++ {
		v := weights[i]
		j := i - 1
		for j >= 0 && weights[j] < v {
			weights[j+1] = weights[j]
			j--
		}
		weights[j+1] = v
	}
}

func (p *Problem) Name() string     { return "subset-sum" }
func (p *Problem) ProblemSize() int { return len(p.weights) }
func (p *Problem) Capacity() int64  { return p.capacity }
func (p *Problem) Weights() []int64 { return p.weights }

// IsLegal reports whether the instance is well-formed: non-empty, every
// weight non-negative, and capacity strictly positive.
func (p *Problem) IsLegal() bool {
	if len(p.weights) == 0 || p.capacity <= 0 {
		return false
	}
	for _, w := range p.weights {
		if w < 0 {
			return false
		}
	}
	return true
}

func (p *Problem) solutionOf(s optimizer.Solution) *Solution {
	return s.(*Solution)
}

// selectedWeight sums the weights of bits explicitly closed true.
func (p *Problem) selectedWeight(s *Solution) int64 {
	var total int64
	for i := 0; i < p.ProblemSize(); i++ {
		if s.GetDecision(i) == optimizer.True {
			total += p.weights[i]
		}
	}
	return total
}

// SolutionScore is the sum of selected weights.
func (p *Problem) SolutionScore(sol optimizer.Solution) int64 {
	return p.selectedWeight(p.solutionOf(sol))
}

// SolutionBestScore optimistically adds the weight of every still-open bit
// whose item fits within the capacity left by the selected items.
func (p *Problem) SolutionBestScore(sol optimizer.Solution) int64 {
	s := p.solutionOf(sol)
	score := p.selectedWeight(s)
	remaining := p.capacity - score
	best := score
	for i := 0; i < p.ProblemSize(); i++ {
		if s.GetDecision(i) != optimizer.Open {
			continue
		}
		if p.weights[i] <= remaining {
			best += p.weights[i]
		}
	}
	return best
}

// SolutionIsLegal reports whether the selected weight fits the capacity.
func (p *Problem) SolutionIsLegal(sol optimizer.Solution) bool {
	return p.selectedWeight(p.solutionOf(sol)) <= p.capacity
}

func (p *Problem) SolutionIsComplete(sol optimizer.Solution) bool {
	return sol.IsComplete()
}

// FirstOpenDecision returns the lowest-indexed open bit.
func (p *Problem) FirstOpenDecision(sol optimizer.Solution) (int, bool) {
	for i := 0; i < p.ProblemSize(); i++ {
		if sol.GetDecision(i) == optimizer.Open {
			return i, true
		}
	}
	return 0, false
}

// ApplyRules closes as false every open bit whose item no longer fits the
// capacity left by the selected items, and stores the resulting
// score/best_score. Idempotent:
// once a bit is closed (explicitly or by this rule) it is never revisited.
func (p *Problem) ApplyRules(sol optimizer.Solution) {
	s := p.solutionOf(sol)
	score := p.selectedWeight(s)
	remaining := p.capacity - score
	best := score
	for i := 0; i < p.ProblemSize(); i++ {
		if s.GetDecision(i) != optimizer.Open {
			continue
		}
		if p.weights[i] <= remaining {
			best += p.weights[i]
		} else {
			s.MakeDecision(i, false)
		}
	}
	s.SetScore(score, best)
}

// RulesAuditPassed re-derives score/best_score from scratch and confirms
// every open decision could still legally be set true, i.e. ApplyRules left
// no open bit whose item no longer fits.
func (p *Problem) RulesAuditPassed(sol optimizer.Solution) bool {
	s := p.solutionOf(sol)
	if p.SolutionScore(sol) != s.Score() {
		return false
	}
	if p.SolutionBestScore(sol) != s.BestScore() {
		return false
	}
	remaining := p.capacity - s.Score()
	for i := 0; i < p.ProblemSize(); i++ {
		if s.GetDecision(i) == optimizer.Open && p.weights[i] > remaining {
			return false
		}
	}
	return true
}

// BetterThan compares on Score, a deliberate override of the generic
// best_score-based default (see DESIGN.md): for a maximizing problem where
// score and best_score coincide on complete solutions, comparing realized
// score is the meaningful notion of "better" once both sides are complete.
func (p *Problem) BetterThan(a, b optimizer.Solution) bool {
	return a.Score() > b.Score()
}

// CanBeBetterThan is the branch-and-bound pruning predicate: a may still
// beat b if a's optimistic upper bound exceeds b's.
func (p *Problem) CanBeBetterThan(a, b optimizer.Solution) bool {
	return a.BestScore() > b.BestScore()
}

// StartingSolution is the all-open solution after one ApplyRules pass.
func (p *Problem) StartingSolution() optimizer.Solution {
	s := NewSolution(p.ProblemSize())
	p.ApplyRules(s)
	return s
}

// RandomSolution randomizes every bit then greedily clears true bits, in
// index order, until the selection fits the capacity.
func (p *Problem) RandomSolution(rng *rand.Rand) optimizer.Solution {
	s := NewSolution(p.ProblemSize())
	for i := 0; i < p.ProblemSize(); i++ {
		s.MakeDecision(i, rng.Intn(2) == 1)
	}
	for p.selectedWeight(s) > p.capacity {
		for i := 0; i < p.ProblemSize(); i++ {
			if s.GetDecision(i) == optimizer.True {
				s.MakeDecision(i, false)
				break
			}
		}
	}
	p.ApplyRules(s)
	return s
}

// ChildrenOfSolution clones s twice, closing the first open bit true in one
// copy and false in the other (true first, by convention), and applies
// rules to both.
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
