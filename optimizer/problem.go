package optimizer

import "math/rand"

// Problem owns the instance data (weights, values, capacity, ...) and is
// immutable during a solve. It provides scoring, bounding, legality and
// child generation over its associated Solution type.
type Problem interface {
	// Name identifies the problem kind for logging ("subset-sum", "knapsack").
	Name() string
	// ProblemSize is the decision count, constant after construction.
	ProblemSize() int
	// IsLegal reports whether the instance is well-formed and non-trivial.
	IsLegal() bool
	// RandomSolution returns a complete, feasible solution: bits are
	// randomized then items are greedily dropped until within capacity.
	RandomSolution(rng *rand.Rand) Solution
	// StartingSolution returns the all-open solution with score 0 and
	// best_score at the instance's natural upper bound, after ApplyRules.
	StartingSolution() Solution

	// SolutionScore and SolutionBestScore are pure functions of the
	// instance and assignment.
	SolutionScore(s Solution) int64
	SolutionBestScore(s Solution) int64
	SolutionIsLegal(s Solution) bool
	SolutionIsComplete(s Solution) bool

	// FirstOpenDecision is the canonical branching variable: the
	// lowest-indexed open bit.
	FirstOpenDecision(s Solution) (int, bool)

	// ApplyRules is the implicit-decision engine: it closes every open bit
	// whose inclusion would violate the capacity constraint as false,
	// accumulating score and best_score along the way.
	ApplyRules(s Solution)
	// RulesAuditPassed re-derives score/best_score from scratch and checks
	// that every open decision can still legally be set to true (ApplyRules
	// left no open bit that no longer fits).
	RulesAuditPassed(s Solution) bool

	// BetterThan and CanBeBetterThan are the comparison and pruning
	// predicates the driver uses; concrete problems decide, deliberately,
	// whether these compare on Score or BestScore (see DESIGN.md).
	BetterThan(a, b Solution) bool
	CanBeBetterThan(a, b Solution) bool

	// ChildrenOfSolution clones s twice, makes the first open decision true
	// in one copy and false in the other, applies rules to both, and
	// returns the candidates (0, 1 or 2 of them).
	ChildrenOfSolution(s Solution) []Solution
}
