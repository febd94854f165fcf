package knapsack

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/janpfeifer/mhdsolve/optimizer"
	"github.com/janpfeifer/mhdsolve/solvers/bestfirst"
	"github.com/janpfeifer/mhdsolve/solvers/depthfirst"
)

// S4 (knapsack exhaustive): problem_size=8, any of the solvers finds the
// optimum within one second and rules_audit_passed holds.
func TestExhaustiveKnapsackFindsOptimum(t *testing.T) {
	weights := []int64{2, 3, 4, 5, 6, 7, 8, 9}
	values := []int64{3, 4, 5, 6, 7, 8, 9, 10}
	p := New(weights, values, 15)
	rng := rand.New(rand.NewSource(5))

	// Brute-force the optimum to compare against.
	var bestValue int64
	for mask := 0; mask < (1 << len(weights)); mask++ {
		var w, v int64
		for i := range weights {
			if mask&(1<<i) != 0 {
				w += weights[i]
				v += values[i]
			}
		}
		if w <= 15 && v > bestValue {
			bestValue = v
		}
	}

	for _, solver := range []optimizer.Solver{
		depthfirst.New(p.ProblemSize()),
		bestfirst.New(p.ProblemSize()),
	} {
		best := optimizer.FindBestSolution(p, solver, time.Second, time.Second, nil, rng)
		assert.EqualValues(t, bestValue, best.Score(), "solver %s", solver.Name())
		assert.True(t, p.RulesAuditPassed(best))
	}
}

func TestIsLegalRejectsMismatchedValues(t *testing.T) {
	p := New([]int64{1, 2}, []int64{1}, 5)
	assert.False(t, p.IsLegal())
}

func TestApplyRulesDelegatesWeightBookkeeping(t *testing.T) {
	p := New([]int64{10, 1}, []int64{100, 1}, 3)
	s := NewSolution(2)
	p.ApplyRules(s)
	// item 0 (weight 10) can never fit within capacity 3.
	assert.Equal(t, optimizer.False, s.GetDecision(0))
}

func TestNewRandomProducesLegalInstance(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	p := NewRandom(10, rng)
	assert.True(t, p.IsLegal())
	assert.Len(t, p.Values(), 10)
	assert.Len(t, p.Weights(), 10)
}
