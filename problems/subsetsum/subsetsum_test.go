package subsetsum

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janpfeifer/mhdsolve/optimizer"
	"github.com/janpfeifer/mhdsolve/solvers/bestfirst"
	"github.com/janpfeifer/mhdsolve/solvers/depthfirst"
)

func TestApplyRulesClosesOverweightBits(t *testing.T) {
	p := New([]int64{5, 3, 9}, 7)
	s := NewSolution(3)
	p.ApplyRules(s)
	// item 2 (weight 9) can never fit within capacity 7, so it must be
	// forced closed false even before any explicit decision.
	assert.Equal(t, optimizer.False, s.GetDecision(2))
	assert.True(t, p.RulesAuditPassed(s))
}

func TestChildrenOfSolutionOrderAndRules(t *testing.T) {
	p := New([]int64{4, 4, 4}, 8)
	root := p.StartingSolution()
	children := p.ChildrenOfSolution(root)
	require.Len(t, children, 2)
	assert.Equal(t, optimizer.True, children[0].GetDecision(0))
	assert.Equal(t, optimizer.False, children[1].GetDecision(0))
	for _, c := range children {
		assert.True(t, p.RulesAuditPassed(c))
	}
}

// S3 (subset-sum exhaustive): with problem_size=4, the driver returns a
// solution with score == capacity within one second under any solver.
func TestExhaustiveSubsetSumFindsCapacity(t *testing.T) {
	p := New([]int64{2, 3, 5, 7}, 10) // 3+7 == 10, exactly reachable
	rng := rand.New(rand.NewSource(1))

	for _, solver := range []optimizer.Solver{
		depthfirst.New(p.ProblemSize()),
		bestfirst.New(p.ProblemSize()),
	} {
		best := optimizer.FindBestSolution(p, solver, time.Second, time.Second, nil, rng)
		assert.EqualValues(t, 10, best.Score(), "solver %s", solver.Name())
		assert.True(t, p.RulesAuditPassed(best))
	}
}

func TestRandomSolutionIsAlwaysLegal(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	p := NewRandom(12, rng)
	for i := 0; i < 20; i++ {
		s := p.RandomSolution(rng)
		assert.True(t, p.SolutionIsLegal(s))
	}
}

func TestBetterThanComparesScore(t *testing.T) {
	p := New([]int64{1, 2, 3}, 10)
	a := NewSolution(3)
	a.SetScore(5, 5)
	b := NewSolution(3)
	b.SetScore(3, 3)
	assert.True(t, p.BetterThan(a, b))
	assert.False(t, p.BetterThan(b, a))
}
