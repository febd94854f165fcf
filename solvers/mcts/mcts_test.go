package mcts

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/janpfeifer/mhdsolve/optimizer"
	"github.com/janpfeifer/mhdsolve/problems/subsetsum"
)

// S5 (MCTS exhaustion): with problem_size=8, after find_best_solution
// returns, the MCTS root is marked exhausted and visit_count <= 2^8.
func TestMCTSRootExhaustsOnSmallProblem(t *testing.T) {
	p := subsetsum.New([]int64{1, 2, 3, 4, 5, 6, 7, 8}, 18)
	rng := rand.New(rand.NewSource(11))
	solver := New(p, 0, false, rng)

	best := optimizer.FindBestSolution(p, solver, time.Second, time.Second, nil, rng)
	assert.NotNil(t, best)
	assert.True(t, solver.IsFinished())
	assert.LessOrEqual(t, solver.NumberOfSolutions(), 1<<8)
	assert.True(t, p.RulesAuditPassed(best))
}

func TestMCTSFullMonteAlsoExhausts(t *testing.T) {
	p := subsetsum.New([]int64{1, 2, 3, 4}, 6)
	rng := rand.New(rand.NewSource(21))
	solver := New(p, 0, true, rng)

	optimizer.FindBestSolution(p, solver, time.Second, time.Second, nil, rng)
	assert.True(t, solver.IsFinished())
}

func TestHighScoreGuardsAgainstNonPositiveBest(t *testing.T) {
	p := subsetsum.New([]int64{1, 2}, 3)
	rng := rand.New(rand.NewSource(1))
	solver := New(p, 0, false, rng)
	assert.EqualValues(t, 1, solver.highScore())
}
