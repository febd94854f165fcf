package optimizer_test

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janpfeifer/mhdsolve/optimizer"
	"github.com/janpfeifer/mhdsolve/problems/subsetsum"
	"github.com/janpfeifer/mhdsolve/solvers/depthfirst"
)

func TestFindBestSolutionDepthFirst(t *testing.T) {
	p := subsetsum.New([]int64{2, 3, 5, 7}, 10)
	rng := rand.New(rand.NewSource(99))
	solver := depthfirst.New(p.ProblemSize())

	var micro, macro bytes.Buffer
	trace := optimizer.NewCSVTrace(&micro, &macro)

	best := optimizer.FindBestSolution(p, solver, time.Second, time.Second, trace, rng)
	require.NotNil(t, best)
	assert.EqualValues(t, 10, best.Score())
	assert.True(t, p.RulesAuditPassed(best))

	// One micro row per iteration, each with the six spec-mandated fields,
	// and exactly one eight-field summary row.
	microLines := strings.Split(strings.TrimRight(micro.String(), "\n"), "\n")
	assert.NotEmpty(t, microLines)
	assert.Len(t, strings.Split(microLines[0], ","), 6)

	macroLines := strings.Split(strings.TrimRight(macro.String(), "\n"), "\n")
	require.Len(t, macroLines, 1)
	assert.Len(t, strings.Split(macroLines[0], ","), 8)
}

func TestFindBestSolutionRespectsGlobalTimeLimit(t *testing.T) {
	p := subsetsum.New([]int64{1, 2, 3}, 4)
	rng := rand.New(rand.NewSource(5))
	solver := depthfirst.New(p.ProblemSize())

	start := time.Now()
	optimizer.FindBestSolution(p, solver, 0, 10*time.Millisecond, nil, rng)
	assert.Less(t, time.Since(start), time.Second)
}
