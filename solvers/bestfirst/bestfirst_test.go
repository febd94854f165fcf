package bestfirst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janpfeifer/mhdsolve/optimizer"
	"github.com/janpfeifer/mhdsolve/problems/subsetsum"
)

func TestPopsHighestBestScoreFirst(t *testing.T) {
	s := New(4)
	low := subsetsum.NewSolution(4)
	low.SetScore(1, 1)
	high := subsetsum.NewSolution(4)
	high.SetScore(1, 9)
	mid := subsetsum.NewSolution(4)
	mid.SetScore(1, 5)

	s.Push(low)
	s.Push(high)
	s.Push(mid)

	first, ok := s.Pop()
	require.True(t, ok)
	assert.EqualValues(t, 9, first.BestScore())

	second, ok := s.Pop()
	require.True(t, ok)
	assert.EqualValues(t, 5, second.BestScore())

	third, ok := s.Pop()
	require.True(t, ok)
	assert.EqualValues(t, 1, third.BestScore())

	_, ok = s.Pop()
	assert.False(t, ok)
}

func TestNewWithPriorityUsesCustomFunc(t *testing.T) {
	s := NewWithPriority(4, func(sol optimizer.Solution) float64 {
		return sol.Priority()
	})
	a := subsetsum.NewSolution(4)
	a.SetPriority(1)
	b := subsetsum.NewSolution(4)
	b.SetPriority(2)
	s.Push(a)
	s.Push(b)
	first, ok := s.Pop()
	require.True(t, ok)
	assert.EqualValues(t, 2, first.Priority())
}
