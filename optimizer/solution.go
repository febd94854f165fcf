// Package optimizer defines the generic branch-and-bound contract —
// Solution, Problem and Solver — and the unified FindBestSolution driver
// loop that every concrete problem and search strategy plugs into.
package optimizer

import (
	"strconv"

	"github.com/janpfeifer/mhdsolve/mhd"
)

// Decision describes the state of one bit of a partial solution.
type Decision int

const (
	// Open means the bit has not yet been decided.
	Open Decision = iota
	// False means the bit is closed with value 0.
	False
	// True means the bit is closed with value 1.
	True
)

// Solution is the abstract partial (or complete) assignment a Solver
// manipulates and a Problem scores and bounds. Concrete problems (subset-sum,
// knapsack) embed a common base and add instance-specific scoring.
type Solution interface {
	// Name identifies the concrete solution type for trace logging
	// ("subset-sum solution", "knapsack solution"); unlike Problem.Name and
	// Solver.Name it has no default on Base, since each concrete problem's
	// Solution type is the one that knows what it is.
	Name() string
	// Size is the declared number of decision bits.
	Size() int
	// Mask marks which bits are closed (decided): bit i is open iff Mask's
	// bit i is 0.
	Mask() mhd.Bits
	// Query carries decision values at closed positions; value at open
	// positions is unspecified and must not be observed.
	Query() mhd.Bits
	// Score is a lower bound on the final score assuming no further
	// favourable decisions.
	Score() int64
	// BestScore is an upper bound on the final score assuming every
	// remaining open decision resolves favourably.
	BestScore() int64
	SetScore(score, bestScore int64)
	// Priority is used by heap-based solvers only.
	Priority() float64
	SetPriority(p float64)
	// GetDecision reports whether bit i is open, or closed false/true.
	GetDecision(i int) Decision
	// MakeDecision closes bit i with value v in one step; idempotent when
	// called again with the same value.
	MakeDecision(i int, v bool)
	// IsComplete reports whether no open decisions remain.
	IsComplete() bool
	// Clone returns an independent deep copy.
	Clone() Solution
	// Readable renders mask/query as a string of '0'/'1'/'?' tokens plus the
	// score, for trace logging.
	Readable() string
}

// Base is the common Solution bookkeeping (mask, query, score, best_score,
// priority) that every concrete problem embeds; problems add their own
// scoring on top rather than reimplementing decision storage.
type Base struct {
	size      int
	mask      mhd.Bits
	query     mhd.Bits
	score     int64
	bestScore int64
	priority  float64
}

// NewBase returns an all-open base of the given size.
func NewBase(size int) Base {
	return Base{size: size, mask: mhd.NewBits(size), query: mhd.NewBits(size)}
}

func (b *Base) Size() int              { return b.size }
func (b *Base) Mask() mhd.Bits         { return b.mask }
func (b *Base) Query() mhd.Bits        { return b.query }
func (b *Base) Score() int64           { return b.score }
func (b *Base) BestScore() int64       { return b.bestScore }
func (b *Base) Priority() float64      { return b.priority }
func (b *Base) SetPriority(p float64)  { b.priority = p }

func (b *Base) SetScore(score, bestScore int64) {
	b.score, b.bestScore = score, bestScore
}

// GetDecision reports open/false/true for bit i.
func (b *Base) GetDecision(i int) Decision {
	if !b.mask.Get(i) {
		return Open
	}
	if b.query.Get(i) {
		return True
	}
	return False
}

// MakeDecision sets mask bit i to closed and query bit i to v.
func (b *Base) MakeDecision(i int, v bool) {
	b.mask.Set(i, true)
	b.query.Set(i, v)
}

// IsComplete reports whether every bit is closed.
func (b *Base) IsComplete() bool {
	for i := 0; i < b.size; i++ {
		if !b.mask.Get(i) {
			return false
		}
	}
	return true
}

// CloneBase returns an independent copy of the embedded bookkeeping, for
// concrete problems' Clone implementations to build on.
func (b *Base) CloneBase() Base {
	return Base{
		size:      b.size,
		mask:      b.mask.Clone(),
		query:     b.query.Clone(),
		score:     b.score,
		bestScore: b.bestScore,
		priority:  b.priority,
	}
}

// Readable renders mask/query as 0/1/? tokens followed by the score.
func (b *Base) Readable() string {
	out := make([]byte, b.size)
	for i := 0; i < b.size; i++ {
		switch b.GetDecision(i) {
		case True:
			out[i] = '1'
		case False:
			out[i] = '0'
		default:
			out[i] = '?'
		}
	}
	return string(out) + " " + strconv.FormatInt(b.score, 10)
}
