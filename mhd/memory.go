package mhd

import (
	"math"
	"math/rand"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/janpfeifer/mhdsolve/internal/parameters"
)

// DistanceWeightPolicy selects how a sample's contribution to
// read_2_priorities is discounted by its distance to the query, within the
// proximity threshold T. The memory retains all three policies named in the
// design for experimentation; ConvexRamp is the default.
type DistanceWeightPolicy int

const (
	// ConvexRamp is (1-d/T)^(1/(d+1)): sharp near d=0, smoothly down-weighting
	// towards 0 at d=T. This is the default.
	ConvexRamp DistanceWeightPolicy = iota
	// InverseLinear is 1/(d+1).
	InverseLinear
	// InverseSquare is 1/(d+1)^2.
	InverseSquare
)

// ExplorationPolicy selects the exploration term added to the exploitation
// estimate in read_2_priorities. HitImbalance is the default: it bounds
// exploration by 1 (matching the exploitation scale) and stays well-behaved
// when a side's weight sum is near zero, unlike the ratio-based forms.
type ExplorationPolicy int

const (
	// HitImbalance: (otherHits-hits)/otherHits when this side is the
	// minority by hit count, else 0. Default.
	HitImbalance ExplorationPolicy = iota
	// UCB1 is the classic sqrt(ln(total)/hits) * C, C ~= 113.14.
	UCB1
	// WeightRatio is sqrt(ln(totalWeight)/weight) * C, the weighted analogue
	// of UCB1.
	WeightRatio
	// WeightImbalance is the weight-sum analogue of HitImbalance.
	WeightImbalance
)

// ucb1Constant is the UCB1-style exploration constant named in the design
// (C ~= 113.14), chosen so the exploration term is on a comparable scale to
// the [0,1] exploitation estimate for the score ranges this engine targets.
const ucb1Constant = 113.14

// shardParallelism bounds how many goroutines a single read fans out to; the
// reference implementation uses a work-stealing pool, this uses a fixed
// worker-per-shard split over errgroup, which gives the same "safe under
// parallel map-reduce" guarantee without unbounded goroutine creation.
const shardParallelism = 8

// MhdMemory is a deduplicated, content-addressable store of scored bit
// vectors: every Sample is unique by bytes, and the store answers two kinds
// of read used to steer a search — a weighted score estimate (MaskedRead)
// and a pair of UCB-style bit-decision priorities (Read2Priorities).
type MhdMemory struct {
	mu       sync.RWMutex
	width    int
	samples  []Sample
	total    int64
	min, max int64

	distancePolicy    DistanceWeightPolicy
	explorationPolicy ExplorationPolicy
}

// NewMhdMemory returns an empty memory for samples of the given width, using
// the default policies (ConvexRamp, HitImbalance).
func NewMhdMemory(width int) *MhdMemory {
	return &MhdMemory{width: width}
}

// WithDistancePolicy overrides the distance-multiplier policy.
func (m *MhdMemory) WithDistancePolicy(p DistanceWeightPolicy) *MhdMemory {
	m.distancePolicy = p
	return m
}

// WithExplorationPolicy overrides the exploration-term policy.
func (m *MhdMemory) WithExplorationPolicy(p ExplorationPolicy) *MhdMemory {
	m.explorationPolicy = p
	return m
}

// NewMhdMemoryFromParams builds a memory honoring "distance_weight" in
// {convex, inverse, inverse2} and "exploration" in
// {hit_imbalance, ucb1, weight_ratio, weight_imbalance}, both optional and
// popped from params so callers can layer further per-algorithm config on
// top of the same string (mirroring internal/parameters' other consumers).
func NewMhdMemoryFromParams(width int, params parameters.Params) (*MhdMemory, error) {
	dw, err := parameters.PopParamOr(params, "distance_weight", "convex")
	if err != nil {
		return nil, err
	}
	expl, err := parameters.PopParamOr(params, "exploration", "hit_imbalance")
	if err != nil {
		return nil, err
	}
	m := NewMhdMemory(width)
	switch dw {
	case "convex":
		m.distancePolicy = ConvexRamp
	case "inverse":
		m.distancePolicy = InverseLinear
	case "inverse2":
		m.distancePolicy = InverseSquare
	default:
		argumentMismatch("mhd: unknown distance_weight policy %q", dw)
	}
	switch expl {
	case "hit_imbalance":
		m.explorationPolicy = HitImbalance
	case "ucb1":
		m.explorationPolicy = UCB1
	case "weight_ratio":
		m.explorationPolicy = WeightRatio
	case "weight_imbalance":
		m.explorationPolicy = WeightImbalance
	default:
		argumentMismatch("mhd: unknown exploration policy %q", expl)
	}
	return m, nil
}

// Len returns the number of distinct samples stored.
func (m *MhdMemory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.samples)
}

// Width returns the declared bit width every sample must have.
func (m *MhdMemory) Width() int { return m.width }

// AvgScore returns total/len, or the zero score when empty.
func (m *MhdMemory) AvgScore() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.avgScoreLocked()
}

func (m *MhdMemory) avgScoreLocked() float64 {
	if len(m.samples) == 0 {
		return 0
	}
	return float64(m.total) / float64(len(m.samples))
}

// MinScore and MaxScore return the extrema over stored samples, 0 when empty.
func (m *MhdMemory) MinScore() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.min
}

func (m *MhdMemory) MaxScore() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.max
}

// Search performs a byte-equality lookup, returning the stored sample if
// present. Safe to call concurrently with other reads.
func (m *MhdMemory) Search(bytes Bits) (Sample, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.searchLocked(bytes)
}

func (m *MhdMemory) searchLocked(bytes Bits) (Sample, bool) {
	for _, s := range m.samples {
		if s.Bytes.Equal(bytes) {
			return s, true
		}
	}
	return Sample{}, false
}

// Write inserts sample if its bytes are not already present, returning true
// if it was newly added. If bytes already exist under a different score,
// Write panics with InconsistentScore: re-insertion must be idempotent, so
// disagreement can only mean the caller's scoring function is not pure.
func (m *MhdMemory) Write(sample Sample) bool {
	if sample.Width() != m.width {
		widthMismatch("mhd: sample width %d does not match memory width %d", sample.Width(), m.width)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, found := m.searchLocked(sample.Bytes); found {
		if existing.Score != sample.Score {
			inconsistentScore("mhd: sample %s already stored with score %d, got %d",
				sample.Readable(), existing.Score, sample.Score)
		}
		return false
	}

	if len(m.samples) == 0 {
		m.min, m.max = sample.Score, sample.Score
	} else {
		if sample.Score < m.min {
			m.min = sample.Score
		}
		if sample.Score > m.max {
			m.max = sample.Score
		}
	}
	m.total += sample.Score
	m.samples = append(m.samples, sample)
	return true
}

// MaskedRead computes a weighted score estimate for the partial solution
// described by (mask, query):
//
//	result = (sum_s w_s*(avg + (s.score-avg))) / sum_s w_s,  w_s = 1/(distance(mask,query,s.bytes)+1)
//
// which (since avg+(s.score-avg) == s.score) reduces to a distance-weighted
// average of stored scores. Returns the zero score over an empty memory.
func (m *MhdMemory) MaskedRead(mask, query Bits) float64 {
	if mask.Width() != m.width || query.Width() != m.width {
		widthMismatch("mhd: masked_read width mismatch: mask=%d query=%d memory=%d", mask.Width(), query.Width(), m.width)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.samples) == 0 {
		return 0
	}
	avg := m.avgScoreLocked()

	type partial struct{ weightedSum, weightSum float64 }
	parts := m.reduceShards(func(shard []Sample) any {
		var p partial
		for _, s := range shard {
			d := Distance(mask.Bytes(), query.Bytes(), s.Bytes.Bytes())
			w := 1.0 / float64(d+1)
			p.weightedSum += w * (avg + (float64(s.Score) - avg))
			p.weightSum += w
		}
		return p
	})

	var weightedSum, weightSum float64
	for _, raw := range parts {
		p := raw.(partial)
		weightedSum += p.weightedSum
		weightSum += p.weightSum
	}
	if weightSum == 0 {
		return 0
	}
	return weightedSum / weightSum
}

// sideAccum accumulates the per-side statistics read_2_priorities needs.
type sideAccum struct {
	hits      int
	weightSum float64
	scoreSum  float64
}

// Read2Priorities returns a pair of UCB-style priorities (pFalse, pTrue) for
// tentatively setting bit index of the partial solution described by
// (mask, query). See the distance-multiplier and exploration-term policies
// for the two selectable sub-formulas.
func (m *MhdMemory) Read2Priorities(mask, query Bits, index int) (pFalse, pTrue float64) {
	if mask.Width() != m.width || query.Width() != m.width {
		widthMismatch("mhd: read_2_priorities width mismatch: mask=%d query=%d memory=%d", mask.Width(), query.Width(), m.width)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	maxScore := m.max
	if maxScore == 0 {
		maxScore = 1
	}
	threshold := float64(Weight(mask.Bytes())) / 2.0

	type partial struct {
		falseSide, trueSide sideAccum
	}
	parts := m.reduceShards(func(shard []Sample) any {
		var p partial
		for _, s := range shard {
			d := Distance(mask.Bytes(), query.Bytes(), s.Bytes.Bytes())
			w := m.distanceMultiplier(float64(d), threshold)
			if w == 0 {
				continue
			}
			side := &p.falseSide
			if s.Get(index) {
				side = &p.trueSide
			}
			side.hits++
			side.weightSum += w
			side.scoreSum += w * float64(s.Score)
		}
		return p
	})

	var falseSide, trueSide sideAccum
	for _, raw := range parts {
		p := raw.(partial)
		falseSide.hits += p.falseSide.hits
		falseSide.weightSum += p.falseSide.weightSum
		falseSide.scoreSum += p.falseSide.scoreSum
		trueSide.hits += p.trueSide.hits
		trueSide.weightSum += p.trueSide.weightSum
		trueSide.scoreSum += p.trueSide.scoreSum
	}

	total := falseSide.hits + trueSide.hits
	pFalse = m.sidePriority(falseSide, trueSide.hits, trueSide.weightSum, total, float64(maxScore))
	pTrue = m.sidePriority(trueSide, falseSide.hits, falseSide.weightSum, total, float64(maxScore))
	return pFalse, pTrue
}

// sidePriority computes one side's priority: exploitation (weighted average
// score, normalized by maxScore) plus an exploration bonus, or the
// "infinity" sentinel maxScore*1024 when the side has no hits at all.
func (m *MhdMemory) sidePriority(side sideAccum, otherHits int, otherWeight float64, total int, maxScore float64) float64 {
	if side.hits == 0 {
		return maxScore * 1024
	}
	exploitation := (side.scoreSum / side.weightSum) / maxScore
	exploration := m.explorationTerm(side, otherHits, otherWeight, total)
	return exploitation + exploration
}

func (m *MhdMemory) explorationTerm(side sideAccum, otherHits int, otherWeight float64, total int) float64 {
	switch m.explorationPolicy {
	case UCB1:
		if side.hits == 0 || total <= 0 {
			return 0
		}
		return math.Sqrt(math.Log(float64(total))/float64(side.hits)) * ucb1Constant
	case WeightRatio:
		if side.weightSum <= 0 {
			return 0
		}
		totalWeight := side.weightSum
		if otherHits > 0 {
			// totalWeight here stands in for the opposite side's weight too;
			// approximate with hit counts when only this side's weight is
			// in scope, matching the additive pairing used by HitImbalance.
			totalWeight += side.weightSum * float64(otherHits) / float64(side.hits)
		}
		return math.Sqrt(math.Log(totalWeight)/side.weightSum) * ucb1Constant
	case WeightImbalance:
		if otherWeight <= 0 || side.weightSum >= otherWeight {
			return 0
		}
		return (otherWeight - side.weightSum) / otherWeight
	default: // HitImbalance
		if otherHits == 0 || side.hits >= otherHits {
			return 0
		}
		return float64(otherHits-side.hits) / float64(otherHits)
	}
}

// distanceMultiplier implements the selectable distance-weighting policy
// used by Read2Priorities: weight 1.0 at d=0, weight 0 once d exceeds the
// proximity threshold T, interpolating per the chosen policy in between.
func (m *MhdMemory) distanceMultiplier(d, threshold float64) float64 {
	if d == 0 {
		return 1.0
	}
	if threshold <= 0 || d > threshold {
		return 0.0
	}
	switch m.distancePolicy {
	case InverseLinear:
		return 1.0 / (d + 1)
	case InverseSquare:
		return 1.0 / ((d + 1) * (d + 1))
	default: // ConvexRamp
		return math.Pow(1.0-d/threshold, 1.0/(d+1))
	}
}

// ReadAndDecide calls Read2Priorities and turns the pair of priorities into
// a single bit decision. In probabilistic mode it samples a Bernoulli with
// p = pTrue/(pTrue+pFalse) (fair coin if both are zero); in deterministic
// mode it picks the larger priority, breaking ties with a fair coin.
func (m *MhdMemory) ReadAndDecide(mask, query Bits, index int, probabilistic bool, rng *rand.Rand) bool {
	pFalse, pTrue := m.Read2Priorities(mask, query, index)
	if probabilistic {
		denom := pFalse + pTrue
		if denom == 0 {
			return rng.Intn(2) == 1
		}
		return rng.Float64() < pTrue/denom
	}
	if pTrue == pFalse {
		return rng.Intn(2) == 1
	}
	return pTrue > pFalse
}

// reduceShards splits the sample slice into shardParallelism contiguous
// shards and runs f over each concurrently via errgroup, returning one
// result per shard in input order. This is the data-parallel map-reduce
// shape the design requires MaskedRead/Read2Priorities/Search to be safe
// under; callers must already hold m.mu (for reading).
func (m *MhdMemory) reduceShards(f func(shard []Sample) any) []any {
	n := len(m.samples)
	if n == 0 {
		return nil
	}
	shards := shardParallelism
	if shards > n {
		shards = n
	}
	chunk := (n + shards - 1) / shards
	shards = (n + chunk - 1) / chunk
	results := make([]any, shards)

	var g errgroup.Group
	for i := 0; i < shards; i++ {
		i := i
		lo := i * chunk
		if lo >= n {
			continue
		}
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			results[i] = f(m.samples[lo:hi])
			return nil
		})
	}
	_ = g.Wait()
	return results
}
