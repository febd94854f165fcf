package mhd

import "math/rand"

// Sample is a (bit-vector, score) pair: the atomic row of an MhdMemory and
// the payload a completed Solution is projected into before insertion.
// Equality and deduplication are by bytes only; Score is metadata carried
// alongside.
type Sample struct {
	Bytes Bits
	Score int64
}

// Width returns the declared bit width of the sample.
func (s Sample) Width() int { return s.Bytes.Width() }

// ZeroSample returns an all-zero sample of the given width and score.
func ZeroSample(width int, score int64) Sample {
	return Sample{Bytes: NewBits(width), Score: score}
}

// OnesSample returns an all-one sample of the given width and score.
func OnesSample(width int, score int64) Sample {
	return Sample{Bytes: NewBitsOnes(width), Score: score}
}

// RandomSample returns a sample of the given width with uniformly random
// octets and a score drawn uniformly from [0, 1000].
func RandomSample(width int, rng *rand.Rand) Sample {
	return Sample{
		Bytes: NewBitsRandom(width, rng),
		Score: int64(rng.Intn(1001)),
	}
}

// Get returns the bit at MSB-first index i.
func (s Sample) Get(i int) bool { return s.Bytes.Get(i) }

// Set sets the bit at MSB-first index i to v.
func (s Sample) Set(i int, v bool) { s.Bytes.Set(i, v) }

// Readable renders the sample's bits as a string of '0'/'1' tokens, for trace
// logs; the score is not included.
func (s Sample) Readable() string {
	return s.Bytes.Readable()
}
