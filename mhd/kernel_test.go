package mhd

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeight(t *testing.T) {
	// S1 (kernel): weight([0x01, 0xFF, 0x01, 0xFF]) == 18.
	assert.EqualValues(t, 18, Weight([]byte{0x01, 0xFF, 0x01, 0xFF}))
	assert.EqualValues(t, 0, Weight([]byte{0x00, 0x00}))
	assert.EqualValues(t, 0, Weight(nil))
}

func TestDistance(t *testing.T) {
	// S1 (kernel): distance([0xFF,0xFF], [0x01,0xFF], [0xFF,0x01]) == 14.
	assert.EqualValues(t, 14, Distance([]byte{0xFF, 0xFF}, []byte{0x01, 0xFF}, []byte{0xFF, 0x01}))
}

func TestDistanceProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		n := 1 + rng.Intn(64)
		mask := make([]byte, n)
		a := make([]byte, n)
		b := make([]byte, n)
		rng.Read(mask)
		rng.Read(a)
		rng.Read(b)

		// Property 1: distance == popcount(mask AND (a XOR b)), checked
		// against the portable reference implementation.
		assert.Equal(t, naiveDistance(mask, a, b), Distance(mask, a, b))

		// Property 2: distance(mask, a, a) == 0.
		assert.EqualValues(t, 0, Distance(mask, a, a))

		// Property 2: distance(ones_mask, a, b) == popcount(a XOR b).
		ones := make([]byte, n)
		for i := range ones {
			ones[i] = 0xFF
		}
		xor := make([]byte, n)
		for i := range xor {
			xor[i] = a[i] ^ b[i]
		}
		assert.Equal(t, Weight(xor), Distance(ones, a, b))
	}
}

func TestDistancePanicsOnLengthMismatch(t *testing.T) {
	assert.Panics(t, func() {
		Distance([]byte{0x01}, []byte{0x01, 0x02}, []byte{0x01, 0x02})
	})
}

func TestDistanceUnalignedSlices(t *testing.T) {
	// Carve mask/a/b out of larger buffers at varying offsets so their
	// backing arrays start at different alignments relative to wordSize,
	// exercising the distanceAligned/naiveDistance fallback split.
	base := make([]byte, 64)
	for i := range base {
		base[i] = byte(i * 7)
	}
	for off := 0; off < 8; off++ {
		mask := base[off : off+24]
		a := base[off+1 : off+25]
		b := base[off+2 : off+26]
		assert.Equal(t, naiveDistance(mask, a, b), Distance(mask, a, b), "offset %d", off)
	}
}

func TestTruncatedDistance(t *testing.T) {
	a := []byte{0xFF, 0xF0, 0xAA}
	b := []byte{0x0F, 0xF0, 0x55}
	// Property 3: truncated_distance(w, a, b) == distance(first_w_bits_mask, a, b).
	for w := 0; w <= 24; w++ {
		mask := make([]byte, 3)
		for i := 0; i < w; i++ {
			mask[i/8] |= 0x80 >> uint(i%8)
		}
		require.Equal(t, Distance(mask, a, b), TruncatedDistance(w, a, b), "w=%d", w)
	}
}

func TestAlignPrefixWordsSuffix(t *testing.T) {
	x := make([]byte, 20)
	for i := range x {
		x[i] = byte(i)
	}
	prefix, words, suffix := alignPrefixWordsSuffix(x)
	assert.Equal(t, len(x), len(prefix)+len(words)*wordSize+len(suffix))
}
