// ============================================================================
// BITOPS: BIT-LEVEL PRIMITIVES FOR FIXED-WIDTH BASIS WORDS
// ============================================================================
//
// Low-level helpers shared by the permutation network, the state-info
// engine, and the enumerator. Two storage widths are supported:
//
//   - Word:  a single uint64, used for bases with N <= 64 spins.
//   - Wide:  an 8-word (512-bit) little-endian-packed vector, used for
//            bases with N <= 512 spins.
//
// All operations here are allocation-free and intended for hot-path use.
package bitops

import "math/bits"

// WideWords is the number of 64-bit words in a Wide (512-bit) basis word.
const WideWords = 8

// Wide is a 512-bit basis word, stored little-endian: Words[0] holds bits
// [0,64), Words[1] holds bits [64,128), and so on.
type Wide [WideWords]uint64

// Popcount64 returns the number of set bits in x.
//
//go:inline
func Popcount64(x uint64) int { return bits.OnesCount64(x) }

// Ctz64 returns the number of trailing zero bits in x. Ctz64(0) == 64.
//
//go:inline
func Ctz64(x uint64) int { return bits.TrailingZeros64(x) }

// TestBit64 reports whether bit i of x is set.
//
//go:inline
func TestBit64(x uint64, i uint) bool { return x&(uint64(1)<<i) != 0 }

// SetBit64 returns x with bit i set.
//
//go:inline
func SetBit64(x uint64, i uint) uint64 { return x | (uint64(1) << i) }

// ClearBit64 returns x with bit i cleared.
//
//go:inline
func ClearBit64(x uint64, i uint) uint64 { return x &^ (uint64(1) << i) }

// PopcountWide returns the total number of set bits across all eight words.
func PopcountWide(x Wide) int {
	n := 0
	for _, w := range x {
		n += bits.OnesCount64(w)
	}
	return n
}

// CtzWide returns the index of the least significant set bit across the
// whole 512-bit word, or 512 if x is all zero.
func CtzWide(x Wide) int {
	for i, w := range x {
		if w != 0 {
			return i*64 + bits.TrailingZeros64(w)
		}
	}
	return WideWords * 64
}

// TestBitWide reports whether bit i (0 <= i < 512) of x is set.
func TestBitWide(x Wide, i uint) bool {
	return x[i/64]&(uint64(1)<<(i%64)) != 0
}

// SetBitWide returns x with bit i set.
func SetBitWide(x Wide, i uint) Wide {
	x[i/64] |= uint64(1) << (i % 64)
	return x
}

// ClearBitWide returns x with bit i cleared.
func ClearBitWide(x Wide, i uint) Wide {
	x[i/64] &^= uint64(1) << (i % 64)
	return x
}

// LessWide reports whether a < b under unsigned lexicographic ordering of
// the 512-bit word, most-significant word first (matching the word ordering
// that RepresentativeCache sorts R by).
func LessWide(a, b Wide) bool {
	for i := WideWords - 1; i >= 0; i-- {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// Mix64 applies a Murmur3-style avalanche to a 64-bit value, producing a
// well-distributed fingerprint from accumulator state. Used to fold a flat
// symmetry table into a single cache-lookup key.
//
//go:inline
func Mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

// NextHamming returns the least integer strictly greater than v with the
// same popcount as v ("Gosper's hack" bit-twiddle).
//
//go:inline
func NextHamming(v uint64) uint64 {
	t := v | (v - 1)
	return (t + 1) | (((^t & -^t) - 1) >> (uint(Ctz64(v)) + 1))
}

// ClosestHamming returns the least value >= x with popcount exactly h.
// If popcount(x) > h, the lowest set bits of x are cleared until the weight
// matches — this can only ever decrease x, so the result is advanced by one
// Hamming-successor step whenever it still falls short of the largest
// h-bit-set 64-bit value. If popcount(x) < h, the lowest unset bits of x
// are set until the weight matches, which can only increase x.
func ClosestHamming(x uint64, h uint) uint64 {
	weight := uint(Popcount64(x))
	switch {
	case weight > h:
		maxValue := uint64(0)
		if h > 0 {
			maxValue = ^uint64(0) << (64 - h)
		}
		for i := uint(0); weight > h; i++ {
			if TestBit64(x, i) {
				x = ClearBit64(x, i)
				weight--
			}
		}
		if x < maxValue {
			x = NextHamming(x)
		}
	case weight < h:
		for i := uint(0); weight < h; i++ {
			if !TestBit64(x, i) {
				x = SetBit64(x, i)
				weight++
			}
		}
	}
	return x
}
