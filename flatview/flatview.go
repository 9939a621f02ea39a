// ============================================================================
// FLATVIEW: IMMUTABLE COLUMN-MAJOR SNAPSHOT FOR SIMD KERNEL CONSUMPTION
// ============================================================================
//
// A View is a one-shot, freshly allocated flattening of a SymmetryTable into
// the stable ABI layout optimized kernels expect: shape (D, M, W) plus
// parallel per-symmetry arrays, all backed by 64-byte-aligned buffers
// (cache-line and widest SIMD lane width). Reproducing the original C-style
// out-parameter pattern is unnecessary in Go; an owned value is the natural
// shape here. A View's buffers are slices rather than fixed struct fields,
// so alignment is achieved by over-allocating and trimming to a 64-byte
// boundary (alignedUint64/alignedFloat64/alignedUint32 below).
package flatview

import (
	"unsafe"

	"latticesym/symmetry"
)

const alignment = 64

// View is a self-describing flattened symmetry table: it carries the basis
// metadata the original ls_flat_spin_basis duplicates (number of spins,
// optional Hamming weight, spin-inversion flag) alongside the shape and
// arrays, so it needs no back-reference to the basis that produced it.
type View struct {
	NumberSpins   int
	HammingWeight *int
	SpinInversion int

	D, M, W uint32 // depth, symmetry count, words per network

	// Masks is (D*M*W) little-endian uint64s in (layer, lane, word)
	// row-major order: Masks[(d*M+m)*W+w].
	Masks  []uint64
	Shifts []uint64 // length D, shared across all M lanes per layer

	CharReal    []float64 // length M
	CharImag    []float64 // length M
	Sector      []uint32  // length M
	Periodicity []uint32  // length M
}

// FromSmall flattens a <=64-bit SymmetryTable (W == 1).
func FromSmall(t *symmetry.Table, numberSpins int, hammingWeight *int, spinInversion int) *View {
	lanes := t.Lanes()
	m := len(lanes)
	d := t.Depth()
	v := newView(numberSpins, hammingWeight, spinInversion, uint32(d), uint32(m), 1)
	for i, s := range lanes {
		for layer := 0; layer < d; layer++ {
			v.Masks[(layer*m+i)] = s.Network.Layers[layer].Mask
			if i == 0 {
				v.Shifts[layer] = uint64(s.Network.Layers[layer].Shift)
			}
		}
		v.CharReal[i] = real(s.Character)
		v.CharImag[i] = imag(s.Character)
		v.Sector[i] = s.Sector
		v.Periodicity[i] = s.Periodicity
	}
	return v
}

// FromBig flattens a <=512-bit SymmetryTable (W == 8, one uint64 per
// 64-bit word of the 512-bit network).
func FromBig(t *symmetry.BigTable, numberSpins int, hammingWeight *int, spinInversion int) *View {
	symmetries := t.Symmetries()
	m := len(symmetries)
	d := t.Depth()
	const w = 8
	v := newView(numberSpins, hammingWeight, spinInversion, uint32(d), uint32(m), w)
	for i, s := range symmetries {
		for layer := 0; layer < d; layer++ {
			base := (layer*m + i) * w
			for word := 0; word < w; word++ {
				v.Masks[base+word] = s.Network.Layers[layer].Mask[word]
			}
			if i == 0 {
				v.Shifts[layer] = uint64(s.Network.Layers[layer].Shift)
			}
		}
		v.CharReal[i] = real(s.Character)
		v.CharImag[i] = imag(s.Character)
		v.Sector[i] = s.Sector
		v.Periodicity[i] = s.Periodicity
	}
	return v
}

func newView(numberSpins int, hammingWeight *int, spinInversion int, d, m, w uint32) *View {
	return &View{
		NumberSpins:   numberSpins,
		HammingWeight: hammingWeight,
		SpinInversion: spinInversion,
		D:             d,
		M:             m,
		W:             w,
		Masks:         alignedUint64(int(d) * int(m) * int(w)),
		Shifts:        alignedUint64(int(d)),
		CharReal:      alignedFloat64(int(m)),
		CharImag:      alignedFloat64(int(m)),
		Sector:        alignedUint32(int(m)),
		Periodicity:   alignedUint32(int(m)),
	}
}

// alignedUint64 returns a []uint64 of length n whose backing array starts
// on a 64-byte boundary.
func alignedUint64(n int) []uint64 {
	if n == 0 {
		return nil
	}
	raw := make([]uint64, n+alignment/8)
	off := alignOffset(unsafe.Pointer(&raw[0])) / 8
	return raw[off : off+n : off+n]
}

// alignedFloat64 returns a []float64 of length n whose backing array
// starts on a 64-byte boundary.
func alignedFloat64(n int) []float64 {
	if n == 0 {
		return nil
	}
	raw := make([]float64, n+alignment/8)
	off := alignOffset(unsafe.Pointer(&raw[0])) / 8
	return raw[off : off+n : off+n]
}

// alignedUint32 returns a []uint32 of length n whose backing array starts
// on a 64-byte boundary.
func alignedUint32(n int) []uint32 {
	if n == 0 {
		return nil
	}
	raw := make([]uint32, n+alignment/4)
	off := alignOffset(unsafe.Pointer(&raw[0])) / 4
	return raw[off : off+n : off+n]
}

// alignOffset returns, in bytes, how far p must advance to reach the next
// 64-byte boundary.
func alignOffset(p unsafe.Pointer) int {
	addr := uintptr(p)
	return int((alignment - addr%alignment) % alignment)
}
