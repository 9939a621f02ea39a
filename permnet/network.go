// ============================================================================
// PERMNET: BENEŠ-STYLE LAYERED BIT-PERMUTATION NETWORKS
// ============================================================================
//
// A bit-permutation of an N-bit word is encoded as D ordered layers; layer d
// carries a mask M_d (same width as the state) and a shift delta_d. One
// layer applies the classic butterfly bit-exchange:
//
//	x' = ((x >> delta_d) ^ x) & M_d
//	x  = x ^ x' ^ (x' << delta_d)
//
// Applying the whole network is the composition of its D layers in order.
// D is identical across every permutation derived from the same group —
// callers build one Network per group element but all share Depth().
//
// Construction from an explicit permutation array is the group collaborator's
// job (out of scope here); this package only evaluates already-built
// networks.
package permnet

import "latticesym/bitops"

// Layer is one butterfly-exchange stage for a <=64-bit basis word.
type Layer struct {
	Mask  uint64
	Shift uint
}

// Network is an ordered list of layers acting on a <=64-bit basis word.
type Network struct {
	Layers []Layer
}

// Depth returns the number of layers D.
func (n Network) Depth() int { return len(n.Layers) }

// Apply permutes the bits of x according to n, returning y.
//
//go:inline
func Apply(n Network, x uint64) uint64 {
	for _, l := range n.Layers {
		xp := ((x >> l.Shift) ^ x) & l.Mask
		x ^= xp ^ (xp << l.Shift)
	}
	return x
}

// WideLayer is one butterfly-exchange stage for a 512-bit basis word.
type WideLayer struct {
	Mask  bitops.Wide
	Shift uint
}

// WideNetwork is an ordered list of layers acting on a 512-bit basis word.
type WideNetwork struct {
	Layers []WideLayer
}

// Depth returns the number of layers D.
func (n WideNetwork) Depth() int { return len(n.Layers) }

// ApplyWide permutes the bits of x according to n, returning y. Shift and
// mask act on the full 512-bit value, not per-word, so the butterfly
// exchange is evaluated with wide shift/xor/and primitives.
func ApplyWide(n WideNetwork, x bitops.Wide) bitops.Wide {
	for _, l := range n.Layers {
		shifted := shiftRight(x, l.Shift)
		xp := andWide(xorWide(shifted, x), l.Mask)
		x = xorWide(xorWide(x, xp), shiftLeft(xp, l.Shift))
	}
	return x
}

// Period returns the least k > 0 such that applying n to every bit position
// of width bits returns the identity permutation, capped at maxPeriod. This
// is a verification helper for confirming a permutation's order (P^p ==
// identity); the group collaborator is expected to supply periodicity
// directly in production use.
func Period(n Network, width uint, maxPeriod int) int {
	return periodFull(n, width, maxPeriod)
}

// periodFull finds the true period by tracking where every single-bit input
// maps to and composing until all bits return home.
func periodFull(n Network, width uint, maxPeriod int) int {
	if width == 0 {
		return 1
	}
	perm := make([]uint, width)
	for i := range perm {
		perm[i] = uint(i)
	}
	apply := func(p []uint) []uint {
		out := make([]uint, width)
		for i, bit := range p {
			y := Apply(n, uint64(1)<<bit)
			out[i] = uint(bitops.Ctz64(y))
		}
		return out
	}
	cur := apply(perm)
	for k := 1; k <= maxPeriod; k++ {
		isIdentity := true
		for i, v := range cur {
			if v != uint(i) {
				isIdentity = false
				break
			}
		}
		if isIdentity {
			return k
		}
		cur = apply(cur)
	}
	return maxPeriod
}

func shiftRight(x bitops.Wide, delta uint) bitops.Wide {
	var out bitops.Wide
	if delta == 0 {
		return x
	}
	wordShift := delta / 64
	bitShift := delta % 64
	for i := 0; i < bitops.WideWords; i++ {
		srcIdx := i + int(wordShift)
		var lo, hi uint64
		if srcIdx < bitops.WideWords {
			lo = x[srcIdx]
		}
		if srcIdx+1 < bitops.WideWords {
			hi = x[srcIdx+1]
		}
		if bitShift == 0 {
			out[i] = lo
		} else {
			out[i] = (lo >> bitShift) | (hi << (64 - bitShift))
		}
	}
	return out
}

func shiftLeft(x bitops.Wide, delta uint) bitops.Wide {
	var out bitops.Wide
	if delta == 0 {
		return x
	}
	wordShift := delta / 64
	bitShift := delta % 64
	for i := bitops.WideWords - 1; i >= 0; i-- {
		srcIdx := i - int(wordShift)
		var lo, hi uint64
		if srcIdx >= 0 {
			lo = x[srcIdx]
		}
		if srcIdx-1 >= 0 {
			hi = x[srcIdx-1]
		}
		if bitShift == 0 {
			out[i] = lo
		} else {
			out[i] = (lo << bitShift) | (hi >> (64 - bitShift))
		}
	}
	return out
}

func xorWide(a, b bitops.Wide) bitops.Wide {
	var out bitops.Wide
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

func andWide(a, b bitops.Wide) bitops.Wide {
	var out bitops.Wide
	for i := range out {
		out[i] = a[i] & b[i]
	}
	return out
}
