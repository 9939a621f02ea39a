// ============================================================================
// STATEINFO: THE CORE PER-STATE SYMMETRIZATION ALGORITHM
// ============================================================================
//
// Given a basis state x and a SymmetryTable, computes the orbit
// representative r (the lexicographically smallest symmetry image of x),
// the character c of the permutation mapping x to r, and a norm that is
// zero exactly when x is forbidden in the chosen symmetry sector.
//
// This file is the scalar reference implementation; it is authoritative.
// stateinfo_batched.go provides a SIMD-friendly variant evaluating whole
// eight-lane batches (including padding lanes) that must produce bit-
// identical results — any hand-vectorized kernel is a reimplementation of
// this same contract, never an independent algorithm.
package stateinfo

import (
	"math"

	"latticesym/bitops"
	"latticesym/permnet"
	"latticesym/symmetry"
)

const normTolerance = 1e-8

// Result is the outcome of symmetrizing a <=64-bit basis state.
type Result struct {
	Representative uint64
	Character      complex128
	Norm           float64
}

// ComputeSmall symmetrizes a <=64-bit basis word against every symmetry in
// table, finding its orbit representative, the character of the mapping
// to that representative, and the sector norm. sigma is the spin-inversion
// flag (-1, 0, or +1); flip is the all-ones mask of the basis width N.
func ComputeSmall(x uint64, table *symmetry.Table, sigma int, flip uint64) Result {
	r := x
	c := complex128(1)
	var sum complex128

	consider := func(z uint64, chi complex128) {
		if z == x {
			sum += chi
		}
		if z < r {
			r = z
			c = conjugate(chi)
		}
	}

	for _, lane := range table.Lanes() {
		y := permnet.Apply(lane.Network, x)
		consider(y, lane.Character)
		if sigma != 0 {
			consider(y^flip, complex(float64(sigma), 0)*lane.Character)
		}
	}

	order := table.NumSymmetries()
	if sigma != 0 {
		order *= 2
	}
	return Result{Representative: r, Character: c, Norm: norm(sum, order)}
}

// IsRepresentativeSmall reports whether x is its own orbit representative
// with positive norm, short-circuiting as soon as a strictly smaller image
// is found.
func IsRepresentativeSmall(x uint64, table *symmetry.Table, sigma int, flip uint64) bool {
	var sum complex128
	for _, lane := range table.Lanes() {
		y := permnet.Apply(lane.Network, x)
		if y < x {
			return false
		}
		if y == x {
			sum += lane.Character
		}
		if sigma != 0 {
			yp := y ^ flip
			if yp < x {
				return false
			}
			if yp == x {
				sum += complex(float64(sigma), 0) * lane.Character
			}
		}
	}
	order := table.NumSymmetries()
	if sigma != 0 {
		order *= 2
	}
	return norm(sum, order) > 0
}

// ResultWide is the outcome of symmetrizing a <=512-bit basis state.
type ResultWide struct {
	Representative bitops.Wide
	Character      complex128
	Norm           float64
}

// ComputeBig mirrors ComputeSmall for a <=512-bit basis word.
func ComputeBig(x bitops.Wide, table *symmetry.BigTable, sigma int, flip bitops.Wide) ResultWide {
	r := x
	c := complex128(1)
	var sum complex128

	xorWide := func(a, b bitops.Wide) bitops.Wide {
		var out bitops.Wide
		for i := range out {
			out[i] = a[i] ^ b[i]
		}
		return out
	}
	equal := func(a, b bitops.Wide) bool { return a == b }

	consider := func(z bitops.Wide, chi complex128) {
		if equal(z, x) {
			sum += chi
		}
		if bitops.LessWide(z, r) {
			r = z
			c = conjugate(chi)
		}
	}

	for _, s := range table.Symmetries() {
		y := permnet.ApplyWide(s.Network, x)
		consider(y, s.Character)
		if sigma != 0 {
			consider(xorWide(y, flip), complex(float64(sigma), 0)*s.Character)
		}
	}

	order := table.NumSymmetries()
	if sigma != 0 {
		order *= 2
	}
	return ResultWide{Representative: r, Character: c, Norm: norm(sum, order)}
}

// IsRepresentativeBig mirrors IsRepresentativeSmall for <=512-bit words.
func IsRepresentativeBig(x bitops.Wide, table *symmetry.BigTable, sigma int, flip bitops.Wide) bool {
	var sum complex128
	for _, s := range table.Symmetries() {
		y := permnet.ApplyWide(s.Network, x)
		if bitops.LessWide(y, x) {
			return false
		}
		if y == x {
			sum += s.Character
		}
		if sigma != 0 {
			var yp bitops.Wide
			for i := range yp {
				yp[i] = y[i] ^ flip[i]
			}
			if bitops.LessWide(yp, x) {
				return false
			}
			if yp == x {
				sum += complex(float64(sigma), 0) * s.Character
			}
		}
	}
	order := table.NumSymmetries()
	if sigma != 0 {
		order *= 2
	}
	return norm(sum, order) > 0
}

// norm returns sqrt(|S|^2/order) if |S|/order >= normTolerance, else 0 —
// a state whose character sum nearly cancels is forbidden in this sector.
func norm(sum complex128, order int) float64 {
	if order == 0 {
		return 0
	}
	mag := cmplxAbs(sum)
	if mag/float64(order) < normTolerance {
		return 0
	}
	return math.Sqrt((mag * mag) / float64(order))
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

// conjugate returns the complex conjugate of c.
func conjugate(c complex128) complex128 {
	return complex(real(c), -imag(c))
}
