// ============================================================================
// BATCHED SMALL KERNEL — SIMD-FRIENDLY, BIT-IDENTICAL TO THE SCALAR ENGINE
// ============================================================================
//
// ComputeSmallBatched walks symmetry.Table's eight-lane batches the way a
// hand-vectorized kernel would: every lane of a batch (real and padding
// alike) is evaluated uniformly, with no per-lane branch to skip padding.
// Padding lanes never corrupt the result: since every padding lane is an
// exact copy of the batch's last real lane (symmetry.NewSmall's
// construction), re-evaluating it against x reaches the identical y the
// real lane already did. The only place that matters is the matched-lanes
// sum S: masking by RealLanes is what prevents a padding lane from being
// counted as a second, spurious group element.
package stateinfo

import (
	"latticesym/permnet"
	"latticesym/symmetry"
)

// ComputeSmallBatched is numerically identical to ComputeSmall (see the
// equivalence tests in stateinfo_test.go) but walks the table batch-major
// instead of lane-major, matching the layout a SIMD kernel would consume.
func ComputeSmallBatched(x uint64, table *symmetry.Table, sigma int, flip uint64) Result {
	r := x
	c := complex128(1)
	var sum complex128

	for _, b := range table.Batches() {
		depth := len(b.Masks)
		for lane := 0; lane < 8; lane++ {
			layers := make([]permnet.Layer, depth)
			for d := 0; d < depth; d++ {
				layers[d] = permnet.Layer{Mask: b.Masks[d][lane], Shift: uint(b.Shifts[d])}
			}
			y := permnet.Apply(permnet.Network{Layers: layers}, x)
			chi := complex(b.Real[lane], b.Imag[lane])

			real := lane < b.RealLanes
			if y == x && real {
				sum += chi
			}
			if y < r {
				r = y
				c = conjugate(chi)
			}

			if sigma != 0 {
				yp := y ^ flip
				chip := complex(float64(sigma), 0) * chi
				if yp == x && real {
					sum += chip
				}
				if yp < r {
					r = yp
					c = conjugate(chip)
				}
			}
		}
	}

	order := table.NumSymmetries()
	if sigma != 0 {
		order *= 2
	}
	return Result{Representative: r, Character: c, Norm: norm(sum, order)}
}
