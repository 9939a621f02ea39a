// ============================================================================
// SYMMETRYTABLE: ORDERED SYMMETRY RECORDS, SMALL (<=64-BIT) AND BIG (<=512-BIT)
// ============================================================================
//
// A symmetry record pairs a bit-permutation with a complex unit-modulus
// character, an integer sector, and a periodicity (the order of the
// permutation in the group): chi_S = exp(2*pi*i * sector / periodicity).
//
// Small bases (N <= 64) store their symmetries batched in groups of eight,
// transposed lane-major, for SIMD-friendly evaluation (stateinfo's batched
// kernel). Any trailing tail of fewer than eight symmetries is padded to a
// full batch by repeating the last real symmetry in every unused lane, so
// every lane is always safe to evaluate; the true count of real lanes in
// that tail batch is recorded separately in Batch.RealLanes.
//
// Big bases (N <= 512) are not batched: each symmetry carries its full
// 512-bit network and a scalar character.
package symmetry

import (
	"math"
	"math/cmplx"

	"latticesym/permnet"
)

const batchSize = 8

const realTolerance = 1e-13

// Small is one symmetry record acting on a <=64-bit basis word.
type Small struct {
	Network     permnet.Network
	Character   complex128
	Sector      uint32
	Periodicity uint32
}

// Big is one symmetry record acting on a <=512-bit basis word.
type Big struct {
	Network     permnet.WideNetwork
	Character   complex128
	Sector      uint32
	Periodicity uint32
}

// Batch is eight small symmetries laid out lane-interleaved: for each
// network layer d, the eight masks are stored contiguously and all eight
// lanes share one shift (required by the batched kernel — the group
// collaborator is expected to hand us symmetries of uniform network depth
// and, within a batch, uniform per-layer shift; see NewSmall).
type Batch struct {
	Masks         [][batchSize]uint64 // len == depth
	Shifts        []uint64            // len == depth, shared across all 8 lanes
	Real          [batchSize]float64
	Imag          [batchSize]float64
	Sectors       [batchSize]uint32
	Periodicities [batchSize]uint32
	// RealLanes is the number of lanes in [0, RealLanes) that correspond to
	// actual group elements; the rest are padding copies of lane
	// RealLanes-1, present so the batched kernel can always evaluate all
	// eight lanes uniformly without a tail branch.
	RealLanes int
}

// Table is a small (<=64-bit) symmetry table: an ordered sequence of
// batches, the last of which may be a partial (padded) batch.
type Table struct {
	batches []Batch
	count   int // number of *real* symmetries across all batches
	depth   int
}

// NewSmall builds a small Table from an ordered list of symmetries, splitting
// them into full batches of eight and, if necessary, one trailing batch
// padded by repeating the last real symmetry. Passing a nil or empty slice
// yields an empty table (the trivial group).
func NewSmall(symmetries []Small) *Table {
	t := &Table{count: len(symmetries)}
	if len(symmetries) > 0 {
		t.depth = symmetries[0].Network.Depth()
	}
	offset := 0
	for ; offset+batchSize <= len(symmetries); offset += batchSize {
		t.batches = append(t.batches, packBatch(symmetries[offset:offset+batchSize], batchSize))
	}
	if tail := symmetries[offset:]; len(tail) > 0 {
		padded := make([]Small, batchSize)
		copy(padded, tail)
		last := tail[len(tail)-1]
		for i := len(tail); i < batchSize; i++ {
			padded[i] = last
		}
		t.batches = append(t.batches, packBatch(padded, len(tail)))
	}
	return t
}

func packBatch(eight []Small, realLanes int) Batch {
	depth := eight[0].Network.Depth()
	b := Batch{
		Masks:     make([][batchSize]uint64, depth),
		Shifts:    make([]uint64, depth),
		RealLanes: realLanes,
	}
	for d := 0; d < depth; d++ {
		b.Shifts[d] = uint64(eight[0].Network.Layers[d].Shift)
		for lane := 0; lane < batchSize; lane++ {
			b.Masks[d][lane] = eight[lane].Network.Layers[d].Mask
		}
	}
	for lane := 0; lane < batchSize; lane++ {
		s := eight[lane]
		b.Real[lane] = real(s.Character)
		b.Imag[lane] = imag(s.Character)
		b.Sectors[lane] = s.Sector
		b.Periodicities[lane] = s.Periodicity
	}
	return b
}

// Batches returns the table's batches in order, read-only.
func (t *Table) Batches() []Batch { return t.batches }

// Depth returns the shared network depth D of every symmetry in the table,
// or 0 for an empty table.
func (t *Table) Depth() int { return t.depth }

// NumSymmetries returns the number of real (non-padding) symmetries |G|.
func (t *Table) NumSymmetries() int { return t.count }

// Lanes reconstructs the flat, unpadded list of real symmetries in their
// original order. This is the view the scalar reference implementation of
// the per-state symmetry sum iterates over, one real lane at a time.
func (t *Table) Lanes() []Small {
	out := make([]Small, 0, t.count)
	remaining := t.count
	for _, b := range t.batches {
		n := b.RealLanes
		if n > remaining {
			n = remaining
		}
		for lane := 0; lane < n; lane++ {
			layers := make([]permnet.Layer, len(b.Masks))
			for d := range b.Masks {
				layers[d] = permnet.Layer{Mask: b.Masks[d][lane], Shift: uint(b.Shifts[d])}
			}
			out = append(out, Small{
				Network:     permnet.Network{Layers: layers},
				Character:   complex(b.Real[lane], b.Imag[lane]),
				Sector:      b.Sectors[lane],
				Periodicity: b.Periodicities[lane],
			})
		}
		remaining -= n
	}
	return out
}

// IsReal reports whether every symmetry's character has |imag| within
// realTolerance of zero.
func (t *Table) IsReal() bool {
	for _, b := range t.batches {
		for lane := 0; lane < b.RealLanes; lane++ {
			if math.Abs(b.Imag[lane]) > realTolerance {
				return false
			}
		}
	}
	return true
}

// BigTable is a big (<=512-bit) symmetry table: an unbatched ordered list.
type BigTable struct {
	symmetries []Big
}

// NewBig builds a big Table from an ordered list of symmetries.
func NewBig(symmetries []Big) *BigTable {
	cp := make([]Big, len(symmetries))
	copy(cp, symmetries)
	return &BigTable{symmetries: cp}
}

// Symmetries returns the table's symmetries in order, read-only.
func (t *BigTable) Symmetries() []Big { return t.symmetries }

// NumSymmetries returns |G|.
func (t *BigTable) NumSymmetries() int { return len(t.symmetries) }

// Depth returns the shared network depth D, or 0 for an empty table.
func (t *BigTable) Depth() int {
	if len(t.symmetries) == 0 {
		return 0
	}
	return t.symmetries[0].Network.Depth()
}

// IsReal reports whether every symmetry's character has |imag| within
// realTolerance of zero.
func (t *BigTable) IsReal() bool {
	for _, s := range t.symmetries {
		if math.Abs(imag(s.Character)) > realTolerance {
			return false
		}
	}
	return true
}

// ExpectedCharacter reconstructs chi_S = exp(2*pi*i*sector/periodicity) for
// verification against a symmetry's stored Character.
func ExpectedCharacter(sector, periodicity uint32) complex128 {
	if periodicity == 0 {
		return 1
	}
	theta := 2 * math.Pi * float64(sector) / float64(periodicity)
	return cmplx.Rect(1, theta)
}
