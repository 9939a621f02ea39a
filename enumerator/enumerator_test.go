// -----------------------------------------------------------------------------
// ░░ Enumerator: bounds, task splitting, and end-to-end scenarios ░░
// -----------------------------------------------------------------------------
package enumerator

import (
	"reflect"
	"sort"
	"testing"

	"latticesym/permnet"
	"latticesym/symmetry"
)

func h(v int) *int { return &v }

func TestBoundsNoConstraint(t *testing.T) {
	lo, hi := Bounds(4, nil)
	if lo != 0 || hi != 15 {
		t.Fatalf("Bounds(4,nil) = (%d,%d), want (0,15)", lo, hi)
	}
}

func TestBoundsHammingZero(t *testing.T) {
	lo, hi := Bounds(10, h(0))
	if lo != 0 || hi != 0 {
		t.Fatalf("Bounds(10,0) = (%d,%d), want (0,0)", lo, hi)
	}
}

func TestBoundsHammingFull(t *testing.T) {
	lo, hi := Bounds(4, h(4))
	if lo != 0b1111 || hi != 0b1111 {
		t.Fatalf("Bounds(4,4) = (%b,%b), want (1111,1111)", lo, hi)
	}
}

func TestBoundsHammingMid(t *testing.T) {
	lo, hi := Bounds(4, h(2))
	if lo != 0b0011 || hi != 0b1100 {
		t.Fatalf("Bounds(4,2) = (%b,%b), want (0011,1100)", lo, hi)
	}
}

func TestSplitTasksCoversRangeExactlyOnce(t *testing.T) {
	lo, hi := Bounds(16, nil)
	ranges := SplitTasks(lo, hi, false, 1000)
	seen := map[uint64]bool{}
	for _, r := range ranges {
		for x := r.Lo; ; x++ {
			if seen[x] {
				t.Fatalf("state %d covered twice", x)
			}
			seen[x] = true
			if x == r.Hi {
				break
			}
		}
	}
	if uint64(len(seen)) != hi-lo+1 {
		t.Fatalf("covered %d states, want %d", len(seen), hi-lo+1)
	}
}

func TestSplitTasksHammingAlignedBoundaries(t *testing.T) {
	lo, hi := Bounds(10, h(3))
	ranges := SplitTasks(lo, hi, true, 4)
	for i, r := range ranges {
		if popcount(r.Hi) != 3 {
			t.Fatalf("range %d: Hi=%b has wrong popcount", i, r.Hi)
		}
		if i+1 < len(ranges) {
			if nextState(r.Hi, true) != ranges[i+1].Lo {
				t.Fatalf("range %d..%d not contiguous under Hamming successor", i, i+1)
			}
		}
	}
}

func popcount(x uint64) int {
	n := 0
	for x != 0 {
		n += int(x & 1)
		x >>= 1
	}
	return n
}

func identityTable() *symmetry.Table { return symmetry.NewSmall(nil) }

func translationTable4() *symmetry.Table {
	// Cyclic left rotations T^0..T^3 on 4 bits, each written as the same two
	// butterfly layers (shift 1, then shift 2) so that all four share one
	// depth and one shift per layer, as a batch of symmetry.Table requires.
	masks := [4][2]uint64{
		{0, 0},           // T^0: identity
		{0b0101, 0b0001}, // T^1: bit i -> i+1 mod 4
		{0, 0b0011},      // T^2: bit i -> i+2 mod 4
		{0b0101, 0b0010}, // T^3: bit i -> i+3 mod 4
	}
	nets := make([]symmetry.Small, 4)
	for k, m := range masks {
		net := permnet.Network{Layers: []permnet.Layer{{Mask: m[0], Shift: 1}, {Mask: m[1], Shift: 2}}}
		nets[k] = symmetry.Small{Network: net, Character: 1, Sector: 0, Periodicity: 4}
	}
	return symmetry.NewSmall(nets)
}

func TestTrivialBasisEnumeration(t *testing.T) {
	// S1
	r := Enumerate(4, nil, identityTable(), 0, 1)
	want := []uint64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	if !reflect.DeepEqual(r, want) {
		t.Fatalf("Enumerate(trivial) = %v, want %v", r, want)
	}
}

func TestTranslationEnumeration(t *testing.T) {
	// S2: N=4, translation group of order 4, all characters 1.
	r := Enumerate(4, nil, translationTable4(), 0, 1)
	want := []uint64{0, 1, 3, 5, 7, 15}
	if !reflect.DeepEqual(r, want) {
		t.Fatalf("Enumerate(translation) = %v, want %v", r, want)
	}
}

func TestHalfFilledTranslationEnumeration(t *testing.T) {
	// S4: N=4, h=2, translation group of order 4.
	r := Enumerate(4, h(2), translationTable4(), 0, 1)
	want := []uint64{0b0011, 0b0101}
	if !reflect.DeepEqual(r, want) {
		t.Fatalf("Enumerate(half-filled translation) = %v, want %v", r, want)
	}
}

func TestParallelDeterminism(t *testing.T) {
	// S5: building with worker pool size 1, 4, 16 must be bit-identical.
	table := identityTable()
	var results [][]uint64
	for _, p := range []int{1, 4, 16} {
		results = append(results, Enumerate(16, nil, table, 0, p))
	}
	for i := 1; i < len(results); i++ {
		if !reflect.DeepEqual(results[0], results[i]) {
			t.Fatalf("parallelism determinism violated between run 0 and run %d", i)
		}
	}
}

func TestEnumerationIsSortedAndUnique(t *testing.T) {
	r := Enumerate(12, h(5), identityTable(), 0, 8)
	for i := 1; i < len(r); i++ {
		if r[i] <= r[i-1] {
			t.Fatalf("result not strictly increasing at index %d: %d <= %d", i, r[i], r[i-1])
		}
	}
	sorted := append([]uint64(nil), r...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if !reflect.DeepEqual(r, sorted) {
		t.Fatal("result is not sorted")
	}
}
