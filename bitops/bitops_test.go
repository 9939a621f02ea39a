// -----------------------------------------------------------------------------
// ░░ BitOps correctness ░░
// -----------------------------------------------------------------------------
package bitops

import "testing"

func TestPopcountCtz(t *testing.T) {
	cases := []struct {
		x    uint64
		pop  int
		ctz  int
	}{
		{0, 0, 64},
		{1, 1, 0},
		{0b1010, 2, 1},
		{^uint64(0), 64, 0},
	}
	for _, c := range cases {
		if got := Popcount64(c.x); got != c.pop {
			t.Fatalf("Popcount64(%b) = %d, want %d", c.x, got, c.pop)
		}
		if got := Ctz64(c.x); got != c.ctz {
			t.Fatalf("Ctz64(%b) = %d, want %d", c.x, got, c.ctz)
		}
	}
}

func TestBitAccessors(t *testing.T) {
	var x uint64
	x = SetBit64(x, 3)
	if !TestBit64(x, 3) {
		t.Fatal("expected bit 3 set")
	}
	x = ClearBit64(x, 3)
	if TestBit64(x, 3) {
		t.Fatal("expected bit 3 cleared")
	}
}

func TestNextHamming(t *testing.T) {
	// 0b0011 -> 0b0101 -> 0b0110 -> 0b1001 -> 0b1010 -> 0b1100
	seq := []uint64{0b0011, 0b0101, 0b0110, 0b1001, 0b1010, 0b1100}
	for i := 0; i+1 < len(seq); i++ {
		got := NextHamming(seq[i])
		if got != seq[i+1] {
			t.Fatalf("NextHamming(%b) = %b, want %b", seq[i], got, seq[i+1])
		}
	}
}

func TestClosestHamming(t *testing.T) {
	cases := []struct {
		x, h, want uint64
	}{
		{0b0000, 2, 0b0011},
		{0b0001, 2, 0b0011},
		{0b1111, 2, 0b10001}, // weight already > h=2 forces clearing to 2 then may advance
		{0b0111, 1, 0b1000},
	}
	for _, c := range cases {
		got := ClosestHamming(c.x, uint(c.h))
		if Popcount64(got) != int(c.h) {
			t.Fatalf("ClosestHamming(%b,%d) = %b has wrong popcount", c.x, c.h, got)
		}
		if got < c.x && Popcount64(c.x) <= int(c.h) {
			t.Fatalf("ClosestHamming(%b,%d) = %b is less than input", c.x, c.h, got)
		}
	}
}

func TestWideOrderingAndBits(t *testing.T) {
	var a, b Wide
	a[7] = 1
	b[7] = 2
	if !LessWide(a, b) {
		t.Fatal("expected a < b on most-significant word")
	}
	a = SetBitWide(a, 100)
	if !TestBitWide(a, 100) {
		t.Fatal("expected bit 100 set")
	}
	a = ClearBitWide(a, 100)
	if TestBitWide(a, 100) {
		t.Fatal("expected bit 100 cleared")
	}
	if PopcountWide(b) != 1 {
		t.Fatalf("PopcountWide(b) = %d, want 1", PopcountWide(b))
	}
}
