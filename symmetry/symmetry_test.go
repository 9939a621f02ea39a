package symmetry

import (
	"testing"

	"latticesym/permnet"
)

func trivialSmall(n int) []Small {
	out := make([]Small, n)
	for i := range out {
		out[i] = Small{Network: permnet.Network{}, Character: 1, Sector: 0, Periodicity: 1}
	}
	return out
}

func TestNewSmallExactBatches(t *testing.T) {
	tbl := NewSmall(trivialSmall(16))
	if len(tbl.Batches()) != 2 {
		t.Fatalf("expected 2 full batches, got %d", len(tbl.Batches()))
	}
	if tbl.NumSymmetries() != 16 {
		t.Fatalf("NumSymmetries = %d, want 16", tbl.NumSymmetries())
	}
	for _, b := range tbl.Batches() {
		if b.RealLanes != 8 {
			t.Fatalf("expected full batch RealLanes=8, got %d", b.RealLanes)
		}
	}
}

func TestNewSmallPartialBatchPadding(t *testing.T) {
	syms := trivialSmall(5)
	syms[4].Sector = 42 // distinguish the "last real" symmetry
	tbl := NewSmall(syms)
	if len(tbl.Batches()) != 1 {
		t.Fatalf("expected 1 partial batch, got %d", len(tbl.Batches()))
	}
	b := tbl.Batches()[0]
	if b.RealLanes != 5 {
		t.Fatalf("RealLanes = %d, want 5", b.RealLanes)
	}
	for lane := 5; lane < 8; lane++ {
		if b.Sectors[lane] != 42 {
			t.Fatalf("padding lane %d should repeat last real symmetry, got sector %d", lane, b.Sectors[lane])
		}
	}
	if tbl.NumSymmetries() != 5 {
		t.Fatalf("NumSymmetries = %d, want 5", tbl.NumSymmetries())
	}
}

func TestLanesRoundTrip(t *testing.T) {
	syms := trivialSmall(10)
	for i := range syms {
		syms[i].Sector = uint32(i)
	}
	tbl := NewSmall(syms)
	lanes := tbl.Lanes()
	if len(lanes) != 10 {
		t.Fatalf("Lanes() returned %d, want 10", len(lanes))
	}
	for i, l := range lanes {
		if l.Sector != uint32(i) {
			t.Fatalf("Lanes()[%d].Sector = %d, want %d", i, l.Sector, i)
		}
	}
}

func TestIsRealDetectsImaginaryCharacter(t *testing.T) {
	syms := trivialSmall(3)
	tbl := NewSmall(syms)
	if !tbl.IsReal() {
		t.Fatal("expected real table")
	}
	syms[1].Character = complex(0, 1)
	tbl2 := NewSmall(syms)
	if tbl2.IsReal() {
		t.Fatal("expected non-real table after introducing imaginary character")
	}
}

func TestExpectedCharacterMatchesUnitModulus(t *testing.T) {
	c := ExpectedCharacter(1, 4) // exp(i*pi/2) = i
	if re, im := real(c), imag(c); re > 1e-9 || im < 1-1e-9 {
		t.Fatalf("ExpectedCharacter(1,4) = %v, want ~i", c)
	}
}

func TestBigTableIsReal(t *testing.T) {
	big := NewBig([]Big{
		{Network: permnet.WideNetwork{}, Character: 1},
		{Network: permnet.WideNetwork{}, Character: -1},
	})
	if !big.IsReal() {
		t.Fatal("expected real big table")
	}
	if big.NumSymmetries() != 2 {
		t.Fatalf("NumSymmetries = %d, want 2", big.NumSymmetries())
	}
}
