package flatview

import (
	"testing"
	"unsafe"

	"latticesym/permnet"
	"latticesym/symmetry"
)

func TestFromSmallShapeAndAlignment(t *testing.T) {
	nets := []symmetry.Small{
		{Network: permnet.Network{Layers: []permnet.Layer{{Mask: 0x1, Shift: 1}, {Mask: 0x2, Shift: 2}}}, Character: 1, Sector: 0, Periodicity: 1},
		{Network: permnet.Network{Layers: []permnet.Layer{{Mask: 0x4, Shift: 1}, {Mask: 0x8, Shift: 2}}}, Character: -1, Sector: 1, Periodicity: 2},
	}
	table := symmetry.NewSmall(nets)
	h := 3
	v := FromSmall(table, 4, &h, 1)

	if v.D != 2 || v.M != 2 || v.W != 1 {
		t.Fatalf("shape = (%d,%d,%d), want (2,2,1)", v.D, v.M, v.W)
	}
	if v.NumberSpins != 4 || *v.HammingWeight != 3 || v.SpinInversion != 1 {
		t.Fatalf("metadata mismatch: %+v", v)
	}
	if len(v.Masks) != 4 || len(v.Shifts) != 2 {
		t.Fatalf("array lengths wrong: masks=%d shifts=%d", len(v.Masks), len(v.Shifts))
	}
	if v.CharReal[0] != 1 || v.CharReal[1] != -1 {
		t.Fatalf("CharReal = %v", v.CharReal)
	}
	for _, s := range [][]uint64{v.Masks, v.Shifts} {
		if len(s) == 0 {
			continue
		}
		if unsafe.Pointer(&s[0]) == nil {
			t.Fatal("nil backing array")
		}
		if uintptr(unsafe.Pointer(&s[0]))%alignment != 0 {
			t.Fatalf("slice not 64-byte aligned: addr %#x", uintptr(unsafe.Pointer(&s[0])))
		}
	}
	if uintptr(unsafe.Pointer(&v.CharReal[0]))%alignment != 0 {
		t.Fatal("CharReal not 64-byte aligned")
	}
	if uintptr(unsafe.Pointer(&v.Sector[0]))%alignment != 0 {
		t.Fatal("Sector not 64-byte aligned")
	}
}

func TestMasksRowMajorLayout(t *testing.T) {
	nets := []symmetry.Small{
		{Network: permnet.Network{Layers: []permnet.Layer{{Mask: 0xA, Shift: 1}}}, Character: 1},
		{Network: permnet.Network{Layers: []permnet.Layer{{Mask: 0xB, Shift: 1}}}, Character: 1},
		{Network: permnet.Network{Layers: []permnet.Layer{{Mask: 0xC, Shift: 1}}}, Character: 1},
	}
	table := symmetry.NewSmall(nets)
	v := FromSmall(table, 4, nil, 0)
	// D=1, M=3: Masks[(0*M+lane)] should be each lane's mask in order.
	want := []uint64{0xA, 0xB, 0xC}
	for lane, w := range want {
		if v.Masks[lane] != w {
			t.Fatalf("Masks[%d] = %#x, want %#x", lane, v.Masks[lane], w)
		}
	}
}

func TestFromBigShape(t *testing.T) {
	var mask symmetry.Big
	mask.Network = permnet.WideNetwork{Layers: []permnet.WideLayer{{Shift: 1}}}
	mask.Character = 1
	table := symmetry.NewBig([]symmetry.Big{mask})
	v := FromBig(table, 100, nil, 0)
	if v.D != 1 || v.M != 1 || v.W != 8 {
		t.Fatalf("shape = (%d,%d,%d), want (1,1,8)", v.D, v.M, v.W)
	}
	if len(v.Masks) != 8 {
		t.Fatalf("len(Masks) = %d, want 8", len(v.Masks))
	}
}

func TestEmptyTableProducesEmptyView(t *testing.T) {
	v := FromSmall(symmetry.NewSmall(nil), 4, nil, 0)
	if v.M != 0 || v.D != 0 {
		t.Fatalf("shape = (%d,%d), want (0,0)", v.D, v.M)
	}
	if v.Masks != nil || v.CharReal != nil {
		t.Fatal("expected nil arrays for an empty table")
	}
}
