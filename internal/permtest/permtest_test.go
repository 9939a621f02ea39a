package permtest

import (
	"testing"

	"latticesym/permnet"
)

func TestFromPermutationRotateLeft(t *testing.T) {
	// perm[i] = i+1 mod 4: bit i of x moves to position i+1 of y, i.e. a
	// cyclic left rotation of a 4-bit word (bit3 wraps to bit0).
	perm := []uint{1, 2, 3, 0}
	net := FromPermutation(perm)
	for x := uint64(0); x < 16; x++ {
		y := permnet.Apply(net, x)
		want := rotateLeft4(x)
		if y != want {
			t.Fatalf("Apply(rotate, %04b) = %04b, want %04b", x, y, want)
		}
	}
}

func rotateLeft4(x uint64) uint64 {
	var y uint64
	for i := uint(0); i < 4; i++ {
		if x&(1<<i) != 0 {
			y |= 1 << ((i + 1) % 4)
		}
	}
	return y
}

func TestFromPermutationIdentity(t *testing.T) {
	net := FromPermutation([]uint{0, 1, 2, 3})
	for x := uint64(0); x < 16; x++ {
		if got := permnet.Apply(net, x); got != x {
			t.Fatalf("Apply(identity-perm, %04b) = %04b, want %04b", x, got, x)
		}
	}
}
