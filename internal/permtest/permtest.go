// Package permtest builds permnet.Network fixtures from an explicit
// permutation array, for use only by tests across this module.
//
// Network construction from an explicit permutation is the group
// collaborator's responsibility in production; this package exists purely
// so tests can build concrete, known-correct symmetries (translations,
// reflections) without depending on an external group library.
package permtest

import "latticesym/permnet"

// FromPermutation returns a Network implementing y[perm[i]] = x[i] for all
// i, i.e. bit i of x moves to position perm[i] of y. It decomposes the
// permutation into disjoint transpositions (one butterfly layer per
// transposition, mask = single bit, shift = the transposition's distance)
// — not depth-optimal, but each layer is trivially a valid instance of the
// x' = ((x>>s)^x)&m ; x ^= x' ^ (x'<<s) butterfly exchange.
func FromPermutation(perm []uint) permnet.Network {
	n := len(perm)
	pos := make([]uint, n) // identity map; not updated below (cur tracks positions)
	for i := range pos {
		pos[i] = uint(i)
	}
	// inverse[i] = which original index currently sits at slot i
	cur := make([]uint, n)
	for i := range cur {
		cur[i] = uint(i)
	}

	var layers []permnet.Layer
	for i := 0; i < n; i++ {
		target := perm[i]
		// find where original index i currently sits
		var at uint
		for j, v := range cur {
			if v == uint(i) {
				at = uint(j)
				break
			}
		}
		if at == target {
			continue
		}
		lo, hi := at, target
		if lo > hi {
			lo, hi = hi, lo
		}
		layers = append(layers, permnet.Layer{Mask: uint64(1) << lo, Shift: hi - lo})
		cur[lo], cur[hi] = cur[hi], cur[lo]
	}
	return permnet.Network{Layers: layers}
}

// PadDepth appends no-op (mask=0) layers so every network in a group shares
// the same depth D, since all permutations derived from the same group
// must share one uniform layer count.
func PadDepth(n permnet.Network, depth int) permnet.Network {
	for len(n.Layers) < depth {
		n.Layers = append(n.Layers, permnet.Layer{Mask: 0, Shift: 0})
	}
	return n
}

// MaxDepth returns the largest depth among the given networks.
func MaxDepth(nets []permnet.Network) int {
	max := 0
	for _, n := range nets {
		if d := n.Depth(); d > max {
			max = d
		}
	}
	return max
}
