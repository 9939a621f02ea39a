// ============================================================================
// ENUMERATOR: PARALLEL PARTITION OF THE <=64-BIT SEARCH SPACE
// ============================================================================
//
// Splits [x_lo, x_hi] into chunk-sized, Hamming-successor-aligned ranges and
// hands one goroutine per range to a worker pool. Each task walks its range
// with StateInfoEngine and appends local representatives to a private
// slice; ranges are concatenated in their original order once every task
// has finished, so the result is globally strictly increasing without any
// cross-task synchronization beyond the final join.
//
// Uses a goroutine-per-partition fan-out with no shared mutable state in
// the hot loop, generalized from "stream forever" to "run this range to
// completion".
package enumerator

import (
	"runtime"
	"sync"

	"latticesym/bitops"
	"latticesym/stateinfo"
	"latticesym/symmetry"
)

// taskPrealloc is the number of uint64s a task's private output slice
// preallocates, roughly 1 MiB worth of 64-bit words.
const taskPrealloc = (1 << 20) / 8

// Range is an inclusive [Lo, Hi] scan range — Hi is itself a valid
// in-sequence state, not a one-past-the-end bound.
type Range struct {
	Lo, Hi uint64
}

// Bounds computes [x_lo, x_hi]: the full 2^numberSpins range when
// hammingWeight is nil, or the span between the lowest and highest words of
// that exact population count otherwise.
func Bounds(numberSpins int, hammingWeight *int) (lo, hi uint64) {
	if hammingWeight == nil {
		if numberSpins >= 64 {
			return 0, ^uint64(0)
		}
		return 0, (uint64(1) << uint(numberSpins)) - 1
	}
	h := *hammingWeight
	switch {
	case h == 0:
		return 0, 0
	case h == numberSpins && numberSpins <= 64:
		mask := ^uint64(0) >> uint(64-numberSpins)
		return mask, mask
	default:
		lo = ^uint64(0) >> uint(64-h)
		hi = lo << uint(numberSpins-h)
		return lo, hi
	}
}

// ChunkSize computes C = max(1, (x_hi - x_lo) / (100 * parallelism)).
func ChunkSize(lo, hi uint64, parallelism int) uint64 {
	if parallelism < 1 {
		parallelism = 1
	}
	c := (hi - lo) / uint64(100*parallelism)
	if c < 1 {
		c = 1
	}
	return c
}

// nextState advances v to the next state in sequence: the Hamming
// successor when fixedWeight is set, otherwise a plain +1.
func nextState(v uint64, fixedWeight bool) uint64 {
	if fixedWeight {
		return bitops.NextHamming(v)
	}
	return v + 1
}

// SplitTasks partitions [lo, hi] into inclusive ranges of at most chunkSize
// states, aligned so every range's Hi is itself a valid sequence member and
// the next range starts at nextState(Hi).
func SplitTasks(lo, hi uint64, fixedWeight bool, chunkSize uint64) []Range {
	if chunkSize == 0 {
		chunkSize = 1
	}
	step := chunkSize - 1
	var ranges []Range
	hammingWeight := uint(bitops.Popcount64(lo))
	current := lo
	for {
		if hi-current <= step {
			ranges = append(ranges, Range{Lo: current, Hi: hi})
			break
		}
		var next uint64
		if fixedWeight {
			next = bitops.ClosestHamming(current+step, hammingWeight)
		} else {
			next = current + step
		}
		if next >= hi {
			ranges = append(ranges, Range{Lo: current, Hi: hi})
			break
		}
		ranges = append(ranges, Range{Lo: current, Hi: next})
		current = nextState(next, fixedWeight)
	}
	return ranges
}

// Enumerate scans every basis state in [lo,hi] (as produced by Bounds) and
// returns every representative in sorted order. parallelism <= 0 defaults
// to runtime.NumCPU().
func Enumerate(numberSpins int, hammingWeight *int, table *symmetry.Table, sigma int, parallelism int) []uint64 {
	lo, hi := Bounds(numberSpins, hammingWeight)
	fixedWeight := hammingWeight != nil
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	chunk := ChunkSize(lo, hi, parallelism)
	ranges := SplitTasks(lo, hi, fixedWeight, chunk)

	flip := uint64(0)
	if numberSpins < 64 {
		flip = (uint64(1) << uint(numberSpins)) - 1
	} else {
		flip = ^uint64(0)
	}

	outputs := make([][]uint64, len(ranges))
	var wg sync.WaitGroup
	wg.Add(len(ranges))
	for i, r := range ranges {
		go func(i int, r Range) {
			defer wg.Done()
			outputs[i] = scanRange(r, fixedWeight, table, sigma, flip)
		}(i, r)
	}
	wg.Wait()

	total := 0
	for _, o := range outputs {
		total += len(o)
	}
	result := make([]uint64, 0, total)
	for _, o := range outputs {
		result = append(result, o...)
	}
	return result
}

func scanRange(r Range, fixedWeight bool, table *symmetry.Table, sigma int, flip uint64) []uint64 {
	out := make([]uint64, 0, taskPrealloc)
	x := r.Lo
	for {
		if stateinfo.IsRepresentativeSmall(x, table, sigma, flip) {
			out = append(out, x)
		}
		if x == r.Hi {
			break
		}
		x = nextState(x, fixedWeight)
	}
	return out
}
