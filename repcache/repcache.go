// ============================================================================
// REPRESENTATIVECACHE: SORTED REPRESENTATIVE VECTOR + BUCKETED INDEX
// ============================================================================
//
// Wraps a strictly increasing list R of representatives with a fixed-size
// bucket index keyed on the low 16 bits of each value, answering "given
// bits x, return its position in R" via a bucket lookup followed by a
// binary search within that bucket's sub-range.
//
// Construction input is either the sorted output of the Enumerator, or a
// caller-trusted list (the "load a persisted cache" / build_unsafe path);
// either way this package assumes R is already sorted and deduplicated —
// it does not re-validate that invariant beyond what the bucket builder
// naturally exercises.
package repcache

import (
	"errors"
	"sort"
)

const bucketBits = 16
const bucketCount = 1 << bucketBits
const bucketMask = bucketCount - 1

// ErrNotARepresentative is returned by Index when x is not present in R.
var ErrNotARepresentative = errors.New("repcache: not a representative")

type bucket struct {
	start  int
	length int
}

// Cache is an immutable, build-once representative list plus its bucket
// index.
type Cache struct {
	states  []uint64
	buckets [bucketCount]bucket
}

// Build constructs a Cache from an already sorted, deduplicated
// representative list R. The slice is not copied defensively — the caller
// (Enumerator, or a cache loader reconstructing a persisted list) already
// owns a private slice it is handing off.
func Build(states []uint64) *Cache {
	c := &Cache{states: states}
	c.buildIndex()
	return c
}

// buildIndex performs a single forward pass over states, recording for
// each low-16-bit key the contiguous run of R (in sorted order) whose low
// bits equal that key. See DESIGN.md for the assumption this relies on
// (R's ascending order inducing non-decreasing low-16-bit keys).
func (c *Cache) buildIndex() {
	i := 0
	n := len(c.states)
	for key := 0; key < bucketCount; key++ {
		if i >= n || int(c.states[i]&bucketMask) != key {
			continue
		}
		start := i
		for i < n && int(c.states[i]&bucketMask) == key {
			i++
		}
		c.buckets[key] = bucket{start: start, length: i - start}
	}
}

// Index returns the position of x within States(), or ErrNotARepresentative
// if x is not present.
func (c *Cache) Index(x uint64) (uint64, error) {
	b := c.buckets[x&bucketMask]
	if b.length == 0 {
		return 0, ErrNotARepresentative
	}
	lo, hi := b.start, b.start+b.length
	pos := sort.Search(hi-lo, func(k int) bool { return c.states[lo+k] >= x }) + lo
	if pos >= hi || c.states[pos] != x {
		return 0, ErrNotARepresentative
	}
	return uint64(pos), nil
}

// NumberStates returns |R|.
func (c *Cache) NumberStates() uint64 { return uint64(len(c.states)) }

// States returns the full representative list, read-only.
func (c *Cache) States() []uint64 { return c.states }

// Borrow is a handle onto a representative list that keeps its owning
// resource alive for the handle's lifetime. It mirrors a borrow-with-
// refcount accessor: the caller must call Release when done so the
// backing owner's reference count can drop.
type Borrow struct {
	states  []uint64
	release func()
	done    bool
}

// NewBorrow wraps states with a release callback, typically an
// Orchestrator's Retain/Release pair. release may be nil for a borrow with
// nothing to release (e.g. in tests).
func NewBorrow(states []uint64, release func()) *Borrow {
	return &Borrow{states: states, release: release}
}

// States returns the borrowed representative list. Valid until Release.
func (b *Borrow) States() []uint64 { return b.states }

// Release drops the borrow's hold on its owner. Calling it more than once
// is a no-op.
func (b *Borrow) Release() {
	if b.done {
		return
	}
	b.done = true
	if b.release != nil {
		b.release()
	}
}
