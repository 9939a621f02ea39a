// ============================================================================
// BASIS: THE ORCHESTRATOR FACADE
// ============================================================================
//
// Basis is the handle-surface type: it owns the basis metadata (number of
// spins, optional Hamming weight, spin-inversion flag), one of the two
// SymmetryTable variants, and a lazily built RepresentativeCache. Per
// DESIGN NOTES on variant modeling, the small/big distinction is a tagged
// union resolved only at this boundary — NewSmall and NewBig are separate
// constructors, but every exported method dispatches on the receiver's own
// kind and returns ErrWrongBasisType for the mismatched case, rather than
// pushing the distinction down into stateinfo or enumerator (those already
// come in two forms: stateinfo.ComputeSmall/ComputeBig, not one generic).
//
// The original's refcounted copy_basis/destroy_basis pair becomes Retain /
// Release on an atomic counter; building the cache is gated by
// internal/buildflag so concurrent Build calls serialize to a single
// construction.
package basis

import (
	"errors"
	"fmt"
	"sync/atomic"

	"latticesym/bitops"
	"latticesym/cachestore"
	"latticesym/enumerator"
	"latticesym/flatview"
	"latticesym/internal/buildflag"
	"latticesym/repcache"
	"latticesym/stateinfo"
	"latticesym/symmetry"
)

// Error taxonomy, concept-level per the external interface contract.
var (
	ErrInvalidNumberSpins   = errors.New("basis: invalid number of spins")
	ErrInvalidHammingWeight = errors.New("basis: invalid hamming weight")
	ErrInvalidSpinInversion = errors.New("basis: invalid spin inversion")
	ErrWrongBasisType       = errors.New("basis: operation requires the other basis kind")
	ErrCacheNotBuilt        = errors.New("basis: representative cache not built")
	// ErrNotARepresentative aliases repcache's sentinel so callers can use
	// errors.Is against either package without caring which one returned it.
	ErrNotARepresentative = repcache.ErrNotARepresentative
	// ErrOutOfMemory is part of the error taxonomy's concept surface but is
	// never returned by this implementation: Go's allocator panics on
	// exhaustion rather than returning an error, and nothing here retries
	// allocation in a way that could translate a panic into this sentinel.
	ErrOutOfMemory = errors.New("basis: out of memory")
	// ErrSystemError wraps I/O failures from a cachestore backend.
	ErrSystemError = errors.New("basis: system error")
)

// Kind distinguishes the two SymmetryTable variants a Basis can hold.
type Kind int

const (
	KindSmall Kind = iota
	KindBig
)

// Info is the result of symmetrizing one state: representative, character,
// and norm. Exactly one of Representative/RepresentativeWide is meaningful,
// matching the receiver's Kind.
type Info struct {
	Representative     uint64
	RepresentativeWide bitops.Wide
	Character          complex128
	Norm               float64
}

// Basis is the orchestrator handle. The zero value is not usable; construct
// with NewSmall or NewBig.
type Basis struct {
	kind          Kind
	numberSpins   int
	hammingWeight *int
	spinInversion int
	hasSymmetries bool

	small *symmetry.Table
	big   *symmetry.BigTable

	cache *repcache.Cache
	gate  buildflag.Gate

	refcount int32
}

func validateMetadata(numberSpins, maxSpins int, hammingWeight *int, sigma int) error {
	if numberSpins < 1 || numberSpins > maxSpins {
		return ErrInvalidNumberSpins
	}
	if hammingWeight != nil && (*hammingWeight < 0 || *hammingWeight > numberSpins) {
		return ErrInvalidHammingWeight
	}
	if sigma != -1 && sigma != 0 && sigma != 1 {
		return ErrInvalidSpinInversion
	}
	if sigma != 0 && hammingWeight != nil && 2*(*hammingWeight) != numberSpins {
		return ErrInvalidSpinInversion
	}
	return nil
}

// NewSmall constructs a <=64-bit basis from an explicit symmetry group. A
// nil or empty group falls back to a single identity symmetry when sigma
// != 0 (spin-inversion-only basis); otherwise it is kept genuinely empty,
// matching the original's using_trivial_group fallback.
func NewSmall(group []symmetry.Small, numberSpins int, hammingWeight *int, sigma int) (*Basis, error) {
	if err := validateMetadata(numberSpins, 64, hammingWeight, sigma); err != nil {
		return nil, err
	}
	if len(group) == 0 && sigma != 0 {
		group = []symmetry.Small{{Character: 1, Sector: 0, Periodicity: 1}}
	}
	return &Basis{
		kind:          KindSmall,
		numberSpins:   numberSpins,
		hammingWeight: hammingWeight,
		spinInversion: sigma,
		hasSymmetries: len(group) > 1 || sigma != 0,
		small:         symmetry.NewSmall(group),
		refcount:      1,
	}, nil
}

// NewBig constructs a <=512-bit basis from an explicit symmetry group, with
// the same trivial-group fallback as NewSmall.
func NewBig(group []symmetry.Big, numberSpins int, hammingWeight *int, sigma int) (*Basis, error) {
	if err := validateMetadata(numberSpins, 512, hammingWeight, sigma); err != nil {
		return nil, err
	}
	if len(group) == 0 && sigma != 0 {
		group = []symmetry.Big{{Character: 1, Sector: 0, Periodicity: 1}}
	}
	return &Basis{
		kind:          KindBig,
		numberSpins:   numberSpins,
		hammingWeight: hammingWeight,
		spinInversion: sigma,
		hasSymmetries: len(group) > 1 || sigma != 0,
		big:           symmetry.NewBig(group),
		refcount:      1,
	}, nil
}

// Retain bumps the reference count and returns the same handle, mirroring
// copy_basis.
func (b *Basis) Retain() *Basis {
	atomic.AddInt32(&b.refcount, 1)
	return b
}

// Release drops the reference count. The caller must not use b again once
// the count reaches zero.
func (b *Basis) Release() {
	atomic.AddInt32(&b.refcount, -1)
}

// Kind reports which SymmetryTable variant this basis holds.
func (b *Basis) Kind() Kind { return b.kind }

func (b *Basis) NumberSpins() int    { return b.numberSpins }
func (b *Basis) HammingWeight() *int { return b.hammingWeight }
func (b *Basis) SpinInversion() int  { return b.spinInversion }
func (b *Basis) HasSymmetries() bool { return b.hasSymmetries }
func (b *Basis) IsCacheBuilt() bool  { return b.gate.Built() }

func (b *Basis) flip64() uint64 {
	if b.numberSpins >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(b.numberSpins)) - 1
}

func (b *Basis) flipWide() bitops.Wide {
	var flip bitops.Wide
	remaining := b.numberSpins
	for i := 0; i < bitops.WideWords && remaining > 0; i++ {
		if remaining >= 64 {
			flip[i] = ^uint64(0)
			remaining -= 64
		} else {
			flip[i] = (uint64(1) << uint(remaining)) - 1
			remaining = 0
		}
	}
	return flip
}

// Build constructs the representative cache via the Enumerator, using
// parallelism workers (<=0 defaults to runtime.NumCPU(), per Enumerate).
// Only valid on a small basis; concurrent calls serialize to one actual
// build, matching build(build(b)) being a no-op after the first call.
func (b *Basis) Build(parallelism int) error {
	if b.kind != KindSmall {
		return ErrWrongBasisType
	}
	return b.gate.Once(func() error {
		r := enumerator.Enumerate(b.numberSpins, b.hammingWeight, b.small, b.spinInversion, parallelism)
		b.cache = repcache.Build(r)
		return nil
	})
}

// BuildUnsafe installs a caller-trusted, already sorted and deduplicated
// representative list directly, skipping enumeration. This is the
// trust-caller fast path used when restoring a persisted cache.
func (b *Basis) BuildUnsafe(representatives []uint64) error {
	if b.kind != KindSmall {
		return ErrWrongBasisType
	}
	return b.gate.Once(func() error {
		b.cache = repcache.Build(representatives)
		return nil
	})
}

// NumberStates returns |R|. Requires a built cache on a small basis.
func (b *Basis) NumberStates() (uint64, error) {
	if b.kind != KindSmall {
		return 0, ErrWrongBasisType
	}
	if !b.gate.Built() {
		return 0, ErrCacheNotBuilt
	}
	return b.cache.NumberStates(), nil
}

// Index returns x's position within States(). Requires a built cache.
func (b *Basis) Index(x uint64) (uint64, error) {
	if b.kind != KindSmall {
		return 0, ErrWrongBasisType
	}
	if !b.gate.Built() {
		return 0, ErrCacheNotBuilt
	}
	return b.cache.Index(x)
}

// States returns a borrow of the representative list, holding a Retain for
// its lifetime; the caller must Release it.
func (b *Basis) States() (*repcache.Borrow, error) {
	if b.kind != KindSmall {
		return nil, ErrWrongBasisType
	}
	if !b.gate.Built() {
		return nil, ErrCacheNotBuilt
	}
	b.Retain()
	return repcache.NewBorrow(b.cache.States(), b.Release), nil
}

// StateInfo symmetrizes x against this basis's small SymmetryTable.
func (b *Basis) StateInfo(x uint64) (Info, error) {
	if b.kind != KindSmall {
		return Info{}, ErrWrongBasisType
	}
	r := stateinfo.ComputeSmall(x, b.small, b.spinInversion, b.flip64())
	return Info{Representative: r.Representative, Character: r.Character, Norm: r.Norm}, nil
}

// StateInfoWide symmetrizes x against this basis's big SymmetryTable.
func (b *Basis) StateInfoWide(x bitops.Wide) (Info, error) {
	if b.kind != KindBig {
		return Info{}, ErrWrongBasisType
	}
	r := stateinfo.ComputeBig(x, b.big, b.spinInversion, b.flipWide())
	return Info{RepresentativeWide: r.Representative, Character: r.Character, Norm: r.Norm}, nil
}

// IsRepresentative reports whether x is its own orbit representative with
// positive norm, for a small basis.
func (b *Basis) IsRepresentative(x uint64) (bool, error) {
	if b.kind != KindSmall {
		return false, ErrWrongBasisType
	}
	return stateinfo.IsRepresentativeSmall(x, b.small, b.spinInversion, b.flip64()), nil
}

// IsRepresentativeWide reports whether x is its own orbit representative
// with positive norm, for a big basis.
func (b *Basis) IsRepresentativeWide(x bitops.Wide) (bool, error) {
	if b.kind != KindBig {
		return false, ErrWrongBasisType
	}
	return stateinfo.IsRepresentativeBig(x, b.big, b.spinInversion, b.flipWide()), nil
}

// ToFlat flattens this basis's SymmetryTable into an immutable snapshot
// suitable for an optimized kernel, regardless of small/big kind.
func (b *Basis) ToFlat() *flatview.View {
	if b.kind == KindBig {
		return flatview.FromBig(b.big, b.numberSpins, b.hammingWeight, b.spinInversion)
	}
	return flatview.FromSmall(b.small, b.numberSpins, b.hammingWeight, b.spinInversion)
}

// tableFingerprint hashes this basis's flattened mask buffer, giving
// cachestore.SQLite a key component that changes if the symmetry group
// does, without requiring a dedicated hash method on SymmetryTable.
func (b *Basis) tableFingerprint() uint64 {
	v := b.ToFlat()
	acc := uint64(len(v.Masks))
	for _, m := range v.Masks {
		acc = bitops.Mix64(acc ^ m)
	}
	return acc
}

func (b *Basis) cacheMeta() cachestore.Meta {
	return cachestore.Meta{
		NumberSpins:      b.numberSpins,
		HammingWeight:    b.hammingWeight,
		SpinInversion:    b.spinInversion,
		TableFingerprint: b.tableFingerprint(),
	}
}

// SaveCache writes the built representative list to backend. Requires a
// built cache on a small basis.
func (b *Basis) SaveCache(backend cachestore.Backend) error {
	if b.kind != KindSmall {
		return ErrWrongBasisType
	}
	if !b.gate.Built() {
		return ErrCacheNotBuilt
	}
	if err := backend.Save(b.cacheMeta(), b.cache.States()); err != nil {
		return fmt.Errorf("%w: %v", ErrSystemError, err)
	}
	return nil
}

// LoadCache restores a representative list from backend via BuildUnsafe,
// so the same single-flight gate governs both code paths to CacheBuilt.
func (b *Basis) LoadCache(backend cachestore.Backend) error {
	if b.kind != KindSmall {
		return ErrWrongBasisType
	}
	states, err := backend.Load(b.cacheMeta())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSystemError, err)
	}
	return b.BuildUnsafe(states)
}
