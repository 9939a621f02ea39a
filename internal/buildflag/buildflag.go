// Package buildflag implements a per-instance single-flight "has this been
// built yet" gate: a state word guarded by a mutex on every access, so
// concurrent callers requesting a cache build observe exactly one build and
// everyone else blocks until it completes.
package buildflag

import "sync"

const (
	stateNoCache uint32 = iota
	stateBuilding
	stateBuilt
)

// Gate tracks one resource's NoCache -> CacheBuilt transition. The zero
// value is ready to use and starts in NoCache.
type Gate struct {
	mu    sync.Mutex
	state uint32
}

// Built reports whether the one-shot transition has already completed.
// Safe for concurrent use: it reads state while holding mu, so it blocks
// while a build is running and then reports that build's outcome.
func (g *Gate) Built() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == stateBuilt
}

// Once runs build exactly once across all callers: the first caller to
// arrive executes build and, on success, transitions the gate to
// stateBuilt; every other caller — whether arriving before or after that
// first call finishes — blocks on mu and then observes the same outcome
// without re-running build. If build returns an error the gate reverts to
// NoCache so a later call can retry.
func (g *Gate) Once(build func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == stateBuilt {
		return nil
	}
	g.state = stateBuilding
	if err := build(); err != nil {
		g.state = stateNoCache
		return err
	}
	g.state = stateBuilt
	return nil
}
