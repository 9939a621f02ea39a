// Package diag provides zero-allocation, cold-path-only diagnostic logging
// for internal invariant violations, conditions that indicate a bug rather
// than bad caller input. No package in this module calls it: the state-info
// engine and the enumerator contain no invariant checks.
package diag

import "log"

// Fatal logs prefix and the triggering condition, then terminates the
// process. Internal assertion failures are not recoverable: they mean an
// invariant this package relies on (representative monotonicity, batch
// padding, bucket contiguity) has been violated, not that the caller
// passed bad input.
//
//go:noinline
func Fatal(prefix string, detail string) {
	log.Fatalf("%s: %s", prefix, detail)
}

// Warn logs a non-fatal diagnostic for cold paths (cache load mismatches,
// fallback construction choices). Never called from a hot loop.
func Warn(prefix string, err error) {
	if err != nil {
		log.Printf("%s: %v", prefix, err)
		return
	}
	log.Print(prefix)
}
