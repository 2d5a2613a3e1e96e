package store

import (
	"math"

	"github.com/riftdb/mvcc-ssn/internal/obs"
)

// safeTSLocked computes the GC safe point: the oldest start_ts among all
// in-flight transactions, below which no snapshot can possibly still be
// looking. Caller must hold the store's lock.
//
// With no in-flight transaction at all there is no lower bound to respect,
// so every chain may be pruned down to its single newest version; +∞
// signals that to gcLocked/findSafeBoundary.
func (s *Store) safeTSLocked() uint64 {
	iter := s.active.Iter()
	if !iter.First() {
		return math.MaxUint64
	}
	return iter.Key()
}

// gcLocked prunes the chain for key down to the safe boundary and logs the
// sweep at debug level. Caller must hold the store's lock. The original
// SSN manager only ever swept on its own commit path; here every commit
// that installs a version, SI or SSN, triggers the same sweep, since both
// build on one store. Read-only commits do not sweep.
func (s *Store) gcLocked(key int) {
	c := s.chains[key]
	before := len(c.versions)
	safe := s.safeTSLocked()
	keepFrom := c.findSafeBoundary(safe)
	c.pruneBefore(keepFrom)
	if pruned := before - len(c.versions); pruned > 0 {
		obs.Debugf("gc: key=%d pruned=%d safe_ts=%d remaining=%d", key, pruned, safe, len(c.versions))
	}
}
