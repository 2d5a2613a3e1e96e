// Package store implements the versioned item store underneath both
// transaction managers: one append-only, commit-timestamp-ordered chain
// per key, plus the single store-wide critical section that makes the
// whole commit sequence — conflict check, timestamp assignment, append,
// exclusion-window bookkeeping — atomic with respect to concurrent
// commits.
package store

import (
	"sync"

	"github.com/tidwall/btree"

	"github.com/riftdb/mvcc-ssn/oracle"
)

// Store holds M fixed-key chains plus the bookkeeping needed to find the
// garbage collector's safe point. The zero value is not usable; construct
// with New.
type Store struct {
	mu     sync.Mutex
	chains []*chain

	// active tracks the start_ts of every in-flight transaction — an
	// ordered multiset a safe-point scan can take the minimum of in one
	// step. Lifted from the teacher's btree.Set[uint64] use in
	// mvcc/database.go's Database.inprogress().
	active btree.Set[uint64]
}

// New constructs a store with m items, each holding the bootstrap
// version. Panics on m <= 0: there's no sensible empty store to build.
func New(m int) *Store {
	if m <= 0 {
		panic(ErrInvalidItemCount)
	}
	chains := make([]*chain, m)
	for i := range chains {
		chains[i] = newChain()
	}
	return &Store{chains: chains}
}

// NumItems returns M, the fixed keyspace size this store was built with.
func (s *Store) NumItems() int {
	return len(s.chains)
}

// CheckKey panics with ErrInvalidKey if key is outside [0, M). Exported so
// the txn package can apply the same bounds check for both read and write
// before ever touching a chain.
func (s *Store) CheckKey(key int) {
	if key < 0 || key >= len(s.chains) {
		panic(ErrInvalidKey)
	}
}

// BeginActive draws a fresh start timestamp from o and registers it as
// in-flight in the same lock acquisition. Drawing the timestamp and
// recording it as active have to happen atomically: if a commit's garbage
// collection could run between the two, it could see an empty active set
// and prune a version this not-yet-registered transaction's snapshot will
// still need once it starts reading.
func (s *Store) BeginActive(o *oracle.Oracle) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	startTS := o.Next()
	s.active.Insert(startTS)
	return startTS
}

// UntrackActive removes a transaction's start_ts from the active set once
// its status becomes terminal. Idempotent: safe to call even if the
// timestamp was already removed.
func (s *Store) UntrackActive(startTS uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active.Delete(startTS)
}

// ReadSI returns the value visible to a snapshot taken at startTS (the
// caller has already handled the read-your-own-writes branch before
// reaching here).
func (s *Store) ReadSI(key int, startTS uint64) int64 {
	s.CheckKey(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chains[key].latestVisible(startTS).value
}

// ReadSSN is ReadSI plus the exclusion-window metadata a reader must
// capture at read time. It returns a consistent snapshot of the version's
// fields taken under the store's lock, alongside the version handle
// itself for the caller's read set — that handle must only ever be read
// again through a Store method (never by calling its exported accessors
// directly), since its pstamp/sstamp fields keep mutating under this same
// lock as other transactions commit.
func (s *Store) ReadSSN(key int, startTS uint64) (value int64, v *Version, commitTS, pstamp, sstamp uint64) {
	s.CheckKey(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	v = s.chains[key].latestVisible(startTS)
	return v.value, v, v.commitTS, v.pstamp, v.sstamp
}

// CommitSI runs the plain-SI commit path: first-committer-wins conflict
// check, timestamp assignment, and version install, all under one
// critical-section acquisition. Returns (0, false) on conflict.
func (s *Store) CommitSI(o *oracle.Oracle, startTS uint64, localWrites map[int]int64) (cstamp uint64, committed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range localWrites {
		if s.chains[key].hasCommitAfter(startTS) {
			return 0, false
		}
	}

	cstamp = o.Next()
	for key, val := range localWrites {
		s.chains[key].append(&Version{value: val, commitTS: cstamp, pstamp: 0, sstamp: infinity})
		s.gcLocked(key)
	}
	return cstamp, true
}

// CommitSSN runs the full SSN commit sequence: the same
// first-committer-wins check as CommitSI, then outgoing-write folding,
// incoming-read folding, the exclusion-window test, and — only once that
// test passes — metadata propagation and version install. runningPStamp
// and runningSStamp are the transaction's stamps as folded so far by its
// reads; readSet must contain exactly the *Version handles that ReadSSN
// returned to this same transaction.
//
// The two ways CommitSSN can fail are distinguishable by the returned
// cstamp: a first-committer-wins conflict is caught before a commit
// timestamp is ever drawn, so it reports cstamp 0; an exclusion-window
// closure is caught after the timestamp is drawn, so it reports the real
// (nonzero) cstamp alongside the pstamp/sstamp that closed the window.
func (s *Store) CommitSSN(
	o *oracle.Oracle,
	startTS uint64,
	localWrites map[int]int64,
	readSet map[int]*Version,
	runningPStamp, runningSStamp uint64,
) (cstamp, pstamp, sstamp uint64, committed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range localWrites {
		if s.chains[key].hasCommitAfter(startTS) {
			return 0, 0, 0, false
		}
	}

	cstamp = o.Next()

	// Outgoing-write folding: a write has to account for whatever its
	// predecessor version already depended on.
	pstamp = runningPStamp
	for key := range localWrites {
		vprev := s.chains[key].latestVisible(startTS)
		if vprev.pstamp > pstamp {
			pstamp = vprev.pstamp
		}
	}

	// Incoming-read folding: fold in this commit's own timestamp plus
	// whatever successor stamp each version read along the way has picked
	// up since.
	sstamp = runningSStamp
	if cstamp < sstamp {
		sstamp = cstamp
	}
	for _, v := range readSet {
		if v.sstamp < sstamp {
			sstamp = v.sstamp
		}
	}

	// Exclusion-window test: if the predecessor mark has caught up to the
	// successor mark, something this transaction depended on can no
	// longer be serialized before something that depends on it — abort.
	// cstamp has already been drawn at this point, so returning it here
	// (rather than 0) is what lets a caller tell this abort apart from
	// the first-committer-wins conflict above.
	if sstamp <= pstamp {
		return cstamp, pstamp, sstamp, false
	}

	// Window held: propagate the new metadata and install.
	for _, v := range readSet {
		v.foldMaxPStamp(cstamp)
	}
	for key, val := range localWrites {
		vprev := s.chains[key].latestVisible(startTS)
		vprev.foldMinSStamp(cstamp)
		s.chains[key].append(&Version{value: val, commitTS: cstamp, pstamp: cstamp, sstamp: infinity})
		s.gcLocked(key)
	}

	return cstamp, pstamp, sstamp, true
}
