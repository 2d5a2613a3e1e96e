package txn

import (
	"sync/atomic"

	"github.com/riftdb/mvcc-ssn/internal/obs"
	"github.com/riftdb/mvcc-ssn/oracle"
	"github.com/riftdb/mvcc-ssn/store"
)

// SSN implements Snapshot Isolation augmented with the Serial Safety Net.
// Every commit still runs SI's first-committer-wins check, then
// additionally computes and validates the transaction's exclusion window
// [pstamp, sstamp).
type SSN struct {
	store   *store.Store
	oracle  *oracle.Oracle
	nextTxn atomic.Uint64
}

// NewSSN builds an SSN manager over s, drawing timestamps from o.
func NewSSN(s *store.Store, o *oracle.Oracle) *SSN {
	return &SSN{store: s, oracle: o}
}

func (m *SSN) Begin() *Context {
	id := m.nextTxn.Add(1)
	startTS := m.store.BeginActive(m.oracle)
	return &Context{
		ID:          id,
		StartTS:     startTS,
		Status:      StatusInFlight,
		LocalWrites: map[int]int64{},
		ReadSet:     map[int]*store.Version{},
		PStamp:      0,
		SStamp:      store.Infinity,
	}
}

// Read checks read-your-own-writes first, then falls back to a snapshot
// read that also folds the observed version's metadata into the
// transaction's running pstamp/sstamp and records the version in the read
// set for commit-time folding and back-propagation.
func (m *SSN) Read(tx *Context, key int) int64 {
	m.store.CheckKey(key)
	if v, ok := tx.LocalWrites[key]; ok {
		return v
	}

	value, v, commitTS, pstamp, sstamp := m.store.ReadSSN(key, tx.StartTS)
	tx.ReadSet[key] = v

	if commitTS > tx.PStamp {
		tx.PStamp = commitTS
	}
	if pstamp > tx.PStamp {
		tx.PStamp = pstamp
	}
	if sstamp < tx.SStamp {
		tx.SStamp = sstamp
	}
	return value
}

func (m *SSN) Write(tx *Context, key int, value int64) {
	m.store.CheckKey(key)
	tx.LocalWrites[key] = value
}

// TryCommit commits tx. Unlike SI, a read-only SSN transaction cannot
// short-circuit to an unconditional commit: its reads may have picked up
// an exclusion window that's already closed, so the window test still
// has to run even with an empty write set.
func (m *SSN) TryCommit(tx *Context) Outcome {
	defer m.store.UntrackActive(tx.StartTS)

	cstamp, pstamp, sstamp, ok := m.store.CommitSSN(
		m.oracle, tx.StartTS, tx.LocalWrites, tx.ReadSet, tx.PStamp, tx.SStamp,
	)
	if !ok {
		tx.Status = StatusAborted
		if cstamp == 0 {
			obs.Debugf("ssn: tx=%d aborted (first-committer-wins) start_ts=%d", tx.ID, tx.StartTS)
		} else {
			obs.Debugf("ssn: tx=%d aborted (exclusion window closed) pstamp=%d sstamp=%d", tx.ID, pstamp, sstamp)
		}
		return Aborted
	}

	tx.CStamp = cstamp
	tx.PStamp = pstamp
	tx.SStamp = sstamp
	tx.Status = StatusCommitted
	return Committed
}
