package txn

import (
	"sync/atomic"

	"github.com/riftdb/mvcc-ssn/oracle"
	"github.com/riftdb/mvcc-ssn/store"
)

// SI implements plain Snapshot Isolation: first-committer-wins
// write-write conflict detection, no exclusion-window bookkeeping.
type SI struct {
	store   *store.Store
	oracle  *oracle.Oracle
	nextTxn atomic.Uint64
}

// NewSI builds an SI manager over s, drawing timestamps from o. Multiple
// managers may share one Store and Oracle (e.g. an SI manager and an SSN
// manager each running against the same keyspace for a comparison), as
// long as the caller doesn't expect cross-protocol serializability
// guarantees beyond what each protocol promises on its own.
func NewSI(s *store.Store, o *oracle.Oracle) *SI {
	return &SI{store: s, oracle: o}
}

func (m *SI) Begin() *Context {
	id := m.nextTxn.Add(1)
	startTS := m.store.BeginActive(m.oracle)
	return &Context{
		ID:          id,
		StartTS:     startTS,
		Status:      StatusInFlight,
		LocalWrites: map[int]int64{},
	}
}

func (m *SI) Read(tx *Context, key int) int64 {
	m.store.CheckKey(key)
	if v, ok := tx.LocalWrites[key]; ok {
		return v
	}
	return m.store.ReadSI(key, tx.StartTS)
}

func (m *SI) Write(tx *Context, key int, value int64) {
	m.store.CheckKey(key)
	tx.LocalWrites[key] = value
}

// TryCommit commits tx: a read-only transaction commits unconditionally
// without ever consuming a commit timestamp; a writer goes through the
// store's atomic first-committer-wins check-and-append.
func (m *SI) TryCommit(tx *Context) Outcome {
	defer m.store.UntrackActive(tx.StartTS)

	if len(tx.LocalWrites) == 0 {
		tx.Status = StatusCommitted
		return Committed
	}

	cstamp, ok := m.store.CommitSI(m.oracle, tx.StartTS, tx.LocalWrites)
	if !ok {
		tx.Status = StatusAborted
		return Aborted
	}

	tx.CStamp = cstamp
	tx.Status = StatusCommitted
	return Committed
}
