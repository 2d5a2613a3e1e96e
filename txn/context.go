// Package txn implements the two transaction managers this module
// offers: SI (Snapshot Isolation, first-committer-wins) and SSN (SI plus
// the Serial Safety Net exclusion-window certifier). Both share the
// Context and Outcome types defined here; see si.go and ssn.go for the
// two Manager implementations.
package txn

import "github.com/riftdb/mvcc-ssn/store"

// Status is a transaction's lifecycle state: in_flight is the only
// non-terminal state; committed and aborted are both terminal and final.
type Status int

const (
	StatusInFlight Status = iota
	StatusCommitted
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusInFlight:
		return "in_flight"
	case StatusCommitted:
		return "committed"
	case StatusAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Outcome is TryCommit's return value.
type Outcome int

const (
	Committed Outcome = iota
	Aborted
)

func (o Outcome) String() string {
	if o == Committed {
		return "committed"
	}
	return "aborted"
}

// Context is a transaction handle. It is created by Begin, mutated only
// by the goroutine that owns it, and discarded by the caller once
// TryCommit returns a terminal outcome — there is no explicit
// Close/Destroy.
//
// ReadSet and the running PStamp/SStamp fields are meaningful only under
// the SSN manager; the SI manager leaves them at their zero values and
// never reads them.
type Context struct {
	ID      uint64
	StartTS uint64
	Status  Status

	// LocalWrites buffers key -> value until commit. A read of a key
	// present here must return the buffered value (read-your-own-writes).
	LocalWrites map[int]int64

	// ReadSet records, for every key read (SSN only), the exact version
	// observed — not merely its value — so commit-time metadata folding
	// can re-read and update it under the store's lock. nil under the SI
	// manager.
	ReadSet map[int]*store.Version

	// CStamp is the commit timestamp, assigned at commit entry. Left at
	// zero (meaning "not yet assigned") for transactions that never reach
	// a successful commit.
	CStamp uint64

	// PStamp/SStamp are SSN's running predecessor/successor stamps,
	// folded in as the transaction reads and finalized at commit. SI
	// never touches these.
	PStamp uint64
	SStamp uint64
}
