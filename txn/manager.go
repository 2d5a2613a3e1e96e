package txn

// Manager is the core transaction API: Begin, Read, Write, and TryCommit
// against opaque *Context handles. SI and SSN are the two concrete
// implementations; both share the same store.Store underneath (a caller
// constructs one store.Store and wraps it in either manager — or, to
// compare the two protocols on one workload, in both, though mixing
// managers over one store within a single run is the caller's
// responsibility to avoid).
type Manager interface {
	// Begin allocates a new transaction context with a fresh id and
	// start timestamp.
	Begin() *Context

	// Read returns the value visible to tx for key, honoring
	// read-your-own-writes. Panics with store.ErrInvalidKey if key is
	// out of range.
	Read(tx *Context, key int) int64

	// Write buffers value for key in tx's local write set, overwriting
	// any prior buffered value for the same key. Panics with
	// store.ErrInvalidKey if key is out of range.
	Write(tx *Context, key int, value int64)

	// TryCommit attempts to commit tx and returns the outcome. It is the
	// only operation in this API that can signal failure; an aborted
	// transaction's context is not retried in place — the caller begins
	// a fresh one.
	TryCommit(tx *Context) Outcome
}
