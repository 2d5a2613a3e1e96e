// Package oracle hands out the timestamps that order every transaction in
// this module: a single monotonic counter shared by both start and commit
// events, so start timestamps and commit timestamps live on one timeline.
// That shared order is what lets snapshot visibility collapse to a single
// "commit_ts <= start_ts" comparison.
package oracle

import "sync/atomic"

// Oracle hands out strictly increasing, globally unique timestamps.
// The zero value is ready to use; the first call to Next returns 1, which
// keeps 0 free for the bootstrap version every key starts with.
type Oracle struct {
	counter atomic.Uint64
}

// New returns a fresh Oracle. Equivalent to the zero value; kept as a
// constructor so callers mirror the rest of the module's New* functions.
func New() *Oracle {
	return &Oracle{}
}

// Next returns the next timestamp in the sequence. Safe for concurrent use.
func (o *Oracle) Next() uint64 {
	return o.counter.Add(1)
}
