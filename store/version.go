package store

import "math"

// Infinity is a successor stamp's starting value: wide open, no successor
// has shown up yet to narrow it. No real commit timestamp ever reaches it,
// since the oracle only ever hands out values far smaller than the full
// uint64 range in any realistic run. Exported so txn.Context can seed a
// fresh transaction's running successor stamp the same way.
const Infinity = math.MaxUint64

const infinity = Infinity

// Version is an immutable observation of an item at one commit. value and
// commitTS never change after construction; pstamp and sstamp are the
// exclusion-window bookkeeping fields, mutated in place under the owning
// Store's lock rather than via atomics — one store-wide mutex already
// serializes every access to them, so there's nothing left for a separate
// atomic fetch_max/fetch_min to buy.
type Version struct {
	value    int64
	commitTS uint64
	pstamp   uint64
	sstamp   uint64
}

// newBootstrap returns the version every key starts with before any
// transaction has ever written to it: value 0, committed at time 0, with
// an untouched exclusion window.
func newBootstrap() *Version {
	return &Version{value: 0, commitTS: 0, pstamp: 0, sstamp: infinity}
}

// Value returns the version's payload.
func (v *Version) Value() int64 { return v.value }

// CommitTS returns the commit timestamp that installed this version.
func (v *Version) CommitTS() uint64 { return v.commitTS }

// PStamp returns the version's predecessor high-water mark. Meaningless
// under plain SI; only maintained by the SSN manager.
func (v *Version) PStamp() uint64 { return v.pstamp }

// SStamp returns the version's successor low-water mark, or +∞ if no
// SSN commit has overwritten this version yet.
func (v *Version) SStamp() uint64 { return v.sstamp }

// foldMaxPStamp raises pstamp monotonically — a version's predecessor
// mark only ever moves up, never back down. Caller must hold the store's
// lock.
func (v *Version) foldMaxPStamp(ts uint64) {
	if ts > v.pstamp {
		v.pstamp = ts
	}
}

// foldMinSStamp lowers sstamp monotonically — a version's successor mark
// only ever moves down. Caller must hold the store's lock.
func (v *Version) foldMinSStamp(ts uint64) {
	if ts < v.sstamp {
		v.sstamp = ts
	}
}
