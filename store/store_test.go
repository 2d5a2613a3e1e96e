package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftdb/mvcc-ssn/oracle"
)

func TestNewPanicsOnNonPositiveItemCount(t *testing.T) {
	assert.PanicsWithValue(t, ErrInvalidItemCount, func() { New(0) })
	assert.PanicsWithValue(t, ErrInvalidItemCount, func() { New(-1) })
}

func TestCheckKeyPanicsOutOfRange(t *testing.T) {
	s := New(2)
	assert.NotPanics(t, func() { s.CheckKey(0) })
	assert.NotPanics(t, func() { s.CheckKey(1) })
	assert.PanicsWithValue(t, ErrInvalidKey, func() { s.CheckKey(-1) })
	assert.PanicsWithValue(t, ErrInvalidKey, func() { s.CheckKey(2) })
}

func TestBootstrapVersionIsVisible(t *testing.T) {
	s := New(2)
	assert.EqualValues(t, 0, s.ReadSI(0, 0))
	assert.EqualValues(t, 0, s.ReadSI(1, 100))
}

func TestCommitSIInstallsVersionsAndAdvancesVisibility(t *testing.T) {
	s := New(2)
	o := oracle.New()
	startTS := s.BeginActive(o)

	cstamp, ok := s.CommitSI(o, startTS, map[int]int64{0: 10})
	require.True(t, ok)
	assert.Greater(t, cstamp, startTS)
	assert.EqualValues(t, 10, s.ReadSI(0, cstamp))
	assert.EqualValues(t, 0, s.ReadSI(0, startTS), "pre-commit snapshot must not see the new version")
}

func TestCommitSIFirstCommitterWins(t *testing.T) {
	s := New(1)
	o := oracle.New()

	t1Start := o.Next()
	t2Start := o.Next()

	_, ok1 := s.CommitSI(o, t1Start, map[int]int64{0: 1})
	require.True(t, ok1)

	_, ok2 := s.CommitSI(o, t2Start, map[int]int64{0: 2})
	assert.False(t, ok2, "second writer of the same key must lose")
}

func TestCommitSIDisjointWritesBothCommit(t *testing.T) {
	s := New(2)
	o := oracle.New()

	t1 := o.Next()
	t2 := o.Next()

	c1, ok1 := s.CommitSI(o, t1, map[int]int64{0: 10})
	require.True(t, ok1)
	c2, ok2 := s.CommitSI(o, t2, map[int]int64{1: 20})
	require.True(t, ok2)

	assert.EqualValues(t, 10, s.ReadSI(0, c1))
	assert.EqualValues(t, 20, s.ReadSI(1, c2))
}

func TestCommitSSNPropagatesPStampToReadVersion(t *testing.T) {
	s := New(1)
	o := oracle.New()

	// Writer installs an initial version.
	wStart := o.Next()
	wCstamp, ok := s.CommitSI(o, wStart, map[int]int64{0: 1})
	require.True(t, ok)

	// Reader observes that version.
	rStart := o.Next()
	_, v, commitTS, pstamp, sstamp := s.ReadSSN(0, rStart)
	assert.Equal(t, wCstamp, commitTS)
	assert.EqualValues(t, 0, pstamp)
	assert.Equal(t, uint64(Infinity), sstamp)

	readSet := map[int]*Version{0: v}

	// Reader commits read-only: must still fold and pass the exclusion
	// window test (pstamp ends up = commitTS of the version it read,
	// sstamp ends up = reader's own cstamp, which exceeds pstamp).
	cstamp, finalP, finalS, ok := s.CommitSSN(o, rStart, nil, readSet, commitTS, Infinity)
	require.True(t, ok)
	assert.Greater(t, finalS, finalP)
	assert.Equal(t, cstamp, finalS)

	// The read version's pstamp must now reflect the reader's commit.
	assert.Equal(t, cstamp, v.PStamp())
}

func TestCommitSSNExclusionWindowAbortsOnCycle(t *testing.T) {
	s := New(1)
	o := oracle.New()

	// Seed a version for the reader to observe. CommitSI leaves its
	// sstamp at Infinity.
	wStart := o.Next()
	s.CommitSI(o, wStart, map[int]int64{0: 1})

	rStart := o.Next()
	_, v, commitTS, _, sstamp := s.ReadSSN(0, rStart)
	readSet := map[int]*Version{0: v}

	// Manually close the exclusion window by pushing pstamp above
	// whatever sstamp this commit would compute: the running sstamp is
	// capped at the reader's own cstamp, so a runningPStamp of
	// commitTS+1000 is already past it.
	_, _, _, ok := s.CommitSSN(o, rStart, nil, readSet, commitTS+1000, sstamp)
	assert.False(t, ok, "a pre-closed exclusion window must abort even a read-only transaction")
}

func TestGCPrunesVersionsBelowSafePoint(t *testing.T) {
	s := New(1)
	o := oracle.New()

	// No in-flight transactions: every commit should immediately GC down
	// to a single retained version.
	for i := 0; i < 5; i++ {
		start := o.Next()
		_, ok := s.CommitSI(o, start, map[int]int64{0: int64(i)})
		require.True(t, ok)
	}

	s.mu.Lock()
	n := len(s.chains[0].versions)
	s.mu.Unlock()
	assert.Equal(t, 1, n, "with no active readers, GC should keep only the newest version")
}

func TestGCRetainsVersionNeededByActiveReader(t *testing.T) {
	s := New(1)
	o := oracle.New()

	readerStart := s.BeginActive(o)

	for i := 0; i < 3; i++ {
		start := o.Next()
		_, ok := s.CommitSI(o, start, map[int]int64{0: int64(i)})
		require.True(t, ok)
	}

	// The reader must still see the version visible as of readerStart —
	// i.e. the bootstrap (value 0), since all three commits happened
	// after readerStart.
	assert.EqualValues(t, 0, s.ReadSI(0, readerStart))

	s.UntrackActive(readerStart)
}
