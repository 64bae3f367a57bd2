package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkInvariant asserts §3.2/§8's "index.len() == vector.len() and
// every pid in vector is findable via the index" after every
// mutation.
func checkInvariant(t *testing.T, tbl *ProcessTable) {
	t.Helper()
	assert.Equal(t, tbl.Len(), len(tbl.byPID))
	for _, r := range tbl.records {
		found, ok := tbl.GetByPID(r.PID)
		require.True(t, ok, "pid %d missing from index", r.PID)
		assert.Same(t, r, found)
	}
}

func TestProcessTableAddGetRemove(t *testing.T) {
	tbl := NewProcessTable()
	for _, pid := range []int{1, 2, 3, 4, 5} {
		rec, existed := tbl.GetOrCreateRecord(pid, nil)
		assert.False(t, existed)
		assert.Equal(t, pid, rec.PID)
		checkInvariant(t, tbl)
	}
	assert.Equal(t, 5, tbl.Len())

	tbl.Remove(3)
	checkInvariant(t, tbl)
	assert.Equal(t, 4, tbl.Len())
	_, ok := tbl.GetByPID(3)
	assert.False(t, ok)

	// removing the last remaining record shouldn't panic the
	// swap-remove index fixup.
	for tbl.Len() > 0 {
		tbl.Remove(tbl.GetAt(0).PID)
		checkInvariant(t, tbl)
	}
}

func TestProcessTableAddDuplicatePanics(t *testing.T) {
	tbl := NewProcessTable()
	tbl.Add(NewProcessRecord(1, nil))
	assert.Panics(t, func() { tbl.Add(NewProcessRecord(1, nil)) })
}

// TestSweepStaleEvictsUnseenRecords exercises §3.1's eviction
// invariant and §8's "after a scan that did not enumerate pid X, X is
// absent from the table" property.
func TestSweepStaleEvictsUnseenRecords(t *testing.T) {
	tbl := NewProcessTable()
	for _, pid := range []int{10, 20, 30} {
		tbl.GetOrCreateRecord(pid, nil)
	}
	checkInvariant(t, tbl)

	// simulate a scan that only re-sees pid 10 and 30.
	tbl.MarkAllStale()
	for _, pid := range []int{10, 30} {
		rec, _ := tbl.GetOrCreateRecord(pid, nil)
		rec.UpdatedThisScan = true
	}
	tbl.SweepStale()
	checkInvariant(t, tbl)

	assert.Equal(t, 2, tbl.Len())
	_, ok := tbl.GetByPID(20)
	assert.False(t, ok)
	_, ok = tbl.GetByPID(10)
	assert.True(t, ok)
	_, ok = tbl.GetByPID(30)
	assert.True(t, ok)
}

// TestSweepStaleAcrossManyScans runs several scan cycles with shifting
// membership and checks the table invariant holds after each one, the
// §8 "for any sequence of scans" property.
func TestSweepStaleAcrossManyScans(t *testing.T) {
	tbl := NewProcessTable()
	scans := [][]int{
		{1, 2, 3},
		{1, 3, 4},
		{4, 5},
		{},
		{5, 6, 7, 8},
	}
	for _, present := range scans {
		tbl.MarkAllStale()
		for _, pid := range present {
			rec, _ := tbl.GetOrCreateRecord(pid, nil)
			rec.UpdatedThisScan = true
		}
		tbl.SweepStale()
		checkInvariant(t, tbl)
		assert.Equal(t, len(present), tbl.Len())
		for _, pid := range present {
			_, ok := tbl.GetByPID(pid)
			assert.True(t, ok)
		}
	}
}

func TestAggregateCountersResetKeepsCPUCount(t *testing.T) {
	var c AggregateCounters
	c.CPUCount = 8
	c.TotalTasks = 42
	c.Reset()
	assert.Equal(t, 8, c.CPUCount)
	assert.Equal(t, 0, c.TotalTasks)
}
