package process

import (
	"fmt"

	"github.com/Low-power/htop-sub000/internal/config"
)

// AggregateCounters are the system-wide numbers refreshed once per
// scan (§3.2).
type AggregateCounters struct {
	TotalTasks            int
	ThreadCount           int
	KernelProcessCount    int
	KernelThreadCount     int
	RunningProcessCount   int
	RunningThreadCount    int
	TotalMemKB            uint64
	UsedMemKB             uint64
	FreeMemKB             uint64
	BuffersMemKB          uint64
	CachedMemKB           uint64
	ZFSArcSizeKB          uint64
	TotalSwapKB           uint64
	UsedSwapKB            uint64
	FreeSwapKB            uint64
	CPUCount              int
	LoadAverage1          float64
	LoadAverage5          float64
	LoadAverage15         float64
	UptimeSeconds         uint64
}

// Reset zeroes every counter ahead of a new scan (§4.3 step 2).
func (a *AggregateCounters) Reset() {
	cpuCount := a.CPUCount
	*a = AggregateCounters{CPUCount: cpuCount}
}

// ProcessTable owns a vector of ProcessRecord plus a pid→index map, so
// that `index.len() == vector.len()` and every vector element is
// findable via the index, per §3.2's invariant.
type ProcessTable struct {
	records []*ProcessRecord
	byPID   map[int]int // pid -> index into records

	Counters AggregateCounters

	// Following is the pid the "F" binding is pinning selection to
	// (§4.9); the screen manager re-seeks the panel's selection to it
	// after every Rebuild.
	Following int
}

// NewProcessTable returns an empty table.
func NewProcessTable() *ProcessTable {
	return &ProcessTable{byPID: make(map[int]int)}
}

// Len reports the number of records currently held.
func (t *ProcessTable) Len() int {
	return len(t.records)
}

// GetByPID looks up a record by pid, or returns (nil, false).
func (t *ProcessTable) GetByPID(pid int) (*ProcessRecord, bool) {
	idx, ok := t.byPID[pid]
	if !ok {
		return nil, false
	}
	return t.records[idx], true
}

// GetAt returns the record at vector position i.
func (t *ProcessTable) GetAt(i int) *ProcessRecord {
	return t.records[i]
}

// Add inserts a new record. It panics if the pid already exists,
// matching the spec's "asserts absence in index" contract -- callers
// are expected to use GetOrCreate instead of calling Add blindly.
func (t *ProcessTable) Add(p *ProcessRecord) {
	if _, exists := t.byPID[p.PID]; exists {
		panic(fmt.Sprintf("process: duplicate pid %d added to table", p.PID))
	}
	t.records = append(t.records, p)
	t.byPID[p.PID] = len(t.records) - 1
}

// GetOrCreateRecord returns the existing record for pid, or creates,
// indexes, and returns a new one. The bool result reports whether the
// record already existed, matching the PlatformSource contract from
// §4.3 step 3(a).
func (t *ProcessTable) GetOrCreateRecord(pid int, settings *config.Settings) (*ProcessRecord, bool) {
	if idx, ok := t.byPID[pid]; ok {
		return t.records[idx], true
	}
	p := NewProcessRecord(pid, settings)
	t.Add(p)
	return p, false
}

// Remove deletes a record by pid. Swap-removes from the backing slice
// (O(1)) and fixes up the moved element's index, rather than doing a
// linear shift -- the spec's "binary search on pid / fallback linear"
// note is about *locating* the record, which the index already does
// in O(1); only the slice compaction strategy is an implementation
// choice, and swap-remove is the cheap one since row order is rebuilt
// every scan by the sort/filter pipeline anyway.
func (t *ProcessTable) Remove(pid int) {
	idx, ok := t.byPID[pid]
	if !ok {
		return
	}
	last := len(t.records) - 1
	if idx != last {
		t.records[idx] = t.records[last]
		t.byPID[t.records[idx].PID] = idx
	}
	t.records = t.records[:last]
	delete(t.byPID, pid)
}

// MarkAllStale clears UpdatedThisScan and CreatedThisScan on every
// record and resets Visible to true, per §4.3 step 1.
func (t *ProcessTable) MarkAllStale() {
	for _, p := range t.records {
		p.UpdatedThisScan = false
		p.CreatedThisScan = false
		p.Flags.Visible = true
		p.SeenInTreeLoop = false
	}
}

// SweepStale removes every record whose UpdatedThisScan is still false
// after a scan, per §4.3 step 5 / §3.1's eviction invariant. Iterates
// from the end so swap-removal during the walk never skips an element.
func (t *ProcessTable) SweepStale() {
	for i := len(t.records) - 1; i >= 0; i-- {
		if !t.records[i].UpdatedThisScan {
			t.Remove(t.records[i].PID)
		}
	}
}

// ExpandTreeAll sets ShowChildren on every record, undoing any
// collapsed tree nodes. No key binding calls it.
func (t *ProcessTable) ExpandTreeAll() {
	for _, p := range t.records {
		p.Flags.ShowChildren = true
	}
}

// ForEach iterates every record in table order (not display order).
func (t *ProcessTable) ForEach(fn func(*ProcessRecord)) {
	for _, p := range t.records {
		fn(p)
	}
}

// Records exposes the backing slice directly for the sort/filter
// pipeline, which copies it before sorting. Nothing
// outside this package and internal/pipeline should hold onto the
// returned slice across a scan boundary, since SweepStale/Add mutate
// it (§5 "ProcessTable is mutated only by SamplingEngine").
func (t *ProcessTable) Records() []*ProcessRecord {
	return t.records
}
