// Package disk implements the DiskTable parallel subsystem (§4.11):
// the same keyed-table/add/remove/lookup shape as ProcessTable, but
// keyed by device name and without a tree mode.
package disk

import "fmt"

// Record holds one block device's attributes and per-interval rates.
type Record struct {
	Name      string
	PhysPath  string
	DevID     string
	BlockSize uint64

	QueueLength int

	TotalReadOps    uint64
	TotalWriteOps   uint64
	TotalReadBlocks uint64
	TotalWriteBlocks uint64
	TotalReadBytes  uint64
	TotalWriteBytes uint64

	ReadOpsRate     float64
	WriteOpsRate    float64
	ReadBytesRate   float64
	WriteBytesRate  float64

	OperTimeMS     uint64
	CreationTime   int64
	PercentBusy    float64

	updatedThisScan bool

	prevReadOps, prevWriteOps     uint64
	prevReadBytes, prevWriteBytes uint64
	prevOperTimeMS                uint64
	prevSampleTime                float64
	havePrev                      bool
}

// Table is the DiskTable: a vector plus name->index map, mirroring
// ProcessTable's invariant that index.len() == vector.len().
type Table struct {
	records []*Record
	byName  map[string]int
}

// NewTable returns an empty DiskTable.
func NewTable() *Table {
	return &Table{byName: make(map[string]int)}
}

func (t *Table) Len() int { return len(t.records) }

// GetByName looks up a device record.
func (t *Table) GetByName(name string) (*Record, bool) {
	idx, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.records[idx], true
}

// GetAt returns the record at vector position i.
func (t *Table) GetAt(i int) *Record { return t.records[i] }

// GetOrCreate returns the existing record for name, or creates,
// indexes, and returns a new one, mirroring
// ProcessTable.GetOrCreateRecord.
func (t *Table) GetOrCreate(name string) (*Record, bool) {
	if idx, ok := t.byName[name]; ok {
		return t.records[idx], true
	}
	r := &Record{Name: name}
	t.add(r)
	return r, false
}

func (t *Table) add(r *Record) {
	if _, exists := t.byName[r.Name]; exists {
		panic(fmt.Sprintf("disk: duplicate device %q added to table", r.Name))
	}
	t.records = append(t.records, r)
	t.byName[r.Name] = len(t.records) - 1
}

// Remove deletes a record by device name, swap-removing like
// ProcessTable.Remove.
func (t *Table) Remove(name string) {
	idx, ok := t.byName[name]
	if !ok {
		return
	}
	last := len(t.records) - 1
	if idx != last {
		t.records[idx] = t.records[last]
		t.byName[t.records[idx].Name] = idx
	}
	t.records = t.records[:last]
	delete(t.byName, name)
}

// MarkAllStale clears updatedThisScan ahead of a new scan.
func (t *Table) MarkAllStale() {
	for _, r := range t.records {
		r.updatedThisScan = false
	}
}

// SweepStale removes every record not touched by the last scan.
func (t *Table) SweepStale() {
	for i := len(t.records) - 1; i >= 0; i-- {
		if !t.records[i].updatedThisScan {
			t.Remove(t.records[i].Name)
		}
	}
}

// MarkUpdated flags r as seen this scan; the platform-facing scanner
// calls this once it has filled every attribute for r.
func (r *Record) MarkUpdated() { r.updatedThisScan = true }

// UpdateRates recomputes every per-interval rate from cumulative
// counters sampled at sampleTime, following the same "clamp to 0 on a
// backwards clock" rule SamplingEngine uses for process I/O (§4.3 Open
// Questions).
func (r *Record) UpdateRates(readOps, writeOps, readBytes, writeBytes, operTimeMS uint64, sampleTime float64) {
	r.ReadOpsRate = rate(readOps, r.prevReadOps, r.prevSampleTime, sampleTime, r.havePrev)
	r.WriteOpsRate = rate(writeOps, r.prevWriteOps, r.prevSampleTime, sampleTime, r.havePrev)
	r.ReadBytesRate = rate(readBytes, r.prevReadBytes, r.prevSampleTime, sampleTime, r.havePrev)
	r.WriteBytesRate = rate(writeBytes, r.prevWriteBytes, r.prevSampleTime, sampleTime, r.havePrev)

	if r.havePrev && sampleTime > r.prevSampleTime && operTimeMS >= r.prevOperTimeMS {
		deltaMS := float64(operTimeMS - r.prevOperTimeMS)
		elapsedMS := (sampleTime - r.prevSampleTime) * 1000
		if elapsedMS > 0 {
			r.PercentBusy = clamp01(deltaMS/elapsedMS) * 100
		}
	}

	r.TotalReadOps, r.TotalWriteOps = readOps, writeOps
	r.TotalReadBytes, r.TotalWriteBytes = readBytes, writeBytes
	r.OperTimeMS = operTimeMS

	r.prevReadOps, r.prevWriteOps = readOps, writeOps
	r.prevReadBytes, r.prevWriteBytes = readBytes, writeBytes
	r.prevOperTimeMS = operTimeMS
	r.prevSampleTime = sampleTime
	r.havePrev = true
}

func rate(cur, prev uint64, prevTime, newTime float64, havePrev bool) float64 {
	if !havePrev || newTime <= prevTime || cur < prev {
		return 0
	}
	return float64(cur-prev) / (newTime - prevTime)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ForEach iterates every record in table order.
func (t *Table) ForEach(fn func(*Record)) {
	for _, r := range t.records {
		fn(r)
	}
}

// Records exposes the backing slice for the disk sort/filter pass, on
// loan to internal/gui the same way ProcessTable.Records is.
func (t *Table) Records() []*Record { return t.records }
