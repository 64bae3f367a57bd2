package sampler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Low-power/htop-sub000/internal/config"
	"github.com/Low-power/htop-sub000/internal/field"
	"github.com/Low-power/htop-sub000/internal/platform"
	"github.com/Low-power/htop-sub000/internal/process"
	"github.com/Low-power/htop-sub000/internal/signals"
)

// fakeSource is a minimal platform.Source stub driving a fixed set of
// pids per Enumerate call, to exercise Engine.Scan without a real
// procfs.
type fakeSource struct {
	pidsToEmit []int
	err        error
	calls      int
}

func (f *fakeSource) CPUCount() int                           { return 4 }
func (f *fakeSource) MaxPID() int                              { return 32768 }
func (f *fakeSource) UptimeSeconds() (uint64, bool)            { return 0, false }
func (f *fakeSource) LoadAverage() (float64, float64, float64) { return 0, 0, 0 }
func (f *fakeSource) HasSwap() bool                            { return false }
func (f *fakeSource) PageSizeKB() uint64                       { return 4 }
func (f *fakeSource) MeterTypes() []platform.MeterClass { return nil }
func (f *fakeSource) Signals() []signals.Signal         { return nil }

func (f *fakeSource) Enumerate(table *process.ProcessTable, users *process.UserTable, intervalSeconds float64, skipProcesses bool) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	for _, pid := range f.pidsToEmit {
		r, _ := table.GetOrCreateRecord(pid, nil)
		r.UpdatedThisScan = true
	}
	table.Counters.TotalTasks = len(f.pidsToEmit)
	return nil
}

func (f *fakeSource) ReadArgv(pid int) ([]string, bool)        { return nil, false }
func (f *fakeSource) ReadEnv(pid int) ([]string, bool)         { return nil, false }
func (f *fakeSource) ReadKernelStack(pid int) ([]string, bool) { return nil, false }
func (f *fakeSource) SendSignal(pid, number int) error         { return nil }
func (f *fakeSource) SetPriority(pid, nice int) error          { return nil }
func (f *fakeSource) SetAffinity(pid int, cpus []int) error    { return nil }
func (f *fakeSource) GetAffinity(pid int) ([]int, error)       { return nil, nil }
func (f *fakeSource) ResolveTTY(dev process.TTYDevice) string  { return "" }
func (f *fakeSource) ZFSArcSizeKB() (uint64, bool)             { return 0, false }
func (f *fakeSource) DefaultFields() []field.FieldID           { return nil }

func TestScanSweepsRecordsNotReEnumerated(t *testing.T) {
	src := &fakeSource{pidsToEmit: []int{1, 2, 3}}
	eng := New(src, config.DefaultSettings(), nil)
	eng.Scan(1, false)
	require.Equal(t, 3, eng.Table.Len())

	src.pidsToEmit = []int{2, 3}
	eng.Scan(1, false)
	assert.Equal(t, 2, eng.Table.Len())
	_, ok := eng.Table.GetByPID(1)
	assert.False(t, ok)
}

func TestScanEnumerateErrorKeepsPreviousTable(t *testing.T) {
	src := &fakeSource{pidsToEmit: []int{1, 2}}
	eng := New(src, config.DefaultSettings(), nil)
	eng.Scan(1, false)
	require.Equal(t, 2, eng.Table.Len())

	src.err = errors.New("procfs unreadable")
	eng.Scan(1, false)
	assert.Equal(t, 2, eng.Table.Len(), "a failed enumerate must not touch the table")
}

func TestScanSkipProcessesDoesNotSweep(t *testing.T) {
	src := &fakeSource{pidsToEmit: []int{1, 2, 3}}
	eng := New(src, config.DefaultSettings(), nil)
	eng.Scan(1, false)
	require.Equal(t, 3, eng.Table.Len())

	// a counts-only scan enumerates nothing new but must not evict the
	// records it didn't touch.
	src.pidsToEmit = nil
	eng.Scan(1, true)
	assert.Equal(t, 3, eng.Table.Len())
}
