package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Low-power/htop-sub000/internal/config"
	"github.com/Low-power/htop-sub000/internal/field"
	"github.com/Low-power/htop-sub000/internal/process"
)

func newVisibleRecord(pid, tgid, ppid int) *process.ProcessRecord {
	r := process.NewProcessRecord(pid, nil)
	r.TGID = tgid
	r.PPID = ppid
	r.Flags.Visible = true
	r.Flags.ShowChildren = true
	return r
}

func tableOf(records ...*process.ProcessRecord) *process.ProcessTable {
	tbl := process.NewProcessTable()
	for _, r := range records {
		tbl.Add(r)
	}
	return tbl
}

// TestCompareAntisymmetric is the §8 property: for every sortable
// field, compare(a,b) == -compare(b,a).
func TestCompareAntisymmetric(t *testing.T) {
	a := newVisibleRecord(10, 10, 1)
	a.PercentCPU, a.PercentMem, a.PPID, a.Priority, a.Nice = 5.0, 1.0, 1, 10, 0
	a.CPUTimeHundredths, a.VirtPages, a.ResidentPages = 100, 2000, 1000
	a.State, a.Name = 'R', "alpha"

	b := newVisibleRecord(20, 20, 1)
	b.PercentCPU, b.PercentMem, b.PPID, b.Priority, b.Nice = 7.0, 1.0, 1, 5, 2
	b.CPUTimeHundredths, b.VirtPages, b.ResidentPages = 300, 1000, 2000
	b.State, b.Name = 'S', "beta"

	fields := []field.FieldID{
		field.FieldPID, field.FieldPPID, field.FieldPriority, field.FieldNice,
		field.FieldPercentCPU, field.FieldPercentMem, field.FieldTime,
		field.FieldVirt, field.FieldResident, field.FieldState, field.FieldComm,
	}
	for _, f := range fields {
		t.Run(f.Name(), func(t *testing.T) {
			assert.Equal(t, -compare(a, b, f, false), compare(b, a, f, false))
		})
	}
}

// TestCompareTiesBreakOnPID: when the sort key is equal, the comparator
// still orders deterministically by PID.
func TestCompareTiesBreakOnPID(t *testing.T) {
	a := newVisibleRecord(10, 10, 1)
	b := newVisibleRecord(20, 20, 1)
	a.PercentCPU, b.PercentCPU = 5.0, 5.0
	assert.Negative(t, compare(a, b, field.FieldPercentCPU, false))
	assert.Positive(t, compare(b, a, field.FieldPercentCPU, false))
}

// TestRebuildFlatRespectsDirection checks ascending vs descending order
// on a simple numeric field.
func TestRebuildFlatRespectsDirection(t *testing.T) {
	a := newVisibleRecord(1, 1, 0)
	b := newVisibleRecord(2, 2, 0)
	c := newVisibleRecord(3, 3, 0)
	a.PercentCPU, b.PercentCPU, c.PercentCPU = 1.0, 5.0, 3.0
	tbl := tableOf(a, b, c)

	s := config.DefaultSettings()
	s.SortKey = field.FieldPercentCPU
	s.Direction = config.Ascending
	rows := Rebuild(tbl, s, Filter{})
	require.Len(t, rows, 3)
	assert.Equal(t, []int{1, 3, 2}, []int{rows[0].Record.PID, rows[1].Record.PID, rows[2].Record.PID})

	s.Direction = config.Descending
	rows = Rebuild(tbl, s, Filter{})
	assert.Equal(t, []int{2, 3, 1}, []int{rows[0].Record.PID, rows[1].Record.PID, rows[2].Record.PID})
}

// TestRebuildTreeChain is §8 scenario 2: a pid=1->2->3 parent chain
// flattens depth-first with the right depths.
func TestRebuildTreeChain(t *testing.T) {
	p1 := newVisibleRecord(1, 1, 0)
	p2 := newVisibleRecord(2, 2, 1)
	p3 := newVisibleRecord(3, 3, 2)
	tbl := tableOf(p1, p2, p3)

	s := config.DefaultSettings()
	s.TreeView = true
	rows := Rebuild(tbl, s, Filter{})
	require.Len(t, rows, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{rows[0].Record.PID, rows[1].Record.PID, rows[2].Record.PID})
	assert.Equal(t, []int{0, 1, 2}, []int{rows[0].Depth, rows[1].Depth, rows[2].Depth})
}

// TestRebuildTreeEmitsEveryRecordOnce is the §8 total-count property:
// the tree flatten (including loop promotion) emits exactly one row per
// visible table record, regardless of topology.
func TestRebuildTreeEmitsEveryRecordOnce(t *testing.T) {
	p1 := newVisibleRecord(1, 1, 0)
	p2 := newVisibleRecord(2, 2, 1)
	p3 := newVisibleRecord(3, 3, 1)
	p4 := newVisibleRecord(4, 4, 2)
	tbl := tableOf(p1, p2, p3, p4)

	s := config.DefaultSettings()
	s.TreeView = true
	rows := Rebuild(tbl, s, Filter{})
	assert.Len(t, rows, 4)

	seen := make(map[int]bool)
	for _, row := range rows {
		assert.False(t, seen[row.Record.PID], "pid %d emitted twice", row.Record.PID)
		seen[row.Record.PID] = true
	}
}

// TestRebuildTreeDetectsCycle is §8 scenario 3: a ptrace-reparenting
// cycle (pid 10 and 11 mutually parented) must still be promoted to a
// root and emitted exactly once each, never infinite-looping.
func TestRebuildTreeDetectsCycle(t *testing.T) {
	p10 := newVisibleRecord(10, 10, 11)
	p11 := newVisibleRecord(11, 11, 10)
	tbl := tableOf(p10, p11)

	s := config.DefaultSettings()
	s.TreeView = true

	done := make(chan []Row, 1)
	go func() { done <- Rebuild(tbl, s, Filter{}) }()
	var rows []Row
	select {
	case rows = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Rebuild did not terminate on a parent cycle")
	}

	assert.Len(t, rows, 2)
	seen := make(map[int]bool)
	for _, row := range rows {
		assert.False(t, seen[row.Record.PID])
		seen[row.Record.PID] = true
	}
	assert.True(t, seen[10])
	assert.True(t, seen[11])
}

// TestFilterVisiblePredicates exercises every short-circuit in
// Filter.visible (§4.4).
func TestFilterVisiblePredicates(t *testing.T) {
	s := config.DefaultSettings()

	invisible := newVisibleRecord(1, 1, 0)
	invisible.Flags.Visible = false
	assert.False(t, Filter{}.visible(invisible, s))

	kernel := newVisibleRecord(2, 2, 0)
	kernel.IsKernel = true
	s.HideKernelThreads = true
	assert.False(t, Filter{}.visible(kernel, s))
	s.HideKernelThreads = false
	assert.True(t, Filter{}.visible(kernel, s))

	thread := newVisibleRecord(3, 3, 0)
	thread.IsExtraThread = true
	s.HideUserlandThreads = true
	assert.False(t, Filter{}.visible(thread, s))
	s.HideUserlandThreads = false

	userFiltered := newVisibleRecord(4, 4, 0)
	userFiltered.RUID = 1000
	assert.False(t, Filter{HasUserFilter: true, UID: 999}.visible(userFiltered, s))
	assert.True(t, Filter{HasUserFilter: true, UID: 1000}.visible(userFiltered, s))

	cmdline := newVisibleRecord(5, 5, 0)
	cmdline.Cmdline = "/usr/bin/example --flag"
	assert.True(t, Filter{Substring: "EXAMPLE"}.visible(cmdline, s))
	assert.False(t, Filter{Substring: "nomatch"}.visible(cmdline, s))

	whitelisted := newVisibleRecord(6, 6, 0)
	assert.False(t, Filter{PIDWhitelist: map[int]bool{99: true}}.visible(whitelisted, s))
	assert.True(t, Filter{PIDWhitelist: map[int]bool{6: true}}.visible(whitelisted, s))
}
