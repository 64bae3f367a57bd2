package process

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogicalParentRules(t *testing.T) {
	// main thread: pid==tgid, logical parent is ppid.
	main := &ProcessRecord{PID: 5, TGID: 5, PPID: 1}
	assert.Equal(t, 1, main.LogicalParent())
	assert.False(t, main.IsTreeRoot())

	// extra thread: pid != tgid, logical parent is tgid.
	thread := &ProcessRecord{PID: 6, TGID: 5, PPID: 1}
	assert.Equal(t, 5, thread.LogicalParent())

	// self-parented is the "no parent" / root edge case (§4.4).
	root := &ProcessRecord{PID: 1, TGID: 1, PPID: 1}
	assert.True(t, root.IsTreeRoot())
}

// TestUpdatePercentCPUFirstSampleIsZero covers §3.1's "percent_cpu is
// computed only from deltas ... newly created records report 0".
func TestUpdatePercentCPUFirstSampleIsZero(t *testing.T) {
	p := NewProcessRecord(1, nil)
	p.UpdatePercentCPU(500, 10.0, 1.0, 4)
	assert.Equal(t, 0.0, p.PercentCPU)
}

// TestUpdatePercentCPUClampedAndNotNaN is the §8 property:
// percent_cpu in [0, cpuCount*100] and never NaN, across a spread of
// inputs including a backwards clock and a decreasing counter.
func TestUpdatePercentCPUClampedAndNotNaN(t *testing.T) {
	cases := []struct {
		name                  string
		firstCPUTime          uint64
		firstTime             float64
		secondCPUTime         uint64
		secondTime            float64
		elapsed               float64
		cpuCount              int
	}{
		{"normal", 0, 0, 400, 1, 1, 4},
		{"saturated", 0, 0, 100000, 1, 1, 4},
		{"clock-went-backwards", 1000, 10, 1500, 5, -5, 4},
		{"counter-decreased", 1000, 0, 500, 1, 1, 2},
		{"zero-elapsed", 0, 0, 100, 0, 0, 1},
		{"single-cpu", 0, 0, 1000000, 1, 1, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := NewProcessRecord(1, nil)
			p.UpdatePercentCPU(c.firstCPUTime, c.firstTime, 0, c.cpuCount)
			p.UpdatePercentCPU(c.secondCPUTime, c.secondTime, c.elapsed, c.cpuCount)
			assert.False(t, math.IsNaN(p.PercentCPU), "PercentCPU is NaN")
			assert.GreaterOrEqual(t, p.PercentCPU, 0.0)
			assert.LessOrEqual(t, p.PercentCPU, 100.0*float64(c.cpuCount))
		})
	}
}

// TestUpdateIORatesClampsBackwardsClock is the §4.3 Open Questions
// rule: a clock moving backwards clamps the rate to 0 rather than
// going negative.
func TestUpdateIORatesClampsBackwardsClock(t *testing.T) {
	var io IOCounters
	io.UpdateIORates(1000, 1000, 1000, 1000, 10, 10, 10.0)
	io.UpdateIORates(500, 500, 500, 500, 5, 5, 5.0) // clock went backwards, counters dropped
	assert.Equal(t, 0.0, io.ReadBytesRate)
	assert.Equal(t, 0.0, io.WriteBytesRate)
	assert.Equal(t, 0.0, io.RCharRate)
	assert.Equal(t, 0.0, io.WCharRate)
}

func TestUpdateIORatesPositiveDelta(t *testing.T) {
	var io IOCounters
	io.UpdateIORates(0, 0, 0, 0, 0, 0, 0.0)
	io.UpdateIORates(1000, 2000, 0, 0, 0, 0, 2.0)
	assert.Equal(t, 500.0, io.ReadBytesRate)
	assert.Equal(t, 1000.0, io.WriteBytesRate)
}

func TestDenyIOSetsNegativeSentinel(t *testing.T) {
	var io IOCounters
	io.DenyIO()
	assert.Equal(t, int64(-1), io.ReadBytes)
	assert.Equal(t, int64(-1), io.WriteBytes)
	assert.Equal(t, int64(-1), io.RChar)
	assert.Equal(t, int64(-1), io.SysCW)
}
