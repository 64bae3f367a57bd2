package process

import "github.com/Low-power/htop-sub000/internal/config"

// StateFlags bundles the small per-record booles from §3.1
// "presentation" that control tree/visibility bookkeeping rather than
// column content.
type StateFlags struct {
	Tagged       bool
	ShowChildren bool
	Visible      bool

	// IndentBitmask: negative means "last child"; the magnitude is a
	// bitmask of ancestor continuation rails (bit i set ⇒ a vertical
	// rail at depth i), per §3.1.
	IndentBitmask int
}

// IOCounters holds the optional, privilege-gated I/O accounting from
// §3.1. A negative raw counter (DenyIO sets them all to -1 whenever the
// I/O read fails) means "no permission" and renders in the shadow
// color (§4.1).
type IOCounters struct {
	ReadBytes  int64
	WriteBytes int64
	RChar      int64
	WChar      int64
	SysCR      int64
	SysCW      int64
	CancelledWriteBytes int64

	ReadBytesRate  float64
	WriteBytesRate float64
	RCharRate      float64
	WCharRate      float64
	SysCRRate      float64
	SysCWRate      float64

	prevReadBytes  int64
	prevWriteBytes int64
	prevRChar      int64
	prevWChar      int64
	prevSysCR      int64
	prevSysCW      int64
	prevSampleTime float64
	havePrev       bool
}

// ProcessRecord represents one process, or one thread when thread
// listing is on (§3.1). Every field the spec calls "essential" has a
// slot here; derived rates are recomputed each scan through the
// record's own UpdatePercentCPU and IO.UpdateIORates, which the
// platform source calls during enumeration.
type ProcessRecord struct {
	// identity
	PID      int
	TGID     int
	PPID     int
	PGRP     int
	Session  int
	TPGID    int
	TTYDevice TTYDevice
	RUID     int
	EUID     int

	// classification
	State         byte
	IsKernel      bool
	IsExtraThread bool

	// scheduling
	Priority   int
	Nice       int
	IOPriority IOPriority
	Processor  int
	NLWP       int

	// resources
	VirtPages     uint64
	ResidentPages uint64
	SharePages    uint64
	PercentCPU    float64
	PercentMem    float64
	CPUTimeHundredths uint64

	// lineage timing
	StartTimeCTime int64

	// accounting
	MinFlt int64
	MajFlt int64
	IO     IOCounters

	// presentation
	Name          string
	Cmdline       string
	Argv0Len      int
	Flags         StateFlags
	CreatedThisScan bool
	UpdatedThisScan bool
	SeenInTreeLoop  bool

	// back-reference, borrowed; never owned or mutated by the record
	// itself (§3.1 "back-reference: borrowed handle to the shared
	// Settings").
	settings *config.Settings

	// prevCPUTime/prevSampleTime back the %CPU delta computation (§4.3
	// Rates); newly created records have havePrevCPU == false so their
	// first %CPU is always 0, per the invariant in §3.1.
	prevCPUTimeHundredths uint64
	prevSampleTime        float64
	havePrevCPU           bool
}

// TTYDevice is the major:minor pair identifying a controlling tty, or
// the NoDevice sentinel (§3.1).
type TTYDevice struct {
	Major int
	Minor int
	None  bool
}

// NoDevice is the sentinel "no controlling tty" value.
var NoDevice = TTYDevice{None: true}

// NewProcessRecord constructs a record for a newly-sighted pid. The
// constructor takes Settings by borrow, per §3.1's lifecycle note
// ("constructor receives Settings").
func NewProcessRecord(pid int, settings *config.Settings) *ProcessRecord {
	return &ProcessRecord{
		PID:      pid,
		settings: settings,
		IOPriority: IOPriorityNone,
		Flags: StateFlags{
			ShowChildren: true,
			Visible:      true,
		},
		CreatedThisScan: true,
		UpdatedThisScan: true,
	}
}

// LogicalParent implements the parentage rule from §3.1: tgid if
// pid==tgid else ppid. There is no direct child pointer; parentage is
// recomputed per scan by the sort/filter pipeline.
func (p *ProcessRecord) LogicalParent() int {
	if p.PID == p.TGID {
		return p.PPID
	}
	return p.TGID
}

// IsTreeRoot reports whether parent_pid(p) == p.PID, the "no parent"
// edge case from §4.4.
func (p *ProcessRecord) IsTreeRoot() bool {
	return p.LogicalParent() == p.PID
}

// UpdatePercentCPU computes the delta-based %CPU for this sample,
// following §4.3's Rates rule: accumulated utime+stime delta over the
// elapsed period as a percentage of one CPU, clamped into
// [0, 100*cpuCount],
// NaN→0. newCPUTimeHundredths and sampleTime are the record's raw
// counters as of *this* scan; elapsedSeconds is wall-clock time since
// the previous sample of this same record.
func (p *ProcessRecord) UpdatePercentCPU(newCPUTimeHundredths uint64, sampleTime, elapsedSeconds float64, cpuCount int) {
	if !p.havePrevCPU || elapsedSeconds <= 0 {
		p.PercentCPU = 0
	} else {
		deltaHundredths := float64(0)
		if newCPUTimeHundredths >= p.prevCPUTimeHundredths {
			deltaHundredths = float64(newCPUTimeHundredths - p.prevCPUTimeHundredths)
		}
		pct := (deltaHundredths / 100.0) / elapsedSeconds * 100.0
		pct = clamp(pct, 0, 100*float64(maxInt(cpuCount, 1)))
		if pct != pct { // NaN
			pct = 0
		}
		p.PercentCPU = pct
	}

	p.prevCPUTimeHundredths = newCPUTimeHundredths
	p.prevSampleTime = sampleTime
	p.havePrevCPU = true
	p.CPUTimeHundredths = newCPUTimeHundredths
}

// updateRate implements the generic per-attribute rate rule from §4.3:
// new rate = (X - X0) / (t - t0) when t > t0 and X >= X0, else 0.
func updateRate(newValue, prevValue int64, prevTime, newTime float64, havePrev bool) (rate float64) {
	if !havePrev || newTime <= prevTime || newValue < prevValue {
		return 0
	}
	return float64(newValue-prevValue) / (newTime - prevTime)
}

// UpdateIORates recomputes every I/O rate field from raw counters
// sampled at sampleTime. Per §4.3's Open Questions note, the interval
// is this record's own previous-sample timestamp, not the scan's
// global interval -- a clock that moves backwards clamps the rate to
// 0 rather than going negative.
func (io *IOCounters) UpdateIORates(readBytes, writeBytes, rchar, wchar, syscr, syscw int64, sampleTime float64) {
	io.ReadBytesRate = updateRate(readBytes, io.prevReadBytes, io.prevSampleTime, sampleTime, io.havePrev)
	io.WriteBytesRate = updateRate(writeBytes, io.prevWriteBytes, io.prevSampleTime, sampleTime, io.havePrev)
	io.RCharRate = updateRate(rchar, io.prevRChar, io.prevSampleTime, sampleTime, io.havePrev)
	io.WCharRate = updateRate(wchar, io.prevWChar, io.prevSampleTime, sampleTime, io.havePrev)
	io.SysCRRate = updateRate(syscr, io.prevSysCR, io.prevSampleTime, sampleTime, io.havePrev)
	io.SysCWRate = updateRate(syscw, io.prevSysCW, io.prevSampleTime, sampleTime, io.havePrev)

	io.ReadBytes, io.WriteBytes, io.RChar, io.WChar, io.SysCR, io.SysCW = readBytes, writeBytes, rchar, wchar, syscr, syscw
	io.prevReadBytes, io.prevWriteBytes = readBytes, writeBytes
	io.prevRChar, io.prevWChar = rchar, wchar
	io.prevSysCR, io.prevSysCW = syscr, syscw
	io.prevSampleTime = sampleTime
	io.havePrev = true
}

// DenyIO marks every I/O counter as permission-denied (negative
// sentinel), per §7 "Privilege denied": store a sentinel value,
// render in shadow color, never abort.
func (io *IOCounters) DenyIO() {
	io.ReadBytes, io.WriteBytes = -1, -1
	io.RChar, io.WChar = -1, -1
	io.SysCR, io.SysCW = -1, -1
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
