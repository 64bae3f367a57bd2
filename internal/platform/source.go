// Package platform defines the PlatformSource contract (§6.1): the
// seam between the portable core (process model, sampling engine,
// sort/filter pipeline, gui) and a concrete operating system's way of
// enumerating processes and system counters. Only a Linux
// implementation (internal/platform/hostsrc) ships with this repo; the
// interface itself is what §1 calls out as specified, the
// implementations as external collaborators.
package platform

import (
	"github.com/Low-power/htop-sub000/internal/field"
	"github.com/Low-power/htop-sub000/internal/process"
	"github.com/Low-power/htop-sub000/internal/signals"
)

// MeterClass identifies one kind of header meter a platform knows how
// to source values for (§4.1 of spec's glossary "Meter").
type MeterClass string

const (
	MeterAllCPUs      MeterClass = "AllCPUs"
	MeterAllCPUs2     MeterClass = "AllCPUs2"
	MeterLeftCPUs     MeterClass = "LeftCPUs"
	MeterRightCPUs    MeterClass = "RightCPUs"
	MeterMemory       MeterClass = "Memory"
	MeterSwap         MeterClass = "Swap"
	MeterTasks        MeterClass = "Tasks"
	MeterLoadAverage  MeterClass = "LoadAverage"
	MeterUptime       MeterClass = "Uptime"
)

// Source is the trait-like interface §6.1 requires. A concrete
// platform implements enumeration, per-process auxiliary reads (argv,
// env, kernel stack), signal delivery, and affinity control; the core
// never reaches past this interface into OS-specific code.
type Source interface {
	CPUCount() int
	MaxPID() int
	UptimeSeconds() (uint64, bool)
	LoadAverage() (one, five, fifteen float64)
	HasSwap() bool
	PageSizeKB() uint64

	MeterTypes() []MeterClass
	DefaultFields() []field.FieldID
	Signals() []signals.Signal

	// Enumerate fills table with one scan's worth of processes,
	// updating system-wide aggregate counters as it goes, per §4.3
	// step 3.
	Enumerate(table *process.ProcessTable, users *process.UserTable, intervalSeconds float64, skipProcesses bool) error

	ReadArgv(pid int) ([]string, bool)
	ReadEnv(pid int) ([]string, bool)
	ReadKernelStack(pid int) ([]string, bool)

	SendSignal(pid, number int) error
	SetAffinity(pid int, cpus []int) error
	GetAffinity(pid int) ([]int, error)

	// SetPriority issues the renice(2)-equivalent call, setting pid's
	// nice value directly rather than applying a delta (§4.9 "F7/F8").
	SetPriority(pid, nice int) error

	// ResolveTTY renders a (major, minor) device into a display name
	// ("pts/3", "tty1"), or "" if unresolvable (§4.1 TTY field).
	ResolveTTY(dev process.TTYDevice) string

	// ZFSArcSizeKB returns the ZFS ARC size when a kstat-equivalent is
	// available (§4.3 step 4); ok is false when ZFS isn't present.
	ZFSArcSizeKB() (kb uint64, ok bool)
}
