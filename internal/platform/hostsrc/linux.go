//go:build linux

// Package hostsrc is the Linux PlatformSource implementation (§6.1):
// process enumeration and CPU/mem/swap/load system counters via
// gopsutil/v4, per-process scheduling/lineage fields via a direct
// /proc/<pid>/stat read (gopsutil doesn't expose pgrp/session/tty/
// processor), and signal delivery/affinity/privilege-drop via
// golang.org/x/sys/unix.
package hostsrc

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"golang.org/x/sys/unix"

	"github.com/Low-power/htop-sub000/internal/field"
	"github.com/Low-power/htop-sub000/internal/platform"
	"github.com/Low-power/htop-sub000/internal/process"
	"github.com/Low-power/htop-sub000/internal/signals"
)

// Source implements platform.Source for Linux hosts.
type Source struct {
	procRoot string
	pageSize uint64
	cpuCount int
	maxPID   int

	mu        sync.Mutex
	ttyTable  map[int]string // combined (major<<8|minor) -> path, lazily populated
}

// New returns a Linux PlatformSource rooted at /proc. procRoot is
// overridable for tests.
func New(procRoot string) (*Source, error) {
	if procRoot == "" {
		procRoot = "/proc"
	}
	n, err := cpu.Counts(true)
	if err != nil || n == 0 {
		n = 1
	}
	maxPID := readMaxPID(procRoot)
	return &Source{
		procRoot: procRoot,
		pageSize: uint64(unix.Getpagesize()) / 1024,
		cpuCount: n,
		maxPID:   maxPID,
		ttyTable: make(map[int]string),
	}, nil
}

func readMaxPID(procRoot string) int {
	raw, err := os.ReadFile(procRoot + "/sys/kernel/pid_max")
	if err != nil {
		return 4194304
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || n <= 0 {
		return 4194304
	}
	return n
}

func (s *Source) CPUCount() int   { return s.cpuCount }
func (s *Source) MaxPID() int     { return s.maxPID }
func (s *Source) PageSizeKB() uint64 { return s.pageSize }
func (s *Source) HasSwap() bool {
	sw, err := mem.SwapMemory()
	return err == nil && sw.Total > 0
}

func (s *Source) UptimeSeconds() (uint64, bool) {
	u, err := host.Uptime()
	if err != nil {
		return 0, false
	}
	return u, true
}

func (s *Source) LoadAverage() (one, five, fifteen float64) {
	avg, err := load.Avg()
	if err != nil {
		return 0, 0, 0
	}
	return avg.Load1, avg.Load5, avg.Load15
}

// MeterTypes implements the CPU-count-dependent layout selection from
// SPEC_FULL.md §C: 1 CPU gets a single AllCPUs meter, 2-8 get the
// two-column Left/RightCPUs split, and beyond 8 a condensed AllCPUs2
// aggregate replaces the per-core columns.
func (s *Source) MeterTypes() []platform.MeterClass {
	switch {
	case s.cpuCount == 1:
		return []platform.MeterClass{platform.MeterAllCPUs}
	case s.cpuCount <= 8:
		return []platform.MeterClass{platform.MeterLeftCPUs, platform.MeterRightCPUs}
	default:
		return []platform.MeterClass{platform.MeterAllCPUs2}
	}
}

func (s *Source) DefaultFields() []field.FieldID {
	return field.DefaultFields()
}

func (s *Source) Signals() []signals.Signal {
	return signals.Table
}

func (s *Source) ZFSArcSizeKB() (uint64, bool) {
	raw, err := os.ReadFile(s.procRoot + "/spl/kstat/zfs/arcstats")
	if err != nil {
		return 0, false
	}
	sc := bufio.NewScanner(strings.NewReader(string(raw)))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 3 && fields[0] == "size" {
			n, err := strconv.ParseUint(fields[2], 10, 64)
			if err == nil {
				return n / 1024, true
			}
		}
	}
	return 0, false
}

// Enumerate implements §4.3 step 3: list every numeric /proc entry,
// get-or-create its record, fill every attribute but the derived
// rates, and let the record itself compute those from its own
// previous sample.
func (s *Source) Enumerate(table *process.ProcessTable, users *process.UserTable, intervalSeconds float64, skipProcesses bool) error {
	cpuCount := s.cpuCount

	vm, _ := mem.VirtualMemory()
	sw, _ := mem.SwapMemory()
	if vm != nil {
		table.Counters.TotalMemKB = vm.Total / 1024
		table.Counters.FreeMemKB = vm.Free / 1024
		table.Counters.BuffersMemKB = vm.Buffers / 1024
		table.Counters.CachedMemKB = vm.Cached / 1024
		table.Counters.UsedMemKB = table.Counters.TotalMemKB - table.Counters.FreeMemKB - table.Counters.BuffersMemKB - table.Counters.CachedMemKB
	}
	if sw != nil {
		table.Counters.TotalSwapKB = sw.Total / 1024
		table.Counters.UsedSwapKB = sw.Used / 1024
		table.Counters.FreeSwapKB = sw.Free / 1024
	}
	if arc, ok := s.ZFSArcSizeKB(); ok {
		table.Counters.ZFSArcSizeKB = arc
		if table.Counters.UsedMemKB >= arc {
			table.Counters.UsedMemKB -= arc
		}
	}
	table.Counters.CPUCount = cpuCount
	table.Counters.LoadAverage1, table.Counters.LoadAverage5, table.Counters.LoadAverage15 = s.LoadAverage()
	if up, ok := s.UptimeSeconds(); ok {
		table.Counters.UptimeSeconds = up
	}

	if skipProcesses {
		return nil
	}

	entries, err := os.ReadDir(s.procRoot)
	if err != nil {
		return err
	}

	now := monotonicSeconds()

	for _, ent := range entries {
		pid, err := strconv.Atoi(ent.Name())
		if err != nil {
			continue
		}
		st, err := readProcStat(s.procRoot, pid)
		if err != nil {
			// race with exit, or permission denied: an existing
			// record's refresh failure means drop it (§4.3 failure
			// policy); a first sighting that fails just never
			// appears, which is equivalent.
			table.Remove(pid)
			continue
		}

		rec, _ := table.GetOrCreateRecord(pid, nil)
		s.fillRecord(rec, st, users)
		rec.UpdatedThisScan = true

		elapsed := intervalSeconds
		rec.UpdatePercentCPU(st.utime+st.stime, now, elapsed, cpuCount)

		if readBytes, writeBytes, rchar, wchar, syscr, syscw, ok := readProcIO(s.procRoot, pid); ok {
			rec.IO.UpdateIORates(readBytes, writeBytes, rchar, wchar, syscr, syscw, now)
		} else {
			rec.IO.DenyIO()
		}

		table.Counters.TotalTasks++
		if st.state == 'R' {
			table.Counters.RunningProcessCount++
		}
		if rec.IsKernel {
			table.Counters.KernelProcessCount++
		}
	}

	return nil
}

func (s *Source) fillRecord(rec *process.ProcessRecord, st procStat, users *process.UserTable) {
	rec.TGID = rec.PID
	rec.PPID = st.ppid
	rec.PGRP = st.pgrp
	rec.Session = st.session
	rec.TPGID = st.tpgid
	rec.State = st.state
	rec.IsKernel = st.vsize == 0
	rec.Priority = st.priority
	rec.Nice = st.nice
	rec.Processor = st.processor
	rec.NLWP = st.numThreads
	rec.VirtPages = st.vsize / (s.pageSize * 1024)
	rec.ResidentPages = uint64(st.rss)
	rec.MinFlt = st.minflt
	rec.MajFlt = st.majflt
	rec.Name = st.comm
	rec.Cmdline = st.comm

	if major, minor := ttyMajorMinor(st.ttyNr); st.ttyNr != 0 {
		rec.TTYDevice = process.TTYDevice{Major: major, Minor: minor}
	} else {
		rec.TTYDevice = process.NoDevice
	}

	if uid, ok := readUID(s.procRoot, rec.PID); ok {
		rec.RUID = uid
		rec.EUID = uid
	}

	if cmdline, ok := s.ReadArgv(rec.PID); ok && len(cmdline) > 0 {
		rec.Cmdline = strings.Join(cmdline, " ")
		rec.Argv0Len = len(cmdline[0])
	}
	_ = users
}

func readUID(procRoot string, pid int) (int, bool) {
	f, err := os.Open(fmt.Sprintf("%s/%d/status", procRoot, pid))
	if err != nil {
		return 0, false
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "Uid:") {
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				if uid, err := strconv.Atoi(fields[1]); err == nil {
					return uid, true
				}
			}
		}
	}
	return 0, false
}

func readProcIO(procRoot string, pid int) (readBytes, writeBytes, rchar, wchar, syscr, syscw int64, ok bool) {
	f, err := os.Open(fmt.Sprintf("%s/%d/io", procRoot, pid))
	if err != nil {
		return 0, 0, 0, 0, 0, 0, false
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.SplitN(sc.Text(), ":", 2)
		if len(fields) != 2 {
			continue
		}
		v, _ := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
		switch strings.TrimSpace(fields[0]) {
		case "rchar":
			rchar = v
		case "wchar":
			wchar = v
		case "syscr":
			syscr = v
		case "syscw":
			syscw = v
		case "read_bytes":
			readBytes = v
		case "write_bytes":
			writeBytes = v
		}
	}
	return readBytes, writeBytes, rchar, wchar, syscr, syscw, true
}

func (s *Source) ReadArgv(pid int) ([]string, bool) {
	raw, err := os.ReadFile(fmt.Sprintf("%s/%d/cmdline", s.procRoot, pid))
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	parts := strings.Split(strings.TrimRight(string(raw), "\x00"), "\x00")
	return parts, true
}

func (s *Source) ReadEnv(pid int) ([]string, bool) {
	raw, err := dropPrivilegesRead(fmt.Sprintf("%s/%d/environ", s.procRoot, pid))
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	parts := strings.Split(strings.TrimRight(string(raw), "\x00"), "\x00")
	return parts, true
}

func (s *Source) ReadKernelStack(pid int) ([]string, bool) {
	raw, err := dropPrivilegesRead(fmt.Sprintf("%s/%d/stack", s.procRoot, pid))
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	return strings.Split(strings.TrimRight(string(raw), "\n"), "\n"), true
}

func (s *Source) SendSignal(pid, number int) error {
	return unix.Kill(pid, unix.Signal(number))
}

func (s *Source) SetPriority(pid, nice int) error {
	return unix.Setpriority(unix.PRIO_PROCESS, pid, nice)
}

func (s *Source) SetAffinity(pid int, cpus []int) error {
	var set unix.CPUSet
	for _, c := range cpus {
		set.Set(c)
	}
	return unix.SchedSetaffinity(pid, &set)
}

func (s *Source) GetAffinity(pid int) ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(pid, &set); err != nil {
		return nil, err
	}
	out := make([]int, 0, s.cpuCount)
	for i := 0; i < s.cpuCount; i++ {
		if set.IsSet(i) {
			out = append(out, i)
		}
	}
	return out, nil
}

// ResolveTTY renders a tty device as "pts/N" by scanning /dev/pts;
// other devices (ttyN included) are not searched and resolve to "",
// which the caller (internal/presentation) prints as "?".
func (s *Source) ResolveTTY(dev process.TTYDevice) string {
	if dev.None {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := dev.Major<<8 | dev.Minor
	if name, ok := s.ttyTable[key]; ok {
		return name
	}
	name := resolveTTYByScanningDev(dev)
	s.ttyTable[key] = name
	return name
}

func resolveTTYByScanningDev(dev process.TTYDevice) string {
	entries, err := os.ReadDir("/dev/pts")
	if err == nil {
		for _, e := range entries {
			var st unix.Stat_t
			if err := unix.Stat("/dev/pts/"+e.Name(), &st); err != nil {
				continue
			}
			rdev := uint64(st.Rdev)
			if unix.Major(rdev) == uint32(dev.Major) && unix.Minor(rdev) == uint32(dev.Minor) {
				return "pts/" + e.Name()
			}
		}
	}
	return ""
}

// dropPrivilegesRead implements the §5 privilege-separation scope for
// reading another user's /proc/<pid>/environ or /stack: swap the
// effective uid to the real uid for the duration of the read, then
// restore it unconditionally, matching the "scoped acquisition with
// guaranteed release" note in §5.
func dropPrivilegesRead(path string) ([]byte, error) {
	euid := unix.Geteuid()
	ruid := unix.Getuid()
	if euid != ruid {
		if err := unix.Setreuid(-1, ruid); err == nil {
			defer unix.Setreuid(-1, euid)
		}
	}
	return os.ReadFile(path)
}
