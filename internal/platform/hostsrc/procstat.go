//go:build linux

package hostsrc

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// procStat is the subset of /proc/<pid>/stat this source needs.
// Field offsets follow proc(5); parsing by hand rather than through
// gopsutil here because gopsutil's process.Process doesn't expose
// pgrp/session/tty/tpgid/processor directly -- this is the same
// approach arctir-proctor's plib.LoadStat takes, adapted to the
// fields §3.1 actually asks for.
type procStat struct {
	pid        int
	comm       string
	state      byte
	ppid       int
	pgrp       int
	session    int
	ttyNr      int
	tpgid      int
	minflt     int64
	majflt     int64
	utime      uint64
	stime      uint64
	priority   int
	nice       int
	numThreads int
	starttime  uint64
	vsize      uint64
	rss        int64
	processor  int
}

// readProcStat parses /proc/<pid>/stat. The comm field is
// parenthesized and may itself contain spaces/parens, so it is
// extracted by finding the first '(' and the last ')' rather than by
// naive field splitting.
func readProcStat(procRoot string, pid int) (procStat, error) {
	raw, err := os.ReadFile(fmt.Sprintf("%s/%d/stat", procRoot, pid))
	if err != nil {
		return procStat{}, err
	}
	line := string(raw)

	open := strings.IndexByte(line, '(')
	closeIdx := strings.LastIndexByte(line, ')')
	if open < 0 || closeIdx < 0 || closeIdx < open {
		return procStat{}, fmt.Errorf("hostsrc: malformed stat line for pid %d", pid)
	}
	comm := line[open+1 : closeIdx]
	rest := strings.Fields(line[closeIdx+2:])

	var s procStat
	s.pid = pid
	s.comm = comm
	if len(rest) > 0 {
		s.state = rest[0][0]
	}
	get := func(i int) string {
		if i < len(rest) {
			return rest[i]
		}
		return "0"
	}
	atoi := func(i int) int {
		n, _ := strconv.Atoi(get(i))
		return n
	}
	atou := func(i int) uint64 {
		n, _ := strconv.ParseUint(get(i), 10, 64)
		return n
	}
	atoi64 := func(i int) int64 {
		n, _ := strconv.ParseInt(get(i), 10, 64)
		return n
	}

	// index i below is 0-origin into `rest`, which starts at stat
	// field 3 (state) since fields 1 (pid) and 2 (comm) were consumed
	// above.
	s.ppid = atoi(1)
	s.pgrp = atoi(2)
	s.session = atoi(3)
	s.ttyNr = atoi(4)
	s.tpgid = atoi(5)
	s.minflt = atoi64(7)
	s.majflt = atoi64(9)
	s.utime = atou(11)
	s.stime = atou(12)
	s.priority = atoi(15)
	s.nice = atoi(16)
	s.numThreads = atoi(17)
	s.starttime = atou(19)
	s.vsize = atou(20)
	s.rss = atoi64(21)
	s.processor = atoi(36)

	return s, nil
}

// ttyMajorMinor decodes the packed tty_nr field from /proc/<pid>/stat
// into (major, minor), per the kernel's device encoding: major in bits
// 8-19, minor in bits 0-7 (low byte) and 20-31 (high bits).
func ttyMajorMinor(ttyNr int) (major, minor int) {
	major = (ttyNr >> 8) & 0xfff
	minor = (ttyNr & 0xff) | ((ttyNr >> 12) & 0xfff00)
	return
}
