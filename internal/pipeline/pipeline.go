// Package pipeline implements the SortFilterPipeline (§4.4): turning a
// ProcessTable into the ordered, filtered sequence a Panel displays,
// either as a flat sorted list or a depth-first tree flatten with
// loop detection.
package pipeline

import (
	"sort"
	"strings"

	"github.com/Low-power/htop-sub000/internal/config"
	"github.com/Low-power/htop-sub000/internal/field"
	"github.com/Low-power/htop-sub000/internal/process"
)

// Row is one projected, display-ready record: the underlying
// ProcessRecord plus the tree-rendering geometry the sort/filter
// pipeline computed for it this rebuild. Depth/IsLastChild/HasChildren
// are carried alongside (rather than forcing internal/presentation to
// reverse-engineer them from the bitmask alone) since the renderer
// needs depth explicitly to walk ancestor rails (§4.1 COMM prefix).
type Row struct {
	Record      *process.ProcessRecord
	Depth       int
	IsLastChild bool
	HasChildren bool
}

// Filter bundles the optional projection inputs from §4.4: a
// pid-whitelist (tgid set, from `-p`), a uid filter, and an
// incremental-filter substring (from the `\` FILTER mode, §4.7).
type Filter struct {
	PIDWhitelist map[int]bool
	HasUserFilter bool
	UID          int
	Substring    string
}

func (f Filter) visible(p *process.ProcessRecord, s *config.Settings) bool {
	if !p.Flags.Visible {
		return false
	}
	if s.HideKernelThreads && p.IsKernel {
		return false
	}
	if s.HideUserlandThreads && p.IsExtraThread {
		return false
	}
	if f.HasUserFilter && p.RUID != f.UID {
		return false
	}
	if f.Substring != "" && !strings.Contains(strings.ToLower(p.Cmdline), strings.ToLower(f.Substring)) {
		return false
	}
	if f.PIDWhitelist != nil && !f.PIDWhitelist[p.TGID] {
		return false
	}
	return true
}

// Rebuild is the SortFilterPipeline's public entry point. It never
// mutates the table's membership, only Settings-driven per-record
// flags (IndentBitmask, SeenInTreeLoop) and the returned projection.
func Rebuild(table *process.ProcessTable, s *config.Settings, f Filter) []Row {
	if s.TreeView {
		return rebuildTree(table, s, f)
	}
	return rebuildFlat(table, s, f)
}

func rebuildFlat(table *process.ProcessTable, s *config.Settings, f Filter) []Row {
	records := append([]*process.ProcessRecord(nil), table.Records()...)
	sort.SliceStable(records, func(i, j int) bool {
		return compare(records[i], records[j], s.SortKey, s.SortStrcmp) < 0
	})
	if s.Direction == config.Descending {
		reverseRecords(records)
	}

	rows := make([]Row, 0, len(records))
	for _, r := range records {
		if f.visible(r, s) {
			rows = append(rows, Row{Record: r})
		}
	}
	return rows
}

// rebuildTree implements §4.4's tree mode: ascending PID sort, then a
// depth-first walk from every root (a record with no visible logical
// parent), honoring show_children, with a loop-detection pass for any
// records a ptrace re-parenting cycle left unvisited.
func rebuildTree(table *process.ProcessTable, s *config.Settings, f Filter) []Row {
	records := append([]*process.ProcessRecord(nil), table.Records()...)
	sort.Slice(records, func(i, j int) bool { return records[i].PID < records[j].PID })

	byPID := make(map[int]*process.ProcessRecord, len(records))
	for _, r := range records {
		byPID[r.PID] = r
		r.SeenInTreeLoop = false
	}

	childrenOf := make(map[int][]*process.ProcessRecord)
	for _, r := range records {
		parent := r.LogicalParent()
		if parent == r.PID {
			continue
		}
		if _, ok := byPID[parent]; ok {
			childrenOf[parent] = append(childrenOf[parent], r)
		}
	}

	visited := make(map[int]bool, len(records))
	var rows []Row

	var walk func(r *process.ProcessRecord, depth int, railMask int, isLast bool)
	walk = func(r *process.ProcessRecord, depth int, railMask int, isLast bool) {
		if visited[r.PID] {
			// reached again through a parent cycle; already emitted
			return
		}
		visited[r.PID] = true
		bm := railMask
		if isLast {
			bm = -bm
			if bm == 0 {
				bm = -1
			}
		}
		r.Flags.IndentBitmask = bm

		kids := childrenOf[r.PID]
		hasChildren := len(kids) > 0
		if f.visible(r, s) {
			rows = append(rows, Row{Record: r, Depth: depth, IsLastChild: isLast, HasChildren: hasChildren})
		}
		if !r.Flags.ShowChildren || !hasChildren {
			return
		}
		if s.Direction == config.Descending {
			kids = reversedCopy(kids)
		}
		childRails := railMask
		if depth > 0 && !isLast {
			childRails |= 1 << uint(depth-1)
		}
		for i, k := range kids {
			walk(k, depth+1, childRails, i == len(kids)-1)
		}
	}

	// Pass 1: genuine roots, in ascending PID order for determinism.
	for _, r := range records {
		if visited[r.PID] {
			continue
		}
		if r.IsTreeRoot() || byPID[r.LogicalParent()] == nil {
			walk(r, 0, 0, true)
		}
	}

	// Pass 2: loop detection (§4.4, §8 scenario 3). Any record still
	// unvisited is part of a ptrace-reparenting cycle; walk the parent
	// chain marking SeenInTreeLoop until a cycle member is found, then
	// promote it to a root.
	for _, r := range records {
		if visited[r.PID] {
			continue
		}
		cur := r
		for !visited[cur.PID] && !cur.SeenInTreeLoop {
			cur.SeenInTreeLoop = true
			parent, ok := byPID[cur.LogicalParent()]
			if !ok || visited[parent.PID] {
				break
			}
			cur = parent
		}
		if !visited[cur.PID] {
			walk(cur, 0, 0, true)
		}
	}

	return rows
}

func reverseRecords(r []*process.ProcessRecord) {
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
}

func reversedCopy(r []*process.ProcessRecord) []*process.ProcessRecord {
	out := make([]*process.ProcessRecord, len(r))
	for i, v := range r {
		out[len(r)-1-i] = v
	}
	return out
}

// compare implements the sort-field comparator. Ties always break on
// PID so that compare(a,b) == -compare(b,a) holds for every supported
// field (§8).
func compare(a, b *process.ProcessRecord, key field.FieldID, strcmp bool) int {
	switch key {
	case field.FieldPID, field.FieldNone:
		return cmpInt(a.PID, b.PID)
	case field.FieldPPID:
		return cmpIntThenPID(a, b, a.PPID, b.PPID)
	case field.FieldPriority:
		return cmpIntThenPID(a, b, a.Priority, b.Priority)
	case field.FieldNice:
		return cmpIntThenPID(a, b, a.Nice, b.Nice)
	case field.FieldPercentCPU:
		return cmpFloatThenPID(a, b, a.PercentCPU, b.PercentCPU)
	case field.FieldPercentMem:
		return cmpFloatThenPID(a, b, a.PercentMem, b.PercentMem)
	case field.FieldTime:
		return cmpUintThenPID(a, b, a.CPUTimeHundredths, b.CPUTimeHundredths)
	case field.FieldVirt:
		return cmpUintThenPID(a, b, a.VirtPages, b.VirtPages)
	case field.FieldResident:
		return cmpUintThenPID(a, b, a.ResidentPages, b.ResidentPages)
	case field.FieldState:
		return cmpStateThenPID(a, b)
	case field.FieldComm, field.FieldCmdline:
		return cmpStringThenPID(a, b, a.Name, b.Name, strcmp)
	default:
		return cmpInt(a.PID, b.PID)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpIntThenPID(a, b *process.ProcessRecord, x, y int) int {
	if c := cmpInt(x, y); c != 0 {
		return c
	}
	return cmpInt(a.PID, b.PID)
}

func cmpFloatThenPID(a, b *process.ProcessRecord, x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return cmpInt(a.PID, b.PID)
	}
}

func cmpUintThenPID(a, b *process.ProcessRecord, x, y uint64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return cmpInt(a.PID, b.PID)
	}
}

func cmpStateThenPID(a, b *process.ProcessRecord) int {
	if a.State != b.State {
		if a.State < b.State {
			return -1
		}
		return 1
	}
	return cmpInt(a.PID, b.PID)
}

func cmpStringThenPID(a, b *process.ProcessRecord, x, y string, strcmp bool) int {
	lx, ly := x, y
	if !strcmp {
		lx, ly = strings.ToLower(x), strings.ToLower(y)
	}
	switch {
	case lx < ly:
		return -1
	case lx > ly:
		return 1
	default:
		return cmpInt(a.PID, b.PID)
	}
}
