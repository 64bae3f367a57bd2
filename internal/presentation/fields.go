// Package presentation turns a ProcessRecord into colored, fixed-width
// RichString output. It is the one place internal/process's data model
// meets internal/config's ColorScheme and internal/richstring's styled
// text, kept out of internal/process itself so the data model stays
// free of rendering concerns -- the same split the reference TUI draws
// between its commands package (data) and its gui/presentation package
// (display strings), see pkg/gui/presentation/containers.go in the
// retrieved pack.
package presentation

import (
	"fmt"
	"math"
	"strings"

	"github.com/Low-power/htop-sub000/internal/field"
	"github.com/Low-power/htop-sub000/internal/process"
	"github.com/Low-power/htop-sub000/internal/richstring"
)

// Context holds the process-wide, rarely-changing values field
// formatting needs but which don't belong on ProcessRecord itself:
// the PID column width derived from the platform's max pid (§4.1), the
// page size used to scale raw page counts, whether the terminal
// advertises UTF-8 (for tree glyph selection), and the tree traversal
// direction (for the root glyph flip, §4.1 COMM).
type Context struct {
	PIDWidth    int
	PageSizeKB  uint64
	UTF8        bool
	TreeReverse bool
	Users       *process.UserTable
	TTYResolver func(process.TTYDevice) string
}

// maxCommandLineWidth bounds COMM/CMDLINE rendering so redraw cost
// stays proportional to visible area regardless of how long a real
// command line is (§4.1 "absolute maximum line length is bounded").
const maxCommandLineWidth = 350

// WriteField appends the fixed-width, colored rendering of one column
// to out, per the per-field contracts in §4.1.
func WriteField(out *richstring.RichString, p *process.ProcessRecord, f field.FieldID, ctx *Context) {
	switch f {
	case field.FieldPID:
		out.AppendPadded(fmt.Sprintf("%d", p.PID), ctx.PIDWidth, richstring.ColorDefault)
		out.Append(" ", richstring.ColorDefault)
	case field.FieldPPID:
		out.AppendPadded(fmt.Sprintf("%d", p.PPID), ctx.PIDWidth, richstring.ColorDefault)
		out.Append(" ", richstring.ColorDefault)
	case field.FieldTGID:
		out.AppendPadded(fmt.Sprintf("%d", p.TGID), ctx.PIDWidth, richstring.ColorDefault)
		out.Append(" ", richstring.ColorDefault)
	case field.FieldPGRP:
		out.AppendPadded(fmt.Sprintf("%d", p.PGRP), ctx.PIDWidth, richstring.ColorDefault)
		out.Append(" ", richstring.ColorDefault)
	case field.FieldSession:
		out.AppendPadded(fmt.Sprintf("%d", p.Session), ctx.PIDWidth, richstring.ColorDefault)
		out.Append(" ", richstring.ColorDefault)
	case field.FieldTPGID:
		out.AppendPadded(fmt.Sprintf("%d", p.TPGID), ctx.PIDWidth, richstring.ColorDefault)
		out.Append(" ", richstring.ColorDefault)
	case field.FieldTTY:
		writeTTY(out, p, ctx)
	case field.FieldRUID:
		out.AppendPadded(fmt.Sprintf("%d", p.RUID), 5, richstring.ColorDefault)
	case field.FieldEUID:
		out.AppendPadded(fmt.Sprintf("%d", p.EUID), 5, richstring.ColorDefault)
	case field.FieldUser:
		writeUser(out, p, ctx)
	case field.FieldState:
		writeState(out, p.State)
	case field.FieldPriority:
		writePriority(out, p.Priority)
	case field.FieldNice:
		writeNice(out, p.Nice)
	case field.FieldIOPriority:
		writeIOPriority(out, p.IOPriority)
	case field.FieldProcessor:
		out.AppendPadded(fmt.Sprintf("%d", p.Processor), 3, richstring.ColorDefault)
	case field.FieldNLWP:
		out.AppendPadded(fmt.Sprintf("%d", p.NLWP), 4, richstring.ColorDefault)
	case field.FieldVirt:
		writeScaledPages(out, p.VirtPages, ctx.PageSizeKB)
	case field.FieldResident:
		writeScaledPages(out, p.ResidentPages, ctx.PageSizeKB)
	case field.FieldShare:
		writeScaledPages(out, p.SharePages, ctx.PageSizeKB)
	case field.FieldPercentCPU:
		writePercent(out, p.PercentCPU)
	case field.FieldPercentMem:
		writePercent(out, p.PercentMem)
	case field.FieldTime:
		writeTime(out, p.CPUTimeHundredths)
	case field.FieldStartTime:
		out.Append(fmt.Sprintf("%d", p.StartTimeCTime), richstring.ColorDefault)
	case field.FieldMinFlt:
		out.AppendPadded(fmt.Sprintf("%d", p.MinFlt), 8, richstring.ColorDefault)
	case field.FieldMajFlt:
		out.AppendPadded(fmt.Sprintf("%d", p.MajFlt), 8, richstring.ColorDefault)
	case field.FieldReadBytesRate:
		writeRate(out, p.IO.ReadBytes, p.IO.ReadBytesRate)
	case field.FieldWriteBytesRate:
		writeRate(out, p.IO.WriteBytes, p.IO.WriteBytesRate)
	case field.FieldRCharRate:
		writeRate(out, p.IO.RChar, p.IO.RCharRate)
	case field.FieldWCharRate:
		writeRate(out, p.IO.WChar, p.IO.WCharRate)
	case field.FieldSysCRRate:
		writeRate(out, p.IO.SysCR, p.IO.SysCRRate)
	case field.FieldSysCWRate:
		writeRate(out, p.IO.SysCW, p.IO.SysCWRate)
	case field.FieldCancelledWriteBytes:
		writeRate(out, p.IO.CancelledWriteBytes, 0)
	case field.FieldComm:
		writeComm(out, p)
	case field.FieldCmdline:
		writeCmdline(out, p)
	default:
		out.Append("?", richstring.ColorShadow)
	}
}

func writeTTY(out *richstring.RichString, p *process.ProcessRecord, ctx *Context) {
	if p.TTYDevice.None {
		out.AppendPadded("?", 8, richstring.ColorDefault)
		return
	}
	name := "?"
	if ctx.TTYResolver != nil {
		if n := ctx.TTYResolver(p.TTYDevice); n != "" {
			name = n
		}
	}
	out.AppendPadded(name, 8, richstring.ColorDefault)
}

func writeUser(out *richstring.RichString, p *process.ProcessRecord, ctx *Context) {
	name := fmt.Sprintf("%d", p.RUID)
	if ctx.Users != nil {
		name = ctx.Users.Name(p.RUID)
	}
	out.AppendPadded(name, 9, richstring.ColorDefault)
}

func writeState(out *richstring.RichString, state byte) {
	color := richstring.ColorDefault
	switch state {
	case 'R':
		color = richstring.ColorProcessRunning
	case 'D':
		color = richstring.ColorProcessStateD
	case 'Z':
		color = richstring.ColorProcessStateZ
	}
	out.Append(string(state), color)
	out.Append(" ", richstring.ColorDefault)
}

func writePriority(out *richstring.RichString, priority int) {
	if priority <= -100 {
		out.AppendPadded("RT", 3, richstring.ColorRealtime)
		return
	}
	out.AppendPadded(fmt.Sprintf("%d", priority), 3, richstring.ColorDefault)
}

func writeNice(out *richstring.RichString, nice int) {
	color := richstring.ColorDefault
	if nice < 0 {
		color = richstring.ColorHighPriority
	} else if nice > 0 {
		color = richstring.ColorLowPriority
	}
	out.AppendPadded(fmt.Sprintf("%d", nice), 3, color)
}

func writeIOPriority(out *richstring.RichString, p process.IOPriority) {
	color := richstring.ColorDefault
	if p.IsRealtime() {
		color = richstring.ColorRealtime
	}
	out.AppendPadded(p.String(), 4, color)
}

// writeScaledPages implements the M_SIZE/M_RESIDENT/M_SHARE humanizer:
// raw page counts scaled to KiB then a decimal-SI humanizer, colored
// "megabytes" up to the M range and "large-number" beyond (§4.1).
func writeScaledPages(out *richstring.RichString, pages uint64, pageSizeKB uint64) {
	kb := pages * pageSizeKB
	text, large := humanizeKB(kb)
	color := richstring.ColorMegabytes
	if large {
		color = richstring.ColorLargeNumber
	}
	out.AppendPadded(text, 7, color)
}

// humanizeKB applies a decimal-SI humanizer (K→M→G→T) to a KiB value,
// reporting whether the result escaped into the "large number" range
// (G and above) per §4.1.
func humanizeKB(kb uint64) (string, bool) {
	units := []string{"K", "M", "G", "T", "P"}
	v := float64(kb)
	idx := 0
	for v >= 1000 && idx < len(units)-1 {
		v /= 1000
		idx++
	}
	return fmt.Sprintf("%.1f%s", v, units[idx]), idx >= 2
}

func writePercent(out *richstring.RichString, pct float64) {
	if math.IsNaN(pct) {
		pct = 0
	}
	var text string
	switch {
	case pct >= 1000:
		text = fmt.Sprintf("%4.0f", pct)
	case pct >= 100:
		text = fmt.Sprintf("%3.0f.", pct)
	default:
		text = fmt.Sprintf("%4.1f", pct)
	}
	out.Append(text, richstring.ColorDefault)
	out.Append(" ", richstring.ColorDefault)
}

func writeTime(out *richstring.RichString, hundredths uint64) {
	totalSeconds := hundredths / 100
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	color := richstring.ColorDefault
	if hours >= 100 {
		color = richstring.ColorLargeNumber
	}

	var text string
	if hours == 0 {
		centiseconds := hundredths % 100
		text = fmt.Sprintf("%2d:%02d.%02d", minutes, seconds, centiseconds)
	} else {
		text = fmt.Sprintf("%3d:%02d:%02d", hours, minutes, seconds)
	}
	out.Append(text, color)
}

func writeRate(out *richstring.RichString, raw int64, rate float64) {
	if raw < 0 {
		out.AppendPadded("no perm", 9, richstring.ColorShadow)
		return
	}
	text, large := humanizeKB(uint64(rate) / 1024)
	color := richstring.ColorMegabytes
	if large {
		color = richstring.ColorLargeNumber
	}
	out.AppendPadded(text+"/s", 9, color)
}

// writeComm appends the process name for the COMM column (§4.1). The
// tree prefix is drawn separately by WriteTreePrefix, and no
// highlight_base_name coloring is applied here.
func writeComm(out *richstring.RichString, p *process.ProcessRecord) {
	out.Append(p.Name, richstring.ColorDefault)
}

// WriteTreePrefix renders the box-drawing/ASCII indent prefix for one
// row of a tree-mode listing, given its resolved depth and bitmask
// (computed by internal/pipeline during flattening). last reports
// whether this record is the final child at its depth (glyph "└", or
// "┌" when the traversal direction is reversed); open reports whether
// this node's children are expanded -- a node with children that is
// not open is drawn with "+".
func WriteTreePrefix(out *richstring.RichString, depth int, bitmask int, last bool, hasChildren, open, reverse, utf8 bool) {
	vertical, corner, tee, dash := "|", "`-", "|-", "-"
	if utf8 {
		vertical, tee, dash = "│", "├─", "─"
		corner = "└─"
		if reverse {
			corner = "┌─"
		}
	}

	var b strings.Builder
	for i := 0; i < depth; i++ {
		if bitmask&(1<<uint(i)) != 0 {
			b.WriteString(vertical + " ")
		} else {
			b.WriteString("  ")
		}
	}
	if depth > 0 {
		if last {
			b.WriteString(corner)
		} else {
			b.WriteString(tee)
		}
	}
	marker := dash
	if hasChildren && !open {
		marker = "+"
	}
	if depth > 0 {
		b.WriteString(marker)
	}
	out.Append(b.String(), richstring.ColorDefault)
}

// writeCmdline renders the joined argv with the bounded maximum line
// length (§4.1).
func writeCmdline(out *richstring.RichString, p *process.ProcessRecord) {
	cmd := p.Cmdline
	if len(cmd) > maxCommandLineWidth {
		cmd = cmd[:maxCommandLineWidth]
	}
	out.Append(cmd, richstring.ColorDefault)
}
