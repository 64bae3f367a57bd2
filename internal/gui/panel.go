package gui

import (
	"strings"

	"github.com/Low-power/htop-sub000/internal/field"
	"github.com/Low-power/htop-sub000/internal/pipeline"
	"github.com/Low-power/htop-sub000/internal/presentation"
	"github.com/Low-power/htop-sub000/internal/process"
	"github.com/Low-power/htop-sub000/internal/richstring"
)

// Panel is an ordered view over a vector of rows: the process list,
// the disk list, or a picker's option list. It owns its own viewport
// scroll and selection, independent of how many rows the underlying
// table currently holds (§4.5).
type Panel struct {
	X, Y          int
	Width, Height_ int

	Rows []pipeline.Row

	scrollTop     int
	scrollColumn  int
	selection     int
	oldSelection  int
	needsRedraw   bool
	selectionColor richstring.Color

	// repeatBuffer is reserved for a vi-style numeric repeat count; no
	// key handler reads or writes it, so "3" then "j" moves one row.
	repeatBuffer string

	Header *richstring.RichString
	Bar    *FunctionBar

	tagged map[int]bool // PID -> tagged
}

// NewPanel returns an empty Panel positioned and sized as given.
func NewPanel(x, y, w, h int) *Panel {
	return &Panel{
		X: x, Y: y, Width: w, Height_: h,
		selectionColor: richstring.ColorProcessTag,
		needsRedraw:    true,
		tagged:         make(map[int]bool),
	}
}

// Height reports the panel's visible row count.
func (p *Panel) Height() int { return p.Height_ }

// SetRows replaces the row vector, clamping selection/scroll to the
// new length (§4.5 "re-seek on rebuild").
func (p *Panel) SetRows(rows []pipeline.Row) {
	p.Rows = rows
	if p.selection >= len(rows) {
		p.selection = len(rows) - 1
	}
	if p.selection < 0 {
		p.selection = 0
	}
	p.clampScroll()
	p.needsRedraw = true
}

// Selected returns the ProcessRecord currently highlighted, or nil if
// the panel is empty.
func (p *Panel) Selected() *process.ProcessRecord {
	if p.selection < 0 || p.selection >= len(p.Rows) {
		return nil
	}
	return p.Rows[p.selection].Record
}

func (p *Panel) clampScroll() {
	if p.selection < p.scrollTop {
		p.scrollTop = p.selection
	}
	if p.selection >= p.scrollTop+p.Height_ {
		p.scrollTop = p.selection - p.Height_ + 1
	}
	maxTop := len(p.Rows) - p.Height_
	if maxTop < 0 {
		maxTop = 0
	}
	if p.scrollTop > maxTop {
		p.scrollTop = maxTop
	}
	if p.scrollTop < 0 {
		p.scrollTop = 0
	}
}

// MoveUp moves the selection up by n rows, clamped to the top.
func (p *Panel) MoveUp(n int) {
	p.oldSelection = p.selection
	p.selection -= n
	if p.selection < 0 {
		p.selection = 0
	}
	p.clampScroll()
	p.needsRedraw = true
}

// MoveDown moves the selection down by n rows, clamped to the bottom.
func (p *Panel) MoveDown(n int) {
	p.oldSelection = p.selection
	p.selection += n
	if p.selection >= len(p.Rows) {
		p.selection = len(p.Rows) - 1
	}
	if p.selection < 0 {
		p.selection = 0
	}
	p.clampScroll()
	p.needsRedraw = true
}

// MoveToTop selects the first row.
func (p *Panel) MoveToTop() {
	p.oldSelection = p.selection
	p.selection = 0
	p.clampScroll()
	p.needsRedraw = true
}

// MoveToBottom selects the last row.
func (p *Panel) MoveToBottom() {
	p.oldSelection = p.selection
	p.selection = len(p.Rows) - 1
	if p.selection < 0 {
		p.selection = 0
	}
	p.clampScroll()
	p.needsRedraw = true
}

// ScrollHorizontal shifts the fixed-column origin left/right, used
// when a row's rendered width exceeds Width (§4.5 "horizontal
// column").
func (p *Panel) ScrollHorizontal(delta int) {
	p.scrollColumn += delta
	if p.scrollColumn < 0 {
		p.scrollColumn = 0
	}
	p.needsRedraw = true
}

// SelectByPID moves the selection to the row whose TGID matches pid,
// if present (§4.9 digit PID search).
func (p *Panel) SelectByPID(pid int) bool {
	for i, r := range p.Rows {
		if r.Record.TGID == pid {
			p.oldSelection = p.selection
			p.selection = i
			p.clampScroll()
			p.needsRedraw = true
			return true
		}
	}
	return false
}

// SelectByTyping selects the first row, counting from row 0, whose
// command name starts with prefix (case-insensitively), per §4.7's
// "select by typing" property. On no match the selection is left
// unchanged and false is returned.
func (p *Panel) SelectByTyping(prefix string) bool {
	if prefix == "" {
		return false
	}
	lower := strings.ToLower(prefix)
	for i, r := range p.Rows {
		if strings.HasPrefix(strings.ToLower(r.Record.Name), lower) {
			p.oldSelection = p.selection
			p.selection = i
			p.clampScroll()
			p.needsRedraw = true
			return true
		}
	}
	return false
}

// ToggleTagSelected flips the tag state of the current row.
func (p *Panel) ToggleTagSelected() {
	rec := p.Selected()
	if rec == nil {
		return
	}
	p.tagged[rec.TGID] = !p.tagged[rec.TGID]
	p.needsRedraw = true
}

// TagRecursiveSelected tags the selected row and every row beneath it
// in the tree whose ancestor chain includes the selection (§4.9 "c tag
// with children").
func (p *Panel) TagRecursiveSelected() {
	rec := p.Selected()
	if rec == nil {
		return
	}
	root := rec.TGID
	p.tagged[root] = true
	descendant := make(map[int]bool)
	descendant[root] = true
	for _, r := range p.Rows {
		anc := r.Record.LogicalParent()
		for anc != 0 {
			if descendant[anc] {
				descendant[r.Record.TGID] = true
				p.tagged[r.Record.TGID] = true
				break
			}
			var next int
			found := false
			for _, rr := range p.Rows {
				if rr.Record.TGID == anc {
					next = rr.Record.LogicalParent()
					found = true
					break
				}
			}
			if !found {
				break
			}
			anc = next
		}
	}
	p.needsRedraw = true
}

// UntagAll clears every tag (§4.9 "U").
func (p *Panel) UntagAll() {
	p.tagged = make(map[int]bool)
	p.needsRedraw = true
}

// IsTagged reports whether pid is currently tagged.
func (p *Panel) IsTagged(pid int) bool { return p.tagged[pid] }

// TaggedPIDs returns every currently tagged pid.
func (p *Panel) TaggedPIDs() []int {
	out := make([]int, 0, len(p.tagged))
	for pid, tagged := range p.tagged {
		if tagged {
			out = append(out, pid)
		}
	}
	return out
}

// Draw renders the visible window of rows into a slice of RichStrings,
// one per visible line: a tag marker, the tree-indent glyphs (tree
// mode only), then each configured field in order.
func (p *Panel) Draw(ctx *presentation.Context, fields []field.FieldID, treeMode, treeOpen bool) []*richstring.RichString {
	out := make([]*richstring.RichString, 0, p.Height_)
	end := p.scrollTop + p.Height_
	if end > len(p.Rows) {
		end = len(p.Rows)
	}
	for i := p.scrollTop; i < end; i++ {
		row := p.Rows[i]
		rs := richstring.New()
		if p.tagged[row.Record.TGID] {
			rs.Append("+ ", richstring.ColorProcessTag)
		}
		if treeMode {
			presentation.WriteTreePrefix(rs, row.Depth, row.Record.IndentBitmask, row.IsLastChild, row.HasChildren, treeOpen, ctx.TreeReverse, ctx.UTF8)
		}
		for _, f := range fields {
			presentation.WriteField(rs, row.Record, f, ctx)
			rs.Append(" ", richstring.ColorDefault)
		}
		out = append(out, rs)
	}
	p.needsRedraw = false
	p.oldSelection = p.selection
	return out
}

// NeedsRedraw reports whether anything changed since the last Draw.
func (p *Panel) NeedsRedraw() bool { return p.needsRedraw || p.oldSelection != p.selection }

// MarkDirty forces the next Draw to repaint.
func (p *Panel) MarkDirty() { p.needsRedraw = true }
