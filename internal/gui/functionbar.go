package gui

import (
	"github.com/Low-power/htop-sub000/internal/richstring"
)

// FunctionBarSlots is the fixed ten-slot strip width from §3.5.
const FunctionBarSlots = 10

// FunctionBarEntry is one (label, key-code) pair.
type FunctionBarEntry struct {
	Label string
	Key   int
}

// FunctionBar is the bottom labels strip, plus the horizontal-click to
// key-code mapping (§4.6).
type FunctionBar struct {
	Slots [FunctionBarSlots]FunctionBarEntry
	// ColumnWidth is the per-slot width used both for drawing and for
	// SynthesizeEvent's column math.
	ColumnWidth int
}

// DefaultMainBar is the normal-navigation function bar (§4.9 canonical
// bindings, F1..F10).
func DefaultMainBar() *FunctionBar {
	fb := &FunctionBar{ColumnWidth: 8}
	labels := [FunctionBarSlots]string{"Help", "Setup", "Search", "Filter", "Tree", "SortBy", "Nice -", "Nice +", "Kill", "Quit"}
	for i, l := range labels {
		fb.Slots[i] = FunctionBarEntry{Label: l, Key: KeyF1 + i}
	}
	return fb
}

// EnterEscBar is the two-slot modal-pick bar used by incremental
// search/filter and InfoScreens (§4.7, §4.10).
func EnterEscBar(doneLabel string) *FunctionBar {
	fb := &FunctionBar{ColumnWidth: 8}
	fb.Slots[0] = FunctionBarEntry{Label: "Cancel", Key: KeyEsc}
	fb.Slots[9] = FunctionBarEntry{Label: doneLabel, Key: KeyEnter}
	return fb
}

// Draw renders the bar into out: function-key color for the key
// glyph, label color for its text (§4.6).
func (fb *FunctionBar) Draw(out *richstring.RichString, overrideHint string) {
	for i, slot := range fb.Slots {
		if slot.Label == "" {
			out.AppendPadded("", fb.ColumnWidth, richstring.ColorDefault)
			continue
		}
		key := richstringFunctionKeyGlyph(i)
		out.Append(key, richstring.ColorFunctionBarKey)
		label := slot.Label
		if i == 0 && overrideHint != "" {
			label = overrideHint
		}
		out.AppendPadded(label, fb.ColumnWidth-len(key), richstring.ColorFunctionBarLabel)
	}
}

func richstringFunctionKeyGlyph(slot int) string {
	glyphs := [FunctionBarSlots]string{"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10"}
	return glyphs[slot]
}

// SynthesizeEvent maps a horizontal click column to the key code of
// the slot under it, or 0 (no-op) if the column falls outside every
// slot (§4.6).
func (fb *FunctionBar) SynthesizeEvent(column int) int {
	if fb.ColumnWidth <= 0 {
		return 0
	}
	idx := column / fb.ColumnWidth
	if idx < 0 || idx >= FunctionBarSlots {
		return 0
	}
	return fb.Slots[idx].Key
}
