package gui

import "strings"

// IncMode distinguishes the two uses of IncSet: a transient highlight
// search versus a persistent row filter (§4.7).
type IncMode int

const (
	IncModeSearch IncMode = iota
	IncModeFilter
)

// Incremental is the IncSet: an accumulating search/filter buffer plus
// the match-cursor bookkeeping that lets 'n'/'N' step through repeat
// hits without retyping (§4.7).
type Incremental struct {
	Active bool
	Mode   IncMode
	Buffer string

	// Found reports whether the last HandleKey call matched anything,
	// driving the "not found" bar flash.
	Found bool
}

// Begin resets the buffer and activates mode m.
func (inc *Incremental) Begin(m IncMode) {
	inc.Active = true
	inc.Mode = m
	inc.Buffer = ""
	inc.Found = true
}

// End deactivates search mode. Filter mode is left active by the
// caller until explicitly cleared (it keeps rows hidden).
func (inc *Incremental) End() {
	inc.Active = false
}

// HandleKey appends or backspaces a rune into the buffer and re-seeks
// the panel's selection to the first match at or after the current
// selection, wrapping around once if nothing matches forward (§4.7,
// §8 "wrap-once" property). Filter mode instead leaves the row
// sub-setting to the pipeline Filter, and only updates Buffer here.
func (inc *Incremental) HandleKey(p *Panel, r rune, backspace bool) {
	if backspace {
		if len(inc.Buffer) > 0 {
			inc.Buffer = inc.Buffer[:len(inc.Buffer)-1]
		}
	} else if r != 0 {
		inc.Buffer += string(r)
	}

	if inc.Mode != IncModeSearch {
		return
	}
	inc.Found = inc.seek(p, p.selection, len(p.Rows))
}

// seek scans forward from 'from' for 'count' rows, wrapping past the
// end back to 0 exactly once.
func (inc *Incremental) seek(p *Panel, from, count int) bool {
	needle := strings.ToLower(inc.Buffer)
	if needle == "" {
		return true
	}
	n := len(p.Rows)
	if n == 0 {
		return false
	}
	for i := 0; i < n; i++ {
		idx := (from + i) % n
		if strings.Contains(strings.ToLower(p.Rows[idx].Record.Name), needle) ||
			strings.Contains(strings.ToLower(p.Rows[idx].Record.Cmdline), needle) {
			p.oldSelection = p.selection
			p.selection = idx
			p.clampScroll()
			p.needsRedraw = true
			return true
		}
	}
	return false
}

// Next moves to the next match after the current selection, wrapping
// once (§4.9 "n").
func (inc *Incremental) Next(p *Panel) {
	if inc.Buffer == "" || len(p.Rows) == 0 {
		return
	}
	inc.Found = inc.seek(p, p.selection+1, len(p.Rows))
}

// Prev moves to the previous match before the current selection,
// wrapping once (§4.9 "N").
func (inc *Incremental) Prev(p *Panel) {
	if inc.Buffer == "" || len(p.Rows) == 0 {
		return
	}
	n := len(p.Rows)
	start := p.selection - 1
	if start < 0 {
		start = n - 1
	}
	needle := strings.ToLower(inc.Buffer)
	for i := 0; i < n; i++ {
		idx := start - i
		if idx < 0 {
			idx += n
		}
		if strings.Contains(strings.ToLower(p.Rows[idx].Record.Name), needle) ||
			strings.Contains(strings.ToLower(p.Rows[idx].Record.Cmdline), needle) {
			p.oldSelection = p.selection
			p.selection = idx
			p.clampScroll()
			p.needsRedraw = true
			inc.Found = true
			return
		}
	}
	inc.Found = false
}
