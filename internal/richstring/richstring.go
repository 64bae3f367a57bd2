// Package richstring implements a styled-character line model: a
// sequence of runs, each a string paired with a color attribute. It is
// the core's view of "a line with some parts colored differently",
// built to be written straight into a gocui.View (which accepts ANSI
// escapes) without the core needing to know about terminal escape
// sequences itself.
package richstring

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Color is a semantic color slot, resolved to an actual ANSI sequence
// by a config.ColorScheme at render time. Keeping this symbolic (not
// a raw escape code) is what lets the monochrome scheme from §6.4
// replace every color with an attribute-only code without RichString
// callers caring.
type Color int

const (
	ColorDefault Color = iota
	ColorProcessRunning
	ColorProcessStateD
	ColorProcessStateZ
	ColorHighPriority
	ColorLowPriority
	ColorMegabytes
	ColorLargeNumber
	ColorShadow
	ColorProcessTag
	ColorProcessThread
	ColorRealtime
	ColorFailed
	ColorHeaderBar
	ColorFunctionBarLabel
	ColorFunctionBarKey
)

// run is one contiguous styled segment.
type run struct {
	text  string
	color Color
}

// RichString is an ordered sequence of colored runs plus the line's
// total display width (in terminal columns, not bytes or runes).
type RichString struct {
	runs  []run
	width int
}

// New returns an empty RichString.
func New() *RichString {
	return &RichString{}
}

// Reset clears the string for reuse without reallocating the backing
// slice. Panel redraw (§4.5) builds a fresh RichString per row instead.
func (r *RichString) Reset() {
	r.runs = r.runs[:0]
	r.width = 0
}

// Append adds a colored run. Control characters are not expected;
// callers are responsible for producing printable text (the
// ProcessRecord formatter never emits tabs or newlines into a field).
func (r *RichString) Append(text string, color Color) {
	if text == "" {
		return
	}
	r.runs = append(r.runs, run{text: text, color: color})
	r.width += runewidth.StringWidth(text)
}

// AppendPadded appends text left-aligned, padded with spaces on the
// right or truncated to exactly width columns, used for fixed-width field rendering (§4.1 "4 chars +
// space" etc).
func (r *RichString) AppendPadded(text string, width int, color Color) {
	w := runewidth.StringWidth(text)
	switch {
	case w == width:
		r.Append(text, color)
	case w < width:
		r.Append(text+strings.Repeat(" ", width-w), color)
	default:
		r.Append(runewidth.Truncate(text, width, ""), color)
	}
}

// Width returns the total display width of the accumulated runs.
func (r *RichString) Width() int {
	return r.width
}

// Truncate clips the string to at most maxWidth display columns,
// dropping or splitting runs as needed. Nothing outside this package's
// tests calls it; internal/presentation bounds CMDLINE by its own byte
// cut.
func (r *RichString) Truncate(maxWidth int) {
	if r.width <= maxWidth {
		return
	}
	var out []run
	remaining := maxWidth
	for _, rn := range r.runs {
		if remaining <= 0 {
			break
		}
		w := runewidth.StringWidth(rn.text)
		if w <= remaining {
			out = append(out, rn)
			remaining -= w
			continue
		}
		out = append(out, run{text: runewidth.Truncate(rn.text, remaining, ""), color: rn.color})
		remaining = 0
	}
	r.runs = out
	r.width = maxWidth
}

// Plain returns the run text concatenated with no color information,
// used by the gocui renderer, which writes plain text into its views.
// Incremental search/filter and select-by-typing match against record
// fields, not this text.
func (r *RichString) Plain() string {
	var b strings.Builder
	for _, rn := range r.runs {
		b.WriteString(rn.text)
	}
	return b.String()
}

// Runs exposes the colored segments for a renderer (gocui-backed or
// otherwise) to paint.
func (r *RichString) Runs() []Run {
	out := make([]Run, len(r.runs))
	for i, rn := range r.runs {
		out[i] = Run{Text: rn.text, Color: rn.color}
	}
	return out
}

// Run is the exported, read-only view of one colored segment.
type Run struct {
	Text  string
	Color Color
}
