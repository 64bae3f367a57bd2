// Package config holds process-wide configuration: the persisted
// Settings (delay, fields, sort key, tree/hide flags, meter layout,
// color scheme) and the application-level AppConfig (CLI-derived
// values, config directory, debug flag). Settings round-trips through
// a plain `key=value` rc file (§6.3); AppConfig is assembled once at
// startup from flags and environment, the same division of labor the
// reference TUI program's own config package uses between its
// persisted UserConfig and its process-level AppConfig.
package config

import "github.com/Low-power/htop-sub000/internal/field"

// Direction is a sort direction, +1 ascending or -1 descending.
type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// HeaderMeterColumn is one column of the two-column meter header
// (§3.3 "two header meter columns").
type HeaderMeterColumn struct {
	Names []string
	Modes []string
}

// Settings is the mutable, persisted configuration a running instance
// carries. It is shared (by borrow) across the sampling engine, the
// sort/filter pipeline, and every gui component; nothing here is ever
// copied per-frame.
type Settings struct {
	// Delay is the sampling cadence in tenths of a second, clamped to
	// [1,100] by the CLI parser (§6.2).
	Delay int

	// Fields is the ordered, enabled column list. Always terminated by
	// field.FieldSentinel per §3.3.
	Fields []field.FieldID

	SortKey   field.FieldID
	Direction Direction

	TreeView bool

	HideKernelThreads bool
	HideUserlandThreads bool

	// HighlightBaseName, HighlightMegabytes, HighlightThreads control
	// the presentation rules §4.1 describes (basename highlighting in
	// tree COMM, megabyte-range coloring, and thread-row coloring).
	HighlightBaseName   bool
	HighlightMegabytes  bool
	HighlightThreads    bool

	// SortStrcmp toggles case-sensitive vs case-insensitive comparisons
	// for string-keyed sort fields (§3.3).
	SortStrcmp bool

	LeftMeters  HeaderMeterColumn
	RightMeters HeaderMeterColumn

	ColorScheme int

	ViMode    bool
	UseMouse  bool

	// ExplicitDelay selects the nodelay+explicit-sleep input loop
	// variant from §4.8 step 2c instead of half-delay.
	ExplicitDelay bool

	// ShowDisks enables the parallel DiskTable subsystem (§4.11).
	ShowDisks bool

	// Following holds the PID the "F" binding pinned selection to
	// (§4.9), or 0 if nothing is being followed.
	Following int

	// Changed is the dirty bit: true once any field has been mutated
	// since the last successful Save.
	Changed bool
}

// DefaultSettings returns the fallback configuration used when no rc
// file exists yet, or one exists but fails to parse (§7 "Settings
// read": a missing file is not an error).
func DefaultSettings() *Settings {
	return &Settings{
		Delay:               15,
		Fields:              field.DefaultFields(),
		SortKey:             field.FieldPercentCPU,
		Direction:           Descending,
		TreeView:            false,
		HideKernelThreads:   false,
		HideUserlandThreads: false,
		HighlightBaseName:   false,
		HighlightMegabytes:  true,
		HighlightThreads:    true,
		SortStrcmp:          false,
		LeftMeters:          HeaderMeterColumn{},
		RightMeters:         HeaderMeterColumn{},
		ColorScheme:         0,
		ViMode:              false,
		UseMouse:            true,
		ExplicitDelay:       false,
		ShowDisks:           false,
	}
}

// MarkChanged flips the dirty bit. Every Settings mutator in the
// gui/mainloop package calls this after changing a field, mirroring
// the reference program's SAVE_SETTINGS reaction bit (§4.9).
func (s *Settings) MarkChanged() {
	s.Changed = true
}

// Clone returns a deep-enough copy for use in settings-round-trip
// tests (§8 "Round-trip of a settings file").
func (s *Settings) Clone() *Settings {
	c := *s
	c.Fields = append([]field.FieldID(nil), s.Fields...)
	c.LeftMeters = HeaderMeterColumn{
		Names: append([]string(nil), s.LeftMeters.Names...),
		Modes: append([]string(nil), s.LeftMeters.Modes...),
	}
	c.RightMeters = HeaderMeterColumn{
		Names: append([]string(nil), s.RightMeters.Names...),
		Modes: append([]string(nil), s.RightMeters.Modes...),
	}
	return &c
}

// Equal reports field-by-field equality, ignoring the Changed dirty
// bit, for round-trip assertions.
func (s *Settings) Equal(other *Settings) bool {
	if s.Delay != other.Delay ||
		s.SortKey != other.SortKey ||
		s.Direction != other.Direction ||
		s.TreeView != other.TreeView ||
		s.HideKernelThreads != other.HideKernelThreads ||
		s.HideUserlandThreads != other.HideUserlandThreads ||
		s.HighlightBaseName != other.HighlightBaseName ||
		s.HighlightMegabytes != other.HighlightMegabytes ||
		s.HighlightThreads != other.HighlightThreads ||
		s.SortStrcmp != other.SortStrcmp ||
		s.ColorScheme != other.ColorScheme ||
		s.ViMode != other.ViMode ||
		s.UseMouse != other.UseMouse ||
		s.ExplicitDelay != other.ExplicitDelay ||
		s.ShowDisks != other.ShowDisks {
		return false
	}
	if len(s.Fields) != len(other.Fields) {
		return false
	}
	for i := range s.Fields {
		if s.Fields[i] != other.Fields[i] {
			return false
		}
	}
	return stringsEqual(s.LeftMeters.Names, other.LeftMeters.Names) &&
		stringsEqual(s.LeftMeters.Modes, other.LeftMeters.Modes) &&
		stringsEqual(s.RightMeters.Names, other.RightMeters.Names) &&
		stringsEqual(s.RightMeters.Modes, other.RightMeters.Modes)
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
