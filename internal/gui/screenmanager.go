package gui

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/Low-power/htop-sub000/internal/config"
	"github.com/Low-power/htop-sub000/internal/field"
	"github.com/Low-power/htop-sub000/internal/pipeline"
	"github.com/Low-power/htop-sub000/internal/platform"
	"github.com/Low-power/htop-sub000/internal/process"
	"github.com/Low-power/htop-sub000/internal/sampler"
)

// ScreenManager owns every Panel, the Header, the active picker or
// InfoScreen (if any), and drives the sampling clock (§4.8). It is the
// thing MainLoopController dispatches key events into.
type ScreenManager struct {
	Settings *config.Settings
	Source   platform.Source
	Sampler  *sampler.Engine
	Table    *process.ProcessTable
	Users    *process.UserTable

	Main *Panel
	Bar  *FunctionBar

	Incremental *Incremental
	Filter      pipeline.Filter

	Follow          bool
	PIDSearchBuffer string

	// Debug gates the hidden go-spew struct-dump InfoScreen ('D'),
	// mirroring the teacher's own debug-build-only diagnostics.
	Debug bool

	activePicker  *Panel
	pickerOptions []string
	pickerTitle   string
	pickerDone    func(selected string, ok bool)
	info          *InfoScreen

	// RCFilePath is where SaveSettings writes the persisted rc file
	// (§6.3); empty disables persistence (e.g. under test).
	RCFilePath string

	// idleTicks counts consecutive ticks with no input, driving the
	// idle-eviction countdown for a live InfoScreen/trace (§4.8).
	idleTicks int
}

// NewScreenManager wires a freshly sampled table/users pair to a
// Settings and Source, ready to receive key events.
func NewScreenManager(settings *config.Settings, src platform.Source, eng *sampler.Engine, table *process.ProcessTable, users *process.UserTable) *ScreenManager {
	return &ScreenManager{
		Settings:    settings,
		Source:      src,
		Sampler:     eng,
		Table:       table,
		Users:       users,
		Main:        NewPanel(0, 1, 80, 20),
		Bar:         DefaultMainBar(),
		Incremental: &Incremental{},
	}
}

// Recalculate reruns the sort/filter pipeline and pushes fresh rows
// into the main panel, per §4.9's Recalculate reaction. When Follow is
// active it re-seeks the panel's selection to Table.Following, since
// SetRows otherwise clamps the selection index against the new row
// count with no regard for which pid used to sit there (§4.9 "F").
func (m *ScreenManager) Recalculate() {
	if m.Incremental.Mode == IncModeFilter && m.Incremental.Active {
		m.Filter.Substring = m.Incremental.Buffer
	}
	rows := pipeline.Rebuild(m.Table, m.Settings, m.Filter)
	m.Main.SetRows(rows)
	if m.Follow && m.Table.Following != 0 {
		m.Main.SelectByPID(m.Table.Following)
	}
}

// Dispatch looks up and runs the Action bound to key, applying its
// Reaction, and reports whether the main loop should keep running
// (false means Quit was requested).
func (m *ScreenManager) Dispatch(bindings []Binding, key int) bool {
	for _, b := range bindings {
		if b.Key == key {
			ctx := &ActionContext{Manager: m, Panel: m.Main}
			r := b.Action(ctx)
			return m.applyReaction(r)
		}
	}
	return true
}

func (m *ScreenManager) applyReaction(r Reaction) bool {
	if r.Has(Quit) {
		return false
	}
	if r.Has(Recalculate) {
		m.Recalculate()
	}
	if r.Has(SaveSettings) && m.RCFilePath != "" {
		_ = config.SaveRCFile(m.RCFilePath, m.Settings)
	}
	return true
}

// BeginIncremental starts a search or filter session.
func (m *ScreenManager) BeginIncremental(mode IncMode) {
	m.Incremental.Begin(mode)
}

// ReniceTagged applies a relative nice delta to every tagged process,
// or the selection if nothing is tagged (§4.9 "F7/F8").
func (m *ScreenManager) ReniceTagged(p *Panel, delta int) {
	targets := p.TaggedPIDs()
	if len(targets) == 0 {
		if rec := p.Selected(); rec != nil {
			targets = []int{rec.TGID}
		}
	}
	for _, pid := range targets {
		rec, ok := m.Table.GetByPID(pid)
		if !ok {
			continue
		}
		newNice := rec.Nice + delta
		if newNice > 19 {
			newNice = 19
		}
		if newNice < -20 {
			newNice = -20
		}
		_ = m.Source.SetPriority(pid, newNice)
	}
}

// OpenSortColumnPicker opens a picker listing every sortable field
// (field.AllNames); the picker's done callback sets Settings.SortKey
// and resets the direction to ascending.
func (m *ScreenManager) OpenSortColumnPicker() {
	names := field.AllNames()
	m.openPicker("Sort by", names, func(selected string, ok bool) {
		if !ok {
			return
		}
		if id, found := field.ByName(selected); found {
			m.Settings.SortKey = id
			m.Settings.Direction = config.Ascending
			m.Recalculate()
		}
	})
}

// OpenSignalPicker opens a picker over every signal this platform
// knows, sending the chosen signal to every tagged process (or the
// selection) on confirm (§4.9 "F9/k").
func (m *ScreenManager) OpenSignalPicker() {
	sigs := m.Source.Signals()
	names := make([]string, len(sigs))
	for i, s := range sigs {
		names[i] = fmt.Sprintf("%2d %s", s.Number, s.Name)
	}
	targets := m.Main.TaggedPIDs()
	if len(targets) == 0 {
		if rec := m.Main.Selected(); rec != nil {
			targets = []int{rec.TGID}
		}
	}
	m.openPicker("Send signal", names, func(selected string, ok bool) {
		if !ok {
			return
		}
		for _, s := range sigs {
			if fmt.Sprintf("%2d %s", s.Number, s.Name) == selected {
				for _, pid := range targets {
					_ = m.Source.SendSignal(pid, s.Number)
				}
				break
			}
		}
	})
	for i, s := range sigs {
		if s.Name == "SIGTERM" {
			m.activePicker.selection = i
			break
		}
	}
}

// OpenAffinityPicker opens a single-select CPU-affinity picker for the
// selected process (§4.9 "a"); confirming pins the process to the one
// chosen CPU.
func (m *ScreenManager) OpenAffinityPicker() {
	rec := m.Main.Selected()
	if rec == nil {
		return
	}
	n := m.Source.CPUCount()
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = fmt.Sprintf("CPU %d", i)
	}
	m.openPicker("Set affinity", names, func(selected string, ok bool) {
		if !ok {
			return
		}
		var cpu int
		fmt.Sscanf(selected, "CPU %d", &cpu)
		_ = m.Source.SetAffinity(rec.PID, []int{cpu})
	})
}

// OpenInfoScreen opens one of the read-only InfoScreen templates for
// rec (§4.10).
func (m *ScreenManager) OpenInfoScreen(kind infoScreenKind, rec *process.ProcessRecord) {
	scr, err := OpenInfoScreen(kind, rec, m.Source)
	if err != nil {
		scr = &InfoScreen{Title: "Error", Lines: []string{err.Error()}}
	}
	m.info = scr
}

// OpenDebugScreen dumps rec's full in-memory representation via
// go-spew into an InfoScreen, for ad hoc struct inspection in
// Config.Debug builds (§4.9 "D", gated by ScreenManager.Debug).
func (m *ScreenManager) OpenDebugScreen(rec *process.ProcessRecord) {
	dump := strings.TrimRight(spew.Sdump(rec), "\n")
	m.info = &InfoScreen{Title: fmt.Sprintf("Debug dump of %d", rec.PID), Lines: strings.Split(dump, "\n")}
}

// OpenHelp opens the static keybinding reference screen (§4.9 "F1").
func (m *ScreenManager) OpenHelp() {
	m.info = &InfoScreen{Title: "Help", Lines: helpLines()}
}

// ActiveInfo returns the currently open InfoScreen, or nil.
func (m *ScreenManager) ActiveInfo() *InfoScreen { return m.info }

// CloseInfo dismisses the active InfoScreen/picker (§4.9 Esc).
func (m *ScreenManager) CloseInfo() {
	if m.info != nil {
		m.info.Close()
		m.info = nil
	}
	m.activePicker = nil
	m.pickerDone = nil
}

func (m *ScreenManager) openPicker(title string, options []string, done func(string, bool)) {
	m.activePicker = NewPanel(0, 1, 40, len(options))
	m.pickerDone = done
	m.pickerOptions = options
	m.pickerTitle = title
}

// ActivePicker exposes the currently open picker (nil if none), along
// with its option labels, for the renderer to draw.
func (m *ScreenManager) ActivePicker() (*Panel, []string, string) {
	return m.activePicker, m.pickerOptions, m.pickerTitle
}

// ConfirmPicker invokes the active picker's callback with the option
// at the picker panel's current selection, then closes it.
func (m *ScreenManager) ConfirmPicker() {
	if m.activePicker == nil || m.pickerDone == nil {
		return
	}
	idx := m.activePicker.selection
	var selected string
	if idx >= 0 && idx < len(m.pickerOptions) {
		selected = m.pickerOptions[idx]
	}
	done := m.pickerDone
	m.activePicker = nil
	m.pickerDone = nil
	done(selected, true)
}

// CancelPicker closes the active picker without invoking its callback.
func (m *ScreenManager) CancelPicker() {
	m.activePicker = nil
	m.pickerDone = nil
}

// PickerMove moves the active picker's selection by delta, clamped to
// the option list's bounds; a no-op when no picker is open. The picker
// panel's own Rows is always empty (it holds option strings, not
// pipeline.Row values), so navigation is done directly against
// pickerOptions rather than through Panel.MoveUp/MoveDown.
func (m *ScreenManager) PickerMove(delta int) {
	if m.activePicker == nil || len(m.pickerOptions) == 0 {
		return
	}
	sel := m.activePicker.selection + delta
	if sel < 0 {
		sel = 0
	}
	if sel >= len(m.pickerOptions) {
		sel = len(m.pickerOptions) - 1
	}
	m.activePicker.selection = sel
}

// helpLines renders the canonical keybinding table as plain text.
func helpLines() []string {
	return []string{
		"M/P/T   sort by memory/CPU/time",
		"t, F5   toggle tree view",
		"H       hide/show userland threads",
		"K       hide/show kernel threads",
		"/, F3   search",
		"\\, F4   filter",
		"n, N    next/previous search match",
		"F7/F8   renice -/+",
		"I       invert sort order",
		"F6      sort column picker",
		"F9, k   send signal",
		"a       set CPU affinity",
		"l       open files",
		"o       environment",
		"s       syscall trace",
		"e       command line",
		"A       kernel stack trace",
		"space   tag",
		"c       tag with children",
		"U       untag all",
		"F       follow process",
		"q, F10  quit",
	}
}
