// Package gui implements the interactive terminal presentation layer:
// the Header, Panel, FunctionBar, incremental search/filter, keymap,
// InfoScreens, and the ScreenManager that ties them to a sampling
// clock. It follows the window-manager split a gocui-backed terminal
// UI uses: this package owns state and behavior, gocui owns the
// terminal cell buffer and raw input decoding.
package gui

import (
	"context"
	"os"
	"strconv"
	"time"

	throttle "github.com/boz/go-throttle"
	"github.com/jesseduffield/gocui"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"

	"github.com/Low-power/htop-sub000/internal/config"
	"github.com/Low-power/htop-sub000/internal/field"
	"github.com/Low-power/htop-sub000/internal/platform"
	"github.com/Low-power/htop-sub000/internal/presentation"
	"github.com/Low-power/htop-sub000/internal/process"
	"github.com/Low-power/htop-sub000/internal/sampler"
)

// OverlappingEdges controls whether adjacent gocui views share a
// border cell.
var OverlappingEdges = false

// Mutexes groups the locks guarding state gocui's event goroutine and
// the sampling goroutine both touch.
type Mutexes struct {
	RefreshMutex deadlock.Mutex
}

// Gui wraps the gocui renderer with the htop-style domain state: the
// Settings, the sampling Engine, the ScreenManager, and the Header.
type Gui struct {
	g *gocui.Gui

	Log      *logrus.Entry
	AppCfg   *config.AppConfig
	Settings *config.Settings
	Source   platform.Source
	Sampler  *sampler.Engine
	Table    *process.ProcessTable
	Users    *process.UserTable

	Manager  *ScreenManager
	Header   *Header
	Bindings []Binding

	Mutexes

	bindingsByKey map[int]Action
}

// NewGui wires a Gui around an already-constructed sampling engine and
// settings, following the reference program's NewGui(log, ..., config,
// errorChan) constructor shape.
func NewGui(log *logrus.Entry, appCfg *config.AppConfig, settings *config.Settings, src platform.Source, eng *sampler.Engine, table *process.ProcessTable, users *process.UserTable) *Gui {
	gui := &Gui{
		Log:      log,
		AppCfg:   appCfg,
		Settings: settings,
		Source:   src,
		Sampler:  eng,
		Table:    table,
		Users:    users,
		Bindings: DefaultBindings(),
	}
	gui.Manager = NewScreenManager(settings, src, eng, table, users)
	gui.Manager.RCFilePath = appCfg.RCFilename()
	gui.Manager.Debug = appCfg.Debug
	gui.Header = NewHeader(src, settings)
	return gui
}

// Run builds the gocui surface, wires keybindings and the refresh
// clock, and blocks in gocui's main loop until quit.
func (gui *Gui) Run() error {
	g, err := gocui.NewGui(gocui.OutputTrue, OverlappingEdges, gocui.NORMAL, false, map[rune]string{})
	if err != nil {
		return err
	}
	defer g.Close()

	g.Mouse = gui.Settings.UseMouse
	gui.g = g

	deadlock.Opts.LogBuf = os.Stderr

	throttledRefresh := throttle.ThrottleFunc(time.Millisecond*50, true, gui.redraw)
	defer throttledRefresh.Stop()

	g.SetManager(gocui.ManagerFunc(gui.layout))

	if err := gui.keybindings(g); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go gui.sampleLoop(ctx, throttledRefresh.Trigger)

	gui.Manager.Recalculate()

	err = g.MainLoop()
	if err == gocui.ErrQuit {
		return nil
	}
	return err
}

// sampleLoop runs the SamplingEngine on Settings.Delay's cadence,
// recalculating the pipeline and requesting a throttled redraw after
// every scan, until ctx is cancelled (§4.8 "sampling clock").
func (gui *Gui) sampleLoop(ctx context.Context, trigger func()) {
	interval := time.Duration(gui.Settings.Delay) * 100 * time.Millisecond
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			elapsed := now.Sub(last).Seconds()
			last = now

			gui.RefreshMutex.Lock()
			gui.Sampler.Scan(elapsed, false)
			gui.Manager.Recalculate()
			if info := gui.Manager.ActiveInfo(); info != nil {
				info.Poll()
			}
			gui.RefreshMutex.Unlock()

			trigger()
		}
	}
}

// layout is the gocui.Manager callback: it (re)creates the header and
// main-panel views to fill the current terminal size and paints their
// content from the last Recalculate (§4.5, §4.8).
func (gui *Gui) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	headerHeight := len(gui.Header.Left)
	if len(gui.Header.Right) > headerHeight {
		headerHeight = len(gui.Header.Right)
	}
	if headerHeight < 1 {
		headerHeight = 1
	}

	if v, err := g.SetView("header", 0, 0, maxX-1, headerHeight, 0); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
	}
	gui.drawHeader(g)

	barY := maxY - 2
	if v, err := g.SetView("main", 0, headerHeight+1, maxX-1, barY, 0); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
		v.Highlight = true
	}
	gui.Manager.Main.Width = maxX
	gui.Manager.Main.Height_ = barY - headerHeight - 2
	gui.drawMain(g)

	if v, err := g.SetView("bar", 0, maxY-1, maxX-1, maxY+1, 0); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
	}
	gui.drawBar(g)

	return nil
}

func (gui *Gui) drawHeader(g *gocui.Gui) {
	v, err := g.View("header")
	if err != nil {
		return
	}
	v.Clear()
	left := RenderColumn(gui.Header.Left, &gui.Table.Counters)
	right := RenderColumn(gui.Header.Right, &gui.Table.Counters)
	n := len(left)
	if len(right) > n {
		n = len(right)
	}
	for i := 0; i < n; i++ {
		var l, r string
		if i < len(left) {
			l = left[i].Plain()
		}
		if i < len(right) {
			r = right[i].Plain()
		}
		fmtLine(v, l, r)
	}
}

func fmtLine(v *gocui.View, left, right string) {
	v.Write([]byte(left))
	if right != "" {
		v.Write([]byte("   "))
		v.Write([]byte(right))
	}
	v.Write([]byte("\n"))
}

func (gui *Gui) drawMain(g *gocui.Gui) {
	v, err := g.View("main")
	if err != nil {
		return
	}
	v.Clear()

	if picker, options, title := gui.Manager.ActivePicker(); picker != nil {
		gui.drawPicker(v, picker, options, title)
		return
	}
	if info := gui.Manager.ActiveInfo(); info != nil {
		gui.drawInfoScreen(v, info)
		return
	}

	ctx := &presentation.Context{
		PIDWidth:    len(strconv.Itoa(gui.Source.MaxPID())),
		PageSizeKB:  gui.Source.PageSizeKB(),
		UTF8:        true,
		TreeReverse: false,
		Users:       gui.Users,
		TTYResolver: gui.Source.ResolveTTY,
	}

	fields := gui.Settings.Fields
	lines := gui.Manager.Main.Draw(ctx, trimSentinel(fields), gui.Settings.TreeView, true)
	for _, line := range lines {
		v.Write([]byte(line.Plain()))
		v.Write([]byte("\n"))
	}
}

// drawPicker paints a pick_from_vector-style option list into the main
// view, marking the currently selected option (§4.8 step d/f).
func (gui *Gui) drawPicker(v *gocui.View, p *Panel, options []string, title string) {
	v.Write([]byte(title + "\n\n"))
	for i, opt := range options {
		marker := "  "
		if i == p.selection {
			marker = "> "
		}
		v.Write([]byte(marker + opt + "\n"))
	}
}

// drawInfoScreen paints the active InfoScreen's title and its
// currently scrolled-into-view lines (§4.10).
func (gui *Gui) drawInfoScreen(v *gocui.View, info *InfoScreen) {
	v.Write([]byte(info.Title + "\n\n"))
	for _, line := range info.VisibleLines() {
		v.Write([]byte(line))
		v.Write([]byte("\n"))
	}
}

func trimSentinel(fields []field.FieldID) []field.FieldID {
	out := make([]field.FieldID, 0, len(fields))
	for _, f := range fields {
		if f == field.FieldSentinel && len(out) > 0 {
			break
		}
		out = append(out, f)
	}
	return out
}

func (gui *Gui) drawBar(g *gocui.Gui) {
	v, err := g.View("bar")
	if err != nil {
		return
	}
	v.Clear()
	bar := gui.Manager.Bar
	activePicker, _, _ := gui.Manager.ActivePicker()

	switch {
	case activePicker != nil:
		bar = EnterEscBar("Select")
	case gui.Manager.ActiveInfo() != nil:
		bar = EnterEscBar("Close")
	case gui.Manager.Incremental.Active:
		label := "Search"
		if gui.Manager.Incremental.Mode == IncModeFilter {
			label = "Filter"
		}
		bar = EnterEscBar(label)
	}
	if bar == nil {
		bar = DefaultMainBar()
	}

	labels := make([]string, 0, FunctionBarSlots)
	for _, slot := range bar.Slots {
		labels = append(labels, slot.Label)
	}
	for _, l := range labels {
		if l == "" {
			continue
		}
		v.Write([]byte(l))
		v.Write([]byte(" "))
	}
	if gui.Manager.Incremental.Active {
		v.Write([]byte(gui.Manager.Incremental.Buffer))
	}
}

func (gui *Gui) redraw() {
	if gui.g != nil {
		gui.g.Update(func(g *gocui.Gui) error { return nil })
	}
}

// keybindings wires every gocui key event for the "main" view to
// ScreenManager.Dispatch, translating gocui's Key/rune pair into this
// package's dispatch codes.
func (gui *Gui) keybindings(g *gocui.Gui) error {
	if err := g.SetKeybinding("", gocui.KeyArrowUp, gocui.ModNone, gui.wrap(KeyUp)); err != nil {
		return err
	}
	if err := g.SetKeybinding("", gocui.KeyArrowDown, gocui.ModNone, gui.wrap(KeyDown)); err != nil {
		return err
	}
	if err := g.SetKeybinding("", gocui.KeyPgup, gocui.ModNone, gui.wrap(KeyPageUp)); err != nil {
		return err
	}
	if err := g.SetKeybinding("", gocui.KeyPgdn, gocui.ModNone, gui.wrap(KeyPageDown)); err != nil {
		return err
	}
	if err := g.SetKeybinding("", gocui.KeyCtrlL, gocui.ModNone, gui.wrap(KeyCtrlL)); err != nil {
		return err
	}
	if err := g.SetKeybinding("", gocui.KeyEnter, gocui.ModNone, gui.wrap(KeyEnter)); err != nil {
		return err
	}
	if err := g.SetKeybinding("", gocui.KeyBackspace, gocui.ModNone, gui.wrap(KeyBackspace)); err != nil {
		return err
	}
	if err := g.SetKeybinding("", gocui.KeyBackspace2, gocui.ModNone, gui.wrap(KeyBackspace)); err != nil {
		return err
	}
	if err := g.SetKeybinding("", gocui.KeyEsc, gocui.ModNone, gui.wrapEsc()); err != nil {
		return err
	}

	fkeys := []gocui.Key{gocui.KeyF1, gocui.KeyF2, gocui.KeyF3, gocui.KeyF4, gocui.KeyF5,
		gocui.KeyF6, gocui.KeyF7, gocui.KeyF8, gocui.KeyF9, gocui.KeyF10}
	for i, k := range fkeys {
		if err := g.SetKeybinding("", k, gocui.ModNone, gui.wrap(KeyF1+i)); err != nil {
			return err
		}
	}

	for r := rune(' '); r <= '~'; r++ {
		if err := g.SetKeybinding("", r, gocui.ModNone, gui.wrap(RuneKey(r))); err != nil {
			return err
		}
	}
	return nil
}

func (gui *Gui) wrap(code int) func(*gocui.Gui, *gocui.View) error {
	return func(g *gocui.Gui, v *gocui.View) error {
		gui.RefreshMutex.Lock()
		keepRunning := gui.routeKey(code)
		gui.RefreshMutex.Unlock()
		if !keepRunning {
			return gocui.ErrQuit
		}
		return nil
	}
}

func (gui *Gui) wrapEsc() func(*gocui.Gui, *gocui.View) error {
	return func(g *gocui.Gui, v *gocui.View) error {
		gui.RefreshMutex.Lock()
		gui.Manager.CancelPicker()
		gui.Manager.CloseInfo()
		gui.Manager.Incremental.End()
		gui.RefreshMutex.Unlock()
		return nil
	}
}

// infoScrollStep is the page-up/page-down scroll increment for both
// InfoScreens and pickers, since neither has a live viewport height
// known to the routing layer (that's computed at draw time, from
// whatever size gocui gave the "main" view this frame).
const infoScrollStep = 10

// routeKey is the single chokepoint every key dispatch passes through
// before the static binding table: an open picker consumes
// up/down/pgup/pgdn/enter as list navigation and confirmation, an open
// InfoScreen consumes them as scrolling, and the incremental
// search/filter editor consumes printable runes/backspace/enter as
// buffer edits -- all per §4.7/§4.8's modal-input requirement. Anything
// not claimed by one of those falls through to ScreenManager.Dispatch.
func (gui *Gui) routeKey(code int) bool {
	m := gui.Manager

	if picker, _, _ := m.ActivePicker(); picker != nil {
		switch code {
		case KeyUp:
			m.PickerMove(-1)
		case KeyDown:
			m.PickerMove(1)
		case KeyPageUp:
			m.PickerMove(-infoScrollStep)
		case KeyPageDown:
			m.PickerMove(infoScrollStep)
		case KeyEnter:
			m.ConfirmPicker()
		}
		return true
	}

	if info := m.ActiveInfo(); info != nil {
		switch code {
		case KeyUp:
			info.ScrollUp(1)
		case KeyDown:
			info.ScrollDown(1)
		case KeyPageUp:
			info.ScrollUp(infoScrollStep)
		case KeyPageDown:
			info.ScrollDown(infoScrollStep)
		}
		return true
	}

	if m.Incremental.Active {
		switch {
		case code == KeyEnter:
			m.Incremental.End()
			return true
		case code == KeyBackspace:
			m.Incremental.HandleKey(m.Main, 0, true)
			if m.Incremental.Mode == IncModeFilter {
				m.Recalculate()
			}
			return true
		case code >= keyRuneBase:
			m.Incremental.HandleKey(m.Main, rune(code-keyRuneBase), false)
			if m.Incremental.Mode == IncModeFilter {
				m.Recalculate()
			}
			return true
		}
	}

	if code >= RuneKey('0') && code <= RuneKey('9') {
		ctx := &ActionContext{Manager: m, Panel: m.Main}
		return m.applyReaction(DigitAction(ctx, rune(code-keyRuneBase)))
	}
	if m.PIDSearchBuffer != "" {
		ResetPIDSearch(&ActionContext{Manager: m, Panel: m.Main})
	}

	return m.Dispatch(gui.Bindings, code)
}
