package gui

import (
	"strconv"

	"github.com/Low-power/htop-sub000/internal/config"
	"github.com/Low-power/htop-sub000/internal/field"
)

// Key codes. gocui reports function/special keys as its own Key type;
// these constants are the key-code space MainLoopController dispatches
// on internally, translated from gocui events at the input-read edge
// (§4.9 "512-entry table" -- kept sparse here since Go has no reason to
// preallocate the array the original's table used).
const (
	KeyNone = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyEnter
	KeyEsc
	KeySpace
	KeyTab
	KeyBackspace
	KeyCtrlL
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	keyRuneBase // runes (letters, digits, punctuation) are offset from here
)

// RuneKey maps a printable rune to its dispatch code.
func RuneKey(r rune) int { return keyRuneBase + int(r) }

// Action is a canonical binding's handler: it mutates the owning
// Screen/Panel/ScreenManager and reports what the main loop must redo.
type Action func(ctx *ActionContext) Reaction

// ActionContext threads the pieces an Action needs without every
// Action closing over the whole ScreenManager.
type ActionContext struct {
	Manager *ScreenManager
	Panel   *Panel
}

// Binding pairs a key code with its Action, mirroring the canonical
// Action-per-key table (§4.9).
type Binding struct {
	Key    int
	Action Action
}

// sortChoice names a sort key and its default direction the first
// time it is selected (§4.9's "M/P/T sort").
type sortChoice struct {
	id                field.FieldID
	defaultDescending bool
}

var (
	sortByMem  = sortChoice{field.FieldPercentMem, true}
	sortByCPU  = sortChoice{field.FieldPercentCPU, true}
	sortByTime = sortChoice{field.FieldTime, true}
)

// DefaultBindings returns the canonical keymap: sort-column letters,
// tree toggle, hide toggles, search/filter entry, tagging, renice,
// affinity, info screens, setup, and quit.
func DefaultBindings() []Binding {
	return []Binding{
		{RuneKey('M'), actionSortBy(sortByMem)},
		{RuneKey('P'), actionSortBy(sortByCPU)},
		{RuneKey('T'), actionSortBy(sortByTime)},
		{RuneKey('t'), actionToggleTree},
		{KeyF5, actionToggleTree},
		{RuneKey('H'), actionToggleHideUserlandThreads},
		{RuneKey('K'), actionToggleHideKernelThreads},
		{RuneKey('/'), actionEnterSearch},
		{KeyF3, actionEnterSearch},
		{RuneKey('\\'), actionEnterFilter},
		{KeyF4, actionEnterFilter},
		{RuneKey('n'), actionSearchNext},
		{RuneKey('N'), actionSearchPrev},
		{KeyF7, actionRenice(-1)},
		{KeyF8, actionRenice(1)},
		{RuneKey('I'), actionInvertSort},
		{KeyF6, actionOpenSortColumnPicker},
		{KeyF9, actionOpenSignalPicker},
		{RuneKey('k'), actionOpenSignalPicker},
		{RuneKey('a'), actionOpenAffinityPicker},
		{RuneKey('l'), actionOpenInfoScreen(infoScreenOpenFiles)},
		{RuneKey('o'), actionOpenInfoScreen(infoScreenEnv)},
		{RuneKey('s'), actionOpenInfoScreen(infoScreenTrace)},
		{RuneKey('e'), actionOpenInfoScreen(infoScreenArg)},
		{RuneKey('A'), actionOpenInfoScreen(infoScreenKernelStack)},
		{RuneKey('D'), actionOpenDebugScreen},
		{RuneKey('F'), actionToggleFollow},
		{RuneKey(' '), actionToggleTag},
		{RuneKey('c'), actionTagRecursive},
		{RuneKey('U'), actionUntagAll},
		{KeyCtrlL, actionRedraw},
		{KeyF1, actionHelp},
		{RuneKey('h'), actionHelp},
		{RuneKey('?'), actionHelp},
		{RuneKey('q'), actionQuit},
		{KeyF10, actionQuit},
		{KeyUp, actionMoveUp},
		{KeyDown, actionMoveDown},
		{KeyPageUp, actionPageUp},
		{KeyPageDown, actionPageDown},
		{KeyHome, actionMoveToTop},
		{KeyEnd, actionMoveToBottom},
	}
}

func actionSortBy(choice sortChoice) Action {
	return func(ctx *ActionContext) Reaction {
		s := ctx.Manager.Settings
		if s.SortKey == choice.id {
			s.Direction = -s.Direction
		} else {
			s.SortKey = choice.id
			s.Direction = config.Descending
			if !choice.defaultDescending {
				s.Direction = config.Ascending
			}
		}
		return Recalculate | SaveSettings
	}
}

func actionToggleTree(ctx *ActionContext) Reaction {
	ctx.Manager.Settings.TreeView = !ctx.Manager.Settings.TreeView
	return Recalculate | SaveSettings
}

func actionToggleHideUserlandThreads(ctx *ActionContext) Reaction {
	ctx.Manager.Settings.HideUserlandThreads = !ctx.Manager.Settings.HideUserlandThreads
	return Recalculate | SaveSettings
}

func actionToggleHideKernelThreads(ctx *ActionContext) Reaction {
	ctx.Manager.Settings.HideKernelThreads = !ctx.Manager.Settings.HideKernelThreads
	return Recalculate | SaveSettings
}

func actionEnterSearch(ctx *ActionContext) Reaction {
	ctx.Manager.BeginIncremental(IncModeSearch)
	return RedrawBar
}

func actionEnterFilter(ctx *ActionContext) Reaction {
	ctx.Manager.BeginIncremental(IncModeFilter)
	return Recalculate | RedrawBar
}

func actionSearchNext(ctx *ActionContext) Reaction {
	ctx.Manager.Incremental.Next(ctx.Panel)
	return Refresh
}

func actionSearchPrev(ctx *ActionContext) Reaction {
	ctx.Manager.Incremental.Prev(ctx.Panel)
	return Refresh
}

func actionRenice(delta int) Action {
	return func(ctx *ActionContext) Reaction {
		if ctx.Panel.Selected() == nil {
			return OK
		}
		ctx.Manager.ReniceTagged(ctx.Panel, delta)
		return Recalculate
	}
}

func actionInvertSort(ctx *ActionContext) Reaction {
	ctx.Manager.Settings.Direction = -ctx.Manager.Settings.Direction
	return Recalculate | SaveSettings
}

func actionOpenSortColumnPicker(ctx *ActionContext) Reaction {
	ctx.Manager.OpenSortColumnPicker()
	return Refresh
}

func actionOpenSignalPicker(ctx *ActionContext) Reaction {
	ctx.Manager.OpenSignalPicker()
	return Refresh
}

func actionOpenAffinityPicker(ctx *ActionContext) Reaction {
	ctx.Manager.OpenAffinityPicker()
	return Refresh
}

func actionOpenInfoScreen(kind infoScreenKind) Action {
	return func(ctx *ActionContext) Reaction {
		rec := ctx.Panel.Selected()
		if rec == nil {
			return OK
		}
		ctx.Manager.OpenInfoScreen(kind, rec)
		return Refresh
	}
}

func actionOpenDebugScreen(ctx *ActionContext) Reaction {
	if !ctx.Manager.Debug {
		return OK
	}
	rec := ctx.Panel.Selected()
	if rec == nil {
		return OK
	}
	ctx.Manager.OpenDebugScreen(rec)
	return Refresh
}

func actionToggleFollow(ctx *ActionContext) Reaction {
	ctx.Manager.Follow = !ctx.Manager.Follow
	if ctx.Manager.Follow {
		if rec := ctx.Panel.Selected(); rec != nil {
			ctx.Manager.Table.Following = rec.TGID
		}
		return Recalculate | KeepFollowing
	}
	ctx.Manager.Table.Following = 0
	return Recalculate
}

func actionToggleTag(ctx *ActionContext) Reaction {
	ctx.Panel.ToggleTagSelected()
	return Refresh
}

func actionTagRecursive(ctx *ActionContext) Reaction {
	ctx.Panel.TagRecursiveSelected()
	return Refresh
}

func actionUntagAll(ctx *ActionContext) Reaction {
	ctx.Panel.UntagAll()
	return Refresh
}

func actionRedraw(ctx *ActionContext) Reaction {
	return Refresh
}

func actionHelp(ctx *ActionContext) Reaction {
	ctx.Manager.OpenHelp()
	return Refresh
}

func actionQuit(ctx *ActionContext) Reaction {
	return Quit
}

func actionMoveUp(ctx *ActionContext) Reaction       { ctx.Panel.MoveUp(1); return Refresh }
func actionMoveDown(ctx *ActionContext) Reaction     { ctx.Panel.MoveDown(1); return Refresh }
func actionPageUp(ctx *ActionContext) Reaction       { ctx.Panel.MoveUp(ctx.Panel.Height()); return Refresh }
func actionPageDown(ctx *ActionContext) Reaction     { ctx.Panel.MoveDown(ctx.Panel.Height()); return Refresh }
func actionMoveToTop(ctx *ActionContext) Reaction    { ctx.Panel.MoveToTop(); return Refresh }
func actionMoveToBottom(ctx *ActionContext) Reaction { ctx.Panel.MoveToBottom(); return Refresh }

// DigitAction implements "digit PID search": typing a digit while no
// incremental mode is active accumulates a transient numeric buffer
// and re-selects the matching PID on every keystroke (§4.9).
func DigitAction(ctx *ActionContext, digit rune) Reaction {
	ctx.Manager.PIDSearchBuffer += string(digit)
	if pid, err := strconv.Atoi(ctx.Manager.PIDSearchBuffer); err == nil {
		ctx.Panel.SelectByPID(pid)
	}
	return Refresh
}

// ResetPIDSearch clears the digit-search buffer, called whenever a
// non-digit key is dispatched.
func ResetPIDSearch(ctx *ActionContext) {
	ctx.Manager.PIDSearchBuffer = ""
}
