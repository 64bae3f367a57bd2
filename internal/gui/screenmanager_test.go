package gui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Low-power/htop-sub000/internal/config"
	"github.com/Low-power/htop-sub000/internal/field"
	"github.com/Low-power/htop-sub000/internal/process"
)

func newTestManager(t *testing.T) *ScreenManager {
	t.Helper()
	s := config.DefaultSettings()
	tbl := process.NewProcessTable()
	for _, pid := range []int{1, 2, 3} {
		r, _ := tbl.GetOrCreateRecord(pid, s)
		r.TGID = pid
		r.Flags.Visible = true
	}
	m := NewScreenManager(s, nil, nil, tbl, process.NewUserTable())
	return m
}

func TestRecalculatePopulatesMainPanel(t *testing.T) {
	m := newTestManager(t)
	m.Recalculate()
	assert.Equal(t, 3, len(m.Main.Rows))
}

func TestRecalculateAppliesActiveFilterBuffer(t *testing.T) {
	m := newTestManager(t)
	m.Incremental.Begin(IncModeFilter)
	m.Incremental.Buffer = "nomatch"
	m.Recalculate()
	assert.Empty(t, m.Main.Rows)
}

func TestOpenSortColumnPickerAndConfirmSetsSortKey(t *testing.T) {
	m := newTestManager(t)
	m.OpenSortColumnPicker()

	picker, options, title := m.ActivePicker()
	require.NotNil(t, picker)
	require.NotEmpty(t, options)
	assert.Equal(t, "Sort by", title)

	target := field.FieldNice.Name()
	idx := -1
	for i, o := range options {
		if o == target {
			idx = i
			break
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	picker.selection = idx

	m.ConfirmPicker()
	assert.Equal(t, field.FieldNice, m.Settings.SortKey)

	p, _, _ := m.ActivePicker()
	assert.Nil(t, p)
}

func TestCancelPickerDoesNotInvokeCallback(t *testing.T) {
	m := newTestManager(t)
	m.OpenSortColumnPicker()
	before := m.Settings.SortKey

	m.CancelPicker()
	p, _, _ := m.ActivePicker()
	assert.Nil(t, p)
	assert.Equal(t, before, m.Settings.SortKey)
}

func TestDispatchQuitStopsMainLoop(t *testing.T) {
	m := newTestManager(t)
	bindings := []Binding{
		{Key: RuneKey('q'), Action: func(ctx *ActionContext) Reaction { return Quit }},
	}
	keepRunning := m.Dispatch(bindings, RuneKey('q'))
	assert.False(t, keepRunning)
}

func TestDispatchUnboundKeyKeepsRunning(t *testing.T) {
	m := newTestManager(t)
	keepRunning := m.Dispatch(nil, RuneKey('q'))
	assert.True(t, keepRunning)
}

func TestFollowReseeksSelectionAfterRecalculate(t *testing.T) {
	m := newTestManager(t)
	m.Recalculate()

	m.Follow = true
	m.Table.Following = 2

	// a new process enters the table and the selection drifts away
	// from pid 2; Recalculate must still leave pid 2 selected.
	r, _ := m.Table.GetOrCreateRecord(4, m.Settings)
	r.TGID = 4
	r.Flags.Visible = true
	m.Main.MoveToTop()

	m.Recalculate()

	require.NotNil(t, m.Main.Selected())
	assert.Equal(t, 2, m.Main.Selected().TGID)
}

func TestToggleFollowTogglesTableFollowing(t *testing.T) {
	m := newTestManager(t)
	m.Recalculate()
	ctx := &ActionContext{Manager: m, Panel: m.Main}

	actionToggleFollow(ctx)
	assert.True(t, m.Follow)
	assert.NotZero(t, m.Table.Following)

	actionToggleFollow(ctx)
	assert.False(t, m.Follow)
	assert.Zero(t, m.Table.Following)
}

func TestPickerMoveClampsToOptionBounds(t *testing.T) {
	m := newTestManager(t)
	m.openPicker("Pick", []string{"a", "b", "c"}, func(string, bool) {})

	m.PickerMove(-5)
	picker, _, _ := m.ActivePicker()
	require.NotNil(t, picker)
	assert.Equal(t, 0, picker.selection)

	m.PickerMove(5)
	assert.Equal(t, 2, picker.selection)
}

func TestDigitActionSelectsByPIDAndResetClearsBuffer(t *testing.T) {
	m := newTestManager(t)
	m.Recalculate()
	ctx := &ActionContext{Manager: m, Panel: m.Main}

	DigitAction(ctx, '2')
	require.NotNil(t, m.Main.Selected())
	assert.Equal(t, 2, m.Main.Selected().TGID)
	assert.Equal(t, "2", m.PIDSearchBuffer)

	ResetPIDSearch(ctx)
	assert.Empty(t, m.PIDSearchBuffer)
}
