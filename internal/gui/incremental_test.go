package gui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Low-power/htop-sub000/internal/pipeline"
	"github.com/Low-power/htop-sub000/internal/process"
)

func panelWithNames(names ...string) *Panel {
	p := NewPanel(0, 0, 80, 10)
	rows := make([]pipeline.Row, len(names))
	for i, n := range names {
		rows[i] = pipeline.Row{Record: &process.ProcessRecord{PID: i + 1, TGID: i + 1, Name: n}}
	}
	p.SetRows(rows)
	return p
}

// TestIncrementalSeekFindsFirstMatch checks that typing a search
// prefix selects the first row whose name contains it, and that
// extending the buffer keeps that row while it still matches.
func TestIncrementalSeekFindsFirstMatch(t *testing.T) {
	p := panelWithNames("Abc", "xBcd", "xyz")
	inc := &Incremental{}
	inc.Begin(IncModeSearch)

	inc.HandleKey(p, 'b', false)
	require.True(t, inc.Found)
	assert.Equal(t, 0, p.Selected().TGID-1, "expected row 0 (Abc) to match 'b'")

	// typing "bc" should still match row 0.
	inc.HandleKey(p, 'c', false)
	require.True(t, inc.Found)
	assert.Equal(t, 0, p.Selected().TGID-1)
}

func TestIncrementalSeekWrapsToBeginning(t *testing.T) {
	p := panelWithNames("alpha", "beta", "gamma")
	p.selection = 2 // start at "gamma"

	inc := &Incremental{}
	inc.Begin(IncModeSearch)
	inc.HandleKey(p, 'l', false) // "gamma" lacks 'l'; matches "alpha" (row 0) after wrap
	assert.True(t, inc.Found)
	assert.Equal(t, 0, p.selection)
}

func TestIncrementalSeekNotFoundLeavesSelectionUnchanged(t *testing.T) {
	p := panelWithNames("alpha", "beta", "gamma")
	p.selection = 1
	inc := &Incremental{}
	inc.Begin(IncModeSearch)

	inc.HandleKey(p, 'z', false)
	inc.HandleKey(p, 'z', false)
	assert.False(t, inc.Found)
	assert.Equal(t, 1, p.selection, "selection should not move when nothing matches")
}

func TestIncrementalNextWrapsOnce(t *testing.T) {
	p := panelWithNames("task", "other", "task2")
	inc := &Incremental{}
	inc.Begin(IncModeSearch)
	inc.HandleKey(p, 't', false)
	require.True(t, inc.Found)
	first := p.selection

	inc.Next(p)
	require.True(t, inc.Found)
	assert.NotEqual(t, first, p.selection)

	// repeated Next() eventually wraps back without ever getting stuck.
	seenSelections := map[int]bool{p.selection: true}
	for i := 0; i < len(p.Rows)+1; i++ {
		inc.Next(p)
		seenSelections[p.selection] = true
	}
	assert.LessOrEqual(t, len(seenSelections), len(p.Rows))
}

func TestIncrementalBackspaceShrinksBuffer(t *testing.T) {
	inc := &Incremental{}
	inc.Begin(IncModeSearch)
	p := panelWithNames("alpha")
	inc.HandleKey(p, 'a', false)
	inc.HandleKey(p, 'b', false)
	assert.Equal(t, "ab", inc.Buffer)
	inc.HandleKey(p, 0, true)
	assert.Equal(t, "a", inc.Buffer)
}
