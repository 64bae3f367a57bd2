package gui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Low-power/htop-sub000/internal/pipeline"
)

// TestSelectByTypingCaseInsensitiveRestartOnMiss is the §8 example:
// given rows ["Abc", "xBcd", "xyz"], typing a prefix matches
// case-insensitively and a miss leaves selection untouched.
func TestSelectByTypingCaseInsensitiveRestartOnMiss(t *testing.T) {
	p := panelWithNames("Abc", "xBcd", "xyz")

	require.True(t, p.SelectByTyping("ab"))
	assert.Equal(t, 0, p.selection)

	require.True(t, p.SelectByTyping("XB"))
	assert.Equal(t, 1, p.selection)

	before := p.selection
	assert.False(t, p.SelectByTyping("nomatch"))
	assert.Equal(t, before, p.selection, "a miss must not move the selection")
}

func TestSelectByTypingEmptyPrefixIsNoop(t *testing.T) {
	p := panelWithNames("Abc", "xBcd")
	p.selection = 1
	assert.False(t, p.SelectByTyping(""))
	assert.Equal(t, 1, p.selection)
}

func TestMoveUpDownClampToBounds(t *testing.T) {
	p := panelWithNames("a", "b", "c")
	p.MoveDown(100)
	assert.Equal(t, 2, p.selection)
	p.MoveUp(100)
	assert.Equal(t, 0, p.selection)
}

func TestMoveToTopAndBottom(t *testing.T) {
	p := panelWithNames("a", "b", "c", "d")
	p.MoveToBottom()
	assert.Equal(t, 3, p.selection)
	p.MoveToTop()
	assert.Equal(t, 0, p.selection)
}

func TestSetRowsClampsSelectionWhenShrinking(t *testing.T) {
	p := panelWithNames("a", "b", "c", "d", "e")
	p.selection = 4
	p.SetRows([]pipeline.Row(nil))
	assert.Equal(t, 0, p.selection)
}

func TestToggleTagAndUntagAll(t *testing.T) {
	p := panelWithNames("a", "b")
	p.selection = 0
	p.ToggleTagSelected()
	assert.True(t, p.IsTagged(1))
	p.ToggleTagSelected()
	assert.False(t, p.IsTagged(1))

	p.selection = 1
	p.ToggleTagSelected()
	assert.ElementsMatch(t, []int{2}, p.TaggedPIDs())
	p.UntagAll()
	assert.Empty(t, p.TaggedPIDs())
}

func TestSelectByPID(t *testing.T) {
	p := panelWithNames("a", "b", "c")
	assert.True(t, p.SelectByPID(2))
	assert.Equal(t, 1, p.selection)
	assert.False(t, p.SelectByPID(999))
}
