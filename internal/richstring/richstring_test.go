package richstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendAccumulatesWidth(t *testing.T) {
	r := New()
	r.Append("abc", ColorDefault)
	r.Append("de", ColorProcessTag)
	assert.Equal(t, 5, r.Width())
	assert.Equal(t, "abcde", r.Plain())
}

func TestAppendPaddedPadsShortText(t *testing.T) {
	r := New()
	r.AppendPadded("ab", 5, ColorDefault)
	assert.Equal(t, 5, r.Width())
	assert.Equal(t, "ab   ", r.Plain())
}

func TestAppendPaddedTruncatesLongText(t *testing.T) {
	r := New()
	r.AppendPadded("abcdef", 3, ColorDefault)
	assert.Equal(t, 3, r.Width())
	assert.Equal(t, "abc", r.Plain())
}

func TestAppendPaddedExactWidthIsUnchanged(t *testing.T) {
	r := New()
	r.AppendPadded("abc", 3, ColorDefault)
	assert.Equal(t, "abc", r.Plain())
}

func TestTruncateClipsAcrossRuns(t *testing.T) {
	r := New()
	r.Append("hello", ColorDefault)
	r.Append("world", ColorProcessTag)
	r.Truncate(7)
	assert.Equal(t, 7, r.Width())
	assert.Equal(t, "hellowo", r.Plain())
}

func TestTruncateNoopWhenAlreadyShort(t *testing.T) {
	r := New()
	r.Append("hi", ColorDefault)
	r.Truncate(10)
	assert.Equal(t, 2, r.Width())
}

func TestResetClearsRuns(t *testing.T) {
	r := New()
	r.Append("hi", ColorDefault)
	r.Reset()
	assert.Equal(t, 0, r.Width())
	assert.Empty(t, r.Plain())
}

func TestEmptyAppendIsNoop(t *testing.T) {
	r := New()
	r.Append("", ColorDefault)
	assert.Equal(t, 0, r.Width())
	assert.Empty(t, r.Runs())
}

func TestRunsExposesColors(t *testing.T) {
	r := New()
	r.Append("a", ColorDefault)
	r.Append("b", ColorProcessTag)
	runs := r.Runs()
	assert.Len(t, runs, 2)
	assert.Equal(t, ColorProcessTag, runs[1].Color)
}
