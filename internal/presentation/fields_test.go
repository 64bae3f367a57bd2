package presentation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Low-power/htop-sub000/internal/richstring"
)

func TestHumanizeKBScalesUnits(t *testing.T) {
	cases := []struct {
		kb    uint64
		text  string
		large bool
	}{
		{500, "500.0K", false},
		{1500, "1.5M", false},
		{2_500_000, "2.5G", true},
		{3_500_000_000, "3.5T", true},
	}
	for _, c := range cases {
		text, large := humanizeKB(c.kb)
		assert.Equal(t, c.text, text)
		assert.Equal(t, c.large, large)
	}
}

func TestWritePercentFormatsByMagnitude(t *testing.T) {
	cases := []struct {
		pct  float64
		want string
	}{
		{5.27, " 5.3 "},
		{150, "150. "},
		{1234, "1234 "},
	}
	for _, c := range cases {
		out := richstring.New()
		writePercent(out, c.pct)
		assert.Equal(t, c.want, out.Plain())
	}
}

func TestWritePercentNaNBecomesZero(t *testing.T) {
	out := richstring.New()
	writePercent(out, nanValue())
	assert.Equal(t, " 0.0 ", out.Plain())
}

func nanValue() float64 {
	var zero float64
	return zero / zero
}

func TestWriteTimeUnderHourUsesMinutesSeconds(t *testing.T) {
	out := richstring.New()
	writeTime(out, 61*100+50) // 1:01.50
	assert.Equal(t, " 1:01.50", out.Plain())
}

func TestWriteTimeOverHourUsesHoursMinutesSeconds(t *testing.T) {
	out := richstring.New()
	writeTime(out, (2*3600+5*60+9)*100)
	assert.Equal(t, "  2:05:09", out.Plain())
}

func TestWriteTreePrefixLastChildUsesCorner(t *testing.T) {
	out := richstring.New()
	WriteTreePrefix(out, 1, 0, true, false, false, false, true)
	assert.Equal(t, "  └──", out.Plain())
}

func TestWriteTreePrefixCollapsedChildrenShowPlus(t *testing.T) {
	out := richstring.New()
	WriteTreePrefix(out, 1, 0, true, true, false, false, true)
	assert.Equal(t, "  └─+", out.Plain())
}

func TestWriteTreePrefixRootHasNoGlyph(t *testing.T) {
	out := richstring.New()
	WriteTreePrefix(out, 0, 0, true, false, false, false, true)
	assert.Empty(t, out.Plain())
}
