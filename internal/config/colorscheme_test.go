package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Low-power/htop-sub000/internal/richstring"
)

func TestBuiltinSchemesCoverEverySchemeName(t *testing.T) {
	schemes := BuiltinSchemes()
	require.Len(t, schemes, len(schemeNames))
	for i, s := range schemes {
		assert.Equal(t, i, s.Index)
		assert.Equal(t, schemeNames[i], s.Name)
	}
}

func TestMonochromeSchemeHasNoForegroundColors(t *testing.T) {
	schemes := BuiltinSchemes()
	mono := schemes[Monochrome]
	style := mono.Resolve(richstring.ColorProcessRunning)
	assert.Empty(t, style.Fg)
}

func TestResolveUnknownSlotReturnsZeroValue(t *testing.T) {
	cs := &ColorScheme{}
	assert.Equal(t, AnsiStyle{}, cs.Resolve(richstring.ColorDefault))
}

func TestResolveOnNilSchemeReturnsZeroValue(t *testing.T) {
	var cs *ColorScheme
	assert.Equal(t, AnsiStyle{}, cs.Resolve(richstring.ColorProcessRunning))
}

func TestSchemeByIndexFallsBackToDefault(t *testing.T) {
	schemes := BuiltinSchemes()
	assert.Same(t, schemes[0], SchemeByIndex(schemes, 999))
	assert.Same(t, schemes[0], SchemeByIndex(schemes, -1))
	assert.Same(t, schemes[2], SchemeByIndex(schemes, 2))
}

func TestNamedColorSchemeLookup(t *testing.T) {
	idx, ok := namedColorScheme("midnight")
	require.True(t, ok)
	assert.Equal(t, 4, idx)

	_, ok = namedColorScheme("not-a-scheme")
	assert.False(t, ok)
}
