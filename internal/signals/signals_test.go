package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIndexIsSIGTERM(t *testing.T) {
	require.Less(t, DefaultIndex, len(Table))
	assert.Equal(t, "SIGTERM", Table[DefaultIndex].Name)
	assert.Equal(t, 15, Table[DefaultIndex].Number)
}

func TestByNameAcceptsBareAndFullNames(t *testing.T) {
	n, ok := ByName("SIGKILL")
	require.True(t, ok)
	assert.Equal(t, 9, n)

	n, ok = ByName("KILL")
	require.True(t, ok)
	assert.Equal(t, 9, n)
}

func TestByNameUnknownReturnsFalse(t *testing.T) {
	_, ok := ByName("NOTASIGNAL")
	assert.False(t, ok)
}

func TestTableHasNoDuplicateNumbers(t *testing.T) {
	seen := make(map[int]bool)
	for _, s := range Table {
		assert.False(t, seen[s.Number], "duplicate signal number %d", s.Number)
		seen[s.Number] = true
	}
}
