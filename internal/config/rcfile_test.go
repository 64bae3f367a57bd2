package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Low-power/htop-sub000/internal/field"
)

// TestSaveLoadRoundTrip is the §8 property: load(save(s)) == s for
// every recognized field, when s's TreeView/Direction pairing is
// already internally consistent.
func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "htopgorc")

	s := DefaultSettings()
	s.Delay = 42
	s.SortKey = field.FieldResident
	s.Direction = Descending
	s.TreeView = false
	s.HideKernelThreads = true
	s.HighlightMegabytes = false
	s.ColorScheme = 3
	s.LeftMeters = HeaderMeterColumn{Names: []string{"LeftCPUs", "Memory"}, Modes: []string{"bar", "bar"}}
	s.RightMeters = HeaderMeterColumn{Names: []string{"Tasks"}, Modes: []string{"text"}}
	s.ViMode = true
	s.UseMouse = false
	s.ShowDisks = true

	require.NoError(t, SaveRCFile(path, s))

	loaded, err := LoadRCFile(path, DefaultSettings())
	require.NoError(t, err)

	assert.True(t, s.Equal(loaded), "round-tripped settings differ: saved=%+v loaded=%+v", s, loaded)
}

// TestTreeViewForcesAscendingDirection is §8 scenario 6: a persisted
// tree_view=1 always normalizes Direction to Ascending on load,
// regardless of what sort_direction was also saved.
func TestTreeViewForcesAscendingDirection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "htopgorc")

	s := DefaultSettings()
	s.TreeView = true
	s.Direction = Descending
	require.NoError(t, SaveRCFile(path, s))

	loaded, err := LoadRCFile(path, DefaultSettings())
	require.NoError(t, err)
	assert.True(t, loaded.TreeView)
	assert.Equal(t, Ascending, loaded.Direction)
}

// TestLegacySortKeyOffset exercises the §8 scenario 6 legacy-rc
// migration rule: a 0-origin sort_key column offset loads as offset+1
// in this build's FieldID space.
func TestLegacySortKeyOffset(t *testing.T) {
	s := DefaultSettings()
	applyRCKey(s, "sort_key", "4")
	assert.Equal(t, field.FieldID(5), s.SortKey)
}

// TestLoadMissingFileReturnsDefaults is §7's "Settings read: a missing
// file is not an error" rule.
func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	loaded, err := LoadRCFile(filepath.Join(t.TempDir(), "does-not-exist"), DefaultSettings())
	require.NoError(t, err)
	assert.True(t, DefaultSettings().Equal(loaded))
}

// TestUnknownKeysAreIgnored ensures stray/future keys don't abort
// parsing of the rest of the file.
func TestUnknownKeysAreIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "htopgorc")
	content := "some_future_key=banana\ndelay=25\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loaded, err := LoadRCFile(path, DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, 25, loaded.Delay)
}

func TestClampDelay(t *testing.T) {
	assert.Equal(t, 1, clampDelay(0))
	assert.Equal(t, 1, clampDelay(-5))
	assert.Equal(t, 100, clampDelay(500))
	assert.Equal(t, 50, clampDelay(50))
}
