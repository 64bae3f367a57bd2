//go:build linux

package disk

import (
	"time"

	"github.com/shirou/gopsutil/v4/disk"
)

// Scan refreshes every device's counters from gopsutil's per-device IO
// counters, the same library the process-side PlatformSource uses for
// host-level counters (SPEC_FULL.md §B).
func Scan(t *Table) error {
	t.MarkAllStale()

	counters, err := disk.IOCounters()
	if err != nil {
		return err
	}

	now := float64(time.Now().UnixNano()) / 1e9

	for name, c := range counters {
		r, _ := t.GetOrCreate(name)
		r.PhysPath = "/dev/" + name
		r.DevID = name
		r.BlockSize = 512
		r.UpdateRates(c.ReadCount, c.WriteCount, c.ReadBytes, c.WriteBytes, c.IoTime, now)
		r.MarkUpdated()
	}

	t.SweepStale()
	return nil
}
