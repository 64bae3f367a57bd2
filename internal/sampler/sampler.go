// Package sampler implements the SamplingEngine (§4.3): one scan is
// mark-stale, reset counters, delegate to the PlatformSource, then
// sweep whatever the platform source didn't touch this round.
package sampler

import (
	"github.com/sirupsen/logrus"

	"github.com/Low-power/htop-sub000/internal/config"
	"github.com/Low-power/htop-sub000/internal/platform"
	"github.com/Low-power/htop-sub000/internal/process"
)

// Engine owns the ProcessTable and UserTable and drives one platform
// source (§2 "SamplingEngine owns the ProcessTable and delegates
// enumeration to PlatformSource").
type Engine struct {
	Table    *process.ProcessTable
	Users    *process.UserTable
	Source   platform.Source
	Settings *config.Settings
	log      *logrus.Entry

	lastScanMonotonic float64
}

// New returns an Engine over a fresh table.
func New(src platform.Source, settings *config.Settings, log *logrus.Entry) *Engine {
	return &Engine{
		Table:    process.NewProcessTable(),
		Users:    process.NewUserTable(),
		Source:   src,
		Settings: settings,
		log:      log,
	}
}

// Scan performs one sampling pass per §4.3's five steps.
// skipProcesses is true when the caller only wants the aggregate
// counters refreshed (e.g. the disk-only subscan interleave described
// in §4.8 step 2a).
func (e *Engine) Scan(intervalSeconds float64, skipProcesses bool) {
	e.Table.MarkAllStale()
	e.Table.Counters.Reset()

	if err := e.Source.Enumerate(e.Table, e.Users, intervalSeconds, skipProcesses); err != nil {
		if e.log != nil {
			e.log.WithError(err).Warn("sampler: enumerate failed, keeping previous table")
		}
		return
	}

	if !skipProcesses {
		e.Table.SweepStale()
	}
}
