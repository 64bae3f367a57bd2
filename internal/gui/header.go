package gui

import (
	"fmt"

	"github.com/Low-power/htop-sub000/internal/config"
	"github.com/Low-power/htop-sub000/internal/platform"
	"github.com/Low-power/htop-sub000/internal/process"
	"github.com/Low-power/htop-sub000/internal/richstring"
)

// Meter is the minimal contract §4 calls out as "MeterSet (contract
// only)": a header widget sourcing one or more numeric values, drawn
// as one text line. Bar/graph/LED rendering math is out of scope
// (§1); this repo renders every meter as its text form.
type Meter struct {
	Class platform.MeterClass
	Mode  string
}

// Header owns the two meter columns and renders them against the
// current AggregateCounters each rebuild (§2 "ScreenManager owns the
// Header").
type Header struct {
	Left  []Meter
	Right []Meter
}

// NewHeader builds the default header layout for a platform, following
// SPEC_FULL.md §C's CPU-count-dependent selection and falling back to
// Settings.Left/RightMeters when the rc file customized them.
func NewHeader(src platform.Source, s *config.Settings) *Header {
	h := &Header{}
	if len(s.LeftMeters.Names) > 0 || len(s.RightMeters.Names) > 0 {
		h.Left = buildFromNames(s.LeftMeters)
		h.Right = buildFromNames(s.RightMeters)
		return h
	}

	for _, class := range src.MeterTypes() {
		switch class {
		case platform.MeterAllCPUs, platform.MeterAllCPUs2:
			h.Left = append(h.Left, Meter{Class: class, Mode: "bar"})
		case platform.MeterLeftCPUs:
			h.Left = append(h.Left, Meter{Class: class, Mode: "bar"})
		case platform.MeterRightCPUs:
			h.Right = append(h.Right, Meter{Class: class, Mode: "bar"})
		}
	}
	h.Left = append(h.Left, Meter{Class: platform.MeterMemory, Mode: "bar"})
	if src.HasSwap() {
		h.Left = append(h.Left, Meter{Class: platform.MeterSwap, Mode: "bar"})
	}
	h.Right = append(h.Right,
		Meter{Class: platform.MeterTasks, Mode: "text"},
		Meter{Class: platform.MeterLoadAverage, Mode: "text"},
		Meter{Class: platform.MeterUptime, Mode: "text"},
	)
	return h
}

func buildFromNames(col config.HeaderMeterColumn) []Meter {
	out := make([]Meter, 0, len(col.Names))
	for i, name := range col.Names {
		mode := "text"
		if i < len(col.Modes) {
			mode = col.Modes[i]
		}
		out = append(out, Meter{Class: platform.MeterClass(name), Mode: mode})
	}
	return out
}

// RenderColumn produces the text lines for one header column, reading
// live values from counters.
func RenderColumn(meters []Meter, counters *process.AggregateCounters) []*richstring.RichString {
	lines := make([]*richstring.RichString, 0, len(meters))
	for _, m := range meters {
		rs := richstring.New()
		rs.Append(renderMeterText(m, counters), richstring.ColorDefault)
		lines = append(lines, rs)
	}
	return lines
}

func renderMeterText(m Meter, c *process.AggregateCounters) string {
	switch m.Class {
	case platform.MeterAllCPUs, platform.MeterAllCPUs2, platform.MeterLeftCPUs, platform.MeterRightCPUs:
		return fmt.Sprintf("CPU: %d cores", c.CPUCount)
	case platform.MeterMemory:
		return fmt.Sprintf("Mem: %d/%dK", c.UsedMemKB, c.TotalMemKB)
	case platform.MeterSwap:
		return fmt.Sprintf("Swp: %d/%dK", c.UsedSwapKB, c.TotalSwapKB)
	case platform.MeterTasks:
		return fmt.Sprintf("Tasks: %d, %d running", c.TotalTasks, c.RunningProcessCount)
	case platform.MeterLoadAverage:
		return fmt.Sprintf("Load average: %.2f %.2f %.2f", c.LoadAverage1, c.LoadAverage5, c.LoadAverage15)
	case platform.MeterUptime:
		return fmt.Sprintf("Uptime: %s", formatUptime(c.UptimeSeconds))
	default:
		return string(m.Class)
	}
}

func formatUptime(seconds uint64) string {
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	if days > 0 {
		return fmt.Sprintf("%d days, %02d:%02d", days, hours, minutes)
	}
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}
