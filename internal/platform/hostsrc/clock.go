//go:build linux

package hostsrc

import "time"

// clockBase anchors monotonicSeconds; time.Since uses the monotonic
// clock reading that time.Now carries.
var clockBase = time.Now()

// monotonicSeconds is the sample timestamp fed to UpdatePercentCPU/
// UpdateIORates: seconds since clockBase, measured on the monotonic
// clock, so elapsed times between samples are immune to wall-clock
// adjustments.
func monotonicSeconds() float64 {
	return time.Since(clockBase).Seconds()
}
