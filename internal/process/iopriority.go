package process

import "fmt"

// IOPriority packs the class (bits 13-14) and level (bits 0-2) the way
// the ioprio_get(2)/ioprio_set(2) ABI does, per original_source's
// IOPriority.h. -1 is the "none" sentinel (no I/O priority queried or
// the platform doesn't support one).
type IOPriority int32

const (
	IOPriorityNone IOPriority = -1

	ioPriorityClassShift = 13
	ioPriorityClassMask  = 0x07 << ioPriorityClassShift
	ioPriorityLevelMask  = 0x07

	IOPriorityClassNone      = 0
	IOPriorityClassRealtime  = 1
	IOPriorityClassBestEffort = 2
	IOPriorityClassIdle      = 3
)

// NewIOPriority packs a class and level into the combined ABI value.
func NewIOPriority(class, level int) IOPriority {
	return IOPriority((class << ioPriorityClassShift) | (level & ioPriorityLevelMask))
}

// Class extracts the scheduling class.
func (p IOPriority) Class() int {
	return int(p) >> ioPriorityClassShift & 0x07
}

// Level extracts the priority level within the class.
func (p IOPriority) Level() int {
	return int(p) & ioPriorityLevelMask
}

// String renders "R0".."R7", "B0".."B7", "id", or "none", matching
// §4.1's IOPRIO formatting contract.
func (p IOPriority) String() string {
	if p == IOPriorityNone {
		return "none"
	}
	switch p.Class() {
	case IOPriorityClassRealtime:
		return fmt.Sprintf("R%d", p.Level())
	case IOPriorityClassBestEffort:
		return fmt.Sprintf("B%d", p.Level())
	case IOPriorityClassIdle:
		return "id"
	default:
		return "none"
	}
}

// IsRealtime reports whether this priority should be rendered in the
// "RT class is highlighted" color per §4.1.
func (p IOPriority) IsRealtime() bool {
	return p != IOPriorityNone && p.Class() == IOPriorityClassRealtime
}
