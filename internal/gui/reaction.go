package gui

// Reaction is the bitwise-OR result an Action returns, telling
// MainLoopController what to redo (§4.9).
type Reaction int

const (
	OK             Reaction = 0
	Refresh        Reaction = 1 << 0
	Recalculate    Reaction = Refresh | 1<<1
	SaveSettings   Reaction = 1 << 2
	KeepFollowing  Reaction = 1 << 3
	Quit           Reaction = 1 << 4
	RedrawBar      Reaction = 1 << 5
	UpdatePanelHdr Reaction = Refresh | 1<<6
)

// Has reports whether flag is set in r.
func (r Reaction) Has(flag Reaction) bool { return r&flag == flag }
