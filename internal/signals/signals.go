// Package signals holds the static name/number table the signal
// picker (§4.9 "F9/k") and the CLI need. Linux signal numbering is
// fixed ABI, so this is a plain table rather than a syscall lookup,
// the same approach arctir-proctor's plib package takes for its own
// Signal enumeration.
package signals

// Signal pairs a POSIX signal name with its Linux signal number.
type Signal struct {
	Name   string
	Number int
}

// Table is the ordered list PlatformSource.Signals() (§6.1) returns
// on Linux. Order matches the traditional kill(1)/signal(7) listing;
// the signal picker preselects SIGTERM per §C's supplemented
// "Signal picker default selection" behavior.
var Table = []Signal{
	{"SIGHUP", 1},
	{"SIGINT", 2},
	{"SIGQUIT", 3},
	{"SIGILL", 4},
	{"SIGTRAP", 5},
	{"SIGABRT", 6},
	{"SIGBUS", 7},
	{"SIGFPE", 8},
	{"SIGKILL", 9},
	{"SIGUSR1", 10},
	{"SIGSEGV", 11},
	{"SIGUSR2", 12},
	{"SIGPIPE", 13},
	{"SIGALRM", 14},
	{"SIGTERM", 15},
	{"SIGSTKFLT", 16},
	{"SIGCHLD", 17},
	{"SIGCONT", 18},
	{"SIGSTOP", 19},
	{"SIGTSTP", 20},
	{"SIGTTIN", 21},
	{"SIGTTOU", 22},
	{"SIGURG", 23},
	{"SIGXCPU", 24},
	{"SIGXFSZ", 25},
	{"SIGVTALRM", 26},
	{"SIGPROF", 27},
	{"SIGWINCH", 28},
	{"SIGIO", 29},
	{"SIGPWR", 30},
	{"SIGSYS", 31},
}

// DefaultIndex is the index of SIGTERM in Table, the picker's initial
// selection (§C).
const DefaultIndex = 14

// ByName looks up a signal by its bare name ("TERM") or full name
// ("SIGTERM"), case-sensitively, returning (0, false) on no match.
func ByName(name string) (int, bool) {
	for _, s := range Table {
		if s.Name == name || s.Name == "SIG"+name {
			return s.Number, true
		}
	}
	return 0, false
}
