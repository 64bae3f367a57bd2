package gui

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/Low-power/htop-sub000/internal/platform"
	"github.com/Low-power/htop-sub000/internal/process"
)

// infoScreenKind selects which InfoScreen template a "show more" key
// opens (§4.10).
type infoScreenKind int

const (
	infoScreenArg infoScreenKind = iota
	infoScreenEnv
	infoScreenOpenFiles
	infoScreenTrace
	infoScreenKernelStack
)

// InfoScreen is a scrollable (not searchable) read-only text panel bound to
// one process: command-line args, environment, open files, a live
// trace, or the kernel stack (§4.10).
type InfoScreen struct {
	Title string
	Lines []string

	// scrollTop is the first visible line, moved by the up/down/pgup/
	// pgdn bindings while this screen is the active view (§4.10).
	scrollTop int

	// traceCmd is non-nil for a live trace screen: a background
	// goroutine scans traceCmd's stderr and feeds traceLines, which
	// Poll drains without blocking the main loop.
	traceCmd   *exec.Cmd
	tracePipe  io.ReadCloser
	traceLines chan string
}

// ScrollUp moves the viewport's top line up by n, clamped at 0.
func (s *InfoScreen) ScrollUp(n int) {
	s.scrollTop -= n
	if s.scrollTop < 0 {
		s.scrollTop = 0
	}
}

// ScrollDown moves the viewport's top line down by n, clamped so at
// least one line stays visible.
func (s *InfoScreen) ScrollDown(n int) {
	s.scrollTop += n
	if max := len(s.Lines) - 1; s.scrollTop > max {
		s.scrollTop = max
	}
	if s.scrollTop < 0 {
		s.scrollTop = 0
	}
}

// VisibleLines returns Lines from the current scroll position onward.
func (s *InfoScreen) VisibleLines() []string {
	if s.scrollTop >= len(s.Lines) {
		return nil
	}
	return s.Lines[s.scrollTop:]
}

// OpenInfoScreen builds the InfoScreen for kind against rec using src
// to perform the privileged reads (§5 "scoped privilege acquisition").
func OpenInfoScreen(kind infoScreenKind, rec *process.ProcessRecord, src platform.Source) (*InfoScreen, error) {
	switch kind {
	case infoScreenArg:
		argv, ok := src.ReadArgv(rec.PID)
		if !ok {
			return nil, fmt.Errorf("could not read command line for pid %d", rec.PID)
		}
		return &InfoScreen{Title: fmt.Sprintf("Command line of %d", rec.PID), Lines: argv}, nil

	case infoScreenEnv:
		env, ok := src.ReadEnv(rec.PID)
		if !ok {
			return nil, fmt.Errorf("could not read environment for pid %d (permission denied?)", rec.PID)
		}
		return &InfoScreen{Title: fmt.Sprintf("Environment of %d", rec.PID), Lines: env}, nil

	case infoScreenKernelStack:
		stack, ok := src.ReadKernelStack(rec.PID)
		if !ok {
			return nil, fmt.Errorf("could not read kernel stack for pid %d", rec.PID)
		}
		return &InfoScreen{Title: fmt.Sprintf("Kernel stack trace of %d", rec.PID), Lines: stack}, nil

	case infoScreenOpenFiles:
		return openOpenFilesScreen(rec)

	case infoScreenTrace:
		return openTraceScreen(rec)
	}
	return nil, fmt.Errorf("unknown info screen kind %d", kind)
}

// openOpenFilesScreen shells out to lsof -F, parsing its field-prefixed
// output format (one token per line, first byte names the field).
func openOpenFilesScreen(rec *process.ProcessRecord) (*InfoScreen, error) {
	out, err := exec.Command("lsof", "-p", fmt.Sprintf("%d", rec.PID), "-F", "fan").Output()
	if err != nil {
		return nil, fmt.Errorf("lsof failed: %w", err)
	}
	lines := parseLsofF(string(out))
	return &InfoScreen{Title: fmt.Sprintf("Open files of %d", rec.PID), Lines: lines}, nil
}

// parseLsofF turns lsof's -F field-identifier output into one
// human-readable "fd  name" line per open file descriptor.
func parseLsofF(raw string) []string {
	var out []string
	var fd, name string
	flush := func() {
		if fd != "" || name != "" {
			out = append(out, fmt.Sprintf("%-6s %s", fd, name))
		}
	}
	for _, line := range strings.Split(raw, "\n") {
		if line == "" {
			continue
		}
		switch line[0] {
		case 'p':
			continue
		case 'f':
			flush()
			fd = line[1:]
			name = ""
		case 'n':
			name = line[1:]
		}
	}
	flush()
	return out
}

// openTraceScreen launches a non-blocking syscall tracer against
// rec.PID and wires its stderr (where strace writes) as a growing line
// buffer; Gui.sampleLoop calls Poll each tick to drain it (§4.10
// "live trace").
func openTraceScreen(rec *process.ProcessRecord) (*InfoScreen, error) {
	tracer := "strace"
	if _, err := exec.LookPath(tracer); err != nil {
		if _, err2 := exec.LookPath("truss"); err2 == nil {
			tracer = "truss"
		} else {
			return nil, fmt.Errorf("no syscall tracer (strace/truss) found in PATH")
		}
	}

	cmd := exec.Command(tracer, "-p", fmt.Sprintf("%d", rec.PID))
	pipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	scr := &InfoScreen{
		Title:      fmt.Sprintf("Trace of %d", rec.PID),
		traceCmd:   cmd,
		tracePipe:  pipe,
		traceLines: make(chan string, 4096),
	}
	go func() {
		scanner := bufio.NewScanner(pipe)
		for scanner.Scan() {
			scr.traceLines <- scanner.Text()
		}
		close(scr.traceLines)
	}()
	return scr, nil
}

// Poll drains whatever trace output has arrived without blocking the
// main loop; it should be called once per idle tick while a trace
// screen is the active view.
func (s *InfoScreen) Poll() {
	if s.traceLines == nil {
		return
	}
	for {
		select {
		case line, ok := <-s.traceLines:
			if !ok {
				s.traceLines = nil
				return
			}
			s.Lines = append(s.Lines, line)
		default:
			return
		}
	}
}

// Close terminates any background tracer process.
func (s *InfoScreen) Close() {
	if s.traceCmd != nil && s.traceCmd.Process != nil {
		s.traceCmd.Process.Kill()
		s.traceCmd.Wait()
	}
}
