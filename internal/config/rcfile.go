package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Low-power/htop-sub000/internal/field"
)

// rc file keys, per §6.3. Unknown keys are ignored on read; every
// known key except shadow_other_users (read and ignored) is always
// written on save so a hand diff against a fresh install is easy.
const (
	keyFields              = "fields"
	keySortKey             = "sort_key"
	keySortDirection       = "sort_direction"
	keyTreeView            = "tree_view"
	keyHideKernelProcesses = "hide_kernel_processes"
	keyHideThreadProcesses = "hide_thread_processes"
	keyShadowOtherUsers    = "shadow_other_users"
	keyHighlightBaseName   = "highlight_base_name"
	keyHighlightMegabytes  = "highlight_megabytes"
	keyHighlightThreads    = "highlight_threads"
	keyDelay               = "delay"
	keyColorScheme         = "color_scheme"
	keyLeftMeters          = "left_meters"
	keyRightMeters         = "right_meters"
	keyLeftMeterModes      = "left_meter_modes"
	keyRightMeterModes     = "right_meter_modes"
	keyViMode              = "vi_mode"
	keyUseMouse            = "use_mouse"
	keyShowDisks           = "show_disks"
)

// LoadRCFile reads a `key=value` settings file. A missing file is not
// an error (§7 "Settings read"): the caller gets back the defaults
// unchanged. Unparseable individual lines/keys are skipped, not fatal.
func LoadRCFile(path string, defaults *Settings) (*Settings, error) {
	s := defaults.Clone()
	s.Changed = false

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, nil // unreadable rc file is likewise non-fatal
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		applyRCKey(s, strings.TrimSpace(key), strings.TrimSpace(value))
	}

	return s, nil
}

func applyRCKey(s *Settings, key, value string) {
	switch key {
	case keyFields:
		s.Fields = parseFieldList(value)
	case keySortKey:
		// legacy rc files store a 0-origin column offset; +1 maps it to
		// our FieldID space, matching §8 scenario 6.
		if n, err := strconv.Atoi(value); err == nil {
			s.SortKey = field.FieldID(n + 1)
		}
	case keySortDirection:
		if n, err := strconv.Atoi(value); err == nil {
			if n < 0 {
				s.Direction = Descending
			} else {
				s.Direction = Ascending
			}
		}
	case keyTreeView:
		s.TreeView = parseBool(value)
		if s.TreeView {
			// §8 scenario 6: tree_view=1 forces ascending direction
			// internally regardless of the persisted sort_direction.
			s.Direction = Ascending
		}
	case keyHideKernelProcesses:
		s.HideKernelThreads = parseBool(value)
	case keyHideThreadProcesses:
		s.HideUserlandThreads = parseBool(value)
	case keyShadowOtherUsers:
		// accepted for interop and ignored: this build has no per-user
		// shadow setting, and SaveRCFile does not write the key back.
	case keyHighlightBaseName:
		s.HighlightBaseName = parseBool(value)
	case keyHighlightMegabytes:
		s.HighlightMegabytes = parseBool(value)
	case keyHighlightThreads:
		s.HighlightThreads = parseBool(value)
	case keyDelay:
		if n, err := strconv.Atoi(value); err == nil {
			s.Delay = clampDelay(n)
		}
	case keyColorScheme:
		if n, err := strconv.Atoi(value); err == nil {
			s.ColorScheme = n
		} else if n, ok := namedColorScheme(value); ok {
			s.ColorScheme = n
		}
	case keyLeftMeters:
		s.LeftMeters.Names = strings.Fields(value)
	case keyRightMeters:
		s.RightMeters.Names = strings.Fields(value)
	case keyLeftMeterModes:
		s.LeftMeters.Modes = strings.Fields(value)
	case keyRightMeterModes:
		s.RightMeters.Modes = strings.Fields(value)
	case keyViMode:
		s.ViMode = parseBool(value)
	case keyUseMouse:
		s.UseMouse = parseBool(value)
	case keyShowDisks:
		s.ShowDisks = parseBool(value)
	default:
		// unknown keys are ignored per §6.3
	}
}

func parseBool(v string) bool {
	return v == "1" || v == "true" || v == "yes"
}

func boolToRC(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func parseFieldList(value string) []field.FieldID {
	parts := strings.Fields(value)
	fields := make([]field.FieldID, 0, len(parts)+1)
	for _, p := range parts {
		if n, err := strconv.Atoi(p); err == nil {
			if n == int(field.FieldSentinel) {
				break
			}
			fields = append(fields, field.FieldID(n))
		}
	}
	fields = append(fields, field.FieldSentinel)
	return fields
}

func clampDelay(n int) int {
	if n < 1 {
		return 1
	}
	if n > 100 {
		return 100
	}
	return n
}

// SaveRCFile writes every recognized key, creating the file (and its
// parent directory) if missing, per §6.3.
func SaveRCFile(path string, s *Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	fieldInts := make([]string, 0, len(s.Fields))
	for _, id := range s.Fields {
		fieldInts = append(fieldInts, strconv.Itoa(int(id)))
	}

	fmt.Fprintf(w, "%s=%s\n", keyFields, strings.Join(fieldInts, " "))
	fmt.Fprintf(w, "%s=%d\n", keySortKey, int(s.SortKey)-1)
	fmt.Fprintf(w, "%s=%d\n", keySortDirection, int(s.Direction))
	fmt.Fprintf(w, "%s=%s\n", keyTreeView, boolToRC(s.TreeView))
	fmt.Fprintf(w, "%s=%s\n", keyHideKernelProcesses, boolToRC(s.HideKernelThreads))
	fmt.Fprintf(w, "%s=%s\n", keyHideThreadProcesses, boolToRC(s.HideUserlandThreads))
	fmt.Fprintf(w, "%s=%s\n", keyHighlightBaseName, boolToRC(s.HighlightBaseName))
	fmt.Fprintf(w, "%s=%s\n", keyHighlightMegabytes, boolToRC(s.HighlightMegabytes))
	fmt.Fprintf(w, "%s=%s\n", keyHighlightThreads, boolToRC(s.HighlightThreads))
	fmt.Fprintf(w, "%s=%d\n", keyDelay, s.Delay)
	fmt.Fprintf(w, "%s=%d\n", keyColorScheme, s.ColorScheme)
	fmt.Fprintf(w, "%s=%s\n", keyLeftMeters, strings.Join(s.LeftMeters.Names, " "))
	fmt.Fprintf(w, "%s=%s\n", keyRightMeters, strings.Join(s.RightMeters.Names, " "))
	fmt.Fprintf(w, "%s=%s\n", keyLeftMeterModes, strings.Join(s.LeftMeters.Modes, " "))
	fmt.Fprintf(w, "%s=%s\n", keyRightMeterModes, strings.Join(s.RightMeters.Modes, " "))
	fmt.Fprintf(w, "%s=%s\n", keyViMode, boolToRC(s.ViMode))
	fmt.Fprintf(w, "%s=%s\n", keyUseMouse, boolToRC(s.UseMouse))
	fmt.Fprintf(w, "%s=%s\n", keyShowDisks, boolToRC(s.ShowDisks))

	s.Changed = false
	return nil
}
