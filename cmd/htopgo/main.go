// Command htopgo is the CLI entry point (§6.2): it parses flags with
// flaggy, assembles the AppConfig/Settings/PlatformSource/Sampler
// trio, and either prints a one-shot listing (`-s help`) or hands off
// to the interactive gui.Gui, the same top-level shape as the
// reference TUI's own main.go.
package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"os/user"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/go-errors/errors"
	"github.com/integrii/flaggy"
	"github.com/jesseduffield/yaml"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/Low-power/htop-sub000/internal/applog"
	"github.com/Low-power/htop-sub000/internal/config"
	"github.com/Low-power/htop-sub000/internal/field"
	"github.com/Low-power/htop-sub000/internal/gui"
	"github.com/Low-power/htop-sub000/internal/pipeline"
	"github.com/Low-power/htop-sub000/internal/platform/hostsrc"
	"github.com/Low-power/htop-sub000/internal/sampler"
)

const defaultVersion = "unversioned"

var (
	commit      string
	version     = defaultVersion
	date        string
	buildSource = "unknown"

	noColorFlag      bool
	delayFlag        string
	sortKeyFlag      string
	treeFlag         bool
	userFlag         string
	pidFlag          string
	explicitDelay    bool
	dumpConfigFlag   bool
	debuggingFlag    bool
)

func main() {
	updateBuildInfo()

	info := fmt.Sprintf(
		"%s\nDate: %s\nBuildSource: %s\nCommit: %s\nOS: %s\nArch: %s",
		version, date, buildSource, commit, runtime.GOOS, runtime.GOARCH,
	)

	flaggy.SetName("htopgo")
	flaggy.SetDescription("An interactive process and resource monitor")
	flaggy.DefaultParser.AdditionalHelpPrepend = "https://github.com/Low-power/htop-sub000"

	flaggy.Bool(&noColorFlag, "C", "no-color", "Disable color output")
	flaggy.String(&delayFlag, "d", "delay", "Delay between updates, in tenths of a second (1-100)")
	flaggy.String(&sortKeyFlag, "s", "sort-key", "Column to sort by, or 'help' to list every sortable field")
	flaggy.Bool(&treeFlag, "t", "tree", "Start in tree view")
	flaggy.String(&userFlag, "u", "user", "Show only processes of a given user")
	flaggy.String(&pidFlag, "p", "pid", "Show only the given comma-separated PIDs")
	flaggy.Bool(&explicitDelay, "", "explicit-delay", "Use an explicit sleep instead of a half-delay terminal read")
	flaggy.Bool(&dumpConfigFlag, "c", "dump-config", "Print the in-memory Settings defaults as YAML and exit")
	flaggy.Bool(&debuggingFlag, "", "debug", "Enable debug logging to the config-directory log file")
	flaggy.SetVersion(info)

	flaggy.Parse()

	if noColorFlag {
		color.NoColor = true
	}

	if dumpConfigFlag {
		dumpDefaultConfig()
		os.Exit(0)
	}

	if sortKeyFlag == "help" {
		printSortFields()
		os.Exit(0)
	}

	appCfg, err := config.NewAppConfig("htopgo", version, commit, date, buildSource, debuggingFlag)
	if err != nil {
		fatal(err, 2)
	}

	logEntry := applog.New(appCfg)

	if err := appCfg.MigrateLegacyRCFile(); err != nil {
		logEntry.WithError(err).Warn("legacy rc file migration failed")
	}

	settings, err := config.LoadRCFile(appCfg.RCFilename(), config.DefaultSettings())
	if err != nil {
		// §7 "Settings read": unreadable/unparseable is never fatal.
		settings = config.DefaultSettings()
	}

	if err := applyCLIOverrides(settings); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(-1)
	}

	src, err := hostsrc.New("")
	if err != nil {
		fmt.Fprintln(os.Stderr, "htopgo: procfs unreadable:", err)
		os.Exit(1)
	}

	eng := sampler.New(src, settings, logEntry)
	eng.Scan(0, false)

	filter := pipeline.Filter{}
	if pidFlag != "" {
		filter.PIDWhitelist = parsePIDWhitelist(pidFlag)
	}
	if userFlag != "" {
		if uid, ok := lookupUID(userFlag); ok {
			filter.HasUserFilter = true
			filter.UID = uid
		}
	}

	g := gui.NewGui(logEntry, appCfg, settings, src, eng, eng.Table, eng.Users)
	g.Manager.Filter = filter

	if err := g.Run(); err != nil {
		wrapped := errors.Wrap(err, 0)
		logEntry.WithError(wrapped).Error("fatal error in gui main loop")
		fatal(wrapped, 2)
	}
}

// fatal prints a one-line diagnostic to stderr (the terminal has
// already been torn down by gocui's deferred Close by the time this
// runs) and exits with the given code, per §7 "Fatal" kind.
func fatal(err error, code int) {
	fmt.Fprintln(os.Stderr, "htopgo: fatal:", err.Error())
	os.Exit(code)
}

func applyCLIOverrides(s *config.Settings) error {
	if delayFlag != "" {
		n, err := strconv.Atoi(delayFlag)
		if err != nil {
			return fmt.Errorf("htopgo: invalid -d/--delay value %q", delayFlag)
		}
		if n < 1 {
			n = 1
		}
		if n > 100 {
			n = 100
		}
		s.Delay = n
	}
	if sortKeyFlag != "" {
		id, ok := field.ByName(strings.ToUpper(sortKeyFlag))
		if !ok {
			return fmt.Errorf("htopgo: unknown sort key %q (try -s help)", sortKeyFlag)
		}
		s.SortKey = id
	}
	if treeFlag {
		s.TreeView = true
	}
	if explicitDelay {
		s.ExplicitDelay = true
	}
	return nil
}

func parsePIDWhitelist(raw string) map[int]bool {
	out := make(map[int]bool)
	for _, part := range strings.Split(raw, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			out[n] = true
		}
	}
	return out
}

func lookupUID(name string) (int, bool) {
	if n, err := strconv.Atoi(name); err == nil {
		return n, true
	}
	// resolving a username to uid without a cache isn't worth its own
	// package; os/user is used directly for this one CLI-time lookup.
	u, err := user.Lookup(name)
	if err != nil {
		return 0, false
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return 0, false
	}
	return uid, true
}

// printSortFields renders `-s help`'s listing as an aligned table via
// tablewriter, the same way arctir-proctor's CLI renders its process
// listings (§C "`-s help` / `-p` CLI behaviors").
func printSortFields() {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Field", "Description"})
	for _, id := range field.AllSortableFields() {
		table.Append([]string{id.Name(), ""})
	}
	table.Render()
	fmt.Print(color.CyanString("Available sort fields:\n"))
	fmt.Print(buf.String())
}

// dumpDefaultConfig implements the `--dump-config`/`-c` reporting path
// from §A.3: prints Settings defaults as YAML via the corpus's YAML
// fork without touching the rc file format used for real persistence.
func dumpDefaultConfig() {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	if err := encoder.Encode(config.DefaultSettings()); err != nil {
		log.Fatal(err.Error())
	}
	fmt.Print(buf.String())
}

func updateBuildInfo() {
	if version == defaultVersion {
		if buildInfo, ok := debug.ReadBuildInfo(); ok {
			if revision, ok := lo.Find(buildInfo.Settings, func(setting debug.BuildSetting) bool {
				return setting.Key == "vcs.revision"
			}); ok {
				commit = revision.Value
				if len(revision.Value) >= 7 {
					version = revision.Value[:7]
				} else {
					version = revision.Value
				}
			}
			if t, ok := lo.Find(buildInfo.Settings, func(setting debug.BuildSetting) bool {
				return setting.Key == "vcs.time"
			}); ok {
				date = t.Value
			}
		}
	}
}
