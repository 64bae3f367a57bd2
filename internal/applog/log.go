// Package applog builds the single *logrus.Entry threaded through
// every component that can fail asynchronously (§A.1 of SPEC_FULL.md),
// following the same NewLogger(config) shape as the reference TUI's
// pkg/log package: a JSON-formatted file logger in debug builds, a
// discarding logger otherwise, both wrapped in fields identifying the
// running process.
package applog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/Low-power/htop-sub000/internal/config"
)

// New returns the process-wide logger entry. Output never touches the
// alternate screen buffer the gocui UI owns: debug builds buffer to
// AppConfig.LogFilename(), non-debug builds discard all output,
// matching §A.1's "buffered to a file ... stderr before the UI starts
// or after it has torn down cleanly" rule.
func New(appCfg *config.AppConfig) *logrus.Entry {
	var log *logrus.Logger
	if appCfg.Debug {
		log = newDevelopmentLogger(appCfg)
	} else {
		log = newProductionLogger()
	}
	log.Formatter = &logrus.JSONFormatter{}

	return log.WithFields(logrus.Fields{
		"pid":       os.Getpid(),
		"version":   appCfg.Version,
		"commit":    appCfg.Commit,
		"buildDate": appCfg.BuildDate,
	})
}

func getLogLevel() logrus.Level {
	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return logrus.DebugLevel
	}
	return level
}

func newDevelopmentLogger(appCfg *config.AppConfig) *logrus.Logger {
	log := logrus.New()
	log.SetLevel(getLogLevel())
	file, err := os.OpenFile(filepath.Join(filepath.Dir(appCfg.LogFilename()), filepath.Base(appCfg.LogFilename())), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		fmt.Fprintln(os.Stderr, "unable to log to file, falling back to stderr")
		log.SetOutput(os.Stderr)
		return log
	}
	log.SetOutput(file)
	return log
}

func newProductionLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	log.SetLevel(logrus.ErrorLevel)
	return log
}
