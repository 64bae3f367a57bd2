package config

import (
	"os"
	"path/filepath"

	"github.com/OpenPeeDeeP/xdg"
)

// AppConfig contains the process-level configuration that isn't
// persisted settings: build metadata, the resolved config directory,
// and the debug flag. Mirrors the reference TUI's own split between a
// small AppConfig and a larger persisted UserConfig/Settings.
type AppConfig struct {
	Name        string
	Version     string
	Commit      string
	BuildDate   string
	BuildSource string
	Debug       bool

	ConfigDir string
}

// NewAppConfig resolves (and creates) the config directory and
// assembles build metadata, the same shape as the reference program's
// own NewAppConfig.
func NewAppConfig(name, version, commit, date, buildSource string, debug bool) (*AppConfig, error) {
	dir, err := findOrCreateConfigDir(name)
	if err != nil {
		return nil, err
	}

	return &AppConfig{
		Name:        name,
		Version:     version,
		Commit:      commit,
		BuildDate:   date,
		BuildSource: buildSource,
		Debug:       debug || os.Getenv("DEBUG") == "TRUE",
		ConfigDir:   dir,
	}, nil
}

// RCFilename returns the path to the persisted `key=value` settings
// file, honoring $HTOPRC, then the resolved XDG config directory,
// matching §6.3's search order ($HTOPRC overrides the computed path
// entirely).
func (c *AppConfig) RCFilename() string {
	if p := os.Getenv("HTOPRC"); p != "" {
		return p
	}
	return filepath.Join(c.ConfigDir, c.Name+"rc")
}

// LegacyRCFilename is the pre-XDG dotfile path this program migrates
// from once, per §6.3.
func (c *AppConfig) LegacyRCFilename() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "."+c.Name+"rc")
}

// MigrateLegacyRCFile copies the legacy dotfile rc into the XDG
// location once, then removes the legacy file, per §6.3. It is a
// no-op if there is no legacy file or the XDG-location file already
// exists.
func (c *AppConfig) MigrateLegacyRCFile() error {
	legacy := c.LegacyRCFilename()
	if legacy == "" {
		return nil
	}
	if _, err := os.Stat(legacy); err != nil {
		return nil
	}

	target := c.RCFilename()
	if _, err := os.Stat(target); err == nil {
		// target already exists; don't clobber it, just drop the legacy
		// file so we don't migrate again next run.
		return os.Remove(legacy)
	}

	content, err := os.ReadFile(legacy)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return err
	}
	return os.Remove(legacy)
}

// LogFilename is where logrus output is buffered while the alternate
// screen owns the terminal (§A.1 of SPEC_FULL.md).
func (c *AppConfig) LogFilename() string {
	return filepath.Join(c.ConfigDir, c.Name+".log")
}

func configDirForVendor(vendor, projectName string) string {
	if envDir := os.Getenv("CONFIG_DIR"); envDir != "" {
		return envDir
	}
	dirs := xdg.New(vendor, projectName)
	return dirs.ConfigHome()
}

func findOrCreateConfigDir(projectName string) (string, error) {
	dir := configDirForVendor("", projectName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
