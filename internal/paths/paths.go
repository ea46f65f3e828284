// Package paths resolves where tableswap keeps its config file and, for the
// sqlite backend, its database file.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user platform directories.
const AppName = "tableswap"

// File names inside the resolved directories.
const (
	ConfigFileName   = "config.yaml"
	DatabaseFileName = "tableswap.db"
)

// DefaultDataDirName is the CWD-relative data directory used when nothing
// overrides it.
const DefaultDataDirName = ".tableswap-db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "TABLESWAP_CONFIG_DIR"
	EnvDataDir   = "TABLESWAP_DATA_DIR"
)

// platformDir holds platform lookups that tests can override.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// userDir returns $xdgEnv/tableswap or ~/<linuxFallback...>/tableswap on
// Linux, and the user config directory elsewhere.
func userDir(xdgEnv string, linuxFallback ...string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(xdgEnv); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	parts := append([]string{home}, linuxFallback...)
	return filepath.Join(append(parts, AppName)...), nil
}

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/tableswap (fallback ~/.config/tableswap)
// macOS:   ~/Library/Application Support/tableswap
// Windows: %APPDATA%/tableswap
func DefaultConfigDir() (string, error) {
	return userDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory. It is not part of the
// ResolveDataDir chain; `tableswap init --user` writes it into config.yaml.
//
// Linux:   $XDG_DATA_HOME/tableswap (fallback ~/.local/share/tableswap)
// macOS and Windows: same as DefaultConfigDir
func DefaultDataDir() (string, error) {
	return userDir("XDG_DATA_HOME", ".local", "share")
}

// ResolveConfigDir picks the config directory: flag > TABLESWAP_CONFIG_DIR >
// DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir picks the data directory: flag > data_dir from config.yaml >
// TABLESWAP_DATA_DIR > $(CWD)/.tableswap-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, dir := range []string{flag, configValue, os.Getenv(EnvDataDir)} {
		if dir != "" {
			return filepath.Abs(dir)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ConfigFile returns the config.yaml path inside configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}

// DatabaseFile returns the sqlite database path inside dataDir.
func DatabaseFile(dataDir string) string {
	return filepath.Join(dataDir, DatabaseFileName)
}
