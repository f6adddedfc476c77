// Package paths decides where the CLI keeps its configuration and its
// databases. Every lookup can be overridden by an environment variable,
// and explicit values (flags, config file entries) always win over
// anything discovered from the platform.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// Directory override environment variables.
const (
	EnvConfigDir = "BRICKS_CONFIG_DIR"
	EnvDataDir   = "BRICKS_DATA_DIR"
)

const appDirName = "bricks"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// platformDefault resolves the per-user app directory for the current OS.
// On linux it honors the given XDG variable and falls back to the named
// dotted path under the home directory; elsewhere it defers to
// os.UserConfigDir (Application Support on macOS, %APPDATA% on Windows).
func platformDefault(xdgEnv string, homeFallback ...string) (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
	if xdg := os.Getenv(xdgEnv); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	parts := append([]string{home}, homeFallback...)
	return filepath.Join(append(parts, appDirName)...), nil
}

// DefaultConfigDir is $XDG_CONFIG_HOME/bricks on linux (~/.config/bricks
// when unset) and the user config dir elsewhere.
func DefaultConfigDir() (string, error) {
	return platformDefault("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir is $XDG_DATA_HOME/bricks on linux (~/.local/share/bricks
// when unset) and the user config dir elsewhere.
func DefaultDataDir() (string, error) {
	return platformDefault("XDG_DATA_HOME", ".local", "share")
}

// ResolveConfigDir picks the config directory: the flag when given, then
// BRICKS_CONFIG_DIR, then the platform default. Explicit values are made
// absolute.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir picks the data directory: the flag when given, then the
// config.yaml value, then BRICKS_DATA_DIR, then the platform default.
// Explicit values are made absolute.
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultDataDir()
}
