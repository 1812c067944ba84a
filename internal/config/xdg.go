// Package config provides storage path helpers and TOML parsing.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Location of the log directory shared with the device-side tooling.
const (
	appName   = "ArduinoCurrentLogger"
	appAuthor = "edf1101"
	toolName  = "ampgraph"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultDataDir returns the per-user application data directory holding log files.
func DefaultDataDir() string {
	return dataDirFor(runtime.GOOS)
}

func dataDirFor(goos string) string {
	switch goos {
	case "windows":
		base := os.Getenv("LOCALAPPDATA")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil || home == "" {
				base = "."
			} else {
				base = filepath.Join(home, "AppData", "Local")
			}
		}
		return filepath.Join(base, appAuthor, appName)
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return filepath.Join(".", appName)
		}
		return filepath.Join(home, "Library", "Application Support", appName)
	default:
		return filepath.Join(XDGDataHome(), appName)
	}
}

// ResolveDataDir returns an absolute data directory, preferring override when set.
func ResolveDataDir(override string) (string, error) {
	dir := override
	if dir == "" {
		dir = DefaultDataDir()
	}
	return filepath.Abs(dir)
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), toolName, "config.toml")
}
