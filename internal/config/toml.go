// Package config provides storage path helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Storage StorageConfig `toml:"storage"`
	Battery BatteryConfig `toml:"battery"`
	Plot    PlotConfig    `toml:"plot"`
	Browser BrowserConfig `toml:"browser"`
	Log     LogConfig     `toml:"log"`
}

// StorageConfig overrides where log files are read from.
type StorageConfig struct {
	Dir *string `toml:"dir"`
}

// BatteryConfig holds the default battery used for runtime estimates.
type BatteryConfig struct {
	CapacityMAh *float64 `toml:"capacity-mah"`
}

// PlotConfig maps chart settings.
type PlotConfig struct {
	Height   *int `toml:"height"`
	RedrawMs *int `toml:"redraw-ms"`
}

// BrowserConfig maps file browser settings.
type BrowserConfig struct {
	RefreshMs *int `toml:"refresh-ms"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
