package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected missing config to be ignored, got %v", err)
	}
	if cfg.Battery.CapacityMAh != nil || cfg.Storage.Dir != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `[storage]
dir = "/data/logs"

[battery]
capacity-mah = 1200.5

[plot]
height = 12
redraw-ms = 100

[browser]
refresh-ms = 500

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Storage.Dir == nil || *cfg.Storage.Dir != "/data/logs" {
		t.Fatalf("unexpected dir: %v", cfg.Storage.Dir)
	}
	if cfg.Battery.CapacityMAh == nil || *cfg.Battery.CapacityMAh != 1200.5 {
		t.Fatalf("unexpected capacity: %v", cfg.Battery.CapacityMAh)
	}
	if *cfg.Plot.Height != 12 || *cfg.Plot.RedrawMs != 100 || *cfg.Browser.RefreshMs != 500 {
		t.Fatalf("unexpected plot/browser values: %+v %+v", cfg.Plot, cfg.Browser)
	}
	if *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %v", *cfg.Log.Level)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[plot]\nwidth = 3\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "plot.width") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestDataDirFor(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	if got := dataDirFor("linux"); got != filepath.Join("/xdg/data", "ArduinoCurrentLogger") {
		t.Fatalf("unexpected linux dir: %s", got)
	}
	t.Setenv("LOCALAPPDATA", "/local")
	if got := dataDirFor("windows"); got != filepath.Join("/local", "edf1101", "ArduinoCurrentLogger") {
		t.Fatalf("unexpected windows dir: %s", got)
	}
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		want := filepath.Join(home, "Library", "Application Support", "ArduinoCurrentLogger")
		if got := dataDirFor("darwin"); got != want {
			t.Fatalf("unexpected darwin dir: %s", got)
		}
	}
}

func TestResolveDataDir(t *testing.T) {
	dir := t.TempDir()
	got, err := ResolveDataDir(dir)
	if err != nil || got != dir {
		t.Fatalf("expected %s, got %s (%v)", dir, got, err)
	}
	t.Setenv("XDG_DATA_HOME", dir)
	got, err = ResolveDataDir("")
	if err != nil {
		t.Fatalf("ResolveDataDir failed: %v", err)
	}
	if filepath.Base(got) != "ArduinoCurrentLogger" {
		t.Fatalf("expected default data dir, got %s", got)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "ampgraph", "config.toml") {
		t.Fatalf("unexpected config path: %s", got)
	}
}
