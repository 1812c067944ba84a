// Package model defines shared data structures.
package model

import (
	"strings"
	"time"
)

// Value type labels as they appear (uppercased) in log file headers.
const (
	ValueCurrent = "CURRENT"
	ValueVoltage = "VOLTAGE"
)

// Config defines browser and report settings resolved from flags and the config file.
type Config struct {
	DataDir         string
	CapacityMAh     float64
	PlotHeight      int
	RedrawInterval  time.Duration
	RefreshInterval time.Duration
	Version         string
}

// FileInfo describes one log file in the data directory.
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// UnitFor maps a value type to its display unit.
func UnitFor(valueType string) string {
	switch strings.ToUpper(valueType) {
	case ValueCurrent:
		return "mA"
	case ValueVoltage:
		return "V"
	default:
		return ""
	}
}

// Names returns the file names of infos, keeping their order.
func Names(infos []FileInfo) []string {
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names
}
