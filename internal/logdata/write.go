package logdata

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// Write stores samples as a log file named name, replacing any existing file atomically.
func (s *Store) Write(name, valueType string, intervalMs int, values []float64) error {
	if !isBaseName(name) || !strings.HasSuffix(name, fileExt) {
		return fmt.Errorf("invalid log file name %q (want a bare name ending in %s)", name, fileExt)
	}
	if valueType == "" || strings.ContainsAny(valueType, ",\r\n") {
		return fmt.Errorf("invalid value type %q", valueType)
	}
	if intervalMs < 0 {
		return fmt.Errorf("interval must be >= 0, got %d", intervalMs)
	}
	if len(values) == 0 {
		return ErrEmptySeries
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("sample %d is not finite", i)
		}
	}

	tmpFile, err := os.CreateTemp(s.dir, "log-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp log file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if _, err := fmt.Fprintf(writer, "%s,%d\n", valueType, intervalMs); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, v := range values {
		if i > 0 {
			if err := writer.WriteByte(','); err != nil {
				return fmt.Errorf("failed to write samples: %w", err)
			}
		}
		if _, err := writer.WriteString(strconv.FormatFloat(v, 'f', -1, 64)); err != nil {
			return fmt.Errorf("failed to write samples: %w", err)
		}
	}
	if err := writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush log file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path(name)); err != nil {
		return fmt.Errorf("failed to write log file: %w", err)
	}
	return nil
}
