package logdata

import (
	"strings"

	"github.com/verte-zerg/ampgraph/internal/model"
)

// DataSet holds the time and value series decoded from one log file.
// It is immutable after construction.
type DataSet struct {
	fileName   string
	valueType  string
	intervalMs int
	times      []float64
	values     []float64
}

// NewDataSet builds a data set from already decoded samples.
func NewDataSet(fileName, valueType string, intervalMs int, values []float64) *DataSet {
	vals := make([]float64, len(values))
	copy(vals, values)
	return &DataSet{
		fileName:   fileName,
		valueType:  strings.ToUpper(valueType),
		intervalMs: intervalMs,
		times:      buildTimes(len(vals), intervalMs),
		values:     vals,
	}
}

func buildTimes(count, intervalMs int) []float64 {
	step := float64(intervalMs) / 1000.0
	times := make([]float64, count)
	for i := range times {
		times[i] = float64(i) * step
	}
	return times
}

// parseDataSet decodes the lines of a log file without validating it first.
func parseDataSet(fileName string, lines []string) (*DataSet, error) {
	if len(lines) < 2 {
		return nil, &ParseError{File: fileName, Line: len(lines), Field: -1, Err: errTooFewLines}
	}
	hdr, err := parseHeader(lines[0])
	if err != nil {
		return nil, &ParseError{File: fileName, Line: 1, Field: 1, Err: err}
	}
	values, field, err := parseSamples(lines[1])
	if err != nil {
		return nil, &ParseError{File: fileName, Line: 2, Field: field, Err: err}
	}
	return NewDataSet(fileName, hdr.label, hdr.intervalMs, values), nil
}

// FileName returns the base name of the file the data set was loaded from.
func (d *DataSet) FileName() string {
	return d.fileName
}

// ValueType returns the uppercased value type label, e.g. CURRENT.
func (d *DataSet) ValueType() string {
	return d.valueType
}

// IntervalMs returns the sampling interval in milliseconds.
func (d *DataSet) IntervalMs() int {
	return d.intervalMs
}

// Len returns the number of samples.
func (d *DataSet) Len() int {
	return len(d.values)
}

// Times returns a copy of the sample times in seconds.
func (d *DataSet) Times() []float64 {
	out := make([]float64, len(d.times))
	copy(out, d.times)
	return out
}

// Values returns a copy of the samples.
func (d *DataSet) Values() []float64 {
	out := make([]float64, len(d.values))
	copy(out, d.values)
	return out
}

// Duration returns the time of the last sample in seconds, or 0 without samples.
func (d *DataSet) Duration() float64 {
	if len(d.times) == 0 {
		return 0
	}
	return d.times[len(d.times)-1]
}

// IsCurrent reports whether the file records current, the only type with battery statistics.
func (d *DataSet) IsCurrent() bool {
	return d.valueType == model.ValueCurrent
}

// Unit returns the display unit for the value type.
func (d *DataSet) Unit() string {
	return model.UnitFor(d.valueType)
}
