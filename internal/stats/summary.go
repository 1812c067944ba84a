package stats

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/verte-zerg/ampgraph/internal/logdata"
)

// Summary holds the statistics shown for one data set.
type Summary struct {
	FileName    string
	ValueType   string
	Unit        string
	Samples     int
	IntervalMs  int
	DurationSec float64
	Min         float64
	Max         float64
	Average     float64

	// Battery figures are only filled for CURRENT data sets.
	Battery      bool
	CapacityMAh  float64
	MAhUsed      float64
	RunTimeHours float64
	// RunTimeKnown is false when the average current rounds to zero.
	RunTimeKnown bool
}

// Summarize computes the statistics of ds. capacityMAh is the battery used for the
// runtime estimate of CURRENT files.
func Summarize(ds *logdata.DataSet, capacityMAh float64) (Summary, error) {
	s := Summary{
		FileName:    ds.FileName(),
		ValueType:   ds.ValueType(),
		Unit:        ds.Unit(),
		Samples:     ds.Len(),
		IntervalMs:  ds.IntervalMs(),
		DurationSec: ds.Duration(),
	}
	var err error
	if s.Min, err = ds.Min(); err != nil {
		return Summary{}, fmt.Errorf("failed to summarize %s: %w", s.FileName, err)
	}
	if s.Max, err = ds.Max(); err != nil {
		return Summary{}, fmt.Errorf("failed to summarize %s: %w", s.FileName, err)
	}
	if s.Average, err = ds.Average(); err != nil {
		return Summary{}, fmt.Errorf("failed to summarize %s: %w", s.FileName, err)
	}
	if !ds.IsCurrent() {
		return s, nil
	}

	s.Battery = true
	s.CapacityMAh = capacityMAh
	if s.MAhUsed, err = ds.MAhUsed(); err != nil {
		return Summary{}, fmt.Errorf("failed to summarize %s: %w", s.FileName, err)
	}
	s.RunTimeHours, err = ds.TimeToRunOut(capacityMAh)
	switch {
	case err == nil:
		s.RunTimeKnown = true
	case errors.Is(err, logdata.ErrZeroAverage):
	default:
		return Summary{}, fmt.Errorf("failed to summarize %s: %w", s.FileName, err)
	}
	return s, nil
}

// Rows returns label/value pairs in display order.
func (s Summary) Rows() [][]string {
	rows := [][]string{
		{"File", s.FileName},
		{"Type", s.ValueType},
		{"Samples", strconv.Itoa(s.Samples)},
		{"Interval", fmt.Sprintf("%d ms", s.IntervalMs)},
		{"Duration", fmt.Sprintf("%.2f s", s.DurationSec)},
		{"Min", s.withUnit(s.Min)},
		{"Max", s.withUnit(s.Max)},
		{"Average", s.withUnit(s.Average)},
	}
	if !s.Battery {
		return rows
	}
	runTime := "n/a"
	if s.RunTimeKnown {
		runTime = fmt.Sprintf("%.3f h", s.RunTimeHours)
	}
	return append(rows,
		[]string{"mAh used", fmt.Sprintf("%.1f mAh", s.MAhUsed)},
		[]string{"Battery", strconv.FormatFloat(s.CapacityMAh, 'f', -1, 64) + " mAh"},
		[]string{"Time to run out", runTime},
	)
}

func (s Summary) withUnit(v float64) string {
	value := strconv.FormatFloat(v, 'f', 1, 64)
	if s.Unit == "" {
		return value
	}
	return value + " " + s.Unit
}

// RenderSummary writes s as a two column table.
func RenderSummary(w io.Writer, s Summary) error {
	return WriteTable(w, []string{"Statistic", "Value"}, s.Rows(), map[int]bool{1: true})
}
