package stats

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/verte-zerg/ampgraph/internal/logdata"
)

func TestSummarizeCurrent(t *testing.T) {
	ds := logdata.NewDataSet("run.txt", "current", 1000, []float64{10, 20, 30})
	s, err := Summarize(ds, 2000)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if s.ValueType != "CURRENT" || s.Unit != "mA" || s.Samples != 3 {
		t.Fatalf("unexpected header fields: %+v", s)
	}
	if s.Min != 10 || s.Max != 30 || s.Average != 20 {
		t.Fatalf("unexpected min/max/avg: %v %v %v", s.Min, s.Max, s.Average)
	}
	if s.DurationSec != 2 {
		t.Fatalf("expected duration 2s, got %v", s.DurationSec)
	}
	if !s.Battery || !s.RunTimeKnown || s.RunTimeHours != 100 || s.MAhUsed != 0 {
		t.Fatalf("unexpected battery fields: %+v", s)
	}

	rows := s.Rows()
	last := rows[len(rows)-1]
	if last[0] != "Time to run out" || last[1] != "100.000 h" {
		t.Fatalf("unexpected last row: %q", last)
	}
	if rows[len(rows)-2][1] != "2000 mAh" {
		t.Fatalf("unexpected capacity row: %q", rows[len(rows)-2])
	}
}

func TestSummarizeVoltageHasNoBatteryRows(t *testing.T) {
	ds := logdata.NewDataSet("v.txt", "VOLTAGE", 20, []float64{3.3, 3.2})
	s, err := Summarize(ds, 2000)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if s.Battery {
		t.Fatalf("expected no battery figures for voltage")
	}
	rows := s.Rows()
	if len(rows) != 8 {
		t.Fatalf("expected 8 rows, got %d", len(rows))
	}
	if rows[5][1] != "3.2 V" {
		t.Fatalf("unexpected min row: %q", rows[5])
	}
}

func TestSummarizeZeroAverage(t *testing.T) {
	ds := logdata.NewDataSet("z.txt", "CURRENT", 20, []float64{0, 0.01})
	s, err := Summarize(ds, 2000)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if s.RunTimeKnown {
		t.Fatalf("expected unknown runtime for zero average")
	}
	rows := s.Rows()
	if rows[len(rows)-1][1] != "n/a" {
		t.Fatalf("unexpected runtime row: %q", rows[len(rows)-1])
	}
}

func TestSummarizeEmpty(t *testing.T) {
	ds := logdata.NewDataSet("e.txt", "CURRENT", 20, nil)
	if _, err := Summarize(ds, 2000); !errors.Is(err, logdata.ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries, got %v", err)
	}
}

func TestRenderSummary(t *testing.T) {
	ds := logdata.NewDataSet("run.txt", "CURRENT", 1000, []float64{10, 20, 30})
	s, err := Summarize(ds, 2000)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, s); err != nil {
		t.Fatalf("RenderSummary failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 12 {
		t.Fatalf("expected 12 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "Statistic") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[8], "Average") || !strings.HasSuffix(lines[8], "20.0 mA") {
		t.Fatalf("unexpected average line: %q", lines[8])
	}
}
