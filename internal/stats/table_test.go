package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Statistic", "Value"}
	rows := [][]string{
		{"Min", "1.0 mA"},
		{"Time to run out", "100.000 h"},
	}
	rightAlign := map[int]bool{1: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Statistic            Value" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Min                 1.0 mA" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Time to run out  100.000 h" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableLeavesLastColumnUnpadded(t *testing.T) {
	lines := formatTable([]string{"Name", "Type"}, [][]string{{"a.txt", "CURRENT"}, {"b.txt", "V"}}, nil)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[1] != "a.txt  CURRENT" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "b.txt  V" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected no lines, got %q", lines)
	}
}
