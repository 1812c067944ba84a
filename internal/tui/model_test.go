package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/ampgraph/internal/logdata"
	"github.com/verte-zerg/ampgraph/internal/model"
)

func newTestModel(t *testing.T, files map[string]string) (*Model, string) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	st, err := logdata.NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	cfg := model.Config{
		DataDir:         dir,
		CapacityMAh:     2000,
		PlotHeight:      6,
		RedrawInterval:  200 * time.Millisecond,
		RefreshInterval: time.Second,
		Version:         "test",
	}
	m := NewModel(cfg, st, nil)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, dir
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelListsValidFilesSorted(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{
		"b.txt":   "VOLTAGE,20\n3.3,3.2\n",
		"a.txt":   "CURRENT,20\n10,20,30\n",
		"bad.txt": "CURRENT\n1,2\n",
		"a.csv":   "CURRENT,20\n1,2\n",
	})
	if got := model.Names(m.files); strings.Join(got, ",") != "a.txt,b.txt" {
		t.Fatalf("unexpected files: %v", got)
	}
	if rows := m.table.Rows(); len(rows) != 2 || rows[0][0] != "a.txt" {
		t.Fatalf("unexpected table rows: %v", rows)
	}
}

func TestOpenSelectedFile(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{"a.txt": "CURRENT,20\n10,20,30\n"})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.data == nil || m.data.FileName() != "a.txt" {
		t.Fatalf("expected a.txt to be loaded")
	}
	if m.summary == nil || m.summary.Average != 20 {
		t.Fatalf("unexpected summary: %+v", m.summary)
	}
	view := m.View()
	for _, want := range []string{"Average", "20.0 mA", "Time (s)", "Time to run out"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view", want)
		}
	}
}

func TestOpenFailureDropsDataSet(t *testing.T) {
	m, dir := newTestModel(t, map[string]string{"a.txt": "CURRENT,20\n10,20,30\n"})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.data == nil {
		t.Fatalf("expected a.txt to be loaded")
	}
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("CURRENT,20\nx\n"), 0o644); err != nil {
		t.Fatalf("failed to rewrite file: %v", err)
	}
	m.open("a.txt")
	if m.data != nil || m.summary != nil {
		t.Fatalf("expected the previous data set to be dropped")
	}
	if m.loadErr == "" {
		t.Fatalf("expected a load error")
	}
	if !strings.Contains(m.chart.View(), "Failed to load a.txt.") {
		t.Fatalf("expected failure text in chart pane")
	}
	if !strings.Contains(m.View(), "line 2") {
		t.Fatalf("expected the parse error in the footer")
	}
}

func TestRescanPicksUpNewFiles(t *testing.T) {
	m, dir := newTestModel(t, map[string]string{"a.txt": "CURRENT,20\n1\n"})
	if err := os.WriteFile(filepath.Join(dir, "0.txt"), []byte("VOLTAGE,10\n3.3\n"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	_, cmd := m.Update(rescanMsg{})
	if cmd == nil {
		t.Fatalf("expected the next rescan to be scheduled")
	}
	if got := model.Names(m.files); strings.Join(got, ",") != "0.txt,a.txt" {
		t.Fatalf("unexpected files after rescan: %v", got)
	}
}

func TestRescanReportsMissingDirectory(t *testing.T) {
	m, dir := newTestModel(t, map[string]string{"a.txt": "CURRENT,20\n1\n"})
	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("failed to remove dir: %v", err)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if !strings.Contains(m.scanErr, "storage unavailable") {
		t.Fatalf("expected a storage error, got %q", m.scanErr)
	}
	if len(m.files) != 1 {
		t.Fatalf("expected the last listing to be kept")
	}
}

func TestRedrawIsThrottled(t *testing.T) {
	m, _ := newTestModel(t, nil)
	now := time.Unix(1000, 0)
	m.throttle = NewThrottle(time.Second, func() time.Time { return now })
	m.redraws = 0

	if cmd := m.requestRedraw(false); cmd != nil || m.redraws != 1 {
		t.Fatalf("expected first redraw to run immediately")
	}
	if cmd := m.requestRedraw(false); cmd == nil || m.redraws != 1 || !m.pendingRedraw {
		t.Fatalf("expected second redraw to be deferred")
	}
	if cmd := m.requestRedraw(false); cmd != nil {
		t.Fatalf("expected only one deferred redraw to be scheduled")
	}
	m.Update(redrawMsg{})
	if m.redraws != 2 || m.pendingRedraw {
		t.Fatalf("expected deferred redraw to run, redraws=%d", m.redraws)
	}
	if cmd := m.requestRedraw(true); cmd != nil || m.redraws != 3 {
		t.Fatalf("expected forced redraw to skip the throttle")
	}
}

func TestCapacityInput(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{"a.txt": "CURRENT,20\n10,20,30\n"})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	m.Update(runes("c"))
	if !m.capacityMode {
		t.Fatalf("expected capacity mode")
	}
	m.Update(runes("abc"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.capacityMode || m.capacityErr == "" {
		t.Fatalf("expected invalid input to keep the dialog open with an error")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.capacityMode || m.capacity != 2000 {
		t.Fatalf("expected esc to cancel")
	}

	m.Update(runes("c"))
	m.Update(runes("1000"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.capacityMode {
		t.Fatalf("expected dialog to close")
	}
	if m.capacity != 1000 || m.summary.CapacityMAh != 1000 || m.summary.RunTimeHours != 50 {
		t.Fatalf("unexpected capacity state: %v %+v", m.capacity, m.summary)
	}
}

func TestParseCapacity(t *testing.T) {
	if v, err := parseCapacity(" 2500.5 "); err != nil || v != 2500.5 {
		t.Fatalf("expected 2500.5, got %v %v", v, err)
	}
	for _, input := range []string{"0", "-5", "x", "inf", "NaN"} {
		if _, err := parseCapacity(input); err == nil {
			t.Fatalf("expected %q to be rejected", input)
		}
	}
}

func TestDetailsPane(t *testing.T) {
	m, dir := newTestModel(t, nil)
	m.Update(runes("?"))
	if !m.showDetails {
		t.Fatalf("expected details pane")
	}
	view := m.View()
	if !strings.Contains(view, "Software Details") || !strings.Contains(view, "test") {
		t.Fatalf("expected details content, got:\n%s", view)
	}
	if !strings.Contains(view, filepath.Base(dir)) {
		t.Fatalf("expected data directory in details")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.showDetails {
		t.Fatalf("expected esc to close details")
	}
}

func TestQuitKey(t *testing.T) {
	m, _ := newTestModel(t, nil)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestEmptyDirectoryView(t *testing.T) {
	m, _ := newTestModel(t, nil)
	view := m.View()
	if !strings.Contains(view, "No log files found.") || !strings.Contains(view, emptyChartText) {
		t.Fatalf("unexpected empty view:\n%s", view)
	}
	if !strings.Contains(view, "rescan") {
		t.Fatalf("expected help line in view")
	}
}

func TestLayoutCardsWraps(t *testing.T) {
	cards := []string{metricCard("Min", "1.0 mA"), metricCard("Max", "3.0 mA"), metricCard("Average", "2.0 mA")}
	oneRow := layoutCards(cards, 200)
	if lines := strings.Count(oneRow, "\n") + 1; lines != 4 {
		t.Fatalf("expected one row of cards, got %d lines", lines)
	}
	wrapped := layoutCards(cards, 15)
	if lines := strings.Count(wrapped, "\n") + 1; lines != 12 {
		t.Fatalf("expected three rows of cards, got %d lines", lines)
	}
}
