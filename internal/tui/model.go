// Package tui provides the Bubble Tea log file browser.
package tui

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/ampgraph/internal/logdata"
	"github.com/verte-zerg/ampgraph/internal/model"
	"github.com/verte-zerg/ampgraph/internal/stats"
)

const (
	defaultPlotHeight = 10
	minTableWidth     = 30
	maxTableWidth     = 60
	minChartPane      = 20
	sizeColWidth      = 9
	modColWidth       = 16
	// title, y label, axis, ticks and caption around the plot rows
	chartChrome = 5

	emptyChartText = "Select a file and press enter."
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

type rescanMsg struct{}

type redrawMsg struct{}

// Model implements the Bubble Tea file browser.
type Model struct {
	cfg   model.Config
	store *logdata.Store
	log   *logrus.Logger

	width  int
	height int

	keys  keyMap
	help  help.Model
	table table.Model
	chart viewport.Model

	files    []model.FileInfo
	selected string
	data     *logdata.DataSet
	summary  *stats.Summary
	capacity float64

	throttle      *Throttle
	pendingRedraw bool
	redraws       int

	capacityMode  bool
	capacityInput textinput.Model
	capacityErr   string
	showDetails   bool

	scanErr string
	loadErr string
}

// NewModel constructs a browser over the files of st and performs the first scan.
func NewModel(cfg model.Config, st *logdata.Store, log *logrus.Logger) *Model {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	m := &Model{
		cfg:      cfg,
		store:    st,
		log:      log,
		keys:     newKeyMap(),
		help:     help.New(),
		chart:    viewport.New(0, 0),
		capacity: cfg.CapacityMAh,
		throttle: NewThrottle(cfg.RedrawInterval, nil),
	}
	m.table = newFileTable()
	m.capacityInput = newCapacityInput()
	m.chart.SetContent(emptyChartText)
	m.rescan()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.scheduleRescan()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, m.requestRedraw(false)
	case rescanMsg:
		m.rescan()
		return m, m.scheduleRescan()
	case redrawMsg:
		m.pendingRedraw = false
		m.throttle.Allow(true)
		m.renderChart()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.capacityMode {
			return m.updateCapacity(msg)
		}
		if m.showDetails {
			switch msg.String() {
			case "esc", "?", "q":
				m.showDetails = false
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Open):
			return m, m.openSelected()
		case key.Matches(msg, m.keys.Rescan):
			m.rescan()
			return m, m.requestRedraw(true)
		case key.Matches(msg, m.keys.Capacity):
			return m, m.startCapacity()
		case key.Matches(msg, m.keys.Details):
			m.showDetails = true
			return m, nil
		default:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.capacityMode {
		return fitLines(m.renderCapacityModal(), m.width, m.height)
	}
	if m.showDetails {
		return fitLines(m.renderDetails(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	parts := []string{
		fitLines(m.renderHeader(), m.width, headerHeight),
		fitLines(m.renderBody(bodyHeight), m.width, bodyHeight),
	}
	if cards := m.renderCards(); cards != "" {
		parts = append(parts, padLines(cards, m.width))
	}
	parts = append(parts, fitLines(m.renderFooter(), m.width, footerHeight))
	return strings.Join(parts, "\n")
}

func (m *Model) scheduleRescan() tea.Cmd {
	if m.cfg.RefreshInterval <= 0 {
		return nil
	}
	return tea.Tick(m.cfg.RefreshInterval, func(time.Time) tea.Msg {
		return rescanMsg{}
	})
}

// rescan reloads the listing and touches the table only when it changed.
func (m *Model) rescan() {
	infos, err := m.store.ListValidInfos()
	if err != nil {
		if m.scanErr == "" {
			m.log.WithError(err).Warn("failed to scan data directory")
		}
		m.scanErr = err.Error()
		return
	}
	m.scanErr = ""
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	if sameListing(m.files, infos) {
		return
	}
	m.files = infos
	m.table.SetRows(fileRows(infos))
	m.log.WithField("files", len(infos)).Debug("data directory changed")
}

func sameListing(a, b []model.FileInfo) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Size != b[i].Size || !a[i].ModTime.Equal(b[i].ModTime) {
			return false
		}
	}
	return true
}

func (m *Model) openSelected() tea.Cmd {
	row := m.table.SelectedRow()
	if len(row) == 0 {
		return nil
	}
	return m.open(row[0])
}

func (m *Model) open(name string) tea.Cmd {
	m.selected = name
	ds, err := m.store.Load(name)
	if err != nil {
		m.log.WithError(err).WithField("file", name).Warn("failed to load log file")
		m.loadErr = err.Error()
		m.data = nil
		m.summary = nil
		m.updateLayout()
		return m.requestRedraw(true)
	}
	m.loadErr = ""
	m.data = ds
	m.refreshSummary()
	m.log.WithFields(logrus.Fields{"file": name, "samples": ds.Len()}).Debug("loaded log file")
	m.updateLayout()
	return m.requestRedraw(true)
}

func (m *Model) refreshSummary() {
	if m.data == nil {
		m.summary = nil
		return
	}
	s, err := stats.Summarize(m.data, m.capacity)
	if err != nil {
		m.loadErr = err.Error()
		m.summary = nil
		return
	}
	m.summary = &s
}

// requestRedraw redraws the chart now, or schedules one deferred forced redraw when
// an unforced request comes too soon after the previous one.
func (m *Model) requestRedraw(force bool) tea.Cmd {
	if m.throttle.Allow(force) {
		m.pendingRedraw = false
		m.renderChart()
		return nil
	}
	if m.pendingRedraw {
		return nil
	}
	m.pendingRedraw = true
	return tea.Tick(m.throttle.Remaining(), func(time.Time) tea.Msg {
		return redrawMsg{}
	})
}

func (m *Model) renderChart() {
	m.redraws++
	switch {
	case m.data == nil && m.selected != "":
		m.chart.SetContent(fmt.Sprintf("Failed to load %s.", m.selected))
	case m.data == nil:
		m.chart.SetContent(emptyChartText)
	default:
		chart := stats.ChartFor(m.data)
		height := m.plotHeight()
		width := stats.ChartWidthFor(m.chart.Width, chart, height)
		var buf bytes.Buffer
		if err := stats.RenderChart(&buf, chart, width, height, true); err != nil {
			m.chart.SetContent(fmt.Sprintf("Failed to render chart: %v", err))
			return
		}
		m.chart.SetContent(strings.TrimRight(buf.String(), "\n"))
	}
}

func (m *Model) plotHeight() int {
	height := m.cfg.PlotHeight
	if height <= 0 {
		height = defaultPlotHeight
	}
	if m.chart.Height > 0 {
		height = minInt(height, maxInt(2, m.chart.Height-chartChrome))
	}
	return height
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = 1
	footerHeight = 1
	if m.errorLine() != "" {
		footerHeight++
	}
	cardsHeight := 0
	if cards := m.renderCards(); cards != "" {
		cardsHeight = lipgloss.Height(cards)
	}
	bodyHeight = m.height - headerHeight - footerHeight - cardsHeight
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) tableWidth() int {
	width := m.width * 2 / 5
	width = maxInt(minTableWidth, minInt(maxTableWidth, width))
	if m.width-width-1 < minChartPane {
		width = maxInt(10, m.width-minChartPane-1)
	}
	return width
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	tableWidth := m.tableWidth()
	m.table.SetColumns(fileColumns(tableWidth))
	m.table.SetWidth(tableWidth)
	m.table.SetHeight(bodyHeight)
	m.chart.Width = maxInt(1, m.width-tableWidth-1)
	m.chart.Height = bodyHeight
	m.help.Width = m.width
	promptWidth := lipgloss.Width(m.capacityInput.Prompt)
	m.capacityInput.Width = maxInt(10, modalInnerWidth(m.width)-promptWidth)
}

func (m *Model) renderHeader() string {
	header := fmt.Sprintf("ampgraph  %s  battery %s mAh", m.store.Dir(), formatCapacity(m.capacity))
	return headerStyle.Render(truncateLine(header, m.width))
}

func (m *Model) renderBody(height int) string {
	tableWidth := m.tableWidth()
	var left string
	if len(m.files) == 0 {
		left = "No log files found."
	} else {
		left = tableMutedStyle.Render(m.table.View())
	}
	left = fitLines(left, tableWidth, height)
	right := fitLines(m.chart.View(), m.chart.Width, height)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (m *Model) renderCards() string {
	if m.summary == nil {
		return ""
	}
	rows := m.summary.Rows()
	cards := make([]string, 0, len(rows))
	for _, row := range rows {
		if row[0] == "File" {
			continue
		}
		cards = append(cards, metricCard(row[0], row[1]))
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	return layoutCards(cards, width)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

// layoutCards flows cards left to right, starting a new row when width is exceeded.
func layoutCards(cards []string, width int) string {
	var rows, current []string
	currentWidth := 0
	for _, card := range cards {
		cardWidth := lipgloss.Width(card)
		if len(current) > 0 && currentWidth+cardWidth > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current, currentWidth = nil, 0
		}
		current = append(current, card)
		currentWidth += cardWidth
	}
	if len(current) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) errorLine() string {
	var parts []string
	if m.scanErr != "" {
		parts = append(parts, m.scanErr)
	}
	if m.loadErr != "" {
		parts = append(parts, m.loadErr)
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderFooter() string {
	footer := m.help.View(m.keys)
	if errLine := m.errorLine(); errLine != "" {
		footer += "\n" + errorStyle.Render(truncateLine(errLine, m.width))
	}
	return footer
}

func (m *Model) startCapacity() tea.Cmd {
	m.capacityMode = true
	m.capacityErr = ""
	m.capacityInput.SetValue("")
	m.capacityInput.Placeholder = formatCapacity(m.capacity)
	return m.capacityInput.Focus()
}

func (m *Model) updateCapacity(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeCapacity()
		return m, nil
	case tea.KeyEnter:
		raw := strings.TrimSpace(m.capacityInput.Value())
		if raw == "" {
			m.closeCapacity()
			return m, nil
		}
		value, err := parseCapacity(raw)
		if err != nil {
			m.capacityErr = err.Error()
			return m, nil
		}
		m.capacity = value
		m.closeCapacity()
		m.refreshSummary()
		m.updateLayout()
		m.log.WithField("capacity_mah", value).Debug("battery capacity changed")
		return m, nil
	}
	var cmd tea.Cmd
	m.capacityInput, cmd = m.capacityInput.Update(msg)
	return m, cmd
}

func (m *Model) closeCapacity() {
	m.capacityMode = false
	m.capacityErr = ""
	m.capacityInput.Blur()
}

func parseCapacity(input string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || value <= 0 || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, fmt.Errorf("invalid capacity (use a positive number of mAh)")
	}
	return value, nil
}

func formatCapacity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (m *Model) renderCapacityModal() string {
	body := []string{
		cardValueStyle.Render("Battery Capacity"),
		m.capacityInput.View(),
		headerStyle.Render("Used for the time to run out of CURRENT files."),
		headerStyle.Render("Enter to apply / Esc to cancel"),
	}
	if m.capacityErr != "" {
		body = append(body, errorStyle.Render(m.capacityErr))
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) renderDetails() string {
	version := m.cfg.Version
	if version == "" {
		version = "dev"
	}
	body := []string{
		cardValueStyle.Render("Software Details"),
		"",
		fmt.Sprintf("Version         %s", version),
		fmt.Sprintf("Data directory  %s", m.store.Dir()),
		fmt.Sprintf("Log files       %d", len(m.files)),
		fmt.Sprintf("Battery         %s mAh", formatCapacity(m.capacity)),
		fmt.Sprintf("Rescan every    %s", m.cfg.RefreshInterval),
		fmt.Sprintf("Redraw limit    %s", m.cfg.RedrawInterval),
		"",
		headerStyle.Render("Esc or ? to close"),
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func newCapacityInput() textinput.Model {
	input := textinput.New()
	input.Prompt = "Capacity (mAh): "
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func newFileTable() table.Model {
	t := table.New(
		table.WithColumns(fileColumns(minTableWidth)),
		table.WithFocused(true),
		table.WithHeight(1),
	)
	t.SetStyles(fileTableStyles())
	return t
}

func fileColumns(width int) []table.Column {
	// every cell carries one column of right padding
	nameWidth := maxInt(8, width-sizeColWidth-modColWidth-3)
	return []table.Column{
		{Title: "Name", Width: nameWidth},
		{Title: "Size", Width: sizeColWidth},
		{Title: "Modified", Width: modColWidth},
	}
}

func fileRows(infos []model.FileInfo) []table.Row {
	rows := make([]table.Row, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, table.Row{
			info.Name,
			humanize.Bytes(uint64(info.Size)),
			info.ModTime.Format("2006-01-02 15:04"),
		})
	}
	return rows
}

func fileTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func modalWidth(width int) int {
	return maxInt(40, minInt(width-4, 80))
}

func modalInnerWidth(width int) int {
	w := modalWidth(width)
	w -= 6 // 2 border + 4 padding
	if w < 10 {
		return 10
	}
	return w
}
