// Package stats computes and renders summaries and charts for log data sets.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/verte-zerg/ampgraph/internal/logdata"
)

const (
	defaultChartHeight  = 10
	minChartWidth       = 10
	terminalWidthBackup = 80
	timeAxisLabel       = "Time (s)"
	lineColor           = "\x1b[31m"
	colorReset          = "\x1b[0m"
)

// Braille dot bits indexed by [row][column] inside one 2x4 cell.
var brailleDots = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Chart describes one series sampled at X to draw as a line.
type Chart struct {
	Title  string
	XLabel string
	YLabel string
	Unit   string
	X      []float64
	Y      []float64
}

// ChartFor builds the time chart of a data set.
func ChartFor(ds *logdata.DataSet) Chart {
	return Chart{
		Title:  ds.FileName(),
		XLabel: timeAxisLabel,
		YLabel: AxisLabel(ds.ValueType(), ds.Unit()),
		Unit:   ds.Unit(),
		X:      ds.Times(),
		Y:      ds.Values(),
	}
}

// AxisLabel formats a value type with its unit, e.g. "CURRENT (mA)".
func AxisLabel(valueType, unit string) string {
	if unit == "" {
		return valueType
	}
	return fmt.Sprintf("%s (%s)", valueType, unit)
}

// RenderChart draws c as a braille line chart. width is the number of plot columns;
// 0 fits the terminal. Color is used for terminals or when forceColor is set.
func RenderChart(w io.Writer, c Chart, width, height int, forceColor bool) error {
	if len(c.Y) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultChartHeight
	}

	minVal, maxVal := seriesRange(c.Y)
	if math.Abs(maxVal-minVal) < 1e-9 {
		minVal--
		maxVal++
	}
	labels := yAxisLabels(minVal, maxVal, height, c.Unit)
	labelWidth := maxWidth(labels)
	if width <= 0 {
		width = chartWidthFor(terminalWidth(), labelWidth)
	}
	if width < minChartWidth {
		width = minChartWidth
	}

	cells := plotCells(resampleSeries(c.Y, width), minVal, maxVal, width, height)
	useColor := shouldUseColor(w, forceColor)

	lines := make([]string, 0, height+5)
	if c.Title != "" {
		lines = append(lines, c.Title)
	}
	if c.YLabel != "" {
		lines = append(lines, c.YLabel)
	}
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(padLeft(labels[y], labelWidth))
		if labels[y] != "" {
			row.WriteString(" ┤")
		} else {
			row.WriteString(" │")
		}
		if useColor {
			row.WriteString(lineColor)
		}
		for x := 0; x < width; x++ {
			row.WriteRune(brailleRune(cells[y][x]))
		}
		if useColor {
			row.WriteString(colorReset)
		}
		lines = append(lines, row.String())
	}
	indent := strings.Repeat(" ", labelWidth+1)
	lines = append(lines, indent+"└"+strings.Repeat("─", width))
	if ticks := xAxisTicks(c.X, width); ticks != "" {
		lines = append(lines, indent+" "+ticks)
	}
	if c.XLabel != "" {
		lines = append(lines, indent+" "+c.XLabel)
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// ChartWidthFor returns the plot columns of c that fit in totalWidth terminal cells.
func ChartWidthFor(totalWidth int, c Chart, height int) int {
	if height <= 0 {
		height = defaultChartHeight
	}
	minVal, maxVal := seriesRange(c.Y)
	if math.Abs(maxVal-minVal) < 1e-9 {
		minVal--
		maxVal++
	}
	return chartWidthFor(totalWidth, maxWidth(yAxisLabels(minVal, maxVal, height, c.Unit)))
}

func chartWidthFor(totalWidth, labelWidth int) int {
	// label, space, axis tick
	plotWidth := totalWidth - labelWidth - 2
	if plotWidth < minChartWidth {
		return minChartWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func yAxisLabels(minVal, maxVal float64, height int, unit string) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = formatValue(maxVal, unit)
	if height > 1 {
		labels[height-1] = formatValue(minVal, unit)
	}
	if height > 2 {
		labels[height/2] = formatValue((minVal+maxVal)/2, unit)
	}
	return labels
}

func formatValue(v float64, unit string) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if unit == "" {
		return s
	}
	return s + " " + unit
}

// xAxisTicks places the first, middle and last sample times under the plot.
func xAxisTicks(xs []float64, width int) string {
	if len(xs) == 0 || width <= 0 {
		return ""
	}
	first := formatTick(xs[0])
	last := formatTick(xs[len(xs)-1])
	if len(xs) == 1 || len(first)+len(last)+1 > width {
		return first
	}
	buf := []rune(strings.Repeat(" ", width))
	copy(buf, []rune(first))
	copy(buf[width-len(last):], []rune(last))
	mid := formatTick((xs[0] + xs[len(xs)-1]) / 2)
	start := width/2 - len(mid)/2
	if start > len(first)+1 && start+len(mid) < width-len(last)-1 {
		copy(buf[start:], []rune(mid))
	}
	return string(buf)
}

func formatTick(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func padLeft(s string, width int) string {
	if pad := width - runewidth.StringWidth(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}

func maxWidth(values []string) int {
	widest := 0
	for _, v := range values {
		if w := runewidth.StringWidth(v); w > widest {
			widest = w
		}
	}
	return widest
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// seriesRange returns the finite extremes of values, or 0, 0 when there are none.
func seriesRange(values []float64) (float64, float64) {
	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.IsInf(minVal, 1) {
		return 0, 0
	}
	return minVal, maxVal
}

// resampleSeries maps values onto width columns: bucket means when shrinking,
// linear interpolation when stretching.
func resampleSeries(values []float64, width int) []float64 {
	n := len(values)
	if n == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	switch {
	case n == width:
		copy(out, values)
	case n > width:
		for i := range out {
			lo := i * n / width
			hi := (i + 1) * n / width
			if hi <= lo {
				hi = lo + 1
			}
			var sum float64
			for _, v := range values[lo:hi] {
				sum += v
			}
			out[i] = sum / float64(hi-lo)
		}
	case n == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		scale := float64(n-1) / float64(width-1)
		for i := range out {
			pos := float64(i) * scale
			idx := int(pos)
			if idx >= n-1 {
				out[i] = values[n-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx] + (values[idx+1]-values[idx])*frac
		}
	}
	return out
}

// plotCells rasterises cols into braille cell masks, two dot columns per cell.
func plotCells(cols []float64, minVal, maxVal float64, width, height int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	dotRows := height * 4
	prevX, prevY := -1, -1
	for x, v := range cols {
		if !isFinite(v) {
			prevX = -1
			continue
		}
		px, py := x*2, valueToRow(v, minVal, maxVal, dotRows)
		if prevX < 0 {
			setDot(cells, px, py)
		} else {
			drawLine(prevX, prevY, px, py, func(dx, dy int) {
				setDot(cells, dx, dy)
			})
		}
		prevX, prevY = px, py
	}
	return cells
}

func valueToRow(v, minVal, maxVal float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return clamp(row, 0, rows-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// drawLine walks the Bresenham line from (x0, y0) to (x1, y1) inclusive.
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx, dy := absInt(x1-x0), -absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func setDot(cells [][]uint8, x, y int) {
	if x < 0 || y < 0 {
		return
	}
	row, col := y/4, x/2
	if row >= len(cells) || col >= len(cells[row]) {
		return
	}
	cells[row][col] |= brailleDots[y%4][x%2]
}

func brailleRune(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
