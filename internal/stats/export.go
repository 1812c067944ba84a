package stats

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/verte-zerg/ampgraph/internal/logdata"
)

// Default export size in inches.
const (
	DefaultExportWidth  = 8.0
	DefaultExportHeight = 4.0
)

var exportFormats = map[string]bool{
	".png":  true,
	".svg":  true,
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
}

// ExportImage renders the time chart of ds to path. The image format follows the
// file extension: png, svg, pdf or jpg.
func ExportImage(path string, ds *logdata.DataSet, widthIn, heightIn float64) error {
	if ds.Len() == 0 {
		return logdata.ErrEmptySeries
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !exportFormats[ext] {
		return fmt.Errorf("unsupported image format %q", ext)
	}
	if widthIn <= 0 || heightIn <= 0 {
		return fmt.Errorf("image size must be positive, got %gx%g in", widthIn, heightIn)
	}

	p := plot.New()
	p.Title.Text = ds.FileName()
	p.X.Label.Text = timeAxisLabel
	p.Y.Label.Text = AxisLabel(ds.ValueType(), ds.Unit())
	p.Add(plotter.NewGrid())

	times, values := ds.Times(), ds.Values()
	pts := make(plotter.XYs, len(values))
	for i := range values {
		pts[i].X = times[i]
		pts[i].Y = values[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("failed to build chart line: %w", err)
	}
	line.Color = color.RGBA{R: 220, G: 30, B: 30, A: 255}
	p.Add(line)

	if err := p.Save(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save chart image: %w", err)
	}
	return nil
}
