package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/user/irtecon_viewer_go/internal/analysis"
	"github.com/user/irtecon_viewer_go/internal/parser"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotOptions controls the size, colors and curve selection of rendered plots.
type PlotOptions struct {
	Width  float64 // points
	Height float64 // points
	Colors []color.Color
	// Curves lists 1-based curve numbers to draw; empty draws every curve.
	// Numbers past the last curve are ignored.
	Curves []int
}

// DefaultPlotOptions returns an 800x400 point canvas with the default pen colors.
func DefaultPlotOptions() PlotOptions {
	colors, _ := ParseColors(DefaultLineColors)
	return PlotOptions{Width: 800, Height: 400, Colors: colors}
}

func (o PlotOptions) lineColor(i int) color.Color {
	if len(o.Colors) == 0 {
		return color.Black
	}
	return o.Colors[i%len(o.Colors)]
}

// selectedCurves returns the 0-based curve indices to draw.
func (o PlotOptions) selectedCurves(n int) []int {
	if len(o.Curves) == 0 {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all
	}
	sel := make([]int, 0, len(o.Curves))
	for _, c := range o.Curves {
		if c >= 1 && c <= n {
			sel = append(sel, c-1)
		}
	}
	return sel
}

// CurveLabel is the legend entry of the curve at a 0-based index.
func CurveLabel(doc *parser.Document, i int) string {
	if l := strings.TrimSpace(doc.Curves[i].Legend); l != "" {
		return l
	}
	return analysis.CurveID(i)
}

// CreateCurvePlot draws every selected curve of a document as a line of its
// first two columns. The bottom axis and left axis carry the labels of the
// file axes mapped to them; a right axis label is appended to the left one.
func CreateCurvePlot(doc *parser.Document, opts PlotOptions) ([]byte, error) {
	if doc == nil || len(doc.Curves) == 0 {
		return nil, fmt.Errorf("no curves to plot")
	}

	p := plot.New()
	p.Title.Text = strings.TrimSpace(doc.SampleName)

	axes := DisplayAxes(doc)
	if l, ok := axes[AxisBottom]; ok {
		p.X.Label.Text = l.Text()
	}
	var yLabels []string
	if l, ok := axes[AxisLeft]; ok {
		yLabels = append(yLabels, l.Text())
	}
	if l, ok := axes[AxisRight]; ok {
		yLabels = append(yLabels, l.Text())
	}
	p.Y.Label.Text = strings.Join(yLabels, " / ")

	p.Add(plotter.NewGrid())

	linesPlotted := 0
	for _, i := range opts.selectedCurves(len(doc.Curves)) {
		xs, ys, _ := analysis.CurvePoints(doc.Curves[i])
		if len(xs) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(xs))
		for k := range xs {
			pts[k] = plotter.XY{X: xs[k], Y: ys[k]}
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create line for curve %d: %w", i+1, err)
		}
		line.Color = opts.lineColor(i)
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(CurveLabel(doc, i), line)
		linesPlotted++
	}
	if linesPlotted == 0 {
		return nil, fmt.Errorf("selected curves have no plottable points")
	}

	p.Legend.Top = true
	p.Legend.XOffs = vg.Points(-10)
	return render(p, opts)
}

// CreateDatasetPlot draws every column of an imported table against the first one.
func CreateDatasetPlot(ds *parser.Dataset, title string, opts PlotOptions) ([]byte, error) {
	if ds == nil || len(ds.Rows) == 0 {
		return nil, fmt.Errorf("no rows to plot")
	}
	if len(ds.Names) < 2 {
		return nil, fmt.Errorf("need at least two columns to plot, got %d", len(ds.Names))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = columnLabel(ds, 0)
	if units := uniqueUnits(ds); len(units) == 1 && units[0] != "" {
		p.Y.Label.Text = units[0]
	}
	p.Add(plotter.NewGrid())

	linesPlotted := 0
	for col := 1; col < len(ds.Names); col++ {
		pts := make(plotter.XYs, 0, len(ds.Rows))
		for _, row := range ds.Rows {
			if col >= len(row) || math.IsNaN(row[0]) || math.IsNaN(row[col]) {
				continue
			}
			pts = append(pts, plotter.XY{X: row[0], Y: row[col]})
		}
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create line for column %q: %w", ds.Names[col], err)
		}
		line.Color = opts.lineColor(col - 1)
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(columnLabel(ds, col), line)
		linesPlotted++
	}
	if linesPlotted == 0 {
		return nil, fmt.Errorf("no column has plottable values")
	}

	p.Legend.Top = true
	return render(p, opts)
}

func columnLabel(ds *parser.Dataset, col int) string {
	if col < len(ds.Units) && ds.Units[col] != "" {
		return AxisLabel{Name: ds.Names[col], Unit: ds.Units[col]}.Text()
	}
	return ds.Names[col]
}

// uniqueUnits returns the distinct units of the value columns.
func uniqueUnits(ds *parser.Dataset) []string {
	seen := make(map[string]bool)
	var units []string
	for col := 1; col < len(ds.Units); col++ {
		if !seen[ds.Units[col]] {
			seen[ds.Units[col]] = true
			units = append(units, ds.Units[col])
		}
	}
	return units
}

func render(p *plot.Plot, opts PlotOptions) ([]byte, error) {
	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		w, h = 800, 400
	}
	writer, err := p.WriterTo(vg.Points(w), vg.Points(h), "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %w", err)
	}
	return buf.Bytes(), nil
}
