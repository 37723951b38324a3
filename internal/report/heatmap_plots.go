package report

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/user/irtecon_viewer_go/internal/parser"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
)

// curveGrid lays out the y column of several curves as a grid: one row per
// curve, one column per sample index. Missing samples read as NaN.
type curveGrid struct {
	rows [][]float64
	cols int
}

func newCurveGrid(doc *parser.Document, curves []int) curveGrid {
	g := curveGrid{rows: make([][]float64, len(curves))}
	for r, i := range curves {
		data := doc.Curves[i].Data
		row := make([]float64, len(data))
		for k, sample := range data {
			row[k] = math.NaN()
			if len(sample) >= 2 {
				row[k] = sample[1]
			}
		}
		g.rows[r] = row
		g.cols = max(g.cols, len(row))
	}
	return g
}

func (g curveGrid) Dims() (c, r int) { return g.cols, len(g.rows) }

func (g curveGrid) Z(c, r int) float64 {
	if row := g.rows[r]; c < len(row) {
		return row[c]
	}
	return math.NaN()
}

func (g curveGrid) X(c int) float64 { return float64(c) }
func (g curveGrid) Y(r int) float64 { return float64(r) }

// valueRange returns the smallest and largest non-NaN value of the grid.
func (g curveGrid) valueRange() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range g.rows {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			lo, hi = math.Min(lo, v), math.Max(hi, v)
			ok = true
		}
	}
	return lo, hi, ok
}

// CreateCurveHeatmap renders the y values of the selected curves as a heatmap,
// curves on the vertical axis and sample index on the horizontal one.
func CreateCurveHeatmap(doc *parser.Document, opts PlotOptions) ([]byte, error) {
	if doc == nil || len(doc.Curves) == 0 {
		return nil, fmt.Errorf("no curves to plot heatmap")
	}
	curves := opts.selectedCurves(len(doc.Curves))
	grid := newCurveGrid(doc, curves)
	numCols, numRows := grid.Dims()
	if numRows < 2 || numCols < 2 {
		return nil, fmt.Errorf("heatmap needs at least two curves and two samples, got %d x %d", numRows, numCols)
	}
	lo, hi, ok := grid.valueRange()
	if !ok {
		return nil, fmt.Errorf("no plottable values for heatmap")
	}
	if lo == hi {
		hi = lo + 1
	}

	p := plot.New()
	title := strings.TrimSpace(doc.SampleName)
	if l, ok := DisplayAxes(doc)[AxisLeft]; ok {
		title = fmt.Sprintf("%s: %s", title, l.Text())
	}
	p.Title.Text = title
	p.X.Label.Text = "Sample index"
	p.Y.Label.Text = "Curve"

	yTicks := make([]plot.Tick, numRows)
	for r, i := range curves {
		yTicks[r] = plot.Tick{Value: float64(r), Label: CurveLabel(doc, i)}
	}
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)

	hm := plotter.NewHeatMap(grid, palette.Heat(16, 1))
	hm.Min = lo
	hm.Max = hi
	hm.NaN = color.Gray{Y: 200}
	p.Add(hm)

	return render(p, opts)
}
