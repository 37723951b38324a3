package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/user/irtecon_viewer_go/internal/parser"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CurvePoints returns the (x, y) pairs of a curve: the first two columns of
// every row. Rows with fewer than two values or a NaN are skipped and counted.
func CurvePoints(c parser.Curve) (xs, ys []float64, skipped int) {
	xs = make([]float64, 0, len(c.Data))
	ys = make([]float64, 0, len(c.Data))
	for _, row := range c.Data {
		if len(row) < 2 || math.IsNaN(row[0]) || math.IsNaN(row[1]) {
			skipped++
			continue
		}
		xs = append(xs, row[0])
		ys = append(ys, row[1])
	}
	return xs, ys, skipped
}

// CurveID returns the label used for the curve at a 0-based index.
func CurveID(index int) string {
	return fmt.Sprintf("C%d", index+1)
}

// AnalyzeDocument computes per-curve statistics of a parsed IRTECON document.
func AnalyzeDocument(doc *parser.Document) (*AnalysisResults, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil, cannot analyze")
	}

	results := NewAnalysisResults()
	if len(doc.Curves) == 0 {
		results.AnalysisErrors = append(results.AnalysisErrors, "Document contains no curves.")
		return results, nil
	}

	bySpan := []RankedCurveInfo{}
	byStdDev := []RankedCurveInfo{}

	for i, curve := range doc.Curves {
		legend := strings.TrimSpace(curve.Legend)
		res := CurveStats{
			CurveIndex: i,
			CurveID:    CurveID(i),
			Legend:     legend,
			NumRows:    len(curve.Data),
			XMin:       math.NaN(),
			XMax:       math.NaN(),
			YMin:       math.NaN(),
			YMax:       math.NaN(),
			YMean:      math.NaN(),
			YStdDev:    math.NaN(),
			YSpan:      math.NaN(),
		}
		for _, row := range curve.Data {
			res.NumColumns = max(res.NumColumns, len(row))
		}

		xs, ys, skipped := CurvePoints(curve)
		res.NumPoints = len(xs)
		if skipped > 0 {
			results.AnalysisErrors = append(results.AnalysisErrors,
				fmt.Sprintf("Curve %s: %d of %d rows have no (x, y) pair and were skipped.", res.CurveID, skipped, res.NumRows))
		}

		if len(xs) == 0 {
			res.Error = "no plottable points"
			results.Results = append(results.Results, res)
			continue
		}

		res.XMin, res.XMax = floats.Min(xs), floats.Max(xs)
		res.YMin, res.YMax = floats.Min(ys), floats.Max(ys)
		res.YSpan = res.YMax - res.YMin
		res.YMean, res.YStdDev = stat.PopMeanStdDev(ys, nil)

		bySpan = append(bySpan, RankedCurveInfo{CurveID: res.CurveID, Legend: legend, Value: res.YSpan})
		byStdDev = append(byStdDev, RankedCurveInfo{CurveID: res.CurveID, Legend: legend, Value: res.YStdDev})
		results.Results = append(results.Results, res)
	}

	sort.SliceStable(bySpan, func(i, j int) bool {
		return bySpan[i].Value > bySpan[j].Value // Descending
	})
	results.RankedBySpan = bySpan

	sort.SliceStable(byStdDev, func(i, j int) bool {
		return byStdDev[i].Value > byStdDev[j].Value // Descending
	})
	results.RankedByStdDev = byStdDev

	return results, nil
}
