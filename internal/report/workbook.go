package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/user/irtecon_viewer_go/internal/analysis"
	"github.com/user/irtecon_viewer_go/internal/parser"

	"github.com/xuri/excelize/v2"
)

// SummarySheet is the name of the first sheet of an exported workbook.
const SummarySheet = "Summary"

// CurveSheetName is the sheet holding the samples of the curve at a 0-based index.
func CurveSheetName(i int) string {
	return fmt.Sprintf("Curve %d", i+1)
}

// ExportWorkbook writes a document to an XLSX file: a summary sheet with the
// header lines, axes and curves, then one sheet per curve with its samples.
func ExportWorkbook(path string, doc *parser.Document) (err error) {
	if doc == nil {
		return fmt.Errorf("document is nil, cannot export")
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}

	summary := [][]interface{}{
		{"Program", strings.TrimSpace(doc.Program)},
		{"Configuration file", strings.TrimSpace(doc.ConfigurationFile)},
		{"Sample name", strings.TrimSpace(doc.SampleName)},
		{},
		{"Axis", "Min", "Max", "Unit", "Name"},
	}
	for _, a := range doc.Axes {
		summary = append(summary, []interface{}{a.Index, cellNumber(a.Min), cellNumber(a.Max), a.Unit, a.Name})
	}
	summary = append(summary, []interface{}{}, []interface{}{"Curve", "Legend", "Time", "Duration", "Rows", "Sheet"})
	for i, c := range doc.Curves {
		summary = append(summary, []interface{}{
			analysis.CurveID(i),
			strings.TrimSpace(c.Legend),
			c.Time.Format("2006-01-02 15:04:05"),
			cellNumber(c.Duration),
			len(c.Data),
			CurveSheetName(i),
		})
	}
	if err := writeRows(f, SummarySheet, summary); err != nil {
		return err
	}

	for i, c := range doc.Curves {
		name := CurveSheetName(i)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
		rows := make([][]interface{}, len(c.Data))
		for r, sample := range c.Data {
			row := make([]interface{}, len(sample))
			for k, v := range sample {
				row[k] = cellNumber(v)
			}
			rows[r] = row
		}
		if err := writeRows(f, name, rows); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for r, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

// cellNumber leaves NaN and infinite values as empty cells.
func cellNumber(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
