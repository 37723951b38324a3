package report

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/user/irtecon_viewer_go/internal/analysis"
	"github.com/user/irtecon_viewer_go/internal/parser"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)

	rankingLimit = 10
)

// Keys of the images BuildPDFReport places on its plot pages.
const (
	ImageCurves  = "curves"
	ImageHeatmap = "heatmap"
)

// pdfStyler holds reusable styling and the flow position of a report.
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	tr          func(string) string // UTF-8 to the core font code page
	styles      map[string]func()
	lineHeight  float64
	currentY    float64
	pageHeight  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		tr:          pdf.UnicodeTranslatorFromDescriptor(""),
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageHeight:  pdfPageHeightLandscape - pdfMargin,
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
	s.styles["tableCellMuted"] = func() { // curves without points
		s.pdf.SetFont("Arial", "I", 9)
		s.pdf.SetTextColor(150, 150, 150)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = s.contentTopY
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.newPage()
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	text = s.tr(text)
	lines := s.pdf.SplitLines([]byte(text), pdfContentWidth)
	s.checkAddPage(float64(max(len(lines), 1)) * s.lineHeight)

	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

// writeTable draws a bordered table spanning the content width. cellStyle
// picks the style of a body row; nil uses "tableCell".
func (s *pdfStyler) writeTable(headers []string, widthsRel []float64, rows [][]string, cellStyle func(row int) string) {
	widths := make([]float64, len(widthsRel))
	for i, rel := range widthsRel {
		widths[i] = rel * pdfContentWidth
	}

	writeHeader := func() {
		s.applyStyle("tableHeader")
		x := pdfMargin
		for i, h := range headers {
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(widths[i], s.lineHeight, s.tr(h), "1", 0, "C", true, 0, "")
			x += widths[i]
		}
		s.currentY += s.lineHeight
	}

	s.checkAddPage(2 * s.lineHeight)
	writeHeader()
	for r, row := range rows {
		if s.currentY+s.lineHeight > s.pageHeight {
			s.newPage()
			writeHeader()
		}
		style := "tableCell"
		if cellStyle != nil {
			style = cellStyle(r)
		}
		s.applyStyle(style)
		x := pdfMargin
		for i, cell := range row {
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(widths[i], s.lineHeight, s.tr(cell), "1", 0, "C", false, 0, "")
			x += widths[i]
		}
		s.currentY += s.lineHeight
	}
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width float64, height float64, caption string) {
	s.pdf.RegisterImageOptionsReader(imageName, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(imageBytes))

	if width > pdfContentWidth {
		ratio := pdfContentWidth / width
		width = pdfContentWidth
		height *= ratio
	}

	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	x := pdfMargin + (pdfContentWidth-width)/2
	s.pdf.ImageOptions(imageName, x, s.currentY, width, height, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	s.currentY += height

	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, "normal", "C")
	}
	s.addSpacer(2)
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// BuildPDFReport writes a report of one document: its header lines, axis
// and curve tables, the statistics rankings and the plots found in
// plotImages under ImageCurves and ImageHeatmap.
func BuildPDFReport(filepath string, doc *parser.Document, results *analysis.AnalysisResults,
	plotImages map[string][]byte) error {
	if doc == nil {
		return fmt.Errorf("document is nil, cannot build report")
	}

	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTitle(strings.TrimSpace(doc.SampleName), true)
	pdf.AddPage()

	styler := newPDFStyler(pdf)

	title := "IRTECON Curve Report"
	if name := strings.TrimSpace(doc.SampleName); name != "" {
		title = fmt.Sprintf("%s: %s", title, name)
	}
	styler.writeParagraph(title, "h1", "C")
	styler.addSpacer(5)
	styler.writeParagraph(fmt.Sprintf("Program: %s", strings.TrimSpace(doc.Program)), "normal", "L")
	styler.writeParagraph(fmt.Sprintf("Configuration file: %s", strings.TrimSpace(doc.ConfigurationFile)), "normal", "L")
	styler.writeParagraph(fmt.Sprintf("Curves: %d, axes: %d", len(doc.Curves), len(doc.Axes)), "normal", "L")
	styler.addSpacer(5)

	styler.writeParagraph("Axes", "h2", "L")
	if len(doc.Axes) > 0 {
		rows := make([][]string, 0, len(doc.Axes))
		for _, a := range doc.Axes {
			display := "-"
			if side, ok := AxisPositions[a.Index]; ok {
				display = string(side)
			}
			rows = append(rows, []string{
				strconv.Itoa(a.Index), display, a.Name, a.Unit, formatStat(a.Min), formatStat(a.Max),
			})
		}
		styler.writeTable([]string{"Index", "Display", "Name", "Unit", "Min", "Max"},
			[]float64{0.1, 0.15, 0.3, 0.15, 0.15, 0.15}, rows, nil)
	} else {
		styler.writeParagraph("The file describes no axes.", "normal", "L")
	}
	styler.addSpacer(5)

	styler.writeParagraph("Curves", "h2", "L")
	if len(doc.Curves) > 0 {
		stats := make(map[int]analysis.CurveStats)
		if results != nil {
			for _, r := range results.Results {
				stats[r.CurveIndex] = r
			}
		}
		rows := make([][]string, 0, len(doc.Curves))
		for i, c := range doc.Curves {
			st, ok := stats[i]
			mean, std := math.NaN(), math.NaN()
			if ok {
				mean, std = st.YMean, st.YStdDev
			}
			rows = append(rows, []string{
				analysis.CurveID(i),
				strings.TrimSpace(c.Legend),
				c.Time.Format("2006-01-02 15:04:05"),
				formatStat(c.Duration),
				strconv.Itoa(len(c.Data)),
				formatStat(mean),
				formatStat(std),
			})
		}
		styler.writeTable([]string{"Curve", "Legend", "Time", "Duration", "Rows", "Y mean", "Y std. dev."},
			[]float64{0.08, 0.28, 0.18, 0.1, 0.08, 0.14, 0.14}, rows,
			func(r int) string {
				if len(doc.Curves[r].Data) == 0 {
					return "tableCellMuted"
				}
				return "tableCell"
			})
	} else {
		styler.writeParagraph("The file contains no curves.", "normal", "L")
	}

	if results != nil {
		styler.newPage()
		rankings := []struct {
			Title      string
			Data       []analysis.RankedCurveInfo
			ValueLabel string
		}{
			{"Curves by Largest Y Span", results.RankedBySpan, "Span (max - min)"},
			{"Curves by Largest Y Standard Deviation", results.RankedByStdDev, "Std. Deviation"},
		}
		for _, rankSet := range rankings {
			styler.writeParagraph(rankSet.Title, "h2", "L")
			if len(rankSet.Data) == 0 {
				styler.writeParagraph(fmt.Sprintf("No data for %s.", strings.ToLower(rankSet.Title)), "normal", "L")
				styler.addSpacer(5)
				continue
			}
			rows := make([][]string, 0, rankingLimit)
			for i, item := range rankSet.Data {
				if i >= rankingLimit {
					break
				}
				rows = append(rows, []string{strconv.Itoa(i + 1), item.CurveID, item.Legend, formatStat(item.Value)})
			}
			styler.writeTable([]string{"Rank", "Curve", "Legend", rankSet.ValueLabel},
				[]float64{0.1, 0.15, 0.45, 0.3}, rows, nil)
			styler.addSpacer(5)
		}

		if len(results.AnalysisErrors) > 0 {
			styler.writeParagraph("Warnings", "h2", "L")
			for _, w := range results.AnalysisErrors {
				styler.writeParagraph(w, "normal", "L")
			}
		}
	}

	plotDefs := []struct {
		Key     string
		Title   string
		Caption string
	}{
		{ImageCurves, "Curves", "Column 1 against column 0 of every curve"},
		{ImageHeatmap, "Curve Heatmap", "Column 1 values by curve and sample index"},
	}
	imgWidth := pdfContentWidth * 0.9
	imgHeight := imgWidth / 2 // plots are rendered 2:1

	for _, pDef := range plotDefs {
		imgBytes, ok := plotImages[pDef.Key]
		if !ok || len(imgBytes) == 0 {
			continue
		}
		styler.newPage()
		styler.writeParagraph(pDef.Title, "h2", "L")
		styler.addImage(imgBytes, pDef.Key, imgWidth, imgHeight, pDef.Caption)
	}

	return pdf.OutputFileAndClose(filepath)
}
