package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/user/irtecon_viewer_go/internal/analysis"
	"github.com/user/irtecon_viewer_go/internal/config"
	"github.com/user/irtecon_viewer_go/internal/parser"
	"github.com/user/irtecon_viewer_go/internal/report"
	"github.com/user/irtecon_viewer_go/internal/watch"
)

// App runs the parse, analyze and render pipelines of the command line tool.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	plotOpts report.PlotOptions
}

// NewApp creates an App from a validated configuration.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	opts, err := cfg.Plot.Options()
	if err != nil {
		return nil, fmt.Errorf("invalid plot configuration: %w", err)
	}
	return &App{cfg: cfg, logger: logger, plotOpts: opts}, nil
}

func (a *App) sendStatus(message string, args ...any) {
	a.logger.Info(message, args...)
}

// outputPath is dir/<base name of input without extension><ext>.
func outputPath(dir, input, ext string) string {
	base := filepath.Base(input)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+ext)
}

func (a *App) parse(path string) (*parser.Document, error) {
	a.sendStatus("Parsing", slog.String("file", path))
	doc, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	a.sendStatus("Parsed",
		slog.String("file", path),
		slog.String("sample", strings.TrimSpace(doc.SampleName)),
		slog.Int("axes", len(doc.Axes)),
		slog.Int("curves", len(doc.Curves)))
	return doc, nil
}

// GenerateReport parses one IRTECON file and writes its PDF report into
// outDir. It returns the path of the written report.
func (a *App) GenerateReport(ctx context.Context, path, outDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	doc, err := a.parse(path)
	if err != nil {
		return "", err
	}

	results, err := analysis.AnalyzeDocument(doc)
	if err != nil {
		return "", fmt.Errorf("failed to analyze %s: %w", path, err)
	}
	for _, w := range results.AnalysisErrors {
		a.logger.Warn("Analysis warning", slog.String("file", path), slog.String("warning", w))
	}

	plotImages := make(map[string][]byte)
	plotConfigs := []struct {
		Name   string
		Enable bool
		Create func(*parser.Document, report.PlotOptions) ([]byte, error)
	}{
		{report.ImageCurves, true, report.CreateCurvePlot},
		{report.ImageHeatmap, a.cfg.Plot.Heatmap, report.CreateCurveHeatmap},
	}
	for _, pc := range plotConfigs {
		if !pc.Enable {
			continue
		}
		img, err := pc.Create(doc, a.plotOpts)
		if err != nil {
			a.logger.Warn("Plot skipped", slog.String("file", path), slog.String("plot", pc.Name), slog.String("error", err.Error()))
			continue
		}
		plotImages[pc.Name] = img
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	pdfPath := outputPath(outDir, path, ".pdf")
	if err := report.BuildPDFReport(pdfPath, doc, results, plotImages); err != nil {
		return "", fmt.Errorf("failed to generate PDF report for %s: %w", path, err)
	}
	a.sendStatus("PDF report generated", slog.String("file", path), slog.String("report", pdfPath))
	return pdfPath, nil
}

// GenerateReports runs GenerateReport for every path, at most
// report.workers at a time. A failing file does not stop the others; all
// failures are returned together.
func (a *App) GenerateReports(ctx context.Context, paths []string, outDir string) error {
	var (
		mu   sync.Mutex
		errs []error
	)
	g := new(errgroup.Group)
	g.SetLimit(a.cfg.Report.Workers)
	for _, p := range paths {
		p := p
		g.Go(func() error {
			if _, err := a.GenerateReport(ctx, p, outDir); err != nil {
				a.logger.Error("Report failed", slog.String("file", p), slog.String("error", err.Error()))
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d reports failed: %w", len(errs), len(paths), errors.Join(errs...))
	}
	return nil
}

// RenderPlot writes one PNG of an IRTECON file: its curves, or their
// heatmap. curves selects 1-based curve numbers like "1-3, 5"; empty means all.
func (a *App) RenderPlot(path, out, curves string, heatmap bool) error {
	doc, err := a.parse(path)
	if err != nil {
		return err
	}
	opts := a.plotOpts
	if opts.Curves, err = parser.ParseIndexRanges(curves); err != nil {
		return fmt.Errorf("invalid curve selection: %w", err)
	}

	create := report.CreateCurvePlot
	if heatmap {
		create = report.CreateCurveHeatmap
	}
	img, err := create(doc, opts)
	if err != nil {
		return fmt.Errorf("failed to plot %s: %w", path, err)
	}
	if err := os.WriteFile(out, img, 0o644); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	a.sendStatus("Plot written", slog.String("file", path), slog.String("image", out))
	return nil
}

// Export writes the axes and curves of an IRTECON file to an XLSX workbook.
func (a *App) Export(path, out string) error {
	doc, err := a.parse(path)
	if err != nil {
		return err
	}
	if err := report.ExportWorkbook(out, doc); err != nil {
		return err
	}
	a.sendStatus("Workbook written", slog.String("file", path), slog.String("workbook", out))
	return nil
}

// Dump writes the decoded document of an IRTECON file as YAML.
func (a *App) Dump(path string, w io.Writer) error {
	doc, err := a.parse(path)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return enc.Close()
}

// Import reads a plain delimited text file with the configured import
// options and writes a PNG of its columns.
func (a *App) Import(path, out string) error {
	a.sendStatus("Importing", slog.String("file", path), slog.String("separator", a.cfg.Import.Separator))
	ds, err := parser.ParseDelimited(path, a.cfg.Import)
	if err != nil {
		return err
	}
	for _, w := range ds.Warnings {
		a.logger.Warn("Import warning", slog.String("file", path), slog.String("warning", w))
	}
	a.sendStatus("Imported", slog.String("file", path), slog.Int("columns", len(ds.Names)), slog.Int("rows", len(ds.Rows)))

	img, err := report.CreateDatasetPlot(ds, filepath.Base(path), a.plotOpts)
	if err != nil {
		return fmt.Errorf("failed to plot %s: %w", path, err)
	}
	if err := os.WriteFile(out, img, 0o644); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	a.sendStatus("Plot written", slog.String("file", path), slog.String("image", out))
	return nil
}

// Watch regenerates the report of every matching file written into dir
// until ctx is cancelled.
func (a *App) Watch(ctx context.Context, dir, outDir string) error {
	return watch.Watch(ctx, dir, a.cfg.Watch.Pattern, a.cfg.Watch.Debounce, a.logger,
		func(ctx context.Context, path string) error {
			_, err := a.GenerateReport(ctx, path, outDir)
			return err
		})
}
