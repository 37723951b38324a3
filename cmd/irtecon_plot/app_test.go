package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/irtecon_viewer_go/internal/config"
)

const sampleFile = ` Program     : IRTECON 2.1
 Config      : C:\cfg\tds.cfg
 Sample name : wafer 7
#START axis description
  2  0,0  10,0  a b c d e f s Time
  3  0,0  5,0  a b c d e f V Signal
#END axis description
#START Curve description 1
#START Date: 12:34:56 07-Mar-2021
#START Time: 3,0 1,5
#START Curve Legend : run A
#START Curve Data
0,0 1,0
1,0 2,0
2,0 1,5
#END Curve 1 ----------------
#START Curve description 2
#START Curve Legend : run B
#START Curve Data
0,0 0,5
1,0 0,75
2,0 1,25
#END Curve 2 ----------------
`

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.Report.Workers = 2
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := NewApp(cfg, logger)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app
}

func writeSample(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOutputPath(t *testing.T) {
	if got := outputPath("out", "/data/run.1.grd", ".pdf"); got != filepath.Join("out", "run.1.pdf") {
		t.Errorf("outputPath = %q", got)
	}
}

func TestGenerateReports(t *testing.T) {
	app := newTestApp(t)
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "reports")
	good := writeSample(t, in, "good.grd", sampleFile)
	bad := writeSample(t, in, "bad.grd", "#START axis description\n  2 x\n")

	err := app.GenerateReports(context.Background(), []string{good, bad}, out)
	if err == nil {
		t.Fatal("expected error for the malformed file")
	}
	if !strings.Contains(err.Error(), "1 of 2 reports failed") || !strings.Contains(err.Error(), "bad.grd") {
		t.Errorf("error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(out, "good.pdf"))
	if err != nil {
		t.Fatalf("report for good.grd missing: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("good.pdf is not a PDF")
	}
	if _, err := os.Stat(filepath.Join(out, "bad.pdf")); !os.IsNotExist(err) {
		t.Error("bad.pdf should not be written")
	}
}

func TestRenderPlot(t *testing.T) {
	app := newTestApp(t)
	dir := t.TempDir()
	path := writeSample(t, dir, "run.grd", sampleFile)

	for _, heatmap := range []bool{false, true} {
		out := filepath.Join(dir, "plot.png")
		if err := app.RenderPlot(path, out, "", heatmap); err != nil {
			t.Fatalf("RenderPlot(heatmap=%v): %v", heatmap, err)
		}
		if info, err := os.Stat(out); err != nil || info.Size() == 0 {
			t.Errorf("plot not written: %v", err)
		}
	}

	if err := app.RenderPlot(path, filepath.Join(dir, "x.png"), "2-a", false); err == nil {
		t.Error("expected error for a malformed curve selection")
	}
}

func TestExportAndDump(t *testing.T) {
	app := newTestApp(t)
	dir := t.TempDir()
	path := writeSample(t, dir, "run.grd", sampleFile)

	out := filepath.Join(dir, "run.xlsx")
	if err := app.Export(path, out); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("workbook not written: %v", err)
	}

	var buf bytes.Buffer
	if err := app.Dump(path, &buf); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	for _, want := range []string{"sample_name: ' wafer 7'", "legend: ' run B'", "name: Signal"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("dump missing %q:\n%s", want, buf.String())
		}
	}
}

func TestImport(t *testing.T) {
	app := newTestApp(t)
	dir := t.TempDir()
	path := writeSample(t, dir, "scope.csv", "t,a,b\n0,1,2\n1,2,3\n2,3,5\n")

	out := filepath.Join(dir, "scope.png")
	if err := app.Import(path, out); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if info, err := os.Stat(out); err != nil || info.Size() == 0 {
		t.Errorf("plot not written: %v", err)
	}
}
