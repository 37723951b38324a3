package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewDefaultConfig_Valid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	t.Setenv("IRTECON_TEST_OUT", "/tmp/irtecon-out")
	path := writeConfig(t, `
app:
  log_level: debug
plot:
  width: 1024
  colors: ["k", "#ff8800"]
report:
  output_dir: ${IRTECON_TEST_OUT}
watch:
  debounce: 2s
import:
  separator: semicolon
  decimal_comma: true
`)
	cfg := NewDefaultConfig()
	if err := Load(path, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v, want debug", cfg.App.LogLevel)
	}
	if cfg.Plot.Width != 1024 || cfg.Plot.Height != 400 {
		t.Errorf("plot size = %vx%v, want 1024x400", cfg.Plot.Width, cfg.Plot.Height)
	}
	if cfg.Report.OutputDir != "/tmp/irtecon-out" {
		t.Errorf("output dir = %q", cfg.Report.OutputDir)
	}
	if cfg.Report.Workers != 4 {
		t.Errorf("workers = %d, want default 4", cfg.Report.Workers)
	}
	if cfg.Watch.Debounce != 2*time.Second || cfg.Watch.Pattern != "*.grd" {
		t.Errorf("watch = %+v", cfg.Watch)
	}
	if cfg.Import.Separator != "semicolon" || !cfg.Import.DecimalComma || !cfg.Import.HasHeader {
		t.Errorf("import = %+v", cfg.Import)
	}

	opts, err := cfg.Plot.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if len(opts.Colors) != 2 || opts.Width != 1024 {
		t.Errorf("plot options = %+v", opts)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown color", "plot:\n  colors: [orange]\n", "plot"},
		{"no workers", "report:\n  workers: 0\n", "report"},
		{"bad pattern", "watch:\n  pattern: \"[\"\n", "watch"},
		{"empty separator", "import:\n  separator: \"\"\n", "import"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Load(writeConfig(t, tc.content), NewDefaultConfig())
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error = %v, want it to mention %q", err, tc.want)
			}
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	if err := Load(writeConfig(t, "plot: [\n"), NewDefaultConfig()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadIfExists(t *testing.T) {
	cfg := NewDefaultConfig()
	loaded, err := LoadIfExists(filepath.Join(t.TempDir(), "missing.yaml"), cfg)
	if err != nil || loaded {
		t.Fatalf("missing file: loaded = %v, err = %v", loaded, err)
	}
	if cfg.Report.Workers != 4 {
		t.Errorf("defaults changed: %+v", cfg.Report)
	}

	loaded, err = LoadIfExists(writeConfig(t, "report:\n  workers: 2\n"), cfg)
	if err != nil || !loaded {
		t.Fatalf("existing file: loaded = %v, err = %v", loaded, err)
	}
	if cfg.Report.Workers != 2 {
		t.Errorf("workers = %d, want 2", cfg.Report.Workers)
	}
}
