package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/user/irtecon_viewer_go/internal/parser"
	"github.com/user/irtecon_viewer_go/internal/report"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig    `yaml:"app"`
	Plot   PlotConfig           `yaml:"plot"`
	Report ReportConfig         `yaml:"report"`
	Watch  WatchConfig          `yaml:"watch"`
	Import parser.ImportOptions `yaml:"import"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Plot.Validate(); err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	if err := c.Report.Validate(); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := c.Watch.Validate(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := validation.ValidateStruct(&c.Import,
		validation.Field(&c.Import.Separator, validation.Required),
		validation.Field(&c.Import.SkipRowsBeforeHeader, validation.Min(0)),
		validation.Field(&c.Import.SkipRowsAfterHeader, validation.Min(0)),
		validation.Field(&c.Import.SkipRowsAtBottom, validation.Min(0)),
	); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// PlotConfig controls rendered plot images.
type PlotConfig struct {
	Width   float64  `yaml:"width"`  // points
	Height  float64  `yaml:"height"` // points
	Colors  []string `yaml:"colors"`
	Heatmap bool     `yaml:"heatmap"` // also render a heatmap in reports
}

// Validate validates the plot configuration.
func (c *PlotConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Width, validation.Required, validation.Min(100.0)),
		validation.Field(&c.Height, validation.Required, validation.Min(100.0)),
		validation.Field(&c.Colors, validation.Required, validation.Each(validation.By(func(v interface{}) error {
			_, err := report.ParseColor(v.(string))
			return err
		}))),
	)
}

// Options converts the section into report plot options.
func (c *PlotConfig) Options() (report.PlotOptions, error) {
	colors, err := report.ParseColors(c.Colors)
	if err != nil {
		return report.PlotOptions{}, err
	}
	return report.PlotOptions{Width: c.Width, Height: c.Height, Colors: colors}, nil
}

// ReportConfig holds batch report configuration.
type ReportConfig struct {
	OutputDir string `yaml:"output_dir"`
	Workers   int    `yaml:"workers"`
}

// Validate validates the report configuration.
func (c *ReportConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.Workers, validation.Required, validation.Min(1), validation.Max(64)),
	)
}

// WatchConfig holds the directory watcher configuration.
type WatchConfig struct {
	Dir      string        `yaml:"dir"`
	Pattern  string        `yaml:"pattern"`
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.Pattern, validation.Required, validation.By(func(interface{}) error {
			_, err := filepath.Match(c.Pattern, "")
			return err
		})),
		validation.Field(&c.Debounce, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Plot: PlotConfig{
			Width:   800,
			Height:  400,
			Colors:  append([]string(nil), report.DefaultLineColors...),
			Heatmap: true,
		},
		Report: ReportConfig{
			OutputDir: "./reports",
			Workers:   4,
		},
		Watch: WatchConfig{
			Dir:      ".",
			Pattern:  "*.grd",
			Debounce: 500 * time.Millisecond,
		},
		Import: parser.DefaultImportOptions(),
	}
}
