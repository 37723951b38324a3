package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/user/irtecon_viewer_go/internal/config"
)

// newApp loads the configuration named by the --config flag and builds an
// App logging at the configured level. A missing config file keeps the defaults.
func newApp(cmd *cli.Command) (*App, error) {
	configPath := cmd.String("config")

	cfg := config.NewDefaultConfig()
	loaded, err := config.LoadIfExists(configPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.App.LogLevel}))
	slog.SetDefault(logger)
	if !loaded {
		logger.Debug("Config file not found, using defaults", slog.String("path", configPath))
	}
	return NewApp(cfg, logger)
}

func requireArgs(cmd *cli.Command, n int) error {
	if cmd.Args().Len() < n {
		return fmt.Errorf("%s: expected %s", cmd.Name, cmd.ArgsUsage)
	}
	return nil
}

func outFileFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "out",
		Aliases:  []string{"o"},
		Usage:    "Output file",
		Required: true,
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "irtecon_plot",
		Usage: "Decode IRTECON measurement files and render plots, reports and workbooks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("IRTECON_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "report",
				Usage:     "Write a PDF report for each file",
				ArgsUsage: "<file>...",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output directory (default: report.output_dir)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := requireArgs(cmd, 1); err != nil {
						return err
					}
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					outDir := cmd.String("out")
					if outDir == "" {
						outDir = app.cfg.Report.OutputDir
					}
					return app.GenerateReports(ctx, cmd.Args().Slice(), outDir)
				},
			},
			{
				Name:      "plot",
				Usage:     "Render the curves of a file as a PNG",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					outFileFlag(),
					&cli.StringFlag{Name: "curves", Usage: "Curve numbers to draw, e.g. \"1-3, 5\""},
					&cli.BoolFlag{Name: "heatmap", Usage: "Render a heatmap instead of lines"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := requireArgs(cmd, 1); err != nil {
						return err
					}
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					return app.RenderPlot(cmd.Args().First(), cmd.String("out"), cmd.String("curves"), cmd.Bool("heatmap"))
				},
			},
			{
				Name:      "export",
				Usage:     "Write the axes and curves of a file to an XLSX workbook",
				ArgsUsage: "<file>",
				Flags:     []cli.Flag{outFileFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := requireArgs(cmd, 1); err != nil {
						return err
					}
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					return app.Export(cmd.Args().First(), cmd.String("out"))
				},
			},
			{
				Name:      "dump",
				Usage:     "Print the decoded file as YAML",
				ArgsUsage: "<file>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := requireArgs(cmd, 1); err != nil {
						return err
					}
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					return app.Dump(cmd.Args().First(), os.Stdout)
				},
			},
			{
				Name:      "import",
				Usage:     "Plot a plain delimited text file using the import options of the config",
				ArgsUsage: "<file>",
				Flags:     []cli.Flag{outFileFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := requireArgs(cmd, 1); err != nil {
						return err
					}
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					return app.Import(cmd.Args().First(), cmd.String("out"))
				},
			},
			{
				Name:  "watch",
				Usage: "Regenerate reports for files written into a directory",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "Directory to watch (default: watch.dir)"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output directory (default: report.output_dir)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					app, err := newApp(cmd)
					if err != nil {
						return err
					}
					dir := cmd.String("dir")
					if dir == "" {
						dir = app.cfg.Watch.Dir
					}
					outDir := cmd.String("out")
					if outDir == "" {
						outDir = app.cfg.Report.OutputDir
					}

					ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
					defer stop()
					return app.Watch(ctx, dir, outDir)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
