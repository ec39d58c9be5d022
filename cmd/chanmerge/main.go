// Command chanmerge is the entrypoint for the channel-merge CLI. It combines
// greyscale single-channel TIFF microscopy scans (red, green, blue) from an
// input directory into merged RGB images in an output directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/plateworks/chanmerge/internal/check"
	"github.com/plateworks/chanmerge/internal/compositor"
	"github.com/plateworks/chanmerge/internal/config"
	"github.com/plateworks/chanmerge/internal/display"
	"github.com/plateworks/chanmerge/internal/logging"
	"github.com/plateworks/chanmerge/internal/pipeline"
	"github.com/plateworks/chanmerge/internal/watch"
)

// version and commit are set at build time via -ldflags (e.g. Makefile).
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "chanmerge: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	// The default version flag also claims -v, which collides with the
	// verbose alias below and panics at flag registration.
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}
	return &cli.App{
		Name:            "chanmerge",
		Usage:           "merge single-channel greyscale microscopy scans into RGB TIFFs",
		Version:         fmt.Sprintf("%s (%s)", version, commit),
		ArgsUsage:       "<input_dir> <output_dir>",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML config file `PATH`",
				Value: "chanmerge.yaml",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "compositing backend: native or magick",
			},
			&cli.StringFlag{
				Name:  "convert-binary",
				Usage: "explicit ImageMagick binary `PATH` (magick backend)",
			},
			&cli.StringSliceFlag{
				Name:  "ext",
				Usage: "recognized scan extension (repeatable)",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "parallel merge jobs",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Usage:   "plan and report without writing any output",
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "overwrite existing merged outputs",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "keep running and re-merge when new scans arrive",
			},
			&cli.DurationFlag{
				Name:  "settle",
				Usage: "quiet period before a watch re-run",
				Value: 2 * time.Second,
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  "color",
				Usage: "colored output: auto, always or never",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable colored output (same as --color never)",
			},
			&cli.StringFlag{
				Name:  "log",
				Usage: "also log to `FILE` (rotated)",
			},
			&cli.BoolFlag{
				Name:  "check",
				Usage: "run backend diagnostics and exit",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	cfg := config.DefaultConfig()

	// Config file first, then flags override. The default path is optional;
	// an explicitly named file must exist.
	if err := config.LoadFile(&cfg, c.String("config"), !c.IsSet("config")); err != nil {
		return err
	}
	applyFlags(&cfg, c)

	if !cfg.CheckOnly {
		if c.Args().Len() != 2 {
			return errors.New("need exactly input_dir and output_dir (see --help)")
		}
		cfg.InputDir = config.NormalizeDirArg(c.Args().Get(0))
		cfg.OutputDir = config.NormalizeDirArg(c.Args().Get(1))
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.Setup(&cfg)
	display.PrintBanner()
	log := logging.Component("main")

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return cli.Exit("", 1)
		}
		return nil
	}

	// Input must exist; output is created if needed and must not live inside
	// the input, or the next run would discover merged output as scans.
	inputAbs, err := absPath(cfg.InputDir)
	if err != nil {
		return fmt.Errorf("input directory not found: %s", cfg.InputDir)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("cannot create output directory: %w", err)
	}
	outputAbs, err := absPath(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("cannot resolve output path: %s", cfg.OutputDir)
	}
	if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
		return err
	}

	if err := check.Deps(&cfg); err != nil {
		return err
	}
	comp, err := compositor.New(&cfg)
	if err != nil {
		return err
	}

	log.Info().
		Str("version", version).
		Str("in", cfg.InputDir).
		Str("out", cfg.OutputDir).
		Str("backend", comp.Name()).
		Msg("chanmerge starting")
	if cfg.DryRun {
		log.Warn().Msg("dry run, nothing will be written")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runBatch := func(ctx context.Context) bool {
		_, report, runErr := pipeline.Run(ctx, &cfg, comp)
		if runErr != nil {
			log.Error().Err(runErr).Msg("batch failed")
			return false
		}
		return !report.HasErrors()
	}

	// In watch mode the exit code reflects the most recent batch, so a
	// session interrupted after a failing batch still exits nonzero.
	lastOK := runBatch(ctx)

	if cfg.Watch {
		w := &watch.Watcher{
			Dir:        cfg.InputDir,
			Extensions: cfg.Extensions,
			Settle:     cfg.SettleDelay,
		}
		if err := w.Run(ctx, func(ctx context.Context) { lastOK = runBatch(ctx) }); err != nil {
			return err
		}
	}

	if !lastOK {
		return cli.Exit("", 1)
	}
	return nil
}

// applyFlags copies explicitly set CLI flags over the file-loaded config.
func applyFlags(cfg *config.Config, c *cli.Context) {
	if c.IsSet("backend") {
		cfg.Backend = config.Backend(c.String("backend"))
	}
	if c.IsSet("convert-binary") {
		cfg.ConvertBinary = c.String("convert-binary")
	}
	if c.IsSet("ext") {
		cfg.Extensions = c.StringSlice("ext")
	}
	if c.IsSet("jobs") {
		cfg.Jobs = c.Int("jobs")
	}
	if c.IsSet("settle") {
		cfg.SettleDelay = c.Duration("settle")
	}
	if c.IsSet("color") {
		cfg.ColorMode = config.ColorMode(c.String("color"))
	}
	if c.Bool("no-color") {
		cfg.ColorMode = config.ColorNever
	}
	if c.IsSet("log") {
		cfg.LogFile = c.String("log")
	}
	cfg.DryRun = c.Bool("dry-run")
	cfg.Watch = c.Bool("watch")
	cfg.Verbose = c.Bool("verbose")
	cfg.CheckOnly = c.Bool("check")
	if c.Bool("force") {
		cfg.SkipExisting = false
	}
}

// absPath returns the absolute path with symlinks resolved, for comparing
// the input and output hierarchies.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
