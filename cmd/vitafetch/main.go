// Package main is the entry point for vitafetch. It loads the layered
// configuration, starts the collector units and hands their results to the
// display driver, which draws the report once or progressively.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/Guliveer/vitafetch/internal/cache"
	"github.com/Guliveer/vitafetch/internal/collector"
	"github.com/Guliveer/vitafetch/internal/config"
	"github.com/Guliveer/vitafetch/internal/display"
	"github.com/Guliveer/vitafetch/internal/platform"
	"github.com/Guliveer/vitafetch/internal/render"
	"github.com/Guliveer/vitafetch/internal/report"
)

// version is set at build time via -ldflags.
var version = "dev"

type options struct {
	configPath   string
	mode         string
	static       bool
	json         bool
	noColor      bool
	noCache      bool
	clearCache   bool
	small        bool
	gap          int
	interval     time.Duration
	probeTimeout time.Duration
	fields       []string
	show         []string
	hide         []string
	debug        bool
	logFile      string
	writeConfig  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "vitafetch: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "vitafetch",
		Short:         "Show system information next to your OS logo",
		Long:          "vitafetch gathers facts about this machine concurrently and draws them beside an ASCII logo,\nupdating the output in place as each probe finishes.",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	f.StringVar(&opts.mode, "mode", "", "Display mode: auto, progressive or static")
	f.BoolVar(&opts.static, "static", false, "Draw once after every probe has finished")
	f.BoolVar(&opts.json, "json", false, "Print the report as JSON")
	f.BoolVar(&opts.noColor, "no-color", false, "Disable colors")
	f.BoolVar(&opts.noCache, "no-cache", false, "Probe everything instead of reading the cache")
	f.BoolVar(&opts.clearCache, "clear-cache", false, "Remove the cache file and exit")
	f.BoolVar(&opts.small, "small", false, "Use the small logo")
	f.IntVar(&opts.gap, "gap", 0, "Spaces between the logo and the info column")
	f.DurationVar(&opts.interval, "interval", 0, "Progressive redraw interval")
	f.DurationVar(&opts.probeTimeout, "probe-timeout", 0, "Timeout for each external command")
	f.StringSliceVar(&opts.fields, "fields", nil, "Fields to show, replacing the configured list ("+strings.Join(report.FieldNames(), ",")+")")
	f.StringSliceVar(&opts.show, "show", nil, "Fields to add to the configured list")
	f.StringSliceVar(&opts.hide, "hide", nil, "Fields to remove from the configured list")
	f.BoolVar(&opts.debug, "debug", false, "Log debug output to stderr")
	f.StringVar(&opts.logFile, "log-file", "", "Also write JSON logs to this file")
	f.StringVar(&opts.writeConfig, "write-config", "", "Write the effective configuration to this path and exit")
	cmd.MarkFlagsMutuallyExclusive("static", "mode")
	cmd.MarkFlagsMutuallyExclusive("fields", "show")
	cmd.MarkFlagsMutuallyExclusive("fields", "hide")

	return cmd
}

func (o options) overrides(cmd *cobra.Command) config.CLIOverrides {
	cli := config.CLIOverrides{
		Mode:         o.mode,
		Fields:       o.fields,
		Show:         o.show,
		Hide:         o.hide,
		Interval:     o.interval,
		ProbeTimeout: o.probeTimeout,
		NoColor:      o.noColor,
		NoCache:      o.noCache,
		SmallLogo:    o.small,
		LogFile:      o.logFile,
	}
	if o.static {
		cli.Mode = config.ModeStatic
	}
	if o.debug {
		cli.LogLevel = "debug"
	}
	if cmd.Flags().Changed("gap") {
		gap := o.gap
		cli.Gap = &gap
	}
	return cli
}

func run(cmd *cobra.Command, opts options) error {
	var paths []string
	if opts.configPath != "" {
		paths = append(paths, opts.configPath)
	}
	cfg, err := config.LoadLayered(opts.overrides(cmd), embeddedConfig, paths...)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	enabled, err := cfg.Enabled()
	if err != nil {
		return err
	}

	if opts.writeConfig != "" {
		if err := config.WriteConfig(cfg, opts.writeConfig); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", opts.writeConfig)
		return nil
	}

	logger := initLogger(cfg)
	defer logger.Sync()

	store := cache.New(cfg.Cache.Path, cfg.Cache.MaxAge.Duration, logger.Named("cache"))
	if opts.clearCache {
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared: %s\n", store.Path())
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle OS signals so an interrupted progressive run restores the cursor
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Debug("Received signal, stopping", zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	runner := platform.NewExec(cfg.Probes.Timeout.Duration, logger.Named("exec"))
	files := platform.OSFiles{}
	registry := collector.NewDefaultRegistry(collector.Deps{
		Platform: platform.New(runner, files, logger.Named("platform")),
		Runner:   runner,
		Files:    files,
		Logger:   logger.Named("collector"),
	})
	if err := registry.Verify(); err != nil {
		return err
	}

	var cached []report.Result
	if cfg.Cache.Enabled {
		if cached, err = store.Load(); err != nil {
			logger.Debug("Cache ignored", zap.Error(err))
		}
	}

	start := time.Now()
	results := registry.Dispatch(ctx, enabled, cached)

	var rep *report.Report
	if opts.json {
		rep, err = display.Collect(ctx, results, logger.Named("display"))
		if err == nil {
			err = display.WriteJSON(cmd.OutOrStdout(), rep, enabled)
		}
	} else {
		rep, err = draw(ctx, cfg, enabled, results, logger)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return err
	}
	logger.Debug("Run finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Stringer("populated", rep.Populated()))

	if cfg.Cache.Enabled {
		var fromCache report.FieldSet
		for _, res := range cached {
			fromCache = fromCache.With(res.Field)
		}
		if err := store.Save(rep, rep.Populated().Minus(fromCache)); err != nil {
			logger.Debug("Cache not written", zap.Error(err))
		}
	}
	return nil
}

// draw runs the display driver on stdout in the configured mode.
func draw(ctx context.Context, cfg *config.Config, enabled report.FieldSet, results <-chan report.Result, logger *zap.Logger) (*report.Report, error) {
	fd := int(os.Stdout.Fd())
	tty := term.IsTerminal(fd)
	progressive := useProgressive(cfg, tty)
	logger.Debug("Display mode",
		zap.String("mode", cfg.Display.Mode),
		zap.Bool("tty", tty),
		zap.Bool("progressive", progressive))

	var height int
	opts := render.Options{
		Gap:         cfg.Display.Gap,
		BarWidth:    cfg.Display.BarWidth,
		ColorBlocks: cfg.Display.ColorBlocks,
		Icons:       cfg.Display.Icons,
	}
	if tty {
		if width, rows, err := term.GetSize(fd); err == nil && width > 0 {
			opts.MaxWidth = width
			height = rows
		}
	}
	renderer := render.New(render.NewPalette(cfg.Display.Color && tty), opts)

	driver := display.New(os.Stdout, renderer, enabled, display.Options{
		Progressive: progressive,
		Interval:    cfg.Display.Interval.Duration,
		SmallLogo:   cfg.Display.SmallLogo,
		MaxHeight:   height,
	}, logger.Named("display"))
	return driver.Run(ctx, results)
}

// useProgressive decides whether frames are redrawn in place. Console log
// lines on a terminal would land between frames and throw off the redraw,
// so verbose logging forces static output there.
func useProgressive(cfg *config.Config, tty bool) bool {
	switch cfg.Display.Mode {
	case config.ModeStatic:
		return false
	case config.ModeAuto:
		if !tty {
			return false
		}
	}
	return !tty || logLevel(cfg) >= zapcore.ErrorLevel
}

func logLevel(cfg *config.Config) zapcore.Level {
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	}
	return zapcore.ErrorLevel
}

// initLogger creates a zap logger based on the configuration.
// Console output goes to stderr so it never mixes with drawn frames; an
// optional JSON log file receives the same entries.
func initLogger(cfg *config.Config) *zap.Logger {
	level := logLevel(cfg)

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Console output (human-readable)
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		level,
	)

	cores := []zapcore.Core{consoleCore}

	// File output (structured JSON, if configured)
	if cfg.Logging.File != "" {
		file, err := os.OpenFile(cfg.Logging.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
		if err == nil {
			fileCore := zapcore.NewCore(
				zapcore.NewJSONEncoder(encoderConfig),
				zapcore.AddSync(file),
				level,
			)
			cores = append(cores, fileCore)
		}
	}

	return zap.New(zapcore.NewTee(cores...))
}
