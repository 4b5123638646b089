// Package main provides the agraphics command, which runs a Lua unit
// against the agraphics drawing API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gogpu/gg"
	"golang.org/x/term"

	"github.com/opd-ai/agraphics/internal/config"
	"github.com/opd-ai/agraphics/internal/preview"
	"github.com/opd-ai/agraphics/internal/profiling"
	"github.com/opd-ai/agraphics/pkg/agraphics"
)

// Version is the current version of agraphics.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

// UnitDirectory is searched after every other include path. It is empty
// unless set at build time with -ldflags "-X main.UnitDirectory=/usr/share/agraphics".
var UnitDirectory = ""

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Getenv))
}

// includeFlags collects repeated -I flags.
type includeFlags []string

func (f *includeFlags) String() string { return strings.Join(*f, string(os.PathListSeparator)) }

func (f *includeFlags) Set(v string) error {
	*f = append(*f, v)
	return nil
}

// parseFlags builds the configuration from defaults, the environment and
// args, in that order of precedence.
func parseFlags(args []string, stderr io.Writer, getenv func(string) string) (config.Config, bool, error) {
	cfg := config.Defaults()
	if err := config.ApplyEnv(&cfg, getenv); err != nil {
		return cfg, false, err
	}

	fs := flag.NewFlagSet("agraphics", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: agraphics [flags] <unit>")
		fs.PrintDefaults()
	}

	var (
		includes    includeFlags
		memLimit    string
		previewSize string
		logFormat   string
	)
	version := fs.Bool("v", false, "Print version and exit")
	fs.Var(&includes, "I", "Add a unit include path (repeatable)")
	fs.BoolVar(&cfg.Watch, "watch", false, "Run the unit again whenever its file changes")
	fs.BoolVar(&cfg.Preview.Enabled, "preview", false, "Show surfaces passed to agraphics.show in a window")
	fs.StringVar(&previewSize, "preview-size", fmt.Sprintf("%dx%d", cfg.Preview.Width, cfg.Preview.Height), "Preview window size as WxH")
	fs.BoolVar(&cfg.Preview.KeepAbove, "above", false, "Keep the preview window above other windows")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	fs.StringVar(&logFormat, "log-format", cfg.LogFormat.String(), "Log format: auto, text or json")
	fs.Uint64Var(&cfg.CPULimit, "cpu-limit", cfg.CPULimit, "Lua instruction limit per run (0 for none)")
	fs.StringVar(&memLimit, "mem-limit", "", "Lua memory limit per run, e.g. 256M (default none)")
	fs.StringVar(&cfg.CPUProfile, "cpuprofile", cfg.CPUProfile, "Write CPU profile to file")
	fs.StringVar(&cfg.MemProfile, "memprofile", cfg.MemProfile, "Write memory profile to file")

	if err := fs.Parse(args); err != nil {
		return cfg, false, err
	}
	if *version {
		return cfg, true, nil
	}

	var errs []error
	if fs.NArg() != 1 {
		fs.Usage()
		errs = append(errs, errors.New("expected exactly one unit"))
	} else {
		cfg.Unit = fs.Arg(0)
	}
	cfg.IncludePaths = append(append([]string(nil), includes...), cfg.IncludePaths...)
	if UnitDirectory != "" {
		cfg.IncludePaths = append(cfg.IncludePaths, UnitDirectory)
	}
	if memLimit != "" {
		n, err := config.ParseSize(memLimit)
		if err != nil {
			errs = append(errs, fmt.Errorf("-mem-limit: %w", err))
		}
		cfg.MemoryLimit = n
	}
	if w, h, err := parseSize(previewSize); err != nil {
		errs = append(errs, fmt.Errorf("-preview-size: %w", err))
	} else {
		cfg.Preview.Width, cfg.Preview.Height = w, h
	}
	format, err := config.ParseLogFormat(logFormat)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.LogFormat = format

	if err := errors.Join(errs...); err != nil {
		return cfg, false, err
	}
	return cfg, false, cfg.Validate()
}

// parseSize parses "WxH".
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q, want WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width in %q", s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height in %q", s)
	}
	return w, h, nil
}

// newLogger returns the logger selected by cfg. Auto format writes text
// to a terminal and JSON otherwise.
func newLogger(cfg config.Config, w io.Writer) agraphics.Logger {
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	format := cfg.LogFormat
	if format == config.LogFormatAuto {
		format = config.LogFormatJSON
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			format = config.LogFormatText
		}
	}
	if format == config.LogFormatJSON {
		return agraphics.JSONLogger(w, level)
	}
	return agraphics.TextLogger(w, level)
}

func run(args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	cfg, version, err := parseFlags(args, stderr, getenv)
	if version {
		fmt.Fprintf(stdout, "agraphics version %s\n", Version)
		return 0
	}
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "agraphics: %v\n", err)
		return 1
	}

	logger := newLogger(cfg, stderr)
	if a, ok := logger.(*agraphics.SlogAdapter); ok {
		gg.SetLogger(a.Slog())
	}
	for _, w := range cfg.Check().Warnings {
		logger.Warn("configuration", "field", w.Field, "warning", w.Message)
	}

	profConfig := profiling.Config{
		CPUProfilePath: cfg.CPUProfile,
		MemProfilePath: cfg.MemProfile,
	}
	if profConfig.Enabled() {
		profiler := profiling.New(profConfig)
		if err := profiler.Start(); err != nil {
			fmt.Fprintf(stderr, "Failed to start profiling: %v\n", err)
			return 1
		}
		defer func() {
			if err := profiler.Stop(); err != nil {
				logger.Warn("failed to stop profiling", "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := agraphics.DefaultOptions()
	opts.IncludePaths = cfg.IncludePaths
	opts.CPULimit = cfg.CPULimit
	opts.MemoryLimit = cfg.MemoryLimit
	opts.Stdout = stdout
	opts.Logger = logger
	opts.WatchDebounce = cfg.WatchDebounce

	var window *preview.Window
	if cfg.Preview.Enabled {
		window = preview.NewWindow(preview.Config{
			Width:     cfg.Preview.Width,
			Height:    cfg.Preview.Height,
			Title:     cfg.Preview.Title + " - " + cfg.Unit,
			KeepAbove: cfg.Preview.KeepAbove,
		})
		window.SetErrorHandler(func(err error) {
			logger.Warn("preview window", "error", err)
		})
		opts.Show = window.Show
	}
	runner := agraphics.New(opts)

	execute := func(ctx context.Context) int {
		if !cfg.Watch {
			if err := runner.Run(ctx, cfg.Unit); err != nil {
				reportError(stderr, cfg.Unit, err)
				return 1
			}
			return 0
		}
		err := runner.Watch(ctx, cfg.Unit, func(err error) {
			if err != nil {
				reportError(stderr, cfg.Unit, err)
			}
		})
		if err != nil {
			reportError(stderr, cfg.Unit, err)
			return 1
		}
		s := runner.Metrics().Snapshot()
		logger.Info("watch stopped", "runs", s.Runs, "failures", s.Failures, "avg_run", s.AverageRun)
		return 0
	}

	if window == nil {
		return execute(ctx)
	}

	// The window owns the main goroutine; closing it ends the session.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	status := make(chan int, 1)
	go func() { status <- execute(ctx) }()

	if err := window.Run(ctx); err != nil && !errors.Is(err, preview.ErrWindowClosed) {
		logger.Error("preview window failed", "error", err)
	}
	cancel()
	return <-status
}

// reportError prints a failed unit run the way a compiler would.
func reportError(w io.Writer, unit string, err error) {
	var uerr *agraphics.UnitError
	if !errors.As(err, &uerr) {
		fmt.Fprintf(w, "agraphics: %v\n", err)
		return
	}
	if uerr.Kind == agraphics.KindNotFound {
		fmt.Fprintf(w, "Could not find agraphics unit '%s'.\n", unit)
		return
	}
	fmt.Fprintf(w, "error: %v\n", uerr.Err)
	fmt.Fprintf(w, "Error in the agraphics unit '%s'.\n", unit)
}
