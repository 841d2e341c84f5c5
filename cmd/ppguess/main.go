package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/ironsheep/ppguess/internal/analyzer"
	"github.com/ironsheep/ppguess/internal/apperr"
	"github.com/ironsheep/ppguess/internal/config"
	"github.com/ironsheep/ppguess/internal/exposure"
	"github.com/ironsheep/ppguess/internal/imaging"
	"github.com/ironsheep/ppguess/internal/logger"
	"github.com/ironsheep/ppguess/internal/plot"
	"github.com/ironsheep/ppguess/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logger.Logger.SetOutput(stderr)

	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			printVersion(stdout)
			return exitOK
		case "--help", "-h", "help":
			printUsage(stdout)
			return exitOK
		case "serve":
			return runServe(ctx, args[1:], stderr)
		case "analyze":
			args = args[1:]
		}
	}
	return runAnalyze(ctx, args, stdout, stderr)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "ppguess %s\n", Version)
	fmt.Fprintf(w, "  Build time: %s\n", BuildTime)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "ppguess - photo exposure checker")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  ppguess [flags] <image>           Analyze one image")
	fmt.Fprintln(w, "  ppguess analyze [flags] <image>   Same, explicit")
	fmt.Fprintln(w, "  ppguess serve [flags]             Run the MCP tool server on stdin/stdout")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Analyze flags:")
	analyzeFlags(&analyzeOptions{}, w).PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Findings are printed one per line:")
	for _, f := range exposure.AllFindings {
		fmt.Fprintf(w, "  %s\n", f)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintf(w, "  %s=debug|info|warn|error\n", config.EnvLogLevel)
	fmt.Fprintf(w, "  %s=text|json\n", config.EnvLogFormat)
	fmt.Fprintf(w, "  %s=DIR\n", config.EnvPlotDir)
	fmt.Fprintf(w, "  %s=true|false\n", config.EnvHue)
	fmt.Fprintf(w, "  %s=N\n", config.EnvMaxDimension)
	fmt.Fprintf(w, "  %s=NAME\n", config.EnvRegion)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit status: 0 ok, 1 analysis failure, 2 usage error.")
}

type analyzeOptions struct {
	json         bool
	plotDir      string
	hue          bool
	region       string
	maxDimension int
	commonOptions
}

type commonOptions struct {
	logLevel string
	envFile  string
}

func addCommonFlags(fs *pflag.FlagSet, o *commonOptions) {
	fs.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides "+config.EnvLogLevel+")")
	fs.StringVar(&o.envFile, "env-file", "", "Read environment from this file instead of ./.env")
}

func analyzeFlags(o *analyzeOptions, out io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("ppguess", pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.BoolVar(&o.json, "json", false, "Print the full report as JSON instead of finding lines")
	fs.StringVar(&o.plotDir, "plot-dir", "", "Write histogram, derivative, hue and contact-sheet PNGs to this directory")
	fs.BoolVar(&o.hue, "hue", false, "Compute the hue profile")
	fs.StringVar(&o.region, "region", "", "Analyze a named region: "+strings.Join(imaging.RegionNames, ", "))
	fs.IntVar(&o.maxDimension, "max-dimension", 0, "Downscale so neither side exceeds N pixels (0 = off)")
	addCommonFlags(fs, &o.commonOptions)
	return fs
}

// loadConfig reads the environment and applies flags that were set explicitly.
func loadConfig(fs *pflag.FlagSet, common commonOptions, apply func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(common.envFile)
	if err != nil {
		return nil, err
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = common.logLevel
	}
	if apply != nil {
		apply(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		return nil, apperr.NewConfigError("invalid logging configuration", err)
	}
	return cfg, nil
}

func runAnalyze(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opts analyzeOptions
	fs := analyzeFlags(&opts, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: ppguess [flags] <image>")
		return exitUsage
	}
	path := fs.Arg(0)

	cfg, err := loadConfig(fs, opts.commonOptions, func(c *config.Config) {
		if fs.Changed("plot-dir") {
			c.PlotDir = opts.plotDir
		}
		if fs.Changed("hue") {
			c.HueProfile = opts.hue
		}
		if fs.Changed("region") {
			c.Region = opts.region
		}
		if fs.Changed("max-dimension") {
			c.MaxDimension = opts.maxDimension
		}
	})
	if err != nil {
		fmt.Fprintf(stderr, "ppguess: %v\n", err)
		return exitUsage
	}
	if cfg.Region != "" && !slices.Contains(imaging.RegionNames, cfg.Region) {
		fmt.Fprintf(stderr, "ppguess: unknown region %q (want one of %s)\n", cfg.Region, strings.Join(imaging.RegionNames, ", "))
		return exitUsage
	}

	log := logger.WithField("path", path)
	a := analyzer.New(nil, analyzer.Options{
		Region:           cfg.Region,
		MaxDimension:     cfg.MaxDimension,
		HueProfile:       cfg.HueProfile || cfg.PlotDir != "",
		IncludeHistogram: opts.json,
	}, logger.Logger)

	report, err := a.Analyze(ctx, path)
	if err != nil {
		log.WithError(err).Error("analysis failed")
		return exitCode(err)
	}

	if report.Hue != nil {
		log.WithFields(logrus.Fields{
			"dominant_hue": report.Hue.DominantHue,
			"mean_hue":     report.Hue.MeanHue,
			"chromatic":    report.Hue.Chromatic,
		}).Info("hue profile")
	}

	if cfg.PlotDir != "" {
		if err := writePlots(report, cfg.PlotDir, path, log); err != nil {
			log.WithError(err).Error("plotting failed")
			return exitCode(err)
		}
	}

	if opts.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.WithError(err).Error("failed to write report")
			return exitFailure
		}
		return exitOK
	}
	if err := exposure.Print(stdout, report.Findings); err != nil {
		log.WithError(err).Error("failed to write findings")
		return exitFailure
	}
	return exitOK
}

func writePlots(report *analyzer.Report, dir, imagePath string, log logrus.FieldLogger) error {
	plots, err := plot.Render(report.HistogramSet(), report.Hue)
	if err != nil {
		return err
	}
	base := filepath.Base(imagePath)
	prefix := strings.TrimSuffix(base, filepath.Ext(base))
	paths, err := plots.Save(dir, prefix)
	if err != nil {
		return err
	}
	for _, p := range paths {
		log.WithField("file", p).Info("plot written")
	}
	return nil
}

func runServe(ctx context.Context, args []string, stderr io.Writer) int {
	var common commonOptions
	var maxDimension int

	fs := pflag.NewFlagSet("ppguess serve", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&maxDimension, "max-dimension", 0, "Downscale analyzed images so neither side exceeds N pixels (0 = off)")
	addCommonFlags(fs, &common)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(stderr, "usage: ppguess serve [flags]")
		return exitUsage
	}

	cfg, err := loadConfig(fs, common, func(c *config.Config) {
		if fs.Changed("max-dimension") {
			c.MaxDimension = maxDimension
		}
	})
	if err != nil {
		fmt.Fprintf(stderr, "ppguess: %v\n", err)
		return exitUsage
	}

	logger.WithFields(logrus.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	}).Debug("starting MCP server")

	srv := server.NewWithOptions(server.Options{
		Version:      Version,
		MaxDimension: cfg.MaxDimension,
	})
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Error("server error")
		return exitFailure
	}
	return exitOK
}

// exitCode maps an analysis error to the process exit status.
func exitCode(err error) int {
	if apperr.IsKind(err, apperr.KindArgument) {
		return exitUsage
	}
	return exitFailure
}
