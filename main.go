package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/mweagle/goscore/app"
	"github.com/mweagle/goscore/buildinfo"
	"oss.terrastruct.com/d2/d2themes/d2themescatalog"
)

// //////////////////////////////////////////////////////////////////////////////
// commandLineArgs
type commandLineArgs struct {
	logLevelValue   int
	inputFile       string
	outputDirectory string
	lightTheme      int64
	darkTheme       int64
	watch           bool
	quiet           bool
	noSVG           bool
}

func (cla *commandLineArgs) parseCommandLine(_ *slog.Logger) error {
	logLevelString := ""

	flag.StringVar(&logLevelString, "level", "INFO", "Logging verbosity level. Must be one of: {DEBUG, INFO, WARN, ERROR}.")
	flag.StringVar(&cla.inputFile, "input", "", "Full filepath to the score definition (.json, .yaml) to be evaluated.")
	flag.StringVar(&cla.outputDirectory, "output", "", "Path to output directory for created files. Defaults to inputFile parent directory.")
	flag.Int64Var(&cla.lightTheme, "lightTheme", d2themescatalog.NeutralGrey.ID, "Light theme ID to use for generated SVG. Defaults to NeutralGrey.")
	flag.Int64Var(&cla.darkTheme, "darkTheme", d2themescatalog.DarkMauve.ID, "Dark theme ID to use for generated SVG. Defaults to DarkMauve.")
	flag.BoolVar(&cla.watch, "watch", false, "Watch the definition and recompute on every change.")
	flag.BoolVar(&cla.quiet, "quiet", false, "Don't print the summary to stdout.")
	flag.BoolVar(&cla.noSVG, "noSVG", false, "Skip rendering the D2 report to SVG.")
	flag.Parse()

	// Parse the verbosity level
	switch strings.ToLower(logLevelString) {
	case "debug":
		cla.logLevelValue = int(slog.LevelDebug)
	case "info":
		cla.logLevelValue = int(slog.LevelInfo)
	case "warn":
		cla.logLevelValue = int(slog.LevelWarn)
	case "error":
		cla.logLevelValue = int(slog.LevelError)
	default:
		return fmt.Errorf("invalid log level specified: %s", logLevelString)
	}
	if len(cla.inputFile) <= 0 {
		return errors.New("empty inputFile path provided")
	}
	absPath, absPathErr := filepath.Abs(cla.inputFile)
	if absPathErr != nil {
		return absPathErr
	}
	cla.inputFile = absPath
	if len(cla.outputDirectory) <= 0 {
		cla.outputDirectory = path.Dir(cla.inputFile)
	}
	return nil
}

// //////////////////////////////////////////////////////////////////////////////
//
// _ __  __ _(_)_ _
// | '  \/ _` | | ' \
// |_|_|_\__,_|_|_||_|
//
// //////////////////////////////////////////////////////////////////////////////
func main() {
	lvl := &slog.LevelVar{}
	lvl.Set(slog.LevelInfo)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	}))
	cla := commandLineArgs{}
	parseError := cla.parseCommandLine(logger)
	if parseError != nil {
		logger.Error("Failed to parse command line arguments", "error", parseError)
		os.Exit(-1)
	}
	lvl.Set(slog.Level(cla.logLevelValue))
	logger.Info("Welcome to goscore!",
		"version", buildinfo.BuildInfo(),
		"go", runtime.Version())

	params := &app.ApplicationParams{
		InputFile:       cla.inputFile,
		OutputDirectory: cla.outputDirectory,
		CreateDot:       true,
		CreateSVG:       !cla.noSVG,
		LightThemeID:    cla.lightTheme,
		DarkThemeID:     cla.darkTheme,
		Watch:           cla.watch,
	}
	if !cla.quiet {
		params.Console = os.Stdout
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApplication(params, logger)
	if err != nil {
		logger.Error("Failed to load definition", "error", err)
		os.Exit(-1)
	}
	outputs, err := application.Run(ctx)
	if err != nil {
		logger.Error("Failed to evaluate definition", "error", err)
		os.Exit(-1)
	}
	logger.Info("goscore generated", "chart", outputs.ChartPath, "report", outputs.D2Path)
}
