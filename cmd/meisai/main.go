// Command meisai extracts a structured invoice record from a PDF or image
// file and prints it as JSON on standard output.
//
// Exit codes: 0 on success, 2 for a missing argument, 3 for unreadable or
// unsupported input, 4 when the recognition engine is unavailable, 1 for
// anything else. Failures additionally emit a JSON error object on standard
// error so scripted callers never have to parse log output.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tsawler/meisai"
	"github.com/tsawler/meisai/ocr"
	"github.com/tsawler/meisai/raster"
)

const (
	exitErr    = 1
	exitUsage  = 2
	exitInput  = 3
	exitEngine = 4
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// A .env beside the binary may carry TESSDATA_PREFIX and friends.
	_ = godotenv.Load()

	var (
		configPath    string
		languages     string
		page          int
		dpi           int
		minConfidence float64
		timeout       time.Duration
		pretty        bool
		verbose       bool
	)

	flag.StringVar(&configPath, "config", "", "Path to YAML configuration overriding heuristic defaults")
	flag.StringVar(&languages, "lang", "", "Comma-separated recognition languages (default jpn,eng)")
	flag.IntVar(&page, "page", 0, "1-based PDF page to extract (default 1)")
	flag.IntVar(&dpi, "dpi", 0, "PDF rasterization resolution (default 180)")
	flag.Float64Var(&minConfidence, "min-confidence", 0, "Recognition confidence cutoff (default 0.5)")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "Overall deadline for rasterization and recognition")
	flag.BoolVar(&pretty, "pretty", false, "Indent the JSON output")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if flag.NArg() < 1 {
		fail(exitUsage, "no input file path provided; usage: meisai [flags] <file>")
	}
	path := flag.Arg(0)

	config := meisai.DefaultConfig()
	if configPath != "" {
		loaded, err := meisai.LoadConfig(configPath)
		if err != nil {
			fail(exitErr, "invalid configuration: %v", err)
		}
		config = loaded
	}
	if languages != "" {
		config.Languages = strings.Split(languages, ",")
	}
	if page > 0 {
		config.Raster.Page = page
	}
	if dpi > 0 {
		config.Raster.DPI = dpi
	}
	if minConfidence > 0 {
		config.MinConfidence = minConfidence
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	engine := meisai.NewEngineWithConfig(config)
	defer engine.Close()

	start := time.Now()
	result, err := engine.ExtractFile(ctx, path)
	if err != nil {
		fail(classify(err), "extraction failed: %v", err)
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("extraction complete")

	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		fail(exitErr, "failed to encode result: %v", err)
	}
}

// classify maps an extraction error to its exit code: input problems and
// recognition-engine unavailability are distinct failure classes.
func classify(err error) int {
	switch {
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, raster.ErrUnsupportedFormat),
		errors.Is(err, raster.ErrNoPages):
		return exitInput
	case errors.Is(err, ocr.ErrNotEnabled):
		return exitEngine
	default:
		return exitErr
	}
}

// fail logs the error, emits the JSON error payload on stderr, and exits.
func fail(code int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Error().Msg(msg)

	payload, _ := json.Marshal(map[string]string{
		"status":  "error",
		"message": msg,
	})
	fmt.Fprintln(os.Stderr, string(payload))
	os.Exit(code)
}
