package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/insightdelivered/ride-history-converter/internal/api"
	"github.com/insightdelivered/ride-history-converter/internal/config"
	"github.com/insightdelivered/ride-history-converter/internal/logger"
	"github.com/insightdelivered/ride-history-converter/internal/metrics"
	"github.com/insightdelivered/ride-history-converter/internal/parser"
	"github.com/insightdelivered/ride-history-converter/internal/writer"
)

const version = "1.0.0"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "serve" {
		if err := serve(os.Args[2:]); err != nil {
			fatalf("Error: %v\n", err)
		}
		return
	}

	// CLI flags
	outputFlag := flag.String("output", "", "Output file path (defaults to a timestamped name such as 2018-01-15T10-30.xlsx)")
	formatFlag := flag.String("format", "", "Output format: xlsx or csv (default from config, xlsx)")
	splitFlag := flag.Bool("split-fare", false, "Add fare_after_split, the fare divided among everyone it was split with")
	configFlag := flag.String("config", "", "Optional YAML config file")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Ride History Converter

Converts a copy-pasted (or printed to PDF) ride-history page into a
spreadsheet with one row per ride.

Usage:
  ride-history-converter [flags] <rides.txt|rides.pdf>
  ride-history-converter serve [-addr :8080] [-config rides.yaml]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Convert to a timestamped .xlsx in the current directory
  ride-history-converter rides.txt

  # CSV with the per-person share of split fares
  ride-history-converter --format=csv --split-fare rides.txt

Columns:
  date, driver, ride_type, city, payment, split_with, requested_by,
  canceled, currency, fare [, fare_after_split]
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("ride-history-converter v%s\n", version)
		os.Exit(0)
	}

	if *helpFlag || flag.NArg() != 1 {
		flag.Usage()
		if *helpFlag {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fatalf("Error: %v\n", err)
	}
	if *formatFlag != "" {
		cfg.Output.Format = *formatFlag
	}
	if *splitFlag {
		cfg.Parser.SplitFare = true
	}

	log := logger.Setup(cfg.Logging, os.Stderr)

	outPath, err := processFile(flag.Arg(0), *outputFlag, cfg, log)
	if err != nil {
		fatalf("Error processing %s: %v\n", flag.Arg(0), err)
	}
	fmt.Println("Saved", outPath)
}

func processFile(inputPath, outputPath string, cfg *config.Config, log *slog.Logger) (string, error) {
	format, err := writer.ParseFormat(cfg.Output.Format)
	if err != nil {
		return "", err
	}
	w, err := writer.New(format)
	if err != nil {
		return "", err
	}
	if xw, ok := w.(*writer.XLSXWriter); ok {
		xw.Sheet = cfg.Output.Sheet
	}

	opts := []parser.Option{parser.WithLogger(log)}
	if cfg.Parser.SplitFare {
		opts = append(opts, parser.WithSplitFare())
	}
	conv, err := parser.New(opts...).ParseFile(inputPath)
	if err != nil {
		return "", fmt.Errorf("parsing failed: %w", err)
	}

	if len(conv.Rides) == 0 {
		log.Warn("no rides found; the text may not be a ride-history page", "input", inputPath)
	}

	outPath := outputPath
	if outPath == "" {
		outPath = filepath.Join(cfg.Output.Dir, writer.OutputName(time.Now(), w))
	}

	if err := writer.WriteToFile(w, outPath, conv); err != nil {
		return "", fmt.Errorf("write failed: %w", err)
	}
	log.Info("wrote rides", "output", outPath, "rides", len(conv.Rides))
	return outPath, nil
}

func serve(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addrFlag := fs.String("addr", "", "Listen address (default from config, :8080)")
	configFlag := fs.String("config", "", "Optional YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	if *addrFlag != "" {
		cfg.Server.Addr = *addrFlag
	}

	log := logger.Setup(cfg.Logging, os.Stderr)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	h := &api.Handler{
		Logger:    log,
		Metrics:   metrics.New(reg),
		Gatherer:  reg,
		SplitFare: cfg.Parser.SplitFare,
		Sheet:     cfg.Output.Sheet,
	}
	app := api.NewApp(h, api.Options{
		BodyLimit:   cfg.Server.BodyLimit,
		ReadTimeout: cfg.Server.ReadTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Listening on %s\n", cfg.Server.Addr)
	if err := api.Serve(ctx, app, cfg.Server.Addr, cfg.Server.ShutdownTimeout); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
