// Package main computes a Poisson sampling table and prints it as Go source.
//
// The output uses the layout of internal/sampling/table_data.go; review the
// diff before replacing the embedded table.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/hupe1980/segsample/internal/sampling/gen"
)

var (
	coverage    = flag.Float64("q", 0.999, "probability to cover the full top in all segments")
	minSegments = flag.Int("min-segments", 2, "smallest segment count (inclusive)")
	maxSegments = flag.Int("max-segments", 1000, "largest segment count (exclusive)")
	minTop      = flag.Int("min-top", 100, "smallest top param (inclusive)")
	maxTop      = flag.Int("max-top", 10000, "largest top param (exclusive)")
	topStep     = flag.Int("top-step", 50, "top param step")
	tolerance   = flag.Float64("tolerance", 0.05, "collapse sample sizes within this relative distance")
	workers     = flag.Int("workers", 0, "parallel workers (default: GOMAXPROCS)")
	pkg         = flag.String("pkg", "sampling", "package name of the generated file")
	varName     = flag.String("var", "poissonSearchSampling", "variable name of the generated table")
	output      = flag.String("o", "", "output file (default: stdout)")
	verbose     = flag.Bool("v", false, "verbose output")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg := gen.Config{
		Coverage:    *coverage,
		MinSegments: *minSegments,
		MaxSegments: *maxSegments,
		MinTop:      *minTop,
		MaxTop:      *maxTop,
		TopStep:     *topStep,
		Tolerance:   *tolerance,
		Workers:     *workers,
	}

	start := time.Now()
	entries, err := gen.Generate(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Debug("table generated",
		"entries", len(entries),
		"elapsed", time.Since(start),
	)

	w := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if err := gen.Render(w, *pkg, *varName, entries); err != nil {
		return err
	}
	logger.Info("table written", "entries", len(entries), "output", *output)
	return nil
}
