// Command spacing-sweep runs the same scenario at several point spacings
// and prints how the cooling result converges.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"

	"cupheat/internal/log"
	"cupheat/internal/sims/coffee"
	"cupheat/pkg/material"
)

func main() {
	configPath := flag.String("config", "", "YAML scenario file (defaults when empty)")
	spacingList := flag.String("spacings", "0.02,0.015,0.01,0.0075", "comma separated point spacings in metres")
	duration := flag.Float64("duration", 30, "simulated seconds per spacing")
	workers := flag.Int("workers", runtime.NumCPU(), "concurrent runs")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	base := coffee.DefaultConfig()
	if *configPath != "" {
		var err error
		if base, err = coffee.LoadConfig(*configPath); err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	base.Duration = *duration

	spacings, err := parseSpacings(*spacingList)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Sweeping %d spacings (%d workers, %gs each)\n", len(spacings), *workers, base.Duration)
	records := coffee.SpacingSweep(ctx, base, spacings, *workers)
	if failed := printTable(os.Stdout, records); failed > 0 {
		log.Warnf("%d of %d runs failed", failed, len(records))
	} else {
		log.Info("sweep complete")
	}
}

func parseSpacings(list string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("spacing %q: %w", field, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no spacings given")
	}
	return out, nil
}

// printTable writes one row per record and returns how many runs failed.
func printTable(w io.Writer, records []coffee.SweepRecord) int {
	fmt.Fprintf(w, "%9s %8s %6s %9s %10s %10s %10s %10s\n",
		"spacing", "points", "steps", "dt", "coffee", "drop", "cup rise", "drift")
	failed := 0
	for _, rec := range records {
		if rec.Err != nil {
			failed++
			log.Errorw("spacing failed", "spacing", rec.Spacing, "error", rec.Err)
			fmt.Fprintf(w, "%9.4g error: %v\n", rec.Spacing, rec.Err)
			continue
		}
		r := rec.Result
		log.Debugw("spacing done", "spacing", rec.Spacing, "points", r.Points, "steps", rec.Steps, "dt", r.TimeStep)
		fmt.Fprintf(w, "%9.4g %8d %6d %9.4g %10.3f %10.3f %10.3f %10.2g\n",
			rec.Spacing, r.Points, rec.Steps, r.TimeStep, r.Final[material.Coffee], r.CoffeeDrop(), r.CupRise(), r.EnergyDrift)
	}
	return failed
}
