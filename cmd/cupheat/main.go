// Command cupheat runs a coffee cup cooling scenario headless and exports
// the final field.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strings"

	"cupheat/internal/core"
	"cupheat/internal/history"
	"cupheat/internal/log"
	"cupheat/internal/render"
	"cupheat/internal/sims/coffee"
	"cupheat/pkg/material"
)

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// overrides turns key=value pairs into a map, rejecting malformed entries.
func (l kvList) overrides() (map[string]string, error) {
	out := make(map[string]string, len(l))
	for _, kv := range l {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("%w: override %q is not key=value", coffee.ErrInvalidConfig, kv)
		}
		out[strings.TrimSpace(key)] = value
	}
	return out, nil
}

type options struct {
	configPath string
	sets       kvList
	maxSteps   int
	progress   int
	vtkPath    string
	packPath   string
	pngPath    string
	pngWidth   int
	pngScale   int
	historyDSN string
}

func main() {
	var opts options
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.StringVar(&opts.configPath, "config", "", "YAML scenario file (defaults when empty)")
	flag.Var(&opts.sets, "set", "parameter override in key=value form (repeatable)")
	flag.IntVar(&opts.maxSteps, "steps", 0, "cap on steps to take (0 runs the configured duration)")
	flag.IntVar(&opts.progress, "progress", 100, "log aggregates every n steps (0 disables)")
	flag.StringVar(&opts.vtkPath, "vtk", "", "write the final field as legacy VTK to this path")
	flag.StringVar(&opts.packPath, "snapshot", "", "write the final field as MessagePack to this path")
	flag.StringVar(&opts.pngPath, "png", "", "write the final cross-section as PNG to this path")
	flag.IntVar(&opts.pngWidth, "png-width", 240, "cross-section raster width in pixels")
	flag.IntVar(&opts.pngScale, "png-scale", 2, "cross-section pixel scale")
	flag.StringVar(&opts.historyDSN, "history", "", "sqlite database recording aggregate samples")
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warnw("interrupted", "error", err)
			return
		}
		log.Fatalf("cupheat: %v", err)
	}
}

func loadConfig(opts options) (coffee.Config, error) {
	cfg := coffee.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = coffee.LoadConfig(opts.configPath); err != nil {
			return cfg, err
		}
	}
	overrides, err := opts.sets.overrides()
	if err != nil {
		return cfg, err
	}
	log.Debugw("loading config", "path", opts.configPath, "overrides", overrides)
	if err := cfg.Apply(overrides); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func run(ctx context.Context, opts options, out io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	sessOpts := []coffee.Option{coffee.WithLogger(log.Logger())}
	if opts.historyDSN != "" {
		store, err := history.Open(ctx, opts.historyDSN)
		if err != nil {
			return err
		}
		defer store.Close()
		sessOpts = append(sessOpts, coffee.WithRecorder(store))
	}

	sess, err := coffee.New(ctx, cfg, sessOpts...)
	if err != nil {
		return err
	}
	solver := sess.Solver()

	var onStep func(int)
	if opts.progress > 0 {
		onStep = func(step int) {
			if step%opts.progress != 0 {
				return
			}
			sum := solver.Summary()
			log.Infow("progress",
				"step", sum.Steps,
				"time", sum.Time,
				"coffee", sum.Average[material.Coffee],
				"cup", sum.Average[material.CupMaterial],
				"air", sum.Average[material.Air],
			)
		}
	}
	steps, err := core.Drive(ctx, sess, opts.maxSteps, onStep)
	if err != nil {
		return fmt.Errorf("after %d steps: %w", steps, err)
	}

	initial, final := sess.Initial(), sess.Summary()
	log.Infof("run %s finished after %d steps (t=%gs)", sess.ID(), final.Steps, final.Time)
	fmt.Fprintf(out, "run %s: %d points, %d steps, t=%gs (dt=%g, bound=%.4g)\n",
		sess.ID(), sess.Len(), final.Steps, final.Time, solver.TimeStep(), solver.MaxStableStep())
	fmt.Fprintf(out, "%-8s %10s %10s\n", "material", "initial", "final")
	for _, k := range material.Kinds {
		fmt.Fprintf(out, "%-8s %10.3f %10.3f\n", k, initial.Average[k], final.Average[k])
	}
	fmt.Fprintf(out, "range %.3f..%.3f K, energy drift %.3g\n",
		final.Min, final.Max, relativeDrift(initial.Energy, final.Energy))

	return export(opts, sess)
}

func relativeDrift(before, after float64) float64 {
	if before == 0 {
		return 0
	}
	return math.Abs(after-before) / math.Abs(before)
}

func export(opts options, sess *coffee.Session) error {
	solver := sess.Solver()
	if opts.vtkPath != "" {
		if err := writeFile(opts.vtkPath, solver.WriteVTK); err != nil {
			return err
		}
	}
	if opts.packPath != "" {
		err := writeFile(opts.packPath, func(w io.Writer) error {
			return solver.WriteSnapshot(w, sess.ID().String())
		})
		if err != nil {
			return err
		}
	}
	if opts.pngPath != "" {
		initial := sess.Initial()
		levels := render.DefaultSectionOptions().Levels
		raster := render.Section(solver, solver.Temperatures(), render.SectionOptions{
			Width:  opts.pngWidth,
			Min:    initial.Min,
			Max:    initial.Max,
			Levels: levels,
		})
		err := writeFile(opts.pngPath, func(w io.Writer) error {
			return render.WritePNG(w, raster, render.HeatPalette(levels), opts.pngScale)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Infow("wrote", "path", path)
	return nil
}
