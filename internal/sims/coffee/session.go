// Package coffee wires the cup generator and the heat solver into a
// simulation session: one solver bound to one generated cloud, identified by
// a run id and optionally recording aggregate history.
package coffee

import (
	"bytes"
	"context"
	"fmt"

	"cupheat/internal/core"
	"cupheat/internal/history"
	"cupheat/pkg/cup"
	"cupheat/pkg/heat"
	"cupheat/pkg/material"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder persists aggregate samples of a run. *history.Store satisfies it.
type Recorder interface {
	BeginRun(ctx context.Context, r history.Run) error
	Record(ctx context.Context, s history.Sample) error
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger, which is also handed to the solver.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRecorder records a sample at creation and every cfg.SampleEvery steps.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithRunID fixes the run id instead of generating one.
func WithRunID(id uuid.UUID) Option {
	return func(s *Session) { s.id = id }
}

// Session owns one solver. It satisfies core.Sim.
type Session struct {
	id       uuid.UUID
	cfg      Config
	solver   *heat.Solver
	initial  heat.Summary
	recorder Recorder
	log      *zap.Logger
}

var _ core.Sim = (*Session)(nil)

// New validates cfg, generates the cup and builds its solver.
func New(ctx context.Context, cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{id: uuid.New(), cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("run_id", s.id.String()))

	pc, err := cup.Generate(cfg.Geometry)
	if err != nil {
		return nil, fmt.Errorf("generate cup: %w", err)
	}
	solver, err := heat.New(pc, cfg.Table(), cfg.TimeStep, s.solverOptions()...)
	if err != nil {
		return nil, fmt.Errorf("build solver: %w", err)
	}
	s.solver = solver
	s.initial = solver.Summary()

	s.log.Info("session created",
		zap.Int("points", solver.Len()),
		zap.Float64("spacing", cfg.Geometry.PointSpacing),
		zap.Float64("dt", cfg.TimeStep),
		zap.Float64("dt_max", solver.MaxStableStep()),
		zap.Float64("duration", cfg.Duration),
	)
	if err := s.begin(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) begin(ctx context.Context) error {
	if s.recorder == nil || s.cfg.SampleEvery <= 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := WriteConfig(&buf, s.cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	err := s.recorder.BeginRun(ctx, history.Run{
		ID:       s.id.String(),
		Points:   s.solver.Len(),
		Spacing:  s.cfg.Geometry.PointSpacing,
		TimeStep: s.cfg.TimeStep,
		Config:   buf.String(),
	})
	if err != nil {
		return fmt.Errorf("register run: %w", err)
	}
	return s.record(ctx)
}

func (s *Session) solverOptions() []heat.Option {
	opts := []heat.Option{
		heat.WithLogger(s.log),
		heat.WithSmoothingFactor(s.cfg.SmoothingFactor),
		heat.WithTimeLimit(s.cfg.Duration),
	}
	if s.cfg.Workers > 0 {
		opts = append(opts, heat.WithWorkers(s.cfg.Workers))
	}
	return opts
}

// ID returns the run id.
func (s *Session) ID() uuid.UUID { return s.id }

// Name identifies the simulation.
func (s *Session) Name() string { return "coffee" }

// Config returns the configuration the session was built from.
func (s *Session) Config() Config { return s.cfg }

// Solver exposes the underlying solver for queries and export.
func (s *Session) Solver() *heat.Solver { return s.solver }

// Len returns the number of points.
func (s *Session) Len() int { return s.solver.Len() }

// CurrentTime returns the simulated seconds elapsed.
func (s *Session) CurrentTime() float64 { return s.solver.CurrentTime() }

// Running reports whether the configured duration is still ahead.
func (s *Session) Running() bool { return s.solver.Running() }

// Initial returns the aggregates at creation.
func (s *Session) Initial() heat.Summary { return s.initial }

// Summary returns the current aggregates.
func (s *Session) Summary() heat.Summary { return s.solver.Summary() }

// Step advances one time step and records a sample when one is due.
func (s *Session) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.solver.Step(); err != nil {
		return err
	}
	if every := uint64(s.cfg.SampleEvery); every > 0 && s.solver.Steps()%every == 0 {
		return s.record(ctx)
	}
	return nil
}

// Run takes n steps, stopping early if ctx is cancelled.
func (s *Session) Run(ctx context.Context, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", heat.ErrNegativeSteps, n)
	}
	for i := 0; i < n; i++ {
		if err := s.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Sample returns the current aggregates as a history sample.
func (s *Session) Sample() history.Sample {
	sum := s.solver.Summary()
	return history.Sample{
		RunID:  s.id.String(),
		Step:   sum.Steps,
		Time:   sum.Time,
		Coffee: sum.Average[material.Coffee],
		Cup:    sum.Average[material.CupMaterial],
		Air:    sum.Average[material.Air],
		Min:    sum.Min,
		Max:    sum.Max,
		Energy: sum.Energy,
	}
}

func (s *Session) record(ctx context.Context) error {
	if s.recorder == nil || s.cfg.SampleEvery <= 0 {
		return nil
	}
	if err := s.recorder.Record(ctx, s.Sample()); err != nil {
		return fmt.Errorf("record sample: %w", err)
	}
	return nil
}
