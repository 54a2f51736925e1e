package coffee

import (
	"context"
	"fmt"
	"math"

	"cupheat/pkg/cup"
	"cupheat/pkg/heat"
	"cupheat/pkg/material"
)

// CoolingResult summarises a headless cooling run.
type CoolingResult struct {
	Points     int
	Edges      int
	TimeStep   float64
	StableStep float64

	// StepsSimulated counts committed steps.
	StepsSimulated int
	Time           float64

	Initial  [material.Count]float64
	Final    [material.Count]float64
	FinalMin float64
	FinalMax float64

	// EnergyDrift is the relative change in total heat over the run.
	EnergyDrift float64
	// CoffeeMonotone is true when the coffee average never rose.
	CoffeeMonotone bool
	// ExtremaBounded is true when the field maximum never rose and the
	// minimum never fell.
	ExtremaBounded bool
}

// CoffeeDrop returns how many kelvin the coffee average lost.
func (r CoolingResult) CoffeeDrop() float64 {
	return r.Initial[material.Coffee] - r.Final[material.Coffee]
}

// CupRise returns how many kelvin the cup average gained.
func (r CoolingResult) CupRise() float64 {
	return r.Final[material.CupMaterial] - r.Initial[material.CupMaterial]
}

// CoolingCurve runs cfg for steps steps and reports how the field evolved.
func CoolingCurve(ctx context.Context, cfg Config, steps int) (CoolingResult, error) {
	if steps < 0 {
		return CoolingResult{}, fmt.Errorf("%w: %d", heat.ErrNegativeSteps, steps)
	}
	cfg.Duration = 0
	cfg.SampleEvery = 0
	sess, err := New(ctx, cfg)
	if err != nil {
		return CoolingResult{}, err
	}
	solver := sess.Solver()
	initial := sess.Initial()

	res := CoolingResult{
		Points:         solver.Len(),
		Edges:          solver.NeighborStats().Edges,
		TimeStep:       solver.TimeStep(),
		StableStep:     solver.MaxStableStep(),
		Initial:        initial.Average,
		CoffeeMonotone: true,
		ExtremaBounded: true,
	}

	const tol = 1e-9
	prev := initial
	for i := 0; i < steps; i++ {
		if err := sess.Step(ctx); err != nil {
			return res, err
		}
		cur := solver.Summary()
		if cur.Average[material.Coffee] > prev.Average[material.Coffee]+tol {
			res.CoffeeMonotone = false
		}
		if cur.Max > prev.Max+tol || cur.Min < prev.Min-tol {
			res.ExtremaBounded = false
		}
		prev = cur
	}

	res.StepsSimulated = int(prev.Steps)
	res.Time = prev.Time
	res.Final = prev.Average
	res.FinalMin = prev.Min
	res.FinalMax = prev.Max
	if initial.Energy != 0 {
		res.EnergyDrift = math.Abs(prev.Energy-initial.Energy) / math.Abs(initial.Energy)
	}
	return res, nil
}

// WithStableTimeStep returns cfg with its time step reduced to safety times
// the stability bound of the generated cloud when it would exceed it.
// safety must lie in (0, 1].
func WithStableTimeStep(cfg Config, safety float64) (Config, error) {
	if !(safety > 0 && safety <= 1) {
		return cfg, fmt.Errorf("%w: safety factor %g outside (0, 1]", ErrInvalidConfig, safety)
	}
	pc, err := cup.Generate(cfg.Geometry)
	if err != nil {
		return cfg, err
	}
	bound, err := heat.StableTimeStep(pc, cfg.Table(), heat.WithSmoothingFactor(cfg.SmoothingFactor))
	if err != nil {
		return cfg, err
	}
	if limit := safety * bound; cfg.TimeStep > limit {
		cfg.TimeStep = limit
	}
	return cfg, nil
}
