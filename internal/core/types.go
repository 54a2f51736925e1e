package core

import "context"

// Sim defines the minimal contract a point-cloud simulation session exposes
// to the drivers in cmd/ and the viewer.
type Sim interface {
	Name() string
	// Len returns the number of simulated points.
	Len() int
	// Step advances the simulation by one fixed time step.
	Step(ctx context.Context) error
	// CurrentTime returns the simulated seconds elapsed since construction.
	CurrentTime() float64
	// Running reports whether the caller-set time bound is still ahead.
	Running() bool
}

// Drive steps sim until it stops running, ctx is cancelled or maxSteps steps
// have been taken (maxSteps <= 0 means no step cap). It returns the number
// of completed steps.
func Drive(ctx context.Context, sim Sim, maxSteps int, onStep func(step int)) (int, error) {
	steps := 0
	for sim.Running() && (maxSteps <= 0 || steps < maxSteps) {
		if err := ctx.Err(); err != nil {
			return steps, err
		}
		if err := sim.Step(ctx); err != nil {
			return steps, err
		}
		steps++
		if onStep != nil {
			onStep(steps)
		}
	}
	return steps, nil
}
