package heat

import (
	"fmt"
	"math"

	"cupheat/pkg/cloud"
	"cupheat/pkg/material"
	"cupheat/pkg/neighbor"
)

// discretization bundles everything derived from a cloud and a material
// table that stays fixed for a solver's lifetime.
type discretization struct {
	kernel  kernel
	index   *neighbor.Index
	stencil *stencil
	bound   float64
	// limiting is the point whose stencil sets the bound.
	limiting int
}

func discretize(c *cloud.PointCloud, table material.Table, smoothing float64) (*discretization, error) {
	if c == nil || c.Len() == 0 {
		return nil, ErrEmptyCloud
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	for i, k := range c.Materials() {
		if !k.Valid() {
			return nil, fmt.Errorf("%w: point %d has unknown material %d", material.ErrInvalidMaterial, i, k)
		}
	}
	h := smoothing * c.Spacing()
	if !(h > 0) || math.IsInf(h, 0) {
		return nil, fmt.Errorf("%w: smoothing length %g (factor %g, spacing %g)",
			neighbor.ErrInvalidRadius, h, smoothing, c.Spacing())
	}

	k := newKernel(h)
	idx, err := neighbor.Build(c.Positions(), k.support())
	if err != nil {
		return nil, err
	}
	st, err := buildStencil(c, table, idx, k)
	if err != nil {
		return nil, err
	}
	if err := st.checkCoupling(c, idx.Radius()); err != nil {
		return nil, err
	}
	bound, at := st.bound()
	return &discretization{kernel: k, index: idx, stencil: st, bound: bound, limiting: at}, nil
}

// StableTimeStep returns the largest time step a Solver accepts for c and
// table. Only WithSmoothingFactor affects the result.
func StableTimeStep(c *cloud.PointCloud, table material.Table, opts ...Option) (float64, error) {
	o := applyOptions(opts)
	d, err := discretize(c, table, o.smoothing)
	if err != nil {
		return 0, err
	}
	return d.bound, nil
}

func checkTimeStep(dt float64, d *discretization) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidTimeStep, dt)
	}
	if dt > d.bound {
		return fmt.Errorf("%w: dt %g > %g (limited by point %d)", ErrUnstableTimeStep, dt, d.bound, d.limiting)
	}
	return nil
}
