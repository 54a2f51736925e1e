// Package heat advances the temperature field of a point cloud with an
// explicit meshless diffusion scheme.
//
// Each point's Laplacian is estimated from its neighbours with a cubic-spline
// kernel weight (Brookshaw form). Pairs of different materials use the
// harmonic mean of the two conductivities, divided by each side's own
// volumetric heat capacity, which keeps the pairwise heat flux symmetric and
// total heat conserved. Points near the outer surface of the cloud have no
// neighbours beyond it, so that surface acts as a zero-flux boundary. The
// estimate vanishes for a linear field wherever a point's neighbourhood is
// point-symmetric, as at interior points of a regular lattice.
//
// Steps are Jacobi updates: every point reads the previous field, new values
// go into a scratch buffer, and the buffers are swapped under a write lock
// once all workers have finished.
package heat

import (
	"fmt"
	"io"
	"math"
	"sync"

	"cupheat/pkg/cloud"
	"cupheat/pkg/geometry"
	"cupheat/pkg/material"
	"cupheat/pkg/neighbor"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// parallelThreshold is the point count below which a step runs on the
// calling goroutine.
const parallelThreshold = 2048

// Solver owns a point cloud and steps its temperature field. Queries are
// safe for concurrent use with each other and with Step; Step and Run must
// not be called concurrently with themselves.
type Solver struct {
	stepMu sync.Mutex

	mu      sync.RWMutex
	cloud   *cloud.PointCloud
	table   material.Table
	disc    *discretization
	dt      float64
	steps   uint64
	limit   float64
	scratch []float64

	workers int
	log     *zap.Logger
}

// New builds a solver over c. The solver takes ownership of c; callers must
// not modify it afterwards. New fails if dt is not positive or exceeds the
// stability bound of c and table.
func New(c *cloud.PointCloud, table material.Table, dt float64, opts ...Option) (*Solver, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidTimeStep, dt)
	}
	o := applyOptions(opts)
	d, err := discretize(c, table, o.smoothing)
	if err != nil {
		return nil, err
	}
	if err := checkTimeStep(dt, d); err != nil {
		return nil, err
	}

	s := &Solver{
		cloud:   c,
		table:   table,
		disc:    d,
		dt:      dt,
		limit:   o.limit,
		scratch: make([]float64, c.Len()),
		workers: o.workers,
		log:     o.logger,
	}
	stats := d.index.Stats()
	s.log.Debug("heat solver ready",
		zap.Int("points", stats.Points),
		zap.Int("edges", stats.Edges),
		zap.Int("min_degree", stats.MinDegree),
		zap.Int("max_degree", stats.MaxDegree),
		zap.Float64("radius", d.index.Radius()),
		zap.Float64("dt", dt),
		zap.Float64("dt_max", d.bound),
		zap.Int("workers", s.workers),
	)
	return s, nil
}

// Step advances the field by one time step.
func (s *Solver) Step() error {
	s.stepMu.Lock()
	defer s.stepMu.Unlock()
	return s.step()
}

// Run performs n consecutive steps. It stops at the first error.
func (s *Solver) Run(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeSteps, n)
	}
	s.stepMu.Lock()
	defer s.stepMu.Unlock()
	for i := 0; i < n; i++ {
		if err := s.step(); err != nil {
			return err
		}
	}
	return nil
}

// RunUntil steps until the simulated time reaches t, taking the smallest
// number of whole steps that does so. It returns the number of steps taken.
func (s *Solver) RunUntil(t float64) (int, error) {
	s.stepMu.Lock()
	defer s.stepMu.Unlock()

	s.mu.RLock()
	done, dt := s.steps, s.dt
	s.mu.RUnlock()

	target := math.Ceil(t/dt - 1e-9)
	if math.IsNaN(target) || target <= float64(done) {
		return 0, nil
	}
	n := int(target - float64(done))
	for i := 0; i < n; i++ {
		if err := s.step(); err != nil {
			return i, err
		}
	}
	return n, nil
}

func (s *Solver) step() error {
	s.mu.RLock()
	cur := s.cloud.Field()
	next := s.scratch
	n := len(cur)
	if err := s.compute(cur, next); err != nil {
		s.mu.RUnlock()
		return err
	}
	err := s.checkField(cur, next)
	s.mu.RUnlock()
	if err != nil {
		s.log.Error("divergence guard tripped", zap.Uint64("step", s.Steps()+1), zap.Error(err))
		return err
	}

	s.mu.Lock()
	prev, err := s.cloud.SwapField(next)
	if err == nil {
		s.scratch = prev
		s.steps++
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("commit field of %d points: %w", n, err)
	}
	return nil
}

// compute fills next from cur. Each row is summed in neighbour order on a
// single goroutine, so the result does not depend on the worker count.
func (s *Solver) compute(cur, next []float64) error {
	n := len(cur)
	st := s.disc.stencil
	workers := s.workers
	if n < parallelThreshold || workers == 1 {
		st.apply(cur, next, s.dt, 0, n)
		return nil
	}
	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() error {
			st.apply(cur, next, s.dt, lo, hi)
			return nil
		})
	}
	return g.Wait()
}

// checkField rejects a candidate field with non-finite values or values
// outside the previous field's range. With a stable dt every update is a
// convex combination of its neighbours, so neither can happen.
func (s *Solver) checkField(cur, next []float64) error {
	lo, hi := cur[0], cur[0]
	for _, v := range cur {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	tol := 1e-9 * (math.Max(math.Abs(lo), math.Abs(hi)) + 1)
	for i, v := range next {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < lo-tol || v > hi+tol {
			return fmt.Errorf("%w: point %d reached %g outside [%g, %g]", ErrDivergence, i, v, lo, hi)
		}
	}
	return nil
}

// SetTimeLimit sets the simulated time after which Running reports false.
// A non-positive limit removes it.
func (s *Solver) SetTimeLimit(seconds float64) {
	s.mu.Lock()
	s.limit = seconds
	s.mu.Unlock()
}

// TimeLimit returns the current time limit, or 0 when none is set.
func (s *Solver) TimeLimit() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !(s.limit > 0) {
		return 0
	}
	return s.limit
}

// Running reports whether the caller should keep stepping: true while no
// time limit is set or the limit has not been reached. It never steps.
func (s *Solver) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !(s.limit > 0) {
		return true
	}
	return s.currentTime() < s.limit
}

// CurrentTime returns the simulated seconds since construction.
func (s *Solver) CurrentTime() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentTime()
}

func (s *Solver) currentTime() float64 { return float64(s.steps) * s.dt }

// Steps returns the number of committed steps.
func (s *Solver) Steps() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.steps
}

// TimeStep returns dt.
func (s *Solver) TimeStep() float64 { return s.dt }

// MaxStableStep returns the stability bound of the solver's cloud.
func (s *Solver) MaxStableStep() float64 { return s.disc.bound }

// Materials returns the material table.
func (s *Solver) Materials() material.Table { return s.table }

// Spacing returns the point spacing of the underlying cloud.
func (s *Solver) Spacing() float64 { return s.cloud.Spacing() }

// Len returns the number of points.
func (s *Solver) Len() int { return s.cloud.Len() }

// Point returns a copy of point i with its current temperature.
func (s *Solver) Point(i int) cloud.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloud.Point(i)
}

// Temperature returns the current temperature of point i.
func (s *Solver) Temperature(i int) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloud.Temperature(i)
}

// Temperatures returns a copy of the current field.
func (s *Solver) Temperatures() []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloud.Temperatures()
}

// Position returns the position of point i.
func (s *Solver) Position(i int) geometry.Vec3 { return s.cloud.Position(i) }

// Material returns the material of point i.
func (s *Solver) Material(i int) material.Kind { return s.cloud.Material(i) }

// Count returns how many points carry material k.
func (s *Solver) Count(k material.Kind) int { return s.cloud.Count(k) }

// Neighbors returns the interaction neighbours of point i. The slice is
// shared and must not be modified.
func (s *Solver) Neighbors(i int) []neighbor.Neighbor { return s.disc.index.Neighbors(i) }

// NeighborStats returns the degree statistics of the interaction graph.
func (s *Solver) NeighborStats() neighbor.Stats { return s.disc.index.Stats() }

// Snapshot captures the current field for export.
func (s *Solver) Snapshot(runID string) cloud.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloud.Snapshot(cloud.Meta{RunID: runID, Time: s.currentTime(), Steps: s.steps})
}

// WriteSnapshot writes the current field as MessagePack.
func (s *Solver) WriteSnapshot(w io.Writer, runID string) error {
	return cloud.WriteMsgpack(w, s.Snapshot(runID))
}

// WriteVTK writes the current field as a legacy VTK point cloud.
func (s *Solver) WriteVTK(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	title := fmt.Sprintf("cupheat t=%gs step=%d", s.currentTime(), s.steps)
	return s.cloud.WriteVTK(w, title)
}
