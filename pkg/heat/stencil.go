package heat

import (
	"fmt"

	"cupheat/pkg/cloud"
	"cupheat/pkg/material"
	"cupheat/pkg/neighbor"
)

// stencil holds the per-point update coefficients in compressed rows:
//
//	T_i' = T_i + dt · Σ_j coef_ij · (T_j - T_i)
//
// with coef_ij = k_ij / (ρ_i c_i) · 2 V_j F(d_ij) / d_ij. The heat flux
// ρ_i c_i V_i coef_ij is symmetric in i and j.
type stencil struct {
	offsets []int
	cols    []int32
	coef    []float64
	rowSum  []float64
	// capacity holds ρ_i c_i V_i, the heat capacity of each cell.
	capacity []float64
	// cross counts, per material, the links to points of another material.
	cross [material.Count]int
}

func buildStencil(c *cloud.PointCloud, table material.Table, idx *neighbor.Index, k kernel) (*stencil, error) {
	n := c.Len()
	vols := c.Volumes()
	mats := c.Materials()
	st := &stencil{
		offsets:  make([]int, n+1),
		cols:     make([]int32, 0, 2*idx.Stats().Edges),
		coef:     make([]float64, 0, 2*idx.Stats().Edges),
		rowSum:   make([]float64, n),
		capacity: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		nbs := idx.Neighbors(i)
		if len(nbs) == 0 {
			return nil, fmt.Errorf("%w: point %d (%s at %+v) within radius %g",
				ErrIsolatedPoint, i, mats[i], c.Position(i), idx.Radius())
		}
		own := table.Get(mats[i])
		heatCap := own.VolumetricHeatCapacity()
		st.capacity[i] = heatCap * vols[i]
		var sum float64
		for _, nb := range nbs {
			if mats[nb.Index] != mats[i] {
				st.cross[mats[i]]++
			}
			kij := table.InterfaceConductivity(mats[i], mats[nb.Index])
			w := kij / heatCap * k.laplacianWeight(vols[nb.Index], nb.Distance)
			st.cols = append(st.cols, int32(nb.Index))
			st.coef = append(st.coef, w)
			sum += w
		}
		st.rowSum[i] = sum
		st.offsets[i+1] = len(st.cols)
	}
	return st, nil
}

// checkCoupling fails when the cloud holds more than one material and some
// material has no link to any other, so that region could never exchange
// heat with the rest of the cloud.
func (st *stencil) checkCoupling(c *cloud.PointCloud, radius float64) error {
	present := 0
	for _, k := range material.Kinds {
		if c.Count(k) > 0 {
			present++
		}
	}
	if present < 2 {
		return nil
	}
	for _, k := range material.Kinds {
		if c.Count(k) > 0 && st.cross[k] == 0 {
			return fmt.Errorf("%w: %s (%d points) has no neighbour of another material within radius %g",
				ErrUncoupledRegion, k, c.Count(k), radius)
		}
	}
	return nil
}

// bound returns the largest dt for which every update is a convex combination
// of the previous field, and the row that sets it.
func (st *stencil) bound() (float64, int) {
	peak, at := 0.0, 0
	for i, s := range st.rowSum {
		if s > peak {
			peak, at = s, i
		}
	}
	if peak == 0 {
		return 0, at
	}
	return 1 / peak, at
}

// apply writes the updated values of rows [lo, hi) into next.
func (st *stencil) apply(cur, next []float64, dt float64, lo, hi int) {
	for i := lo; i < hi; i++ {
		ti := cur[i]
		var acc float64
		for e := st.offsets[i]; e < st.offsets[i+1]; e++ {
			acc += st.coef[e] * (cur[st.cols[e]] - ti)
		}
		next[i] = ti + dt*acc
	}
}
