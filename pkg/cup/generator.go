// Package cup discretizes a liquid-filled vessel into a material-tagged
// point cloud.
//
// Sampling is stratified in cylindrical coordinates: radial layers are
// aligned with the coffee, wall and air-shell boundaries and axial layers
// with the coffee surface, so every region receives at least one layer no
// matter how thin it is. Samples sit at layer centres and carry the exact
// volume of the cell they represent. Generation is deterministic.
package cup

import (
	"errors"
	"fmt"
	"math"

	"cupheat/pkg/cloud"
	"cupheat/pkg/geometry"
	"cupheat/pkg/material"

	"gonum.org/v1/gonum/floats"
)

// MaxPoints bounds the size of a generated cloud.
const MaxPoints = 4_000_000

var (
	// ErrSparseRegion is returned when a material class ends up without points.
	ErrSparseRegion = errors.New("material region has no sample points")
	// ErrTooManyPoints is returned when the spacing would produce more than MaxPoints samples.
	ErrTooManyPoints = errors.New("point spacing too fine")
)

// layer is one radial or axial slab [lo, hi] sampled at centre.
type layer struct {
	centre, lo, hi float64
}

// Generate validates params and builds the point cloud.
func Generate(params geometry.Parameters) (*cloud.PointCloud, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if est := params.EstimatedPoints(); est > MaxPoints {
		return nil, fmt.Errorf("%w: about %.0f points exceed the limit of %d", ErrTooManyPoints, est, MaxPoints)
	}

	spacing := params.PointSpacing
	radial := radialLayers(params)
	axial := stratify(0, params.CoffeeHeight, spacing)
	if params.Height > params.CoffeeHeight {
		axial = append(axial, stratify(params.CoffeeHeight, params.Height, spacing)...)
	}

	rings := make([]int, len(radial))
	perLayer := 0
	for i, r := range radial {
		rings[i] = ringSize(r.centre, spacing)
		perLayer += rings[i]
	}

	c := cloud.New(spacing, perLayer*len(axial))
	for _, z := range axial {
		dz := z.hi - z.lo
		for i, r := range radial {
			n := rings[i]
			kind := params.Classify(r.centre, z.centre)
			temp := params.Temperature(kind)
			volume := math.Pi * (r.hi*r.hi - r.lo*r.lo) / float64(n) * dz
			for k := 0; k < n; k++ {
				theta := 2 * math.Pi * float64(k) / float64(n)
				c.Add(cloud.Point{
					Position: geometry.Vec3{
						X: r.centre * math.Cos(theta),
						Y: r.centre * math.Sin(theta),
						Z: z.centre,
					},
					Temperature: temp,
					Material:    kind,
					Volume:      volume,
				})
			}
		}
	}

	for _, k := range material.Kinds {
		if c.Count(k) == 0 {
			return nil, fmt.Errorf("%w: %s (spacing %g)", ErrSparseRegion, k, spacing)
		}
	}
	return c, nil
}

// radialLayers splits the coffee disk, the wall and the air shell. The first
// coffee layer is the axis column, sampled once at r = 0.
func radialLayers(p geometry.Parameters) []layer {
	core := stratify(0, p.InnerRadius, p.PointSpacing)
	core[0].centre = 0
	layers := append(core, stratify(p.InnerRadius, p.OuterRadius(), p.PointSpacing)...)
	return append(layers, stratify(p.OuterRadius(), p.BoundingRadius(), p.PointSpacing)...)
}

// stratify splits [lo, hi] into the whole number of equal layers closest to
// the requested spacing, never fewer than one.
func stratify(lo, hi, spacing float64) []layer {
	n := int(math.Floor((hi-lo)/spacing + 0.5))
	if n < 1 {
		n = 1
	}
	edges := make([]float64, n+1)
	floats.Span(edges, lo, hi)
	out := make([]layer, n)
	for i := range out {
		out[i] = layer{centre: 0.5 * (edges[i] + edges[i+1]), lo: edges[i], hi: edges[i+1]}
	}
	return out
}

// ringSize returns how many angular samples a ring of radius r receives.
func ringSize(r, spacing float64) int {
	if r == 0 {
		return 1
	}
	n := int(math.Floor(2*math.Pi*r/spacing + 0.5))
	if n < 1 {
		n = 1
	}
	return n
}
